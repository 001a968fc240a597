package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/CaoYuhaoCarl/dialoguecraft/internal/agent"
	"github.com/CaoYuhaoCarl/dialoguecraft/internal/api"
	"github.com/CaoYuhaoCarl/dialoguecraft/internal/artifact"
	"github.com/CaoYuhaoCarl/dialoguecraft/internal/config"
	"github.com/CaoYuhaoCarl/dialoguecraft/internal/gateway"
	"github.com/CaoYuhaoCarl/dialoguecraft/internal/reference"
	"github.com/CaoYuhaoCarl/dialoguecraft/internal/session"
	"github.com/CaoYuhaoCarl/dialoguecraft/internal/store"
)

func main() {
	cfg := config.Load()

	// Open SQLite session index.
	db, err := store.OpenSQLite(filepath.Join(cfg.DataDir, cfg.IndexPath))
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	index, err := store.New(db)
	if err != nil {
		log.Fatalf("init store: %v", err)
	}

	// Artifact files live next to the index, under the same data dir.
	artifacts, err := artifact.NewStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("init artifact store: %v", err)
	}

	gw := buildGateway(cfg)

	drafter := agent.NewDraftAgent(gw, reference.NewFetcher(), cfg.GatewayTimeout)
	styler := agent.NewStyleAgent(gw, cfg.GatewayTimeout)

	sessions := session.NewManager(session.Deps{
		Drafter:   drafter,
		Styler:    styler,
		Artifacts: artifacts,
		Index:     index,
	})

	srv := api.New(sessions, index, artifacts, cfg.CORSOrigin)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Handler(),
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("shutting down...")
		httpServer.Shutdown(context.Background())
	}()

	fmt.Printf("dialoguecraft server listening on http://localhost:%s\n", cfg.Port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// buildGateway selects the completion backend. Without credentials for the
// selected provider the server still starts, on the stub client.
func buildGateway(cfg config.Config) gateway.Client {
	if cfg.UseStubs() {
		log.Printf("no API key for provider %q, using stub gateway", cfg.Provider)
		return &gateway.StubClient{}
	}
	switch cfg.Provider {
	case "claude":
		log.Println("using Claude gateway")
		return gateway.NewClaudeClient(cfg.AnthropicKey, gateway.WithClaudeModel(cfg.AnthropicModel))
	case "ollama":
		log.Println("using Ollama gateway")
		return gateway.NewOllamaClient(cfg.OllamaURL, gateway.WithOllamaModel(cfg.OllamaModel))
	default:
		log.Println("using OpenAI gateway")
		opts := []gateway.OpenAIOption{gateway.WithModel(cfg.OpenAIModel)}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, gateway.WithBaseURL(cfg.OpenAIBaseURL))
		}
		return gateway.NewOpenAIClient(cfg.OpenAIKey, opts...)
	}
}
