package artifact

import (
	"bytes"
	"fmt"
	"os"

	"github.com/yuin/goldmark"
)

// PreviewHTML renders the Markdown file of a persisted pair to HTML for
// in-browser preview.
func (s *Store) PreviewHTML(mdPath string) (string, error) {
	md, err := os.ReadFile(mdPath)
	if err != nil {
		return "", fmt.Errorf("read rendering: %w", err)
	}
	var buf bytes.Buffer
	if err := goldmark.Convert(md, &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
