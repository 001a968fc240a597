package artifact

import (
	"bytes"
	"fmt"

	"github.com/CaoYuhaoCarl/dialoguecraft/internal/model"
)

// renderDraftMarkdown produces the human-readable rendering of a draft:
// title/context/goal header, body in a fenced block, then Key Points and
// Dialogue Intentions when non-empty. Section order is fixed.
func renderDraftMarkdown(d model.DialogueDraft) []byte {
	var b bytes.Buffer
	writeHeader(&b, "Dialogue Record", d.Metadata)

	b.WriteString("## Dialogue\n\n```\n")
	b.WriteString(d.Text)
	b.WriteString("\n```\n\n")

	writeBullets(&b, "## Key Points", d.KeyPoints)
	writeBullets(&b, "## Dialogue Intentions", d.Intentions)
	return b.Bytes()
}

// renderStyledMarkdown produces the rendering of a styled dialogue, embedding
// the origin draft so the document is self-describing.
func renderStyledMarkdown(sd model.StyledDialogue) []byte {
	var b bytes.Buffer
	writeHeader(&b, "Styled Dialogue", sd.Metadata)

	b.WriteString("## Personas\n\n")
	fmt.Fprintf(&b, "**User character traits**: %s\n\n", sd.UserTraits)
	fmt.Fprintf(&b, "**AI character traits**: %s\n\n", sd.AITraits)

	b.WriteString("## Final Dialogue\n\n```\n")
	b.WriteString(sd.Text)
	b.WriteString("\n```\n\n")

	if sd.Origin.Text != "" {
		b.WriteString("## Original Draft\n\n```\n")
		b.WriteString(sd.Origin.Text)
		b.WriteString("\n```\n\n")
		writeBullets(&b, "### Key Points", sd.Origin.KeyPoints)
		writeBullets(&b, "### Dialogue Intentions", sd.Origin.Intentions)
	}
	return b.Bytes()
}

func writeHeader(b *bytes.Buffer, title string, meta model.Metadata) {
	fmt.Fprintf(b, "# %s: %s\n\n", title, headline(meta.Context))
	fmt.Fprintf(b, "**Generated**: %s\n\n", meta.CreationTime)
	fmt.Fprintf(b, "**Context**: %s\n\n", meta.Context)
	fmt.Fprintf(b, "**Goal**: %s\n\n", meta.Goal)
}

func writeBullets(b *bytes.Buffer, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(heading)
	b.WriteString("\n\n")
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteByte('\n')
}

// headline clips the context to a short title fragment.
func headline(context string) string {
	runes := []rune(context)
	if len(runes) <= 30 {
		return context
	}
	return string(runes[:30]) + "..."
}
