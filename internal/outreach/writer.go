// Package outreach generates one-sentence outreach notes for businesses
// with contact data. Optional: the pipeline runs without it when no API key
// is configured.
package outreach

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/kioskworks/sitescout/internal/model"
	"github.com/kioskworks/sitescout/pkg/anthropic"
)

const systemPrompt = "You write one-sentence cold outreach openers for a kiosk placement team. " +
	"Given a business and whatever was scraped from its website, produce a single friendly sentence " +
	"an account rep could open with. Mention the owner or manager by name if one appears. " +
	"Return only the sentence."

// Writer generates notes through the Anthropic API.
type Writer struct {
	client anthropic.Client
	model  string
}

// NewWriter creates a note writer. An empty model falls back to the
// package default.
func NewWriter(client anthropic.Client, noteModel string) *Writer {
	if noteModel == "" {
		noteModel = anthropic.DefaultModel
	}
	return &Writer{client: client, model: noteModel}
}

// OutreachNote produces a single-sentence note for the record. The caller
// treats an error as "no note"; the run never fails on this.
func (w *Writer) OutreachNote(ctx context.Context, rec model.BusinessRecord) (string, error) {
	resp, err := w.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     w.model,
		MaxTokens: 150,
		System:    systemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt(rec)},
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "outreach: generate note")
	}

	note := strings.TrimSpace(resp.Text())
	if note == "" {
		return "", eris.New("outreach: empty note")
	}
	return firstLine(note), nil
}

// prompt renders the business facts the model needs, skipping empty fields.
func prompt(rec model.BusinessRecord) string {
	var b strings.Builder
	b.WriteString("Business: ")
	b.WriteString(rec.Name)
	b.WriteString("\nCategory: ")
	b.WriteString(rec.Category)
	b.WriteString("\nZIP: ")
	b.WriteString(rec.ZipCode)
	if rec.Website != "" {
		b.WriteString("\nWebsite: ")
		b.WriteString(rec.Website)
	}
	if len(rec.Contact.OwnerLines) > 0 {
		b.WriteString("\nFrom their website:\n")
		for _, line := range rec.Contact.OwnerLines {
			b.WriteString("- ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// firstLine guards against multi-line completions.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
