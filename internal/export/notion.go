package export

import (
	"context"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kioskworks/sitescout/internal/model"
	"github.com/kioskworks/sitescout/internal/resilience"
	"github.com/kioskworks/sitescout/pkg/notion"
)

// NotionSink creates one page per lead in a Notion database.
type NotionSink struct {
	client notion.Client
	dbID   string
	retry  resilience.RetryConfig
}

// NewNotionSink creates a sink writing to the given database.
func NewNotionSink(client notion.Client, dbID string) *NotionSink {
	return &NotionSink{
		client: client,
		dbID:   dbID,
		retry:  resilience.DefaultRetryConfig(),
	}
}

func (s *NotionSink) Name() string { return "notion" }

// Push creates a page per record. Per-record failures are logged and
// skipped; the sink errors only when every record fails.
func (s *NotionSink) Push(ctx context.Context, records []model.BusinessRecord) error {
	var failed int
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "export: notion push cancelled")
		}

		req := &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(s.dbID),
			},
			Properties: leadProperties(rec),
		}

		err := resilience.Do(ctx, s.retry, "notion create lead", func(ctx context.Context) error {
			_, err := s.client.CreatePage(ctx, req)
			return err
		})
		if err != nil {
			zap.L().Warn("notion lead page failed",
				zap.String("name", rec.Name),
				zap.String("zip", rec.ZipCode),
				zap.Error(err))
			failed++
		}
	}
	if failed == len(records) && failed > 0 {
		return eris.Errorf("export: all %d notion lead pages failed", failed)
	}
	return nil
}

// leadProperties maps a business record onto the lead database schema.
// Name is the title; everything textual goes in as rich text.
func leadProperties(rec model.BusinessRecord) notionapi.Properties {
	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Type:  notionapi.PropertyTypeTitle,
			Title: richText(rec.Name),
		},
		"ZIP": notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: richText(rec.ZipCode),
		},
		"Category": notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: richText(rec.Category),
		},
		"Phone": notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: richText(bestPhone(rec)),
		},
		"Daily Hours": notionapi.NumberProperty{
			Type:   notionapi.PropertyTypeNumber,
			Number: rec.DailyHours,
		},
	}
	if rec.Website != "" {
		props["URL"] = notionapi.URLProperty{
			Type: notionapi.PropertyTypeURL,
			URL:  rec.Website,
		}
	}
	if len(rec.Contact.Emails) > 0 {
		props["Emails"] = notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: richText(strings.Join(rec.Contact.Emails, ", ")),
		}
	}
	if rec.OutreachNote != "" {
		props["Outreach Note"] = notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: richText(rec.OutreachNote),
		}
	}
	return props
}

// bestPhone prefers the official listing phone over scraped numbers.
func bestPhone(rec model.BusinessRecord) string {
	if rec.Phone != "" {
		return rec.Phone
	}
	if len(rec.Contact.Phones) > 0 {
		return rec.Contact.Phones[0]
	}
	return ""
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{
		{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}},
	}
}
