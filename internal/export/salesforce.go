package export

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kioskworks/sitescout/internal/model"
	"github.com/kioskworks/sitescout/internal/resilience"
	"github.com/kioskworks/sitescout/pkg/salesforce"
)

// SalesforceSink inserts leads through the Collections API.
type SalesforceSink struct {
	client salesforce.Client
	retry  resilience.RetryConfig
}

// NewSalesforceSink creates a sink inserting Lead records.
func NewSalesforceSink(client salesforce.Client) *SalesforceSink {
	return &SalesforceSink{
		client: client,
		retry:  resilience.DefaultRetryConfig(),
	}
}

func (s *SalesforceSink) Name() string { return "salesforce" }

// Push inserts all records in one collection call. Per-record rejections
// are logged; the sink errors when the call itself fails or every record
// is rejected.
func (s *SalesforceSink) Push(ctx context.Context, records []model.BusinessRecord) error {
	leads := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		leads = append(leads, leadFields(rec))
	}

	results, err := resilience.DoVal(ctx, s.retry, "salesforce insert leads",
		func(ctx context.Context) ([]salesforce.CollectionResult, error) {
			return s.client.InsertCollection(ctx, "Lead", leads)
		})
	if err != nil {
		return eris.Wrap(err, "export: salesforce insert leads")
	}

	var failed int
	for i, r := range results {
		if r.Success {
			continue
		}
		failed++
		name := ""
		if i < len(records) {
			name = records[i].Name
		}
		zap.L().Warn("salesforce lead rejected",
			zap.String("name", name),
			zap.Strings("errors", r.Errors))
	}
	if failed == len(records) && failed > 0 {
		return eris.Errorf("export: all %d salesforce leads rejected", failed)
	}
	return nil
}

// leadFields maps a business record onto the standard Lead object. The
// business name doubles as LastName because Lead requires one.
func leadFields(rec model.BusinessRecord) map[string]any {
	fields := map[string]any{
		"Company":    rec.Name,
		"LastName":   rec.Name,
		"PostalCode": rec.ZipCode,
		"LeadSource": "SiteScout",
	}
	if p := bestPhone(rec); p != "" {
		fields["Phone"] = p
	}
	if rec.Website != "" {
		fields["Website"] = rec.Website
	}
	if len(rec.Contact.Emails) > 0 {
		fields["Email"] = rec.Contact.Emails[0]
	}

	var desc []string
	if rec.OutreachNote != "" {
		desc = append(desc, rec.OutreachNote)
	}
	if len(rec.Contact.OwnerLines) > 0 {
		desc = append(desc, strings.Join(rec.Contact.OwnerLines, " "))
	}
	if len(desc) > 0 {
		fields["Description"] = strings.Join(desc, "\n")
	}
	return fields
}
