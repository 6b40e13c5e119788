// Package export delivers businesses with contact data to external CRM
// sinks. Sinks are optional: a run without any configured sink still
// produces the CSV report.
package export

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kioskworks/sitescout/internal/model"
)

// Sink pushes lead records into one external system.
type Sink interface {
	Name() string
	Push(ctx context.Context, records []model.BusinessRecord) error
}

// PushAll sends records to every sink. A failing sink is logged and does
// not block the others; the first error is returned so the caller can
// surface it.
func PushAll(ctx context.Context, sinks []Sink, records []model.BusinessRecord) error {
	if len(records) == 0 {
		return nil
	}

	var firstErr error
	for _, s := range sinks {
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "export: push cancelled")
		}
		if err := s.Push(ctx, records); err != nil {
			zap.L().Warn("lead sink push failed",
				zap.String("sink", s.Name()),
				zap.Int("records", len(records)),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		zap.L().Info("leads pushed",
			zap.String("sink", s.Name()),
			zap.Int("records", len(records)))
	}
	return firstErr
}
