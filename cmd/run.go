package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kioskworks/sitescout/internal/export"
	"github.com/kioskworks/sitescout/internal/fetcher"
	"github.com/kioskworks/sitescout/internal/model"
	"github.com/kioskworks/sitescout/internal/pipeline"
)

var (
	runInput  string
	runOutDir string
	runPush   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full qualification pipeline over an input file",
	Long:  "Reads ZIP codes from a local or remote CSV/XLSX file, enriches and qualifies each, discovers businesses around qualified ZIPs, scrapes contacts, and writes the partitioned CSV report.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rows, err := fetcher.Rows(ctx, runInput)
		if err != nil {
			return eris.Wrap(err, "read input")
		}
		records, err := pipeline.ParseRows(rows)
		if err != nil {
			return err
		}
		zap.L().Info("input parsed",
			zap.String("source", runInput),
			zap.Int("zips", len(records)))

		env, err := initPipeline(ctx, pipeline.Options{
			OnProgress: logProgress,
		})
		if err != nil {
			return err
		}
		defer env.Close()

		summary, err := executeRun(ctx, env, runInput, records, runOutDir, runPush)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

// executeRun drives one ledgered pipeline run and exports its report.
// A cancelled or failed run still exports whatever completed; partial
// results stay reportable.
func executeRun(ctx context.Context, env *pipelineEnv, source string, records []model.ZipRecord, outDir string, push bool) (*model.Summary, error) {
	run, err := env.store.CreateRun(ctx, source, len(records))
	if err != nil {
		return nil, eris.Wrap(err, "create run")
	}
	if err := env.store.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning); err != nil {
		return nil, eris.Wrap(err, "mark run running")
	}

	report, runErr := env.newPipeline().Run(ctx, records)

	// Ledger writes must land even when the run context was cancelled.
	ledgerCtx := context.WithoutCancel(ctx)

	if len(report.Degradations) > 0 {
		if err := env.store.AddDegradations(ledgerCtx, run.ID, report.Degradations); err != nil {
			zap.L().Warn("persist degradations failed", zap.Error(err))
		}
	}

	if runErr != nil {
		if err := env.store.UpdateRunStatus(ledgerCtx, run.ID, model.RunStatusFailed); err != nil {
			zap.L().Warn("mark run failed", zap.Error(err))
		}
		if err := pipeline.ExportCSV(outDir, report); err != nil {
			zap.L().Warn("partial report export failed", zap.Error(err))
		}
		return nil, eris.Wrap(runErr, "pipeline run")
	}

	summary := report.Summarize()
	if err := env.store.CompleteRun(ledgerCtx, run.ID, &summary); err != nil {
		zap.L().Warn("complete run failed", zap.Error(err))
	}

	if err := pipeline.ExportCSV(outDir, report); err != nil {
		return nil, err
	}
	zap.L().Info("report exported",
		zap.String("dir", outDir),
		zap.Int("qualified", summary.QualifiedZips),
		zap.Int("businesses", summary.Businesses))

	if push && len(env.sinks) > 0 {
		if err := export.PushAll(ctx, env.sinks, report.WithContact); err != nil {
			zap.L().Warn("lead push incomplete", zap.Error(err))
		}
	}
	return &summary, nil
}

func logProgress(stage string, done, total int) {
	zap.L().Info("progress",
		zap.String("stage", stage),
		zap.Int("done", done),
		zap.Int("total", total))
}

func init() {
	runCmd.Flags().StringVar(&runInput, "input", "", "input CSV/XLSX path or ftp/http URL (required)")
	runCmd.Flags().StringVar(&runOutDir, "out", "report", "output directory for CSV report")
	runCmd.Flags().BoolVar(&runPush, "push", false, "push leads with contact to configured CRM sinks")
	_ = runCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(runCmd)
}
