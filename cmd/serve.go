package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kioskworks/sitescout/internal/model"
	"github.com/kioskworks/sitescout/internal/pipeline"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a webhook server accepting qualification requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx, pipeline.Options{})
		if err != nil {
			return err
		}
		defer env.Close()

		mux := newServeMux(ctx, env)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newServeMux builds the webhook routes. The server context, not the
// request context, backs the async runs so they survive the request but
// die with the server.
func newServeMux(ctx context.Context, env *pipelineEnv) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /qualify", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Zips []string `json:"zips"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if len(req.Zips) == 0 {
			http.Error(w, `{"error":"zips is required"}`, http.StatusBadRequest)
			return
		}

		records := make([]model.ZipRecord, 0, len(req.Zips))
		for _, raw := range req.Zips {
			zip, err := model.NormalizeZip(raw)
			if err != nil {
				http.Error(w, fmt.Sprintf(`{"error":"invalid zip %q"}`, raw), http.StatusBadRequest)
				return
			}
			records = append(records, model.ZipRecord{ZipCode: zip})
		}

		run, err := env.store.CreateRun(r.Context(), "webhook", len(records))
		if err != nil {
			zap.L().Error("webhook create run failed", zap.Error(err))
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
			return
		}

		go runWebhook(ctx, env, run.ID, records)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "accepted",
			"run_id": run.ID,
		})
	})

	return mux
}

func runWebhook(ctx context.Context, env *pipelineEnv, runID string, records []model.ZipRecord) {
	if err := env.store.UpdateRunStatus(ctx, runID, model.RunStatusRunning); err != nil {
		zap.L().Warn("mark run running failed", zap.String("run_id", runID), zap.Error(err))
	}

	// Each webhook run gets its own pipeline: enrichment caches and
	// degradation lists belong to one run only.
	report, err := env.newPipeline().Run(ctx, records)

	// Ledger writes must land even when the server is shutting down.
	ctx = context.WithoutCancel(ctx)

	if len(report.Degradations) > 0 {
		if derr := env.store.AddDegradations(ctx, runID, report.Degradations); derr != nil {
			zap.L().Warn("persist degradations failed", zap.String("run_id", runID), zap.Error(derr))
		}
	}

	if err != nil {
		zap.L().Error("webhook run failed", zap.String("run_id", runID), zap.Error(err))
		if serr := env.store.UpdateRunStatus(ctx, runID, model.RunStatusFailed); serr != nil {
			zap.L().Warn("mark run failed", zap.String("run_id", runID), zap.Error(serr))
		}
		return
	}

	summary := report.Summarize()
	if serr := env.store.CompleteRun(ctx, runID, &summary); serr != nil {
		zap.L().Warn("complete run failed", zap.String("run_id", runID), zap.Error(serr))
	}
	zap.L().Info("webhook run complete",
		zap.String("run_id", runID),
		zap.Int("qualified", summary.QualifiedZips),
		zap.Int("businesses", summary.Businesses))
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
