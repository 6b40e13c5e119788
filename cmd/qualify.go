package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/kioskworks/sitescout/internal/model"
)

var qualifyCmd = &cobra.Command{
	Use:   "qualify <zip> [zip...]",
	Short: "Enrich and qualify ZIP codes without discovery",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		engine, err := buildEngine()
		if err != nil {
			return err
		}
		enricher := buildEnricher(buildPlacesClient())

		results := make([]model.ZipResult, 0, len(args))
		for _, raw := range args {
			zip, err := model.NormalizeZip(raw)
			if err != nil {
				return eris.Wrapf(err, "invalid zip %q", raw)
			}
			enriched := enricher.Enrich(ctx, model.ZipRecord{ZipCode: zip})
			results = append(results, model.ZipResult{
				EnrichedZip: enriched,
				Verdict:     engine.Qualify(enriched),
			})
		}

		out := struct {
			Results      []model.ZipResult   `json:"results"`
			Degradations []model.Degradation `json:"degradations,omitempty"`
		}{results, enricher.Degradations()}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(qualifyCmd)
}
