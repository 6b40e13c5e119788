package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kioskworks/sitescout/internal/discover"
	"github.com/kioskworks/sitescout/internal/model"
)

var discoverAllHours bool

var discoverCmd = &cobra.Command{
	Use:   "discover <zip>",
	Short: "List candidate businesses around a ZIP centroid",
	Long:  "Resolves the ZIP's coordinates, searches each configured category nearby, fetches place details, and applies the daily-hours floor.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		zip, err := model.NormalizeZip(args[0])
		if err != nil {
			return eris.Wrapf(err, "invalid zip %q", args[0])
		}

		placesClient := buildPlacesClient()
		if placesClient == nil {
			return eris.New("places API key is required for discovery (SITESCOUT_PLACES_KEY)")
		}

		enricher := buildEnricher(nil)
		enriched := enricher.Enrich(ctx, model.ZipRecord{ZipCode: zip})
		if !enriched.HasCoords {
			return eris.Errorf("no coordinates resolvable for %s", zip)
		}

		svc := discover.NewService(placesClient,
			cfg.Discovery.RadiusMeters, cfg.Discovery.Categories, cfg.Discovery.BrandKeyword)

		pois := svc.Discover(ctx, enriched.Latitude, enriched.Longitude)
		brandMatches := svc.BrandMatches(ctx, enriched.Latitude, enriched.Longitude)

		var businesses []model.BusinessRecord
		for _, poi := range pois {
			detail, err := svc.Detail(ctx, poi.PlaceID)
			if err != nil {
				zap.L().Warn("place detail fetch failed",
					zap.String("place_id", poi.PlaceID),
					zap.Error(err))
				continue
			}
			hours := discover.DailyHours(detail.Periods)
			if !discoverAllHours && hours < cfg.Discovery.MinDailyHours {
				continue
			}
			businesses = append(businesses, model.BusinessRecord{
				ZipCode:    zip,
				PlaceID:    poi.PlaceID,
				Name:       poi.Name,
				Address:    poi.Address,
				Category:   poi.Category,
				Phone:      detail.Phone,
				Website:    detail.Website,
				DailyHours: hours,
			})
		}

		out := struct {
			Zip          string                 `json:"zip"`
			Latitude     float64                `json:"latitude"`
			Longitude    float64                `json:"longitude"`
			BrandMatches int                    `json:"brand_matches"`
			Businesses   []model.BusinessRecord `json:"businesses"`
		}{zip, enriched.Latitude, enriched.Longitude, brandMatches, businesses}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	discoverCmd.Flags().BoolVar(&discoverAllHours, "all-hours", false, "skip the daily-hours floor")
	rootCmd.AddCommand(discoverCmd)
}
