package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kioskworks/sitescout/internal/zcta"
)

type zctaArea struct {
	index *zcta.Index
}

// ZCTAArea serves land area from a loaded ZCTA shapefile index. ZIPs missing
// from the index are reported unavailable.
func ZCTAArea(idx *zcta.Index) AreaProvider {
	return &zctaArea{index: idx}
}

func (p *zctaArea) Area(_ context.Context, zip string) AreaResult {
	entry, ok := p.index.Lookup(zip)
	if !ok {
		return AreaResult{Detail: "zip not present in ZCTA index"}
	}
	return AreaResult{SqMi: entry.LandSqMi, Available: true}
}

type noArea struct {
	detail string
}

// NoArea reports every lookup unavailable. Used when no area source is
// configured so density degrades to its zero sentinel instead of failing
// the run.
func NoArea(detail string) AreaProvider {
	return &noArea{detail: detail}
}

func (p *noArea) Area(context.Context, string) AreaResult {
	return AreaResult{Detail: p.detail}
}

type httpArea struct {
	baseURL string
	client  *http.Client
}

// HTTPArea serves land area from a JSON endpoint exposing
// GET {base}/{zip} -> {"land_area_sq_mi": <float>}. It is the alternative to
// the shapefile-backed provider for deployments without a local ZCTA file.
func HTTPArea(baseURL string) AreaProvider {
	return &httpArea{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *httpArea) Area(ctx context.Context, zip string) AreaResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", p.baseURL, zip), nil)
	if err != nil {
		return AreaResult{Detail: err.Error()}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		zap.L().Debug("area endpoint request failed", zap.String("zip", zip), zap.Error(err))
		return AreaResult{Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return AreaResult{Detail: fmt.Sprintf("area endpoint returned status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return AreaResult{Detail: err.Error()}
	}

	var payload struct {
		LandAreaSqMi float64 `json:"land_area_sq_mi"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return AreaResult{Detail: err.Error()}
	}
	return AreaResult{SqMi: payload.LandAreaSqMi, Available: true}
}
