package pages

import (
	"context"
	"time"

	"slgps/internal/api"
	"slgps/internal/models"
	"slgps/internal/ui"
)

// LiveMapPollInterval is the live map's refresh cadence. The loader's
// in-flight guard keeps a slow backend from stacking up polls.
const LiveMapPollInterval = 5 * time.Second

// LiveMap shows the latest GPS fix per bus. Positions are replaced
// wholesale on each poll; no history is kept.
type LiveMap struct {
	Loader *ui.Loader[[]models.LiveLocation]
}

// NewLiveMap creates the live map page controller.
func NewLiveMap(client *api.Client) *LiveMap {
	return &LiveMap{Loader: ui.NewLoader(client.LatestLocations)}
}

// Run fetches immediately and then polls until ctx is done.
func (p *LiveMap) Run(ctx context.Context) {
	p.Loader.StartPolling(ctx, LiveMapPollInterval)
}

// Positions returns the current markers, or nil before the first
// successful fetch.
func (p *LiveMap) Positions() []models.LiveLocation {
	locations, _ := p.Loader.Data()
	return locations
}

// Close stops applying results from any in-flight fetch.
func (p *LiveMap) Close() {
	p.Loader.Close()
}
