// Package pages wires the shared controllers into one controller per
// dashboard page. Every page owns its loader; there is no cross-page
// cache and each page re-fetches independently.
package pages

import (
	"context"
	"time"

	"slgps/internal/api"
	"slgps/internal/models"
	"slgps/internal/ui"
)

// DashboardPollInterval is how often the overview refreshes itself.
const DashboardPollInterval = 60 * time.Second

// StatCard is one counter tile on the overview page.
type StatCard struct {
	Label string
	Value int
}

// Dashboard is the overview page with four stat cards.
type Dashboard struct {
	Loader *ui.Loader[models.DashboardSummary]
}

// NewDashboard creates the overview page controller.
func NewDashboard(client *api.Client) *Dashboard {
	return &Dashboard{Loader: ui.NewLoader(client.Dashboard)}
}

// Run fetches immediately and then polls until ctx is done. Prior
// counters stay on screen during each silent refresh.
func (p *Dashboard) Run(ctx context.Context) {
	p.Loader.StartPolling(ctx, DashboardPollInterval)
}

// StatCards renders the current counters. Returns nil until the first
// fetch succeeds.
func (p *Dashboard) StatCards() []StatCard {
	summary, ok := p.Loader.Data()
	if !ok {
		return nil
	}
	return []StatCard{
		{Label: "Total Buses", Value: summary.TotalBuses},
		{Label: "Online Buses", Value: summary.OnlineBuses},
		{Label: "Active Alerts", Value: summary.ActiveAlerts},
		{Label: "Total Drivers", Value: summary.TotalDrivers},
	}
}

// Close stops applying results from any in-flight fetch.
func (p *Dashboard) Close() {
	p.Loader.Close()
}
