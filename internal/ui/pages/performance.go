package pages

import (
	"context"

	"slgps/internal/api"
	"slgps/internal/models"
	"slgps/internal/ui"
)

// Performance is the read-only per-bus performance monitor.
type Performance struct {
	Loader *ui.Loader[[]models.PerformanceReport]
	Table  *ui.Table[models.PerformanceReport]
}

// NewPerformance creates the performance page controller.
func NewPerformance(client *api.Client) *Performance {
	p := &Performance{
		Table: ui.NewTable(map[string]func(models.PerformanceReport) ui.CellValue{
			"plateNumber":   func(r models.PerformanceReport) ui.CellValue { return r.Bus.PlateNumber },
			"reportDate":    func(r models.PerformanceReport) ui.CellValue { return r.ReportDate },
			"averageSpeed":  func(r models.PerformanceReport) ui.CellValue { return r.AverageSpeed },
			"stopsMissed":   func(r models.PerformanceReport) ui.CellValue { return r.StopsMissed },
			"alertsRaised":  func(r models.PerformanceReport) ui.CellValue { return r.AlertsRaised },
			"uptimePercent": func(r models.PerformanceReport) ui.CellValue { return r.UptimePercent },
		}),
	}
	p.Loader = ui.NewLoader(func(ctx context.Context) ([]models.PerformanceReport, error) {
		return client.PerformanceReports(ctx)
	})
	return p
}

// Refresh re-fetches the reports and feeds the table.
func (p *Performance) Refresh(ctx context.Context) {
	p.Loader.Refresh(ctx)
	if rows, ok := p.Loader.Data(); ok {
		p.Table.SetRows(rows)
	}
}

// Close stops applying results from any in-flight fetch.
func (p *Performance) Close() {
	p.Loader.Close()
}
