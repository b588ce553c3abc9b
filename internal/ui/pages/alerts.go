package pages

import (
	"context"

	"slgps/internal/api"
	"slgps/internal/models"
	"slgps/internal/ui"
)

// Alerts lists fleet incidents with sortable columns and an optimistic
// dismiss action: the row flips to Resolved before the PUT is sent and
// reverts if the call fails. Other mutation flows in this package apply
// local changes only after the server confirms; alert dismissal keeps
// the original dashboard's immediate-flip behavior.
type Alerts struct {
	client *api.Client
	Loader *ui.Loader[[]models.Alert]
	Table  *ui.Table[models.Alert]

	notice string
}

// NewAlerts creates the alerts page controller.
func NewAlerts(client *api.Client) *Alerts {
	p := &Alerts{
		client: client,
		Table: ui.NewTable(map[string]func(models.Alert) ui.CellValue{
			"type":        func(a models.Alert) ui.CellValue { return a.Type },
			"severity":    func(a models.Alert) ui.CellValue { return ui.Ranked(ui.SeverityRank(a.Severity)) },
			"status":      func(a models.Alert) ui.CellValue { return a.Status },
			"plateNumber": func(a models.Alert) ui.CellValue { return a.Bus.PlateNumber },
			"timestamp":   func(a models.Alert) ui.CellValue { return a.Timestamp.Unix() },
		}),
	}
	p.Loader = ui.NewLoader(func(ctx context.Context) ([]models.Alert, error) {
		return client.Alerts(ctx, api.AlertQuery{})
	})
	return p
}

// Refresh re-fetches the list and feeds the table.
func (p *Alerts) Refresh(ctx context.Context) {
	p.Loader.Refresh(ctx)
	if rows, ok := p.Loader.Data(); ok {
		p.Table.SetRows(rows)
	}
}

// Dismiss resolves an alert optimistically: local state flips first,
// the PUT follows, and a failure reverts the flip and raises a blocking
// notice.
func (p *Alerts) Dismiss(ctx context.Context, id int64) {
	var prev string
	p.Loader.Apply(func(rows []models.Alert) []models.Alert {
		for i := range rows {
			if rows[i].ID == id {
				prev = rows[i].Status
				rows[i].Status = models.AlertResolved
			}
		}
		return rows
	})
	p.syncTable()

	if _, err := p.client.ResolveAlert(ctx, id); err != nil {
		p.Loader.Apply(func(rows []models.Alert) []models.Alert {
			for i := range rows {
				if rows[i].ID == id {
					rows[i].Status = prev
				}
			}
			return rows
		})
		p.syncTable()
		p.notice = "Failed to dismiss alert: " + err.Error()
	}
}

func (p *Alerts) syncTable() {
	if rows, ok := p.Loader.Data(); ok {
		p.Table.SetRows(rows)
	}
}

// Notice returns the blocking failure message, if any.
func (p *Alerts) Notice() string { return p.notice }

// ClearNotice acknowledges the failure message.
func (p *Alerts) ClearNotice() { p.notice = "" }

// Close stops applying results from any in-flight fetch.
func (p *Alerts) Close() {
	p.Loader.Close()
}
