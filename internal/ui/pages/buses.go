package pages

import (
	"context"

	"slgps/internal/api"
	"slgps/internal/models"
	"slgps/internal/ui"
)

// Buses is the bus management page: sortable list, create/edit forms,
// and confirmed deletes.
type Buses struct {
	client *api.Client
	Loader *ui.Loader[[]models.Bus]
	Table  *ui.Table[models.Bus]
	Delete *ui.DeleteFlow
}

// NewBuses creates the bus management page controller.
func NewBuses(client *api.Client) *Buses {
	p := &Buses{
		client: client,
		Table: ui.NewTable(map[string]func(models.Bus) ui.CellValue{
			"plateNumber": func(b models.Bus) ui.CellValue { return b.PlateNumber },
			"model":       func(b models.Bus) ui.CellValue { return b.Model },
			"status":      func(b models.Bus) ui.CellValue { return b.Status },
			"gpsStatus":   func(b models.Bus) ui.CellValue { return b.GPSStatus },
		}),
	}
	p.Loader = ui.NewLoader(func(ctx context.Context) ([]models.Bus, error) {
		return client.Buses(ctx)
	})
	p.Delete = ui.NewDeleteFlow(client.DeleteBus, func(id int64) {
		p.Loader.Apply(func(rows []models.Bus) []models.Bus {
			return removeByID(rows, id, func(b models.Bus) int64 { return b.ID })
		})
		p.syncTable()
	})
	return p
}

// Refresh re-fetches the list and feeds the table.
func (p *Buses) Refresh(ctx context.Context) {
	p.Loader.Refresh(ctx)
	p.syncTable()
}

func (p *Buses) syncTable() {
	if rows, ok := p.Loader.Data(); ok {
		p.Table.SetRows(rows)
	}
}

// NewCreateForm opens an empty bus form. A save closes the form and
// re-fetches the whole list.
func (p *Buses) NewCreateForm(ctx context.Context) *ui.Form[api.BusInput] {
	return ui.NewForm(api.BusInput{Status: models.BusActive}, func() { p.Refresh(ctx) })
}

// NewEditForm opens a form seeded from an existing bus.
func (p *Buses) NewEditForm(ctx context.Context, bus models.Bus) *ui.Form[api.BusInput] {
	seed := api.BusInput{
		PlateNumber: bus.PlateNumber,
		Model:       bus.Model,
		Status:      bus.Status,
		GPSStatus:   bus.GPSStatus,
	}
	return ui.NewForm(seed, func() { p.Refresh(ctx) })
}

// Create saves a new bus through the given form.
func (p *Buses) Create(ctx context.Context, form *ui.Form[api.BusInput]) {
	form.Submit(ctx, func(ctx context.Context, in api.BusInput) error {
		_, err := p.client.CreateBus(ctx, in)
		return err
	})
}

// Update saves changes to an existing bus through the given form.
func (p *Buses) Update(ctx context.Context, id int64, form *ui.Form[api.BusInput]) {
	form.Submit(ctx, func(ctx context.Context, in api.BusInput) error {
		_, err := p.client.UpdateBus(ctx, id, in)
		return err
	})
}

// Close stops applying results from any in-flight fetch.
func (p *Buses) Close() {
	p.Loader.Close()
}

// removeByID filters one row out of a fetched collection.
func removeByID[T any](rows []T, id int64, key func(T) int64) []T {
	out := rows[:0]
	for _, r := range rows {
		if key(r) != id {
			out = append(out, r)
		}
	}
	return out
}
