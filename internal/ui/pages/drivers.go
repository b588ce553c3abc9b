package pages

import (
	"context"

	"slgps/internal/api"
	"slgps/internal/models"
	"slgps/internal/ui"
)

// Drivers is the driver management page.
type Drivers struct {
	client *api.Client
	Loader *ui.Loader[[]models.Driver]
	Table  *ui.Table[models.Driver]
	Delete *ui.DeleteFlow
}

// NewDrivers creates the driver management page controller.
func NewDrivers(client *api.Client) *Drivers {
	p := &Drivers{
		client: client,
		Table: ui.NewTable(map[string]func(models.Driver) ui.CellValue{
			"name":  func(d models.Driver) ui.CellValue { return d.Name },
			"email": func(d models.Driver) ui.CellValue { return d.Email },
			"assignedBusId": func(d models.Driver) ui.CellValue {
				if d.AssignedBusID == nil {
					return int64(0)
				}
				return *d.AssignedBusID
			},
		}),
	}
	p.Loader = ui.NewLoader(func(ctx context.Context) ([]models.Driver, error) {
		return client.Drivers(ctx)
	})
	p.Delete = ui.NewDeleteFlow(client.DeleteDriver, func(id int64) {
		p.Loader.Apply(func(rows []models.Driver) []models.Driver {
			return removeByID(rows, id, func(d models.Driver) int64 { return d.ID })
		})
		p.syncTable()
	})
	return p
}

// Refresh re-fetches the list and feeds the table.
func (p *Drivers) Refresh(ctx context.Context) {
	p.Loader.Refresh(ctx)
	p.syncTable()
}

func (p *Drivers) syncTable() {
	if rows, ok := p.Loader.Data(); ok {
		p.Table.SetRows(rows)
	}
}

// NewCreateForm opens an empty driver form.
func (p *Drivers) NewCreateForm(ctx context.Context) *ui.Form[api.DriverInput] {
	return ui.NewForm(api.DriverInput{}, func() { p.Refresh(ctx) })
}

// NewEditForm opens a form seeded from an existing driver.
func (p *Drivers) NewEditForm(ctx context.Context, d models.Driver) *ui.Form[api.DriverInput] {
	seed := api.DriverInput{
		Name:          d.Name,
		Email:         d.Email,
		Phone:         d.Phone,
		AssignedBusID: d.AssignedBusID,
	}
	return ui.NewForm(seed, func() { p.Refresh(ctx) })
}

// Create saves a new driver through the given form.
func (p *Drivers) Create(ctx context.Context, form *ui.Form[api.DriverInput]) {
	form.Submit(ctx, func(ctx context.Context, in api.DriverInput) error {
		_, err := p.client.CreateDriver(ctx, in)
		return err
	})
}

// Update saves changes to an existing driver through the given form.
func (p *Drivers) Update(ctx context.Context, id int64, form *ui.Form[api.DriverInput]) {
	form.Submit(ctx, func(ctx context.Context, in api.DriverInput) error {
		_, err := p.client.UpdateDriver(ctx, id, in)
		return err
	})
}

// Close stops applying results from any in-flight fetch.
func (p *Drivers) Close() {
	p.Loader.Close()
}
