package pages

import (
	"context"

	"slgps/internal/api"
	"slgps/internal/models"
	"slgps/internal/ui"
)

// Users is the admin account management page.
type Users struct {
	client *api.Client
	Loader *ui.Loader[[]models.AdminUser]
	Table  *ui.Table[models.AdminUser]
	Delete *ui.DeleteFlow
}

// NewUsers creates the account management page controller.
func NewUsers(client *api.Client) *Users {
	p := &Users{
		client: client,
		Table: ui.NewTable(map[string]func(models.AdminUser) ui.CellValue{
			"name":      func(u models.AdminUser) ui.CellValue { return u.Name },
			"email":     func(u models.AdminUser) ui.CellValue { return u.Email },
			"role":      func(u models.AdminUser) ui.CellValue { return u.Role },
			"status":    func(u models.AdminUser) ui.CellValue { return u.Status },
			"createdAt": func(u models.AdminUser) ui.CellValue { return u.CreatedAt.Unix() },
		}),
	}
	p.Loader = ui.NewLoader(func(ctx context.Context) ([]models.AdminUser, error) {
		return client.Users(ctx)
	})
	p.Delete = ui.NewDeleteFlow(client.DeleteUser, func(id int64) {
		p.Loader.Apply(func(rows []models.AdminUser) []models.AdminUser {
			return removeByID(rows, id, func(u models.AdminUser) int64 { return u.ID })
		})
		p.syncTable()
	})
	return p
}

// Refresh re-fetches the list and feeds the table.
func (p *Users) Refresh(ctx context.Context) {
	p.Loader.Refresh(ctx)
	p.syncTable()
}

func (p *Users) syncTable() {
	if rows, ok := p.Loader.Data(); ok {
		p.Table.SetRows(rows)
	}
}

// NewCreateForm opens an empty account form. Password is required on
// create.
func (p *Users) NewCreateForm(ctx context.Context) *ui.Form[api.UserInput] {
	return ui.NewForm(api.UserInput{Role: models.RoleUser, Status: models.UserActive}, func() { p.Refresh(ctx) })
}

// NewEditForm opens a form seeded from an existing account. Password is
// left blank and only sent when the user types a new one.
func (p *Users) NewEditForm(ctx context.Context, u models.AdminUser) *ui.Form[api.UserInput] {
	seed := api.UserInput{
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Status: u.Status,
	}
	return ui.NewForm(seed, func() { p.Refresh(ctx) })
}

// Create saves a new account through the given form.
func (p *Users) Create(ctx context.Context, form *ui.Form[api.UserInput]) {
	form.Submit(ctx, func(ctx context.Context, in api.UserInput) error {
		_, err := p.client.CreateUser(ctx, in)
		return err
	})
}

// Update saves changes to an existing account through the given form.
func (p *Users) Update(ctx context.Context, id int64, form *ui.Form[api.UserInput]) {
	form.Submit(ctx, func(ctx context.Context, in api.UserInput) error {
		_, err := p.client.UpdateUser(ctx, id, in)
		return err
	})
}

// Close stops applying results from any in-flight fetch.
func (p *Users) Close() {
	p.Loader.Close()
}
