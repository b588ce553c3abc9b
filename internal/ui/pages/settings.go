package pages

import (
	"context"

	"slgps/internal/api"
	"slgps/internal/settings"
	"slgps/internal/ui"
)

// Settings is the dashboard preferences page.
type Settings struct {
	client *api.Client
	Loader *ui.Loader[settings.Dashboard]
}

// NewSettings creates the settings page controller.
func NewSettings(client *api.Client) *Settings {
	return &Settings{
		client: client,
		Loader: ui.NewLoader(client.Settings),
	}
}

// Refresh re-fetches the stored preferences.
func (p *Settings) Refresh(ctx context.Context) {
	p.Loader.Refresh(ctx)
}

// NewForm opens a form seeded from the stored preferences.
func (p *Settings) NewForm(ctx context.Context) *ui.Form[api.SettingsInput] {
	current, _ := p.Loader.Data()
	seed := api.SettingsInput{
		DarkMode:      &current.DarkMode,
		Notifications: &current.Notifications,
		RefreshRate:   &current.RefreshRate,
	}
	return ui.NewForm(seed, func() { p.Refresh(ctx) })
}

// Save writes the form's preferences back to the server.
func (p *Settings) Save(ctx context.Context, form *ui.Form[api.SettingsInput]) {
	form.Submit(ctx, func(ctx context.Context, in api.SettingsInput) error {
		_, err := p.client.UpdateSettings(ctx, in)
		return err
	})
}

// Close stops applying results from any in-flight fetch.
func (p *Settings) Close() {
	p.Loader.Close()
}
