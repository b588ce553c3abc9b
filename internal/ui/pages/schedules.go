package pages

import (
	"context"

	"slgps/internal/api"
	"slgps/internal/models"
	"slgps/internal/ui"
)

// Schedules is the schedule optimizer page: trips grouped by weekday
// plus server-computed assignment suggestions.
type Schedules struct {
	client  *api.Client
	Loader  *ui.Loader[[]models.Schedule]
	Options *ui.Loader[[]models.ScheduleOption]
	Delete  *ui.DeleteFlow
}

// NewSchedules creates the schedule page controller.
func NewSchedules(client *api.Client) *Schedules {
	p := &Schedules{client: client}
	p.Loader = ui.NewLoader(func(ctx context.Context) ([]models.Schedule, error) {
		return client.Schedules(ctx)
	})
	p.Options = ui.NewLoader(func(ctx context.Context) ([]models.ScheduleOption, error) {
		return client.ScheduleOptions(ctx)
	})
	p.Delete = ui.NewDeleteFlow(client.DeleteSchedule, func(id int64) {
		p.Loader.Apply(func(rows []models.Schedule) []models.Schedule {
			return removeByID(rows, id, func(s models.Schedule) int64 { return s.ID })
		})
	})
	return p
}

// Refresh re-fetches both the trips and the suggestions.
func (p *Schedules) Refresh(ctx context.Context) {
	p.Loader.Refresh(ctx)
	p.Options.Refresh(ctx)
}

// Grouped returns the trips keyed by weekday in Mon..Sun order. Days
// without trips map to nil so the view can still render the heading.
func (p *Schedules) Grouped() map[string][]models.Schedule {
	grouped := make(map[string][]models.Schedule, len(models.Weekdays))
	for _, day := range models.Weekdays {
		grouped[day] = nil
	}
	rows, _ := p.Loader.Data()
	for _, s := range rows {
		grouped[s.Day] = append(grouped[s.Day], s)
	}
	return grouped
}

// Suggestions returns the current assignment options.
func (p *Schedules) Suggestions() []models.ScheduleOption {
	options, _ := p.Options.Data()
	return options
}

// NewCreateForm opens an empty trip form, optionally pre-filled from a
// suggestion.
func (p *Schedules) NewCreateForm(ctx context.Context, seed api.ScheduleInput) *ui.Form[api.ScheduleInput] {
	return ui.NewForm(seed, func() { p.Refresh(ctx) })
}

// NewEditForm opens a form seeded from an existing trip.
func (p *Schedules) NewEditForm(ctx context.Context, s models.Schedule) *ui.Form[api.ScheduleInput] {
	seed := api.ScheduleInput{
		Day:           s.Day,
		Route:         s.Route,
		BusID:         s.Bus.ID,
		DriverID:      s.Driver.ID,
		DepartureTime: s.DepartureTime,
		ArrivalTime:   s.ArrivalTime,
	}
	return ui.NewForm(seed, func() { p.Refresh(ctx) })
}

// Create saves a new trip through the given form.
func (p *Schedules) Create(ctx context.Context, form *ui.Form[api.ScheduleInput]) {
	form.Submit(ctx, func(ctx context.Context, in api.ScheduleInput) error {
		_, err := p.client.CreateSchedule(ctx, in)
		return err
	})
}

// Update saves changes to an existing trip through the given form.
func (p *Schedules) Update(ctx context.Context, id int64, form *ui.Form[api.ScheduleInput]) {
	form.Submit(ctx, func(ctx context.Context, in api.ScheduleInput) error {
		_, err := p.client.UpdateSchedule(ctx, id, in)
		return err
	})
}

// Close stops applying results from any in-flight fetch.
func (p *Schedules) Close() {
	p.Loader.Close()
	p.Options.Close()
}
