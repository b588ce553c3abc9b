package ui

import (
	"context"
	"errors"
	"testing"

	"slgps/internal/api"
)

func TestFormSubmitSuccess(t *testing.T) {
	refetched := false
	form := NewForm(api.BusInput{PlateNumber: "NB-1234"}, func() { refetched = true })

	form.Submit(context.Background(), func(ctx context.Context, in api.BusInput) error {
		if in.PlateNumber != "NB-1234" {
			t.Errorf("Expected seeded values, got %+v", in)
		}
		return nil
	})

	if form.Open() {
		t.Error("Expected form to close after a successful submit")
	}
	if !refetched {
		t.Error("Expected the owning list to be re-fetched")
	}
}

func TestFormValidationFailureStaysOpen(t *testing.T) {
	form := NewForm(api.BusInput{}, nil)

	form.Submit(context.Background(), func(ctx context.Context, in api.BusInput) error {
		return &api.ValidationError{Fields: map[string][]string{
			"plate_number": {"is required"},
			"model":        {"is required"},
		}}
	})

	if !form.Open() {
		t.Error("Expected form to stay open after validation failure")
	}
	want := "model is required; plate_number is required"
	if form.Error() != want {
		t.Errorf("Expected flattened errors %q, got %q", want, form.Error())
	}

	// A retry can still succeed.
	form.Submit(context.Background(), func(ctx context.Context, in api.BusInput) error {
		return nil
	})
	if form.Open() || form.Error() != "" {
		t.Error("Expected form closed and error cleared on retry success")
	}
}

func TestFormCancel(t *testing.T) {
	called := false
	form := NewForm(api.BusInput{}, func() { called = true })
	form.Cancel()

	if form.Open() {
		t.Error("Expected form closed after cancel")
	}
	form.Submit(context.Background(), func(ctx context.Context, in api.BusInput) error {
		t.Error("Submit must not run on a cancelled form")
		return nil
	})
	if called {
		t.Error("onSaved must not run on cancel")
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	deleted := false
	flow := NewDeleteFlow(
		func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
		nil,
	)

	flow.Request(7)
	if deleted {
		t.Error("DELETE must not fire before confirmation")
	}

	flow.Cancel()
	if err := flow.Confirm(context.Background()); err != nil {
		t.Fatalf("Confirm after cancel: %v", err)
	}
	if deleted {
		t.Error("DELETE must not fire after the dialog was cancelled")
	}
}

func TestDeleteRemovesRowAfterServerConfirms(t *testing.T) {
	var removed []int64
	flow := NewDeleteFlow(
		func(ctx context.Context, id int64) error { return nil },
		func(id int64) { removed = append(removed, id) },
	)

	flow.Request(7)
	if len(removed) != 0 {
		t.Error("Row must not be removed before the DELETE succeeds")
	}
	if err := flow.Confirm(context.Background()); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if len(removed) != 1 || removed[0] != 7 {
		t.Errorf("Expected row 7 removed, got %v", removed)
	}
}

func TestDeleteFailureKeepsRow(t *testing.T) {
	flow := NewDeleteFlow(
		func(ctx context.Context, id int64) error { return errors.New("backend down") },
		func(id int64) { t.Error("Row must not be removed on a failed DELETE") },
	)

	flow.Request(7)
	if err := flow.Confirm(context.Background()); err == nil {
		t.Error("Expected delete error")
	}
	if flow.Error() == "" {
		t.Error("Expected error message to surface")
	}
}
