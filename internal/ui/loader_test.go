package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestLoaderLifecycle(t *testing.T) {
	calls := 0
	loader := NewLoader(func(ctx context.Context) ([]string, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("backend down")
		}
		return []string{"a", "b"}, nil
	})

	if loader.State() != Loading {
		t.Errorf("Expected initial Loading, got %v", loader.State())
	}

	loader.Refresh(context.Background())
	if loader.State() != Loaded {
		t.Errorf("Expected Loaded, got %v", loader.State())
	}
	data, ok := loader.Data()
	if !ok || len(data) != 2 {
		t.Errorf("Expected 2 rows, got %v (ok=%v)", data, ok)
	}

	// A failing refresh moves to Errored but keeps the stale rows.
	loader.Refresh(context.Background())
	if loader.State() != Errored {
		t.Errorf("Expected Errored, got %v", loader.State())
	}
	if loader.Err() == nil {
		t.Error("Expected an error after failed refresh")
	}
	data, ok = loader.Data()
	if !ok || len(data) != 2 {
		t.Error("Expected stale data to survive a failed refresh")
	}

	// Recovery clears the error.
	loader.Refresh(context.Background())
	if loader.State() != Loaded || loader.Err() != nil {
		t.Errorf("Expected Loaded with nil error, got %v / %v", loader.State(), loader.Err())
	}
}

func TestLoaderSkipsOverlappingRefresh(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	loader := NewLoader(func(ctx context.Context) (int, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(started)
		<-release
		return 1, nil
	})

	done := make(chan struct{})
	go func() {
		loader.Refresh(context.Background())
		close(done)
	}()

	<-started
	if loader.Refresh(context.Background()) {
		t.Error("Expected overlapping refresh to be skipped")
	}
	close(release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("Expected 1 fetch, got %d", calls)
	}
}

func TestLoaderCloseDiscardsResult(t *testing.T) {
	release := make(chan struct{})
	loader := NewLoader(func(ctx context.Context) (string, error) {
		<-release
		return "late", nil
	})

	done := make(chan struct{})
	go func() {
		loader.Refresh(context.Background())
		close(done)
	}()

	loader.Close()
	close(release)
	<-done

	if _, ok := loader.Data(); ok {
		t.Error("Expected result delivered after Close to be discarded")
	}

	if loader.Refresh(context.Background()) {
		t.Error("Expected Refresh on a closed loader to be skipped")
	}
}

func TestLoaderApply(t *testing.T) {
	loader := NewLoader(func(ctx context.Context) ([]int, error) {
		return []int{1, 2, 3}, nil
	})
	loader.Refresh(context.Background())

	loader.Apply(func(rows []int) []int {
		rows[0] = 9
		return rows
	})

	data, _ := loader.Data()
	if data[0] != 9 {
		t.Errorf("Expected patched data, got %v", data)
	}
}
