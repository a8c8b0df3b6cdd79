package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

func TestMapKeepsInputOrder(t *testing.T) {
	t.Parallel()

	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	got, err := Map(context.Background(), items, func(_ context.Context, v int) (string, error) {
		return fmt.Sprintf("item-%d", v), nil
	}, Options{Workers: 7})
	if err != nil {
		t.Fatalf("Map returned error: %v", err)
	}
	if len(got) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(got))
	}
	for i, v := range got {
		if v != fmt.Sprintf("item-%d", i) {
			t.Fatalf("result %d out of order: %s", i, v)
		}
	}
}

func TestMapEmptyInput(t *testing.T) {
	t.Parallel()

	got, err := Map(context.Background(), []int(nil), func(_ context.Context, v int) (int, error) {
		return v, nil
	}, Options{})
	if err != nil {
		t.Fatalf("Map returned error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestMapReturnsError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var calls atomic.Int32

	_, err := Map(context.Background(), []int{1, 2, 3, 4}, func(_ context.Context, v int) (int, error) {
		calls.Add(1)
		if v == 3 {
			return 0, boom
		}
		return v, nil
	}, Options{Workers: 1})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n := calls.Load(); n != 3 {
		t.Fatalf("expected processing to stop after the failure, got %d calls", n)
	}
}

type indexError int

func (e indexError) Error() string { return fmt.Sprintf("item %d failed", int(e)) }

func TestMapReportsLowestFailingIndex(t *testing.T) {
	t.Parallel()

	items := make([]int, 64)
	for i := range items {
		items[i] = i
	}

	for run := 0; run < 200; run++ {
		_, err := Map(context.Background(), items, func(_ context.Context, v int) (int, error) {
			if v%3 == 2 || v > 40 {
				return 0, indexError(v)
			}
			return v, nil
		}, Options{Workers: 8})

		var got indexError
		if !errors.As(err, &got) || got != 2 {
			t.Fatalf("run %d: expected item 2 to be reported, got %v", run, err)
		}
	}
}

func TestMapRunsItemsBeforeFailure(t *testing.T) {
	t.Parallel()

	items := make([]int, 32)
	for i := range items {
		items[i] = i
	}

	var ran [32]atomic.Bool
	_, err := Map(context.Background(), items, func(_ context.Context, v int) (int, error) {
		ran[v].Store(true)
		if v == 20 {
			return 0, indexError(v)
		}
		return v, nil
	}, Options{Workers: 6})
	if err == nil {
		t.Fatalf("expected error")
	}
	for i := 0; i <= 20; i++ {
		if !ran[i].Load() {
			t.Fatalf("item %d before the failure was skipped", i)
		}
	}
}

func TestMapCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Map(ctx, []int{1}, func(_ context.Context, v int) (int, error) {
		t.Errorf("fn must not run on a cancelled context")
		return v, nil
	}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	t.Parallel()

	if got := (Options{Workers: 8}).withDefaults(3).Workers; got != 3 {
		t.Fatalf("expected workers capped at item count, got %d", got)
	}
	if got := (Options{}).withDefaults(1000).Workers; got < 1 {
		t.Fatalf("expected at least one worker, got %d", got)
	}
}
