package store

import (
	"errors"
	"reflect"
	"testing"
)

func TestChunkRange(t *testing.T) {
	var windows [][2]int
	err := ChunkRange(10, 4, func(start, end int) error {
		windows = append(windows, [2]int{start, end})
		return nil
	})
	if err != nil {
		t.Fatalf("ChunkRange() error = %v", err)
	}
	want := [][2]int{{0, 4}, {4, 8}, {8, 10}}
	if !reflect.DeepEqual(windows, want) {
		t.Errorf("windows = %v, want %v", windows, want)
	}
}

func TestChunkRangeEmpty(t *testing.T) {
	called := false
	if err := ChunkRange(0, 4, func(int, int) error {
		called = true
		return nil
	}); err != nil {
		t.Fatalf("ChunkRange() error = %v", err)
	}
	if called {
		t.Error("fn called for empty range")
	}
}

func TestChunkRangePropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	calls := 0
	err := ChunkRange(10, 4, func(int, int) error {
		calls++
		return wantErr
	})
	if err != wantErr {
		t.Errorf("ChunkRange() error = %v, want %v", err, wantErr)
	}
	if calls != 1 {
		t.Errorf("fn called %d times after error, want 1", calls)
	}
}

func TestDedupeStrings(t *testing.T) {
	got := DedupeStrings([]string{"a", "", "b", "a", "c", "b"})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DedupeStrings() = %v, want %v", got, want)
	}
	if DedupeStrings(nil) != nil {
		t.Error("DedupeStrings(nil) != nil")
	}
}
