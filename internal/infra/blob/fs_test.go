package blob

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestFSStore_PutGetRoundTrip(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}
	ctx := context.Background()

	if err := s.Put(ctx, "checkpoints/progress.json", []byte(`{"current_index":5}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, "checkpoints/progress.json")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, []byte(`{"current_index":5}`)) {
		t.Errorf("got %q", got)
	}
}

func TestFSStore_GetMissingKey(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}

	if _, err := s.Get(context.Background(), "no/such/key"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestFSStore_PutOverwrites(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}
	ctx := context.Background()

	if err := s.Put(ctx, "results/out.csv", []byte("old")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put(ctx, "results/out.csv", []byte("new")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	got, err := s.Get(ctx, "results/out.csv")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("got %q, want new", got)
	}
}

func TestMemoryStore_CopiesData(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	data := []byte("original")
	if err := s.Put(ctx, "k", data); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	data[0] = 'X'

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "original" {
		t.Errorf("stored data aliased caller buffer: %q", got)
	}

	got[0] = 'Y'
	again, _ := s.Get(ctx, "k")
	if string(again) != "original" {
		t.Errorf("returned data aliased stored buffer: %q", again)
	}
}
