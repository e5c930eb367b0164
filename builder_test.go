package keydex_test

import (
	"errors"
	"testing"

	"github.com/hupe1980/keydex"
)

type doc struct {
	Path string
	Lang string
}

func docKey(d doc) string { return d.Path }

func TestBuilder_Basic(t *testing.T) {
	dex, err := keydex.New[string, doc](docKey).
		Indexes(1).
		HashValues(func(d doc) []keydex.HashCode {
			return keydex.Codes(d.Lang)
		}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	dex.Put(doc{Path: "a.go", Lang: "go"})
	dex.Put(doc{Path: "b.rs", Lang: "rust"})

	if got := dex.CountFor("go", 0); got != 1 {
		t.Fatalf("expected 1 go doc, got %d", got)
	}
	if dex.Indexes() != 1 {
		t.Fatalf("expected 1 index, got %d", dex.Indexes())
	}
}

func TestBuilder_MissingPrimaryKeyFunc(t *testing.T) {
	_, err := keydex.New[string, doc](nil).Build()
	if !errors.Is(err, keydex.ErrMissingPrimaryKeyFunc) {
		t.Fatalf("expected ErrMissingPrimaryKeyFunc, got %v", err)
	}
}

func TestBuilder_NegativeIndexCount(t *testing.T) {
	_, err := keydex.New[string, doc](docKey).
		Indexes(-1).
		HashValues(func(d doc) []keydex.HashCode { return nil }).
		Build()

	var countErr *keydex.InvalidIndexCountError
	if !errors.As(err, &countErr) {
		t.Fatalf("expected InvalidIndexCountError, got %v", err)
	}
	if countErr.Count != -1 {
		t.Fatalf("expected count -1, got %d", countErr.Count)
	}
}

func TestBuilder_MissingHashValuesFunc(t *testing.T) {
	_, err := keydex.New[string, doc](docKey).
		Indexes(2).
		Build()
	if !errors.Is(err, keydex.ErrMissingHashValuesFunc) {
		t.Fatalf("expected ErrMissingHashValuesFunc, got %v", err)
	}
}

func TestBuilder_IsImmutable(t *testing.T) {
	base := keydex.New[string, doc](docKey)
	withIndexes := base.Indexes(1).HashValues(func(d doc) []keydex.HashCode {
		return keydex.Codes(d.Lang)
	})

	// The original builder is unaffected by derived configuration.
	plain, err := base.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if plain.Indexes() != 0 {
		t.Fatalf("expected 0 indexes on base builder, got %d", plain.Indexes())
	}

	indexed, err := withIndexes.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if indexed.Indexes() != 1 {
		t.Fatalf("expected 1 index, got %d", indexed.Indexes())
	}
}
