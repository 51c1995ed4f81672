package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

func TestDocumentRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "sample.json")
	doc := NewDocument(path, "sample")

	want := sample{Name: "东京散步", Count: 3, Tags: []string{"travel", "日本"}}
	if err := doc.Save(&want); err != nil {
		t.Fatalf("save: %v", err)
	}

	var got sample
	found, err := doc.Load(&got)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatal("expected document to exist")
	}
	if got.Name != want.Name || got.Count != want.Count || len(got.Tags) != 2 {
		t.Errorf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestDocumentLoadAbsent(t *testing.T) {
	doc := NewDocument(filepath.Join(t.TempDir(), "missing.json"), "sample")

	var got sample
	found, err := doc.Load(&got)
	if err != nil {
		t.Fatalf("absent file must not be an error, got %v", err)
	}
	if found {
		t.Error("expected found=false for absent file")
	}
}

func TestDocumentLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	doc := NewDocument(path, "sample")
	var got sample
	_, err := doc.Load(&got)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}

	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected *StorageError, got %T", err)
	}
	if storageErr.Entity != "sample" {
		t.Errorf("entity = %q, want %q", storageErr.Entity, "sample")
	}
}

func TestDocumentSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.json")
	doc := NewDocument(path, "sample")

	if err := doc.Save(&sample{Name: "first"}); err != nil {
		t.Fatal(err)
	}
	if err := doc.Save(&sample{Name: "second"}); err != nil {
		t.Fatal(err)
	}

	var got sample
	if _, err := doc.Load(&got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "second" {
		t.Errorf("name = %q, want %q", got.Name, "second")
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 file in dir, found %d", len(entries))
	}
}
