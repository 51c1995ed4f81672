// Package storage provides a key→JSON-document file store with atomic writes.
// The tracking ledger, the match batch, and the analytics history all persist
// through it.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrCorrupt indicates a persisted document that exists but cannot be decoded.
// Loading proceeds no further: silently dropping durable state risks duplicate
// processing or lost history.
var ErrCorrupt = errors.New("document corrupt")

// StorageError wraps a failed store operation with its context.
type StorageError struct {
	Op     string // "read" or "write"
	Entity string // what was being stored, e.g. "ledger"
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Document is a single JSON document persisted at a fixed path.
type Document struct {
	path   string
	entity string
}

// NewDocument creates a document store at path. entity names the stored data
// in error messages.
func NewDocument(path, entity string) *Document {
	return &Document{path: path, entity: entity}
}

// Path returns the backing file path.
func (d *Document) Path() string { return d.path }

// Load decodes the document into v. An absent file is the valid initial state
// and returns (false, nil); a present but malformed file returns ErrCorrupt.
func (d *Document) Load(v any) (bool, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, &StorageError{Op: "read", Entity: d.entity, Err: err}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, &StorageError{Op: "read", Entity: d.entity, Err: ErrCorrupt}
	}
	return true, nil
}

// Save encodes v and atomically replaces the document on disk.
func (d *Document) Save(v any) error {
	writer, err := newAtomicWriter(d.path)
	if err != nil {
		return &StorageError{Op: "write", Entity: d.entity, Err: err}
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		writer.Abort()
		return &StorageError{Op: "write", Entity: d.entity, Err: err}
	}

	if err := writer.Commit(); err != nil {
		return &StorageError{Op: "write", Entity: d.entity, Err: err}
	}
	return nil
}
