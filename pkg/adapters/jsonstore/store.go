// Package jsonstore persists values as indented JSON files.
package jsonstore

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/user/framecut/pkg/adapters/osfilesystem"
	"github.com/user/framecut/pkg/ports"
)

// Indent is the indentation used for saved files.
const Indent = "    "

// Store reads and writes JSON documents through a FileSystem.
type Store struct {
	fs ports.FileSystem
}

// New creates a store on fs.
func New(fs ports.FileSystem) *Store {
	return &Store{fs: fs}
}

// Save replaces path with v encoded as indented JSON. Non-ASCII text and
// HTML characters are written unescaped.
func (s *Store) Save(path string, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	if err := s.fs.WriteFile(path, data); err != nil {
		return fmt.Errorf("jsonstore: writing %s: %w", path, err)
	}
	return nil
}

// Load decodes the JSON document at path into v.
func (s *Store) Load(path string, v any) error {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("jsonstore: reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("jsonstore: decoding %s: %w", path, err)
	}
	return nil
}

// Marshal encodes v the way Save writes it.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("jsonstore: encoding: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes v to path on the local file system.
func Save(path string, v any) error {
	return New(osfilesystem.New()).Save(path, v)
}
