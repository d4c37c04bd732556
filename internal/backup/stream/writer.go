// Package stream reads and writes JSONL entries inside zip archives.
package stream

import (
	"archive/zip"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Writer streams entities as JSONL to one file of a zip archive.
type Writer struct {
	w     io.Writer
	enc   *jsoniter.Encoder
	count int
}

// NewWriter creates a JSONL writer for path within zw.
func NewWriter(zw *zip.Writer, path string) (*Writer, error) {
	w, err := zw.Create(path)
	if err != nil {
		return nil, err
	}
	return &Writer{w: w, enc: json.NewEncoder(w)}, nil
}

// Write encodes one entity followed by a newline.
func (w *Writer) Write(entity any) error {
	if err := w.enc.Encode(entity); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns entities written so far.
func (w *Writer) Count() int {
	return w.count
}

// WriteJSON stores v as a single JSON document at path.
func WriteJSON(zw *zip.Writer, path string, v any) error {
	w, err := zw.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
