package stream

import (
	"archive/zip"
	"bufio"
	"errors"
	"io"
	"iter"
)

// ErrFileNotFound indicates a file was not found in the archive.
var ErrFileNotFound = errors.New("file not found in backup")

// maxLine bounds a single JSONL entry.
const maxLine = 16 << 20

// OpenFile opens path from zr.
func OpenFile(zr *zip.Reader, path string) (io.ReadCloser, error) {
	for _, f := range zr.File {
		if f.Name == path {
			return f.Open()
		}
	}
	return nil, ErrFileNotFound
}

// ReadJSON decodes the single JSON document at path into v.
func ReadJSON(zr *zip.Reader, path string, v any) error {
	rc, err := OpenFile(zr, path)
	if err != nil {
		return err
	}
	defer rc.Close()
	return json.NewDecoder(rc).Decode(v)
}

// Reader streams entities of type T from a JSONL file.
type Reader[T any] struct {
	rc      io.ReadCloser
	scanner *bufio.Scanner
}

// NewReader creates a streaming reader over rc. All closes rc when done.
func NewReader[T any](rc io.ReadCloser) *Reader[T] {
	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Reader[T]{rc: rc, scanner: scanner}
}

// All iterates every entity. A line that fails to decode yields its error and
// iteration continues with the next line.
func (r *Reader[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer r.rc.Close()

		for r.scanner.Scan() {
			line := r.scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var entity T
			if err := json.Unmarshal(line, &entity); err != nil {
				var zero T
				if !yield(zero, err) {
					return
				}
				continue
			}
			if !yield(entity, nil) {
				return
			}
		}

		if err := r.scanner.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}
