package storage

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

type fakeObjectWriter struct {
	bytes.Buffer
	closed   int
	closeErr error
}

func (f *fakeObjectWriter) Close() error {
	f.closed++
	return f.closeErr
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("stream interrupted")
}

func TestWriteObject(t *testing.T) {
	t.Parallel()

	w := &fakeObjectWriter{}
	if err := writeObject(w, strings.NewReader("receipt bytes")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.String() != "receipt bytes" {
		t.Fatalf("body not written, got %q", w.String())
	}
	if w.closed != 1 {
		t.Fatalf("writer must be closed exactly once, got %d", w.closed)
	}
}

func TestWriteObjectClosesOnCopyFailure(t *testing.T) {
	t.Parallel()

	w := &fakeObjectWriter{}
	if err := writeObject(w, failingReader{}); err == nil {
		t.Fatalf("copy failure must surface")
	}
	if w.closed != 1 {
		t.Fatalf("writer must be closed on the error path, got %d closes", w.closed)
	}
}
