// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package watch_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/creachadair/jcomplete/internal/watch"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) { goleak.VerifyTestMain(m) }

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	other := filepath.Join(dir, "other.json")
	if err := os.WriteFile(path, []byte(`{}`), 0600); err != nil {
		t.Fatalf("Write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan string, 10)
	done := make(chan error, 1)
	go func() {
		done <- watch.File(ctx, path, &watch.Options{Settle: 10 * time.Millisecond}, func(text string) {
			got <- text
		})
	}()

	// Give the watcher time to start before changing the file.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(other, []byte(`ignored`), 0600); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := os.WriteFile(path, []byte(`{"a": 1}`), 0600); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// A write may be observed in pieces; wait for the complete contents.
	timeout := time.After(5 * time.Second)
	for text := ""; text != `{"a": 1}`; {
		select {
		case text = <-got:
			t.Logf("Got %q", text)
		case <-timeout:
			t.Fatal("Timed out waiting for a change")
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("File: unexpected error: %v", err)
	}
}

func TestFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonesuch.json")
	err := watch.File(context.Background(), path, nil, func(string) {
		t.Error("Unexpected call to f")
	})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("File: got %v, want %v", err, fs.ErrNotExist)
	}
}
