package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"devtail/internal/model"
)

// settle is how long tests wait for the tail to open a file and seek to its
// end before appending; the polling watcher cycles every few hundred ms.
const settle = 1200 * time.Millisecond

func collect(t *testing.T, out <-chan Line, n int, within time.Duration) []Line {
	t.Helper()
	deadline := time.After(within)
	var got []Line
	for len(got) < n {
		select {
		case l, ok := <-out:
			if !ok {
				t.Fatalf("line channel closed after %d of %d lines", len(got), n)
			}
			got = append(got, l)
		case <-deadline:
			t.Fatalf("timed out with %d of %d lines", len(got), n)
		}
	}
	return got
}

func appendLines(t *testing.T, path, s string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(s); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestReadSkipsHistoricalContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	if err := os.WriteFile(path, []byte("old one\nold two\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out, _ := Read(ctx, Options{Source: model.Source{Path: path, Stream: model.StreamStdout}, Poll: true})

	time.Sleep(settle)
	appendLines(t, path, "new line\n")

	got := collect(t, out, 1, 5*time.Second)
	if got[0].Text != "new line" {
		t.Fatalf("first emitted line = %q, want %q", got[0].Text, "new line")
	}
	if got[0].Stream != model.StreamStdout {
		t.Fatalf("stream = %s, want stdout", got[0].Stream)
	}
}

func TestReadWaitsForFileCreation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late.log")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out, _ := Read(ctx, Options{Source: model.Source{Path: path, Stream: model.StreamStderr}, Poll: true})

	// nothing may arrive while the file is absent
	select {
	case l := <-out:
		t.Fatalf("unexpected line before creation: %q", l.Text)
	case <-time.After(settle):
	}

	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(settle)
	appendLines(t, path, "first after creation\n")

	got := collect(t, out, 1, 5*time.Second)
	if got[0].Text != "first after creation" {
		t.Fatalf("emitted = %q, want %q", got[0].Text, "first after creation")
	}
	if got[0].Stream != model.StreamStderr {
		t.Fatalf("stream = %s, want stderr", got[0].Stream)
	}
}

func TestReadTrimsTrailingWhitespaceAndSkipsEmpties(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out, _ := Read(ctx, Options{Source: model.Source{Path: path, Stream: model.StreamStdout}, Poll: true})

	time.Sleep(settle)
	appendLines(t, path, "  padded  \n\n\t\nsecond\r\n")

	got := collect(t, out, 2, 5*time.Second)
	if got[0].Text != "  padded" {
		t.Fatalf("line 1 = %q, want %q", got[0].Text, "  padded")
	}
	if got[1].Text != "second" {
		t.Fatalf("line 2 = %q, want %q", got[1].Text, "second")
	}
}

func TestReadStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	out, _ := Read(ctx, Options{Source: model.Source{Path: path, Stream: model.StreamStdout}, Poll: true})

	time.Sleep(500 * time.Millisecond)
	cancel()

	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-out:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("line channel still open after cancel")
		}
	}
}
