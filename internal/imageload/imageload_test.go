package imageload

import (
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func waitResult(t *testing.T, l *Loader) Result {
	t.Helper()
	select {
	case res := <-l.Results():
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("no result")
		return Result{}
	}
}

func TestLoadDecodes(t *testing.T) {
	path := writeTestPNG(t, 4, 3)
	l := New()
	l.Load(context.Background(), path)
	res := waitResult(t, l)
	if res.Err != nil {
		t.Fatalf("err = %v", res.Err)
	}
	if res.Format != "png" {
		t.Errorf("format = %q, want png", res.Format)
	}
	if b := res.Img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("bounds = %v, want 4x3", b)
	}
}

func TestLoadMissingFile(t *testing.T) {
	l := New()
	l.Load(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	res := waitResult(t, l)
	if res.Err == nil {
		t.Fatal("want error for missing file")
	}
	if !errors.Is(res.Err, os.ErrNotExist) {
		t.Errorf("err = %v, want wrapped not-exist", res.Err)
	}
}

func TestLoadBadData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := New()
	l.Load(context.Background(), path)
	if res := waitResult(t, l); res.Err == nil {
		t.Fatal("want decode error")
	}
}

type gatedReader struct {
	release <-chan struct{}
	inner   io.ReadCloser
}

func (g *gatedReader) Read(p []byte) (int, error) {
	<-g.release
	return g.inner.Read(p)
}

func (g *gatedReader) Close() error { return g.inner.Close() }

func TestNewerLoadWins(t *testing.T) {
	slow := writeTestPNG(t, 2, 2)
	fast := writeTestPNG(t, 8, 8)
	release := make(chan struct{})

	l := New()
	l.open = func(path string) (io.ReadCloser, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		if path == slow {
			return &gatedReader{release: release, inner: f}, nil
		}
		return f, nil
	}

	l.Load(context.Background(), slow)
	l.Load(context.Background(), fast)
	res := waitResult(t, l)
	if res.Path != fast {
		t.Fatalf("got result for %s, want %s", res.Path, fast)
	}

	// Let the stale load finish; its result must be dropped.
	close(release)
	select {
	case res := <-l.Results():
		t.Fatalf("stale result delivered: %+v", res)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPendingResultReplaced(t *testing.T) {
	a := writeTestPNG(t, 2, 2)
	l := New()
	l.Load(context.Background(), a)
	first := waitResult(t, l)
	if first.Err != nil {
		t.Fatal(first.Err)
	}

	// Two back-to-back loads with nobody reading: only the newest survives.
	l.Load(context.Background(), a)
	seqB := l.Load(context.Background(), a)
	for {
		res := waitResult(t, l)
		if res.Seq == seqB {
			break
		}
	}
}

func TestCancelledContext(t *testing.T) {
	path := writeTestPNG(t, 2, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := New()
	l.Load(ctx, path)
	res := waitResult(t, l)
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", res.Err)
	}
}
