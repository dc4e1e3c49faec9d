// Package imageload decodes images off the UI task. Loads are sequenced and
// only the most recent request may deliver a result, so a slow decode can
// never clobber a newer image.
package imageload

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Result is one finished load. Img is nil when Err is set.
type Result struct {
	Seq    uint64
	Path   string
	Img    image.Image
	Format string
	Err    error
}

// Loader runs decodes on their own goroutines and hands results to the UI
// task over Results. A newer Load supersedes any in-flight one; the stale
// result is discarded when it completes.
type Loader struct {
	mu      sync.Mutex
	seq     uint64
	results chan Result

	open func(string) (io.ReadCloser, error)
}

// New returns a ready loader.
func New() *Loader {
	return &Loader{
		results: make(chan Result, 1),
		open: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// Results delivers at most the latest finished load. The UI task selects on
// it alongside its event sources.
func (l *Loader) Results() <-chan Result { return l.results }

// Load starts decoding path and returns the request's sequence number.
func (l *Loader) Load(ctx context.Context, path string) uint64 {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.mu.Unlock()

	go func() {
		img, format, err := l.decode(ctx, path)
		l.deliver(Result{Seq: seq, Path: path, Img: img, Format: format, Err: err})
	}()
	return seq
}

func (l *Loader) decode(ctx context.Context, path string) (image.Image, string, error) {
	f, err := l.open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	return img, format, nil
}

// deliver posts res unless a newer Load has started. A pending unread result
// is replaced rather than queued behind.
func (l *Loader) deliver(res Result) {
	l.mu.Lock()
	latest := res.Seq == l.seq
	l.mu.Unlock()
	if !latest {
		return
	}
	for {
		select {
		case l.results <- res:
			return
		default:
			select {
			case <-l.results:
			default:
			}
		}
	}
}
