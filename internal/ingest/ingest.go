package ingest

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/nxadm/tail"

	"devtail/internal/model"
)

// Options configures the tail of one monitored file.
type Options struct {
	Source model.Source
	// Poll selects the polling watcher instead of inotify. Polling is the
	// default; dev-server volume is low and sub-second latency is fine.
	Poll bool
}

// Line is one freshly read line, before cleaning and classification.
type Line struct {
	Text   string
	Stream model.Stream
	When   time.Time
}

// Read tails the source until ctx is cancelled, emitting appended lines on
// the returned channel. The file does not need to exist yet: the tail blocks
// until it appears and then reads from end-of-file, so content present
// before watching began is never emitted. Trailing whitespace is trimmed and
// lines empty after trimming are dropped. Errors are reported on the second
// channel and are fatal to this tail only. Both channels close when the
// goroutine exits.
func Read(ctx context.Context, opt Options) (<-chan Line, <-chan error) {
	out := make(chan Line, 1024)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)
		tailFile(ctx, opt, out, errs)
	}()

	return out, errs
}

func tailFile(ctx context.Context, opt Options, out chan<- Line, errs chan<- error) {
	t, err := tail.TailFile(opt.Source.Path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: false,
		Logger:    tail.DiscardingLogger,
		Poll:      opt.Poll,
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
	})
	if err != nil {
		errs <- err
		return
	}
	defer t.Cleanup()
	for {
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case l, ok := <-t.Lines:
			if !ok {
				return
			}
			if l.Err != nil {
				errs <- l.Err
				continue
			}
			text := strings.TrimRight(l.Text, " \t\r")
			if text == "" {
				continue
			}
			out <- Line{Text: text, Stream: opt.Source.Stream, When: time.Now()}
		}
	}
}
