// Package progress renders a set of terminal progress bars for concurrent
// uploads, one bar per artifact.
package progress

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"loraserve.io/loraserve/pkg/units"
)

const DefaultWidth = 40

type Bar struct {
	Name      string
	Total     int64 // total bytes, <=0 for indeterminate
	Completed int64
	Width     int
	Status    string
	Done      bool
	mb        *MultiBar
}

func (b *Bar) render(w io.Writer) {
	if b.Width == 0 {
		b.Width = DefaultWidth
	}
	var completed int
	status := b.Status
	if b.Done {
		completed = b.Width
	} else if b.Total > 0 {
		completed = int(float64(b.Width) * float64(b.Completed) / float64(b.Total))
		if completed < 0 {
			completed = 0
		}
		if completed > b.Width {
			completed = b.Width
		}
		status = units.HumanSize(float64(b.Completed)) + "/" + units.HumanSize(float64(b.Total))
	}
	fmt.Fprintf(w, "%s [%s%s] %s\n",
		b.Name,
		strings.Repeat("+", completed),
		strings.Repeat("-", b.Width-completed),
		status,
	)
}

func (b *Bar) SetStatus(name, status string) {
	b.Name, b.Status = name, status
	b.notify()
}

func (b *Bar) notify() {
	if b.mb != nil {
		b.mb.markChanged()
	}
}

// WrapReader counts bytes flowing through rc into the bar.
func (b *Bar) WrapReader(rc io.ReadCloser, name string, total int64, onComplete string) io.ReadCloser {
	b.Name, b.Total = name, total
	b.notify()
	return &barReader{rc: rc, b: b, onComplete: onComplete}
}

type barReader struct {
	rc         io.ReadCloser
	b          *Bar
	onComplete string
}

func (r *barReader) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	r.b.Completed += int64(n)
	if r.b.Total > 0 && r.b.Completed >= r.b.Total {
		r.b.Status = r.onComplete
		r.b.Done = true
	}
	r.b.notify()
	return n, err
}

func (r *barReader) Close() error {
	return r.rc.Close()
}

type MultiBar struct {
	w               io.Writer
	width           int
	lastWrittenRows int
	bars            []*Bar
	mu              sync.Mutex
	eg              *errgroup.Group
	changed         bool
}

func NewMultiBar(dest io.Writer, width int, concurrency int) *MultiBar {
	mb := &MultiBar{
		w:     dest,
		width: width,
		eg:    &errgroup.Group{},
	}
	if concurrency > 0 {
		mb.eg.SetLimit(concurrency)
	}
	return mb
}

func (m *MultiBar) markChanged() {
	m.mu.Lock()
	m.changed = true
	m.mu.Unlock()
}

func (m *MultiBar) print() {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := &bytes.Buffer{}
	if m.lastWrittenRows > 0 {
		fmt.Fprintf(buf, "\033[%dA\033[J", m.lastWrittenRows)
	}
	for _, b := range m.bars {
		b.render(buf)
	}
	_, _ = m.w.Write(buf.Bytes())
	m.lastWrittenRows = len(m.bars)
}

// Run repaints the bars until ctx is cancelled.
func (m *MultiBar) Run(ctx context.Context) {
	t := time.NewTicker(100 * time.Millisecond)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.mu.Lock()
			changed := m.changed
			m.changed = false
			m.mu.Unlock()
			if changed {
				m.print()
			}
		}
	}
}

// Go registers a bar and runs fun in the group.
func (m *MultiBar) Go(name string, initstatus string, fun func(b *Bar) error) {
	bar := &Bar{mb: m, Name: name, Status: initstatus, Width: m.width}
	m.mu.Lock()
	m.bars = append(m.bars, bar)
	m.mu.Unlock()
	m.print()

	m.eg.Go(func() error {
		if err := fun(bar); err != nil {
			bar.Status = "failed"
			bar.notify()
			return err
		}
		bar.Done = true
		bar.notify()
		return nil
	})
}

func (m *MultiBar) Wait() error {
	return m.eg.Wait()
}
