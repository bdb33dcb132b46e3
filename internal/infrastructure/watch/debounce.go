// Package watch reloads plan files as they change on disk.
package watch

import (
	"sync"
	"time"
)

// Debouncer collapses a burst of file events into one reload. Editors often
// emit several writes per save, so the callback receives how many triggers
// the burst contained.
type Debouncer struct {
	quiet  time.Duration
	reload func(events int)

	mu     sync.Mutex
	timer  *time.Timer
	gen    uint64
	events int
}

func NewDebouncer(quiet time.Duration, reload func(events int)) *Debouncer {
	return &Debouncer{quiet: quiet, reload: reload}
}

// Trigger records an event and restarts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	d.events++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, func() { d.fire(gen) })
}

// fire runs the callback unless a later Trigger or Stop superseded gen. A
// stopped timer whose func already started is caught by the generation check.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.events == 0 {
		d.mu.Unlock()
		return
	}
	n := d.events
	d.events = 0
	d.mu.Unlock()

	d.reload(n)
}

// Pending reports whether a reload is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.events > 0
}

// Stop drops any scheduled reload.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	d.events = 0
	if d.timer != nil {
		d.timer.Stop()
	}
}
