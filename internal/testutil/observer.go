package testutil

import (
	"fmt"
	"sync"
)

// Recorder is a listing.Observer that records every notification as a
// string such as "removed:3", "changed:0" or "reset".
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

// ItemRemoved records "removed:<position>".
func (r *Recorder) ItemRemoved(position int) {
	r.add(fmt.Sprintf("removed:%d", position))
}

// ItemChanged records "changed:<position>".
func (r *Recorder) ItemChanged(position int) {
	r.add(fmt.Sprintf("changed:%d", position))
}

// DataSetChanged records "reset".
func (r *Recorder) DataSetChanged() {
	r.add("reset")
}

// Events returns a copy of the recorded notifications in order.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.events...)
}

func (r *Recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}
