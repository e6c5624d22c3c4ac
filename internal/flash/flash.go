// Package flash implements the transient footer notification described in
// spec §3 (Flash): created by core operations (copy success/failure, save
// success), swept by the event loop once its deadline passes.
package flash

import (
	"time"

	"github.com/google/uuid"
)

// Flash is a single footer notification.
type Flash struct {
	ID       string
	Text     string
	Deadline time.Time
}

// Bus holds zero or more in-flight flashes. The event loop owns the Bus;
// there is no background sweeper goroutine, matching §4.9's rule that
// sweeping happens as a deferred effect on each tick, not on a timer.
type Bus struct {
	active []Flash
}

// Show creates a flash that expires after d.
func (b *Bus) Show(text string, d time.Duration) {
	b.active = append(b.active, Flash{
		ID:       uuid.NewString(),
		Text:     text,
		Deadline: time.Now().Add(d),
	})
}

// Sweep removes every flash whose deadline has passed. Called once per
// event-loop tick.
func (b *Bus) Sweep(now time.Time) {
	kept := b.active[:0]
	for _, f := range b.active {
		if now.Before(f.Deadline) {
			kept = append(kept, f)
		}
	}
	b.active = kept
}

// Current returns the most recently shown, still-active flash text, or ""
// if none is active. The footer only has room for one line.
func (b *Bus) Current() string {
	if len(b.active) == 0 {
		return ""
	}
	return b.active[len(b.active)-1].Text
}

// Active reports whether any flash is currently showing.
func (b *Bus) Active() bool {
	return len(b.active) > 0
}
