// Package notify is the terminal stand-in for toast notifications: short
// messages that print once and expire after a fixed duration.
package notify

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

const (
	// DefaultTTL asks the center for its configured duration.
	DefaultTTL time.Duration = -1
	// Sticky toasts stay until dismissed.
	Sticky time.Duration = 0
)

// Notifier shows a message to the user. It returns an id usable with
// Dismiss on the concrete center.
type Notifier interface {
	Show(kind Kind, text string, ttl time.Duration) uint64
}

// Toast is one shown notification
type Toast struct {
	ID        uint64
	Kind      Kind
	Text      string
	CreatedAt time.Time
	TTL       time.Duration
}

// Center keeps active toasts and expires them. There is no queue limit.
type Center struct {
	mu      sync.Mutex
	seq     uint64
	ttl     time.Duration
	out     io.Writer
	log     zerolog.Logger
	active  map[uint64]*entry
	history []Toast
}

type entry struct {
	toast Toast
	timer *time.Timer
}

// NewCenter creates a center printing to out (nil for no output)
func NewCenter(out io.Writer, ttl time.Duration, log zerolog.Logger) *Center {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Center{
		ttl:    ttl,
		out:    out,
		log:    log.With().Str("component", "notify").Logger(),
		active: make(map[uint64]*entry),
	}
}

// Show displays a toast. A negative ttl uses the default, zero never expires.
func (c *Center) Show(kind Kind, text string, ttl time.Duration) uint64 {
	if ttl < 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	c.seq++
	t := Toast{ID: c.seq, Kind: kind, Text: text, CreatedAt: time.Now(), TTL: ttl}
	e := &entry{toast: t}
	if ttl > 0 {
		id := t.ID
		e.timer = time.AfterFunc(ttl, func() { c.Dismiss(id) })
	}
	c.active[t.ID] = e
	c.history = append(c.history, t)
	c.mu.Unlock()

	c.log.Debug().Uint64("id", t.ID).Str("kind", string(kind)).Dur("ttl", ttl).Msg("notification shown")
	if c.out != nil {
		fmt.Fprintf(c.out, "%s %s\n", marker(kind), text)
	}
	return t.ID
}

func (c *Center) Success(text string) uint64 { return c.Show(KindSuccess, text, DefaultTTL) }
func (c *Center) Error(text string) uint64   { return c.Show(KindError, text, DefaultTTL) }
func (c *Center) Info(text string) uint64    { return c.Show(KindInfo, text, DefaultTTL) }

// Dismiss removes a toast before it expires
func (c *Center) Dismiss(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.active[id]
	if !ok {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	delete(c.active, id)
}

// Active returns the toasts that have not expired, oldest first
func (c *Center) Active() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Toast, 0, len(c.active))
	for _, e := range c.active {
		out = append(out, e.toast)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// History returns every toast shown so far
func (c *Center) History() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Toast, len(c.history))
	copy(out, c.history)
	return out
}

// Last returns the most recent toast
func (c *Center) Last() (Toast, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.history) == 0 {
		return Toast{}, false
	}
	return c.history[len(c.history)-1], true
}

func marker(kind Kind) string {
	switch kind {
	case KindSuccess:
		return "✅"
	case KindError:
		return "❌"
	default:
		return "ℹ️"
	}
}
