package rsvp

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/text/message"

	"wedding-rsvp/internal/notify"
)

// Flow wires the gate, the resolver and the lock into a ready form
type Flow struct {
	gate          *Gate
	resolver      *Resolver
	lock          Locker
	strangerParty int
	notifier      notify.Notifier
	printer       *message.Printer
	log           zerolog.Logger
}

// Public is what the flow needs from the backend
type Public interface {
	SettingsSource
	MetaSource
}

func NewFlow(public Public, lock Locker, strangerParty int, notifier notify.Notifier, printer *message.Printer, log zerolog.Logger) *Flow {
	return &Flow{
		gate:          NewGate(public, notifier, printer, log),
		resolver:      NewResolver(public, notifier, printer, log),
		lock:          lock,
		strangerParty: strangerParty,
		notifier:      notifier,
		printer:       printer,
		log:           log.With().Str("component", "rsvp-flow").Logger(),
	}
}

// Resolver exposes the invite resolver state
func (fl *Flow) Resolver() *Resolver { return fl.resolver }

// Load reads the settings and the lock, resolves token when given and
// falls back to stranger mode when the settings allow it. The returned
// form's Mode says which view applies.
func (fl *Flow) Load(ctx context.Context, token string) *Form {
	settings := fl.gate.Load(ctx)
	form := NewForm(settings, fl.lock.Locked(), fl.notifier, fl.printer)

	if token != "" {
		if inv, err := fl.resolver.Resolve(ctx, token); err == nil {
			form.Seed(inv)
			return form
		}
	}
	fl.fallback(form)
	return form
}

// EnterCode resolves a manually entered invite code into an existing form.
// On failure the form loses its invite context and, if strangers are
// allowed, continues in stranger mode. A superseded resolve leaves the
// form alone.
func (fl *Flow) EnterCode(ctx context.Context, form *Form, code string) error {
	inv, err := fl.resolver.Resolve(ctx, code)
	if err != nil {
		if !errors.Is(err, ErrTokenRequired) && !errors.Is(err, ErrSuperseded) {
			form.Unseed()
			fl.fallback(form)
		}
		return err
	}
	form.Seed(inv)
	return nil
}

func (fl *Flow) fallback(form *Form) {
	s := form.Settings()
	if s.RSVPOpenToStrangers && !s.RSVPClosed {
		form.Seed(fl.resolver.EnterStrangerMode(fl.strangerParty))
	}
}
