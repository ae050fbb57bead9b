// Package rsvp implements the guest RSVP flow: settings gate, invite
// resolution, the form and its submission.
package rsvp

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/text/message"

	"wedding-rsvp/internal/i18n"
	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/notify"
)

// Mode is what the form allows given the settings and invite context
type Mode int

const (
	// ModeClosed: submissions are closed for everyone.
	ModeClosed Mode = iota
	// ModeInviteRequired: strangers are not allowed and no invite is resolved.
	ModeInviteRequired
	// ModeOpen: the form may be submitted.
	ModeOpen
)

func (m Mode) String() string {
	switch m {
	case ModeClosed:
		return "closed"
	case ModeInviteRequired:
		return "invite-required"
	default:
		return "open"
	}
}

// ModeFor derives the form mode. Closed wins over everything.
func ModeFor(s models.Settings, inviteResolved bool) Mode {
	switch {
	case s.RSVPClosed:
		return ModeClosed
	case !inviteResolved && !s.RSVPOpenToStrangers:
		return ModeInviteRequired
	default:
		return ModeOpen
	}
}

// SettingsSource reads the public RSVP settings
type SettingsSource interface {
	PublicSettings(ctx context.Context) (models.Settings, error)
}

// Gate loads the settings that decide whether the form is reachable
type Gate struct {
	source   SettingsSource
	notifier notify.Notifier
	printer  *message.Printer
	log      zerolog.Logger
}

func NewGate(source SettingsSource, notifier notify.Notifier, printer *message.Printer, log zerolog.Logger) *Gate {
	return &Gate{
		source:   source,
		notifier: notifier,
		printer:  printer,
		log:      log.With().Str("component", "settings-gate").Logger(),
	}
}

// Load returns the current settings. On any failure it reports the error
// and returns the defaults, so the form stays usable.
func (g *Gate) Load(ctx context.Context) models.Settings {
	s, err := g.source.PublicSettings(ctx)
	if err != nil {
		g.log.Error().Err(err).Msg("Failed to load RSVP settings, using defaults")
		g.notifier.Show(notify.KindError, g.printer.Sprintf(i18n.SettingsFail), notify.DefaultTTL)
		return models.DefaultSettings()
	}
	return s
}
