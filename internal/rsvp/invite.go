package rsvp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/text/message"

	"wedding-rsvp/internal/i18n"
	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/notify"
)

var (
	// ErrInviteFailed wraps any failure to resolve a token.
	ErrInviteFailed = errors.New("invite could not be resolved")
	// ErrTokenRequired is returned for an empty token; no request is sent.
	ErrTokenRequired = errors.New("invite token required")
	// ErrSuperseded is returned when a later Resolve or stranger switch
	// started while this fetch was in flight. Its result is dropped.
	ErrSuperseded = errors.New("invite resolve superseded")
)

// InviteState is the resolver's state
type InviteState int

const (
	InviteIdle InviteState = iota
	InviteLoading
	InviteReady
	InviteFailed
)

func (s InviteState) String() string {
	return [...]string{"idle", "loading", "ready", "failed"}[s]
}

// Invite is the context a ready form is seeded with
type Invite struct {
	GuestID   string
	FirstName string
	LastName  string
	// AllowedPartySize is 0 when no cap is known.
	AllowedPartySize int
	Stranger         bool
}

// MaxAdditional returns the additional-guest cap and whether one applies
func (i Invite) MaxAdditional() (int, bool) {
	if i.AllowedPartySize <= 0 {
		return 0, false
	}
	return max(i.AllowedPartySize-1, 0), true
}

// MetaSource fetches invite metadata by token
type MetaSource interface {
	RSVPMeta(ctx context.Context, token string) (models.RSVPMeta, error)
}

// Resolver turns an invite token into an Invite.
//
//	Idle -> Loading -> Ready | Failed
//	Idle | Failed -> Ready (stranger mode)
type Resolver struct {
	source   MetaSource
	notifier notify.Notifier
	printer  *message.Printer
	log      zerolog.Logger

	mu     sync.Mutex
	state  InviteState
	invite Invite
	gen    uint64
}

func NewResolver(source MetaSource, notifier notify.Notifier, printer *message.Printer, log zerolog.Logger) *Resolver {
	return &Resolver{
		source:   source,
		notifier: notifier,
		printer:  printer,
		log:      log.With().Str("component", "invite-resolver").Logger(),
	}
}

// State returns the current state
func (r *Resolver) State() InviteState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Invite returns the resolved invite and whether the resolver is ready
func (r *Resolver) Invite() (Invite, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.invite, r.state == InviteReady
}

// Resolve fetches metadata for token. The token itself is the guest id
// unless the backend returns one. Only the most recent call applies its
// result; earlier ones still in flight return ErrSuperseded.
func (r *Resolver) Resolve(ctx context.Context, token string) (Invite, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		r.notifier.Show(notify.KindError, r.printer.Sprintf(i18n.InviteCodeMissing), notify.DefaultTTL)
		return Invite{}, ErrTokenRequired
	}

	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.state = InviteLoading
	r.mu.Unlock()

	meta, err := r.source.RSVPMeta(ctx, token)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		r.log.Debug().Str("token", token).Msg("discarding stale invite fetch")
		return Invite{}, ErrSuperseded
	}
	if err != nil {
		r.state = InviteFailed
		r.invite = Invite{}
		r.log.Error().Err(err).Str("token", token).Msg("Failed to load RSVP meta")
		r.notifier.Show(notify.KindError, r.printer.Sprintf(i18n.MetaFail), notify.DefaultTTL)
		return Invite{}, fmt.Errorf("%w: %w", ErrInviteFailed, err)
	}

	inv := Invite{
		GuestID:   token,
		FirstName: meta.Name.FirstName,
		LastName:  meta.Name.LastName,
	}
	if meta.GuestID != "" {
		inv.GuestID = meta.GuestID
	}
	if meta.AllowedPartySize != nil {
		inv.AllowedPartySize = models.ClampPartySize(*meta.AllowedPartySize)
	}
	r.state = InviteReady
	r.invite = inv
	return inv, nil
}

// EnterStrangerMode makes the resolver ready without a linked guest.
// Callers only do this when the settings allow strangers.
func (r *Resolver) EnterStrangerMode(partySize int) Invite {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen++
	r.state = InviteReady
	r.invite = Invite{AllowedPartySize: models.ClampPartySize(partySize), Stranger: true}
	return r.invite
}
