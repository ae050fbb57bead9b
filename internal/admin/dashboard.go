// Package admin drives the admin dashboard: guest list, RSVP review,
// expected turnout and RSVP settings.
package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"wedding-rsvp/internal/api"
	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/notify"
)

var (
	ErrNotConfirmed = errors.New("action not confirmed")
	ErrNameRequired = errors.New("first and last name are required")
	ErrMissingID    = errors.New("missing id")
	ErrNoRSVP       = errors.New("guest has not responded")
	ErrNoMessenger  = errors.New("no invite messenger configured")
)

// Backend is the admin API
type Backend interface {
	Invitees(ctx context.Context) ([]models.Invitee, error)
	Invite(ctx context.Context, req models.InviteRequest) (models.InviteResult, error)
	DeleteInvitee(ctx context.Context, id string) error
	RSVPs(ctx context.Context) ([]models.RSVP, error)
	RSVP(ctx context.Context, id string) (*models.RSVP, error)
	UpdateRSVP(ctx context.Context, id string, update models.RSVPUpdate) (*models.RSVP, error)
	DeleteRSVP(ctx context.Context, id string) error
	ExpectedTurnout(ctx context.Context) (models.Turnout, error)
	Settings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, s models.Settings) (models.Settings, error)
}

// AuthChecker reports whether stored credentials are accepted
type AuthChecker interface {
	CheckAuth(ctx context.Context) bool
}

// Confirmer asks the admin before destructive actions
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Clipboard receives invite links and codes
type Clipboard interface {
	WriteAll(text string) error
}

// Messenger delivers an invite link to a phone number
type Messenger interface {
	SendInvitation(ctx context.Context, phone, name, link string) error
}

type View string

const (
	ViewGuests   View = "guests"
	ViewRSVPs    View = "rsvps"
	ViewExpected View = "expected"
	ViewSettings View = "settings"
)

// resource identifies one independently fetched list
type resource int

const (
	resInvitees resource = iota
	resRSVPs
	resTurnout
	resSettings
)

func (r resource) String() string {
	return [...]string{"invitees", "rsvps", "expected-turnout", "settings"}[r]
}

// Totals are the summary cards
type Totals struct {
	Invitees  int
	Responded int
	Expected  int
}

// Dashboard holds the admin's view of the backend. Every fetch takes a
// generation number first; a result is applied only if no newer fetch of
// the same resource started in the meantime.
type Dashboard struct {
	backend    Backend
	auth       AuthChecker
	notifier   notify.Notifier
	clipboard  Clipboard
	confirmer  Confirmer
	messenger  Messenger
	siteOrigin string
	log        zerolog.Logger

	mu       sync.Mutex
	gen      [4]uint64
	view     View
	invitees []models.Invitee
	rsvps    []models.RSVP
	turnout  models.Turnout
	settings models.Settings
	review   *Review
}

// NewDashboard creates a dashboard. Without a confirmer every destructive
// action is refused.
func NewDashboard(backend Backend, auth AuthChecker, notifier notify.Notifier, siteOrigin string, log zerolog.Logger) *Dashboard {
	return &Dashboard{
		backend:    backend,
		auth:       auth,
		notifier:   notifier,
		siteOrigin: siteOrigin,
		view:       ViewGuests,
		settings:   models.DefaultSettings(),
		log:        log.With().Str("component", "admin").Logger(),
	}
}

func (d *Dashboard) WithClipboard(c Clipboard) *Dashboard { d.clipboard = c; return d }
func (d *Dashboard) WithConfirmer(c Confirmer) *Dashboard { d.confirmer = c; return d }
func (d *Dashboard) WithMessenger(m Messenger) *Dashboard { d.messenger = m; return d }

// Bootstrap checks the stored credentials and loads the guest list
func (d *Dashboard) Bootstrap(ctx context.Context) error {
	if !d.auth.CheckAuth(ctx) {
		d.notifier.Show(notify.KindError, "Unauthorized - redirecting to login", notify.DefaultTTL)
		return api.ErrUnauthorized
	}
	return d.ReloadInvitees(ctx)
}

// View returns the active view
func (d *Dashboard) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view
}

// SwitchView activates v and fetches its data. Leaving the RSVP view
// closes any open RSVP detail.
func (d *Dashboard) SwitchView(ctx context.Context, v View) error {
	d.mu.Lock()
	d.view = v
	if v != ViewRSVPs {
		d.review = nil
	}
	d.mu.Unlock()

	switch v {
	case ViewGuests:
		return d.ReloadInvitees(ctx)
	case ViewRSVPs:
		return d.ReloadRSVPs(ctx)
	case ViewExpected:
		return d.ReloadTurnout(ctx)
	case ViewSettings:
		return d.LoadSettings(ctx)
	}
	return fmt.Errorf("unknown view %q", v)
}

func (d *Dashboard) begin(r resource) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen[r]++
	return d.gen[r]
}

// apply runs set under the lock if gen is still the latest fetch of r.
func (d *Dashboard) apply(r resource, gen uint64, set func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen[r] != gen {
		d.log.Debug().Stringer("resource", r).Uint64("gen", gen).Uint64("latest", d.gen[r]).Msg("discarding stale fetch")
		return false
	}
	set()
	return true
}

// fetchFailed reports a fetch error unless a newer fetch superseded it
func (d *Dashboard) fetchFailed(r resource, gen uint64, label string, err error) error {
	if !d.apply(r, gen, func() {}) {
		return nil
	}
	d.log.Error().Err(err).Stringer("resource", r).Msg("fetch failed")
	d.notifier.Show(notify.KindError, fmt.Sprintf("Error fetching %s: %s", label, api.Message(err)), notify.DefaultTTL)
	return fmt.Errorf("failed to fetch %s: %w", r, err)
}

func (d *Dashboard) ReloadInvitees(ctx context.Context) error {
	gen := d.begin(resInvitees)
	list, err := d.backend.Invitees(ctx)
	if err != nil {
		return d.fetchFailed(resInvitees, gen, "invitees", err)
	}
	d.apply(resInvitees, gen, func() { d.invitees = list })
	return nil
}

func (d *Dashboard) ReloadRSVPs(ctx context.Context) error {
	gen := d.begin(resRSVPs)
	list, err := d.backend.RSVPs(ctx)
	if err != nil {
		return d.fetchFailed(resRSVPs, gen, "RSVPs", err)
	}
	d.apply(resRSVPs, gen, func() { d.rsvps = list })
	return nil
}

func (d *Dashboard) ReloadTurnout(ctx context.Context) error {
	gen := d.begin(resTurnout)
	t, err := d.backend.ExpectedTurnout(ctx)
	if err != nil {
		return d.fetchFailed(resTurnout, gen, "expected turnout", err)
	}
	d.apply(resTurnout, gen, func() { d.turnout = t })
	return nil
}

func (d *Dashboard) Invitees() []models.Invitee {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.Invitee(nil), d.invitees...)
}

func (d *Dashboard) RSVPs() []models.RSVP {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.RSVP(nil), d.rsvps...)
}

func (d *Dashboard) Turnout() models.Turnout {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.turnout
}

// Totals counts invitees, responses and the expected headcount
func (d *Dashboard) Totals() Totals {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Totals{
		Invitees:  len(d.invitees),
		Responded: len(d.rsvps),
		Expected:  d.turnout.Total(),
	}
}

// Review returns the open RSVP detail, or nil
func (d *Dashboard) Review() *Review {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.review
}

// OpenRSVP loads one record into a new review and makes it the active
// selection.
func (d *Dashboard) OpenRSVP(ctx context.Context, id string) (*Review, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	r := NewReview(d.backend, id, d.notifier, d.log).OnSaved(d.afterSave)
	d.mu.Lock()
	d.review = r
	d.mu.Unlock()

	if err := r.Load(ctx); err != nil {
		return r, err
	}
	return r, nil
}

// OpenRSVPFromGuest switches to the RSVP view and opens the guest's response
func (d *Dashboard) OpenRSVPFromGuest(ctx context.Context, guest models.Invitee) (*Review, error) {
	if !guest.Responded() {
		return nil, ErrNoRSVP
	}
	// a failed list fetch is already reported and does not block the detail
	_ = d.SwitchView(ctx, ViewRSVPs)
	return d.OpenRSVP(ctx, *guest.RSVPID)
}

// CloseRSVP clears the active selection
func (d *Dashboard) CloseRSVP() {
	d.mu.Lock()
	d.review = nil
	d.mu.Unlock()
}

// afterSave keeps the list and the counts in line with a saved record
func (d *Dashboard) afterSave(ctx context.Context, saved models.RSVP) {
	d.mu.Lock()
	for i := range d.rsvps {
		if d.rsvps[i].ID == saved.ID {
			d.rsvps[i] = saved
		}
	}
	d.mu.Unlock()

	_ = d.ReloadRSVPs(ctx)
	_ = d.ReloadTurnout(ctx)
}

func (d *Dashboard) confirm(prompt string) bool {
	return d.confirmer != nil && d.confirmer.Confirm(prompt)
}

// DeleteRSVP removes a record after confirmation. The local list changes
// only once the backend has deleted it.
func (d *Dashboard) DeleteRSVP(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	if !d.confirm("Delete this RSVP? This cannot be undone.") {
		return ErrNotConfirmed
	}
	if err := d.backend.DeleteRSVP(ctx, id); err != nil {
		d.log.Error().Err(err).Str("rsvp", id).Msg("Failed to delete RSVP")
		d.notifier.Show(notify.KindError, "Delete failed: "+api.Message(err), notify.DefaultTTL)
		return fmt.Errorf("failed to delete rsvp: %w", err)
	}

	d.mu.Lock()
	kept := d.rsvps[:0:0]
	for _, r := range d.rsvps {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	d.rsvps = kept
	if d.review != nil && d.review.ID() == id {
		d.review = nil
	}
	d.mu.Unlock()

	d.notifier.Show(notify.KindInfo, "RSVP deleted", notify.DefaultTTL)
	return nil
}

// Settings returns the last loaded settings
func (d *Dashboard) Settings() models.Settings {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settings
}

func (d *Dashboard) LoadSettings(ctx context.Context) error {
	gen := d.begin(resSettings)
	s, err := d.backend.Settings(ctx)
	if err != nil {
		return d.fetchFailed(resSettings, gen, "settings", err)
	}
	d.apply(resSettings, gen, func() { d.settings = s })
	return nil
}

// SaveSettings stores the RSVP switches
func (d *Dashboard) SaveSettings(ctx context.Context, s models.Settings) error {
	gen := d.begin(resSettings)
	saved, err := d.backend.SaveSettings(ctx, s)
	if err != nil {
		d.log.Error().Err(err).Msg("Failed to save settings")
		d.notifier.Show(notify.KindError, "Failed to save settings: "+api.Message(err), notify.DefaultTTL)
		return fmt.Errorf("failed to save settings: %w", err)
	}
	d.apply(resSettings, gen, func() { d.settings = saved })
	d.notifier.Show(notify.KindSuccess, "Settings saved", notify.DefaultTTL)
	return nil
}
