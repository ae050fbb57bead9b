package rsvp

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/message"

	"wedding-rsvp/internal/i18n"
	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/notify"
)

var (
	ErrClosed           = errors.New("rsvp submissions are closed")
	ErrInviteRequired   = errors.New("an invite is required")
	ErrAlreadySubmitted = errors.New("an rsvp was already submitted from this client")
	ErrNotReady         = errors.New("invite not loaded")
	ErrNameRequired     = errors.New("first and last name are required")
	ErrPartyFull        = errors.New("additional guest limit reached")
	ErrNoSuchGuest      = errors.New("no additional guest at that position")
	ErrBadAttendance    = errors.New("attendance must be Accepted or Declined")
)

// CapacityError is returned when adding a guest beyond the cap
type CapacityError struct {
	Max int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("at most %d additional guests allowed", e.Max)
}

func (e *CapacityError) Unwrap() error { return ErrPartyFull }

// AddressInput holds the raw address fields as typed
type AddressInput struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
}

// Form is one guest's RSVP being filled in. It is not safe for
// concurrent use.
type Form struct {
	FirstName             string
	LastName              string
	Phone                 string
	Email                 string
	Address               AddressInput
	SpecialAccommodations string
	// Notes is the free-text note to the couple.
	Notes string

	settings   models.Settings
	invite     Invite
	ready      bool
	locked     bool
	attendance models.RSVPStatus
	guests     []models.AdditionalGuest

	notifier notify.Notifier
	printer  *message.Printer
}

// NewForm creates a form that is not ready until Seed is called.
func NewForm(settings models.Settings, locked bool, notifier notify.Notifier, printer *message.Printer) *Form {
	return &Form{
		settings:   settings,
		locked:     locked,
		attendance: models.RSVPAccepted,
		notifier:   notifier,
		printer:    printer,
	}
}

// Seed makes the form ready with an invite and pre-fills the names the
// invite carries.
func (f *Form) Seed(inv Invite) {
	f.invite = inv
	f.ready = true
	if inv.FirstName != "" {
		f.FirstName = inv.FirstName
	}
	if inv.LastName != "" {
		f.LastName = inv.LastName
	}
}

// Unseed drops the invite context and any party-size cap.
func (f *Form) Unseed() {
	f.invite = Invite{}
	f.ready = false
}

func (f *Form) Settings() models.Settings { return f.settings }
func (f *Form) Invite() Invite            { return f.invite }
func (f *Form) Ready() bool               { return f.ready }
func (f *Form) Locked() bool              { return f.locked }

// Mode reports which of the three form states applies
func (f *Form) Mode() Mode {
	return ModeFor(f.settings, f.ready && !f.invite.Stranger)
}

// CanSubmit returns nil when the submit control is enabled, otherwise
// the reason it is disabled.
func (f *Form) CanSubmit() error {
	switch {
	case f.Mode() == ModeClosed:
		return ErrClosed
	case f.Mode() == ModeInviteRequired:
		return ErrInviteRequired
	case f.locked:
		return ErrAlreadySubmitted
	case !f.ready:
		return ErrNotReady
	}
	return nil
}

// Attendance returns the current choice
func (f *Form) Attendance() models.RSVPStatus { return f.attendance }

// SetAttendance switches between Accepted and Declined. Guests entered
// while accepting are kept so switching back does not lose them.
func (f *Form) SetAttendance(s models.RSVPStatus) error {
	if !s.Editable() {
		return ErrBadAttendance
	}
	f.attendance = s
	return nil
}

// MaxAdditional returns the additional-guest cap and whether one applies
func (f *Form) MaxAdditional() (int, bool) {
	return f.invite.MaxAdditional()
}

// Guests returns a copy of the additional guests
func (f *Form) Guests() []models.AdditionalGuest {
	out := make([]models.AdditionalGuest, len(f.guests))
	copy(out, f.guests)
	return out
}

// AddGuest appends an empty guest entry. At the cap it reports the limit
// and returns a *CapacityError; nothing is added.
func (f *Form) AddGuest() error {
	if limit, ok := f.MaxAdditional(); ok && len(f.guests) >= limit {
		f.notifier.Show(notify.KindError, f.printer.Sprintf(i18n.MaxGuestsReached, limit), notify.DefaultTTL)
		return &CapacityError{Max: limit}
	}
	f.guests = append(f.guests, models.AdditionalGuest{})
	return nil
}

// RemoveGuest deletes the guest at index i
func (f *Form) RemoveGuest(i int) error {
	if i < 0 || i >= len(f.guests) {
		return ErrNoSuchGuest
	}
	f.guests = append(f.guests[:i], f.guests[i+1:]...)
	return nil
}

// UpdateGuest replaces the guest at index i
func (f *Form) UpdateGuest(i int, g models.AdditionalGuest) error {
	if i < 0 || i >= len(f.guests) {
		return ErrNoSuchGuest
	}
	f.guests[i] = g
	return nil
}

// GuestsLimit describes used/max/remaining, or "" when uncapped
func (f *Form) GuestsLimit() string {
	limit, ok := f.MaxAdditional()
	if !ok {
		return ""
	}
	return f.printer.Sprintf(i18n.GuestsLimit, len(f.guests), limit, max(limit-len(f.guests), 0))
}

// Payload builds the submission body. It only fails validation; gating
// is checked by CanSubmit.
func (f *Form) Payload() (models.Submission, error) {
	first := strings.TrimSpace(f.FirstName)
	last := strings.TrimSpace(f.LastName)
	if first == "" || last == "" {
		return models.Submission{}, ErrNameRequired
	}

	sub := models.Submission{
		GuestID:  models.NullString(f.invite.GuestID),
		FullName: models.Name{FirstName: first, LastName: last},
	}
	contact := models.Contact{
		Phone: models.NullString(f.Phone),
		Email: models.NullString(f.Email),
		Address: models.NewAddress(
			f.Address.Line1, f.Address.Line2, f.Address.City, f.Address.State, f.Address.PostalCode,
		),
	}

	if f.attendance == models.RSVPDeclined {
		sub.Attendance = models.DeclinedAttendance{
			Message: models.NullString(f.Notes),
			Contact: contact,
		}
		return sub, nil
	}

	guests := f.guests
	if limit, ok := f.MaxAdditional(); ok && len(guests) > limit {
		guests = guests[:limit]
	}
	var additional []models.AdditionalGuest
	for _, g := range guests {
		additional = append(additional, models.AdditionalGuest{
			FirstName:             strings.TrimSpace(g.FirstName),
			LastName:              strings.TrimSpace(g.LastName),
			SpecialAccommodations: models.NullString(models.Deref(g.SpecialAccommodations)),
		})
	}

	sub.Attendance = models.AcceptedAttendance{
		SpecialAccommodations: joinNotes(f.SpecialAccommodations, f.Notes),
		Contact:               contact,
		AdditionalGuests:      additional,
	}
	return sub, nil
}

// joinNotes combines accommodations and the note to the couple with a
// blank line, or nil when both are empty.
func joinNotes(parts ...string) *string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return models.NullString(strings.Join(kept, "\n\n"))
}

// gateMessage returns the localized reason for a CanSubmit error
func (f *Form) gateMessage(err error) string {
	switch {
	case errors.Is(err, ErrClosed):
		return f.printer.Sprintf(i18n.Closed)
	case errors.Is(err, ErrInviteRequired):
		return f.printer.Sprintf(i18n.InviteRequired)
	case errors.Is(err, ErrAlreadySubmitted):
		return f.printer.Sprintf(i18n.AlreadySubmitted)
	default:
		return f.printer.Sprintf(i18n.NotReady)
	}
}
