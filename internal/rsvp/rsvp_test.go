package rsvp

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"wedding-rsvp/internal/api"
	"wedding-rsvp/internal/i18n"
	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/notify"
)

type fakePublic struct {
	settings    models.Settings
	settingsErr error
	meta        map[string]models.RSVPMeta

	mu        sync.Mutex
	metaCalls int
	// hold blocks the fetch for a token until the channel is closed
	hold map[string]chan struct{}
}

func (f *fakePublic) PublicSettings(context.Context) (models.Settings, error) {
	return f.settings, f.settingsErr
}

func (f *fakePublic) RSVPMeta(_ context.Context, token string) (models.RSVPMeta, error) {
	f.mu.Lock()
	f.metaCalls++
	wait := f.hold[token]
	f.mu.Unlock()
	if wait != nil {
		<-wait
	}
	m, ok := f.meta[token]
	if !ok {
		return models.RSVPMeta{}, &api.Error{StatusCode: 404, Message: "unknown token"}
	}
	return m, nil
}

type fakeSender struct {
	sent    []models.Submission
	err     error
	receipt models.SubmissionReceipt
}

func (f *fakeSender) SubmitRSVP(_ context.Context, sub models.Submission) (models.SubmissionReceipt, error) {
	if f.err != nil {
		return models.SubmissionReceipt{}, f.err
	}
	f.sent = append(f.sent, sub)
	return f.receipt, nil
}

type memLock struct{ id string }

func (m *memLock) Locked() bool { return m.id != "" }
func (m *memLock) Acquire(id string) (string, error) {
	if id == "" {
		id = "generated"
	}
	m.id = id
	return id, nil
}

func partySize(n int) *int { return &n }

type harness struct {
	public *fakePublic
	sender *fakeSender
	lock   *memLock
	center *notify.Center
	flow   *Flow
	submit *Submitter
}

func newHarness(settings models.Settings) *harness {
	h := &harness{
		public: &fakePublic{
			settings: settings,
			meta: map[string]models.RSVPMeta{
				"abc123": {Name: models.Name{FirstName: "Jo", LastName: "Lee"}, AllowedPartySize: partySize(3)},
				"solo":   {Name: models.Name{FirstName: "Al", LastName: "One"}, AllowedPartySize: partySize(1), GuestID: "g-solo"},
			},
		},
		sender: &fakeSender{},
		lock:   &memLock{},
		center: notify.NewCenter(nil, time.Minute, zerolog.Nop()),
	}
	printer := i18n.Printer("en")
	h.flow = NewFlow(h.public, h.lock, 1, h.center, printer, zerolog.Nop())
	h.submit = NewSubmitter(h.sender, h.lock, h.center, printer, zerolog.Nop())
	return h
}

func lastToast(t *testing.T, c *notify.Center) notify.Toast {
	t.Helper()
	toast, ok := c.Last()
	require.True(t, ok, "expected a notification")
	return toast
}

func inviteOnly() models.Settings {
	return models.Settings{RSVPOpenToStrangers: false}
}

func TestModeFor(t *testing.T) {
	t.Parallel()

	require.Equal(t, ModeClosed, ModeFor(models.Settings{RSVPClosed: true, RSVPOpenToStrangers: true}, true))
	require.Equal(t, ModeInviteRequired, ModeFor(inviteOnly(), false))
	require.Equal(t, ModeOpen, ModeFor(inviteOnly(), true))
	require.Equal(t, ModeOpen, ModeFor(models.DefaultSettings(), false))
}

func TestGateFailsOpen(t *testing.T) {
	t.Parallel()

	h := newHarness(inviteOnly())
	h.public.settingsErr = errors.New("connection refused")

	form := h.flow.Load(context.Background(), "")
	require.Equal(t, models.DefaultSettings(), form.Settings())
	require.Equal(t, ModeOpen, form.Mode())
	require.Equal(t, notify.KindError, h.center.History()[0].Kind)
}

func TestTokenPrefillsAndCapsGuests(t *testing.T) {
	t.Parallel()

	h := newHarness(inviteOnly())
	form := h.flow.Load(context.Background(), "abc123")

	require.Equal(t, InviteReady, h.flow.Resolver().State())
	require.Equal(t, "Jo", form.FirstName)
	require.Equal(t, "Lee", form.LastName)
	limit, capped := form.MaxAdditional()
	require.True(t, capped)
	require.Equal(t, 2, limit)

	require.NoError(t, form.AddGuest())
	require.NoError(t, form.AddGuest())
	err := form.AddGuest()
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	require.Equal(t, 2, capErr.Max)
	require.ErrorIs(t, err, ErrPartyFull)
	require.Len(t, form.Guests(), 2)
	require.Equal(t, "You can add up to 2 additional guests.", lastToast(t, h.center).Text)
	require.Equal(t, "2 of 2 additional guests used (0 remaining)", form.GuestsLimit())

	// the token is the guest id when the backend does not send one
	sub, err := form.Payload()
	require.NoError(t, err)
	require.Equal(t, "abc123", *sub.GuestID)
}

func TestPartyOfOneCannotAddGuests(t *testing.T) {
	t.Parallel()

	h := newHarness(inviteOnly())
	form := h.flow.Load(context.Background(), "solo")
	require.ErrorIs(t, form.AddGuest(), ErrPartyFull)
	require.Empty(t, form.Guests())
}

func TestInvalidTokenLeavesFormNotReady(t *testing.T) {
	t.Parallel()

	h := newHarness(inviteOnly())
	form := h.flow.Load(context.Background(), "bogus")

	require.Equal(t, InviteFailed, h.flow.Resolver().State())
	require.False(t, form.Ready())
	require.Equal(t, ModeInviteRequired, form.Mode())
	require.ErrorIs(t, form.CanSubmit(), ErrInviteRequired)
	_, capped := form.MaxAdditional()
	require.False(t, capped)

	form.FirstName, form.LastName = "Jo", "Lee"
	require.ErrorIs(t, h.submit.Submit(context.Background(), form), ErrInviteRequired)
	require.Empty(t, h.sender.sent)
	require.Equal(t, "An invite code is required to RSVP.", lastToast(t, h.center).Text)

	require.NoError(t, h.flow.EnterCode(context.Background(), form, "abc123"))
	require.Equal(t, ModeOpen, form.Mode())
}

func TestEmptyCodeSendsNoRequest(t *testing.T) {
	t.Parallel()

	h := newHarness(inviteOnly())
	form := h.flow.Load(context.Background(), "")
	require.ErrorIs(t, h.flow.EnterCode(context.Background(), form, "  "), ErrTokenRequired)
	require.Zero(t, h.public.metaCalls)
}

func TestLateResolveIsDiscarded(t *testing.T) {
	t.Parallel()

	h := newHarness(inviteOnly())
	release := make(chan struct{})
	h.public.hold = map[string]chan struct{}{"abc123": release}
	resolver := h.flow.Resolver()
	ctx := context.Background()

	first := make(chan error, 1)
	go func() {
		_, err := resolver.Resolve(ctx, "abc123")
		first <- err
	}()
	require.Eventually(t, func() bool {
		h.public.mu.Lock()
		defer h.public.mu.Unlock()
		return h.public.metaCalls == 1
	}, time.Second, 5*time.Millisecond)

	inv, err := resolver.Resolve(ctx, "solo")
	require.NoError(t, err)
	require.Equal(t, "g-solo", inv.GuestID)

	close(release)
	require.ErrorIs(t, <-first, ErrSuperseded)

	current, ready := resolver.Invite()
	require.True(t, ready)
	require.Equal(t, "g-solo", current.GuestID)
	require.Equal(t, InviteReady, resolver.State())
}

func TestSupersededCodeKeepsForm(t *testing.T) {
	t.Parallel()

	h := newHarness(inviteOnly())
	release := make(chan struct{})
	h.public.hold = map[string]chan struct{}{"abc123": release}
	ctx := context.Background()
	form := h.flow.Load(ctx, "solo")
	require.True(t, form.Ready())

	first := make(chan error, 1)
	go func() { first <- h.flow.EnterCode(ctx, form, "abc123") }()
	require.Eventually(t, func() bool {
		h.public.mu.Lock()
		defer h.public.mu.Unlock()
		return h.public.metaCalls == 2
	}, time.Second, 5*time.Millisecond)

	h.flow.Resolver().EnterStrangerMode(1)
	close(release)
	require.ErrorIs(t, <-first, ErrSuperseded)
	require.True(t, form.Ready())
	require.Equal(t, "g-solo", form.Invite().GuestID)
}

func TestStrangerMode(t *testing.T) {
	t.Parallel()

	h := newHarness(models.DefaultSettings())
	form := h.flow.Load(context.Background(), "")

	require.True(t, form.Ready())
	require.True(t, form.Invite().Stranger)
	require.Equal(t, ModeOpen, form.Mode())
	require.Zero(t, h.public.metaCalls)

	form.FirstName, form.LastName = "Sam", "Stranger"
	require.NoError(t, h.submit.Submit(context.Background(), form))
	require.Nil(t, h.sender.sent[0].GuestID)
}

func TestClosedDisablesSubmitEvenWithInvite(t *testing.T) {
	t.Parallel()

	h := newHarness(models.Settings{RSVPClosed: true, RSVPOpenToStrangers: true})
	form := h.flow.Load(context.Background(), "abc123")

	require.True(t, form.Ready())
	require.ErrorIs(t, form.CanSubmit(), ErrClosed)
	require.ErrorIs(t, h.submit.Submit(context.Background(), form), ErrClosed)
	require.Empty(t, h.sender.sent)
}

func TestAcceptedPayload(t *testing.T) {
	t.Parallel()

	h := newHarness(inviteOnly())
	form := h.flow.Load(context.Background(), "abc123")
	form.SpecialAccommodations = "vegetarian"
	form.Notes = "congrats!"
	form.Email = " jo@example.com "

	sub, err := form.Payload()
	require.NoError(t, err)
	body, err := json.Marshal(sub.Attendance)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"type":"Accepted",
		"specialAccommodations":"vegetarian\n\ncongrats!",
		"phone":null,
		"email":"jo@example.com",
		"address":null,
		"additionalGuests":null
	}`, string(body))
}

func TestDeclinedPayloadDropsGuests(t *testing.T) {
	t.Parallel()

	h := newHarness(inviteOnly())
	form := h.flow.Load(context.Background(), "abc123")
	require.NoError(t, form.AddGuest())
	require.NoError(t, form.SetAttendance(models.RSVPDeclined))
	require.ErrorIs(t, form.SetAttendance(models.RSVPWaitlisted), ErrBadAttendance)
	form.Notes = "so sorry"
	form.Address.City = "Austin"

	sub, err := form.Payload()
	require.NoError(t, err)
	declined, ok := sub.Attendance.(models.DeclinedAttendance)
	require.True(t, ok)
	require.Equal(t, "so sorry", *declined.Message)
	require.Equal(t, "Austin", *declined.Address.City)
	require.Nil(t, declined.Address.Line1)
}

func TestNameRequired(t *testing.T) {
	t.Parallel()

	h := newHarness(models.DefaultSettings())
	form := h.flow.Load(context.Background(), "")
	require.ErrorIs(t, h.submit.Submit(context.Background(), form), ErrNameRequired)
	require.Empty(t, h.sender.sent)
	require.Equal(t, "Please enter your first and last name.", lastToast(t, h.center).Text)
}

func TestSubmitLocksClient(t *testing.T) {
	t.Parallel()

	h := newHarness(inviteOnly())
	h.sender.receipt = models.SubmissionReceipt{ID: "rsvp-1"}
	form := h.flow.Load(context.Background(), "abc123")
	require.NoError(t, form.AddGuest())
	require.NoError(t, form.UpdateGuest(0, models.AdditionalGuest{FirstName: "Sam", LastName: "Lee"}))

	require.NoError(t, h.submit.Submit(context.Background(), form))
	require.Equal(t, "rsvp-1", h.lock.id)
	require.True(t, form.Locked())
	accepted := h.sender.sent[0].Attendance.(models.AcceptedAttendance)
	require.Len(t, accepted.AdditionalGuests, 1)

	// a later visit from the same client is locked even with a valid invite
	again := h.flow.Load(context.Background(), "abc123")
	require.True(t, again.Ready())
	require.ErrorIs(t, again.CanSubmit(), ErrAlreadySubmitted)
	require.ErrorIs(t, h.submit.Submit(context.Background(), again), ErrAlreadySubmitted)
	require.Len(t, h.sender.sent, 1)
}

func TestSubmitFailureKeepsFormEditable(t *testing.T) {
	t.Parallel()

	h := newHarness(inviteOnly())
	h.sender.err = &api.Error{StatusCode: 500, Message: "database down"}
	form := h.flow.Load(context.Background(), "abc123")

	err := h.submit.Submit(context.Background(), form)
	require.Error(t, err)
	require.False(t, form.Locked())
	require.False(t, h.lock.Locked())
	require.NoError(t, form.CanSubmit())
	require.Equal(t, "Submission failed: database down", lastToast(t, h.center).Text)

	h.sender.err = nil
	require.NoError(t, h.submit.Submit(context.Background(), form))
	require.Equal(t, "generated", h.lock.id)
}

func TestPayloadTruncatesOverCap(t *testing.T) {
	t.Parallel()

	form := NewForm(models.DefaultSettings(), false, notify.NewCenter(nil, time.Minute, zerolog.Nop()), i18n.Printer("en"))
	form.Seed(Invite{FirstName: "A", LastName: "B"})
	for range 3 {
		require.NoError(t, form.AddGuest())
	}
	// the cap shrinks after the guests were entered
	form.Seed(Invite{FirstName: "A", LastName: "B", AllowedPartySize: 2})

	sub, err := form.Payload()
	require.NoError(t, err)
	require.Len(t, sub.Attendance.(models.AcceptedAttendance).AdditionalGuests, 1)
}

func TestRemoveGuest(t *testing.T) {
	t.Parallel()

	form := NewForm(models.DefaultSettings(), false, notify.NewCenter(nil, time.Minute, zerolog.Nop()), i18n.Printer("en"))
	require.NoError(t, form.AddGuest())
	require.NoError(t, form.RemoveGuest(0))
	require.ErrorIs(t, form.RemoveGuest(0), ErrNoSuchGuest)
	require.Empty(t, form.GuestsLimit())
}
