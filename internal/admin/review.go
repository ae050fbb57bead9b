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
	ErrNotLoaded  = errors.New("rsvp not loaded")
	ErrNotEditing = errors.New("rsvp is not being edited")
	ErrBadStatus  = errors.New("status must be Accepted or Declined")

	// ErrUnmappedStatus is returned when saving a record whose stored
	// status this client does not recognize.
	ErrUnmappedStatus = errors.New("rsvp status is not recognized")
)

// RecordStore reads and updates single RSVP records
type RecordStore interface {
	RSVP(ctx context.Context, id string) (*models.RSVP, error)
	UpdateRSVP(ctx context.Context, id string, update models.RSVPUpdate) (*models.RSVP, error)
}

// Review is the detail view of one RSVP. Approval changes persist at once
// as a partial update; other fields go through BeginEdit and Save.
type Review struct {
	store    RecordStore
	id       string
	notifier notify.Notifier
	log      zerolog.Logger
	onSaved  func(context.Context, models.RSVP)

	mu      sync.Mutex
	record  *models.RSVP
	draft   *models.RSVP
	editing bool
}

func NewReview(store RecordStore, id string, notifier notify.Notifier, log zerolog.Logger) *Review {
	return &Review{
		store:    store,
		id:       id,
		notifier: notifier,
		log:      log.With().Str("component", "rsvp-review").Str("rsvp", id).Logger(),
	}
}

// OnSaved registers a hook run after every successful update
func (r *Review) OnSaved(fn func(context.Context, models.RSVP)) *Review {
	r.onSaved = fn
	return r
}

func (r *Review) ID() string { return r.id }

// Load fetches the record and leaves edit mode
func (r *Review) Load(ctx context.Context) error {
	rec, err := r.store.RSVP(ctx, r.id)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to load RSVP")
		r.notifier.Show(notify.KindError, "Failed to load RSVP: "+api.Message(err), notify.DefaultTTL)
		return fmt.Errorf("failed to load rsvp: %w", err)
	}

	r.mu.Lock()
	r.record = rec
	r.draft = nil
	r.editing = false
	r.mu.Unlock()
	return nil
}

// Record returns a copy of the stored record
func (r *Review) Record() (models.RSVP, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.record == nil {
		return models.RSVP{}, false
	}
	return r.record.Clone(), true
}

func (r *Review) Editing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.editing
}

// Draft returns a copy of the edit draft
func (r *Review) Draft() (models.RSVP, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.editing || r.draft == nil {
		return models.RSVP{}, false
	}
	return r.draft.Clone(), true
}

// SetApproval persists only the approval status. The guest's status and
// any open draft fields are left alone.
func (r *Review) SetApproval(ctx context.Context, status models.ApprovalStatus) error {
	r.mu.Lock()
	loaded := r.record != nil
	r.mu.Unlock()
	if !loaded {
		return ErrNotLoaded
	}

	updated, err := r.store.UpdateRSVP(ctx, r.id, models.ApprovalOverride{ApprovalStatus: status})
	if err != nil {
		r.log.Error().Err(err).Str("approval", string(status)).Msg("Failed to update approval")
		r.notifier.Show(notify.KindError, "Update failed: "+api.Message(err), notify.DefaultTTL)
		return fmt.Errorf("failed to update approval: %w", err)
	}

	r.mu.Lock()
	r.record = updated
	if r.draft != nil {
		r.draft.ApprovalStatus = updated.ApprovalStatus
	}
	r.mu.Unlock()

	if status == models.ApprovalApproved {
		r.notifier.Show(notify.KindSuccess, "RSVP approved", notify.DefaultTTL)
	} else {
		r.notifier.Show(notify.KindInfo, "RSVP marked pending review", notify.DefaultTTL)
	}
	r.saved(ctx, *updated)
	return nil
}

func (r *Review) Approve(ctx context.Context) error {
	return r.SetApproval(ctx, models.ApprovalApproved)
}

func (r *Review) Unapprove(ctx context.Context) error {
	return r.SetApproval(ctx, models.ApprovalPendingReview)
}

// BeginEdit starts a draft from the stored record
func (r *Review) BeginEdit() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.record == nil {
		return ErrNotLoaded
	}
	draft := r.record.Clone()
	r.draft = &draft
	r.editing = true
	return nil
}

// UpdateDraft applies fn to the draft
func (r *Review) UpdateDraft(fn func(*models.RSVP)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.editing {
		return ErrNotEditing
	}
	fn(r.draft)
	return nil
}

// SetStatus changes the draft's attendance
func (r *Review) SetStatus(status models.RSVPStatus) error {
	if !status.Editable() {
		return ErrBadStatus
	}
	return r.UpdateDraft(func(d *models.RSVP) { d.Status = status })
}

// CancelEdit drops the draft and reloads the record
func (r *Review) CancelEdit(ctx context.Context) error {
	r.mu.Lock()
	r.editing = false
	r.draft = nil
	r.mu.Unlock()
	return r.Load(ctx)
}

// Save sends the whole draft: status, approval, contact fields, the
// normalized address and the companions. The status is only changed
// through SetStatus. On failure the draft stays open.
func (r *Review) Save(ctx context.Context) error {
	r.mu.Lock()
	if !r.editing || r.draft == nil {
		r.mu.Unlock()
		return ErrNotEditing
	}
	draft := r.draft.Clone()
	r.mu.Unlock()

	// a Pending or Waitlisted status is sent back as it is
	if draft.Status == models.RSVPUnknown {
		return ErrUnmappedStatus
	}
	body := models.RecordSave{
		Status:         draft.Status,
		ApprovalStatus: draft.ApprovalStatus,
		Email:          models.NullString(models.Deref(draft.Email)),
		Phone:          models.NullString(models.Deref(draft.Phone)),
		Address:        draft.Address.Normalize(),
		Message:        models.NullString(models.Deref(draft.Message)),
	}
	if len(draft.AdditionalGuests) > 0 {
		body.AdditionalGuests = draft.AdditionalGuests
	}

	updated, err := r.store.UpdateRSVP(ctx, r.id, body)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to save RSVP")
		r.notifier.Show(notify.KindError, "Update failed: "+api.Message(err), notify.DefaultTTL)
		return fmt.Errorf("failed to save rsvp: %w", err)
	}

	r.mu.Lock()
	r.record = updated
	r.draft = nil
	r.editing = false
	r.mu.Unlock()

	r.notifier.Show(notify.KindSuccess, "RSVP updated", notify.DefaultTTL)
	r.saved(ctx, *updated)
	return nil
}

func (r *Review) saved(ctx context.Context, rec models.RSVP) {
	if r.onSaved != nil {
		r.onSaved(ctx, rec)
	}
}
