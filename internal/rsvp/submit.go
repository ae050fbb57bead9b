package rsvp

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/text/message"

	"wedding-rsvp/internal/api"
	"wedding-rsvp/internal/i18n"
	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/notify"
)

// Sender posts a submission to the backend
type Sender interface {
	SubmitRSVP(ctx context.Context, sub models.Submission) (models.SubmissionReceipt, error)
}

// Locker is the client-side submission lock
type Locker interface {
	Locked() bool
	Acquire(id string) (string, error)
}

// Submitter sends a form and locks the client afterwards
type Submitter struct {
	sender   Sender
	lock     Locker
	notifier notify.Notifier
	printer  *message.Printer
	log      zerolog.Logger
}

func NewSubmitter(sender Sender, lock Locker, notifier notify.Notifier, printer *message.Printer, log zerolog.Logger) *Submitter {
	return &Submitter{
		sender:   sender,
		lock:     lock,
		notifier: notifier,
		printer:  printer,
		log:      log.With().Str("component", "rsvp-submit").Logger(),
	}
}

// Submit validates and posts the form. Gate and validation failures are
// reported without sending anything. A backend failure leaves the form
// editable and unlocked so the guest can try again.
func (s *Submitter) Submit(ctx context.Context, f *Form) error {
	if err := f.CanSubmit(); err != nil {
		s.notifier.Show(notify.KindError, f.gateMessage(err), notify.DefaultTTL)
		return err
	}

	sub, err := f.Payload()
	if err != nil {
		if errors.Is(err, ErrNameRequired) {
			s.notifier.Show(notify.KindError, s.printer.Sprintf(i18n.NameRequired), notify.DefaultTTL)
		}
		return err
	}

	receipt, err := s.sender.SubmitRSVP(ctx, sub)
	if err != nil {
		s.log.Error().Err(err).Msg("RSVP submission failed")
		s.notifier.Show(notify.KindError, s.printer.Sprintf(i18n.Failed, api.Message(err)), notify.DefaultTTL)
		return fmt.Errorf("failed to submit rsvp: %w", err)
	}

	id, err := s.lock.Acquire(receipt.LockID())
	if err != nil {
		// the RSVP is stored server side; only the local guard is missing
		s.log.Error().Err(err).Msg("Failed to store submission lock")
	} else {
		s.log.Info().Str("lock", id).Msg("RSVP submitted")
	}
	f.locked = true

	s.notifier.Show(notify.KindSuccess, s.printer.Sprintf(i18n.Submitted), notify.DefaultTTL)
	return nil
}
