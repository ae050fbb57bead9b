package admin

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"wedding-rsvp/internal/api"
	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/notify"
)

// InviteLink returns the public RSVP link for a guest
func (d *Dashboard) InviteLink(guestID string) string {
	return strings.TrimRight(d.siteOrigin, "/") + "/rsvp?token=" + url.QueryEscape(guestID)
}

// copy writes to the clipboard; failures are only logged
func (d *Dashboard) copy(text string) {
	if d.clipboard == nil {
		return
	}
	if err := d.clipboard.WriteAll(text); err != nil {
		d.log.Debug().Err(err).Msg("clipboard unavailable")
	}
}

// InviteNewGuest creates an invitee. Both names are required and the
// party size is at least 1. force lets a second invitee share a name.
// The link is copied to the clipboard and shown until dismissed.
func (d *Dashboard) InviteNewGuest(ctx context.Context, first, last string, partySize int, force bool) (models.InviteResult, error) {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	if first == "" || last == "" {
		d.notifier.Show(notify.KindError, "Provide first and last name", notify.DefaultTTL)
		return models.InviteResult{}, ErrNameRequired
	}

	req := models.InviteRequest{
		Name:             models.Name{FirstName: first, LastName: last},
		AllowedPartySize: models.ClampPartySize(partySize),
		Force:            force,
	}
	res, err := d.backend.Invite(ctx, req)
	if err != nil {
		d.log.Error().Err(err).Str("guest", req.Name.Full()).Msg("Failed to create invite")
		d.notifier.Show(notify.KindError, "Invite failed: "+api.Message(err), notify.DefaultTTL)
		return models.InviteResult{}, fmt.Errorf("failed to create invite: %w", err)
	}
	if res.Link == "" && res.GuestID != "" {
		res.Link = d.InviteLink(res.GuestID)
	}

	if res.Link != "" {
		d.copy(res.Link)
		d.notifier.Show(notify.KindSuccess, "Invite created:\n"+res.Link, notify.Sticky)
	} else {
		d.notifier.Show(notify.KindSuccess, "Invite created", notify.DefaultTTL)
	}
	d.log.Info().Str("guest", req.Name.Full()).Int("party_size", req.AllowedPartySize).Msg("Invite created")

	// a failed reload is reported on its own; the invite exists either way
	_ = d.ReloadInvitees(ctx)
	return res, nil
}

// DeliverInvite sends a link through the configured messenger
func (d *Dashboard) DeliverInvite(ctx context.Context, phone, name, link string) error {
	if d.messenger == nil {
		return ErrNoMessenger
	}
	if err := d.messenger.SendInvitation(ctx, phone, name, link); err != nil {
		d.log.Error().Err(err).Str("phone", phone).Msg("Failed to deliver invite")
		d.notifier.Show(notify.KindError, "Invite delivery failed: "+err.Error(), notify.DefaultTTL)
		return fmt.Errorf("failed to deliver invite: %w", err)
	}
	d.notifier.Show(notify.KindSuccess, "Invite sent to "+phone, notify.DefaultTTL)
	return nil
}

// ShareInviteLink copies an existing guest's link and shows it until dismissed
func (d *Dashboard) ShareInviteLink(guest models.Invitee) (string, error) {
	if guest.ID == "" {
		return "", ErrMissingID
	}
	link := d.InviteLink(guest.ID)
	d.copy(link)
	d.notifier.Show(notify.KindInfo, "Invite link:\n"+link, notify.Sticky)
	return link, nil
}

// CopyInviteCode copies the guest code, or the id for guests without one
func (d *Dashboard) CopyInviteCode(guest models.Invitee) (string, error) {
	code := guest.GuestCode
	if code == "" {
		code = guest.ID
	}
	if code == "" {
		return "", ErrMissingID
	}
	d.copy(code)
	d.notifier.Show(notify.KindInfo, "Invite code: "+code, notify.DefaultTTL)
	return code, nil
}

// DeleteInvitee removes a guest after confirmation. The local list is
// only updated once the backend confirms.
func (d *Dashboard) DeleteInvitee(ctx context.Context, guest models.Invitee) error {
	if guest.ID == "" {
		return ErrMissingID
	}
	if !d.confirm(fmt.Sprintf("Delete %s? This cannot be undone.", guest.DisplayName())) {
		return ErrNotConfirmed
	}
	if err := d.backend.DeleteInvitee(ctx, guest.ID); err != nil {
		d.log.Error().Err(err).Str("guest", guest.ID).Msg("Failed to delete guest")
		d.notifier.Show(notify.KindError, "Delete failed: "+api.Message(err), notify.DefaultTTL)
		return fmt.Errorf("failed to delete guest: %w", err)
	}

	d.mu.Lock()
	kept := make([]models.Invitee, 0, len(d.invitees))
	for _, g := range d.invitees {
		if g.ID != guest.ID {
			kept = append(kept, g)
		}
	}
	d.invitees = kept
	d.mu.Unlock()

	d.notifier.Show(notify.KindInfo, "Guest deleted", notify.DefaultTTL)
	return nil
}
