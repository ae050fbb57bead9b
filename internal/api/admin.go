package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"wedding-rsvp/internal/models"
)

// AuthSource supplies the Authorization header for admin calls
type AuthSource interface {
	AuthHeader() (string, bool)
}

// Admin is the authenticated admin API
type Admin struct {
	c    *Client
	auth AuthSource
}

// Admin returns an admin client that reads its header from auth on every call
func (c *Client) Admin(auth AuthSource) *Admin {
	return &Admin{c: c, auth: auth}
}

func (a *Admin) header() (string, error) {
	h, ok := a.auth.AuthHeader()
	if !ok {
		return "", fmt.Errorf("no stored credentials: %w", ErrUnauthorized)
	}
	return h, nil
}

func (a *Admin) path(segments ...string) string {
	return a.c.endpoint(a.c.cfg.AdminBase, segments...)
}

func (a *Admin) doJSON(ctx context.Context, method, target string, body, out any) error {
	h, err := a.header()
	if err != nil {
		return err
	}
	return a.c.doJSON(ctx, method, target, h, body, out)
}

func (a *Admin) do(ctx context.Context, method, target string, body any) ([]byte, error) {
	h, err := a.header()
	if err != nil {
		return nil, err
	}
	return a.c.do(ctx, method, target, h, body)
}

// Invitees lists every invitee
func (a *Admin) Invitees(ctx context.Context) ([]models.Invitee, error) {
	var list []models.Invitee
	if err := a.doJSON(ctx, http.MethodGet, a.path("invitees"), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Invite creates an invitee and returns the shareable link
func (a *Admin) Invite(ctx context.Context, req models.InviteRequest) (models.InviteResult, error) {
	data, err := a.do(ctx, http.MethodPost, a.path("invite"), req)
	if err != nil {
		return models.InviteResult{}, err
	}
	return parseInviteResult(data), nil
}

// parseInviteResult accepts {link}, {inviteLink}, a JSON string or plain text.
func parseInviteResult(data []byte) models.InviteResult {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return models.InviteResult{}
	}
	switch data[0] {
	case '{':
		var wire struct {
			Link       string `json:"link"`
			InviteLink string `json:"inviteLink"`
			GuestID    string `json:"guestId"`
			ID         string `json:"id"`
			GuestCode  string `json:"guestCode"`
		}
		if json.Unmarshal(data, &wire) != nil {
			return models.InviteResult{}
		}
		res := models.InviteResult{Link: wire.Link, GuestID: wire.GuestID, GuestCode: wire.GuestCode}
		if res.Link == "" {
			res.Link = wire.InviteLink
		}
		if res.GuestID == "" {
			res.GuestID = wire.ID
		}
		return res
	case '"':
		var link string
		if json.Unmarshal(data, &link) != nil {
			return models.InviteResult{}
		}
		return models.InviteResult{Link: link}
	default:
		return models.InviteResult{Link: strings.TrimSpace(string(data))}
	}
}

// DeleteInvitee removes an invitee by id
func (a *Admin) DeleteInvitee(ctx context.Context, id string) error {
	_, err := a.do(ctx, http.MethodDelete, a.path("invitees", id), nil)
	return err
}

// RSVPs lists submitted RSVPs. A body that is not a list reads as empty.
func (a *Admin) RSVPs(ctx context.Context) ([]models.RSVP, error) {
	var raw json.RawMessage
	if err := a.doJSON(ctx, http.MethodGet, a.path("rsvps"), nil, &raw); err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return []models.RSVP{}, nil
	}
	var list []models.RSVP
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to decode rsvps: %w", err)
	}
	return list, nil
}

// RSVP fetches one record
func (a *Admin) RSVP(ctx context.Context, id string) (*models.RSVP, error) {
	var r models.RSVP
	if err := a.doJSON(ctx, http.MethodGet, a.path("rsvps", id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRSVP posts a partial update and returns the merged record
func (a *Admin) UpdateRSVP(ctx context.Context, id string, update models.RSVPUpdate) (*models.RSVP, error) {
	data, err := a.do(ctx, http.MethodPost, a.path("rsvps", id), update)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return a.RSVP(ctx, id)
	}
	var r models.RSVP
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode updated rsvp: %w", err)
	}
	return &r, nil
}

// DeleteRSVP removes a record
func (a *Admin) DeleteRSVP(ctx context.Context, id string) error {
	_, err := a.do(ctx, http.MethodDelete, a.path("rsvps", id), nil)
	return err
}

// ExpectedTurnout fetches the turnout report in either shape
func (a *Admin) ExpectedTurnout(ctx context.Context) (models.Turnout, error) {
	var t models.Turnout
	err := a.doJSON(ctx, http.MethodGet, a.path("expected-turnout"), nil, &t)
	return t, err
}

// Settings fetches the RSVP switches
func (a *Admin) Settings(ctx context.Context) (models.Settings, error) {
	s := models.DefaultSettings()
	err := a.doJSON(ctx, http.MethodGet, a.path("settings"), nil, &s)
	return s, err
}

// SaveSettings stores the RSVP switches and returns what the server kept
func (a *Admin) SaveSettings(ctx context.Context, s models.Settings) (models.Settings, error) {
	out := s
	if err := a.doJSON(ctx, http.MethodPost, a.path("settings"), s, &out); err != nil {
		return s, err
	}
	return out, nil
}
