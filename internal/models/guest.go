package models

import "strings"

// Name is a first/last name pair as the backend sends it
type Name struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Full returns "First Last", trimmed
func (n Name) Full() string {
	return strings.TrimSpace(n.FirstName + " " + n.LastName)
}

// Invitee represents a wedding guest invited by an admin
type Invitee struct {
	ID               string  `json:"id"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	AllowedPartySize int     `json:"allowedPartySize"`
	GuestCode        string  `json:"guestCode,omitempty"`
	RSVPID           *string `json:"rsvpId,omitempty"`
}

// DisplayName returns the invitee's full name, or "Guest" when both parts are empty
func (g Invitee) DisplayName() string {
	if name := (Name{FirstName: g.FirstName, LastName: g.LastName}).Full(); name != "" {
		return name
	}
	return "Guest"
}

// Responded reports whether the invitee is linked to an RSVP
func (g Invitee) Responded() bool {
	return g.RSVPID != nil && *g.RSVPID != ""
}

// PartySize returns the allowed party size, never less than 1
func (g Invitee) PartySize() int {
	return ClampPartySize(g.AllowedPartySize)
}

// ClampPartySize enforces allowedPartySize >= 1
func ClampPartySize(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// InviteRequest is the body sent when an admin creates an invitee
type InviteRequest struct {
	Name             Name `json:"name"`
	AllowedPartySize int  `json:"allowedPartySize"`
	Force            bool `json:"force"`
}

// InviteResult is what the backend returns for a created invite.
// The backend answers with {link}, {inviteLink} or a bare string.
type InviteResult struct {
	Link      string `json:"link,omitempty"`
	GuestID   string `json:"guestId,omitempty"`
	GuestCode string `json:"guestCode,omitempty"`
}

// RSVPMeta is the public prefill data for an invite token
type RSVPMeta struct {
	Name             Name   `json:"name"`
	AllowedPartySize *int   `json:"allowedPartySize"`
	GuestID          string `json:"guestId"`
}
