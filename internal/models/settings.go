package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Settings are the server-held RSVP switches
type Settings struct {
	RSVPClosed          bool `json:"rsvpClosed"`
	RSVPOpenToStrangers bool `json:"rsvpOpenToStrangers"`
}

// DefaultSettings is the policy used when the server cannot be asked.
func DefaultSettings() Settings {
	return Settings{RSVPClosed: false, RSVPOpenToStrangers: true}
}

// UnmarshalJSON keeps the defaults for keys the server leaves out.
func (s *Settings) UnmarshalJSON(data []byte) error {
	type alias Settings
	wire := alias(DefaultSettings())
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = Settings(wire)
		return nil
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("failed to decode settings: %w", err)
	}
	*s = Settings(wire)
	return nil
}

// Attendee is one entry of the expected turnout list
type Attendee struct {
	ID               string            `json:"id"`
	GuestName        *Name             `json:"guestName"`
	Message          *string           `json:"message"`
	AdditionalGuests []AdditionalGuest `json:"additionalGuests"`
}

// PartySize counts the attendee plus companions
func (a Attendee) PartySize() int {
	return 1 + len(a.AdditionalGuests)
}

// Turnout is the expected-turnout report
type Turnout struct {
	Attendees []Attendee `json:"attendees"`
	Count     int        `json:"count"`
}

// UnmarshalJSON accepts {attendees, count}, the legacy bare list, or
// anything else as an empty report.
func (t *Turnout) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*t = Turnout{}
	switch {
	case len(data) == 0:
		return nil
	case data[0] == '[':
		var list []Attendee
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("failed to decode turnout list: %w", err)
		}
		t.Attendees = list
		return nil
	case data[0] == '{':
		var wire struct {
			Attendees json.RawMessage `json:"attendees"`
			Count     json.Number     `json:"count"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return fmt.Errorf("failed to decode turnout: %w", err)
		}
		raw := bytes.TrimSpace(wire.Attendees)
		if len(raw) == 0 || raw[0] != '[' {
			return nil
		}
		if err := json.Unmarshal(raw, &t.Attendees); err != nil {
			return fmt.Errorf("failed to decode turnout attendees: %w", err)
		}
		if n, err := wire.Count.Int64(); err == nil {
			t.Count = int(n)
		}
		return nil
	default:
		return nil
	}
}

// Total returns the server count when it is set, otherwise the sum of
// party sizes.
func (t Turnout) Total() int {
	if t.Count > 0 {
		return t.Count
	}
	total := 0
	for _, a := range t.Attendees {
		total += a.PartySize()
	}
	return total
}

// TurnoutRow is one line of the grouped turnout view
type TurnoutRow struct {
	Name    string
	Primary bool
	Note    string
}

// TurnoutGroup is one attendee with their companions
type TurnoutGroup struct {
	ID        string
	PartySize int
	Rows      []TurnoutRow
}

// Groups arranges the attendees the way the turnout table shows them.
func (t Turnout) Groups() []TurnoutGroup {
	groups := make([]TurnoutGroup, 0, len(t.Attendees))
	for i, a := range t.Attendees {
		name := "-"
		if a.GuestName != nil && a.GuestName.Full() != "" {
			name = a.GuestName.Full()
		}
		id := a.ID
		if id == "" {
			id = fmt.Sprint(i)
		}
		g := TurnoutGroup{ID: id, PartySize: a.PartySize()}
		g.Rows = append(g.Rows, TurnoutRow{Name: name, Primary: true, Note: orDash(a.Message)})
		for _, ag := range a.AdditionalGuests {
			g.Rows = append(g.Rows, TurnoutRow{Name: ag.DisplayName(), Note: orDash(ag.SpecialAccommodations)})
		}
		groups = append(groups, g)
	}
	return groups
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
