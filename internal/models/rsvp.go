package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// RSVPStatus represents the attendance confirmation status
type RSVPStatus string

const (
	RSVPAccepted   RSVPStatus = "Accepted"
	RSVPDeclined   RSVPStatus = "Declined"
	RSVPPending    RSVPStatus = "Pending"
	RSVPWaitlisted RSVPStatus = "Waitlisted"
	// RSVPUnknown marks a value the backend sent that this client does not map.
	RSVPUnknown RSVPStatus = "Unknown"
)

var rsvpStatuses = map[string]RSVPStatus{
	"accepted":   RSVPAccepted,
	"declined":   RSVPDeclined,
	"pending":    RSVPPending,
	"waitlisted": RSVPWaitlisted,
}

// ParseRSVPStatus maps a backend value to a status. Matching ignores case,
// blanks map to Pending and anything else maps to Unknown.
func ParseRSVPStatus(s string) RSVPStatus {
	key := normalizeEnum(s)
	if key == "" {
		return RSVPPending
	}
	if status, ok := rsvpStatuses[key]; ok {
		return status
	}
	return RSVPUnknown
}

// Label is the badge text for a status
func (s RSVPStatus) Label() string {
	if s == "" {
		return string(RSVPPending)
	}
	return string(s)
}

// Editable reports whether an admin may set this status on a record.
func (s RSVPStatus) Editable() bool {
	return s == RSVPAccepted || s == RSVPDeclined
}

func (s *RSVPStatus) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode rsvp status: %w", err)
	}
	if raw == nil {
		*s = RSVPPending
		return nil
	}
	*s = ParseRSVPStatus(*raw)
	return nil
}

func (s RSVPStatus) MarshalJSON() ([]byte, error) {
	if s == RSVPUnknown {
		return nil, fmt.Errorf("rsvp status %q cannot be sent", s)
	}
	return json.Marshal(string(s.orPending()))
}

func (s RSVPStatus) orPending() RSVPStatus {
	if s == "" {
		return RSVPPending
	}
	return s
}

// ApprovalStatus is the admin-only review state of an RSVP
type ApprovalStatus string

const (
	ApprovalPendingReview ApprovalStatus = "PendingReview"
	ApprovalApproved      ApprovalStatus = "Approved"
)

// ParseApprovalStatus maps "Approved" in any spelling to Approved and
// everything else, including a missing value, to PendingReview.
func ParseApprovalStatus(s string) ApprovalStatus {
	if normalizeEnum(s) == "approved" {
		return ApprovalApproved
	}
	return ApprovalPendingReview
}

func (a ApprovalStatus) Label() string {
	if a == ApprovalApproved {
		return "Approved"
	}
	return "Pending Review"
}

func (a *ApprovalStatus) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode approval status: %w", err)
	}
	if raw == nil {
		*a = ApprovalPendingReview
		return nil
	}
	*a = ParseApprovalStatus(*raw)
	return nil
}

func (a ApprovalStatus) MarshalJSON() ([]byte, error) {
	if a == "" {
		a = ApprovalPendingReview
	}
	return json.Marshal(string(a))
}

// normalizeEnum lowercases and drops separators, so "PENDING_REVIEW",
// "Pending Review" and "pendingReview" compare equal.
func normalizeEnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// AdditionalGuest is a companion listed on an accepted RSVP
type AdditionalGuest struct {
	FirstName             string  `json:"firstName"`
	LastName              string  `json:"lastName"`
	SpecialAccommodations *string `json:"specialAccommodations"`
}

// DisplayName returns the guest's full name or "Guest"
func (g AdditionalGuest) DisplayName() string {
	if name := (Name{FirstName: g.FirstName, LastName: g.LastName}).Full(); name != "" {
		return name
	}
	return "Guest"
}

// Address is a postal address. The backend uses line1/streetLine1 and
// postalCode/zip interchangeably, both spellings are read.
type Address struct {
	Line1      *string `json:"line1"`
	Line2      *string `json:"line2"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postalCode"`
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var wire struct {
		Line1       *string `json:"line1"`
		Line2       *string `json:"line2"`
		StreetLine1 *string `json:"streetLine1"`
		StreetLine2 *string `json:"streetLine2"`
		City        *string `json:"city"`
		State       *string `json:"state"`
		PostalCode  *string `json:"postalCode"`
		Zip         *string `json:"zip"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("failed to decode address: %w", err)
	}
	*a = Address{
		Line1:      firstNonEmpty(wire.Line1, wire.StreetLine1),
		Line2:      firstNonEmpty(wire.Line2, wire.StreetLine2),
		City:       wire.City,
		State:      wire.State,
		PostalCode: firstNonEmpty(wire.PostalCode, wire.Zip),
	}
	return nil
}

func firstNonEmpty(values ...*string) *string {
	for _, v := range values {
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}

// NewAddress builds an address from raw field values. Empty fields become
// null and an address with no fields at all is nil.
func NewAddress(line1, line2, city, state, postalCode string) *Address {
	a := &Address{
		Line1:      NullString(line1),
		Line2:      NullString(line2),
		City:       NullString(city),
		State:      NullString(state),
		PostalCode: NullString(postalCode),
	}
	return a.Normalize()
}

// Normalize trims every field, nulls empty ones and returns nil when
// nothing is left.
func (a *Address) Normalize() *Address {
	if a == nil {
		return nil
	}
	n := &Address{
		Line1:      NullString(Deref(a.Line1)),
		Line2:      NullString(Deref(a.Line2)),
		City:       NullString(Deref(a.City)),
		State:      NullString(Deref(a.State)),
		PostalCode: NullString(Deref(a.PostalCode)),
	}
	if n.Line1 == nil && n.Line2 == nil && n.City == nil && n.State == nil && n.PostalCode == nil {
		return nil
	}
	return n
}

// String formats the address on one line, or "-" when empty
func (a *Address) String() string {
	if a == nil {
		return "-"
	}
	cityState := joinNonEmpty(", ", Deref(a.City), Deref(a.State))
	if s := joinNonEmpty(", ", Deref(a.Line1), Deref(a.Line2), cityState, Deref(a.PostalCode)); s != "" {
		return s
	}
	return "-"
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// RSVP is a submitted response as the admin API returns it
type RSVP struct {
	ID                    string            `json:"id"`
	Name                  *Name             `json:"name"`
	Status                RSVPStatus        `json:"status"`
	ApprovalStatus        ApprovalStatus    `json:"approvalStatus"`
	Email                 *string           `json:"email"`
	Phone                 *string           `json:"phone"`
	Address               *Address          `json:"address"`
	Message               *string           `json:"message"`
	SpecialAccommodations *string           `json:"specialAccommodations"`
	AdditionalGuests      []AdditionalGuest `json:"additionalGuests"`
	CreatedAt             *time.Time        `json:"createdAt"`
}

// UnmarshalJSON fills the status defaults even when the keys are absent.
func (r *RSVP) UnmarshalJSON(data []byte) error {
	type alias RSVP
	wire := alias{Status: RSVPPending, ApprovalStatus: ApprovalPendingReview}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*r = RSVP(wire)
	return nil
}

// DisplayName returns the respondent's full name or "-"
func (r RSVP) DisplayName() string {
	if r.Name == nil || r.Name.Full() == "" {
		return "-"
	}
	return r.Name.Full()
}

// PartySize counts the respondent plus listed companions
func (r RSVP) PartySize() int {
	return 1 + len(r.AdditionalGuests)
}

// Approved reports whether the admin has approved the record
func (r RSVP) Approved() bool {
	return r.ApprovalStatus == ApprovalApproved
}

// Clone returns a deep copy, used for edit drafts.
func (r RSVP) Clone() RSVP {
	c := r
	if r.Name != nil {
		n := *r.Name
		c.Name = &n
	}
	c.Email = cloneString(r.Email)
	c.Phone = cloneString(r.Phone)
	c.Message = cloneString(r.Message)
	c.SpecialAccommodations = cloneString(r.SpecialAccommodations)
	if r.Address != nil {
		c.Address = &Address{
			Line1:      cloneString(r.Address.Line1),
			Line2:      cloneString(r.Address.Line2),
			City:       cloneString(r.Address.City),
			State:      cloneString(r.Address.State),
			PostalCode: cloneString(r.Address.PostalCode),
		}
	}
	if r.AdditionalGuests != nil {
		c.AdditionalGuests = make([]AdditionalGuest, len(r.AdditionalGuests))
		for i, g := range r.AdditionalGuests {
			g.SpecialAccommodations = cloneString(g.SpecialAccommodations)
			c.AdditionalGuests[i] = g
		}
	}
	if r.CreatedAt != nil {
		t := *r.CreatedAt
		c.CreatedAt = &t
	}
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// NullString returns nil for blank input and a pointer to the trimmed value otherwise
func NullString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or ""
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// RSVPUpdate is a body accepted by POST /rsvps/{id}. The server merges the
// provided fields into the stored record.
type RSVPUpdate interface {
	rsvpUpdate()
}

// ApprovalOverride changes only the approval status.
type ApprovalOverride struct {
	ApprovalStatus ApprovalStatus `json:"approvalStatus"`
}

func (ApprovalOverride) rsvpUpdate() {}

// RecordSave is the full edit-and-save body. Nullable fields are always
// sent so that cleared values are cleared server side.
type RecordSave struct {
	Status           RSVPStatus        `json:"status"`
	ApprovalStatus   ApprovalStatus    `json:"approvalStatus"`
	Email            *string           `json:"email"`
	Phone            *string           `json:"phone"`
	Address          *Address          `json:"address"`
	Message          *string           `json:"message"`
	AdditionalGuests []AdditionalGuest `json:"additionalGuests"`
}

func (RecordSave) rsvpUpdate() {}
