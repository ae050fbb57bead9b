package models

import "encoding/json"

// Submission is the guest-facing RSVP body. It is wrapped in
// {"rsvpRequestSubmission": ...} on the wire.
type Submission struct {
	GuestID    *string    `json:"guestId"`
	FullName   Name       `json:"fullName"`
	Attendance Attendance `json:"attendance"`
}

// MarshalJSON wraps the submission in its envelope.
func (s Submission) MarshalJSON() ([]byte, error) {
	type alias Submission
	return json.Marshal(struct {
		Submission alias `json:"rsvpRequestSubmission"`
	}{alias(s)})
}

// Attendance is either AcceptedAttendance or DeclinedAttendance
type Attendance interface {
	Type() RSVPStatus
}

// Contact fields shared by both attendance branches
type Contact struct {
	Phone   *string  `json:"phone"`
	Email   *string  `json:"email"`
	Address *Address `json:"address"`
}

type AcceptedAttendance struct {
	SpecialAccommodations *string `json:"specialAccommodations"`
	Contact
	AdditionalGuests []AdditionalGuest `json:"additionalGuests"`
}

func (AcceptedAttendance) Type() RSVPStatus { return RSVPAccepted }

func (a AcceptedAttendance) MarshalJSON() ([]byte, error) {
	type alias AcceptedAttendance
	if len(a.AdditionalGuests) == 0 {
		a.AdditionalGuests = nil
	}
	return json.Marshal(struct {
		Type RSVPStatus `json:"type"`
		alias
	}{a.Type(), alias(a)})
}

type DeclinedAttendance struct {
	Message *string `json:"message"`
	Contact
}

func (DeclinedAttendance) Type() RSVPStatus { return RSVPDeclined }

func (d DeclinedAttendance) MarshalJSON() ([]byte, error) {
	type alias DeclinedAttendance
	return json.Marshal(struct {
		Type RSVPStatus `json:"type"`
		alias
	}{d.Type(), alias(d)})
}

// SubmissionReceipt is what the backend may return after accepting a
// submission. Either field may be empty.
type SubmissionReceipt struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// LockID returns the id the client should remember for this submission
func (r SubmissionReceipt) LockID() string {
	if r.SessionID != "" {
		return r.SessionID
	}
	return r.ID
}
