package reservation

import (
	"strings"
	"time"
)

// Request is a facility booking awaiting or past an administrative decision.
type Request struct {
	ID                 int64
	FacilityID         int64
	FacilityName       string
	RequesterID        string
	RequesterName      string
	StartTime          time.Time
	EndTime            time.Time
	PartySize          int
	Purpose            string
	RequestedEquipment string
	Status             Status
	AdminNote          string
	RejectionReason    string
	DecidedBy          string
	CreatedAt          time.Time
	DecidedAt          *time.Time
	UpdatedAt          time.Time
}

// NewRequest returns a validated PENDING request.
func NewRequest(facilityID int64, facilityName, requesterID, requesterName string, start, end time.Time, partySize int, purpose, equipment string, now time.Time) (*Request, error) {
	r := &Request{
		FacilityID:         facilityID,
		FacilityName:       facilityName,
		RequesterID:        requesterID,
		RequesterName:      requesterName,
		StartTime:          start,
		EndTime:            end,
		PartySize:          partySize,
		Purpose:            strings.TrimSpace(purpose),
		RequestedEquipment: strings.TrimSpace(equipment),
		Status:             StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the submission fields.
func (r *Request) Validate() error {
	if r.RequesterID == "" {
		return ErrRequesterMissing
	}
	if !r.EndTime.After(r.StartTime) {
		return ErrInvalidTimeRange
	}
	if r.PartySize < 1 {
		return ErrInvalidPartySize
	}
	if r.Purpose == "" {
		return ErrPurposeRequired
	}
	return nil
}

// Approve moves a PENDING request to APPROVED.
func (r *Request) Approve(adminID, note string, now time.Time) error {
	if !r.Status.CanTransitionTo(StatusApproved) {
		return ErrInvalidState
	}
	r.Status = StatusApproved
	r.AdminNote = strings.TrimSpace(note)
	r.DecidedBy = adminID
	r.DecidedAt = &now
	r.UpdatedAt = now
	return nil
}

// Reject moves a PENDING request to REJECTED. A blank reason is refused before
// the state is looked at.
func (r *Request) Reject(adminID, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrMissingReason
	}
	if !r.Status.CanTransitionTo(StatusRejected) {
		return ErrInvalidState
	}
	r.Status = StatusRejected
	r.RejectionReason = reason
	r.DecidedBy = adminID
	r.DecidedAt = &now
	r.UpdatedAt = now
	return nil
}

// Complete moves an APPROVED request whose end time has passed to COMPLETED.
func (r *Request) Complete(now time.Time) error {
	if !r.Status.CanTransitionTo(StatusCompleted) {
		return ErrInvalidState
	}
	if now.Before(r.EndTime) {
		return ErrNotYetEnded
	}
	r.Status = StatusCompleted
	r.UpdatedAt = now
	return nil
}

// Overlaps reports whether both requests use the same facility in intersecting
// half-open intervals.
func (r *Request) Overlaps(o *Request) bool {
	if r.FacilityID != o.FacilityID {
		return false
	}
	return r.StartTime.Before(o.EndTime) && o.StartTime.Before(r.EndTime)
}

// Clone returns a copy that shares no pointers with r.
func (r *Request) Clone() *Request {
	c := *r
	if r.DecidedAt != nil {
		t := *r.DecidedAt
		c.DecidedAt = &t
	}
	return &c
}
