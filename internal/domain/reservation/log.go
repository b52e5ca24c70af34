package reservation

import (
	"encoding/json"
	"time"
)

// EventType names an entry in a request's audit trail.
type EventType string

const (
	EventSubmitted     EventType = "SUBMITTED"
	EventApproved      EventType = "APPROVED"
	EventRejected      EventType = "REJECTED"
	EventAutoCompleted EventType = "AUTO_COMPLETED"
)

// ActorType says who caused a log entry.
type ActorType string

const (
	ActorUser   ActorType = "USER"
	ActorAdmin  ActorType = "ADMIN"
	ActorSystem ActorType = "SYSTEM"
)

// SystemActorID identifies the background completer in the audit trail.
const SystemActorID = "SCHEDULER"

// LogEntry is one append-only audit record.
type LogEntry struct {
	ID            int64
	ReservationID int64
	EventType     EventType
	ActorType     ActorType
	ActorID       string
	Payload       string
	CreatedAt     time.Time
}

// NewLogEntry builds an entry; payload is encoded as JSON when non-nil.
func NewLogEntry(reservationID int64, eventType EventType, actorType ActorType, actorID string, payload map[string]any, now time.Time) *LogEntry {
	e := &LogEntry{
		ReservationID: reservationID,
		EventType:     eventType,
		ActorType:     actorType,
		ActorID:       actorID,
		CreatedAt:     now,
	}
	if len(payload) > 0 {
		// map[string]any of plain values always encodes
		b, _ := json.Marshal(payload)
		e.Payload = string(b)
	}
	return e
}
