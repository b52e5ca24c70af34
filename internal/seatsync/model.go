package seatsync

import (
	"fmt"
	"time"
)

// IntentKind is the command a pending intent stands for.
type IntentKind int

const (
	IntentReserve IntentKind = iota + 1
	IntentRelease
)

// Intent is a command issued but not yet seen in a snapshot.
type Intent struct {
	Kind   IntentKind
	SeatID int
}

// Notice codes produced locally. Server refusals use the server's code.
const (
	NoticeOccupied  = "occupied"
	NoticeReserved  = "reserved"
	NoticeReleased  = "released"
	NoticeTransport = "transport_error"
)

// Snapshot is one authoritative read of the server.
type Snapshot struct {
	Seats     []Seat
	MySeat    int
	FetchedAt time.Time
}

// Model is what a client renders.
type Model struct {
	Seats     []Seat
	MySeat    int
	Available int
	Pending   *Intent
	Notice    string
	Err       error
	UpdatedAt time.Time
}

// MyLabel is the two-digit label of the held seat, or "".
func (m Model) MyLabel() string {
	if m.MySeat == 0 {
		return ""
	}
	return label(m.MySeat)
}

// Reconcile folds an authoritative snapshot into the previous model. The
// snapshot always wins; prev only contributes the pending intent and the last
// notice. An intent the snapshot does not settle yet stays pending.
func Reconcile(prev Model, snap Snapshot) Model {
	next := Model{
		Seats:     make([]Seat, len(snap.Seats)),
		MySeat:    snap.MySeat,
		Notice:    prev.Notice,
		UpdatedAt: snap.FetchedAt,
	}
	for i, s := range snap.Seats {
		if s.SeatNo == "" {
			s.SeatNo = label(s.ID)
		}
		if s.Available() {
			next.Available++
		}
		next.Seats[i] = s
	}

	if p := prev.Pending; p != nil {
		resolved := false
		switch p.Kind {
		case IntentReserve:
			switch {
			case snap.MySeat == p.SeatID:
				next.Notice, resolved = NoticeReserved, true
			case seatOccupied(snap.Seats, p.SeatID):
				next.Notice, resolved = NoticeOccupied, true
			}
		case IntentRelease:
			if snap.MySeat != p.SeatID {
				next.Notice, resolved = NoticeReleased, true
			}
		}
		if !resolved {
			next.Pending = p
		}
	}
	return next
}

func seatOccupied(seats []Seat, id int) bool {
	for _, s := range seats {
		if s.ID == id {
			return !s.Available()
		}
	}
	return false
}

func label(id int) string { return fmt.Sprintf("%02d", id) }
