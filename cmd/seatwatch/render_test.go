package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hooting76/blue-crab-lms-sub001/internal/seatsync"
)

func seats(n int, occupied ...int) []seatsync.Seat {
	taken := make(map[int]bool, len(occupied))
	for _, id := range occupied {
		taken[id] = true
	}
	out := make([]seatsync.Seat, n)
	for i := range out {
		id := i + 1
		out[i] = seatsync.Seat{ID: id, SeatNo: fmt.Sprintf("%02d", id)}
		if taken[id] {
			out[i].State = 1
		}
	}
	return out
}

func TestRender(t *testing.T) {
	m := seatsync.Model{
		Seats:     seats(12, 3, 7),
		MySeat:    7,
		Available: 10,
		Notice:    seatsync.NoticeReserved,
	}

	got := render(m)

	assert.Contains(t, got, "10/12 available")
	assert.Contains(t, got, "your seat: 07")
	assert.Contains(t, got, "[07]")
	assert.Contains(t, got, "seat reserved")
	assert.Contains(t, got, "11")
	assert.NotContains(t, got, "[03]")
	assert.NotContains(t, got, "pending")
}

func TestRender_PendingAndError(t *testing.T) {
	m := seatsync.Model{
		Seats:   seats(2),
		Pending: &seatsync.Intent{Kind: seatsync.IntentRelease, SeatID: 2},
		Err:     errors.New("timeout"),
	}

	got := render(m)

	assert.Contains(t, got, "pending: release 02")
	assert.Contains(t, got, "refresh failed: timeout")
}

func TestNoticeText(t *testing.T) {
	assert.Equal(t, "that seat is already taken", noticeText("occupied"))
	assert.Equal(t, "rate_limited", noticeText("rate_limited"))
}

func TestRun_Once(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/seats":
			_, _ = w.Write([]byte(`[{"id":1,"seat_no":"01","state":0},{"id":2,"seat_no":"02","state":1}]`))
		case "/api/seats/my-reservation":
			_, _ = w.Write([]byte(`{"seatNumber":2}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run([]string{"--server", srv.URL, "--token", "t", "--once"}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "1/2 available")
	assert.Contains(t, out.String(), "[02]")
}

func TestRun_ExclusiveCommands(t *testing.T) {
	err := run([]string{"--reserve", "1", "--release", "2"}, &bytes.Buffer{})
	assert.Error(t, err)
}
