package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hooting76/blue-crab-lms-sub001/internal/seatsync"
)

const gridColumns = 10

var (
	availableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	occupiedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	mineStyle      = lipgloss.NewStyle().Bold(true).Reverse(true)
	headerStyle    = lipgloss.NewStyle().Bold(true)
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// render draws the seat grid with a status header. The held seat is shown in
// brackets so it stays visible without colors.
func render(m seatsync.Model) string {
	var b strings.Builder

	header := fmt.Sprintf("Reading room  %d/%d available", m.Available, len(m.Seats))
	if label := m.MyLabel(); label != "" {
		header += "  your seat: " + label
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	rows := make([]string, 0, len(m.Seats)/gridColumns+1)
	cells := make([]string, 0, gridColumns)
	for i, s := range m.Seats {
		cells = append(cells, cell(s, s.ID == m.MySeat))
		if len(cells) == gridColumns || i == len(m.Seats)-1 {
			rows = append(rows, strings.Join(cells, " "))
			cells = cells[:0]
		}
	}
	b.WriteString(strings.Join(rows, "\n"))
	b.WriteString("\n")

	if p := m.Pending; p != nil {
		verb := "reserve"
		if p.Kind == seatsync.IntentRelease {
			verb = "release"
		}
		b.WriteString(fmt.Sprintf("pending: %s %02d\n", verb, p.SeatID))
	}
	if m.Notice != "" {
		b.WriteString(noticeStyle.Render(noticeText(m.Notice)))
		b.WriteString("\n")
	}
	if m.Err != nil {
		b.WriteString(errorStyle.Render("refresh failed: " + m.Err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

func cell(s seatsync.Seat, mine bool) string {
	switch {
	case mine:
		return mineStyle.Render("[" + s.SeatNo + "]")
	case s.Available():
		return availableStyle.Render(" " + s.SeatNo + " ")
	default:
		return occupiedStyle.Render(" " + s.SeatNo + " ")
	}
}

func noticeText(code string) string {
	switch code {
	case seatsync.NoticeReserved:
		return "seat reserved"
	case seatsync.NoticeReleased:
		return "seat released"
	case seatsync.NoticeOccupied:
		return "that seat is already taken"
	case seatsync.NoticeTransport:
		return "could not reach the server, showing the last known state"
	case "already_reserved":
		return "you already hold another seat"
	case "unauthorized_seat":
		return "that seat is not yours"
	case "invalid_seat":
		return "no such seat"
	default:
		return code
	}
}
