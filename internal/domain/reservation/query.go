package reservation

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DefaultPageSize = 5
	MaxPageSize     = 50
	MaxQueryLength  = 100
)

// Order selects the sort direction on creation time.
type Order int

const (
	NewestFirst Order = iota
	OldestFirst
)

// Filter narrows a search. Zero-valued fields match everything.
type Filter struct {
	Status      Status
	FacilityID  int64
	RequesterID string
	Query       string
	Order       Order
}

// Validate checks status and query bounds.
func (f Filter) Validate() error {
	if f.Status != "" && !f.Status.IsValid() {
		return ErrInvalidStatus
	}
	if utf8.RuneCountInString(f.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	return nil
}

// Matches applies the filter to a single request.
func (f Filter) Matches(r *Request) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.FacilityID != 0 && r.FacilityID != f.FacilityID {
		return false
	}
	if f.RequesterID != "" && r.RequesterID != f.RequesterID {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.RequesterName), q) ||
		strings.Contains(strings.ToLower(r.RequesterID), q) ||
		strings.Contains(strings.ToLower(r.FacilityName), q)
}

// NormalizePage clamps a 0-based page and a size into range. The page is
// capped so that (page+1)*size never overflows an int.
func NormalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if maxPage := (math.MaxInt - size) / size; page > maxPage {
		page = maxPage
	}
	return page, size
}

// Page is one slice of a result set plus the total match count.
type Page struct {
	Items []*Request
	Total int
	Page  int
	Size  int
}

// Stats are dashboard counters.
type Stats struct {
	Pending   int
	Today     int
	ThisWeek  int
	ThisMonth int
}

// Windows are the creation-time lower bounds used by Stats.
type Windows struct {
	Today     time.Time
	ThisWeek  time.Time
	ThisMonth time.Time
}

// WindowsAt computes local midnight, the Monday of the current week and the
// first of the month for now in loc.
func WindowsAt(now time.Time, loc *time.Location) Windows {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	y, m, d := local.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	offset := (int(local.Weekday()) + 6) % 7
	return Windows{
		Today:     today,
		ThisWeek:  today.AddDate(0, 0, -offset),
		ThisMonth: time.Date(y, m, 1, 0, 0, 0, 0, loc),
	}
}

// Count adds r to the counters it belongs to.
func (s *Stats) Count(r *Request, w Windows) {
	if r.Status == StatusPending {
		s.Pending++
	}
	if !r.CreatedAt.Before(w.Today) {
		s.Today++
	}
	if !r.CreatedAt.Before(w.ThisWeek) {
		s.ThisWeek++
	}
	if !r.CreatedAt.Before(w.ThisMonth) {
		s.ThisMonth++
	}
}
