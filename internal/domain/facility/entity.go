package facility

import "strings"

// Facility is a bookable room or space.
type Facility struct {
	ID       int64
	Name     string
	Type     string
	Capacity int
	Active   bool
}

// NewFacility returns an active facility.
func NewFacility(name, typ string, capacity int) *Facility {
	return &Facility{
		Name:     name,
		Type:     typ,
		Capacity: capacity,
		Active:   true,
	}
}

// Validate checks the facility fields.
func (f *Facility) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrNameRequired
	}
	if f.Capacity < 0 {
		return ErrInvalidCapacity
	}
	return nil
}

// Admits reports whether a party of the given size fits. Zero capacity means unlimited.
func (f *Facility) Admits(partySize int) bool {
	return f.Capacity == 0 || partySize <= f.Capacity
}

// Defaults is the catalog seeded into a fresh store.
func Defaults() []*Facility {
	return []*Facility{
		{ID: 1, Name: "Seminar Room A", Type: "SEMINAR", Capacity: 20, Active: true},
		{ID: 2, Name: "Seminar Room B", Type: "SEMINAR", Capacity: 12, Active: true},
		{ID: 3, Name: "Group Study Room 1", Type: "STUDY", Capacity: 6, Active: true},
		{ID: 4, Name: "Group Study Room 2", Type: "STUDY", Capacity: 6, Active: true},
		{ID: 5, Name: "Main Auditorium", Type: "AUDITORIUM", Capacity: 300, Active: true},
	}
}
