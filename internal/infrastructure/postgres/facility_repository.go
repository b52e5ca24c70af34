package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/facility"
)

const facilityColumns = `facility_id, name, type, capacity, is_active`

type facilityRow struct {
	ID       int64  `db:"facility_id"`
	Name     string `db:"name"`
	Type     string `db:"type"`
	Capacity int    `db:"capacity"`
	Active   bool   `db:"is_active"`
}

func (r *facilityRow) toEntity() *facility.Facility {
	return &facility.Facility{ID: r.ID, Name: r.Name, Type: r.Type, Capacity: r.Capacity, Active: r.Active}
}

type FacilityRepository struct{ db *sqlx.DB }

var _ facility.Repository = (*FacilityRepository)(nil)

func NewFacilityRepository(db *sqlx.DB) *FacilityRepository { return &FacilityRepository{db: db} }

func (r *FacilityRepository) List(ctx context.Context, activeOnly bool) ([]*facility.Facility, error) {
	query := `SELECT ` + facilityColumns + ` FROM facilities`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY facility_id`

	var rows []facilityRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	out := make([]*facility.Facility, len(rows))
	for i := range rows {
		out[i] = rows[i].toEntity()
	}
	return out, nil
}

func (r *FacilityRepository) GetByID(ctx context.Context, id int64) (*facility.Facility, error) {
	query := `SELECT ` + facilityColumns + ` FROM facilities WHERE facility_id = $1`
	var row facilityRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, facility.ErrNotFound
		}
		return nil, fmt.Errorf("get facility: %w", err)
	}
	return row.toEntity(), nil
}
