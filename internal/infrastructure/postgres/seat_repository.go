package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/seat"
)

const seatColumns = `seat_id, state, occupant_id, occupied_at, updated_at`

type seatRow struct {
	ID         int            `db:"seat_id"`
	State      int            `db:"state"`
	OccupantID sql.NullString `db:"occupant_id"`
	OccupiedAt *time.Time     `db:"occupied_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (r *seatRow) toEntity() *seat.Seat {
	return &seat.Seat{
		ID:         r.ID,
		State:      seat.State(r.State),
		OccupantID: r.OccupantID.String,
		OccupiedAt: r.OccupiedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// SeatRepository stores reading-room seats in reading_seats. Every state
// change is a single conditional UPDATE; the partial unique index on
// occupant_id enforces one seat per occupant.
type SeatRepository struct{ db *sqlx.DB }

var _ seat.Repository = (*SeatRepository)(nil)

func NewSeatRepository(db *sqlx.DB) *SeatRepository { return &SeatRepository{db: db} }

func (r *SeatRepository) Provision(ctx context.Context, count int) error {
	if count <= 0 {
		return nil
	}
	query := `INSERT INTO reading_seats (seat_id) SELECT generate_series(1, $1) ON CONFLICT (seat_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, count); err != nil {
		return fmt.Errorf("provision seats: %w", err)
	}
	return nil
}

func (r *SeatRepository) List(ctx context.Context) ([]*seat.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM reading_seats ORDER BY seat_id`
	var rows []seatRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list seats: %w", err)
	}
	seats := make([]*seat.Seat, len(rows))
	for i := range rows {
		seats[i] = rows[i].toEntity()
	}
	return seats, nil
}

func (r *SeatRepository) GetByID(ctx context.Context, id int) (*seat.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM reading_seats WHERE seat_id = $1`
	var row seatRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, seat.ErrInvalidSeat
		}
		return nil, fmt.Errorf("get seat: %w", err)
	}
	return row.toEntity(), nil
}

func (r *SeatRepository) GetByOccupant(ctx context.Context, occupantID string) (*seat.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM reading_seats WHERE occupant_id = $1 AND state = 1`
	var row seatRow
	if err := r.db.GetContext(ctx, &row, query, occupantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get seat by occupant: %w", err)
	}
	return row.toEntity(), nil
}

// Reserve flips an available seat to occupied. When no row changes, the seat
// is re-read to report why.
func (r *SeatRepository) Reserve(ctx context.Context, id int, occupantID string, now time.Time) (*seat.Seat, error) {
	if occupantID == "" {
		return nil, seat.ErrOccupantRequired
	}
	query := `UPDATE reading_seats
		SET state = 1, occupant_id = $2, occupied_at = $3, updated_at = $3
		WHERE seat_id = $1 AND state = 0
		RETURNING ` + seatColumns
	var row seatRow
	err := r.db.GetContext(ctx, &row, query, id, occupantID, now)
	if err == nil {
		return row.toEntity(), nil
	}
	if isUniqueViolation(err) {
		return nil, seat.ErrAlreadyReserved
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reserve seat: %w", err)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.IsHeldBy(occupantID) {
		return current, nil
	}
	held, err := r.GetByOccupant(ctx, occupantID)
	if err != nil {
		return nil, err
	}
	if held != nil {
		return nil, seat.ErrAlreadyReserved
	}
	return nil, seat.ErrSeatOccupied
}

func (r *SeatRepository) Release(ctx context.Context, id int, occupantID string, now time.Time) (*seat.Seat, error) {
	query := `UPDATE reading_seats
		SET state = 0, occupant_id = NULL, occupied_at = NULL, updated_at = $3
		WHERE seat_id = $1 AND state = 1 AND occupant_id = $2
		RETURNING ` + seatColumns
	var row seatRow
	err := r.db.GetContext(ctx, &row, query, id, occupantID, now)
	if err == nil {
		return row.toEntity(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("release seat: %w", err)
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, seat.ErrUnauthorizedSeat
}

func (r *SeatRepository) CountAvailable(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM reading_seats WHERE state = 0`); err != nil {
		return 0, fmt.Errorf("count available seats: %w", err)
	}
	return n, nil
}
