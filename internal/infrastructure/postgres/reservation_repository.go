package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hooting76/blue-crab-lms-sub001/internal/domain/reservation"
)

const reservationColumns = `reservation_id, facility_id, facility_name, requester_id, requester_name,
	start_time, end_time, party_size, purpose, requested_equipment, status, admin_note,
	rejection_reason, decided_by, created_at, decided_at, updated_at`

type reservationRow struct {
	ID                 int64      `db:"reservation_id"`
	FacilityID         int64      `db:"facility_id"`
	FacilityName       string     `db:"facility_name"`
	RequesterID        string     `db:"requester_id"`
	RequesterName      string     `db:"requester_name"`
	StartTime          time.Time  `db:"start_time"`
	EndTime            time.Time  `db:"end_time"`
	PartySize          int        `db:"party_size"`
	Purpose            string     `db:"purpose"`
	RequestedEquipment string     `db:"requested_equipment"`
	Status             string     `db:"status"`
	AdminNote          string     `db:"admin_note"`
	RejectionReason    string     `db:"rejection_reason"`
	DecidedBy          string     `db:"decided_by"`
	CreatedAt          time.Time  `db:"created_at"`
	DecidedAt          *time.Time `db:"decided_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

func (r *reservationRow) toEntity() *reservation.Request {
	return &reservation.Request{
		ID:                 r.ID,
		FacilityID:         r.FacilityID,
		FacilityName:       r.FacilityName,
		RequesterID:        r.RequesterID,
		RequesterName:      r.RequesterName,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		PartySize:          r.PartySize,
		Purpose:            r.Purpose,
		RequestedEquipment: r.RequestedEquipment,
		Status:             reservation.Status(r.Status),
		AdminNote:          r.AdminNote,
		RejectionReason:    r.RejectionReason,
		DecidedBy:          r.DecidedBy,
		CreatedAt:          r.CreatedAt,
		DecidedAt:          r.DecidedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

type logRow struct {
	ID            int64     `db:"log_id"`
	ReservationID int64     `db:"reservation_id"`
	EventType     string    `db:"event_type"`
	ActorType     string    `db:"actor_type"`
	ActorID       string    `db:"actor_id"`
	Payload       string    `db:"payload"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r *logRow) toEntity() *reservation.LogEntry {
	return &reservation.LogEntry{
		ID:            r.ID,
		ReservationID: r.ReservationID,
		EventType:     reservation.EventType(r.EventType),
		ActorType:     reservation.ActorType(r.ActorType),
		ActorID:       r.ActorID,
		Payload:       r.Payload,
		CreatedAt:     r.CreatedAt,
	}
}

// ReservationRepository stores requests in facility_reservations and their
// audit trail in facility_reservation_logs.
type ReservationRepository struct{ db *sqlx.DB }

var _ reservation.Repository = (*ReservationRepository)(nil)

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, req *reservation.Request, entry *reservation.LogEntry) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `INSERT INTO facility_reservations (facility_id, facility_name, requester_id, requester_name,
			start_time, end_time, party_size, purpose, requested_equipment, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING reservation_id`
		err := tx.QueryRowContext(ctx, query,
			req.FacilityID, req.FacilityName, req.RequesterID, req.RequesterName,
			req.StartTime, req.EndTime, req.PartySize, req.Purpose, req.RequestedEquipment,
			string(req.Status), req.CreatedAt, req.UpdatedAt,
		).Scan(&req.ID)
		if err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}
		if entry == nil {
			return nil
		}
		entry.ReservationID = req.ID
		return insertLog(ctx, tx, entry)
	})
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*reservation.Request, error) {
	return getRequest(ctx, r.db, `SELECT `+reservationColumns+` FROM facility_reservations WHERE reservation_id = $1`, id)
}

// Search builds one WHERE clause shared by the count and the page query.
func (r *ReservationRepository) Search(ctx context.Context, filter reservation.Filter, page, size int) (*reservation.Page, error) {
	page, size = reservation.NormalizePage(page, size)
	where, args := searchClause(filter)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM facility_reservations`+where, args...); err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}

	dir := "DESC"
	if filter.Order == reservation.OldestFirst {
		dir = "ASC"
	}
	query := fmt.Sprintf(`SELECT %s FROM facility_reservations%s ORDER BY created_at %s, reservation_id %s LIMIT $%d OFFSET $%d`,
		reservationColumns, where, dir, dir, len(args)+1, len(args)+2)
	args = append(args, size, page*size)

	var rows []reservationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("search reservations: %w", err)
	}
	items := make([]*reservation.Request, len(rows))
	for i := range rows {
		items[i] = rows[i].toEntity()
	}
	return &reservation.Page{Items: items, Total: total, Page: page, Size: size}, nil
}

func searchClause(filter reservation.Filter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.FacilityID != 0 {
		add("facility_id = $%d", filter.FacilityID)
	}
	if filter.RequesterID != "" {
		add("requester_id = $%d", filter.RequesterID)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(requester_name ILIKE $%d OR requester_id ILIKE $%d OR facility_name ILIKE $%d)", n, n, n))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func (r *ReservationRepository) Stats(ctx context.Context, w reservation.Windows) (*reservation.Stats, error) {
	query := `SELECT
		COUNT(*) FILTER (WHERE status = 'PENDING') AS pending,
		COUNT(*) FILTER (WHERE created_at >= $1) AS today,
		COUNT(*) FILTER (WHERE created_at >= $2) AS this_week,
		COUNT(*) FILTER (WHERE created_at >= $3) AS this_month
		FROM facility_reservations`
	var row struct {
		Pending   int `db:"pending"`
		Today     int `db:"today"`
		ThisWeek  int `db:"this_week"`
		ThisMonth int `db:"this_month"`
	}
	if err := r.db.GetContext(ctx, &row, query, w.Today, w.ThisWeek, w.ThisMonth); err != nil {
		return nil, fmt.Errorf("reservation stats: %w", err)
	}
	return &reservation.Stats{Pending: row.Pending, Today: row.Today, ThisWeek: row.ThisWeek, ThisMonth: row.ThisMonth}, nil
}

// Transition locks the request row, hands fn a scope bound to the same
// transaction and writes the result with its log entry before commit.
func (r *ReservationRepository) Transition(ctx context.Context, id int64, fn reservation.TransitionFunc) (*reservation.Request, error) {
	var result *reservation.Request
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		req, err := getRequest(ctx, tx, `SELECT `+reservationColumns+` FROM facility_reservations WHERE reservation_id = $1 FOR UPDATE`, id)
		if err != nil {
			return err
		}

		entry, err := fn(ctx, req, txScope{tx: tx})
		if err != nil {
			return err
		}

		query := `UPDATE facility_reservations
			SET status = $2, admin_note = $3, rejection_reason = $4, decided_by = $5, decided_at = $6, updated_at = $7
			WHERE reservation_id = $1`
		if _, err := tx.ExecContext(ctx, query, id, string(req.Status), req.AdminNote, req.RejectionReason, req.DecidedBy, req.DecidedAt, req.UpdatedAt); err != nil {
			return fmt.Errorf("update reservation: %w", err)
		}
		if entry != nil {
			entry.ReservationID = id
			if err := insertLog(ctx, tx, entry); err != nil {
				return err
			}
		}
		result = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *ReservationRepository) ListExpiredApproved(ctx context.Context, now time.Time, limit int) ([]int64, error) {
	query := `SELECT reservation_id FROM facility_reservations WHERE status = 'APPROVED' AND end_time <= $1 ORDER BY reservation_id`
	args := []any{now}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("list expired reservations: %w", err)
	}
	return ids, nil
}

func (r *ReservationRepository) Logs(ctx context.Context, id int64) ([]*reservation.LogEntry, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM facility_reservations WHERE reservation_id = $1)`, id); err != nil {
		return nil, fmt.Errorf("check reservation: %w", err)
	}
	if !exists {
		return nil, reservation.ErrNotFound
	}

	query := `SELECT log_id, reservation_id, event_type, actor_type, actor_id, COALESCE(payload::text, '') AS payload, created_at
		FROM facility_reservation_logs WHERE reservation_id = $1 ORDER BY log_id`
	var rows []logRow
	if err := r.db.SelectContext(ctx, &rows, query, id); err != nil {
		return nil, fmt.Errorf("list reservation logs: %w", err)
	}
	out := make([]*reservation.LogEntry, len(rows))
	for i := range rows {
		out[i] = rows[i].toEntity()
	}
	return out, nil
}

func getRequest(ctx context.Context, q sqlx.QueryerContext, query string, id int64) (*reservation.Request, error) {
	var row reservationRow
	if err := sqlx.GetContext(ctx, q, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrNotFound
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return row.toEntity(), nil
}

func insertLog(ctx context.Context, tx *sqlx.Tx, e *reservation.LogEntry) error {
	query := `INSERT INTO facility_reservation_logs (reservation_id, event_type, actor_type, actor_id, payload, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::jsonb, $6) RETURNING log_id`
	if err := tx.QueryRowContext(ctx, query, e.ReservationID, string(e.EventType), string(e.ActorType), e.ActorID, e.Payload, e.CreatedAt).Scan(&e.ID); err != nil {
		return fmt.Errorf("append reservation log: %w", err)
	}
	return nil
}

// txScope answers in-transition reads on the open transaction. Locking the
// facility row serializes concurrent approvals for one facility.
type txScope struct {
	tx *sqlx.Tx
}

func (s txScope) FacilityActive(ctx context.Context, facilityID int64) (bool, error) {
	var active bool
	err := s.tx.GetContext(ctx, &active, `SELECT is_active FROM facilities WHERE facility_id = $1 FOR UPDATE`, facilityID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check facility: %w", err)
	}
	return active, nil
}

func (s txScope) HasApprovedOverlap(ctx context.Context, req *reservation.Request) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM facility_reservations
		WHERE facility_id = $1 AND status = 'APPROVED' AND reservation_id <> $2
		AND start_time < $4 AND end_time > $3)`
	var overlap bool
	if err := s.tx.GetContext(ctx, &overlap, query, req.FacilityID, req.ID, req.StartTime, req.EndTime); err != nil {
		return false, fmt.Errorf("check overlap: %w", err)
	}
	return overlap, nil
}
