package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ngo-Miingg/Parking-Smart/src/db"
	"github.com/Ngo-Miingg/Parking-Smart/src/models"
)

// SessionRepository handles all database operations for parking sessions
type SessionRepository struct {
	db *db.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(database *db.DB) *SessionRepository {
	return &SessionRepository{
		db: database,
	}
}

const sessionColumns = `id, plate, rfid_uid, entry_time, exit_time, fee, image_path, status`

func scanSession(row *sql.Row) (*models.ParkingSession, error) {
	var (
		session   models.ParkingSession
		uid       sql.NullString
		imagePath sql.NullString
	)
	err := row.Scan(
		&session.ID,
		&session.Plate,
		&uid,
		&session.EntryTime,
		&session.ExitTime,
		&session.Fee,
		&imagePath,
		&session.Status,
	)
	if err != nil {
		return nil, err
	}
	session.RFIDUid = uid.String
	session.ImagePath = imagePath.String
	return &session, nil
}

// FindOpenByPlate retrieves the open (status IN) session for a plate.
// Returns (nil, nil) when the vehicle is not inside. The UNKNOWN sentinel
// never matches: unreadable plates may have any number of open sessions and
// none of them identifies a vehicle.
func (r *SessionRepository) FindOpenByPlate(ctx context.Context, plate string) (*models.ParkingSession, error) {
	if plate == "" || plate == models.UnknownPlate {
		return nil, nil
	}

	query := `
		SELECT ` + sessionColumns + `
		FROM parking_log
		WHERE plate = $1 AND status = $2
		ORDER BY id DESC
		LIMIT 1
	`

	session, err := scanSession(r.db.GetConnection().QueryRowContext(ctx, query, plate, models.StatusIn))
	if err == sql.ErrNoRows {
		// No open session found - this is not an error, just means the
		// vehicle is not inside
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find open session by plate: %w", err)
	}
	return session, nil
}

// FindOpenByUid retrieves the open (status IN) session for an RFID card.
// Returns (nil, nil) when the card is not inside.
func (r *SessionRepository) FindOpenByUid(ctx context.Context, uid string) (*models.ParkingSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM parking_log
		WHERE rfid_uid = $1 AND status = $2
		ORDER BY id DESC
		LIMIT 1
	`

	session, err := scanSession(r.db.GetConnection().QueryRowContext(ctx, query, uid, models.StatusIn))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find open session by uid: %w", err)
	}
	return session, nil
}

// IsRegistered reports whether a plate belongs to a registered (monthly)
// vehicle. Expiry-date enforcement is a documented extension point: add the
// date predicate here and nothing else changes.
func (r *SessionRepository) IsRegistered(ctx context.Context, plate string) (bool, error) {
	if plate == "" || plate == models.UnknownPlate {
		return false, nil
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM registered_vehicles WHERE plate = $1)`
	if err := r.db.GetConnection().QueryRowContext(ctx, query, plate).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check registration: %w", err)
	}
	return exists, nil
}

// CreateSession inserts a new parking session and returns it with its id.
func (r *SessionRepository) CreateSession(ctx context.Context, session models.ParkingSession) (*models.ParkingSession, error) {
	query := `
		INSERT INTO parking_log (plate, rfid_uid, entry_time, image_path, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	uid := sql.NullString{String: session.RFIDUid, Valid: session.RFIDUid != ""}
	err := r.db.GetConnection().QueryRowContext(
		ctx,
		query,
		session.Plate,
		uid,
		session.EntryTime,
		session.ImagePath,
		session.Status,
	).Scan(&session.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("Created parking session",
		"session_id", session.ID,
		"plate", session.Plate,
		"status", session.Status)

	return &session, nil
}

// CloseSession sets exit_time, fee and status OUT on an open session. The
// status predicate makes the close idempotence-safe: a session can only
// transition IN -> OUT once.
func (r *SessionRepository) CloseSession(ctx context.Context, id int64, exitTime time.Time, fee int64) error {
	query := `
		UPDATE parking_log
		SET exit_time = $1, fee = $2, status = $3
		WHERE id = $4 AND status = $5
	`

	result, err := r.db.GetConnection().ExecContext(ctx, query, exitTime, fee, models.StatusOut, id, models.StatusIn)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %d", models.ErrSessionNotFound, id)
	}

	slog.Info("Closed parking session",
		"session_id", id,
		"fee", fee)

	return nil
}

// History lists sessions newest first. When both start and end are set the
// rows are filtered on entry_time; otherwise the newest `limit` rows are
// returned.
func (r *SessionRepository) History(ctx context.Context, start, end *time.Time, limit int) ([]models.ParkingSession, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if start != nil && end != nil {
		query := `
			SELECT ` + sessionColumns + `
			FROM parking_log
			WHERE entry_time >= $1 AND entry_time <= $2
			ORDER BY id DESC
		`
		rows, err = r.db.GetConnection().QueryContext(ctx, query, *start, *end)
	} else {
		query := `
			SELECT ` + sessionColumns + `
			FROM parking_log
			ORDER BY id DESC
			LIMIT $1
		`
		rows, err = r.db.GetConnection().QueryContext(ctx, query, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	sessions := make([]models.ParkingSession, 0)
	for rows.Next() {
		var (
			session   models.ParkingSession
			uid       sql.NullString
			imagePath sql.NullString
		)
		if err := rows.Scan(
			&session.ID,
			&session.Plate,
			&uid,
			&session.EntryTime,
			&session.ExitTime,
			&session.Fee,
			&imagePath,
			&session.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		session.RFIDUid = uid.String
		session.ImagePath = imagePath.String
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history rows: %w", err)
	}

	return sessions, nil
}
