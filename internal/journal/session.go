package journal

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is one run of the controller.
type Session struct {
	ID           string     `json:"id"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	ScreenWidth  int        `json:"screen_w"`
	ScreenHeight int        `json:"screen_h"`
	ExitReason   string     `json:"exit_reason,omitempty"`
}

// SessionRepository provides access to sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this journal.
func (j *Journal) Sessions() *SessionRepository {
	return &SessionRepository{db: j.db}
}

// Start inserts a new open session with a generated ID.
func (r *SessionRepository) Start(screenW, screenH int) (*Session, error) {
	s := &Session{
		ID:           uuid.New().String(),
		StartedAt:    time.Now(),
		ScreenWidth:  screenW,
		ScreenHeight: screenH,
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, screen_w, screen_h) VALUES (?, ?, ?, ?)`,
		s.ID, s.StartedAt, s.ScreenWidth, s.ScreenHeight,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// End marks a session as finished with the given reason.
func (r *SessionRepository) End(id, reason string) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, exit_reason = ? WHERE id = ?`,
		time.Now(), reason, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	row := r.db.QueryRow(
		`SELECT id, started_at, ended_at, screen_w, screen_h, exit_reason
		 FROM sessions WHERE id = ?`,
		id,
	)

	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// List retrieves all sessions, newest first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, screen_w, screen_h, exit_reason
		 FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (*Session, error) {
	s := &Session{}
	var ended sql.NullTime

	if err := sc.Scan(&s.ID, &s.StartedAt, &ended, &s.ScreenWidth, &s.ScreenHeight, &s.ExitReason); err != nil {
		return nil, err
	}

	if ended.Valid {
		t := ended.Time
		s.EndedAt = &t
	}
	return s, nil
}
