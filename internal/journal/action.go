package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// Action is one recorded actuator call.
type Action struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`
	Mode      string    `json:"mode"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
	Amount    int       `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// ActionRepository provides access to recorded actions.
type ActionRepository struct {
	db *sql.DB
}

// Actions returns the action repository for this journal.
func (j *Journal) Actions() *ActionRepository {
	return &ActionRepository{db: j.db}
}

// Create inserts a single action and sets its ID.
func (r *ActionRepository) Create(a *Action) error {
	return r.CreateBatch([]*Action{a})
}

// CreateBatch inserts actions in one transaction, setting their IDs.
// Actions without a timestamp are stamped with the current time.
func (r *ActionRepository) CreateBatch(actions []*Action) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO actions (session_id, kind, mode, x, y, amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range actions {
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now()
		}
		result, err := stmt.Exec(a.SessionID, a.Kind, a.Mode, a.X, a.Y, a.Amount, a.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert %s action: %w", a.Kind, err)
		}
		if a.ID, err = result.LastInsertId(); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListBySession retrieves the actions of a session in the order they happened.
func (r *ActionRepository) ListBySession(sessionID string) ([]*Action, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, kind, mode, x, y, amount, created_at
		 FROM actions WHERE session_id = ? ORDER BY id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []*Action
	for rows.Next() {
		a := &Action{}
		err := rows.Scan(&a.ID, &a.SessionID, &a.Kind, &a.Mode, &a.X, &a.Y, &a.Amount, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return actions, nil
}

// CountByKind returns how many actions of each kind a session recorded.
func (r *ActionRepository) CountByKind(sessionID string) (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT kind, COUNT(*) FROM actions WHERE session_id = ? GROUP BY kind`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}

	return counts, rows.Err()
}
