package journal

// runMigrations executes all database migrations.
func (j *Journal) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per run of the controller
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			screen_w INTEGER NOT NULL,
			screen_h INTEGER NOT NULL,
			exit_reason TEXT NOT NULL DEFAULT ''
		)`,

		// Actions table - every actuator call made during a session
		`CREATE TABLE IF NOT EXISTS actions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			mode TEXT NOT NULL,
			x INTEGER NOT NULL DEFAULT 0,
			y INTEGER NOT NULL DEFAULT 0,
			amount INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_actions_session_id ON actions(session_id)`,
	}

	for _, migration := range migrations {
		if _, err := j.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
