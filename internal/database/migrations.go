package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createCampusTable,
		createRoleTable,
		createUsersTable,
		createOpenDayTable,
		createRegistrationTable,
		createCommentTable,
		createRegistrationIndexes,
		createOpenDayDateIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createCampusTable = `
CREATE TABLE IF NOT EXISTS campus (
    campus_id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    city VARCHAR(255) NOT NULL
);`

const createRoleTable = `
CREATE TABLE IF NOT EXISTS role (
    role_id SERIAL PRIMARY KEY,
    role_name VARCHAR(100) UNIQUE NOT NULL
);`

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    user_id SERIAL PRIMARY KEY,
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100) NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    user_type VARCHAR(50) NOT NULL CHECK (user_type IN ('student', 'parent', 'marketing_member')),
    role_id INTEGER REFERENCES role(role_id),
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createOpenDayTable = `
CREATE TABLE IF NOT EXISTS open_day (
    jpo_id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    date TIMESTAMP NOT NULL,
    max_capacity INTEGER NOT NULL CHECK (max_capacity > 0),
    campus_id INTEGER NOT NULL REFERENCES campus(campus_id) ON DELETE CASCADE
);`

// Deleting a user or an open day cascades to its registrations. The partial
// unique index keeps one active registration per user and open day:
// historical unregistered rows may accumulate, registered rows may not.
const createRegistrationTable = `
CREATE TABLE IF NOT EXISTS registration (
    registration_id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    jpo_id INTEGER NOT NULL REFERENCES open_day(jpo_id) ON DELETE CASCADE,
    registration_date TIMESTAMP NOT NULL DEFAULT NOW(),
    status VARCHAR(20) NOT NULL DEFAULT 'registered' CHECK (status IN ('registered', 'unregistered'))
);
CREATE UNIQUE INDEX IF NOT EXISTS registration_one_active_per_user_jpo
    ON registration (user_id, jpo_id) WHERE status = 'registered';`

const createCommentTable = `
CREATE TABLE IF NOT EXISTS comment (
    comment_id SERIAL PRIMARY KEY,
    content TEXT NOT NULL,
    comment_date TIMESTAMP NOT NULL DEFAULT NOW(),
    moderator_reply TEXT,
    reply_date TIMESTAMP,
    user_id INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    jpo_id INTEGER NOT NULL REFERENCES open_day(jpo_id) ON DELETE CASCADE
);`

const createRegistrationIndexes = `
CREATE INDEX IF NOT EXISTS registration_jpo_status_idx ON registration (jpo_id, status);
CREATE INDEX IF NOT EXISTS registration_user_idx ON registration (user_id);
CREATE INDEX IF NOT EXISTS comment_jpo_idx ON comment (jpo_id);`

const createOpenDayDateIndex = `
CREATE INDEX IF NOT EXISTS open_day_date_idx ON open_day (date);`
