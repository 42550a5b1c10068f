package database

import (
	"database/sql"
	"fmt"
	"time"

	"imagerank/logging"
	"imagerank/types"

	_ "github.com/mattn/go-sqlite3"
)

// InitDatabase initializes and returns a database connection
func InitDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS ratings (
		path TEXT PRIMARY KEY,
		rating REAL NOT NULL,
		games INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		played_at TEXT NOT NULL,
		left_path TEXT NOT NULL,
		right_path TEXT NOT NULL,
		result TEXT NOT NULL,
		left_before REAL,
		right_before REAL,
		left_after REAL,
		right_after REAL,
		penalty REAL
	);
	CREATE INDEX IF NOT EXISTS idx_matches_session ON matches(session_id);
	CREATE INDEX IF NOT EXISTS idx_ratings_rating ON ratings(rating);`

	if _, err = db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, err
	}

	// Older databases kept only path and rating
	var hasGamesColumn bool
	err = db.QueryRow("SELECT COUNT(*) FROM pragma_table_info('ratings') WHERE name='games'").Scan(&hasGamesColumn)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error checking for games column: %v", err)
	}
	if !hasGamesColumn {
		if _, err = db.Exec("ALTER TABLE ratings ADD COLUMN games INTEGER NOT NULL DEFAULT 0;"); err != nil {
			db.Close()
			return nil, fmt.Errorf("error adding games column: %v", err)
		}
		logging.DebugLog("Added 'games' column to existing database schema")
	}

	return db, nil
}

// LoadRatings returns every stored rating record
func LoadRatings(db *sql.DB) ([]types.ImageRecord, error) {
	rows, err := db.Query("SELECT path, rating, games FROM ratings ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %v", err)
	}
	defer rows.Close()

	var records []types.ImageRecord
	for rows.Next() {
		var rec types.ImageRecord
		if err := rows.Scan(&rec.Path, &rec.Rating, &rec.Games); err != nil {
			return nil, fmt.Errorf("failed to read rating row: %v", err)
		}
		if rec.Games < 0 {
			return nil, fmt.Errorf("negative games count %d for %s", rec.Games, rec.Path)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SaveRatings replaces the ratings table with records in one transaction
func SaveRatings(db *sql.DB, records []types.ImageRecord) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM ratings"); err != nil {
		return fmt.Errorf("cannot clear ratings: %v", err)
	}

	stmt, err := tx.Prepare("INSERT INTO ratings (path, rating, games) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("cannot prepare statement: %v", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(rec.Path, rec.Rating, rec.Games); err != nil {
			return fmt.Errorf("cannot insert rating for %s: %v", rec.Path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logging.LogInfo("Stored %d ratings in database", len(records))
	return nil
}

// StoreMatch appends one applied comparison to the matches table
func StoreMatch(db *sql.DB, m types.MatchResult) error {
	_, err := db.Exec(`
		INSERT INTO matches (
			session_id, played_at, left_path, right_path, result,
			left_before, right_before, left_after, right_after, penalty
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.SessionID,
		m.At.UTC().Format(time.RFC3339Nano),
		m.LeftBefore.Path,
		m.RightBefore.Path,
		m.Result,
		m.LeftBefore.Rating,
		m.RightBefore.Rating,
		m.LeftAfter.Rating,
		m.RightAfter.Rating,
		m.Penalty,
	)
	if err != nil {
		return fmt.Errorf("cannot insert match %s vs %s: %v", m.LeftBefore.Path, m.RightBefore.Path, err)
	}
	return nil
}

// Stats summarizes the stored data
type Stats struct {
	TotalImages  int
	TotalMatches int
	Sessions     int
}

// GetStats counts images, matches and sessions
func GetStats(db *sql.DB) (*Stats, error) {
	var stats Stats
	if err := db.QueryRow("SELECT COUNT(*) FROM ratings").Scan(&stats.TotalImages); err != nil {
		return nil, fmt.Errorf("failed to count ratings: %v", err)
	}
	err := db.QueryRow("SELECT COUNT(*), COUNT(DISTINCT session_id) FROM matches").Scan(&stats.TotalMatches, &stats.Sessions)
	if err != nil {
		return nil, fmt.Errorf("failed to count matches: %v", err)
	}
	return &stats, nil
}
