package database

import (
	"database/sql"

	"imagerank/types"
)

// Backend keeps ratings and match history in one SQLite file
type Backend struct {
	DB *sql.DB
}

// Open initializes the database at path
func Open(path string) (*Backend, error) {
	db, err := InitDatabase(path)
	if err != nil {
		return nil, err
	}
	return &Backend{DB: db}, nil
}

func (b *Backend) Load() ([]types.ImageRecord, error) { return LoadRatings(b.DB) }

func (b *Backend) Save(records []types.ImageRecord) error { return SaveRatings(b.DB, records) }

// ObserveMatch records m in the matches table
func (b *Backend) ObserveMatch(m types.MatchResult) error { return StoreMatch(b.DB, m) }

func (b *Backend) Close() error { return b.DB.Close() }
