package database

import (
	"database/sql"
	"log"

	_ "github.com/lib/pq"
)

// PostgreSQLStore is a plain database/sql connection used for bootstrap SQL
// that GORM migrations do not cover (lookup rows, sequence alignment).
type PostgreSQLStore struct {
	db *sql.DB
}

// NewPostgreSQLStore wraps an existing *sql.DB
func NewPostgreSQLStore(db *sql.DB) *PostgreSQLStore {
	return &PostgreSQLStore{db: db}
}

func (s *PostgreSQLStore) Init() error {
	log.Println("Initializing PostgresSQL Database.")
	return s.Initialize()
}
