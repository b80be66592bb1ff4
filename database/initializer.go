package database

import (
	"fmt"
	"log"

	"github.com/lib/pq"
)

// lookup rows the storefront and admin panel rely on by id
var (
	defaultOrderStatuses = []struct {
		ID   int
		Name string
	}{
		{1, "pending"},
		{2, "processing"},
		{3, "fulfilled"},
		{4, "rejected"},
	}

	defaultDeliveryMethods = []struct {
		ID          int
		Name        string
		Description string
	}{
		{1, "campus", "توصيل إلى الجامعة"},
		{2, "pickup", "استلام من المكتبة"},
	}
)

// Initialize inserts the lookup rows after the GORM migration created the tables
func (s *PostgreSQLStore) Initialize() error {
	log.Println("Initializing PostgresSQL Database.", "Ensuring lookup rows")
	if err := s.EnsureLookups(); err != nil {
		return err
	}
	return nil
}

// EnsureLookups inserts the default order statuses and delivery methods.
// Existing rows are left untouched so admins may rename them.
func (s *PostgreSQLStore) EnsureLookups() error {
	for _, status := range defaultOrderStatuses {
		_, err := s.db.Exec(
			`INSERT INTO order_statuses (id, name) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			status.ID, status.Name,
		)
		if err != nil {
			return fmt.Errorf("insert order status %q: %w", status.Name, err)
		}
	}

	for _, method := range defaultDeliveryMethods {
		_, err := s.db.Exec(
			`INSERT INTO delivery_methods (id, name, description) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			method.ID, method.Name, method.Description,
		)
		if err != nil {
			return fmt.Errorf("insert delivery method %q: %w", method.Name, err)
		}
	}

	// explicit ids leave the identity sequences behind
	for _, table := range []string{"order_statuses", "delivery_methods"} {
		if err := s.alignSequence(table); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgreSQLStore) alignSequence(table string) error {
	query := fmt.Sprintf(
		`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1))`,
		table, pq.QuoteIdentifier(table),
	)
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("align %s sequence: %w", table, err)
	}
	return nil
}
