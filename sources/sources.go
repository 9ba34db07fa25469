// Package sources persists named feed requests so front ends can serve a
// feed by name instead of passing the full selector set on every call.
package sources

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sitefeed/sitefeed/scraper"
)

// Errors for source operations.
var (
	ErrSourceNotFound    = errors.New("source not found")
	ErrDuplicateName     = errors.New("source with this name already exists")
	ErrUnsupportedDriver = errors.New("storage driver must be sqlite3 or postgres")
)

// Source is one saved feed request.
type Source struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	URL           string    `json:"url"`
	ItemSelector  string    `json:"item_selector"`
	TitleSelector string    `json:"title_selector,omitempty"`
	LinkSelector  string    `json:"link_selector,omitempty"`
	DateSelector  string    `json:"pub_date_selector,omitempty"`
	Order         string    `json:"order"`
	MaxItems      int       `json:"max_items"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Params converts the stored row back into buildable request parameters.
func (s *Source) Params() scraper.RequestParams {
	return scraper.RequestParams{
		Name:          s.Name,
		URL:           s.URL,
		ItemSelector:  s.ItemSelector,
		TitleSelector: s.TitleSelector,
		LinkSelector:  s.LinkSelector,
		DateSelector:  s.DateSelector,
		Order:         s.Order,
		MaxItems:      s.MaxItems,
	}
}

// Store manages saved sources in a SQL database. The driver is selectable
// (sqlite3 for single-machine use, postgres for shared deployments); the
// query set is written once with ? placeholders and rebound per driver.
type Store struct {
	db     *sql.DB
	driver string
}

// NewStore opens the database and ensures the schema exists.
func NewStore(driver, dsn string) (*Store, error) {
	if driver != "sqlite3" && driver != "postgres" {
		return nil, ErrUnsupportedDriver
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, driver: driver}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the sources table if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sources (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		item_selector TEXT NOT NULL,
		title_selector TEXT NOT NULL DEFAULT '',
		link_selector TEXT NOT NULL DEFAULT '',
		pub_date_selector TEXT NOT NULL DEFAULT '',
		item_order TEXT NOT NULL DEFAULT 'normal',
		max_items INTEGER NOT NULL DEFAULT 30,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to $1..$n for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Add validates and saves a new source. The request parameters must build,
// so a broken selector is rejected at save time, not at serve time.
func (s *Store) Add(params scraper.RequestParams) (*Source, error) {
	req, err := params.Build()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	source := &Source{
		ID:            uuid.New(),
		Name:          req.Name,
		URL:           req.URL.String(),
		ItemSelector:  params.ItemSelector,
		TitleSelector: params.TitleSelector,
		LinkSelector:  params.LinkSelector,
		DateSelector:  params.DateSelector,
		Order:         req.Order.String(),
		MaxItems:      req.MaxItems,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	query := s.rebind(`
		INSERT INTO sources (
			id, name, url, item_selector, title_selector, link_selector,
			pub_date_selector, item_order, max_items, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err = s.db.Exec(query,
		source.ID.String(),
		source.Name,
		source.URL,
		source.ItemSelector,
		source.TitleSelector,
		source.LinkSelector,
		source.DateSelector,
		source.Order,
		source.MaxItems,
		formatTime(source.CreatedAt),
		formatTime(source.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint") ||
			strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to insert source: %w", err)
	}

	return source, nil
}

const sourceColumns = `id, name, url, item_selector, title_selector,
	link_selector, pub_date_selector, item_order, max_items,
	created_at, updated_at`

// GetByName retrieves a saved source.
func (s *Store) GetByName(name string) (*Source, error) {
	query := s.rebind(`SELECT ` + sourceColumns + ` FROM sources WHERE name = ?`)

	source, err := scanSource(s.db.QueryRow(query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query source: %w", err)
	}
	return source, nil
}

// List returns all saved sources, newest first.
func (s *Store) List() ([]Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources ORDER BY created_at DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, *source)
	}
	return sources, rows.Err()
}

// Delete removes a saved source by name.
func (s *Store) Delete(name string) error {
	query := s.rebind(`DELETE FROM sources WHERE name = ?`)

	result, err := s.db.Exec(query, name)
	if err != nil {
		return fmt.Errorf("failed to delete source: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrSourceNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSource(row scanner) (*Source, error) {
	var source Source
	var idStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&idStr, &source.Name, &source.URL,
		&source.ItemSelector, &source.TitleSelector, &source.LinkSelector,
		&source.DateSelector, &source.Order, &source.MaxItems,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	source.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid source id %q: %w", idStr, err)
	}
	source.CreatedAt, err = parseTime(createdAtStr)
	if err != nil {
		return nil, err
	}
	source.UpdatedAt, err = parseTime(updatedAtStr)
	if err != nil {
		return nil, err
	}

	return &source, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}
