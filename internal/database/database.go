// Package database persists finished match results. The driver is chosen by
// environment: sqlite3 against a local file by default, pgx for Postgres.
// A .env file in the working directory is loaded automatically.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

const (
	envDriver = "TRUCO_DB_DRIVER"
	envDSN    = "TRUCO_DB_DSN"

	defaultDriver = "sqlite3"
	defaultDSN    = "truco.db"
)

const schema = `
CREATE TABLE IF NOT EXISTS truco_matches (
	id        TEXT PRIMARY KEY,
	player0   TEXT NOT NULL,
	player1   TEXT NOT NULL,
	winner    TEXT NOT NULL,
	truco0    INTEGER NOT NULL,
	envido0   INTEGER NOT NULL,
	flor0     INTEGER NOT NULL,
	truco1    INTEGER NOT NULL,
	envido1   INTEGER NOT NULL,
	flor1     INTEGER NOT NULL,
	rounds    INTEGER NOT NULL,
	resigned  BOOLEAN NOT NULL,
	played_at TIMESTAMP NOT NULL
)`

// Service stores and retrieves match results.
type Service interface {
	SaveResult(result *MatchResult) error
	Results() ([]MatchResult, error)
	ResultsByPlayer(name string) ([]MatchResult, error)
	Result(id string) (*MatchResult, error)
	Close() error
}

type service struct {
	db     *sql.DB
	driver string
	mu     sync.Mutex
	log    logrus.FieldLogger
}

// New opens the configured database and ensures the schema exists.
func New(log logrus.FieldLogger) (Service, error) {
	driver := os.Getenv(envDriver)
	if driver == "" {
		driver = defaultDriver
	}
	dsn := os.Getenv(envDSN)
	if dsn == "" {
		dsn = defaultDSN
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create truco_matches table: %w", err)
	}

	log.WithField("driver", driver).Info("database ready")
	return &service{db: db, driver: driver, log: log}, nil
}

// rebind rewrites ? placeholders to $n for the pgx driver.
func (s *service) rebind(query string) string {
	if s.driver != "pgx" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
		} else {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func (s *service) SaveResult(result *MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.PlayedAt.IsZero() {
		result.PlayedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(s.rebind(`
		INSERT INTO truco_matches
			(id, player0, player1, winner,
			 truco0, envido0, flor0, truco1, envido1, flor1,
			 rounds, resigned, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		result.ID, result.Player0, result.Player1, result.Winner,
		result.Truco0, result.Envido0, result.Flor0,
		result.Truco1, result.Envido1, result.Flor1,
		result.Rounds, result.Resigned, result.PlayedAt,
	)
	if err != nil {
		return fmt.Errorf("save match %s: %w", result.ID, err)
	}
	s.log.WithFields(logrus.Fields{
		"match":  result.ID,
		"winner": result.Winner,
	}).Info("match result saved")
	return nil
}

const selectColumns = `
	SELECT id, player0, player1, winner,
	       truco0, envido0, flor0, truco1, envido1, flor1,
	       rounds, resigned, played_at
	FROM truco_matches`

func (s *service) Results() ([]MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(selectColumns + " ORDER BY played_at DESC")
	if err != nil {
		return nil, fmt.Errorf("query match results: %w", err)
	}
	defer rows.Close()
	return scanResults(rows)
}

func (s *service) ResultsByPlayer(name string) ([]MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		s.rebind(selectColumns+" WHERE player0 = ? OR player1 = ? ORDER BY played_at DESC"),
		name, name,
	)
	if err != nil {
		return nil, fmt.Errorf("query matches for %s: %w", name, err)
	}
	defer rows.Close()
	return scanResults(rows)
}

func (s *service) Result(id string) (*MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(s.rebind(selectColumns+" WHERE id = ?"), id)
	var r MatchResult
	if err := scanResult(row, &r); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("match %s not found", id)
		}
		return nil, fmt.Errorf("query match %s: %w", id, err)
	}
	return &r, nil
}

func (s *service) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner, r *MatchResult) error {
	return row.Scan(
		&r.ID, &r.Player0, &r.Player1, &r.Winner,
		&r.Truco0, &r.Envido0, &r.Flor0,
		&r.Truco1, &r.Envido1, &r.Flor1,
		&r.Rounds, &r.Resigned, &r.PlayedAt,
	)
}

func scanResults(rows *sql.Rows) ([]MatchResult, error) {
	var results []MatchResult
	for rows.Next() {
		var r MatchResult
		if err := scanResult(rows, &r); err != nil {
			return nil, fmt.Errorf("scan match result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
