// Package session persists the logged-in identity and a small offline cache
// across runs, the way the browser dashboards kept user_id/user_name in local
// storage.
package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"parkdesk/internal/entities"
)

var ErrNoSession = errors.New("no stored session")

const (
	keyUserID   = "user_id"
	keyFullName = "full_name"
	keyToken    = "token"

	cacheLots    = "lots"
	cacheSummary = "summary"
)

type Session struct {
	UserID   int
	FullName string
	Token    string
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	schema := `
	CREATE TABLE IF NOT EXISTS session (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS cache (
		name TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init session store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Save(sess Session) error {
	values := map[string]string{
		keyUserID:   strconv.Itoa(sess.UserID),
		keyFullName: sess.FullName,
		keyToken:    sess.Token,
	}
	for key, value := range values {
		_, err := s.db.Exec(`INSERT INTO session (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
		if err != nil {
			return fmt.Errorf("save session %s: %w", key, err)
		}
	}
	return nil
}

func (s *Store) Load() (Session, error) {
	rows, err := s.db.Query(`SELECT key, value FROM session`)
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	defer rows.Close()

	var sess Session
	found := false
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Session{}, err
		}
		switch key {
		case keyUserID:
			id, err := strconv.Atoi(value)
			if err != nil {
				return Session{}, fmt.Errorf("corrupt stored user id %q", value)
			}
			sess.UserID = id
			found = true
		case keyFullName:
			sess.FullName = value
		case keyToken:
			sess.Token = value
		}
	}
	if err := rows.Err(); err != nil {
		return Session{}, err
	}
	if !found || sess.UserID == 0 {
		return Session{}, ErrNoSession
	}
	return sess, nil
}

// Clear wipes the stored identity and cache. Called on logout.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM cache`); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

func (s *Store) SaveLots(lots []entities.ParkingLot) error {
	return s.saveCache(cacheLots, lots)
}

func (s *Store) CachedLots() ([]entities.ParkingLot, error) {
	var lots []entities.ParkingLot
	if err := s.loadCache(cacheLots, &lots); err != nil {
		return nil, err
	}
	return lots, nil
}

func (s *Store) SaveSummary(reservations []entities.Reservation) error {
	return s.saveCache(cacheSummary, reservations)
}

func (s *Store) CachedSummary() ([]entities.Reservation, error) {
	var reservations []entities.Reservation
	if err := s.loadCache(cacheSummary, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (s *Store) saveCache(name string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s cache: %w", name, err)
	}
	_, err = s.db.Exec(`INSERT INTO cache (name, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		name, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save %s cache: %w", name, err)
	}
	return nil
}

func (s *Store) loadCache(name string, out any) error {
	var raw string
	err := s.db.QueryRow(`SELECT payload FROM cache WHERE name = ?`, name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s cache: %w", name, err)
	}
	return json.Unmarshal([]byte(raw), out)
}
