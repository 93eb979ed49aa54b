package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type DatabaseConfig interface {
	DBUrl() string
}

var (
	ErrRomNotFound     = errors.New("rom not found")
	ErrSessionNotFound = errors.New("session not found")
)

// Rom is a stored cartridge image and what decoding it found.
type Rom struct {
	MD5       string
	Edition   string
	Size      int
	Counts    [3]int
	Data      []byte
	FirstSeen time.Time
	LastSeen  time.Time
}

// Session is the stored record of an editing session.
type Session struct {
	ID        string
	RomMD5    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Cleaned counts what a cleanup pass deleted.
type Cleaned struct {
	Sessions int64
	Roms     int64
}

// Upload is one submitted teams document and its validation outcome.
type Upload struct {
	SessionID string
	RomMD5    string
	Filename  string
	JSON      []byte
	Valid     bool
	Errors    []string
	Warnings  []string
	Duration  time.Duration
}

type DatabaseService interface {
	Close() error
	Ping(ctx context.Context) error
	SaveRom(ctx context.Context, rom *Rom) error
	LoadRom(ctx context.Context, md5 string) (*Rom, error)
	RecordSession(ctx context.Context, id, romMD5 string, expires time.Time) error
	LoadSession(ctx context.Context, id string) (*Session, error)
	ExtendSession(ctx context.Context, id string, expires time.Time) error
	DeleteSession(ctx context.Context, id string) error
	Cleanup(ctx context.Context, now time.Time, retention time.Duration) (Cleaned, error)
	RecordUpload(ctx context.Context, u *Upload) (int64, error)
	CountUploads(ctx context.Context, sessionID string) (int, error)
}

type service struct {
	cfg DatabaseConfig
	db  *sql.DB
}

var dbInstance *service

var schema = []string{
	`CREATE TABLE IF NOT EXISTS roms (
		md5 TEXT PRIMARY KEY,
		edition TEXT NOT NULL,
		size INTEGER NOT NULL,
		national INTEGER NOT NULL DEFAULT 0,
		club INTEGER NOT NULL DEFAULT 0,
		custom INTEGER NOT NULL DEFAULT 0,
		data BLOB NOT NULL,
		first_seen_at TIMESTAMP NOT NULL,
		last_seen_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		rom_md5 TEXT NOT NULL REFERENCES roms(md5),
		created_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS uploads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		rom_md5 TEXT NOT NULL,
		filename TEXT,
		json_content TEXT NOT NULL,
		is_valid INTEGER NOT NULL,
		errors TEXT NOT NULL,
		warnings TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		uploaded_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_uploads_session ON uploads (session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_rom ON sessions (rom_md5, expires_at)`,
}

func NewDatabaseService(cfg DatabaseConfig) DatabaseService {
	if dbInstance != nil {
		return dbInstance
	}
	s, err := Open(cfg)
	if err != nil {
		panic(err)
	}
	dbInstance = s.(*service)
	return dbInstance
}

// Open connects and creates the schema. Unlike NewDatabaseService every call
// returns a fresh connection.
func Open(cfg DatabaseConfig) (DatabaseService, error) {
	db, err := sql.Open("sqlite3", cfg.DBUrl())
	if err != nil {
		return nil, fmt.Errorf("could not open database %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("could not initialise database %w", err)
		}
	}
	return &service{cfg, db}, nil
}

func (s *service) Close() error {
	slog.Info("disconnected from database", "url", s.cfg.DBUrl())
	return s.db.Close()
}

func (s *service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveRom stores rom, or only bumps its last-seen time when the same image
// was stored before.
func (s *service) SaveRom(ctx context.Context, rom *Rom) error {
	now := time.Now().UTC()
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO roms (md5, edition, size, national, club, custom, data, first_seen_at, last_seen_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (md5) DO UPDATE SET last_seen_at=excluded.last_seen_at`,
		rom.MD5, rom.Edition, rom.Size, rom.Counts[0], rom.Counts[1], rom.Counts[2], rom.Data, now, now)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *service) LoadRom(ctx context.Context, md5 string) (*Rom, error) {
	var r Rom
	err := s.db.QueryRowContext(ctx,
		`SELECT md5, edition, size, national, club, custom, data, first_seen_at, last_seen_at FROM roms WHERE md5=?`, md5).
		Scan(&r.MD5, &r.Edition, &r.Size, &r.Counts[0], &r.Counts[1], &r.Counts[2], &r.Data, &r.FirstSeen, &r.LastSeen)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRomNotFound, md5)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *service) RecordSession(ctx context.Context, id, romMD5 string, expires time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, rom_md5, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		id, romMD5, time.Now().UTC(), expires.UTC())
	return err
}

func (s *service) LoadSession(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, rom_md5, created_at, expires_at FROM sessions WHERE id=?`, id).
		Scan(&sess.ID, &sess.RomMD5, &sess.CreatedAt, &sess.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *service) ExtendSession(ctx context.Context, id string, expires time.Time) error {
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET expires_at=? WHERE id=?`, expires.UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrSessionNotFound, id)
}

func (s *service) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id=?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrSessionNotFound, id)
}

func requireRow(res sql.Result, notFound error, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return nil
}

// Cleanup deletes sessions that expired before now, then the images nobody
// has uploaded within retention and no live session still points at.
// Upload audit rows are kept.
func (s *service) Cleanup(ctx context.Context, now time.Time, retention time.Duration) (Cleaned, error) {
	var c Cleaned
	now = now.UTC()
	cutoff := now.Add(-retention)

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return c, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, now)
	if err != nil {
		return c, err
	}
	if c.Sessions, err = res.RowsAffected(); err != nil {
		return c, err
	}
	res, err = tx.ExecContext(ctx,
		`DELETE FROM roms WHERE last_seen_at < ?
		AND NOT EXISTS (SELECT 1 FROM sessions WHERE sessions.rom_md5 = roms.md5)`, cutoff)
	if err != nil {
		return c, err
	}
	if c.Roms, err = res.RowsAffected(); err != nil {
		return c, err
	}
	return c, tx.Commit()
}

// RunCleanup calls Cleanup every interval until ctx is done.
func RunCleanup(ctx context.Context, s DatabaseService, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c, err := s.Cleanup(ctx, now, retention)
			if err != nil {
				slog.Error("cleanup failed", "err", err)
				continue
			}
			if c.Sessions > 0 || c.Roms > 0 {
				slog.Info("cleanup", "sessions", c.Sessions, "roms", c.Roms)
			}
		}
	}
}

func (s *service) RecordUpload(ctx context.Context, u *Upload) (int64, error) {
	errs, err := json.Marshal(nonNil(u.Errors))
	if err != nil {
		return 0, err
	}
	warns, err := json.Marshal(nonNil(u.Warnings))
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO uploads (session_id, rom_md5, filename, json_content, is_valid, errors, warnings, duration_ms, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.SessionID, u.RomMD5, u.Filename, string(u.JSON), u.Valid, string(errs), string(warns),
		u.Duration.Milliseconds(), time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *service) CountUploads(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM uploads WHERE session_id=?`, sessionID).Scan(&n)
	return n, err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
