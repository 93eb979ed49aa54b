package server

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"time"

	"github.com/JackWithOneEye/sensiedit/internal/database"
	"github.com/JackWithOneEye/sensiedit/internal/rom"
	"github.com/JackWithOneEye/sensiedit/internal/team"
	"github.com/google/uuid"
)

// decodedRom is the shared, read-only result of decoding one image.
type decodedRom struct {
	md5    string
	data   []byte
	layout *rom.Layout
	teams  *team.Teams
}

type session struct {
	id      string
	rom     *decodedRom
	created time.Time
}

func digest(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// decode returns the decoded image for data, sharing work between
// concurrent uploads of the same file.
func (s *server) decode(data []byte) (*decodedRom, error) {
	sum := digest(data)
	if d, ok := s.decoded.Get(sum); ok {
		return d, nil
	}
	v, err, _ := s.decodes.Do(sum, func() (any, error) {
		layout, err := s.window.Inspect(data)
		if err != nil {
			return nil, err
		}
		teams, err := layout.Decode(data)
		if err != nil {
			return nil, err
		}
		d := &decodedRom{md5: sum, data: data, layout: layout, teams: teams}
		s.decoded.Add(sum, d)
		s.metrics.SetUniqueRoms(s.decoded.Len())
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*decodedRom), nil
}

func (s *server) newSession(d *decodedRom) *session {
	sess := &session{id: uuid.NewString(), rom: d, created: time.Now()}
	s.sessions.Add(sess.id, sess)
	s.metrics.SetActiveSessions(s.sessions.Len())
	return sess
}

// lookupSession also extends the session's life. Sessions that have
// fallen out of memory are restored from the database while their stored
// expiry has not passed.
func (s *server) lookupSession(ctx context.Context, id string) (*session, bool) {
	if sess, ok := s.sessions.Get(id); ok {
		s.sessions.Add(id, sess)
		s.extendSession(ctx, id)
		return sess, true
	}
	if id == "" {
		return nil, false
	}

	stored, err := s.db.LoadSession(ctx, id)
	if err != nil {
		if !errors.Is(err, database.ErrSessionNotFound) {
			s.log.Error("could not load session", "session", id, "err", err)
		}
		return nil, false
	}
	if !time.Now().Before(stored.ExpiresAt) {
		return nil, false
	}
	romRow, err := s.db.LoadRom(ctx, stored.RomMD5)
	if err != nil {
		s.log.Warn("session rom unavailable", "session", id, "md5", stored.RomMD5, "err", err)
		return nil, false
	}
	d, err := s.decode(romRow.Data)
	if err != nil {
		s.log.Error("stored rom no longer decodes", "session", id, "md5", stored.RomMD5, "err", err)
		return nil, false
	}

	sess := &session{id: id, rom: d, created: stored.CreatedAt}
	s.sessions.Add(id, sess)
	s.metrics.SetActiveSessions(s.sessions.Len())
	s.extendSession(ctx, id)
	s.log.Info("session restored", "session", id, "md5", d.md5)
	return sess, true
}

func (s *server) extendSession(ctx context.Context, id string) {
	if err := s.db.ExtendSession(ctx, id, time.Now().Add(s.cfg.SessionTTL())); err != nil {
		s.log.Warn("could not extend session", "session", id, "err", err)
	}
}

// dropSession ends a session in memory and in the database.
func (s *server) dropSession(ctx context.Context, id string) (bool, error) {
	inMemory := s.sessions.Remove(id)
	s.metrics.SetActiveSessions(s.sessions.Len())
	err := s.db.DeleteSession(ctx, id)
	if errors.Is(err, database.ErrSessionNotFound) {
		return inMemory, nil
	}
	if err != nil {
		return inMemory, err
	}
	return true, nil
}
