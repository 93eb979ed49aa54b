package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/JackWithOneEye/sensiedit/internal/database"
	"github.com/JackWithOneEye/sensiedit/internal/rom"
	"github.com/JackWithOneEye/sensiedit/internal/team"
	"github.com/JackWithOneEye/sensiedit/internal/validate"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

type romInfo struct {
	Size       int            `json:"size"`
	MD5        string         `json:"md5"`
	Edition    rom.Edition    `json:"edition"`
	TeamsCount map[string]int `json:"teams_count"`
}

type uploadResponse struct {
	SessionID string      `json:"session_id"`
	RomInfo   romInfo     `json:"rom_info"`
	TeamsJSON *team.Teams `json:"teams_json"`
}

type teamsRequest struct {
	SessionID string          `json:"session_id" binding:"required"`
	TeamsJSON json.RawMessage `json:"teams_json" binding:"required"`
}

type uploadJSONRequest struct {
	teamsRequest
	Filename string `json:"filename" binding:"max=255"`
}

type validateResponse struct {
	Valid    bool             `json:"valid"`
	Errors   []validate.Issue `json:"errors"`
	Warnings []validate.Issue `json:"warnings"`
}

func detail(c *gin.Context, code int, format string, args ...any) {
	c.JSON(code, gin.H{"detail": fmt.Sprintf(format, args...)})
}

var rejectedMIME = []string{
	"application/zip",
	"application/gzip",
	"application/x-7z-compressed",
	"application/x-rar-compressed",
	"application/x-tar",
	"application/pdf",
}

// notARom reports whether data was sniffed as a known non-rom format.
// Cartridge dumps have no signature and sniff as plain octet streams.
func notARom(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		s := m.String()
		if strings.HasPrefix(s, "text/") || strings.HasPrefix(s, "image/") || slices.Contains(rejectedMIME, s) {
			return true
		}
	}
	return false
}

func (s *server) uploadRomHandler(c *gin.Context) {
	fh, err := c.FormFile("rom_file")
	if err != nil {
		detail(c, http.StatusBadRequest, "rom_file is required")
		return
	}
	if fh.Size < s.cfg.MinRomBytes() {
		detail(c, http.StatusBadRequest, "ROM file too small")
		return
	}
	if fh.Size > s.cfg.MaxRomBytes() {
		detail(c, http.StatusRequestEntityTooLarge, "ROM file too large")
		return
	}
	f, err := fh.Open()
	if err != nil {
		detail(c, http.StatusBadRequest, "could not read rom_file: %s", err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxRomBytes()))
	if err != nil {
		detail(c, http.StatusBadRequest, "could not read rom_file: %s", err)
		return
	}
	if mt := mimetype.Detect(data); notARom(mt) {
		detail(c, http.StatusUnsupportedMediaType, "%s is not a ROM image (%s)", fh.Filename, mt.String())
		return
	}

	d, err := s.decode(data)
	if err != nil {
		s.log.Warn("rom decode failed", "filename", fh.Filename, "size", len(data), "err", err)
		detail(c, http.StatusBadRequest, "Failed to decode ROM: %s", err)
		return
	}

	edition := d.layout.Edition()
	counts := d.layout.Counts()
	err = s.db.SaveRom(c, &database.Rom{
		MD5: d.md5, Edition: string(edition), Size: len(data), Counts: counts, Data: data,
	})
	if err != nil {
		s.log.Error("could not store rom", "md5", d.md5, "err", err)
		detail(c, http.StatusInternalServerError, "could not store rom")
		return
	}

	sess := s.newSession(d)
	if err := s.db.RecordSession(c, sess.id, d.md5, sess.created.Add(s.cfg.SessionTTL())); err != nil {
		s.log.Error("could not record session", "session", sess.id, "err", err)
	}
	s.metrics.SessionCreated(string(edition))
	s.log.Info("rom uploaded", "session", sess.id, "md5", d.md5, "edition", edition, "teams", d.layout.TeamCount())

	teamsCount := make(map[string]int, len(team.Categories))
	for _, cat := range team.Categories {
		teamsCount[cat.String()] = counts[cat]
	}
	c.JSON(http.StatusOK, uploadResponse{
		SessionID: sess.id,
		RomInfo:   romInfo{Size: len(data), MD5: d.md5, Edition: edition, TeamsCount: teamsCount},
		TeamsJSON: d.teams,
	})
}

// bindSession binds req and resolves its session, writing the error
// response itself when either fails.
func (s *server) bindSession(c *gin.Context, req any, id func() string) (*session, bool) {
	if err := c.ShouldBindJSON(req); err != nil {
		detail(c, http.StatusBadRequest, "invalid request: %s", err)
		return nil, false
	}
	sess, ok := s.lookupSession(c, id())
	if !ok {
		detail(c, http.StatusNotFound, "Session not found or expired")
		return nil, false
	}
	return sess, true
}

func (s *server) deleteSessionHandler(c *gin.Context) {
	id := c.Param("id")
	found, err := s.dropSession(c, id)
	if err != nil {
		s.log.Error("could not delete session", "session", id, "err", err)
		detail(c, http.StatusInternalServerError, "could not delete session")
		return
	}
	if !found {
		detail(c, http.StatusNotFound, "Session not found or expired")
		return
	}
	s.log.Info("session ended", "session", id)
	c.Status(http.StatusNoContent)
}

func (s *server) validate(sess *session, raw []byte) validate.Result {
	start := time.Now()
	res := validate.Validator{Window: s.window}.Teams(sess.rom.data, raw)
	s.metrics.Validation(time.Since(start), res.Valid())
	return res
}

func issues(in []validate.Issue) []validate.Issue {
	if in == nil {
		return []validate.Issue{}
	}
	return in
}

func (s *server) validateHandler(c *gin.Context) {
	var req teamsRequest
	sess, ok := s.bindSession(c, &req, func() string { return req.SessionID })
	if !ok {
		return
	}
	res := s.validate(sess, req.TeamsJSON)
	c.JSON(http.StatusOK, validateResponse{Valid: res.Valid(), Errors: issues(res.Errors), Warnings: issues(res.Warnings)})
}

func (s *server) generateRomHandler(c *gin.Context) {
	var req teamsRequest
	sess, ok := s.bindSession(c, &req, func() string { return req.SessionID })
	if !ok {
		return
	}
	res := s.validate(sess, req.TeamsJSON)
	if !res.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail":   fmt.Sprintf("Validation failed with %d errors", len(res.Errors)),
			"errors":   issues(res.Errors),
			"warnings": issues(res.Warnings),
		})
		return
	}

	var teams team.Teams
	if err := json.Unmarshal(req.TeamsJSON, &teams); err != nil {
		detail(c, http.StatusBadRequest, "invalid teams_json: %s", err)
		return
	}
	out, rep, err := s.window.Patch(sess.rom.data, &teams)
	var overflow *rom.OverflowError
	switch {
	case errors.As(err, &overflow):
		s.metrics.Overflow()
		detail(c, http.StatusBadRequest, "%s", err)
		return
	case err != nil:
		s.log.Error("rom generation failed", "session", sess.id, "err", err)
		detail(c, http.StatusInternalServerError, "Failed to generate ROM: %s", err)
		return
	}

	s.log.Info("rom generated", "session", sess.id, "md5", sess.rom.md5, "changed", rep.Changed(), "used", rep.Used, "available", rep.Available)
	c.Header("Content-Disposition", "attachment; filename=modified_rom.bin")
	c.Header("X-Teams-Changed", strconv.Itoa(rep.Changed()))
	c.Data(http.StatusOK, "application/octet-stream", out)
}

func (s *server) uploadJSONHandler(c *gin.Context) {
	var req uploadJSONRequest
	sess, ok := s.bindSession(c, &req, func() string { return req.SessionID })
	if !ok {
		return
	}
	start := time.Now()
	res := s.validate(sess, req.TeamsJSON)
	id, err := s.db.RecordUpload(c, &database.Upload{
		SessionID: sess.id,
		RomMD5:    sess.rom.md5,
		Filename:  req.Filename,
		JSON:      req.TeamsJSON,
		Valid:     res.Valid(),
		Errors:    res.ErrorMessages(),
		Warnings:  res.WarningMessages(),
		Duration:  time.Since(start),
	})
	if err != nil {
		s.log.Error("could not record upload", "session", sess.id, "err", err)
		detail(c, http.StatusInternalServerError, "could not record upload")
		return
	}
	s.metrics.Upload(string(sess.rom.layout.Edition()))
	c.JSON(http.StatusOK, gin.H{
		"upload_id":      id,
		"is_valid":       res.Valid(),
		"errors_count":   len(res.Errors),
		"warnings_count": len(res.Warnings),
	})
}
