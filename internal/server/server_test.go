package server_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JackWithOneEye/sensiedit/internal/database"
	"github.com/JackWithOneEye/sensiedit/internal/metrics"
	"github.com/JackWithOneEye/sensiedit/internal/rom"
	"github.com/JackWithOneEye/sensiedit/internal/romtest"
	"github.com/JackWithOneEye/sensiedit/internal/server"
	"github.com/JackWithOneEye/sensiedit/internal/team"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

type APITestSuite struct {
	suite.Suite
	server *http.Server
	db     database.DatabaseService
	rom    []byte
}

type testConfig struct {
	dbUrl      string
	liveReload bool
}

func (c *testConfig) DBUrl() string              { return c.dbUrl }
func (c *testConfig) Port() uint                 { return 8080 }
func (c *testConfig) SessionTTL() time.Duration  { return time.Minute }
func (c *testConfig) SessionCapacity() int       { return 8 }
func (c *testConfig) MinRomBytes() int64         { return 1024 }
func (c *testConfig) MaxRomBytes() int64         { return 1 << 20 }
func (c *testConfig) ScanWindow() rom.ScanWindow { return rom.DefaultWindow }
func (c *testConfig) LiveReload() bool           { return c.liveReload }

func (suite *APITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	img, _, err := romtest.DefaultLayout().Build()
	suite.Require().NoError(err)
	suite.rom = img
}

func (suite *APITestSuite) SetupTest() {
	cfg := &testConfig{dbUrl: filepath.Join(suite.T().TempDir(), "test.db")}
	db, err := database.Open(cfg)
	suite.Require().NoError(err)
	suite.db = db
	suite.server = server.NewServer(cfg, db, metrics.NewRecorder())
}

func (suite *APITestSuite) TearDownTest() {
	suite.server.Close()
	suite.db.Close()
}

func (suite *APITestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	suite.server.Handler.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) uploadRom(data []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("rom_file", "sensible.bin")
	suite.Require().NoError(err)
	_, err = fw.Write(data)
	suite.Require().NoError(err)
	suite.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload-rom", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return suite.serve(req)
}

type uploaded struct {
	SessionID string `json:"session_id"`
	RomInfo   struct {
		Size       int            `json:"size"`
		MD5        string         `json:"md5"`
		Edition    string         `json:"edition"`
		TeamsCount map[string]int `json:"teams_count"`
	} `json:"rom_info"`
	TeamsJSON team.Teams `json:"teams_json"`
}

func (suite *APITestSuite) session() uploaded {
	w := suite.uploadRom(suite.rom)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var up uploaded
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &up))
	return up
}

func (suite *APITestSuite) postJSON(path string, payload any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(payload)
	suite.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return suite.serve(req)
}

func (suite *APITestSuite) TestIndex() {
	w := suite.serve(httptest.NewRequest(http.MethodGet, "/", nil))
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Sensible Soccer team editor")
	suite.Contains(w.Body.String(), "1.0 kB")
}

func (suite *APITestSuite) TestEditorScript() {
	w := suite.serve(httptest.NewRequest(http.MethodGet, "/assets/editor.js", nil))
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Header().Get("Content-Type"), "javascript")
	suite.Contains(w.Body.String(), "/api/generate-rom")
}

func (suite *APITestSuite) TestLiveReload() {
	suite.NotContains(suite.serve(httptest.NewRequest(http.MethodGet, "/", nil)).Body.String(), "_livereload")

	cfg := &testConfig{dbUrl: filepath.Join(suite.T().TempDir(), "reload.db"), liveReload: true}
	srv := server.NewServer(cfg, suite.db, nil)
	defer srv.Close()
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Sensible Soccer team editor")
	suite.Contains(w.Body.String(), `"/_livereload"`)
}

func (suite *APITestSuite) TestHealth() {
	suite.Equal(http.StatusOK, suite.serve(httptest.NewRequest(http.MethodGet, "/health/live", nil)).Code)
	w := suite.serve(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"status":"ok"`)
}

func (suite *APITestSuite) TestUploadRom() {
	up := suite.session()
	suite.NotEmpty(up.SessionID)
	suite.Equal(len(suite.rom), up.RomInfo.Size)
	suite.Equal("standard", up.RomInfo.Edition)
	suite.Len(up.RomInfo.MD5, 32)
	suite.Equal(map[string]int{"national": 3, "club": 2, "custom": 2}, up.RomInfo.TeamsCount)
	suite.Equal("ENGLAND", up.TeamsJSON.National[0].Team)
	suite.Equal("O'BRIEN", up.TeamsJSON.Custom[1].Coach)

	stored, err := suite.db.LoadRom(suite.T().Context(), up.RomInfo.MD5)
	suite.Require().NoError(err)
	suite.Equal(suite.rom, stored.Data)

	again := suite.session()
	suite.NotEqual(up.SessionID, again.SessionID, "each upload opens a new session")
}

func (suite *APITestSuite) TestUploadRejects() {
	suite.T().Run("missing file", func(t *testing.T) {
		w := suite.serve(httptest.NewRequest(http.MethodPost, "/api/upload-rom", nil))
		suite.Equal(http.StatusBadRequest, w.Code)
	})
	suite.T().Run("too small", func(t *testing.T) {
		w := suite.uploadRom(make([]byte, 100))
		suite.Equal(http.StatusBadRequest, w.Code)
		suite.Contains(w.Body.String(), "ROM file too small")
	})
	suite.T().Run("too large", func(t *testing.T) {
		w := suite.uploadRom(make([]byte, 2<<20))
		suite.Equal(http.StatusRequestEntityTooLarge, w.Code)
	})
	suite.T().Run("text", func(t *testing.T) {
		w := suite.uploadRom([]byte(strings.Repeat("national club custom\n", 100)))
		suite.Equal(http.StatusUnsupportedMediaType, w.Code)
		suite.Contains(w.Body.String(), "text/plain")
	})
	suite.T().Run("unrecognised image", func(t *testing.T) {
		w := suite.uploadRom(make([]byte, 0x40000))
		suite.Equal(http.StatusBadRequest, w.Code)
		suite.Contains(w.Body.String(), "Failed to decode ROM: no teams found")
	})
}

type validated struct {
	Valid  bool `json:"valid"`
	Errors []struct {
		Path    string `json:"path"`
		Message string `json:"message"`
	} `json:"errors"`
	Warnings []struct {
		Message string `json:"message"`
	} `json:"warnings"`
}

func (suite *APITestSuite) TestValidate() {
	up := suite.session()

	w := suite.postJSON("/api/validate", gin.H{"session_id": up.SessionID, "teams_json": up.TeamsJSON})
	suite.Require().Equal(http.StatusOK, w.Code)
	var ok validated
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &ok))
	suite.True(ok.Valid)
	suite.Empty(ok.Errors)
	suite.Contains(w.Body.String(), `"errors":[]`)

	up.TeamsJSON.National[1].Tactic = team.Named("2-2-6")
	w = suite.postJSON("/api/validate", gin.H{"session_id": up.SessionID, "teams_json": up.TeamsJSON})
	suite.Require().Equal(http.StatusOK, w.Code)
	var bad validated
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &bad))
	suite.False(bad.Valid)
	suite.Require().Len(bad.Errors, 1)
	suite.Equal("national.1.tactic", bad.Errors[0].Path)
	suite.Contains(bad.Errors[0].Message, "tactic must be one of")
}

func (suite *APITestSuite) TestValidateRequestErrors() {
	w := suite.postJSON("/api/validate", gin.H{"teams_json": gin.H{}})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.postJSON("/api/validate", gin.H{"session_id": "5e8b7f6e-0000-4000-8000-000000000000", "teams_json": gin.H{}})
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), "Session not found or expired")
}

func (suite *APITestSuite) TestGenerateRom() {
	up := suite.session()
	up.TeamsJSON.Club[1].Players[0].Name = "ROSSI"

	w := suite.postJSON("/api/generate-rom", gin.H{"session_id": up.SessionID, "teams_json": up.TeamsJSON})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal("application/octet-stream", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "attachment")
	suite.Equal("1", w.Header().Get("X-Teams-Changed"))

	teams, err := rom.Decode(w.Body.Bytes())
	suite.Require().NoError(err)
	suite.Equal("ROSSI", teams.Club[1].Players[0].Name)
	suite.Equal(len(suite.rom), w.Body.Len())
}

func (suite *APITestSuite) TestGenerateRomInvalid() {
	up := suite.session()
	up.TeamsJSON.Custom[0].Players = up.TeamsJSON.Custom[0].Players[:12]

	w := suite.postJSON("/api/generate-rom", gin.H{"session_id": up.SessionID, "teams_json": up.TeamsJSON})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "Validation failed with 1 errors")
	suite.Contains(w.Body.String(), "expected 16 players, got 12")
}

func (suite *APITestSuite) TestUploadJSON() {
	up := suite.session()

	w := suite.postJSON("/api/upload-json", gin.H{"session_id": up.SessionID, "filename": "teams.json", "teams_json": up.TeamsJSON})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res struct {
		UploadID int64 `json:"upload_id"`
		IsValid  bool  `json:"is_valid"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Positive(res.UploadID)
	suite.True(res.IsValid)

	n, err := suite.db.CountUploads(suite.T().Context(), up.SessionID)
	suite.Require().NoError(err)
	suite.Equal(1, n)
}

func (suite *APITestSuite) TestSessionRestoredFromDatabase() {
	up := suite.session()

	// a fresh server has nothing in memory and must reload the image
	cfg := &testConfig{dbUrl: filepath.Join(suite.T().TempDir(), "restart.db")}
	restarted := server.NewServer(cfg, suite.db, nil)
	defer restarted.Close()

	raw, err := json.Marshal(gin.H{"session_id": up.SessionID, "teams_json": up.TeamsJSON})
	suite.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, "/api/validate", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	restarted.Handler.ServeHTTP(w, req)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Contains(w.Body.String(), `"valid":true`)
}

func (suite *APITestSuite) TestSessionExpiredInDatabase() {
	up := suite.session()
	ctx := suite.T().Context()
	stale := "0b1c3a52-0000-4000-8000-000000000001"
	suite.Require().NoError(suite.db.RecordSession(ctx, stale, up.RomInfo.MD5, time.Now().Add(-time.Second)))

	w := suite.postJSON("/api/validate", gin.H{"session_id": stale, "teams_json": up.TeamsJSON})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestDeleteSession() {
	up := suite.session()

	w := suite.serve(httptest.NewRequest(http.MethodDelete, "/api/session/"+up.SessionID, nil))
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.postJSON("/api/validate", gin.H{"session_id": up.SessionID, "teams_json": up.TeamsJSON})
	suite.Equal(http.StatusNotFound, w.Code)
	_, err := suite.db.LoadSession(suite.T().Context(), up.SessionID)
	suite.ErrorIs(err, database.ErrSessionNotFound)

	w = suite.serve(httptest.NewRequest(http.MethodDelete, "/api/session/"+up.SessionID, nil))
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestMetrics() {
	suite.session()
	w := suite.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `ss_sessions_created_total{edition="standard"} 1`)
	suite.Contains(w.Body.String(), `ss_requests_total{endpoint="/api/upload-rom",method="POST",status="200"} 1`)
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
