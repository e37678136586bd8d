package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SindhuAbhirami/civic-watch/config"
	"github.com/SindhuAbhirami/civic-watch/models"
	"github.com/SindhuAbhirami/civic-watch/services"
	"github.com/SindhuAbhirami/civic-watch/storage"
	"github.com/SindhuAbhirami/civic-watch/store"
	authUtils "github.com/SindhuAbhirami/civic-watch/utils"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type server struct {
	t       *testing.T
	r       *gin.Engine
	uploads string
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	uploads := t.TempDir()
	settings := config.Settings{UploadsDir: uploads, TokenTTL: time.Hour, CORSOrigins: []string{"*"}}
	photos, err := storage.NewPhotos(uploads, "uploads")
	require.NoError(t, err)

	records := store.NewMemory()
	return &server{t: t, uploads: uploads, r: NewRouter(Deps{
		Settings:  settings,
		Identity:  services.NewIdentity(records, nil),
		Engine:    services.NewIssueEngine(records),
		Projector: services.NewProjector(records),
		Photos:    photos,
	})}
}

func (s *server) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	return w
}

func (s *server) sendJSON(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, token)
}

func (s *server) form(path, token string, fields map[string]string, photo []byte) *httptest.ResponseRecorder {
	return s.upload(path, token, fields, "issue-photo", photo)
}

func (s *server) upload(path, token string, fields map[string]string, fileField string, photo []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(s.t, w.WriteField(k, v))
	}
	if photo != nil {
		part, err := w.CreateFormFile(fileField, "me.png")
		require.NoError(s.t, err)
		_, err = part.Write(photo)
		require.NoError(s.t, err)
	}
	require.NoError(s.t, w.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return s.do(req, token)
}

func (s *server) storedPhotos() []string {
	entries, err := os.ReadDir(s.uploads)
	require.NoError(s.t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *server) register(role, phone string) {
	body := map[string]any{"role": role, "phone": phone, "password": "secret123", "fullname": "User " + phone, "age": 30}
	if role == "citizen" {
		body["address"] = "7 Temple Street"
	} else {
		body["department"] = "Roads"
	}
	w := s.sendJSON(http.MethodPost, "/api/auth/register", "", body)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
}

func (s *server) login(phone, password string) (string, int64) {
	w := s.sendJSON(http.MethodPost, "/api/auth/login", "", map[string]string{"username": phone, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	out := decode[struct {
		Token string `json:"token"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}](s.t, w)
	return out.Token, out.User.ID
}

type issueBody struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	StatusColor string  `json:"statusColor"`
	HandlerID   *int64  `json:"handlerId"`
	Photo       *string `json:"photo"`
}

func TestRouter_Ping(t *testing.T) {
	s := newServer(t)
	w := s.do(httptest.NewRequest(http.MethodGet, "/ping", nil), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_AuthFlow(t *testing.T) {
	s := newServer(t)
	s.register("citizen", "9000000001")

	dup := s.sendJSON(http.MethodPost, "/api/auth/register", "", map[string]any{
		"role": "citizen", "phone": "9000000001", "password": "secret123", "fullname": "Again", "address": "x",
	})
	assert.Equal(t, http.StatusBadRequest, dup.Code)

	bad := s.sendJSON(http.MethodPost, "/api/auth/register", "", map[string]any{"role": "citizen", "phone": "9000000009"})
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Contains(t, bad.Body.String(), "password")

	wrong := s.sendJSON(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "9000000001", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)

	token, id := s.login("9000000001", "secret123")

	me := s.sendJSON(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, me.Code)
	assert.NotContains(t, me.Body.String(), "password")
	assert.Contains(t, me.Body.String(), "7 Temple Street")

	upd := s.sendJSON(http.MethodPut, "/api/users/me", token, map[string]any{"fullname": "Meera", "age": 31, "address": "9 New Colony"})
	assert.Equal(t, http.StatusOK, upd.Code, upd.Body.String())

	profile := s.sendJSON(http.MethodGet, fmt.Sprintf("/api/users/citizen/%d", id), token, nil)
	require.Equal(t, http.StatusOK, profile.Code)
	assert.Contains(t, profile.Body.String(), "9 New Colony")

	missing := s.sendJSON(http.MethodGet, fmt.Sprintf("/api/users/official/%d", id), token, nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)

	badPw := s.sendJSON(http.MethodPut, "/api/users/me/password", token, map[string]string{"currentPassword": "nope", "newPassword": "another1"})
	assert.Equal(t, http.StatusUnauthorized, badPw.Code)

	okPw := s.sendJSON(http.MethodPut, "/api/users/me/password", token, map[string]string{"currentPassword": "secret123", "newPassword": "another1"})
	assert.Equal(t, http.StatusOK, okPw.Code, okPw.Body.String())
	s.login("9000000001", "another1")

	out := s.sendJSON(http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, out.Code)
}

func TestRouter_IssueLifecycle(t *testing.T) {
	s := newServer(t)
	s.register("citizen", "9000000001")
	s.register("official", "9000000002")
	citizen, citizenID := s.login("9000000001", "secret123")
	official, officialID := s.login("9000000002", "secret123")

	assert.Equal(t, http.StatusUnauthorized,
		s.form("/api/issues", "", map[string]string{"issue-type": "pothole"}, nil).Code)
	assert.Equal(t, http.StatusForbidden,
		s.form("/api/issues", official, map[string]string{"issue-type": "pothole"}, nil).Code)
	assert.Equal(t, http.StatusBadRequest,
		s.form("/api/issues", citizen, map[string]string{"issue-type": "pothole", "lat": "north"}, nil).Code)

	w := s.form("/api/issues", citizen, map[string]string{"issue-type": "garbage-dump", "lat": "12.97", "lng": "77.59"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[issueBody](t, w)
	assert.Equal(t, "garbage dump", first.Name)
	assert.Equal(t, "No description", first.Description)
	assert.Equal(t, "Reported, Pending Confirmation", first.Status)
	assert.Equal(t, "red", first.StatusColor)
	assert.Nil(t, first.HandlerID)

	w = s.form("/api/issues", citizen, map[string]string{"issue-type": "other", "issue-description": "Tree blocking road"}, pngHeader)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	second := decode[issueBody](t, w)
	assert.Equal(t, "Other Issue", second.Name)
	require.NotNil(t, second.Photo)
	assert.True(t, strings.HasPrefix(*second.Photo, "uploads/"))
	assert.Equal(t, http.StatusOK, s.do(httptest.NewRequest(http.MethodGet, "/"+*second.Photo, nil), "").Code)

	feed := decode[[]issueBody](t, s.sendJSON(http.MethodGet, "/api/issues", "", nil))
	require.Len(t, feed, 2)
	assert.Equal(t, second.ID, feed[0].ID)

	mine := decode[[]issueBody](t, s.sendJSON(http.MethodGet, "/api/issues/mine", citizen, nil))
	assert.Len(t, mine, 2)

	assert.Equal(t, http.StatusForbidden, s.sendJSON(http.MethodPost, fmt.Sprintf("/api/issues/%d/accept", first.ID), citizen, nil).Code)
	assert.Equal(t, http.StatusConflict, s.sendJSON(http.MethodPost, fmt.Sprintf("/api/issues/%d/fix", first.ID), official, nil).Code)

	w = s.sendJSON(http.MethodPost, fmt.Sprintf("/api/issues/%d/accept", first.ID), official, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	accepted := decode[struct {
		Issue issueBody `json:"issue"`
	}](t, w).Issue
	assert.Equal(t, "yellow", accepted.StatusColor)
	require.NotNil(t, accepted.HandlerID)
	assert.Equal(t, officialID, *accepted.HandlerID)

	queue := decode[[]struct {
		ID       int64 `json:"id"`
		Reporter struct {
			Fullname string `json:"fullname"`
		} `json:"reporter"`
		Handler *struct {
			Department string `json:"department"`
		} `json:"handler"`
	}](t, s.sendJSON(http.MethodGet, "/api/issues/queue", official, nil))
	require.Len(t, queue, 2)
	assert.Equal(t, "User 9000000001", queue[1].Reporter.Fullname)
	require.NotNil(t, queue[1].Handler)
	assert.Equal(t, "Roads", queue[1].Handler.Department)
	assert.Nil(t, queue[0].Handler)

	w = s.sendJSON(http.MethodPost, fmt.Sprintf("/api/issues/%d/fix", first.ID), official, nil)
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[issueBody](t, s.sendJSON(http.MethodGet, fmt.Sprintf("/api/issues/%d", first.ID), "", nil))
	assert.Equal(t, "Resolved", got.Status)
	assert.Equal(t, "green", got.StatusColor)

	handled := decode[[]struct {
		ID           int64  `json:"id"`
		ReporterName string `json:"reporterName"`
	}](t, s.sendJSON(http.MethodGet, "/api/issues/handled", official, nil))
	require.Len(t, handled, 1)
	assert.Equal(t, first.ID, handled[0].ID)
	assert.Equal(t, "User 9000000001", handled[0].ReporterName)

	assert.Equal(t, http.StatusBadRequest, s.sendJSON(http.MethodGet, "/api/issues/abc", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.sendJSON(http.MethodGet, "/api/issues/999", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.sendJSON(http.MethodPost, "/api/issues/999/accept", official, nil).Code)
	assert.NotZero(t, citizenID)
}

func TestRouter_FailedRequestsLeaveNoPhotos(t *testing.T) {
	s := newServer(t)
	fields := map[string]string{
		"role": "citizen", "phone": "9000000001", "password": "secret123",
		"fullname": "Meera Nair", "age": "29", "address": "7 Temple Street",
	}

	w := s.upload("/api/auth/register", "", fields, "photo", pngHeader)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	kept := s.storedPhotos()
	require.Len(t, kept, 1)

	w = s.upload("/api/auth/register", "", fields, "photo", pngHeader)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, kept, s.storedPhotos())

	fields["phone"] = "9000000002"
	fields["password"] = "abc"
	w = s.upload("/api/auth/register", "", fields, "photo", pngHeader)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, kept, s.storedPhotos())

	ghost, err := authUtils.GenerateToken(models.Summary{ID: 424242, Role: models.RoleCitizen, Username: "9000000099"}, time.Hour)
	require.NoError(t, err)
	w = s.form("/api/issues", ghost, map[string]string{"issue-type": "pothole"}, pngHeader)
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	assert.Equal(t, kept, s.storedPhotos())
}
