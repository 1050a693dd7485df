package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finbase/internal/auth"
	"finbase/internal/http/handlers"
	"finbase/internal/http/middleware"
	"finbase/internal/repositories"
	"finbase/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testVerifier = auth.TokenVerifier{Secret: []byte("router-test-secret")}

func newTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := repositories.UserRepository{DB: db}
	projects := repositories.ProjectRepository{DB: db}
	access := services.Access{Projects: projects}
	log := zerolog.Nop()

	r := NewRouter(Deps{
		Gate: middleware.Gate{
			Verifier: testVerifier,
			Resolver: auth.Resolver{Users: users},
		},
		Log:      log,
		Registry: prometheus.NewRegistry(),
		System:   handlers.SystemHandler{DB: db},
		Projects: handlers.ProjectHandler{
			Service: services.ProjectService{Projects: projects, Access: access},
			Log:     log,
		},
	})
	return r, mock, db
}

func bearerFor(t *testing.T, userID int64, role string) string {
	t.Helper()
	token, err := testVerifier.Issue(userID, role, 0, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func expectUserRow(mock sqlmock.Sqlmock, id int64, role, status string) {
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role", "status", "created_at", "updated_at"}).
			AddRow(id, "Tester", "tester@example.com", role, status, now, now))
}

type apiError struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
	RequestID string `json:"request_id"`
}

func doRequest(r *gin.Engine, method, path, authHeader, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) apiError {
	t.Helper()
	var out apiError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/health", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestUnknownRoute(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/nope", "", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decodeAPIError(t, w).Error.Code)
}

func TestProjectsWithoutCredentials(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/projects", "", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeAPIError(t, w)
	assert.Equal(t, "unauthorized", body.Error.Code)
	assert.Equal(t, "missing credentials", body.Error.Message)
	assert.NotEmpty(t, body.RequestID)
	// no expectations set: any query would have failed the mock
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectsWithGarbageToken(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/projects", "Bearer not.a.token", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", decodeAPIError(t, w).Error.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectsList(t *testing.T) {
	r, mock, _ := newTestRouter(t)
	now := time.Now()

	expectUserRow(mock, 4, "user", "active")
	mock.ExpectQuery("SELECT (.+) FROM projects").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "status", "owner_id", "created_at", "updated_at"}).
			AddRow(1, "Acme", "acme", "active", 4, now, now))
	mock.ExpectQuery("SELECT COUNT(.+) FROM projects").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	w := doRequest(r, http.MethodGet, "/api/v1/projects", bearerFor(t, 4, "user"), "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"slug":"acme"`)
	assert.Contains(t, w.Body.String(), `"total":1`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProjectRejectsBadSlug(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	expectUserRow(mock, 4, "user", "active")

	w := doRequest(r, http.MethodPost, "/api/v1/projects",
		bearerFor(t, 4, "user"), `{"name":"Acme","slug":"ACME!"}`)

	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	body := decodeAPIError(t, w)
	assert.Equal(t, "validation_error", body.Error.Code)
	require.Len(t, body.Error.Details, 1)
	assert.Equal(t, "slug", body.Error.Details[0].Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminProjectsForbiddenForUsers(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	expectUserRow(mock, 4, "user", "active")

	w := doRequest(r, http.MethodGet, "/api/v1/admin/projects", bearerFor(t, 4, "user"), "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", decodeAPIError(t, w).Error.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminProjectsAllowsAdmins(t *testing.T) {
	r, mock, _ := newTestRouter(t)
	now := time.Now()

	expectUserRow(mock, 1, "admin", "active")
	mock.ExpectQuery("SELECT (.+) FROM projects").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "status", "owner_id", "created_at", "updated_at"}).
			AddRow(1, "Acme", "acme", "active", 4, now, now))
	mock.ExpectQuery("SELECT COUNT(.+) FROM projects").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	w := doRequest(r, http.MethodGet, "/api/v1/admin/projects", bearerFor(t, 1, "admin"), "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInactiveUserRejected(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	expectUserRow(mock, 4, "user", "inactive")

	w := doRequest(r, http.MethodGet, "/api/v1/projects", bearerFor(t, 4, "user"), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", decodeAPIError(t, w).Error.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminClaimInTokenDoesNotGrantAdmin(t *testing.T) {
	r, mock, _ := newTestRouter(t)

	// token says admin, record says user; the record wins
	expectUserRow(mock, 4, "user", "active")

	w := doRequest(r, http.MethodGet, "/api/v1/admin/projects", bearerFor(t, 4, "admin"), "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
