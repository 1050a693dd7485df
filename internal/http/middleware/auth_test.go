package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finbase/internal/auth"
	"finbase/internal/domain/models"

	"github.com/gin-gonic/gin"
)

type countingStore struct {
	user  *models.User
	calls int
}

func (s *countingStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	s.calls++
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, nil
}

func newTestGate(store *countingStore) Gate {
	return Gate{
		Verifier: auth.TokenVerifier{Secret: []byte("test-secret")},
		Resolver: auth.Resolver{Users: store},
	}
}

func doRequest(t *testing.T, handler gin.HandlerFunc, guard gin.HandlerFunc, header string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", guard, handler)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func okHandler(c *gin.Context) {
	p, _ := CurrentPrincipal(c)
	c.JSON(http.StatusOK, gin.H{"user_id": p.UserID, "role": p.Role})
}

func issueToken(t *testing.T, userID int64, role string, projectID int64) string {
	t.Helper()
	v := auth.TokenVerifier{Secret: []byte("test-secret")}
	tok, err := v.Issue(userID, role, projectID, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + tok
}

func TestRequireAuthMissingHeader(t *testing.T) {
	store := &countingStore{}
	gate := newTestGate(store)

	w := doRequest(t, okHandler, gate.RequireAuth(), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Success || body.Error.Code != "unauthorized" {
		t.Fatalf("unexpected envelope: %s", w.Body.String())
	}
	if store.calls != 0 {
		t.Fatalf("user lookup ran %d times before header check", store.calls)
	}
}

func TestRequireAuthMalformedHeaderSkipsLookup(t *testing.T) {
	store := &countingStore{}
	gate := newTestGate(store)

	for _, header := range []string{"Basic abc", "Bearer", "bearer tok", "token abc"} {
		w := doRequest(t, okHandler, gate.RequireAuth(), header)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status %d, want 401", header, w.Code)
		}
	}
	if store.calls != 0 {
		t.Fatalf("user lookup must not run for malformed headers, ran %d times", store.calls)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	store := &countingStore{}
	gate := newTestGate(store)

	w := doRequest(t, okHandler, gate.RequireAuth(), "Bearer not.a.token")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
	if store.calls != 0 {
		t.Fatalf("user lookup must not run for invalid tokens, ran %d times", store.calls)
	}
}

func TestRequireAuthSuccess(t *testing.T) {
	store := &countingStore{user: &models.User{ID: 42, Role: models.RoleUser, Status: models.StatusActive}}
	gate := newTestGate(store)

	w := doRequest(t, okHandler, gate.RequireAuth(), issueToken(t, 42, models.RoleUser, 7))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", w.Code, w.Body.String())
	}
	if store.calls != 1 {
		t.Fatalf("expected exactly one user lookup, got %d", store.calls)
	}
}

func TestRequireAuthInactiveUser(t *testing.T) {
	store := &countingStore{user: &models.User{ID: 42, Role: models.RoleUser, Status: models.StatusInactive}}
	gate := newTestGate(store)

	w := doRequest(t, okHandler, gate.RequireAuth(), issueToken(t, 42, models.RoleUser, 0))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	store := &countingStore{user: &models.User{ID: 42, Role: models.RoleUser, Status: models.StatusActive}}
	gate := newTestGate(store)

	w := doRequest(t, okHandler, gate.RequireAdmin(), issueToken(t, 42, models.RoleUser, 0))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", w.Code)
	}
	// The refusal happens after identity is established.
	if store.calls != 1 {
		t.Fatalf("expected one user lookup before role check, got %d", store.calls)
	}
}

func TestRequireAdminTrustsRecordNotToken(t *testing.T) {
	// Token claims admin but the persisted record says user.
	store := &countingStore{user: &models.User{ID: 42, Role: models.RoleUser, Status: models.StatusActive}}
	gate := newTestGate(store)

	w := doRequest(t, okHandler, gate.RequireAdmin(), issueToken(t, 42, models.RoleAdmin, 0))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", w.Code)
	}
}

func TestRequireAdminSuccess(t *testing.T) {
	store := &countingStore{user: &models.User{ID: 1, Role: models.RoleAdmin, Status: models.StatusActive}}
	gate := newTestGate(store)

	w := doRequest(t, okHandler, gate.RequireAdmin(), issueToken(t, 1, models.RoleAdmin, 0))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}
}

func TestOptionalAuthNeverAborts(t *testing.T) {
	anonymous := func(c *gin.Context) {
		if _, ok := CurrentPrincipal(c); ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"anonymous": true})
	}

	inactive := &countingStore{user: &models.User{ID: 42, Role: models.RoleUser, Status: models.StatusInactive}}
	gate := newTestGate(inactive)

	for _, header := range []string{"", "Bearer not.a.token", issueToken(t, 42, models.RoleUser, 0)} {
		w := doRequest(t, anonymous, gate.OptionalAuth(), header)
		if w.Code != http.StatusOK {
			t.Fatalf("header %q: status %d, want 200", header, w.Code)
		}
		var body map[string]bool
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !body["anonymous"] {
			t.Fatalf("header %q should resolve to anonymous", header)
		}
	}
}

func TestOptionalAuthResolvesPrincipal(t *testing.T) {
	store := &countingStore{user: &models.User{ID: 42, Role: models.RoleUser, Status: models.StatusActive}}
	gate := newTestGate(store)

	w := doRequest(t, okHandler, gate.OptionalAuth(), issueToken(t, 42, models.RoleUser, 0))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}
	var body struct {
		UserID int64 `json:"user_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.UserID != 42 {
		t.Fatalf("principal user_id %d, want 42", body.UserID)
	}
}
