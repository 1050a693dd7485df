package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(t *testing.T, req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string       `json:"code"`
		Message string       `json:"message"`
		Details []FieldError `json:"details"`
	} `json:"error"`
	RequestID string `json:"request_id"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestBindQueryCoercesNumbers(t *testing.T) {
	c, _ := testContext(t, httptest.NewRequest(http.MethodGet, "/?page=2&limit=10", nil))

	var p Pagination
	if !BindQuery(c, &p) {
		t.Fatalf("expected bind to succeed")
	}
	if p.Page != 2 || p.Limit != 10 {
		t.Fatalf("got page=%d limit=%d, want 2 and 10", p.Page, p.Limit)
	}
	if p.Offset() != 10 {
		t.Fatalf("offset = %d, want 10", p.Offset())
	}
}

func TestBindQueryDefaults(t *testing.T) {
	c, _ := testContext(t, httptest.NewRequest(http.MethodGet, "/", nil))

	var p Pagination
	if !BindQuery(c, &p) {
		t.Fatalf("expected bind to succeed")
	}
	if p.Page != 1 || p.Limit != 20 || p.SortOrder != "asc" {
		t.Fatalf("defaults not applied: %+v", p)
	}
}

func TestBindQueryRepeatedParseIsStable(t *testing.T) {
	for i := 0; i < 2; i++ {
		c, _ := testContext(t, httptest.NewRequest(http.MethodGet, "/?page=3&limit=5", nil))
		var p Pagination
		if !BindQuery(c, &p) {
			t.Fatalf("iteration %d: expected bind to succeed", i)
		}
		if p.Page != 3 || p.Limit != 5 {
			t.Fatalf("iteration %d: got %+v", i, p)
		}
	}
}

func TestBindQueryCollectsEveryViolation(t *testing.T) {
	c, w := testContext(t, httptest.NewRequest(http.MethodGet, "/?page=0&limit=500&sort_order=sideways", nil))

	var p Pagination
	if BindQuery(c, &p) {
		t.Fatalf("expected bind to fail")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decodeError(t, w)
	if body.Error.Code != "validation_error" {
		t.Fatalf("code = %q, want validation_error", body.Error.Code)
	}
	if len(body.Error.Details) != 3 {
		t.Fatalf("got %d field errors, want 3: %+v", len(body.Error.Details), body.Error.Details)
	}
	seen := map[string]bool{}
	for _, fe := range body.Error.Details {
		seen[fe.Field] = true
	}
	for _, f := range []string{"page", "limit", "sortorder"} {
		if !seen[f] {
			t.Fatalf("missing field error for %q in %+v", f, body.Error.Details)
		}
	}
}

func TestBindQueryNonNumericValue(t *testing.T) {
	c, w := testContext(t, httptest.NewRequest(http.MethodGet, "/?page=abc", nil))

	var p Pagination
	if BindQuery(c, &p) {
		t.Fatalf("expected bind to fail")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestBindJSONMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	c, w := testContext(t, req)

	var dst struct {
		Name string `json:"name" binding:"required"`
	}
	if BindJSON(c, &dst) {
		t.Fatalf("expected bind to fail")
	}
	body := decodeError(t, w)
	if w.Code != http.StatusBadRequest || body.Error.Code != "malformed_body" {
		t.Fatalf("got status %d code %q, want 400 malformed_body", w.Code, body.Error.Code)
	}
}

func TestBindJSONEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/json")
	c, w := testContext(t, req)

	var dst struct {
		Name string `json:"name" binding:"required"`
	}
	if BindJSON(c, &dst) {
		t.Fatalf("expected bind to fail")
	}
	if decodeError(t, w).Error.Code != "malformed_body" {
		t.Fatalf("empty body should be malformed_body")
	}
}

func TestBindJSONWrongFieldType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":"lots"}`))
	req.Header.Set("Content-Type", "application/json")
	c, w := testContext(t, req)

	var dst struct {
		Amount int64 `json:"amount" binding:"required"`
	}
	if BindJSON(c, &dst) {
		t.Fatalf("expected bind to fail")
	}
	body := decodeError(t, w)
	if body.Error.Code != "validation_error" {
		t.Fatalf("code = %q, want validation_error", body.Error.Code)
	}
	if len(body.Error.Details) != 1 || body.Error.Details[0].Field != "amount" {
		t.Fatalf("details = %+v, want one error on amount", body.Error.Details)
	}
}

func TestBindJSONCollectsEveryViolation(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"side":"short"}`))
	req.Header.Set("Content-Type", "application/json")
	c, w := testContext(t, req)

	var dst struct {
		Pair   string `json:"pair" binding:"required"`
		Side   string `json:"side" binding:"required,oneof=buy sell"`
		Amount int64  `json:"amount" binding:"required,gt=0"`
	}
	if BindJSON(c, &dst) {
		t.Fatalf("expected bind to fail")
	}
	body := decodeError(t, w)
	if len(body.Error.Details) != 3 {
		t.Fatalf("got %d field errors, want 3: %+v", len(body.Error.Details), body.Error.Details)
	}
}
