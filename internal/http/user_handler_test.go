package http

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestListUsers_NewestFirst(t *testing.T) {
	users := newMockUserRepo()
	r, tokens := setupRouter(users, newMockSessionRepo())
	first := seedUser(t, users, "First User", "first@example.com", "password123")
	second := seedUser(t, users, "Second User", "second@example.com", "password123")
	token := issueToken(t, tokens, first.ID)

	rec := performRequest(r, http.MethodGet, "/api/users", nil, withBearer(token))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 users, got %d", len(list))
	}
	if list[0]["id"] != float64(second.ID) || list[1]["id"] != float64(first.ID) {
		t.Fatalf("expected newest first, got %v", list)
	}
	for _, u := range list {
		if _, leaked := u["password"]; leaked {
			t.Fatalf("list leaks password: %v", u)
		}
	}
}

func TestCreateUser_Success(t *testing.T) {
	users := newMockUserRepo()
	r, tokens := setupRouter(users, newMockSessionRepo())
	seeded := seedUser(t, users, "Admin", "admin@example.com", "password123")
	token := issueToken(t, tokens, seeded.ID)

	rec := performRequest(r, http.MethodPost, "/api/users", map[string]string{
		"name":  "New User",
		"email": "New@Example.com",
	}, withBearer(token))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["name"] != "New User" || body["email"] != "new@example.com" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestCreateUser_InvalidInput(t *testing.T) {
	users := newMockUserRepo()
	r, tokens := setupRouter(users, newMockSessionRepo())
	seeded := seedUser(t, users, "Admin", "admin@example.com", "password123")

	rec := performRequest(r, http.MethodPost, "/api/users", map[string]string{
		"name": "Missing Email",
	}, withBearer(issueToken(t, tokens, seeded.ID)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	users := newMockUserRepo()
	r, tokens := setupRouter(users, newMockSessionRepo())
	seeded := seedUser(t, users, "Admin", "admin@example.com", "password123")

	rec := performRequest(r, http.MethodGet, "/api/users/999", nil, withBearer(issueToken(t, tokens, seeded.ID)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "User not found" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestGetUser_MalformedID(t *testing.T) {
	users := newMockUserRepo()
	r, tokens := setupRouter(users, newMockSessionRepo())
	seeded := seedUser(t, users, "Admin", "admin@example.com", "password123")

	rec := performRequest(r, http.MethodGet, "/api/users/not-a-number", nil, withBearer(issueToken(t, tokens, seeded.ID)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetUser_Success(t *testing.T) {
	users := newMockUserRepo()
	r, tokens := setupRouter(users, newMockSessionRepo())
	seeded := seedUser(t, users, "Jane Smith", "jane@example.com", "password123")

	rec := performRequest(r, http.MethodGet, "/api/users/1", nil, withBearer(issueToken(t, tokens, seeded.ID)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["email"] != "jane@example.com" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestUpdateUser_ValidationDetails(t *testing.T) {
	users := newMockUserRepo()
	r, tokens := setupRouter(users, newMockSessionRepo())
	seeded := seedUser(t, users, "Jane Smith", "jane@example.com", "password123")

	rec := performRequest(r, http.MethodPut, "/api/users/1", map[string]string{
		"name":  "123",
		"email": "invalid-email",
	}, withBearer(issueToken(t, tokens, seeded.ID)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	details, ok := body["details"].([]any)
	if !ok || len(details) != 2 {
		t.Fatalf("expected details for both fields, got %v", body)
	}
	fields := map[string]bool{}
	for _, d := range details {
		issue := d.(map[string]any)
		fields[issue["field"].(string)] = true
		if issue["message"] == "" {
			t.Fatalf("expected message per issue: %v", issue)
		}
	}
	if !fields["Name"] || !fields["Email"] {
		t.Fatalf("expected Name and Email issues, got %v", fields)
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	users := newMockUserRepo()
	r, tokens := setupRouter(users, newMockSessionRepo())
	seeded := seedUser(t, users, "Jane Smith", "jane@example.com", "password123")

	rec := performRequest(r, http.MethodPut, "/api/users/999", map[string]string{
		"name":  "Jane Doe",
		"email": "jane.doe@example.com",
	}, withBearer(issueToken(t, tokens, seeded.ID)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "User not found" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestUpdateUser_Success(t *testing.T) {
	users := newMockUserRepo()
	r, tokens := setupRouter(users, newMockSessionRepo())
	seeded := seedUser(t, users, "Jane Smith", "jane@example.com", "password123")

	rec := performRequest(r, http.MethodPut, "/api/users/1", map[string]string{
		"name":  "Jane Doe",
		"email": "Jane.Doe@Example.com",
	}, withBearer(issueToken(t, tokens, seeded.ID)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["name"] != "Jane Doe" || body["email"] != "jane.doe@example.com" {
		t.Fatalf("unexpected body: %v", body)
	}
	if body["id"] != float64(seeded.ID) {
		t.Fatalf("expected id %d, got %v", seeded.ID, body["id"])
	}
}
