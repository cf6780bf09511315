package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"user-directory/internal/domain"
	"user-directory/internal/service"
)

type mockUserRepo struct {
	nextID       int64
	usersByID    map[int64]domain.User
	usersByEmail map[string]int64
	usersByAuth  map[string]int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[int64]domain.User),
		usersByEmail: make(map[string]int64),
		usersByAuth:  make(map[string]int64),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	m.nextID++
	user.ID = m.nextID
	// Timestamps crecientes para poder verificar el orden del listado.
	user.CreatedAt = time.Now().UTC().Add(time.Duration(m.nextID) * time.Second)
	user.UpdatedAt = user.CreatedAt
	m.usersByID[user.ID] = user
	if user.Email != "" {
		m.usersByEmail[strings.ToLower(user.Email)] = user.ID
	}
	if user.AuthProvider != "" && user.AuthSubject != "" {
		m.usersByAuth[user.AuthProvider+"|"+user.AuthSubject] = user.ID
	}
	return user, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[strings.ToLower(email)]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) GetByAuth(_ context.Context, provider, subject string) (domain.User, error) {
	id, ok := m.usersByAuth[provider+"|"+subject]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) LinkOAuth(_ context.Context, id int64, provider, subject string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.AuthProvider = provider
	user.AuthSubject = subject
	m.usersByID[id] = user
	m.usersByAuth[provider+"|"+subject] = id
	return nil
}

func (m *mockUserRepo) List(_ context.Context) ([]domain.User, error) {
	users := []domain.User{}
	for _, u := range m.usersByID {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (m *mockUserRepo) Update(_ context.Context, id int64, name, email string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	delete(m.usersByEmail, strings.ToLower(user.Email))
	user.Name = name
	user.Email = email
	user.UpdatedAt = time.Now().UTC()
	m.usersByID[id] = user
	m.usersByEmail[strings.ToLower(email)] = id
	return user, nil
}

type mockSessionRepo struct {
	nextID   int64
	sessions map[int64]domain.Session
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[int64]domain.Session)}
}

func (m *mockSessionRepo) Create(_ context.Context, session domain.Session) (domain.Session, error) {
	m.nextID++
	session.ID = m.nextID
	session.CreatedAt = time.Now().UTC()
	m.sessions[session.ID] = session
	return session, nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id int64) (domain.Session, error) {
	session, ok := m.sessions[id]
	if !ok {
		return domain.Session{}, pgx.ErrNoRows
	}
	return session, nil
}

func setupRouter(users *mockUserRepo, sessions *mockSessionRepo) (*gin.Engine, *service.TokenService) {
	gin.SetMode(gin.TestMode)
	tokens := service.NewTokenService("secret", 30*24*time.Hour)
	authSvc := service.NewAuthService(zap.NewNop(), users, sessions, tokens, service.NewLoginRateLimiter(time.Minute, 100))
	cookies := NewCookieHelper(false, 30*24*time.Hour)
	authH := NewAuthHandler(zap.NewNop(), authSvc, cookies)
	userH := NewUserHandler(zap.NewNop(), users)
	return NewRouter(zap.NewNop(), tokens, cookies, authH, userH), tokens
}

func seedUser(t *testing.T, users *mockUserRepo, name, email, password string) domain.User {
	t.Helper()
	hash, err := service.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := users.Create(context.Background(), domain.User{
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func issueToken(t *testing.T, tokens *service.TokenService, userID int64) string {
	t.Helper()
	token, err := tokens.Issue(userID, 1)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func performRequest(r http.Handler, method, path string, body any, mods ...func(*http.Request)) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, mod := range mods {
		mod(req)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func withBearer(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func withSessionCookie(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: SessionTokenCookie, Value: token})
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}
