package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"user-directory/internal/domain"
	"user-directory/internal/repository"
)

// AuthService coordina credenciales, sesiones y emisión de tokens.
type AuthService struct {
	logger     *zap.Logger
	users      repository.UserRepository
	sessions   repository.SessionRepository
	tokens     *TokenService
	limiter    LoginRateLimiter
	sessionTTL time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrOAuthInvalid       = errors.New("oauth data invalid")
	ErrRateLimited        = errors.New("rate limited")
)

func NewAuthService(
	logger *zap.Logger,
	users repository.UserRepository,
	sessions repository.SessionRepository,
	tokens *TokenService,
	limiter LoginRateLimiter,
) *AuthService {
	if limiter == nil {
		limiter = NewLoginRateLimiter(time.Minute, 10)
	}
	return &AuthService{
		logger:     logger,
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		limiter:    limiter,
		sessionTTL: tokens.TTL(),
	}
}

// Login valida credenciales, crea una fila de sesión y firma el token.
// Cuando la firma falla la sesión ya creada no se revierte.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (domain.User, string, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.User{}, "", ErrInvalidCredentials
	}
	if s.limiter != nil && !s.limiter.Allow(emailAddr) {
		return domain.User{}, "", ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}
	// Cuentas solo-OAuth no tienen hash y nunca autentican por password.
	if user.PasswordHash == "" {
		return domain.User{}, "", ErrInvalidCredentials
	}
	if !CheckPassword(password, user.PasswordHash) {
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.startSession(ctx, user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Signup rechaza duplicados sin distinguir mayúsculas en el email y
// persiste el usuario con su hash.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (domain.User, error) {
	emailAddr := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)

	_, err := s.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		return domain.User{}, ErrEmailTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.users.Create(ctx, domain.User{
		Name:         name,
		Email:        emailAddr,
		PasswordHash: hash,
	})
	if err != nil {
		return domain.User{}, err
	}
	s.logger.Info("user created", zap.Int64("userId", user.ID))
	return user, nil
}

type OAuthInput struct {
	Provider string
	Subject  string
	Email    string
	Name     string
}

// LoginOAuth hace upsert por (provider, subject), enlaza por email cuando
// existe una cuenta previa y abre sesión igual que el login por password.
func (s *AuthService) LoginOAuth(ctx context.Context, input OAuthInput) (domain.User, string, error) {
	provider := strings.ToLower(strings.TrimSpace(input.Provider))
	subject := strings.TrimSpace(input.Subject)
	emailAddr := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)

	if provider == "" || subject == "" {
		return domain.User{}, "", ErrOAuthInvalid
	}

	user, err := s.users.GetByAuth(ctx, provider, subject)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, "", err
		}
		if emailAddr != "" {
			existing, err := s.users.GetByEmail(ctx, emailAddr)
			if err == nil {
				if err := s.users.LinkOAuth(ctx, existing.ID, provider, subject); err != nil {
					return domain.User{}, "", err
				}
				existing.AuthProvider = provider
				existing.AuthSubject = subject
				user = existing
			} else if !errors.Is(err, pgx.ErrNoRows) {
				return domain.User{}, "", err
			}
		}
		if user.ID == 0 {
			// Cuenta nueva solo-OAuth: sin password hash.
			user, err = s.users.Create(ctx, domain.User{
				Name:         name,
				Email:        emailAddr,
				AuthProvider: provider,
				AuthSubject:  subject,
			})
			if err != nil {
				return domain.User{}, "", err
			}
		}
	}

	token, err := s.startSession(ctx, user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

func (s *AuthService) startSession(ctx context.Context, user domain.User) (string, error) {
	session, err := s.sessions.Create(ctx, domain.Session{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().UTC().Add(s.sessionTTL),
	})
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(user.ID, session.ID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
