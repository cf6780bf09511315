package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService emite y valida los tokens firmados de sesión.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// Claims viaja dentro del token: identidad de usuario y de sesión.
type Claims struct {
	UserID    int64 `json:"userId"`
	SessionID int64 `json:"sessionId"`
	jwt.RegisteredClaims
}

// ErrTokenInvalid cubre firma incorrecta, token malformado y expiración.
// El caller no distingue entre esos casos: todos terminan en login.
var ErrTokenInvalid = errors.New("invalid token")

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "user-directory",
	}
}

// Issue firma un token HS256 con vencimiento absoluto de ttl.
func (s *TokenService) Issue(userID, sessionID int64) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenInvalid
	}
	now := time.Now().UTC()
	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify valida firma y expiración sin tocar el almacén.
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	if len(s.secret) == 0 || strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrTokenInvalid
	}
	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return Claims{}, ErrTokenInvalid
	}
	if claims.UserID == 0 || claims.Issuer != s.issuer {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

// TTL expone la vigencia configurada, compartida con cookie y sesión.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
