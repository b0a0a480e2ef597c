package utils

import (
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingToken = errors.New("no token provided")
	ErrEmptySecret  = errors.New("token secret cannot be empty")
)

const (
	tokenIssuer  = "studynotes"
	bearerScheme = "Bearer"
)

type TokenData struct {
	UserID int64
	Exp    int64
}

// TokenSigner issues and verifies the HS256 bearer tokens handed out at
// register and login. The subject claim carries the user ID.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenSigner(secret string, ttl time.Duration) (*TokenSigner, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &TokenSigner{secret: []byte(secret), ttl: ttl}, nil
}

func (s *TokenSigner) Sign(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses AND validates the signature locally.
// It returns the data if the token is authentic and unexpired.
func (s *TokenSigner) ValidateToken(tokenString string) (*TokenData, error) {
	clean := sanitizeToken(tokenString)
	if clean == "" {
		return nil, ErrMissingToken
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(clean, &claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid subject claim %q: %w", claims.Subject, err)
	}

	var exp int64
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Unix()
	}
	return &TokenData{UserID: userID, Exp: exp}, nil
}

func (s *TokenSigner) ParseTokenDataCtx(ctx echo.Context) (*TokenData, error) {
	token := ctx.Request().Header.Get(echo.HeaderAuthorization)
	return s.ValidateToken(token)
}

func (s *TokenSigner) keyFunc(*jwt.Token) (any, error) {
	return s.secret, nil
}

func sanitizeToken(token string) string {
	token = strings.TrimSpace(token)
	if len(token) >= len(bearerScheme) && strings.EqualFold(token[:len(bearerScheme)], bearerScheme) {
		token = token[len(bearerScheme):]
	}
	return strings.TrimSpace(token)
}
