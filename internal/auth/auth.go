package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	SessionCookie = "mc_admin_session"
	CSRFHeader    = "X-CSRF-Token"

	sessionTTL = 24 * time.Hour
)

// Claims is the signed session payload carried in the cookie. The CSRF token
// rides inside so mutating requests can be checked statelessly.
type Claims struct {
	CSRF string `json:"csrf"`
	jwt.RegisteredClaims
}

// CheckPassword accepts either a bcrypt hash or a plaintext configured
// password. Plaintext comparison goes through sha256 digests so the compare
// is constant-time regardless of length.
func CheckPassword(provided, configured string) bool {
	if strings.HasPrefix(configured, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(provided)) == nil
	}
	a := sha256.Sum256([]byte(provided))
	b := sha256.Sum256([]byte(configured))
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// NewSessionToken issues a signed session token and the CSRF token bound to it.
func NewSessionToken(secret []byte) (token, csrf string, err error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate CSRF token: %w", err)
	}
	csrf = base64.URLEncoding.EncodeToString(raw)

	now := time.Now()
	claims := Claims{
		CSRF: csrf,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "mcadmin",
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", "", err
	}
	return token, csrf, nil
}

func ParseSessionToken(secret []byte, token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// VerifyCSRF compares the header token against the session's token.
func VerifyCSRF(claims *Claims, provided string) bool {
	if claims == nil || claims.CSRF == "" || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(claims.CSRF), []byte(provided)) == 1
}
