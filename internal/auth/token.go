package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"videotube-api/internal/errno"
	"videotube-api/internal/models"
)

const issuer = "videotube-api"

// Claims is the identity carried by a session token.
type Claims struct {
	AccountID   string `json:"_id"`
	Email       string `json:"email"`
	ChannelName string `json:"channelName"`
	Phone       string `json:"phone"`
	LogoID      string `json:"logoId"`
	Version     int64  `json:"ver"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HS256 session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %s", ttl)
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (m *Manager) Issue(acc *models.Account) (string, error) {
	now := m.now()
	claims := Claims{
		AccountID:   acc.ID,
		Email:       acc.Email,
		ChannelName: acc.ChannelName,
		Phone:       acc.Phone,
		LogoID:      acc.LogoID,
		Version:     acc.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   acc.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks signature, algorithm, issuer and expiry. Every failure is reported as
// errno.ErrInvalidToken wrapping the parser's reason.
func (m *Manager) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.AccountID == "" {
		return nil, errno.ErrInvalidToken
	}
	return claims, nil
}
