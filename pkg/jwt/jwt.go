package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by an access token. Tokens are issued by the auth gateway;
// this service only verifies them.
type Claims struct {
	UserID string `json:"user_id"`
	Phone  string `json:"phone"`
	Name   string `json:"name"`
	Type   string `json:"type"` // always "access" here
	jwt.RegisteredClaims
}

// Manager handles JWT verification (and issuance for tests/tooling)
type Manager struct {
	secret string
}

// NewManager creates new JWT manager
func NewManager(secret string) *Manager {
	return &Manager{secret: secret}
}

// GenerateAccessToken signs a 24-hour access token
func (m *Manager) GenerateAccessToken(userID, phone, name string) (string, error) {
	claims := Claims{
		UserID: userID,
		Phone:  phone,
		Name:   name,
		Type:   "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

// ValidateToken validates and parses token
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// ValidateAccessToken rejects anything that is not an access token
func (m *Manager) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Type != "access" {
		return nil, fmt.Errorf("invalid token type: expected access, got %s", claims.Type)
	}

	return claims, nil
}
