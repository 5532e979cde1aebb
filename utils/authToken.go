package utils

import (
	"DentistAPI/models"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenExpiry is how long an issued session token stays valid.
const SessionTokenExpiry = 7 * 24 * time.Hour

// Authorization errors. The text of each is the message returned to the client.
var (
	ErrUnauthenticated = errors.New("Authorization header is missing")
	ErrInvalidHeader   = errors.New("Invalid Authorization header format")
	ErrInvalidToken    = errors.New("Invalid JWT")
	ErrMissingClaims   = errors.New("JWT is missing required claims")
	ErrExpired         = errors.New("JWT has expired")
	ErrForbidden       = errors.New("You are unauthorized")
)

var requiredClaims = []string{"role", "phonenumber", "name", "iat", "exp"}

// TokenClaims is the decoded identity carried by a session token.
type TokenClaims struct {
	Role        models.Role `json:"role"`
	PhoneNumber int64       `json:"phonenumber"`
	Name        string      `json:"name"`
	IssuedAt    time.Time   `json:"iat"`
	ExpiresAt   time.Time   `json:"exp"`
}

type sessionClaims struct {
	Role        models.Role `json:"role"`
	PhoneNumber int64       `json:"phonenumber"`
	Name        string      `json:"name"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HMAC-signed session tokens.
type TokenService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenService builds a token service around a process-wide signing key.
func NewTokenService(key []byte, ttl time.Duration) (*TokenService, error) {
	if len(key) == 0 {
		return nil, errors.New("token signing key is empty")
	}
	if ttl <= 0 {
		ttl = SessionTokenExpiry
	}
	return &TokenService{key: key, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for the given identity.
func (s *TokenService) Issue(role models.Role, phoneNumber int64, name string) (string, error) {
	now := s.now()
	claims := sessionClaims{
		Role:        role,
		PhoneNumber: phoneNumber,
		Name:        name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Verify checks the signature, the presence of every required claim, expiry and,
// when roles are given, that the token's role is one of them. With no roles any
// valid token is accepted.
func (s *TokenService) Verify(tokenString string, requiredRoles ...models.Role) (*TokenClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
		jwt.WithJSONNumber(),
	)

	token, err := parser.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	for _, name := range requiredClaims {
		if _, present := mapClaims[name]; !present {
			return nil, ErrMissingClaims
		}
	}

	claims, err := decodeClaims(mapClaims)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if !s.now().Before(claims.ExpiresAt) {
		return nil, ErrExpired
	}

	if len(requiredRoles) == 0 {
		return claims, nil
	}
	for _, role := range requiredRoles {
		if claims.Role == role {
			return claims, nil
		}
	}
	return nil, ErrForbidden
}

func decodeClaims(mapClaims jwt.MapClaims) (*TokenClaims, error) {
	role, ok := mapClaims["role"].(string)
	if !ok {
		return nil, errors.New("role claim is not a string")
	}
	name, ok := mapClaims["name"].(string)
	if !ok {
		return nil, errors.New("name claim is not a string")
	}
	number, ok := mapClaims["phonenumber"].(json.Number)
	if !ok {
		return nil, errors.New("phonenumber claim is not a number")
	}
	phone, err := number.Int64()
	if err != nil {
		return nil, err
	}
	iat, err := mapClaims.GetIssuedAt()
	if err != nil || iat == nil {
		return nil, errors.New("iat claim is malformed")
	}
	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, errors.New("exp claim is malformed")
	}

	return &TokenClaims{
		Role:        models.Role(role),
		PhoneNumber: phone,
		Name:        name,
		IssuedAt:    iat.Time,
		ExpiresAt:   exp.Time,
	}, nil
}
