package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/google/uuid"
)

// Kind tags the token namespace. Each namespace gets its own Service
// instance with its own secret; a token is rejected by any Service whose
// kind doesn't match, so namespaces can't be crossed even if two secrets
// are accidentally configured equal.
type Kind string

const (
	KindUserAccess  Kind = "user_access"
	KindUserRefresh Kind = "user_refresh"
	KindAdmin       Kind = "admin"
)

type Service struct {
	secret []byte
	ttl    time.Duration
	kind   Kind
}

type Identity struct {
	PhoneNumber string
	UserType    string
	Username    string
	Role        string
}

type Claims struct {
	SubjectID   int64  `json:"sub_id"`
	PhoneNumber string `json:"phone_number,omitempty"`
	UserType    string `json:"user_type,omitempty"`
	Username    string `json:"username,omitempty"`
	Role        string `json:"role,omitempty"`
	Kind        Kind   `json:"kind"`
	jwtlib.RegisteredClaims
}

func New(secret string, ttl time.Duration, kind Kind) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		kind:   kind,
	}
}

func (s *Service) TTL() time.Duration { return s.ttl }

func (s *Service) GenerateToken(subjectID int64, identity Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		SubjectID:   subjectID,
		PhoneNumber: identity.PhoneNumber,
		UserType:    identity.UserType,
		Username:    identity.Username,
		Role:        identity.Role,
		Kind:        s.kind,
		RegisteredClaims: jwtlib.RegisteredClaims{
			// jti keeps two tokens minted in the same second distinct, so
			// rotating a session never produces a colliding token hash.
			ID:        uuid.NewString(),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	if claims.Kind != s.kind {
		return nil, errors.New("token namespace mismatch")
	}

	return claims, nil
}
