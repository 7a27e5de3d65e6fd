package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/argon2"

	"github.com/postboard/postboard-api/internal/core/domain"
)

const (
	saltLength = 16
	keyLength  = 32
)

// Argon2Params tunes the argon2id work factor.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
}

// DefaultArgon2Params is the OWASP baseline for argon2id.
var DefaultArgon2Params = Argon2Params{Memory: 19456, Iterations: 2, Parallelism: 1}

type tokenClaims struct {
	UserID string      `json:"id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// CredentialService hashes passwords with argon2id and signs HS256 tokens.
type CredentialService struct {
	secret   []byte
	tokenTTL time.Duration
	params   Argon2Params
	now      func() time.Time
	random   func([]byte) (int, error)
}

func NewCredentialService(secret string, tokenTTL time.Duration, params Argon2Params) *CredentialService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	if params.Memory == 0 || params.Iterations == 0 || params.Parallelism == 0 {
		params = DefaultArgon2Params
	}
	return &CredentialService{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		params:   params,
		now:      time.Now,
		random:   rand.Read,
	}
}

// Hash returns a PHC-formatted argon2id digest of plaintext.
func (s *CredentialService) Hash(plaintext string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := s.random(salt); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrHashingFailure, err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, s.params.Iterations, s.params.Memory, s.params.Parallelism, keyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		s.params.Memory, s.params.Iterations, s.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether plaintext matches hashed. A hash that cannot be
// parsed never matches.
func (s *CredentialService) Verify(hashed, plaintext string) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("%w: %v", domain.ErrVerificationFailure, r)
		}
	}()

	params, salt, key, perr := decodeHash(hashed)
	if perr != nil {
		return false, nil
	}

	candidate := argon2.IDKey([]byte(plaintext), salt, params.Iterations, params.Memory, params.Parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

func decodeHash(hashed string) (Argon2Params, []byte, []byte, error) {
	var params Argon2Params

	parts := strings.Split(hashed, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return params, nil, nil, errors.New("unsupported hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return params, nil, nil, errors.New("unsupported argon2 version")
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return params, nil, nil, err
	}
	if params.Memory == 0 || params.Iterations == 0 || params.Parallelism == 0 {
		return params, nil, nil, errors.New("invalid argon2 parameters")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return params, nil, nil, errors.New("invalid salt")
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return params, nil, nil, errors.New("invalid key")
	}
	return params, salt, key, nil
}

// IssueToken signs a token for p that expires after the configured TTL.
func (s *CredentialService) IssueToken(p domain.Principal) (string, error) {
	now := s.now().UTC()
	claims := tokenClaims{
		UserID: p.ID,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken returns the principal encoded in token. Every failure is
// reported as domain.ErrUnauthorized.
func (s *CredentialService) VerifyToken(token string) (domain.Principal, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return domain.Principal{ID: claims.UserID, Role: claims.Role}, nil
}
