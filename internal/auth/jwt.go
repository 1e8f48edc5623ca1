package auth

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nik/article-hub/internal/domain"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims carried by every issued token. Username, Email and Active are set
// on access tokens only; refresh tokens are long-lived and deliberately
// carry nothing beyond the subject.
type Claims struct {
	jwt.RegisteredClaims
	Type     TokenType `json:"type"`
	Username string    `json:"username,omitempty"`
	Email    string    `json:"email,omitempty"`
	Active   bool      `json:"active,omitempty"`
}

// Codec signs and verifies tokens with an RSA key pair.
type Codec struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	method     jwt.SigningMethod
}

func NewCodec(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, algorithm string) (*Codec, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not RSA-based", algorithm)
	}
	return &Codec{privateKey: privateKey, publicKey: publicKey, method: method}, nil
}

// LoadCodec reads a PEM-encoded RSA key pair from disk.
func LoadCodec(privateKeyPath, publicKeyPath, algorithm string) (*Codec, error) {
	privPEM, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	pubPEM, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	return NewCodec(privateKey, publicKey, algorithm)
}

func (c *Codec) Encode(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(c.method, claims)
	return token.SignedString(c.privateKey)
}

// Decode verifies the signature and expiry. Any failure maps to
// domain.ErrInvalidToken with the underlying cause attached for logging.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.publicKey, nil
	}, jwt.WithValidMethods([]string{c.method.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// TokenService issues access/refresh token pairs for a user identity.
type TokenService struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(codec *Codec, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{codec: codec, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (s *TokenService) IssueAccess(user *domain.User) (string, error) {
	return s.codec.Encode(Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.Username},
		Type:             TokenTypeAccess,
		Username:         user.Username,
		Email:            user.Email,
		Active:           user.Active,
	}, s.accessTTL)
}

func (s *TokenService) IssueRefresh(user *domain.User) (string, error) {
	return s.codec.Encode(Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.Username},
		Type:             TokenTypeRefresh,
	}, s.refreshTTL)
}

func (s *TokenService) Decode(tokenString string) (*Claims, error) {
	return s.codec.Decode(tokenString)
}

// RequireType rejects a token presented to a context expecting the other
// kind, e.g. an access token sent to the refresh endpoint.
func RequireType(claims *Claims, want TokenType) error {
	if claims.Type != want {
		return fmt.Errorf("%w: got %q, expected %q", domain.ErrInvalidTokenType, claims.Type, want)
	}
	return nil
}
