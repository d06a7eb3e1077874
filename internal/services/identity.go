package services

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid bearer token")
)

// TokenInfo holds the identity-provider claims the system trusts as the
// authenticated actor's identity.
type TokenInfo struct {
	Subject   string
	Email     string
	Name      string
	Picture   string
	ExpiresAt time.Time
}

// IdentityVerifier verifies a bearer credential and extracts its claims.
type IdentityVerifier interface {
	VerifyToken(ctx context.Context, rawToken string) (*TokenInfo, error)
}

// oidcDiscovery is the subset of the OIDC discovery document we consume.
type oidcDiscovery struct {
	Issuer  string `json:"issuer"`
	JWKSURI string `json:"jwks_uri"`
}

// jwk is a single RSA JSON Web Key.
type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

// OIDCService verifies provider-issued ID tokens against the issuer's JWKS.
// Discovery and key sets are cached with a TTL so the hot path stays local.
type OIDCService struct {
	issuer     string
	audience   string
	httpClient *http.Client

	discovery     *oidcDiscovery
	jwks          *jwkSet
	discoveryMux  sync.RWMutex
	jwksMux       sync.RWMutex
	discoveryTime time.Time
	jwksTime      time.Time
	cacheTTL      time.Duration
}

// NewOIDCService creates an OIDCService for the given issuer and audience.
func NewOIDCService(issuer, audience string) (*OIDCService, error) {
	if issuer == "" || audience == "" {
		return nil, fmt.Errorf("oidc configuration required: missing issuer or audience")
	}

	return &OIDCService{
		issuer:     strings.TrimSuffix(issuer, "/"),
		audience:   audience,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cacheTTL:   time.Hour,
	}, nil
}

type idTokenClaims struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Picture  string `json:"picture"`
	jwt.RegisteredClaims
}

// VerifyToken validates an RS256 ID token and returns its identity claims.
func (s *OIDCService) VerifyToken(ctx context.Context, rawToken string) (*TokenInfo, error) {
	claims := &idTokenClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("token missing kid header")
		}

		return s.publicKey(ctx, kid)
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	name := claims.Nickname
	if name == "" {
		name = claims.Name
	}
	if name == "" && claims.Email != "" {
		name = strings.SplitN(claims.Email, "@", 2)[0]
	}

	info := &TokenInfo{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    name,
		Picture: claims.Picture,
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// publicKey resolves the RSA public key for a kid, refreshing the cached JWKS
// when the kid is unknown or the cache is stale.
func (s *OIDCService) publicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	s.jwksMux.RLock()
	cached := s.jwks
	fresh := time.Since(s.jwksTime) < s.cacheTTL
	s.jwksMux.RUnlock()

	if cached != nil && fresh {
		if key, err := keyForKid(cached, kid); err == nil {
			return key, nil
		}
	}

	set, err := s.fetchJWKS(ctx)
	if err != nil {
		return nil, err
	}
	return keyForKid(set, kid)
}

func (s *OIDCService) fetchJWKS(ctx context.Context) (*jwkSet, error) {
	discovery, err := s.fetchDiscovery(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discovery.JWKSURI, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build jwks request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jwks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwks endpoint returned %d", resp.StatusCode)
	}

	var set jwkSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("failed to decode jwks: %w", err)
	}

	s.jwksMux.Lock()
	s.jwks = &set
	s.jwksTime = time.Now()
	s.jwksMux.Unlock()

	return &set, nil
}

func (s *OIDCService) fetchDiscovery(ctx context.Context) (*oidcDiscovery, error) {
	s.discoveryMux.RLock()
	cached := s.discovery
	fresh := time.Since(s.discoveryTime) < s.cacheTTL
	s.discoveryMux.RUnlock()

	if cached != nil && fresh {
		return cached, nil
	}

	url := s.issuer + "/.well-known/openid-configuration"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build discovery request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch oidc discovery: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discovery endpoint returned %d", resp.StatusCode)
	}

	var discovery oidcDiscovery
	if err := json.NewDecoder(resp.Body).Decode(&discovery); err != nil {
		return nil, fmt.Errorf("failed to decode discovery document: %w", err)
	}

	s.discoveryMux.Lock()
	s.discovery = &discovery
	s.discoveryTime = time.Now()
	s.discoveryMux.Unlock()

	return &discovery, nil
}

func keyForKid(set *jwkSet, kid string) (*rsa.PublicKey, error) {
	for _, key := range set.Keys {
		if key.Kid != kid || key.Kty != "RSA" {
			continue
		}

		nBytes, err := base64.RawURLEncoding.DecodeString(key.N)
		if err != nil {
			return nil, fmt.Errorf("failed to decode modulus for kid %s: %w", kid, err)
		}
		eBytes, err := base64.RawURLEncoding.DecodeString(key.E)
		if err != nil {
			return nil, fmt.Errorf("failed to decode exponent for kid %s: %w", kid, err)
		}

		return &rsa.PublicKey{
			N: new(big.Int).SetBytes(nBytes),
			E: int(new(big.Int).SetBytes(eBytes).Int64()),
		}, nil
	}
	return nil, fmt.Errorf("no key found for kid %s", kid)
}
