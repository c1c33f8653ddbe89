package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token is malformed, expired, mistyped, or invalid.
var ErrInvalidToken = errors.New("invalid token")

// Token use markers; each signed token carries one so an access token can never
// be replayed as a refresh token or vice versa.
const (
	useAccess            = "access"
	useRefresh           = "refresh"
	useEmailVerification = "email_verification"
)

// emailVerificationTTL is the lifetime of email verification tokens.
const emailVerificationTTL = 24 * time.Hour

// AccessClaims holds JWT claims for the access token. Subject is the user id.
type AccessClaims struct {
	jwt.RegisteredClaims
	TokenUse      string `json:"token_use"`
	StoreID       string `json:"store_id"`
	EmailVerified bool   `json:"email_verified"`
	RoleID        string `json:"role_id,omitempty"`
}

// RefreshClaims holds JWT claims for the refresh token. Subject is the session id;
// the refresh token carries nothing else about the user.
type RefreshClaims struct {
	jwt.RegisteredClaims
	TokenUse string `json:"token_use"`
}

// EmailVerificationClaims holds JWT claims for the email verification token.
// Subject is the user id.
type EmailVerificationClaims struct {
	jwt.RegisteredClaims
	TokenUse string `json:"token_use"`
	Email    string `json:"email"`
}

// TokenProvider issues and validates JWT access, refresh, and email verification
// tokens using RS256 or ES256 (private/public key).
type TokenProvider struct {
	privateKey crypto.Signer
	publicKey  crypto.PublicKey
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenProvider returns a TokenProvider that signs with the given private key (RS256 or ES256).
// issuer and audience are set on claims and validated on every parse.
func NewTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer, audience string, accessTTL, refreshTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL returns the configured access token lifetime.
func (p *TokenProvider) AccessTTL() time.Duration { return p.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (p *TokenProvider) RefreshTTL() time.Duration { return p.refreshTTL }

// IssueAccess issues a short-lived access JWT carrying the user id (subject),
// store id, email-verified flag, and role id (omitted when empty).
// Returns the token string and its expiration time.
func (p *TokenProvider) IssueAccess(userID, storeID string, emailVerified bool, roleID string) (token string, expiresAt time.Time, err error) {
	jti, err := generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	now := time.Now().UTC()
	expiresAt = now.Add(p.accessTTL)
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TokenUse:      useAccess,
		StoreID:       storeID,
		EmailVerified: emailVerified,
		RoleID:        roleID,
	}
	token, err = p.sign(claims)
	return token, expiresAt, err
}

// IssueRefresh issues a long-lived refresh JWT whose subject is the session id.
// Returns the token string and its expiration time. Callers store the token's
// SHA-256 fingerprint on the session; the raw token is never persisted.
func (p *TokenProvider) IssueRefresh(sessionID string) (token string, expiresAt time.Time, err error) {
	jti, err := generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	now := time.Now().UTC()
	expiresAt = now.Add(p.refreshTTL)
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   sessionID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TokenUse: useRefresh,
	}
	token, err = p.sign(claims)
	return token, expiresAt, err
}

// IssueEmailVerification issues a verification JWT carrying the user id (subject)
// and email, valid for 24 hours.
func (p *TokenProvider) IssueEmailVerification(userID, email string) (string, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	claims := EmailVerificationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(emailVerificationTTL)),
		},
		TokenUse: useEmailVerification,
		Email:    email,
	}
	return p.sign(claims)
}

func (p *TokenProvider) sign(claims jwt.Claims) (string, error) {
	var method jwt.SigningMethod
	switch p.privateKey.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return "", ErrInvalidToken
	}
	t := jwt.NewWithClaims(method, claims)
	return t.SignedString(p.privateKey)
}

func (p *TokenProvider) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
		return p.publicKey, nil
	}
	if _, ok := token.Method.(*jwt.SigningMethodECDSA); ok {
		return p.publicKey, nil
	}
	return nil, ErrInvalidToken
}

func (p *TokenProvider) checkRegistered(issuer string, audience jwt.ClaimStrings) error {
	if issuer != p.issuer {
		return ErrInvalidToken
	}
	for _, a := range audience {
		if a == p.audience {
			return nil
		}
	}
	return ErrInvalidToken
}

// ValidateRefresh parses and validates a refresh token (signature, exp, iss, aud,
// token use). Returns the session id the token is bound to.
func (p *TokenProvider) ValidateRefresh(tokenString string) (sessionID string, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &RefreshClaims{}, p.keyFunc)
	if err != nil {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.TokenUse != useRefresh {
		return "", ErrInvalidToken
	}
	if err := p.checkRegistered(claims.Issuer, claims.Audience); err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ValidateAccess parses and validates an access token (signature, exp, iss, aud,
// token use). Returns the full claims.
func (p *TokenProvider) ValidateAccess(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, p.keyFunc)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenUse != useAccess {
		return nil, ErrInvalidToken
	}
	if err := p.checkRegistered(claims.Issuer, claims.Audience); err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateEmailVerification parses and validates an email verification token.
// Returns the user id and email it was issued for.
func (p *TokenProvider) ValidateEmailVerification(tokenString string) (userID, email string, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &EmailVerificationClaims{}, p.keyFunc)
	if err != nil {
		return "", "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*EmailVerificationClaims)
	if !ok || !token.Valid {
		return "", "", ErrInvalidToken
	}
	if claims.TokenUse != useEmailVerification {
		return "", "", ErrInvalidToken
	}
	if err := p.checkRegistered(claims.Issuer, claims.Audience); err != nil {
		return "", "", err
	}
	return claims.Subject, claims.Email, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
