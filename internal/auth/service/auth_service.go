package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"storegate/internal/event"
	roledomain "storegate/internal/role/domain"
	"storegate/internal/security"
	sessiondomain "storegate/internal/session/domain"
	userdomain "storegate/internal/user/domain"
)

// Sentinel errors for the auth service; the handler maps them to HTTP status codes.
// Each is decided at the point of failure, never caught-and-rethrown generically.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidRefreshToken    = errors.New("invalid or expired refresh token")
	ErrInvalidVerification    = errors.New("invalid or expired verification token")
	ErrSessionNotFound        = errors.New("session not found")
	ErrSessionRevoked         = errors.New("session already revoked")
	ErrUserNotFound           = errors.New("user not found")
	ErrRoleCreationFailed     = errors.New("role creation failed")
	ErrUserCreationFailed     = errors.New("user creation failed")
)

// DeviceContext identifies the device a request came from. The engine derives
// the session fingerprint from it; it is not a security boundary.
type DeviceContext struct {
	UserAgent string
	IPAddress string
}

// Registration is the signup input.
type Registration struct {
	Email    string
	Password string
}

// Credentials is the login input.
type Credentials struct {
	Email    string
	Password string
}

// Token is a signed credential with its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// TokenPair is the result of signup, login, and refresh. Never persisted.
type TokenPair struct {
	Access  Token
	Refresh Token
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) (*userdomain.User, error)
	SetEmailVerified(ctx context.Context, userID string) error
}

// RoleRepo is the minimal role repository needed by the auth service.
type RoleRepo interface {
	Create(ctx context.Context, role *roledomain.Role) (*roledomain.Role, error)
}

// SessionRepo is the minimal session repository needed by the auth service.
type SessionRepo interface {
	GetByID(ctx context.Context, id string) (*sessiondomain.Session, error)
	GetActiveByUserAndDevice(ctx context.Context, userID, fingerprint string) (*sessiondomain.Session, error)
	Create(ctx context.Context, s *sessiondomain.Session) (*sessiondomain.Session, error)
	UpdateRefreshToken(ctx context.Context, sessionID, hashedRefreshToken string) error
	Revoke(ctx context.Context, id string) error
}

// AuthService orchestrates signup, login, token refresh, and logout. It holds no
// in-process state; all durable state lives in the repositories, which are the
// sole synchronization point under concurrent requests.
type AuthService struct {
	userRepo    UserRepo
	roleRepo    RoleRepo
	sessionRepo SessionRepo
	hasher      *security.Hasher
	tokens      *security.TokenProvider
	emitter     event.Emitter
	sessionTTL  time.Duration
}

// NewAuthService returns an AuthService with the given dependencies.
// sessionTTL is the session (and refresh token) lifetime; emitter may be nil to
// disable event emission.
func NewAuthService(
	userRepo UserRepo,
	roleRepo RoleRepo,
	sessionRepo SessionRepo,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	emitter event.Emitter,
	sessionTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		tokens:      tokens,
		emitter:     emitter,
		sessionTTL:  sessionTTL,
	}
}

// Signup creates the store owner: a default administrative role scoped to the
// store, the user referencing it, and a first session for the signing-up device.
// Emits user.created and user.email_verification_requested best-effort; neither
// can fail the call. No new-device alert fires for the signup device, it would
// be redundant with the account-creation notice.
func (s *AuthService) Signup(ctx context.Context, reg Registration, device DeviceContext, storeID string) (*TokenPair, error) {
	email := strings.TrimSpace(strings.ToLower(reg.Email))
	if err := validateEmail(email); err != nil {
		return nil, ErrInvalidCredentials
	}
	if len(reg.Password) < 8 {
		return nil, ErrInvalidCredentials
	}
	if strings.TrimSpace(storeID) == "" {
		return nil, ErrInvalidCredentials
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hashed, err := s.hasher.Hash([]byte(reg.Password))
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	now := time.Now().UTC()
	role, err := s.roleRepo.Create(ctx, roledomain.OwnerRole(uuid.New().String(), storeID, now))
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if role == nil {
		return nil, ErrRoleCreationFailed
	}

	user, err := s.userRepo.Create(ctx, &userdomain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hashed,
		StoreID:      storeID,
		RoleID:       role.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if user == nil {
		return nil, ErrUserCreationFailed
	}

	event.EmitAsync(s.emitter, ctx, &event.UserEvent{
		Name:       event.UserCreated,
		UserID:     user.ID,
		Email:      user.Email,
		OccurredAt: now,
	})

	if verification, err := s.tokens.IssueEmailVerification(user.ID, user.Email); err != nil {
		log.Printf("auth: email verification token for %s: %v", user.ID, err)
	} else {
		event.EmitAsync(s.emitter, ctx, &event.UserEvent{
			Name:       event.EmailVerificationRequested,
			UserID:     user.ID,
			Email:      user.Email,
			Token:      verification,
			OccurredAt: now,
		})
	}

	return s.authenticate(ctx, user, device, true)
}

// Login authenticates with email and password and returns a token pair for the
// device's session. Missing user and wrong password both surface as
// ErrInvalidCredentials so a caller cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, creds Credentials, device DeviceContext) (*TokenPair, error) {
	email := strings.TrimSpace(strings.ToLower(creds.Email))
	if email == "" || creds.Password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(creds.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.authenticate(ctx, user, device, false)
}

// authenticate finds or creates the session for (user, device) and issues a
// token pair for it. Revocation and expiry are checked on the reuse path the
// same way refresh checks them: the lookup only returns usable sessions and the
// result is re-checked here before any token is issued.
func (s *AuthService) authenticate(ctx context.Context, user *userdomain.User, device DeviceContext, newUser bool) (*TokenPair, error) {
	fingerprint := sessiondomain.DeviceFingerprint(device.UserAgent, device.IPAddress)
	now := time.Now().UTC()

	sess, err := s.sessionRepo.GetActiveByUserAndDevice(ctx, user.ID, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if sess != nil && sess.Usable(now) {
		return s.issueTokens(ctx, sess.ID, user)
	}

	sess, err = s.sessionRepo.Create(ctx, &sessiondomain.Session{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		UserAgent:   device.UserAgent,
		IPAddress:   device.IPAddress,
		Fingerprint: fingerprint,
		ExpiresAt:   now.Add(s.sessionTTL),
		CreatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !newUser {
		event.EmitAsync(s.emitter, ctx, &event.UserEvent{
			Name:       event.NewDeviceLogin,
			UserID:     user.ID,
			Email:      user.Email,
			UserAgent:  device.UserAgent,
			IPAddress:  device.IPAddress,
			OccurredAt: now,
		})
	}
	return s.issueTokens(ctx, sess.ID, user)
}

// issueTokens generates a fresh pair for the session and rotates the stored
// refresh-token hash. Once the hash is overwritten the previous refresh token
// stops verifying.
func (s *AuthService) issueTokens(ctx context.Context, sessionID string, user *userdomain.User) (*TokenPair, error) {
	refresh, refreshExp, err := s.tokens.IssueRefresh(sessionID)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	access, accessExp, err := s.tokens.IssueAccess(user.ID, user.StoreID, user.EmailVerified, user.RoleID)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	if err := s.sessionRepo.UpdateRefreshToken(ctx, sessionID, security.HashRefreshToken(refresh)); err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return &TokenPair{
		Access:  Token{Value: access, ExpiresAt: accessExp},
		Refresh: Token{Value: refresh, ExpiresAt: refreshExp},
	}, nil
}

// Refresh validates the presented refresh token against the session it is bound
// to and rotates the pair. The session is always resolved by the token's
// subject (the session id), never by user id. A hash mismatch means the token
// lost a rotation race or was replayed; it is rejected without revoking the
// session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	sessionID, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if sess == nil || sess.Revoked() {
		return nil, ErrInvalidRefreshToken
	}
	if sess.Expired(time.Now().UTC()) {
		return nil, ErrInvalidRefreshToken
	}
	if sess.HashedRefreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	if !security.RefreshTokenHashEqual(refreshToken, sess.HashedRefreshToken) {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.issueTokens(ctx, sess.ID, user)
}

// Logout revokes the session identified by the refresh token: the stored hash
// is cleared and the session is expired and revoked in one update. Logout is
// not idempotent; a second call on the same session fails with ErrSessionRevoked.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	sessionID, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if sess == nil {
		return ErrSessionNotFound
	}
	if sess.Revoked() {
		return ErrSessionRevoked
	}
	if err := s.sessionRepo.Revoke(ctx, sess.ID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// VerifyEmail marks the user's email as verified using the token issued at signup.
func (s *AuthService) VerifyEmail(ctx context.Context, verificationToken string) error {
	userID, _, err := s.tokens.ValidateEmailVerification(verificationToken)
	if err != nil {
		return ErrInvalidVerification
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("verify email: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := s.userRepo.SetEmailVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("verify email: %w", err)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	const simpleEmail = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	ok, _ := regexp.MatchString(simpleEmail, email)
	if !ok {
		return errors.New("invalid email format")
	}
	return nil
}
