package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/JinxSeven/Risk-360/internal"
	"github.com/JinxSeven/Risk-360/internal/core/events"
	userDatamodel "github.com/JinxSeven/Risk-360/internal/core/datamodel/user"
	"github.com/JinxSeven/Risk-360/internal/grc"
)

const (
	demoName       = "Demo User"
	demoDepartment = "IT"
)

// Service is the session helper. Every operation asks the probe which path
// applies: the hosted auth tables when connected, the demo directory
// otherwise. In the server the probe is the startup grc.Selection, so auth
// never disagrees with the data path it guards.
type Service struct {
	repo       RepositoryAPI
	demo       DemoDirectory
	probe      grc.Prober
	tokens     TokenGeneratorAPI
	bus        *events.EventBus
	logger     *slog.Logger
	bcryptCost int
	now        func() time.Time
}

var _ ServiceAPI = (*Service)(nil)

type Option func(*Service)

func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost > 0 {
			s.bcryptCost = cost
		}
	}
}

// WithEventBus publishes a UserSignedInEvent after each successful sign-in.
func WithEventBus(bus *events.EventBus) Option {
	return func(s *Service) { s.bus = bus }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo RepositoryAPI, demo DemoDirectory, probe grc.Prober, tokens TokenGeneratorAPI, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		demo:       demo,
		probe:      probe,
		tokens:     tokens,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) connected(ctx context.Context) bool {
	return s.repo != nil && s.probe != nil && s.probe.IsConnected(ctx)
}

// SignIn verifies the credentials and issues a token pair. In demo mode any
// password is accepted for a known e-mail.
func (s *Service) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	if err := (LoginDTO{Email: email, Password: password}).Validate(); err != nil {
		return nil, err
	}
	if !s.connected(ctx) {
		return s.demoSignIn(ctx, email)
	}

	account, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		s.logger.Error("failed to load account", "error", err)
		return nil, internal.NewInternalError("Authentication failed. Please check your credentials and try again.", err)
	}
	if account == nil || account.PasswordHash == "" {
		return nil, internal.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	now := s.now()
	session := &userDatamodel.AuthSession{
		ID:        NewULID(now),
		UserID:    account.ID,
		ExpiresAt: now.Add(s.tokens.RefreshTTL()),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		s.logger.Error("failed to create session", "error", err, "user_id", account.ID)
		return nil, internal.NewInternalError("Failed to start session", err)
	}
	if err := s.repo.TouchLastLogin(ctx, account.ID, now); err != nil {
		s.logger.Warn("failed to update last login", "error", err, "user_id", account.ID)
	}

	tokens, err := s.issue(account.ID, account.Email, session.ID)
	if err != nil {
		return nil, err
	}
	user, err := s.loadUser(ctx, account)
	if err != nil {
		return nil, err
	}

	s.signedIn(ctx, account.ID, account.Email, false)
	s.logger.Info("user signed in", "user_id", account.ID)
	return &SignInResult{AuthTokens: tokens, User: user}, nil
}

func (s *Service) demoSignIn(ctx context.Context, email string) (*SignInResult, error) {
	user, err := s.demo.Login(ctx, email)
	if err != nil {
		return nil, internal.NewInternalError("Authentication failed. Please check your credentials and try again.", err)
	}
	if user == nil {
		return nil, internal.ErrInvalidCredentials
	}
	tokens, err := s.issue(user.ID, user.Email, "")
	if err != nil {
		return nil, err
	}
	s.signedIn(ctx, user.ID, user.Email, true)
	s.logger.Info("demo user signed in", "user_id", user.ID)
	return &SignInResult{AuthTokens: tokens, User: user, Demo: true}, nil
}

func (s *Service) signedIn(ctx context.Context, userID, email string, demo bool) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, events.NewUserSignedInEvent(userID, email, demo)); err != nil {
		s.logger.Warn("failed to publish sign-in event", "error", err)
	}
}

func (s *Service) issue(userID, email, sessionID string) (AuthTokens, error) {
	access, err := s.tokens.GenerateAccessToken(userID, email, sessionID)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("Failed to issue token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(userID, email, sessionID)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("Failed to issue token", err)
	}
	return AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

// SignUp only proceeds for accounts created by an administrator.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest, adminCreated bool) (*grc.User, error) {
	if !adminCreated {
		return nil, internal.ErrRegistrationDisabled
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if !s.connected(ctx) {
		u, err := s.demo.CreateUser(ctx, grc.NewUser{
			Name:       req.Name,
			Email:      req.Email,
			Role:       req.role(),
			Department: req.Department,
		})
		if err != nil {
			return nil, err
		}
		return u, nil
	}

	existing, err := s.repo.GetAccountByEmail(ctx, req.Email)
	if err != nil {
		return nil, internal.NewInternalError("Registration failed. Please try again.", err)
	}
	if existing != nil {
		return nil, internal.ErrEmailTaken
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, internal.NewInternalError("Registration failed. Please try again.", err)
	}
	account := &userDatamodel.AuthUser{ID: uuid.NewString(), Email: req.Email, PasswordHash: hash}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		s.logger.Error("failed to create account", "error", err)
		return nil, internal.NewInternalError("Registration failed. Please try again.", err)
	}

	profile := &userDatamodel.Profile{
		UserID:     account.ID,
		Name:       req.Name,
		Role:       string(req.role()),
		Department: req.Department,
	}
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		s.logger.Error("error creating user profile", "error", err, "user_id", account.ID)
		return nil, internal.ErrProfileCreationFailed.WithCause(err)
	}

	s.logger.Info("account created", "user_id", account.ID, "role", profile.Role)
	return &grc.User{
		ID:         account.ID,
		Name:       profile.Name,
		Email:      account.Email,
		Role:       req.role(),
		Department: profile.Department,
		LastLogin:  nil,
	}, nil
}

// SignOut forgets the cached role before revoking the backend session, so
// local cleanup happens whatever the backend does.
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.demo.Logout(ctx); err != nil {
		s.logger.Warn("failed to clear cached role", "error", err)
	}

	if !s.connected(ctx) {
		return nil
	}
	token := internal.AccessTokenFromContext(ctx)
	if token == "" {
		return nil
	}
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil || claims.SessionID == "" {
		return nil
	}
	if err := s.repo.RevokeSession(ctx, claims.SessionID, s.now()); err != nil {
		s.logger.Error("sign out error", "error", err, "session_id", claims.SessionID)
		return internal.NewExternalError("Failed to revoke session", internal.ErrCodeBackendUnavailable, err)
	}
	return nil
}

// CurrentUser resolves the authenticated caller, or nil when there is none.
func (s *Service) CurrentUser(ctx context.Context) (*grc.User, error) {
	userID := internal.UserIDFromContext(ctx)
	if userID == "" {
		return nil, nil
	}
	if !s.connected(ctx) {
		return s.demo.GetUser(ctx, userID)
	}

	account, err := s.repo.GetAccount(ctx, userID)
	if err != nil {
		s.logger.Error("get current user error", "error", err)
		return nil, nil
	}
	if account == nil {
		return nil, nil
	}
	return s.loadUser(ctx, account)
}

func (s *Service) loadUser(ctx context.Context, account *userDatamodel.AuthUser) (*grc.User, error) {
	u := &grc.User{ID: account.ID, Email: account.Email, Role: grc.RoleEmployee}
	profile, err := s.repo.GetProfile(ctx, account.ID)
	if err != nil {
		s.logger.Warn("failed to load profile", "error", err, "user_id", account.ID)
		return u, nil
	}
	if profile != nil {
		u.Name = profile.Name
		u.Department = profile.Department
		u.LastLogin = profile.LastLogin
		if role := grc.Role(profile.Role); role.Valid() {
			u.Role = role
		}
	}
	return u, nil
}

// UserRole resolves the caller's role:
//   - no authenticated caller: absent, on either path
//   - demo mode: the cached role, defaulting to admin, with no backend call
//   - otherwise the profile role, defaulting to employee
func (s *Service) UserRole(ctx context.Context) (grc.Role, bool, error) {
	userID := internal.UserIDFromContext(ctx)
	if userID == "" {
		return "", false, nil
	}
	if !s.connected(ctx) {
		role, ok, err := s.demo.CurrentRole(ctx)
		if err != nil {
			return "", false, err
		}
		if !ok {
			return grc.RoleAdmin, true, nil
		}
		return role, true, nil
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		s.logger.Error("error fetching user role", "error", err, "user_id", userID)
		return "", false, nil
	}
	if profile == nil {
		return grc.RoleEmployee, true, nil
	}
	if role := grc.Role(profile.Role); role.Valid() {
		return role, true, nil
	}
	return grc.RoleEmployee, true, nil
}

// InitUserSession caches the caller's role locally and returns the profile
// summary shown by the dashboard shell. Without a caller the cached role is
// cleared and nil returned. Demo mode answers with the demo administrator.
func (s *Service) InitUserSession(ctx context.Context) (*SessionProfile, error) {
	userID := internal.UserIDFromContext(ctx)
	if userID == "" {
		if err := s.demo.Logout(ctx); err != nil {
			s.logger.Warn("failed to clear cached role", "error", err)
		}
		return nil, nil
	}

	if !s.connected(ctx) {
		out := &SessionProfile{Role: grc.RoleAdmin, Name: demoName, Department: demoDepartment}
		if err := s.demo.RememberRole(ctx, out.Role); err != nil {
			return nil, err
		}
		return out, nil
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		s.logger.Error("error fetching user profile", "error", err, "user_id", userID)
		return nil, nil
	}
	out := &SessionProfile{Role: grc.RoleEmployee, Name: "User", Department: "General"}
	if profile != nil {
		if role := grc.Role(profile.Role); role.Valid() {
			out.Role = role
		}
		if profile.Name != "" {
			out.Name = profile.Name
		}
		if profile.Department != "" {
			out.Department = profile.Department
		}
	}
	if err := s.demo.RememberRole(ctx, out.Role); err != nil {
		s.logger.Warn("failed to cache role", "error", err)
	}
	return out, nil
}

func (s *Service) IsUserAdmin(ctx context.Context) (bool, error) {
	role, ok, err := s.UserRole(ctx)
	if err != nil {
		return false, err
	}
	return ok && role == grc.RoleAdmin, nil
}

func (s *Service) AdminCreateUser(ctx context.Context, req SignUpRequest) (*grc.User, error) {
	isAdmin, err := s.IsUserAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, internal.ErrAdminRequired
	}
	return s.SignUp(ctx, req, true)
}

func (s *Service) UpdatePassword(ctx context.Context, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	userID := internal.UserIDFromContext(ctx)
	if userID == "" {
		return internal.ErrNotAuthenticated
	}
	if !s.connected(ctx) {
		return internal.ErrBackendUnavailable
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return internal.NewInternalError("Failed to update password", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return internal.NewInternalError("Failed to update password", err)
	}
	return nil
}

// RefreshTokens rotates the pair. Tokens bound to a revoked or expired
// session are rejected.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}
	if err := s.checkSession(ctx, claims); err != nil {
		return AuthTokens{}, err
	}
	return s.issue(claims.UserID, claims.Email, claims.SessionID)
}

func (s *Service) ValidateAccessToken(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	if err := s.checkSession(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Service) checkSession(ctx context.Context, claims *Claims) error {
	if claims.SessionID == "" || !s.connected(ctx) {
		return nil
	}
	session, err := s.repo.GetSession(ctx, claims.SessionID)
	if err != nil {
		return internal.NewInternalError("Failed to load session", err)
	}
	if session == nil || session.RevokedAt != nil || !s.now().Before(session.ExpiresAt) {
		return internal.ErrInvalidToken
	}
	return nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", internal.NewValidationFieldError("password", "password is too long", internal.ErrCodeValidationFailed)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
