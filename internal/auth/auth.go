package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	userDatamodel "github.com/JinxSeven/Risk-360/internal/core/datamodel/user"
	"github.com/JinxSeven/Risk-360/internal/grc"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ServiceAPI is the session helper used by handlers and middleware.
type ServiceAPI interface {
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
	SignUp(ctx context.Context, req SignUpRequest, adminCreated bool) (*grc.User, error)
	SignOut(ctx context.Context) error
	CurrentUser(ctx context.Context) (*grc.User, error)
	UserRole(ctx context.Context) (grc.Role, bool, error)
	InitUserSession(ctx context.Context) (*SessionProfile, error)
	AdminCreateUser(ctx context.Context, req SignUpRequest) (*grc.User, error)
	IsUserAdmin(ctx context.Context) (bool, error)
	UpdatePassword(ctx context.Context, password string) error
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(ctx context.Context, token string) (*Claims, error)
}

// RepositoryAPI is the hosted auth store. Lookups return nil without error
// when the row does not exist.
type RepositoryAPI interface {
	GetAccountByEmail(ctx context.Context, email string) (*userDatamodel.AuthUser, error)
	GetAccount(ctx context.Context, id string) (*userDatamodel.AuthUser, error)
	CreateAccount(ctx context.Context, account *userDatamodel.AuthUser) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error

	GetProfile(ctx context.Context, userID string) (*userDatamodel.Profile, error)
	CreateProfile(ctx context.Context, profile *userDatamodel.Profile) error
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error

	CreateSession(ctx context.Context, session *userDatamodel.AuthSession) error
	GetSession(ctx context.Context, id string) (*userDatamodel.AuthSession, error)
	RevokeSession(ctx context.Context, id string, at time.Time) error
}

// DemoDirectory is the local user directory and role cache used when the
// backend is unreachable. The mock data service implements it.
type DemoDirectory interface {
	Login(ctx context.Context, email string) (*grc.User, error)
	Logout(ctx context.Context) error
	CurrentRole(ctx context.Context) (grc.Role, bool, error)
	RememberRole(ctx context.Context, role grc.Role) error
	GetUser(ctx context.Context, id string) (*grc.User, error)
	CreateUser(ctx context.Context, in grc.NewUser) (*grc.User, error)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID, email, sessionID string) (string, error)
	GenerateRefreshToken(userID, email, sessionID string) (string, error)
	ValidateAccessToken(token string) (*Claims, error)
	ValidateRefreshToken(token string) (*Claims, error)
	RefreshTTL() time.Duration
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type SignInResult struct {
	AuthTokens
	User *grc.User `json:"user"`
	Demo bool      `json:"demo"`
}

// SessionProfile is what the dashboard shell needs after sign-in.
type SessionProfile struct {
	Role       grc.Role `json:"role"`
	Name       string   `json:"name"`
	Department string   `json:"department"`
}

// Claims represents JWT token claims. The registered ID (jti) is a ULID and
// Subject is the user id.
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	SessionID string `json:"sid,omitempty"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}
