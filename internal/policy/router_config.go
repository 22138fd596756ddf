package policy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/diewo77/go-identity/auth"
	"github.com/diewo77/go-identity/gate"
	"github.com/diewo77/go-identity/internal/db"
	"github.com/diewo77/go-identity/internal/handlers"
	"github.com/diewo77/go-identity/internal/services"
	"github.com/diewo77/go-identity/internal/store"
)

// Options tune NewRouterConfig.
type Options struct {
	// Tokens signs and verifies access tokens.
	Tokens *auth.Tokens
	// Hasher defaults to bcrypt at its default cost.
	Hasher services.Hasher
	// CallerCacheTTL bounds how long a resolved caller is reused.
	CallerCacheTTL time.Duration
}

// RouterConfig holds the wired services, handlers and middleware.
type RouterConfig struct {
	// Authenticator guards routes that need a verified caller.
	Authenticator *auth.Authenticator
	// Callers caches public_id lookups; services invalidate it on change.
	Callers *gate.CachedResolver[uuid.UUID, auth.Caller]

	AuthHandler    *handlers.AuthHandler
	UserHandler    *handlers.UserHandler
	RoleHandler    *handlers.RoleHandler
	ProfileHandler *handlers.ProfileHandler
	HealthHandler  *handlers.HealthHandler
}

// NewRouterConfig wires the identity store, services and handlers over database.
func NewRouterConfig(database *gorm.DB, opts Options) *RouterConfig {
	hasher := opts.Hasher
	if hasher == nil {
		hasher = services.BcryptHasher{}
	}
	s := store.New(database)

	users := services.NewUserService(s, hasher)
	callers := gate.NewCachedResolver[uuid.UUID, auth.Caller](CallerResolver(users), opts.CallerCacheTTL)

	creds := services.NewCredentialVerifier(s, hasher)
	life := services.NewLifecycleManager(s, callers)
	recon := services.NewMembershipReconciler(s, callers)
	roles := services.NewRoleService(s)
	profiles := services.NewProfileService(s)

	return &RouterConfig{
		Authenticator:  auth.NewAuthenticator(opts.Tokens, callers),
		Callers:        callers,
		AuthHandler:    handlers.NewAuthHandler(users, creds, opts.Tokens),
		UserHandler:    handlers.NewUserHandler(users, life, recon),
		RoleHandler:    handlers.NewRoleHandler(roles, recon),
		ProfileHandler: handlers.NewProfileHandler(profiles),
		HealthHandler: handlers.NewHealthHandler(func(ctx context.Context) error {
			return db.Ping(ctx, database)
		}),
	}
}

// CallerResolver resolves token subjects through the user service. Unknown
// users map to auth.ErrUnknownCaller.
func CallerResolver(users *services.UserService) gate.Resolver[uuid.UUID, auth.Caller] {
	return gate.ResolverFunc[uuid.UUID, auth.Caller](func(ctx context.Context, publicID uuid.UUID) (auth.Caller, error) {
		u, err := users.ByPublicID(ctx, publicID)
		if services.KindOf(err) == services.KindNotFound {
			return auth.Caller{}, auth.ErrUnknownCaller
		}
		if err != nil {
			return auth.Caller{}, err
		}
		return auth.Caller{UserID: u.ID, PublicID: u.PublicID, Email: u.Email}, nil
	})
}
