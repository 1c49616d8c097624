package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	actorKey   = "actor"
	profileKey = "profile"
)

// ProfileSource resolves the profile of an authenticated user.
type ProfileSource interface {
	Profile(ctx context.Context, userID uuid.UUID) (*entities.Profile, error)
}

// Auth verifies HS256 session tokens and resolves the caller's profile.
// Profiles are cached per user for the configured TTL.
type Auth struct {
	log      *zap.SugaredLogger
	secret   []byte
	profiles ProfileSource
	cache    *gocache.Cache
	now      func() time.Time
}

// NewAuth constructs the session middleware.
func NewAuth(log *zap.SugaredLogger, secret string, ttl time.Duration, profiles ProfileSource) *Auth {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Auth{
		log:      log.Named("auth"),
		secret:   []byte(secret),
		profiles: profiles,
		cache:    gocache.New(ttl, 2*ttl),
		now:      time.Now,
	}
}

// Handler authenticates the request and stores the Actor in the context locals.
func (a *Auth) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return fmt.Errorf("%w: missing bearer token", entities.ErrUnauthorized)
		}
		userID, err := a.parse(raw)
		if err != nil {
			a.log.Debugw("token rejected", "error", err)
			return fmt.Errorf("%w: invalid session token", entities.ErrUnauthorized)
		}
		profile, err := a.profile(c.UserContext(), userID)
		if errors.Is(err, entities.ErrNotFound) {
			return fmt.Errorf("%w: no profile for user", entities.ErrForbidden)
		}
		if err != nil {
			return err
		}
		c.Locals(profileKey, *profile)
		c.Locals(actorKey, entities.ActorFromProfile(*profile))
		return c.Next()
	}
}

// Forget drops a cached profile so the next request reloads it.
func (a *Auth) Forget(userID uuid.UUID) {
	a.cache.Delete(userID.String())
}

func (a *Auth) parse(raw string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(claims.Subject)
}

func (a *Auth) profile(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	key := userID.String()
	if p, ok := a.cache.Get(key); ok {
		profile := p.(entities.Profile)
		return &profile, nil
	}
	p, err := a.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	a.cache.SetDefault(key, *p)
	return p, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireRole rejects callers without one of roles. Admins always pass.
func RequireRole(roles ...entities.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return entities.ErrUnauthorized
		}
		if !actor.HasRole(roles...) {
			return fmt.Errorf("%w: role %q may not access this resource", entities.ErrForbidden, actor.Role)
		}
		return c.Next()
	}
}

// ActorFrom returns the authenticated caller.
func ActorFrom(c *fiber.Ctx) (entities.Actor, bool) {
	actor, ok := c.Locals(actorKey).(entities.Actor)
	return actor, ok
}

// ProfileFrom returns the authenticated caller's profile.
func ProfileFrom(c *fiber.Ctx) (entities.Profile, bool) {
	p, ok := c.Locals(profileKey).(entities.Profile)
	return p, ok
}
