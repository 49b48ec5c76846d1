package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Kariqs/digistore-api/initializers"
	"github.com/Kariqs/digistore-api/services"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	IdentityKey   = "identity"
	sessionCookie = "__session"
	bearerPrefix  = "Bearer "
)

var errMissingToken = errors.New("missing token")

type identityClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// RequireAuth rejects requests without a valid session token.
func RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, err := authenticate(ctx)
		if err != nil {
			if !errors.Is(err, errMissingToken) {
				initializers.Logger.Debug("Authentication failed", zap.Error(err))
			}
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": "unauthorized"})
			return
		}
		ctx.Set(IdentityKey, identity)
		ctx.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and lets
// anonymous requests through.
func OptionalAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if identity, err := authenticate(ctx); err == nil {
			ctx.Set(IdentityKey, identity)
		}
		ctx.Next()
	}
}

func CurrentIdentity(ctx *gin.Context) (services.Identity, bool) {
	v, ok := ctx.Get(IdentityKey)
	if !ok {
		return services.Identity{}, false
	}
	identity, ok := v.(services.Identity)
	return identity, ok && identity.Valid()
}

func bearerToken(ctx *gin.Context) string {
	if header := ctx.GetHeader("Authorization"); strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	if cookie, err := ctx.Cookie(sessionCookie); err == nil {
		return cookie
	}
	return ""
}

func authenticate(ctx *gin.Context) (services.Identity, error) {
	tokenString := bearerToken(ctx)
	if tokenString == "" {
		return services.Identity{}, errMissingToken
	}

	var claims identityClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(initializers.Cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return services.Identity{}, fmt.Errorf("invalid token: %w", err)
	}

	identity := services.Identity{
		Subject: claims.Subject,
		Email:   strings.ToLower(strings.TrimSpace(claims.Email)),
		Name:    claims.Name,
	}
	if identity.Email == "" && identity.Subject != "" && initializers.Identity != nil {
		user, err := initializers.Identity.GetUser(ctx.Request.Context(), identity.Subject)
		if err != nil {
			return services.Identity{}, fmt.Errorf("resolve user %s: %w", identity.Subject, err)
		}
		identity.Email = strings.ToLower(user.PrimaryEmail())
		if identity.Name == "" {
			identity.Name = user.FullName()
		}
	}
	if !identity.Valid() {
		return services.Identity{}, errors.New("token carries no email")
	}
	return identity, nil
}
