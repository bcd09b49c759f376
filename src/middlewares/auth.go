package middlewares

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"pcs/src/lib"
	"pcs/src/types"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func abortUnauthorized(ctx *gin.Context, msg string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"code": "authentication_error", "message": msg},
	})
}

// AuthMiddleware resolves the Bearer token into an Actor and stores it on the
// request context. Revoked tokens are rejected even when still within expiry.
func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer ") {
		abortUnauthorized(ctx, "missing bearer token")
		return
	}
	reqToken := strings.TrimPrefix(bearerToken, "Bearer ")
	if reqToken == "" {
		abortUnauthorized(ctx, "missing bearer token")
		return
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil || !tkn.Valid {
		if err != nil {
			log.Printf("token error: %s\n", err.Error())
		}
		abortUnauthorized(ctx, "invalid token")
		return
	}
	if claims.ID != "" && lib.TokenRevoked(ctx, claims.ID) {
		abortUnauthorized(ctx, "token revoked")
		return
	}

	uid, err := strconv.Atoi(claims.Subject)
	if err != nil || uid < 1 {
		abortUnauthorized(ctx, "invalid token subject")
		return
	}

	actor := types.Actor{
		ID:    uint(uid),
		Email: claims.Email,
		Role:  types.Role(claims.Role),
	}
	ctx.Set("email", actor.Email)
	ctx.Set("id", actor.ID)
	ctx.Set("role", actor.Role)
	ctx.Set("actor", actor)
	ctx.Set("claims", claims)
}

// RequireRoles gates a route group to the given roles. Runs after
// AuthMiddleware.
func RequireRoles(roles ...types.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		v, ok := ctx.Get("actor")
		if !ok {
			abortUnauthorized(ctx, "missing bearer token")
			return
		}
		actor := v.(types.Actor)
		for _, role := range roles {
			if actor.Role == role {
				return
			}
		}
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": gin.H{"code": "authorization_error", "message": "insufficient role"},
		})
	}
}

// ActorFrom returns the authenticated Actor, if any.
func ActorFrom(ctx *gin.Context) (types.Actor, bool) {
	v, ok := ctx.Get("actor")
	if !ok {
		return types.Actor{}, false
	}
	actor, ok := v.(types.Actor)
	return actor, ok
}
