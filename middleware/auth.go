package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/wemake/config"
	"github.com/cppla/wemake/utils"
)

const (
	// ContextProfileIDKey is the key used to store the authenticated profile id in Gin context.
	ContextProfileIDKey = "profile_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// ContextTokenKey stores the raw bearer token, used by logout.
	ContextTokenKey = "token"
	// ContextClaimsKey stores the parsed *utils.Claims.
	ContextClaimsKey = "claims"
)

// AuthRequired ensures the request is authenticated via JWT.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, code, msg := bearerToken(ctx)
		if code != 0 {
			utils.Error(ctx, http.StatusUnauthorized, code, msg)
			return
		}
		if utils.IsTokenBlacklisted(token) {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "token revoked")
			return
		}
		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			return
		}

		ctx.Set(ContextProfileIDKey, claims.ProfileID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextTokenKey, token)
		ctx.Set(ContextClaimsKey, claims)
		ctx.Next()
	}
}

// AdminRequired must run after AuthRequired. It rejects profiles not listed as admins.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !config.Get().IsAdmin(ctx.GetString(ContextUsernameKey)) {
			utils.Error(ctx, http.StatusForbidden, 40300, "admin only")
			return
		}
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) (string, int, string) {
	header := ctx.GetHeader("Authorization")
	if header == "" {
		return "", 40101, "authorization header missing"
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", 40102, "invalid authorization header format"
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", 40103, "empty bearer token"
	}
	return token, 0, ""
}
