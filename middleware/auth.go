package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/mzportal/repository"
	"github.com/cppla/mzportal/utils"
)

const (
	// ContextIdentityKey is the key used to store the authenticated Identity in Gin context.
	ContextIdentityKey = "identity"
	// ContextTokenKey stores the raw bearer token so logout can revoke it.
	ContextTokenKey = "token"
	// ContextClaimsKey stores the parsed claims.
	ContextClaimsKey = "claims"
)

// Identity is who the bearer token says the caller is.
type Identity struct {
	UserID   uint
	Username string
	Role     string
}

// AuthRequired ensures the request is authenticated via JWT.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Abort(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Abort(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Abort(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
			return
		}

		if utils.IsTokenBlacklisted(tokenString) {
			utils.Abort(ctx, http.StatusUnauthorized, 40104, "token revoked")
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Abort(ctx, http.StatusUnauthorized, 40105, "invalid token")
			return
		}

		ctx.Set(ContextTokenKey, tokenString)
		ctx.Set(ContextClaimsKey, claims)
		ctx.Set(ContextIdentityKey, Identity{UserID: claims.UserID, Username: claims.Username, Role: claims.Role})
		ctx.Next()
	}
}

// IdentityFrom returns the identity set by AuthRequired.
func IdentityFrom(ctx *gin.Context) (Identity, bool) {
	v, ok := ctx.Get(ContextIdentityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok && id.Username != ""
}

// AdminRequired must run after AuthRequired. The role is read from the database,
// not from the token, so demotions take effect immediately.
func AdminRequired(db *gorm.DB) gin.HandlerFunc {
	users := repository.NewUserRepository(db)
	return func(ctx *gin.Context) {
		ident, ok := IdentityFrom(ctx)
		if !ok {
			utils.Abort(ctx, http.StatusUnauthorized, 40106, "unauthorized")
			return
		}
		user, err := users.FindByID(ctx.Request.Context(), ident.UserID)
		if err != nil || user.Username != ident.Username {
			utils.Abort(ctx, http.StatusUnauthorized, 40107, "account no longer exists")
			return
		}
		if !user.IsAdmin() {
			utils.Abort(ctx, http.StatusForbidden, 40301, "admin only")
			return
		}
		ctx.Next()
	}
}
