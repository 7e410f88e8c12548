package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/mzportal/middleware"
	"github.com/cppla/mzportal/models"
	"github.com/cppla/mzportal/repository"
	"github.com/cppla/mzportal/utils"
)

// AuthController handles signup, login and the admin user endpoints.
type AuthController struct {
	users *repository.UserRepository
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{users: repository.NewUserRepository(db)}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func userResponse(user models.User) gin.H {
	return gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"role":      user.Role,
		"createdAt": user.CreatedAt,
	}
}

func issueToken(user models.User) (string, error) {
	return utils.GenerateToken(user.ID, user.Username, user.Role, utils.TokenTTL())
}

// Signup registers a USER account and logs it in.
func (a *AuthController) Signup(ctx *gin.Context) {
	var req credentials
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	if req.Username == "" || req.Password == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username and password are required")
		return
	}

	ip := ctx.ClientIP()
	if !utils.SignupCooldownTry(ip) {
		utils.Error(ctx, http.StatusTooManyRequests, 42910, "too many signup attempts, try again later")
		return
	}
	if !utils.SignupDailyLimitCheck(ip) {
		utils.Error(ctx, http.StatusTooManyRequests, 42911, "daily signup limit reached")
		return
	}

	user, err := a.users.Signup(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(ctx, err, 50001, "failed to create user")
		return
	}
	utils.SignupDailyIncrement(ip)

	token, err := issueToken(*user)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to issue token")
		return
	}
	utils.Sugar.Infow("user signed up", "username", user.Username, "ip", ip)
	utils.Success(ctx, gin.H{"success": true, "user": userResponse(*user), "token": token})
}

// Login verifies credentials against the stored bcrypt hash.
func (a *AuthController) Login(ctx *gin.Context) {
	var req credentials
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}
	if req.Username == "" || req.Password == "" {
		utils.Error(ctx, http.StatusBadRequest, 40004, "username and password are required")
		return
	}

	user, err := a.users.Authenticate(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			utils.Respond(ctx, http.StatusUnauthorized, 40111, "invalid username or password", gin.H{"success": false})
			return
		}
		respondError(ctx, err, 50003, "failed to login")
		return
	}

	token, err := issueToken(*user)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to issue token")
		return
	}
	utils.Success(ctx, gin.H{
		"success": true,
		"role":    user.Role,
		"token":   token,
		"user":    userResponse(*user),
	})
}

// Logout revokes the presented token until it would have expired anyway.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	expiresAt := time.Now().Add(utils.TokenTTL())
	if v, ok := ctx.Get(middleware.ContextClaimsKey); ok {
		if claims, ok := v.(*utils.Claims); ok && claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
	}
	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"success": true})
}

// Me returns the caller as currently stored, including a role changed since login.
func (a *AuthController) Me(ctx *gin.Context) {
	ident, ok := middleware.IdentityFrom(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}
	user, err := a.users.FindByID(ctx.Request.Context(), ident.UserID)
	if err != nil {
		respondError(ctx, err, 50005, "failed to load user")
		return
	}
	utils.Success(ctx, gin.H{"user": userResponse(*user)})
}

// ListUsers returns every account for the admin panel.
func (a *AuthController) ListUsers(ctx *gin.Context) {
	users, err := a.users.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err, 50006, "failed to retrieve users")
		return
	}
	items := make([]gin.H, 0, len(users))
	for _, u := range users {
		items = append(items, userResponse(u))
	}
	utils.Success(ctx, items)
}

// SetRole promotes or demotes a user.
func (a *AuthController) SetRole(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40005, "role is required")
		return
	}
	user, err := a.users.SetRole(ctx.Request.Context(), id, req.Role)
	if err != nil {
		respondError(ctx, err, 50007, "failed to update role")
		return
	}
	ident, _ := middleware.IdentityFrom(ctx)
	utils.Sugar.Infow("role changed", "by", ident.Username, "user", user.Username, "role", user.Role)
	utils.Success(ctx, userResponse(*user))
}
