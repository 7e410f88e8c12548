package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/cppla/mzportal/models"
	"github.com/cppla/mzportal/utils"
)

const (
	minUsernameRunes = 2
	maxUsernameRunes = 32
)

// UserRepository reads and writes portal members.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ValidateUsername checks length and character set of a username.
func ValidateUsername(username string) error {
	if username == "" {
		return invalid("username is required")
	}
	n := utf8.RuneCountInString(username)
	if n < minUsernameRunes || n > maxUsernameRunes {
		return invalid("username must be %d-%d characters", minUsernameRunes, maxUsernameRunes)
	}
	for _, r := range username {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			continue
		}
		return invalid("username may only contain letters, digits, '-', '_' and '.'")
	}
	return nil
}

// Signup creates a USER account with a bcrypt hashed password.
func (r *UserRepository) Signup(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalid("username and password are required")
	}
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: username already exists", ErrConflict)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return nil, invalid("password must be at most %d bytes", utils.MaxPasswordBytes)
		}
		return nil, err
	}

	user := models.User{Username: username, PasswordHash: hash, Role: models.RoleUser}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username already exists", ErrConflict)
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies the credentials and returns the matching user.
func (r *UserRepository) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalid("username and password are required")
	}
	user, err := r.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindByUsername loads a user by exact username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err, "user not found")
	}
	return &user, nil
}

// FindByID loads a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, "user not found")
	}
	return &user, nil
}

// lookup returns the user or nil when it does not exist.
func (r *UserRepository) lookup(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, nil
	}
	user, err := r.FindByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return user, err
}

// List returns every user ordered by id.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetRole changes the role of a user.
func (r *UserRepository) SetRole(ctx context.Context, id uint, role string) (*models.User, error) {
	role = strings.ToUpper(strings.TrimSpace(role))
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, invalid("role must be %s or %s", models.RoleUser, models.RoleAdmin)
	}
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

// SeedAdmin creates the bootstrap admin account when credentials are configured
// and promotes every username listed in promote.
func (r *UserRepository) SeedAdmin(ctx context.Context, username, password string, promote []string) error {
	if username != "" && password != "" {
		existing, err := r.lookup(ctx, username)
		if err != nil {
			return err
		}
		if existing == nil {
			hash, err := utils.HashPassword(password)
			if err != nil {
				return fmt.Errorf("hash admin password: %w", err)
			}
			admin := models.User{Username: username, PasswordHash: hash, Role: models.RoleAdmin}
			if err := r.db.WithContext(ctx).Create(&admin).Error; err != nil {
				return fmt.Errorf("create admin %s: %w", username, err)
			}
			utils.Sugar.Infow("admin account created", "username", username)
		} else if !existing.IsAdmin() {
			promote = append(promote, username)
		}
	}

	names := utils.UniqueStrings(promote)
	if len(names) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username IN ? AND role <> ?", names, models.RoleAdmin).
		Update("role", models.RoleAdmin)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		utils.Sugar.Infow("promoted configured admins", "count", res.RowsAffected)
	}
	return nil
}
