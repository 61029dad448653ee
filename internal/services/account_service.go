package services

import (
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookstore/internal/auth"
	"bookstore/internal/models"
	"bookstore/internal/repositories"
)

// RegisterInput carries the fields of a registration request. Password length and
// confirmation matching are enforced by request binding before this layer.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ProfileInput carries the mutable fields of a user profile. Role and IsActive are
// applied only when the actor is an admin.
type ProfileInput struct {
	Email     string
	FirstName string
	LastName  string
	Role      models.UserRole
	IsActive  *bool
}

// ─── Service Interface ────────────────────────────────────────────────────────

// AccountService manages registration, login and user profiles.
type AccountService interface {
	Register(input RegisterInput) (*models.User, error)
	Authenticate(username, password string) (*models.User, error)
	GetUser(actor *models.User, id uuid.UUID) (*models.User, error)
	ListUsers(actor *models.User) ([]models.User, error)
	UpdateUser(actor *models.User, id uuid.UUID, input ProfileInput) (*models.User, error)
	DeleteUser(actor *models.User, id uuid.UUID) error
}

// ─── Implementation ───────────────────────────────────────────────────────────

type accountService struct {
	db       *gorm.DB
	userRepo repositories.UserRepository
}

// NewAccountService wires up all dependencies and returns an AccountService.
func NewAccountService(db *gorm.DB, userRepo repositories.UserRepository) AccountService {
	return &accountService{db: db, userRepo: userRepo}
}

// Register creates a new active account with role "user". The username pre-check
// keeps the common case friendly; the unique index on username is the backstop.
func (s *accountService) Register(input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, &ValidationError{Field: "username", Message: "must not be empty"}
	}
	if len(input.Password) < 8 {
		return nil, &ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}

	if _, err := s.userRepo.GetByUsername(nil, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		log.Printf("[ERROR] Register: failed to hash password for %q: %v", username, err)
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		Role:         models.UserRoleUser,
		IsActive:     true,
	}
	if err := s.userRepo.Create(nil, user); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		log.Printf("[ERROR] Register: failed to create user %q: %v", username, err)
		return nil, err
	}
	log.Printf("[INFO] Register: user %q registered (id=%s)", user.Username, user.ID)
	return user, nil
}

// Authenticate verifies username/password and rejects disabled accounts. It never
// reveals whether the username or the password was wrong.
func (s *accountService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(nil, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		log.Printf("[WARN] Authenticate: bad password for user %q", username)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// GetUser returns the profile if the actor is the user themselves or an admin.
func (s *accountService) GetUser(actor *models.User, id uuid.UUID) (*models.User, error) {
	if !CanAccess(actor, id) {
		return nil, ErrForbidden
	}
	user, err := s.userRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns every account for admins, and a single-element list holding
// the caller's own profile for everyone else.
func (s *accountService) ListUsers(actor *models.User) ([]models.User, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	if IsAdmin(actor) {
		return s.userRepo.List(nil)
	}
	self, err := s.userRepo.GetByID(nil, actor.ID)
	if err != nil {
		return nil, err
	}
	return []models.User{*self}, nil
}

// UpdateUser edits a profile. Non-admins may only touch their own email and name
// fields; role and active-flag changes require admin.
func (s *accountService) UpdateUser(actor *models.User, id uuid.UUID, input ProfileInput) (*models.User, error) {
	if !CanAccess(actor, id) {
		return nil, ErrForbidden
	}
	user, err := s.userRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Email = input.Email
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	if IsAdmin(actor) {
		if input.Role != "" {
			switch input.Role {
			case models.UserRoleGuest, models.UserRoleUser, models.UserRoleAdmin:
				user.Role = input.Role
			default:
				return nil, &ValidationError{Field: "role", Message: "must be one of guest, user, admin"}
			}
		}
		if input.IsActive != nil {
			user.IsActive = *input.IsActive
		}
	}

	if err := s.userRepo.Update(nil, user); err != nil {
		log.Printf("[ERROR] UpdateUser: failed to update user %s: %v", id, err)
		return nil, err
	}
	log.Printf("[INFO] UpdateUser: user %s updated by %s", id, actor.ID)
	return user, nil
}

// DeleteUser removes the account; the FK cascades remove their orders and reviews.
func (s *accountService) DeleteUser(actor *models.User, id uuid.UUID) error {
	if !CanAccess(actor, id) {
		return ErrForbidden
	}
	if _, err := s.userRepo.GetByID(nil, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.userRepo.Delete(nil, id); err != nil {
		log.Printf("[ERROR] DeleteUser: failed to delete user %s: %v", id, err)
		return err
	}
	log.Printf("[INFO] DeleteUser: user %s deleted by %s", id, actor.ID)
	return nil
}
