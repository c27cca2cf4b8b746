package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type jwtService interface {
	GenerateToken(userID int64, role, district string) (string, error)
}

// Service contains all business logic for authentication and the
// privileged account-deletion operation.
type Service struct {
	users Repository
	jwt   jwtService
}

type LoginResult struct {
	User        *User
	AccessToken string
}

func NewService(users Repository, jwt jwtService) *Service {
	return &Service{users: users, jwt: jwt}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         RoleCitizen,
		District:     strings.TrimSpace(req.District),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.IsBlocked {
		return nil, ErrAccountBlocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role), user.District)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, AccessToken: token}, nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// DeleteAccount removes the user and everything they own: reports (with
// their upvotes and responses), the user's own upvotes, and their
// notifications. The original system performed this through a privileged
// serverless endpoint; here it runs in one transaction.
func (s *Service) DeleteAccount(ctx context.Context, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}

	return s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`DELETE FROM report_upvotes WHERE report_id IN (SELECT id FROM reports WHERE user_id = ?)`, userID,
		).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			`DELETE FROM report_responses WHERE report_id IN (SELECT id FROM reports WHERE user_id = ?)`, userID,
		).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM report_upvotes WHERE user_id = ?`, userID).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM reports WHERE user_id = ?`, userID).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM notifications WHERE user_id = ?`, userID).Error; err != nil {
			return err
		}
		return tx.Delete(&User{}, userID).Error
	})
}
