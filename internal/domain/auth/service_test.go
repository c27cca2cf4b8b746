package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"

	// registers the cgo-free "sqlite" database/sql driver
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"ecoreport/internal/domain/notification"
	"ecoreport/internal/domain/report"
)

type stubJWT struct{}

func (stubJWT) GenerateToken(userID int64, role, district string) (string, error) {
	return fmt.Sprintf("token-%d-%s", userID, role), nil
}

type failingJWT struct{}

func (failingJWT) GenerateToken(int64, string, string) (string, error) {
	return "", errors.New("signing key unavailable")
}

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:auth_test_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	err = db.AutoMigrate(&User{}, &report.Report{}, &report.Upvote{}, &report.Response{}, &notification.Notification{})
	if err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return NewService(NewRepository(db), stubJWT{}), db
}

func register(t *testing.T, svc *Service, email string) *User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Test Citizen",
		Email:    email,
		Password: "secret123",
		District: "San Isidro",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := setupTestService(t)

	user := register(t, svc, "Citizen@Example.COM")
	if user.Email != "citizen@example.com" {
		t.Fatalf("expected lowercased email, got %s", user.Email)
	}
	if user.Role != RoleCitizen {
		t.Fatalf("expected citizen role, got %s", user.Role)
	}
	if user.PasswordHash != "" {
		t.Fatal("password hash must not leak out of the service")
	}

	res, err := svc.Login(context.Background(), LoginRequest{Email: "citizen@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if res.AccessToken == "" {
		t.Fatal("expected an access token")
	}
	if res.User.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, res.User.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := setupTestService(t)
	register(t, svc, "dup@example.com")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Second",
		Email:    "DUP@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := setupTestService(t)
	register(t, svc, "wrongpass@example.com")

	_, err := svc.Login(context.Background(), LoginRequest{Email: "wrongpass@example.com", Password: "not-it"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginBlockedAccount(t *testing.T) {
	svc, db := setupTestService(t)
	user := register(t, svc, "blocked@example.com")

	if err := db.Model(&User{}).Where("id = ?", user.ID).
		Updates(map[string]any{"is_blocked": true, "block_reason": "spam reports"}).Error; err != nil {
		t.Fatalf("failed to block user: %v", err)
	}

	_, err := svc.Login(context.Background(), LoginRequest{Email: "blocked@example.com", Password: "secret123"})
	if !errors.Is(err, ErrAccountBlocked) {
		t.Fatalf("expected ErrAccountBlocked, got %v", err)
	}
}

func TestDeleteAccountRemovesOwnedRows(t *testing.T) {
	svc, db := setupTestService(t)
	user := register(t, svc, "leaving@example.com")
	other := register(t, svc, "staying@example.com")

	mine := &report.Report{UserID: user.ID, Type: "air", Description: "haze", Status: report.StatusPending}
	theirs := &report.Report{UserID: other.ID, Type: "water", Description: "runoff", Status: report.StatusPending}
	if err := db.Create(mine).Error; err != nil {
		t.Fatalf("failed to seed report: %v", err)
	}
	if err := db.Create(theirs).Error; err != nil {
		t.Fatalf("failed to seed report: %v", err)
	}

	// upvote on my report by someone else, and my upvote on theirs
	db.Create(&report.Upvote{ReportID: mine.ID, UserID: other.ID})
	db.Create(&report.Upvote{ReportID: theirs.ID, UserID: user.ID})
	db.Create(&report.Response{ReportID: mine.ID, AdminID: 1, Message: "noted"})
	db.Create(&notification.Notification{UserID: user.ID, Type: "report_approved", Title: "Approved"})

	if err := svc.DeleteAccount(context.Background(), user.ID); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}

	counts := map[string]int64{}
	for table, model := range map[string]any{
		"users":            &User{},
		"reports":          &report.Report{},
		"report_upvotes":   &report.Upvote{},
		"report_responses": &report.Response{},
		"notifications":    &notification.Notification{},
	} {
		var n int64
		db.Model(model).Count(&n)
		counts[table] = n
	}

	if counts["users"] != 1 {
		t.Fatalf("expected only the other user to remain, got %d", counts["users"])
	}
	if counts["reports"] != 1 {
		t.Fatalf("expected only the other user's report to remain, got %d", counts["reports"])
	}
	if counts["report_upvotes"] != 0 {
		t.Fatalf("expected all related upvotes deleted, got %d", counts["report_upvotes"])
	}
	if counts["report_responses"] != 0 {
		t.Fatalf("expected responses on deleted reports removed, got %d", counts["report_responses"])
	}
	if counts["notifications"] != 0 {
		t.Fatalf("expected the user's notifications removed, got %d", counts["notifications"])
	}

	if _, err := svc.GetCurrentUser(context.Background(), user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after deletion, got %v", err)
	}
}

func TestLoginTokenFailureSurfaces(t *testing.T) {
	svc, db := setupTestService(t)
	register(t, svc, "nosign@example.com")

	broken := NewService(NewRepository(db), failingJWT{})
	_, err := broken.Login(context.Background(), LoginRequest{Email: "nosign@example.com", Password: "secret123"})
	if err == nil {
		t.Fatal("expected signing error to surface")
	}
}
