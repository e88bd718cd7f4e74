package migrations

import (
	"context"
	"errors"
	"fmt"
	"log"
	"order_queue/internal/auth"
	"order_queue/internal/models"
	"order_queue/internal/repository"
	"strings"

	"gorm.io/gorm"
)

// Owner is the account created on first boot when no user has its email.
type Owner struct {
	Email    string
	Password string
	Name     string
}

// RunMigrations brings the schema up to date and bootstraps the owner account.
func RunMigrations(ctx context.Context, db *gorm.DB, owner Owner) error {
	log.Println("Running database migrations...")

	err := db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.InviteToken{},
		&models.NotificationEvent{},
	)
	if err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	// at most one open session
	err = db.WithContext(ctx).Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_sessions_single_active ON sessions (is_active) WHERE is_active`,
	).Error
	if err != nil {
		return fmt.Errorf("create active session index: %w", err)
	}

	if err := createOwner(ctx, repository.NewUserRepository(db), owner); err != nil {
		log.Printf("Warning: Failed to create owner account: %v", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

func createOwner(ctx context.Context, userRepo repository.UserRepository, owner Owner) error {
	email := strings.ToLower(strings.TrimSpace(owner.Email))
	if email == "" || owner.Password == "" {
		log.Println("OWNER_EMAIL or OWNER_PASSWORD not set, skipping owner bootstrap")
		return nil
	}

	_, err := userRepo.GetByEmail(ctx, email)
	if err == nil {
		log.Println("Owner account already exists")
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(owner.Password)
	if err != nil {
		return err
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         string(models.RoleOwner),
		Name:         owner.Name,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return err
	}
	log.Printf("Owner account created: %s", email)
	return nil
}
