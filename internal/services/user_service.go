package services

import (
	"context"
	"errors"
	"order_queue/internal/auth"
	"order_queue/internal/models"
	"order_queue/internal/repository"
	"strings"
	"time"

	"github.com/google/uuid"
)

const minPasswordLength = 8

type SignupInput struct {
	Name       string
	Email      string
	Password   string
	InviteCode string
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type UserService interface {
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Signup(ctx context.Context, input SignupInput) (*AuthResult, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name string) (*models.User, error)
}

type userService struct {
	userRepo   repository.UserRepository
	inviteRepo repository.InviteRepository
	tokens     *auth.TokenManager
	now        func() time.Time
}

func NewUserService(userRepo repository.UserRepository, inviteRepo repository.InviteRepository, tokens *auth.TokenManager) UserService {
	return &userService{
		userRepo:   userRepo,
		inviteRepo: inviteRepo,
		tokens:     tokens,
		now:        time.Now,
	}
}

// Authenticate resolves a bearer token to the user it was issued to. Role and
// name come from the stored user, not the token.
func (s *userService) Authenticate(ctx context.Context, token string) (*auth.Principal, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	userID, _, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, internalError("failed to load user", err)
	}

	return &auth.Principal{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
		Name:  user.Name,
	}, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, internalError("failed to load user", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

// Signup redeems an invite. User creation and marking the invite used happen
// in one transaction.
func (s *userService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := normalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, newError(KindInvalidArgument, "A valid email is required.")
	}
	if len(input.Password) < minPasswordLength {
		return nil, newError(KindInvalidArgument, "Password must be at least 8 characters.")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, internalError("failed to hash password", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	err = s.inviteRepo.Redeem(ctx, strings.TrimSpace(input.InviteCode), user, s.now())
	switch {
	case errors.Is(err, repository.ErrInviteInvalid):
		return nil, ErrInviteInvalid
	case errors.Is(err, repository.ErrInviteExpired):
		return nil, ErrInviteExpired
	case errors.Is(err, repository.ErrEmailTaken):
		return nil, ErrEmailTaken
	case err != nil:
		return nil, internalError("failed to redeem invite", err)
	}

	return s.issue(user)
}

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(KindNotFound, "User not found.")
	}
	if err != nil {
		return nil, internalError("failed to load user", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	user, err := s.userRepo.UpdateName(ctx, id, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(KindNotFound, "User not found.")
	}
	if err != nil {
		return nil, internalError("failed to update profile", err)
	}
	return user, nil
}

func (s *userService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Sign(user)
	if err != nil {
		return nil, internalError("failed to sign token", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
