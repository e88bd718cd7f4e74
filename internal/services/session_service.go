package services

import (
	"context"
	"errors"
	"log"
	"order_queue/internal/models"
	"order_queue/internal/repository"
	"strings"

	"github.com/google/uuid"
)

type SessionService interface {
	GetActiveSession(ctx context.Context) (*models.Session, error)
	ActivateSession(ctx context.Context, id uuid.UUID) (*models.Session, error)
	CloseSession(ctx context.Context, id uuid.UUID) (*models.Session, error)
	CreateSession(ctx context.Context, name string) (*models.Session, error)
	ListSessions(ctx context.Context) ([]models.Session, error)
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	cache       Cache
}

// NewSessionService builds the session registry. cache may be nil.
func NewSessionService(sessionRepo repository.SessionRepository, cache Cache) SessionService {
	return &sessionService{sessionRepo: sessionRepo, cache: cache}
}

func (s *sessionService) GetActiveSession(ctx context.Context) (*models.Session, error) {
	session, err := s.sessionRepo.GetActive(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoActiveSession
	}
	if err != nil {
		return nil, internalError("failed to load active session", err)
	}
	return session, nil
}

func (s *sessionService) ActivateSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	session, err := s.sessionRepo.Activate(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, internalError("failed to activate session", err)
	}
	s.invalidateMenu(ctx)
	return session, nil
}

// CloseSession is idempotent: closing an inactive session succeeds.
func (s *sessionService) CloseSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	session, err := s.sessionRepo.Close(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, internalError("failed to close session", err)
	}
	s.invalidateMenu(ctx)
	return session, nil
}

func (s *sessionService) CreateSession(ctx context.Context, name string) (*models.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	session := &models.Session{Name: name, IsActive: false}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, internalError("failed to create session", err)
	}
	return session, nil
}

func (s *sessionService) ListSessions(ctx context.Context) ([]models.Session, error) {
	sessions, err := s.sessionRepo.List(ctx)
	if err != nil {
		return nil, internalError("failed to list sessions", err)
	}
	return sessions, nil
}

// The public menu payload embeds the active session.
func (s *sessionService) invalidateMenu(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteCache(ctx, publicMenuCacheKey); err != nil {
		log.Printf("Failed to invalidate public menu cache: %v", err)
	}
}
