package services

import (
	"context"
	"fmt"
	"order_queue/internal/models"
	"order_queue/internal/repository"
	"time"

	"github.com/google/uuid"
)

// MessageSender delivers a text message and returns the provider's message id.
type MessageSender interface {
	SendTextMessage(ctx context.Context, phone, message string) (string, error)
}

type NotificationService interface {
	OrderNotifier
	ListForOrder(ctx context.Context, orderID uuid.UUID) ([]models.NotificationEvent, error)
}

type notificationService struct {
	sender           MessageSender
	notificationRepo repository.NotificationRepository
	now              func() time.Time
}

// NewNotificationService sends order-ready messages and records each attempt.
func NewNotificationService(sender MessageSender, notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{sender: sender, notificationRepo: notificationRepo, now: time.Now}
}

func (s *notificationService) NotifyOrderReady(ctx context.Context, order models.OrderView) error {
	if order.CustomerPhone == nil || *order.CustomerPhone == "" {
		return nil
	}

	message := fmt.Sprintf("Hi %s, your order is ready for pickup!", order.CustomerName)
	orderID := order.ID
	event := &models.NotificationEvent{
		OrderID: &orderID,
		Phone:   *order.CustomerPhone,
		Type:    models.NotificationOrderReady,
		Message: message,
		Status:  models.NotificationSent,
		SentAt:  s.now(),
	}

	messageID, sendErr := s.sender.SendTextMessage(ctx, *order.CustomerPhone, message)
	if sendErr != nil {
		event.Status = models.NotificationFailed
	} else if messageID != "" {
		event.ProviderMessageID = &messageID
	}

	if err := s.notificationRepo.Create(ctx, event); err != nil {
		if sendErr != nil {
			return fmt.Errorf("send failed: %v; record failed: %w", sendErr, err)
		}
		return fmt.Errorf("failed to record notification: %w", err)
	}
	return sendErr
}

func (s *notificationService) ListForOrder(ctx context.Context, orderID uuid.UUID) ([]models.NotificationEvent, error) {
	events, err := s.notificationRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, internalError("failed to list notifications", err)
	}
	if events == nil {
		events = []models.NotificationEvent{}
	}
	return events, nil
}
