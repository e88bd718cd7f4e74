package services

import (
	"context"
	"errors"
	"log"
	"order_queue/internal/auth"
	"order_queue/internal/events"
	"order_queue/internal/models"
	"order_queue/internal/repository"
	"strings"
	"time"

	"github.com/google/uuid"
)

const notifyTimeout = 15 * time.Second

type CreateOrderInput struct {
	CustomerName  string
	CustomerPhone *string
	Items         []CartLine
}

// CreateOrderResult has a nil Order when no cart line survived reconciliation.
type CreateOrderResult struct {
	Order              *models.OrderView `json:"order"`
	Removed            []RemovedCartItem `json:"removed"`
	TrackingCredential string            `json:"tracking_credential,omitempty"`
}

type TrackedOrder struct {
	Order              *models.OrderView `json:"order"`
	TrackingCredential string            `json:"tracking_credential"`
}

// OrderNotifier is told about orders that just became READY.
type OrderNotifier interface {
	NotifyOrderReady(ctx context.Context, order models.OrderView) error
}

type OrderService interface {
	CreatePublicOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	GetPublicOrder(ctx context.Context, id uuid.UUID) (*TrackedOrder, error)
	GetTrackedOrder(ctx context.Context, id uuid.UUID, credential string) (*models.OrderView, error)
	ListActiveSessionOrders(ctx context.Context) ([]models.OrderView, error)
	AssignOrderToUser(ctx context.Context, id, userID uuid.UUID) (*models.OrderView, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, actor *auth.Principal) (*models.OrderView, error)
	UnassignOrder(ctx context.Context, id uuid.UUID, actor *auth.Principal) (*models.OrderView, error)
}

type orderService struct {
	orderRepo     repository.OrderRepository
	orderItemRepo repository.OrderItemRepository
	sessionRepo   repository.SessionRepository
	cart          CartService
	tracking      *auth.TrackingIssuer
	publisher     events.Publisher
	notifier      OrderNotifier
	policy        StatusPolicy
	now           func() time.Time
}

// NewOrderService builds the order lifecycle engine. publisher and notifier may be nil.
func NewOrderService(
	orderRepo repository.OrderRepository,
	orderItemRepo repository.OrderItemRepository,
	sessionRepo repository.SessionRepository,
	cart CartService,
	tracking *auth.TrackingIssuer,
	publisher events.Publisher,
	notifier OrderNotifier,
	policy StatusPolicy,
) OrderService {
	if publisher == nil {
		publisher = events.Fanout{}
	}
	return &orderService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		sessionRepo:   sessionRepo,
		cart:          cart,
		tracking:      tracking,
		publisher:     publisher,
		notifier:      notifier,
		policy:        policy,
		now:           time.Now,
	}
}

func (s *orderService) CreatePublicOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	name := strings.TrimSpace(input.CustomerName)
	if name == "" {
		return nil, ErrCustomerNameRequired
	}
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	session, err := s.activeSession(ctx)
	if err != nil {
		return nil, err
	}

	reconciled, err := s.cart.RefreshCartItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	if len(reconciled.Active) == 0 {
		return &CreateOrderResult{Removed: reconciled.Removed}, nil
	}

	total := 0
	items := make([]models.OrderItem, 0, len(reconciled.Active))
	for _, line := range reconciled.Active {
		total += line.PriceCents * line.Quantity
		items = append(items, models.OrderItem{
			MenuItemID:     line.MenuItemID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.PriceCents,
		})
	}

	trackingToken, err := auth.NewTrackingToken()
	if err != nil {
		return nil, internalError("failed to generate tracking token", err)
	}

	now := s.now()
	order := &models.Order{
		SessionID:       session.ID,
		CustomerName:    name,
		CustomerPhone:   emptyToNil(input.CustomerPhone),
		Status:          string(models.OrderPending),
		TotalPriceCents: total,
		TrackingToken:   trackingToken,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.orderRepo.CreateWithItems(ctx, order, items); err != nil {
		return nil, internalError("failed to create order", err)
	}

	tracked, err := s.GetPublicOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderCreated, tracked.Order)

	return &CreateOrderResult{
		Order:              tracked.Order,
		Removed:            reconciled.Removed,
		TrackingCredential: tracked.TrackingCredential,
	}, nil
}

// GetPublicOrder re-derives the tracking credential on every read.
func (s *orderService) GetPublicOrder(ctx context.Context, id uuid.UUID) (*TrackedOrder, error) {
	view, err := s.orderView(ctx, id)
	if err != nil {
		return nil, err
	}
	credential, err := s.tracking.Derive(view.TrackingToken)
	if err != nil {
		return nil, internalError("failed to derive tracking credential", err)
	}
	return &TrackedOrder{Order: view, TrackingCredential: credential}, nil
}

// GetTrackedOrder returns the order only if credential was derived from its tracking token.
func (s *orderService) GetTrackedOrder(ctx context.Context, id uuid.UUID, credential string) (*models.OrderView, error) {
	token, err := s.tracking.Verify(credential)
	if err != nil {
		return nil, ErrInvalidToken
	}
	view, err := s.orderView(ctx, id)
	if err != nil {
		return nil, err
	}
	if view.TrackingToken != token {
		return nil, ErrOrderNotFound
	}
	return view, nil
}

func (s *orderService) ListActiveSessionOrders(ctx context.Context) ([]models.OrderView, error) {
	session, err := s.activeSession(ctx)
	if err != nil {
		return nil, err
	}

	views, err := s.orderRepo.ListViewsBySession(ctx, session.ID)
	if err != nil {
		return nil, internalError("failed to list orders", err)
	}
	if len(views) == 0 {
		return []models.OrderView{}, nil
	}

	ids := make([]uuid.UUID, len(views))
	index := make(map[uuid.UUID]int, len(views))
	for i, v := range views {
		ids[i] = v.ID
		index[v.ID] = i
		views[i].Items = []models.OrderItemView{}
	}

	items, err := s.orderItemRepo.ListViewsByOrderIDs(ctx, ids)
	if err != nil {
		return nil, internalError("failed to list order items", err)
	}
	for _, item := range items {
		if i, ok := index[item.OrderID]; ok {
			views[i].Items = append(views[i].Items, item)
		}
	}
	return views, nil
}

func (s *orderService) AssignOrderToUser(ctx context.Context, id, userID uuid.UUID) (*models.OrderView, error) {
	order, err := s.mutableOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.AssignedWorkerID != nil {
		if *order.AssignedWorkerID == userID {
			return s.orderView(ctx, id)
		}
		return nil, ErrOrderAlreadyAssigned
	}

	won, err := s.orderRepo.AssignIfUnassigned(ctx, id, userID, s.now())
	if err != nil {
		return nil, internalError("failed to assign order", err)
	}
	if !won {
		// Lost the race, unless the winner was this same user.
		current, err := s.orderRepo.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		if err != nil {
			return nil, internalError("failed to reload order", err)
		}
		if current.AssignedWorkerID == nil || *current.AssignedWorkerID != userID {
			return nil, ErrOrderAlreadyAssigned
		}
		return s.orderView(ctx, id)
	}

	view, err := s.orderView(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderAssigned, view)
	return view, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, actor *auth.Principal) (*models.OrderView, error) {
	order, err := s.mutableOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !auth.Can(actor, auth.ActionUpdateStatus, auth.Resource{AssignedWorkerID: order.AssignedWorkerID}) {
		return nil, ErrNotAssigned
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	previous := models.OrderStatus(order.Status)
	if !s.policy.Allows(previous, status) {
		return nil, ErrStatusTransition
	}

	err = s.orderRepo.UpdateStatus(ctx, id, status, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, internalError("failed to update order status", err)
	}

	view, err := s.orderView(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderStatusChanged, view)
	if status == models.OrderReady && previous != models.OrderReady {
		s.notifyReady(*view)
	}
	return view, nil
}

func (s *orderService) UnassignOrder(ctx context.Context, id uuid.UUID, actor *auth.Principal) (*models.OrderView, error) {
	order, err := s.mutableOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !auth.Can(actor, auth.ActionUnassignOrder, auth.Resource{AssignedWorkerID: order.AssignedWorkerID}) {
		return nil, ErrUnassignForbidden
	}

	err = s.orderRepo.Unassign(ctx, id, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, internalError("failed to unassign order", err)
	}

	view, err := s.orderView(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.OrderUnassigned, view)
	return view, nil
}

func (s *orderService) activeSession(ctx context.Context) (*models.Session, error) {
	session, err := s.sessionRepo.GetActive(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoActiveSession
	}
	if err != nil {
		return nil, internalError("failed to load active session", err)
	}
	return session, nil
}

// mutableOrder loads an order that belongs to the active session. Orders of
// closed sessions are frozen.
func (s *orderService) mutableOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	session, err := s.activeSession(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, internalError("failed to load order", err)
	}
	if order.SessionID != session.ID {
		return nil, ErrOrderSessionClosed
	}
	return order, nil
}

func (s *orderService) orderView(ctx context.Context, id uuid.UUID) (*models.OrderView, error) {
	view, err := s.orderRepo.GetView(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, internalError("failed to load order", err)
	}

	items, err := s.orderItemRepo.ListViewsByOrderIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, internalError("failed to load order items", err)
	}
	view.Items = items
	if view.Items == nil {
		view.Items = []models.OrderItemView{}
	}
	return view, nil
}

// publish never fails the mutation that triggered it.
func (s *orderService) publish(ctx context.Context, eventType events.EventType, view *models.OrderView) {
	event := events.OrderEvent{
		Type:             eventType,
		OrderID:          view.ID,
		SessionID:        view.SessionID,
		Status:           view.Status,
		AssignedWorkerID: view.AssignedWorkerID,
		OccurredAt:       s.now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("Failed to publish %s for order %s: %v", eventType, view.ID, err)
	}
}

func (s *orderService) notifyReady(view models.OrderView) {
	if s.notifier == nil || view.CustomerPhone == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.NotifyOrderReady(ctx, view); err != nil {
			log.Printf("Failed to notify customer for order %s: %v", view.ID, err)
		}
	}()
}
