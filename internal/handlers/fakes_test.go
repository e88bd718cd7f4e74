package handlers

import (
	"context"
	"order_queue/internal/auth"
	"order_queue/internal/events"
	"order_queue/internal/models"
	"order_queue/internal/services"
	"order_queue/internal/validation"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type stubSessionService struct {
	active   *models.Session
	sessions []models.Session
	err      error
}

func (s *stubSessionService) GetActiveSession(ctx context.Context) (*models.Session, error) {
	if s.active == nil {
		return nil, services.ErrNoActiveSession
	}
	return s.active, nil
}

func (s *stubSessionService) ActivateSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			s.sessions[i].IsActive = true
			return &s.sessions[i], nil
		}
	}
	return nil, services.ErrSessionNotFound
}

func (s *stubSessionService) CloseSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			s.sessions[i].IsActive = false
			return &s.sessions[i], nil
		}
	}
	return nil, services.ErrSessionNotFound
}

func (s *stubSessionService) CreateSession(ctx context.Context, name string) (*models.Session, error) {
	session := models.Session{ID: uuid.New(), Name: name}
	s.sessions = append(s.sessions, session)
	return &session, nil
}

func (s *stubSessionService) ListSessions(ctx context.Context) ([]models.Session, error) {
	return s.sessions, s.err
}

type stubMenuService struct {
	menu  *services.PublicMenu
	items []models.MenuItem
	err   error
	patch services.MenuItemPatch
}

func (s *stubMenuService) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	return s.items, s.err
}

func (s *stubMenuService) GetActiveMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	return s.items, s.err
}

func (s *stubMenuService) GetPublicMenu(ctx context.Context) (*services.PublicMenu, error) {
	return s.menu, s.err
}

func (s *stubMenuService) CreateMenuItem(ctx context.Context, input services.MenuItemInput) (*models.MenuItem, error) {
	item := models.MenuItem{ID: uuid.New(), Name: input.Name, PriceCents: input.PriceCents, Badges: input.Badges, IsActive: true}
	s.items = append(s.items, item)
	return &item, nil
}

func (s *stubMenuService) UpdateMenuItem(ctx context.Context, id uuid.UUID, patch services.MenuItemPatch) (*models.MenuItem, error) {
	s.patch = patch
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, services.ErrMenuItemNotFound
}

func (s *stubMenuService) DeleteMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	return nil, s.err
}

func (s *stubMenuService) ReorderMenuItems(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	return s.items, s.err
}

type stubCartService struct {
	lines  []services.CartLine
	result *services.CartResult
}

func (s *stubCartService) RefreshCartItems(ctx context.Context, lines []services.CartLine) (*services.CartResult, error) {
	s.lines = lines
	return s.result, nil
}

type stubOrderService struct {
	mu           sync.Mutex
	orders       map[uuid.UUID]*models.OrderView
	credential   string
	createResult *services.CreateOrderResult
	err          error
	lastActor    *auth.Principal
	lastStatus   models.OrderStatus
}

func newStubOrderService() *stubOrderService {
	return &stubOrderService{orders: map[uuid.UUID]*models.OrderView{}, credential: "good-credential"}
}

func (s *stubOrderService) add(order models.OrderView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = &order
}

func (s *stubOrderService) get(id uuid.UUID) (*models.OrderView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, services.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *stubOrderService) CreatePublicOrder(ctx context.Context, input services.CreateOrderInput) (*services.CreateOrderResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.createResult, nil
}

func (s *stubOrderService) GetPublicOrder(ctx context.Context, id uuid.UUID) (*services.TrackedOrder, error) {
	order, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return &services.TrackedOrder{Order: order, TrackingCredential: s.credential}, nil
}

func (s *stubOrderService) GetTrackedOrder(ctx context.Context, id uuid.UUID, credential string) (*models.OrderView, error) {
	if credential != s.credential {
		return nil, services.ErrInvalidToken
	}
	return s.get(id)
}

func (s *stubOrderService) ListActiveSessionOrders(ctx context.Context) ([]models.OrderView, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.OrderView{}
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *stubOrderService) AssignOrderToUser(ctx context.Context, id, userID uuid.UUID) (*models.OrderView, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, services.ErrOrderNotFound
	}
	if order.AssignedWorkerID != nil && *order.AssignedWorkerID != userID {
		return nil, services.ErrOrderAlreadyAssigned
	}
	order.AssignedWorkerID = &userID
	copied := *order
	return &copied, nil
}

func (s *stubOrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, actor *auth.Principal) (*models.OrderView, error) {
	s.lastActor, s.lastStatus = actor, status
	if s.err != nil {
		return nil, s.err
	}
	return s.get(id)
}

func (s *stubOrderService) UnassignOrder(ctx context.Context, id uuid.UUID, actor *auth.Principal) (*models.OrderView, error) {
	s.lastActor = actor
	if s.err != nil {
		return nil, s.err
	}
	return s.get(id)
}

type stubUserService struct {
	principals map[string]*auth.Principal
	users      map[uuid.UUID]*models.User
}

func (s *stubUserService) Authenticate(ctx context.Context, token string) (*auth.Principal, error) {
	p, ok := s.principals[token]
	if !ok {
		return nil, services.ErrInvalidToken
	}
	return p, nil
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	for _, u := range s.users {
		if u.Email == email && password == "correct-horse" {
			return &services.AuthResult{Token: "token-for-" + u.Name, User: u}, nil
		}
	}
	return nil, services.ErrInvalidCredentials
}

func (s *stubUserService) Signup(ctx context.Context, input services.SignupInput) (*services.AuthResult, error) {
	if input.InviteCode != "AAAA-BBBB-CCCC" {
		return nil, services.ErrInviteInvalid
	}
	user := &models.User{ID: uuid.New(), Email: input.Email, Name: input.Name, Role: string(models.RoleWorker)}
	return &services.AuthResult{Token: "new-token", User: user}, nil
}

func (s *stubUserService) GetProfile(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, &services.Error{Kind: services.KindNotFound, Message: "User not found."}
	}
	return u, nil
}

func (s *stubUserService) UpdateProfile(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	u, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Name = name
	return u, nil
}

type stubInviteService struct{}

func (stubInviteService) CreateInvite(ctx context.Context, creator *auth.Principal, role string) (*models.InviteToken, error) {
	return &models.InviteToken{ID: uuid.New(), Code: "AAAA-BBBB-CCCC", Role: role, CreatedByUserID: &creator.ID}, nil
}

type stubNotificationService struct {
	notified []uuid.UUID
	err      error
}

func (s *stubNotificationService) NotifyOrderReady(ctx context.Context, order models.OrderView) error {
	s.notified = append(s.notified, order.ID)
	return s.err
}

func (s *stubNotificationService) ListForOrder(ctx context.Context, orderID uuid.UUID) ([]models.NotificationEvent, error) {
	return []models.NotificationEvent{}, nil
}

// replaySubscriber delivers a fixed batch of events and then ends the subscription.
type replaySubscriber struct {
	events []events.OrderEvent
	err    error
}

func (s *replaySubscriber) Subscribe(ctx context.Context) (<-chan events.OrderEvent, error) {
	if s.err != nil {
		return nil, s.err
	}
	ch := make(chan events.OrderEvent, len(s.events))
	for _, e := range s.events {
		ch <- e
	}
	close(ch)
	return ch, nil
}

type testServer struct {
	router        *gin.Engine
	api           *APIHandler
	sessions      *stubSessionService
	menu          *stubMenuService
	cart          *stubCartService
	orders        *stubOrderService
	users         *stubUserService
	notifications *stubNotificationService
	subscriber    *replaySubscriber
	worker        *auth.Principal
	admin         *auth.Principal
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)

	s := &testServer{
		sessions:      &stubSessionService{},
		menu:          &stubMenuService{},
		cart:          &stubCartService{},
		orders:        newStubOrderService(),
		notifications: &stubNotificationService{},
		subscriber:    &replaySubscriber{},
		worker:        &auth.Principal{ID: uuid.New(), Email: "w@example.com", Role: string(models.RoleWorker), Name: "Wes"},
		admin:         &auth.Principal{ID: uuid.New(), Email: "a@example.com", Role: string(models.RoleAdmin), Name: "Ada"},
	}
	s.users = &stubUserService{
		principals: map[string]*auth.Principal{"worker-token": s.worker, "admin-token": s.admin},
		users: map[uuid.UUID]*models.User{
			s.worker.ID: {ID: s.worker.ID, Email: s.worker.Email, Name: s.worker.Name, Role: s.worker.Role},
		},
	}

	v := validation.New()
	s.api = &APIHandler{
		Public:        NewPublicHandler(s.sessions, s.menu, s.cart, s.orders, s.subscriber, v),
		Auth:          NewAuthHandler(s.users, v),
		Orders:        NewOrderHandler(s.orders, s.subscriber, v),
		Sessions:      NewSessionHandler(s.sessions, v),
		Menu:          NewMenuHandler(s.menu, v),
		Invites:       NewInviteHandler(stubInviteService{}, v),
		WhatsApp:      NewWhatsAppHandler(s.notifications, s.orders),
		Authenticator: s.users,
		Checks:        map[string]Pinger{},
	}
	s.router = NewRouter(s.api)
	return s
}
