package services

import (
	"context"
	"encoding/json"
	"errors"
	"order_queue/internal/events"
	"order_queue/internal/models"
	"order_queue/internal/repository"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*models.Session
	clock    time.Time
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions: make(map[uuid.UUID]*models.Session),
		clock:    time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	r.clock = r.clock.Add(time.Minute)
	if session.CreatedAt.IsZero() {
		session.CreatedAt = r.clock
	}
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) GetActive(ctx context.Context) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.IsActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSessionRepo) List(ctx context.Context) ([]models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Activate holds the lock across clear-then-set, standing in for the transaction.
func (r *fakeSessionRepo) Activate(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for _, s := range r.sessions {
		s.IsActive = false
	}
	target.IsActive = true
	cp := *target
	return &cp, nil
}

func (r *fakeSessionRepo) Close(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s.IsActive = false
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) activeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sessions {
		if s.IsActive {
			n++
		}
	}
	return n
}

type fakeMenuRepo struct {
	mu         sync.Mutex
	items      map[uuid.UUID]*models.MenuItem
	referenced map[uuid.UUID]bool
	lookups    int
	clock      time.Time
}

func newFakeMenuRepo() *fakeMenuRepo {
	return &fakeMenuRepo{
		items:      make(map[uuid.UUID]*models.MenuItem),
		referenced: make(map[uuid.UUID]bool),
		clock:      time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (r *fakeMenuRepo) add(name string, priceCents int, active bool) *models.MenuItem {
	item := &models.MenuItem{Name: name, PriceCents: priceCents, IsActive: active, Badges: models.Badges{}}
	r.Create(context.Background(), item)
	return item
}

func (r *fakeMenuRepo) Create(ctx context.Context, item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	rank := 0
	for _, existing := range r.items {
		if existing.DisplayOrder >= rank {
			rank = existing.DisplayOrder + 1
		}
	}
	item.DisplayOrder = rank
	r.clock = r.clock.Add(time.Minute)
	item.CreatedAt = r.clock
	item.UpdatedAt = r.clock
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeMenuRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (r *fakeMenuRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	var out []models.MenuItem
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeMenuRepo) List(ctx context.Context) ([]models.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.MenuItem, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeMenuRepo) ListActive(ctx context.Context) ([]models.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.MenuItem{}
	for _, item := range r.items {
		if item.IsActive {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeMenuRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.MenuItem, error) {
	r.mu.Lock()
	item, ok := r.items[id]
	if !ok {
		r.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	for key, value := range updates {
		switch key {
		case "name":
			item.Name = value.(string)
		case "price_cents":
			item.PriceCents = value.(int)
		case "image_url":
			item.ImageURL = value.(*string)
		case "image_placeholder_url":
			item.ImagePlaceholderURL = value.(*string)
		case "badges":
			item.Badges = value.(models.Badges)
		case "is_active":
			item.IsActive = value.(bool)
		case "updated_at":
			item.UpdatedAt = value.(time.Time)
		}
	}
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeMenuRepo) Delete(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if r.referenced[id] {
		return nil, repository.ErrInUse
	}
	delete(r.items, id)
	return item, nil
}

func (r *fakeMenuRepo) Reorder(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	r.mu.Lock()
	for rank, id := range ids {
		if item, ok := r.items[id]; ok {
			item.DisplayOrder = rank
		}
	}
	r.mu.Unlock()
	return r.ListActive(ctx)
}

func (r *fakeMenuRepo) lookupCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookups
}

// fakeOrderRepo implements both OrderRepository and OrderItemRepository over one store.
type fakeOrderRepo struct {
	mu          sync.Mutex
	orders      map[uuid.UUID]*models.Order
	items       []models.OrderItem
	workers     map[uuid.UUID]string
	menu        *fakeMenuRepo
	itemQueries int
	createErr   error
}

func newFakeOrderRepo(menu *fakeMenuRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:  make(map[uuid.UUID]*models.Order),
		workers: make(map[uuid.UUID]string),
		menu:    menu,
	}
}

func (r *fakeOrderRepo) CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	cp := *order
	r.orders[order.ID] = &cp
	for _, item := range items {
		item.ID = uuid.New()
		item.OrderID = order.ID
		r.items = append(r.items, item)
	}
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) view(o *models.Order) models.OrderView {
	v := models.OrderView{
		ID:               o.ID,
		SessionID:        o.SessionID,
		CustomerName:     o.CustomerName,
		CustomerPhone:    o.CustomerPhone,
		Status:           o.Status,
		AssignedWorkerID: o.AssignedWorkerID,
		AssignedAt:       o.AssignedAt,
		TotalPriceCents:  o.TotalPriceCents,
		TrackingToken:    o.TrackingToken,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		Items:            []models.OrderItemView{},
	}
	if o.AssignedWorkerID != nil {
		if name, ok := r.workers[*o.AssignedWorkerID]; ok {
			v.AssignedWorkerName = &name
		}
	}
	return v
}

func (r *fakeOrderRepo) GetView(ctx context.Context, id uuid.UUID) (*models.OrderView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v := r.view(o)
	return &v, nil
}

func (r *fakeOrderRepo) ListViewsBySession(ctx context.Context, sessionID uuid.UUID) ([]models.OrderView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.OrderView
	for _, o := range r.orders {
		if o.SessionID == sessionID {
			out = append(out, r.view(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// AssignIfUnassigned mirrors UPDATE ... WHERE assigned_worker_id IS NULL.
func (r *fakeOrderRepo) AssignIfUnassigned(ctx context.Context, id, workerID uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.AssignedWorkerID != nil {
		return false, nil
	}
	w := workerID
	o.AssignedWorkerID = &w
	o.AssignedAt = &at
	o.UpdatedAt = at
	return true, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = string(status)
	o.UpdatedAt = at
	return nil
}

func (r *fakeOrderRepo) Unassign(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.AssignedWorkerID = nil
	o.AssignedAt = nil
	o.UpdatedAt = at
	return nil
}

func (r *fakeOrderRepo) CreateBatch(ctx context.Context, items []models.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, items...)
	return nil
}

func (r *fakeOrderRepo) ListViewsByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) ([]models.OrderItemView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.itemQueries++
	wanted := make(map[uuid.UUID]bool, len(orderIDs))
	for _, id := range orderIDs {
		wanted[id] = true
	}
	var out []models.OrderItemView
	for _, item := range r.items {
		if !wanted[item.OrderID] {
			continue
		}
		v := models.OrderItemView{
			ID:             item.ID,
			OrderID:        item.OrderID,
			MenuItemID:     item.MenuItemID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			Position:       item.Position,
		}
		if menuItem, err := r.menu.GetByID(ctx, item.MenuItemID); err == nil {
			name := menuItem.Name
			v.Name = &name
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *fakeOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

func (r *fakeOrderRepo) put(order *models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	cp := *order
	r.orders[order.ID] = &cp
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) UpdateName(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	r.mu.Lock()
	u, ok := r.users[id]
	if ok {
		u.Name = name
	}
	r.mu.Unlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

type fakeInviteRepo struct {
	mu         sync.Mutex
	invites    map[string]*models.InviteToken
	users      *fakeUserRepo
	duplicates int
}

func newFakeInviteRepo(users *fakeUserRepo) *fakeInviteRepo {
	return &fakeInviteRepo{invites: make(map[string]*models.InviteToken), users: users}
}

func (r *fakeInviteRepo) Create(ctx context.Context, invite *models.InviteToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.duplicates > 0 {
		r.duplicates--
		return repository.ErrDuplicateCode
	}
	if _, ok := r.invites[invite.Code]; ok {
		return repository.ErrDuplicateCode
	}
	if invite.ID == uuid.Nil {
		invite.ID = uuid.New()
	}
	cp := *invite
	r.invites[invite.Code] = &cp
	return nil
}

// Redeem holds the lock for the whole redemption, standing in for the transaction.
func (r *fakeInviteRepo) Redeem(ctx context.Context, code string, user *models.User, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	invite, ok := r.invites[code]
	if !ok || invite.UsedAt != nil {
		return repository.ErrInviteInvalid
	}
	if invite.ExpiresAt != nil && invite.ExpiresAt.Before(now) {
		return repository.ErrInviteExpired
	}
	user.Role = invite.Role
	if err := r.users.Create(ctx, user); err != nil {
		return err
	}
	usedAt := now
	usedBy := user.ID
	invite.UsedAt = &usedAt
	invite.UsedByUserID = &usedBy
	return nil
}

func (r *fakeInviteRepo) get(code string) models.InviteToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.invites[code]
}

type fakeNotificationRepo struct {
	mu     sync.Mutex
	events []models.NotificationEvent
}

func (r *fakeNotificationRepo) Create(ctx context.Context, event *models.NotificationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeNotificationRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.NotificationEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.NotificationEvent
	for _, e := range r.events {
		if e.OrderID != nil && *e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

var errCacheMiss = errors.New("cache miss")

type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	hits    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) GetCache(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return errCacheMiss
	}
	c.hits++
	return json.Unmarshal(raw, dest)
}

func (c *fakeCache) SetCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *fakeCache) DeleteCache(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	delete(c.data, key)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fakeNotifier struct {
	ready chan models.OrderView
}

func (n *fakeNotifier) NotifyOrderReady(ctx context.Context, order models.OrderView) error {
	n.ready <- order
	return nil
}

type fakeSender struct {
	mu        sync.Mutex
	messageID string
	err       error
	sent      []string
}

func (s *fakeSender) SendTextMessage(ctx context.Context, phone, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, phone+": "+message)
	return s.messageID, s.err
}
