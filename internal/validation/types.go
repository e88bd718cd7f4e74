package validation

// CartLine is a client-held cart entry; quantity is checked at order time, not here.
type CartLine struct {
	MenuItemID string `json:"menu_item_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity"`
	Name       string `json:"name,omitempty" validate:"max=255"`
}

// OrderLine is a cart entry submitted for ordering.
type OrderLine struct {
	MenuItemID string `json:"menu_item_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"required,min=1,max=99"`
	Name       string `json:"name,omitempty" validate:"max=255"`
}

// CartRefreshRequest is the payload for POST /public/cart/refresh
type CartRefreshRequest struct {
	Items []CartLine `json:"items" validate:"max=100,dive"`
}

// CreateOrderRequest is the payload for POST /public/orders
type CreateOrderRequest struct {
	CustomerName  string      `json:"customer_name" validate:"required,max=255"`
	CustomerPhone *string     `json:"customer_phone,omitempty" validate:"omitempty,max=32"`
	Items         []OrderLine `json:"items" validate:"required,min=1,max=100,dive"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	InviteCode string `json:"invite_code" validate:"required"`
}

type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type CreateSessionRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type Badge struct {
	Label string `json:"label" validate:"required,max=50"`
	Color string `json:"color" validate:"required,max=50"`
}

type CreateMenuItemRequest struct {
	Name                string  `json:"name" validate:"required,max=255"`
	PriceCents          *int    `json:"price_cents" validate:"required,min=0"`
	ImageURL            *string `json:"image_url,omitempty" validate:"omitempty,max=2048"`
	ImagePlaceholderURL *string `json:"image_placeholder_url,omitempty" validate:"omitempty,max=2048"`
	Badges              []Badge `json:"badges,omitempty" validate:"max=10,dive"`
	IsActive            *bool   `json:"is_active,omitempty"`
}

// UpdateMenuItemRequest is a partial update; at least one field must be present.
type UpdateMenuItemRequest struct {
	Name                *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	PriceCents          *int     `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	ImageURL            *string  `json:"image_url,omitempty" validate:"omitempty,max=2048"`
	ImagePlaceholderURL *string  `json:"image_placeholder_url,omitempty" validate:"omitempty,max=2048"`
	Badges              *[]Badge `json:"badges,omitempty"`
	IsActive            *bool    `json:"is_active,omitempty"`
}

type ReorderMenuItemsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

type CreateInviteRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN WORKER admin worker"`
}
