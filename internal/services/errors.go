package services

import (
	"errors"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindNoActiveSession
	KindConflict
	KindForbidden
	KindInvalidArgument
	KindUnauthenticated
)

// Error is a typed failure with a message safe to show to callers.
// Err holds the underlying cause, if any, and is never rendered.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func internalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

var (
	ErrNoActiveSession = newError(KindNoActiveSession, "No active session.")
	ErrSessionNotFound = newError(KindNotFound, "Session not found.")

	ErrMenuItemNotFound = newError(KindNotFound, "Menu item not found.")
	ErrMenuItemInUse    = newError(KindConflict, "Menu item is referenced by existing orders.")

	ErrOrderNotFound        = newError(KindNotFound, "Order not found.")
	ErrOrderSessionClosed   = newError(KindNotFound, "Order does not belong to the active session.")
	ErrOrderAlreadyAssigned = newError(KindConflict, "Order already assigned to another user.")
	ErrNotAssigned          = newError(KindForbidden, "You are not assigned to this order.")
	ErrUnassignForbidden    = newError(KindForbidden, "Only the assigned worker can unassign this order.")
	ErrInvalidStatus        = newError(KindInvalidArgument, "Invalid status.")
	ErrStatusTransition     = newError(KindInvalidArgument, "Status can only stay the same or advance one step.")
	ErrInvalidQuantity      = newError(KindInvalidArgument, "Quantity must be a positive integer.")
	ErrCustomerNameRequired = newError(KindInvalidArgument, "Customer name is required.")

	ErrInviteInvalid      = newError(KindInvalidArgument, "Invalid or already used invite code")
	ErrInviteExpired      = newError(KindInvalidArgument, "Invite code has expired")
	ErrInviteRole         = newError(KindInvalidArgument, `Role must be "ADMIN" or "WORKER".`)
	ErrEmailTaken         = newError(KindConflict, "User with this email already exists")
	ErrInvalidCredentials = newError(KindUnauthenticated, "Invalid email or password")
	ErrInvalidToken       = newError(KindUnauthenticated, "Invalid or expired token.")
	ErrNameRequired       = newError(KindInvalidArgument, "Name is required.")
	ErrForbidden          = newError(KindForbidden, "Insufficient permissions.")
)

// NoActiveItemsMessage is shown when reconciliation leaves nothing to order.
const NoActiveItemsMessage = "Some items are no longer available. Please refresh your cart."

// KindOf reports the kind of err, or KindInternal for untyped errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsNotFound matches NotFound and its NoActiveSession sub-case.
func IsNotFound(err error) bool {
	kind := KindOf(err)
	return kind == KindNotFound || kind == KindNoActiveSession
}

// PublicMessage is the text a caller may see for err.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "Internal server error."
}
