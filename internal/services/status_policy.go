package services

import (
	"fmt"
	"order_queue/internal/models"
)

// StatusPolicy decides which status changes updateOrderStatus accepts.
type StatusPolicy string

const (
	// StatusPolicyLoose accepts any of the known statuses from any status.
	StatusPolicyLoose StatusPolicy = "loose"
	// StatusPolicyForward accepts the current status or the next one in lifecycle order.
	StatusPolicyForward StatusPolicy = "forward"
)

func ParseStatusPolicy(s string) (StatusPolicy, error) {
	switch StatusPolicy(s) {
	case "", StatusPolicyLoose:
		return StatusPolicyLoose, nil
	case StatusPolicyForward:
		return StatusPolicyForward, nil
	}
	return "", fmt.Errorf("unknown order status policy %q", s)
}

func (p StatusPolicy) Allows(from, to models.OrderStatus) bool {
	if !to.Valid() {
		return false
	}
	if p != StatusPolicyForward || from == to {
		return true
	}
	return statusRank(to) == statusRank(from)+1
}

func statusRank(s models.OrderStatus) int {
	for i, status := range models.OrderStatuses {
		if s == status {
			return i
		}
	}
	return -1
}
