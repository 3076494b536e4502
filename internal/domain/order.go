package domain

import (
	"errors"
	"time"
)

var (
	// ErrOrderNotFound indicates that the order is not found.
	ErrOrderNotFound = errors.New("order not found")
	// ErrUnknownOrderState indicates that the given state name is not a valid order state.
	ErrUnknownOrderState = errors.New("unknown order state")
	// ErrInvalidStateTransition indicates that the order state may not move backwards.
	ErrInvalidStateTransition = errors.New("invalid order state transition")
)

// OrderState is the lifecycle stage of an order.
type OrderState string

// All order states in lifecycle order.
const (
	OrderStateInit      OrderState = "INIT"
	OrderStatePaid      OrderState = "PAID"
	OrderStateBrewing   OrderState = "BREWING"
	OrderStateBrewed    OrderState = "BREWED"
	OrderStateTaken     OrderState = "TAKEN"
	OrderStateCancelled OrderState = "CANCELLED"
)

var orderStateRank = map[OrderState]int{
	OrderStateInit:      0,
	OrderStatePaid:      1,
	OrderStateBrewing:   2,
	OrderStateBrewed:    3,
	OrderStateTaken:     4,
	OrderStateCancelled: 5,
}

// ParseOrderState converts a state name to an OrderState.
func ParseOrderState(s string) (OrderState, error) {
	state := OrderState(s)

	if _, ok := orderStateRank[state]; !ok {
		return "", ErrUnknownOrderState
	}

	return state, nil
}

// CanTransitionTo reports whether an order may move from s to next.
// Orders only move forward through their lifecycle.
func (s OrderState) CanTransitionTo(next OrderState) bool {
	return orderStateRank[next] > orderStateRank[s]
}

// Order holds one customer order and the coffees it contains.
type Order struct {
	ID        int64      `json:"id"`
	Customer  string     `json:"customer"`
	Items     []Coffee   `json:"items"`
	State     OrderState `json:"state"`
	CreatedAt time.Time  `json:"createTime"`
	UpdatedAt time.Time  `json:"updateTime"`
}
