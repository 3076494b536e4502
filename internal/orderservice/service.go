// Package orderservice manages business logic layer of orders.
package orderservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/coffeedelivery"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/domain"
)

// Repo provides data access layer interface needed by order service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package orderservice
type Repo interface {
	Create(ctx context.Context, customer string, items []domain.Coffee) (domain.Order, error)
	Get(ctx context.Context, id int64) (domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateState(ctx context.Context, id int64, state domain.OrderState) (domain.Order, error)
}

// Service facilitates order service layer logic.
type Service struct {
	repo          Repo
	coffeeService coffeedelivery.Service
}

// New returns order service struct to manage order business logic.
func New(or Repo, cs coffeedelivery.Service) *Service {
	return &Service{
		repo:          or,
		coffeeService: cs,
	}
}

// Create resolves the named coffees and creates an order in the INIT state.
func (s *Service) Create(ctx context.Context, customer string, items []string) (domain.Order, error) {
	l := zerolog.Ctx(ctx)

	coffees := make([]domain.Coffee, 0, len(items))

	for _, name := range items {
		coffee, err := s.coffeeService.GetByName(ctx, name)
		if err != nil {
			l.Info().Err(err).Str("coffee", name).Send()
			return domain.Order{}, err
		}

		coffees = append(coffees, coffee)
	}

	order, err := s.repo.Create(ctx, customer, coffees)
	if err != nil {
		return order, err
	}

	return order, nil
}

// Get returns the order with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return order, err
	}

	return order, nil
}

// List returns all orders.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateState moves the order to the given state.
// Orders only move forward through their lifecycle.
func (s *Service) UpdateState(ctx context.Context, id int64, state string) (domain.Order, error) {
	l := zerolog.Ctx(ctx)

	next, err := domain.ParseOrderState(state)
	if err != nil {
		l.Info().Str("state", state).Err(err).Send()
		return domain.Order{}, err
	}

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	if !order.State.CanTransitionTo(next) {
		l.Info().
			Str("from", string(order.State)).
			Str("to", string(next)).
			Err(domain.ErrInvalidStateTransition).
			Send()

		return domain.Order{}, domain.ErrInvalidStateTransition
	}

	updated, err := s.repo.UpdateState(ctx, id, next)
	if err != nil {
		return updated, err
	}

	return updated, nil
}
