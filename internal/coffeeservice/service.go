// Package coffeeservice manages business logic layer of coffees.
package coffeeservice

import (
	"context"

	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/domain"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/moneypkg"
)

// Repo provides data access layer interface needed by coffee service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package coffeeservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateCoffeeParams) (domain.Coffee, error)
	Get(ctx context.Context, id int64) (domain.Coffee, error)
	GetByName(ctx context.Context, name string) (domain.Coffee, error)
	List(ctx context.Context) ([]domain.Coffee, error)
}

// Service facilitates coffee service layer logic.
type Service struct {
	repo Repo
}

// New returns coffee service struct to manage coffee business logic.
func New(cr Repo) *Service {
	return &Service{repo: cr}
}

// Create adds a coffee to the menu and returns it.
func (s *Service) Create(ctx context.Context, name string, price moneypkg.Money) (domain.Coffee, error) {
	coffee, err := s.repo.Create(ctx, domain.CreateCoffeeParams{Name: name, Price: price})
	if err != nil {
		return coffee, err
	}

	return coffee, nil
}

// BatchCreate adds all the given coffees and returns them in input order.
func (s *Service) BatchCreate(ctx context.Context, items []domain.CreateCoffeeParams) ([]domain.Coffee, error) {
	coffees := make([]domain.Coffee, 0, len(items))

	for _, item := range items {
		coffee, err := s.repo.Create(ctx, item)
		if err != nil {
			return nil, err
		}

		coffees = append(coffees, coffee)
	}

	return coffees, nil
}

// Get returns the coffee with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Coffee, error) {
	coffee, err := s.repo.Get(ctx, id)
	if err != nil {
		return coffee, err
	}

	return coffee, nil
}

// GetByName returns the coffee with the given name.
func (s *Service) GetByName(ctx context.Context, name string) (domain.Coffee, error) {
	coffee, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return coffee, err
	}

	return coffee, nil
}

// List returns all coffees on the menu.
func (s *Service) List(ctx context.Context) ([]domain.Coffee, error) {
	coffees, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return coffees, nil
}
