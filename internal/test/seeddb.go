package test

import (
	"context"
	"testing"

	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/coffeerepo"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/domain"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/orderrepo"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/dbpkg"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/moneypkg"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/randompkg"
)

// SeedCoffee creates a random coffee inside a test transaction.
func SeedCoffee(t *testing.T, tx dbpkg.SQLInterface) domain.Coffee {
	t.Helper()

	arg := domain.CreateCoffeeParams{
		Name:  randompkg.CoffeeName(),
		Price: randompkg.MoneyBetween(moneypkg.DefaultCurrency, 50, 200),
	}

	coffeeRepo := coffeerepo.NewRepoPGS(tx)

	coffee, err := coffeeRepo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("coffeeRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return coffee
}

// SeedCoffees creates the given number of random coffees inside a test transaction.
func SeedCoffees(t *testing.T, tx dbpkg.SQLInterface, count int) []domain.Coffee {
	t.Helper()

	coffees := make([]domain.Coffee, count)

	for i := range coffees {
		coffees[i] = SeedCoffee(t, tx)
	}

	return coffees
}

// SeedOrder creates an order for the given coffees inside a test transaction.
func SeedOrder(t *testing.T, tx dbpkg.SQLInterface, customer string, items []domain.Coffee) domain.Order {
	t.Helper()

	repo := orderrepo.NewTxRepoPGS(tx)

	order, err := repo.Create(context.Background(), customer, items)
	if err != nil {
		t.Fatalf("orderRepo.Create(context.Background(), %v, ...) returned error: %v", customer, err)
	}

	return order
}
