// Package test provides shared test helpers.
package test

import (
	"time"

	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/domain"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/moneypkg"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/randompkg"
)

// RandomCoffee returns a random menu item with a TWD price.
func RandomCoffee() domain.Coffee {
	return domain.Coffee{
		ID:        randompkg.Intn(100) + 1,
		Name:      randompkg.CoffeeName(),
		Price:     randompkg.MoneyBetween(moneypkg.DefaultCurrency, 50, 200),
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
		UpdatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

// RandomOrder returns a random order containing the given coffees.
func RandomOrder(customer string, items []domain.Coffee) domain.Order {
	return domain.Order{
		ID:        randompkg.Intn(100) + 1,
		Customer:  customer,
		Items:     items,
		State:     domain.OrderStateInit,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
		UpdatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}
