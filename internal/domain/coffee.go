// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"

	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/moneypkg"
)

var (
	// ErrCoffeeNotFound indicates that the coffee is not found.
	ErrCoffeeNotFound = errors.New("coffee not found")
	// ErrCoffeeAlreadyExists indicates that a coffee with the given name already exists.
	ErrCoffeeAlreadyExists = errors.New("coffee name already exists")
	// ErrBatchEmpty indicates that an uploaded batch contains no valid coffee lines.
	ErrBatchEmpty = errors.New("batch contains no valid coffee lines")
)

// Coffee holds a single menu item and its price.
type Coffee struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Price     moneypkg.Money `json:"price"`
	CreatedAt time.Time      `json:"createTime"`
	UpdatedAt time.Time      `json:"updateTime"`
}

// CreateCoffeeParams holds the fields needed to add one coffee.
type CreateCoffeeParams struct {
	Name  string
	Price moneypkg.Money
}
