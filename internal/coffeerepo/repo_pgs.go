// Package coffeerepo manages repository layer of coffees.
package coffeerepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/domain"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/dbpkg"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/errorspkg"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/moneypkg"
)

// RepoPGS facilitates coffee repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns coffee RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// ScanCoffee reads one coffee row and reassembles its price.
// The row must carry the columns id, name, price_amount, price_currency,
// created_at and updated_at in that order.
func ScanCoffee(row interface{ Scan(...interface{}) error }) (domain.Coffee, error) {
	var (
		c        domain.Coffee
		amount   string
		currency string
	)

	err := row.Scan(
		&c.ID,
		&c.Name,
		&amount,
		&currency,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return c, err
	}

	price, err := decimal.NewFromString(amount)
	if err != nil {
		return c, err
	}

	c.Price = moneypkg.New(currency, price)

	return c, nil
}

const createQuery = `
INSERT INTO
    coffees (name, price_amount, price_currency)
VALUES
    ($1, $2, $3)
RETURNING id, name, price_amount, price_currency, created_at, updated_at
`

// Create creates the coffee and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateCoffeeParams) (domain.Coffee, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Name, arg.Price.Amount.String(), arg.Price.Currency)

	c, err := ScanCoffee(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "coffees_name_key" {
				return c, domain.ErrCoffeeAlreadyExists
			}
		}

		return c, errorspkg.ErrInternal
	}

	return c, nil
}

const getQuery = `
SELECT
	id, name, price_amount, price_currency, created_at, updated_at
FROM coffees
WHERE id = $1
`

// Get returns the coffee with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Coffee, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	c, err := ScanCoffee(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return c, domain.ErrCoffeeNotFound
		}

		return c, errorspkg.ErrInternal
	}

	return c, nil
}

const getByNameQuery = `
SELECT
	id, name, price_amount, price_currency, created_at, updated_at
FROM coffees
WHERE name = $1
`

// GetByName returns the coffee with the given name.
func (r *RepoPGS) GetByName(ctx context.Context, name string) (domain.Coffee, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getByNameQuery, name)

	c, err := ScanCoffee(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return c, domain.ErrCoffeeNotFound
		}

		return c, errorspkg.ErrInternal
	}

	return c, nil
}

const listQuery = `
SELECT
	id, name, price_amount, price_currency, created_at, updated_at
FROM coffees
ORDER BY id
`

// List returns all coffees on the menu.
func (r *RepoPGS) List(ctx context.Context) ([]domain.Coffee, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Coffee{}

	for rows.Next() {
		c, err := ScanCoffee(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, c)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const deleteQuery = `
DELETE FROM coffees
WHERE id = $1
`

// Delete removes the coffee with the given id.
func (r *RepoPGS) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, deleteQuery, id)
	return err
}
