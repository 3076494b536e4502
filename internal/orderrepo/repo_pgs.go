// Package orderrepo manages repository layer of orders.
package orderrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/coffeerepo"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/domain"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/dbpkg"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/errorspkg"
)

// RepoPGS facilitates order repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns order RepoPGS bound to an open transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns order RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createOrderQuery = `
INSERT INTO
    orders (customer, state)
VALUES
    ($1, $2)
RETURNING id, customer, state, created_at, updated_at
`

const createItemQuery = `
INSERT INTO
    order_items (order_id, coffee_id)
VALUES
    ($1, $2)
`

// Create creates an order with its items and then returns it.
// With an owned connection the write happens in a single transaction;
// bound to an outer transaction it joins that one instead.
func (r *RepoPGS) Create(ctx context.Context, customer string, items []domain.Coffee) (domain.Order, error) {
	l := zerolog.Ctx(ctx)

	if r.conn == nil {
		return r.create(ctx, r.db, customer, items)
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.Order{}, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	o, err := r.create(ctx, tx, customer, items)
	if err != nil {
		return o, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return o, errorspkg.ErrInternal
	}

	return o, nil
}

func (r *RepoPGS) create(ctx context.Context, db dbpkg.SQLInterface, customer string, items []domain.Coffee) (domain.Order, error) {
	l := zerolog.Ctx(ctx)

	var o domain.Order

	row := db.QueryRowContext(ctx, createOrderQuery, customer, string(domain.OrderStateInit))

	err := row.Scan(&o.ID, &o.Customer, &o.State, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		l.Error().Err(err).Send()
		return o, errorspkg.ErrInternal
	}

	for _, item := range items {
		if _, err := db.ExecContext(ctx, createItemQuery, o.ID, item.ID); err != nil {
			l.Error().Err(err).Send()

			if pqErr, ok := err.(*pq.Error); ok {
				if pqErr.Constraint == "order_items_coffee_id_fkey" {
					return o, domain.ErrCoffeeNotFound
				}
			}

			return o, errorspkg.ErrInternal
		}
	}

	o.Items = items

	return o, nil
}

const getOrderQuery = `
SELECT
	id, customer, state, created_at, updated_at
FROM orders
WHERE id = $1
`

const listItemsQuery = `
SELECT
	c.id, c.name, c.price_amount, c.price_currency, c.created_at, c.updated_at
FROM order_items oi
JOIN coffees c ON c.id = oi.coffee_id
WHERE oi.order_id = $1
ORDER BY c.id
`

// Get returns the order with the given id including its coffees.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Order, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getOrderQuery, id)

	var o domain.Order

	err := row.Scan(&o.ID, &o.Customer, &o.State, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return o, domain.ErrOrderNotFound
		}

		return o, errorspkg.ErrInternal
	}

	o.Items, err = r.listItems(ctx, o.ID)
	if err != nil {
		return o, err
	}

	return o, nil
}

func (r *RepoPGS) listItems(ctx context.Context, orderID int64) ([]domain.Coffee, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listItemsQuery, orderID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Coffee{}

	for rows.Next() {
		c, err := coffeerepo.ScanCoffee(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, c)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const listOrdersQuery = `
SELECT
	id, customer, state, created_at, updated_at
FROM orders
ORDER BY id
`

// List returns all orders including their coffees.
func (r *RepoPGS) List(ctx context.Context) ([]domain.Order, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listOrdersQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Order{}

	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Customer, &o.State, &o.CreatedAt, &o.UpdatedAt); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, o)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	for i := range items {
		items[i].Items, err = r.listItems(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return items, nil
}

const updateStateQuery = `
UPDATE orders
SET state = $2, updated_at = now()
WHERE id = $1
RETURNING id, customer, state, created_at, updated_at
`

// UpdateState sets the order's state and returns the updated order.
func (r *RepoPGS) UpdateState(ctx context.Context, id int64, state domain.OrderState) (domain.Order, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, updateStateQuery, id, string(state))

	var o domain.Order

	err := row.Scan(&o.ID, &o.Customer, &o.State, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return o, domain.ErrOrderNotFound
		}

		return o, errorspkg.ErrInternal
	}

	o.Items, err = r.listItems(ctx, o.ID)
	if err != nil {
		return o, err
	}

	return o, nil
}
