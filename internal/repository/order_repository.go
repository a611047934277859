package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"github.com/somah-market/backend/internal/domain"
	"github.com/somah-market/backend/internal/port"
)

const orderColumns = `id, order_number, user_id, customer_name, customer_phone, delivery_address,
	subtotal::text, delivery_fee::text, total_amount::text, status, payment_method, notes, handled_by,
	created_at, updated_at`

const orderLineColumns = `product_id, product_name, store_id, store_name, quantity,
	unit_price::text, original_price::text, image_url`

type orderRepository struct {
	db querier
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{db: pool}
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	order, err := withTx(ctx, r.db, func(tx querier) (domain.Order, error) {
		row := tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)

		order, err := scanOrder(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return o, fmt.Errorf("scanOrder: %w", ErrOrderNotFound)
			}
			return o, fmt.Errorf("scanOrder: %w", err)
		}

		lines, err := fetchOrderLines(ctx, tx, orderID)
		if err != nil {
			return o, fmt.Errorf("fetchOrderLines: %w", err)
		}
		order.Lines = lines

		return order, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error) {
	if len(order.Lines) == 0 {
		return uuid.Nil, errors.New("no lines in order")
	}

	orderID, err := withTx(ctx, r.db, func(tx querier) (uuid.UUID, error) {
		var orderID uuid.UUID

		err := tx.QueryRow(ctx,
			`INSERT INTO orders (order_number, user_id, customer_name, customer_phone, delivery_address,
				subtotal, delivery_fee, total_amount, status, payment_method, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id`,
			order.OrderNumber, order.UserID, order.CustomerName, order.CustomerPhone, order.DeliveryAddress,
			moneyParam(order.Subtotal), moneyParam(order.DeliveryFee), moneyParam(order.Total),
			string(domain.OrderStatusPending), order.PaymentMethod, order.Notes,
		).Scan(&orderID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert order: %w", err)
		}

		for i, line := range order.Lines {
			_, err := tx.Exec(ctx,
				`INSERT INTO order_items (order_id, position, product_id, product_name, store_id, store_name,
					quantity, unit_price, original_price, image_url)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				orderID, i, line.ProductID, line.ProductName, line.StoreID, line.StoreName,
				line.Quantity, moneyParam(line.UnitPrice), moneyParam(line.OriginalPrice), line.ImageURL)
			if err != nil {
				return uuid.Nil, fmt.Errorf("insert order line[%d]: %w", i, err)
			}

			cmdTag, err := tx.Exec(ctx,
				`UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2`,
				line.ProductID, line.Quantity)
			if err != nil {
				return uuid.Nil, fmt.Errorf("decrement stock[%s]: %w", line.ProductName, err)
			}
			if cmdTag.RowsAffected() == 0 {
				return uuid.Nil, fmt.Errorf("product[%s]: %w", line.ProductName, ErrInsufficientStock)
			}
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO order_status_history (order_id, status) VALUES ($1, $2)`,
			orderID, string(domain.OrderStatusPending)); err != nil {
			return uuid.Nil, fmt.Errorf("insert status history: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO notifications (order_id, kind, message) VALUES ($1, $2, $3)`,
			orderID, string(domain.NotificationNewOrder), "New order "+order.OrderNumber); err != nil {
			return uuid.Nil, fmt.Errorf("insert notification: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM cart_items WHERE owner_id = $1`, order.UserID); err != nil {
			return uuid.Nil, fmt.Errorf("clear cart: %w", err)
		}

		return orderID, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("withTx: %w", err)
	}

	return orderID, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}
	if status == "" {
		return fmt.Errorf("status is empty")
	}

	if _, err := withTx(ctx, r.db, func(tx querier) (struct{}, error) {
		var zero struct{}

		var orderNumber string
		err := tx.QueryRow(ctx,
			`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1 RETURNING order_number`,
			orderID, string(status)).Scan(&orderNumber)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return zero, fmt.Errorf("update order: %w", ErrOrderNotFound)
			}
			return zero, fmt.Errorf("update order: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO order_status_history (order_id, status) VALUES ($1, $2)`,
			orderID, string(status)); err != nil {
			return zero, fmt.Errorf("insert status history: %w", err)
		}

		if status == domain.OrderStatusConfirmed {
			if _, err := tx.Exec(ctx,
				`INSERT INTO notifications (order_id, kind, message) VALUES ($1, $2, $3)`,
				orderID, string(domain.NotificationOrderUpdate), "Order "+orderNumber+" confirmed"); err != nil {
				return zero, fmt.Errorf("insert notification: %w", err)
			}
		}

		return zero, nil
	}); err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

// AssignHandler claims the order via a conditional update, so the first claim
// wins even when two operators click at the same time.
func (r *orderRepository) AssignHandler(ctx context.Context, orderID uuid.UUID, handler string) (bool, error) {
	if orderID == uuid.Nil {
		return false, fmt.Errorf("orderID is empty")
	}
	if handler == "" {
		return false, fmt.Errorf("handler is empty")
	}

	cmdTag, err := r.db.Exec(ctx,
		`UPDATE orders SET handled_by = $2, updated_at = now() WHERE id = $1 AND handled_by IS NULL`,
		orderID, handler)
	if err != nil {
		return false, fmt.Errorf("update order: %w", err)
	}

	if cmdTag.RowsAffected() > 0 {
		return true, nil
	}

	var existing *string
	err = r.db.QueryRow(ctx, `SELECT handled_by FROM orders WHERE id = $1`, orderID).Scan(&existing)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("select order: %w", ErrOrderNotFound)
		}
		return false, fmt.Errorf("select order: %w", err)
	}

	return false, nil
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	var statuses []string
	for _, status := range filter.Statuses {
		statuses = append(statuses, string(status))
	}

	var createdAfter, createdBefore *time.Time
	if filter.CreatedAt != nil {
		createdAfter = filter.CreatedAt.After
		createdBefore = filter.CreatedAt.Before
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		WHERE ($1::uuid[] IS NULL OR id = ANY ($1))
			AND ($2::uuid[] IS NULL OR user_id = ANY ($2))
			AND ($3::text[] IS NULL OR status = ANY ($3))
			AND ($4::timestamptz IS NULL OR created_at >= $4)
			AND ($5::timestamptz IS NULL OR created_at <= $5)
		ORDER BY created_at DESC`,
		nilSliceIfEmpty(filter.IDs), nilSliceIfEmpty(filter.UserIDs), nilSliceIfEmpty(statuses),
		createdAfter, createdBefore)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanOrder: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	if err := r.attachLines(ctx, orders); err != nil {
		return nil, fmt.Errorf("attachLines: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) attachLines(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := lo.Map(orders, func(o domain.Order, _ int) uuid.UUID { return o.ID })

	rows, err := r.db.Query(ctx,
		`SELECT order_id, `+orderLineColumns+` FROM order_items
		WHERE order_id = ANY ($1) ORDER BY order_id, position`, ids)
	if err != nil {
		return fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	linesByOrder := make(map[uuid.UUID][]domain.OrderLine, len(orders))
	for rows.Next() {
		var orderID uuid.UUID
		line, err := scanOrderLineWithID(rows, &orderID)
		if err != nil {
			return fmt.Errorf("scanOrderLineWithID: %w", err)
		}
		linesByOrder[orderID] = append(linesByOrder[orderID], line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows.Err: %w", err)
	}

	for i := range orders {
		orders[i].Lines = linesByOrder[orders[i].ID]
	}

	return nil
}

func fetchOrderLines(ctx context.Context, db querier, orderID uuid.UUID) ([]domain.OrderLine, error) {
	rows, err := db.Query(ctx,
		`SELECT `+orderLineColumns+` FROM order_items WHERE order_id = $1 ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		line, err := scanOrderLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scanOrderLine: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return lines, nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o                            domain.Order
		subtotal, deliveryFee, total string
		status                       string
	)

	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.CustomerName, &o.CustomerPhone, &o.DeliveryAddress,
		&subtotal, &deliveryFee, &total, &status, &o.PaymentMethod, &o.Notes, &o.HandledBy,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return o, err
	}

	o.Status, err = domain.ToOrderStatus(status)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
	}

	if o.Subtotal, err = parseMoney(subtotal); err != nil {
		return o, fmt.Errorf("parseMoney subtotal: %w", err)
	}
	if o.DeliveryFee, err = parseMoney(deliveryFee); err != nil {
		return o, fmt.Errorf("parseMoney deliveryFee: %w", err)
	}
	if o.Total, err = parseMoney(total); err != nil {
		return o, fmt.Errorf("parseMoney total: %w", err)
	}

	return o, nil
}

func scanOrderLine(row pgx.Row) (domain.OrderLine, error) {
	var (
		l                        domain.OrderLine
		unitPrice, originalPrice string
	)

	err := row.Scan(&l.ProductID, &l.ProductName, &l.StoreID, &l.StoreName, &l.Quantity,
		&unitPrice, &originalPrice, &l.ImageURL)
	if err != nil {
		return l, err
	}

	if l.UnitPrice, err = parseMoney(unitPrice); err != nil {
		return l, fmt.Errorf("parseMoney unitPrice: %w", err)
	}
	if l.OriginalPrice, err = parseMoney(originalPrice); err != nil {
		return l, fmt.Errorf("parseMoney originalPrice: %w", err)
	}

	return l, nil
}

func scanOrderLineWithID(row pgx.Row, orderID *uuid.UUID) (domain.OrderLine, error) {
	var (
		l                        domain.OrderLine
		unitPrice, originalPrice string
	)

	err := row.Scan(orderID, &l.ProductID, &l.ProductName, &l.StoreID, &l.StoreName, &l.Quantity,
		&unitPrice, &originalPrice, &l.ImageURL)
	if err != nil {
		return l, err
	}

	if l.UnitPrice, err = parseMoney(unitPrice); err != nil {
		return l, fmt.Errorf("parseMoney unitPrice: %w", err)
	}
	if l.OriginalPrice, err = parseMoney(originalPrice); err != nil {
		return l, fmt.Errorf("parseMoney originalPrice: %w", err)
	}

	return l, nil
}
