package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/sinavmarket/internal/app/models"
	"github.com/emre/sinavmarket/internal/pkg/apperrors"
	"github.com/emre/sinavmarket/internal/pkg/logger"
)

// OrderRepository handles order database operations
type OrderRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts an order with its items inside the given transaction scope
func (r *OrderRepository) Create(ctx context.Context, q Querier, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	sql, args, err := r.sb.Insert("orders").
		Columns("id", "user_id", "total_amount", "status", "created_at", "updated_at").
		Values(order.ID, order.UserID, order.TotalAmount, order.Status, now, now).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create order query: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("userID", order.UserID.String()).Msg("Error inserting order")
		return fmt.Errorf("error inserting order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID

		itemSql, itemArgs, err := r.sb.Insert("order_items").
			Columns("id", "order_id", "product_id", "quantity", "price").
			Values(item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create order item query: %w", err)
		}
		if _, err := q.Exec(ctx, itemSql, itemArgs...); err != nil {
			return fmt.Errorf("error inserting order item: %w", err)
		}
	}

	logger.Info().Str("orderID", order.ID.String()).Int("items", len(order.Items)).Msg("Order created")
	return nil
}

// GetByID retrieves an order with its items
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	sql, args, err := r.sb.Select("id", "user_id", "total_amount", "status", "created_at", "updated_at").
		From("orders").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get order query: %w", err)
	}

	var o models.Order
	err = r.db.QueryRow(ctx, sql, args...).Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("error querying order: %w", err)
	}

	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// GetByUser retrieves a user's orders, newest first, items included
func (r *OrderRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	sql, args, err := r.sb.Select("id", "user_id", "total_amount", "status", "created_at", "updated_at").
		From("orders").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get orders query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.getItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// UpdateStatus moves an order to a new status
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	sql, args, err := r.sb.Update("orders").
		SetMap(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update order status query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("orderID", id.String()).Msg("Error updating order status")
		return fmt.Errorf("error updating order status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrOrderNotFound
	}

	logger.Info().Str("orderID", id.String()).Str("status", string(status)).Msg("Order status updated")
	return nil
}

func (r *OrderRepository) getItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	sql, args, err := r.sb.Select("id", "order_id", "product_id", "quantity", "price").
		From("order_items").
		Where(squirrel.Eq{"order_id": orderID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get order items query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order item row: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
