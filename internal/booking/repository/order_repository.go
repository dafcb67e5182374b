package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"carrental/internal/domain"
	"carrental/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (string, error) {
	attrs, err := marshalAttributes(order.Attributes)
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	query := `
		INSERT INTO Orders (id, carId, renterEmail, status, attributes, orderDate)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query,
		id, order.CarID, order.RenterEmail, order.Status, attrs, order.OrderDate,
	)
	if err != nil {
		return "", fmt.Errorf("inserting order: %w", err)
	}

	return id, nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := orderSelect + ` WHERE id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	return order, err
}

// FindByIDForUpdate locks the order row for the duration of the transaction.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Order, error) {
	query := orderSelect + ` WHERE id = ? FOR UPDATE`

	order, err := scanOrder(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	return order, err
}

// FindConfirmedByCar returns the confirmed order for a car, or nil when none
// exists.
func (r *MySQLOrderRepository) FindConfirmedByCar(ctx context.Context, tx *sql.Tx, carID string) (*domain.Order, error) {
	query := orderSelect + ` WHERE carId = ? AND status = ? LIMIT 1`

	order, err := scanOrder(tx.QueryRowContext(ctx, query, carID, domain.OrderStatusConfirmed))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return order, err
}

func (r *MySQLOrderRepository) FindAllConfirmed(ctx context.Context) ([]domain.Order, error) {
	query := orderSelect + ` WHERE status = ? ORDER BY orderDate DESC`
	return r.queryOrders(ctx, query, domain.OrderStatusConfirmed)
}

func (r *MySQLOrderRepository) FindAllByRenter(ctx context.Context, renterEmail string, status string) ([]domain.Order, error) {
	query := orderSelect + ` WHERE renterEmail = ? AND status = ? ORDER BY orderDate DESC`
	return r.queryOrders(ctx, query, renterEmail, status)
}

func (r *MySQLOrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	query := orderSelect + ` ORDER BY orderDate DESC`
	return r.queryOrders(ctx, query)
}

func (r *MySQLOrderRepository) DeleteByID(ctx context.Context, tx *sql.Tx, id string) error {
	query := `DELETE FROM Orders WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}

	return nil
}

const orderSelect = `
	SELECT id, carId, renterEmail, status, attributes, orderDate
	FROM Orders`

func (r *MySQLOrderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var attrs []byte

	err := row.Scan(
		&order.ID, &order.CarID, &order.RenterEmail, &order.Status,
		&attrs, &order.OrderDate,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning order row: %w", err)
	}

	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &order.Attributes); err != nil {
			return nil, fmt.Errorf("decoding order attributes: %w", err)
		}
	}

	return &order, nil
}

func marshalAttributes(attrs map[string]any) ([]byte, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("encoding attributes: %w", err)
	}
	return data, nil
}
