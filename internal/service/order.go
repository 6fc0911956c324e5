package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"orderdesk/internal/database"
	"orderdesk/internal/model"
)

const orderColumns = `id, email, description, status, created_at`

// OrderService is the order ledger. Every method runs as a single
// transaction against the pool.
type OrderService struct {
	db *sql.DB
}

func NewOrderService(db *sql.DB) *OrderService {
	return &OrderService{db: db}
}

func (s *OrderService) ListByOwnerAndStatus(ctx context.Context, email string, status model.OrderStatus) ([]model.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE email = $1 AND status = $2
		ORDER BY id ASC
	`, email, string(status))
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return orders, nil
}

func (s *OrderService) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// Create stores a new Pending order owned by email.
func (s *OrderService) Create(ctx context.Context, email, description string) (*model.Order, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrMissingOwner
	}

	var o *model.Order
	err := database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			INSERT INTO orders (email, description, status)
			VALUES ($1, $2, $3)
			RETURNING `+orderColumns,
			email, description, string(model.StatusPending),
		)
		var err error
		o, err = scanOrder(row)
		return err
	})
	if err != nil {
		if database.IsCode(err, database.CodeForeignKeyViolation) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("insert order: %w", err)
	}

	return o, nil
}

// SetStatus moves the order to status. Only Pending -> Processed changes
// anything; rewriting the current status is a no-op.
func (s *OrderService) SetStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	var o *model.Order
	err := database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
		current, err := scanOrder(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrOrderNotFound
			}
			return err
		}

		if !current.Status.CanTransition(status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
		}

		if current.Status != status {
			if _, err := tx.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(status), id); err != nil {
				return fmt.Errorf("update order: %w", err)
			}
			current.Status = status
		}

		o = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return o, nil
}

// DeleteAllProcessedForOwner removes every Processed order of email and
// returns how many rows went away. Zero is not an error here.
func (s *OrderService) DeleteAllProcessedForOwner(ctx context.Context, email string) (int64, error) {
	var n int64
	err := database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM orders WHERE email = $1 AND status = $2`,
			email, string(model.StatusProcessed),
		)
		if err != nil {
			return fmt.Errorf("delete orders: %w", err)
		}
		n, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// CountByStatus returns the number of orders per status across all owners.
// Statuses without orders are reported as zero.
func (s *OrderService) CountByStatus(ctx context.Context) (map[model.OrderStatus]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.OrderStatus]int64, len(model.OrderStatuses))
	for _, st := range model.OrderStatuses {
		counts[st] = 0
	}
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[model.OrderStatus(status)] = n
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o      model.Order
		status string
	)
	if err := row.Scan(&o.ID, &o.Email, &o.Description, &status, &o.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	o.Status = model.OrderStatus(status)
	return &o, nil
}
