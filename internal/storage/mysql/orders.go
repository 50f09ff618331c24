package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"jewelflow/internal/storage"
)

func (s *Storage) GetOrders(ctx context.Context) ([]storage.Order, error) {
	const op = "storage.mysql.GetOrders"

	stmt := `
		SELECT order_no, order_type, design_code, generic_name, karigar_name, karigar_id,
		       weight, size, qty, remarks, status, upload_date, created_at, last_status_change
		FROM orders
		ORDER BY created_at, order_no
	`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var orders []storage.Order
	for rows.Next() {
		var order storage.Order
		var lastChange sql.NullTime

		err := rows.Scan(
			&order.OrderNo, &order.OrderType, &order.DesignCode, &order.GenericName,
			&order.KarigarName, &order.KarigarID, &order.Weight, &order.Size,
			&order.Qty, &order.Remarks, &order.Status, &order.UploadDate,
			&order.CreatedAt, &lastChange,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if lastChange.Valid {
			t := lastChange.Time
			order.LastStatusChange = &t
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orders, nil
}

// UploadParsedOrders inserts one ingestion batch in a single transaction:
// the call succeeds atomically or not at all.
func (s *Storage) UploadParsedOrders(ctx context.Context, orders []storage.Order) error {
	const op = "storage.mysql.UploadParsedOrders"

	if len(orders) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO orders
			(order_no, order_type, design_code, generic_name, karigar_name, karigar_id,
			 weight, size, qty, remarks, status, upload_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	for _, order := range orders {
		_, err := stmt.ExecContext(ctx,
			order.OrderNo, order.OrderType, order.DesignCode, order.GenericName,
			order.KarigarName, order.KarigarID, order.Weight, order.Size,
			order.Qty, order.Remarks, order.Status, order.UploadDate, order.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("%s: insert order %s: %w", op, order.OrderNo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
