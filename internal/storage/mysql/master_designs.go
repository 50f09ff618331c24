package mysql

import (
	"context"
	"fmt"

	"jewelflow/internal/storage"
)

func (s *Storage) GetMasterDesigns(ctx context.Context) ([]storage.MasterDesign, error) {
	const op = "storage.mysql.GetMasterDesigns"

	stmt := `
		SELECT design_code, generic_name, karigar_name, karigar_id, is_active
		FROM master_designs
		ORDER BY design_code
	`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var designs []storage.MasterDesign
	for rows.Next() {
		var d storage.MasterDesign
		err := rows.Scan(&d.DesignCode, &d.GenericName, &d.KarigarName, &d.KarigarID, &d.IsActive)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		designs = append(designs, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return designs, nil
}

// SetMasterDesignActive flips the active flag of one registry entry.
func (s *Storage) SetMasterDesignActive(ctx context.Context, designCode string, active bool) error {
	const op = "storage.mysql.SetMasterDesignActive"

	res, err := s.db.ExecContext(ctx,
		`UPDATE master_designs SET is_active = ? WHERE design_code = ?`,
		active, designCode,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: design %q: %w", op, designCode, storage.ErrNotFound)
	}
	return nil
}

// SaveMasterDesigns upserts registry entries in a single transaction.
func (s *Storage) SaveMasterDesigns(ctx context.Context, designs []storage.MasterDesign) error {
	const op = "storage.mysql.SaveMasterDesigns"

	if len(designs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO master_designs (design_code, generic_name, karigar_name, karigar_id, is_active)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			generic_name = VALUES(generic_name),
			karigar_name = VALUES(karigar_name),
			karigar_id = VALUES(karigar_id),
			is_active = VALUES(is_active)
	`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	for _, d := range designs {
		_, err := stmt.ExecContext(ctx, d.DesignCode, d.GenericName, d.KarigarName, d.KarigarID, d.IsActive)
		if err != nil {
			return fmt.Errorf("%s: upsert design %s: %w", op, d.DesignCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
