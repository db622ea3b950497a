package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/portfolio/pkg/models"
)

func (r *SQLiteRepo) CreateOperator(ctx context.Context, o *models.Operator) (int64, error) {
	if o == nil {
		return 0, fmt.Errorf("operator is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO operators (email, password_hash, disabled, updated) VALUES (?, ?, ?, ?)`, o.Email, o.PasswordHash, o.Disabled, now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetOperatorByEmail(ctx context.Context, email string) (*models.Operator, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, email, password_hash, disabled, updated FROM operators WHERE email = ?`, email)
	var o models.Operator
	if err := row.Scan(&o.ID, &o.Email, &o.PasswordHash, &o.Disabled, &o.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &o, nil
}

func (r *SQLiteRepo) UpdateOperator(ctx context.Context, o *models.Operator) error {
	if o == nil {
		return fmt.Errorf("operator is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE operators SET email = ?, password_hash = ?, disabled = ?, updated = ? WHERE id = ?`, o.Email, o.PasswordHash, o.Disabled, now(), o.ID)
	return err
}
