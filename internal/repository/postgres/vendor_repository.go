package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/procurehq/lpoflow/internal/domain"
)

const pgForeignKeyViolation = "23503"

type vendorRepository struct {
	db *DB
}

func NewVendorRepository(db *DB) *vendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) Create(ctx context.Context, in domain.VendorInput) (*domain.Vendor, error) {
	query := `
		INSERT INTO vendors (name, email, phone, address, bank_name, account_number, account_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, name, email, phone, address, bank_name, account_number, account_name, created_at, updated_at
	`

	var vendor domain.Vendor
	err := r.db.GetContext(ctx, &vendor, query,
		in.Name, in.Email, in.Phone, in.Address, in.BankName, in.AccountNumber, in.AccountName)
	if err != nil {
		return nil, fmt.Errorf("failed to create vendor: %w", err)
	}

	return &vendor, nil
}

func (r *vendorRepository) Update(ctx context.Context, id string, in domain.VendorInput) (*domain.Vendor, error) {
	query := `
		UPDATE vendors
		SET name = $2, email = $3, phone = $4, address = $5,
			bank_name = $6, account_number = $7, account_name = $8,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, email, phone, address, bank_name, account_number, account_name, created_at, updated_at
	`

	var vendor domain.Vendor
	err := r.db.GetContext(ctx, &vendor, query,
		id, in.Name, in.Email, in.Phone, in.Address, in.BankName, in.AccountNumber, in.AccountName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("vendor %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update vendor: %w", err)
	}

	return &vendor, nil
}

func (r *vendorRepository) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	query := `
		SELECT id, name, email, phone, address, bank_name, account_number, account_name, created_at, updated_at
		FROM vendors
		WHERE id = $1
	`

	var vendor domain.Vendor
	err := r.db.GetContext(ctx, &vendor, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("vendor %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}

	return &vendor, nil
}

func (r *vendorRepository) List(ctx context.Context) ([]domain.Vendor, error) {
	query := `
		SELECT id, name, email, phone, address, bank_name, account_number, account_name, created_at, updated_at
		FROM vendors
		ORDER BY name
	`

	var vendors []domain.Vendor
	if err := sqlx.SelectContext(ctx, r.db, &vendors, query); err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}

	return vendors, nil
}

// Delete refuses to remove a vendor still referenced by LPOs. The schema
// enforces this with ON DELETE RESTRICT; the check here exists to return a
// typed error instead of a driver error.
func (r *vendorRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var refs int
		if err := tx.GetContext(ctx, &refs, `SELECT COUNT(1) FROM lpos WHERE vendor_id = $1`, id); err != nil {
			return fmt.Errorf("failed to count vendor references: %w", err)
		}
		if refs > 0 {
			return fmt.Errorf("vendor %s: %w", id, domain.ErrVendorInUse)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM vendors WHERE id = $1`, id)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
				return fmt.Errorf("vendor %s: %w", id, domain.ErrVendorInUse)
			}
			return fmt.Errorf("failed to delete vendor: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read delete result: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("vendor %s: %w", id, domain.ErrNotFound)
		}
		return nil
	})
}
