package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/procurehq/lpoflow/internal/domain"
)

type lpoRepository struct {
	db *DB
}

func NewLpoRepository(db *DB) *lpoRepository {
	return &lpoRepository{db: db}
}

// Create persists the LPO and its items atomically. The serial lpo_number is
// assigned by the database and treated as an opaque display string.
func (r *lpoRepository) Create(ctx context.Context, lpo *domain.Lpo) error {
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO lpos (vendor_id, created_by, status, payment_status, total_amount, additional_percentage, additional_notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, lpo_number, date_created, updated_at
		`
		row := tx.QueryRowxContext(ctx, query,
			lpo.VendorID, lpo.CreatedBy, lpo.Status, lpo.PaymentStatus,
			lpo.TotalAmount, lpo.AdditionalPercentage, lpo.AdditionalNotes)
		if err := row.Scan(&lpo.ID, &lpo.LpoNumber, &lpo.DateCreated, &lpo.UpdatedAt); err != nil {
			return fmt.Errorf("failed to insert lpo: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO lpo_items (lpo_id, description, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare item insert: %w", err)
		}
		defer stmt.Close()

		for i := range lpo.Items {
			item := &lpo.Items[i]
			item.LpoID = lpo.ID
			if err := stmt.QueryRowContext(ctx,
				lpo.ID, item.Description, item.Quantity, item.UnitPrice, item.TotalPrice,
			).Scan(&item.ID); err != nil {
				return fmt.Errorf("failed to insert lpo item: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	notifyLpoChange(ctx, r.db, "insert", lpo.ID)
	return nil
}

func (r *lpoRepository) GetByID(ctx context.Context, id string) (*domain.Lpo, error) {
	query := `
		SELECT l.id, l.lpo_number, l.vendor_id, v.name AS vendor_name, l.date_created,
			l.created_by, l.status, l.payment_status, l.total_amount,
			l.additional_percentage, l.additional_notes, l.updated_at
		FROM lpos l
		JOIN vendors v ON l.vendor_id = v.id
		WHERE l.id = $1
	`

	var lpo domain.Lpo
	err := r.db.GetContext(ctx, &lpo, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lpo %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lpo: %w", err)
	}

	if err := r.loadChildren(ctx, []*domain.Lpo{&lpo}); err != nil {
		return nil, err
	}
	return &lpo, nil
}

// List returns all LPOs newest first, vendor names resolved at read time,
// items and payments attached.
func (r *lpoRepository) List(ctx context.Context) ([]domain.Lpo, error) {
	query := `
		SELECT l.id, l.lpo_number, l.vendor_id, v.name AS vendor_name, l.date_created,
			l.created_by, l.status, l.payment_status, l.total_amount,
			l.additional_percentage, l.additional_notes, l.updated_at
		FROM lpos l
		JOIN vendors v ON l.vendor_id = v.id
		ORDER BY l.date_created DESC
	`

	var lpos []domain.Lpo
	if err := sqlx.SelectContext(ctx, r.db, &lpos, query); err != nil {
		return nil, fmt.Errorf("failed to list lpos: %w", err)
	}

	refs := make([]*domain.Lpo, len(lpos))
	for i := range lpos {
		refs[i] = &lpos[i]
	}
	if err := r.loadChildren(ctx, refs); err != nil {
		return nil, err
	}
	return lpos, nil
}

func (r *lpoRepository) loadChildren(ctx context.Context, lpos []*domain.Lpo) error {
	if len(lpos) == 0 {
		return nil
	}

	ids := make([]string, len(lpos))
	byID := make(map[string]*domain.Lpo, len(lpos))
	for i, lpo := range lpos {
		ids[i] = lpo.ID
		byID[lpo.ID] = lpo
	}

	itemQuery, args, err := sqlx.In(`
		SELECT id, lpo_id, description, quantity, unit_price, total_price
		FROM lpo_items
		WHERE lpo_id IN (?)
		ORDER BY id
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to build item query: %w", err)
	}
	var items []domain.LpoItem
	if err := sqlx.SelectContext(ctx, r.db, &items, r.db.Rebind(itemQuery), args...); err != nil {
		return fmt.Errorf("failed to load lpo items: %w", err)
	}
	for _, item := range items {
		lpo := byID[item.LpoID]
		lpo.Items = append(lpo.Items, item)
	}

	paymentQuery, args, err := sqlx.In(`
		SELECT id, lpo_id, amount, date, reference, created_at
		FROM lpo_payments
		WHERE lpo_id IN (?)
		ORDER BY date
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to build payment query: %w", err)
	}
	var payments []domain.LpoPayment
	if err := sqlx.SelectContext(ctx, r.db, &payments, r.db.Rebind(paymentQuery), args...); err != nil {
		return fmt.Errorf("failed to load lpo payments: %w", err)
	}
	for _, payment := range payments {
		lpo := byID[payment.LpoID]
		lpo.Payments = append(lpo.Payments, payment)
	}

	return nil
}

func (r *lpoRepository) SetStatus(ctx context.Context, id string, status domain.LpoStatus) error {
	if err := r.updateField(ctx, id, `UPDATE lpos SET status = $2, updated_at = NOW() WHERE id = $1`, string(status)); err != nil {
		return err
	}
	notifyLpoChange(ctx, r.db, "update", id)
	return nil
}

func (r *lpoRepository) SetPaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	if err := r.updateField(ctx, id, `UPDATE lpos SET payment_status = $2, updated_at = NOW() WHERE id = $1`, string(status)); err != nil {
		return err
	}
	notifyLpoChange(ctx, r.db, "update", id)
	return nil
}

func (r *lpoRepository) updateField(ctx context.Context, id, query, value string) error {
	res, err := r.db.ExecContext(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("failed to update lpo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("lpo %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// AddPayment records a payment and re-derives the payment status in the same
// transaction: Paid once payments cover the total, Partial otherwise.
func (r *lpoRepository) AddPayment(ctx context.Context, payment *domain.LpoPayment) error {
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO lpo_payments (lpo_id, amount, date, reference)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`
		row := tx.QueryRowxContext(ctx, query, payment.LpoID, payment.Amount, payment.Date, payment.Reference)
		if err := row.Scan(&payment.ID, &payment.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}

		derive := `
			UPDATE lpos SET
				payment_status = CASE
					WHEN paid.total >= lpos.total_amount THEN 'Paid'
					WHEN paid.total > 0 THEN 'Partial'
					ELSE 'Unpaid'
				END,
				updated_at = NOW()
			FROM (SELECT COALESCE(SUM(amount), 0) AS total FROM lpo_payments WHERE lpo_id = $1) paid
			WHERE lpos.id = $1
		`
		res, err := tx.ExecContext(ctx, derive, payment.LpoID)
		if err != nil {
			return fmt.Errorf("failed to derive payment status: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read update result: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("lpo %s: %w", payment.LpoID, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	notifyLpoChange(ctx, r.db, "update", payment.LpoID)
	return nil
}

// Delete cascades in one transaction: items, then payments, then the parent.
// Any failure rolls the whole delete back; a failed rollback after a partial
// delete surfaces as ErrCascadePartial.
func (r *lpoRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM lpo_items WHERE lpo_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete lpo items: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM lpo_payments WHERE lpo_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete lpo payments: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM lpos WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete lpo: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read delete result: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("lpo %s: %w", id, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errRollbackFailed) {
			return fmt.Errorf("%w: %v", domain.ErrCascadePartial, err)
		}
		return err
	}

	notifyLpoChange(ctx, r.db, "delete", id)
	return nil
}
