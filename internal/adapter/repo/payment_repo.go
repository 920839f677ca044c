package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

const paymentColumns = `id, campaign_id, donator_email, amount, donor_country, created_at`

// PaymentRepositoryPG implements domain.PaymentRepository backed by PostgreSQL.
type PaymentRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepositoryPG.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepositoryPG {
	return &PaymentRepositoryPG{pool: pool}
}

// Record inserts the payment and folds its amount into the campaign's
// donated total. The increment happens in SQL, never read-modify-write, so
// concurrent payments to one campaign cannot lose updates. Both writes share
// a transaction; a duplicate payment ID aborts before the increment, which
// keeps the accumulator equal to the sum of stored payments even when a
// caller retries.
func (r *PaymentRepositoryPG) Record(ctx context.Context, payment *domain.Payment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin payment tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
INSERT INTO payments (id, campaign_id, donator_email, amount, donor_country, created_at)
VALUES ($1, $2, $3, $4, $5, $6);
`, payment.ID, payment.CampaignID, payment.DonatorEmail, payment.Amount,
		payment.DonorCountry, payment.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicatePayment
		}
		return fmt.Errorf("insert payment: %w", err)
	}

	tag, err := tx.Exec(ctx, `
UPDATE donation_campaigns
SET donated_amount = donated_amount + $1,
    last_donation_date = $2
WHERE id = $3;
`, payment.Amount, payment.CreatedAt, payment.CampaignID)
	if err != nil {
		return fmt.Errorf("accumulate donation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit(ctx)
}

// ListByCampaign returns payments recorded against one campaign.
func (r *PaymentRepositoryPG) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+paymentColumns+`
FROM payments
WHERE campaign_id = $1
ORDER BY created_at DESC;
`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

// ListByDonator returns payments made by one donator.
func (r *PaymentRepositoryPG) ListByDonator(ctx context.Context, email string) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+paymentColumns+`
FROM payments
WHERE donator_email = $1
ORDER BY created_at DESC;
`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

func collectPayments(rows pgx.Rows) ([]domain.Payment, error) {
	var items []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.CampaignID, &p.DonatorEmail, &p.Amount,
			&p.DonorCountry, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
