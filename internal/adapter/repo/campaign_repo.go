package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

const campaignColumns = `id, user_email, pet_name, image_url, short_description, long_description, max_donation, donated_amount, paused, last_donation_date, created_at`

// CampaignRepositoryPG implements domain.CampaignRepository backed by PostgreSQL.
type CampaignRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository creates a new CampaignRepositoryPG.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepositoryPG {
	return &CampaignRepositoryPG{pool: pool}
}

// Create inserts a campaign with a zeroed accumulator.
func (r *CampaignRepositoryPG) Create(ctx context.Context, c *domain.DonationCampaign) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO donation_campaigns (id, user_email, pet_name, image_url, short_description, long_description, max_donation, donated_amount, paused, last_donation_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, 0, FALSE, $8, $9);
`, c.ID, c.UserEmail, c.PetName, c.ImageURL, c.ShortDescription,
		c.LongDescription, c.MaxDonation, c.LastDonationDate, c.CreatedAt)
	return err
}

// GetByID fetches a single campaign.
func (r *CampaignRepositoryPG) GetByID(ctx context.Context, id string) (*domain.DonationCampaign, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM donation_campaigns WHERE id = $1;`, id)
	return scanCampaign(row)
}

// ListAll returns every campaign, newest first.
func (r *CampaignRepositoryPG) ListAll(ctx context.Context) ([]domain.DonationCampaign, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+campaignColumns+`
FROM donation_campaigns
ORDER BY created_at DESC;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCampaigns(rows)
}

// ListByCreator returns campaigns created by one user.
func (r *CampaignRepositoryPG) ListByCreator(ctx context.Context, email string) ([]domain.DonationCampaign, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+campaignColumns+`
FROM donation_campaigns
WHERE user_email = $1
ORDER BY created_at DESC;
`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCampaigns(rows)
}

// Update upserts the campaign's editable fields. The accumulator and the
// paused flag are owned by their dedicated operations and are not touched.
func (r *CampaignRepositoryPG) Update(ctx context.Context, c *domain.DonationCampaign) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO donation_campaigns (id, user_email, pet_name, image_url, short_description, long_description, max_donation, donated_amount, paused, last_donation_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, 0, FALSE, $8, $9)
ON CONFLICT (id) DO UPDATE
SET pet_name = EXCLUDED.pet_name,
    image_url = EXCLUDED.image_url,
    short_description = EXCLUDED.short_description,
    long_description = EXCLUDED.long_description,
    max_donation = EXCLUDED.max_donation,
    last_donation_date = EXCLUDED.last_donation_date;
`, c.ID, c.UserEmail, c.PetName, c.ImageURL, c.ShortDescription,
		c.LongDescription, c.MaxDonation, c.LastDonationDate, c.CreatedAt)
	return err
}

// Pause flags the campaign as paused. There is no unpause.
func (r *CampaignRepositoryPG) Pause(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE donation_campaigns SET paused = TRUE WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCampaign(row pgx.Row) (*domain.DonationCampaign, error) {
	var c domain.DonationCampaign
	if err := row.Scan(&c.ID, &c.UserEmail, &c.PetName, &c.ImageURL, &c.ShortDescription,
		&c.LongDescription, &c.MaxDonation, &c.DonatedAmount, &c.Paused,
		&c.LastDonationDate, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func collectCampaigns(rows pgx.Rows) ([]domain.DonationCampaign, error) {
	var items []domain.DonationCampaign
	for rows.Next() {
		var c domain.DonationCampaign
		if err := rows.Scan(&c.ID, &c.UserEmail, &c.PetName, &c.ImageURL, &c.ShortDescription,
			&c.LongDescription, &c.MaxDonation, &c.DonatedAmount, &c.Paused,
			&c.LastDonationDate, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
