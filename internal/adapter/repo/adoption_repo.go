package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

const adoptionColumns = `id, user_email, pet_id, pet_owner_email, pet_name, user_name, user_phone, user_address, status, created_at`

// AdoptionRepositoryPG implements domain.AdoptionRepository backed by PostgreSQL.
type AdoptionRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAdoptionRepository creates a new AdoptionRepositoryPG.
func NewAdoptionRepository(pool *pgxpool.Pool) *AdoptionRepositoryPG {
	return &AdoptionRepositoryPG{pool: pool}
}

// Create inserts an adoption request. The unique index on
// (user_email, pet_id) makes the existence check and the insert one atomic
// operation; concurrent duplicates cannot both pass.
func (r *AdoptionRepositoryPG) Create(ctx context.Context, req *domain.AdoptionRequest) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO adoption_requests (id, user_email, pet_id, pet_owner_email, pet_name, user_name, user_phone, user_address, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`, req.ID, req.UserEmail, req.PetID, req.PetOwnerEmail, req.PetName,
		req.UserName, req.UserPhone, req.UserAddress, string(req.Status), req.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyAdopted
		}
		return err
	}
	return nil
}

// GetByID returns a single adoption request.
func (r *AdoptionRepositoryPG) GetByID(ctx context.Context, id string) (*domain.AdoptionRequest, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+adoptionColumns+`
FROM adoption_requests
WHERE id = $1;
`, id)

	var req domain.AdoptionRequest
	var status string
	if err := row.Scan(&req.ID, &req.UserEmail, &req.PetID, &req.PetOwnerEmail,
		&req.PetName, &req.UserName, &req.UserPhone, &req.UserAddress, &status, &req.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	req.Status = domain.AdoptionStatus(status)
	return &req, nil
}

// ListByOwner returns requests targeting pets owned by ownerEmail.
func (r *AdoptionRepositoryPG) ListByOwner(ctx context.Context, ownerEmail string) ([]domain.AdoptionRequest, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+adoptionColumns+`
FROM adoption_requests
WHERE pet_owner_email = $1
ORDER BY created_at DESC;
`, ownerEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAdoptions(rows)
}

// ListByRequester returns requests submitted by userEmail.
func (r *AdoptionRepositoryPG) ListByRequester(ctx context.Context, userEmail string) ([]domain.AdoptionRequest, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+adoptionColumns+`
FROM adoption_requests
WHERE user_email = $1
ORDER BY created_at DESC;
`, userEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAdoptions(rows)
}

// Decide accepts or rejects one request. The pet's adopted flag and the
// request status move together inside one transaction so a failure can never
// leave them disagreeing. Accepting closes the competing requests for the
// same pet as Not Adopted; rejecting touches only the one request.
func (r *AdoptionRepositoryPG) Decide(ctx context.Context, id string, accepted bool) error {
	status := domain.AdoptionRejected
	if accepted {
		status = domain.AdoptionAdopted
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin decide tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var petID string
	err = tx.QueryRow(ctx, `SELECT pet_id FROM adoption_requests WHERE id = $1 FOR UPDATE;`, id).Scan(&petID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("load adoption request: %w", err)
	}

	petTag, err := tx.Exec(ctx, `UPDATE pets SET adopted = $1 WHERE id = $2;`, accepted, petID)
	if err != nil {
		return fmt.Errorf("update pet adopted flag: %w", err)
	}
	if petTag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	_, err = tx.Exec(ctx, `UPDATE adoption_requests SET status = $1 WHERE id = $2;`, string(status), id)
	if err != nil {
		return fmt.Errorf("update adoption request status: %w", err)
	}
	if accepted {
		_, err = tx.Exec(ctx, `UPDATE adoption_requests SET status = $1 WHERE pet_id = $2 AND id <> $3;`,
			string(domain.AdoptionRejected), petID, id)
		if err != nil {
			return fmt.Errorf("close competing adoption requests: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func collectAdoptions(rows pgx.Rows) ([]domain.AdoptionRequest, error) {
	var items []domain.AdoptionRequest
	for rows.Next() {
		var req domain.AdoptionRequest
		var status string
		if err := rows.Scan(&req.ID, &req.UserEmail, &req.PetID, &req.PetOwnerEmail,
			&req.PetName, &req.UserName, &req.UserPhone, &req.UserAddress, &status, &req.CreatedAt); err != nil {
			return nil, err
		}
		req.Status = domain.AdoptionStatus(status)
		items = append(items, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
