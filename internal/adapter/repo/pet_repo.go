package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

const petColumns = `id, name, category, age, location, short_description, long_description, image_url, owner_email, adopted, date_added`

// PetRepositoryPG implements domain.PetRepository backed by PostgreSQL.
type PetRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewPetRepository creates a new PetRepositoryPG.
func NewPetRepository(pool *pgxpool.Pool) *PetRepositoryPG {
	return &PetRepositoryPG{pool: pool}
}

// Create inserts a new pet listing.
func (r *PetRepositoryPG) Create(ctx context.Context, pet *domain.Pet) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO pets (id, name, category, age, location, short_description, long_description, image_url, owner_email, adopted, date_added)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`, pet.ID, pet.Name, pet.Category, pet.Age, pet.Location, pet.ShortDescription,
		pet.LongDescription, pet.ImageURL, pet.OwnerEmail, pet.Adopted, pet.DateAdded)
	return err
}

// GetByID fetches a single pet.
func (r *PetRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Pet, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1;`, id)
	return scanPet(row)
}

// Search lists pets newest first, optionally narrowed by a case-insensitive
// name fragment and an exact category.
func (r *PetRepositoryPG) Search(ctx context.Context, filter domain.PetFilter) ([]domain.Pet, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+petColumns+`
FROM pets
WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
  AND ($2 = '' OR category = $2)
ORDER BY date_added DESC;
`, filter.Query, filter.Category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPets(rows)
}

// ListByOwner returns the pets listed by one owner.
func (r *PetRepositoryPG) ListByOwner(ctx context.Context, email string) ([]domain.Pet, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+petColumns+`
FROM pets
WHERE owner_email = $1
ORDER BY date_added DESC;
`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPets(rows)
}

// Update upserts the pet's editable fields, keyed by id.
func (r *PetRepositoryPG) Update(ctx context.Context, pet *domain.Pet) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO pets (id, name, category, age, location, short_description, long_description, image_url, owner_email, adopted, date_added)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    category = EXCLUDED.category,
    age = EXCLUDED.age,
    location = EXCLUDED.location,
    short_description = EXCLUDED.short_description,
    long_description = EXCLUDED.long_description,
    image_url = EXCLUDED.image_url;
`, pet.ID, pet.Name, pet.Category, pet.Age, pet.Location, pet.ShortDescription,
		pet.LongDescription, pet.ImageURL, pet.OwnerEmail, pet.Adopted, pet.DateAdded)
	return err
}

// MarkAdopted flips the adopted flag on.
func (r *PetRepositoryPG) MarkAdopted(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE pets SET adopted = TRUE WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a pet listing.
func (r *PetRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pets WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPet(row pgx.Row) (*domain.Pet, error) {
	var pet domain.Pet
	if err := row.Scan(&pet.ID, &pet.Name, &pet.Category, &pet.Age, &pet.Location,
		&pet.ShortDescription, &pet.LongDescription, &pet.ImageURL, &pet.OwnerEmail,
		&pet.Adopted, &pet.DateAdded); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &pet, nil
}

func collectPets(rows pgx.Rows) ([]domain.Pet, error) {
	var items []domain.Pet
	for rows.Next() {
		var pet domain.Pet
		if err := rows.Scan(&pet.ID, &pet.Name, &pet.Category, &pet.Age, &pet.Location,
			&pet.ShortDescription, &pet.LongDescription, &pet.ImageURL, &pet.OwnerEmail,
			&pet.Adopted, &pet.DateAdded); err != nil {
			return nil, err
		}
		items = append(items, pet)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
