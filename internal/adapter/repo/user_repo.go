package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(pool *pgxpool.Pool) *UserRepositoryPG {
	return &UserRepositoryPG{pool: pool}
}

// Create registers a user. Registration is idempotent per email: a second
// insert for the same address writes nothing and reports ErrUserExists.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) error {
	tag, err := r.pool.Exec(ctx, `
INSERT INTO users (id, email, name, photo_url, role)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (email) DO NOTHING;
`, user.ID, user.Email, user.Name, user.PhotoURL, string(user.Role))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserExists
	}
	return nil
}

// GetByEmail fetches a user by its unique email.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, email, name, photo_url, role, created_at
FROM users
WHERE email = $1;
`, email)
	return scanUser(row)
}

// List returns every registered user.
func (r *UserRepositoryPG) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, email, name, photo_url, role, created_at
FROM users
ORDER BY created_at DESC;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.User
	for rows.Next() {
		var user domain.User
		var role string
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.PhotoURL, &role, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.Role = domain.ParseRole(role)
		items = append(items, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// PromoteToAdmin sets the user's role to Admin.
func (r *UserRepositoryPG) PromoteToAdmin(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE users SET role = $1 WHERE id = $2;
`, string(domain.RoleAdmin), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var role string
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PhotoURL, &role, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	user.Role = domain.ParseRole(role)
	return &user, nil
}
