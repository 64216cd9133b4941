package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bselic/newsbrief/internal/apperr"
	"github.com/bselic/newsbrief/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

type UserDirectory struct {
	db *pgxpool.Pool
}

func NewUserDirectory(pool *ConnectionPool) *UserDirectory {
	return &UserDirectory{db: pool.conn}
}

func (d *UserDirectory) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := d.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

func (d *UserDirectory) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return d.queryOne(ctx, "SELECT id, email, password, created_at FROM users WHERE id = $1", id)
}

func (d *UserDirectory) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return d.queryOne(ctx, "SELECT id, email, password, created_at FROM users WHERE email = $1", email)
}

func (d *UserDirectory) List(ctx context.Context, offset, limit int) ([]domain.User, error) {
	rows, err := d.db.Query(ctx, `
        SELECT id, email, password, created_at FROM users
        ORDER BY created_at, id
        OFFSET $1 LIMIT $2
    `, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Password, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user rows: %w", err)
	}
	return users, nil
}

func (d *UserDirectory) History(ctx context.Context, id uuid.UUID) ([]domain.NewsContent, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM news_contents c
        JOIN user_news_content_links l ON l.news_content_id = c.id
        WHERE l.user_id = $1
        ORDER BY c.created_at, c.id
    `, prefixedContentColumns("c"))

	rows, err := d.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query user history: %w", err)
	}
	defer rows.Close()

	return scanContents(rows)
}

func (d *UserDirectory) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	stored := *user
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	cmd := "INSERT INTO users (id, email, password, created_at) VALUES ($1, $2, $3, $4)"
	if _, err := d.db.Exec(ctx, cmd, stored.ID, stored.Email, stored.Password, stored.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperr.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return &stored, nil
}

func (d *UserDirectory) Update(ctx context.Context, id uuid.UUID, upd domain.UserUpdate) (*domain.User, error) {
	cmd := `
        UPDATE users
        SET email = COALESCE($2, email), password = COALESCE($3, password)
        WHERE id = $1;
    `
	tag, err := d.db.Exec(ctx, cmd, id, upd.Email, upd.Password)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperr.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.ErrNotFound
	}

	return d.Get(ctx, id)
}

func (d *UserDirectory) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := d.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (d *UserDirectory) queryOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := d.db.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Password, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}
