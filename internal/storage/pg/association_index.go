package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/bselic/newsbrief/internal/apperr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgForeignKeyViolation = "23503"

// AssociationIndex backs the user<->content link table. The composite
// primary key makes repeat Create calls no-ops.
type AssociationIndex struct {
	db *pgxpool.Pool
}

func NewAssociationIndex(pool *ConnectionPool) *AssociationIndex {
	return &AssociationIndex{db: pool.conn}
}

func (i *AssociationIndex) Exists(ctx context.Context, userID, contentID uuid.UUID) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM user_news_content_links
            WHERE user_id = $1 AND news_content_id = $2
        );
    `
	var exists bool
	if err := i.db.QueryRow(ctx, query, userID, contentID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check association: %w", err)
	}
	return exists, nil
}

func (i *AssociationIndex) Create(ctx context.Context, userID, contentID uuid.UUID) error {
	cmd := `
        INSERT INTO user_news_content_links (user_id, news_content_id)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING;
    `
	if _, err := i.db.Exec(ctx, cmd, userID, contentID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("failed to create association: %w", err)
	}
	return nil
}
