package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bselic/newsbrief/internal/apperr"
	"github.com/bselic/newsbrief/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const contentColumns = "id, title, authors, publication_date, content, url, summary, created_at"

func prefixedContentColumns(alias string) string {
	cols := strings.Split(contentColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

type ContentStore struct {
	db *pgxpool.Pool
}

func NewContentStore(pool *ConnectionPool) *ContentStore {
	return &ContentStore{db: pool.conn}
}

func (s *ContentStore) FindByURL(ctx context.Context, url string) (*domain.NewsContent, error) {
	query := fmt.Sprintf("SELECT %s FROM news_contents WHERE url = $1", contentColumns)
	return s.queryOne(ctx, query, url)
}

func (s *ContentStore) Get(ctx context.Context, id uuid.UUID) (*domain.NewsContent, error) {
	query := fmt.Sprintf("SELECT %s FROM news_contents WHERE id = $1", contentColumns)
	return s.queryOne(ctx, query, id)
}

func (s *ContentStore) Insert(ctx context.Context, item *domain.NewsContent) (*domain.NewsContent, error) {
	stored := *item
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	cmd := `
        INSERT INTO news_contents (id, title, authors, publication_date, content, url, summary, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (url) DO NOTHING
        RETURNING id;
    `
	var id uuid.UUID
	err := s.db.QueryRow(
		ctx,
		cmd,
		stored.ID,
		stored.Title,
		stored.Authors,
		stored.PublicationDate,
		stored.Body,
		stored.URL,
		stored.Summary,
		stored.CreatedAt,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		// URL already stored; return the existing row.
		return s.FindByURL(ctx, stored.URL)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert news content: %w", err)
	}

	return &stored, nil
}

// UpdateSummary only writes when the stored summary is still empty, so a
// concurrent duplicate completion cannot clobber the first writer's text.
func (s *ContentStore) UpdateSummary(ctx context.Context, id uuid.UUID, summary string) error {
	cmd := `
        UPDATE news_contents
        SET summary = $2
        WHERE id = $1 AND (summary IS NULL OR summary = '');
    `
	tag, err := s.db.Exec(ctx, cmd, id, summary)
	if err != nil {
		return fmt.Errorf("failed to update summary: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Either the row is missing or its summary is already set; the latter
	// is a no-op by contract.
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return nil
}

func (s *ContentStore) List(ctx context.Context, offset, limit int) ([]domain.NewsContent, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM news_contents
        ORDER BY created_at, id
        OFFSET $1 LIMIT $2
    `, contentColumns)

	rows, err := s.db.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list news contents: %w", err)
	}
	defer rows.Close()

	return scanContents(rows)
}

func (s *ContentStore) queryOne(ctx context.Context, query string, arg any) (*domain.NewsContent, error) {
	var item domain.NewsContent
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&item.ID,
		&item.Title,
		&item.Authors,
		&item.PublicationDate,
		&item.Body,
		&item.URL,
		&item.Summary,
		&item.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query news content: %w", err)
	}
	return &item, nil
}

func scanContents(rows pgx.Rows) ([]domain.NewsContent, error) {
	var items []domain.NewsContent
	for rows.Next() {
		var item domain.NewsContent
		if err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Authors,
			&item.PublicationDate,
			&item.Body,
			&item.URL,
			&item.Summary,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan news content row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read news content rows: %w", err)
	}
	return items, nil
}
