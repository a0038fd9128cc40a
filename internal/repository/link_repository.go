package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/ido-nevo/mylinkshortenerproject/internal/errors"
	"github.com/ido-nevo/mylinkshortenerproject/internal/model"
)

const uniqueViolation = "23505"

type PostgresLinkRepository struct {
	db *sql.DB
}

func NewPostgresLinkRepository(db *sql.DB) LinkRepository {
	return &PostgresLinkRepository{
		db: db,
	}
}

func (r *PostgresLinkRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Link, error) {
	query := `
	SELECT id, owner_id, url, short_code, created_at, updated_at
	FROM links
	WHERE owner_id = $1
	ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	links := make([]model.Link, 0)
	for rows.Next() {
		var l model.Link
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.URL, &l.ShortCode, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read links: %w", err)
	}

	return links, nil
}

func (r *PostgresLinkRepository) Insert(ctx context.Context, ownerID, url, shortCode string) (*model.Link, error) {
	query := `
	INSERT INTO links (owner_id, url, short_code)
	VALUES ($1, $2, $3)
	RETURNING id, owner_id, url, short_code, created_at, updated_at
	`

	link := &model.Link{}
	err := r.db.QueryRowContext(ctx, query, ownerID, url, shortCode).Scan(
		&link.ID,
		&link.OwnerID,
		&link.URL,
		&link.ShortCode,
		&link.CreatedAt,
		&link.UpdatedAt,
	)

	if isUniqueViolation(err) {
		// Второй писатель в гонке probe-then-insert упирается в констрейнт
		return nil, apperrors.ErrShortCodeTaken
	}

	if err != nil {
		return nil, fmt.Errorf("failed to insert link: %w", err)
	}

	return link, nil
}

func (r *PostgresLinkRepository) UpdateByIDAndOwner(ctx context.Context, id int64, ownerID, url, shortCode string) (*model.Link, error) {
	query := `
	UPDATE links
	SET url = $3, short_code = $4, updated_at = now()
	WHERE id = $1 AND owner_id = $2
	RETURNING id, owner_id, url, short_code, created_at, updated_at
	`

	link := &model.Link{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID, url, shortCode).Scan(
		&link.ID,
		&link.OwnerID,
		&link.URL,
		&link.ShortCode,
		&link.CreatedAt,
		&link.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		// Чужая или несуществующая строка - не различаем
		return nil, apperrors.ErrNotFound
	}

	if isUniqueViolation(err) {
		return nil, apperrors.ErrShortCodeTaken
	}

	if err != nil {
		return nil, fmt.Errorf("failed to update link: %w", err)
	}

	return link, nil
}

func (r *PostgresLinkRepository) DeleteByIDAndOwner(ctx context.Context, id int64, ownerID string) (*model.Link, error) {
	query := `
	DELETE FROM links
	WHERE id = $1 AND owner_id = $2
	RETURNING id, owner_id, url, short_code, created_at, updated_at
	`

	link := &model.Link{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&link.ID,
		&link.OwnerID,
		&link.URL,
		&link.ShortCode,
		&link.CreatedAt,
		&link.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to delete link: %w", err)
	}

	return link, nil
}

func (r *PostgresLinkRepository) ExistsByShortCode(ctx context.Context, shortCode string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM links WHERE short_code = $1 AND id <> $2)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, shortCode, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check short code existence: %w", err)
	}

	return exists, nil
}

func (r *PostgresLinkRepository) FindByShortCode(ctx context.Context, shortCode string) (*model.Link, error) {
	query := `
	SELECT id, owner_id, url, short_code, created_at, updated_at
	FROM links
	WHERE short_code = $1
	`

	link := &model.Link{}
	err := r.db.QueryRowContext(ctx, query, shortCode).Scan(
		&link.ID,
		&link.OwnerID,
		&link.URL,
		&link.ShortCode,
		&link.CreatedAt,
		&link.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find link: %w", err)
	}

	return link, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
