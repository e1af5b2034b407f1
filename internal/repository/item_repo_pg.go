package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/shareit/internal/domain"
)

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	Update(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Item, error)
	ListByRequest(ctx context.Context, requestID int64) ([]domain.Item, error)
	SearchAvailable(ctx context.Context, text string) ([]domain.Item, error)
}

type PGItemRepository struct {
	db *pgxpool.Pool
}

func NewItemRepository(db *pgxpool.Pool) ItemRepository {
	return &PGItemRepository{db: db}
}

func (r *PGItemRepository) Create(ctx context.Context, item *domain.Item) error {
	return r.db.QueryRow(ctx, `INSERT INTO items (name, description, available, owner_id, request_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		item.Name, item.Description, item.Available, item.OwnerID, item.RequestID).
		Scan(&item.ID)
}

func (r *PGItemRepository) Update(ctx context.Context, item *domain.Item) error {
	tag, err := r.db.Exec(ctx, `UPDATE items SET name=$1, description=$2, available=$3, updated_at=now()
		WHERE id=$4`, item.Name, item.Description, item.Available, item.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %d: %w", item.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *PGItemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, description, available, owner_id, request_id
		FROM items WHERE id=$1`, id)
	var i domain.Item
	if err := row.Scan(&i.ID, &i.Name, &i.Description, &i.Available, &i.OwnerID, &i.RequestID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &i, nil
}

func (r *PGItemRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Item, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, available, owner_id, request_id
		FROM items WHERE owner_id=$1 ORDER BY id`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

func (r *PGItemRepository) ListByRequest(ctx context.Context, requestID int64) ([]domain.Item, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, available, owner_id, request_id
		FROM items WHERE request_id=$1 ORDER BY id`, requestID)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

// SearchAvailable matches the text against name and description,
// case-insensitive, available items only.
func (r *PGItemRepository) SearchAvailable(ctx context.Context, text string) ([]domain.Item, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, available, owner_id, request_id
		FROM items
		WHERE (name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		AND available = TRUE ORDER BY id`, text)
	if err != nil {
		return nil, err
	}
	return collectItems(rows)
}

func collectItems(rows pgx.Rows) ([]domain.Item, error) {
	defer rows.Close()
	items := make([]domain.Item, 0)
	for rows.Next() {
		var i domain.Item
		if err := rows.Scan(&i.ID, &i.Name, &i.Description, &i.Available, &i.OwnerID, &i.RequestID); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

var _ ItemRepository = (*PGItemRepository)(nil)
