package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/shareit/internal/domain"
)

type RequestRepository interface {
	Create(ctx context.Context, request *domain.ItemRequest) error
	GetByID(ctx context.Context, id int64) (*domain.ItemRequest, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]domain.ItemRequest, error)
	ListOthers(ctx context.Context, requesterID int64) ([]domain.ItemRequest, error)
}

type PGRequestRepository struct {
	db *pgxpool.Pool
}

func NewRequestRepository(db *pgxpool.Pool) RequestRepository {
	return &PGRequestRepository{db: db}
}

func (r *PGRequestRepository) Create(ctx context.Context, request *domain.ItemRequest) error {
	return r.db.QueryRow(ctx, `INSERT INTO requests (description, requester_id, created)
		VALUES ($1, $2, $3)
		RETURNING id`,
		request.Description, request.RequesterID, request.Created).
		Scan(&request.ID)
}

func (r *PGRequestRepository) GetByID(ctx context.Context, id int64) (*domain.ItemRequest, error) {
	row := r.db.QueryRow(ctx, `SELECT id, description, requester_id, created
		FROM requests WHERE id=$1`, id)
	var req domain.ItemRequest
	if err := row.Scan(&req.ID, &req.Description, &req.RequesterID, &req.Created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("request %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &req, nil
}

func (r *PGRequestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]domain.ItemRequest, error) {
	return r.list(ctx, `SELECT id, description, requester_id, created
		FROM requests WHERE requester_id=$1 ORDER BY created DESC`, requesterID)
}

func (r *PGRequestRepository) ListOthers(ctx context.Context, requesterID int64) ([]domain.ItemRequest, error) {
	return r.list(ctx, `SELECT id, description, requester_id, created
		FROM requests WHERE requester_id<>$1 ORDER BY created DESC`, requesterID)
}

func (r *PGRequestRepository) list(ctx context.Context, query string, arg int64) ([]domain.ItemRequest, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]domain.ItemRequest, 0)
	for rows.Next() {
		var req domain.ItemRequest
		if err := rows.Scan(&req.ID, &req.Description, &req.RequesterID, &req.Created); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

var _ RequestRepository = (*PGRequestRepository)(nil)
