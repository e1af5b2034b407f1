package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/shareit/internal/domain"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByItem(ctx context.Context, itemID int64) ([]domain.Comment, error)
}

type PGCommentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) CommentRepository {
	return &PGCommentRepository{db: db}
}

func (r *PGCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.QueryRow(ctx, `INSERT INTO comments (text, item_id, author_id, created)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		comment.Text, comment.ItemID, comment.AuthorID, comment.Created).
		Scan(&comment.ID)
}

func (r *PGCommentRepository) ListByItem(ctx context.Context, itemID int64) ([]domain.Comment, error) {
	rows, err := r.db.Query(ctx, `SELECT c.id, c.text, c.item_id, c.author_id, u.name, c.created
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.item_id=$1 ORDER BY c.created DESC`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.Created); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

var _ CommentRepository = (*PGCommentRepository)(nil)
