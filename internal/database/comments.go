package database

import (
	"context"
	"fmt"

	"shareit/internal/models"
)

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (item_id, author_id, text, created_at) VALUES (?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		comment.ItemID,
		comment.AuthorID,
		comment.Text,
		comment.Created.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	comment.ID = id
	return nil
}

func (db *DB) ListCommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error) {
	query := `SELECT id, item_id, author_id, text, created_at FROM comments
              WHERE item_id = ? ORDER BY datetime(created_at) ASC`
	return db.queryComments(ctx, query, itemID)
}

func (db *DB) ListCommentsByItems(ctx context.Context, itemIDs []int64) ([]models.Comment, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT id, item_id, author_id, text, created_at FROM comments
              WHERE item_id IN (%s) ORDER BY datetime(created_at) ASC`, placeholders(len(itemIDs)))
	return db.queryComments(ctx, query, int64Args(itemIDs)...)
}

func (db *DB) queryComments(ctx context.Context, query string, args ...any) ([]models.Comment, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.ItemID, &c.AuthorID, &c.Text, &c.Created); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}
