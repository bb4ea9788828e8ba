package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shareit/internal/models"
)

func (db *DB) CreateRequest(ctx context.Context, request *models.Request) error {
	query := `INSERT INTO requests (requester_id, description, created_at) VALUES (?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		request.RequesterID,
		request.Description,
		request.Created.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	request.ID = id
	return nil
}

func (db *DB) GetRequest(ctx context.Context, id int64) (*models.Request, error) {
	var request models.Request
	query := `SELECT id, requester_id, description, created_at FROM requests WHERE id = ?`
	err := db.QueryRowContext(ctx, query, id).Scan(
		&request.ID, &request.RequesterID, &request.Description, &request.Created,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFound("request %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return &request, nil
}

func (db *DB) ListRequestsByUser(ctx context.Context, requesterID int64) ([]models.Request, error) {
	query := `SELECT id, requester_id, description, created_at FROM requests
              WHERE requester_id = ? ORDER BY datetime(created_at) ASC`
	return db.queryRequests(ctx, query, requesterID)
}

func (db *DB) ListRequests(ctx context.Context, limit, offset int) ([]models.Request, error) {
	query := `SELECT id, requester_id, description, created_at FROM requests
              ORDER BY datetime(created_at) ASC LIMIT ? OFFSET ?`
	return db.queryRequests(ctx, query, limit, offset)
}

func (db *DB) queryRequests(ctx context.Context, query string, args ...any) ([]models.Request, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var requests []models.Request
	for rows.Next() {
		var r models.Request
		if err := rows.Scan(&r.ID, &r.RequesterID, &r.Description, &r.Created); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}
