package repository

import (
	"context"
	"fmt"

	"pinpoint-api/internal/models"
)

// CreateActivity inserts a new activity under a place
func (r *Repository) CreateActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	sql := `
		INSERT INTO activities (place_id, name, category)
		VALUES ($1, $2, $3)
		RETURNING id, place_id, name, category, created_at
	`

	var a models.Activity
	err := r.db.QueryRow(ctx, sql, activity.PlaceID, activity.Name, activity.Category).Scan(
		&a.ID,
		&a.PlaceID,
		&a.Name,
		&a.Category,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to insert activity: %w", err)
	}

	return &a, nil
}

// ListActivities fetches all activities of a place ordered by id
func (r *Repository) ListActivities(ctx context.Context, placeID int64) ([]models.Activity, error) {
	sql := `
		SELECT id, place_id, name, category, created_at
		FROM activities
		WHERE place_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, sql, placeID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to fetch activities: %w", err)
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		err := rows.Scan(&a.ID, &a.PlaceID, &a.Name, &a.Category, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return activities, nil
}
