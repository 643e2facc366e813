package repository

import (
	"context"
	"fmt"

	"pinpoint-api/internal/models"
)

// AddFavorite inserts the (user, place) favorite pair and bumps the place's
// favorite count in one transaction. The primary key on favorites is the
// authoritative duplicate guard: a concurrent duplicate insert hits
// ON CONFLICT DO NOTHING and leaves the count untouched. Returns whether a
// row was actually inserted.
func (r *Repository) AddFavorite(ctx context.Context, placeID, userID int64) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO favorites (user_id, place_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, place_id) DO NOTHING
	`, userID, placeID)
	if err != nil {
		return false, fmt.Errorf("repository: failed to insert favorite: %w", err)
	}

	inserted := tag.RowsAffected() > 0
	if inserted {
		_, err = tx.Exec(ctx, `UPDATE places SET favorite_count = favorite_count + 1 WHERE id = $1`, placeID)
		if err != nil {
			return false, fmt.Errorf("repository: failed to increment favorite count: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("repository: failed to commit favorite: %w", err)
	}

	return inserted, nil
}

// RemoveFavorite deletes the favorite pair if present and decrements the
// count, floored at zero, in one transaction. Returns whether a row was
// actually removed.
func (r *Repository) RemoveFavorite(ctx context.Context, placeID, userID int64) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND place_id = $2`, userID, placeID)
	if err != nil {
		return false, fmt.Errorf("repository: failed to delete favorite: %w", err)
	}

	removed := tag.RowsAffected() > 0
	if removed {
		_, err = tx.Exec(ctx, `UPDATE places SET favorite_count = GREATEST(favorite_count - 1, 0) WHERE id = $1`, placeID)
		if err != nil {
			return false, fmt.Errorf("repository: failed to decrement favorite count: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("repository: failed to commit unfavorite: %w", err)
	}

	return removed, nil
}

// ListFavoritePlaces fetches every place the user has favorited, including
// soft-deleted ones; visibility filtering happens in the service layer.
func (r *Repository) ListFavoritePlaces(ctx context.Context, userID int64) ([]models.Place, error) {
	sql := `
		SELECT ` + placeColumns + `
		FROM places
		WHERE id IN (SELECT place_id FROM favorites WHERE user_id = $1)
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to fetch favorites: %w", err)
	}
	defer rows.Close()

	var places []models.Place
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan place: %w", err)
		}
		places = append(places, *place)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return places, nil
}
