package repository

import (
	"context"
	"fmt"
)

// FriendIDsOf resolves the symmetric friend set of a user. Pairs are stored
// once in either direction, so both columns are consulted.
func (r *Repository) FriendIDsOf(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	sql := `
		SELECT friend_id FROM friendships WHERE user_id = $1
		UNION
		SELECT user_id FROM friendships WHERE friend_id = $1
	`

	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to fetch friend ids: %w", err)
	}
	defer rows.Close()

	friendIDs := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("repository: failed to scan friend id: %w", err)
		}
		friendIDs[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return friendIDs, nil
}
