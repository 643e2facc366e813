package repository

import (
	"context"
	"errors"
	"fmt"

	"pinpoint-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the persistence contracts for PostgreSQL
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const placeColumns = `
	id,
	name,
	address,
	ST_Y(geom::geometry) as latitude,
	ST_X(geom::geometry) as longitude,
	owner_id,
	visibility,
	place_type,
	is_claimed,
	is_deleted,
	favorite_count,
	created_at
`

func scanPlace(row pgx.Row) (*models.Place, error) {
	var p models.Place
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Address,
		&p.Latitude,
		&p.Longitude,
		&p.OwnerID,
		&p.Visibility,
		&p.Type,
		&p.IsClaimed,
		&p.IsDeleted,
		&p.FavoriteCount,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePlace inserts a new place and returns it with its assigned id and timestamp
func (r *Repository) CreatePlace(ctx context.Context, place *models.Place) (*models.Place, error) {
	sql := `
		INSERT INTO places (name, address, owner_id, visibility, place_type, geom)
		VALUES ($1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($6, $7), 4326))
		RETURNING ` + placeColumns

	created, err := scanPlace(r.db.QueryRow(ctx, sql,
		place.Name,
		place.Address,
		place.OwnerID,
		place.Visibility,
		place.Type,
		place.Longitude,
		place.Latitude,
	))
	if err != nil {
		return nil, fmt.Errorf("repository: failed to insert place: %w", err)
	}

	return created, nil
}

// GetPlaceByID loads a place by id, including soft-deleted rows. Returns nil
// without error when the row does not exist.
func (r *Repository) GetPlaceByID(ctx context.Context, id int64) (*models.Place, error) {
	sql := `SELECT ` + placeColumns + ` FROM places WHERE id = $1`

	place, err := scanPlace(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to load place: %w", err)
	}

	return place, nil
}

// FindVerifiedByAddress looks up a public verified place with an exact address
// match. Returns nil without error when no such place exists.
func (r *Repository) FindVerifiedByAddress(ctx context.Context, address string) (*models.Place, error) {
	sql := `
		SELECT ` + placeColumns + `
		FROM places
		WHERE address = $1
		  AND visibility = 'public'
		  AND place_type = 'verified'
		  AND NOT is_deleted
		ORDER BY id
		LIMIT 1
	`

	place, err := scanPlace(r.db.QueryRow(ctx, sql, address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to look up place by address: %w", err)
	}

	return place, nil
}

// FindCustomNearby looks up a public custom place whose coordinates fall within
// a fixed degree window of the given point. The window is a cheap bounding
// check, not a geodesic circle. Returns nil without error when no match exists.
func (r *Repository) FindCustomNearby(ctx context.Context, lat, lng, toleranceDeg float64) (*models.Place, error) {
	sql := `
		SELECT ` + placeColumns + `
		FROM places
		WHERE ST_Y(geom::geometry) BETWEEN $1 - $3 AND $1 + $3
		  AND ST_X(geom::geometry) BETWEEN $2 - $3 AND $2 + $3
		  AND visibility = 'public'
		  AND place_type = 'custom'
		  AND NOT is_deleted
		ORDER BY id
		LIMIT 1
	`

	place, err := scanPlace(r.db.QueryRow(ctx, sql, lat, lng, toleranceDeg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to look up place by coordinates: %w", err)
	}

	return place, nil
}

// ListCandidates fetches all non-deleted places matching the non-spatial
// filters. Distance filtering happens in the service layer.
func (r *Repository) ListCandidates(ctx context.Context, filters models.SearchFilters) ([]models.Place, error) {
	sql := `SELECT ` + placeColumns + ` FROM places WHERE NOT is_deleted`
	args := []interface{}{}

	if filters.Visibility != "" {
		args = append(args, filters.Visibility)
		sql += fmt.Sprintf(" AND visibility = $%d", len(args))
	}
	if filters.Type != "" {
		args = append(args, filters.Type)
		sql += fmt.Sprintf(" AND place_type = $%d", len(args))
	}
	if filters.ActivityName != "" {
		args = append(args, filters.ActivityName)
		sql += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM activities a WHERE a.place_id = places.id AND a.name ILIKE '%%' || $%d || '%%')", len(args))
	}
	if filters.ActivityCategory != "" {
		args = append(args, filters.ActivityCategory)
		sql += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM activities a WHERE a.place_id = places.id AND a.category = $%d)", len(args))
	}

	sql += " ORDER BY id"

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to fetch candidates: %w", err)
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

// SoftDeletePlace marks a place as deleted
func (r *Repository) SoftDeletePlace(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE places SET is_deleted = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to soft-delete place: %w", err)
	}
	return nil
}
