package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justestif/moodify/internal/recommend"
)

// RecommendationRepository handles recommendation history operations.
type RecommendationRepository struct {
	pool *pgxpool.Pool
}

// Record stores a recommendation result. It satisfies the web and CLI
// history recorder interfaces.
func (r *RecommendationRepository) Record(ctx context.Context, res *recommend.Result, requested int) (uuid.UUID, error) {
	rec := newRecommendation(res, requested)
	if err := r.Create(ctx, rec); err != nil {
		return uuid.Nil, err
	}
	return rec.ID, nil
}

// Create inserts a recommendation with its tracks.
func (r *RecommendationRepository) Create(ctx context.Context, rec *Recommendation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	query := `
		INSERT INTO recommendations (id, mood, requested, pool_size, missing_features, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`
	err = tx.QueryRow(ctx, query,
		rec.ID,
		rec.Mood,
		rec.Requested,
		rec.PoolSize,
		rec.MissingFeatures,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting recommendation: %w", err)
	}

	if len(rec.Tracks) > 0 {
		tracksQuery := `
			INSERT INTO recommendation_tracks (recommendation_id, position, track_id, name, artists, score)
			SELECT $1::uuid, * FROM unnest($2::int[], $3::text[], $4::text[], $5::text[], $6::float8[])
		`
		positions := make([]int32, len(rec.Tracks))
		trackIDs := make([]string, len(rec.Tracks))
		names := make([]string, len(rec.Tracks))
		artists := make([]string, len(rec.Tracks))
		scores := make([]float64, len(rec.Tracks))
		for i, t := range rec.Tracks {
			positions[i] = int32(t.Position)
			trackIDs[i] = t.TrackID
			names[i] = t.Name
			artists[i] = t.Artists
			scores[i] = t.Score
		}

		_, err = tx.Exec(ctx, tracksQuery, rec.ID, positions, trackIDs, names, artists, scores)
		if err != nil {
			return fmt.Errorf("inserting recommendation tracks: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves a recommendation and its tracks by ID.
func (r *RecommendationRepository) Get(ctx context.Context, id uuid.UUID) (*Recommendation, error) {
	query := `
		SELECT id, mood, requested, pool_size, missing_features, created_at
		FROM recommendations
		WHERE id = $1
	`
	var rec Recommendation
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.Mood,
		&rec.Requested,
		&rec.PoolSize,
		&rec.MissingFeatures,
		&rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying recommendation: %w", err)
	}

	tracks, err := r.getTracks(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Tracks = tracks
	return &rec, nil
}

// ListRecent returns the most recent recommendations without their tracks.
func (r *RecommendationRepository) ListRecent(ctx context.Context, limit int) ([]Recommendation, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, mood, requested, pool_size, missing_features, created_at
		FROM recommendations
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recommendations: %w", err)
	}
	defer rows.Close()

	var recs []Recommendation
	for rows.Next() {
		var rec Recommendation
		if err := rows.Scan(
			&rec.ID,
			&rec.Mood,
			&rec.Requested,
			&rec.PoolSize,
			&rec.MissingFeatures,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning recommendation: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// getTracks retrieves the ranked tracks of a recommendation.
func (r *RecommendationRepository) getTracks(ctx context.Context, id uuid.UUID) ([]RecommendedTrack, error) {
	query := `
		SELECT position, track_id, name, artists, score
		FROM recommendation_tracks
		WHERE recommendation_id = $1
		ORDER BY position
	`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("querying recommendation tracks: %w", err)
	}
	defer rows.Close()

	var tracks []RecommendedTrack
	for rows.Next() {
		var t RecommendedTrack
		if err := rows.Scan(&t.Position, &t.TrackID, &t.Name, &t.Artists, &t.Score); err != nil {
			return nil, fmt.Errorf("scanning recommendation track: %w", err)
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// newRecommendation converts a ranked result into a storable record.
func newRecommendation(res *recommend.Result, requested int) *Recommendation {
	rec := &Recommendation{
		ID:              uuid.New(),
		Mood:            res.Mood.Name,
		Requested:       requested,
		PoolSize:        res.PoolSize,
		MissingFeatures: res.Missing,
		Tracks:          make([]RecommendedTrack, len(res.Tracks)),
	}
	for i, t := range res.Tracks {
		rec.Tracks[i] = RecommendedTrack{
			Position: i + 1,
			TrackID:  t.ID,
			Name:     t.Name,
			Artists:  t.Artists,
			Score:    t.Score,
		}
	}
	return rec
}
