package db

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation is a stored recommendation request and its outcome.
type Recommendation struct {
	ID              uuid.UUID
	Mood            string
	Requested       int // Count asked for (after defaulting)
	PoolSize        int
	MissingFeatures int
	CreatedAt       time.Time
	Tracks          []RecommendedTrack // Ordered by Position; empty in list queries
}

// RecommendedTrack is one ranked track of a recommendation.
type RecommendedTrack struct {
	Position int // 1-based rank
	TrackID  string
	Name     string
	Artists  string
	Score    float64
}
