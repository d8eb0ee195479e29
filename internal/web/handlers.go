package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/zmb3/spotify/v2"

	"github.com/justestif/moodify/internal/moods"
	"github.com/justestif/moodify/internal/recommend"
)

// maxBodyBytes bounds the size of a search request body.
const maxBodyBytes = 1 << 16

// Recommender produces ranked recommendations for a mood.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error)
	Moods() *moods.Table
	DefaultCount() int
}

// Recorder stores completed recommendations.
type Recorder interface {
	Record(ctx context.Context, res *recommend.Result, requested int) (uuid.UUID, error)
}

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	recommender Recommender
	recorder    Recorder
	templates   *Templates
	timeout     time.Duration
	logger      *slog.Logger
}

// NewHandlers creates a new Handlers instance. recorder may be nil.
func NewHandlers(recommender Recommender, recorder Recorder, templates *Templates, timeout time.Duration, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		recommender: recommender,
		recorder:    recorder,
		templates:   templates,
		timeout:     timeout,
		logger:      logger,
	}
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Mood  string `json:"mood"`
	Count int    `json:"count,omitempty"`
}

// SearchResponse is the body of a successful POST /search.
type SearchResponse struct {
	Mood             string      `json:"mood"`
	Tracks           []TrackJSON `json:"tracks"`
	RecommendationID string      `json:"recommendation_id,omitempty"`
}

// TrackJSON is one ranked track in a search response.
type TrackJSON struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Artists    string  `json:"artists"`
	SpotifyURL string  `json:"spotify_url,omitempty"`
	AlbumArt   string  `json:"album_art,omitempty"`
	Score      float64 `json:"score"`
}

// MoodJSON describes one supported mood.
type MoodJSON struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Valence      float64  `json:"valence"`
	Energy       float64  `json:"energy"`
	Danceability float64  `json:"danceability"`
	Tempo        float64  `json:"tempo"`
	SeedGenres   []string `json:"seed_genres,omitempty"`
}

// NewSearchResponse converts a ranked result into its JSON form.
func NewSearchResponse(res *recommend.Result) SearchResponse {
	resp := SearchResponse{
		Mood:   res.Mood.Name,
		Tracks: make([]TrackJSON, len(res.Tracks)),
	}
	for i, t := range res.Tracks {
		resp.Tracks[i] = TrackJSON{
			ID:         t.ID,
			Name:       t.Name,
			Artists:    t.Artists,
			SpotifyURL: t.URL,
			AlbumArt:   t.ArtworkURL,
			Score:      t.Score,
		}
	}
	return resp
}

type errorResponse struct {
	Error  string   `json:"error"`
	Detail string   `json:"detail,omitempty"`
	Moods  []string `json:"moods,omitempty"`
}

// Home handles the home page (GET /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	data := HomePageData{
		PageData: PageData{
			Title:       "Moodify",
			CurrentPath: r.URL.Path,
		},
		Moods:        moodData(h.recommender.Moods()),
		DefaultCount: h.recommender.DefaultCount(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, "home", data); err != nil {
		h.logger.Error("rendering home page", "error", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
}

// Search ranks tracks for the requested mood (POST /search).
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	if req.Count < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Count must not be negative"})
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	res, err := h.recommender.Recommend(ctx, recommend.Request{Mood: req.Mood, Count: req.Count})
	if err != nil {
		h.writeRecommendError(w, req.Mood, err)
		return
	}

	resp := NewSearchResponse(res)

	if h.recorder != nil {
		requested := req.Count
		if requested == 0 {
			requested = h.recommender.DefaultCount()
		}
		// History is best effort; the ranked result is already computed.
		id, err := h.recorder.Record(r.Context(), res, requested)
		if err != nil {
			h.logger.Warn("recording recommendation failed", "mood", res.Mood.Name, "error", err)
		} else {
			resp.RecommendationID = id.String()
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Moods lists the supported moods (GET /moods).
func (h *Handlers) Moods(w http.ResponseWriter, r *http.Request) {
	table := h.recommender.Moods()
	out := make([]MoodJSON, 0, len(table.Labels()))
	for _, p := range table.Profiles() {
		out = append(out, MoodJSON{
			Name:         p.Name,
			Description:  moods.Describe(p),
			Valence:      p.Valence,
			Energy:       p.Energy,
			Danceability: p.Danceability,
			Tempo:        p.Tempo,
			SeedGenres:   p.SeedGenres,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"moods":         out,
		"default_count": table.DefaultCount(),
	})
}

// Healthz reports liveness (GET /healthz).
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeRecommendError maps a recommendation failure to a status code.
func (h *Handlers) writeRecommendError(w http.ResponseWriter, mood string, err error) {
	switch {
	case errors.Is(err, moods.ErrEmptyMood):
		h.logger.Info("rejected request without mood")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No mood provided"})
	case errors.Is(err, moods.ErrUnknownMood):
		h.logger.Info("rejected unknown mood", "mood", mood)
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "Unknown mood",
			Moods: h.recommender.Moods().Labels(),
		})
	case errors.Is(err, recommend.ErrEmptyPool):
		h.logger.Warn("no candidates for mood", "mood", mood, "error", err)
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "No tracks found for mood"})
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("recommendation timed out", "mood", mood, "error", err)
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "Spotify API timed out"})
	case errors.Is(err, recommend.ErrSearch):
		h.logger.Error("catalog search failed", "mood", mood, "error", err)
		resp := errorResponse{Error: "Spotify API error"}
		var spErr spotify.Error
		if errors.As(err, &spErr) {
			resp.Detail = spErr.Message
		}
		writeJSON(w, http.StatusBadGateway, resp)
	default:
		h.logger.Error("recommendation failed", "mood", mood, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// moodData converts the mood table into template data.
func moodData(table *moods.Table) []MoodData {
	profiles := table.Profiles()
	out := make([]MoodData, len(profiles))
	for i, p := range profiles {
		out[i] = MoodData{
			Name:        p.Name,
			Description: moods.Describe(p),
			Energy:      p.Energy,
			Valence:     p.Valence,
		}
	}
	return out
}
