package recommend

import (
	"context"
	"log/slog"
)

// DefaultBatchSize is the number of ids sent per feature lookup.
// The lookup endpoint caps ids per call by URL length.
const DefaultBatchSize = 10

// FeatureProvider looks up audio features for a bounded list of ids.
// The returned slice is ordered like ids; a nil entry means the provider
// has no features for that id. An error fails the whole call.
type FeatureProvider interface {
	AudioFeatures(ctx context.Context, ids []string) ([]*FeatureVector, error)
}

// FetchFeatures resolves ids to feature vectors in batches of at most batchSize.
// The result has the same length and order as ids.
// A failed batch yields nil for each of its ids and does not stop later batches.
// Once ctx is done, remaining batches are treated as failed without calling the provider.
func FetchFeatures(ctx context.Context, provider FeatureProvider, ids []string, batchSize int, logger *slog.Logger) []*FeatureVector {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	out := make([]*FeatureVector, 0, len(ids))
	total := len(ids)

	for i := 0; i < total; i += batchSize {
		end := min(i+batchSize, total)
		batch := ids[i:end]

		if err := ctx.Err(); err != nil {
			logBatchFailure(logger, i, end, err)
			out = appendMissing(out, len(batch))
			continue
		}

		features, err := provider.AudioFeatures(ctx, batch)
		if err != nil {
			logBatchFailure(logger, i, end, err)
			out = appendMissing(out, len(batch))
			continue
		}

		// Keep positions aligned even if the provider returns a short or long slice.
		for j := range batch {
			if j < len(features) {
				out = append(out, features[j])
			} else {
				out = append(out, nil)
			}
		}
	}

	return out
}

func logBatchFailure(logger *slog.Logger, start, end int, err error) {
	logger.Warn("audio feature batch failed",
		slog.Int("batch_start", start+1),
		slog.Int("batch_end", end),
		slog.Int("batch_size", end-start),
		slog.String("error", err.Error()),
	)
}

func appendMissing(out []*FeatureVector, n int) []*FeatureVector {
	for range n {
		out = append(out, nil)
	}
	return out
}
