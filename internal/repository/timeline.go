package repository

import (
	"context"
	"fmt"
	"realm-warp/internal/db"
	"realm-warp/internal/domain"
	"time"

	"github.com/goccy/go-json"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type TimelineRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewTimelineRepository(queries *db.Queries, logger zerolog.Logger) *TimelineRepository {
	return &TimelineRepository{
		queries: queries,
		logger:  logger.With().Str("component", "timeline_repository").Logger(),
	}
}

func (r *TimelineRepository) FindByMatchID(ctx context.Context, matchID string) (*domain.Timeline, error) {
	row, err := r.queries.GetTimelineByMatchID(ctx, matchID)
	if err != nil {
		return nil, wrap("get timeline", err)
	}
	return &domain.Timeline{
		ID:            row.ID,
		MatchID:       row.MatchID,
		DataVersion:   row.DataVersion,
		FrameInterval: row.FrameInterval,
		Participants:  json.RawMessage(row.Participants),
		Frames:        json.RawMessage(row.Frames),
		CreatedAt:     row.CreatedAt,
	}, nil
}

// Insert stores the timeline unless one already exists for its match and
// reports whether a row was written.
func (r *TimelineRepository) Insert(ctx context.Context, timeline *domain.Timeline) (bool, error) {
	return r.insert(ctx, r.queries, timeline)
}

// insert runs on q so a match insert can store its timeline in the same
// transaction.
func (r *TimelineRepository) insert(ctx context.Context, q *db.Queries, timeline *domain.Timeline) (bool, error) {
	if timeline.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return false, fmt.Errorf("failed to generate nanoid: %w", err)
		}
		timeline.ID = id
	}
	if timeline.CreatedAt.IsZero() {
		timeline.CreatedAt = time.Now().UTC()
	}

	n, err := q.InsertTimeline(ctx, db.InsertTimelineParams{
		ID:            timeline.ID,
		MatchID:       timeline.MatchID,
		DataVersion:   timeline.DataVersion,
		FrameInterval: timeline.FrameInterval,
		Participants:  rawOr(timeline.Participants, "[]"),
		Frames:        rawOr(timeline.Frames, "[]"),
		CreatedAt:     timeline.CreatedAt,
	})
	if err != nil {
		return false, wrap("insert timeline", err)
	}
	if n == 0 {
		r.logger.Debug().Str("match_id", timeline.MatchID).Msg("Timeline already stored")
	}
	return n > 0, nil
}
