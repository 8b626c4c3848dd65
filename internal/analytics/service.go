package analytics

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"go_crm/internal/cache"
	"go_crm/internal/model"
)

// Cache key for the unfiltered overview. Filtered variants must derive
// distinct keys from their parameters.
const overviewCacheKey = "analytics_overview"

// Service computes pipeline-wide rollups and serves them cache-aside. The
// cache is an injected capability; results may be stale up to the TTL but are
// always identical in shape to an uncached computation.
type Service struct {
	db     *gorm.DB
	store  cache.Store
	ttl    time.Duration
	logger *logrus.Entry
}

// NewService creates the analytics aggregator.
func NewService(db *gorm.DB, store cache.Store, ttl time.Duration, logger *logrus.Entry) *Service {
	return &Service{
		db:     db,
		store:  store,
		ttl:    ttl,
		logger: logger.WithField("component", "analytics"),
	}
}

// GetOverview returns the pipeline snapshot, from cache when fresh.
func (s *Service) GetOverview(ctx context.Context) (*PipelineSnapshot, error) {
	var snap PipelineSnapshot
	err := cache.GetOrSet(ctx, s.store, s.logger, overviewCacheKey, s.ttl, func() (any, error) {
		return s.computeOverview(ctx)
	}, &snap)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// computeOverview runs the aggregation query and assembles the snapshot.
func (s *Service) computeOverview(ctx context.Context) (*PipelineSnapshot, error) {
	var stages []model.PipelineStage
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC").
		Find(&stages).Error
	if err != nil {
		return nil, err
	}

	var aggs []stageAgg
	err = s.db.WithContext(ctx).
		Model(&model.Deal{}).
		Select("pipeline_stage_id, " +
			"COUNT(*) AS deal_count, " +
			"COALESCE(SUM(value), 0) AS total_value, " +
			"COALESCE(AVG(value), 0) AS avg_value, " +
			"COALESCE(AVG(probability), 0) AS avg_probability, " +
			"SUM(CASE WHEN status = 'won' THEN 1 ELSE 0 END) AS won_count").
		Group("pipeline_stage_id").
		Scan(&aggs).Error
	if err != nil {
		return nil, err
	}

	return buildSnapshot(stages, aggs, time.Now().UTC()), nil
}
