package analytics

import (
	"math"
	"time"

	"go_crm/internal/model"
)

// StageOverview is the per-stage rollup, ordered by display order.
type StageOverview struct {
	StageID        int     `json:"stage_id"`
	Name           string  `json:"name"`
	DisplayOrder   int     `json:"display_order"`
	DealCount      int64   `json:"deal_count"`
	TotalValue     float64 `json:"total_value"`
	AvgDealValue   float64 `json:"avg_deal_value"`
	AvgProbability float64 `json:"avg_probability"`
	WinRate        float64 `json:"win_rate"`
	ConversionRate float64 `json:"conversion_rate"`
}

// PipelineSummary is the cross-stage rollup.
type PipelineSummary struct {
	TotalDeals  int64   `json:"total_deals"`
	TotalValue  float64 `json:"total_value"`
	MeanWinRate float64 `json:"mean_win_rate"`
}

// PipelineSnapshot is the full analytics overview served to clients.
type PipelineSnapshot struct {
	PipelineStages  []StageOverview `json:"pipeline_stages"`
	PipelineSummary PipelineSummary `json:"pipeline_summary"`
	LastUpdated     time.Time       `json:"last_updated"`
}

// stageAgg is one row of the grouped aggregation query over deals.
type stageAgg struct {
	PipelineStageID int
	DealCount       int64
	TotalValue      float64
	AvgValue        float64
	AvgProbability  float64
	WonCount        int64
}

// buildSnapshot assembles the snapshot from active stages and grouped deal
// aggregates. Rates are percentages; rounding to two decimals happens only
// here, never during intermediate aggregation, so rounding error does not
// compound across stages.
func buildSnapshot(stages []model.PipelineStage, aggs []stageAgg, now time.Time) *PipelineSnapshot {
	byStage := make(map[int]stageAgg, len(aggs))
	for _, agg := range aggs {
		byStage[agg.PipelineStageID] = agg
	}

	overviews := make([]StageOverview, 0, len(stages))
	summary := PipelineSummary{}
	winRateSum := 0.0

	var prevCount int64
	for i, stage := range stages {
		agg := byStage[stage.ID]

		winRate := 0.0
		if agg.DealCount > 0 {
			winRate = float64(agg.WonCount) / float64(agg.DealCount) * 100
		}

		// Conversion relative to the immediately preceding stage by display
		// order; the first stage (or an empty predecessor) counts as 100%.
		conversion := 100.0
		if i > 0 && prevCount > 0 {
			conversion = float64(agg.DealCount) / float64(prevCount) * 100
		}

		overviews = append(overviews, StageOverview{
			StageID:        stage.ID,
			Name:           stage.Name,
			DisplayOrder:   stage.DisplayOrder,
			DealCount:      agg.DealCount,
			TotalValue:     round2(agg.TotalValue),
			AvgDealValue:   round2(agg.AvgValue),
			AvgProbability: round2(agg.AvgProbability),
			WinRate:        round2(winRate),
			ConversionRate: round2(conversion),
		})

		summary.TotalDeals += agg.DealCount
		summary.TotalValue += agg.TotalValue
		winRateSum += winRate
		prevCount = agg.DealCount
	}

	if len(stages) > 0 {
		summary.MeanWinRate = round2(winRateSum / float64(len(stages)))
	}
	summary.TotalValue = round2(summary.TotalValue)

	return &PipelineSnapshot{
		PipelineStages:  overviews,
		PipelineSummary: summary,
		LastUpdated:     now,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
