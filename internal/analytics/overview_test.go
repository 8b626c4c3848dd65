package analytics

import (
	"testing"
	"time"

	"go_crm/internal/model"
)

func stage(id, order int, name string) model.PipelineStage {
	s := model.PipelineStage{
		Name:         name,
		DisplayOrder: order,
		IsActive:     true,
	}
	s.ID = id
	return s
}

func TestBuildSnapshot_PerStageRollups(t *testing.T) {
	stages := []model.PipelineStage{
		stage(1, 1, "Lead"),
		stage(2, 2, "Qualified"),
		stage(3, 3, "Proposal"),
	}
	aggs := []stageAgg{
		{PipelineStageID: 1, DealCount: 10, TotalValue: 50000, AvgValue: 5000, AvgProbability: 0.1, WonCount: 0},
		{PipelineStageID: 2, DealCount: 4, TotalValue: 40000, AvgValue: 10000, AvgProbability: 0.25, WonCount: 1},
		{PipelineStageID: 3, DealCount: 2, TotalValue: 30000, AvgValue: 15000, AvgProbability: 0.5, WonCount: 1},
	}

	snap := buildSnapshot(stages, aggs, time.Now())

	if len(snap.PipelineStages) != 3 {
		t.Fatalf("Expected 3 stage overviews, got %d", len(snap.PipelineStages))
	}

	lead := snap.PipelineStages[0]
	if lead.WinRate != 0 {
		t.Errorf("Lead win rate should be 0, got %v", lead.WinRate)
	}
	if lead.ConversionRate != 100 {
		t.Errorf("First stage conversion should be 100, got %v", lead.ConversionRate)
	}

	qualified := snap.PipelineStages[1]
	if qualified.WinRate != 25 {
		t.Errorf("Qualified win rate should be 25 (1/4), got %v", qualified.WinRate)
	}
	if qualified.ConversionRate != 40 {
		t.Errorf("Qualified conversion should be 40 (4/10), got %v", qualified.ConversionRate)
	}

	proposal := snap.PipelineStages[2]
	if proposal.WinRate != 50 {
		t.Errorf("Proposal win rate should be 50 (1/2), got %v", proposal.WinRate)
	}
	if proposal.ConversionRate != 50 {
		t.Errorf("Proposal conversion should be 50 (2/4), got %v", proposal.ConversionRate)
	}
}

func TestBuildSnapshot_Summary(t *testing.T) {
	stages := []model.PipelineStage{
		stage(1, 1, "Lead"),
		stage(2, 2, "Won"),
	}
	aggs := []stageAgg{
		{PipelineStageID: 1, DealCount: 3, TotalValue: 1000.005, AvgValue: 333.335, AvgProbability: 0.1},
		{PipelineStageID: 2, DealCount: 2, TotalValue: 2000, AvgValue: 1000, AvgProbability: 1, WonCount: 2},
	}

	snap := buildSnapshot(stages, aggs, time.Now())

	if snap.PipelineSummary.TotalDeals != 5 {
		t.Errorf("Expected 5 total deals, got %d", snap.PipelineSummary.TotalDeals)
	}
	if snap.PipelineSummary.TotalValue != 3000.01 {
		t.Errorf("Expected rounded total value 3000.01, got %v", snap.PipelineSummary.TotalValue)
	}
	// Mean of per-stage win rates: (0 + 100) / 2
	if snap.PipelineSummary.MeanWinRate != 50 {
		t.Errorf("Expected mean win rate 50, got %v", snap.PipelineSummary.MeanWinRate)
	}
}

func TestBuildSnapshot_EmptyPredecessorConversion(t *testing.T) {
	stages := []model.PipelineStage{
		stage(1, 1, "Lead"),
		stage(2, 2, "Qualified"),
	}
	// No deals in Lead; Qualified's conversion falls back to 100.
	aggs := []stageAgg{
		{PipelineStageID: 2, DealCount: 3, TotalValue: 300, AvgValue: 100, AvgProbability: 0.25},
	}

	snap := buildSnapshot(stages, aggs, time.Now())

	if snap.PipelineStages[0].DealCount != 0 {
		t.Errorf("Expected empty Lead stage, got %d deals", snap.PipelineStages[0].DealCount)
	}
	if snap.PipelineStages[1].ConversionRate != 100 {
		t.Errorf("Conversion over an empty predecessor should be 100, got %v",
			snap.PipelineStages[1].ConversionRate)
	}
}

func TestBuildSnapshot_NoStages(t *testing.T) {
	snap := buildSnapshot(nil, nil, time.Now())

	if len(snap.PipelineStages) != 0 {
		t.Errorf("Expected no stage overviews, got %d", len(snap.PipelineStages))
	}
	if snap.PipelineSummary.MeanWinRate != 0 {
		t.Errorf("Expected zero mean win rate, got %v", snap.PipelineSummary.MeanWinRate)
	}
}

func TestBuildSnapshot_RoundingAtBoundaryOnly(t *testing.T) {
	stages := []model.PipelineStage{
		stage(1, 1, "Lead"),
		stage(2, 2, "Qualified"),
		stage(3, 3, "Proposal"),
	}
	// 1/3 conversions would compound if rounded mid-aggregation.
	aggs := []stageAgg{
		{PipelineStageID: 1, DealCount: 9, AvgProbability: 0.333333},
		{PipelineStageID: 2, DealCount: 3, AvgProbability: 0.333333},
		{PipelineStageID: 3, DealCount: 1, AvgProbability: 0.333333},
	}

	snap := buildSnapshot(stages, aggs, time.Now())

	if snap.PipelineStages[1].ConversionRate != 33.33 {
		t.Errorf("Expected 33.33, got %v", snap.PipelineStages[1].ConversionRate)
	}
	if snap.PipelineStages[2].ConversionRate != 33.33 {
		t.Errorf("Expected 33.33, got %v", snap.PipelineStages[2].ConversionRate)
	}
	if snap.PipelineStages[0].AvgProbability != 0.33 {
		t.Errorf("Expected probability rounded to 0.33, got %v", snap.PipelineStages[0].AvgProbability)
	}
}
