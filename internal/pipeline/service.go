package pipeline

import (
	"context"
	"errors"
	"math"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go_crm/internal/automation"
	"go_crm/internal/httpx"
	"go_crm/internal/model"
)

// EventPublisher broadcasts a committed stage change to realtime subscribers.
// Publishing happens after commit and never affects the transition outcome.
type EventPublisher interface {
	PublishDealEvent(eventType string, payload interface{}) error
}

// Service is the stage transition coordinator: the only writer of a deal's
// stage and probability, the history ledger, and the automation log.
type Service struct {
	db        *gorm.DB
	selector  *automation.Selector
	executor  *automation.Executor
	publisher EventPublisher
	logger    *logrus.Entry
}

// NewService creates the transition coordinator. publisher may be nil.
func NewService(db *gorm.DB, logger *logrus.Entry, publisher EventPublisher) *Service {
	return &Service{
		db:        db,
		selector:  automation.NewSelector(logger),
		executor:  automation.NewExecutor(logger),
		publisher: publisher,
		logger:    logger.WithField("component", "transition-coordinator"),
	}
}

// TransitionStage moves a deal to targetStageID inside one transaction:
// row-locked read, stage + probability update, one ledger row, then fan-out
// automation in the same transaction so probability overrides and log rows
// commit or roll back with the primary change.
//
// Validation, not-found and permission failures reject the request with no
// state change. Any infrastructure failure rolls the whole operation back.
func (s *Service) TransitionStage(ctx context.Context, dealID, targetStageID int, note string, triggerAutomation bool, actor Actor) (*TransitionResult, error) {
	if dealID <= 0 {
		return nil, httpx.ErrValidation("deal id must be positive")
	}
	if targetStageID <= 0 {
		return nil, httpx.ErrValidation("stage_id must be positive")
	}
	if len(note) > 500 {
		return nil, httpx.ErrValidation("notes must be at most 500 characters")
	}

	var result *TransitionResult

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the deal row so concurrent transitions on the same deal
		// serialize; the second request observes the first one's committed
		// stage as its from_stage. Other deals are untouched by this lock.
		var deal model.Deal
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&deal, dealID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httpx.ErrNotFound("deal not found")
			}
			return err
		}

		if !actor.Elevated() && deal.AssignedUserID != actor.ID {
			return httpx.ErrPermission("deal belongs to another user")
		}

		var target model.PipelineStage
		if err := tx.First(&target, targetStageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httpx.ErrNotFound("target stage not found")
			}
			return err
		}
		if !target.IsActive {
			return httpx.ErrValidation("target stage is not active")
		}

		var fromStage model.PipelineStage
		if err := tx.First(&fromStage, deal.PipelineStageID).Error; err != nil {
			return err
		}

		fromStageID := deal.PipelineStageID
		previousProbability := deal.Probability

		// Stage default; an update_probability rule may override it below,
		// inside this same transaction.
		newProbability := target.WinProbability

		if err := tx.Model(&deal).Updates(map[string]interface{}{
			"pipeline_stage_id": target.ID,
			"probability":       newProbability,
		}).Error; err != nil {
			return err
		}
		deal.PipelineStageID = target.ID
		deal.Probability = newProbability

		history := model.DealStageHistory{
			DealID:          deal.ID,
			FromStageID:     fromStageID,
			ToStageID:       target.ID,
			ChangedByUserID: actor.ID,
			Note:            note,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		if triggerAutomation {
			rules, err := s.selector.Select(tx, fromStageID, target.ID)
			if err != nil {
				return err
			}
			run, err := s.executor.Run(tx, rules, &deal, actor.ID)
			if err != nil {
				return err
			}
			if run.Executed > 0 {
				s.logger.WithFields(logrus.Fields{
					"deal_id":   deal.ID,
					"executed":  run.Executed,
					"succeeded": run.Succeeded,
					"failed":    run.Failed,
				}).Info("automation fan-out completed")
			}
		}

		result = &TransitionResult{
			Deal: &deal,
			Transition: TransitionSummary{
				FromStage:         StageRef{ID: fromStage.ID, Name: fromStage.Name},
				ToStage:           StageRef{ID: target.ID, Name: target.Name},
				ProbabilityChange: roundProbability(deal.Probability - previousProbability),
			},
			AutomationTriggered: triggerAutomation,
		}
		return nil
	})

	if txErr != nil {
		var appErr *httpx.AppError
		if errors.As(txErr, &appErr) {
			return nil, appErr
		}
		s.logger.WithError(txErr).WithField("deal_id", dealID).Error("transition rolled back")
		return nil, httpx.ErrTransaction("stage transition failed", txErr)
	}

	s.publish(result, actor)
	return result, nil
}

// publish broadcasts the committed transition. Failures are logged only.
func (s *Service) publish(result *TransitionResult, actor Actor) {
	if s.publisher == nil {
		return
	}
	event := StageChangedEvent{
		DealID:      result.Deal.ID,
		Title:       result.Deal.Title,
		FromStageID: result.Transition.FromStage.ID,
		ToStageID:   result.Transition.ToStage.ID,
		Probability: result.Deal.Probability,
		ChangedBy:   actor.ID,
	}
	if err := s.publisher.PublishDealEvent("stage_changed", event); err != nil {
		s.logger.WithError(err).Warn("failed to publish stage change event")
	}
}

// History returns the deal's transition ledger, newest first.
func (s *Service) History(ctx context.Context, dealID int) ([]model.DealStageHistory, error) {
	if err := s.ensureDealExists(ctx, dealID); err != nil {
		return nil, err
	}

	var rows []model.DealStageHistory
	err := s.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Preload("FromStage").
		Preload("ToStage").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, httpx.ErrTransaction("failed to load stage history", err)
	}
	return rows, nil
}

// AutomationLog returns per-rule execution outcomes for a deal, newest first.
// This is the only place per-rule detail is exposed; the transition response
// reports just automation_triggered.
func (s *Service) AutomationLog(ctx context.Context, dealID int) ([]model.AutomationLog, error) {
	if err := s.ensureDealExists(ctx, dealID); err != nil {
		return nil, err
	}

	var rows []model.AutomationLog
	err := s.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Preload("Rule").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, httpx.ErrTransaction("failed to load automation log", err)
	}
	return rows, nil
}

func (s *Service) ensureDealExists(ctx context.Context, dealID int) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Deal{}).Where("id = ?", dealID).Count(&count).Error; err != nil {
		return httpx.ErrTransaction("failed to query deal", err)
	}
	if count == 0 {
		return httpx.ErrNotFound("deal not found")
	}
	return nil
}

// roundProbability rounds to two decimals at the response boundary.
func roundProbability(v float64) float64 {
	return math.Round(v*100) / 100
}
