package automation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"go_crm/internal/model"
)

// Executor interprets rule actions inside the coordinator's transaction.
// Each rule is isolated: a panic or error in one rule is captured in its
// AutomationLog row and never aborts the transition or the remaining rules.
type Executor struct {
	logger *logrus.Entry
}

// NewExecutor creates an action executor.
func NewExecutor(logger *logrus.Entry) *Executor {
	return &Executor{logger: logger.WithField("component", "action-executor")}
}

// RunResult summarizes a fan-out execution over the selected rules.
type RunResult struct {
	Executed  int
	Succeeded int
	Failed    int
}

// Run executes every selected rule in order, appending exactly one
// AutomationLog row per rule inside tx. The deal pointer is mutated when an
// update_probability action fires so later rules and the caller observe the
// override.
func (e *Executor) Run(tx *gorm.DB, rules []model.AutomationRule, deal *model.Deal, actorID int) (*RunResult, error) {
	result := &RunResult{}

	for i := range rules {
		rule := &rules[i]
		execErr := e.executeOne(tx, rule, deal, actorID)

		logRow := model.AutomationLog{
			RuleID:           rule.ID,
			DealID:           deal.ID,
			ExecutedByUserID: actorID,
			ExecutionResult:  model.ExecutionResultSuccess,
		}
		if execErr != nil {
			logRow.ExecutionResult = model.ExecutionResultFailed
			logRow.ErrorMessage = execErr.Error()
			result.Failed++
			e.logger.WithFields(logrus.Fields{
				"rule_id": rule.ID,
				"deal_id": deal.ID,
			}).WithError(execErr).Warn("automation rule execution failed")
		} else {
			result.Succeeded++
		}
		result.Executed++

		// Bookkeeping for the rule itself must persist with the transition;
		// a failure to write the log row is an infrastructure fault, not a
		// rule fault, and aborts the whole operation.
		if err := tx.Create(&logRow).Error; err != nil {
			return nil, fmt.Errorf("failed to write automation log for rule %d: %w", rule.ID, err)
		}
	}

	return result, nil
}

// executeOne dispatches a single rule, converting panics into errors so a
// misbehaving action cannot take down the transition.
func (e *Executor) executeOne(tx *gorm.DB, rule *model.AutomationRule, deal *model.Deal, actorID int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rule execution panic: %v", r)
		}
	}()

	action, err := DecodeAction(rule)
	if err != nil {
		return err
	}

	switch a := action.(type) {
	case CreateTaskAction:
		assignee := a.AssignedUserID
		if assignee == 0 {
			assignee = actorID
		}
		activity := model.Activity{
			DealID:          deal.ID,
			Subject:         a.Subject,
			DueDate:         time.Now().AddDate(0, 0, a.DaysFromNow),
			AssignedUserID:  assignee,
			CreatedByUserID: actorID,
			Status:          model.ActivityStatusPending,
		}
		return tx.Create(&activity).Error

	case SendEmailAction:
		recipient := a.ToUserID
		if recipient == 0 {
			recipient = deal.AssignedUserID
		}
		payload := a.Payload
		if payload == nil {
			payload = map[string]any{}
		}
		payload["deal_id"] = deal.ID
		payload["deal_title"] = deal.Title
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode email payload: %w", err)
		}
		entry := model.EmailQueueEntry{
			MessageID:    uuid.NewString(),
			ToUserID:     recipient,
			TemplateName: a.TemplateName,
			Payload:      datatypes.JSON(encoded),
			Status:       model.EmailStatusPending,
		}
		return tx.Create(&entry).Error

	case UpdateProbabilityAction:
		if err := tx.Model(deal).Update("probability", a.Probability).Error; err != nil {
			return err
		}
		deal.Probability = a.Probability
		return nil

	case UnknownAction:
		e.logger.WithFields(logrus.Fields{
			"rule_id":     rule.ID,
			"action_type": a.Type,
		}).Warn("unknown automation action type, treating as no-op")
		return nil

	default:
		return fmt.Errorf("unhandled action variant %T", action)
	}
}
