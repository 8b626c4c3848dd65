package automation

import (
	"encoding/json"
	"fmt"

	"go_crm/internal/model"
)

// Action is the decoded form of a rule's action payload. The variant set is
// closed: adding a new action kind means adding a type here and a case in the
// executor, which the compiler then checks.
type Action interface {
	isAction()
}

// CreateTaskAction schedules a follow-up activity on the deal.
type CreateTaskAction struct {
	Subject        string
	DaysFromNow    int
	AssignedUserID int // 0 means assign to the acting user
}

// SendEmailAction enqueues an outbound email; delivery happens out of process.
type SendEmailAction struct {
	TemplateName string
	ToUserID     int // 0 means the deal's assigned user
	Payload      map[string]any
}

// UpdateProbabilityAction overwrites the deal's probability, superseding the
// stage-default value the coordinator set.
type UpdateProbabilityAction struct {
	Probability float64
}

// UnknownAction is the explicit fallback for action types this build does not
// know. It executes as a no-op and logs success: a configuration gap, not a
// runtime fault.
type UnknownAction struct {
	Type model.AutomationActionType
}

func (CreateTaskAction) isAction()        {}
func (SendEmailAction) isAction()         {}
func (UpdateProbabilityAction) isAction() {}
func (UnknownAction) isAction()           {}

type createTaskPayload struct {
	Subject        string `json:"subject"`
	DaysFromNow    *int   `json:"days_from_now"`
	AssignedUserID int    `json:"assigned_user_id"`
}

type sendEmailPayload struct {
	Template string         `json:"template"`
	ToUserID int            `json:"to_user_id"`
	Payload  map[string]any `json:"payload"`
}

type updateProbabilityPayload struct {
	Probability *float64 `json:"probability"`
}

// DecodeAction parses a rule's action_data according to its action_type.
// Malformed payloads are decode errors; the executor records them as a failed
// execution for that rule only.
func DecodeAction(rule *model.AutomationRule) (Action, error) {
	data := []byte(rule.ActionData)
	if len(data) == 0 {
		data = []byte("{}")
	}

	switch rule.ActionType {
	case model.ActionTypeCreateTask:
		var p createTaskPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("invalid create_task payload: %w", err)
		}
		days := 1
		if p.DaysFromNow != nil {
			if *p.DaysFromNow < 0 {
				return nil, fmt.Errorf("days_from_now must not be negative, got %d", *p.DaysFromNow)
			}
			days = *p.DaysFromNow
		}
		subject := p.Subject
		if subject == "" {
			subject = fmt.Sprintf("Follow up: %s", rule.Name)
		}
		return CreateTaskAction{
			Subject:        subject,
			DaysFromNow:    days,
			AssignedUserID: p.AssignedUserID,
		}, nil

	case model.ActionTypeSendEmail:
		var p sendEmailPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("invalid send_email payload: %w", err)
		}
		if p.Template == "" {
			return nil, fmt.Errorf("send_email payload missing template")
		}
		return SendEmailAction{
			TemplateName: p.Template,
			ToUserID:     p.ToUserID,
			Payload:      p.Payload,
		}, nil

	case model.ActionTypeUpdateProbability:
		var p updateProbabilityPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("invalid update_probability payload: %w", err)
		}
		if p.Probability == nil {
			return nil, fmt.Errorf("update_probability payload missing probability")
		}
		if *p.Probability < 0 || *p.Probability > 1 {
			return nil, fmt.Errorf("probability must be within [0,1], got %v", *p.Probability)
		}
		return UpdateProbabilityAction{Probability: *p.Probability}, nil

	default:
		return UnknownAction{Type: rule.ActionType}, nil
	}
}
