package automation

import (
	"testing"

	"gorm.io/datatypes"

	"go_crm/internal/model"
)

func ruleWith(actionType model.AutomationActionType, data string) *model.AutomationRule {
	r := &model.AutomationRule{
		Name:       "test rule",
		ActionType: actionType,
	}
	if data != "" {
		r.ActionData = datatypes.JSON(data)
	}
	return r
}

func TestDecodeAction_CreateTask(t *testing.T) {
	t.Run("explicit payload", func(t *testing.T) {
		rule := ruleWith(model.ActionTypeCreateTask,
			`{"subject":"Call the customer","days_from_now":3,"assigned_user_id":12}`)

		action, err := DecodeAction(rule)
		if err != nil {
			t.Fatalf("DecodeAction failed: %v", err)
		}

		task, ok := action.(CreateTaskAction)
		if !ok {
			t.Fatalf("Expected CreateTaskAction, got %T", action)
		}
		if task.Subject != "Call the customer" {
			t.Errorf("Unexpected subject: %s", task.Subject)
		}
		if task.DaysFromNow != 3 {
			t.Errorf("Expected 3 days, got %d", task.DaysFromNow)
		}
		if task.AssignedUserID != 12 {
			t.Errorf("Expected assignee 12, got %d", task.AssignedUserID)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		rule := ruleWith(model.ActionTypeCreateTask, `{}`)

		action, err := DecodeAction(rule)
		if err != nil {
			t.Fatalf("DecodeAction failed: %v", err)
		}

		task := action.(CreateTaskAction)
		if task.DaysFromNow != 1 {
			t.Errorf("Expected default 1 day, got %d", task.DaysFromNow)
		}
		if task.AssignedUserID != 0 {
			t.Errorf("Expected default assignee 0 (acting user), got %d", task.AssignedUserID)
		}
		if task.Subject == "" {
			t.Error("Expected a fallback subject")
		}
	})

	t.Run("zero days is valid", func(t *testing.T) {
		rule := ruleWith(model.ActionTypeCreateTask, `{"days_from_now":0}`)

		action, err := DecodeAction(rule)
		if err != nil {
			t.Fatalf("DecodeAction failed: %v", err)
		}
		if action.(CreateTaskAction).DaysFromNow != 0 {
			t.Error("Explicit zero should not fall back to the default")
		}
	})

	t.Run("negative days rejected", func(t *testing.T) {
		rule := ruleWith(model.ActionTypeCreateTask, `{"days_from_now":-2}`)
		if _, err := DecodeAction(rule); err == nil {
			t.Error("Expected error for negative days_from_now")
		}
	})
}

func TestDecodeAction_SendEmail(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		rule := ruleWith(model.ActionTypeSendEmail,
			`{"template":"deal_moved","to_user_id":4,"payload":{"greeting":"hi"}}`)

		action, err := DecodeAction(rule)
		if err != nil {
			t.Fatalf("DecodeAction failed: %v", err)
		}

		email, ok := action.(SendEmailAction)
		if !ok {
			t.Fatalf("Expected SendEmailAction, got %T", action)
		}
		if email.TemplateName != "deal_moved" {
			t.Errorf("Unexpected template: %s", email.TemplateName)
		}
		if email.ToUserID != 4 {
			t.Errorf("Expected recipient 4, got %d", email.ToUserID)
		}
		if email.Payload["greeting"] != "hi" {
			t.Errorf("Unexpected payload: %v", email.Payload)
		}
	})

	t.Run("missing template rejected", func(t *testing.T) {
		rule := ruleWith(model.ActionTypeSendEmail, `{"payload":{}}`)
		if _, err := DecodeAction(rule); err == nil {
			t.Error("Expected error for missing template")
		}
	})
}

func TestDecodeAction_UpdateProbability(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		rule := ruleWith(model.ActionTypeUpdateProbability, `{"probability":0.6}`)

		action, err := DecodeAction(rule)
		if err != nil {
			t.Fatalf("DecodeAction failed: %v", err)
		}

		prob, ok := action.(UpdateProbabilityAction)
		if !ok {
			t.Fatalf("Expected UpdateProbabilityAction, got %T", action)
		}
		if prob.Probability != 0.6 {
			t.Errorf("Expected probability 0.6, got %v", prob.Probability)
		}
	})

	t.Run("missing probability rejected", func(t *testing.T) {
		rule := ruleWith(model.ActionTypeUpdateProbability, `{}`)
		if _, err := DecodeAction(rule); err == nil {
			t.Error("Expected error for missing probability")
		}
	})

	t.Run("out of range rejected", func(t *testing.T) {
		for _, data := range []string{`{"probability":-0.1}`, `{"probability":1.5}`} {
			rule := ruleWith(model.ActionTypeUpdateProbability, data)
			if _, err := DecodeAction(rule); err == nil {
				t.Errorf("Expected error for payload %s", data)
			}
		}
	})

	t.Run("boundary values accepted", func(t *testing.T) {
		for _, data := range []string{`{"probability":0}`, `{"probability":1}`} {
			rule := ruleWith(model.ActionTypeUpdateProbability, data)
			if _, err := DecodeAction(rule); err != nil {
				t.Errorf("Expected payload %s to be valid: %v", data, err)
			}
		}
	})
}

func TestDecodeAction_UnknownType(t *testing.T) {
	rule := ruleWith("post_to_chat", `{"channel":"#sales"}`)

	action, err := DecodeAction(rule)
	if err != nil {
		t.Fatalf("Unknown action type must not error: %v", err)
	}

	unknown, ok := action.(UnknownAction)
	if !ok {
		t.Fatalf("Expected UnknownAction, got %T", action)
	}
	if unknown.Type != "post_to_chat" {
		t.Errorf("Unexpected type carried: %s", unknown.Type)
	}
}

func TestDecodeAction_EmptyActionData(t *testing.T) {
	// Rules created without a payload decode with defaults rather than failing.
	rule := ruleWith(model.ActionTypeCreateTask, "")

	action, err := DecodeAction(rule)
	if err != nil {
		t.Fatalf("DecodeAction failed on empty payload: %v", err)
	}
	if action.(CreateTaskAction).DaysFromNow != 1 {
		t.Error("Expected default days_from_now on empty payload")
	}
}

func TestDecodeAction_MalformedJSON(t *testing.T) {
	rule := ruleWith(model.ActionTypeCreateTask, `{"subject":`)
	if _, err := DecodeAction(rule); err == nil {
		t.Error("Expected error for malformed JSON payload")
	}
}
