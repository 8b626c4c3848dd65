package pipeline

import "go_crm/internal/model"

// Actor identifies who is requesting a transition.
type Actor struct {
	ID       int
	Username string
	Role     string
}

// Elevated reports whether the actor may move deals they do not own.
func (a Actor) Elevated() bool {
	return a.Role == model.RoleAdmin || a.Role == model.RoleManager
}

// StageRef is a stage reference with its resolved name.
type StageRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TransitionSummary describes the committed stage change.
type TransitionSummary struct {
	FromStage         StageRef `json:"from_stage"`
	ToStage           StageRef `json:"to_stage"`
	ProbabilityChange float64  `json:"probability_change"`
}

// TransitionResult is what the coordinator returns on a committed transition.
type TransitionResult struct {
	Deal                *model.Deal       `json:"deal"`
	Transition          TransitionSummary `json:"transition"`
	AutomationTriggered bool              `json:"automation_triggered"`
}

// StageChangedEvent is the payload broadcast after a transition commits.
type StageChangedEvent struct {
	DealID      int     `json:"deal_id"`
	Title       string  `json:"title"`
	FromStageID int     `json:"from_stage_id"`
	ToStageID   int     `json:"to_stage_id"`
	Probability float64 `json:"probability"`
	ChangedBy   int     `json:"changed_by"`
}
