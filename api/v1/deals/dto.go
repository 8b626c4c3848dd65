package deals

// TransitionRequest is the body of PUT /deals/:id/stage.
// trigger_automation defaults to true when omitted.
type TransitionRequest struct {
	StageID           int    `json:"stage_id" binding:"required,gt=0"`
	Notes             string `json:"notes" binding:"omitempty,max=500"`
	TriggerAutomation *bool  `json:"trigger_automation"`
}

// Trigger resolves the trigger_automation default.
func (r *TransitionRequest) Trigger() bool {
	if r.TriggerAutomation == nil {
		return true
	}
	return *r.TriggerAutomation
}
