package automation

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"go_crm/internal/model"
)

// Selector returns the active rules applicable to a stage transition.
type Selector struct {
	logger *logrus.Entry
}

// NewSelector creates a rule selector.
func NewSelector(logger *logrus.Entry) *Selector {
	return &Selector{logger: logger.WithField("component", "rule-selector")}
}

// Select returns all active rules matching the (from, to) stage pair, ordered
// by priority descending with creation order breaking ties. Every match is
// returned; execution fans out over the full set.
func (s *Selector) Select(tx *gorm.DB, fromStageID, toStageID int) ([]model.AutomationRule, error) {
	var active []model.AutomationRule
	err := tx.
		Where("is_active = ?", true).
		Order("priority DESC, id ASC").
		Find(&active).Error
	if err != nil {
		return nil, err
	}

	matched := make([]model.AutomationRule, 0, len(active))
	for _, rule := range active {
		if !matchesTransition(&rule, fromStageID, toStageID) {
			continue
		}
		if rule.IsGlobal() {
			// Global rules fire on every transition. Supported, but worth
			// surfacing so operators can review the configuration.
			s.logger.WithFields(logrus.Fields{
				"rule_id":   rule.ID,
				"rule_name": rule.Name,
			}).Warn("global automation rule matched (no stage filters)")
		}
		matched = append(matched, rule)
	}

	return matched, nil
}

// matchesTransition reports whether a rule applies to the transition. A NULL
// from/to filter matches any origin/destination.
func matchesTransition(r *model.AutomationRule, fromStageID, toStageID int) bool {
	if r.FromStageID.Valid && int(r.FromStageID.Int32) != fromStageID {
		return false
	}
	if r.ToStageID.Valid && int(r.ToStageID.Int32) != toStageID {
		return false
	}
	return true
}
