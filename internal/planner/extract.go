package planner

import (
	"encoding/json"
	"strings"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
)

// wirePlan accepts the field spellings models actually produce.
type wirePlan struct {
	Immediate   []string          `json:"immediate"`
	Medium      []string          `json:"medium"`
	MediumTerm  []string          `json:"medium_term"`
	Resources   []domain.Resource `json:"resources"`
	SMS         string            `json:"sms"`
	Legal       string            `json:"legal"`
	LegalNotice string            `json:"legal_notice"`
}

func (w wirePlan) plan() domain.ActionPlan {
	p := domain.ActionPlan{
		Immediate:   w.Immediate,
		MediumTerm:  w.MediumTerm,
		Resources:   w.Resources,
		SMS:         strings.TrimSpace(w.SMS),
		LegalNotice: strings.TrimSpace(w.LegalNotice),
	}
	if len(p.MediumTerm) == 0 {
		p.MediumTerm = w.Medium
	}
	if p.LegalNotice == "" {
		p.LegalNotice = strings.TrimSpace(w.Legal)
	}
	return p
}

// ExtractPlan pulls an action plan out of free text. It first tries the span
// from the first '{' to the last '}', then decodes the first complete JSON
// object starting at each '{' in turn. A plan with no actions and no SMS is
// rejected.
func ExtractPlan(text string) (domain.ActionPlan, bool) {
	first := strings.IndexByte(text, '{')
	if first < 0 {
		return domain.ActionPlan{}, false
	}
	if last := strings.LastIndexByte(text, '}'); last > first {
		var w wirePlan
		if err := json.Unmarshal([]byte(text[first:last+1]), &w); err == nil {
			if p := w.plan(); usable(p) {
				return p, true
			}
		}
	}

	for i := first; i >= 0 && i < len(text); {
		var w wirePlan
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		if err := dec.Decode(&w); err == nil {
			if p := w.plan(); usable(p) {
				return p, true
			}
		}
		next := strings.IndexByte(text[i+1:], '{')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return domain.ActionPlan{}, false
}

func usable(p domain.ActionPlan) bool {
	return len(p.Immediate) > 0 || len(p.MediumTerm) > 0 || p.SMS != ""
}
