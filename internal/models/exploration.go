package models

import (
	"time"

	srvErrors "github.com/explorationlab/explorations/pkg/errors"
)

const (
	// EndDest is the reserved destination that terminates an exploration.
	EndDest = "END"

	DefaultInitStateName = "First State"
	DefaultWidgetID      = "TextInput"
	DefaultHandlerName   = "submit"
	DefaultRuleType      = "default"
)

// RuleSpec sends a learner to Dest when the rule matches.
type RuleSpec struct {
	RuleType string   `json:"rule_type" yaml:"rule_type"`
	Dest     string   `json:"dest" yaml:"dest"`
	Feedback []string `json:"feedback" yaml:"feedback"`
}

// AnswerHandler groups the rules evaluated for one kind of learner answer.
type AnswerHandler struct {
	Name      string     `json:"name" yaml:"name"`
	RuleSpecs []RuleSpec `json:"rule_specs" yaml:"rule_specs"`
}

// Widget is the interaction shown in a state.
type Widget struct {
	WidgetID string          `json:"widget_id" yaml:"widget_id"`
	Handlers []AnswerHandler `json:"handlers" yaml:"handlers"`
}

// State is a single card of an exploration.
type State struct {
	Content string `json:"content" yaml:"content"`
	Widget  Widget `json:"widget" yaml:"widget"`
}

// Exploration is the primary content object of the site.
type Exploration struct {
	ID            string            `json:"id" yaml:"id"`
	OwnerID       string            `json:"owner_id" yaml:"-"`
	Title         string            `json:"title" yaml:"title"`
	Category      string            `json:"category" yaml:"category"`
	Objective     string            `json:"objective" yaml:"objective"`
	InitStateName string            `json:"init_state_name" yaml:"init_state_name"`
	States        map[string]*State `json:"states" yaml:"states"`
	Version       int64             `json:"version" yaml:"-"`
	Published     bool              `json:"published" yaml:"-"`
	Indexed       bool              `json:"indexed" yaml:"-"`
	CreatedAt     time.Time         `json:"created_at" yaml:"-"`
	UpdatedAt     time.Time         `json:"updated_at" yaml:"-"`
}

// NewDefaultState returns a state whose only rule loops back to itself.
func NewDefaultState(name string) *State {
	return &State{
		Widget: Widget{
			WidgetID: DefaultWidgetID,
			Handlers: []AnswerHandler{
				{
					Name: DefaultHandlerName,
					RuleSpecs: []RuleSpec{
						{RuleType: DefaultRuleType, Dest: name},
					},
				},
			},
		},
	}
}

// NewDefaultExploration builds the smallest exploration that passes
// non-strict validation. It never reaches END, so strict validation fails.
func NewDefaultExploration(id, title, category string) *Exploration {
	return &Exploration{
		ID:            id,
		Title:         title,
		Category:      category,
		InitStateName: DefaultInitStateName,
		States: map[string]*State{
			DefaultInitStateName: NewDefaultState(DefaultInitStateName),
		},
	}
}

// InitState returns the initial state, or nil if it is missing.
func (e *Exploration) InitState() *State {
	return e.States[e.InitStateName]
}

// Validate checks the exploration. Strict validation is used before
// publishing and additionally requires an objective and a path to END.
func (e *Exploration) Validate(strict bool) error {
	if e.ID == "" {
		return srvErrors.NewValidationError("exploration id is empty")
	}
	if e.Title == "" {
		return srvErrors.NewValidationError("exploration %s has no title", e.ID)
	}
	if e.Category == "" {
		return srvErrors.NewValidationError("exploration %s has no category", e.ID)
	}
	if e.InitState() == nil {
		return srvErrors.NewValidationError("exploration %s: initial state %q does not exist", e.ID, e.InitStateName)
	}

	for name, state := range e.States {
		if name == EndDest {
			return srvErrors.NewValidationError("exploration %s: state name %q is reserved", e.ID, EndDest)
		}
		if state == nil {
			return srvErrors.NewValidationError("exploration %s: state %q is empty", e.ID, name)
		}
		for _, h := range state.Widget.Handlers {
			if len(h.RuleSpecs) == 0 {
				return srvErrors.NewValidationError("exploration %s: handler %q of state %q has no rules", e.ID, h.Name, name)
			}
			for _, r := range h.RuleSpecs {
				if _, ok := e.States[r.Dest]; !ok && r.Dest != EndDest {
					return srvErrors.NewValidationError("exploration %s: state %q points at unknown destination %q", e.ID, name, r.Dest)
				}
			}
		}
	}

	if !strict {
		return nil
	}

	if e.Objective == "" {
		return srvErrors.NewValidationError("exploration %s has no objective", e.ID)
	}
	if !e.reachesEnd() {
		return srvErrors.NewValidationError("exploration %s: END is not reachable from %q", e.ID, e.InitStateName)
	}
	return nil
}

func (e *Exploration) reachesEnd() bool {
	seen := map[string]bool{e.InitStateName: true}
	pending := []string{e.InitStateName}
	for len(pending) > 0 {
		name := pending[0]
		pending = pending[1:]
		for _, h := range e.States[name].Widget.Handlers {
			for _, r := range h.RuleSpecs {
				if r.Dest == EndDest {
					return true
				}
				if !seen[r.Dest] {
					seen[r.Dest] = true
					pending = append(pending, r.Dest)
				}
			}
		}
	}
	return false
}

// ExplorationChanges holds the editable fields of an update. Nil means unchanged.
type ExplorationChanges struct {
	Title     *string
	Category  *string
	Objective *string
}
