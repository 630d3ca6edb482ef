package visibility

import (
	"strings"

	"github.com/macro-obs/obsportal/pkg/forms"
)

// Role is the observer privilege level supplied by the session layer.
type Role string

const (
	RoleNovice       Role = "novice"
	RoleIntermediate Role = "intermediate"
	RoleAdvanced     Role = "advanced"
	RoleLead         Role = "lead"
	RoleAdmin        Role = "admin"
)

// roleRank orders roles for minRole comparisons. Unknown roles are absent
// and rank below novice, so they only ever see the baseline fields.
var roleRank = map[Role]int{
	RoleNovice:       1,
	RoleIntermediate: 2,
	RoleAdvanced:     3,
	RoleLead:         4,
	RoleAdmin:        5,
}

// ParseRole normalises a raw role string. Unrecognised values map to the
// zero Role, which satisfies no minRole rule.
func ParseRole(raw string) Role {
	candidate := Role(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := roleRank[candidate]; ok {
		return candidate
	}
	return Role("")
}

// AtLeast reports whether r satisfies the given minimum role.
func (r Role) AtLeast(min Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	minRank, ok := roleRank[min]
	if !ok {
		return false
	}
	return rank >= minRank
}

// Evaluator determines whether a field should be visible based on a rule
// string and the viewer context.
type Evaluator interface {
	Eval(fieldName, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Role comes from the session;
// Extras allows callers to inject arbitrary context such as feature flags.
type Context struct {
	Role   Role
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldName, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldName, rule string, ctx Context) (bool, error) {
	return fn(fieldName, rule, ctx)
}

// RoleEvaluator interprets minRole rules against the context role. A
// malformed rule hides the field rather than failing the render.
func RoleEvaluator() Evaluator {
	return EvaluatorFunc(func(_, rule string, ctx Context) (bool, error) {
		min := ParseRole(rule)
		if min == "" {
			return false, nil
		}
		return ctx.Role.AtLeast(min), nil
	})
}

// Apply filters form in place, dropping fields whose minRole metadata the
// evaluator rejects. A nil evaluator keeps every field.
func Apply(form *forms.FormModel, evaluator Evaluator, ctx Context) error {
	if form == nil || evaluator == nil {
		return nil
	}

	kept := make([]forms.Field, 0, len(form.Fields))
	for _, field := range form.Fields {
		rule := strings.TrimSpace(field.Metadata[forms.MetaMinRole])
		if rule != "" {
			ok, err := evaluator.Eval(field.Name, rule, ctx)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
		}
		kept = append(kept, field)
	}
	form.Fields = kept
	return nil
}

// VisibleFields is the pure form of the role gate: given a role it returns
// the set of single-entry field names that role may see.
func VisibleFields(role Role) map[string]bool {
	form := forms.SingleEntryForm()
	ctx := Context{Role: role}
	evaluator := RoleEvaluator()

	visible := make(map[string]bool, len(form.Fields))
	for _, field := range form.Fields {
		rule := strings.TrimSpace(field.Metadata[forms.MetaMinRole])
		if rule == "" {
			visible[field.Name] = true
			continue
		}
		ok, err := evaluator.Eval(field.Name, rule, ctx)
		if err != nil || !ok {
			continue
		}
		visible[field.Name] = true
	}
	return visible
}
