package models

import (
	"fmt"
	"regexp"
	"strings"
)

// SurveyReaction is the reacji that starts a survey
const SurveyReaction = "clipboard"

const filterVersion = 1

// FilterOperator joins the inputs of a filter node
type FilterOperator string

const (
	FilterOperatorAnd FilterOperator = "AND"
	FilterOperatorOr  FilterOperator = "OR"
)

// TriggerFilter is the boolean expression an event must satisfy to fire a trigger.
// The JSON shape is parsed structurally by the event engine and must not change.
type TriggerFilter struct {
	Version int        `json:"version"`
	Root    FilterNode `json:"root"`
}

// FilterNode is either a statement leaf or an operator over inputs
type FilterNode struct {
	Statement string         `json:"statement,omitempty"`
	Operator  FilterOperator `json:"operator,omitempty"`
	Inputs    []FilterNode   `json:"inputs,omitempty"`
}

func reactionStatement() string {
	return "{{data.reaction}} == " + SurveyReaction
}

func actorStatement(userID string) string {
	return "{{data.user_id}} == " + userID
}

// NewReactionFilter builds the filter for a reaction trigger.
// Without actors the root is the reaction statement, otherwise the reaction
// statement is ANDed with an OR of one user equality per actor.
func NewReactionFilter(actorIDs []string) *TriggerFilter {
	reaction := FilterNode{Statement: reactionStatement()}
	if len(actorIDs) == 0 {
		return &TriggerFilter{Version: filterVersion, Root: reaction}
	}

	actors := make([]FilterNode, 0, len(actorIDs))
	for _, id := range actorIDs {
		actors = append(actors, FilterNode{Statement: actorStatement(id)})
	}

	return &TriggerFilter{
		Version: filterVersion,
		Root: FilterNode{
			Operator: FilterOperatorAnd,
			Inputs: []FilterNode{
				reaction,
				{Operator: FilterOperatorOr, Inputs: actors},
			},
		},
	}
}

// Statements returns every statement leaf in depth-first order
func (n FilterNode) Statements() []string {
	if n.Statement != "" {
		return []string{n.Statement}
	}
	var out []string
	for _, input := range n.Inputs {
		out = append(out, input.Statements()...)
	}
	return out
}

// ActorIDs returns the user ids the filter restricts to, or nil when unrestricted
func (f *TriggerFilter) ActorIDs() []string {
	if f == nil {
		return nil
	}
	var ids []string
	for _, statement := range f.Root.Statements() {
		parsed, err := parseStatement(statement)
		if err != nil || parsed.field != "user_id" || parsed.op != "==" {
			continue
		}
		ids = append(ids, parsed.value)
	}
	return ids
}

// Evaluate reports whether the event data satisfies the filter. A nil filter matches everything.
func (f *TriggerFilter) Evaluate(data map[string]string) (bool, error) {
	if f == nil {
		return true, nil
	}
	return f.Root.evaluate(data)
}

func (n FilterNode) evaluate(data map[string]string) (bool, error) {
	if n.Statement != "" {
		parsed, err := parseStatement(n.Statement)
		if err != nil {
			return false, err
		}
		actual := data[parsed.field]
		if parsed.op == "!=" {
			return actual != parsed.value, nil
		}
		return actual == parsed.value, nil
	}

	if len(n.Inputs) == 0 {
		return false, fmt.Errorf("filter node has neither statement nor inputs")
	}

	switch n.Operator {
	case FilterOperatorAnd:
		for _, input := range n.Inputs {
			ok, err := input.evaluate(data)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case FilterOperatorOr:
		for _, input := range n.Inputs {
			ok, err := input.evaluate(data)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("unsupported filter operator: %q", n.Operator)
	}
}

var statementRegex = regexp.MustCompile(`^\{\{data\.([a-z_]+)\}\}\s*(==|!=)\s*(.+)$`)

type statement struct {
	field string
	op    string
	value string
}

func parseStatement(s string) (statement, error) {
	match := statementRegex.FindStringSubmatch(strings.TrimSpace(s))
	if match == nil {
		return statement{}, fmt.Errorf("invalid filter statement: %q", s)
	}
	return statement{field: match[1], op: match[2], value: strings.TrimSpace(match[3])}, nil
}
