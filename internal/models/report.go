package models

import "fmt"

// RuleResult is the outcome of one underwriting rule.
type RuleResult struct {
	Number int    `json:"rule"`
	Name   string `json:"name"`
	Flag   Flag   `json:"flag"`
}

// String renders the result as "Rule <n>: <NAME> - <code>".
func (r RuleResult) String() string {
	return fmt.Sprintf("Rule %d: %s - %d", r.Number, r.Name, r.Flag.Code())
}

// Period identifies the financial entry a report was evaluated against.
type Period struct {
	Index  int    `json:"index"`
	Nature string `json:"nature,omitempty"`
}

// Report holds the rule results for one analysed statement, in rule order.
type Report struct {
	Source  string       `json:"source,omitempty"`
	Period  Period       `json:"period"`
	Results []RuleResult `json:"results"`
}

// Lines returns the rendered rule lines.
func (r *Report) Lines() []string {
	if r == nil {
		return nil
	}
	lines := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		lines = append(lines, res.String())
	}
	return lines
}

// ErrorReport is the serialised form of a failed analysis.
type ErrorReport struct {
	Error string `json:"error"`
}
