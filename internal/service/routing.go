package service

import (
	"strings"

	"github.com/linear-intake/backend/internal/models"
)

// routingRule maps submission text to a team/assignee pair. All substrings in
// Include must be present for the rule to fire; the table is scanned in order
// and the first full match wins.
type routingRule struct {
	Include  []string
	Team     string
	Assignee string
}

var routingRules = []routingRule{
	// Customer Experience
	{Include: []string{"cancel"}, Team: "Customer Experience (CX)", Assignee: "Hamza"},
	{Include: []string{"churn"}, Team: "Customer Experience (CX)", Assignee: "Hamza"},
	{Include: []string{"onboarding"}, Team: "Customer Experience (CX)", Assignee: "Tony"},
	{Include: []string{"dns"}, Team: "Customer Experience (CX)", Assignee: "Tony"},
	{Include: []string{"welcome call"}, Team: "Customer Experience (CX)", Assignee: "Ray"},
	{Include: []string{"triage"}, Team: "Customer Experience (CX)", Assignee: "Ray"},
	{Include: []string{"ticket", "support"}, Team: "Customer Experience (CX)", Assignee: "Ray"},
	{Include: []string{"project", "dfy"}, Team: "Customer Experience (CX)", Assignee: "James"},
	{Include: []string{"contractor"}, Team: "Customer Experience (CX)", Assignee: "James"},
	{Include: []string{"client", "communication"}, Team: "Customer Experience (CX)", Assignee: "Phil"},

	// Sales
	{Include: []string{"sales"}, Team: "Sales", Assignee: "Jack"},
	{Include: []string{"demo", "call"}, Team: "Sales", Assignee: "Jack"},
	{Include: []string{"trial"}, Team: "Sales", Assignee: "Jack"},

	// Marketing
	{Include: []string{"ads"}, Team: "Marketing", Assignee: "Stockton"},
	{Include: []string{"facebook", "ads"}, Team: "Marketing", Assignee: "John"},
	{Include: []string{"youtube", "ads"}, Team: "Marketing", Assignee: "John"},
	{Include: []string{"content"}, Team: "Marketing", Assignee: "Edwin"},
	{Include: []string{"thumbnail"}, Team: "Marketing", Assignee: "Edwin"},
	{Include: []string{"email", "copy"}, Team: "Marketing", Assignee: "Edwin"},

	// Product/Tech
	{Include: []string{"bug"}, Team: "Product/Tech", Assignee: "Canyon"},
	{Include: []string{"ai"}, Team: "Product/Tech", Assignee: "Canyon"},
	{Include: []string{"backend"}, Team: "Product/Tech", Assignee: "Canyon"},
	{Include: []string{"automation"}, Team: "Product/Tech", Assignee: "Canyon"},
	{Include: []string{"stripe"}, Team: "Product/Tech", Assignee: "Canyon"},
	{Include: []string{"checkout"}, Team: "Product/Tech", Assignee: "Canyon"},
}

// DetermineRouting maps a submission's text and hints to a team/assignee
// suggestion. Category hints short-circuit before the rule table; otherwise
// the first matching rule wins and severity drives the fallback. The result
// is always fully populated.
func DetermineRouting(sub models.Submission) models.RoutingDecision {
	switch strings.ToLower(strings.TrimSpace(sub.Category)) {
	case "bug":
		return models.RoutingDecision{TeamName: "Product/Tech", AssigneeName: "Canyon"}
	case "question":
		return models.RoutingDecision{TeamName: "Customer Experience (CX)", AssigneeName: "Ray"}
	}

	text := strings.ToLower(sub.Title + " " + sub.Details)
	for _, rule := range routingRules {
		if containsAll(text, rule.Include) {
			return models.RoutingDecision{TeamName: rule.Team, AssigneeName: rule.Assignee}
		}
	}

	switch strings.ToLower(strings.TrimSpace(sub.Severity)) {
	case "critical", "high":
		return models.RoutingDecision{TeamName: "Product/Tech", AssigneeName: "Canyon"}
	}
	return models.RoutingDecision{TeamName: "Customer Experience (CX)", AssigneeName: "Nebuchadnezzar"}
}

func containsAll(text string, subs []string) bool {
	for _, s := range subs {
		if !strings.Contains(text, s) {
			return false
		}
	}
	return true
}
