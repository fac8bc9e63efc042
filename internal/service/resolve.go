package service

import (
	"strings"

	"github.com/linear-intake/backend/internal/models"
)

// ResolveRouting binds the router's and synthesizer's name suggestions to
// tracker ids. The router's team always wins when present; the synthesizer
// alone drives project selection. TeamID never ends up empty as long as the
// snapshot has at least one team.
func ResolveRouting(rule models.RoutingDecision, draft models.IssueDraft, snapshot models.ContextSnapshot) models.ResolvedRouting {
	var resolved models.ResolvedRouting

	teamName := rule.TeamName
	if teamName == "" {
		teamName = draft.TeamName
	}
	resolved.TeamID = resolveTeam(teamName, snapshot.Teams)

	// The synthesizer's email is consulted only when the router stayed silent
	// on the assignee. A router name that fails to resolve leaves the issue
	// unassigned rather than deferring to the advisory suggestion.
	if rule.AssigneeName != "" {
		resolved.AssigneeID = resolveUserByNamePrefix(rule.AssigneeName, snapshot.Users)
	} else if draft.AssigneeEmail != "" {
		resolved.AssigneeID = resolveUserByEmail(draft.AssigneeEmail, snapshot.Users)
	}

	if draft.ProjectName != "" {
		resolved.ProjectID = resolveProject(draft.ProjectName, snapshot.Projects)
	}
	return resolved
}

func resolveTeam(name string, teams []models.Team) string {
	for _, t := range teams {
		if strings.EqualFold(t.Name, name) {
			return t.ID
		}
	}
	if len(teams) > 0 {
		return teams[0].ID
	}
	return ""
}

func resolveProject(name string, projects []models.Project) *string {
	for _, p := range projects {
		if strings.EqualFold(p.Name, name) {
			id := p.ID
			return &id
		}
	}
	return nil
}

// resolveUserByNamePrefix matches "Hamza" against "Hamza Ali" etc. Ambiguity
// is resolved silently by snapshot order.
func resolveUserByNamePrefix(name string, users []models.User) *string {
	prefix := strings.ToLower(strings.TrimSpace(name))
	if prefix == "" {
		return nil
	}
	for _, u := range users {
		if strings.HasPrefix(strings.ToLower(u.Name), prefix) {
			id := u.ID
			return &id
		}
	}
	return nil
}

func resolveUserByEmail(email string, users []models.User) *string {
	for _, u := range users {
		if u.Email != "" && strings.EqualFold(u.Email, email) {
			id := u.ID
			return &id
		}
	}
	return nil
}
