package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/linear-intake/backend/internal/models"
)

// ErrContextUnavailable marks a failure to assemble the tracker context
// snapshot. Without it no routing is possible, so callers treat it as fatal.
var ErrContextUnavailable = errors.New("tracker context unavailable")

const recentIssueCount = 20

// Client talks to the Linear GraphQL API directly over net/http.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, query string, variables map[string]any, out any) error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("linear api key is not set")
	}

	b, _ := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/graphql", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.APIKey)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("linear request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("linear http error: %s: %s", resp.Status, truncate(string(raw), 500))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return err
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("linear graphql error: %s", envelope.Errors[0].Message)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(envelope.Data, out)
}

const contextQuery = `query IntakeContext($issueCount: Int!) {
  teams { nodes { id name } }
  projects { nodes { id name } }
  users { nodes { id name email } }
  issues(first: $issueCount) { nodes { id identifier title } }
}`

// FetchContext lists the teams, projects, users, and most recent issues the
// rest of the pipeline resolves names against. An empty team list is treated
// the same as a listing failure: nothing can be routed without a team.
func (c *Client) FetchContext(ctx context.Context) (models.ContextSnapshot, error) {
	var data struct {
		Teams struct {
			Nodes []models.Team `json:"nodes"`
		} `json:"teams"`
		Projects struct {
			Nodes []models.Project `json:"nodes"`
		} `json:"projects"`
		Users struct {
			Nodes []models.User `json:"nodes"`
		} `json:"users"`
		Issues struct {
			Nodes []models.IssueRef `json:"nodes"`
		} `json:"issues"`
	}
	err := c.do(ctx, contextQuery, map[string]any{"issueCount": recentIssueCount}, &data)
	if err != nil {
		return models.ContextSnapshot{}, fmt.Errorf("%w: %v", ErrContextUnavailable, err)
	}
	if len(data.Teams.Nodes) == 0 {
		return models.ContextSnapshot{}, fmt.Errorf("%w: no teams visible to this API key", ErrContextUnavailable)
	}
	return models.ContextSnapshot{
		Teams:        data.Teams.Nodes,
		Projects:     data.Projects.Nodes,
		Users:        data.Users.Nodes,
		RecentIssues: data.Issues.Nodes,
	}, nil
}

const searchQuery = `query SearchIssues($term: String!) {
  searchIssues(term: $term) {
    nodes { id identifier title url }
  }
}`

// SearchIssues runs a tracker text search and returns candidates in tracker
// order.
func (c *Client) SearchIssues(ctx context.Context, term string) ([]models.IssueRef, error) {
	var data struct {
		SearchIssues struct {
			Nodes []models.IssueRef `json:"nodes"`
		} `json:"searchIssues"`
	}
	if err := c.do(ctx, searchQuery, map[string]any{"term": term}, &data); err != nil {
		return nil, fmt.Errorf("issue search: %w", err)
	}
	return data.SearchIssues.Nodes, nil
}

const createMutation = `mutation CreateIssue($input: IssueCreateInput!) {
  issueCreate(input: $input) {
    success
    issue { id identifier title url }
  }
}`

func (c *Client) CreateIssue(ctx context.Context, in models.IssueCreate) (models.IssueRef, error) {
	input := map[string]any{
		"title":       in.Title,
		"description": in.Description,
		"teamId":      in.TeamID,
	}
	if in.ProjectID != nil {
		input["projectId"] = *in.ProjectID
	}
	if in.AssigneeID != nil {
		input["assigneeId"] = *in.AssigneeID
	}
	if in.Priority > 0 {
		input["priority"] = in.Priority
	}

	var data struct {
		IssueCreate struct {
			Success bool            `json:"success"`
			Issue   models.IssueRef `json:"issue"`
		} `json:"issueCreate"`
	}
	if err := c.do(ctx, createMutation, map[string]any{"input": input}, &data); err != nil {
		return models.IssueRef{}, fmt.Errorf("issue create: %w", err)
	}
	if !data.IssueCreate.Success || data.IssueCreate.Issue.ID == "" {
		return models.IssueRef{}, errors.New("issue create: tracker reported failure")
	}
	return data.IssueCreate.Issue, nil
}

const commentMutation = `mutation AddComment($input: CommentCreateInput!) {
  commentCreate(input: $input) { success }
}`

func (c *Client) AddComment(ctx context.Context, issueID, body string) error {
	var data struct {
		CommentCreate struct {
			Success bool `json:"success"`
		} `json:"commentCreate"`
	}
	vars := map[string]any{"input": map[string]any{"issueId": issueID, "body": body}}
	if err := c.do(ctx, commentMutation, vars, &data); err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	if !data.CommentCreate.Success {
		return errors.New("add comment: tracker reported failure")
	}
	return nil
}

const updateMutation = `mutation UpdateIssue($id: String!, $input: IssueUpdateInput!) {
  issueUpdate(id: $id, input: $input) { success }
}`

func (c *Client) UpdateIssue(ctx context.Context, issueID string, upd models.IssueUpdate) error {
	input := map[string]any{}
	if upd.AssigneeID != nil {
		input["assigneeId"] = *upd.AssigneeID
	}
	if upd.ProjectID != nil {
		input["projectId"] = *upd.ProjectID
	}
	if upd.Priority > 0 {
		input["priority"] = upd.Priority
	}
	if len(input) == 0 {
		return nil
	}

	var data struct {
		IssueUpdate struct {
			Success bool `json:"success"`
		} `json:"issueUpdate"`
	}
	vars := map[string]any{"id": issueID, "input": input}
	if err := c.do(ctx, updateMutation, vars, &data); err != nil {
		return fmt.Errorf("issue update: %w", err)
	}
	if !data.IssueUpdate.Success {
		return errors.New("issue update: tracker reported failure")
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
