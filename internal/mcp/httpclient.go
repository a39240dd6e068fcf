package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/catalog"
	"github.com/claude/repcoach/internal/coach"
	"github.com/claude/repcoach/internal/models"
)

// HTTPClient implements DataSource by calling the RepCoach REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. The API
// key is only sent on mutating requests.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if method != http.MethodGet && c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("httpclient: %s: %w", path, coach.ErrNotFound)
	case resp.StatusCode >= 300:
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func profilePath(id uuid.UUID, suffix string) string {
	return "/api/v1/profiles/" + id.String() + suffix
}

func (c *HTTPClient) Fatigue(ctx context.Context, profileID uuid.UUID, lastRestDay *time.Time) (*models.FatigueMetrics, error) {
	params := url.Values{}
	if lastRestDay != nil {
		params.Set("last_rest_day", lastRestDay.Format(time.RFC3339))
	}
	var m models.FatigueMetrics
	if err := c.do(ctx, http.MethodGet, profilePath(profileID, "/fatigue"), params, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *HTTPClient) Advice(ctx context.Context, profileID uuid.UUID) (*models.Assessment, error) {
	var a models.Assessment
	if err := c.do(ctx, http.MethodGet, profilePath(profileID, "/advice"), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *HTTPClient) GenerateProgram(ctx context.Context, profileID uuid.UUID) (*models.WorkoutProgram, error) {
	var p models.WorkoutProgram
	if err := c.do(ctx, http.MethodPost, profilePath(profileID, "/programs"), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) Exercises(ctx context.Context, group string) ([]models.ExerciseDefinition, error) {
	params := url.Values{}
	if group != "" {
		params.Set("group", group)
	}
	var out []models.ExerciseDefinition
	if err := c.do(ctx, http.MethodGet, "/api/v1/exercises", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Template(ctx context.Context, level models.ExperienceLevel, goal models.FitnessGoal) (*models.TemplateSpec, error) {
	params := url.Values{}
	params.Set("level", string(level))
	params.Set("goal", string(goal))
	var t models.TemplateSpec
	if err := c.do(ctx, http.MethodGet, "/api/v1/templates", params, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) Templates(ctx context.Context) (models.TemplateTable, error) {
	var out models.TemplateTable
	if err := c.do(ctx, http.MethodGet, "/api/v1/templates", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Specialized(ctx context.Context, f catalog.SpecializedFilter) ([]models.SpecializedTemplate, error) {
	params := url.Values{}
	if f.Category != "" {
		params.Set("category", f.Category)
	}
	if f.Split != "" {
		params.Set("split", f.Split)
	}
	if f.Level != "" {
		params.Set("level", string(f.Level))
	}
	var out []models.SpecializedTemplate
	if err := c.do(ctx, http.MethodGet, "/api/v1/templates/specialized", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}
