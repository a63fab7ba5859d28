package fieldforms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/ecs-refurb/shoptrack/internal/domain/model"
	apperrors "github.com/ecs-refurb/shoptrack/internal/errors"
)

// maxResponseBody caps how much of a vendor response we will buffer.
const maxResponseBody = 4 << 20

// ClientConfig configures the vendor API client.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	// Timeout bounds every outbound call. Dispatch calls have no retry and
	// no cancellation concept; they complete or fail outright within this.
	Timeout time.Duration
	// DispatchIDPath is the JMESPath expression locating the opaque
	// assignment identifier in the vendor's dispatch response. The vendor
	// has moved this field across API revisions, so it is configuration,
	// not code.
	DispatchIDPath string
	// DisplayNamePath locates a user's display name in the vendor's user
	// lookup response.
	DisplayNamePath string
	HTTPClient      *http.Client
	Logger          *slog.Logger
}

// Client talks to the FieldForms vendor API: outbound dispatch of prefilled
// form assignments, submission listing for the poller, and user display-name
// lookup. Safe for concurrent use.
type Client struct {
	baseURL         string
	apiKey          string
	dispatchIDPath  string
	displayNamePath string
	client          *http.Client
	logger          *slog.Logger
}

// NewClient builds a vendor API client.
func NewClient(cfg ClientConfig) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("vendor base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	dispatchIDPath := strings.TrimSpace(cfg.DispatchIDPath)
	if dispatchIDPath == "" {
		dispatchIDPath = "dispatch.id"
	}
	if _, err := jmespath.Compile(dispatchIDPath); err != nil {
		return nil, fmt.Errorf("invalid dispatch id path %q: %w", dispatchIDPath, err)
	}

	displayNamePath := strings.TrimSpace(cfg.DisplayNamePath)
	if displayNamePath == "" {
		displayNamePath = "user.displayName"
	}
	if _, err := jmespath.Compile(displayNamePath); err != nil {
		return nil, fmt.Errorf("invalid display name path %q: %w", displayNamePath, err)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:         baseURL,
		apiKey:          strings.TrimSpace(cfg.APIKey),
		dispatchIDPath:  dispatchIDPath,
		displayNamePath: displayNamePath,
		client:          hc,
		logger:          logger.With("component", "fieldforms_client"),
	}, nil
}

// DispatchRequest describes one outbound form assignment.
type DispatchRequest struct {
	FormID    string
	Recipient string
	// Prefill maps vendor field ids to pre-populated values shown to the
	// assignee.
	Prefill map[string]string
}

// Dispatch assigns a form instance to a recipient and returns the vendor's
// opaque dispatch identifier. Any non-2xx status or a response without a
// usable identifier is surfaced as a DispatchFailed error; the identifier is
// never defaulted.
func (c *Client) Dispatch(ctx context.Context, req DispatchRequest) (string, error) {
	if strings.TrimSpace(req.FormID) == "" {
		return "", apperrors.Validation("dispatch form id is required")
	}
	if strings.TrimSpace(req.Recipient) == "" {
		return "", apperrors.Validation("dispatch recipient is required")
	}

	payload := map[string]any{
		"formId":    req.FormID,
		"recipient": req.Recipient,
		"prefill":   req.Prefill,
	}

	body, err := c.postJSON(ctx, "/v1/dispatches", payload)
	if err != nil {
		return "", apperrors.DispatchFailed("vendor rejected the dispatch request", err)
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", apperrors.DispatchFailed("vendor returned a malformed dispatch response", err)
	}

	result, err := jmespath.Search(c.dispatchIDPath, decoded)
	if err != nil {
		return "", apperrors.DispatchFailed("vendor dispatch response did not match the configured id path", err)
	}

	id, ok := result.(string)
	if !ok || strings.TrimSpace(id) == "" {
		return "", apperrors.DispatchFailed(
			"vendor dispatch response did not contain an assignment identifier", nil,
		)
	}

	return id, nil
}

// ListRecentSubmissions fetches submissions for a form completed at or after
// since, used by the poller and the manual refresh path.
func (c *Client) ListRecentSubmissions(
	ctx context.Context,
	formID string,
	since time.Time,
) ([]model.Submission, error) {
	q := url.Values{}
	if !since.IsZero() {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}
	path := "/v1/forms/" + url.PathEscape(formID) + "/submissions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	body, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("list submissions for form %s: %w", formID, err)
	}

	var out struct {
		Submissions []model.Submission `json:"submissions"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode submissions for form %s: %w", formID, err)
	}

	// The vendor omits formId on the list endpoint's items.
	for i := range out.Submissions {
		if out.Submissions[i].FormID == "" {
			out.Submissions[i].FormID = formID
		}
	}

	return out.Submissions, nil
}

// ResolveDisplayName resolves a vendor user id to a display name. Best
// effort: callers fall back to the raw id on failure.
func (c *Client) ResolveDisplayName(ctx context.Context, userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", errors.New("user id is required")
	}

	body, err := c.get(ctx, "/v1/users/"+url.PathEscape(userID))
	if err != nil {
		return "", fmt.Errorf("resolve user %s: %w", userID, err)
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode user %s: %w", userID, err)
	}

	result, err := jmespath.Search(c.displayNamePath, decoded)
	if err != nil {
		return "", fmt.Errorf("extract display name for user %s: %w", userID, err)
	}

	name, ok := result.(string)
	if !ok || strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("no display name for user %s", userID)
	}
	return name, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body))
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call vendor api: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			_ = cerr
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read vendor response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Debug("vendor api returned non-2xx",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
		return nil, fmt.Errorf("vendor api %s %s: status %d", method, path, resp.StatusCode)
	}

	return data, nil
}
