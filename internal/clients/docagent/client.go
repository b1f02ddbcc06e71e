package docagent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
)

// ArticleSet is the trio of styled articles the agent produces per book.
// The agent returns them as an ordered list: content-oriented first, then
// promotional, then threat-based.
type ArticleSet struct {
	ContentOriented string
	Promotional     string
	ThreatBased     string
}

// Client is the document agent API client. The agent owns all extraction
// and generation logic; this backend only hands it ids and relays results.
type Client interface {
	// Transform asks the agent to extract catalog records from a stored file.
	Transform(ctx context.Context, fileID uuid.UUID) error

	// TransformV2 is the revised extraction pipeline. Same contract.
	TransformV2(ctx context.Context, fileID uuid.UUID) error

	// UpsertBook runs the single-product extraction for one org product id.
	UpsertBook(ctx context.Context, fileID uuid.UUID, orgProdID string) error

	// GenerateArticle produces the three styled articles for a book.
	// articleID and customStyle are optional.
	GenerateArticle(ctx context.Context, bookID uuid.UUID, articleID string, customStyle string) (*ArticleSet, error)

	// UpdateRules pushes the edited extraction rule text to the agent.
	UpdateRules(ctx context.Context, newRule string) error

	// UpdateMapping pushes an edited field mapping to the agent.
	UpdateMapping(ctx context.Context, preColumn string, rawColumnList []string) error
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client

	callTimeout      time.Duration
	transformTimeout time.Duration
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	baseURL := strings.TrimSpace(os.Getenv("DOC_AGENT_BASE_URL"))
	if baseURL == "" {
		return nil, fmt.Errorf("missing DOC_AGENT_BASE_URL")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	apiKey := strings.TrimSpace(os.Getenv("DOC_AGENT_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing DOC_AGENT_API_KEY")
	}

	callTimeoutSec := 60
	if v := os.Getenv("DOC_AGENT_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			callTimeoutSec = parsed
		}
	}

	// Transforms chew through whole spreadsheets; they get their own, much
	// longer budget.
	transformTimeoutSec := 600
	if v := os.Getenv("DOC_AGENT_TRANSFORM_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			transformTimeoutSec = parsed
		}
	}

	return &client{
		log:     log.With("service", "DocAgentClient"),
		baseURL: baseURL,
		apiKey:  apiKey,
		// Per-call deadlines come from the context; no client-wide cap.
		httpClient:       &http.Client{},
		callTimeout:      time.Duration(callTimeoutSec) * time.Second,
		transformTimeout: time.Duration(transformTimeoutSec) * time.Second,
	}, nil
}

type docAgentHTTPError struct {
	StatusCode int
	Body       string
}

func (e *docAgentHTTPError) Error() string {
	return fmt.Sprintf("doc agent http %d: %s", e.StatusCode, e.Body)
}

func (e *docAgentHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// agentEnvelope is the generic response shape. The agent reports failures
// as a 200 with a non-empty "error" field, so every decode checks it.
type agentEnvelope struct {
	Error string `json:"error"`
}

func (c *client) do(ctx context.Context, path string, timeout time.Duration, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &docAgentHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var env agentEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("doc agent decode error: %w; raw=%s", err, string(raw))
	}
	if strings.TrimSpace(env.Error) != "" {
		return fmt.Errorf("doc agent %s: %s", path, env.Error)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("doc agent decode error: %w; raw=%s", err, string(raw))
		}
	}
	return nil
}

func (c *client) Transform(ctx context.Context, fileID uuid.UUID) error {
	if fileID == uuid.Nil {
		return fmt.Errorf("file_id required")
	}
	return c.do(ctx, "/transform", c.transformTimeout, map[string]any{"file_id": fileID.String()}, nil)
}

func (c *client) TransformV2(ctx context.Context, fileID uuid.UUID) error {
	if fileID == uuid.Nil {
		return fmt.Errorf("file_id required")
	}
	return c.do(ctx, "/transformV2", c.transformTimeout, map[string]any{"file_id": fileID.String()}, nil)
}

func (c *client) UpsertBook(ctx context.Context, fileID uuid.UUID, orgProdID string) error {
	if fileID == uuid.Nil {
		return fmt.Errorf("file_id required")
	}
	orgProdID = strings.TrimSpace(orgProdID)
	if orgProdID == "" {
		return fmt.Errorf("org_prod_id required")
	}
	return c.do(ctx, "/upsertBook", c.transformTimeout, map[string]any{
		"file_id":     fileID.String(),
		"org_prod_id": orgProdID,
	}, nil)
}

func (c *client) GenerateArticle(ctx context.Context, bookID uuid.UUID, articleID string, customStyle string) (*ArticleSet, error) {
	if bookID == uuid.Nil {
		return nil, fmt.Errorf("book_id required")
	}

	body := map[string]any{"book_id": bookID.String()}
	if strings.TrimSpace(articleID) != "" {
		body["article_id"] = strings.TrimSpace(articleID)
	}
	if strings.TrimSpace(customStyle) != "" {
		body["custom_style"] = strings.TrimSpace(customStyle)
	}

	var out struct {
		Articles []struct {
			Content string `json:"content"`
		} `json:"articles"`
	}
	if err := c.do(ctx, "/generate_article", c.transformTimeout, body, &out); err != nil {
		return nil, err
	}
	if len(out.Articles) != 3 {
		return nil, fmt.Errorf("doc agent /generate_article: expected 3 articles, got %d", len(out.Articles))
	}
	return &ArticleSet{
		ContentOriented: out.Articles[0].Content,
		Promotional:     out.Articles[1].Content,
		ThreatBased:     out.Articles[2].Content,
	}, nil
}

func (c *client) UpdateRules(ctx context.Context, newRule string) error {
	if strings.TrimSpace(newRule) == "" {
		return fmt.Errorf("new_rule required")
	}
	return c.do(ctx, "/update_rules", c.callTimeout, map[string]any{"new_rule": newRule}, nil)
}

func (c *client) UpdateMapping(ctx context.Context, preColumn string, rawColumnList []string) error {
	if strings.TrimSpace(preColumn) == "" {
		return fmt.Errorf("pre_column required")
	}
	return c.do(ctx, "/update_mapping", c.callTimeout, map[string]any{
		"pre_column":      preColumn,
		"raw_column_list": rawColumnList,
	}, nil)
}
