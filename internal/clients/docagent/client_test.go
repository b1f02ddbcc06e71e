package docagent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/openshelf/catalog-intake-backend/internal/pkg/httpx"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
)

func newTestClient(t *testing.T, baseURL string) Client {
	t.Helper()
	t.Setenv("DOC_AGENT_BASE_URL", baseURL)
	t.Setenv("DOC_AGENT_API_KEY", "test-key")

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	c, err := NewClient(log)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestClientTransformSendsBearerAndFileID(t *testing.T) {
	fileID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transform" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["file_id"] != fileID.String() {
			t.Errorf("file_id = %q", body["file_id"])
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if err := c.Transform(context.Background(), fileID); err != nil {
		t.Fatalf("Transform: %v", err)
	}
}

func TestClientErrorFieldIn200IsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unreadable sheet"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Transform(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error for 200 body with error field")
	}
	if !strings.Contains(err.Error(), "unreadable sheet") {
		t.Fatalf("error = %v, want agent message", err)
	}
}

func TestClientNon2xxCarriesStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Transform(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error for 502")
	}
	if got := httpx.StatusCode(err); got != http.StatusBadGateway {
		t.Fatalf("StatusCode(err) = %d, want 502", got)
	}
}

func TestClientGenerateArticleParsesThreeStyles(t *testing.T) {
	bookID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate_article" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["book_id"] != bookID.String() {
			t.Errorf("book_id = %v", body["book_id"])
		}
		if body["custom_style"] != "文青風" {
			t.Errorf("custom_style = %v", body["custom_style"])
		}
		if _, ok := body["article_id"]; ok {
			t.Error("article_id should be omitted when empty")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"articles": []map[string]string{
				{"content": "內容導向文案"},
				{"content": "促銷文案"},
				{"content": "急迫感文案"},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	set, err := c.GenerateArticle(context.Background(), bookID, "", "文青風")
	if err != nil {
		t.Fatalf("GenerateArticle: %v", err)
	}
	if set.ContentOriented != "內容導向文案" || set.Promotional != "促銷文案" || set.ThreatBased != "急迫感文案" {
		t.Fatalf("article set = %+v", set)
	}
}

func TestClientGenerateArticleRejectsShortList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"articles": []map[string]string{{"content": "只有一篇"}},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.GenerateArticle(context.Background(), uuid.New(), "", ""); err == nil {
		t.Fatal("expected error when agent returns fewer than 3 articles")
	}
}

func TestClientUpdateMappingBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/update_mapping" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body struct {
			PreColumn     string   `json:"pre_column"`
			RawColumnList []string `json:"raw_column_list"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.PreColumn != "簡介" || len(body.RawColumnList) != 2 {
			t.Errorf("body = %+v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if err := c.UpdateMapping(context.Background(), "簡介", []string{"內容簡介", "書籍簡介"}); err != nil {
		t.Fatalf("UpdateMapping: %v", err)
	}
	if err := c.UpdateMapping(context.Background(), "", nil); err == nil {
		t.Fatal("expected error for empty pre_column")
	}
}
