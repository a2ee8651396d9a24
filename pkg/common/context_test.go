package common

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type countingParser struct {
	calls int
}

func (p *countingParser) Parse(contentType string, data []byte) (any, error) {
	p.calls++
	return string(data), nil
}

func TestContextQueryParsedOnce(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/search?q=go&page=2", nil)
	ctx := NewContext(req, nil, testSerializer{})

	if ctx.Query("q") != "go" || ctx.Query("page") != "2" {
		t.Errorf("unexpected query values: %v", ctx.QueryValues())
	}
	if ctx.Query("missing") != "" {
		t.Error("missing query key should be empty")
	}
}

func TestContextStateBag(t *testing.T) {
	ctx := NewContext(httptest.NewRequest(http.MethodGet, "/", nil), nil, testSerializer{})

	if _, ok := ctx.Get("absent"); ok {
		t.Error("absent key should not be found")
	}

	ctx.Set("user", "alice")
	v, ok := ctx.Get("user")
	if !ok || v != "alice" {
		t.Errorf("expected alice, got %v", v)
	}
	if ctx.GetString("user") != "alice" {
		t.Error("GetString should return the stored string")
	}

	ctx.Set("count", 3)
	if ctx.GetString("count") != "" {
		t.Error("GetString on a non-string should be empty")
	}
}

func TestContextParams(t *testing.T) {
	ctx := NewContext(httptest.NewRequest(http.MethodGet, "/users/7", nil), nil, testSerializer{})

	if ctx.Param("id") != "" {
		t.Error("params should be empty before SetParams")
	}
	ctx.SetParams(map[string]string{"id": "7"})
	if ctx.Param("id") != "7" {
		t.Errorf("expected id=7, got %q", ctx.Param("id"))
	}
}

func TestContextBodyParsedOnce(t *testing.T) {
	parser := &countingParser{}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("payload"))
	req.Header.Set("Content-Type", "text/plain")
	ctx := NewContext(req, parser, testSerializer{})

	for i := 0; i < 3; i++ {
		body, err := ctx.Body()
		if err != nil {
			t.Fatalf("Body failed: %v", err)
		}
		if body != "payload" {
			t.Errorf("expected payload, got %v", body)
		}
	}
	if parser.calls != 1 {
		t.Errorf("body must be parsed at most once, parser ran %d times", parser.calls)
	}
}

type failingParser struct {
	calls int
}

func (p *failingParser) Parse(contentType string, data []byte) (any, error) {
	p.calls++
	return nil, errors.New("malformed body")
}

func TestContextBodyFailureCached(t *testing.T) {
	parser := &failingParser{}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	ctx := NewContext(req, parser, testSerializer{})

	_, err := ctx.Body()
	if err == nil {
		t.Fatal("expected a parse error")
	}

	// The stream is consumed; a second call must return the cached failure,
	// not a silent nil from re-reading an empty body.
	_, err2 := ctx.Body()
	if err2 == nil {
		t.Fatal("second Body call must keep returning the parse error")
	}
	if err2.Error() != err.Error() {
		t.Errorf("expected the same cached error, got %v then %v", err, err2)
	}
	if parser.calls != 1 {
		t.Errorf("failed parse must not rerun the parser, ran %d times", parser.calls)
	}
}

type brokenBody struct {
	closed bool
}

func (b *brokenBody) Read(p []byte) (int, error) { return 0, errors.New("read failed") }

func (b *brokenBody) Close() error {
	b.closed = true
	return nil
}

func TestContextBodyClosesOnReadError(t *testing.T) {
	body := &brokenBody{}
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Body = body
	ctx := NewContext(req, nil, testSerializer{})

	_, err := ctx.Body()
	if err == nil {
		t.Fatal("expected a read error")
	}
	if !body.closed {
		t.Error("request body must be closed even when reading fails")
	}
}

func TestContextPendingState(t *testing.T) {
	ctx := NewContext(httptest.NewRequest(http.MethodGet, "/", nil), nil, testSerializer{})

	ctx.Status(http.StatusAccepted).SetHeader("X-Custom", "v")
	if ctx.PendingStatus() != http.StatusAccepted {
		t.Errorf("expected pending 202, got %d", ctx.PendingStatus())
	}

	resp := ctx.Text(ctx.PendingStatus(), "ok")
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("expected 202, got %d", resp.StatusCode)
	}
	if resp.Headers.Get("X-Custom") != "v" {
		t.Error("pending headers must be merged into the materialized response")
	}
}

func TestContextJSONResponse(t *testing.T) {
	ctx := NewContext(httptest.NewRequest(http.MethodGet, "/", nil), nil, testSerializer{})

	resp, err := ctx.JSON(http.StatusOK, map[string]int{"n": 1})
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if resp.Headers.Get("Content-Type") != "application/json" {
		t.Error("expected JSON content type")
	}
	if string(resp.Body) != `{"n":1}` {
		t.Errorf("unexpected body %q", resp.Body)
	}
}

func TestContextRedirect(t *testing.T) {
	ctx := NewContext(httptest.NewRequest(http.MethodGet, "/old", nil), nil, testSerializer{})

	resp := ctx.Redirect(http.StatusMovedPermanently, "/new")
	if resp.StatusCode != http.StatusMovedPermanently {
		t.Errorf("expected 301, got %d", resp.StatusCode)
	}
	if resp.Headers.Get("Location") != "/new" {
		t.Errorf("expected Location /new, got %q", resp.Headers.Get("Location"))
	}
}

func TestContextBindJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"widget"}`))
	ctx := NewContext(req, nil, testSerializer{})

	var payload struct {
		Name string `json:"name"`
	}
	if err := ctx.BindJSON(&payload); err != nil {
		t.Fatalf("BindJSON failed: %v", err)
	}
	if payload.Name != "widget" {
		t.Errorf("expected widget, got %q", payload.Name)
	}
}
