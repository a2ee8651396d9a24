package common

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
)

// Context is the per-request mutable carrier of request data and
// response-building state. Exactly one Context flows through the middleware
// chain and handler for a given request; mutations are visible to all
// downstream middleware.
type Context struct {
	Method  string
	Path    string
	URL     *url.URL
	Request *http.Request

	params map[string]string
	query  url.Values
	state  map[string]any

	// Pending response state, materialized when a terminal response is produced.
	pendingStatus  int
	pendingHeaders http.Header

	// Lazily parsed request body.
	body       any
	bodyErr    error
	bodyParsed bool
	bodyParser BodyParser

	serializer Serializer

	// Status of the response materialized by the chain, for middleware that
	// inspects the outcome after its continuation returns.
	responseStatus int
}

// NewContext builds a Context from an inbound request. The query string is
// parsed eagerly; the body is deferred to the first Body call.
func NewContext(req *http.Request, parser BodyParser, serializer Serializer) *Context {
	return &Context{
		Method:         req.Method,
		Path:           req.URL.Path,
		URL:            req.URL,
		Request:        req,
		query:          req.URL.Query(),
		pendingStatus:  http.StatusOK,
		pendingHeaders: make(http.Header),
		bodyParser:     parser,
		serializer:     serializer,
	}
}

// Param returns the path parameter bound to name, or "" if absent.
func (c *Context) Param(name string) string {
	return c.params[name]
}

// Params returns the full parameter binding for the matched route.
func (c *Context) Params() map[string]string {
	return c.params
}

// SetParams installs the parameter binding produced by route matching.
// Called by the dispatcher after a successful lookup.
func (c *Context) SetParams(params map[string]string) {
	c.params = params
}

// Query returns the first query-string value for key.
func (c *Context) Query(key string) string {
	return c.query.Get(key)
}

// QueryValues returns the parsed query string.
func (c *Context) QueryValues() url.Values {
	return c.query
}

// Header returns a request header value.
func (c *Context) Header(key string) string {
	return c.Request.Header.Get(key)
}

// Set stores a value in the free-form state bag for downstream middleware.
func (c *Context) Set(key string, value any) {
	if c.state == nil {
		c.state = make(map[string]any)
	}
	c.state[key] = value
}

// Get retrieves a value from the state bag.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.state[key]
	return v, ok
}

// GetString retrieves a string value from the state bag, or "" if absent or
// not a string.
func (c *Context) GetString(key string) string {
	s, _ := c.state[key].(string)
	return s
}

// Status sets the pending response status used when a terminal response is
// materialized. Returns the context for chaining.
func (c *Context) Status(code int) *Context {
	c.pendingStatus = code
	return c
}

// PendingStatus returns the status a materialized response will carry.
func (c *Context) PendingStatus() int {
	return c.pendingStatus
}

// SetHeader adds a pending response header. Returns the context for chaining.
func (c *Context) SetHeader(key, value string) *Context {
	c.pendingHeaders.Set(key, value)
	return c
}

// PendingHeaders returns the pending response header set.
func (c *Context) PendingHeaders() http.Header {
	return c.pendingHeaders
}

// Body reads and parses the request body through the body-parsing
// collaborator. Parsing happens at most once; the outcome, failure included,
// is cached for subsequent calls. A parse failure propagates like any other
// error, and repeated calls keep returning it rather than re-reading the
// consumed stream.
func (c *Context) Body() (any, error) {
	if c.bodyParsed {
		return c.body, c.bodyErr
	}
	c.bodyParsed = true

	var raw []byte
	if c.Request.Body != nil {
		defer c.Request.Body.Close()
		var err error
		raw, err = io.ReadAll(c.Request.Body)
		if err != nil {
			c.bodyErr = err
			return nil, err
		}
	}

	if c.bodyParser == nil {
		c.body = raw
		return c.body, nil
	}

	parsed, err := c.bodyParser.Parse(c.Request.Header.Get("Content-Type"), raw)
	if err != nil {
		c.bodyErr = err
		return nil, err
	}
	c.body = parsed
	return c.body, nil
}

// BindJSON reads the raw request body and unmarshals it into v, bypassing the
// body-parsing collaborator. Useful for typed handlers.
func (c *Context) BindJSON(v any) error {
	if c.Request.Body == nil {
		return io.EOF
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return err
	}
	defer c.Request.Body.Close()
	return json.Unmarshal(raw, v)
}

// Serializer returns the serialization collaborator for this request.
func (c *Context) Serializer() Serializer {
	return c.serializer
}

// ResponseStatus returns the status code of the response materialized by the
// chain, or 0 if no response has been produced yet. Middleware that invokes
// its continuation can use this to observe the real outcome.
func (c *Context) ResponseStatus() int {
	return c.responseStatus
}

// recordResponse notes the materialized response so later inspection through
// ResponseStatus sees the real status code.
func (c *Context) recordResponse(resp *Response) {
	if resp != nil {
		c.responseStatus = resp.StatusCode
	}
}

// JSON materializes a JSON response with the given status, merging the
// pending header set.
func (c *Context) JSON(statusCode int, v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	resp := c.respond(statusCode, body)
	resp.Headers.Set("Content-Type", "application/json")
	return resp, nil
}

// Text materializes a plain-text response with the given status.
func (c *Context) Text(statusCode int, body string) *Response {
	resp := c.respond(statusCode, []byte(body))
	resp.Headers.Set("Content-Type", "text/plain; charset=utf-8")
	return resp
}

// Blob materializes a response with an explicit content type.
func (c *Context) Blob(statusCode int, contentType string, body []byte) *Response {
	resp := c.respond(statusCode, body)
	resp.Headers.Set("Content-Type", contentType)
	return resp
}

// NoContent materializes an empty 204 response.
func (c *Context) NoContent() *Response {
	return c.respond(http.StatusNoContent, nil)
}

// Redirect materializes a redirect response to url with the given status.
func (c *Context) Redirect(statusCode int, url string) *Response {
	resp := c.respond(statusCode, nil)
	resp.Headers.Set("Location", url)
	return resp
}

func (c *Context) respond(statusCode int, body []byte) *Response {
	resp := NewResponse(statusCode, body)
	for key, values := range c.pendingHeaders {
		for _, v := range values {
			resp.Headers.Add(key, v)
		}
	}
	return resp
}
