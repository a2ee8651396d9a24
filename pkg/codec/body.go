package codec

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// ParseFunc converts raw body bytes into a parsed value.
type ParseFunc func(data []byte) (any, error)

// ContentTypeParser is the body-parsing collaborator. It dispatches on the
// Content-Type header prefix: JSON bodies become the generic decoded value,
// form bodies become url.Values, text bodies become strings, and anything
// else passes through as raw bytes. The router's context invokes it lazily
// and caches the result.
type ContentTypeParser struct {
	parsers []contentTypeEntry
}

type contentTypeEntry struct {
	prefix string
	fn     ParseFunc
}

// NewContentTypeParser creates a parser with the default format handlers
// registered.
func NewContentTypeParser() *ContentTypeParser {
	p := &ContentTypeParser{}
	p.Register("application/json", parseJSON)
	p.Register("application/x-www-form-urlencoded", parseForm)
	p.Register("text/", parseText)
	return p
}

// Register installs a parser for a content-type prefix, replacing any
// existing one.
func (p *ContentTypeParser) Register(prefix string, fn ParseFunc) {
	for i := range p.parsers {
		if p.parsers[i].prefix == prefix {
			p.parsers[i].fn = fn
			return
		}
	}
	p.parsers = append(p.parsers, contentTypeEntry{prefix: prefix, fn: fn})
}

// Parse implements common.BodyParser. An empty body parses to nil regardless
// of content type. Overlapping registered prefixes resolve to the longest
// match, so a broad prefix never shadows a more specific one.
func (p *ContentTypeParser) Parse(contentType string, data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var match ParseFunc
	matchLen := -1
	for _, entry := range p.parsers {
		if strings.HasPrefix(contentType, entry.prefix) && len(entry.prefix) > matchLen {
			match = entry.fn
			matchLen = len(entry.prefix)
		}
	}
	if match != nil {
		return match(data)
	}
	return data, nil
}

func parseJSON(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("malformed JSON body: %w", err)
	}
	return v, nil
}

func parseForm(data []byte) (any, error) {
	values, err := url.ParseQuery(string(data))
	if err != nil {
		return nil, fmt.Errorf("malformed form body: %w", err)
	}
	return values, nil
}

func parseText(data []byte) (any, error) {
	return string(data), nil
}
