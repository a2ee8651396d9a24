package router

import (
	"reflect"
	"testing"
)

func TestCompilePatternParamExtraction(t *testing.T) {
	compiled, err := CompilePattern("/users/:id/posts/:postId")
	if err != nil {
		t.Fatalf("CompilePattern failed: %v", err)
	}

	params, ok := compiled.Match("/users/42/posts/7")
	if !ok {
		t.Fatal("expected match")
	}

	expected := map[string]string{"id": "42", "postId": "7"}
	if !reflect.DeepEqual(params, expected) {
		t.Errorf("expected params %v, got %v", expected, params)
	}
}

func TestCompilePatternWildcard(t *testing.T) {
	compiled, err := CompilePattern("/files/*")
	if err != nil {
		t.Fatalf("CompilePattern failed: %v", err)
	}

	for _, path := range []string{"/files/", "/files/a/b/c.png", "/files/deep/nested/file"} {
		params, ok := compiled.Match(path)
		if !ok {
			t.Errorf("expected %q to match /files/*", path)
		}
		if len(params) != 0 {
			t.Errorf("wildcard should yield no named params, got %v", params)
		}
	}

	if _, ok := compiled.Match("/other/a"); ok {
		t.Error("/other/a should not match /files/*")
	}
}

func TestCompilePatternNonMatch(t *testing.T) {
	compiled, err := CompilePattern("/users/:id")
	if err != nil {
		t.Fatalf("CompilePattern failed: %v", err)
	}

	cases := []string{"/users", "/users/", "/users/1/extra"}
	for _, path := range cases {
		if _, ok := compiled.Match(path); ok {
			t.Errorf("%q should not match /users/:id", path)
		}
	}

	if _, ok := compiled.Match("/users/1"); !ok {
		t.Error("/users/1 should match /users/:id")
	}
}

func TestCompilePatternDeterministic(t *testing.T) {
	compiled, err := CompilePattern("/a/:x/*")
	if err != nil {
		t.Fatalf("CompilePattern failed: %v", err)
	}

	first, firstOK := compiled.Match("/a/1/b/c")
	for i := 0; i < 10; i++ {
		params, ok := compiled.Match("/a/1/b/c")
		if ok != firstOK || !reflect.DeepEqual(params, first) {
			t.Fatalf("match is not deterministic: got (%v,%v) then (%v,%v)", first, firstOK, params, ok)
		}
	}
}

func TestCompilePatternEmpty(t *testing.T) {
	compiled, err := CompilePattern("")
	if err != nil {
		t.Fatalf("CompilePattern failed: %v", err)
	}

	if _, ok := compiled.Match(""); !ok {
		t.Error("empty pattern should match empty path")
	}
	if _, ok := compiled.Match("/"); ok {
		t.Error("empty pattern should not match /")
	}
}

func TestCompilePatternConsecutiveWildcards(t *testing.T) {
	compiled, err := CompilePattern("/a/**")
	if err != nil {
		t.Fatalf("CompilePattern failed: %v", err)
	}

	if _, ok := compiled.Match("/a/x/y/z"); !ok {
		t.Error("consecutive wildcards should still match")
	}
}

func TestCompilePatternLiteralMetacharacters(t *testing.T) {
	compiled, err := CompilePattern("/v1.0/items")
	if err != nil {
		t.Fatalf("CompilePattern failed: %v", err)
	}

	if _, ok := compiled.Match("/v1.0/items"); !ok {
		t.Error("literal path should match itself")
	}
	// The '.' must be literal, not a regex any-character.
	if _, ok := compiled.Match("/v1x0/items"); ok {
		t.Error("'.' in the pattern must not match arbitrary characters")
	}
}

func TestCompilePatternDuplicateParamNames(t *testing.T) {
	compiled, err := CompilePattern("/pair/:x/:x")
	if err != nil {
		t.Fatalf("CompilePattern failed: %v", err)
	}

	params, ok := compiled.Match("/pair/1/2")
	if !ok {
		t.Fatal("expected match")
	}
	// The later capture overwrites the earlier one.
	if params["x"] != "2" {
		t.Errorf("expected later capture to win, got %q", params["x"])
	}
}

func TestCompilePatternMissingName(t *testing.T) {
	if _, err := CompilePattern("/users/:"); err == nil {
		t.Error("expected error for parameter without a name")
	}
}

func TestCompilePatternMidSegmentColonIsLiteral(t *testing.T) {
	compiled, err := CompilePattern("/time/12:30")
	if err != nil {
		t.Fatalf("CompilePattern failed: %v", err)
	}

	if _, ok := compiled.Match("/time/12:30"); !ok {
		t.Error("mid-segment ':' should match literally")
	}
	if len(compiled.ParamNames()) != 0 {
		t.Errorf("mid-segment ':' should not create a parameter, got %v", compiled.ParamNames())
	}
}

func TestCompilePatternParamNamesOrder(t *testing.T) {
	compiled, err := CompilePattern("/:a/*/:b/:c")
	if err != nil {
		t.Fatalf("CompilePattern failed: %v", err)
	}

	expected := []string{"a", "b", "c"}
	if !reflect.DeepEqual(compiled.ParamNames(), expected) {
		t.Errorf("expected param names %v, got %v", expected, compiled.ParamNames())
	}

	params, ok := compiled.Match("/x/anything/here/y/z")
	if !ok {
		t.Fatal("expected match")
	}
	if params["a"] != "x" || params["b"] != "y" || params["c"] != "z" {
		t.Errorf("wildcard between params skewed captures: %v", params)
	}
}
