package web

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

func testTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(
			`{{define "base"}}<html><title>{{.Title}}</title>{{template "content" .}}</html>{{end}}`)},
		"pages/home.html": {Data: []byte(
			`{{define "content"}}<h1>{{title "happy"}} {{shortDate .Date}}</h1>{{end}}`)},
	}
}

func TestTemplatesRender(t *testing.T) {
	templates, err := NewTemplates(testTemplatesFS())
	if err != nil {
		t.Fatalf("NewTemplates() error: %v", err)
	}

	data := map[string]any{
		"Title": "Mood Playlist",
		"Date":  time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
	}

	var buf strings.Builder
	if err := templates.Render(&buf, "home", data); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<title>Mood Playlist</title>") {
		t.Errorf("output missing title: %s", out)
	}
	if !strings.Contains(out, "Happy Mar 5, 2024") {
		t.Errorf("template funcs not applied: %s", out)
	}
}

func TestTemplatesRenderUnknownPage(t *testing.T) {
	templates, err := NewTemplates(testTemplatesFS())
	if err != nil {
		t.Fatalf("NewTemplates() error: %v", err)
	}

	var buf strings.Builder
	if err := templates.Render(&buf, "missing", nil); err == nil {
		t.Error("expected error for unknown page")
	}
}
