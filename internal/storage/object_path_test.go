package storage

import (
	"strings"
	"testing"
)

func TestBuildObjectPath(t *testing.T) {
	key := buildObjectPath(CategoryFinance, "Tax Return 2026", "PDF")
	if !strings.HasPrefix(key, "finance-docs/") {
		t.Fatalf("category not applied: %q", key)
	}
	if !strings.HasSuffix(key, "/tax-return-2026.pdf") {
		t.Fatalf("file name not sanitised: %q", key)
	}
}

func TestBuildObjectPathConfinesUnknownCategories(t *testing.T) {
	for _, category := range []string{"", "Photos!", "../../etc"} {
		key := buildObjectPath(category, "", "")
		if !strings.HasPrefix(key, "misc/") {
			t.Fatalf("category %q: expected misc fallback, got %q", category, key)
		}
	}
	if key := buildObjectPath("", "", ""); !strings.HasSuffix(key, ".bin") {
		t.Fatalf("expected bin extension, got %q", key)
	}
}

func TestJoinPrefix(t *testing.T) {
	if got := joinPrefix("/uploads/", "/avatars/a.png"); got != "uploads/avatars/a.png" {
		t.Errorf("joinPrefix = %q", got)
	}
	if got := joinPrefix("", "avatars/a.png"); got != "avatars/a.png" {
		t.Errorf("joinPrefix with empty prefix = %q", got)
	}
}

func TestDetectContentType(t *testing.T) {
	if got := detectContentType("png"); got != "image/png" {
		t.Errorf("detectContentType(png) = %q", got)
	}
	if got := detectContentType("unknownext"); got != "application/octet-stream" {
		t.Errorf("detectContentType(unknownext) = %q", got)
	}
}
