package sitepress

import (
	"reflect"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  Spaced  Out  ", "spaced-out"},
		{"Already-Slugged", "already-slugged"},
		{"Symbols & Stuff!", "symbols-stuff"},
		{"Trailing---", "trailing"},
		{"Project 42", "project-42"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", []string{"projects", "alpha"}, "https://example.com/projects/alpha/"},
		{"https://example.com/sub", []string{"p"}, "https://example.com/sub/p/"},
		{"https://example.com", nil, "https://example.com"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}

func TestFilterEmpty(t *testing.T) {
	got := FilterEmpty([]string{"a", "", "  ", "b"})
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("FilterEmpty = %v", got)
	}
}
