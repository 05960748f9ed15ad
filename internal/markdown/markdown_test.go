// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		want    string
		notWant string
	}{
		{"heading", "# Services", "<h1>Services</h1>", ""},
		{"emphasis", "GST filing is *mandatory*.", "<em>mandatory</em>", ""},
		{"link survives", "[Contact us](/contact)", `<a href="/contact"`, ""},
		{"gfm table", "| a | b |\n|---|---|\n| 1 | 2 |", "<table>", ""},
		{"script stripped", "hello <script>alert(1)</script>", "hello", "<script>"},
		{"onclick stripped", `<a href="/x" onclick="steal()">x</a>`, "", "onclick"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.source)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if tt.want != "" && !strings.Contains(string(got), tt.want) {
				t.Errorf("Render() = %q, want substring %q", got, tt.want)
			}
			if tt.notWant != "" && strings.Contains(string(got), tt.notWant) {
				t.Errorf("Render() = %q, must not contain %q", got, tt.notWant)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	got := Sanitize(`<p>ok</p><iframe src="https://evil.example"></iframe>`)
	if strings.Contains(string(got), "iframe") {
		t.Errorf("Sanitize() kept iframe: %q", got)
	}
	if !strings.Contains(string(got), "<p>ok</p>") {
		t.Errorf("Sanitize() dropped safe markup: %q", got)
	}
}
