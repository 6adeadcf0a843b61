package eventlog

import (
	"strings"
	"testing"
)

func TestAddCapsEntries(t *testing.T) {
	m := New()
	for i := 0; i < maxEntries+50; i++ {
		m.Add("recv", "entry")
	}
	if len(m.Entries) != maxEntries {
		t.Errorf("len(Entries) = %d, want %d", len(m.Entries), maxEntries)
	}
}

func TestAddSnapsToBottom(t *testing.T) {
	m := New()
	for i := 0; i < 10; i++ {
		m.Add("recv", "entry")
	}
	m.ScrollUp(5)
	if m.Offset != 5 {
		t.Fatalf("Offset = %d after ScrollUp(5), want 5", m.Offset)
	}
	m.Add("recv", "newest")
	if m.Offset != 0 {
		t.Errorf("Offset = %d after Add, want 0", m.Offset)
	}
}

func TestScrollClamps(t *testing.T) {
	m := New()
	for i := 0; i < 3; i++ {
		m.Add("recv", "entry")
	}

	m.ScrollUp(100)
	if m.Offset != 2 {
		t.Errorf("Offset = %d after over-scroll up, want 2", m.Offset)
	}
	m.ScrollDown(100)
	if m.Offset != 0 {
		t.Errorf("Offset = %d after over-scroll down, want 0", m.Offset)
	}
}

func TestViewShowsNewestEntries(t *testing.T) {
	m := New()
	m.Add("recv", "older")
	m.Add("rej", "newest")

	out := m.View(80, 1)
	if !strings.Contains(out, "newest") {
		t.Errorf("View missing newest entry:\n%s", out)
	}
	if strings.Contains(out, "older") {
		t.Errorf("View shows entry outside the window:\n%s", out)
	}
}

func TestViewTruncatesLongMessages(t *testing.T) {
	m := New()
	m.Add("recv", strings.Repeat("x", 200))

	out := m.View(60, 1)
	if !strings.Contains(out, "...") {
		t.Errorf("long message not truncated:\n%s", out)
	}
	if strings.Contains(out, strings.Repeat("x", 60)) {
		t.Errorf("truncated line still carries the full message:\n%s", out)
	}
}

// Widths just past the truncation threshold must render, not panic.
func TestViewNarrowWidths(t *testing.T) {
	m := New()
	m.Add("recv", strings.Repeat("x", 200))

	for _, width := range []int{0, 1, 24, 25, 26, 27, 28} {
		out := m.View(width, 3)
		if !strings.Contains(out, "x") {
			t.Errorf("width %d: entry missing from view:\n%s", width, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		s    string
		max  int
		want string
	}{
		{"fits", "short", 10, "short"},
		{"exact", "12345", 5, "12345"},
		{"cut", "1234567890", 8, "12345..."},
		{"max too small to mark", "1234567890", 3, "1234567890"},
		{"negative max", "1234567890", -2, "1234567890"},
		{"multi-byte runes stay whole", strings.Repeat("…", 8), 6, "………..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.s, tt.max); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
			}
		})
	}
}

func TestViewEmpty(t *testing.T) {
	out := New().View(80, 5)
	if !strings.Contains(out, "waiting for frames") {
		t.Errorf("empty View missing placeholder:\n%s", out)
	}
}
