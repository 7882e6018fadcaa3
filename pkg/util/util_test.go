package util

import "testing"

func TestFormatDueUTC(t *testing.T) {
	// 18:00 JST is 09:00 UTC the same day
	got := FormatDueUTC("2025-06-01T18:00:00")
	want := "2025-06-01T09:00:00.000Z"
	if got != want {
		t.Errorf("FormatDueUTC = %q, want %q", got, want)
	}

	// Early morning JST rolls back to the previous UTC day
	got = FormatDueUTC("2025-06-01T08:00:00")
	want = "2025-05-31T23:00:00.000Z"
	if got != want {
		t.Errorf("FormatDueUTC = %q, want %q", got, want)
	}

	// Raw portal text that never parsed stays without a due date
	if got := FormatDueUTC("6月1日まで"); got != "" {
		t.Errorf("FormatDueUTC on raw text = %q, want empty", got)
	}
}

func TestClockPortion(t *testing.T) {
	if got := ClockPortion("2025-06-01T18:00:00"); got != "18:00" {
		t.Errorf("ClockPortion = %q, want 18:00", got)
	}
	if got := ClockPortion("期限不明"); got != "" {
		t.Errorf("ClockPortion on raw text = %q, want empty", got)
	}
}

func TestComposeTitle(t *testing.T) {
	got := ComposeTitle("CourseX", "TitleY", "18:00")
	if got != "[18:00] [CourseX] TitleY" {
		t.Errorf("ComposeTitle = %q", got)
	}

	got = ComposeTitle("CourseX", "TitleY", "")
	if got != "[CourseX] TitleY" {
		t.Errorf("ComposeTitle without clock = %q", got)
	}
}
