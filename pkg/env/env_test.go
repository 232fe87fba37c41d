package env

import "testing"

func TestFirstPrefersEarlierKeys(t *testing.T) {
	t.Setenv("IZZAH_LOG_FORMAT", "console")
	t.Setenv("LOG_FORMAT", "json")

	if got := First("json", "IZZAH_LOG_FORMAT", "LOG_FORMAT"); got != "console" {
		t.Fatalf("expected console, got %q", got)
	}
}

func TestGetFallsBackOnBlank(t *testing.T) {
	t.Setenv("IZZAH_BLANK", "   ")

	if got := Get("IZZAH_BLANK", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := Get("IZZAH_UNSET_FOR_TEST", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
