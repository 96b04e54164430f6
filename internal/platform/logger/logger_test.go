package logger

import "testing"

func TestSanitizeValueRedactsSecrets(t *testing.T) {
	cases := []struct {
		key  string
		val  interface{}
		want interface{}
	}{
		{"password", "hunter2", "[REDACTED]"},
		{"access_token", "abc", "[REDACTED]"},
		{"email", "a@b.c", "[REDACTED]"},
		{"lesson_id", "42", "42"},
		{"detail", "eyJhbGciOiJIUzI1.eyJzdWIiOiIxMjM0.sig", "[REDACTED]"},
	}
	for _, tc := range cases {
		if got := sanitizeValue(tc.key, tc.val); got != tc.want {
			t.Fatalf("sanitizeValue(%q): got=%v want=%v", tc.key, got, tc.want)
		}
	}
}

func TestSanitizeValueHashesIdentifiers(t *testing.T) {
	got, ok := sanitizeValue("user_id", "5b0c").(string)
	if !ok || len(got) != len("hash:")+12 {
		t.Fatalf("expected hashed value, got %v", got)
	}
	if again := sanitizeValue("session_id", "5b0c"); again != got {
		t.Fatalf("hash should be stable across keys: %v vs %v", again, got)
	}
}

func TestNewTestModeIsNop(t *testing.T) {
	log, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.With("component", "x").Info("ignored", "password", "p")
}
