package security

import (
	"strings"
	"testing"
)

func TestSanitizeAccountField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Trims whitespace", input: "  Thor  ", want: "Thor"},
		{name: "Strips tags", input: "<script>alert(1)</script>Thor", want: "Thor"},
		{name: "Drops null bytes", input: "Th\x00or", want: "Thor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeAccountField(tt.input); got != tt.want {
				t.Errorf("SanitizeAccountField(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeAccountField_CapsLength(t *testing.T) {
	long := strings.Repeat("a", 300)
	if got := SanitizeAccountField(long); len(got) != 200 {
		t.Errorf("length = %d, want 200", len(got))
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"thor@asgard.example", "a@b.co"}
	invalid := []string{"", "thor", "thor@", "@asgard.example", "a b@c.de"}

	for _, email := range valid {
		if !ValidEmail(email) {
			t.Errorf("ValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if ValidEmail(email) {
			t.Errorf("ValidEmail(%q) = true, want false", email)
		}
	}
}
