package slug

import (
	"regexp"
	"testing"
)

func TestMake(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Café com Leite!!", "cafe-com-leite"},
		{"Hello World", "hello-world"},
		{"  leading and trailing  ", "leading-and-trailing"},
		{"tabs\tand\t\tspaces", "tabs-and-spaces"},
		{"Ação É Ótima", "acao-e-otima"},
		{"Go 1.24 released", "go-124-released"},
		{"self-hosted  -  notes", "self-hosted-notes"},
		// Hyphens separate words, so an existing slug maps to itself.
		{"a-b", "a-b"},
		{"a--b-", "a-b"},
		{"---", ""},
		{"!!!", ""},
		{"", ""},
		{"naïve über", "nave-ber"},
		{"日本語 title", "title"},
	}
	for _, tt := range tests {
		if got := Make(tt.input); got != tt.want {
			t.Errorf("Make(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMakeProperties(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9-]*$`)
	titles := []string{
		"Café com Leite!!",
		" - starts with a hyphen",
		"ends with a hyphen -",
		"Çà và? Õ Ô!",
		"mixed\t \tseparators - everywhere",
		"UPPER lower 123",
		"emoji 🎉 party",
		"a",
	}
	for _, title := range titles {
		s := Make(title)
		if !valid.MatchString(s) {
			t.Errorf("Make(%q) = %q contains characters outside [a-z0-9-]", title, s)
		}
		if len(s) > 0 && (s[0] == '-' || s[len(s)-1] == '-') {
			t.Errorf("Make(%q) = %q has a leading or trailing hyphen", title, s)
		}
		if again := Make(s); again != s {
			t.Errorf("Make(Make(%q)) = %q, want %q", title, again, s)
		}
	}
}
