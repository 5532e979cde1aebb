package utils

import "testing"

func TestCapitalizeName(t *testing.T) {
	for _, in := range []string{"john doe", "John Doe", "JOHN DOE", "  john   doe ", "jOHN\tdoe"} {
		if got := CapitalizeName(in); got != "John Doe" {
			t.Errorf("CapitalizeName(%q) = %q, want %q", in, got, "John Doe")
		}
	}
	if got := CapitalizeName(""); got != "" {
		t.Errorf("CapitalizeName(\"\") = %q", got)
	}
}

func TestCapitalizeSnakeName(t *testing.T) {
	tests := map[string]string{
		"john_doe":        "John Doe",
		"JOHN_DOE":        "John Doe",
		"john__doe":       "John Doe",
		"mary_ann_thomas": "Mary Ann Thomas",
		"asha":            "Asha",
	}
	for in, want := range tests {
		if got := CapitalizeSnakeName(in); got != want {
			t.Errorf("CapitalizeSnakeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCapitalizeNamePunctuatedTokens(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(string) string
		input string
		want  string
	}{
		{"hyphen", CapitalizeName, "mary-jane smith", "Mary-jane Smith"},
		{"hyphen upper", CapitalizeName, "MARY-JANE SMITH", "Mary-jane Smith"},
		{"apostrophe", CapitalizeName, "o'brien", "O'brien"},
		{"snake with hyphen", CapitalizeSnakeName, "jean-luc_picard", "Jean-luc Picard"},
		{"snake apostrophe", CapitalizeSnakeName, "d'souza_anil", "D'souza Anil"},
		{"non latin", CapitalizeName, "ÉLODIE durand", "Élodie Durand"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.input); got != tt.want {
				t.Errorf("%q = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSnakeNameRoundTrip(t *testing.T) {
	name := "Mary Ann Thomas"
	if got := CapitalizeSnakeName(SnakeName(name)); got != name {
		t.Errorf("round trip = %q, want %q", got, name)
	}
}
