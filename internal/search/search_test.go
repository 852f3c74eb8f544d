package search

import "testing"

func TestContains(t *testing.T) {
	tests := []struct {
		s, query string
		want     bool
	}{
		{"Royal Albert Hall", "albert", true},
		{"Royal Albert Hall", "  HALL ", true},
		{"Straße Festival", "STRASSE", true},
		{"Jazz Night", "rock", false},
		{"anything", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.s+"/"+tt.query, func(t *testing.T) {
			if got := Contains(tt.s, tt.query); got != tt.want {
				t.Errorf("Contains(%q, %q) = %v, want %v", tt.s, tt.query, got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	if !Equal("Fan@Example.com", " fan@example.COM") {
		t.Error("Equal() should ignore case and surrounding space")
	}
	if Equal("fan@example.com", "fan@example.org") {
		t.Error("Equal() matched different strings")
	}
}
