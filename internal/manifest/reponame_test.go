package manifest

import "testing"

func TestParseRepoSuffix(t *testing.T) {
	tests := []struct {
		name       string
		ok         bool
		identifier string
		level      string
	}{
		{"en_ta", true, "ta", ""},
		{"en_tn_l2", true, "tn", "2"},
		{"EN_TQ", true, "tq", ""},
		{"en_ulb", false, "", ""},
		{"en_tw_extra", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := parseRepoSuffix(tt.name)
			if ok != tt.ok {
				t.Fatalf("parseRepoSuffix(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
			if s.identifier != tt.identifier || s.level != tt.level {
				t.Errorf("parseRepoSuffix(%q) = %+v", tt.name, s)
			}
		})
	}
}

func TestBookLookup(t *testing.T) {
	for _, key := range []string{"gen", "GEN", "Genesis", "1 Samuel", "1samuel", "1sa"} {
		if _, ok := lookupBook(key); !ok {
			t.Errorf("lookupBook(%q) not found", key)
		}
	}
	if got := BookTitle("sng"); got != "Song of Solomon" {
		t.Errorf("BookTitle(sng) = %q", got)
	}
	if got := BookTitle("xyz"); got != "" {
		t.Errorf("BookTitle(xyz) = %q, want empty", got)
	}
}
