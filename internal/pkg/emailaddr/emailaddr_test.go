package emailaddr

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want Classification
	}{
		{"plain address", "jane.doe@unibuea.cm", Valid},
		{"uppercase normalized", "JANE.DOE@UNIBUEA.CM", Valid},
		{"surrounding whitespace", "  jane@school.edu  ", Valid},
		{"plus tag", "jane+notices@school.edu", Valid},
		{"subdomain", "jane@cs.school.edu", Valid},
		{"empty string", "", Missing},
		{"whitespace only", "   \t ", Missing},
		{"no at sign", "jane.school.edu", Invalid},
		{"double at", "jane@@school.edu", Invalid},
		{"two at signs apart", "jane@school@edu.com", Invalid},
		{"empty local part", "@school.edu", Invalid},
		{"empty domain", "jane@", Invalid},
		{"no tld", "jane@school", Invalid},
		{"consecutive dots in local", "jane..doe@school.edu", Invalid},
		{"consecutive dots in domain", "jane@school..edu", Invalid},
		{"leading dot in local", ".jane@school.edu", Invalid},
		{"trailing dot in local", "jane.@school.edu", Invalid},
		{"leading dot in domain", "jane@.school.edu", Invalid},
		{"trailing dot in domain", "jane@school.edu.", Invalid},
		{"embedded space", "jane doe@school.edu", Invalid},
		{"numeric tld", "jane@school.123", Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.addr); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}

func TestClassifyPtr(t *testing.T) {
	if got := ClassifyPtr(nil); got != Missing {
		t.Errorf("ClassifyPtr(nil) = %v, want Missing", got)
	}
	addr := "jane@school.edu"
	if got := ClassifyPtr(&addr); got != Valid {
		t.Errorf("ClassifyPtr(%q) = %v, want Valid", addr, got)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Jane.Doe@School.EDU "); got != "jane.doe@school.edu" {
		t.Errorf("Normalize() = %q", got)
	}
}

func TestLooksDeliverable(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"a@x.com", true},
		{"A@X.COM", true},
		{"no-at-sign.com", false},
		{"no-dot@com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := LooksDeliverable(tt.addr); got != tt.want {
			t.Errorf("LooksDeliverable(%q) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}
