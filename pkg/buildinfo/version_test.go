package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"version: " + Version, "commit: " + Commit, "built: " + Date} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestTemplate(t *testing.T) {
	tpl := Template()
	if !strings.Contains(tpl, "{{.Name}}") {
		t.Errorf("Template() = %q, missing cobra name placeholder", tpl)
	}
	if !strings.Contains(tpl, Version) {
		t.Errorf("Template() = %q, missing version %q", tpl, Version)
	}
}
