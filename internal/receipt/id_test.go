package receipt

import (
	"regexp"
	"strings"
	"testing"
)

var idPattern = regexp.MustCompile(`^RCP-[0-9A-Z]+-[0-9A-Z]{9}$`)

func TestNewIDFormat(t *testing.T) {
	id := NewID()

	if !idPattern.MatchString(id) {
		t.Fatalf("id %q does not match expected format", id)
	}
	if id != strings.ToUpper(id) {
		t.Fatalf("id %q is not upper-cased", id)
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = struct{}{}
	}
}
