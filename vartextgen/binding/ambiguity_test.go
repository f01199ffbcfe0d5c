package binding

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vartext/vartext"
	"github.com/vartext/vartext/vartextgen/schema"
)

func TestAmbiguities_None(t *testing.T) {
	e := schema.Enum{
		Name: "Color",
		Cases: []schema.Case{
			schema.Unit("Green"),
			schema.Unit("Red").WithTemplate("Burgundy"),
		},
	}

	if got := Ambiguities(e); got != nil {
		t.Errorf("Ambiguities() = %v, want nil", got)
	}
}

func TestAmbiguities_OverrideCollidesWithTag(t *testing.T) {
	// Halt's override renders identically to Stop's default.
	e := schema.Enum{
		Name: "Signal",
		Cases: []schema.Case{
			schema.Unit("Stop"),
			schema.Unit("Halt").WithTemplate("Stop"),
			schema.Unit("Go"),
		},
	}

	want := []vartext.Collision{
		{Text: "Stop", Tags: []string{"Stop", "Halt"}},
	}
	if diff := cmp.Diff(want, Ambiguities(e)); diff != "" {
		t.Errorf("Ambiguities() mismatch (-want +got):\n%s", diff)
	}
}

func TestAmbiguities_MultipleGroupsKeepFirstOccurrenceOrder(t *testing.T) {
	e := schema.Enum{
		Name: "Level",
		Cases: []schema.Case{
			schema.Unit("High").WithTemplate("up"),
			schema.Unit("Low").WithTemplate("down"),
			schema.Unit("Raised").WithTemplate("up"),
			schema.Unit("Sunk").WithTemplate("down"),
		},
	}

	want := []vartext.Collision{
		{Text: "up", Tags: []string{"High", "Raised"}},
		{Text: "down", Tags: []string{"Low", "Sunk"}},
	}
	if diff := cmp.Diff(want, Ambiguities(e)); diff != "" {
		t.Errorf("Ambiguities() mismatch (-want +got):\n%s", diff)
	}
}

func TestAmbiguities_SkipsEnumsWithData(t *testing.T) {
	// Two colliding templates, but the enum carries data so the check does
	// not apply.
	e := schema.Enum{
		Name: "Mixed",
		Cases: []schema.Case{
			schema.Unit("A").WithTemplate("same"),
			schema.Unit("B").WithTemplate("same"),
			schema.Positional("C", "int"),
		},
	}

	if got := Ambiguities(e); got != nil {
		t.Errorf("Ambiguities() = %v, want nil for non-unit enum", got)
	}
}
