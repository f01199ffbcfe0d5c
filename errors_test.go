package vartext

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{Type: "Color", Input: "Chartreuse"}
	expected := `invalid Color variant: "Chartreuse"`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestParseErrorUnwrapsWithAs(t *testing.T) {
	wrapped := fmt.Errorf("load config: %w", &ParseError{Type: "Mode", Input: "weird"})

	var perr *ParseError
	if !errors.As(wrapped, &perr) {
		t.Fatalf("errors.As should find *ParseError in %v", wrapped)
	}
	if perr.Type != "Mode" {
		t.Errorf("expected type Mode, got %s", perr.Type)
	}
	if perr.Input != "weird" {
		t.Errorf("expected input weird, got %s", perr.Input)
	}
}

func TestAmbiguityErrorMessage(t *testing.T) {
	err := &AmbiguityError{
		Type: "Signal",
		Collisions: []Collision{
			{Text: "Go", Tags: []string{"Proceed", "Golang"}},
			{Text: "Stop", Tags: []string{"Halt", "Stop"}},
		},
	}

	msg := err.Error()
	for _, want := range []string{
		"ambiguous Signal templates",
		`"Go" shared by Proceed, Golang`,
		`"Stop" shared by Halt, Stop`,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message should contain %q, got %q", want, msg)
		}
	}
}

func TestCollisionString(t *testing.T) {
	c := Collision{Text: "On", Tags: []string{"Enabled", "Active"}}
	expected := `"On" shared by Enabled, Active`
	if c.String() != expected {
		t.Errorf("expected %q, got %q", expected, c.String())
	}
}
