package binding

import (
	"github.com/vartext/vartext"
	"github.com/vartext/vartext/vartextgen/schema"
)

// Ambiguities groups an all-unit enum's cases by effective template text and
// returns every group shared by more than one case, in order of first
// occurrence. A non-empty result means the enum's text form is not
// reversible: the generated FromText conversion must refuse every input
// rather than pick one of several legitimate interpretations.
//
// The check only makes sense for enums whose every case is unit; callers
// gate on Enum.AllUnit before consulting it, and Ambiguities returns nil for
// anything else.
func Ambiguities(e schema.Enum) []vartext.Collision {
	if !e.AllUnit() {
		return nil
	}

	tags := make([]string, len(e.Cases))
	texts := make([]string, len(e.Cases))
	for i, c := range e.Cases {
		tags[i] = c.Tag
		texts[i] = EffectiveTemplate(c)
	}
	return Collide(tags, texts)
}

// Collide groups case tags by their resolved template text and returns the
// groups sharing a text, in order of the text's first occurrence. The
// emitter uses it directly when a template transform has rewritten the
// defaults; Ambiguities is the untransformed convenience form.
func Collide(tags, texts []string) []vartext.Collision {
	groups := make(map[string][]string)
	var order []string
	for i, text := range texts {
		if _, seen := groups[text]; !seen {
			order = append(order, text)
		}
		groups[text] = append(groups[text], tags[i])
	}

	var collisions []vartext.Collision
	for _, text := range order {
		if shared := groups[text]; len(shared) > 1 {
			collisions = append(collisions, vartext.Collision{Text: text, Tags: shared})
		}
	}
	return collisions
}
