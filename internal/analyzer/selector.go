package analyzer

import (
	"strings"

	"github.com/maltedev/selector-discovery/internal/dom"
)

// SynthesizeSelector builds a short, descriptive CSS path for el relative to
// scope. The walk goes upward, emitting the tag name plus up to the first two
// class tokens per node. An id ends the walk immediately since it scopes the
// path on its own. The path never crosses above scope (or the document body)
// and never exceeds maxDepth segments. Uniqueness is not verified here.
func SynthesizeSelector(el dom.Element, scope dom.Element, maxDepth int) string {
	if el == nil {
		return ""
	}
	if maxDepth <= 0 {
		maxDepth = 4
	}

	var path []string
	for current := el; current != nil; current = current.Parent() {
		if scope != nil && current.Same(scope) {
			break
		}
		tag := strings.ToLower(current.Tag())
		if tag == "body" || tag == "html" {
			break
		}

		if id := current.ID(); id != "" {
			path = append([]string{"#" + id}, path...)
			break
		}

		segment := tag
		if classes := current.Classes(); len(classes) > 0 {
			if len(classes) > 2 {
				classes = classes[:2]
			}
			segment += "." + strings.Join(classes, ".")
		}

		path = append([]string{segment}, path...)
		if len(path) >= maxDepth {
			break
		}
	}

	return strings.Join(path, " > ")
}
