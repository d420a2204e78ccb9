package dom

import (
	"strconv"
	"strings"
)

const (
	boxAttr   = "data-render-box"
	styleAttr = "data-render-style"
)

// AttrResolver recovers layout information from annotations the rendering
// fetcher writes into the DOM before the markup is captured. The box
// annotation holds "top left width height"; the style annotation holds a
// semicolon-separated property list, e.g. "font-size:14px;text-decoration:line-through".
type AttrResolver struct{}

func (AttrResolver) BoundingBox(el Element) (Box, bool) {
	raw, ok := el.Attr(boxAttr)
	if !ok {
		return Box{}, false
	}

	parts := strings.Fields(raw)
	if len(parts) != 4 {
		return Box{}, false
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Box{}, false
		}
		vals[i] = v
	}

	return Box{Top: vals[0], Left: vals[1], Width: vals[2], Height: vals[3]}, true
}

func (AttrResolver) Style(el Element, property string) (string, bool) {
	raw, ok := el.Attr(styleAttr)
	if !ok {
		return "", false
	}

	for _, decl := range strings.Split(raw, ";") {
		name, value, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		if strings.TrimSpace(name) == property {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}
