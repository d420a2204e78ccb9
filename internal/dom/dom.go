package dom

// Box is a rendered bounding box in CSS pixels.
type Box struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

type Attribute struct {
	Key   string
	Value string
}

// Element is the traversal surface the analyzer depends on. Implementations
// wrap whatever tree representation is available; the analyzer never touches
// a concrete node type directly.
type Element interface {
	Tag() string
	ID() string
	Classes() []string
	Attr(name string) (string, bool)
	Attributes() []Attribute
	// Text returns the element's text content with whitespace collapsed.
	Text() string
	// Parent returns nil at the document root.
	Parent() Element
	Children() []Element
	// Find runs a CSS selector over the element's subtree. Invalid
	// selectors return an error instead of panicking so a bad catalog
	// fragment can be skipped.
	Find(selector string) ([]Element, error)
	Same(other Element) bool
}

// StyleResolver supplies layout and computed-style information for trees
// that were rendered. Trees parsed from raw markup have neither; resolvers
// report availability through the second return value.
type StyleResolver interface {
	BoundingBox(el Element) (Box, bool)
	Style(el Element, property string) (string, bool)
}

// NoLayout is the resolver for markup without render information. Every
// lookup misses, so geometry-dependent feature checks are skipped.
type NoLayout struct{}

func (NoLayout) BoundingBox(Element) (Box, bool)      { return Box{}, false }
func (NoLayout) Style(Element, string) (string, bool) { return "", false }
