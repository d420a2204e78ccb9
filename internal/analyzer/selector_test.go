package analyzer

import (
	"strings"
	"testing"

	"github.com/maltedev/selector-discovery/internal/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findOne(t *testing.T, root dom.Element, selector string) dom.Element {
	t.Helper()
	matches, err := root.Find(selector)
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no match for %s", selector)
	return matches[0]
}

func TestSynthesizeSelector(t *testing.T) {
	markup := `<html><body>
		<div class="grid wide extra">
			<div class="product-card featured sale">
				<div class="info">
					<h2 class="product-title main">Wool Sweater</h2>
				</div>
			</div>
		</div>
	</body></html>`

	root, err := dom.Parse(markup)
	require.NoError(t, err)

	card := findOne(t, root, ".product-card")
	title := findOne(t, root, "h2")

	t.Run("path relative to scoping ancestor", func(t *testing.T) {
		selector := SynthesizeSelector(title, card, 4)
		assert.Equal(t, "div.info > h2.product-title.main", selector)
	})

	t.Run("never crosses above the scope", func(t *testing.T) {
		selector := SynthesizeSelector(title, card, 10)
		assert.NotContains(t, selector, "product-card")
		assert.NotContains(t, selector, "grid")
	})

	t.Run("at most two class tokens per segment", func(t *testing.T) {
		selector := SynthesizeSelector(card, nil, 4)
		assert.Contains(t, selector, "div.product-card.featured")
		assert.NotContains(t, selector, "sale")
	})

	t.Run("max depth bounds the segment count", func(t *testing.T) {
		selector := SynthesizeSelector(title, nil, 2)
		segments := strings.Split(selector, " > ")
		assert.LessOrEqual(t, len(segments), 2)
	})

	t.Run("stops at body without a scope", func(t *testing.T) {
		selector := SynthesizeSelector(title, nil, 10)
		assert.NotContains(t, selector, "body")
		assert.NotContains(t, selector, "html")
	})

	t.Run("nil element yields empty path", func(t *testing.T) {
		assert.Equal(t, "", SynthesizeSelector(nil, nil, 4))
	})
}

func TestSynthesizeSelectorIDTerminatesWalk(t *testing.T) {
	markup := `<html><body>
		<section class="shop">
			<div id="listing" class="row">
				<span class="price">$9.99</span>
			</div>
		</section>
	</body></html>`

	root, err := dom.Parse(markup)
	require.NoError(t, err)

	price := findOne(t, root, ".price")
	selector := SynthesizeSelector(price, nil, 10)

	assert.Equal(t, "#listing > span.price", selector)
}
