package analyzer

import (
	"testing"

	"github.com/maltedev/selector-discovery/internal/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizedScoreBounds(t *testing.T) {
	t.Run("zero max score yields zero", func(t *testing.T) {
		c := &Candidate{RawScore: 0, MaxScore: 0}
		assert.Equal(t, 0.0, c.NormalizedScore())
	})

	t.Run("score stays within unit interval", func(t *testing.T) {
		markup := `<html><body>
			<div class="product-card" data-render-box="0 0 300 400">
				<img src="/a.jpg" alt="thing">
				<h2 class="title">A decent product title here</h2>
				<span class="price">$10.00</span>
				<a href="/x">buy</a>
			</div>
			<div class="unrelated"></div>
		</body></html>`

		root, err := dom.Parse(markup)
		require.NoError(t, err)

		elements, err := root.Find("div")
		require.NoError(t, err)

		for _, el := range elements {
			c := scoreContainer(el, dom.AttrResolver{}, DefaultContainerConfig())
			score := c.NormalizedScore()
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
			assert.LessOrEqual(t, c.RawScore, c.MaxScore)
		}
	})
}

func TestScoreContainerFeatures(t *testing.T) {
	markup := `<html><body>
		<div class="product-card" data-product-id="77" data-render-box="0 0 300 400">
			<img src="/shoe.jpg" alt="shoe">
			<h2 class="product-title">Classic blue running shoe</h2>
			<span class="price">$24.99</span>
			<a href="/p/1">view</a>
		</div>
	</body></html>`

	root, err := dom.Parse(markup)
	require.NoError(t, err)

	card := findOne(t, root, ".product-card")
	c := scoreContainer(card, dom.AttrResolver{}, DefaultContainerConfig())

	assert.True(t, c.Features["hasProductClass"])
	assert.True(t, c.Features["hasContainerClass"])
	assert.True(t, c.Features["hasProductDataAttr"])
	assert.True(t, c.Features["hasImage"])
	assert.True(t, c.Features["hasPrice"])
	assert.True(t, c.Features["hasTitle"])
	assert.True(t, c.Features["hasLinks"])
	assert.True(t, c.Features["hasAppropriateStructure"])
	assert.True(t, c.Features["hasReasonableDimensions"])
	assert.Equal(t, 90, c.RawScore)
	assert.Equal(t, 120, c.MaxScore)
	assert.InDelta(t, 0.75, c.NormalizedScore(), 1e-9)
}

func TestScoreContainerWithoutLayout(t *testing.T) {
	markup := `<html><body>
		<div class="product-card">
			<img src="/shoe.jpg" alt="shoe">
			<h2 class="product-title">Classic blue running shoe</h2>
			<span class="price">$24.99</span>
			<a href="/p/1">view</a>
		</div>
	</body></html>`

	root, err := dom.Parse(markup)
	require.NoError(t, err)

	card := findOne(t, root, ".product-card")

	withLayout := scoreContainer(card, dom.AttrResolver{}, DefaultContainerConfig())
	withoutLayout := scoreContainer(card, dom.NoLayout{}, DefaultContainerConfig())

	// No annotations present, so both resolvers skip the geometry check
	// and the denominators agree.
	assert.Equal(t, withoutLayout.MaxScore, withLayout.MaxScore)
	assert.False(t, withoutLayout.Features["hasReasonableDimensions"])
}

func TestScorePriceStrikethrough(t *testing.T) {
	markup := `<html><body>
		<div class="product-card">
			<span class="price original" data-render-style="text-decoration:line-through">$39.99</span>
			<span class="price">$24.99</span>
		</div>
	</body></html>`

	root, err := dom.Parse(markup)
	require.NoError(t, err)

	card := findOne(t, root, ".product-card")
	prices, err := card.Find(".price")
	require.NoError(t, err)
	require.Len(t, prices, 2)

	cfg := DefaultPriceConfig()
	res := dom.AttrResolver{}

	original := scorePrice(prices[0], card, res, cfg, ParsePrice(prices[0].Text()))
	current := scorePrice(prices[1], card, res, cfg, ParsePrice(prices[1].Text()))

	assert.True(t, original.Features["isStrikethrough"])
	assert.False(t, current.Features["isStrikethrough"])
}

func TestSortCandidatesStable(t *testing.T) {
	a := &Candidate{RawScore: 50, MaxScore: 100, Text: "first"}
	b := &Candidate{RawScore: 50, MaxScore: 100, Text: "second"}
	c := &Candidate{RawScore: 90, MaxScore: 100, Text: "third"}
	d := &Candidate{RawScore: 45, MaxScore: 90, Text: "fourth"} // same ratio as a/b, lower raw

	candidates := []*Candidate{a, b, c, d}
	sortCandidates(candidates)

	assert.Equal(t, "third", candidates[0].Text)
	assert.Equal(t, "first", candidates[1].Text)
	assert.Equal(t, "second", candidates[2].Text)
	assert.Equal(t, "fourth", candidates[3].Text)
}

func TestSortCandidatesDeterministic(t *testing.T) {
	build := func() []*Candidate {
		return []*Candidate{
			{RawScore: 10, MaxScore: 100, Text: "a"},
			{RawScore: 80, MaxScore: 100, Text: "b"},
			{RawScore: 40, MaxScore: 100, Text: "c"},
			{RawScore: 80, MaxScore: 100, Text: "d"},
		}
	}

	first := build()
	sortCandidates(first)

	for i := 0; i < 10; i++ {
		next := build()
		sortCandidates(next)
		for j := range first {
			assert.Equal(t, first[j].Text, next[j].Text)
		}
	}
}
