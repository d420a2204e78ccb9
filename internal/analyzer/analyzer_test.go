package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/maltedev/selector-discovery/internal/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingMarkup() string {
	var b strings.Builder
	b.WriteString("<html><body><div class=\"products\">")
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&b, `
		<div class="product-card" data-render-box="0 %d0 300 400">
			<img class="product-image" src="/img/shoe%d.jpg" alt="Running shoe %d" data-render-box="0 %d0 200 200">
			<h2 class="product-title">Classic Running Shoe No %d</h2>
			<span class="price">$24.99</span>
			<a href="/p/%d">View</a>
		</div>`, i, i, i, i, i, i)
	}
	b.WriteString("</div></body></html>")
	return b.String()
}

func TestAnalyzeMarkupListing(t *testing.T) {
	a := New(Config{}, nil)

	report, err := a.AnalyzeMarkup(listingMarkup())
	require.NoError(t, err)
	require.Len(t, report.Results, 4)

	byRole := make(map[Role]PatternResult)
	for _, r := range report.Results {
		byRole[r.Type] = r
	}

	container := byRole[RoleContainer]
	assert.Equal(t, `[class*="product-card"]`, container.Value)
	assert.GreaterOrEqual(t, container.Confidence, 0.9)
	assert.Contains(t, container.Description, "3 elements")
	assert.Len(t, container.Examples, 3)

	title := byRole[RoleTitle]
	assert.Equal(t, `[class*="product-title"]`, title.Value)
	assert.Contains(t, title.Examples[0], "Classic Running Shoe")

	price := byRole[RolePrice]
	require.NotEmpty(t, price.Examples)
	parsed := ParsePrice(price.Examples[0])
	require.NotNil(t, parsed)
	assert.Equal(t, 24.99, parsed.Value)

	image := byRole[RoleImage]
	assert.Equal(t, `img[class*="product-image"]`, image.Value)

	for _, role := range Roles {
		assert.Equal(t, StatusMatched, report.Roles[role])
	}
}

func TestAnalyzeMarkupNoMatches(t *testing.T) {
	a := New(Config{}, nil)

	report, err := a.AnalyzeMarkup(`<html><body><p>Just an article about shoes.</p></body></html>`)
	require.NoError(t, err)
	assert.Empty(t, report.Results)

	for _, role := range Roles {
		assert.Equal(t, StatusNoConfidentMatch, report.Roles[role],
			"role %s was evaluated and found nothing", role)
	}
}

func TestAnalyzeMarkupEmptyInput(t *testing.T) {
	a := New(Config{}, nil)

	_, err := a.AnalyzeMarkup("   ")
	assert.ErrorIs(t, err, ErrEmptyMarkup)
}

func TestAnalyzeMarkupDeterministic(t *testing.T) {
	a := New(Config{}, nil)
	markup := listingMarkup()

	first, err := a.AnalyzeMarkup(markup)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		next, err := a.AnalyzeMarkup(markup)
		require.NoError(t, err)
		assert.Equal(t, first, next)
	}
}

func TestAnalyzeMarkupSkipsInvalidFragment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Catalog = &Catalog{
		Container: append([]CatalogEntry{{Fragment: `[class=`, Weight: 0.99}}, DefaultCatalog().Container...),
		Title:     DefaultCatalog().Title,
		Price:     DefaultCatalog().Price,
		Image:     DefaultCatalog().Image,
	}
	a := New(cfg, nil)

	report, err := a.AnalyzeMarkup(listingMarkup())
	require.NoError(t, err)

	byRole := make(map[Role]PatternResult)
	for _, r := range report.Results {
		byRole[r.Type] = r
	}
	assert.Equal(t, `[class*="product-card"]`, byRole[RoleContainer].Value)
}

func TestAnalyzeTreeListing(t *testing.T) {
	root, err := dom.Parse(listingMarkup())
	require.NoError(t, err)

	a := New(Config{}, nil)
	report, err := a.AnalyzeTree(root, dom.AttrResolver{})
	require.NoError(t, err)
	require.Len(t, report.Results, 4)

	byRole := make(map[Role]PatternResult)
	for _, r := range report.Results {
		byRole[r.Type] = r
		assert.GreaterOrEqual(t, r.Confidence, 0.0)
		assert.LessOrEqual(t, r.Confidence, 1.0)
	}

	assert.Contains(t, byRole[RoleContainer].Value, "product-card")
	assert.Equal(t, "h2.product-title", byRole[RoleTitle].Value)
	assert.Contains(t, byRole[RoleTitle].Description, "H2")
	assert.Equal(t, "span.price", byRole[RolePrice].Value)
	assert.Contains(t, byRole[RoleImage].Value, "img.product-image")
}

func TestAnalyzeTreeNoContainersSkipsOtherRoles(t *testing.T) {
	root, err := dom.Parse(`<html><body><p>No products at all.</p></body></html>`)
	require.NoError(t, err)

	a := New(Config{}, nil)
	report, err := a.AnalyzeTree(root, dom.NoLayout{})
	require.NoError(t, err)

	assert.Empty(t, report.Results)
	assert.Equal(t, StatusNoConfidentMatch, report.Roles[RoleContainer])
	assert.Equal(t, StatusSkipped, report.Roles[RoleTitle])
	assert.Equal(t, StatusSkipped, report.Roles[RolePrice])
	assert.Equal(t, StatusSkipped, report.Roles[RoleImage])
}

func TestAnalyzeTreeNilRoot(t *testing.T) {
	a := New(Config{}, nil)
	_, err := a.AnalyzeTree(nil, nil)
	assert.Error(t, err)
}
