package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/maltedev/selector-discovery/internal/dom"
)

// priceTextPattern matches price-like text across the supported currency
// formats, used as a structural signal when scoring containers.
var priceTextPattern = regexp.MustCompile(`\$\s*\d+(?:\.\d{2})?|\d+(?:[.,]\d{2})?\s*(?:TL|EUR|USD|GBP|₺|€|£)|\d+(?:,\d{3})*\.\d{2}`)

// scoreContainer evaluates the container-role feature checklist. Geometry
// checks contribute only when the resolver can supply a bounding box.
func scoreContainer(el dom.Element, res dom.StyleResolver, cfg ContainerConfig) *Candidate {
	c := &Candidate{Element: el, Features: make(map[string]bool)}

	classes := classText(el)
	id := strings.ToLower(el.ID())

	c.MaxScore += 20
	if strings.Contains(classes, "product") || strings.Contains(id, "product") {
		c.RawScore += 15
		c.Features["hasProductClass"] = true
	}
	if strings.Contains(classes, "item") || strings.Contains(classes, "card") {
		c.RawScore += 5
		c.Features["hasContainerClass"] = true
	}

	c.MaxScore += 15
	for _, attr := range el.Attributes() {
		if strings.HasPrefix(attr.Key, "data-") && strings.Contains(strings.ToLower(attr.Key), "product") {
			c.RawScore += 10
			c.Features["hasProductDataAttr"] = true
			break
		}
	}

	c.MaxScore += 20
	if hasDescendant(el, "img") {
		c.RawScore += 15
		c.Features["hasImage"] = true
	}

	c.MaxScore += 20
	if priceTextPattern.MatchString(el.Text()) {
		c.RawScore += 15
		c.Features["hasPrice"] = true
	}

	c.MaxScore += 15
	if hasDescendant(el, `h1, h2, h3, h4, [class*="title"], [class*="name"]`) {
		c.RawScore += 10
		c.Features["hasTitle"] = true
	}

	c.MaxScore += 10
	if hasDescendant(el, "a[href]") {
		c.RawScore += 5
		c.Features["hasLinks"] = true
	}

	c.MaxScore += 10
	childCount := len(el.Children())
	if childCount >= cfg.MinChildren && childCount <= cfg.MaxChildren {
		c.RawScore += 5
		c.Features["hasAppropriateStructure"] = true
	}

	if box, ok := res.BoundingBox(el); ok {
		c.MaxScore += 10
		if box.Width > cfg.MinWidth && box.Width < cfg.MaxWidth &&
			box.Height > cfg.MinHeight && box.Height < cfg.MaxHeight {
			c.RawScore += 10
			c.Features["hasReasonableDimensions"] = true
		}
	}

	return c
}

func scoreTitle(el, container dom.Element, res dom.StyleResolver, cfg TitleConfig) *Candidate {
	c := &Candidate{Element: el, Features: make(map[string]bool)}

	tag := strings.ToLower(el.Tag())
	c.MaxScore += 25
	if containsString(cfg.HeadingTags, tag) {
		c.RawScore += 20
		c.Features["isHeading"] = true
		if tag == "h2" || tag == "h3" {
			c.RawScore += 5
			c.Features["isOptimalHeading"] = true
		}
	}

	classes := classText(el)
	c.MaxScore += 20
	for _, keyword := range cfg.TitleClasses {
		if strings.Contains(classes, keyword) {
			c.RawScore += 15
			c.Features["hasTitleClass"] = true
			break
		}
	}

	text := el.Text()
	c.Text = text
	c.MaxScore += 20
	if len(text) >= cfg.MinTextLength && len(text) <= cfg.MaxTextLength {
		c.RawScore += 10
		c.Features["hasAppropriateLength"] = true
		if len(text) >= cfg.OptimalMinLength && len(text) <= cfg.OptimalMaxLength {
			c.RawScore += 5
			c.Features["hasOptimalLength"] = true
		}
	}

	if pos, ok := relativePosition(el, container, res); ok {
		c.MaxScore += 15
		if pos <= 0.6 {
			c.RawScore += 10
			c.Features["isInUpperPortion"] = true
		}
	}

	if elSize, ok := fontSize(el, res); ok {
		if baseSize, ok := fontSize(container, res); ok && baseSize > 0 {
			c.MaxScore += 10
			if elSize >= baseSize*1.1 {
				c.RawScore += 5
				c.Features["hasLargerFont"] = true
			}
		}
	}

	return c
}

func scoreImage(img, container dom.Element, res dom.StyleResolver, cfg ImageConfig) *Candidate {
	c := &Candidate{Element: img, Features: make(map[string]bool)}

	classes := classText(img)

	c.MaxScore += 20
	if alt, _ := img.Attr("alt"); alt != "" {
		c.RawScore += 5
		c.Features["hasAlt"] = true
	}
	for _, keyword := range cfg.ImageClasses {
		if strings.Contains(classes, keyword) {
			c.RawScore += 10
			c.Features["hasImageClass"] = true
			break
		}
	}

	c.MaxScore += 15
	if src, _ := img.Attr("src"); src != "" && !strings.Contains(src, "placeholder") {
		c.RawScore += 5
		c.Features["hasValidSrc"] = true
	}

	if box, ok := res.BoundingBox(img); ok {
		c.MaxScore += 25
		if box.Width >= cfg.MinWidth && box.Height >= cfg.MinHeight &&
			box.Width <= cfg.MaxWidth && box.Height <= cfg.MaxHeight {
			c.RawScore += 15
			c.Features["hasAppropriateSize"] = true
			if box.Width >= 150 && box.Width <= 500 {
				c.RawScore += 5
				c.Features["hasOptimalSize"] = true
			}
		}
	}

	if pos, ok := relativePosition(img, container, res); ok {
		c.MaxScore += 20
		if pos <= 0.5 {
			c.RawScore += 10
			c.Features["isInUpperHalf"] = true
		}
	}

	c.MaxScore += 15
	if parent := img.Parent(); parent != nil {
		parentClasses := classText(parent)
		if strings.Contains(parentClasses, "image") || strings.Contains(parentClasses, "picture") {
			c.RawScore += 10
			c.Features["hasImageWrapper"] = true
		}
	}

	visibility, visOK := res.Style(img, "visibility")
	display, dispOK := res.Style(img, "display")
	if visOK || dispOK {
		c.MaxScore += 5
		if visibility != "hidden" && display != "none" {
			c.RawScore += 5
			c.Features["isVisible"] = true
		}
	}

	return c
}

func scorePrice(el, container dom.Element, res dom.StyleResolver, cfg PriceConfig, price *PricePoint) *Candidate {
	c := &Candidate{Element: el, Features: make(map[string]bool), Price: price}

	c.MaxScore += 30
	if price != nil {
		c.RawScore += 25
		c.Features["hasParsedPrice"] = true
		if price.Currency != "" {
			c.RawScore += 5
			c.Features["hasCurrency"] = true
		}
	}

	classes := classText(el)
	c.MaxScore += 20
	for _, keyword := range cfg.PriceClasses {
		if strings.Contains(classes, keyword) {
			c.RawScore += 15
			c.Features["hasPriceClass"] = true
			break
		}
	}

	if pos, ok := relativePosition(el, container, res); ok {
		c.MaxScore += 15
		if pos >= 0.4 && pos <= 0.9 {
			c.RawScore += 10
			c.Features["isInPriceBand"] = true
		}
	}

	c.MaxScore += 15
	tag := strings.ToLower(el.Tag())
	if tag == "span" || tag == "div" {
		c.RawScore += 10
		c.Features["hasPriceTag"] = true
	}

	if decoration, ok := res.Style(el, "text-decoration"); ok {
		c.MaxScore += 15
		if strings.Contains(decoration, "line-through") {
			c.RawScore += 15
			c.Features["isStrikethrough"] = true
		}
	}

	return c
}

func classText(el dom.Element) string {
	return strings.ToLower(strings.Join(el.Classes(), " "))
}

func hasDescendant(el dom.Element, selector string) bool {
	matches, err := el.Find(selector)
	return err == nil && len(matches) > 0
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// relativePosition returns how far down the container the element's top edge
// sits, in [0,1], when both boxes are available.
func relativePosition(el, container dom.Element, res dom.StyleResolver) (float64, bool) {
	elBox, ok := res.BoundingBox(el)
	if !ok {
		return 0, false
	}
	containerBox, ok := res.BoundingBox(container)
	if !ok || containerBox.Height <= 0 {
		return 0, false
	}
	return (elBox.Top - containerBox.Top) / containerBox.Height, true
}

func fontSize(el dom.Element, res dom.StyleResolver) (float64, bool) {
	raw, ok := res.Style(el, "font-size")
	if !ok {
		return 0, false
	}
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "px"))
	size, err := strconv.ParseFloat(raw, 64)
	if err != nil || size <= 0 {
		return 0, false
	}
	return size, true
}
