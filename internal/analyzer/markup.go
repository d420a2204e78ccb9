package analyzer

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// The markup engine iterates the catalog in precedence order and accepts the
// first fragment whose match count clears the role's threshold. It needs no
// layout information; the fragment's fixed weight becomes the confidence.

func (a *Analyzer) markupContainers(doc *goquery.Document) *PatternResult {
	for _, entry := range a.cfg.Catalog.Container {
		matches, ok := a.matchFragment(doc, entry.Fragment)
		if !ok || matches.Length() <= a.cfg.Container.MinMatches {
			continue
		}

		examples := make([]string, 0, 3)
		matches.Slice(0, min(3, matches.Length())).Each(func(_ int, s *goquery.Selection) {
			example := "product-container"
			if class, exists := s.Attr("class"); exists && class != "" {
				example = class
			} else if data, exists := s.Attr("data-product"); exists && data != "" {
				example = data
			}
			examples = append(examples, example)
		})

		return &PatternResult{
			Type:        RoleContainer,
			Value:       entry.Fragment,
			Confidence:  entry.Weight,
			Description: fmt.Sprintf("Product container selector matching %d elements", matches.Length()),
			Examples:    examples,
		}
	}
	return nil
}

func (a *Analyzer) markupTitles(doc *goquery.Document) *PatternResult {
	for _, entry := range a.cfg.Catalog.Title {
		matches, ok := a.matchFragment(doc, entry.Fragment)
		if !ok || matches.Length() == 0 {
			continue
		}

		examples := make([]string, 0, 3)
		matches.Slice(0, min(3, matches.Length())).Each(func(_ int, s *goquery.Selection) {
			text := truncate(strings.TrimSpace(s.Text()), 50)
			if len(text) > a.cfg.Title.MinTextLength {
				examples = append(examples, text)
			}
		})
		if len(examples) == 0 {
			continue
		}

		return &PatternResult{
			Type:        RoleTitle,
			Value:       entry.Fragment,
			Confidence:  entry.Weight,
			Description: fmt.Sprintf("Product title selector matching %d elements", matches.Length()),
			Examples:    examples,
		}
	}
	return nil
}

func (a *Analyzer) markupPrices(doc *goquery.Document) *PatternResult {
	for _, entry := range a.cfg.Catalog.Price {
		matches, ok := a.matchFragment(doc, entry.Fragment)
		if !ok || matches.Length() == 0 {
			continue
		}

		examples := make([]string, 0, 3)
		matches.Slice(0, min(3, matches.Length())).Each(func(_ int, s *goquery.Selection) {
			if price := ParsePrice(s.Text()); price != nil {
				examples = append(examples, price.OriginalText)
			}
		})
		if len(examples) == 0 {
			continue
		}

		return &PatternResult{
			Type:        RolePrice,
			Value:       entry.Fragment,
			Confidence:  entry.Weight,
			Description: fmt.Sprintf("Product price selector matching %d elements", matches.Length()),
			Examples:    examples,
		}
	}
	return nil
}

func (a *Analyzer) markupImages(doc *goquery.Document) *PatternResult {
	for _, entry := range a.cfg.Catalog.Image {
		matches, ok := a.matchFragment(doc, entry.Fragment)
		if !ok || matches.Length() == 0 {
			continue
		}

		examples := make([]string, 0, 3)
		matches.Slice(0, min(3, matches.Length())).Each(func(_ int, s *goquery.Selection) {
			example := "product-image"
			if alt, exists := s.Attr("alt"); exists && alt != "" {
				example = alt
			} else if class, exists := s.Attr("class"); exists && class != "" {
				example = class
			}
			examples = append(examples, example)
		})

		return &PatternResult{
			Type:        RoleImage,
			Value:       entry.Fragment,
			Confidence:  entry.Weight,
			Description: fmt.Sprintf("Product image selector matching %d elements", matches.Length()),
			Examples:    examples,
		}
	}
	return nil
}

// matchFragment compiles a catalog fragment and runs it over the document.
// Invalid fragments are logged and skipped rather than aborting the analysis.
func (a *Analyzer) matchFragment(doc *goquery.Document, fragment string) (*goquery.Selection, bool) {
	sel, err := cascadia.Compile(fragment)
	if err != nil {
		a.logger.Warn("skipping invalid catalog fragment", "fragment", fragment, "error", err)
		return nil, false
	}
	return doc.FindMatcher(sel), true
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
