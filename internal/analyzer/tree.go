package analyzer

import (
	"fmt"
	"strings"

	"github.com/maltedev/selector-discovery/internal/dom"
)

// treeContainers gathers container candidates from the catalog selectors
// unioned with a broad structural scan, scores them, and returns the ranked
// list above the confidence threshold.
func (a *Analyzer) treeContainers(root dom.Element, res dom.StyleResolver) []*Candidate {
	var gathered []dom.Element

	for _, entry := range a.cfg.Catalog.Container {
		matches, err := root.Find(entry.Fragment)
		if err != nil {
			a.logger.Warn("skipping invalid catalog fragment", "fragment", entry.Fragment, "error", err)
			continue
		}
		gathered = appendUnique(gathered, matches)
	}

	broad, err := root.Find("div, article, li, section")
	if err == nil {
		gathered = appendUnique(gathered, broad)
	}

	var candidates []*Candidate
	for _, el := range gathered {
		c := scoreContainer(el, res, a.cfg.Container)
		if c.NormalizedScore() < a.cfg.Container.MinConfidence {
			continue
		}
		c.Selector = SynthesizeSelector(el, nil, a.cfg.MaxPathDepth)
		candidates = append(candidates, c)
	}

	sortCandidates(candidates)
	if len(candidates) > a.cfg.Container.SampleSize {
		candidates = candidates[:a.cfg.Container.SampleSize]
	}
	return candidates
}

func containerResult(candidates []*Candidate, cfg Config) *PatternResult {
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	examples := make([]string, 0, 3)
	for _, c := range candidates {
		if len(examples) == 3 {
			break
		}
		if class := strings.Join(c.Element.Classes(), " "); class != "" {
			examples = append(examples, class)
		}
	}

	return &PatternResult{
		Type:        RoleContainer,
		Value:       best.Selector,
		Confidence:  best.NormalizedScore(),
		Description: fmt.Sprintf("Product container scored on %d structural features", len(best.Features)),
		Examples:    examples,
	}
}

func (a *Analyzer) treeTitles(containers []dom.Element, res dom.StyleResolver) *PatternResult {
	cfg := a.cfg.Title
	var candidates []*Candidate

	for _, container := range containers {
		for _, tag := range cfg.HeadingTags {
			matches, err := container.Find(tag)
			if err != nil {
				continue
			}
			for _, el := range matches {
				if len(el.Text()) < cfg.MinTextLength {
					continue
				}
				c := scoreTitle(el, container, res, cfg)
				if c.NormalizedScore() < cfg.MinConfidence {
					continue
				}
				c.Selector = SynthesizeSelector(el, container, a.cfg.MaxPathDepth)
				candidates = append(candidates, c)
			}
		}
	}

	sortCandidates(candidates)
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	examples := make([]string, 0, 3)
	for _, c := range candidates {
		if len(examples) == 3 {
			break
		}
		examples = append(examples, c.Text)
	}

	return &PatternResult{
		Type:        RoleTitle,
		Value:       best.Selector,
		Confidence:  best.NormalizedScore(),
		Description: fmt.Sprintf("%s heading tag with title-related content", strings.ToUpper(best.Element.Tag())),
		Examples:    examples,
	}
}

func (a *Analyzer) treeImages(containers []dom.Element, res dom.StyleResolver) *PatternResult {
	cfg := a.cfg.Image
	var candidates []*Candidate

	for _, container := range containers {
		matches, err := container.Find("img")
		if err != nil {
			continue
		}
		for _, img := range matches {
			c := scoreImage(img, container, res, cfg)
			if c.NormalizedScore() < cfg.MinConfidence {
				continue
			}
			c.Selector = SynthesizeSelector(img, container, a.cfg.MaxPathDepth)
			candidates = append(candidates, c)
		}
	}

	sortCandidates(candidates)
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	examples := make([]string, 0, 3)
	for _, c := range candidates {
		if len(examples) == 3 {
			break
		}
		if alt, _ := c.Element.Attr("alt"); alt != "" {
			examples = append(examples, alt)
		} else if class := strings.Join(c.Element.Classes(), " "); class != "" {
			examples = append(examples, class)
		}
	}

	return &PatternResult{
		Type:        RoleImage,
		Value:       best.Selector,
		Confidence:  best.NormalizedScore(),
		Description: "IMG element with product image characteristics",
		Examples:    examples,
	}
}

func (a *Analyzer) treePrices(containers []dom.Element, res dom.StyleResolver) *PatternResult {
	cfg := a.cfg.Price
	var candidates []*Candidate

	for _, container := range containers {
		for _, keyword := range cfg.PriceClasses {
			matches, err := container.Find(fmt.Sprintf(`[class*=%q]`, keyword))
			if err != nil {
				continue
			}
			for _, el := range matches {
				price := ParsePrice(el.Text())
				if price == nil {
					continue
				}
				c := scorePrice(el, container, res, cfg, price)
				if c.NormalizedScore() < cfg.MinConfidence {
					continue
				}
				c.Selector = SynthesizeSelector(el, container, a.cfg.MaxPathDepth)
				candidates = append(candidates, c)
			}
		}
	}

	sortCandidates(candidates)
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	examples := make([]string, 0, 3)
	for _, c := range candidates {
		if len(examples) == 3 {
			break
		}
		examples = append(examples, c.Price.Formatted)
	}

	return &PatternResult{
		Type:        RolePrice,
		Value:       best.Selector,
		Confidence:  best.NormalizedScore(),
		Description: fmt.Sprintf("Price element with parseable amount, %d candidates", len(candidates)),
		Examples:    examples,
	}
}

func appendUnique(existing []dom.Element, more []dom.Element) []dom.Element {
	for _, el := range more {
		found := false
		for _, have := range existing {
			if have.Same(el) {
				found = true
				break
			}
		}
		if !found {
			existing = append(existing, el)
		}
	}
	return existing
}
