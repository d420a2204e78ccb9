package analyzer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/selector-discovery/internal/dom"
)

var ErrEmptyMarkup = errors.New("markup is empty")

// Analyzer infers product-listing selectors from page markup. It is
// stateless between calls; concurrent use is safe.
type Analyzer struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		cfg:    cfg.normalize(),
		logger: logger.With("component", "analyzer"),
	}
}

// AnalyzeMarkup runs the catalog-driven engine over raw markup: per role,
// the first catalog fragment with enough matches wins and its weight becomes
// the confidence.
func (a *Analyzer) AnalyzeMarkup(markup string) (*Report, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, ErrEmptyMarkup
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	report := newReport()
	report.add(RoleContainer, a.markupContainers(doc))
	report.add(RoleTitle, a.markupTitles(doc))
	report.add(RolePrice, a.markupPrices(doc))
	report.add(RoleImage, a.markupImages(doc))
	return report, nil
}

// AnalyzeTree runs the feature-scoring engine over a parsed tree. The
// resolver supplies geometry and computed style where the tree was rendered;
// with no layout information those checks are skipped and the remaining
// features still produce a normalized confidence.
func (a *Analyzer) AnalyzeTree(root dom.Element, res dom.StyleResolver) (*Report, error) {
	if root == nil {
		return nil, errors.New("root element is nil")
	}
	if res == nil {
		res = dom.NoLayout{}
	}

	report := newReport()

	containers := a.treeContainers(root, res)
	report.add(RoleContainer, containerResult(containers, a.cfg))

	if len(containers) == 0 {
		// Without containers there is no scope to search the other
		// roles in: they were never evaluated, which is different
		// from having been evaluated without a confident match.
		report.Roles[RoleTitle] = StatusSkipped
		report.Roles[RolePrice] = StatusSkipped
		report.Roles[RoleImage] = StatusSkipped
		return report, nil
	}

	scopes := containerElements(containers, a.cfg.Title.SampleSize)
	report.add(RoleTitle, a.treeTitles(scopes, res))
	report.add(RolePrice, a.treePrices(scopes, res))
	report.add(RoleImage, a.treeImages(scopes, res))
	return report, nil
}

func containerElements(candidates []*Candidate, limit int) []dom.Element {
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	elements := make([]dom.Element, 0, len(candidates))
	for _, c := range candidates {
		elements = append(elements, c.Element)
	}
	return elements
}
