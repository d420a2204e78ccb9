package analyzer

// Config carries every engine knob with documented defaults. Zero values are
// filled in field by field, so callers only set what they want to override.
type Config struct {
	Container ContainerConfig
	Title     TitleConfig
	Image     ImageConfig
	Price     PriceConfig

	Catalog *Catalog

	// MaxPathDepth bounds the number of segments in a synthesized CSS path.
	MaxPathDepth int
}

type ContainerConfig struct {
	MinConfidence float64
	MinChildren   int
	MaxChildren   int
	MinWidth      float64
	MaxWidth      float64
	MinHeight     float64
	MaxHeight     float64
	// SampleSize caps the ranked candidate list.
	SampleSize int
	// MinMatches is the markup-mode match-count threshold: a catalog
	// fragment must match more than this many elements to be accepted.
	MinMatches int
}

type TitleConfig struct {
	MinConfidence    float64
	MinTextLength    int
	MaxTextLength    int
	OptimalMinLength int
	OptimalMaxLength int
	HeadingTags      []string
	TitleClasses     []string
	SampleSize       int
}

type ImageConfig struct {
	MinConfidence float64
	MinWidth      float64
	MinHeight     float64
	MaxWidth      float64
	MaxHeight     float64
	ImageClasses  []string
	SampleSize    int
}

type PriceConfig struct {
	MinConfidence float64
	PriceClasses  []string
	SampleSize    int
}

func DefaultConfig() Config {
	return Config{
		Container:    DefaultContainerConfig(),
		Title:        DefaultTitleConfig(),
		Image:        DefaultImageConfig(),
		Price:        DefaultPriceConfig(),
		Catalog:      DefaultCatalog(),
		MaxPathDepth: 4,
	}
}

func DefaultContainerConfig() ContainerConfig {
	return ContainerConfig{
		MinConfidence: 0.6,
		MinChildren:   3,
		MaxChildren:   20,
		MinWidth:      100,
		MaxWidth:      800,
		MinHeight:     100,
		MaxHeight:     1000,
		SampleSize:    10,
		MinMatches:    2,
	}
}

func DefaultTitleConfig() TitleConfig {
	return TitleConfig{
		MinConfidence:    0.5,
		MinTextLength:    5,
		MaxTextLength:    200,
		OptimalMinLength: 20,
		OptimalMaxLength: 80,
		HeadingTags:      []string{"h1", "h2", "h3", "h4", "h5", "h6"},
		TitleClasses:     []string{"title", "name", "product-title", "product-name", "heading"},
		SampleSize:       10,
	}
}

func DefaultImageConfig() ImageConfig {
	return ImageConfig{
		MinConfidence: 0.5,
		MinWidth:      50,
		MinHeight:     50,
		MaxWidth:      1200,
		MaxHeight:     1200,
		ImageClasses:  []string{"product-image", "product-img", "item-image", "thumb", "thumbnail"},
		SampleSize:    10,
	}
}

func DefaultPriceConfig() PriceConfig {
	return PriceConfig{
		MinConfidence: 0.5,
		PriceClasses: []string{
			"price", "cost", "amount", "value", "sale", "discount",
			"original", "regular", "special", "offer", "deal",
		},
		SampleSize: 10,
	}
}

// normalize fills zero-valued fields with defaults so partial overrides work.
func (c Config) normalize() Config {
	def := DefaultConfig()

	if c.Catalog == nil {
		c.Catalog = def.Catalog
	}
	if c.MaxPathDepth <= 0 {
		c.MaxPathDepth = def.MaxPathDepth
	}

	if c.Container.MinConfidence == 0 {
		c.Container.MinConfidence = def.Container.MinConfidence
	}
	if c.Container.MinChildren == 0 {
		c.Container.MinChildren = def.Container.MinChildren
	}
	if c.Container.MaxChildren == 0 {
		c.Container.MaxChildren = def.Container.MaxChildren
	}
	if c.Container.MinWidth == 0 {
		c.Container.MinWidth = def.Container.MinWidth
	}
	if c.Container.MaxWidth == 0 {
		c.Container.MaxWidth = def.Container.MaxWidth
	}
	if c.Container.MinHeight == 0 {
		c.Container.MinHeight = def.Container.MinHeight
	}
	if c.Container.MaxHeight == 0 {
		c.Container.MaxHeight = def.Container.MaxHeight
	}
	if c.Container.SampleSize == 0 {
		c.Container.SampleSize = def.Container.SampleSize
	}
	if c.Container.MinMatches == 0 {
		c.Container.MinMatches = def.Container.MinMatches
	}

	if c.Title.MinConfidence == 0 {
		c.Title.MinConfidence = def.Title.MinConfidence
	}
	if c.Title.MinTextLength == 0 {
		c.Title.MinTextLength = def.Title.MinTextLength
	}
	if c.Title.MaxTextLength == 0 {
		c.Title.MaxTextLength = def.Title.MaxTextLength
	}
	if c.Title.OptimalMinLength == 0 {
		c.Title.OptimalMinLength = def.Title.OptimalMinLength
	}
	if c.Title.OptimalMaxLength == 0 {
		c.Title.OptimalMaxLength = def.Title.OptimalMaxLength
	}
	if len(c.Title.HeadingTags) == 0 {
		c.Title.HeadingTags = def.Title.HeadingTags
	}
	if len(c.Title.TitleClasses) == 0 {
		c.Title.TitleClasses = def.Title.TitleClasses
	}
	if c.Title.SampleSize == 0 {
		c.Title.SampleSize = def.Title.SampleSize
	}

	if c.Image.MinConfidence == 0 {
		c.Image.MinConfidence = def.Image.MinConfidence
	}
	if c.Image.MinWidth == 0 {
		c.Image.MinWidth = def.Image.MinWidth
	}
	if c.Image.MinHeight == 0 {
		c.Image.MinHeight = def.Image.MinHeight
	}
	if c.Image.MaxWidth == 0 {
		c.Image.MaxWidth = def.Image.MaxWidth
	}
	if c.Image.MaxHeight == 0 {
		c.Image.MaxHeight = def.Image.MaxHeight
	}
	if len(c.Image.ImageClasses) == 0 {
		c.Image.ImageClasses = def.Image.ImageClasses
	}
	if c.Image.SampleSize == 0 {
		c.Image.SampleSize = def.Image.SampleSize
	}

	if c.Price.MinConfidence == 0 {
		c.Price.MinConfidence = def.Price.MinConfidence
	}
	if len(c.Price.PriceClasses) == 0 {
		c.Price.PriceClasses = def.Price.PriceClasses
	}
	if c.Price.SampleSize == 0 {
		c.Price.SampleSize = def.Price.SampleSize
	}

	return c
}
