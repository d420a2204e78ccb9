package analyzer

// CatalogEntry pairs a CSS selector fragment with the confidence assigned
// when that fragment is the one that matches. Order encodes precedence:
// earlier entries are stronger, more specific signals.
type CatalogEntry struct {
	Fragment string
	Weight   float64
}

// Catalog holds the per-role selector patterns, covering common framework
// conventions plus Turkish, French and Spanish keyword variants.
type Catalog struct {
	Container []CatalogEntry
	Title     []CatalogEntry
	Price     []CatalogEntry
	Image     []CatalogEntry
}

func DefaultCatalog() *Catalog {
	return &Catalog{
		Container: []CatalogEntry{
			{`[class*="product-card"]`, 0.95},
			{`[class*="product-item"]`, 0.93},
			{`[class*="product"][class*="container"]`, 0.90},
			{`[data-product]`, 0.88},
			{`[class*="item-card"]`, 0.85},
			{`[class*="urun"]`, 0.85},
			{`[class*="produit"]`, 0.85},
			{`[class*="producto"]`, 0.85},
			{`article[class*="product"]`, 0.82},
			{`li[class*="product"]`, 0.80},
			{`[class*="product"]`, 0.80},
			{`div[class*="card"]`, 0.75},
			{`div[class*="item"]`, 0.70},
		},
		Title: []CatalogEntry{
			{`[class*="product-title"]`, 0.95},
			{`[class*="product-name"]`, 0.93},
			{`h2[class*="product"]`, 0.90},
			{`h3[class*="product"]`, 0.88},
			{`h2[class*="title"]`, 0.85},
			{`a[class*="product-title"]`, 0.85},
			{`[class*="urun-adi"]`, 0.85},
			{`[class*="nom-produit"]`, 0.85},
			{`[class*="nombre-producto"]`, 0.85},
			{`h3[class*="title"]`, 0.83},
			{`[class*="title"][class*="product"]`, 0.82},
			{`h1, h2, h3, h4`, 0.60},
		},
		Price: []CatalogEntry{
			{`[class*="price"]`, 0.95},
			{`[class*="product-price"]`, 0.93},
			{`[data-price]`, 0.90},
			{`span[class*="price"]`, 0.88},
			{`div[class*="price"]`, 0.85},
			{`[class*="fiyat"]`, 0.85},
			{`[class*="prix"]`, 0.85},
			{`[class*="precio"]`, 0.85},
			{`[class*="cost"]`, 0.80},
			{`[class*="amount"]`, 0.75},
		},
		Image: []CatalogEntry{
			{`img[class*="product-image"]`, 0.95},
			{`img[class*="product-img"]`, 0.93},
			{`img[class*="product"]`, 0.90},
			{`img[alt*="product"]`, 0.88},
			{`img[src*="product"]`, 0.85},
			{`img[class*="urun-resim"]`, 0.85},
			{`img[class*="image-produit"]`, 0.85},
			{`img[class*="imagen-producto"]`, 0.85},
			{`img[class*="item-image"]`, 0.83},
			{`img[class*="thumbnail"]`, 0.80},
			{`img`, 0.50},
		},
	}
}

// ForRole returns the catalog entries for a role.
func (c *Catalog) ForRole(role Role) []CatalogEntry {
	switch role {
	case RoleContainer:
		return c.Container
	case RoleTitle:
		return c.Title
	case RolePrice:
		return c.Price
	case RoleImage:
		return c.Image
	default:
		return nil
	}
}
