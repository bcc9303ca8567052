// Package storefront holds the static content of the public home page.
package storefront

// Poster is the hero banner.
type Poster struct {
	Title     string
	Subtitle  string
	CTALabel  string
	CTALink   string
	ImagePath string
}

// Category is a tile in the categories grid.
type Category struct {
	Name      string
	Slug      string
	ImagePath string
}

// Link is where the tile leads.
func (c Category) Link() string {
	return "/shop?category=" + c.Slug
}

// Product is a featured product card.
type Product struct {
	ID        string
	Name      string
	Price     float64
	ImagePath string
}

// Link is the product detail page.
func (p Product) Link() string {
	return "/product/" + p.ID
}

// Feature is one selling point in the features strip.
type Feature struct {
	Icon  string
	Title string
	Text  string
}

// Newsletter is the signup block at the bottom of the page.
type Newsletter struct {
	Title       string
	Text        string
	Placeholder string
	ButtonLabel string
}

// SectionName identifies a home page block.
type SectionName string

const (
	SectionPoster     SectionName = "poster"
	SectionCategories SectionName = "categories"
	SectionFeatured   SectionName = "featured"
	SectionFeatures   SectionName = "features"
	SectionNewsletter SectionName = "newsletter"
)

// Home is everything the home page renders.
type Home struct {
	Sections   []SectionName
	Poster     Poster
	Categories []Category
	Featured   []Product
	Features   []Feature
	Newsletter Newsletter
}

// HomePage returns the page content. Sections are in render order.
func HomePage() Home {
	return Home{
		Sections: []SectionName{
			SectionPoster,
			SectionCategories,
			SectionFeatured,
			SectionFeatures,
			SectionNewsletter,
		},
		Poster: Poster{
			Title:     "Style that feels like you",
			Subtitle:  "New arrivals every week, delivered to your door.",
			CTALabel:  "Shop Now",
			CTALink:   "/shop",
			ImagePath: "/static/img/poster.jpg",
		},
		Categories: []Category{
			{Name: "Men", Slug: "men", ImagePath: "/static/img/cat-men.jpg"},
			{Name: "Women", Slug: "women", ImagePath: "/static/img/cat-women.jpg"},
			{Name: "Kids", Slug: "kids", ImagePath: "/static/img/cat-kids.jpg"},
			{Name: "Accessories", Slug: "accessories", ImagePath: "/static/img/cat-accessories.jpg"},
		},
		Featured: []Product{
			{ID: "featured-linen-shirt", Name: "Linen Shirt", Price: 1499, ImagePath: "/static/img/p-linen-shirt.jpg"},
			{ID: "featured-denim-jacket", Name: "Denim Jacket", Price: 2999, ImagePath: "/static/img/p-denim-jacket.jpg"},
			{ID: "featured-cotton-kurta", Name: "Cotton Kurta", Price: 1299, ImagePath: "/static/img/p-cotton-kurta.jpg"},
			{ID: "featured-canvas-tote", Name: "Canvas Tote", Price: 699, ImagePath: "/static/img/p-canvas-tote.jpg"},
		},
		Features: []Feature{
			{Icon: "🚚", Title: "Free Shipping", Text: "On all orders above ₹999"},
			{Icon: "↩️", Title: "Easy Returns", Text: "7-day hassle free returns"},
			{Icon: "🔒", Title: "Secure Payment", Text: "100% protected checkout"},
			{Icon: "💬", Title: "24/7 Support", Text: "We are here to help"},
		},
		Newsletter: Newsletter{
			Title:       "Join our newsletter",
			Text:        "Get early access to sales and new collections.",
			Placeholder: "Enter your email",
			ButtonLabel: "Subscribe",
		},
	}
}
