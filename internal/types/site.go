package types

// FeatureItem is a static content record rendered in the homepage feature
// grid. The list of items is fixed at build time; order is display order.
type FeatureItem struct {
	// Title is the feature headline shown below the icon
	Title string `yaml:"title" mapstructure:"title"`
	// Icon is the path to an image asset, relative to the static
	// directory (e.g., "img/fast.svg"). The builder fails if the asset
	// does not exist.
	Icon string `yaml:"icon" mapstructure:"icon"`
	// Description is the feature body text; inline Markdown is allowed
	Description string `yaml:"description" mapstructure:"description"`
}

// Hero describes the homepage banner rendered above the feature grid.
type Hero struct {
	// Title is the banner headline; defaults to the site title
	Title string `yaml:"title" mapstructure:"title"`
	// Tagline is the subtitle shown under the headline
	Tagline string `yaml:"tagline" mapstructure:"tagline"`
	// CTALabel is the call-to-action button text (empty hides the button)
	CTALabel string `yaml:"cta_label" mapstructure:"cta_label"`
	// CTALink is the call-to-action button target
	CTALink string `yaml:"cta_link" mapstructure:"cta_link"`
}

// NavLink is a navbar or footer entry.
type NavLink struct {
	Label string `yaml:"label" mapstructure:"label"`
	URL   string `yaml:"url" mapstructure:"url"`
}
