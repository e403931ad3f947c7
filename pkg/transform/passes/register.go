package passes

import "github.com/yaklabco/afmark/pkg/transform"

// Run order within each stage.
const (
	orderShadebox      = 10
	orderTabs          = 20
	orderAdmonitions   = 30
	orderCollapsible   = 40
	orderTableStyles   = 50
	orderDNL           = 60
	orderUIControl     = 70
	orderBadges        = 80
	orderMetaBadges    = 85
	orderHeaderAnchors = 90
	orderLinkTargets   = 100
	orderSingleNewline = 110
	orderImages        = 200
)

// RegisterAll registers all built-in passes with the given registry.
func RegisterAll(registry *transform.Registry) {
	// Container passes
	registry.Register(NewShadeboxPass())
	registry.Register(NewTabsPass())
	registry.Register(NewAdmonitionsPass())
	registry.Register(NewCollapsiblePass())

	// Inline directives
	registry.Register(NewTableStylesPass())
	registry.Register(NewDNLPass())
	registry.Register(NewUIControlPass())
	registry.Register(NewBadgesPass())
	registry.Register(NewMetaBadgesPass())

	// Headings and links
	registry.Register(NewHeaderAnchorsPass())
	registry.Register(NewLinkTargetsPass())
	registry.Register(NewSingleNewlinePass())

	// After inline parsing
	registry.Register(NewImagesPass())
}

// init registers all built-in passes with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic pass registration
func init() {
	RegisterAll(transform.DefaultRegistry)
}
