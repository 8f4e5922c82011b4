package portal

import "embed"

// EmbeddedAssets contains the static assets shipped with the portal:
// site.css and favicon.svg.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
