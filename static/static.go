// Package static embeds the front-end shell: a single-page client that
// browses the library over the JSON API and plays videos via HLS.
package static

import "embed"

//go:embed media_browser.html media_browser.js media_browser.css
var FS embed.FS
