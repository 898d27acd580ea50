// Package templates holds the HTML documents rendered by the service
package templates

import "embed"

//go:embed *.html
var FS embed.FS

// QuoteTemplate is the printable quote page
const QuoteTemplate = "quote.html"
