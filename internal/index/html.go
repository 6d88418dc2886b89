// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/pdiddy/nbimages/pkg/types"
)

var renderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// HTML renders the index as a standalone HTML page. Image references stay
// relative so the page works from the output directory.
func (ix Index) HTML() ([]byte, error) {
	var body bytes.Buffer
	if err := renderer.Convert([]byte(ix.Markdown()), &body); err != nil {
		return nil, fmt.Errorf("rendering index: %w", err)
	}

	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("<style>img{max-width:100%}</style>\n</head>\n<body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.Bytes(), nil
}

// WriteHTML writes the HTML rendering to outputDir/image_index.html.
func WriteHTML(outputDir string, ix Index) (string, error) {
	data, err := ix.HTML()
	if err != nil {
		return "", err
	}
	path := filepath.Join(outputDir, types.IndexHTMLFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing html index: %w", err)
	}
	return path, nil
}
