// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/pdiddy/nbimages/pkg/types"
)

// Decode turns a base64 payload into bytes. Notebook writers wrap long
// payloads across lines, and some tools leave stray characters behind, so
// anything outside the base64 alphabet is discarded before decoding.
func Decode(payload string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		if isBase64(r) {
			return r
		}
		return -1
	}, payload)
	if clean == "" {
		return nil, fmt.Errorf("empty image payload")
	}
	data, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 payload: %w", err)
	}
	return data, nil
}

func isBase64(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	}
	return r == '+' || r == '/' || r == '='
}

// sniff detects the content type of data from its magic bytes and reports
// whether it agrees with the declared media type.
func sniff(data []byte, declared types.MediaType) (string, bool) {
	mt := mimetype.Detect(data)
	return mt.String(), mt.Is(string(declared))
}

// dimensions reads the pixel size from the image header. Zero values mean the
// header could not be decoded; the payload is still written as-is.
func dimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
