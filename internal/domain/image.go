package domain

import (
	"encoding/base64"
	"strings"
)

// Image types accepted by the admin upload.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// MaxImageSize is the largest accepted upload (5 MB). Uploads are kept inline
// as data URIs, so this also bounds a product's image field.
const MaxImageSize int64 = 5 * 1024 * 1024

// IsAllowedImageType reports whether contentType, ignoring parameters, is an
// accepted image type.
func IsAllowedImageType(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return AllowedImageTypes[strings.TrimSpace(strings.ToLower(mediaType))]
}

// DataURI encodes data as a base64 data URI of the given media type.
func DataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
