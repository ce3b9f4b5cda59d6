package middleware

import (
	"strings"

	"github.com/dunglas/httpsfv"
)

// ParseBrandHint extracts the primary browser brand from a Sec-CH-UA header.
// The header is an RFC 8941 List of brand items with a "v" version parameter:
//
//	"Chromium";v="124", "Google Chrome";v="124", "Not-A.Brand";v="99"
//
// GREASE placeholder brands (Not-A.Brand and friends) are skipped. Returns
// the first real brand as "Name/version" and ok=false when the header is
// absent, malformed, or all-GREASE.
func ParseBrandHint(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}

	list, err := httpsfv.UnmarshalList([]string{header})
	if err != nil {
		return "", false
	}

	for _, member := range list {
		item, ok := member.(httpsfv.Item)
		if !ok {
			continue
		}
		brand, ok := item.Value.(string)
		if !ok || brand == "" {
			continue
		}
		if strings.Contains(brand, "Not") && strings.Contains(brand, "Brand") {
			continue
		}

		if v, ok := item.Params.Get("v"); ok {
			if version, ok := v.(string); ok && version != "" {
				return brand + "/" + version, true
			}
		}
		return brand, true
	}
	return "", false
}
