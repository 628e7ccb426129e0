// Package postcode implements the shared service-area filter. It is the
// single gate deciding whether a postcode is eligible for this campaign:
// every insertion path must go through IsInServiceArea so the rule cannot
// drift between call sites.
package postcode

import (
	"regexp"
	"strings"
	"sync"
)

// Normalize uppercases a postcode and trims surrounding whitespace. Internal
// whitespace is preserved ("e20 1jg" -> "E20 1JG") so stored values keep the
// familiar display shape.
func Normalize(pc string) string {
	return strings.ToUpper(strings.TrimSpace(pc))
}

// areaPatterns caches one compiled matcher per area prefix. In practice a
// deployment uses a single prefix, but tests exercise several.
var (
	mu           sync.Mutex
	areaPatterns = map[string]*regexp.Regexp{}
)

// pattern returns the matcher for an area prefix: the prefix followed by the
// UK postcode inward code (digit + two letters), optional internal space.
// E.g. for "E20": "E20 1JG", "e20 9aa", "E203BB".
func pattern(area string) *regexp.Regexp {
	area = strings.ToUpper(strings.TrimSpace(area))
	mu.Lock()
	defer mu.Unlock()
	if re, ok := areaPatterns[area]; ok {
		return re
	}
	re := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(area) + `\s*[0-9][A-Za-z]{2}$`)
	areaPatterns[area] = re
	return re
}

// IsInServiceArea reports whether pc is a well-formed postcode inside the
// campaign's area. Matching is case-insensitive and tolerant of surrounding
// and internal whitespace.
func IsInServiceArea(area, pc string) bool {
	pc = strings.TrimSpace(pc)
	if area == "" || pc == "" {
		return false
	}
	return pattern(area).MatchString(pc)
}
