package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/devyboy/scraper-plus-plus/models"
)

var (
	// Detail links carry the listing's stable external key as a long
	// numeric path segment, e.g. /homedetails/123-main-st/8412345678/.
	listingIDRegex = regexp.MustCompile(`/(\d{6,})`)

	zipRegex    = regexp.MustCompile(`\b(\d{5})(?:-\d{4})?\b`)
	nonNumRegex = regexp.MustCompile(`[^\d.]`)
)

// Lifecycle states the target page is known to surface on cards.
var knownStatuses = []string{
	"ACTIVE",
	"PENDING",
	"CONTINGENT",
	"SOLD",
	"COMING SOON",
	"PRICE REDUCED",
	"BACK ON MARKET",
	"FORECLOSURE",
	"NEW",
}

func listingIDFromLink(link string) string {
	m := listingIDRegex.FindStringSubmatch(link)
	if m == nil {
		return ""
	}
	return m[1]
}

// zipFromAddress pulls the trailing zip group out of the display address.
func zipFromAddress(address string) string {
	matches := zipRegex.FindAllStringSubmatch(address, -1)
	if len(matches) == 0 {
		return models.Unknown
	}
	return matches[len(matches)-1][1]
}

// parseNumeric strips everything but digits and dots before parsing.
// A field that fails to parse reports ok=false rather than zero, since
// zero is a valid value.
func parseNumeric(s string) (float64, bool) {
	if s == "" || s == models.Unknown {
		return 0, false
	}
	cleaned := nonNumRegex.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// classifyStatus sorts a card's status tag into open-house, a known
// lifecycle state, or unclassified text preserved as-is for visibility.
func classifyStatus(raw string) (status string, openHouse bool, openInfo string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.Unknown, false, ""
	}

	upper := strings.ToUpper(strings.Join(strings.Fields(trimmed), " "))
	if strings.Contains(upper, "OPEN") {
		return "", true, trimmed
	}

	for _, s := range knownStatuses {
		if upper == s {
			return s, false, ""
		}
	}

	return trimmed, false, ""
}
