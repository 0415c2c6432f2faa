package extract

import (
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/devyboy/scraper-plus-plus/models"
)

// Extractor maps raw rendered cards onto normalized Listing records.
// It performs no I/O.
type Extractor struct {
	sel  Selectors
	base *url.URL
}

// New builds an extractor for one target page structure. baseURL is used
// to absolutize relative detail links; it may be empty.
func New(sel Selectors, baseURL string) *Extractor {
	e := &Extractor{sel: sel}
	if baseURL != "" {
		if u, err := url.Parse(baseURL); err == nil {
			e.base = u
		}
	}
	return e
}

// Batch converts one page's cards into an ordered, batch-deduplicated
// Listing sequence. Cards without a parseable listing id are excluded
// entirely since they cannot be deduplicated downstream; two cards
// sharing an id collapse to the first occurrence.
func (e *Extractor) Batch(cards []Card, now time.Time) []models.Listing {
	seen := make(map[string]bool, len(cards))
	var out []models.Listing

	for _, card := range cards {
		link := e.resolveLink(card.Attr(e.sel.Link, "href"))
		id := listingIDFromLink(link)
		if id == "" {
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		l := models.Listing{
			ListingID: id,
			Link:      link,
			Address:   textOrUnknown(card.Text(e.sel.Address)),
			Price:     textOrUnknown(card.Text(e.sel.Price)),
			Beds:      textOrUnknown(card.Text(e.sel.Beds)),
			Baths:     textOrUnknown(card.Text(e.sel.Baths)),
			SqFt:      textOrUnknown(card.Text(e.sel.SqFt)),
			ImageURL:  card.Attr(e.sel.Image, "src"),
			DateAdded: now.Format("2006-01-02"),
		}

		l.ZipCode = zipFromAddress(l.Address)
		if n, ok := parseNumeric(l.Price); ok {
			l.PriceNumeric = &n
		}
		if n, ok := parseNumeric(l.SqFt); ok {
			l.SqFtNumeric = &n
		}
		l.PricePerSqFt = pricePerSqFt(l.PriceNumeric, l.SqFtNumeric)

		status, openHouse, openInfo := classifyStatus(card.Text(e.sel.Status))
		l.ListingStatus = status
		l.IsOpenHouse = openHouse
		l.OpenHouseInfo = openInfo

		out = append(out, l)
	}

	return out
}

func (e *Extractor) resolveLink(href string) string {
	if href == "" || e.base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return e.base.ResolveReference(ref).String()
}

// pricePerSqFt is only computed when both operands are known numerics;
// everything else stays the placeholder.
func pricePerSqFt(price, sqft *float64) string {
	if price == nil || sqft == nil || *sqft == 0 {
		return models.Unknown
	}
	return strconv.Itoa(int(math.Round(*price / *sqft)))
}

func textOrUnknown(s string) string {
	if s == "" {
		return models.Unknown
	}
	return s
}
