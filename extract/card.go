package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Card is the capability set the extractor needs from one rendered
// listing card. Keeping it this narrow keeps the card-to-Listing mapping
// independent of the automation library's types.
type Card interface {
	Text(selector string) string
	Attr(selector, attr string) string
}

// Selectors locates the card fields within the known page structure.
type Selectors struct {
	Card    string
	Price   string
	Address string
	Beds    string
	Baths   string
	SqFt    string
	Status  string
	Link    string
	Image   string
}

func DefaultSelectors() Selectors {
	return Selectors{
		Card:    "article[data-test='property-card']",
		Price:   "[data-test='property-card-price']",
		Address: "address[data-test='property-card-addr']",
		Beds:    "ul[data-test='property-card-details'] li:nth-of-type(1) b",
		Baths:   "ul[data-test='property-card-details'] li:nth-of-type(2) b",
		SqFt:    "ul[data-test='property-card-details'] li:nth-of-type(3) b",
		Status:  "[data-test='property-card-status']",
		Link:    "a[data-test='property-card-link']",
		Image:   "img",
	}
}

type docCard struct {
	sel *goquery.Selection
}

func (c docCard) Text(selector string) string {
	return strings.TrimSpace(c.sel.Find(selector).First().Text())
}

func (c docCard) Attr(selector, attr string) string {
	v, _ := c.sel.Find(selector).First().Attr(attr)
	return strings.TrimSpace(v)
}

// CardsFromHTML parses a rendered-page snapshot and returns one Card per
// element matching cardSelector, in document order.
func CardsFromHTML(html, cardSelector string) ([]Card, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var cards []Card
	doc.Find(cardSelector).Each(func(_ int, s *goquery.Selection) {
		cards = append(cards, docCard{sel: s})
	})
	return cards, nil
}
