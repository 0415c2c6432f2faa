package extract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/devyboy/scraper-plus-plus/models"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return string(data)
}

func fixtureBatch(t *testing.T) []models.Listing {
	t.Helper()
	html := loadFixture(t, "search_results.html")

	cards, err := CardsFromHTML(html, DefaultSelectors().Card)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(cards) != 5 {
		t.Fatalf("expected 5 cards, got %d", len(cards))
	}

	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	return New(DefaultSelectors(), "https://www.example.com/homes/springfield-il/").Batch(cards, now)
}

func TestBatch_DedupAndExclusion(t *testing.T) {
	batch := fixtureBatch(t)

	// 5 cards: one duplicate id collapses, one card without a parseable
	// id is excluded.
	if len(batch) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(batch))
	}
	if batch[0].ListingID != "88412345" || batch[1].ListingID != "99220011" || batch[2].ListingID != "77003344" {
		t.Fatalf("unexpected ids: %s, %s, %s", batch[0].ListingID, batch[1].ListingID, batch[2].ListingID)
	}
	// First occurrence wins.
	if batch[0].ImageURL != "https://photos.example.com/88412345-0.jpg" {
		t.Fatalf("expected first occurrence to win, got image %s", batch[0].ImageURL)
	}
}

func TestBatch_FullCard(t *testing.T) {
	l := fixtureBatch(t)[0]

	if l.Address != "123 Maple St, Springfield, IL 62704" {
		t.Fatalf("unexpected address %q", l.Address)
	}
	if l.ZipCode != "62704" {
		t.Fatalf("expected zip 62704, got %q", l.ZipCode)
	}
	if l.Price != "$500,000" {
		t.Fatalf("unexpected price %q", l.Price)
	}
	if l.PriceNumeric == nil || *l.PriceNumeric != 500000 {
		t.Fatalf("unexpected numeric price %v", l.PriceNumeric)
	}
	if l.Beds != "3" || l.Baths != "2" || l.SqFt != "2,000" {
		t.Fatalf("unexpected details %q/%q/%q", l.Beds, l.Baths, l.SqFt)
	}
	if l.PricePerSqFt != "250" {
		t.Fatalf("expected price per sqft 250, got %q", l.PricePerSqFt)
	}
	if !l.IsOpenHouse {
		t.Fatal("expected open house")
	}
	if l.OpenHouseInfo != "OPEN SAT 1-3PM" {
		t.Fatalf("unexpected open house info %q", l.OpenHouseInfo)
	}
	if l.ListingStatus != "" {
		t.Fatalf("expected empty listing status for open house, got %q", l.ListingStatus)
	}
	if l.Link != "https://www.example.com/homedetails/123-maple-st-springfield-il-62704/88412345/" {
		t.Fatalf("unexpected link %q", l.Link)
	}
	if l.DateAdded != "2026-08-28" {
		t.Fatalf("unexpected date added %q", l.DateAdded)
	}
}

func TestBatch_PlaceholderIntegrity(t *testing.T) {
	l := fixtureBatch(t)[1]

	// The card has no details list at all: beds/baths/sqft must come
	// back as the placeholder, never 0 or empty.
	if l.Beds != models.Unknown || l.Baths != models.Unknown || l.SqFt != models.Unknown {
		t.Fatalf("expected placeholders, got %q/%q/%q", l.Beds, l.Baths, l.SqFt)
	}
	if l.SqFtNumeric != nil {
		t.Fatalf("expected nil sqft numeric, got %v", *l.SqFtNumeric)
	}
	if l.PricePerSqFt != models.Unknown {
		t.Fatalf("expected placeholder price per sqft, got %q", l.PricePerSqFt)
	}
	if l.ListingStatus != "PENDING" {
		t.Fatalf("expected PENDING, got %q", l.ListingStatus)
	}
	if l.IsOpenHouse {
		t.Fatal("PENDING must not be an open house")
	}
}

func TestBatch_UnclassifiedStatusPreserved(t *testing.T) {
	l := fixtureBatch(t)[2]

	if l.ListingStatus != "For Sale By Owner" {
		t.Fatalf("expected status preserved as-is, got %q", l.ListingStatus)
	}
	if l.Price != models.Unknown {
		t.Fatalf("expected placeholder price, got %q", l.Price)
	}
	// "--" strips to nothing: placeholder, not zero.
	if l.SqFt != "--" {
		t.Fatalf("unexpected sqft display %q", l.SqFt)
	}
	if l.SqFtNumeric != nil {
		t.Fatalf("expected nil sqft numeric for %q", l.SqFt)
	}
	if l.PricePerSqFt != models.Unknown {
		t.Fatalf("expected placeholder price per sqft, got %q", l.PricePerSqFt)
	}
}

func TestClassifyStatus(t *testing.T) {
	status, open, info := classifyStatus("OPEN SAT 1-3PM")
	if status != "" || !open || info != "OPEN SAT 1-3PM" {
		t.Fatalf("open house misclassified: %q %v %q", status, open, info)
	}

	status, open, _ = classifyStatus("pending")
	if status != "PENDING" || open {
		t.Fatalf("known state misclassified: %q %v", status, open)
	}

	status, open, _ = classifyStatus("Coming Soon")
	if status != "COMING SOON" || open {
		t.Fatalf("known state misclassified: %q %v", status, open)
	}

	status, _, _ = classifyStatus("")
	if status != models.Unknown {
		t.Fatalf("missing status must be the placeholder, got %q", status)
	}
}

func TestParseNumeric(t *testing.T) {
	if n, ok := parseNumeric("$1,234,567"); !ok || n != 1234567 {
		t.Fatalf("got %v %v", n, ok)
	}
	if n, ok := parseNumeric("2.5"); !ok || n != 2.5 {
		t.Fatalf("got %v %v", n, ok)
	}
	if n, ok := parseNumeric("0"); !ok || n != 0 {
		t.Fatalf("zero is a valid value: got %v %v", n, ok)
	}
	if _, ok := parseNumeric("--"); ok {
		t.Fatal("expected parse failure for --")
	}
	if _, ok := parseNumeric(models.Unknown); ok {
		t.Fatal("expected parse failure for placeholder")
	}
}

func TestZipFromAddress(t *testing.T) {
	if zip := zipFromAddress("123 Maple St, Springfield, IL 62704-1234"); zip != "62704" {
		t.Fatalf("got %q", zip)
	}
	if zip := zipFromAddress("Unit 5, 99 Harbor Dr"); zip != models.Unknown {
		t.Fatalf("expected placeholder, got %q", zip)
	}
}

func TestListingIDFromLink(t *testing.T) {
	if id := listingIDFromLink("https://www.example.com/homedetails/x/88412345/"); id != "88412345" {
		t.Fatalf("got %q", id)
	}
	if id := listingIDFromLink("/homes/for_sale/"); id != "" {
		t.Fatalf("expected no id, got %q", id)
	}
}
