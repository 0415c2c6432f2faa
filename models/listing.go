package models

// Unknown is the placeholder written for any field the page did not
// expose or that failed to parse. Zero is a valid value and must never
// stand in for "missing".
const Unknown = "N/A"

// Header is the destination row schema, in column order A..M.
var Header = []string{
	"Address",
	"Listing ID",
	"Zip Code",
	"Price",
	"Beds",
	"Baths",
	"Sq Ft",
	"Price per Sq Ft",
	"Listing Status",
	"Is Open House?",
	"Open House Info",
	"Link",
	"Date Added",
}

// Listing is one normalized property record extracted from a rendering
// pass. Display fields keep the page's original text; derived numerics
// are pointers so absence stays distinguishable from zero.
type Listing struct {
	ListingID     string   `json:"listing_id"`
	Address       string   `json:"address"`
	ZipCode       string   `json:"zip_code"`
	Price         string   `json:"price"`
	PriceNumeric  *float64 `json:"price_numeric"`
	Beds          string   `json:"beds"`
	Baths         string   `json:"baths"`
	SqFt          string   `json:"sqft"`
	SqFtNumeric   *float64 `json:"sqft_numeric"`
	PricePerSqFt  string   `json:"price_per_sqft"`
	ListingStatus string   `json:"listing_status"`
	IsOpenHouse   bool     `json:"is_open_house"`
	OpenHouseInfo string   `json:"open_house_info"`
	Link          string   `json:"link"`
	ImageURL      string   `json:"image_url"`
	DateAdded     string   `json:"date_added"`
}

// Row renders the listing as one spreadsheet row in Header order.
func (l *Listing) Row() []interface{} {
	openHouse := "No"
	if l.IsOpenHouse {
		openHouse = "Yes"
	}
	return []interface{}{
		l.Address,
		l.ListingID,
		l.ZipCode,
		l.Price,
		l.Beds,
		l.Baths,
		l.SqFt,
		l.PricePerSqFt,
		l.ListingStatus,
		openHouse,
		l.OpenHouseInfo,
		l.Link,
		l.DateAdded,
	}
}
