package model

// POI is a discovered business candidate before detail enrichment.
// PlaceID is the provider-assigned dedup key: two POIs with the same PlaceID
// are the same physical business even when returned under different category
// queries. First-seen category wins on dedup.
type POI struct {
	PlaceID  string `json:"place_id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Category string `json:"category"`
}

// Period is one structured open/close pair as "HHMM" strings.
// An empty Close means the place is open continuously from Open.
type Period struct {
	Open  string `json:"open"`
	Close string `json:"close,omitempty"`
}

// PlaceDetail holds the detail-provider fields consumed by the pipeline.
type PlaceDetail struct {
	Phone   string   `json:"phone,omitempty"`
	Website string   `json:"website,omitempty"`
	Periods []Period `json:"periods,omitempty"`
}

// OwnerContact holds contact data extracted from a business website.
// The zero value is the valid empty instance used when no website exists or
// the fetch failed.
type OwnerContact struct {
	Emails     []string `json:"emails,omitempty"`
	Phones     []string `json:"phones,omitempty"`
	OwnerLines []string `json:"owner_lines,omitempty"` // at most 5
}

// HasAny reports whether any contact data was extracted.
func (c OwnerContact) HasAny() bool {
	return len(c.Emails) > 0 || len(c.Phones) > 0 || len(c.OwnerLines) > 0
}

// BusinessRecord joins ZIP context, POI, place detail, and scraped contact
// data. The unit of the final report.
type BusinessRecord struct {
	ZipCode    string  `json:"zip_code"`
	PlaceID    string  `json:"place_id"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Category   string  `json:"category"`
	Phone      string  `json:"phone,omitempty"`
	Website    string  `json:"website,omitempty"`
	DailyHours float64 `json:"daily_hours"`

	Contact OwnerContact `json:"contact"`

	// OutreachNote is an optional one-sentence note generated from the
	// scraped owner lines. Empty unless the summarizer is configured.
	OutreachNote string `json:"outreach_note,omitempty"`
}

// HasContact reports contact availability: an official phone or at least one
// scraped phone number.
func (b BusinessRecord) HasContact() bool {
	return b.Phone != "" || len(b.Contact.Phones) > 0
}
