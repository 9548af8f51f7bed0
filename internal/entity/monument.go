package entity

import "time"

// Monument is one World Heritage site. Optional fields stay nil when the
// source row did not provide them (or provided an unparsable value).
type Monument struct {
	ID                    string    `json:"id"`
	Category              *string   `json:"category,omitempty"`
	CriteriaTxt           *string   `json:"criteria_txt,omitempty"`
	Danger                *string   `json:"danger,omitempty"`
	DateInscribed         *string   `json:"date_inscribed,omitempty"`
	Extension             *int32    `json:"extension,omitempty"`
	HistoricalDescription *string   `json:"historical_description,omitempty"`
	HTTPURL               *string   `json:"http_url,omitempty"`
	IDNumber              *int32    `json:"id_number,omitempty"`
	ImageURL              *string   `json:"image_url,omitempty"`
	ISOCode               *string   `json:"iso_code,omitempty"`
	Justification         *string   `json:"justification,omitempty"`
	Latitude              *float64  `json:"latitude,omitempty"`
	Longitude             *float64  `json:"longitude,omitempty"`
	Location              *string   `json:"location,omitempty"`
	LongDescription       *string   `json:"long_description,omitempty"`
	Region                *string   `json:"region,omitempty"`
	Revision              *int32    `json:"revision,omitempty"`
	SecondaryDates        *string   `json:"secondary_dates,omitempty"`
	ShortDescription      *string   `json:"short_description,omitempty"`
	Site                  *string   `json:"site,omitempty"`
	States                *string   `json:"states,omitempty"`
	Transboundary         *int32    `json:"transboundary,omitempty"`
	UniqueNumber          *int32    `json:"unique_number,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// NewMonument returns an empty monument stamped with the current time.
func NewMonument() Monument {
	now := Now()
	return Monument{CreatedAt: now, UpdatedAt: now}
}

// HasCoordinates reports whether both latitude and longitude are set.
func (m Monument) HasCoordinates() bool {
	return m.Latitude != nil && m.Longitude != nil
}

// Name is the site name, or "" when the row had none.
func (m Monument) Name() string {
	if m.Site == nil {
		return ""
	}
	return *m.Site
}

// Now is the timestamp used for created_at/updated_at, truncated to the second.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
