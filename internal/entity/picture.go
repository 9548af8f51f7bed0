package entity

import "time"

type Picture struct {
	ID         string    `json:"id"`
	FlickrID   string    `json:"flickr_id"`
	MonumentID string    `json:"monument_id"`
	LicenseID  string    `json:"license_id"`
	Author     string    `json:"author"`
	URL        string    `json:"url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LastUpdate tracks when a monument was last enriched.
type LastUpdate struct {
	MonumentID string    `json:"monument_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}
