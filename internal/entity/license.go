package entity

import "time"

type License struct {
	ID        string    `json:"id"`
	FlickrID  int       `json:"flickr_id"`
	Name      string    `json:"name"`
	URL       *string   `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
