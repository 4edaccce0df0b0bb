package model

import "time"

type Listing struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	CreatorID  string    `json:"creator_id" bson:"creator_id"`
	Title      string    `json:"title" bson:"title"`
	Category   string    `json:"category,omitempty" bson:"category,omitempty"`
	City       string    `json:"city" bson:"city"`
	Country    string    `json:"country" bson:"country"`
	Price      float64   `json:"price" bson:"price"`
	PhotoPaths []string  `json:"photo_paths,omitempty" bson:"photo_paths,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// ListingUpdate carries the admin-editable listing fields. Nil means unchanged.
type ListingUpdate struct {
	Title      *string  `json:"title,omitempty"`
	Category   *string  `json:"category,omitempty"`
	City       *string  `json:"city,omitempty"`
	Country    *string  `json:"country,omitempty"`
	Price      *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	PhotoPaths []string `json:"photo_paths,omitempty"`
}

type ListingSummary struct {
	ID         string   `json:"id,omitempty" bson:"_id,omitempty"`
	Title      string   `json:"title" bson:"title"`
	City       string   `json:"city" bson:"city"`
	Country    string   `json:"country" bson:"country"`
	Price      float64  `json:"price" bson:"price"`
	PhotoPaths []string `json:"photo_paths,omitempty" bson:"photo_paths,omitempty"`
}
