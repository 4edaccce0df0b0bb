package model

import "time"

type Review struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID     string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	PropertyID string    `json:"property_id" bson:"property_id" validate:"required,mongodb"`
	Rating     float64   `json:"rating" bson:"rating" validate:"required,gte=0.5,lte=5"`
	Text       string    `json:"text,omitempty" bson:"text,omitempty" validate:"omitempty,max=1000"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type ReviewUpdate struct {
	Rating *float64 `json:"rating,omitempty" validate:"omitempty,gte=0.5,lte=5"`
	Text   *string  `json:"text,omitempty" validate:"omitempty,max=1000"`
}
