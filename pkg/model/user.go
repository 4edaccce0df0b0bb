package model

import "time"

type User struct {
	ID               string    `json:"id,omitempty" bson:"_id,omitempty"`
	FirstName        string    `json:"first_name" bson:"first_name"`
	LastName         string    `json:"last_name" bson:"last_name"`
	Email            string    `json:"email" bson:"email"`
	Phone            string    `json:"phone,omitempty" bson:"phone,omitempty"`
	ProfileImagePath string    `json:"profile_image_path,omitempty" bson:"profile_image_path,omitempty"`
	IsAdmin          bool      `json:"is_admin" bson:"is_admin"`
	WishList         []string  `json:"wish_list,omitempty" bson:"wish_list,omitempty"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}

// UserUpdate carries the admin-editable profile fields. Nil means unchanged.
type UserUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	IsAdmin   *bool   `json:"is_admin,omitempty"`
}

// UserSummary is the projection joined onto bookings and reviews.
// The password hash and admin flag never leave the users repository this way.
type UserSummary struct {
	ID               string `json:"id,omitempty" bson:"_id,omitempty"`
	FirstName        string `json:"first_name" bson:"first_name"`
	LastName         string `json:"last_name" bson:"last_name"`
	Email            string `json:"email" bson:"email"`
	ProfileImagePath string `json:"profile_image_path,omitempty" bson:"profile_image_path,omitempty"`
}
