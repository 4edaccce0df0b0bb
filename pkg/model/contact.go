package model

import "time"

const (
	ContactPending    = "pending"
	ContactInProgress = "in-progress"
	ContactResolved   = "resolved"
)

type Contact struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	Subject   string    `json:"subject" bson:"subject" validate:"required,min=2,max=200"`
	Message   string    `json:"message" bson:"message" validate:"required,min=2,max=5000"`
	Status    string    `json:"status" bson:"status" validate:"omitempty,oneof=pending in-progress resolved"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
