package model

import "time"

type ContactMessage struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	Phone     string    `json:"phone" bson:"phone" validate:"required,min=10,max=20"`
	Subject   string    `json:"subject" bson:"subject" validate:"required,min=5,max=150"`
	Message   string    `json:"message" bson:"message" validate:"required,min=10,max=2000"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
