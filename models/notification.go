package models

import "time"

// ReminderPayload is the body of a scheduled reminder task.
type ReminderPayload struct {
	Target    string `json:"target"` // "client" or "partner"
	AccountID string `json:"accountId"`
	BookingID string `json:"bookingId"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	FireDate  string `json:"fireDate"`
}

// DeviceToken maps an account to its current FCM registration token.
type DeviceToken struct {
	AccountID string    `bson:"account_id" json:"accountId"`
	Role      string    `bson:"role" json:"role"`
	Token     string    `bson:"token" json:"token"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
