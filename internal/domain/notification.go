package domain

import "time"

// Variant selects how a notification is presented
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
	VariantSuccess     Variant = "success"
	VariantInfo        Variant = "info"
)

// Notification is a transient message shown to the user until dismissed
type Notification struct {
	ID          string
	Title       string
	Description string
	Variant     Variant
	CreatedAt   time.Time
}

// RequestStatus is the lifecycle stage of a definition request
type RequestStatus string

const (
	StatusIdle    RequestStatus = "idle"
	StatusPending RequestStatus = "pending"
	StatusSuccess RequestStatus = "success"
	StatusError   RequestStatus = "error"
)
