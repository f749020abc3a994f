package domain

import (
	"errors"
	"time"
)

// DeliveryStatus represents the lifecycle state of a delivery.
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusCompleted DeliveryStatus = "completed"
)

var (
	// ErrDeliveryNotFound is returned when no pending delivery matches the id.
	ErrDeliveryNotFound = errors.New("delivery not found")
	// ErrAlreadyCompleted is returned when completing a delivery twice.
	ErrAlreadyCompleted = errors.New("delivery already completed")
)

// Delivery represents a single delivery order.
// CompletedAt and Photo are set together, exactly once, when the status
// moves from pending to completed. There is no reverse transition.
type Delivery struct {
	ID          string         `json:"id"`
	ClientName  string         `json:"client_name"`
	Address     string         `json:"address"`
	Notes       string         `json:"notes,omitempty"`
	Status      DeliveryStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Photo       string         `json:"photo,omitempty"`
}

// NewDelivery creates a pending delivery with the given id and creation time.
func NewDelivery(id, clientName, address, notes string, createdAt time.Time) *Delivery {
	return &Delivery{
		ID:         id,
		ClientName: clientName,
		Address:    address,
		Notes:      notes,
		Status:     DeliveryStatusPending,
		CreatedAt:  createdAt,
	}
}

// IsPending reports whether the delivery is still open.
func (d *Delivery) IsPending() bool {
	return d.Status == DeliveryStatusPending
}

// Complete moves the delivery to completed, recording the confirmation photo
// and the completion time. The transition is one-way.
func (d *Delivery) Complete(photo string, at time.Time) error {
	if d.Status == DeliveryStatusCompleted {
		return ErrAlreadyCompleted
	}

	d.Status = DeliveryStatusCompleted
	d.CompletedAt = &at
	d.Photo = photo
	return nil
}
