// Package queue defines the reservation events exchanged over RabbitMQ and
// the background consumer that records them.
package queue

import (
	"time"

	"github.com/iliyamo/venue-floor-planner/internal/model"
)

// Queue names double as event types; events go through the default
// exchange with the queue name as routing key.
const (
	ReservationConfirmed = "reservation.confirmed"
	ReservationCancelled = "reservation.cancelled"
)

// Queues lists every queue the consumer declares.
var Queues = []string{ReservationConfirmed, ReservationCancelled}

// ReservationEvent is published whenever a reservation is confirmed or
// cancelled. It carries enough for downstream consumers to log or notify
// without querying the primary database.
type ReservationEvent struct {
	Type          string   `json:"type"`
	ReservationID uint64   `json:"reservation_id"`
	Code          string   `json:"code"`
	UserID        uint64   `json:"user_id"`
	LayoutID      uint64   `json:"layout_id"`
	PartySize     int      `json:"party_size"`
	Tables        []string `json:"tables"`
	Clustered     bool     `json:"clustered"`
	ReservedAt    string   `json:"reserved_at"`
	OccurredAt    string   `json:"occurred_at"`
}

// NewReservationEvent builds an event of the given type for r.
func NewReservationEvent(typ string, r model.Reservation, now time.Time) ReservationEvent {
	return ReservationEvent{
		Type:          typ,
		ReservationID: r.ID,
		Code:          r.Code,
		UserID:        r.UserID,
		LayoutID:      r.LayoutID,
		PartySize:     r.PartySize,
		Tables:        append([]string(nil), r.TableIDs...),
		Clustered:     r.Clustered(),
		ReservedAt:    r.At.UTC().Format(time.RFC3339),
		OccurredAt:    now.UTC().Format(time.RFC3339),
	}
}
