package model

import (
	"time"

	"github.com/paulmach/orb"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

// MovementInfo records a cluster move so it can be replayed onto any
// snapshot of the same layout: which tables and chairs moved, where the row
// was centered, its orientation and the average table size used to build it.
type MovementInfo struct {
	K           int         `json:"k"`
	TableIDs    []string    `json:"table_ids"`
	ChairIDs    []string    `json:"chair_ids"`
	Center      orb.Point   `json:"center"`
	Orientation Orientation `json:"orientation"`
	AvgLength   float64     `json:"avg_length"`
	AvgWidth    float64     `json:"avg_width"`
}

// Reservation holds one or more tables of a layout for a party at an
// instant. Movement is nil for a single-table reservation.
//
// Fields:
//
//	Code      – public reference handed to the customer (uuid).
//	At        – the reserved instant; the exclusivity window is centered on it.
//	TableIDs  – reservation_tables rows.
//	Movement  – reservations.movement (JSON, nullable).
type Reservation struct {
	ID        uint64            `json:"id"`         // reservations.id
	Code      string            `json:"code"`       // reservations.code
	UserID    uint64            `json:"user_id"`    // reservations.user_id
	LayoutID  uint64            `json:"layout_id"`  // reservations.layout_id
	PartySize int               `json:"party_size"` // reservations.party_size
	At        time.Time         `json:"at"`         // reservations.reserved_at
	Status    ReservationStatus `json:"status"`     // reservations.status
	TableIDs  []string          `json:"table_ids"`
	Movement  *MovementInfo     `json:"movement,omitempty"`
	CreatedAt time.Time         `json:"created_at"` // reservations.created_at
}

// Clustered reports whether the reservation merged several tables.
func (r Reservation) Clustered() bool { return r.Movement != nil }
