package model

import "encoding/json"

// Chair is owned by exactly one table at a time.
type Chair struct {
	ID   string    `json:"id"`   // layout_chairs.chair_key
	Kind ChairKind `json:"type"` // layout_chairs.kind
	Rect Rect      `json:"rect"` // layout_chairs.x1..y2 (meters)
}

// Table is a table with the chairs currently assigned to it. Its capacity is
// always the number of chairs; it is never stored separately.
type Table struct {
	ID          string     `json:"id"`                    // layout_tables.table_key
	Kind        TableKind  `json:"type"`                  // layout_tables.kind
	Rect        Rect       `json:"rect"`                  // layout_tables.x1..y2 (meters)
	State       TableState `json:"state"`                 // layout_tables.state
	Chairs      []Chair    `json:"chairs"`                // layout_chairs rows with this table_key
	Reservation string     `json:"reservation,omitempty"` // code of the reservation holding the table
}

// Capacity is the number of chairs currently assigned.
func (t Table) Capacity() int { return len(t.Chairs) }

// IsFree reports whether the table can be offered to a new party.
func (t Table) IsFree() bool { return t.State != TableReserved }

// Clone returns a copy that shares no slices with t.
func (t Table) Clone() Table {
	c := t
	if t.Chairs != nil {
		c.Chairs = make([]Chair, len(t.Chairs))
		copy(c.Chairs, t.Chairs)
	}
	return c
}

type tableJSON struct {
	ID          string     `json:"id"`
	Kind        TableKind  `json:"type"`
	Rect        Rect       `json:"rect"`
	State       TableState `json:"state"`
	Capacity    int        `json:"capacity"`
	Chairs      []Chair    `json:"chairs"`
	Reservation string     `json:"reservation,omitempty"`
}

// MarshalJSON adds the derived capacity to the wire form.
func (t Table) MarshalJSON() ([]byte, error) {
	chairs := t.Chairs
	if chairs == nil {
		chairs = []Chair{}
	}
	return json.Marshal(tableJSON{
		ID:          t.ID,
		Kind:        t.Kind,
		Rect:        t.Rect,
		State:       t.State,
		Capacity:    len(chairs),
		Chairs:      chairs,
		Reservation: t.Reservation,
	})
}

// UnmarshalJSON ignores any incoming capacity; it is derived from chairs.
func (t *Table) UnmarshalJSON(data []byte) error {
	var w tableJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*t = Table{
		ID:          w.ID,
		Kind:        w.Kind,
		Rect:        w.Rect,
		State:       w.State,
		Chairs:      w.Chairs,
		Reservation: w.Reservation,
	}
	if t.State == "" {
		t.State = TableFree
	}
	return nil
}
