package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/paulmach/orb"

	"github.com/iliyamo/venue-floor-planner/internal/model"
)

// LayoutRepo stores venue layouts. Only meter coordinates are persisted;
// pixel boxes are rebuilt from the stored scale on load.
type LayoutRepo struct {
	db *sql.DB
}

// NewLayoutRepo returns a LayoutRepo bound to db.
func NewLayoutRepo(db *sql.DB) *LayoutRepo { return &LayoutRepo{db: db} }

// DB exposes the handle for callers that open their own transaction.
func (r *LayoutRepo) DB() *sql.DB { return r.db }

// Replace stores l as a new layout and makes it the only active one. Older
// layouts stay in place for the reservations that reference them.
func (r *LayoutRepo) Replace(ctx context.Context, l model.Layout, ownerID uint64) (uint64, error) {
	perimeter, err := json.Marshal(l.Perimeter)
	if err != nil {
		return 0, err
	}
	if l.Perimeter == nil {
		perimeter = []byte("[]")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, "UPDATE layouts SET is_active=0 WHERE is_active=1"); err != nil {
		return 0, err
	}
	var createdBy any
	if ownerID != 0 {
		createdBy = ownerID
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO layouts (name, width_px, height_px, width_m, height_m, pixels_per_meter, perimeter, is_active, created_by)
		 VALUES (?,?,?,?,?,?,?,1,?)`,
		l.Name, l.Dimensions.WidthPx, l.Dimensions.HeightPx, l.Dimensions.WidthM, l.Dimensions.HeightM,
		l.Scale, string(perimeter), createdBy)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	layoutID := uint64(id)

	if len(l.Tables) > 0 {
		tables := psql.Insert("layout_tables").Columns("layout_id", "table_key", "kind", "state", "x1", "y1", "x2", "y2")
		chairs := psql.Insert("layout_chairs").Columns("layout_id", "chair_key", "table_key", "seq", "kind", "x1", "y1", "x2", "y2")
		nChairs := 0
		for _, t := range l.Tables {
			m := t.Rect.Meters
			tables = tables.Values(layoutID, t.ID, t.Kind.String(), string(t.State), m.X1, m.Y1, m.X2, m.Y2)
			for i, c := range t.Chairs {
				cm := c.Rect.Meters
				chairs = chairs.Values(layoutID, c.ID, t.ID, i, c.Kind.String(), cm.X1, cm.Y1, cm.X2, cm.Y2)
				nChairs++
			}
		}
		if err := execBuilt(ctx, tx, tables); err != nil {
			return 0, fmt.Errorf("insert tables: %w", err)
		}
		if nChairs > 0 {
			if err := execBuilt(ctx, tx, chairs); err != nil {
				return 0, fmt.Errorf("insert chairs: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return layoutID, nil
}

// Active loads the active layout.
func (r *LayoutRepo) Active(ctx context.Context) (model.Layout, error) {
	var id uint64
	err := r.db.QueryRowContext(ctx, "SELECT id FROM layouts WHERE is_active=1 ORDER BY id DESC LIMIT 1").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Layout{}, ErrNoActiveLayout
	}
	if err != nil {
		return model.Layout{}, err
	}
	return r.Get(ctx, id)
}

// Get loads one layout with all its tables and chairs.
func (r *LayoutRepo) Get(ctx context.Context, id uint64) (model.Layout, error) {
	var (
		l         model.Layout
		perimeter []byte
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, width_px, height_px, width_m, height_m, pixels_per_meter, perimeter, created_at
		 FROM layouts WHERE id=?`, id).Scan(
		&l.ID, &l.Name, &l.Dimensions.WidthPx, &l.Dimensions.HeightPx, &l.Dimensions.WidthM, &l.Dimensions.HeightM,
		&l.Scale, &perimeter, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Layout{}, ErrLayoutNotFound
	}
	if err != nil {
		return model.Layout{}, err
	}
	if len(perimeter) > 0 {
		var pts []orb.Point
		if err := json.Unmarshal(perimeter, &pts); err != nil {
			return model.Layout{}, fmt.Errorf("layout %d perimeter: %w", id, err)
		}
		l.Perimeter = pts
	}

	tables, err := r.loadTables(ctx, id)
	if err != nil {
		return model.Layout{}, err
	}
	l.Tables = tables
	l.Normalize()
	return l, nil
}

func (r *LayoutRepo) loadTables(ctx context.Context, layoutID uint64) ([]model.Table, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT table_key, kind, state, x1, y1, x2, y2 FROM layout_tables WHERE layout_id=? ORDER BY table_key", layoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tables []model.Table
	index := map[string]int{}
	for rows.Next() {
		var (
			t     model.Table
			kind  string
			state string
			m     model.Box
		)
		if err := rows.Scan(&t.ID, &kind, &state, &m.X1, &m.Y1, &m.X2, &m.Y2); err != nil {
			return nil, err
		}
		if err := t.Kind.UnmarshalText([]byte(kind)); err != nil {
			return nil, fmt.Errorf("table %s: %w", t.ID, err)
		}
		t.State = model.TableState(state)
		t.Rect.Meters = m
		index[t.ID] = len(tables)
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crow, err := r.db.QueryContext(ctx,
		"SELECT chair_key, table_key, kind, x1, y1, x2, y2 FROM layout_chairs WHERE layout_id=? ORDER BY table_key, seq", layoutID)
	if err != nil {
		return nil, err
	}
	defer crow.Close()
	for crow.Next() {
		var (
			c        model.Chair
			tableKey string
			kind     string
			m        model.Box
		)
		if err := crow.Scan(&c.ID, &tableKey, &kind, &m.X1, &m.Y1, &m.X2, &m.Y2); err != nil {
			return nil, err
		}
		if err := c.Kind.UnmarshalText([]byte(kind)); err != nil {
			return nil, fmt.Errorf("chair %s: %w", c.ID, err)
		}
		c.Rect.Meters = m
		if i, ok := index[tableKey]; ok {
			tables[i].Chairs = append(tables[i].Chairs, c)
		}
	}
	return tables, crow.Err()
}

// SetTableStateTx updates the stored state of the given tables.
func (r *LayoutRepo) SetTableStateTx(ctx context.Context, tx *sql.Tx, layoutID uint64, keys []string, state model.TableState) error {
	if len(keys) == 0 {
		return nil
	}
	return execBuilt(ctx, tx, setTableState(layoutID, keys, state))
}

func setTableState(layoutID uint64, keys []string, state model.TableState) sq.UpdateBuilder {
	return psql.Update("layout_tables").
		Set("state", string(state)).
		Where(sq.Eq{"layout_id": layoutID, "table_key": keys})
}

func execBuilt(ctx context.Context, tx *sql.Tx, b sq.Sqlizer) error {
	q, args, err := b.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, q, args...)
	return err
}
