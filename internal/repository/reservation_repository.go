package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/iliyamo/venue-floor-planner/internal/model"
)

// ReservationRepo stores reservations and the tables they hold. All
// instants are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const reservationColumns = "r.id, r.code, r.user_id, r.layout_id, r.party_size, r.reserved_at, r.status, r.movement, r.created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(s rowScanner) (model.Reservation, error) {
	var (
		res      model.Reservation
		status   string
		movement []byte
	)
	if err := s.Scan(&res.ID, &res.Code, &res.UserID, &res.LayoutID, &res.PartySize,
		&res.At, &status, &movement, &res.CreatedAt); err != nil {
		return model.Reservation{}, err
	}
	res.Status = model.ReservationStatus(status)
	res.At = res.At.UTC()
	if len(movement) > 0 && string(movement) != "null" {
		var mv model.MovementInfo
		if err := json.Unmarshal(movement, &mv); err != nil {
			return model.Reservation{}, fmt.Errorf("reservation %d movement: %w", res.ID, err)
		}
		res.Movement = &mv
	}
	return res, nil
}

// conflictQuery counts active reservations of the layout holding any of
// keys whose instant lies strictly inside (at-window, at+window).
func conflictQuery(layoutID uint64, keys []string, at time.Time, window time.Duration) sq.SelectBuilder {
	return psql.Select("COUNT(DISTINCT r.id)").
		From("reservations r").
		Join("reservation_tables rt ON rt.reservation_id = r.id").
		Where(sq.Eq{"r.layout_id": layoutID, "r.status": string(model.ReservationActive), "rt.table_key": keys}).
		Where(sq.Gt{"r.reserved_at": at.Add(-window).UTC()}).
		Where(sq.Lt{"r.reserved_at": at.Add(window).UTC()})
}

func lockTables(layoutID uint64, keys []string) sq.SelectBuilder {
	return psql.Select("table_key").
		From("layout_tables").
		Where(sq.Eq{"layout_id": layoutID, "table_key": keys}).
		Suffix("FOR UPDATE")
}

// seatCount counts the chairs attached to the given tables.
func seatCount(layoutID uint64, keys []string) sq.SelectBuilder {
	return psql.Select("COUNT(*)").
		From("layout_chairs").
		Where(sq.Eq{"layout_id": layoutID, "table_key": keys})
}

// releaseTables marks tables free unless another active reservation still
// holds them.
func releaseTables(layoutID uint64, keys []string) sq.UpdateBuilder {
	return psql.Update("layout_tables lt").
		Set("state", string(model.TableFree)).
		Where(sq.Eq{"lt.layout_id": layoutID, "lt.table_key": keys}).
		Where(`NOT EXISTS (SELECT 1 FROM reservation_tables rt
			JOIN reservations r ON r.id = rt.reservation_id
			WHERE rt.layout_id = lt.layout_id AND rt.table_key = lt.table_key AND r.status = 'active')`)
}

// Create persists res. The requested table rows are locked, then the seat
// count and the conflict count run under that lock and the insert follows
// in the same transaction, so two bookings of one table cannot both pass
// the check.
// ID, Status and CreatedAt are filled in on success.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation, window time.Duration) error {
	keys := unique(res.TableIDs)
	if len(keys) == 0 {
		return ErrTableNotFound
	}
	var movement any
	if res.Movement != nil {
		b, err := json.Marshal(res.Movement)
		if err != nil {
			return err
		}
		movement = string(b)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	locked, err := queryStrings(ctx, tx, lockTables(res.LayoutID, keys))
	if err != nil {
		return err
	}
	if len(locked) != len(keys) {
		return ErrTableNotFound
	}

	q, args, err := seatCount(res.LayoutID, keys).ToSql()
	if err != nil {
		return err
	}
	var seats int
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&seats); err != nil {
		return err
	}
	if seats < res.PartySize {
		return ErrTooFewSeats
	}

	q, args, err = conflictQuery(res.LayoutID, keys, res.At, window).ToSql()
	if err != nil {
		return err
	}
	var n int
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (code, user_id, layout_id, party_size, reserved_at, status, movement)
		 VALUES (?,?,?,?,?,?,?)`,
		res.Code, res.UserID, res.LayoutID, res.PartySize, res.At.UTC(), string(model.ReservationActive), movement)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	ins := psql.Insert("reservation_tables").Columns("reservation_id", "layout_id", "table_key")
	for _, k := range keys {
		ins = ins.Values(res.ID, res.LayoutID, k)
	}
	if err := execBuilt(ctx, tx, ins); err != nil {
		return err
	}
	if err := execBuilt(ctx, tx, setTableState(res.LayoutID, keys, model.TableReserved)); err != nil {
		return err
	}
	if err := tx.QueryRowContext(ctx, "SELECT created_at FROM reservations WHERE id=?", res.ID).Scan(&res.CreatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	res.Status = model.ReservationActive
	res.TableIDs = keys
	return nil
}

// ActiveBetween lists active reservations of a layout whose instant lies
// strictly between from and to, in storage order.
func (r *ReservationRepo) ActiveBetween(ctx context.Context, layoutID uint64, from, to time.Time) ([]model.Reservation, error) {
	return r.list(ctx, r.db, psql.Select(reservationColumns).From("reservations r").
		Where(sq.Eq{"r.layout_id": layoutID, "r.status": string(model.ReservationActive)}).
		Where(sq.Gt{"r.reserved_at": from.UTC()}).
		Where(sq.Lt{"r.reserved_at": to.UTC()}).
		OrderBy("r.id"))
}

// ListByUser returns every reservation of a user, newest instant first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return r.list(ctx, r.db, psql.Select(reservationColumns).From("reservations r").
		Where(sq.Eq{"r.user_id": userID}).
		OrderBy("r.reserved_at DESC", "r.id DESC"))
}

// Get loads one reservation with its tables.
func (r *ReservationRepo) Get(ctx context.Context, id uint64) (model.Reservation, error) {
	out, err := r.list(ctx, r.db, psql.Select(reservationColumns).From("reservations r").Where(sq.Eq{"r.id": id}))
	if err != nil {
		return model.Reservation{}, err
	}
	if len(out) == 0 {
		return model.Reservation{}, ErrReservationNotFound
	}
	return out[0], nil
}

// CompletePast marks a user's active reservations whose instant is before
// the given time as completed and returns how many changed.
func (r *ReservationRepo) CompletePast(ctx context.Context, userID uint64, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE reservations SET status=? WHERE user_id=? AND status=? AND reserved_at < ?",
		string(model.ReservationCompleted), userID, string(model.ReservationActive), before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Cancel cancels an active reservation owned by userID whose instant is
// still in the future, then frees its tables.
func (r *ReservationRepo) Cancel(ctx context.Context, id, userID uint64, now time.Time) (model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Reservation{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	out, err := r.list(ctx, tx, psql.Select(reservationColumns).From("reservations r").
		Where(sq.Eq{"r.id": id}).Suffix("FOR UPDATE"))
	if err != nil {
		return model.Reservation{}, err
	}
	if len(out) == 0 {
		return model.Reservation{}, ErrReservationNotFound
	}
	res := out[0]
	if res.UserID != userID {
		return model.Reservation{}, ErrForbidden
	}
	if res.Status != model.ReservationActive || !res.At.After(now) {
		return model.Reservation{}, ErrNotCancellable
	}
	if _, err := tx.ExecContext(ctx, "UPDATE reservations SET status=? WHERE id=?",
		string(model.ReservationCancelled), id); err != nil {
		return model.Reservation{}, err
	}
	if len(res.TableIDs) > 0 {
		if err := execBuilt(ctx, tx, releaseTables(res.LayoutID, res.TableIDs)); err != nil {
			return model.Reservation{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return model.Reservation{}, err
	}
	committed = true
	res.Status = model.ReservationCancelled
	return res, nil
}

// DeleteExpired removes active reservations whose instant is before the
// given time, frees their tables and returns what was removed.
func (r *ReservationRepo) DeleteExpired(ctx context.Context, before time.Time) ([]model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	expired, err := r.list(ctx, tx, psql.Select(reservationColumns).From("reservations r").
		Where(sq.Eq{"r.status": string(model.ReservationActive)}).
		Where(sq.Lt{"r.reserved_at": before.UTC()}).
		OrderBy("r.id").
		Suffix("FOR UPDATE"))
	if err != nil || len(expired) == 0 {
		return nil, err
	}
	ids := make([]uint64, len(expired))
	for i, res := range expired {
		ids[i] = res.ID
	}
	if err := execBuilt(ctx, tx, psql.Delete("reservations").Where(sq.Eq{"id": ids})); err != nil {
		return nil, err
	}
	for _, res := range expired {
		if len(res.TableIDs) == 0 {
			continue
		}
		if err := execBuilt(ctx, tx, releaseTables(res.LayoutID, res.TableIDs)); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return expired, nil
}

func (r *ReservationRepo) list(ctx context.Context, q queryer, b sq.SelectBuilder) ([]model.Reservation, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var out []model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	return out, attachTables(ctx, q, out)
}

func attachTables(ctx context.Context, q queryer, rs []model.Reservation) error {
	ids := make([]uint64, len(rs))
	index := make(map[uint64]int, len(rs))
	for i, res := range rs {
		ids[i] = res.ID
		index[res.ID] = i
	}
	query, args, err := psql.Select("reservation_id", "table_key").
		From("reservation_tables").
		Where(sq.Eq{"reservation_id": ids}).
		OrderBy("reservation_id", "table_key").
		ToSql()
	if err != nil {
		return err
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id  uint64
			key string
		)
		if err := rows.Scan(&id, &key); err != nil {
			return err
		}
		if i, ok := index[id]; ok {
			rs[i].TableIDs = append(rs[i].TableIDs, key)
		}
	}
	return rows.Err()
}

func queryStrings(ctx context.Context, q queryer, b sq.SelectBuilder) ([]string, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func unique(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrReservationNotFound) || errors.Is(err, ErrLayoutNotFound) ||
		errors.Is(err, ErrTableNotFound) || errors.Is(err, sql.ErrNoRows)
}
