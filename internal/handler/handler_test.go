package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-floor-planner/internal/detection"
	apperr "github.com/iliyamo/venue-floor-planner/internal/errors"
	"github.com/iliyamo/venue-floor-planner/internal/middleware"
	"github.com/iliyamo/venue-floor-planner/internal/model"
	"github.com/iliyamo/venue-floor-planner/internal/optimizer"
	"github.com/iliyamo/venue-floor-planner/internal/repository"
	"github.com/iliyamo/venue-floor-planner/internal/service"
	"github.com/iliyamo/venue-floor-planner/internal/utils"
)

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// fakeFloor records the last call and returns err when set.
type fakeFloor struct {
	err error

	layoutID  uint64
	at        time.Time
	party     int
	reserve   service.ReserveRequest
	owner     bool
	saved     model.Layout
	proposal  optimizer.Proposal
	available *optimizer.Proposal
}

func (f *fakeFloor) Snapshot(_ context.Context, id uint64, at time.Time) (model.Layout, error) {
	f.layoutID, f.at = id, at
	return model.Layout{ID: 7, Name: "hall"}, f.err
}

func (f *fakeFloor) Availability(_ context.Context, at time.Time, party int) (service.Availability, error) {
	f.at, f.party = at, party
	if f.err != nil {
		return service.Availability{}, f.err
	}
	out := service.Availability{At: at, PartySize: party, Proposal: f.available}
	if f.available == nil {
		out.Code, out.Reason = apperr.ErrCodeNoCluster, "no group of adjacent tables seats the party"
	}
	return out, nil
}

func (f *fakeFloor) Reserve(_ context.Context, req service.ReserveRequest) (service.ReserveResult, error) {
	f.reserve = req
	if f.err != nil {
		return service.ReserveResult{}, f.err
	}
	return service.ReserveResult{Reservation: model.Reservation{
		ID: 1, Code: "code-1", UserID: req.UserID, PartySize: req.PartySize, At: req.At,
		Status: model.ReservationActive, TableIDs: []string{"T1"},
	}}, nil
}

func (f *fakeFloor) Cancel(_ context.Context, id, userID uint64) (model.Reservation, error) {
	if f.err != nil {
		return model.Reservation{}, f.err
	}
	return model.Reservation{ID: id, UserID: userID, Status: model.ReservationCancelled}, nil
}

func (f *fakeFloor) ListForUser(_ context.Context, userID uint64) ([]model.Reservation, error) {
	return []model.Reservation{{ID: 2, UserID: userID}, {ID: 1, UserID: userID}}, f.err
}

func (f *fakeFloor) Detail(_ context.Context, id, userID uint64, owner bool) (service.Detail, error) {
	f.owner = owner
	if f.err != nil {
		return service.Detail{}, f.err
	}
	return service.Detail{Reservation: model.Reservation{ID: id, UserID: userID}}, nil
}

func (f *fakeFloor) SaveLayout(_ context.Context, l model.Layout, _ uint64) (model.Layout, error) {
	f.saved = l
	l.ID = 9
	return l, f.err
}

func (f *fakeFloor) ImportDetections(_ context.Context, req detection.Request, _ uint64) (model.Layout, detection.Report, error) {
	return model.Layout{ID: 10, Name: req.Name}, detection.Report{LowConfidence: 1}, f.err
}

func (f *fakeFloor) Optimize(_ context.Context, id uint64) (optimizer.RedistributeResult, error) {
	f.layoutID = id
	return optimizer.RedistributeResult{}, f.err
}

func (f *fakeFloor) Preview(_ context.Context, id uint64, at time.Time, p optimizer.Proposal) (model.Layout, error) {
	f.layoutID, f.at, f.proposal = id, at, p
	return model.Layout{ID: id}, f.err
}

// call runs h on a fresh context. uid 0 means unauthenticated.
func call(h echo.HandlerFunc, method, target, body string, uid uint64, role string, params ...string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) > 0 {
		var names, values []string
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if uid != 0 {
		middleware.SetIdentity(c, uid, role)
	}
	return rec, h(c)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestStatusFor(t *testing.T) {
	cases := map[apperr.Code]int{
		apperr.ErrCodeInvalidInput:         http.StatusBadRequest,
		apperr.ErrCodeUnauthorized:         http.StatusUnauthorized,
		apperr.ErrCodeForbidden:            http.StatusForbidden,
		apperr.ErrCodeNotFound:             http.StatusNotFound,
		apperr.ErrCodeNoActiveLayout:       http.StatusNotFound,
		apperr.ErrCodeConflict:             http.StatusConflict,
		apperr.ErrCodeNotCancellable:       http.StatusConflict,
		apperr.ErrCodeInsufficientCapacity: http.StatusUnprocessableEntity,
		apperr.ErrCodeNoSpace:              http.StatusUnprocessableEntity,
		apperr.ErrCodeInternal:             http.StatusInternalServerError,
		"":                                 http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, statusFor(code), code)
	}
}

func TestParseInstant(t *testing.T) {
	got, err := parseInstant("2026-05-01T20:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC), got)

	got, err = parseInstant(" 2026-05-01T20:00 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC), got)

	_, err = parseInstant("tomorrow")
	assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidInput))
}

func TestLayoutSnapshot(t *testing.T) {
	f := &fakeFloor{}
	h := NewLayoutHandler(f)
	h.Now = func() time.Time { return now }

	rec, err := call(h.Snapshot, http.MethodGet, "/v1/layouts/active/snapshot", "", 0, "", "id", "active")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(0), f.layoutID)
	assert.Equal(t, now, f.at)

	rec, err = call(h.Snapshot, http.MethodGet, "/v1/layouts/3/snapshot?at=2026-05-02T19:30", "", 0, "", "id", "3")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(3), f.layoutID)
	assert.Equal(t, time.Date(2026, 5, 2, 19, 30, 0, 0, time.UTC), f.at)

	rec, err = call(h.Snapshot, http.MethodGet, "/v1/layouts/x/snapshot", "", 0, "", "id", "x")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.err = apperr.New(apperr.ErrCodeNoActiveLayout, "no active layout")
	rec, err = call(h.Snapshot, http.MethodGet, "/v1/layouts/active/snapshot", "", 0, "", "id", "active")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NO_ACTIVE_LAYOUT", decode(t, rec)["code"])
}

func TestLayoutSave(t *testing.T) {
	f := &fakeFloor{}
	h := NewLayoutHandler(f)
	body := `{"name":"hall","dimensions":{"width_px":200,"height_px":200,"width_m":10,"height_m":10},
		"tables":{"T1":{"type":"square","rect":{"meters":[1,1,1.8,1.8]},"chairs":[]}}}`

	rec, err := call(h.Save, http.MethodPut, "/v1/layouts", body, 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, err = call(h.Save, http.MethodPut, "/v1/layouts", body, 1, model.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, f.saved.Tables, 1)
	assert.Equal(t, "T1", f.saved.Tables[0].ID)
	assert.EqualValues(t, 9, decode(t, rec)["id"])
}

func TestLayoutImportAndOptimize(t *testing.T) {
	f := &fakeFloor{}
	h := NewLayoutHandler(f)

	rec, err := call(h.ImportDetections, http.MethodPost, "/v1/layouts/detections", `{"name":"scan","detections":[]}`, 1, model.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	out := decode(t, rec)
	assert.EqualValues(t, 1, out["dropped"].(map[string]any)["low_confidence"])

	rec, err = call(h.Optimize, http.MethodPost, "/v1/layouts/4/optimize", "", 1, model.RoleOwner, "id", "4")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(4), f.layoutID)
	assert.Equal(t, []any{}, decode(t, rec)["unplaced"])
}

func TestLayoutPreview(t *testing.T) {
	f := &fakeFloor{}
	h := NewLayoutHandler(f)

	rec, err := call(h.Preview, http.MethodPost, "/v1/layouts/active/apply", `{"proposal":{}}`, 1, model.RoleOwner, "id", "active")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := `{"at":"2026-05-01T21:00:00Z","proposal":{"party_size":4,"table_ids":["T1"]}}`
	rec, err = call(h.Preview, http.MethodPost, "/v1/layouts/active/apply", body, 1, model.RoleOwner, "id", "active")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"T1"}, f.proposal.TableIDs)
	assert.Equal(t, time.Date(2026, 5, 1, 21, 0, 0, 0, time.UTC), f.at)

	f.err = apperr.New(apperr.ErrCodeConflict, "table taken")
	rec, err = call(h.Preview, http.MethodPost, "/v1/layouts/active/apply", body, 1, model.RoleOwner, "id", "active")
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAvailability(t *testing.T) {
	f := &fakeFloor{}
	h := NewReservationHandler(f)

	rec, err := call(h.Availability, http.MethodGet, "/v1/availability?party=4", "", 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, err = call(h.Availability, http.MethodGet, "/v1/availability?at=2026-05-01T20:00&party=many", "", 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, err = call(h.Availability, http.MethodGet, "/v1/availability?at=2026-05-01T20:00&party=9", "", 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, false, out["available"])
	assert.Equal(t, "NO_CLUSTER", out["code"])
	assert.Equal(t, 9, f.party)

	f.available = &optimizer.Proposal{PartySize: 2, TableIDs: []string{"T2"}}
	rec, err = call(h.Availability, http.MethodGet, "/v1/availability?at=2026-05-01T20:00&party=2", "", 0, "")
	require.NoError(t, err)
	out = decode(t, rec)
	assert.Equal(t, true, out["available"])
	assert.NotNil(t, out["proposal"])
}

func TestReserve(t *testing.T) {
	f := &fakeFloor{}
	h := NewReservationHandler(f)

	rec, err := call(h.Reserve, http.MethodPost, "/v1/reservations", `{"at":"2026-05-01T20:00","party_size":4}`, 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, err = call(h.Reserve, http.MethodPost, "/v1/reservations", `{"party_size":4}`, 5, model.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, err = call(h.Reserve, http.MethodPost, "/v1/reservations", `{"at":"2026-05-01T20:00","party_size":4,"table_id":" T1 "}`, 5, model.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, service.ReserveRequest{
		UserID: 5, At: time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC), PartySize: 4, TableID: "T1",
	}, f.reserve)

	rec, err = call(h.Reserve, http.MethodPost, "/v1/reservations", `{"at":"2026-05-01T20:00","party_size":5,"table_ids":["T1"," T2"]}`, 5, model.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"T1", "T2"}, f.reserve.TableIDs)
	assert.Empty(t, f.reserve.TableID)

	f.err = apperr.New(apperr.ErrCodeConflict, "table %q is no longer available at that time", "T1")
	rec, err = call(h.Reserve, http.MethodPost, "/v1/reservations", `{"at":"2026-05-01T20:00","table_id":"T1"}`, 5, model.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "SCHEDULE_CONFLICT", decode(t, rec)["code"])

	f.err = apperr.Wrap(apperr.ErrCodeInternal, errors.New("deadlock"), "create reservation")
	rec, err = call(h.Reserve, http.MethodPost, "/v1/reservations", `{"at":"2026-05-01T20:00","party_size":2}`, 5, model.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decode(t, rec)["error"])
}

func TestReservationReads(t *testing.T) {
	f := &fakeFloor{}
	h := NewReservationHandler(f)

	rec, err := call(h.Mine, http.MethodGet, "/v1/my-reservations", "", 5, model.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["reservations"], 2)

	rec, err = call(h.Detail, http.MethodGet, "/v1/reservations/3", "", 5, model.RoleOwner, "id", "3")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.owner)

	rec, err = call(h.Detail, http.MethodGet, "/v1/reservations/0", "", 5, model.RoleCustomer, "id", "0")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.err = apperr.New(apperr.ErrCodeForbidden, "reservation belongs to another user")
	rec, err = call(h.Detail, http.MethodGet, "/v1/reservations/3", "", 5, model.RoleCustomer, "id", "3")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, f.owner)
}

func TestCancel(t *testing.T) {
	f := &fakeFloor{}
	h := NewReservationHandler(f)

	rec, err := call(h.Cancel, http.MethodDelete, "/v1/reservations/3", "", 5, model.RoleCustomer, "id", "3")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cancelled", decode(t, rec)["status"])

	f.err = apperr.New(apperr.ErrCodeNotCancellable, "reservation already started")
	rec, err = call(h.Cancel, http.MethodDelete, "/v1/reservations/3", "", 5, model.RoleCustomer, "id", "3")
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NOT_CANCELLABLE", decode(t, rec)["code"])
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	rec, err := call(Health(nil), http.MethodGet, "/healthz", "", 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, err = call(Health(fakePinger{}), http.MethodGet, "/healthz", "", 0, "")
	require.NoError(t, err)
	assert.Equal(t, "ok", decode(t, rec)["database"])

	rec, err = call(Health(fakePinger{err: errors.New("refused")}), http.MethodGet, "/healthz", "", 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// In-memory auth stores.

type memUsers struct {
	byEmail map[string]model.User
	nextID  uint64
}

func newMemUsers() *memUsers { return &memUsers{byEmail: map[string]model.User{}} }

func (m *memUsers) Create(_ context.Context, email, password, role string, cost int) (uint64, error) {
	if _, ok := m.byEmail[email]; ok {
		return 0, repository.ErrEmailExists
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	m.nextID++
	m.byEmail[email] = model.User{ID: m.nextID, Email: email, PasswordHash: hash, Role: role, IsActive: true}
	return m.nextID, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

type memTokens struct {
	owner   map[string]uint64
	revoked map[string]bool
}

func newMemTokens() *memTokens {
	return &memTokens{owner: map[string]uint64{}, revoked: map[string]bool{}}
}

func (m *memTokens) StoreRefresh(_ context.Context, userID uint64, hash string, _ time.Time) error {
	m.owner[hash] = userID
	return nil
}

func (m *memTokens) ValidateRefresh(_ context.Context, hash string) (uint64, error) {
	uid, ok := m.owner[hash]
	if !ok || m.revoked[hash] {
		return 0, sql.ErrNoRows
	}
	return uid, nil
}

func (m *memTokens) RevokeByHash(_ context.Context, hash string) error {
	m.revoked[hash] = true
	return nil
}

func (m *memTokens) RevokeAllForUser(_ context.Context, userID uint64) error {
	for h, uid := range m.owner {
		if uid == userID {
			m.revoked[h] = true
		}
	}
	return nil
}

const testSecret = "test-secret"

func newAuth() (*AuthHandler, *memTokens) {
	tokens := newMemTokens()
	h := NewAuthHandler(AuthSettings{
		JWTSecret: testSecret, AccessTTL: 15 * time.Minute, RefreshTTL: 24 * time.Hour, BcryptCost: 4,
	}, newMemUsers(), tokens)
	return h, tokens
}

func authBody(t *testing.T, rec *httptest.ResponseRecorder) authResp {
	t.Helper()
	var out authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRegisterAndLogin(t *testing.T) {
	h, _ := newAuth()

	rec, err := call(h.Register, http.MethodPost, "/v1/auth/register", `{"email":" Ann@Example.com ","password":"longenough","role":"owner"}`, 0, "")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code)
	reg := authBody(t, rec)
	assert.Equal(t, "ann@example.com", reg.User.Email)
	assert.Equal(t, model.RoleOwner, reg.User.Role)

	claims, err := utils.ParseAccessToken(testSecret, reg.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleOwner, claims.Role)

	rec, err = call(h.Register, http.MethodPost, "/v1/auth/register", `{"email":"ann@example.com","password":"longenough"}`, 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, err = call(h.Register, http.MethodPost, "/v1/auth/register", `{"email":"bob@example.com","password":"short"}`, 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, err = call(h.Register, http.MethodPost, "/v1/auth/register", `{"email":"cy@example.com","password":"longenough","role":"ADMIN"}`, 0, "")
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, authBody(t, rec).User.Role)

	rec, err = call(h.Login, http.MethodPost, "/v1/auth/login", `{"email":"ann@example.com","password":"wrong-pass"}`, 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, err = call(h.Login, http.MethodPost, "/v1/auth/login", `{"email":"nobody@example.com","password":"longenough"}`, 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, err = call(h.Login, http.MethodPost, "/v1/auth/login", `{"email":"ANN@example.com","password":"longenough"}`, 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, authBody(t, rec).Refresh.Token)
}

func TestRefreshRotatesAndLogout(t *testing.T) {
	h, tokens := newAuth()
	rec, err := call(h.Register, http.MethodPost, "/v1/auth/register", `{"email":"dee@example.com","password":"longenough"}`, 0, "")
	require.NoError(t, err)
	first := authBody(t, rec).Refresh.Token

	rec, err = call(h.Refresh, http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"`+first+`"}`, 0, "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	second := authBody(t, rec).Refresh.Token
	assert.NotEqual(t, first, second)

	// the rotated token is spent
	rec, err = call(h.Refresh, http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"`+first+`"}`, 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, err = call(h.Logout, http.MethodPost, "/v1/auth/logout", `{"refresh_token":"`+second+`"}`, 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, tokens.revoked[utils.HashRefreshRaw(second)])

	rec, err = call(h.Logout, http.MethodPost, "/v1/auth/logout", "", 0, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, err = call(h.Login, http.MethodPost, "/v1/auth/login", `{"email":"dee@example.com","password":"longenough"}`, 0, "")
	require.NoError(t, err)
	third := authBody(t, rec).Refresh.Token
	rec, err = call(h.Logout, http.MethodPost, "/v1/auth/logout", "", 1, model.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, tokens.revoked[utils.HashRefreshRaw(third)])
}

func TestMe(t *testing.T) {
	h, _ := newAuth()
	rec, err := call(h.Me, http.MethodGet, "/v1/auth/me", "", 3, model.RoleOwner)
	require.NoError(t, err)
	out := decode(t, rec)
	assert.EqualValues(t, 3, out["user_id"])
	assert.Equal(t, "OWNER", out["role"])
}
