package handler

import (
	"context"
	"time"

	"github.com/iliyamo/venue-floor-planner/internal/detection"
	"github.com/iliyamo/venue-floor-planner/internal/model"
	"github.com/iliyamo/venue-floor-planner/internal/optimizer"
	"github.com/iliyamo/venue-floor-planner/internal/service"
)

// Floor is the booking surface of *service.Service used by the layout and
// reservation handlers.
type Floor interface {
	Snapshot(ctx context.Context, id uint64, at time.Time) (model.Layout, error)
	Availability(ctx context.Context, at time.Time, party int) (service.Availability, error)
	Reserve(ctx context.Context, req service.ReserveRequest) (service.ReserveResult, error)
	Cancel(ctx context.Context, id, userID uint64) (model.Reservation, error)
	ListForUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
	Detail(ctx context.Context, id, userID uint64, owner bool) (service.Detail, error)

	SaveLayout(ctx context.Context, l model.Layout, ownerID uint64) (model.Layout, error)
	ImportDetections(ctx context.Context, req detection.Request, ownerID uint64) (model.Layout, detection.Report, error)
	Optimize(ctx context.Context, id uint64) (optimizer.RedistributeResult, error)
	Preview(ctx context.Context, id uint64, at time.Time, p optimizer.Proposal) (model.Layout, error)
}

var _ Floor = (*service.Service)(nil)
