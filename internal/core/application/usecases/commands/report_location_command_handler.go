package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/ports"
)

// ReportLocationCommandHandler handles position reports from driver devices.
//
// The stored position applies last-writer-wins by device timestamp: a report
// older than the one already stored is acknowledged but changes nothing, so
// delayed reports never roll a driver's position back. Applied reports are
// written through to the live location cache after the transaction commits;
// a cache failure is logged and tolerated because the cache is a projection
// that the next report rebuilds.
type ReportLocationCommandHandler struct {
	uowFactory DriverUoWFactory
	liveCache  ports.LiveLocationCache
	logger     *slog.Logger
}

// NewReportLocationCommandHandler creates a handler for position reports.
func NewReportLocationCommandHandler(
	uowFactory DriverUoWFactory,
	liveCache ports.LiveLocationCache,
	logger *slog.Logger,
) ReportLocationCommandHandler {
	return ReportLocationCommandHandler{
		uowFactory: uowFactory,
		liveCache:  liveCache,
		logger:     logger,
	}
}

// Handle processes the position report.
// Returns whether the report was applied; stale reports return false
// without error.
func (h ReportLocationCommandHandler) Handle(ctx context.Context, cmd ReportLocationCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()

	d, err := driverRepo.Get(ctx, cmd.DriverID())
	if err != nil {
		return false, err
	}

	applied, err := d.ReportLocation(cmd.Point(), cmd.ReportedAt())
	if err != nil {
		return false, err
	}

	if !applied {
		h.logger.DebugContext(ctx, "ignoring stale position report",
			"driverId", cmd.DriverID().String(),
			"reportedAt", cmd.ReportedAt(),
			"storedAt", d.LocationReportedAt())
		return false, nil
	}

	if err = driverRepo.Update(ctx, d); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	if err = h.liveCache.SetPosition(ctx, ports.DriverPosition{
		DriverID:   cmd.DriverID(),
		Point:      cmd.Point(),
		ReportedAt: cmd.ReportedAt(),
	}); err != nil {
		h.logger.WarnContext(ctx, "failed to update live location cache",
			"driverId", cmd.DriverID().String(), "error", err)
	}

	return true, nil
}
