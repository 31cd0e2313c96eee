package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/ports"
)

// SweepStaleLocationsCommandHandler clears stored driver positions that have
// not been refreshed before the sweep cutoff. Cached live positions for the
// swept drivers are removed best-effort after the transaction commits.
type SweepStaleLocationsCommandHandler struct {
	uowFactory DriverUoWFactory
	liveCache  ports.LiveLocationCache
	logger     *slog.Logger
}

// NewSweepStaleLocationsCommandHandler creates a handler for the staleness
// sweep.
func NewSweepStaleLocationsCommandHandler(
	uowFactory DriverUoWFactory,
	liveCache ports.LiveLocationCache,
	logger *slog.Logger,
) SweepStaleLocationsCommandHandler {
	return SweepStaleLocationsCommandHandler{
		uowFactory: uowFactory,
		liveCache:  liveCache,
		logger:     logger,
	}
}

// Handle processes the sweep command.
// Returns the number of drivers whose position was cleared.
func (h SweepStaleLocationsCommandHandler) Handle(ctx context.Context, cmd SweepStaleLocationsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()

	stale, err := driverRepo.GetAllWithStaleLocation(ctx, cmd.Cutoff())
	if err != nil {
		return 0, err
	}

	swept := make([]ports.DriverPosition, 0, len(stale))
	for _, d := range stale {
		if !d.ClearLocationBefore(cmd.Cutoff()) {
			continue
		}
		if err = driverRepo.Update(ctx, d); err != nil {
			return 0, err
		}
		swept = append(swept, ports.DriverPosition{DriverID: d.ID()})
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	for _, position := range swept {
		if err = h.liveCache.RemovePosition(ctx, position.DriverID); err != nil {
			h.logger.WarnContext(ctx, "failed to drop cached position",
				"driverId", position.DriverID.String(), "error", err)
		}
	}

	return len(swept), nil
}
