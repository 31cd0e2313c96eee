package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrReportLocationCommandIsNotConstructed = errors.New(
		"ReportLocationCommand must be created via NewReportLocationCommand constructor",
	)
	ErrReportedAtIsRequired = errors.New("reportedAt is required")
)

// ReportLocationCommand represents a position report from a driver's device.
// Reports carry the device timestamp they were taken at so delayed or
// reordered reports can be recognized and ignored.
type ReportLocationCommand struct { //nolint:recvcheck //using for validation
	driverID   kernel.ID
	point      kernel.GeoPoint
	reportedAt time.Time

	guard guard.ConstructorGuard
}

// NewReportLocationCommand creates a command carrying a position report.
// Validates the driver identifier, the coordinates, and that the report
// carries a device timestamp.
func NewReportLocationCommand(driverID kernel.ID, latitude float64, longitude float64, reportedAt time.Time) (ReportLocationCommand, error) {
	cmd := ReportLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	point, pointErr := kernel.NewGeoPoint(latitude, longitude)

	if err := errors.Join(
		cmd.setDriverID(driverID),
		pointErr,
		cmd.setReportedAt(reportedAt),
	); err != nil {
		return ReportLocationCommand{}, err
	}

	cmd.point = point
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReportLocationCommandIsNotConstructed if validation fails.
func (c ReportLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportLocationCommandIsNotConstructed)
}

// DriverID returns the identifier of the reporting driver.
func (c ReportLocationCommand) DriverID() kernel.ID {
	return c.driverID
}

// Point returns the reported coordinates.
func (c ReportLocationCommand) Point() kernel.GeoPoint {
	return c.point
}

// ReportedAt returns the device timestamp of the report.
func (c ReportLocationCommand) ReportedAt() time.Time {
	return c.reportedAt
}

func (c *ReportLocationCommand) setDriverID(driverID kernel.ID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *ReportLocationCommand) setReportedAt(reportedAt time.Time) error {
	if reportedAt.IsZero() {
		return ErrReportedAtIsRequired
	}

	c.reportedAt = reportedAt
	return nil
}
