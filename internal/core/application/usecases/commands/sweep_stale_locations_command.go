package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/guard"
)

var (
	ErrSweepStaleLocationsCommandIsNotConstructed = errors.New(
		"SweepStaleLocationsCommand must be created via NewSweepStaleLocationsCommand constructor",
	)
	ErrCutoffIsRequired = errors.New("cutoff is required")
)

// SweepStaleLocationsCommand triggers the staleness sweep: drivers whose
// stored position was reported before the cutoff lose that position, so a
// driver whose device went silent stops appearing at its last known point.
type SweepStaleLocationsCommand struct { //nolint:recvcheck //using for validation
	cutoff time.Time

	guard guard.ConstructorGuard
}

// NewSweepStaleLocationsCommand creates a command to sweep positions
// reported before the given cutoff.
func NewSweepStaleLocationsCommand(cutoff time.Time) (SweepStaleLocationsCommand, error) {
	cmd := SweepStaleLocationsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setCutoff(cutoff); err != nil {
		return SweepStaleLocationsCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSweepStaleLocationsCommandIsNotConstructed if validation fails.
func (c SweepStaleLocationsCommand) Validate() error {
	return c.guard.Validate(ErrSweepStaleLocationsCommandIsNotConstructed)
}

// Cutoff returns the report-time threshold; positions older than this are
// cleared.
func (c SweepStaleLocationsCommand) Cutoff() time.Time {
	return c.cutoff
}

func (c *SweepStaleLocationsCommand) setCutoff(cutoff time.Time) error {
	if cutoff.IsZero() {
		return ErrCutoffIsRequired
	}

	c.cutoff = cutoff
	return nil
}
