package cmd

import (
	"log/slog"

	"dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/geocoding"
	"dispatch/internal/adapters/out/livecache"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use case handlers. Each Create method
// hands out a ready handler; role-scoped unit of work factories keep handlers
// from seeing repositories they do not need.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	liveCache  ports.LiveLocationCache
	geocoder   ports.Geocoder
	logger     *slog.Logger
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient *redis.Client,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		liveCache:  livecache.NewRedisLiveLocationCache(redisClient, config.LivePositionTTL),
		geocoder:   geocoding.NewNominatimGeocoder(config.GeocoderBaseURL, config.GeocoderRegion),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateRegisterDriverCommandHandler() commands.RegisterDriverCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterDriverCommandHandler(f)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.geocoder, c.logger)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignDriverCommandHandler(f)
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCompleteOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateReportLocationCommandHandler() commands.ReportLocationCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReportLocationCommandHandler(f, c.liveCache, c.logger)
}

func (c *CompositionRoot) CreateSweepStaleLocationsCommandHandler() commands.SweepStaleLocationsCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSweepStaleLocationsCommandHandler(f, c.liveCache, c.logger)
}

func (c *CompositionRoot) CreateRankedDriversQueryHandler() queries.RankedDriversQueryHandler {
	return queries.NewRankedDriversQueryHandler(&c.uowFactory)
}

func (c *CompositionRoot) CreateCurrentOrderForDriverQueryHandler() queries.CurrentOrderForDriverQueryHandler {
	return queries.NewCurrentOrderForDriverQueryHandler(&c.uowFactory)
}

func (c *CompositionRoot) CreateFleetSnapshotQueryHandler() queries.FleetSnapshotQueryHandler {
	return queries.NewFleetSnapshotQueryHandler(c.gormDB, c.liveCache, c.logger)
}

// CreateServer assembles the HTTP server with all handlers wired.
func (c *CompositionRoot) CreateServer() *http.Server {
	return http.NewServer(
		c.CreateRegisterDriverCommandHandler(),
		c.CreateCreateOrderCommandHandler(),
		c.CreateAssignDriverCommandHandler(),
		c.CreateCompleteOrderCommandHandler(),
		c.CreateReportLocationCommandHandler(),
		c.CreateRankedDriversQueryHandler(),
		c.CreateCurrentOrderForDriverQueryHandler(),
		c.CreateFleetSnapshotQueryHandler(),
	)
}

// CreateJobManager assembles the background jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateSweepStaleLocationsCommandHandler(),
		c.config.LocationStaleAfter,
		c.logger,
	)
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
