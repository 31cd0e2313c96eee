package queries_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type MockLiveLocationCache struct{ mock.Mock }

func (m *MockLiveLocationCache) SetPosition(ctx context.Context, position ports.DriverPosition) error {
	args := m.Called(ctx, position)
	return args.Error(0)
}

func (m *MockLiveLocationCache) GetPosition(ctx context.Context, driverID kernel.ID) (*ports.DriverPosition, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.DriverPosition), args.Error(1)
}

func (m *MockLiveLocationCache) GetPositions(ctx context.Context, driverIDs []kernel.ID) (map[int64]ports.DriverPosition, error) {
	args := m.Called(ctx, driverIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]ports.DriverPosition), args.Error(1)
}

func (m *MockLiveLocationCache) RemovePosition(ctx context.Context, driverID kernel.ID) error {
	args := m.Called(ctx, driverID)
	return args.Error(0)
}

type FleetSnapshotQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	liveCache *MockLiveLocationCache
	handler   queries.FleetSnapshotQueryHandler
}

func (suite *FleetSnapshotQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&driverrepo.DriverDTO{}, &orderrepo.OrderDTO{})
	suite.Require().NoError(err)
}

func (suite *FleetSnapshotQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *FleetSnapshotQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE drivers, orders RESTART IDENTITY").Error
	suite.Require().NoError(err)

	suite.liveCache = new(MockLiveLocationCache)
	suite.handler = queries.NewFleetSnapshotQueryHandler(
		suite.db,
		suite.liveCache,
		slog.New(slog.DiscardHandler),
	)
}

func (suite *FleetSnapshotQueryHandlerTestSuite) TestHandle_EmptyFleet_ReturnsEmptySnapshot() {
	query := suite.queryFor("owner@fleet.example")

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Empty(result.Orders)
	suite.Empty(result.Drivers)
}

func (suite *FleetSnapshotQueryHandlerTestSuite) TestHandle_ReturnsDriversOrderedByID() {
	reportedAt := time.Now().UTC().Truncate(time.Microsecond)
	orderRef := int64(55)

	trackedID := suite.seedDriver(driverrepo.DriverDTO{
		OwnerEmail:  "owner@fleet.example",
		Name:        "Tracked",
		Phone:       "9812345678",
		Email:       "tracked@fleet.example",
		IsAvailable: true,
	}, &[2]float64{19.0800, 72.8800}, &reportedAt, nil)

	busyID := suite.seedDriver(driverrepo.DriverDTO{
		OwnerEmail:  "owner@fleet.example",
		Name:        "Busy",
		Phone:       "9812345679",
		Email:       "busy@fleet.example",
		IsAvailable: false,
	}, &[2]float64{19.1000, 72.9000}, &reportedAt, &orderRef)

	silentID := suite.seedDriver(driverrepo.DriverDTO{
		OwnerEmail:  "owner@fleet.example",
		Name:        "Silent",
		Phone:       "9812345680",
		Email:       "silent@fleet.example",
		IsAvailable: true,
	}, nil, nil, nil)

	suite.expectNoCachedPositions()

	result, err := suite.handler.Handle(context.Background(), suite.queryFor("owner@fleet.example"))

	suite.Require().NoError(err)
	suite.Require().Len(result.Drivers, 3)

	suite.Equal(trackedID, result.Drivers[0].DriverID.Value())
	suite.Equal("Tracked", result.Drivers[0].Name)
	suite.True(result.Drivers[0].IsAvailable)
	suite.Require().NotNil(result.Drivers[0].Position)
	suite.InDelta(19.0800, result.Drivers[0].Position.Latitude(), 1e-9)
	suite.Require().NotNil(result.Drivers[0].ReportedAt)
	suite.WithinDuration(reportedAt, *result.Drivers[0].ReportedAt, time.Microsecond)
	suite.Nil(result.Drivers[0].CurrentOrderID)

	suite.Equal(busyID, result.Drivers[1].DriverID.Value())
	suite.False(result.Drivers[1].IsAvailable)
	suite.Require().NotNil(result.Drivers[1].CurrentOrderID)
	suite.Equal(orderRef, result.Drivers[1].CurrentOrderID.Value())

	suite.Equal(silentID, result.Drivers[2].DriverID.Value())
	suite.True(result.Drivers[2].IsAvailable)
	suite.Nil(result.Drivers[2].Position)
	suite.Nil(result.Drivers[2].ReportedAt)
	suite.Nil(result.Drivers[2].CurrentOrderID)
}

func (suite *FleetSnapshotQueryHandlerTestSuite) TestHandle_ReturnsOrdersWithAssignedDriverName() {
	driverID := suite.seedDriver(driverrepo.DriverDTO{
		OwnerEmail:  "owner@fleet.example",
		Name:        "Carrier",
		Phone:       "9812345678",
		Email:       "carrier@fleet.example",
		IsAvailable: false,
	}, nil, nil, nil)

	pendingID := suite.seedOrder(orderrepo.OrderDTO{
		OwnerEmail:   "owner@fleet.example",
		CustomerName: "Asha",
		Address:      "12 Hill Road",
		Status:       order.Pending.String(),
	})
	assignedID := suite.seedOrder(orderrepo.OrderDTO{
		OwnerEmail:   "owner@fleet.example",
		CustomerName: "Ravi",
		Address:      "4 Link Road",
		Status:       order.Assigned.String(),
		DriverID:     &driverID,
	})

	suite.expectNoCachedPositions()

	result, err := suite.handler.Handle(context.Background(), suite.queryFor("owner@fleet.example"))

	suite.Require().NoError(err)
	suite.Require().Len(result.Orders, 2)

	suite.Equal(pendingID, result.Orders[0].OrderID.Value())
	suite.Equal("Asha", result.Orders[0].CustomerName)
	suite.Equal(order.Pending, result.Orders[0].Status)
	suite.Nil(result.Orders[0].DriverID)
	suite.Nil(result.Orders[0].DriverName)

	suite.Equal(assignedID, result.Orders[1].OrderID.Value())
	suite.Equal(order.Assigned, result.Orders[1].Status)
	suite.Require().NotNil(result.Orders[1].DriverID)
	suite.Equal(driverID, result.Orders[1].DriverID.Value())
	suite.Require().NotNil(result.Orders[1].DriverName)
	suite.Equal("Carrier", *result.Orders[1].DriverName)
}

func (suite *FleetSnapshotQueryHandlerTestSuite) TestHandle_FresherCachedPositionReplacesStored() {
	storedAt := time.Now().UTC().Add(-time.Minute).Truncate(time.Microsecond)
	cachedAt := storedAt.Add(30 * time.Second)

	driverID := suite.seedDriver(driverrepo.DriverDTO{
		OwnerEmail:  "owner@fleet.example",
		Name:        "Tracked",
		Phone:       "9812345678",
		Email:       "tracked@fleet.example",
		IsAvailable: true,
	}, &[2]float64{19.0800, 72.8800}, &storedAt, nil)

	cachedPoint, err := kernel.NewGeoPoint(19.2000, 72.9500)
	suite.Require().NoError(err)
	cachedID, err := kernel.NewID(driverID)
	suite.Require().NoError(err)

	suite.liveCache.
		On("GetPositions", mock.Anything, mock.Anything).
		Return(map[int64]ports.DriverPosition{
			driverID: {DriverID: cachedID, Point: cachedPoint, ReportedAt: cachedAt},
		}, nil).
		Once()

	result, err := suite.handler.Handle(context.Background(), suite.queryFor("owner@fleet.example"))

	suite.Require().NoError(err)
	suite.Require().Len(result.Drivers, 1)
	suite.Require().NotNil(result.Drivers[0].Position)
	suite.InDelta(19.2000, result.Drivers[0].Position.Latitude(), 1e-9)
	suite.Require().NotNil(result.Drivers[0].ReportedAt)
	suite.WithinDuration(cachedAt, *result.Drivers[0].ReportedAt, time.Microsecond)
	suite.liveCache.AssertExpectations(suite.T())
}

func (suite *FleetSnapshotQueryHandlerTestSuite) TestHandle_StaleCachedPositionIsIgnored() {
	storedAt := time.Now().UTC().Truncate(time.Microsecond)
	cachedAt := storedAt.Add(-time.Minute)

	driverID := suite.seedDriver(driverrepo.DriverDTO{
		OwnerEmail:  "owner@fleet.example",
		Name:        "Tracked",
		Phone:       "9812345678",
		Email:       "tracked@fleet.example",
		IsAvailable: true,
	}, &[2]float64{19.0800, 72.8800}, &storedAt, nil)

	cachedPoint, err := kernel.NewGeoPoint(19.2000, 72.9500)
	suite.Require().NoError(err)
	cachedID, err := kernel.NewID(driverID)
	suite.Require().NoError(err)

	suite.liveCache.
		On("GetPositions", mock.Anything, mock.Anything).
		Return(map[int64]ports.DriverPosition{
			driverID: {DriverID: cachedID, Point: cachedPoint, ReportedAt: cachedAt},
		}, nil).
		Once()

	result, err := suite.handler.Handle(context.Background(), suite.queryFor("owner@fleet.example"))

	suite.Require().NoError(err)
	suite.Require().Len(result.Drivers, 1)
	suite.Require().NotNil(result.Drivers[0].Position)
	suite.InDelta(19.0800, result.Drivers[0].Position.Latitude(), 1e-9)
	suite.WithinDuration(storedAt, *result.Drivers[0].ReportedAt, time.Microsecond)
}

func (suite *FleetSnapshotQueryHandlerTestSuite) TestHandle_CacheOutage_ServesStoredPositions() {
	storedAt := time.Now().UTC().Truncate(time.Microsecond)

	suite.seedDriver(driverrepo.DriverDTO{
		OwnerEmail:  "owner@fleet.example",
		Name:        "Tracked",
		Phone:       "9812345678",
		Email:       "tracked@fleet.example",
		IsAvailable: true,
	}, &[2]float64{19.0800, 72.8800}, &storedAt, nil)

	suite.liveCache.
		On("GetPositions", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused")).
		Once()

	result, err := suite.handler.Handle(context.Background(), suite.queryFor("owner@fleet.example"))

	suite.Require().NoError(err)
	suite.Require().Len(result.Drivers, 1)
	suite.Require().NotNil(result.Drivers[0].Position)
	suite.InDelta(19.0800, result.Drivers[0].Position.Latitude(), 1e-9)
}

func (suite *FleetSnapshotQueryHandlerTestSuite) TestHandle_ExcludesOtherAccounts() {
	mineID := suite.seedDriver(driverrepo.DriverDTO{
		OwnerEmail:  "owner@fleet.example",
		Name:        "Mine",
		Phone:       "9812345678",
		Email:       "mine@fleet.example",
		IsAvailable: true,
	}, nil, nil, nil)

	suite.seedDriver(driverrepo.DriverDTO{
		OwnerEmail:  "someone-else@fleet.example",
		Name:        "Foreign",
		Phone:       "9812345679",
		Email:       "foreign@fleet.example",
		IsAvailable: true,
	}, nil, nil, nil)

	suite.seedOrder(orderrepo.OrderDTO{
		OwnerEmail:   "someone-else@fleet.example",
		CustomerName: "Foreign",
		Address:      "1 Far Street",
		Status:       order.Pending.String(),
	})

	suite.expectNoCachedPositions()

	result, err := suite.handler.Handle(context.Background(), suite.queryFor("owner@fleet.example"))

	suite.Require().NoError(err)
	suite.Require().Len(result.Drivers, 1)
	suite.Equal(mineID, result.Drivers[0].DriverID.Value())
	suite.Empty(result.Orders)
}

func (suite *FleetSnapshotQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	invalidQuery := queries.FleetSnapshotQuery{}

	result, err := suite.handler.Handle(context.Background(), invalidQuery)

	suite.Require().Error(err)
	suite.Empty(result.Orders)
	suite.Empty(result.Drivers)
	suite.Contains(err.Error(), "must be created via NewFleetSnapshotQuery constructor")
}

func (suite *FleetSnapshotQueryHandlerTestSuite) queryFor(ownerEmail string) queries.FleetSnapshotQuery {
	query, err := queries.NewFleetSnapshotQuery(ownerEmail)
	suite.Require().NoError(err)
	return query
}

func (suite *FleetSnapshotQueryHandlerTestSuite) expectNoCachedPositions() {
	suite.liveCache.
		On("GetPositions", mock.Anything, mock.Anything).
		Return(map[int64]ports.DriverPosition{}, nil).
		Maybe()
}

func (suite *FleetSnapshotQueryHandlerTestSuite) seedDriver(
	dto driverrepo.DriverDTO, location *[2]float64, reportedAt *time.Time, currentOrderID *int64,
) int64 {
	if location != nil {
		dto.LocationLat = &location[0]
		dto.LocationLng = &location[1]
	}
	dto.LocationReportedAt = reportedAt
	dto.CurrentOrderID = currentOrderID

	suite.Require().NoError(suite.db.Create(&dto).Error)
	return dto.ID
}

func (suite *FleetSnapshotQueryHandlerTestSuite) seedOrder(dto orderrepo.OrderDTO) int64 {
	if dto.CustomerPhone == "" {
		dto.CustomerPhone = "9811111111"
	}
	if dto.Items == "" {
		dto.Items = "parcel"
	}
	if dto.Price == 0 {
		dto.Price = 250
	}
	if dto.PickupLat == 0 && dto.PickupLng == 0 {
		dto.PickupLat = 19.0760
		dto.PickupLng = 72.8777
	}

	suite.Require().NoError(suite.db.Create(&dto).Error)
	return dto.ID
}

func TestFleetSnapshotQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(FleetSnapshotQueryHandlerTestSuite))
}
