package livecache_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/livecache"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RedisLiveLocationCacheTestSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *redis.Client
	cache     *livecache.RedisLiveLocationCache
}

func (suite *RedisLiveLocationCacheTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	endpoint, err := container.Endpoint(ctx, "")
	suite.Require().NoError(err)

	suite.client = redis.NewClient(&redis.Options{Addr: endpoint})
	suite.Require().NoError(suite.client.Ping(ctx).Err())

	suite.cache = livecache.NewRedisLiveLocationCache(suite.client, time.Minute)
}

func (suite *RedisLiveLocationCacheTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.Require().NoError(suite.client.Close())
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *RedisLiveLocationCacheTestSuite) SetupTest() {
	suite.Require().NoError(suite.client.FlushAll(context.Background()).Err())
}

func (suite *RedisLiveLocationCacheTestSuite) TestSetPosition_GetPosition_RoundTrip() {
	ctx := context.Background()
	position := suite.position(7, 19.0800, 72.8800, time.Now().UTC().Truncate(time.Millisecond))

	suite.Require().NoError(suite.cache.SetPosition(ctx, position))

	cached, err := suite.cache.GetPosition(ctx, position.DriverID)
	suite.Require().NoError(err)
	suite.Require().NotNil(cached)
	suite.True(cached.DriverID.IsEqual(position.DriverID))
	suite.InDelta(19.0800, cached.Point.Latitude(), 1e-9)
	suite.InDelta(72.8800, cached.Point.Longitude(), 1e-9)
	suite.True(cached.ReportedAt.Equal(position.ReportedAt))
}

func (suite *RedisLiveLocationCacheTestSuite) TestGetPosition_Miss_ReturnsNil() {
	ctx := context.Background()
	driverID, err := kernel.NewID(424242)
	suite.Require().NoError(err)

	cached, err := suite.cache.GetPosition(ctx, driverID)
	suite.Require().NoError(err)
	suite.Nil(cached, "A cache miss is not an error")
}

func (suite *RedisLiveLocationCacheTestSuite) TestSetPosition_OverwritesPreviousReport() {
	ctx := context.Background()
	first := suite.position(7, 19.0800, 72.8800, time.Now().UTC().Add(-time.Minute))
	second := suite.position(7, 19.0900, 72.8900, time.Now().UTC())

	suite.Require().NoError(suite.cache.SetPosition(ctx, first))
	suite.Require().NoError(suite.cache.SetPosition(ctx, second))

	cached, err := suite.cache.GetPosition(ctx, first.DriverID)
	suite.Require().NoError(err)
	suite.Require().NotNil(cached)
	suite.InDelta(19.0900, cached.Point.Latitude(), 1e-9)
}

func (suite *RedisLiveLocationCacheTestSuite) TestGetPositions_SkipsMissingDrivers() {
	ctx := context.Background()
	present := suite.position(7, 19.0800, 72.8800, time.Now().UTC())
	absentID, err := kernel.NewID(8)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.cache.SetPosition(ctx, present))

	positions, err := suite.cache.GetPositions(ctx, []kernel.ID{present.DriverID, absentID})
	suite.Require().NoError(err)
	suite.Require().Len(positions, 1)

	cached, ok := positions[present.DriverID.Value()]
	suite.Require().True(ok)
	suite.InDelta(19.0800, cached.Point.Latitude(), 1e-9)
}

func (suite *RedisLiveLocationCacheTestSuite) TestGetPositions_EmptyInput_ReturnsEmptyMap() {
	positions, err := suite.cache.GetPositions(context.Background(), nil)
	suite.Require().NoError(err)
	suite.NotNil(positions)
	suite.Empty(positions)
}

func (suite *RedisLiveLocationCacheTestSuite) TestRemovePosition_DropsEntry() {
	ctx := context.Background()
	position := suite.position(7, 19.0800, 72.8800, time.Now().UTC())

	suite.Require().NoError(suite.cache.SetPosition(ctx, position))
	suite.Require().NoError(suite.cache.RemovePosition(ctx, position.DriverID))

	cached, err := suite.cache.GetPosition(ctx, position.DriverID)
	suite.Require().NoError(err)
	suite.Nil(cached)
}

func (suite *RedisLiveLocationCacheTestSuite) TestSetPosition_EntryExpires() {
	ctx := context.Background()
	shortLived := livecache.NewRedisLiveLocationCache(suite.client, 100*time.Millisecond)
	position := suite.position(7, 19.0800, 72.8800, time.Now().UTC())

	suite.Require().NoError(shortLived.SetPosition(ctx, position))

	time.Sleep(200 * time.Millisecond)

	cached, err := shortLived.GetPosition(ctx, position.DriverID)
	suite.Require().NoError(err)
	suite.Nil(cached, "Expired entries read as unknown positions")
}

func (suite *RedisLiveLocationCacheTestSuite) position(
	id int64, lat, lng float64, reportedAt time.Time,
) ports.DriverPosition {
	driverID, err := kernel.NewID(id)
	suite.Require().NoError(err)
	point, err := kernel.NewGeoPoint(lat, lng)
	suite.Require().NoError(err)

	return ports.DriverPosition{
		DriverID:   driverID,
		Point:      point,
		ReportedAt: reportedAt,
	}
}

func TestRedisLiveLocationCacheTestSuite(t *testing.T) {
	suite.Run(t, new(RedisLiveLocationCacheTestSuite))
}
