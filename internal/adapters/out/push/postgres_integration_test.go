package push_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"shopdispatch/internal/adapters/out/push"
	"shopdispatch/internal/core/domain/model/kernel"
	"shopdispatch/internal/core/ports"
	"shopdispatch/internal/pkg/errs"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PostgresChannelIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	dsn       string
	db        *sql.DB
}

func TestPostgresChannelIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(PostgresChannelIntegrationTestSuite))
}

func (suite *PostgresChannelIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30*time.Second)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)
	suite.dsn = dsn

	db, err := sql.Open("postgres", dsn)
	suite.Require().NoError(err)
	suite.db = db
}

func (suite *PostgresChannelIntegrationTestSuite) TearDownSuite() {
	if suite.db != nil {
		suite.Require().NoError(suite.db.Close())
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *PostgresChannelIntegrationTestSuite) TestNotifyIsDelivered() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := push.NewPostgresChannel(suite.dsn, discardLogger())
	events, err := channel.Subscribe(ctx, ports.EventRiderLocation)
	suite.Require().NoError(err)

	_, err = suite.db.ExecContext(ctx, "SELECT pg_notify($1, $2)", ports.EventRiderLocation, stampedPayload)
	suite.Require().NoError(err)

	p := receive(suite.T(), events)
	suite.Equal(kernel.ID("r1"), p.RiderID())

	cancel()
	requireClosed(suite.T(), events)
}

func (suite *PostgresChannelIntegrationTestSuite) TestWrongPasswordIsUnauthorized() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host, err := suite.container.Host(ctx)
	suite.Require().NoError(err)
	port, err := suite.container.MappedPort(ctx, "5432/tcp")
	suite.Require().NoError(err)

	dsn := "postgres://testuser:wrong@" + host + ":" + port.Port() + "/testdb?sslmode=disable"
	_, err = push.NewPostgresChannel(dsn, discardLogger()).Subscribe(ctx, ports.EventRiderLocation)

	suite.True(errs.IsUnauthorized(err), "got %v", err)
}
