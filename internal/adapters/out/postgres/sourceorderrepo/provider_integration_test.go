package sourceorderrepo_test

import (
	"context"
	"testing"

	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/adapters/out/postgres/sourceorderrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type SourceOrderProviderIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	provider  *sourceorderrepo.GormSourceOrderProvider
}

func (suite *SourceOrderProviderIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
	suite.provider = sourceorderrepo.NewGormSourceOrderProvider(db)
}

func (suite *SourceOrderProviderIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *SourceOrderProviderIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))
}

func (suite *SourceOrderProviderIntegrationTestSuite) TestGet_ReturnsLinesInOrder() {
	ctx := context.Background()
	raw, err := pgtest.SeedSalesOrder(ctx, suite.db, ports.SourceOrderStatusCompleted, 3, 5)
	suite.Require().NoError(err)
	id, err := kernel.UUIDFromBytes(raw[:])
	suite.Require().NoError(err)

	source, err := suite.provider.Get(ctx, id)

	suite.Require().NoError(err)
	suite.True(source.IsCompleted())
	suite.Require().Len(source.Lines, 2)
	suite.Equal("SKU-001", source.Lines[0].ProductRef)
	suite.Equal(3, source.Lines[0].Quantity)
	suite.Equal(5, source.Lines[1].Quantity)
	suite.InDelta(200.0, source.Lines[1].UnitPrice, 0.001)
}

func (suite *SourceOrderProviderIntegrationTestSuite) TestGet_Missing_ReturnsNotFound() {
	_, err := suite.provider.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestSourceOrderProviderIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(SourceOrderProviderIntegrationTestSuite))
}
