package cmd

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/in/kafka/ordercompleted"
	"fulfillment/internal/adapters/out/kafka/statuschanged"
	"fulfillment/internal/adapters/out/metrics"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/sourceorderrepo"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/resilience"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	logger     *slog.Logger
	policy     fulfillment.Policy
	recorder   *metrics.Recorder
	publisher  *statuschanged.Publisher
	uowFactory *postgres.GormUnitOfWorkFactory
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	readiness, err := fulfillment.ParseShipReadiness(config.ShipPolicy)
	if err != nil {
		return nil, fmt.Errorf("invalid ship policy: %w", err)
	}

	c := &CompositionRoot{
		config:   config,
		gormDB:   gormDB,
		logger:   logger,
		policy:   fulfillment.NewPolicy(config.StrictTransitions, readiness),
		recorder: metrics.NewRecorder(),
	}

	notifiers := []ports.StatusChangeNotifier{c.recorder}
	if brokers := config.KafkaBrokers(); len(brokers) > 0 {
		breaker := resilience.NewCircuitBreaker(
			resilience.DefaultCircuitBreakerConfig("kafka-status-publisher"), logger)
		c.publisher = statuschanged.NewPublisher(
			statuschanged.NewWriter(brokers, config.KafkaFulfillmentStatusTopic), breaker, logger)
		notifiers = append(notifiers, c.publisher)
	}
	c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, logger, notifiers...)

	return c, nil
}

func (c *CompositionRoot) Recorder() *metrics.Recorder {
	return c.recorder
}

func (c *CompositionRoot) DB() *gorm.DB {
	return c.gormDB
}

func (c *CompositionRoot) CreateCreateFulfillmentOrderCommandHandler() commands.CreateFulfillmentOrderCommandHandler {
	return commands.NewCreateFulfillmentOrderCommandHandler(
		c.numberingUoWFactory(),
		sourceorderrepo.NewGormSourceOrderProvider(c.gormDB),
	)
}

func (c *CompositionRoot) CreateUpdateFulfillmentStatusCommandHandler() commands.UpdateFulfillmentStatusCommandHandler {
	return commands.NewUpdateFulfillmentStatusCommandHandler(c.fulfillmentUoWFactory(), c.policy)
}

func (c *CompositionRoot) CreatePickItemCommandHandler() commands.PickItemCommandHandler {
	return commands.NewPickItemCommandHandler(c.fulfillmentUoWFactory(), services.NewStatusRollup())
}

func (c *CompositionRoot) CreatePackItemCommandHandler() commands.PackItemCommandHandler {
	return commands.NewPackItemCommandHandler(c.fulfillmentUoWFactory(), services.NewStatusRollup())
}

func (c *CompositionRoot) CreateShipPackageCommandHandler() commands.ShipPackageCommandHandler {
	return commands.NewShipPackageCommandHandler(c.numberingUoWFactory(), c.policy)
}

func (c *CompositionRoot) CreateGetFulfillmentOrderQueryHandler() queries.GetFulfillmentOrderQueryHandler {
	return queries.NewGetFulfillmentOrderQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateListFulfillmentOrdersQueryHandler() queries.ListFulfillmentOrdersQueryHandler {
	return queries.NewListFulfillmentOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetShippingRatesQueryHandler() queries.GetShippingRatesQueryHandler {
	return queries.NewGetShippingRatesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetFulfillmentStatsQueryHandler() queries.GetFulfillmentStatsQueryHandler {
	return queries.NewGetFulfillmentStatsQueryHandler(c.gormDB)
}

// HTTPHandlers collects the use cases served by the REST API.
func (c *CompositionRoot) HTTPHandlers() http.Handlers {
	return http.Handlers{
		CreateOrder:   c.CreateCreateFulfillmentOrderCommandHandler(),
		UpdateStatus:  c.CreateUpdateFulfillmentStatusCommandHandler(),
		PickItem:      c.CreatePickItemCommandHandler(),
		PackItem:      c.CreatePackItemCommandHandler(),
		ShipPackage:   c.CreateShipPackageCommandHandler(),
		GetOrder:      c.CreateGetFulfillmentOrderQueryHandler(),
		ListOrders:    c.CreateListFulfillmentOrdersQueryHandler(),
		ShippingRates: c.CreateGetShippingRatesQueryHandler(),
		Stats:         c.CreateGetFulfillmentStatsQueryHandler(),
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateGetFulfillmentStatsQueryHandler(),
		c.recorder,
		c.config.StatsJobSchedule,
		c.logger,
	)
}

// CreateOrderCompletedConsumer returns nil when Kafka is not configured.
func (c *CompositionRoot) CreateOrderCompletedConsumer() *ordercompleted.Consumer {
	brokers := c.config.KafkaBrokers()
	if len(brokers) == 0 {
		return nil
	}
	reader := ordercompleted.NewReader(brokers, c.config.KafkaConsumerGroup, c.config.KafkaOrderCompletedTopic)
	return ordercompleted.NewConsumer(reader, c.CreateCreateFulfillmentOrderCommandHandler(), c.recorder, c.logger)
}

// Close flushes the status publisher.
func (c *CompositionRoot) Close() error {
	if c.publisher == nil {
		return nil
	}
	return c.publisher.Close()
}

func (c *CompositionRoot) fulfillmentUoWFactory() commands.FulfillmentUoWFactory {
	return FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) numberingUoWFactory() commands.NumberingUoWFactory {
	return FuncNumberingUoWFactory(func() commands.NumberingUoW {
		return c.uowFactory.Create()
	})
}

type FuncFulfillmentUoWFactory func() commands.FulfillmentUoW

func (f FuncFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	return f()
}

type FuncNumberingUoWFactory func() commands.NumberingUoW

func (f FuncNumberingUoWFactory) Create() commands.NumberingUoW {
	return f()
}
