package cmd

import (
	"log/slog"

	"gorm.io/gorm"

	httpadapter "pharmaflow/internal/adapters/in/http"
	"pharmaflow/internal/adapters/out/broadcast"
	"pharmaflow/internal/adapters/out/ocr"
	"pharmaflow/internal/adapters/out/postgres"
	"pharmaflow/internal/adapters/out/postgres/inventoryrepo"
	"pharmaflow/internal/core/application/usecases/commands"
	"pharmaflow/internal/core/application/usecases/queries"
	"pharmaflow/internal/core/domain/services"
	"pharmaflow/internal/jobs"
	"pharmaflow/internal/pkg/locks"
)

// CompositionRoot wires adapters into command and query handlers. Shared
// state lives here: the unit of work factory, the event hub and the per-order
// lock set all command handlers synchronize on.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	hub        *broadcast.Hub
	orderLocks *locks.KeyedMutex
	logger     *slog.Logger
}

// NewCompositionRoot creates the application's object graph root.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		hub:        broadcast.NewHub(logger),
		orderLocks: locks.NewKeyedMutex(),
		logger:     logger,
	}
}

// Hub exposes the event hub for publishing and SSE subscriptions.
func (c *CompositionRoot) Hub() *broadcast.Hub {
	return c.hub
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderInventoryUoWFactory = FuncOrderInventoryUoWFactory(func() commands.OrderInventoryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.hub)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.orderUoWFactory(), c.hub, c.orderLocks)
}

func (c *CompositionRoot) CreateAssignDeliveryAgentCommandHandler() commands.AssignDeliveryAgentCommandHandler {
	var f commands.OrderAgentUoWFactory = FuncOrderAgentUoWFactory(func() commands.OrderAgentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignDeliveryAgentCommandHandler(f, c.hub, c.orderLocks)
}

func (c *CompositionRoot) CreateRespondToAssignmentCommandHandler() commands.RespondToAssignmentCommandHandler {
	return commands.NewRespondToAssignmentCommandHandler(c.orderUoWFactory(), c.hub, c.orderLocks)
}

func (c *CompositionRoot) CreateUpdateDeliveryLocationCommandHandler() commands.UpdateDeliveryLocationCommandHandler {
	return commands.NewUpdateDeliveryLocationCommandHandler(c.orderUoWFactory(), c.hub, c.orderLocks)
}

func (c *CompositionRoot) CreateExpireAssignmentsCommandHandler() commands.ExpireAssignmentsCommandHandler {
	return commands.NewExpireAssignmentsCommandHandler(c.orderUoWFactory(), c.hub, c.orderLocks)
}

func (c *CompositionRoot) CreateCreateAgentCommandHandler() commands.CreateAgentCommandHandler {
	var f commands.AgentUoWFactory = FuncAgentUoWFactory(func() commands.AgentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateAgentCommandHandler(f)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPharmacyOrdersQueryHandler() queries.GetPharmacyOrdersQueryHandler {
	return queries.NewGetPharmacyOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAgentOrdersQueryHandler() queries.GetAgentOrdersQueryHandler {
	return queries.NewGetAgentOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableAgentsQueryHandler() queries.GetAvailableAgentsQueryHandler {
	return queries.NewGetAvailableAgentsQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the inbound HTTP adapter.
func (c *CompositionRoot) CreateHTTPServer() (*httpadapter.Server, error) {
	ocrClient, err := ocr.NewClient(c.config.OCRServiceURL, nil)
	if err != nil {
		return nil, err
	}

	return httpadapter.NewServer(httpadapter.Dependencies{
		OCRClient: ocrClient,
		Inventory: inventoryrepo.NewGormInventoryRepository(c.gormDB),
		Matcher:   services.NewPrescriptionMatcher(c.config.MatchTTL),
		Builder:   services.NewOrderRequestBuilder(),
		Hub:       c.hub,

		CreateOrderHandler:         c.CreateCreateOrderCommandHandler(),
		TransitionOrderHandler:     c.CreateTransitionOrderCommandHandler(),
		AssignAgentHandler:         c.CreateAssignDeliveryAgentCommandHandler(),
		RespondToAssignmentHandler: c.CreateRespondToAssignmentCommandHandler(),
		UpdateLocationHandler:      c.CreateUpdateDeliveryLocationCommandHandler(),
		CreateAgentHandler:         c.CreateCreateAgentCommandHandler(),

		GetOrderHandler:           c.CreateGetOrderQueryHandler(),
		GetPharmacyOrdersHandler:  c.CreateGetPharmacyOrdersQueryHandler(),
		GetAgentOrdersHandler:     c.CreateGetAgentOrdersQueryHandler(),
		GetAvailableAgentsHandler: c.CreateGetAvailableAgentsQueryHandler(),

		MatchTTL: c.config.MatchTTL,
	}), nil
}

// CreateJobManager assembles the background jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateExpireAssignmentsCommandHandler(),
		c.config.AssignmentAcceptTimeout,
		c.logger,
	)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncAgentUoWFactory func() commands.AgentUoW

func (f FuncAgentUoWFactory) Create() commands.AgentUoW {
	return f()
}

type FuncOrderInventoryUoWFactory func() commands.OrderInventoryUoW

func (f FuncOrderInventoryUoWFactory) Create() commands.OrderInventoryUoW {
	return f()
}

type FuncOrderAgentUoWFactory func() commands.OrderAgentUoW

func (f FuncOrderAgentUoWFactory) Create() commands.OrderAgentUoW {
	return f()
}
