package cmd

import (
	httpin "cardtrack/internal/adapters/in/http"
	"cardtrack/internal/adapters/out/postgres"
	"cardtrack/internal/adapters/out/postgres/auditrepo"
	"cardtrack/internal/core/application/usecases/commands"
	"cardtrack/internal/core/application/usecases/queries"
	"cardtrack/internal/core/domain/model/delivery"
	"cardtrack/internal/core/domain/services"
	"cardtrack/internal/core/ports"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	ledger     ports.AuditLedger
	normalizer services.RowNormalizer
	policy     delivery.TransitionPolicy
	config     Config
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	policy := delivery.DefaultTransitionPolicy()
	if config.TransitionPolicy == "any" {
		policy = delivery.AnyTransitionPolicy()
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		ledger:     auditrepo.NewGormAuditLedger(gormDB),
		normalizer: services.NewRowNormalizer(),
		policy:     policy,
		config:     config,
	}
}

func (c *CompositionRoot) deliveryUoWFactory() commands.DeliveryUoWFactory {
	return FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateDeliveryCommandHandler() commands.CreateDeliveryCommandHandler {
	return commands.NewCreateDeliveryCommandHandler(c.deliveryUoWFactory(), c.ledger)
}

func (c *CompositionRoot) CreateApplyChangeCommandHandler() commands.ApplyChangeCommandHandler {
	return commands.NewApplyChangeCommandHandler(c.deliveryUoWFactory(), c.ledger, c.policy)
}

func (c *CompositionRoot) CreateImportDeliveriesCommandHandler() commands.ImportDeliveriesCommandHandler {
	return commands.NewImportDeliveriesCommandHandler(c.deliveryUoWFactory(), c.ledger, c.normalizer, c.policy)
}

func (c *CompositionRoot) CreateMarkOverdueCommandHandler() commands.MarkOverdueCommandHandler {
	return commands.NewMarkOverdueCommandHandler(c.deliveryUoWFactory(), c.ledger, c.policy)
}

func (c *CompositionRoot) CreateListDeliveriesQueryHandler() queries.ListDeliveriesQueryHandler {
	return queries.NewListDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListExceptionsQueryHandler() queries.ListExceptionsQueryHandler {
	return queries.NewListExceptionsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveryQueryHandler() queries.GetDeliveryQueryHandler {
	return queries.NewGetDeliveryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAuditLogQueryHandler() queries.GetAuditLogQueryHandler {
	return queries.NewGetAuditLogQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateDeliveryCommandHandler(),
		c.CreateApplyChangeCommandHandler(),
		c.CreateImportDeliveriesCommandHandler(),
		c.CreateListDeliveriesQueryHandler(),
		c.CreateListExceptionsQueryHandler(),
		c.CreateGetDeliveryQueryHandler(),
		c.CreateGetAuditLogQueryHandler(),
		c.config.ImportMaxRows,
	)
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}
