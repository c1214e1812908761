package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cardtrack/internal/adapters/out/postgres/auditrepo"
	"cardtrack/internal/core/application/usecases/queries"
	"cardtrack/internal/core/domain/model/audit"
	"cardtrack/internal/core/domain/model/kernel"
)

// GetAuditLogQueryHandlerTestSuite covers the audit trail read model:
// newest-first ordering, entity filtering, and cursor paging.
type GetAuditLogQueryHandlerTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	ledger    *auditrepo.GormAuditLedger
	handler   queries.GetAuditLogQueryHandler
}

func (suite *GetAuditLogQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&auditrepo.AuditEntryDTO{}))
}

func (suite *GetAuditLogQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE audit_entries").Error)
	suite.ledger = auditrepo.NewGormAuditLedger(suite.db)
	suite.handler = queries.NewGetAuditLogQueryHandler(suite.db)
}

func (suite *GetAuditLogQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetAuditLogQueryHandlerTestSuite) appendEntry(entityID, newValue string) {
	actor, err := kernel.NewActor("42", "j.smith")
	suite.Require().NoError(err)

	entry, err := audit.NewEntry(
		audit.ActionStatusUpdate, actor, entityID,
		"status", "Pending", newValue, "Web", "")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.ledger.Append(context.Background(), entry))
}

func (suite *GetAuditLogQueryHandlerTestSuite) TestHandle_NewestFirst() {
	ctx := context.Background()
	suite.appendEntry("delivery-1", "Shipped")
	time.Sleep(5 * time.Millisecond)
	suite.appendEntry("delivery-1", "Delivered")

	query, err := queries.NewGetAuditLogQuery(audit.Filter{}, audit.Page{})
	suite.Require().NoError(err)

	page, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(page.Entries, 2)
	suite.Equal("Delivered", page.Entries[0].NewValue)
	suite.Equal("Shipped", page.Entries[1].NewValue)
	suite.False(page.HasMore)
}

func (suite *GetAuditLogQueryHandlerTestSuite) TestHandle_EntityFilter() {
	ctx := context.Background()
	suite.appendEntry("delivery-1", "Shipped")
	suite.appendEntry("delivery-2", "Failed")

	query, err := queries.NewGetAuditLogQuery(audit.Filter{
		EntityType: audit.EntityTypeDelivery,
		EntityID:   "delivery-2",
	}, audit.Page{})
	suite.Require().NoError(err)

	page, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(page.Entries, 1)
	suite.Equal("delivery-2", page.Entries[0].EntityID)
}

func (suite *GetAuditLogQueryHandlerTestSuite) TestHandle_CursorPaging() {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		suite.appendEntry("delivery-1", "Shipped")
		time.Sleep(2 * time.Millisecond)
	}

	query, err := queries.NewGetAuditLogQuery(audit.Filter{}, audit.Page{Limit: 2})
	suite.Require().NoError(err)

	first, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(first.Entries, 2)
	suite.True(first.HasMore)
	suite.NotEmpty(first.NextCursor)

	query, err = queries.NewGetAuditLogQuery(audit.Filter{}, audit.Page{Limit: 2, Cursor: first.NextCursor})
	suite.Require().NoError(err)

	second, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(second.Entries, 2)
	suite.True(second.HasMore)

	query, err = queries.NewGetAuditLogQuery(audit.Filter{}, audit.Page{Limit: 2, Cursor: second.NextCursor})
	suite.Require().NoError(err)

	last, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(last.Entries, 1)
	suite.False(last.HasMore)
	suite.Empty(last.NextCursor)

	seen := make(map[string]bool)
	for _, page := range []queries.AuditLogPage{first, second, last} {
		for _, entry := range page.Entries {
			suite.False(seen[entry.ID.String()], "entry repeated across pages")
			seen[entry.ID.String()] = true
		}
	}
	suite.Len(seen, 5)
}

func (suite *GetAuditLogQueryHandlerTestSuite) TestNewQuery_MalformedCursor() {
	_, err := queries.NewGetAuditLogQuery(audit.Filter{}, audit.Page{Cursor: "garbage"})
	suite.Require().Error(err)
}

func (suite *GetAuditLogQueryHandlerTestSuite) TestHandle_Unconstructed() {
	_, err := suite.handler.Handle(context.Background(), queries.GetAuditLogQuery{})
	suite.Require().ErrorIs(err, queries.ErrGetAuditLogQueryIsNotConstructed)
}

func TestGetAuditLogQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetAuditLogQueryHandlerTestSuite))
}
