// Package http exposes the card delivery tracker over a JSON API built on
// Echo. Handlers translate wire requests into commands and queries and map
// domain errors onto HTTP status codes.
package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"cardtrack/internal/adapters/out/tabular"
	"cardtrack/internal/core/application/usecases/commands"
	"cardtrack/internal/core/application/usecases/queries"
	"cardtrack/internal/core/domain/model/audit"
	"cardtrack/internal/core/domain/model/kernel"
	"cardtrack/internal/core/ports"
	"cardtrack/internal/pkg/errs"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createDeliveryHandler   commands.CreateDeliveryCommandHandler
	applyChangeHandler      commands.ApplyChangeCommandHandler
	importDeliveriesHandler commands.ImportDeliveriesCommandHandler

	// Query handlers
	listDeliveriesHandler queries.ListDeliveriesQueryHandler
	listExceptionsHandler queries.ListExceptionsQueryHandler
	getDeliveryHandler    queries.GetDeliveryQueryHandler
	getAuditLogHandler    queries.GetAuditLogQueryHandler

	importMaxRows int
}

// NewServer creates a new HTTP server with the required command and query handlers.
// importMaxRows caps the number of data rows one upload may carry.
func NewServer(
	createDeliveryHandler commands.CreateDeliveryCommandHandler,
	applyChangeHandler commands.ApplyChangeCommandHandler,
	importDeliveriesHandler commands.ImportDeliveriesCommandHandler,
	listDeliveriesHandler queries.ListDeliveriesQueryHandler,
	listExceptionsHandler queries.ListExceptionsQueryHandler,
	getDeliveryHandler queries.GetDeliveryQueryHandler,
	getAuditLogHandler queries.GetAuditLogQueryHandler,
	importMaxRows int,
) *Server {
	return &Server{
		createDeliveryHandler:   createDeliveryHandler,
		applyChangeHandler:      applyChangeHandler,
		importDeliveriesHandler: importDeliveriesHandler,
		listDeliveriesHandler:   listDeliveriesHandler,
		listExceptionsHandler:   listExceptionsHandler,
		getDeliveryHandler:      getDeliveryHandler,
		getAuditLogHandler:      getAuditLogHandler,
		importMaxRows:           importMaxRows,
	}
}

// RegisterRoutes wires the API surface onto the Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.GET("/deliveries", s.ListDeliveries)
	api.POST("/deliveries", s.CreateDelivery)
	api.GET("/deliveries/:id", s.GetDelivery)
	api.POST("/deliveries/:id/changes", s.ApplyChange)
	api.POST("/deliveries/import", s.ImportDeliveries)
	api.GET("/exceptions", s.ListExceptions)
	api.GET("/exceptions/:id", s.GetException)
	api.POST("/exceptions/:id", s.SubmitCorrection)
	api.GET("/audit-log", s.GetAuditLog)

	e.GET("/health", s.Health)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateDelivery handles POST /api/v1/deliveries - registers one delivery.
func (s *Server) CreateDelivery(ctx echo.Context) error {
	var body NewDelivery
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCreateDeliveryCommand(
		kernel.NewUUID(),
		body.TrackingNumber,
		body.Recipient,
		body.Address,
		body.Courier,
		actorFromRequest(ctx),
		sourceFromRequest(ctx),
	)
	if err != nil {
		return badRequest(ctx, "Invalid delivery data: "+err.Error())
	}

	created, err := s.createDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil && !errors.Is(err, errs.ErrAuditAppendFailed) {
		return writeError(ctx, err)
	}

	response := deliveryFromAggregate(created)
	response.AuditPending = err != nil
	return ctx.JSON(http.StatusCreated, response)
}

// ListDeliveries handles GET /api/v1/deliveries - the tracking board roster.
func (s *Server) ListDeliveries(ctx echo.Context) error {
	result, err := s.listDeliveriesHandler.Handle(ctx.Request().Context(), queries.NewListDeliveriesQuery())
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]Delivery, len(result))
	for i, resp := range result {
		response[i] = deliveryFromQuery(resp)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetDelivery handles GET /api/v1/deliveries/:id.
func (s *Server) GetDelivery(ctx echo.Context) error {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}

	query, err := queries.NewGetDeliveryQuery(id)
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}

	result, err := s.getDeliveryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, deliveryFromQuery(result))
}

// ApplyChange handles PATCH /api/v1/deliveries/:id/changes - one logical
// change to a delivery: status transition, field correction, or both.
func (s *Server) ApplyChange(ctx echo.Context) error {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}

	var body DeliveryChange
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	updates, err := body.fieldUpdates()
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewApplyChangeCommand(
		id, updates, body.Version, actorFromRequest(ctx), sourceFromRequest(ctx), body.Remarks)
	if err != nil {
		return badRequest(ctx, "Invalid change: "+err.Error())
	}

	updated, err := s.applyChangeHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil && !errors.Is(err, errs.ErrAuditAppendFailed) {
		return writeError(ctx, err)
	}

	response := deliveryFromAggregate(updated)
	response.AuditPending = err != nil
	return ctx.JSON(http.StatusOK, response)
}

// ImportDeliveries handles POST /api/v1/deliveries/import - bulk upload of
// a CSV or XLSX file under the "file" form field.
func (s *Server) ImportDeliveries(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return badRequest(ctx, "Missing upload file")
	}

	cmd, err := commands.NewImportDeliveriesCommand(
		fileHeader.Filename,
		commands.ConflictMode(ctx.QueryParam("onConflict")),
		actorFromRequest(ctx),
		sourceFromRequest(ctx),
	)
	if err != nil {
		return badRequest(ctx, "Invalid import request: "+err.Error())
	}

	rows, err := s.rowSource(fileHeader)
	if err != nil {
		return writeError(ctx, err)
	}
	defer rows.Close()

	report, err := s.importDeliveriesHandler.Handle(ctx.Request().Context(), cmd, rows)
	if err != nil && !errors.Is(err, errs.ErrAuditAppendFailed) {
		return writeError(ctx, err)
	}

	response := importResultFromReport(report)
	response.AuditPending = err != nil
	return ctx.JSON(http.StatusOK, response)
}

// ListExceptions handles GET /api/v1/exceptions - the review worklist of
// Failed and Delayed deliveries.
func (s *Server) ListExceptions(ctx echo.Context) error {
	result, err := s.listExceptionsHandler.Handle(ctx.Request().Context(), queries.NewListExceptionsQuery())
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]Delivery, len(result))
	for i, resp := range result {
		response[i] = deliveryFromQuery(resp)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetException handles GET /api/v1/exceptions/:id - one record for the
// review form.
func (s *Server) GetException(ctx echo.Context) error {
	return s.GetDelivery(ctx)
}

// SubmitCorrection handles POST /api/v1/exceptions/:id - resolves a Failed
// or Delayed delivery. A correction the transition policy rejects returns
// 422 together with the last persisted record state, so the reviewer sees
// what the record currently holds.
func (s *Server) SubmitCorrection(ctx echo.Context) error {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}

	var body DeliveryChange
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	updates, err := body.fieldUpdates()
	if err != nil {
		if isCorrectionRejection(err) {
			return s.rejectCorrection(ctx, id, err)
		}
		return writeError(ctx, err)
	}

	cmd, err := commands.NewApplyChangeCommand(
		id, updates, body.Version, actorFromRequest(ctx), sourceFromRequest(ctx), body.Remarks)
	if err != nil {
		return badRequest(ctx, "Invalid correction: "+err.Error())
	}

	updated, err := s.applyChangeHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil && !errors.Is(err, errs.ErrAuditAppendFailed) {
		if isCorrectionRejection(err) {
			return s.rejectCorrection(ctx, id, err)
		}
		return writeError(ctx, err)
	}

	response := deliveryFromAggregate(updated)
	response.AuditPending = err != nil
	return ctx.JSON(http.StatusOK, response)
}

// isCorrectionRejection reports whether the error is a validation failure
// the review form should re-render over, as opposed to a lookup, conflict,
// or infrastructure failure.
func isCorrectionRejection(err error) bool {
	return errors.Is(err, errs.ErrValueIsInvalid) || errors.Is(err, errs.ErrValueIsRequired)
}

// rejectCorrection answers a rejected correction with the stored record so
// the review form can reload without a second round trip.
func (s *Server) rejectCorrection(ctx echo.Context, id kernel.UUID, cause error) error {
	reject := CorrectionReject{
		Error: Error{
			Code:    http.StatusUnprocessableEntity,
			Message: cause.Error(),
		},
	}

	query, err := queries.NewGetDeliveryQuery(id)
	if err != nil {
		return writeError(ctx, err)
	}

	current, err := s.getDeliveryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	record := deliveryFromQuery(current)
	reject.Delivery = &record
	return ctx.JSON(http.StatusUnprocessableEntity, reject)
}

// GetAuditLog handles GET /api/v1/audit-log - one page of the audit trail.
func (s *Server) GetAuditLog(ctx echo.Context) error {
	var limit int
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(ctx, "Invalid limit")
		}
		limit = parsed
	}

	query, err := queries.NewGetAuditLogQuery(
		audit.Filter{
			EntityType: ctx.QueryParam("entityType"),
			EntityID:   ctx.QueryParam("entityId"),
		},
		audit.Page{Limit: limit, Cursor: ctx.QueryParam("cursor")},
	)
	if err != nil {
		return writeError(ctx, err)
	}

	page, err := s.getAuditLogHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := AuditLog{
		Entries:    make([]AuditEntry, len(page.Entries)),
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}
	for i, entry := range page.Entries {
		response.Entries[i] = auditEntryFromQuery(entry)
	}
	return ctx.JSON(http.StatusOK, response)
}

// rowSource opens the upload and picks the reader matching its extension.
// CSV sources own the upload handle; XLSX workbooks are read fully at open,
// so the handle is released immediately.
func (s *Server) rowSource(fileHeader *multipart.FileHeader) (ports.RowSource, error) {
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".csv":
		upload, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		return tabular.NewCSVRowSource(upload, s.importMaxRows), nil
	case ".xlsx":
		upload, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		defer upload.Close()
		return tabular.NewXLSXRowSource(upload, s.importMaxRows)
	default:
		return nil, errs.NewValueIsInvalidError("file extension")
	}
}

// actorFromRequest identifies the operator from the forwarded identity
// headers. Requests without an identity run as the system actor.
func actorFromRequest(ctx echo.Context) kernel.Actor {
	name := ctx.Request().Header.Get("X-User-Name")
	if name == "" {
		return kernel.SystemActor()
	}

	actor, err := kernel.NewActor(ctx.Request().Header.Get("X-User-Id"), name)
	if err != nil {
		return kernel.SystemActor()
	}
	return actor
}

func sourceFromRequest(ctx echo.Context) string {
	return ctx.Request().Header.Get("X-Request-Source")
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps domain errors onto HTTP status codes.
func writeError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrDuplicateValue), errors.Is(err, errs.ErrConcurrentUpdate):
		code = http.StatusConflict
	case errors.Is(err, tabular.ErrRowLimitExceeded):
		code = http.StatusRequestEntityTooLarge
	case errors.Is(err, errs.ErrIOFailure):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsRequired), errors.Is(err, errs.ErrValueIsInvalid):
		code = http.StatusBadRequest
	}

	return ctx.JSON(code, Error{
		Code:    code,
		Message: err.Error(),
	})
}
