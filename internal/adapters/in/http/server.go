// Package http is the inbound HTTP adapter. It translates requests into
// commands and queries, maps domain errors to status codes, and streams
// order events over SSE. Actor identity arrives in X-Actor-Id and
// X-Actor-Role headers from the upstream auth collaborator; the domain
// re-checks role and ownership on every transition.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"pharmaflow/internal/adapters/out/broadcast"
	"pharmaflow/internal/core/application/usecases/commands"
	"pharmaflow/internal/core/application/usecases/queries"
	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/domain/model/order"
	"pharmaflow/internal/core/domain/model/prescription"
	"pharmaflow/internal/core/domain/services"
	"pharmaflow/internal/core/ports"
	"pharmaflow/internal/pkg/errs"
)

// Dependencies bundles everything the server coordinates.
type Dependencies struct {
	OCRClient ports.OCRClient
	Inventory ports.InventoryProvider
	Matcher   services.PrescriptionMatcher
	Builder   services.OrderRequestBuilder
	Hub       *broadcast.Hub

	CreateOrderHandler         commands.CreateOrderCommandHandler
	TransitionOrderHandler     commands.TransitionOrderCommandHandler
	AssignAgentHandler         commands.AssignDeliveryAgentCommandHandler
	RespondToAssignmentHandler commands.RespondToAssignmentCommandHandler
	UpdateLocationHandler      commands.UpdateDeliveryLocationCommandHandler
	CreateAgentHandler         commands.CreateAgentCommandHandler

	GetOrderHandler           queries.GetOrderQueryHandler
	GetPharmacyOrdersHandler  queries.GetPharmacyOrdersQueryHandler
	GetAgentOrdersHandler     queries.GetAgentOrdersQueryHandler
	GetAvailableAgentsHandler queries.GetAvailableAgentsQueryHandler

	MatchTTL time.Duration
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	deps Dependencies
}

// NewServer creates the HTTP server over the given dependencies.
func NewServer(deps Dependencies) *Server {
	return &Server{deps: deps}
}

// RegisterRoutes installs the validator and all routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewRequestValidator()

	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/prescriptions", s.UploadPrescription)
	api.POST("/orders/preview", s.PreviewOrder)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/transitions", s.TransitionOrder)
	api.POST("/orders/:id/assignment", s.AssignAgent)
	api.PUT("/orders/:id/assignment/response", s.RespondToAssignment)
	api.PUT("/orders/:id/location", s.UpdateLocation)
	api.GET("/orders/:id/events", s.StreamOrderEvents)
	api.POST("/agents", s.CreateAgent)
	api.GET("/agents", s.GetAvailableAgents)
	api.GET("/agents/:id/orders", s.GetAgentOrders)
	api.GET("/pharmacies/:id/orders", s.GetPharmacyOrders)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// UploadPrescription handles POST /api/v1/prescriptions. It runs the image
// through the recognition service, matches the mentions against current
// inventory and returns the initial selections with their validity window.
func (s *Server) UploadPrescription(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return badRequest(ctx, "Prescription image is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(ctx, "Prescription image is unreadable")
	}
	defer file.Close()
	image, err := io.ReadAll(file)
	if err != nil {
		return badRequest(ctx, "Prescription image is unreadable")
	}

	reqCtx := ctx.Request().Context()
	text, mentions, err := s.deps.OCRClient.ExtractMentions(reqCtx, image, fileHeader.Filename)
	if err != nil {
		return ctx.JSON(http.StatusBadGateway, ErrorResponse{
			Code:    http.StatusBadGateway,
			Message: "Recognition service failed: " + err.Error(),
		})
	}

	snapshots, err := s.deps.Inventory.Snapshots(reqCtx)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.deps.Matcher.Match(text, mentions, snapshots, time.Now())
	if err != nil {
		return respondError(ctx, err)
	}

	selections := result.Selections()
	selectionDTOs := make([]SelectionDTO, len(selections))
	for i, selection := range selections {
		selectionDTOs[i] = selectionToDTO(selection)
	}

	return ctx.JSON(http.StatusOK, PrescriptionResponse{
		ExtractedText: result.ExtractedText(),
		Selections:    selectionDTOs,
		Unavailable:   result.Unavailable(),
		Pharmacies:    snapshotsToDTO(result.Snapshots()),
		CreatedAt:     result.CreatedAt(),
		ExpiresAt:     result.CreatedAt().Add(result.TTL()),
	})
}

// PreviewOrder handles POST /api/v1/orders/preview. It validates the draft
// against live stock and returns the confirmation summary without creating
// anything.
func (s *Server) PreviewOrder(ctx echo.Context) error {
	var draft OrderDraftRequest
	if err := bindAndValidate(ctx, &draft); err != nil {
		return badRequest(ctx, err.Error())
	}

	_, summary, err := s.buildFromDraft(ctx, draft)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, PreviewResponse{
		PharmacyID:      summary.PharmacyID.String(),
		PharmacyName:    summary.PharmacyName,
		Total:           summary.Total,
		MixedPharmacies: summary.MixedPharmacies,
	})
}

// CreateOrder handles POST /api/v1/orders. It revalidates the draft against
// live stock and submits the order atomically with the stock reservation.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return unauthorized(ctx, err)
	}
	if actor.Role() != order.RoleCustomer {
		return forbidden(ctx, "Only customers can place orders")
	}

	var draft OrderDraftRequest
	if err = bindAndValidate(ctx, &draft); err != nil {
		return badRequest(ctx, err.Error())
	}

	request, _, err := s.buildFromDraft(ctx, draft)
	if err != nil {
		return respondError(ctx, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, actor.ID(), request)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	if err = s.deps.CreateOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{OrderID: orderID.String()})
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order identifier")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	detail, err := s.deps.GetOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderToDTO(detail))
}

// TransitionOrder handles POST /api/v1/orders/:id/transitions.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return unauthorized(ctx, err)
	}
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order identifier")
	}

	var body TransitionRequest
	if err = bindAndValidate(ctx, &body); err != nil {
		return badRequest(ctx, err.Error())
	}
	action, err := commands.ActionFromString(body.Action)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, actor, action, body.Reason)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	if err = s.deps.TransitionOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignAgent handles POST /api/v1/orders/:id/assignment. The proposal is
// provisional until the agent responds.
func (s *Server) AssignAgent(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return unauthorized(ctx, err)
	}
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order identifier")
	}

	var body AssignmentRequest
	if err = bindAndValidate(ctx, &body); err != nil {
		return badRequest(ctx, err.Error())
	}
	agentID, err := kernel.UUIDFromString(body.AgentID)
	if err != nil {
		return badRequest(ctx, "Invalid agent identifier")
	}

	cmd, err := commands.NewAssignDeliveryAgentCommand(orderID, actor, agentID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	if err = s.deps.AssignAgentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RespondToAssignment handles PUT /api/v1/orders/:id/assignment/response.
func (s *Server) RespondToAssignment(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return unauthorized(ctx, err)
	}
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order identifier")
	}

	var body AssignmentResponseRequest
	if err = bindAndValidate(ctx, &body); err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewRespondToAssignmentCommand(orderID, actor, *body.Accept)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	if err = s.deps.RespondToAssignmentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateLocation handles PUT /api/v1/orders/:id/location.
func (s *Server) UpdateLocation(ctx echo.Context) error {
	actor, err := actorFromHeaders(ctx)
	if err != nil {
		return unauthorized(ctx, err)
	}
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order identifier")
	}

	var body LocationRequest
	if err = bindAndValidate(ctx, &body); err != nil {
		return badRequest(ctx, err.Error())
	}
	location, err := kernel.NewGeoPoint(*body.Lat, *body.Lng)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewUpdateDeliveryLocationCommand(orderID, actor, location)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	if err = s.deps.UpdateLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// StreamOrderEvents handles GET /api/v1/orders/:id/events as an SSE stream.
// The subscription lives until the client disconnects.
func (s *Server) StreamOrderEvents(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order identifier")
	}

	events, cancel := s.deps.Hub.Subscribe(orderID)
	defer cancel()

	response := ctx.Response()
	response.Header().Set(echo.HeaderContentType, "text/event-stream")
	response.Header().Set("Cache-Control", "no-cache")
	response.Header().Set("Connection", "keep-alive")
	response.WriteHeader(http.StatusOK)
	response.Flush()

	for {
		select {
		case <-ctx.Request().Context().Done():
			return nil
		case event := <-events:
			payload, marshalErr := json.Marshal(event)
			if marshalErr != nil {
				continue
			}
			if _, writeErr := fmt.Fprintf(response, "data: %s\n\n", payload); writeErr != nil {
				return nil
			}
			response.Flush()
		}
	}
}

// CreateAgent handles POST /api/v1/agents.
func (s *Server) CreateAgent(ctx echo.Context) error {
	var body CreateAgentRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return badRequest(ctx, err.Error())
	}

	agentID := kernel.NewUUID()
	cmd, err := commands.NewCreateAgentCommand(agentID, body.Name, body.Phone)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	if err = s.deps.CreateAgentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateAgentResponse{AgentID: agentID.String()})
}

// GetAvailableAgents handles GET /api/v1/agents.
func (s *Server) GetAvailableAgents(ctx echo.Context) error {
	agents, err := s.deps.GetAvailableAgentsHandler.Handle(
		ctx.Request().Context(), queries.NewGetAvailableAgentsQuery())
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]AgentViewDTO, len(agents))
	for i, agent := range agents {
		response[i] = AgentViewDTO{ID: agent.ID.String(), Name: agent.Name, Phone: agent.Phone}
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetAgentOrders handles GET /api/v1/agents/:id/orders.
func (s *Server) GetAgentOrders(ctx echo.Context) error {
	agentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid agent identifier")
	}

	query, err := queries.NewGetAgentOrdersQuery(agentID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	summaries, err := s.deps.GetAgentOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, summariesToDTO(summaries))
}

// GetPharmacyOrders handles GET /api/v1/pharmacies/:id/orders.
func (s *Server) GetPharmacyOrders(ctx echo.Context) error {
	pharmacyID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid pharmacy identifier")
	}

	query, err := queries.NewGetPharmacyOrdersQuery(pharmacyID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	summaries, err := s.deps.GetPharmacyOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, summariesToDTO(summaries))
}

// buildFromDraft reconstructs the match state from the client's selections
// and revalidates it against live inventory.
func (s *Server) buildFromDraft(ctx echo.Context, draft OrderDraftRequest) (
	prescription.OrderCreationRequest, prescription.OrderSummary, error,
) {
	selections := make([]prescription.Selection, len(draft.Selections))
	for i, dto := range draft.Selections {
		selection, err := selectionFromDTO(dto)
		if err != nil {
			return prescription.OrderCreationRequest{}, prescription.OrderSummary{}, err
		}
		selections[i] = selection
	}

	result, err := prescription.NewMatchResult(
		"", selections, nil, nil, draft.CreatedAt, s.deps.MatchTTL)
	if err != nil {
		return prescription.OrderCreationRequest{}, prescription.OrderSummary{}, err
	}

	address, err := addressFromDTO(draft.DeliveryAddress)
	if err != nil {
		return prescription.OrderCreationRequest{}, prescription.OrderSummary{}, err
	}

	paymentMethod := order.CashOnDelivery
	if draft.PaymentMethod != "" {
		paymentMethod, err = order.PaymentMethodFromString(draft.PaymentMethod)
		if err != nil {
			return prescription.OrderCreationRequest{}, prescription.OrderSummary{}, err
		}
	}

	live, err := s.deps.Inventory.Snapshots(ctx.Request().Context())
	if err != nil {
		return prescription.OrderCreationRequest{}, prescription.OrderSummary{}, err
	}

	return s.deps.Builder.Build(result, live, address, paymentMethod, time.Now())
}

func orderIDParam(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}

func actorFromHeaders(ctx echo.Context) (order.Actor, error) {
	id, err := kernel.UUIDFromString(ctx.Request().Header.Get("X-Actor-Id"))
	if err != nil {
		return order.Actor{}, fmt.Errorf("invalid X-Actor-Id header: %w", err)
	}
	role, err := order.RoleFromString(ctx.Request().Header.Get("X-Actor-Role"))
	if err != nil {
		return order.Actor{}, fmt.Errorf("invalid X-Actor-Role header: %w", err)
	}
	return order.NewActor(id, role)
}

func bindAndValidate(ctx echo.Context, body any) error {
	if err := ctx.Bind(body); err != nil {
		return errors.New("invalid request body")
	}
	return ctx.Validate(body)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func unauthorized(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
		Code:    http.StatusUnauthorized,
		Message: err.Error(),
	})
}

func forbidden(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusForbidden, ErrorResponse{
		Code:    http.StatusForbidden,
		Message: message,
	})
}

// respondError maps domain errors to HTTP status codes: unknown objects to
// 404, business conflicts to 409, invalid values to 400, anything else 500.
func respondError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrAssignmentInProgress),
		errors.Is(err, prescription.ErrInsufficientStock),
		errors.Is(err, prescription.ErrMissingStockRecord),
		errors.Is(err, prescription.ErrStaleInventory):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, prescription.ErrNoItems):
		code = http.StatusBadRequest
	}
	return ctx.JSON(code, ErrorResponse{Code: code, Message: err.Error()})
}

func orderToDTO(detail queries.GetOrderQueryResponse) OrderResponse {
	response := OrderResponse{
		ID:            detail.ID.String(),
		PharmacyID:    detail.PharmacyID.String(),
		CustomerID:    detail.CustomerID.String(),
		Status:        detail.Status,
		PaymentMethod: detail.PaymentMethod,
		Street:        detail.Street,
		City:          detail.City,
		ZipCode:       detail.ZipCode,
		ContactPhone:  detail.ContactPhone,
		Total:         detail.Total,
		TrackingLat:   detail.TrackingLat,
		TrackingLng:   detail.TrackingLng,
		Items:         make([]OrderItemDTO, len(detail.Items)),
		History:       make([]StatusChangeDTO, len(detail.History)),
	}
	if detail.AgentID != nil {
		response.AgentID = detail.AgentID.String()
	}
	for i, item := range detail.Items {
		response.Items[i] = OrderItemDTO{
			MedicineID: item.MedicineID.String(),
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
		}
	}
	for i, change := range detail.History {
		response.History[i] = StatusChangeDTO{
			Status:    change.Status,
			Timestamp: change.Timestamp,
			Note:      change.Note,
		}
	}
	return response
}

func summariesToDTO(summaries []queries.OrderSummaryResponse) []OrderSummaryDTO {
	response := make([]OrderSummaryDTO, len(summaries))
	for i, summary := range summaries {
		response[i] = OrderSummaryDTO{
			ID:         summary.ID.String(),
			CustomerID: summary.CustomerID.String(),
			Status:     summary.Status,
			Total:      summary.Total,
			ItemCount:  summary.ItemCount,
		}
	}
	return response
}
