package http

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/deliverable"
	"fulfillment/internal/core/domain/model/document"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// maxUploadSize bounds a single uploaded file.
const maxUploadSize = 20 << 20

// Handler runs a use case that only reports success or failure.
type Handler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

// ResultHandler runs a use case that returns a result.
type ResultHandler[C, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// Handlers bundles the use cases the API exposes.
type Handlers struct {
	CreateService          ResultHandler[commands.CreateServiceCommand, kernel.UUID]
	RegisterStaff          Handler[commands.RegisterStaffCommand]
	CreateOrder            ResultHandler[commands.CreateOrderCommand, commands.PaymentRequest]
	RecordPayment          ResultHandler[commands.RecordPaymentCommand, commands.PaymentRequest]
	PendingBalance         ResultHandler[commands.CreatePendingBalanceLinkCommand, commands.PaymentRequest]
	ConfirmPayment         Handler[commands.ConfirmPaymentCommand]
	FailPayment            Handler[commands.FailPaymentCommand]
	SubmitDocument         ResultHandler[commands.SubmitDocumentCommand, kernel.UUID]
	ReviewDocument         Handler[commands.ReviewDocumentCommand]
	SubmitCustomerDocument ResultHandler[commands.SubmitCustomerDocumentCommand, kernel.UUID]
	ReplaceCustomerDoc     Handler[commands.ReplaceCustomerDocumentCommand]
	ReviewCustomerDocument Handler[commands.ReviewCustomerDocumentCommand]
	ForwardOrder           Handler[commands.ForwardOrderCommand]
	AssignOrder            Handler[commands.AssignOrderCommand]
	UploadDeliverable      ResultHandler[commands.UploadDeliverableCommand, kernel.UUID]
	DecideQC               Handler[commands.DecideQCCommand]
	ApproveCompletion      Handler[commands.ApproveCompletionCommand]

	GetOrder        ResultHandler[queries.GetOrderQuery, *queries.GetOrderQueryResponse]
	GetTimeline     ResultHandler[queries.GetTimelineQuery, []queries.TimelineEntry]
	GetDocumentGate ResultHandler[queries.GetDocumentGateQuery, *queries.GetDocumentGateQueryResponse]
	GetDeliverable  ResultHandler[queries.GetDeliverableURLsQuery, *queries.GetDeliverableURLsQueryResponse]
}

// Server translates HTTP requests into commands and queries. Role checks are
// left to the use cases; the server only establishes who the caller is.
type Server struct {
	handlers Handlers
	blobs    ports.BlobStore
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, blobs ports.BlobStore, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		blobs:    blobs,
		logger:   logger.With("component", "http_server"),
	}
}

// CreateService handles POST /api/v1/services.
func (s *Server) CreateService(c echo.Context) error {
	var req NewServiceRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	price, err := kernel.MoneyFromString(req.Price)
	if err != nil {
		return s.fail(c, err)
	}
	var advance *kernel.Money
	if req.Advance != nil {
		a, advanceErr := kernel.MoneyFromString(*req.Advance)
		if advanceErr != nil {
			return s.fail(c, advanceErr)
		}
		advance = &a
	}
	docs := make([]commands.RequiredDocumentSpec, 0, len(req.RequiredDocuments))
	for _, d := range req.RequiredDocuments {
		docs = append(docs, commands.RequiredDocumentSpec{
			Code:          d.Code,
			Name:          d.Name,
			Mandatory:     d.Mandatory,
			AllowMultiple: d.AllowMultiple,
		})
	}

	cmd, err := commands.NewCreateServiceCommand(actorFrom(c), req.Name, price, advance, req.Recurring, docs)
	if err != nil {
		return s.fail(c, err)
	}
	id, err := s.handlers.CreateService.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, CreatedResponse{ID: id.String()})
}

// RegisterStaff handles POST /api/v1/staff.
func (s *Server) RegisterStaff(c echo.Context) error {
	var req NewStaffRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	userID, err := kernel.UUIDFromString(req.UserID)
	if err != nil {
		return s.fail(c, err)
	}
	r, err := role.Parse(req.Role)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewRegisterStaffCommand(actorFrom(c), userID, req.Name, r)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.RegisterStaff.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req NewOrderRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	serviceID, err := kernel.UUIDFromString(req.ServiceID)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewCreateOrderCommand(actorFrom(c), serviceID, req.Mode)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, toPaymentRequestResponse(result))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(c echo.Context, orderID kernel.UUID) error {
	query, err := queries.NewGetOrderQuery(actorFrom(c), orderID)
	if err != nil {
		return s.fail(c, err)
	}
	view, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(view))
}

// RecordPayment handles POST /api/v1/orders/{orderId}/payments.
func (s *Server) RecordPayment(c echo.Context, orderID kernel.UUID) error {
	var req NewPaymentRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	paymentType, err := payment.ParseType(req.Type)
	if err != nil {
		return s.fail(c, err)
	}
	amount, err := kernel.MoneyFromString(req.Amount)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewRecordPaymentCommand(actorFrom(c), orderID, paymentType, req.Mode, amount)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.handlers.RecordPayment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, toPaymentRequestResponse(result))
}

// CreatePendingBalanceLink handles POST /api/v1/orders/{orderId}/payments/pending-balance.
func (s *Server) CreatePendingBalanceLink(c echo.Context, orderID kernel.UUID) error {
	var req PendingBalanceRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCreatePendingBalanceLinkCommand(actorFrom(c), orderID, req.Mode)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.handlers.PendingBalance.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, toPaymentRequestResponse(result))
}

// PaymentCallback handles POST /api/v1/payments/{paymentId}/callback.
func (s *Server) PaymentCallback(c echo.Context, paymentID kernel.UUID) error {
	var req PaymentCallbackRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	ctx := c.Request().Context()
	if req.Status == "success" {
		cmd, err := commands.NewConfirmPaymentCommand(paymentID, req.GatewayRef)
		if err != nil {
			return s.fail(c, err)
		}
		if err = s.handlers.ConfirmPayment.Handle(ctx, cmd); err != nil {
			return s.fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	cmd, err := commands.NewFailPaymentCommand(paymentID, req.GatewayRef)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.FailPayment.Handle(ctx, cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SubmitDocument handles POST /api/v1/orders/{orderId}/documents.
func (s *Server) SubmitDocument(c echo.Context, orderID kernel.UUID) error {
	code := strings.TrimSpace(c.FormValue("code"))
	if code == "" {
		return s.fail(c, errs.NewValueIsRequiredError("code"))
	}
	key, err := s.upload(c, "file", fmt.Sprintf("orders/%s/documents", orderID))
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewSubmitDocumentCommand(actorFrom(c), orderID, code, key)
	if err != nil {
		return s.fail(c, err)
	}
	id, err := s.handlers.SubmitDocument.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, CreatedResponse{ID: id.String()})
}

// ReviewDocument handles POST /api/v1/documents/{documentId}/review.
func (s *Server) ReviewDocument(c echo.Context, documentID kernel.UUID) error {
	var req ReviewRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	decision, err := document.ParseStatus(req.Decision)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewReviewDocumentCommand(actorFrom(c), documentID, decision, req.Remark)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.ReviewDocument.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SubmitCustomerDocument handles POST /api/v1/orders/{orderId}/customer-documents.
func (s *Server) SubmitCustomerDocument(c echo.Context, orderID kernel.UUID) error {
	var month, year int
	if err := echo.FormFieldBinder(c).
		MustInt("month", &month).
		MustInt("year", &year).
		BindError(); err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("period", err))
	}
	period, err := kernel.NewPeriod(month, year)
	if err != nil {
		return s.fail(c, err)
	}
	key, err := s.upload(c, "file", fmt.Sprintf("orders/%s/customer-documents/%s", orderID, period))
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewSubmitCustomerDocumentCommand(actorFrom(c), orderID, period, key)
	if err != nil {
		return s.fail(c, err)
	}
	id, err := s.handlers.SubmitCustomerDocument.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, CreatedResponse{ID: id.String()})
}

// ReplaceCustomerDocument handles PUT /api/v1/customer-documents/{documentId}.
func (s *Server) ReplaceCustomerDocument(c echo.Context, documentID kernel.UUID) error {
	key, err := s.upload(c, "file", fmt.Sprintf("customer-documents/%s", documentID))
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewReplaceCustomerDocumentCommand(actorFrom(c), documentID, key)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.ReplaceCustomerDoc.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ReviewCustomerDocument handles POST /api/v1/customer-documents/{documentId}/review.
func (s *Server) ReviewCustomerDocument(c echo.Context, documentID kernel.UUID) error {
	var req ReviewRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	decision, err := document.ParseStatus(req.Decision)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewReviewCustomerDocumentCommand(actorFrom(c), documentID, decision, req.Remark)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.ReviewCustomerDocument.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetDocumentGate handles GET /api/v1/orders/{orderId}/documents/gate.
func (s *Server) GetDocumentGate(c echo.Context, orderID kernel.UUID) error {
	query, err := queries.NewGetDocumentGateQuery(actorFrom(c), orderID)
	if err != nil {
		return s.fail(c, err)
	}
	view, err := s.handlers.GetDocumentGate.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toDocumentGateResponse(view))
}

// ForwardOrder handles POST /api/v1/orders/{orderId}/forward.
func (s *Server) ForwardOrder(c echo.Context, orderID kernel.UUID) error {
	var req ForwardRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	target, err := kernel.UUIDFromString(req.TargetUser)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewForwardOrderCommand(actorFrom(c), orderID, target, req.Remarks)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.ForwardOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignOrder handles POST /api/v1/orders/{orderId}/assign.
func (s *Server) AssignOrder(c echo.Context, orderID kernel.UUID) error {
	var req AssignRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	target, err := kernel.UUIDFromString(req.TargetUser)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewAssignOrderCommand(actorFrom(c), orderID, target)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.AssignOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadDeliverable handles POST /api/v1/orders/{orderId}/deliverables.
// Files are stored before the command runs; a rejected command leaves them
// orphaned in the bucket.
func (s *Server) UploadDeliverable(c echo.Context, orderID kernel.UUID) error {
	var unchanged bool
	if err := echo.FormFieldBinder(c).Bool("unchanged", &unchanged).BindError(); err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("unchanged", err))
	}
	target, err := kernel.UUIDFromString(c.FormValue("target_user"))
	if err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("target_user", err))
	}

	form, err := c.MultipartForm()
	if err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("form", err))
	}
	headers := form.File["files"]
	keys := make([]string, 0, len(headers))
	for _, fh := range headers {
		key, uploadErr := s.store(c.Request().Context(), fh, fmt.Sprintf("orders/%s/deliverables", orderID))
		if uploadErr != nil {
			return s.fail(c, uploadErr)
		}
		keys = append(keys, key)
	}

	cmd, err := commands.NewUploadDeliverableCommand(actorFrom(c), orderID, keys, unchanged, target, c.FormValue("remarks"))
	if err != nil {
		return s.fail(c, err)
	}
	id, err := s.handlers.UploadDeliverable.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, CreatedResponse{ID: id.String()})
}

// DecideQC handles POST /api/v1/deliverables/{deliverableId}/qc.
func (s *Server) DecideQC(c echo.Context, deliverableID kernel.UUID) error {
	var req QCDecisionRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	decision, err := deliverable.ParseQCStatus(req.Decision)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewDecideQCCommand(actorFrom(c), deliverableID, decision, req.Remarks)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.DecideQC.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetDeliverableURLs handles GET /api/v1/deliverables/{deliverableId}/urls.
func (s *Server) GetDeliverableURLs(c echo.Context, deliverableID kernel.UUID) error {
	query, err := queries.NewGetDeliverableURLsQuery(actorFrom(c), deliverableID)
	if err != nil {
		return s.fail(c, err)
	}
	view, err := s.handlers.GetDeliverable.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toDeliverableURLsResponse(view))
}

// ApproveCompletion handles POST /api/v1/orders/{orderId}/complete.
func (s *Server) ApproveCompletion(c echo.Context, orderID kernel.UUID) error {
	var req RemarksRequest
	if c.Request().ContentLength != 0 {
		if err := s.bind(c, &req); err != nil {
			return s.fail(c, err)
		}
	}

	cmd, err := commands.NewApproveCompletionCommand(actorFrom(c), orderID, req.Remarks)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.ApproveCompletion.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetTimeline handles GET /api/v1/orders/{orderId}/timeline.
func (s *Server) GetTimeline(c echo.Context, orderID kernel.UUID, params GetTimelineParams) error {
	includeSystem := params.IncludeSystem != nil && *params.IncludeSystem
	query, err := queries.NewGetTimelineQuery(actorFrom(c), orderID, includeSystem)
	if err != nil {
		return s.fail(c, err)
	}
	entries, err := s.handlers.GetTimeline.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toTimelineResponse(entries))
}

func (s *Server) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return c.Validate(req)
}

func (s *Server) fail(c echo.Context, err error) error {
	return writeError(c, s.logger, err)
}

func (s *Server) upload(c echo.Context, field, prefix string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", errs.NewValueIsRequiredErrorWithCause(field, err)
	}
	return s.store(c.Request().Context(), fh, prefix)
}

// store puts one uploaded file under prefix with a generated name that keeps
// the original extension.
func (s *Server) store(ctx context.Context, fh *multipart.FileHeader, prefix string) (string, error) {
	if fh.Size > maxUploadSize {
		return "", errs.NewValueIsOutOfRangeError("file size", fh.Size, 1, maxUploadSize)
	}
	f, err := fh.Open()
	if err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause("file", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			s.logger.WarnContext(ctx, "Failed to close uploaded file", "error", closeErr)
		}
	}()

	key := fmt.Sprintf("%s/%s%s", prefix, kernel.NewUUID(), strings.ToLower(filepath.Ext(fh.Filename)))
	if _, err = s.blobs.Put(ctx, key, fh.Header.Get(echo.HeaderContentType), f, fh.Size); err != nil {
		return "", errs.NewUpstreamError("blob store", err)
	}
	return key, nil
}
