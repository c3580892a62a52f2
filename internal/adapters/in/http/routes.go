package http

import (
	"fmt"
	"net/http"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// GetTimelineParams are the query parameters of GET /orders/{orderId}/timeline.
type GetTimelineParams struct {
	IncludeSystem *bool
}

// serverWrapper binds path and query parameters the way the API description
// declares them and forwards to the typed Server methods.
type serverWrapper struct {
	server *Server
}

// RegisterHandlers adds every /api/v1 route to g. Authentication middleware is
// attached by the caller except for the gateway callback, which carries its
// own token check.
func RegisterHandlers(g *echo.Group, s *Server, auth, gatewayAuth echo.MiddlewareFunc) {
	w := serverWrapper{server: s}

	g.POST("/services", s.CreateService, auth)
	g.POST("/staff", s.RegisterStaff, auth)
	g.POST("/orders", s.CreateOrder, auth)
	g.GET("/orders/:orderId", w.withOrderID(s.GetOrder), auth)
	g.POST("/orders/:orderId/payments", w.withOrderID(s.RecordPayment), auth)
	g.POST("/orders/:orderId/payments/pending-balance", w.withOrderID(s.CreatePendingBalanceLink), auth)
	g.POST("/payments/:paymentId/callback", w.withID("paymentId", s.PaymentCallback), gatewayAuth)
	g.POST("/orders/:orderId/documents", w.withOrderID(s.SubmitDocument), auth)
	g.POST("/documents/:documentId/review", w.withID("documentId", s.ReviewDocument), auth)
	g.POST("/orders/:orderId/customer-documents", w.withOrderID(s.SubmitCustomerDocument), auth)
	g.PUT("/customer-documents/:documentId", w.withID("documentId", s.ReplaceCustomerDocument), auth)
	g.POST("/customer-documents/:documentId/review", w.withID("documentId", s.ReviewCustomerDocument), auth)
	g.GET("/orders/:orderId/documents/gate", w.withOrderID(s.GetDocumentGate), auth)
	g.POST("/orders/:orderId/forward", w.withOrderID(s.ForwardOrder), auth)
	g.POST("/orders/:orderId/assign", w.withOrderID(s.AssignOrder), auth)
	g.POST("/orders/:orderId/deliverables", w.withOrderID(s.UploadDeliverable), auth)
	g.POST("/deliverables/:deliverableId/qc", w.withID("deliverableId", s.DecideQC), auth)
	g.GET("/deliverables/:deliverableId/urls", w.withID("deliverableId", s.GetDeliverableURLs), auth)
	g.POST("/orders/:orderId/complete", w.withOrderID(s.ApproveCompletion), auth)
	g.GET("/orders/:orderId/timeline", w.GetTimeline, auth)
}

func (w serverWrapper) withOrderID(next func(echo.Context, kernel.UUID) error) echo.HandlerFunc {
	return w.withID("orderId", next)
}

func (w serverWrapper) withID(name string, next func(echo.Context, kernel.UUID) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := bindID(c, name)
		if err != nil {
			return writeJSONError(c, http.StatusBadRequest, err.Error())
		}
		return next(c, id)
	}
}

func (w serverWrapper) GetTimeline(c echo.Context) error {
	orderID, err := bindID(c, "orderId")
	if err != nil {
		return writeJSONError(c, http.StatusBadRequest, err.Error())
	}

	var params GetTimelineParams
	err = runtime.BindQueryParameter("form", true, false, "include_system", c.QueryParams(), &params.IncludeSystem)
	if err != nil {
		return writeJSONError(c, http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter include_system: %s", err))
	}

	return w.server.GetTimeline(c, orderID, params)
}

func bindID(c echo.Context, name string) (kernel.UUID, error) {
	var raw uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return kernel.UUID{}, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return id, nil
}
