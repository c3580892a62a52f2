package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
)

type NewServiceRequest struct {
	Name              string                       `json:"name" validate:"required,max=200"`
	Price             string                       `json:"price" validate:"required,numeric"`
	Advance           *string                      `json:"advance,omitempty" validate:"omitempty,numeric"`
	Recurring         bool                         `json:"recurring"`
	RequiredDocuments []NewRequiredDocumentRequest `json:"required_documents" validate:"dive"`
}

type NewRequiredDocumentRequest struct {
	Code          string `json:"code" validate:"required,max=64"`
	Name          string `json:"name" validate:"required,max=200"`
	Mandatory     bool   `json:"mandatory"`
	AllowMultiple bool   `json:"allow_multiple"`
}

type NewStaffRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Name   string `json:"name" validate:"required,max=200"`
	Role   string `json:"role" validate:"required,oneof=sales accounts operations admin"`
}

type NewOrderRequest struct {
	ServiceID string `json:"service_id" validate:"required,uuid"`
	Mode      string `json:"mode" validate:"required,max=32"`
}

type NewPaymentRequest struct {
	Type   string `json:"type" validate:"required,oneof=advance full pending_balance"`
	Mode   string `json:"mode" validate:"required,max=32"`
	Amount string `json:"amount" validate:"required,numeric"`
}

type PendingBalanceRequest struct {
	Mode string `json:"mode" validate:"required,max=32"`
}

type PaymentCallbackRequest struct {
	Status     string `json:"status" validate:"required,oneof=success failed"`
	GatewayRef string `json:"gateway_ref" validate:"required"`
}

type ReviewRequest struct {
	Decision string `json:"decision" validate:"required,oneof=verified approved rejected"`
	Remark   string `json:"remark"`
}

type ForwardRequest struct {
	TargetUser string `json:"target_user" validate:"required,uuid"`
	Remarks    string `json:"remarks"`
}

type AssignRequest struct {
	TargetUser string `json:"target_user" validate:"required,uuid"`
}

type QCDecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Remarks  string `json:"remarks"`
}

type RemarksRequest struct {
	Remarks string `json:"remarks"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

type PaymentRequestResponse struct {
	OrderID     string `json:"order_id"`
	PaymentID   string `json:"payment_id"`
	Amount      string `json:"amount"`
	PaymentLink string `json:"payment_link,omitempty"`
}

func toPaymentRequestResponse(r commands.PaymentRequest) PaymentRequestResponse {
	return PaymentRequestResponse{
		OrderID:     r.OrderID.String(),
		PaymentID:   r.PaymentID.String(),
		Amount:      r.Amount.String(),
		PaymentLink: r.PaymentLink,
	}
}

type OrderResponse struct {
	ID            string            `json:"id"`
	CustomerID    string            `json:"customer_id"`
	ServiceID     string            `json:"service_id"`
	ServiceName   string            `json:"service_name"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	Stage         string            `json:"stage"`
	AssignedTo    *string           `json:"assigned_to"`
	Total         string            `json:"total"`
	Advance       *string           `json:"advance,omitempty"`
	Paid          string            `json:"paid"`
	Pending       string            `json:"pending"`
	Version       int64             `json:"version"`
	CreatedAt     time.Time         `json:"created_at"`
	Payments      []PaymentResponse `json:"payments"`
}

type PaymentResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Mode       string    `json:"mode"`
	Amount     string    `json:"amount"`
	Status     string    `json:"status"`
	GatewayRef string    `json:"gateway_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toOrderResponse(o *queries.GetOrderQueryResponse) OrderResponse {
	payments := make([]PaymentResponse, 0, len(o.Payments))
	for _, p := range o.Payments {
		payments = append(payments, PaymentResponse{
			ID:         p.ID.String(),
			Type:       p.Type.String(),
			Mode:       p.Mode,
			Amount:     p.Amount.String(),
			Status:     p.Status.String(),
			GatewayRef: p.GatewayRef,
			CreatedAt:  p.CreatedAt,
		})
	}

	resp := OrderResponse{
		ID:            o.ID.String(),
		CustomerID:    o.CustomerID.String(),
		ServiceID:     o.ServiceID.String(),
		ServiceName:   o.ServiceName,
		Status:        o.Status.String(),
		PaymentStatus: o.PaymentStatus.String(),
		Stage:         o.Stage.String(),
		AssignedTo:    optionalString(o.AssignedTo),
		Total:         o.Total.String(),
		Paid:          o.Paid.String(),
		Pending:       o.Pending.String(),
		Version:       o.Version,
		CreatedAt:     o.CreatedAt,
		Payments:      payments,
	}
	if o.Advance != nil {
		advance := o.Advance.String()
		resp.Advance = &advance
	}
	return resp
}

type TimelineEntryResponse struct {
	ID        string    `json:"id"`
	FromRole  string    `json:"from_role"`
	FromUser  *string   `json:"from_user"`
	ToRole    string    `json:"to_role,omitempty"`
	ToUser    *string   `json:"to_user"`
	Action    string    `json:"action"`
	Remarks   string    `json:"remarks,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toTimelineResponse(entries []queries.TimelineEntry) []TimelineEntryResponse {
	resp := make([]TimelineEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, TimelineEntryResponse{
			ID:        e.ID.String(),
			FromRole:  e.FromRole.String(),
			FromUser:  optionalString(e.FromUser),
			ToRole:    e.ToRole.String(),
			ToUser:    optionalString(e.ToUser),
			Action:    string(e.Action),
			Remarks:   e.Remarks,
			CreatedAt: e.CreatedAt,
		})
	}
	return resp
}

type DocumentGateResponse struct {
	OrderID           string                     `json:"order_id"`
	Recurring         bool                       `json:"recurring"`
	Satisfied         bool                       `json:"satisfied"`
	Approved          bool                       `json:"approved"`
	Missing           []string                   `json:"missing"`
	Blocking          []string                   `json:"blocking"`
	Required          []RequiredDocumentResponse `json:"required"`
	Documents         []DocumentResponse         `json:"documents"`
	CustomerDocuments []DocumentResponse         `json:"customer_documents"`
	Periods           []PeriodResponse           `json:"periods"`
}

type RequiredDocumentResponse struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Mandatory     bool   `json:"mandatory"`
	AllowMultiple bool   `json:"allow_multiple"`
}

type DocumentResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code,omitempty"`
	Period    string    `json:"period,omitempty"`
	FileKey   string    `json:"file_key"`
	Status    string    `json:"status"`
	Remark    string    `json:"remark,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type PeriodResponse struct {
	Period    string `json:"period"`
	Satisfied bool   `json:"satisfied"`
	Approved  bool   `json:"approved"`
	Blocked   bool   `json:"blocked"`
	Total     int    `json:"total"`
}

func toDocumentGateResponse(g *queries.GetDocumentGateQueryResponse) DocumentGateResponse {
	required := make([]RequiredDocumentResponse, 0, len(g.Required))
	for _, r := range g.Required {
		required = append(required, RequiredDocumentResponse{
			Code:          r.Code,
			Name:          r.Name,
			Mandatory:     r.Mandatory,
			AllowMultiple: r.AllowMultiple,
		})
	}
	periods := make([]PeriodResponse, 0, len(g.Periods))
	for _, p := range g.Periods {
		periods = append(periods, PeriodResponse{
			Period:    p.Period.String(),
			Satisfied: p.Satisfied,
			Approved:  p.Approved,
			Blocked:   p.Blocked,
			Total:     p.Total,
		})
	}

	return DocumentGateResponse{
		OrderID:           g.OrderID.String(),
		Recurring:         g.Recurring,
		Satisfied:         g.Gate.Satisfied,
		Approved:          g.Gate.Approved,
		Missing:           g.Gate.Missing,
		Blocking:          g.Gate.Blocking,
		Required:          required,
		Documents:         toDocumentResponses(g.Documents),
		CustomerDocuments: toDocumentResponses(g.CustomerDocuments),
		Periods:           periods,
	}
}

func toDocumentResponses(docs []queries.DocumentView) []DocumentResponse {
	resp := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		item := DocumentResponse{
			ID:        d.ID.String(),
			Code:      d.Code,
			FileKey:   d.FileKey,
			Status:    string(d.Status),
			Remark:    d.Remark,
			CreatedAt: d.CreatedAt,
		}
		if d.Period != nil {
			item.Period = d.Period.String()
		}
		resp = append(resp, item)
	}
	return resp
}

type DeliverableURLsResponse struct {
	DeliverableID string            `json:"deliverable_id"`
	OrderID       string            `json:"order_id"`
	Version       int               `json:"version"`
	QCStatus      string            `json:"qc_status"`
	ExpiresAt     time.Time         `json:"expires_at"`
	Files         []FileURLResponse `json:"files"`
}

type FileURLResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func toDeliverableURLsResponse(d *queries.GetDeliverableURLsQueryResponse) DeliverableURLsResponse {
	files := make([]FileURLResponse, 0, len(d.Files))
	for _, f := range d.Files {
		files = append(files, FileURLResponse{Key: f.Key, URL: f.URL})
	}
	return DeliverableURLsResponse{
		DeliverableID: d.DeliverableID.String(),
		OrderID:       d.OrderID.String(),
		Version:       d.Version,
		QCStatus:      string(d.QCStatus),
		ExpiresAt:     d.ExpiresAt,
		Files:         files,
	}
}

func optionalString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
