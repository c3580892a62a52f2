package commands_test

import (
	"context"
	"maps"
	"slices"
	"sync"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/deliverable"
	"fulfillment/internal/core/domain/model/document"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/core/domain/model/staff"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// memoryState is one consistent snapshot of every table.
type memoryState struct {
	orders            map[kernel.UUID]*order.Order
	payments          map[kernel.UUID]*payment.Payment
	services          map[kernel.UUID]*catalog.Service
	orderDocuments    map[kernel.UUID]*document.OrderDocument
	customerDocuments map[kernel.UUID]*document.CustomerDocument
	deliverables      map[kernel.UUID]*deliverable.Deliverable
	entries           []*auditlog.Entry
	staff             map[kernel.UUID]*staff.Member
	outbox            map[kernel.UUID]*notification.Message
}

func newMemoryState() memoryState {
	return memoryState{
		orders:            map[kernel.UUID]*order.Order{},
		payments:          map[kernel.UUID]*payment.Payment{},
		services:          map[kernel.UUID]*catalog.Service{},
		orderDocuments:    map[kernel.UUID]*document.OrderDocument{},
		customerDocuments: map[kernel.UUID]*document.CustomerDocument{},
		deliverables:      map[kernel.UUID]*deliverable.Deliverable{},
		staff:             map[kernel.UUID]*staff.Member{},
		outbox:            map[kernel.UUID]*notification.Message{},
	}
}

func (s memoryState) clone() memoryState {
	return memoryState{
		orders:            maps.Clone(s.orders),
		payments:          maps.Clone(s.payments),
		services:          maps.Clone(s.services),
		orderDocuments:    maps.Clone(s.orderDocuments),
		customerDocuments: maps.Clone(s.customerDocuments),
		deliverables:      maps.Clone(s.deliverables),
		entries:           slices.Clone(s.entries),
		staff:             maps.Clone(s.staff),
		outbox:            maps.Clone(s.outbox),
	}
}

// memoryStore is an in-memory database. Each unit of work sees its own
// writes and publishes them only on Commit, so a failed command leaves the
// store untouched. Entities are copied on every read and write.
type memoryStore struct {
	mu    sync.Mutex
	state memoryState
}

func newMemoryStore() *memoryStore {
	return &memoryStore{state: newMemoryState()}
}

func (s *memoryStore) Create() commands.UoW {
	return &memoryUoW{store: s}
}

func (s *memoryStore) snapshot() memoryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *memoryStore) publish(state memoryState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Read helpers for assertions.

func (s *memoryStore) order(id kernel.UUID) *order.Order {
	st := s.snapshot()
	return cloneOrder(st.orders[id], st.orders[id].Version())
}

func (s *memoryStore) entries(orderID kernel.UUID) []*auditlog.Entry {
	var result []*auditlog.Entry
	for _, e := range s.snapshot().entries {
		if e.OrderID().IsEqual(orderID) {
			result = append(result, e)
		}
	}
	return result
}

func (s *memoryStore) entriesWith(orderID kernel.UUID, action auditlog.Action) []*auditlog.Entry {
	var result []*auditlog.Entry
	for _, e := range s.entries(orderID) {
		if e.Action() == action {
			result = append(result, e)
		}
	}
	return result
}

func (s *memoryStore) payments(orderID kernel.UUID) []*payment.Payment {
	st := s.snapshot()
	repo := memoryPaymentRepository{state: &st}
	list, _ := repo.ListByOrder(context.Background(), orderID)
	return list
}

func (s *memoryStore) messages(recipient kernel.UUID) []*notification.Message {
	var result []*notification.Message
	for _, m := range s.snapshot().outbox {
		if m.Recipient().IsEqual(recipient) {
			result = append(result, m)
		}
	}
	slices.SortFunc(result, func(a, b *notification.Message) int { return a.CreatedAt().Compare(b.CreatedAt()) })
	return result
}

type memoryUoW struct {
	store     *memoryStore
	state     *memoryState
	committed bool
}

func (u *memoryUoW) Begin(_ context.Context) error {
	st := u.store.snapshot()
	u.state = &st
	return nil
}

func (u *memoryUoW) Commit(_ context.Context) error {
	if u.state == nil {
		return errs.NewConflictError("transaction", "no active transaction")
	}
	u.store.publish(*u.state)
	u.committed = true
	u.state = nil
	return nil
}

func (u *memoryUoW) Rollback(_ context.Context) error {
	u.state = nil
	return nil
}

func (u *memoryUoW) OrderRepository() ports.OrderRepository {
	return memoryOrderRepository{state: u.state}
}

func (u *memoryUoW) PaymentRepository() ports.PaymentRepository {
	return memoryPaymentRepository{state: u.state}
}

func (u *memoryUoW) ServiceRepository() ports.ServiceRepository {
	return memoryServiceRepository{state: u.state}
}

func (u *memoryUoW) DocumentRepository() ports.DocumentRepository {
	return memoryDocumentRepository{state: u.state}
}

func (u *memoryUoW) DeliverableRepository() ports.DeliverableRepository {
	return memoryDeliverableRepository{state: u.state}
}

func (u *memoryUoW) AuditLogRepository() ports.AuditLogRepository {
	return memoryAuditLogRepository{state: u.state}
}

func (u *memoryUoW) StaffRepository() ports.StaffRepository {
	return memoryStaffRepository{state: u.state}
}

func (u *memoryUoW) OutboxRepository() ports.OutboxRepository {
	return memoryOutboxRepository{state: u.state}
}

type outboxStore struct{ *memoryStore }

func (s outboxStore) Create() commands.OutboxUoW {
	return &memoryUoW{store: s.memoryStore}
}

type catalogStore struct{ *memoryStore }

func (s catalogStore) Create() commands.CatalogUoW {
	return &memoryUoW{store: s.memoryStore}
}

type memoryOrderRepository struct{ state *memoryState }

func (r memoryOrderRepository) Add(_ context.Context, o *order.Order) error {
	if _, ok := r.state.orders[o.ID()]; ok {
		return errs.NewConflictError("order", "duplicate id")
	}
	r.state.orders[o.ID()] = cloneOrder(o, 0)
	return nil
}

func (r memoryOrderRepository) Update(_ context.Context, o *order.Order) error {
	stored, ok := r.state.orders[o.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("order", o.ID().String())
	}
	if stored.Version() != o.Version() {
		return errs.NewConflictError("order", "order was changed concurrently")
	}
	r.state.orders[o.ID()] = cloneOrder(o, o.Version()+1)
	return nil
}

func (r memoryOrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	stored, ok := r.state.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return cloneOrder(stored, stored.Version()), nil
}

func (r memoryOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.Get(ctx, id)
}

func (r memoryOrderRepository) ListUnassigned(_ context.Context, stage role.Role, limit int) ([]*order.Order, error) {
	var result []*order.Order
	for _, o := range r.state.orders {
		if o.Stage() == stage && o.AssignedTo() == nil && !o.IsTerminal() {
			result = append(result, cloneOrder(o, o.Version()))
		}
	}
	slices.SortFunc(result, func(a, b *order.Order) int { return a.CreatedAt().Compare(b.CreatedAt()) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r memoryOrderRepository) CountOpenByAssignee(_ context.Context, stage role.Role) (map[kernel.UUID]int, error) {
	counts := map[kernel.UUID]int{}
	for _, o := range r.state.orders {
		if o.Stage() == stage && o.AssignedTo() != nil && !o.IsTerminal() {
			counts[*o.AssignedTo()]++
		}
	}
	return counts, nil
}

type memoryPaymentRepository struct{ state *memoryState }

func (r memoryPaymentRepository) Add(_ context.Context, p *payment.Payment) error {
	r.state.payments[p.ID()] = clonePayment(p)
	return nil
}

func (r memoryPaymentRepository) Update(_ context.Context, p *payment.Payment) error {
	if _, ok := r.state.payments[p.ID()]; !ok {
		return errs.NewObjectNotFoundError("payment", p.ID().String())
	}
	r.state.payments[p.ID()] = clonePayment(p)
	return nil
}

func (r memoryPaymentRepository) Get(_ context.Context, id kernel.UUID) (*payment.Payment, error) {
	stored, ok := r.state.payments[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("payment", id.String())
	}
	return clonePayment(stored), nil
}

func (r memoryPaymentRepository) ListByOrder(_ context.Context, orderID kernel.UUID) ([]*payment.Payment, error) {
	var result []*payment.Payment
	for _, p := range r.state.payments {
		if p.BelongsTo(orderID) {
			result = append(result, clonePayment(p))
		}
	}
	slices.SortFunc(result, func(a, b *payment.Payment) int { return a.CreatedAt().Compare(b.CreatedAt()) })
	return result, nil
}

type memoryServiceRepository struct{ state *memoryState }

func (r memoryServiceRepository) Add(_ context.Context, s *catalog.Service) error {
	r.state.services[s.ID()] = s
	return nil
}

func (r memoryServiceRepository) Get(_ context.Context, id kernel.UUID) (*catalog.Service, error) {
	stored, ok := r.state.services[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("service", id.String())
	}
	return stored, nil
}

type memoryDocumentRepository struct{ state *memoryState }

func (r memoryDocumentRepository) AddOrderDocument(_ context.Context, d *document.OrderDocument) error {
	r.state.orderDocuments[d.ID()] = cloneOrderDocument(d)
	return nil
}

func (r memoryDocumentRepository) UpdateOrderDocument(_ context.Context, d *document.OrderDocument) error {
	r.state.orderDocuments[d.ID()] = cloneOrderDocument(d)
	return nil
}

func (r memoryDocumentRepository) GetOrderDocument(_ context.Context, id kernel.UUID) (*document.OrderDocument, error) {
	stored, ok := r.state.orderDocuments[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("document", id.String())
	}
	return cloneOrderDocument(stored), nil
}

func (r memoryDocumentRepository) ListOrderDocuments(
	_ context.Context,
	orderID kernel.UUID,
) ([]*document.OrderDocument, error) {
	var result []*document.OrderDocument
	for _, d := range r.state.orderDocuments {
		if d.OrderID().IsEqual(orderID) {
			result = append(result, cloneOrderDocument(d))
		}
	}
	return result, nil
}

func (r memoryDocumentRepository) AddCustomerDocument(_ context.Context, d *document.CustomerDocument) error {
	r.state.customerDocuments[d.ID()] = cloneCustomerDocument(d)
	return nil
}

func (r memoryDocumentRepository) UpdateCustomerDocument(_ context.Context, d *document.CustomerDocument) error {
	r.state.customerDocuments[d.ID()] = cloneCustomerDocument(d)
	return nil
}

func (r memoryDocumentRepository) GetCustomerDocument(
	_ context.Context,
	id kernel.UUID,
) (*document.CustomerDocument, error) {
	stored, ok := r.state.customerDocuments[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("customer document", id.String())
	}
	return cloneCustomerDocument(stored), nil
}

func (r memoryDocumentRepository) ListCustomerDocuments(
	_ context.Context,
	orderID kernel.UUID,
) ([]*document.CustomerDocument, error) {
	var result []*document.CustomerDocument
	for _, d := range r.state.customerDocuments {
		if d.OrderID().IsEqual(orderID) {
			result = append(result, cloneCustomerDocument(d))
		}
	}
	return result, nil
}

type memoryDeliverableRepository struct{ state *memoryState }

func (r memoryDeliverableRepository) Add(_ context.Context, d *deliverable.Deliverable) error {
	for _, existing := range r.state.deliverables {
		if existing.OrderID().IsEqual(d.OrderID()) && existing.Version() == d.Version() {
			return errs.NewConflictError("deliverable", "duplicate version")
		}
	}
	r.state.deliverables[d.ID()] = cloneDeliverable(d)
	return nil
}

func (r memoryDeliverableRepository) Update(_ context.Context, d *deliverable.Deliverable) error {
	r.state.deliverables[d.ID()] = cloneDeliverable(d)
	return nil
}

func (r memoryDeliverableRepository) Get(_ context.Context, id kernel.UUID) (*deliverable.Deliverable, error) {
	stored, ok := r.state.deliverables[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("deliverable", id.String())
	}
	return cloneDeliverable(stored), nil
}

func (r memoryDeliverableRepository) ListByOrder(
	_ context.Context,
	orderID kernel.UUID,
) ([]*deliverable.Deliverable, error) {
	var result []*deliverable.Deliverable
	for _, d := range r.state.deliverables {
		if d.OrderID().IsEqual(orderID) {
			result = append(result, cloneDeliverable(d))
		}
	}
	slices.SortFunc(result, func(a, b *deliverable.Deliverable) int { return a.Version() - b.Version() })
	return result, nil
}

type memoryAuditLogRepository struct{ state *memoryState }

func (r memoryAuditLogRepository) Append(_ context.Context, entry *auditlog.Entry) error {
	r.state.entries = append(r.state.entries, entry)
	return nil
}

func (r memoryAuditLogRepository) ListByOrder(
	_ context.Context,
	orderID kernel.UUID,
	includeSystem bool,
) ([]*auditlog.Entry, error) {
	var result []*auditlog.Entry
	for _, e := range r.state.entries {
		if e.OrderID().IsEqual(orderID) && (includeSystem || !e.IsSystem()) {
			result = append(result, e)
		}
	}
	return result, nil
}

type memoryStaffRepository struct{ state *memoryState }

func (r memoryStaffRepository) Add(_ context.Context, m *staff.Member) error {
	if _, ok := r.state.staff[m.ID()]; ok {
		return errs.NewConflictError("staff member", "duplicate id")
	}
	r.state.staff[m.ID()] = cloneMember(m)
	return nil
}

func (r memoryStaffRepository) Get(_ context.Context, id kernel.UUID) (*staff.Member, error) {
	stored, ok := r.state.staff[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("staff member", id.String())
	}
	return cloneMember(stored), nil
}

func (r memoryStaffRepository) ListActiveByRole(_ context.Context, ro role.Role) ([]*staff.Member, error) {
	var result []*staff.Member
	for _, m := range r.state.staff {
		if m.Role() == ro && m.IsActive() {
			result = append(result, cloneMember(m))
		}
	}
	slices.SortFunc(result, func(a, b *staff.Member) int { return compareStrings(a.Name(), b.Name()) })
	return result, nil
}

type memoryOutboxRepository struct{ state *memoryState }

func (r memoryOutboxRepository) Add(_ context.Context, m *notification.Message) error {
	r.state.outbox[m.ID()] = cloneMessage(m)
	return nil
}

func (r memoryOutboxRepository) Update(_ context.Context, m *notification.Message) error {
	r.state.outbox[m.ID()] = cloneMessage(m)
	return nil
}

func (r memoryOutboxRepository) ListPending(_ context.Context, limit int) ([]*notification.Message, error) {
	var result []*notification.Message
	for _, m := range r.state.outbox {
		if m.Status() == notification.Pending {
			result = append(result, cloneMessage(m))
		}
	}
	slices.SortFunc(result, func(a, b *notification.Message) int { return a.CreatedAt().Compare(b.CreatedAt()) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cloneOrder(o *order.Order, version int64) *order.Order {
	c, err := order.RestoreOrder(o.ID(), o.CustomerID(), o.ServiceID(), o.Status(), o.PaymentStatus(), o.Stage(),
		o.AssignedTo(), o.Total(), o.Advance(), o.Paid(), version, o.CreatedAt())
	if err != nil {
		panic(err)
	}
	return c
}

func clonePayment(p *payment.Payment) *payment.Payment {
	c, err := payment.RestorePayment(p.ID(), p.OrderID(), p.Type(), p.Mode(), p.Amount(), p.Status(),
		p.GatewayRef(), p.CreatedAt(), p.UpdatedAt())
	if err != nil {
		panic(err)
	}
	return c
}

func cloneOrderDocument(d *document.OrderDocument) *document.OrderDocument {
	c, err := document.RestoreOrderDocument(d.ID(), d.OrderID(), d.Code(), d.FileKey(), d.Status(), d.Remark(),
		d.SubmittedBy(), d.VerifiedBy(), d.CreatedAt(), d.UpdatedAt())
	if err != nil {
		panic(err)
	}
	return c
}

func cloneCustomerDocument(d *document.CustomerDocument) *document.CustomerDocument {
	c, err := document.RestoreCustomerDocument(d.ID(), d.OrderID(), d.Period(), d.FileKey(), d.Status(), d.Remark(),
		d.SubmittedBy(), d.VerifiedBy(), d.CreatedAt(), d.UpdatedAt())
	if err != nil {
		panic(err)
	}
	return c
}

func cloneDeliverable(d *deliverable.Deliverable) *deliverable.Deliverable {
	c, err := deliverable.RestoreDeliverable(d.ID(), d.OrderID(), d.Version(), d.Files(), d.QCStatus(),
		d.UploadedBy(), d.Remark(), d.CreatedAt(), d.UpdatedAt())
	if err != nil {
		panic(err)
	}
	return c
}

func cloneMember(m *staff.Member) *staff.Member {
	c, err := staff.RestoreMember(m.ID(), m.Name(), m.Role(), m.IsActive())
	if err != nil {
		panic(err)
	}
	return c
}

func cloneMessage(m *notification.Message) *notification.Message {
	c, err := notification.RestoreMessage(m.ID(), m.OrderID(), m.Recipient(), m.Template(), m.Data(), m.Status(),
		m.LastError(), m.CreatedAt(), m.SentAt())
	if err != nil {
		panic(err)
	}
	return c
}
