package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify persistence, versioning and row locks.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
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

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()
	testOrder := suite.newOrder("10000", "3000")

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.assertOrderCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateID_ReturnsConflict() {
	ctx := context.Background()
	testOrder := suite.newOrder("10000", "")
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	err := suite.repository.Add(ctx, testOrder)

	suite.Require().ErrorIs(err, errs.ErrConflict)
	suite.assertOrderCount(1)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_RestoresEveryField() {
	ctx := context.Background()
	original := suite.newOrder("10000", "3000")
	suite.tracker.On("TrackAggregate", original.ID(), original).Once()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	restored, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), restored.ID())
	suite.Equal(original.CustomerID(), restored.CustomerID())
	suite.Equal(original.ServiceID(), restored.ServiceID())
	suite.Equal(order.AwaitingPayment, restored.Status())
	suite.Equal(order.Unpaid, restored.PaymentStatus())
	suite.Equal(role.Customer, restored.Stage())
	suite.Nil(restored.AssignedTo())
	suite.Equal("10000.00", restored.Total().String())
	suite.Require().NotNil(restored.Advance())
	suite.Equal("3000.00", restored.Advance().String())
	suite.Equal("10000.00", restored.Pending().String())
	suite.Equal(int64(0), restored.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_BumpsVersion() {
	ctx := context.Background()
	testOrder := suite.newOrder("10000", "3000")
	suite.tracker.On("TrackAggregate", testOrder.ID(), mock.Anything).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	paid, err := kernel.MoneyFromString("3000")
	suite.Require().NoError(err)
	_, err = testOrder.ApplyPayments(paid)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.AwaitingDocs, restored.Status())
	suite.Equal(order.PartiallyPaid, restored.PaymentStatus())
	suite.Equal(role.Sales, restored.Stage())
	suite.Equal("7000.00", restored.Pending().String())
	suite.Equal(int64(1), restored.Version())
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_ReturnsConflict() {
	ctx := context.Background()
	testOrder := suite.newOrder("10000", "")
	suite.tracker.On("TrackAggregate", testOrder.ID(), mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	first, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	paid, err := kernel.MoneyFromString("10000")
	suite.Require().NoError(err)
	_, err = first.ApplyPayments(paid)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.FailPayment())
	err = suite.repository.Update(ctx, second)

	suite.Require().ErrorIs(err, errs.ErrConflict)
	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.AwaitingDocs, restored.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsNotFound() {
	ctx := context.Background()

	err := suite.repository.Update(ctx, suite.newOrder("10000", ""))

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetForUpdate_BlocksSecondLocker() {
	ctx := context.Background()
	testOrder := suite.newOrder("10000", "")
	suite.tracker.On("TrackAggregate", testOrder.ID(), mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	tx := suite.db.Begin()
	defer tx.Rollback()
	_, err := orderrepo.NewGormOrderRepository(tx, suite.tracker).GetForUpdate(ctx, testOrder.ID())
	suite.Require().NoError(err)

	other := suite.db.Begin()
	defer other.Rollback()
	suite.Require().NoError(other.Exec("SET LOCAL lock_timeout = '200ms'").Error)
	_, err = orderrepo.NewGormOrderRepository(other, suite.tracker).GetForUpdate(ctx, testOrder.ID())

	suite.Require().Error(err)
	suite.Contains(err.Error(), "lock timeout")
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListUnassigned_OldestActiveFirst() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	older := suite.addPaidOrder(ctx, time.Now().Add(-2*time.Hour))
	newer := suite.addPaidOrder(ctx, time.Now().Add(-time.Hour))
	assigned := suite.addPaidOrder(ctx, time.Now().Add(-3*time.Hour))
	suite.Require().NoError(assigned.Assign(kernel.NewUUID()))
	suite.Require().NoError(suite.repository.Update(ctx, assigned))
	unpaid := suite.newOrder("10000", "")
	suite.Require().NoError(suite.repository.Add(ctx, unpaid))

	orders, err := suite.repository.ListUnassigned(ctx, role.Sales, 10)
	suite.Require().NoError(err)

	suite.Require().Len(orders, 2)
	suite.Equal(older.ID(), orders[0].ID())
	suite.Equal(newer.ID(), orders[1].ID())

	limited, err := suite.repository.ListUnassigned(ctx, role.Sales, 1)
	suite.Require().NoError(err)
	suite.Len(limited, 1)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestCountOpenByAssignee() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	busy, idle := kernel.NewUUID(), kernel.NewUUID()

	for i := 0; i < 2; i++ {
		o := suite.addPaidOrder(ctx, time.Now())
		suite.Require().NoError(o.Assign(busy))
		suite.Require().NoError(suite.repository.Update(ctx, o))
	}
	o := suite.addPaidOrder(ctx, time.Now())
	suite.Require().NoError(o.Assign(idle))
	suite.Require().NoError(suite.repository.Update(ctx, o))

	counts, err := suite.repository.CountOpenByAssignee(ctx, role.Sales)
	suite.Require().NoError(err)

	suite.Equal(map[kernel.UUID]int{busy: 2, idle: 1}, counts)

	empty, err := suite.repository.CountOpenByAssignee(ctx, role.Admin)
	suite.Require().NoError(err)
	suite.Empty(empty)
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(total, advance string) *order.Order {
	return suite.newOrderAt(total, advance, time.Now())
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrderAt(total, advance string, createdAt time.Time) *order.Order {
	totalMoney, err := kernel.MoneyFromString(total)
	suite.Require().NoError(err)

	var advanceMoney *kernel.Money
	if advance != "" {
		a, err := kernel.MoneyFromString(advance)
		suite.Require().NoError(err)
		advanceMoney = &a
	}

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), totalMoney, advanceMoney, createdAt)
	suite.Require().NoError(err)
	return o
}

// addPaidOrder stores a fully paid order sitting unassigned in the Sales stage.
func (suite *OrderRepositoryIntegrationTestSuite) addPaidOrder(ctx context.Context, createdAt time.Time) *order.Order {
	o := suite.newOrderAt("5000", "", createdAt)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	_, err := o.ApplyPayments(o.Total())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, o))

	stored, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	return stored
}

func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(expected, count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
