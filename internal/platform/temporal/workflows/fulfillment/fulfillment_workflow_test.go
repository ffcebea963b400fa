package fulfillment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	cart "github.com/Apurer/mediswift-api/internal/domains/cart/domain"
	catalog "github.com/Apurer/mediswift-api/internal/domains/catalog/domain"
	ordersmemory "github.com/Apurer/mediswift-api/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/mediswift-api/internal/domains/orders/application"
	orderdomain "github.com/Apurer/mediswift-api/internal/domains/orders/domain"
	sessionmemory "github.com/Apurer/mediswift-api/internal/domains/sessions/adapters/memory"
	fulfillmentactivities "github.com/Apurer/mediswift-api/internal/platform/temporal/activities/fulfillment"
)

type FulfillmentWorkflowSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite

	env  *testsuite.TestWorkflowEnvironment
	repo *ordersmemory.Repository
}

func TestFulfillmentWorkflowSuite(t *testing.T) {
	suite.Run(t, new(FulfillmentWorkflowSuite))
}

func (s *FulfillmentWorkflowSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	s.repo = ordersmemory.NewRepository()
	acts := fulfillmentactivities.NewActivities(ordersapp.NewService(s.repo, sessionmemory.NewStore()))
	s.env.RegisterActivityWithOptions(acts.MarkOutForDelivery, activity.RegisterOptions{Name: fulfillmentactivities.MarkOutForDeliveryActivityName})
	s.env.RegisterActivityWithOptions(acts.MarkDelivered, activity.RegisterOptions{Name: fulfillmentactivities.MarkDeliveredActivityName})
}

func (s *FulfillmentWorkflowSuite) AfterTest(_, _ string) {
	s.env.AssertExpectations(s.T())
}

func (s *FulfillmentWorkflowSuite) storeOrder(id string, status orderdomain.Status) {
	now := time.Now()
	err := s.repo.Create(context.Background(), &orderdomain.Order{
		ID:     id,
		UserID: "u1",
		Lines: []cart.Line{{
			Item:     catalog.Item{ID: "5", Name: "Baby Wipes", Price: decimal.RequireFromString("3.50"), Category: catalog.CategoryBabyCare},
			Quantity: 1,
		}},
		TotalAmount: decimal.RequireFromString("3.50"),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	s.Require().NoError(err)
}

func (s *FulfillmentWorkflowSuite) TestDeliversPackedOrder() {
	s.storeOrder("PACK01", orderdomain.StatusPacked)

	s.env.ExecuteWorkflow(FulfillmentWorkflow, FulfillmentWorkflowInput{OrderID: "PACK01", CourierLeg: DefaultCourierLeg})

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	var result FulfillmentResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.Equal(FulfillmentResult{OrderID: "PACK01", Status: string(orderdomain.StatusDelivered)}, result)

	order, err := s.repo.GetByID(context.Background(), "PACK01")
	s.Require().NoError(err)
	s.Equal(orderdomain.StatusDelivered, order.Status)
}

func (s *FulfillmentWorkflowSuite) TestResumesOrderAlreadyOutForDelivery() {
	s.storeOrder("SHIP01", orderdomain.StatusOutForDelivery)

	s.env.ExecuteWorkflow(FulfillmentWorkflow, FulfillmentWorkflowInput{OrderID: "SHIP01"})

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	order, err := s.repo.GetByID(context.Background(), "SHIP01")
	s.Require().NoError(err)
	s.Equal(orderdomain.StatusDelivered, order.Status)
}

func (s *FulfillmentWorkflowSuite) TestRefusesOrderThatIsNotPacked() {
	s.storeOrder("APPR01", orderdomain.StatusApproved)

	s.env.ExecuteWorkflow(FulfillmentWorkflow, FulfillmentWorkflowInput{OrderID: "APPR01"})

	s.True(s.env.IsWorkflowCompleted())
	err := s.env.GetWorkflowError()
	s.Error(err)
	s.Contains(err.Error(), "illegal order transition")

	order, getErr := s.repo.GetByID(context.Background(), "APPR01")
	require.NoError(s.T(), getErr)
	s.Equal(orderdomain.StatusApproved, order.Status)
}
