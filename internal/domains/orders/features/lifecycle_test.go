package features

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	cartapp "github.com/Apurer/mediswift-api/internal/domains/cart/application"
	carttypes "github.com/Apurer/mediswift-api/internal/domains/cart/application/types"
	catalogmemory "github.com/Apurer/mediswift-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/mediswift-api/internal/domains/catalog/application"
	catalogtypes "github.com/Apurer/mediswift-api/internal/domains/catalog/application/types"
	identity "github.com/Apurer/mediswift-api/internal/domains/identity/domain"
	ordersmemory "github.com/Apurer/mediswift-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/mediswift-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/mediswift-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/mediswift-api/internal/domains/orders/application/types"
	"github.com/Apurer/mediswift-api/internal/domains/orders/domain"
	reportingapp "github.com/Apurer/mediswift-api/internal/domains/reporting/application"
	sessionmemory "github.com/Apurer/mediswift-api/internal/domains/sessions/adapters/memory"
	sessionapp "github.com/Apurer/mediswift-api/internal/domains/sessions/application"
	sessionports "github.com/Apurer/mediswift-api/internal/domains/sessions/ports"
)

type lifecycleContext struct {
	catalog   *catalogapp.Service
	sessions  *sessionapp.Service
	cart      *cartapp.Service
	orders    *ordersapp.Service
	reporting *reportingapp.Service
	delivery  *workflows.InlineFulfillment

	sessionIDs map[string]string
	order      *domain.Order
	err        error
}

func (c *lifecycleContext) reset() {
	items := catalogmemory.NewRepository()
	store := sessionmemory.NewStore()
	orderRepo := ordersmemory.NewRepository()

	c.catalog = catalogapp.NewService(items)
	c.sessions = sessionapp.NewService(store)
	c.cart = cartapp.NewService(store, c.catalog)
	c.orders = ordersapp.NewService(orderRepo, store)
	c.reporting = reportingapp.NewService(orderRepo, items)
	c.delivery = workflows.NewInlineFulfillment(c.orders)
	c.sessionIDs = map[string]string{}
	c.order = nil
	c.err = nil
}

func (c *lifecycleContext) theCatalogIsSeeded() error {
	_, err := c.catalog.Seed(context.Background())
	return err
}

func (c *lifecycleContext) anAnonymousVisitor(name string) error {
	session, err := c.sessions.Start(context.Background())
	if err != nil {
		return err
	}
	c.sessionIDs[name] = session.ID
	return nil
}

func (c *lifecycleContext) isSignedInAs(name, role string) error {
	if err := c.anAnonymousVisitor(name); err != nil {
		return err
	}
	_, err := c.sessions.SignIn(context.Background(), sessionports.SignInInput{
		SessionID: c.sessionIDs[name],
		Name:      name,
		Email:     name + "@mediswift.test",
		Role:      role,
	})
	return err
}

func (c *lifecycleContext) actor(name string) (*identity.Actor, error) {
	return c.sessions.CurrentActor(context.Background(), c.sessionIDs[name])
}

func (c *lifecycleContext) itemID(name string) (string, error) {
	items, err := c.catalog.ListItems(context.Background(), catalogtypes.ListItemsInput{Query: name})
	if err != nil {
		return "", err
	}
	if len(items) != 1 {
		return "", fmt.Errorf("expected one catalog item named %q, found %d", name, len(items))
	}
	return items[0].Entity.ID, nil
}

func (c *lifecycleContext) addsToTheCartTimes(name, item string, times int) error {
	id, err := c.itemID(item)
	if err != nil {
		return err
	}
	for i := 0; i < times; i++ {
		if _, err := c.cart.AddItem(context.Background(), carttypes.AddItemInput{SessionID: c.sessionIDs[name], ItemID: id}); err != nil {
			return err
		}
	}
	return nil
}

func (c *lifecycleContext) addsToTheCart(name, item string) error {
	return c.addsToTheCartTimes(name, item, 1)
}

func (c *lifecycleContext) checksOut(name string) error {
	result, err := c.orders.Checkout(context.Background(), ordertypes.CheckoutInput{SessionID: c.sessionIDs[name]})
	c.err = err
	if err == nil && result.Order != nil {
		c.order = result.Order
	}
	return nil
}

func (c *lifecycleContext) movesTheOrderTo(name, status string) error {
	if c.order == nil {
		return errors.New("no order placed")
	}
	actor, err := c.actor(name)
	if err != nil {
		return err
	}
	_, c.err = c.orders.Transition(context.Background(), ordertypes.TransitionInput{Actor: actor, OrderID: c.order.ID, Status: status})
	return nil
}

func (c *lifecycleContext) dispatchesTheOrder(name string) error {
	actor, err := c.actor(name)
	if err != nil {
		return err
	}
	order, err := c.orders.AuthorizeDispatch(context.Background(), ordertypes.GetOrderInput{Actor: actor, OrderID: c.order.ID})
	if err != nil {
		return err
	}
	return c.delivery.DispatchOrder(context.Background(), order.ID)
}

func (c *lifecycleContext) current() (*domain.Order, error) {
	if c.order == nil {
		return nil, errors.New("no order placed")
	}
	fulfillment := identity.FulfillmentActor()
	return c.orders.GetOrder(context.Background(), ordertypes.GetOrderInput{Actor: &fulfillment, OrderID: c.order.ID})
}

func (c *lifecycleContext) theOrderStatusIs(status string) error {
	order, err := c.current()
	if err != nil {
		return err
	}
	if string(order.Status) != status {
		return fmt.Errorf("expected status %s, got %s", status, order.Status)
	}
	return nil
}

func (c *lifecycleContext) theOrderTotalIs(total string) error {
	order, err := c.current()
	if err != nil {
		return err
	}
	if !order.TotalAmount.Equal(decimal.RequireFromString(total)) {
		return fmt.Errorf("expected total %s, got %s", total, order.TotalAmount)
	}
	return nil
}

func (c *lifecycleContext) theOrderCarriesThePrescription(url string) error {
	order, err := c.current()
	if err != nil {
		return err
	}
	if order.PrescriptionURL == nil || *order.PrescriptionURL != url {
		return fmt.Errorf("expected prescription %q, got %v", url, order.PrescriptionURL)
	}
	return nil
}

func (c *lifecycleContext) theOrderCarriesNoPrescription() error {
	order, err := c.current()
	if err != nil {
		return err
	}
	if order.PrescriptionURL != nil {
		return fmt.Errorf("expected no prescription, got %q", *order.PrescriptionURL)
	}
	return nil
}

func (c *lifecycleContext) theCartHoldsItems(name string, count int) error {
	view, err := c.cart.View(context.Background(), c.sessionIDs[name])
	if err != nil {
		return err
	}
	if view.TotalQuantity != count {
		return fmt.Errorf("expected %d items in the cart of %s, got %d", count, name, view.TotalQuantity)
	}
	return nil
}

func (c *lifecycleContext) theCartIsEmpty(name string) error {
	return c.theCartHoldsItems(name, 0)
}

func (c *lifecycleContext) checkoutIsRefusedUntilSignIn() error {
	if !errors.Is(c.err, identity.ErrUnauthenticated) {
		return fmt.Errorf("expected sign-in to be required, got %v", c.err)
	}
	if c.order != nil {
		return errors.New("an order was placed")
	}
	return nil
}

func (c *lifecycleContext) theTransitionIsRefusedAsIllegal() error {
	var illegal *domain.IllegalTransitionError
	if !errors.As(c.err, &illegal) {
		return fmt.Errorf("expected an illegal transition, got %v", c.err)
	}
	return nil
}

func (c *lifecycleContext) theTransitionIsRefusedAsForbidden() error {
	if !errors.Is(c.err, domain.ErrForbidden) {
		return fmt.Errorf("expected a forbidden transition, got %v", c.err)
	}
	return nil
}

func (c *lifecycleContext) theDashboardShows(total string, pending int) error {
	staff := &identity.Actor{ID: "dashboard", Role: identity.RoleAdmin}
	summary, err := c.reporting.Summary(context.Background(), staff)
	if err != nil {
		return err
	}
	if !summary.TotalSales.Equal(decimal.RequireFromString(total)) {
		return fmt.Errorf("expected total sales %s, got %s", total, summary.TotalSales)
	}
	if summary.PendingCount != pending {
		return fmt.Errorf("expected %d pending orders, got %d", pending, summary.PendingCount)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &lifecycleContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^the catalog is seeded$`, tc.theCatalogIsSeeded)
	ctx.Step(`^"([^"]*)" is signed in as (PATIENT|PHARMACIST|ADMIN)$`, tc.isSignedInAs)
	ctx.Step(`^an anonymous visitor "([^"]*)"$`, tc.anAnonymousVisitor)

	ctx.Step(`^"([^"]*)" adds "([^"]*)" to the cart$`, tc.addsToTheCart)
	ctx.Step(`^"([^"]*)" adds "([^"]*)" to the cart (\d+) times$`, tc.addsToTheCartTimes)
	ctx.Step(`^"([^"]*)" checks out$`, tc.checksOut)
	ctx.Step(`^"([^"]*)" moves the order to "([^"]*)"$`, tc.movesTheOrderTo)
	ctx.Step(`^"([^"]*)" dispatches the order$`, tc.dispatchesTheOrder)

	ctx.Step(`^the order status is "([^"]*)"$`, tc.theOrderStatusIs)
	ctx.Step(`^the order total is "([^"]*)"$`, tc.theOrderTotalIs)
	ctx.Step(`^the order carries the prescription "([^"]*)"$`, tc.theOrderCarriesThePrescription)
	ctx.Step(`^the order carries no prescription$`, tc.theOrderCarriesNoPrescription)
	ctx.Step(`^the cart of "([^"]*)" is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the cart of "([^"]*)" holds (\d+) items?$`, tc.theCartHoldsItems)
	ctx.Step(`^checkout is refused until sign-in$`, tc.checkoutIsRefusedUntilSignIn)
	ctx.Step(`^the transition is refused as illegal$`, tc.theTransitionIsRefusedAsIllegal)
	ctx.Step(`^the transition is refused as forbidden$`, tc.theTransitionIsRefusedAsForbidden)
	ctx.Step(`^the dashboard shows total sales "([^"]*)" and (\d+) pending orders?$`, tc.theDashboardShows)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"lifecycle.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
