package application

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartapp "github.com/wyfcoding/honeyshop/internal/cart/application"
	cartdomain "github.com/wyfcoding/honeyshop/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/honeyshop/internal/catalog/domain"
	"github.com/wyfcoding/honeyshop/internal/order/domain"
	"github.com/wyfcoding/honeyshop/internal/session"
)

type fakeOrderRepository struct {
	orders        map[uint]*domain.Order
	nextID        uint
	checkoutCalls int
	lastCustomer  *domain.Customer
	lastDetails   []domain.OrderDetail
	lastStatus    *domain.StatusNotification
	statusCalls   int
	checkoutErr   error
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{orders: make(map[uint]*domain.Order), nextID: 1}
}

func (r *fakeOrderRepository) Checkout(ctx context.Context, customer *domain.Customer, order *domain.Order, details []domain.OrderDetail) (*domain.Order, error) {
	r.checkoutCalls++
	if r.checkoutErr != nil {
		return nil, r.checkoutErr
	}
	customer.ID = 100
	order.ID = r.nextID
	r.nextID++
	order.CustomerID = customer.ID
	for i := range details {
		details[i].OrderID = order.ID
	}
	order.Details = details
	r.orders[order.ID] = order
	r.lastCustomer = customer
	r.lastDetails = details
	return order, nil
}

func (r *fakeOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (r *fakeOrderRepository) List(ctx context.Context, q domain.ListQuery) ([]*domain.Order, int64, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepository) ListByUser(ctx context.Context, userID uint) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepository) UpdateStatus(ctx context.Context, order *domain.Order, notification *domain.StatusNotification) error {
	stored, ok := r.orders[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	stored.Status = order.Status
	stored.RejectionReason = order.RejectionReason
	r.lastStatus = notification
	r.statusCalls++
	return nil
}

func product(id uint, price string, stock int) *catalogdomain.Product {
	p := &catalogdomain.Product{
		Name:     "Acacia Honey",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	p.ID = id
	return p
}

func checkoutFixture(t *testing.T, policy cartdomain.QuantityPolicy) (*CheckoutService, *fakeOrderRepository, *cartapp.CartService, *session.Session) {
	t.Helper()
	orders := newFakeOrderRepository()
	cartSvc := cartapp.NewCartService(policy, nil, nil)
	svc := NewCheckoutService(orders, cartSvc, policy, nil, nil)

	sess := session.New("checkout-session", session.NewMemoryStore())
	require.NoError(t, sess.SetIdentity(context.Background(), session.Identity{
		UserID:   7,
		Username: "ada",
		Role:     "CUSTOMER",
	}))
	return svc, orders, cartSvc, sess
}

var shippingInfo = CheckoutRequest{
	FullName:        "Ada Bee",
	Phone:           "0123456789",
	ShippingAddress: "12 Hive Lane",
}

func TestCheckoutRequiresLogin(t *testing.T) {
	svc, orders, _, _ := checkoutFixture(t, cartdomain.PolicyClamp)
	anon := session.New("anon-session", session.NewMemoryStore())

	_, err := svc.Checkout(context.Background(), anon, shippingInfo)
	assert.ErrorIs(t, err, domain.ErrLoginRequired)
	assert.Zero(t, orders.checkoutCalls)
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, orders, _, sess := checkoutFixture(t, cartdomain.PolicyClamp)

	_, err := svc.Checkout(context.Background(), sess, shippingInfo)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Zero(t, orders.checkoutCalls)
}

func TestCheckoutInvalidShipping(t *testing.T) {
	ctx := context.Background()
	svc, _, cartSvc, sess := checkoutFixture(t, cartdomain.PolicyClamp)
	require.NoError(t, cartSvc.Add(ctx, sess, product(1, "4.00", 10), 1))

	_, err := svc.Checkout(ctx, sess, CheckoutRequest{FullName: "  ", Phone: "0123", ShippingAddress: "x"})
	assert.ErrorIs(t, err, ErrInvalidShipping)
}

func TestCheckoutSuccess(t *testing.T) {
	ctx := context.Background()
	svc, orders, cartSvc, sess := checkoutFixture(t, cartdomain.PolicyClamp)

	require.NoError(t, cartSvc.Add(ctx, sess, product(1, "10.00", 10), 2))
	require.NoError(t, cartSvc.Add(ctx, sess, product(2, "2.50", 10), 2))

	order, err := svc.Checkout(ctx, sess, shippingInfo)
	require.NoError(t, err)

	assert.Equal(t, "25.00", order.TotalAmount.StringFixed(2))
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, "12 Hive Lane", order.ShippingAddress)
	require.NotNil(t, order.UserID)
	assert.Equal(t, uint(7), *order.UserID)

	require.Len(t, orders.lastDetails, 2)
	for _, d := range orders.lastDetails {
		assert.Equal(t, order.ID, d.OrderID)
		assert.NotEmpty(t, d.ProductName)
		assert.Equal(t,
			d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity))).StringFixed(2),
			d.LineTotal.StringFixed(2))
	}

	assert.Equal(t, "Ada Bee", order.FullName)
	assert.Equal(t, "0123456789", order.Phone)

	assert.Equal(t, "Ada Bee", orders.lastCustomer.FullName)
	assert.Equal(t, "0123456789", orders.lastCustomer.Phone)
	assert.Equal(t, "12 Hive Lane", orders.lastCustomer.Address)

	// 提交成功后购物车被清空
	assert.True(t, cartSvc.Get(ctx, sess).IsEmpty())
}

func TestCheckoutSnapshotsDetails(t *testing.T) {
	ctx := context.Background()
	svc, orders, cartSvc, sess := checkoutFixture(t, cartdomain.PolicyClamp)

	p := product(1, "10.00", 10)
	require.NoError(t, cartSvc.Add(ctx, sess, p, 2))
	// 结算只信任行内快照，后续商品变化不影响明细
	p.Price = decimal.RequireFromString("99.00")
	p.Name = "Renamed"

	order, err := svc.Checkout(ctx, sess, shippingInfo)
	require.NoError(t, err)
	assert.Equal(t, "20.00", order.TotalAmount.StringFixed(2))
	assert.Equal(t, "Acacia Honey", orders.lastDetails[0].ProductName)
	assert.Equal(t, "10.00", orders.lastDetails[0].UnitPrice.StringFixed(2))
}

func TestCheckoutTotalMatchesClampedDetails(t *testing.T) {
	ctx := context.Background()
	svc, orders, _, sess := checkoutFixture(t, cartdomain.PolicyClamp)

	// 旧的或被篡改的会话载荷里数量可能超过行内库存快照
	stale := cartdomain.NewCart()
	stale.Lines[1] = &cartdomain.Line{
		ProductID:   1,
		ProductName: "Acacia Honey",
		UnitPrice:   decimal.RequireFromString("10.00"),
		Quantity:    5,
		Stock:       2,
	}
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, sess.SetBytes(ctx, cartapp.CartKey, data))

	order, err := svc.Checkout(ctx, sess, shippingInfo)
	require.NoError(t, err)

	require.Len(t, orders.lastDetails, 1)
	assert.Equal(t, 2, orders.lastDetails[0].Quantity)
	assert.Equal(t, "20.00", orders.lastDetails[0].LineTotal.StringFixed(2))
	// 总额等于明细行小计之和，而非截断前的购物车总额
	assert.Equal(t, "20.00", order.TotalAmount.StringFixed(2))
}

func TestCheckoutRepositoryFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	svc, orders, cartSvc, sess := checkoutFixture(t, cartdomain.PolicyClamp)
	orders.checkoutErr = assert.AnError

	require.NoError(t, cartSvc.Add(ctx, sess, product(1, "10.00", 10), 1))

	_, err := svc.Checkout(ctx, sess, shippingInfo)
	assert.Error(t, err)
	assert.False(t, cartSvc.Get(ctx, sess).IsEmpty())
}
