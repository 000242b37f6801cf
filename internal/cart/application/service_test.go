package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/wyfcoding/honeyshop/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/honeyshop/internal/catalog/domain"
	"github.com/wyfcoding/honeyshop/internal/session"
)

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType, key string, event any) error {
	p.events = append(p.events, eventType)
	return nil
}

func newTestSession() *session.Session {
	return session.New("test-session", session.NewMemoryStore())
}

func testProduct(id uint, price string, stock int) *catalogdomain.Product {
	p := &catalogdomain.Product{
		Name:  "Wildflower Honey",
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
	p.ID = id
	return p
}

func TestCartServiceGet(t *testing.T) {
	ctx := context.Background()
	svc := NewCartService(cartdomain.PolicyClamp, nil, nil)

	t.Run("missing cart yields empty cart", func(t *testing.T) {
		cart := svc.Get(ctx, newTestSession())
		assert.True(t, cart.IsEmpty())
	})

	t.Run("corrupt payload yields empty cart", func(t *testing.T) {
		sess := newTestSession()
		require.NoError(t, sess.SetBytes(ctx, CartKey, []byte("{not json")))

		cart := svc.Get(ctx, sess)
		assert.True(t, cart.IsEmpty())
	})

	t.Run("round trip", func(t *testing.T) {
		sess := newTestSession()
		require.NoError(t, svc.Add(ctx, sess, testProduct(1, "4.50", 10), 2))

		cart := svc.Get(ctx, sess)
		require.NotNil(t, cart.Get(1))
		assert.Equal(t, 2, cart.Get(1).Quantity)
		assert.Equal(t, "9.00", cart.Total().StringFixed(2))
	})
}

func TestCartServiceMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("add clamps to stock", func(t *testing.T) {
		svc := NewCartService(cartdomain.PolicyClamp, nil, nil)
		sess := newTestSession()
		require.NoError(t, svc.Add(ctx, sess, testProduct(1, "4.50", 3), 5))

		assert.Equal(t, 3, svc.Count(ctx, sess))
	})

	t.Run("add rejects over stock under reject policy", func(t *testing.T) {
		svc := NewCartService(cartdomain.PolicyReject, nil, nil)
		sess := newTestSession()

		err := svc.Add(ctx, sess, testProduct(1, "4.50", 3), 5)
		assert.ErrorIs(t, err, cartdomain.ErrStockExceeded)
		assert.Equal(t, 0, svc.Count(ctx, sess))
	})

	t.Run("update quantity zero removes line", func(t *testing.T) {
		svc := NewCartService(cartdomain.PolicyClamp, nil, nil)
		sess := newTestSession()
		require.NoError(t, svc.Add(ctx, sess, testProduct(1, "4.50", 10), 2))
		require.NoError(t, svc.UpdateQuantity(ctx, sess, 1, 0))

		assert.True(t, svc.Get(ctx, sess).IsEmpty())
	})

	t.Run("remove and clear", func(t *testing.T) {
		svc := NewCartService(cartdomain.PolicyClamp, nil, nil)
		sess := newTestSession()
		require.NoError(t, svc.Add(ctx, sess, testProduct(1, "4.50", 10), 2))
		require.NoError(t, svc.Add(ctx, sess, testProduct(2, "2.00", 10), 1))

		require.NoError(t, svc.Remove(ctx, sess, 1))
		assert.Equal(t, 1, svc.Count(ctx, sess))

		require.NoError(t, svc.Clear(ctx, sess))
		assert.True(t, svc.Get(ctx, sess).IsEmpty())
	})

	t.Run("total sums all lines", func(t *testing.T) {
		svc := NewCartService(cartdomain.PolicyClamp, nil, nil)
		sess := newTestSession()
		require.NoError(t, svc.Add(ctx, sess, testProduct(1, "10.00", 10), 2))
		require.NoError(t, svc.Add(ctx, sess, testProduct(2, "2.50", 10), 2))

		assert.Equal(t, "25.00", svc.Total(ctx, sess).StringFixed(2))
	})
}

func TestCartServiceEvents(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewCartService(cartdomain.PolicyClamp, pub, nil)
	sess := newTestSession()

	require.NoError(t, svc.Add(ctx, sess, testProduct(1, "4.50", 10), 1))
	require.NoError(t, svc.Remove(ctx, sess, 1))
	require.NoError(t, svc.Clear(ctx, sess))

	assert.Equal(t, []string{"cart.item.added", "cart.item.removed", "cart.cleared"}, pub.events)
}

func TestCartServiceReplace(t *testing.T) {
	ctx := context.Background()
	svc := NewCartService(cartdomain.PolicyClamp, nil, nil)
	sess := newTestSession()
	require.NoError(t, svc.Add(ctx, sess, testProduct(1, "4.50", 10), 1))

	restored := cartdomain.NewCart()
	require.NoError(t, restored.Add(cartdomain.Line{
		ProductID:   7,
		ProductName: "Clover Honey",
		UnitPrice:   decimal.RequireFromString("6.00"),
		Stock:       4,
	}, 2, cartdomain.PolicyClamp))

	require.NoError(t, svc.Replace(ctx, sess, restored))

	cart := svc.Get(ctx, sess)
	assert.Nil(t, cart.Get(1))
	require.NotNil(t, cart.Get(7))
	assert.Equal(t, 2, cart.Get(7).Quantity)
}
