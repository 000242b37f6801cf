package application

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/honeyshop/internal/auth/domain"
	cartapp "github.com/wyfcoding/honeyshop/internal/cart/application"
	cartdomain "github.com/wyfcoding/honeyshop/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/honeyshop/internal/catalog/domain"
	"github.com/wyfcoding/honeyshop/internal/session"
)

type fakeUserRepository struct {
	byID   map[uint]*domain.User
	nextID uint
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{byID: make(map[uint]*domain.User), nextID: 1}
}

func (r *fakeUserRepository) Create(ctx context.Context, user *domain.User) error {
	user.ID = r.nextID
	r.nextID++
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	for _, u := range r.byID {
		if strings.EqualFold(u.Username, login) || strings.EqualFold(u.Email, login) {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepository) Save(ctx context.Context, user *domain.User) error {
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	for _, u := range r.byID {
		if strings.EqualFold(u.Username, username) || strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

type fakeUserCartRepository struct {
	items map[uint][]cartdomain.UserCartItem
}

func newFakeUserCartRepository() *fakeUserCartRepository {
	return &fakeUserCartRepository{items: make(map[uint][]cartdomain.UserCartItem)}
}

func (r *fakeUserCartRepository) ReplaceForUser(ctx context.Context, userID uint, items []cartdomain.UserCartItem) error {
	for i := range items {
		items[i].UserID = userID
	}
	r.items[userID] = items
	return nil
}

func (r *fakeUserCartRepository) ListByUser(ctx context.Context, userID uint) ([]*cartdomain.UserCartItem, error) {
	var out []*cartdomain.UserCartItem
	for i := range r.items[userID] {
		out = append(out, &r.items[userID][i])
	}
	return out, nil
}

type fakeProductRepository struct {
	products map[uint]*catalogdomain.Product
}

func (r *fakeProductRepository) FindActive(ctx context.Context, id uint) (*catalogdomain.Product, error) {
	p, ok := r.products[id]
	if !ok || !p.IsActive {
		return nil, catalogdomain.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepository) Search(ctx context.Context, q catalogdomain.SearchQuery) ([]*catalogdomain.Product, int64, error) {
	return nil, 0, nil
}

func (r *fakeProductRepository) Related(ctx context.Context, p *catalogdomain.Product, limit int) ([]*catalogdomain.Product, error) {
	return nil, nil
}

func product(id uint, price string, stock int) *catalogdomain.Product {
	p := &catalogdomain.Product{
		Name:     "Buckwheat Honey",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	p.ID = id
	return p
}

type authFixture struct {
	svc      *AuthService
	users    *fakeUserRepository
	userCart *fakeUserCartRepository
	products *fakeProductRepository
	cart     *cartapp.CartService
	sess     *session.Session
}

func newAuthFixture(products ...*catalogdomain.Product) *authFixture {
	f := &authFixture{
		users:    newFakeUserRepository(),
		userCart: newFakeUserCartRepository(),
		products: &fakeProductRepository{products: make(map[uint]*catalogdomain.Product)},
		cart:     cartapp.NewCartService(cartdomain.PolicyClamp, nil, nil),
		sess:     session.New("auth-session", session.NewMemoryStore()),
	}
	for _, p := range products {
		f.products.products[p.ID] = p
	}
	f.svc = NewAuthService(f.users, f.userCart, f.products, f.cart)
	return f
}

func (f *authFixture) register(t *testing.T) *domain.User {
	t.Helper()
	user, err := f.svc.Register(context.Background(), RegisterRequest{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "sweet-clover",
		FullName: "Ada Bee",
		Phone:    "0123456789",
	})
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	t.Run("creates customer with hashed password", func(t *testing.T) {
		f := newAuthFixture()
		user := f.register(t)

		assert.Equal(t, domain.RoleCustomer, user.Role)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "sweet-clover", user.PasswordHash)
		assert.True(t, user.CheckPassword("sweet-clover"))
	})

	t.Run("rejects duplicate username or email", func(t *testing.T) {
		f := newAuthFixture()
		f.register(t)

		_, err := f.svc.Register(context.Background(), RegisterRequest{
			Username: "ADA",
			Email:    "other@example.com",
			Password: "x",
			FullName: "Someone Else",
		})
		assert.ErrorIs(t, err, domain.ErrUserExists)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture()
		f.register(t)

		_, err := f.svc.Login(ctx, f.sess, "ada", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown user maps to invalid credentials", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.Login(ctx, f.sess, "nobody", "x")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		f := newAuthFixture()
		user := f.register(t)
		user.IsActive = false

		_, err := f.svc.Login(ctx, f.sess, "ada", "sweet-clover")
		assert.ErrorIs(t, err, domain.ErrUserDisabled)
	})

	t.Run("by email and stamps last login", func(t *testing.T) {
		f := newAuthFixture()
		f.register(t)

		user, err := f.svc.Login(ctx, f.sess, "ada@example.com", "sweet-clover")
		require.NoError(t, err)
		assert.NotNil(t, user.LastLoginAt)

		identity, ok := f.sess.Identity(ctx)
		require.True(t, ok)
		assert.Equal(t, user.ID, identity.UserID)
	})
}

func TestLoginRestoresCart(t *testing.T) {
	ctx := context.Background()
	active := product(1, "4.00", 10)
	lowStock := product(2, "3.00", 2)
	inactive := product(3, "5.00", 10)
	inactive.IsActive = false

	f := newAuthFixture(active, lowStock, inactive)
	user := f.register(t)

	f.userCart.items[user.ID] = []cartdomain.UserCartItem{
		{UserID: user.ID, ProductID: 1, Quantity: 2},
		{UserID: user.ID, ProductID: 2, Quantity: 5}, // 超过现有库存
		{UserID: user.ID, ProductID: 3, Quantity: 1}, // 已下架
	}

	_, err := f.svc.Login(ctx, f.sess, "ada", "sweet-clover")
	require.NoError(t, err)

	cart := f.cart.Get(ctx, f.sess)
	require.NotNil(t, cart.Get(1))
	assert.Equal(t, 2, cart.Get(1).Quantity)
	require.NotNil(t, cart.Get(2))
	assert.Equal(t, 2, cart.Get(2).Quantity)
	assert.Nil(t, cart.Get(3))
}

func TestLogoutPersistsCart(t *testing.T) {
	ctx := context.Background()
	p := product(1, "4.00", 10)
	f := newAuthFixture(p)
	user := f.register(t)

	_, err := f.svc.Login(ctx, f.sess, "ada", "sweet-clover")
	require.NoError(t, err)

	require.NoError(t, f.cart.Add(ctx, f.sess, p, 3))
	require.NoError(t, f.svc.Logout(ctx, f.sess))

	// 镜像保留购物车内容
	require.Len(t, f.userCart.items[user.ID], 1)
	assert.Equal(t, uint(1), f.userCart.items[user.ID][0].ProductID)
	assert.Equal(t, 3, f.userCart.items[user.ID][0].Quantity)

	// 会话被清理
	_, ok := f.sess.Identity(ctx)
	assert.False(t, ok)
	assert.True(t, f.cart.Get(ctx, f.sess).IsEmpty())
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	f.register(t)

	_, err := f.svc.CurrentUser(ctx, f.sess)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = f.svc.Login(ctx, f.sess, "ada", "sweet-clover")
	require.NoError(t, err)

	user, err := f.svc.CurrentUser(ctx, f.sess)
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
}
