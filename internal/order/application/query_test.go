package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/honeyshop/internal/order/domain"
)

func TestAdminListInvalidStatus(t *testing.T) {
	svc := NewQueryService(newFakeOrderRepository())

	_, err := svc.AdminList(context.Background(), "SHIPPED", "", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestAdminListFiltersByStatus(t *testing.T) {
	repo := newFakeOrderRepository()
	storedOrder(repo, 1, domain.StatusPending)
	storedOrder(repo, 2, domain.StatusShipping)
	storedOrder(repo, 3, domain.StatusShipping)
	svc := NewQueryService(repo)

	page, err := svc.AdminList(context.Background(), "shipping", "", 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Len(t, page.Orders, 2)
}

func TestAdminListPaging(t *testing.T) {
	repo := newFakeOrderRepository()
	for i := uint(1); i <= 7; i++ {
		storedOrder(repo, i, domain.StatusPending)
	}
	svc := NewQueryService(repo)

	page, err := svc.AdminList(context.Background(), "", "", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, AdminPageSize, page.PageSize)
	assert.EqualValues(t, 7, page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestHistory(t *testing.T) {
	repo := newFakeOrderRepository()
	mine := storedOrder(repo, 1, domain.StatusPending)
	other := uint(99)
	storedOrder(repo, 2, domain.StatusPending).UserID = &other
	svc := NewQueryService(repo)

	orders, err := svc.History(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].ID)
}
