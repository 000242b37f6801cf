package application

import (
	"context"
	"strings"

	"github.com/wyfcoding/honeyshop/internal/order/domain"
)

// AdminPageSize 后台订单列表固定页大小
const AdminPageSize = 5

// OrderPage 分页结果
type OrderPage struct {
	Orders     []*domain.Order `json:"orders"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// QueryService 订单查询应用服务
type QueryService struct {
	orders domain.OrderRepository
}

// NewQueryService 创建订单查询服务
func NewQueryService(orders domain.OrderRepository) *QueryService {
	return &QueryService{orders: orders}
}

// AdminList 后台订单列表：可按状态过滤，关键词匹配收货地址、手机号与客户姓名
func (s *QueryService) AdminList(ctx context.Context, status, keyword string, page int) (*OrderPage, error) {
	q := domain.ListQuery{
		Keyword:  strings.TrimSpace(keyword),
		Page:     page,
		PageSize: AdminPageSize,
	}
	if status != "" {
		st := domain.Status(strings.ToUpper(status))
		if !st.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		q.Status = st
	}
	if q.Page < 1 {
		q.Page = 1
	}

	orders, total, err := s.orders.List(ctx, q)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	return &OrderPage{
		Orders:     orders,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Detail 订单详情（含明细与客户）
func (s *QueryService) Detail(ctx context.Context, id uint) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// History 用户订单历史
func (s *QueryService) History(ctx context.Context, userID uint) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}
