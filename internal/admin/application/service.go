// Package application 后台看板应用服务
package application

import (
	"context"

	"github.com/wyfcoding/honeyshop/internal/admin/domain"
)

// DashboardService 看板应用服务
type DashboardService struct {
	reporting domain.ReportingRepository
}

// NewDashboardService 创建看板应用服务
func NewDashboardService(reporting domain.ReportingRepository) *DashboardService {
	return &DashboardService{reporting: reporting}
}

// Dashboard 获取看板统计快照
func (s *DashboardService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	return s.reporting.Dashboard(ctx)
}
