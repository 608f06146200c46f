package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"anoa.com/wismacare/internal/entity"
	"anoa.com/wismacare/internal/modules/analytics/dto"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	dashboardCacheKey = "analytics:dashboard"
	dashboardCacheTTL = 60 * time.Second
)

type AnalyticsService interface {
	GetDashboardStats(ctx context.Context) (*dto.DashboardStats, error)
	GetTechnicianStats(ctx context.Context) ([]dto.TechnicianStat, error)
}

type analyticsService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewAnalyticsService(db *gorm.DB, redisClient *redis.Client) AnalyticsService {
	return &analyticsService{db: db, redis: redisClient}
}

func (s *analyticsService) GetDashboardStats(ctx context.Context) (*dto.DashboardStats, error) {
	if cached := s.readCache(ctx); cached != nil {
		return cached, nil
	}

	stats := &dto.DashboardStats{}

	overview, err := s.buildOverview(ctx)
	if err != nil {
		return nil, err
	}
	stats.Overview = *overview

	requests := s.db.WithContext(ctx).Model(&entity.MaintenanceRequest{}).
		Where("is_deleted = ?", false).
		Session(&gorm.Session{})

	if err := requests.
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&stats.ByStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate by status: %w", err)
	}

	if err := requests.
		Select("category, COUNT(*) as count").
		Group("category").
		Scan(&stats.ByCategory).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate by category: %w", err)
	}

	if err := requests.
		Select("priority, COUNT(*) as count").
		Group("priority").
		Scan(&stats.ByPriority).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate by priority: %w", err)
	}

	since := time.Now().AddDate(0, 0, -7)
	if err := s.db.WithContext(ctx).Model(&entity.MaintenanceRequest{}).
		Select("DATE(created_at) as date, COUNT(*) as count").
		Where("is_deleted = ? AND created_at >= ?", false, since).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&stats.DailyTrends).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate daily trends: %w", err)
	}

	s.writeCache(ctx, stats)

	return stats, nil
}

func (s *analyticsService) GetTechnicianStats(ctx context.Context) ([]dto.TechnicianStat, error) {
	var stats []dto.TechnicianStat

	err := s.db.WithContext(ctx).Model(&entity.User{}).
		Select(`users.id as technician_id,
			users.name,
			COUNT(maintenance_requests.id) as assigned,
			SUM(CASE WHEN maintenance_requests.status = ? THEN 1 ELSE 0 END) as resolved,
			AVG(maintenance_requests.feedback_rating) as average_rating`, entity.StatusResolved).
		Joins("LEFT JOIN maintenance_requests ON maintenance_requests.technician_id = users.id AND maintenance_requests.is_deleted = ?", false).
		Where("users.role = ? AND users.verified = ?", entity.RoleTechnician, true).
		Group("users.id, users.name").
		Order("users.name ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate technician stats: %w", err)
	}

	return stats, nil
}

func (s *analyticsService) buildOverview(ctx context.Context) (*dto.Overview, error) {
	overview := &dto.Overview{}

	requests := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&entity.MaintenanceRequest{}).Where("is_deleted = ?", false)
	}
	users := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&entity.User{})
	}

	if err := requests().Count(&overview.TotalRequests).Error; err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}
	if err := requests().Where("status <> ?", entity.StatusResolved).Count(&overview.OpenRequests).Error; err != nil {
		return nil, fmt.Errorf("failed to count open requests: %w", err)
	}
	if err := requests().Where("status = ?", entity.StatusResolved).Count(&overview.ResolvedRequests).Error; err != nil {
		return nil, fmt.Errorf("failed to count resolved requests: %w", err)
	}
	if err := users().Where("role = ?", entity.RoleResident).Count(&overview.TotalResidents).Error; err != nil {
		return nil, fmt.Errorf("failed to count residents: %w", err)
	}
	if err := users().Where("role = ? AND verified = ?", entity.RoleTechnician, true).Count(&overview.VerifiedTechnicians).Error; err != nil {
		return nil, fmt.Errorf("failed to count technicians: %w", err)
	}

	var avgRating *float64
	if err := requests().Where("feedback_rating IS NOT NULL").
		Select("AVG(feedback_rating)").Scan(&avgRating).Error; err != nil {
		return nil, fmt.Errorf("failed to average ratings: %w", err)
	}
	overview.AverageRating = avgRating

	// Resolution time is computed in Go rather than SQL so the same
	// query shape works on every supported database.
	var resolved []entity.MaintenanceRequest
	if err := requests().Where("status = ? AND assigned_at IS NOT NULL", entity.StatusResolved).
		Select("assigned_at, updated_at").Find(&resolved).Error; err != nil {
		return nil, fmt.Errorf("failed to load resolved requests: %w", err)
	}
	if len(resolved) > 0 {
		var totalHours float64
		for _, r := range resolved {
			totalHours += r.UpdatedAt.Sub(*r.AssignedAt).Hours()
		}
		avg := totalHours / float64(len(resolved))
		overview.AverageResolveHours = &avg
	}

	return overview, nil
}

func (s *analyticsService) readCache(ctx context.Context) *dto.DashboardStats {
	if s.redis == nil {
		return nil
	}
	raw, err := s.redis.Get(ctx, dashboardCacheKey).Result()
	if err != nil {
		return nil
	}
	var stats dto.DashboardStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *analyticsService) writeCache(ctx context.Context, stats *dto.DashboardStats) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	s.redis.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL)
}
