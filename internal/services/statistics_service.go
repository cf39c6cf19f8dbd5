package services

import (
	"fmt"
	"math"
	"time"

	"workshop-management-backend/internal/cache"
	"workshop-management-backend/internal/config"
	"workshop-management-backend/internal/repositories"
)

const (
	statsCachePrefix      = "stats:"
	dashboardCacheKey     = statsCachePrefix + "dashboard"
	workshopStatsCacheKey = statsCachePrefix + "workshop:"
)

// trendMonths is the fixed number of points on every trend axis.
const trendMonths = 12

type TrendPoint struct {
	Month string `json:"month"`
	Value int64  `json:"value"`
}

type WorkshopStatistics struct {
	WorkshopID             string  `json:"workshop_id"`
	WorkshopName           string  `json:"workshop_name"`
	TotalParticipants      int64   `json:"total_participants"`
	CheckedIn              int64   `json:"checked_in"`
	Paid                   int64   `json:"paid"`
	CheckinPercentage      float64 `json:"checkin_percentage"`
	PaymentPercentage      float64 `json:"payment_percentage"`
	TotalRevenueCents      int64   `json:"total_revenue_cents"`
	PotentialRevenueCents  int64   `json:"potential_revenue_cents"`
	RevenueRealizationRate float64 `json:"revenue_realization_rate"`
}

type DashboardStatistics struct {
	TotalWorkshops         int64            `json:"total_workshops"`
	WorkshopsByStatus      map[string]int64 `json:"workshops_by_status"`
	TotalParticipants      int64            `json:"total_participants"`
	RegistrationTrend      []TrendPoint     `json:"registration_trend"`
	RevenueTrend           []TrendPoint     `json:"revenue_trend"`
	RegistrationGrowthRate float64          `json:"registration_growth_rate"`
	RevenueGrowthRate      float64          `json:"revenue_growth_rate"`
}

// StatisticsService is read-only aggregation over the record store. Heavy
// aggregates are cached under fixed keys with a short TTL; the cache is
// advisory, a miss recomputes.
type StatisticsService struct {
	repo  *repositories.Repository
	cache cache.Cache
	ttl   time.Duration
}

func NewStatisticsService(repo *repositories.Repository, c cache.Cache, cfg *config.Config) *StatisticsService {
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &StatisticsService{repo: repo, cache: c, ttl: ttl}
}

// GetWorkshopStatistics returns attendance and revenue aggregates for one
// workshop.
func (s *StatisticsService) GetWorkshopStatistics(workshopID string) (*WorkshopStatistics, error) {
	cacheKey := workshopStatsCacheKey + workshopID
	if cached, ok := s.cache.Get(cacheKey); ok {
		if stats, ok := cached.(*WorkshopStatistics); ok {
			return stats, nil
		}
	}

	workshop, err := s.repo.WorkshopRepo.GetWorkshopByID(workshopID)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.ParticipantRepo.GetParticipantCounts(workshopID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant counts: %w", err)
	}

	revenue, err := s.repo.ParticipantRepo.RevenueCents(workshopID, true)
	if err != nil {
		return nil, err
	}
	potential, err := s.repo.ParticipantRepo.RevenueCents(workshopID, false)
	if err != nil {
		return nil, err
	}

	stats := &WorkshopStatistics{
		WorkshopID:             workshop.ID.String(),
		WorkshopName:           workshop.Name,
		TotalParticipants:      counts.Total,
		CheckedIn:              counts.CheckedIn,
		Paid:                   counts.Paid,
		CheckinPercentage:      Percentage(counts.CheckedIn, counts.Total),
		PaymentPercentage:      Percentage(counts.Paid, counts.Total),
		TotalRevenueCents:      revenue,
		PotentialRevenueCents:  potential,
		RevenueRealizationRate: Percentage(revenue, potential),
	}

	s.cache.Set(cacheKey, stats, s.ttl)
	return stats, nil
}

// GetDashboardStatistics assembles the organizer dashboard: workshop status
// breakdown, participant totals and the 12-month registration and revenue
// trends with growth rates.
func (s *StatisticsService) GetDashboardStatistics() (*DashboardStatistics, error) {
	if cached, ok := s.cache.Get(dashboardCacheKey); ok {
		if stats, ok := cached.(*DashboardStatistics); ok {
			return stats, nil
		}
	}

	byStatus, err := s.repo.WorkshopRepo.CountWorkshopsByStatus()
	if err != nil {
		return nil, err
	}
	var totalWorkshops int64
	for _, count := range byStatus {
		totalWorkshops += count
	}

	totalParticipants, err := s.repo.ParticipantRepo.CountAllParticipants()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	since := monthStart(now).AddDate(0, -(trendMonths - 1), 0)

	registrations, err := s.repo.ParticipantRepo.RegistrationsByMonth(since)
	if err != nil {
		return nil, err
	}
	revenue, err := s.repo.ParticipantRepo.RevenueByMonth(since)
	if err != nil {
		return nil, err
	}

	registrationTrend := BuildTrend(registrations, now)
	revenueTrend := BuildTrend(revenue, now)

	stats := &DashboardStatistics{
		TotalWorkshops:         totalWorkshops,
		WorkshopsByStatus:      byStatus,
		TotalParticipants:      totalParticipants,
		RegistrationTrend:      registrationTrend,
		RevenueTrend:           revenueTrend,
		RegistrationGrowthRate: GrowthRate(registrationTrend),
		RevenueGrowthRate:      GrowthRate(revenueTrend),
	}

	s.cache.Set(dashboardCacheKey, stats, s.ttl)
	return stats, nil
}

// ClearCache drops every cached statistics aggregate.
func (s *StatisticsService) ClearCache() {
	s.cache.DeletePrefix(statsCachePrefix)
}

// BuildTrend fabricates a fixed 12-entry month axis (oldest to newest,
// current month inclusive) and fills months absent from the data with 0,
// so consumers never see a sparse series.
func BuildTrend(values []repositories.MonthValue, now time.Time) []TrendPoint {
	sums := make(map[string]int64, len(values))
	for _, v := range values {
		sums[v.Month.Format("2006-01")] += v.Value
	}

	points := make([]TrendPoint, 0, trendMonths)
	start := monthStart(now).AddDate(0, -(trendMonths - 1), 0)
	for i := 0; i < trendMonths; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		points = append(points, TrendPoint{Month: month, Value: sums[month]})
	}
	return points
}

// GrowthRate compares the last two points of a series: 0 when there are
// fewer than two points or both are zero, 100 when growth starts from
// zero, otherwise the percentage change rounded to one decimal.
func GrowthRate(series []TrendPoint) float64 {
	if len(series) < 2 {
		return 0
	}

	previous := series[len(series)-2].Value
	current := series[len(series)-1].Value

	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}

	rate := float64(current-previous) / float64(previous) * 100
	return math.Round(rate*10) / 10
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
