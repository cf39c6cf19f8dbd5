package services

import (
	"testing"
	"time"

	"workshop-management-backend/internal/cache"
	"workshop-management-backend/internal/models"
	"workshop-management-backend/internal/repositories"
)

func TestWorkshopRevenueStatistics(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewStatisticsService(repo, cache.NewMemoryCache(), cfg)

	workshop := seedWorkshop(t, repo, "Go Workshop", models.WorkshopStatusOngoing, time.Now())
	tt := seedTicketType(t, repo, workshop, "Regular", 100)

	seedParticipant(t, repo, workshop, tt, "A", "a@example.com", "REVN0001", true, true)
	seedParticipant(t, repo, workshop, tt, "B", "b@example.com", "REVN0002", true, false)
	seedParticipant(t, repo, workshop, tt, "C", "c@example.com", "REVN0003", false, false)
	seedParticipant(t, repo, workshop, tt, "D", "d@example.com", "REVN0004", false, false)

	stats, err := svc.GetWorkshopStatistics(workshop.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalRevenueCents != 200 {
		t.Errorf("expected revenue 200, got %d", stats.TotalRevenueCents)
	}
	if stats.PotentialRevenueCents != 400 {
		t.Errorf("expected potential 400, got %d", stats.PotentialRevenueCents)
	}
	if stats.RevenueRealizationRate != 50.0 {
		t.Errorf("expected realization 50.0, got %v", stats.RevenueRealizationRate)
	}
	if stats.TotalParticipants != 4 || stats.Paid != 2 || stats.CheckedIn != 1 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.PaymentPercentage != 50.0 {
		t.Errorf("expected payment percentage 50.0, got %v", stats.PaymentPercentage)
	}
}

func TestWorkshopStatisticsCaching(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewStatisticsService(repo, cache.NewMemoryCache(), cfg)

	workshop := seedWorkshop(t, repo, "Go Workshop", models.WorkshopStatusOngoing, time.Now())
	tt := seedTicketType(t, repo, workshop, "Regular", 100)
	seedParticipant(t, repo, workshop, tt, "A", "a@example.com", "CACH0001", true, false)

	first, err := svc.GetWorkshopStatistics(workshop.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.TotalParticipants != 1 {
		t.Fatalf("expected 1 participant, got %d", first.TotalParticipants)
	}

	// New registration is invisible until the cache expires or is cleared
	seedParticipant(t, repo, workshop, tt, "B", "b@example.com", "CACH0002", true, false)

	cached, err := svc.GetWorkshopStatistics(workshop.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached.TotalParticipants != 1 {
		t.Errorf("expected stale cached value 1, got %d", cached.TotalParticipants)
	}

	svc.ClearCache()

	fresh, err := svc.GetWorkshopStatistics(workshop.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.TotalParticipants != 2 {
		t.Errorf("expected fresh value 2 after clear, got %d", fresh.TotalParticipants)
	}
}

func TestDashboardStatistics(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewStatisticsService(repo, cache.NewMemoryCache(), cfg)

	w1 := seedWorkshop(t, repo, "First", models.WorkshopStatusPublished, time.Now().Add(24*time.Hour))
	seedWorkshop(t, repo, "Second", models.WorkshopStatusDraft, time.Now().Add(48*time.Hour))
	tt := seedTicketType(t, repo, w1, "Regular", 5000)
	seedParticipant(t, repo, w1, tt, "A", "a@example.com", "DASH0001", true, false)
	seedParticipant(t, repo, w1, tt, "B", "b@example.com", "DASH0002", false, false)

	stats, err := svc.GetDashboardStatistics()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalWorkshops != 2 {
		t.Errorf("expected 2 workshops, got %d", stats.TotalWorkshops)
	}
	if stats.WorkshopsByStatus[models.WorkshopStatusPublished] != 1 {
		t.Errorf("unexpected status breakdown: %v", stats.WorkshopsByStatus)
	}
	if stats.TotalParticipants != 2 {
		t.Errorf("expected 2 participants, got %d", stats.TotalParticipants)
	}

	if len(stats.RegistrationTrend) != 12 {
		t.Fatalf("expected 12 trend points, got %d", len(stats.RegistrationTrend))
	}
	if len(stats.RevenueTrend) != 12 {
		t.Fatalf("expected 12 revenue points, got %d", len(stats.RevenueTrend))
	}

	currentMonth := time.Now().Format("2006-01")
	last := stats.RegistrationTrend[len(stats.RegistrationTrend)-1]
	if last.Month != currentMonth {
		t.Errorf("expected last point %s, got %s", currentMonth, last.Month)
	}
	if last.Value != 2 {
		t.Errorf("expected 2 registrations this month, got %d", last.Value)
	}

	lastRevenue := stats.RevenueTrend[len(stats.RevenueTrend)-1]
	if lastRevenue.Value != 5000 {
		t.Errorf("expected 5000 revenue this month, got %d", lastRevenue.Value)
	}
}

func TestBuildTrendZeroFills(t *testing.T) {
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

	values := []repositories.MonthValue{
		{Month: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), Value: 3},
		{Month: time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC), Value: 2},
		{Month: time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC), Value: 1},
	}

	trend := BuildTrend(values, now)

	if len(trend) != 12 {
		t.Fatalf("expected 12 points, got %d", len(trend))
	}
	if trend[0].Month != "2025-10" {
		t.Errorf("expected oldest point 2025-10, got %s", trend[0].Month)
	}
	if trend[11].Month != "2026-09" || trend[11].Value != 5 {
		t.Errorf("expected 2026-09 = 5, got %s = %d", trend[11].Month, trend[11].Value)
	}
	if trend[9].Month != "2026-07" || trend[9].Value != 1 {
		t.Errorf("expected 2026-07 = 1, got %s = %d", trend[9].Month, trend[9].Value)
	}
	if trend[10].Value != 0 {
		t.Errorf("expected empty month zero-filled, got %d", trend[10].Value)
	}
}

func TestGrowthRate(t *testing.T) {
	point := func(v int64) TrendPoint { return TrendPoint{Value: v} }

	cases := []struct {
		name   string
		series []TrendPoint
		want   float64
	}{
		{"Empty", nil, 0},
		{"SinglePoint", []TrendPoint{point(5)}, 0},
		{"BothZero", []TrendPoint{point(0), point(0)}, 0},
		{"FromZero", []TrendPoint{point(0), point(7)}, 100},
		{"Growth", []TrendPoint{point(100), point(150)}, 50},
		{"Decline", []TrendPoint{point(200), point(150)}, -25},
		{"Rounded", []TrendPoint{point(3), point(4)}, 33.3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := GrowthRate(tc.series); got != tc.want {
				t.Errorf("GrowthRate = %v, want %v", got, tc.want)
			}
		})
	}
}
