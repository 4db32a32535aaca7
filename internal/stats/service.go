package stats

import (
	"log/slog"
	"time"

	internal "github.com/endemicwatch/endemic-monitoring/internal"
	"github.com/endemicwatch/endemic-monitoring/internal/cases"
)

const maxTimelineDays = 365

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Dashboard aggregates the headline counters. Active means suspected or
// confirmed.
func (s *Service) Dashboard() (*Dashboard, error) {
	byStatus, err := s.repo.CountCasesByStatus()
	if err != nil {
		s.logger.Error("failed to count cases", "error", err)
		return nil, internal.NewInternalError("failed to compute dashboard", err)
	}

	activeAlerts, err := s.repo.CountActiveAlerts()
	if err != nil {
		return nil, internal.NewInternalError("failed to compute dashboard", err)
	}
	diseases, err := s.repo.CountActiveDiseases()
	if err != nil {
		return nil, internal.NewInternalError("failed to compute dashboard", err)
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	return &Dashboard{
		TotalCases:        total,
		ActiveCases:       byStatus[cases.StatusSuspected] + byStatus[cases.StatusConfirmed],
		RecoveredCases:    byStatus[cases.StatusRecovered],
		DeceasedCases:     byStatus[cases.StatusDeceased],
		ActiveAlerts:      activeAlerts,
		DiseasesMonitored: diseases,
	}, nil
}

func (s *Service) CasesByStatus() ([]GroupCount, error) {
	groups, err := s.repo.GroupCasesByStatus()
	if err != nil {
		s.logger.Error("failed to group cases by status", "error", err)
		return nil, internal.NewInternalError("failed to group cases", err)
	}
	return groups, nil
}

func (s *Service) CasesByDisease() ([]GroupCount, error) {
	groups, err := s.repo.GroupCasesByDisease()
	if err != nil {
		s.logger.Error("failed to group cases by disease", "error", err)
		return nil, internal.NewInternalError("failed to group cases", err)
	}
	return groups, nil
}

func (s *Service) CasesByProvince() ([]GroupCount, error) {
	groups, err := s.repo.GroupCasesByProvince()
	if err != nil {
		s.logger.Error("failed to group cases by province", "error", err)
		return nil, internal.NewInternalError("failed to group cases", err)
	}
	return groups, nil
}

// Timeline returns daily diagnosis counts for the trailing window,
// clamped to a year.
func (s *Service) Timeline(days int) ([]TimelinePoint, error) {
	if days <= 0 {
		days = 30
	}
	if days > maxTimelineDays {
		days = maxTimelineDays
	}

	since := s.now().AddDate(0, 0, -days)
	points, err := s.repo.CasesTimeline(since)
	if err != nil {
		s.logger.Error("failed to compute timeline", "error", err)
		return nil, internal.NewInternalError("failed to compute timeline", err)
	}
	return points, nil
}
