package stats

import "time"

// Dashboard is the headline counter block.
type Dashboard struct {
	TotalCases        int64 `json:"total_cases"`
	ActiveCases       int64 `json:"active_cases"`
	RecoveredCases    int64 `json:"recovered_cases"`
	DeceasedCases     int64 `json:"deceased_cases"`
	ActiveAlerts      int64 `json:"active_alerts"`
	DiseasesMonitored int64 `json:"diseases_monitored"`
}

// GroupCount is one bucket of a grouped case count.
type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// TimelinePoint is the case count for one diagnosis date.
type TimelinePoint struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
}

type ServiceAPI interface {
	Dashboard() (*Dashboard, error)
	CasesByStatus() ([]GroupCount, error)
	CasesByDisease() ([]GroupCount, error)
	CasesByProvince() ([]GroupCount, error)
	Timeline(days int) ([]TimelinePoint, error)
}

type RepositoryAPI interface {
	CountCasesByStatus() (map[string]int64, error)
	CountActiveAlerts() (int64, error)
	CountActiveDiseases() (int64, error)
	GroupCasesByStatus() ([]GroupCount, error)
	GroupCasesByDisease() ([]GroupCount, error)
	GroupCasesByProvince() ([]GroupCount, error)
	CasesTimeline(since time.Time) ([]TimelinePoint, error)
}
