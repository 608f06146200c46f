package dto

// Overview holds the headline counters shown on the admin dashboard.
type Overview struct {
	TotalRequests       int64    `json:"totalRequests"`
	OpenRequests        int64    `json:"openRequests"`
	ResolvedRequests    int64    `json:"resolvedRequests"`
	TotalResidents      int64    `json:"totalResidents"`
	VerifiedTechnicians int64    `json:"verifiedTechnicians"`
	AverageRating       *float64 `json:"averageRating"`
	AverageResolveHours *float64 `json:"averageResolveHours"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int64  `json:"count"`
}

// DailyTrend is one day's worth of new requests, used for the
// seven day activity chart.
type DailyTrend struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type TechnicianStat struct {
	TechnicianID  string   `json:"technicianId"`
	Name          string   `json:"name"`
	Assigned      int64    `json:"assigned"`
	Resolved      int64    `json:"resolved"`
	AverageRating *float64 `json:"averageRating"`
}

type DashboardStats struct {
	Overview    Overview        `json:"overview"`
	ByStatus    []StatusCount   `json:"byStatus"`
	ByCategory  []CategoryCount `json:"byCategory"`
	ByPriority  []PriorityCount `json:"byPriority"`
	DailyTrends []DailyTrend    `json:"dailyTrends"`
}
