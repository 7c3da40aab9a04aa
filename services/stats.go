package services

import (
	"sort"
	"time"

	"inkstudio-backend/models"
	"inkstudio-backend/utils"

	"github.com/google/uuid"
)

type AdminStats struct {
	TotalAppointments   int     `json:"totalAppointments"`
	PendingAppointments int     `json:"pendingAppointments"`
	TotalClients        int     `json:"totalClients"`
	TotalRevenue        float64 `json:"totalRevenue"`
	TotalPoints         int     `json:"totalPoints"`
}

// ComputeAdminStats summarizes the whole studio. Revenue only counts completed
// appointments that carry a price.
func ComputeAdminStats(appointments []models.Appointment, accounts []models.User) AdminStats {
	var stats AdminStats
	stats.TotalAppointments = len(appointments)
	for _, a := range appointments {
		if a.Status == models.StatusPending {
			stats.PendingAppointments++
		}
		if a.Status == models.StatusCompleted && a.Price != nil {
			stats.TotalRevenue += *a.Price
		}
	}
	for _, u := range accounts {
		if !u.IsAdmin {
			stats.TotalClients++
		}
		stats.TotalPoints += u.LoyaltyPoints
	}
	return stats
}

type ClientSummary struct {
	Client            models.User `json:"client"`
	TotalSpent        float64     `json:"totalSpent"`
	TotalAppointments int         `json:"totalAppointments"`
	LastAppointment   *string     `json:"lastAppointment"`
}

// ClientSummaries joins each client with their appointments. Spending counts completed
// appointments only, like the revenue total.
func ClientSummaries(clients []models.User, appointments []models.Appointment) []ClientSummary {
	byClient := make(map[uuid.UUID][]models.Appointment)
	for _, a := range appointments {
		byClient[a.ClientID] = append(byClient[a.ClientID], a)
	}

	summaries := make([]ClientSummary, 0, len(clients))
	for _, c := range clients {
		summary := ClientSummary{Client: c}
		var last time.Time
		for _, a := range byClient[c.ID] {
			summary.TotalAppointments++
			if a.Status == models.StatusCompleted && a.Price != nil {
				summary.TotalSpent += *a.Price
			}
			if d := time.Time(a.Date); d.After(last) {
				last = d
			}
		}
		if !last.IsZero() {
			formatted := last.Format(utils.DateLayout)
			summary.LastAppointment = &formatted
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

type DailyCount struct {
	Date         string `json:"date"`
	Appointments int    `json:"appointments"`
}

// DailySeries buckets appointments by calendar date, oldest first.
func DailySeries(appointments []models.Appointment) []DailyCount {
	counts := make(map[string]int)
	for _, a := range appointments {
		counts[utils.FormatDate(a.Date)]++
	}
	series := make([]DailyCount, 0, len(counts))
	for date, n := range counts {
		series = append(series, DailyCount{Date: date, Appointments: n})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series
}

type ServiceCount struct {
	Service string  `json:"service"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// ServiceBreakdown counts bookings per catalog service, most booked first.
func ServiceBreakdown(appointments []models.Appointment) []ServiceCount {
	index := make(map[string]*ServiceCount)
	for _, a := range appointments {
		sc, ok := index[a.Service]
		if !ok {
			sc = &ServiceCount{Service: a.Service}
			index[a.Service] = sc
		}
		sc.Count++
		if a.Status == models.StatusCompleted && a.Price != nil {
			sc.Revenue += *a.Price
		}
	}
	out := make([]ServiceCount, 0, len(index))
	for _, sc := range index {
		out = append(out, *sc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Service < out[j].Service
	})
	return out
}

type RevenueReport struct {
	CurrentMonth float64 `json:"currentMonth"`
	LastMonth    float64 `json:"lastMonth"`
	Growth       float64 `json:"growth"`
}

// MonthlyRevenue compares completed revenue of the month containing now with the
// month before.
func MonthlyRevenue(appointments []models.Appointment, now time.Time) RevenueReport {
	year, month, _ := now.Date()
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	firstOfLast := firstOfMonth.AddDate(0, -1, 0)
	firstOfNext := firstOfMonth.AddDate(0, 1, 0)

	var report RevenueReport
	for _, a := range appointments {
		if a.Status != models.StatusCompleted || a.Price == nil {
			continue
		}
		d := time.Time(a.Date)
		switch {
		case !d.Before(firstOfMonth) && d.Before(firstOfNext):
			report.CurrentMonth += *a.Price
		case !d.Before(firstOfLast) && d.Before(firstOfMonth):
			report.LastMonth += *a.Price
		}
	}
	report.Growth = calculateGrowthPercentage(report.CurrentMonth, report.LastMonth)
	return report
}

func calculateGrowthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return ((current - previous) / previous) * 100
}

type GoalProgress struct {
	MonthlyGoal    float64 `json:"monthlyGoal"`
	CurrentRevenue float64 `json:"currentRevenue"`
	Percent        float64 `json:"percent"`
}

// GoalFor reports how far revenue is toward the admin's monthly goal, capped at 100.
func GoalFor(admin *models.User, revenue float64) GoalProgress {
	progress := GoalProgress{MonthlyGoal: admin.MonthlyGoal, CurrentRevenue: revenue}
	if admin.MonthlyGoal > 0 {
		progress.Percent = revenue * 100 / admin.MonthlyGoal
		if progress.Percent > 100 {
			progress.Percent = 100
		}
	}
	return progress
}
