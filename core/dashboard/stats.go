package dashboard

import (
	"math"
	"sort"
	"time"

	"github.com/kwanza/mahudhurio/core/attendance"
	"github.com/kwanza/mahudhurio/core/student"
)

const recentActivityLimit = 5

// Stats is the dashboard summary derived from repository outputs.
type Stats struct {
	TotalStudents  int                            `json:"totalStudents"`
	PresentToday   int                            `json:"presentToday"`
	AbsentToday    int                            `json:"absentToday"`
	AttendanceRate int                            `json:"attendanceRate"`
	RateChange     int                            `json:"rateChange"`
	WeeklyPresent  int                            `json:"weeklyPresent"`
	WeeklyAbsent   int                            `json:"weeklyAbsent"`
	WeeklyRate     int                            `json:"weeklyRate"`
	RecentActivity []attendance.RecordWithStudent `json:"recentActivity"`
	LastUpdated    time.Time                      `json:"lastUpdated"`
}

// ComputeStats derives the dashboard summary. Pure computation, no
// persistence. All rates are 0 when there are no active students.
func ComputeStats(
	students []student.Student,
	today, yesterday, week []attendance.RecordWithStudent,
	now time.Time,
) Stats {
	var active int
	for _, std := range students {
		if std.Status == student.StatusActive {
			active++
		}
	}

	presentToday, absentToday := countStatuses(today)
	presentYesterday, _ := countStatuses(yesterday)
	weeklyPresent, weeklyAbsent := countStatuses(week)

	rate := percentage(presentToday, active)
	yesterdayRate := percentage(presentYesterday, active)

	recent := make([]attendance.RecordWithStudent, len(week))
	copy(recent, week)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date.Time)
	})
	if len(recent) > recentActivityLimit {
		recent = recent[:recentActivityLimit]
	}

	return Stats{
		TotalStudents:  active,
		PresentToday:   presentToday,
		AbsentToday:    absentToday,
		AttendanceRate: rate,
		RateChange:     rate - yesterdayRate,
		WeeklyPresent:  weeklyPresent,
		WeeklyAbsent:   weeklyAbsent,
		WeeklyRate:     percentage(weeklyPresent, active*7),
		RecentActivity: recent,
		LastUpdated:    now.UTC(),
	}
}

func countStatuses(recs []attendance.RecordWithStudent) (present, absent int) {
	for _, rec := range recs {
		switch rec.Status {
		case attendance.StatusPresent:
			present++
		case attendance.StatusAbsent:
			absent++
		}
	}
	return present, absent
}

// percentage returns round(count/total*100); 0 when total == 0.
func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}
