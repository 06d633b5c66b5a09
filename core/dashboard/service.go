package dashboard

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kwanza/mahudhurio/core/attendance"
	"github.com/kwanza/mahudhurio/core/student"
)

// Service assembles dashboard stats from the student and attendance services.
// It holds no storage of its own.
type Service struct {
	studentSvc    *student.Service
	attendanceSvc *attendance.Service
}

func NewService(studentSvc *student.Service, attendanceSvc *attendance.Service) *Service {
	return &Service{studentSvc: studentSvc, attendanceSvc: attendanceSvc}
}

func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	now := time.Now()
	today := attendance.NewDate(now)
	yesterday := today.AddDays(-1)
	weekStart := today.AddDays(-7)

	students, err := svc.studentSvc.Query(ctx, student.QueryFilter{})
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying students")
	}
	todayRecs, err := svc.attendanceSvc.Query(ctx, attendance.QueryFilter{Date: today})
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying today's attendance")
	}
	yesterdayRecs, err := svc.attendanceSvc.Query(ctx, attendance.QueryFilter{Date: yesterday})
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying yesterday's attendance")
	}
	weekRecs, err := svc.attendanceSvc.Query(ctx, attendance.QueryFilter{StartDate: weekStart, EndDate: today})
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying this week's attendance")
	}

	return ComputeStats(students, todayRecs, yesterdayRecs, weekRecs, now), nil
}
