package tasks

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"newsdesk/models"
)

// Job names shared between the scheduler and the HTTP handlers.
const (
	JobCheckAlert     = "check_alert"
	JobGenerateReport = "generate_scheduled_report"
)

// Scheduler periodically sweeps alerts and report subscriptions and enqueues
// the due ones. The sweep itself stays cheap: evaluation and generation run
// on the queue workers.
type Scheduler struct {
	appDB    *gorm.DB
	queue    Queue
	interval time.Duration
	log      *logrus.Entry
	stop     chan struct{}
}

func NewScheduler(appDB *gorm.DB, queue Queue, interval time.Duration, log *logrus.Entry) *Scheduler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scheduler{
		appDB:    appDB,
		queue:    queue,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called.
func (s *Scheduler) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	close(s.stop)
}

func (s *Scheduler) sweep() {
	s.sweepAlerts()
	s.sweepReports()
}

func (s *Scheduler) sweepAlerts() {
	var alerts []models.Alert
	if err := s.appDB.Find(&alerts).Error; err != nil {
		s.log.WithError(err).Error("alert sweep query failed")
		return
	}
	for _, a := range alerts {
		s.queue.Submit(JobCheckAlert, Args{"alert_id": a.ID})
	}
}

func (s *Scheduler) sweepReports() {
	var reports []models.ScheduledReport
	if err := s.appDB.Find(&reports).Error; err != nil {
		s.log.WithError(err).Error("report sweep query failed")
		return
	}
	now := time.Now()
	for _, r := range reports {
		if reportDue(&r, now) {
			s.queue.Submit(JobGenerateReport, Args{"report_id": r.ReportID})
		}
	}
}

// reportDue decides whether a subscription should generate now. "once"
// subscriptions run only while they have no generation stamp.
func reportDue(r *models.ScheduledReport, now time.Time) bool {
	if r.LastGeneratedAt == "" {
		return true
	}
	if r.Schedule == "once" {
		return false
	}

	last, err := time.ParseInLocation(timeLayout, r.LastGeneratedAt, time.Local)
	if err != nil {
		return true
	}

	var interval time.Duration
	switch r.Schedule {
	case "daily":
		interval = 24 * time.Hour
	case "weekly":
		interval = 7 * 24 * time.Hour
	case "monthly":
		interval = 30 * 24 * time.Hour
	default:
		return false
	}
	return now.Sub(last) >= interval
}
