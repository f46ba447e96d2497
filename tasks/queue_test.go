package tasks

import (
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"newsdesk/config"
	"newsdesk/models"
)

// testConfig has no credentials, so the notifier skips every outbound
// channel and tests stay offline.
func testConfig() *config.Config {
	return config.Default()
}

func TestQueueRunsRegisteredJobs(t *testing.T) {
	q := NewMemoryQueue(8, 2, nil)

	var ran int32
	done := make(chan struct{})
	q.Register("touch", func(args Args) error {
		if atomic.AddInt32(&ran, 1) == 3 {
			close(done)
		}
		return nil
	})
	q.Start()
	defer q.Stop()

	q.Submit("touch", nil)
	q.Submit("touch", nil)
	q.Submit("touch", nil)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("jobs did not run, got %d", atomic.LoadInt32(&ran))
	}
}

func TestQueueDropsUnknownJobs(t *testing.T) {
	q := NewMemoryQueue(1, 1, nil)
	q.Start()
	defer q.Stop()

	// must not panic or block
	q.Submit("never_registered", Args{"x": 1})
}

func TestQueueSaturationDoesNotBlock(t *testing.T) {
	q := NewMemoryQueue(1, 1, nil)

	release := make(chan struct{})
	q.Register("slow", func(args Args) error {
		<-release
		return nil
	})
	q.Start()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			q.Submit("slow", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked on a saturated queue")
	}
	close(release)
	q.Stop()
}

func testDBs(t *testing.T) (*gorm.DB, *gorm.DB) {
	t.Helper()
	dir := t.TempDir()
	appDB, err := gorm.Open(sqlite.Open(filepath.Join(dir, "app.db")), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := appDB.AutoMigrate(&models.Alert{}, &models.Notification{},
		&models.ScheduledReport{}, &models.ReportHistory{}); err != nil {
		t.Fatal(err)
	}

	riskDB, err := gorm.Open(sqlite.Open(filepath.Join(dir, "risk.db")), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := riskDB.AutoMigrate(&models.CompanyRecord{}); err != nil {
		t.Fatal(err)
	}
	return appDB, riskDB
}

func TestAlertCheckTriggersDashboardNotification(t *testing.T) {
	appDB, riskDB := testDBs(t)

	rec := models.CompanyRecord{Company: "Acme_1", PD: 0.08}
	if err := riskDB.Create(&rec).Error; err != nil {
		t.Fatal(err)
	}
	alert := models.Alert{
		CompanyName:     "Acme_1",
		Metric:          "pd",
		Condition:       "above",
		Threshold:       0.05,
		NotifyDashboard: true,
	}
	if err := appDB.Create(&alert).Error; err != nil {
		t.Fatal(err)
	}

	checker := NewAlertChecker(appDB, riskDB, NewNotifier(testConfig(), nil), nil)
	if err := checker.Check(&alert); err != nil {
		t.Fatal(err)
	}

	if alert.LastTriggeredAt == "" {
		t.Error("triggered alert has no trigger stamp")
	}
	var count int64
	appDB.Model(&models.Notification{}).Where("alert_id = ?", alert.ID).Count(&count)
	if count != 1 {
		t.Fatalf("got %d notifications, want 1", count)
	}
}

func TestAlertCheckBelowThresholdStaysQuiet(t *testing.T) {
	appDB, riskDB := testDBs(t)

	rec := models.CompanyRecord{Company: "Acme_1", PD: 0.002}
	if err := riskDB.Create(&rec).Error; err != nil {
		t.Fatal(err)
	}
	alert := models.Alert{
		CompanyName:     "Acme_1",
		Metric:          "pd",
		Condition:       "above",
		Threshold:       0.05,
		NotifyDashboard: true,
	}
	if err := appDB.Create(&alert).Error; err != nil {
		t.Fatal(err)
	}

	checker := NewAlertChecker(appDB, riskDB, NewNotifier(testConfig(), nil), nil)
	if err := checker.Check(&alert); err != nil {
		t.Fatal(err)
	}

	if alert.LastCheckedAt == "" {
		t.Error("check stamp did not advance")
	}
	if alert.LastTriggeredAt != "" {
		t.Error("alert triggered below threshold")
	}
	var count int64
	appDB.Model(&models.Notification{}).Count(&count)
	if count != 0 {
		t.Fatalf("got %d notifications, want 0", count)
	}
}

func TestConditionMet(t *testing.T) {
	cases := []struct {
		cond      string
		value     float64
		threshold float64
		want      bool
	}{
		{"above", 0.06, 0.05, true},
		{"above", 0.05, 0.05, false},
		{"below", 0.04, 0.05, true},
		{"below", 0.05, 0.05, false},
		{"equals", 0.05, 0.05, true},
		{"equals", 0.051, 0.05, false},
		{"bogus", 1, 0, false},
	}
	for _, tc := range cases {
		if got := conditionMet(tc.cond, tc.value, tc.threshold); got != tc.want {
			t.Errorf("conditionMet(%q, %v, %v) = %v, want %v", tc.cond, tc.value, tc.threshold, got, tc.want)
		}
	}
}

func TestReportDue(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)
	stamp := func(d time.Duration) string { return now.Add(-d).Format(timeLayout) }

	cases := []struct {
		name string
		r    models.ScheduledReport
		want bool
	}{
		{"never generated", models.ScheduledReport{Schedule: "once"}, true},
		{"once already ran", models.ScheduledReport{Schedule: "once", LastGeneratedAt: stamp(time.Hour)}, false},
		{"daily due", models.ScheduledReport{Schedule: "daily", LastGeneratedAt: stamp(25 * time.Hour)}, true},
		{"daily not due", models.ScheduledReport{Schedule: "daily", LastGeneratedAt: stamp(2 * time.Hour)}, false},
		{"weekly due", models.ScheduledReport{Schedule: "weekly", LastGeneratedAt: stamp(8 * 24 * time.Hour)}, true},
		{"monthly not due", models.ScheduledReport{Schedule: "monthly", LastGeneratedAt: stamp(10 * 24 * time.Hour)}, false},
	}
	for _, tc := range cases {
		if got := reportDue(&tc.r, now); got != tc.want {
			t.Errorf("%s: reportDue = %v, want %v", tc.name, got, tc.want)
		}
	}
}
