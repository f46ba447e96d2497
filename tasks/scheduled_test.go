package tasks

import (
	"os"
	"testing"

	"newsdesk/database"
	"newsdesk/models"
	"newsdesk/report"
)

func TestScheduledReportRun(t *testing.T) {
	appDB, riskDB := testDBs(t)

	rec := models.CompanyRecord{
		Company:      "Acme_1",
		Industry:     "Technology",
		CreditRating: "BBB",
		PD:           0.02,
		LoanAmount:   1000000,
	}
	if err := riskDB.Create(&rec).Error; err != nil {
		t.Fatal(err)
	}

	sched := models.ScheduledReport{
		ReportID:    "r-1",
		CompanyName: "Acme_1",
		Sections:    `["company_info", "risk_profile"]`,
		Schedule:    "daily",
	}
	if err := appDB.Create(&sched).Error; err != nil {
		t.Fatal(err)
	}

	gen := report.NewGenerator(database.CompanyStore{DB: riskDB}, t.TempDir(), nil)
	runner := NewReportRunner(appDB, gen, NewNotifier(testConfig(), nil), nil)

	if err := runner.Run(&sched); err != nil {
		t.Fatal(err)
	}
	if sched.LastGeneratedAt == "" {
		t.Error("schedule stamp did not advance")
	}

	var hist models.ReportHistory
	if err := appDB.Where("report_id = ?", "r-1").First(&hist).Error; err != nil {
		t.Fatal(err)
	}
	if hist.Status != "completed" {
		t.Fatalf("history status = %q, want completed", hist.Status)
	}
	if _, err := os.Stat(hist.FilePath); err != nil {
		t.Errorf("artifact missing: %v", err)
	}
}

func TestScheduledReportUnknownCompanyRecordsFailure(t *testing.T) {
	appDB, riskDB := testDBs(t)

	sched := models.ScheduledReport{
		ReportID:    "r-2",
		CompanyName: "Ghost Corp",
		Sections:    `["company_info"]`,
		Schedule:    "once",
	}
	if err := appDB.Create(&sched).Error; err != nil {
		t.Fatal(err)
	}

	gen := report.NewGenerator(database.CompanyStore{DB: riskDB}, t.TempDir(), nil)
	runner := NewReportRunner(appDB, gen, NewNotifier(testConfig(), nil), nil)

	if err := runner.Run(&sched); err == nil {
		t.Fatal("expected an error for an unknown company")
	}

	var hist models.ReportHistory
	if err := appDB.Where("report_id = ?", "r-2").First(&hist).Error; err != nil {
		t.Fatal(err)
	}
	if hist.Status != "failed" {
		t.Fatalf("history status = %q, want failed", hist.Status)
	}
	if hist.ErrorMessage == "" {
		t.Error("failure recorded without a message")
	}
}
