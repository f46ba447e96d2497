package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"newsdesk/models"
	"newsdesk/report"
)

// ReportRunner executes scheduled report subscriptions: generate the
// artifact, record the attempt in history, deliver by email when asked.
type ReportRunner struct {
	appDB     *gorm.DB
	generator *report.Generator
	notifier  *Notifier
	log       *logrus.Entry
}

func NewReportRunner(appDB *gorm.DB, gen *report.Generator, notifier *Notifier, log *logrus.Entry) *ReportRunner {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &ReportRunner{appDB: appDB, generator: gen, notifier: notifier, log: log}
}

// HandleGenerateReport is the queue handler for the generate_scheduled_report
// job. Expects a report_id argument.
func (r *ReportRunner) HandleGenerateReport(args Args) error {
	id, ok := args["report_id"].(string)
	if !ok || id == "" {
		return fmt.Errorf("generate_scheduled_report: missing report_id")
	}

	var sched models.ScheduledReport
	if err := r.appDB.Where("report_id = ?", id).First(&sched).Error; err != nil {
		return fmt.Errorf("generate_scheduled_report: load %s: %w", id, err)
	}
	return r.Run(&sched)
}

// Run generates one scheduled report. Failures are recorded in history and
// returned; the schedule stamp only advances on success so a failed run is
// retried on the next scheduler pass.
func (r *ReportRunner) Run(sched *models.ScheduledReport) error {
	var sections []string
	if err := json.Unmarshal([]byte(sched.Sections), &sections); err != nil {
		r.recordHistory(sched.ReportID, "", "failed", "invalid sections: "+err.Error())
		return fmt.Errorf("report %s: parse sections: %w", sched.ReportID, err)
	}

	res, err := r.generator.Generate(context.Background(), report.Request{
		Company:  sched.CompanyName,
		Sections: sections,
		Format:   report.FormatPDF,
	})
	if err != nil {
		r.recordHistory(sched.ReportID, "", "failed", err.Error())
		return fmt.Errorf("report %s: %w", sched.ReportID, err)
	}

	r.recordHistory(sched.ReportID, res.Path, "completed", "")

	sched.LastGeneratedAt = time.Now().Format(timeLayout)
	if err := r.appDB.Save(sched).Error; err != nil {
		r.log.WithError(err).Error("schedule stamp update failed")
	}

	if sched.DeliveryEmail && sched.Email != "" {
		body := fmt.Sprintf("Your scheduled credit risk report for %s is attached.", sched.CompanyName)
		if err := r.notifier.SendEmail(sched.Email, "Scheduled report: "+sched.CompanyName, body, res.Path); err != nil {
			r.log.WithError(err).Error("report delivery email failed")
		}
	}

	r.log.WithFields(logrus.Fields{
		"report":  sched.ReportID,
		"company": sched.CompanyName,
		"path":    res.Path,
	}).Info("scheduled report generated")
	return nil
}

func (r *ReportRunner) recordHistory(reportID, path, status, errMsg string) {
	h := models.ReportHistory{
		ReportID:     reportID,
		GeneratedAt:  time.Now().Format(timeLayout),
		FilePath:     path,
		Status:       status,
		ErrorMessage: errMsg,
	}
	if err := r.appDB.Create(&h).Error; err != nil {
		r.log.WithError(err).Error("report history write failed")
	}
}
