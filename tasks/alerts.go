package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"newsdesk/models"
)

const timeLayout = "2006-01-02 15:04:05"

// AlertChecker evaluates metric alerts against the credit-risk data and
// fans out notifications on the configured channels.
type AlertChecker struct {
	appDB    *gorm.DB
	riskDB   *gorm.DB
	notifier *Notifier
	log      *logrus.Entry
}

func NewAlertChecker(appDB, riskDB *gorm.DB, notifier *Notifier, log *logrus.Entry) *AlertChecker {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &AlertChecker{appDB: appDB, riskDB: riskDB, notifier: notifier, log: log}
}

// HandleCheckAlert is the queue handler for the check_alert job. Expects an
// alert_id argument.
func (c *AlertChecker) HandleCheckAlert(args Args) error {
	id, ok := args["alert_id"].(uint)
	if !ok {
		return fmt.Errorf("check_alert: missing alert_id")
	}

	var alert models.Alert
	if err := c.appDB.First(&alert, id).Error; err != nil {
		return fmt.Errorf("check_alert: load alert %d: %w", id, err)
	}
	return c.Check(&alert)
}

// Check evaluates one alert. The last-checked stamp always advances; the
// last-triggered stamp only moves when the condition fires, which re-arms
// the alert once the metric crosses back.
func (c *AlertChecker) Check(alert *models.Alert) error {
	var rec models.CompanyRecord
	if err := c.riskDB.Where("Company = ?", alert.CompanyName).First(&rec).Error; err != nil {
		return fmt.Errorf("alert %d: company %q: %w", alert.ID, alert.CompanyName, err)
	}

	value, err := metricValue(&rec, alert.Metric)
	if err != nil {
		return fmt.Errorf("alert %d: %w", alert.ID, err)
	}

	now := time.Now().Format(timeLayout)
	alert.LastCheckedAt = now

	triggered := conditionMet(alert.Condition, value, alert.Threshold)
	if triggered {
		alert.LastTriggeredAt = now
		c.dispatch(alert, value)
	}

	if err := c.appDB.Save(alert).Error; err != nil {
		return fmt.Errorf("alert %d: save: %w", alert.ID, err)
	}

	c.log.WithFields(logrus.Fields{
		"alert":     alert.ID,
		"company":   alert.CompanyName,
		"metric":    alert.Metric,
		"value":     value,
		"triggered": triggered,
	}).Debug("alert checked")
	return nil
}

func (c *AlertChecker) dispatch(alert *models.Alert, value float64) {
	message := fmt.Sprintf("Alert for %s: %s is %.4f (%s %.4f)",
		alert.CompanyName, alert.Metric, value, alert.Condition, alert.Threshold)

	if alert.NotifyDashboard {
		n := models.Notification{
			AlertID:   alert.ID,
			Message:   message,
			CreatedAt: time.Now().Format(timeLayout),
		}
		if err := c.appDB.Create(&n).Error; err != nil {
			c.log.WithError(err).Error("dashboard notification write failed")
		}
	}
	if alert.NotifyEmail && alert.Email != "" {
		if err := c.notifier.SendEmail(alert.Email, "Credit risk alert: "+alert.CompanyName, message, ""); err != nil {
			c.log.WithError(err).Error("alert email failed")
		}
	}
	if alert.NotifySMS && alert.Phone != "" {
		if err := c.notifier.SendSMS(alert.Phone, message); err != nil {
			c.log.WithError(err).Error("alert sms failed")
		}
	}
}

func conditionMet(condition string, value, threshold float64) bool {
	switch condition {
	case "above":
		return value > threshold
	case "below":
		return value < threshold
	case "equals":
		const eps = 1e-9
		diff := value - threshold
		return diff < eps && diff > -eps
	}
	return false
}

// metricValue resolves an alert's metric name to the company record column.
func metricValue(rec *models.CompanyRecord, metric string) (float64, error) {
	switch strings.ToLower(metric) {
	case "pd", "probability_of_default":
		return rec.PD, nil
	case "lgd", "loss_given_default":
		return rec.LGD, nil
	case "expected_loss":
		return rec.ExpectedLoss, nil
	case "ead", "exposure", "loan_amount":
		return rec.LoanAmount, nil
	case "current_ratio":
		return rec.CurrentRatio, nil
	case "roa":
		return rec.ROA, nil
	case "roe":
		return rec.ROE, nil
	case "leverage", "leverage_ratio":
		return rec.Leverage, nil
	case "credit_var":
		return rec.CreditVaR, nil
	case "coverage_ratio", "dscr":
		return rec.CoverageRatio, nil
	case "rating_change_probability":
		return rec.RatingChangeProb, nil
	}
	return 0, fmt.Errorf("unknown metric %q", metric)
}
