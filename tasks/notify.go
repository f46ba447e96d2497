package tasks

import (
	"encoding/base64"
	"fmt"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"newsdesk/config"
)

// Notifier sends email and SMS notifications. Missing credentials disable
// the corresponding channel with a log line instead of an error so alert
// evaluation keeps running in partially configured environments.
type Notifier struct {
	smtp   config.SMTPConfig
	twilio config.TwilioConfig
	client *resty.Client
	log    *logrus.Entry
}

func NewNotifier(cfg *config.Config, log *logrus.Entry) *Notifier {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Notifier{
		smtp:   cfg.SMTP,
		twilio: cfg.Twilio,
		client: resty.New(),
		log:    log,
	}
}

// SendEmail delivers a plain-text message, optionally attaching a file.
// Attachments are sent as a multipart/mixed MIME message built by hand;
// the report artifacts are small enough that base64 in memory is fine.
func (n *Notifier) SendEmail(to, subject, body, attachmentPath string) error {
	if n.smtp.User == "" || n.smtp.Password == "" {
		n.log.Warn("smtp not configured, skipping email")
		return nil
	}

	from := n.smtp.Sender
	if from == "" {
		from = n.smtp.User
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")

	if attachmentPath == "" {
		msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		msg.WriteString(body)
	} else {
		data, err := os.ReadFile(attachmentPath)
		if err != nil {
			return fmt.Errorf("read attachment: %w", err)
		}
		const boundary = "newsdesk-report-boundary"
		fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", boundary)

		fmt.Fprintf(&msg, "--%s\r\n", boundary)
		msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		msg.WriteString(body)
		msg.WriteString("\r\n")

		fmt.Fprintf(&msg, "--%s\r\n", boundary)
		msg.WriteString("Content-Type: application/octet-stream\r\n")
		msg.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&msg, "Content-Disposition: attachment; filename=%q\r\n\r\n", filepath.Base(attachmentPath))

		encoded := base64.StdEncoding.EncodeToString(data)
		for len(encoded) > 76 {
			msg.WriteString(encoded[:76])
			msg.WriteString("\r\n")
			encoded = encoded[76:]
		}
		msg.WriteString(encoded)
		fmt.Fprintf(&msg, "\r\n--%s--\r\n", boundary)
	}

	addr := fmt.Sprintf("%s:%d", n.smtp.Host, n.smtp.Port)
	auth := smtp.PlainAuth("", n.smtp.User, n.smtp.Password, n.smtp.Host)
	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

// SendSMS delivers a text message through the Twilio REST API.
func (n *Notifier) SendSMS(to, body string) error {
	if n.twilio.AccountSID == "" || n.twilio.AuthToken == "" {
		n.log.Warn("twilio not configured, skipping sms")
		return nil
	}

	url := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", n.twilio.AccountSID)
	resp, err := n.client.R().
		SetBasicAuth(n.twilio.AccountSID, n.twilio.AuthToken).
		SetFormData(map[string]string{
			"To":   to,
			"From": n.twilio.FromPhone,
			"Body": body,
		}).
		Post(url)
	if err != nil {
		return fmt.Errorf("send sms to %s: %w", to, err)
	}
	if resp.IsError() {
		return fmt.Errorf("twilio returned %s: %s", resp.Status(), resp.String())
	}
	return nil
}
