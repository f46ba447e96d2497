package models

// Alert is a threshold watch on a single company metric. Conditions are
// "above", "below" or "equals".
type Alert struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	UserID      uint    `json:"user_id" gorm:"index"`
	CompanyName string  `json:"company_name"`
	Metric      string  `json:"metric"`
	Condition   string  `json:"condition"`
	Threshold   float64 `json:"threshold"`

	NotifyEmail     bool   `json:"notify_email"`
	NotifySMS       bool   `json:"notify_sms"`
	NotifyDashboard bool   `json:"notify_dashboard"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`

	CreatedAt       string `json:"created_at"`
	LastCheckedAt   string `json:"last_checked_at"`
	LastTriggeredAt string `json:"last_triggered_at"`
}

type Notification struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	AlertID   uint   `json:"alert_id" gorm:"index"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
	Read      bool   `json:"read"`
}
