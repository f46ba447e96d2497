package models

// ScheduledReport is a recurring report subscription. Sections is a JSON
// array of section type names.
type ScheduledReport struct {
	ReportID        string `json:"report_id" gorm:"primaryKey"`
	UserID          uint   `json:"user_id" gorm:"index"`
	CompanyName     string `json:"company_name"`
	Sections        string `json:"sections"`
	Schedule        string `json:"schedule"` // once, daily, weekly, monthly
	DeliveryEmail   bool   `json:"delivery_email"`
	Email           string `json:"email"`
	CreatedAt       string `json:"created_at"`
	LastGeneratedAt string `json:"last_generated_at"`
}

// ReportRecord is one ad-hoc generation requested through the API, kept so
// users can re-download past artifacts.
type ReportRecord struct {
	ID          string `json:"id" gorm:"primaryKey"`
	UserID      uint   `json:"user_id" gorm:"index"`
	CompanyName string `json:"company_name"`
	Sections    string `json:"sections"`
	Format      string `json:"format"`
	FilePath    string `json:"file_path"`
	Filename    string `json:"filename"`
	CreatedAt   string `json:"created_at"`
}

// ReportHistory records one generation attempt for a scheduled report.
type ReportHistory struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	ReportID     string `json:"report_id" gorm:"index"`
	GeneratedAt  string `json:"generated_at"`
	FilePath     string `json:"file_path"`
	Status       string `json:"status"` // completed, failed
	ErrorMessage string `json:"error_message"`
}
