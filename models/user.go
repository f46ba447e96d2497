package models

type User struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Username  string `json:"username" gorm:"uniqueIndex"`
	Password  string `json:"-"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type UserIndustry struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	UserID       uint   `json:"user_id" gorm:"index:idx_user_industry,unique"`
	IndustryName string `json:"industry_name" gorm:"index:idx_user_industry,unique"`
	AddedDate    string `json:"added_date"`
}
