package models

// DashboardStats is the admin dashboard snapshot. Not a table.
type DashboardStats struct {
	TotalAds        int64 `json:"total_ads" gorm:"column:total_ads"`
	ApprovedAds     int64 `json:"approved_ads" gorm:"column:approved_ads"`
	PendingAds      int64 `json:"pending_ads" gorm:"column:pending_ads"`
	AdsLast7Days    int64 `json:"ads_last_7_days" gorm:"column:ads_last_7_days"`
	AdsCurrentMonth int64 `json:"ads_current_month" gorm:"column:ads_current_month"`
	AdsLastMonth    int64 `json:"ads_last_month" gorm:"column:ads_last_month"`
}
