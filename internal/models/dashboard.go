package models

import "gorm.io/datatypes"

// ClientDashboard holds the monthly report an admin publishes for a client.
// One row per (client_id, report_period); admins write through an upsert.
type ClientDashboard struct {
	BaseModel
	ClientID        string         `gorm:"not null;index:idx_dashboard_client_period,unique" json:"client_id"`
	ReportPeriod    string         `gorm:"not null;index:idx_dashboard_client_period,unique" json:"report_period"` // "2026-08"
	Metrics         datatypes.JSON `gorm:"type:jsonb" json:"metrics"`    // [{"label": ..., "value": ...}, ...]
	ChartData       datatypes.JSON `gorm:"type:jsonb" json:"chart_data"` // [{"name": ..., "points": [...]}, ...]
	Recommendations string         `json:"recommendations"`
}

type UpsertDashboardRequest struct {
	ClientID        string         `json:"client_id" validate:"required"`
	ReportPeriod    string         `json:"report_period" validate:"required"`
	Metrics         datatypes.JSON `json:"metrics"`
	ChartData       datatypes.JSON `json:"chart_data"`
	Recommendations string         `json:"recommendations"`
}
