package model

import (
	"time"

	"gorm.io/gorm"
)

// Search is a stored route search in the history database
type Search struct {
	ID                string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Origin            string `gorm:"type:varchar(255);not null" json:"origin"`
	Destination       string `gorm:"type:varchar(255);not null" json:"destination"`
	Mode              string `gorm:"type:varchar(32);not null" json:"mode"`
	VehicleType       string `gorm:"type:varchar(32)" json:"vehicle_type"`
	Waypoints         string `gorm:"type:text" json:"waypoints"`
	OptimizeWaypoints bool   `gorm:"not null;default:false" json:"optimize_waypoints"`

	// Aggregates over the returned alternatives
	RouteCount        int     `gorm:"not null;default:0" json:"route_count"`
	LowestEmissionsKg float64 `gorm:"not null;default:0" json:"lowest_emissions_kg"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Routes []SearchRoute `gorm:"foreignKey:SearchID;constraint:OnDelete:CASCADE" json:"routes"`
}

// SearchRoute is one alternative returned for a stored search
type SearchRoute struct {
	ID                   uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	SearchID             string  `gorm:"type:varchar(36);not null;index" json:"search_id"`
	RouteIndex           int     `gorm:"not null" json:"route_index"`
	Summary              string  `gorm:"type:varchar(255)" json:"summary"`
	LegCount             int     `gorm:"not null" json:"leg_count"`
	TotalDistanceMeters  int     `gorm:"not null" json:"total_distance_meters"`
	TotalDurationSeconds int     `gorm:"not null" json:"total_duration_seconds"`
	CarbonEmissionsKg    float64 `gorm:"not null" json:"carbon_emissions_kg"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for Search
func (Search) TableName() string {
	return "searches"
}

// TableName sets the table name for SearchRoute
func (SearchRoute) TableName() string {
	return "search_routes"
}
