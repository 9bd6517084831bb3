package domain

import "time"

// EnvironmentRecord is one sensor reading from a site's hydroponic bed.
// Records are immutable once loaded.
type EnvironmentRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	PH          float64   `json:"ph"`
	EC          float64   `json:"ec"`
}

// GrowthRecord is one harvested specimen from a site's growth sheet.
type GrowthRecord struct {
	FreshWeight float64 `json:"fresh_weight"`
	LeafCount   float64 `json:"leaf_count"`
	ShootLength float64 `json:"shoot_length"`
}
