package models

import "time"

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`               // Always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

// NewGeoPoint builds a GeoJSON point from a longitude/latitude pair.
func NewGeoPoint(lon, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lon, lat}}
}

// Lon returns the longitude, or 0 when the point is malformed.
func (g GeoPoint) Lon() float64 {
	if len(g.Coordinates) < 2 {
		return 0
	}
	return g.Coordinates[0]
}

// Lat returns the latitude, or 0 when the point is malformed.
func (g GeoPoint) Lat() float64 {
	if len(g.Coordinates) < 2 {
		return 0
	}
	return g.Coordinates[1]
}

// TimeWindow is one working interval within a day, "HH:MM" inclusive start,
// exclusive end.
type TimeWindow struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// Partner is a service-provider candidate. Partner profiles are owned and
// mutated by an external collaborator; this service only reads them to score
// and check availability.
type Partner struct {
	ID              string   `bson:"id" json:"id"`
	Name            string   `bson:"name" json:"name"`
	ServiceTypes    []string `bson:"service_types" json:"serviceTypes"`
	Rating          float64  `bson:"rating" json:"rating"` // 0-5
	YearsExperience int      `bson:"years_experience" json:"yearsExperience"`
	Verified        bool     `bson:"verified" json:"verified"`
	TotalReviews    int      `bson:"total_reviews" json:"totalReviews"`
	LocationGeo     GeoPoint `bson:"location_geo" json:"locationGeo"`

	// WorkingHours is keyed by weekday name ("Monday" .. "Sunday").
	WorkingHours map[string][]TimeWindow `bson:"working_hours" json:"workingHours"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt,omitzero"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt,omitzero"`
}
