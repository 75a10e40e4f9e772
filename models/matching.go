package models

// MatchRequest describes one partner search: which services, where, and when.
// MinRating, MaxDistanceKm and MaxResults are tunable filters; the matcher
// applies its defaults when they are zero.
type MatchRequest struct {
	ServiceTypes  []string `json:"serviceTypes"`
	Location      GeoPoint `json:"location"`
	Date          string   `json:"date"`     // "YYYY-MM-DD"
	TimeSlot      string   `json:"timeSlot"` // "HH:MM"
	MinRating     float64  `json:"minRating,omitempty"`
	MaxDistanceKm float64  `json:"maxDistanceKm,omitempty"`
	MaxResults    int      `json:"maxResults,omitempty"`
}

// RankedPartner holds partner data along with its computed score and
// proximity. Scores are ephemeral: computed per match request, never
// persisted.
type RankedPartner struct {
	Partner    Partner `json:"partner"`
	Score      float64 `json:"score"`
	DistanceKm float64 `json:"distanceKm"`
}
