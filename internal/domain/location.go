package domain

// PresetLocation is a curated pickup/dropoff suggestion shown to riders.
type PresetLocation struct {
	ID        string  `json:"id" firestore:"-"`
	Name      string  `json:"name" firestore:"name"`
	Address   string  `json:"address" firestore:"address"`
	Latitude  float64 `json:"latitude" firestore:"latitude"`
	Longitude float64 `json:"longitude" firestore:"longitude"`
	Category  string  `json:"category" firestore:"category"`
	SortOrder int64   `json:"sortOrder" firestore:"sortOrder"`
}
