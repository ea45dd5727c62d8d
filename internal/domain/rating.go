package domain

// RatingDirection says who is rating whom on a ride.
type RatingDirection string

const (
	// RatingRiderToDriver is a rider rating the driver who served the ride.
	RatingRiderToDriver RatingDirection = "rider_to_driver"

	// RatingDriverToRider is a driver rating the rider.
	RatingDriverToRider RatingDirection = "driver_to_rider"
)

// Valid reports whether the direction is one of the two recognized values.
func (d RatingDirection) Valid() bool {
	return d == RatingRiderToDriver || d == RatingDriverToRider
}

// RatingAggregate is the running average kept on the rated party's record.
type RatingAggregate struct {
	Average float64 `json:"rating" firestore:"rating"`
	Count   int64   `json:"totalRatings" firestore:"totalRatings"`
}

// NextAverage folds one new rating into a running weighted mean.
// The count increments by exactly one per applied rating.
func NextAverage(avg float64, count int64, rating float64) (float64, int64) {
	next := (avg*float64(count) + rating) / float64(count+1)
	return next, count + 1
}
