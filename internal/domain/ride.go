package domain

import (
	"fmt"
	"strings"
	"time"
)

// RideStatus represents the lifecycle status of a ride.
type RideStatus string

const (
	RideStatusPending   RideStatus = "pending"
	RideStatusAccepted  RideStatus = "accepted"
	RideStatusInRide    RideStatus = "in_ride"
	RideStatusCompleted RideStatus = "completed"
	RideStatusCancelled RideStatus = "cancelled"
)

// PaymentStatus represents the payment outcome recorded on a ride.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// VehicleType is the closed set of vehicle variants accepted on ride and
// driver records. Writes outside this set are rejected.
type VehicleType string

const (
	VehicleSedan     VehicleType = "Sedan"
	VehicleSUV       VehicleType = "SUV"
	VehicleLuxurySUV VehicleType = "Luxury SUV"
)

// ParseVehicleType normalizes the free-text variants that have historically
// drifted into the data ("car", "suv", "luxury suv") onto the canonical set.
// Anything else is rejected.
func ParseVehicleType(s string) (VehicleType, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); {
	case v == "sedan" || v == "car":
		return VehicleSedan, nil
	case strings.Contains(v, "luxury") && strings.Contains(v, "suv"):
		return VehicleLuxurySUV, nil
	case v == "suv":
		return VehicleSUV, nil
	default:
		return "", fmt.Errorf("invalid vehicle type %q", s)
	}
}

// Ride is a ride document as held in the active or historical store.
type Ride struct {
	ID              string        `json:"id" firestore:"-"`
	UserID          string        `json:"userId" firestore:"userId"`
	UserEmail       string        `json:"userEmail" firestore:"userEmail"`
	DriverID        string        `json:"driverId" firestore:"driverId"`
	Status          RideStatus    `json:"status" firestore:"status"`
	VehicleType     VehicleType   `json:"vehicleType" firestore:"vehicleType"`
	PickupAddress   string        `json:"pickupAddress" firestore:"pickupAddress"`
	DropoffAddress  string        `json:"dropoffAddress" firestore:"dropoffAddress"`
	Fare            float64       `json:"fare" firestore:"fare"`
	PaymentStatus   PaymentStatus `json:"paymentStatus" firestore:"paymentStatus"`
	PaymentIntentID string        `json:"paymentIntentId,omitempty" firestore:"paymentIntentId,omitempty"`
	PaymentError    string        `json:"paymentError,omitempty" firestore:"paymentError,omitempty"`
	// Rating fields are named for their author: UserRating is the rating the
	// rider gave the driver, DriverRating the one the driver gave the rider.
	UserRating      float64       `json:"userRating,omitempty" firestore:"userRating,omitempty"`
	UserFeedback    string        `json:"userFeedback,omitempty" firestore:"userFeedback,omitempty"`
	DriverRating    float64       `json:"driverRating,omitempty" firestore:"driverRating,omitempty"`
	DriverFeedback  string        `json:"driverFeedback,omitempty" firestore:"driverFeedback,omitempty"`
	CreatedAt       time.Time     `json:"createdAt" firestore:"createdAt"`
}

// PaymentOutcome is the terminal result of one charge attempt against a ride.
type PaymentOutcome struct {
	Status          PaymentStatus
	PaymentIntentID string
	Error           string
	ProcessedAt     time.Time
}
