// Package firestore implements the repository interfaces against Cloud
// Firestore, the hosted document database backing the BTrips app.
package firestore

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Collection names shared with the mobile and web clients.
const (
	collCustomers   = "stripeCustomers"
	collActiveRides = "activeRides"
	collRideHistory = "rideHistory"
	collInvoices    = "adminInvoices"
	collDrivers     = "drivers"
	collProfiles    = "userProfiles"
	collPresets     = "presetLocations"
)

// isNotFound reports whether err is the Firestore missing-document error.
func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// isAlreadyExists reports whether err means a Create lost to an existing doc.
func isAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}
