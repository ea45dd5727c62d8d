// Package identity resolves application user identities against the
// authentication provider.
package identity

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"

	"btrips/internal/repository"
)

// Resolver maps an email address to the stable application user id.
type Resolver interface {
	// LookupByEmail returns the user id for an email, or
	// repository.ErrNotFound if no such user exists.
	LookupByEmail(ctx context.Context, email string) (string, error)
}

// FirebaseResolver resolves users through Firebase Authentication.
type FirebaseResolver struct {
	client *auth.Client
}

// NewFirebaseResolver creates a resolver backed by the given auth client.
func NewFirebaseResolver(client *auth.Client) *FirebaseResolver {
	return &FirebaseResolver{client: client}
}

// LookupByEmail returns the Firebase UID for an email address.
func (r *FirebaseResolver) LookupByEmail(ctx context.Context, email string) (string, error) {
	user, err := r.client.GetUserByEmail(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("lookup user by email: %w", err)
	}
	return user.UID, nil
}

var _ Resolver = (*FirebaseResolver)(nil)
