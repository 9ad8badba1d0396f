// Package identity resolves a visitor to a backend member by email.
package identity

import (
	"context"

	"github.com/louisbranch/gymmanager/internal/client/gateway"
	"github.com/louisbranch/gymmanager/internal/gym"
	apperrors "github.com/louisbranch/gymmanager/internal/platform/errors"
)

// LoginGateway performs the upsert exchange.
type LoginGateway interface {
	Login(ctx context.Context, email, fullName string) (gym.Member, error)
}

// Resolver executes the login/sign-up upsert. The backend owns the
// semantics: an unknown email creates a member named fullName, a known email
// returns the stored member untouched.
type Resolver struct {
	gateway LoginGateway
}

// NewResolver creates a Resolver backed by gw.
func NewResolver(gw LoginGateway) *Resolver {
	return &Resolver{gateway: gw}
}

// Resolve performs one upsert exchange. Email format is backend policy and is
// not checked here. Failures are IDENTITY_FAILURE errors whose message is the
// backend detail verbatim.
func (r *Resolver) Resolve(ctx context.Context, email, fullName string) (gym.Member, error) {
	member, err := r.gateway.Login(ctx, email, fullName)
	if err != nil {
		return gym.Member{}, apperrors.WrapWithMetadata(
			apperrors.CodeIdentityFailure,
			apperrors.UserMessage(err, gateway.FallbackLogin),
			map[string]string{"cause_code": string(apperrors.CodeOf(err))},
			err,
		)
	}
	return member, nil
}
