package bootstrap

import (
	"context"

	"github.com/roach88/arwiki/internal/arwiki"
)

// AdminSource returns the admins contract list.
type AdminSource interface {
	AdminList(ctx context.Context) (arwiki.AdminList, error)
}

// ModeratorResolver derives moderator privilege from the admins contract.
// The list is fetched on every call.
type ModeratorResolver struct {
	admins AdminSource
}

// NewModeratorResolver creates a resolver over admins.
func NewModeratorResolver(admins AdminSource) *ModeratorResolver {
	return &ModeratorResolver{admins: admins}
}

// IsModerator reports whether address is in the admin list.
//
// A failed fetch yields false together with a NetworkUnavailable warning.
// The warning is informational; false is the answer to act on.
func (m *ModeratorResolver) IsModerator(ctx context.Context, address string) (bool, error) {
	list, err := m.admins.AdminList(ctx)
	if err != nil {
		return false, arwiki.NetworkUnavailable("bootstrap.IsModerator", err)
	}
	return list.Contains(address), nil
}
