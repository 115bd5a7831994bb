package auth

import "github.com/dmitrijs2005/gophtasks/internal/common"

// Authorize allows an actor to touch only records it owns.
func Authorize(actorID, ownerID int64) error {
	if actorID != ownerID {
		return common.ErrorForbidden
	}
	return nil
}
