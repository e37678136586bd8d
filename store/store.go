// Package store persists the three record collections: citizens, officials
// and issues. Backends differ in how they lay records out, but all of them
// expose the same keyed lookups so callers never depend on the layout.
package store

import (
	"context"
	"errors"

	"github.com/SindhuAbhirami/civic-watch/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// ActorStore holds citizens and officials in separate collections. The role
// argument selects the collection.
type ActorStore interface {
	FindActor(ctx context.Context, role models.Role, id int64) (*models.Actor, error)
	FindActorByUsername(ctx context.Context, role models.Role, username string) (*models.Actor, error)
	ListActors(ctx context.Context, role models.Role) ([]models.Actor, error)
	// SaveActor inserts the actor or replaces the record with the same ID.
	SaveActor(ctx context.Context, actor *models.Actor) error
}

type IssueStore interface {
	FindIssue(ctx context.Context, id int64) (*models.Issue, error)
	// ListIssues returns every issue in creation order.
	ListIssues(ctx context.Context) ([]models.Issue, error)
	SaveIssue(ctx context.Context, issue *models.Issue) error
}

type Store interface {
	ActorStore
	IssueStore
}

func collectionFor(role models.Role) string {
	if role == models.RoleOfficial {
		return "officials"
	}
	return "citizens"
}
