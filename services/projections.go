package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/SindhuAbhirami/civic-watch/models"
	"github.com/SindhuAbhirami/civic-watch/store"
)

const unknownName = "Unknown"

// Projector builds the read views of issues for each audience. It never
// writes to the store.
type Projector struct {
	store store.Store
}

func NewProjector(s store.Store) *Projector {
	return &Projector{store: s}
}

// snapshot is one consistent-enough read of the collections a view needs.
type snapshot struct {
	issues    []models.Issue
	citizens  map[int64]models.Actor
	officials map[int64]models.Actor
}

func index(actors []models.Actor) map[int64]models.Actor {
	out := make(map[int64]models.Actor, len(actors))
	for _, a := range actors {
		out[a.ID] = a
	}
	return out
}

func (p *Projector) load(ctx context.Context, roles ...models.Role) (*snapshot, error) {
	var snap snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		issues, err := p.store.ListIssues(ctx)
		snap.issues = issues
		return err
	})
	for _, role := range roles {
		role := role
		g.Go(func() error {
			actors, err := p.store.ListActors(ctx, role)
			if err != nil {
				return err
			}
			if role == models.RoleOfficial {
				snap.officials = index(actors)
			} else {
				snap.citizens = index(actors)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// newestFirst walks issues from the most recently created and keeps the
// ones keep accepts.
func newestFirst[T any](issues []models.Issue, keep func(models.Issue) bool, view func(models.Issue) T) []T {
	out := make([]T, 0, len(issues))
	for i := len(issues) - 1; i >= 0; i-- {
		if keep == nil || keep(issues[i]) {
			out = append(out, view(issues[i]))
		}
	}
	return out
}

// ListAll is the public feed.
func (p *Projector) ListAll(ctx context.Context) ([]models.IssueView, error) {
	snap, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	return newestFirst(snap.issues, nil, models.NewIssueView), nil
}

func (p *Projector) ListByReporter(ctx context.Context, reporterID int64) ([]models.IssueView, error) {
	snap, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	return newestFirst(snap.issues,
		func(i models.Issue) bool { return i.ReporterID == reporterID },
		models.NewIssueView), nil
}

// ListOfficialQueue joins every issue with its reporter and handler.
func (p *Projector) ListOfficialQueue(ctx context.Context) ([]models.QueueItem, error) {
	snap, err := p.load(ctx, models.RoleCitizen, models.RoleOfficial)
	if err != nil {
		return nil, err
	}
	return newestFirst(snap.issues, nil, func(i models.Issue) models.QueueItem {
		item := models.QueueItem{
			IssueView: models.NewIssueView(i),
			Reporter:  models.ReporterSummary{Fullname: unknownName, Username: "N/A"},
		}
		if r, ok := snap.citizens[i.ReporterID]; ok {
			item.Reporter = models.ReporterSummary{Fullname: r.Fullname, Username: r.Username, PhotoRef: r.PhotoRef}
		}
		if i.HandlerID != nil {
			if h, ok := snap.officials[*i.HandlerID]; ok {
				item.Handler = &models.HandlerSummary{Fullname: h.Fullname, Department: h.Department()}
			}
		}
		return item
	}), nil
}

// ListHandledBy is an official's history: issues they last acted on.
func (p *Projector) ListHandledBy(ctx context.Context, officialID int64) ([]models.HandledIssue, error) {
	snap, err := p.load(ctx, models.RoleCitizen)
	if err != nil {
		return nil, err
	}
	return newestFirst(snap.issues,
		func(i models.Issue) bool { return i.HandlerID != nil && *i.HandlerID == officialID },
		func(i models.Issue) models.HandledIssue {
			name := unknownName
			if r, ok := snap.citizens[i.ReporterID]; ok {
				name = r.Fullname
			}
			return models.HandledIssue{IssueView: models.NewIssueView(i), ReporterName: name}
		}), nil
}
