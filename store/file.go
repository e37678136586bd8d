package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/SindhuAbhirami/civic-watch/models"
)

// File keeps each collection in its own JSON file under dir. Every read
// loads the whole collection and every write rewrites it through a temp
// file and rename, so a collection on disk is always either the old or
// the new version.
type File struct {
	dir string
	mu  sync.Mutex
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(collection string) string {
	return filepath.Join(f.dir, collection+".json")
}

// load decodes a collection; a missing or empty file is an empty collection.
func load[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return records, nil
}

func save[T any](path string, records []T) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (f *File) FindActor(_ context.Context, role models.Role, id int64) (*models.Actor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	actors, err := load[models.Actor](f.path(collectionFor(role)))
	if err != nil {
		return nil, err
	}
	for i := range actors {
		if actors[i].ID == id {
			return &actors[i], nil
		}
	}
	return nil, ErrNotFound
}

func (f *File) FindActorByUsername(_ context.Context, role models.Role, username string) (*models.Actor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	actors, err := load[models.Actor](f.path(collectionFor(role)))
	if err != nil {
		return nil, err
	}
	for i := range actors {
		if actors[i].Username == username {
			return &actors[i], nil
		}
	}
	return nil, ErrNotFound
}

func (f *File) ListActors(_ context.Context, role models.Role) ([]models.Actor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return load[models.Actor](f.path(collectionFor(role)))
}

func (f *File) SaveActor(_ context.Context, actor *models.Actor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := f.path(collectionFor(actor.Role))
	actors, err := load[models.Actor](path)
	if err != nil {
		return err
	}
	replaced := false
	for i := range actors {
		if actors[i].ID == actor.ID {
			actors[i] = *actor
			replaced = true
			break
		}
	}
	if !replaced {
		actors = append(actors, *actor)
	}
	return save(path, actors)
}

func (f *File) FindIssue(_ context.Context, id int64) (*models.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issues, err := load[models.Issue](f.path("issues"))
	if err != nil {
		return nil, err
	}
	for i := range issues {
		if issues[i].ID == id {
			return &issues[i], nil
		}
	}
	return nil, ErrNotFound
}

func (f *File) ListIssues(_ context.Context) ([]models.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return load[models.Issue](f.path("issues"))
}

func (f *File) SaveIssue(_ context.Context, issue *models.Issue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := f.path("issues")
	issues, err := load[models.Issue](path)
	if err != nil {
		return err
	}
	replaced := false
	for i := range issues {
		if issues[i].ID == issue.ID {
			issues[i] = *issue
			replaced = true
			break
		}
	}
	if !replaced {
		issues = append(issues, *issue)
	}
	return save(path, issues)
}
