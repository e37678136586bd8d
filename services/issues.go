package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SindhuAbhirami/civic-watch/classifier"
	"github.com/SindhuAbhirami/civic-watch/models"
	"github.com/SindhuAbhirami/civic-watch/store"
)

const (
	otherIssueType     = "other"
	defaultOtherName   = "Other Issue"
	defaultDescription = "No description"
)

// Photo is an uploaded report image: where it was stored and its bytes.
type Photo struct {
	Ref      string
	Filename string
	Content  []byte
}

type ReportInput struct {
	ReporterID  int64
	IssueType   string
	OtherText   string
	Description string
	Photo       *Photo
	Lat         *float64
	Lng         *float64
}

// IssueEngine owns the issue lifecycle: creation by citizens and the
// accept / fix transitions performed by officials.
type IssueEngine struct {
	store           store.Store
	classifier      classifier.Classifier
	classifyTimeout time.Duration
	ids             *idSource
	locks           keyedMutex
}

type EngineOption func(*IssueEngine)

// WithClassifier enables automatic descriptions for photo-only reports.
func WithClassifier(c classifier.Classifier, timeout time.Duration) EngineOption {
	return func(e *IssueEngine) {
		e.classifier = c
		e.classifyTimeout = timeout
	}
}

func WithClock(now func() time.Time) EngineOption {
	return func(e *IssueEngine) { e.ids = newIDSource(now) }
}

func NewIssueEngine(s store.Store, opts ...EngineOption) *IssueEngine {
	e := &IssueEngine{store: s, ids: newIDSource(nil), classifyTimeout: 10 * time.Second}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// issueName turns an issue-type tag like "broken-street-light" into a
// display name.
func issueName(issueType, otherText string) string {
	if issueType == otherIssueType {
		if otherText == "" {
			return defaultOtherName
		}
		return otherText
	}
	return strings.NewReplacer("-", " ", "_", " ").Replace(issueType)
}

// classify returns a prediction for the photo, or false when none is
// available for any reason.
func (e *IssueEngine) classify(ctx context.Context, photo *Photo) (classifier.Prediction, bool) {
	if e.classifier == nil || photo == nil || len(photo.Content) == 0 {
		return classifier.Prediction{}, false
	}
	ctx, cancel := context.WithTimeout(ctx, e.classifyTimeout)
	defer cancel()

	p, err := e.classifier.Classify(ctx, photo.Filename, photo.Content)
	if err != nil {
		log.Println("AI prediction failed:", err)
		return classifier.Prediction{}, false
	}
	return p, true
}

func (e *IssueEngine) describe(ctx context.Context, in ReportInput) string {
	if in.Description != "" {
		return in.Description
	}
	if p, ok := e.classify(ctx, in.Photo); ok {
		return fmt.Sprintf("Detected: %s (%.2f%%)", p.Label, p.Confidence*100)
	}
	return defaultDescription
}

// ReportIssue records a new issue for an existing citizen. Missing photo or
// coordinates are accepted.
func (e *IssueEngine) ReportIssue(ctx context.Context, in ReportInput) (*models.Issue, error) {
	reporter, err := e.store.FindActor(ctx, models.RoleCitizen, in.ReporterID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrReporterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find reporter: %w", err)
	}

	id, now := e.ids.next()
	issue := models.Issue{
		ID:          id,
		ReporterID:  reporter.ID,
		Type:        in.IssueType,
		Name:        issueName(in.IssueType, in.OtherText),
		Description: e.describe(ctx, in),
		Area:        reporter.Address(),
		Lat:         in.Lat,
		Lng:         in.Lng,
		Status:      models.StatusReported,
		CreatedAt:   now,
	}
	if in.Photo != nil && in.Photo.Ref != "" {
		ref := in.Photo.Ref
		issue.PhotoRef = &ref
	}

	if err := e.store.SaveIssue(ctx, &issue); err != nil {
		return nil, fmt.Errorf("save issue: %w", err)
	}
	return &issue, nil
}

func (e *IssueEngine) GetIssue(ctx context.Context, issueID int64) (*models.Issue, error) {
	issue, err := e.store.FindIssue(ctx, issueID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrIssueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find issue: %w", err)
	}
	return issue, nil
}

// Accept moves a reported issue to accepted and makes officialID its
// handler.
func (e *IssueEngine) Accept(ctx context.Context, issueID, officialID int64) (*models.Issue, error) {
	return e.transition(ctx, issueID, officialID, models.StatusAccepted)
}

// MarkFixed resolves an accepted issue. officialID replaces any previous
// handler.
func (e *IssueEngine) MarkFixed(ctx context.Context, issueID, officialID int64) (*models.Issue, error) {
	return e.transition(ctx, issueID, officialID, models.StatusResolved)
}

func (e *IssueEngine) transition(ctx context.Context, issueID, officialID int64, to models.IssueStatus) (*models.Issue, error) {
	unlock := e.locks.Lock(issueID)
	defer unlock()

	issue, err := e.GetIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if err := issue.Transition(to, officialID); err != nil {
		return nil, fmt.Errorf("%w: %q to %q", ErrInvalidTransition, issue.Status, to)
	}
	if err := e.store.SaveIssue(ctx, issue); err != nil {
		return nil, fmt.Errorf("save issue: %w", err)
	}
	return issue, nil
}
