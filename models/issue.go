package models

import (
	"errors"
	"time"
)

// IssueStatus enum
type IssueStatus string

const (
	StatusReported IssueStatus = "Reported, Pending Confirmation"
	StatusAccepted IssueStatus = "Accepted by Official"
	StatusResolved IssueStatus = "Resolved"
)

// StatusColor is the color tag shown next to a status. It is always derived
// from IssueStatus and never stored.
type StatusColor string

const (
	ColorRed    StatusColor = "red"
	ColorYellow StatusColor = "yellow"
	ColorGreen  StatusColor = "green"
)

func (s IssueStatus) Color() StatusColor {
	switch s {
	case StatusAccepted:
		return ColorYellow
	case StatusResolved:
		return ColorGreen
	default:
		return ColorRed
	}
}

// ErrTransition is returned when a status change is not allowed from the
// issue's current status.
var ErrTransition = errors.New("transition not allowed from current status")

// next maps each status to the only status it may move to.
var next = map[IssueStatus]IssueStatus{
	StatusReported: StatusAccepted,
	StatusAccepted: StatusResolved,
}

// Issue represents an infrastructure problem reported by a citizen
type Issue struct {
	ID          int64       `bson:"_id" json:"id"`
	ReporterID  int64       `bson:"reporterId" json:"reporterId"`
	Type        string      `bson:"type" json:"type"`
	Name        string      `bson:"name" json:"name"`
	Description string      `bson:"description" json:"description"`
	Area        string      `bson:"area" json:"area"`
	PhotoRef    *string     `bson:"photo,omitempty" json:"photo"`
	Lat         *float64    `bson:"lat,omitempty" json:"lat"`
	Lng         *float64    `bson:"lng,omitempty" json:"lng"`
	Status      IssueStatus `bson:"status" json:"status"`
	HandlerID   *int64      `bson:"handlerId,omitempty" json:"handlerId"`
	CreatedAt   time.Time   `bson:"createdAt" json:"timestamp"`
}

// Transition moves the issue to status `to`, recording officialID as its
// handler. Only the next status in the lifecycle is accepted.
func (i *Issue) Transition(to IssueStatus, officialID int64) error {
	if next[i.Status] != to {
		return ErrTransition
	}
	i.Status = to
	i.HandlerID = &officialID
	return nil
}

// Clone returns a deep copy of i.
func (i Issue) Clone() Issue {
	if i.PhotoRef != nil {
		p := *i.PhotoRef
		i.PhotoRef = &p
	}
	if i.Lat != nil {
		v := *i.Lat
		i.Lat = &v
	}
	if i.Lng != nil {
		v := *i.Lng
		i.Lng = &v
	}
	if i.HandlerID != nil {
		h := *i.HandlerID
		i.HandlerID = &h
	}
	return i
}
