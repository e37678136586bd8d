package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SindhuAbhirami/civic-watch/middlewares"
	"github.com/SindhuAbhirami/civic-watch/models"
	"github.com/SindhuAbhirami/civic-watch/services"
	"github.com/SindhuAbhirami/civic-watch/storage"
)

type IssueController struct {
	Engine    *services.IssueEngine
	Projector *services.Projector
	Photos    *storage.Photos
}

// parseCoord reads an optional coordinate form field. An empty value means
// no coordinate.
func parseCoord(c *gin.Context, field string, limit float64) (*float64, bool) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < -limit || v > limit {
		badRequest(c, "Invalid "+field)
		return nil, false
	}
	return &v, true
}

// CreateIssue handles a citizen's report, sent as a multipart form with an
// optional "issue-photo" file.
func (ic *IssueController) CreateIssue(c *gin.Context) {
	session, _ := middlewares.CurrentSession(c)

	issueType := strings.TrimSpace(c.PostForm("issue-type"))
	if issueType == "" {
		badRequest(c, "Issue type is required")
		return
	}
	lat, ok := parseCoord(c, "lat", 90)
	if !ok {
		return
	}
	lng, ok := parseCoord(c, "lng", 180)
	if !ok {
		return
	}

	in := services.ReportInput{
		ReporterID:  session.ActorID,
		IssueType:   issueType,
		OtherText:   c.PostForm("other-issue-text"),
		Description: c.PostForm("issue-description"),
		Lat:         lat,
		Lng:         lng,
	}
	if fh, err := c.FormFile("issue-photo"); err == nil {
		photo, err := ic.Photos.Save(fh)
		if err != nil {
			respondError(c, err)
			return
		}
		in.Photo = &services.Photo{Ref: photo.Ref, Filename: photo.Filename, Content: photo.Content}
	}

	issue, err := ic.Engine.ReportIssue(c.Request.Context(), in)
	if err != nil {
		if in.Photo != nil {
			discardPhoto(ic.Photos, &in.Photo.Ref)
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewIssueView(*issue))
}

func issueID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid issue ID")
		return 0, false
	}
	return id, true
}

// GetIssue retrieves a single issue by its ID
func (ic *IssueController) GetIssue(c *gin.Context) {
	id, ok := issueID(c)
	if !ok {
		return
	}
	issue, err := ic.Engine.GetIssue(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewIssueView(*issue))
}

// AcceptIssue lets the session official take a reported issue.
func (ic *IssueController) AcceptIssue(c *gin.Context) {
	id, ok := issueID(c)
	if !ok {
		return
	}
	session, _ := middlewares.CurrentSession(c)
	issue, err := ic.Engine.Accept(c.Request.Context(), id, session.ActorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Issue accepted.", "issue": models.NewIssueView(*issue)})
}

// FixIssue marks an accepted issue as resolved.
func (ic *IssueController) FixIssue(c *gin.Context) {
	id, ok := issueID(c)
	if !ok {
		return
	}
	session, _ := middlewares.CurrentSession(c)
	issue, err := ic.Engine.MarkFixed(c.Request.Context(), id, session.ActorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Issue marked as fixed.", "issue": models.NewIssueView(*issue)})
}

// GetAllIssues is the public feed, newest first.
func (ic *IssueController) GetAllIssues(c *gin.Context) {
	views, err := ic.Projector.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetMyIssues lists the session citizen's own reports.
func (ic *IssueController) GetMyIssues(c *gin.Context) {
	session, _ := middlewares.CurrentSession(c)
	views, err := ic.Projector.ListByReporter(c.Request.Context(), session.ActorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetOfficialQueue lists every issue with reporter and handler details.
func (ic *IssueController) GetOfficialQueue(c *gin.Context) {
	items, err := ic.Projector.ListOfficialQueue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetHandledIssues lists the issues the session official last acted on.
func (ic *IssueController) GetHandledIssues(c *gin.Context) {
	session, _ := middlewares.CurrentSession(c)
	items, err := ic.Projector.ListHandledBy(c.Request.Context(), session.ActorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
