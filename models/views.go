package models

// IssueView is an issue as clients see it, with its derived color.
type IssueView struct {
	Issue
	StatusColor StatusColor `json:"statusColor"`
}

func NewIssueView(i Issue) IssueView {
	return IssueView{Issue: i, StatusColor: i.Status.Color()}
}

// ReporterSummary is the public subset of a reporter shown to officials.
type ReporterSummary struct {
	Fullname string  `json:"fullname"`
	Username string  `json:"username"`
	PhotoRef *string `json:"photo"`
}

// HandlerSummary is the public subset of the handling official.
type HandlerSummary struct {
	Fullname   string `json:"fullname"`
	Department string `json:"department"`
}

// QueueItem is one row of the official work queue.
type QueueItem struct {
	IssueView
	Reporter ReporterSummary `json:"reporter"`
	Handler  *HandlerSummary `json:"handler"`
}

// HandledIssue is one row of an official's history.
type HandledIssue struct {
	IssueView
	ReporterName string `json:"reporterName"`
}
