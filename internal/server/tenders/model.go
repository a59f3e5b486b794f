package tenders

import "time"

// Statuses a tender moves through while the team works it.
const (
	StatusNew        = "New"
	StatusInProgress = "In Progress"
	StatusClosed     = "Closed"
)

var knownStatuses = map[string]struct{}{
	StatusNew:        {},
	StatusInProgress: {},
	StatusClosed:     {},
}

// Categories assigned when tenders are ingested from the portals.
const (
	CategoryIPA               = "IPA"
	CategoryIPD               = "IPD"
	CategoryIntegratedPM      = "Integrated Project Management"
	CategoryProjectManagement = "Project Management"
	CategoryGeneral           = "General"
)

type Tender struct {
	ID                   string
	Title                string
	Description          string
	Budget               string
	Deadline             time.Time
	Location             string
	ProjectType          string
	ContractingAuthority string
	Participants         []string
	ContactDetails       map[string]string
	TenderDate           time.Time
	Category             string
	PlatformSource       string
	PlatformURL          string
	Status               string
	Notes                string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type Share struct {
	ID         string
	TenderID   string
	SharedBy   string
	SharedWith []string
	Message    string
	CreatedAt  time.Time
}

// Filter holds the optional list constraints. Zero values mean
// "no constraint". Location and Search match case-insensitively;
// Search covers title and description.
type Filter struct {
	Status   string
	Category string
	Location string
	Search   string
}
