package models

import "time"

// Tender statuses as published by the server.
const (
	TenderStatusNew        = "New"
	TenderStatusInProgress = "In Progress"
	TenderStatusClosed     = "Closed"
)

// Tender categories as published by the server.
const (
	CategoryIPA               = "IPA"
	CategoryIPD               = "IPD"
	CategoryIntegratedPM      = "Integrated Project Management"
	CategoryProjectManagement = "Project Management"
	CategoryGeneral           = "General"
)

// Tender is a procurement/construction tender scraped from an external
// portal. The record is owned by the server; the client renders it.
type Tender struct {
	ID                   string            `json:"id"`
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	Budget               string            `json:"budget,omitempty"`
	Deadline             time.Time         `json:"deadline"`
	Location             string            `json:"location"`
	ProjectType          string            `json:"project_type"`
	ContractingAuthority string            `json:"contracting_authority"`
	Participants         []string          `json:"participants"`
	ContactDetails       map[string]string `json:"contact_details"`
	TenderDate           time.Time         `json:"tender_date"`
	Category             string            `json:"category"`
	PlatformSource       string            `json:"platform_source"`
	PlatformURL          string            `json:"platform_url"`
	Status               string            `json:"status"`
	Notes                string            `json:"notes,omitempty"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

// Share records a tender being shared with teammates.
type Share struct {
	ID         string    `json:"id"`
	TenderID   string    `json:"tender_id"`
	SharedBy   string    `json:"shared_by"`
	SharedWith []string  `json:"shared_with"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TenderFilter carries the optional list filters the server accepts.
// Zero values mean "no constraint".
type TenderFilter struct {
	Status   string
	Category string
	Location string
	Search   string
}
