package models

import "time"

// Report statuses a submission moves through. Workers and officers advance
// reports from pending towards resolved; rejection is terminal.
const (
	ReportStatusPending    = "pending"
	ReportStatusInProgress = "in_progress"
	ReportStatusVerified   = "verified"
	ReportStatusResolved   = "resolved"
	ReportStatusRejected   = "rejected"
)

type Report struct {
	ID               string   `json:"id" db:"id"`
	ReportNumber     int      `json:"report_number" db:"report_number"`
	UserID           string   `json:"user_id" db:"user_id"`
	Description      string   `json:"description" db:"description"`
	PhotoURL         *string  `json:"photo_url,omitempty" db:"photo_url"`
	Latitude         *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude        *float64 `json:"longitude,omitempty" db:"longitude"`
	Address          *string  `json:"address,omitempty" db:"address"`
	Zone             string   `json:"zone" db:"zone"`
	Category         string   `json:"category" db:"category"`
	DisposalMethod   string   `json:"disposal_method" db:"disposal_method"`
	QualityScore     int      `json:"quality_score" db:"quality_score"`
	Status           string   `json:"status" db:"status"`
	AssignedWorkerID *string  `json:"assigned_worker_id,omitempty" db:"assigned_worker_id"`
	CreatedAt        int64    `json:"created_at" db:"created_at"` // Unix timestamp
	UpdatedAt        int64    `json:"updated_at" db:"updated_at"` // Unix timestamp
	ResolvedAt       *int64   `json:"resolved_at,omitempty" db:"resolved_at"`
}

// ReportResponse is what we send to the client with ISO timestamps
type ReportResponse struct {
	ID               string   `json:"id"`
	ReportNumber     int      `json:"report_number"`
	UserID           string   `json:"user_id"`
	Description      string   `json:"description"`
	PhotoURL         *string  `json:"photo_url,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	Address          *string  `json:"address,omitempty"`
	Zone             string   `json:"zone"`
	Category         string   `json:"category"`
	DisposalMethod   string   `json:"disposal_method"`
	QualityScore     int      `json:"quality_score"`
	Status           string   `json:"status"`
	AssignedWorkerID *string  `json:"assigned_worker_id,omitempty"`
	CreatedAtISO     string   `json:"created_at_iso"`
	UpdatedAtISO     string   `json:"updated_at_iso"`
	ResolvedAtISO    *string  `json:"resolved_at_iso,omitempty"`
}

// UpdateReportStatusRequest is the request body for PATCH /api/reports/:id/status
type UpdateReportStatusRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

// ToReportResponse converts a Report to ReportResponse
func (rp *Report) ToReportResponse() ReportResponse {
	resp := ReportResponse{
		ID:               rp.ID,
		ReportNumber:     rp.ReportNumber,
		UserID:           rp.UserID,
		Description:      rp.Description,
		PhotoURL:         rp.PhotoURL,
		Latitude:         rp.Latitude,
		Longitude:        rp.Longitude,
		Address:          rp.Address,
		Zone:             rp.Zone,
		Category:         rp.Category,
		DisposalMethod:   rp.DisposalMethod,
		QualityScore:     rp.QualityScore,
		Status:           rp.Status,
		AssignedWorkerID: rp.AssignedWorkerID,
		CreatedAtISO:     time.Unix(rp.CreatedAt, 0).Format(time.RFC3339),
		UpdatedAtISO:     time.Unix(rp.UpdatedAt, 0).Format(time.RFC3339),
	}

	if rp.ResolvedAt != nil {
		iso := time.Unix(*rp.ResolvedAt, 0).Format(time.RFC3339)
		resp.ResolvedAtISO = &iso
	}

	return resp
}

// ValidStatusTransition reports whether a report may move from one status to
// another. Pending reports can be picked up or rejected; verified reports can
// only move on to resolved.
func ValidStatusTransition(from, to string) bool {
	switch from {
	case ReportStatusPending:
		return to == ReportStatusInProgress || to == ReportStatusVerified || to == ReportStatusRejected
	case ReportStatusInProgress:
		return to == ReportStatusVerified || to == ReportStatusRejected
	case ReportStatusVerified:
		return to == ReportStatusResolved
	default:
		return false
	}
}
