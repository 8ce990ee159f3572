package domain

import "time"

type ApplicationStatus string

const (
	ApplicationSent               ApplicationStatus = "sent"
	ApplicationPreapproved        ApplicationStatus = "preapproved"
	ApplicationPendingDocs        ApplicationStatus = "pending_docs"
	ApplicationApproved           ApplicationStatus = "approved"
	ApplicationRejected           ApplicationStatus = "rejected"
	ApplicationCancelledByStudent ApplicationStatus = "cancelled_by_student"
	ApplicationExpired            ApplicationStatus = "expired"
)

// IsFinal indica si la solicitud ya no admite cambios.
func (s ApplicationStatus) IsFinal() bool {
	switch s {
	case ApplicationApproved, ApplicationRejected, ApplicationCancelledByStudent, ApplicationExpired:
		return true
	}
	return false
}

type Application struct {
	ID              string            `json:"id"`
	StudentID       string            `json:"student_id"`
	LandlordID      string            `json:"landlord_id"`
	ListingID       string            `json:"listing_id"`
	Status          ApplicationStatus `json:"status"`
	Message         string            `json:"message"`
	MoveInDate      time.Time         `json:"move_in_date"`
	MoveOutDate     *time.Time        `json:"move_out_date,omitempty"`
	BudgetEUR       int               `json:"budget_eur"`
	StudentName     string            `json:"student_name"`
	StudentEmail    string            `json:"student_email"`
	IsErasmus       bool              `json:"is_erasmus"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
