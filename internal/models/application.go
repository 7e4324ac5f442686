package models

import "time"

// Application is the conference application of a registrant, unique by email.
// RegistrationFee is fixed at creation from the participant status and is
// never recomputed afterwards.
type Application struct {
	ID                int64
	Name              string
	Designation       string
	Organization      string
	Department        string
	MobileNumber      string
	Email             string
	ParticipantStatus string // "academician" or "student"
	Presentation      string // "yes" or "no"
	Address           string
	RegistrationFee   int
	PaymentProof      *FileBlob  // uploaded proof of payment, pdf
	PaymentImage      *FileBlob  // uploaded proof of payment, image
	PaymentDate       *time.Time // set when a proof is uploaded
	TransactionID     string     // external payment transaction id
	CreatedAt         time.Time
}

// Participant statuses accepted on registration.
const (
	StatusAcademician = "academician"
	StatusStudent     = "student"
)

// FileBlob holds an uploaded file together with its metadata.
type FileBlob struct {
	Data        []byte
	ContentType string
	Filename    string
}

// CredentialsNotice carries the fields of the registration email: the
// generated credentials plus the static branding of the event.
type CredentialsNotice struct {
	Email            string
	Name             string
	Username         string
	Password         string
	OrganizationName string
	EventName        string
	SupportEmail     string
}
