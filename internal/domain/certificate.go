package domain

import "time"

// Certificate attests that a participant attended a finished symposium.
type Certificate struct {
	ID          string
	UserID      string
	SymposiumID string
	Code        string
	IssuedAt    time.Time
}

// CertificateValidation is the public view returned when a code is checked.
type CertificateValidation struct {
	Certificate     Certificate
	ParticipantName string
	SymposiumName   string
}
