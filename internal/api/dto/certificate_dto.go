package dto

import (
	"time"

	"github.com/spec-kit/symposium-service/internal/domain"
)

// GenerateCertificateRequest names the participant to certify.
type GenerateCertificateRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// CertificateResponse response.
type CertificateResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	SymposiumID string    `json:"symposium_id"`
	Code        string    `json:"code"`
	IssuedAt    time.Time `json:"issued_at"`
}

// CertificateValidationResponse is the public answer for a certificate code.
type CertificateValidationResponse struct {
	Valid           bool                `json:"valid"`
	Certificate     CertificateResponse `json:"certificate"`
	ParticipantName string              `json:"participant_name"`
	SymposiumName   string              `json:"symposium_name"`
}

func NewCertificateResponse(c *domain.Certificate) CertificateResponse {
	return CertificateResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		SymposiumID: c.SymposiumID,
		Code:        c.Code,
		IssuedAt:    c.IssuedAt,
	}
}

func NewCertificateResponses(list []domain.Certificate) []CertificateResponse {
	resp := make([]CertificateResponse, 0, len(list))
	for i := range list {
		resp = append(resp, NewCertificateResponse(&list[i]))
	}
	return resp
}

func NewCertificateValidationResponse(v *domain.CertificateValidation) CertificateValidationResponse {
	return CertificateValidationResponse{
		Valid:           true,
		Certificate:     NewCertificateResponse(&v.Certificate),
		ParticipantName: v.ParticipantName,
		SymposiumName:   v.SymposiumName,
	}
}
