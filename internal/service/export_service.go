package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/symposium-service/internal/domain"
)

const participantSheet = "Participants"

// ExportService renders participant lists as spreadsheets.
type ExportService struct {
	registrations *RegistrationService
}

// NewExportService constructs the service.
func NewExportService(registrations *RegistrationService) *ExportService {
	return &ExportService{registrations: registrations}
}

// SymposiumParticipantsXLSX returns a file name and xlsx workbook listing the
// accepted participants of a symposium owned by actor.
func (s *ExportService) SymposiumParticipantsXLSX(ctx context.Context, actor domain.AuthContext, symposiumID string) (string, []byte, error) {
	sym, members, err := s.registrations.ListSymposiumParticipants(ctx, actor, symposiumID)
	if err != nil {
		return "", nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", participantSheet); err != nil {
		return "", nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(participantSheet, "A1", &[]any{"Name", "Email", "Joined At"}); err != nil {
		return "", nil, fmt.Errorf("write header: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(participantSheet, "A1", "C1", header); err != nil {
		return "", nil, fmt.Errorf("apply header style: %w", err)
	}

	for i, member := range members {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", nil, err
		}
		row := []any{member.User.Name, member.User.Email, member.JoinedAt.UTC().Format(time.RFC3339)}
		if err := f.SetSheetRow(participantSheet, cell, &row); err != nil {
			return "", nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(participantSheet, "A", "C", 32); err != nil {
		return "", nil, fmt.Errorf("column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", nil, fmt.Errorf("write workbook: %w", err)
	}
	return exportFileName(sym), buf.Bytes(), nil
}

func exportFileName(sym *domain.Symposium) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return '-'
	}, strings.TrimSpace(sym.Name))
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = sym.ID
	}
	return slug + "-participants.xlsx"
}
