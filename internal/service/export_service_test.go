package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/symposium-service/internal/domain"
	apperrors "github.com/spec-kit/symposium-service/pkg/util/errorutil"
)

func TestSymposiumParticipantsXLSX(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.organizer()
	sym := f.symposium(owner)
	p1 := f.participant()
	p2 := f.participant()
	f.acceptedInto(owner, p1, sym.ID)
	f.acceptedInto(owner, p2, sym.ID)

	name, data, err := f.exports.SymposiumParticipantsXLSX(ctx, owner, sym.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if name != "gophercon-participants.xlsx" {
		t.Fatalf("file name = %q", name)
	}

	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	t.Cleanup(func() { _ = book.Close() })

	rows, err := book.GetRows(participantSheet)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0][0] != "Name" || rows[0][1] != "Email" || rows[0][2] != "Joined At" {
		t.Fatalf("header = %v", rows[0])
	}
	emails := map[string]bool{rows[1][1]: true, rows[2][1]: true}
	if !emails[p1.Email] || !emails[p2.Email] {
		t.Fatalf("unexpected emails %v", emails)
	}
}

func TestSymposiumParticipantsXLSXRequiresOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.organizer()
	other := f.organizer()
	sym := f.symposium(owner)

	_, _, err := f.exports.SymposiumParticipantsXLSX(ctx, other, sym.ID)
	expectCode(t, err, apperrors.CodeForbidden)
}

func TestExportFileName(t *testing.T) {
	tests := map[string]string{
		"GopherCon 2030": "gophercon-2030-participants.xlsx",
		"  Rust & Go!  ": "rust---go-participants.xlsx",
		"***":            "sym-1-participants.xlsx",
	}
	for in, want := range tests {
		got := exportFileName(&domain.Symposium{ID: "sym-1", Name: in})
		if got != want {
			t.Errorf("exportFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
