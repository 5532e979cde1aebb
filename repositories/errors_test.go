package repositories

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "idx_diagnosis_complaint_tooth_treatment"}
	foreign := &pgconn.PgError{
		Code:           "23503",
		Message:        `update or delete on table "treatments" violates foreign key constraint "fk_diagnosis_treatment" on table "diagnosis"`,
		ConstraintName: "fk_diagnosis_treatment",
	}
	missing := &pgconn.PgError{
		Code:           "23503",
		Message:        `insert or update on table "diagnosis" violates foreign key constraint "fk_diagnosis_treatment"`,
		ConstraintName: "fk_diagnosis_treatment",
	}
	other := errors.New("connection reset")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"wrapped not found", fmt.Errorf("query: %w", gorm.ErrRecordNotFound), ErrNotFound},
		{"unique", unique, ErrDuplicate},
		{"foreign key on delete", fmt.Errorf("exec: %w", foreign), ErrReferenced},
		{"foreign key on insert", fmt.Errorf("exec: %w", missing), ErrMissingReference},
		{"other", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.in, "create diagnosis")
			if tt.want == nil {
				if got != nil {
					t.Fatalf("got %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}

	if got := translateError(unique, "create"); !strings.Contains(got.Error(), "idx_diagnosis_complaint_tooth_treatment") {
		t.Errorf("constraint name missing from %q", got)
	}
}
