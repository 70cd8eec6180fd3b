package school

import (
	"reflect"
	"testing"

	"github.com/trezcool/tuzo/core"
)

func TestDerivedNames(t *testing.T) {
	if got := GradeName(10); got != "Grade 10" {
		t.Errorf("GradeName(10) = %q, want %q", got, "Grade 10")
	}
	if got := ClassName(10, "А"); got != "10А" {
		t.Errorf(`ClassName(10, "А") = %q, want %q`, got, "10А")
	}
	if got := ClassName(1, "B"); got != "1B" {
		t.Errorf(`ClassName(1, "B") = %q, want %q`, got, "1B")
	}
}

func TestNewGradeValidate(t *testing.T) {
	tests := []struct {
		name    string
		number  int
		wantErr bool
	}{
		{name: "zero", number: 0, wantErr: true},
		{name: "too high", number: 13, wantErr: true},
		{name: "negative", number: -1, wantErr: true},
		{name: "lowest", number: 1},
		{name: "highest", number: 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ng := NewGrade{Number: tt.number}
			err := ng.Validate()
			if tt.wantErr {
				if !core.IsValidation(err) {
					t.Errorf("Validate() error = %v, want validation error", err)
				}
			} else if err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
		})
	}
}

func TestNewStudentValidate(t *testing.T) {
	tests := []struct {
		name    string
		ns      NewStudent
		wantErr bool
	}{
		{name: "missing class", ns: NewStudent{FullName: "Ivanov Ivan"}, wantErr: true},
		{name: "missing name", ns: NewStudent{SchoolClassID: 1}, wantErr: true},
		{name: "whitespace-only name", ns: NewStudent{SchoolClassID: 1, FullName: "   "}, wantErr: true},
		{name: "name too short", ns: NewStudent{SchoolClassID: 1, FullName: "A"}, wantErr: true},
		{name: "bad achievement level", ns: NewStudent{
			SchoolClassID: 1, FullName: "Ivanov Ivan",
			Achievements: []Achievement{{Title: "Olympiad", Level: "galaxy", Result: ResultWinner, Year: 2024}},
		}, wantErr: true},
		{name: "bad achievement year", ns: NewStudent{
			SchoolClassID: 1, FullName: "Ivanov Ivan",
			Achievements: []Achievement{{Title: "Olympiad", Level: LevelRegion, Result: ResultWinner, Year: 1820}},
		}, wantErr: true},
		{name: "ok", ns: NewStudent{
			SchoolClassID: 1, FullName: "  Ivanov Ivan  ",
			Achievements: []Achievement{{Title: "Olympiad", Level: LevelRegion, Result: ResultPrizeWinner, Year: 2024}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ns.Validate()
			if tt.wantErr {
				if !core.IsValidation(err) {
					t.Errorf("Validate() error = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v, want nil", err)
			}
			if tt.ns.FullName != "Ivanov Ivan" {
				t.Errorf("Validate() FullName = %q, want trimmed", tt.ns.FullName)
			}
		})
	}
}

func TestUpdateStudentValidate(t *testing.T) {
	orig := Student{
		ID: 1, SchoolClassID: 3, FullName: "Ivanov Ivan",
		Achievements: []Achievement{{Title: "Olympiad", Level: LevelRegion, Result: ResultWinner, Year: 2024}},
	}

	us := UpdateStudent{}
	if err := us.Validate(orig); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
	if us.FullName != orig.FullName || us.SchoolClassID != orig.SchoolClassID {
		t.Errorf("Validate() = %+v, want original values kept", us)
	}
	// a partial update must not wipe achievements
	if !reflect.DeepEqual(us.Achievements, orig.Achievements) {
		t.Errorf("Validate() Achievements = %+v, want original list kept", us.Achievements)
	}

	us = UpdateStudent{FullName: " Petrov Petr ", SchoolClassID: 5, Achievements: []Achievement{}}
	if err := us.Validate(orig); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
	if us.FullName != "Petrov Petr" || us.SchoolClassID != 5 {
		t.Errorf("Validate() = %+v, want new values", us)
	}
	// an explicit empty list clears them
	if len(us.Achievements) != 0 {
		t.Errorf("Validate() Achievements = %+v, want empty", us.Achievements)
	}
}

func TestCanExportClass(t *testing.T) {
	teacherID := 7
	cls := SchoolClass{ID: 1, ClassTeacherID: &teacherID}
	unassigned := SchoolClass{ID: 2}

	tests := []struct {
		name   string
		role   string
		userID int
		cls    SchoolClass
		want   bool
	}{
		{name: "admin exports any class", role: "admin", userID: 99, cls: cls, want: true},
		{name: "owning class teacher", role: "class_teacher", userID: 7, cls: cls, want: true},
		{name: "other class teacher", role: "class_teacher", userID: 8, cls: cls},
		{name: "class teacher of unassigned class", role: "class_teacher", userID: 7, cls: unassigned},
		{name: "deputy", role: "deputy", userID: 7, cls: cls},
		{name: "teacher", role: "teacher", userID: 7, cls: cls},
		{name: "unknown role", role: "superuser", userID: 7, cls: cls},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanExportClass(tt.role, tt.userID, tt.cls); got != tt.want {
				t.Errorf("CanExportClass() = %v, want %v", got, tt.want)
			}
		})
	}
}
