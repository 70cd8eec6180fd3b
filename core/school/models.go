package school

import (
	"fmt"
	"time"

	"github.com/trezcool/tuzo/core"
)

// Achievement levels
const (
	LevelSchool        = "school"
	LevelDistrict      = "district"
	LevelRegion        = "region"
	LevelNational      = "national"
	LevelInternational = "international"
)

// Achievement results
const (
	ResultParticipant = "participant"
	ResultPrizeWinner = "prize-winner"
	ResultWinner      = "winner"
)

// Achievement is one competition/award record attached to a student.
// The list order on a student is preserved as entered.
type Achievement struct {
	Title  string    `json:"title" validate:"required"`
	Level  string    `json:"level" validate:"required,oneof=school district region national international"`
	Result string    `json:"result" validate:"required,oneof=participant prize-winner winner"`
	Year   int       `json:"year" validate:"required,min=1900,max=2100"`
	Date   time.Time `json:"date"`
}

// Grade is one academic year-group, e.g. "grade 10".
type Grade struct {
	ID        int       `json:"id" db:"id"`
	Number    int       `json:"grade_number" db:"grade_number"`
	Name      string    `json:"grade_name" db:"grade_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

// GradeName derives the display name for a grade number.
func GradeName(number int) string {
	return fmt.Sprintf("Grade %d", number)
}

// SchoolClass is one lettered section of a grade, e.g. "10A".
// ClassName is globally unique across all classes.
type SchoolClass struct {
	ID             int       `json:"id" db:"id"`
	GradeID        int       `json:"grade_id" db:"grade_id"`
	Letter         string    `json:"class_letter" db:"class_letter"`
	ClassName      string    `json:"class_name" db:"class_name"`
	ClassTeacherID *int      `json:"class_teacher_id" db:"class_teacher_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"` // UTC

	// read-side projection (joined, not stored)
	TeacherName string `json:"teacher_name" db:"teacher_name"`
}

// ClassName derives the unique display name of a class section.
func ClassName(gradeNumber int, letter string) string {
	return fmt.Sprintf("%d%s", gradeNumber, letter)
}

// Student is one learner record; belongs to exactly one class.
type Student struct {
	ID            int           `json:"id" db:"id"`
	SchoolClassID int           `json:"school_class_id" db:"school_class_id"`
	FullName      string        `json:"full_name" db:"full_name"`
	Achievements  []Achievement `json:"achievements" db:"-"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"` // UTC

	// read-side projections (joined, not stored)
	ClassName   string `json:"class_name" db:"class_name"`
	GradeID     int    `json:"grade_id" db:"grade_id"`
	TeacherName string `json:"teacher_name" db:"teacher_name"`
}

// NewGrade contains information needed to create a new Grade.
type NewGrade struct {
	Number int `json:"grade_number" validate:"required,min=1,max=12"`
}

func (ng *NewGrade) Validate() error { return core.ValidateStruct(ng) }

// NewSchoolClass contains information needed to create a new SchoolClass.
type NewSchoolClass struct {
	GradeID   int    `json:"grade_id" validate:"required"`
	Letter    string `json:"class_letter" validate:"required,max=10"`
	TeacherID *int   `json:"class_teacher_id"`
}

func (nc *NewSchoolClass) Validate() error {
	nc.Letter = core.CleanString(nc.Letter)
	return core.ValidateStruct(nc)
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	SchoolClassID int           `json:"school_class_id" validate:"required"`
	FullName      string        `json:"full_name" validate:"required,min=2"`
	Achievements  []Achievement `json:"achievements" validate:"omitempty,dive"`
}

func (ns *NewStudent) Validate() error {
	ns.FullName = core.CleanString(ns.FullName)
	return core.ValidateStruct(ns)
}

// UpdateStudent defines what information may be provided to modify an
// existing Student. Class reassignment is a plain foreign-key update.
type UpdateStudent struct {
	SchoolClassID int           `json:"school_class_id"`
	FullName      string        `json:"full_name" validate:"omitempty,min=2"`
	Achievements  []Achievement `json:"achievements" validate:"omitempty,dive"`
}

func (us *UpdateStudent) Validate(orig Student) error {
	name := core.CleanString(us.FullName)
	if name != "" {
		us.FullName = name
	} else {
		us.FullName = orig.FullName
	}
	if us.SchoolClassID == 0 {
		us.SchoolClassID = orig.SchoolClassID
	}
	if us.Achievements == nil {
		us.Achievements = orig.Achievements
	}
	return core.ValidateStruct(us)
}

// ClassDetail is a composite read of a class with its students.
type ClassDetail struct {
	SchoolClass
	Students []Student `json:"students"`
}

// GradeDetail is a composite read of a grade with its classes, each
// class's students and teacher. Used for dashboard aggregation.
type GradeDetail struct {
	Grade
	Classes []ClassDetail `json:"classes"`
}
