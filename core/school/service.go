package school

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tuzo/core"
)

var (
	// errors
	ErrGradeNotFound   = core.NewNotFoundError("grade not found")
	ErrGradeExists     = core.NewDuplicateKeyError("a grade with this number already exists")
	ErrGradeNotEmpty   = core.NewConflictError("grade still has classes")
	ErrClassNotFound   = core.NewNotFoundError("class not found")
	ErrClassExists     = core.NewDuplicateKeyError("a class with this name already exists")
	ErrClassNotEmpty   = core.NewConflictError("class still has students")
	ErrStudentNotFound = core.NewNotFoundError("student not found")
)

type (
	Repository interface {
		CreateGrade(ctx context.Context, grade Grade) (Grade, error)
		GetGradeByID(ctx context.Context, id int) (Grade, error)
		QueryAllGrades(ctx context.Context) ([]Grade, error)
		// DeleteGrade fails with ErrGradeNotEmpty while any class remains.
		DeleteGrade(ctx context.Context, id int) error

		CreateClass(ctx context.Context, cls SchoolClass) (SchoolClass, error)
		GetClassByID(ctx context.Context, id int) (SchoolClass, error)
		GetClassByName(ctx context.Context, name string) (SchoolClass, error)
		QueryClassesByGrade(ctx context.Context, gradeID int) ([]SchoolClass, error)
		UpdateClassTeacher(ctx context.Context, classID int, teacherID *int) (SchoolClass, error)
		// DeleteClass fails with ErrClassNotEmpty while any student remains.
		DeleteClass(ctx context.Context, id int) error

		CreateStudent(ctx context.Context, std Student) (Student, error)
		GetStudentByID(ctx context.Context, id int) (Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudent(ctx context.Context, id int) error
		// QueryStudents applies AND operation on available StudentFilter
		// fields; rows carry the class/grade/teacher projections.
		QueryStudents(ctx context.Context, filter StudentFilter) ([]Student, error)
		DistinctClassNames(ctx context.Context) ([]string, error)
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Grades

func (svc *Service) CreateGrade(ctx context.Context, ng NewGrade) (Grade, error) {
	if err := ng.Validate(); err != nil {
		return Grade{}, err
	}
	grade := Grade{
		Number:    ng.Number,
		Name:      GradeName(ng.Number),
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateGrade(ctx, grade)
}

func (svc *Service) Grades(ctx context.Context) ([]Grade, error) {
	return svc.repo.QueryAllGrades(ctx)
}

func (svc *Service) GetGrade(ctx context.Context, id int) (Grade, error) {
	return svc.repo.GetGradeByID(ctx, id)
}

func (svc *Service) DeleteGrade(ctx context.Context, id int) error {
	return svc.repo.DeleteGrade(ctx, id)
}

// GradeDetail assembles a grade with its classes, each class's teacher
// and students. Projections are explicit read-side joins.
func (svc *Service) GradeDetail(ctx context.Context, id int) (GradeDetail, error) {
	grade, err := svc.repo.GetGradeByID(ctx, id)
	if err != nil {
		return GradeDetail{}, err
	}
	classes, err := svc.repo.QueryClassesByGrade(ctx, id)
	if err != nil {
		return GradeDetail{}, err
	}

	detail := GradeDetail{Grade: grade, Classes: make([]ClassDetail, 0, len(classes))}
	for _, cls := range classes {
		students, err := svc.repo.QueryStudents(ctx, StudentFilter{SchoolClassID: cls.ID, Order: OrderByClass})
		if err != nil {
			return GradeDetail{}, err
		}
		detail.Classes = append(detail.Classes, ClassDetail{SchoolClass: cls, Students: students})
	}
	return detail, nil
}

// Classes

func (svc *Service) CreateClass(ctx context.Context, nc NewSchoolClass) (SchoolClass, error) {
	if err := nc.Validate(); err != nil {
		return SchoolClass{}, err
	}
	grade, err := svc.repo.GetGradeByID(ctx, nc.GradeID)
	if err != nil {
		return SchoolClass{}, err
	}
	cls := SchoolClass{
		GradeID:        grade.ID,
		Letter:         nc.Letter,
		ClassName:      ClassName(grade.Number, nc.Letter),
		ClassTeacherID: nc.TeacherID,
		CreatedAt:      time.Now().UTC(),
	}
	return svc.repo.CreateClass(ctx, cls)
}

func (svc *Service) GetClass(ctx context.Context, id int) (SchoolClass, error) {
	return svc.repo.GetClassByID(ctx, id)
}

func (svc *Service) ClassesByGrade(ctx context.Context, gradeID int) ([]SchoolClass, error) {
	return svc.repo.QueryClassesByGrade(ctx, gradeID)
}

// UpdateClassTeacher sets or clears a class's teacher reference. Any
// existing user is accepted; the role is deliberately not checked.
func (svc *Service) UpdateClassTeacher(ctx context.Context, classID int, teacherID *int) (SchoolClass, error) {
	return svc.repo.UpdateClassTeacher(ctx, classID, teacherID)
}

func (svc *Service) DeleteClass(ctx context.Context, id int) error {
	return svc.repo.DeleteClass(ctx, id)
}

func (svc *Service) ClassNames(ctx context.Context) ([]string, error) {
	return svc.repo.DistinctClassNames(ctx)
}

// Students

func (svc *Service) CreateStudent(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(); err != nil {
		return Student{}, err
	}
	if _, err := svc.repo.GetClassByID(ctx, ns.SchoolClassID); err != nil {
		return Student{}, err
	}
	std := Student{
		SchoolClassID: ns.SchoolClassID,
		FullName:      ns.FullName,
		Achievements:  ns.Achievements,
		CreatedAt:     time.Now().UTC(),
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) GetStudent(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) UpdateStudent(ctx context.Context, id int, us UpdateStudent) (Student, error) {
	orig, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if err = us.Validate(orig); err != nil {
		return Student{}, err
	}
	if us.SchoolClassID != orig.SchoolClassID {
		if _, err = svc.repo.GetClassByID(ctx, us.SchoolClassID); err != nil {
			return Student{}, err
		}
	}
	std := Student{
		ID:            id,
		SchoolClassID: us.SchoolClassID,
		FullName:      us.FullName,
		Achievements:  us.Achievements,
	}
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *Service) DeleteStudent(ctx context.Context, id int) error {
	return svc.repo.DeleteStudent(ctx, id)
}

// Seeding

var demoSectionLetters = []string{"А", "Б", "В"}

// EnsureSeeded creates a demonstration grade 10 with three sections when
// the store holds no grades at all. Idempotent; meant to be called once
// at process start by the bootstrap layer.
func (svc *Service) EnsureSeeded(ctx context.Context) error {
	grades, err := svc.repo.QueryAllGrades(ctx)
	if err != nil {
		return err
	}
	if len(grades) > 0 {
		return nil
	}

	grade, err := svc.CreateGrade(ctx, NewGrade{Number: 10})
	if err != nil {
		return errors.Wrap(err, "seeding demo grade")
	}
	for _, letter := range demoSectionLetters {
		if _, err = svc.CreateClass(ctx, NewSchoolClass{GradeID: grade.ID, Letter: letter}); err != nil {
			if core.IsDuplicateKey(err) {
				continue
			}
			return errors.Wrap(err, "seeding demo classes")
		}
	}
	svc.log.Info("demo grade seeded", map[string]interface{}{"grade": grade.Number})
	return nil
}
