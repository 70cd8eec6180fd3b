package sqliterepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/tuzo/core/school"
)

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sqlx.DB) *schoolRepository {
	return &schoolRepository{db: db}
}

const (
	classColumns = `c.id, c.grade_id, c.class_letter, c.class_name, c.class_teacher_id, c.created_at,
		COALESCE(u.username, '') AS teacher_name`
	classJoin = ` FROM school_classes c
		LEFT JOIN admin_users u ON u.id = c.class_teacher_id`

	studentColumns = `s.id, s.school_class_id, s.full_name, s.achievements, s.created_at,
		c.class_name, c.grade_id, COALESCE(u.username, '') AS teacher_name`
	studentJoin = ` FROM students s
		JOIN school_classes c ON c.id = s.school_class_id
		LEFT JOIN admin_users u ON u.id = c.class_teacher_id`
)

// studentRow is the students table row plus the read-side projections;
// achievements stay an opaque JSON blob at this level.
type studentRow struct {
	ID            int            `db:"id"`
	SchoolClassID int            `db:"school_class_id"`
	FullName      string         `db:"full_name"`
	Achievements  sql.NullString `db:"achievements"`
	CreatedAt     time.Time      `db:"created_at"`
	ClassName     string         `db:"class_name"`
	GradeID       int            `db:"grade_id"`
	TeacherName   string         `db:"teacher_name"`
}

func (repo schoolRepository) toRow(std school.Student) (studentRow, error) {
	row := studentRow{
		ID:            std.ID,
		SchoolClassID: std.SchoolClassID,
		FullName:      std.FullName,
		CreatedAt:     std.CreatedAt.UTC(),
	}
	if len(std.Achievements) > 0 {
		raw, err := json.Marshal(std.Achievements)
		if err != nil {
			return studentRow{}, errors.Wrap(err, "encoding achievements")
		}
		row.Achievements = sql.NullString{String: string(raw), Valid: true}
	}
	return row, nil
}

func (repo schoolRepository) fromRow(row studentRow) (school.Student, error) {
	std := school.Student{
		ID:            row.ID,
		SchoolClassID: row.SchoolClassID,
		FullName:      row.FullName,
		CreatedAt:     row.CreatedAt,
		ClassName:     row.ClassName,
		GradeID:       row.GradeID,
		TeacherName:   row.TeacherName,
	}
	if row.Achievements.Valid && row.Achievements.String != "" {
		if err := json.Unmarshal([]byte(row.Achievements.String), &std.Achievements); err != nil {
			return school.Student{}, errors.Wrapf(err, "decoding achievements of student %d", row.ID)
		}
	}
	return std, nil
}

func (repo schoolRepository) fromRows(rows []studentRow) ([]school.Student, error) {
	students := make([]school.Student, 0, len(rows))
	for _, row := range rows {
		std, err := repo.fromRow(row)
		if err != nil {
			return nil, err
		}
		students = append(students, std)
	}
	return students, nil
}

// Grades

func (repo schoolRepository) CreateGrade(ctx context.Context, grade school.Grade) (school.Grade, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return school.Grade{}, errors.Wrap(err, "creating grade")
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err = tx.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM grades WHERE grade_number = ?)", grade.Number); err != nil {
		return school.Grade{}, errors.Wrap(err, "checking grade uniqueness")
	}
	if exists {
		return school.Grade{}, school.ErrGradeExists
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO grades (grade_number, grade_name, created_at) VALUES (?, ?, ?)",
		grade.Number, grade.Name, grade.CreatedAt.UTC(),
	)
	if err != nil {
		return school.Grade{}, errors.Wrap(err, "inserting grade")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return school.Grade{}, errors.Wrap(err, "inserting grade")
	}
	if err = tx.Commit(); err != nil {
		return school.Grade{}, errors.Wrap(err, "creating grade")
	}
	grade.ID = int(id)
	return grade, nil
}

func (repo schoolRepository) GetGradeByID(ctx context.Context, id int) (school.Grade, error) {
	var grade school.Grade
	err := repo.db.GetContext(ctx, &grade,
		"SELECT id, grade_number, grade_name, created_at FROM grades WHERE id = ?", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return school.Grade{}, school.ErrGradeNotFound
		}
		return school.Grade{}, errors.Wrap(err, "finding grade")
	}
	return grade, nil
}

func (repo schoolRepository) QueryAllGrades(ctx context.Context) ([]school.Grade, error) {
	grades := make([]school.Grade, 0)
	err := repo.db.SelectContext(ctx, &grades,
		"SELECT id, grade_number, grade_name, created_at FROM grades ORDER BY grade_number")
	if err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}
	return grades, nil
}

func (repo schoolRepository) DeleteGrade(ctx context.Context, id int) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	defer func() { _ = tx.Rollback() }()

	var classCount int
	if err = tx.GetContext(ctx, &classCount,
		"SELECT COUNT(*) FROM school_classes WHERE grade_id = ?", id); err != nil {
		return errors.Wrap(err, "counting grade classes")
	}
	if classCount > 0 {
		return school.ErrGradeNotEmpty
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM grades WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.ErrGradeNotFound
	}
	return errors.Wrap(tx.Commit(), "deleting grade")
}

// Classes

func (repo schoolRepository) CreateClass(ctx context.Context, cls school.SchoolClass) (school.SchoolClass, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return school.SchoolClass{}, errors.Wrap(err, "creating class")
	}
	defer func() { _ = tx.Rollback() }()

	// class names are unique across the whole store, not just per grade
	var exists bool
	if err = tx.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM school_classes WHERE class_name = ?)", cls.ClassName); err != nil {
		return school.SchoolClass{}, errors.Wrap(err, "checking class uniqueness")
	}
	if exists {
		return school.SchoolClass{}, school.ErrClassExists
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO school_classes (grade_id, class_letter, class_name, class_teacher_id, created_at) VALUES (?, ?, ?, ?, ?)",
		cls.GradeID, cls.Letter, cls.ClassName, cls.ClassTeacherID, cls.CreatedAt.UTC(),
	)
	if err != nil {
		return school.SchoolClass{}, errors.Wrap(err, "inserting class")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return school.SchoolClass{}, errors.Wrap(err, "inserting class")
	}
	if err = tx.Commit(); err != nil {
		return school.SchoolClass{}, errors.Wrap(err, "creating class")
	}
	return repo.GetClassByID(ctx, int(id))
}

func (repo schoolRepository) GetClassByID(ctx context.Context, id int) (school.SchoolClass, error) {
	var cls school.SchoolClass
	err := repo.db.GetContext(ctx, &cls, "SELECT "+classColumns+classJoin+" WHERE c.id = ?", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return school.SchoolClass{}, school.ErrClassNotFound
		}
		return school.SchoolClass{}, errors.Wrap(err, "finding class")
	}
	return cls, nil
}

func (repo schoolRepository) GetClassByName(ctx context.Context, name string) (school.SchoolClass, error) {
	var cls school.SchoolClass
	err := repo.db.GetContext(ctx, &cls, "SELECT "+classColumns+classJoin+" WHERE c.class_name = ?", name)
	if err != nil {
		if err == sql.ErrNoRows {
			return school.SchoolClass{}, school.ErrClassNotFound
		}
		return school.SchoolClass{}, errors.Wrap(err, "finding class by name")
	}
	return cls, nil
}

func (repo schoolRepository) QueryClassesByGrade(ctx context.Context, gradeID int) ([]school.SchoolClass, error) {
	classes := make([]school.SchoolClass, 0)
	err := repo.db.SelectContext(ctx, &classes,
		"SELECT "+classColumns+classJoin+" WHERE c.grade_id = ? ORDER BY c.class_letter", gradeID)
	if err != nil {
		return nil, errors.Wrap(err, "querying grade classes")
	}
	return classes, nil
}

func (repo schoolRepository) UpdateClassTeacher(ctx context.Context, classID int, teacherID *int) (school.SchoolClass, error) {
	res, err := repo.db.ExecContext(ctx,
		"UPDATE school_classes SET class_teacher_id = ? WHERE id = ?", teacherID, classID)
	if err != nil {
		return school.SchoolClass{}, errors.Wrap(err, "updating class teacher")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.SchoolClass{}, school.ErrClassNotFound
	}
	return repo.GetClassByID(ctx, classID)
}

func (repo schoolRepository) DeleteClass(ctx context.Context, id int) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "deleting class")
	}
	defer func() { _ = tx.Rollback() }()

	var studentCount int
	if err = tx.GetContext(ctx, &studentCount,
		"SELECT COUNT(*) FROM students WHERE school_class_id = ?", id); err != nil {
		return errors.Wrap(err, "counting class students")
	}
	if studentCount > 0 {
		return school.ErrClassNotEmpty
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM school_classes WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "deleting class")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.ErrClassNotFound
	}
	return errors.Wrap(tx.Commit(), "deleting class")
}

// Students

func (repo schoolRepository) CreateStudent(ctx context.Context, std school.Student) (school.Student, error) {
	row, err := repo.toRow(std)
	if err != nil {
		return school.Student{}, err
	}
	res, err := repo.db.ExecContext(ctx,
		"INSERT INTO students (school_class_id, full_name, achievements, created_at) VALUES (?, ?, ?, ?)",
		row.SchoolClassID, row.FullName, row.Achievements, row.CreatedAt,
	)
	if err != nil {
		return school.Student{}, errors.Wrap(err, "inserting student")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return school.Student{}, errors.Wrap(err, "inserting student")
	}
	return repo.GetStudentByID(ctx, int(id))
}

func (repo schoolRepository) GetStudentByID(ctx context.Context, id int) (school.Student, error) {
	var row studentRow
	err := repo.db.GetContext(ctx, &row, "SELECT "+studentColumns+studentJoin+" WHERE s.id = ?", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return school.Student{}, school.ErrStudentNotFound
		}
		return school.Student{}, errors.Wrap(err, "finding student")
	}
	return repo.fromRow(row)
}

func (repo schoolRepository) UpdateStudent(ctx context.Context, std school.Student) (school.Student, error) {
	row, err := repo.toRow(std)
	if err != nil {
		return school.Student{}, err
	}
	res, err := repo.db.ExecContext(ctx,
		"UPDATE students SET school_class_id = ?, full_name = ?, achievements = ? WHERE id = ?",
		row.SchoolClassID, row.FullName, row.Achievements, row.ID,
	)
	if err != nil {
		return school.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.Student{}, school.ErrStudentNotFound
	}
	return repo.GetStudentByID(ctx, std.ID)
}

func (repo schoolRepository) DeleteStudent(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.ErrStudentNotFound
	}
	return nil
}

func (repo schoolRepository) QueryStudents(ctx context.Context, filter school.StudentFilter) ([]school.Student, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Query != "" {
		conds = append(conds, "LOWER(s.full_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(filter.Query)+"%")
	}
	if filter.ClassName != "" {
		conds = append(conds, "c.class_name = ?")
		args = append(args, filter.ClassName)
	}
	if filter.GradeID != 0 {
		conds = append(conds, "c.grade_id = ?")
		args = append(args, filter.GradeID)
	}
	if filter.SchoolClassID != 0 {
		conds = append(conds, "s.school_class_id = ?")
		args = append(args, filter.SchoolClassID)
	}

	query := "SELECT " + studentColumns + studentJoin
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	orderList := make([]string, 0, 2)
	for _, ord := range filter.Ordering() {
		orderList = append(orderList, ord.String())
	}
	query += " ORDER BY " + strings.Join(orderList, ", ")

	// pagination applies after filtering and sorting; sqlite needs a
	// LIMIT clause for OFFSET to be accepted
	if filter.Limit > 0 {
		query += " LIMIT " + strconv.Itoa(filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += " OFFSET " + strconv.Itoa(filter.Offset)
	}

	rows := make([]studentRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return repo.fromRows(rows)
}

func (repo schoolRepository) DistinctClassNames(ctx context.Context) ([]string, error) {
	names := make([]string, 0)
	err := repo.db.SelectContext(ctx, &names,
		"SELECT DISTINCT class_name FROM school_classes ORDER BY class_name")
	if err != nil {
		return nil, errors.Wrap(err, "querying class names")
	}
	return names, nil
}
