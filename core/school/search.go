package school

import (
	"context"
	"strings"

	"github.com/trezcool/tuzo/core"
)

// Sort modes for student queries.
const (
	OrderNewestFirst = "" // default: created_at desc
	OrderByClass     = "class"
	OrderByTeacher   = "teacher"
)

const maxSimilarResults = 5

// StudentFilter narrows and orders a student query. All filter fields are
// combined with AND; Limit/Offset apply after filtering and sorting.
type StudentFilter struct {
	Query         string `query:"q"`     // case-insensitive substring match on full name
	ClassName     string `query:"class"` // exact match
	GradeID       int    `query:"grade_id"`
	SchoolClassID int    `query:"class_id"`
	Order         string `query:"order"`
	Limit         int    `query:"limit"`
	Offset        int    `query:"offset"`
}

func (f *StudentFilter) Clean() {
	f.Query = core.CleanString(f.Query)
	f.ClassName = core.CleanString(f.ClassName)
}

// Ordering resolves the filter's sort mode into column orderings.
func (f *StudentFilter) Ordering() []core.DBOrdering {
	switch f.Order {
	case OrderByClass:
		return []core.DBOrdering{
			{Field: "c.class_name", Ascending: true},
			{Field: "s.full_name", Ascending: true},
		}
	case OrderByTeacher:
		return []core.DBOrdering{
			{Field: "c.class_teacher_id", Ascending: true},
			{Field: "s.full_name", Ascending: true},
		}
	default:
		return []core.DBOrdering{{Field: "s.created_at", Ascending: false}}
	}
}

// SearchStudents filters, sorts and paginates students.
func (svc *Service) SearchStudents(ctx context.Context, filter StudentFilter) ([]Student, error) {
	filter.Clean()
	return svc.repo.QueryStudents(ctx, filter)
}

// FindSimilarStudents flags likely duplicate entries before an insert.
// An exact (trimmed name, class) match is returned alone; otherwise every
// student of the class sharing at least 2 name tokens with the input is
// returned, capped at 5, in scan order. Advisory only: the result is a
// warning surface for a human, it never blocks the insert.
func (svc *Service) FindSimilarStudents(ctx context.Context, fullName, className string) ([]Student, error) {
	fullName = core.CleanString(fullName)
	className = core.CleanString(className)
	if fullName == "" || className == "" {
		return nil, nil
	}

	classmates, err := svc.repo.QueryStudents(ctx, StudentFilter{ClassName: className})
	if err != nil {
		return nil, err
	}

	var exact []Student
	for _, s := range classmates {
		if s.FullName == fullName {
			exact = append(exact, s)
		}
	}
	if len(exact) > 0 {
		return exact, nil
	}

	tokens := nameTokens(fullName)
	if len(tokens) < 2 {
		return nil, nil
	}

	var similar []Student
	for _, s := range classmates {
		if tokenOverlap(tokens, nameTokens(s.FullName)) >= 2 {
			similar = append(similar, s)
			if len(similar) == maxSimilarResults {
				break
			}
		}
	}
	return similar, nil
}

// nameTokens splits a full name into its lowered whitespace-separated parts.
func nameTokens(name string) map[string]struct{} {
	parts := strings.Fields(strings.ToLower(name))
	tokens := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		tokens[p] = struct{}{}
	}
	return tokens
}

// tokenOverlap counts tokens present in both sets.
func tokenOverlap(a, b map[string]struct{}) int {
	var n int
	for tok := range a {
		if _, ok := b[tok]; ok {
			n++
		}
	}
	return n
}
