package school

import (
	"reflect"
	"testing"

	"github.com/trezcool/tuzo/core"
)

func TestNameTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: []string{}},
		{name: "single", in: "Ivanov", want: []string{"ivanov"}},
		{name: "full name", in: "Ivanov Ivan Ivanovich", want: []string{"ivanov", "ivan", "ivanovich"}},
		{name: "extra whitespace", in: "  Ivanov \t Ivan  ", want: []string{"ivanov", "ivan"}},
		{name: "repeated token", in: "Ivan Ivan", want: []string{"ivan"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nameTokens(tt.in)
			want := make(map[string]struct{}, len(tt.want))
			for _, tok := range tt.want {
				want[tok] = struct{}{}
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("nameTokens(%q) = %v, want %v", tt.in, got, want)
			}
		})
	}
}

func TestTokenOverlap(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "disjoint", a: "Ivanov Ivan", b: "Petrov Petr", want: 0},
		{name: "one shared", a: "Ivanov Ivan", b: "Ivanov Petr", want: 1},
		{name: "two shared", a: "Ivanov Ivan Ivanovich", b: "Ivan Ivanov", want: 2},
		{name: "case insensitive", a: "IVANOV IVAN", b: "ivanov ivan", want: 2},
		{name: "empty side", a: "", b: "Ivanov", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokenOverlap(nameTokens(tt.a), nameTokens(tt.b)); got != tt.want {
				t.Errorf("tokenOverlap(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestStudentFilterOrdering(t *testing.T) {
	tests := []struct {
		name  string
		order string
		want  []core.DBOrdering
	}{
		{
			name: "default newest first", order: OrderNewestFirst,
			want: []core.DBOrdering{{Field: "s.created_at", Ascending: false}},
		},
		{
			name: "by class", order: OrderByClass,
			want: []core.DBOrdering{
				{Field: "c.class_name", Ascending: true},
				{Field: "s.full_name", Ascending: true},
			},
		},
		{
			name: "by teacher", order: OrderByTeacher,
			want: []core.DBOrdering{
				{Field: "c.class_teacher_id", Ascending: true},
				{Field: "s.full_name", Ascending: true},
			},
		},
		{
			name: "unknown falls back to newest first", order: "lol",
			want: []core.DBOrdering{{Field: "s.created_at", Ascending: false}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := StudentFilter{Order: tt.order}
			if got := f.Ordering(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Ordering() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStudentFilterClean(t *testing.T) {
	f := StudentFilter{Query: "  Ivanov  ", ClassName: " 10А "}
	f.Clean()
	if f.Query != "Ivanov" || f.ClassName != "10А" {
		t.Errorf("Clean() = %+v, want trimmed fields", f)
	}
}
