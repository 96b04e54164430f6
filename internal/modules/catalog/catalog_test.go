package catalog

import (
	"reflect"
	"testing"

	types "github.com/yungbote/mathstep-backend/internal/domain"
)

func course(title, desc string, tags ...string) *types.Course {
	c := &types.Course{Title: title, Description: desc}
	for _, t := range tags {
		c.Tags = append(c.Tags, types.Tag{Name: t})
	}
	return c
}

func titles(cs []*types.Course) []string {
	out := []string{}
	for _, c := range cs {
		out = append(out, c.Title)
	}
	return out
}

func TestAllTags(t *testing.T) {
	cs := []*types.Course{
		course("Algebra", "", "algebra", "beginner"),
		nil,
		course("Calculus", "", "calculus", "beginner"),
	}
	got := AllTags(cs)
	want := []string{"algebra", "beginner", "calculus"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AllTags: got=%v want=%v", got, want)
	}
}

func TestFilter(t *testing.T) {
	cs := []*types.Course{
		course("Algebra Foundations", "Variables and equations", "algebra", "beginner"),
		course("Intro to Calculus", "Limits and derivatives", "calculus", "intermediate"),
		course("Geometry", "Shapes and EQUATIONS of lines", "geometry", "beginner"),
	}
	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"empty", Filter{}, []string{"Algebra Foundations", "Intro to Calculus", "Geometry"}},
		{"title term", Filter{Term: "calc"}, []string{"Intro to Calculus"}},
		{"description term case-insensitive", Filter{Term: "Equations"}, []string{"Algebra Foundations", "Geometry"}},
		{"one tag", Filter{Tags: []string{"beginner"}}, []string{"Algebra Foundations", "Geometry"}},
		{"all tags required", Filter{Tags: []string{"beginner", "algebra"}}, []string{"Algebra Foundations"}},
		{"term and tag", Filter{Term: "lines", Tags: []string{"beginner"}}, []string{"Geometry"}},
		{"no match", Filter{Tags: []string{"topology"}}, []string{}},
		{"term is not trimmed", Filter{Term: "geometry "}, []string{}},
		{"space term", Filter{Term: " of "}, []string{"Geometry"}},
	}
	if (Filter{Term: " "}).IsEmpty() {
		t.Fatalf("a whitespace term still filters")
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := titles(tc.filter.Apply(cs))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got=%v want=%v", got, tc.want)
			}
		})
	}
}

func TestToggleAndClear(t *testing.T) {
	f := Filter{Term: "x"}
	f = f.ToggleTag("a").ToggleTag("b")
	if !reflect.DeepEqual(f.Tags, []string{"a", "b"}) {
		t.Fatalf("toggle on: got=%v", f.Tags)
	}
	f = f.ToggleTag("a")
	if !reflect.DeepEqual(f.Tags, []string{"b"}) || f.Term != "x" {
		t.Fatalf("toggle off: got=%+v", f)
	}
	if c := f.Clear(); !c.IsEmpty() {
		t.Fatalf("clear: got=%+v", c)
	}
}
