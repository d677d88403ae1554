package normalize

import (
	"errors"
	"testing"
)

func TestName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Python", "python"},
		{"  python  ", "python"},
		{"PYTHON ", "python"},
		{"Machine Learning", "machine learning"},
		{"c++", "c++"},
	}
	for _, tc := range cases {
		got, err := Name(tc.in)
		if err != nil {
			t.Fatalf("Name(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Name(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestName_Empty(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n"} {
		if _, err := Name(in); !errors.Is(err, ErrEmptyName) {
			t.Fatalf("Name(%q): expected ErrEmptyName, got %v", in, err)
		}
	}
}
