package analyzer

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"romdex/internal/adapter/taxonomy"
	"romdex/internal/domain"
)

func TestParseQuery(t *testing.T) {
	tax := taxonomy.Default()

	q, err := ParseQuery([]string{"Kagaku", "+Japan", "-Proto"}, tax)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.Query{Title: "Kagaku", Include: []string{"Japan"}, Exclude: []string{"Proto"}}
	if !reflect.DeepEqual(q, want) {
		t.Errorf("got %+v, want %+v", q, want)
	}
}

func TestParseQuery_ShortCodes(t *testing.T) {
	tax := taxonomy.Default()

	q, err := ParseQuery([]string{"+jp", "+eu", "-r1", "+jp"}, tax)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Title != "" {
		t.Errorf("expected empty title, got %q", q.Title)
	}
	if !reflect.DeepEqual(q.Include, []string{"Japan", "Europe"}) {
		t.Errorf("unexpected include tags: %v", q.Include)
	}
	if !reflect.DeepEqual(q.Exclude, []string{"Rev 1"}) {
		t.Errorf("unexpected exclude tags: %v", q.Exclude)
	}
}

func TestParseQuery_Failures(t *testing.T) {
	tax := taxonomy.Default()

	tests := []struct {
		name    string
		tokens  []string
		wantErr error
	}{
		{"unknown include", []string{"Kagaku", "+Japan", "+Unknown"}, domain.ErrUnknownTag},
		{"unknown exclude", []string{"-nope"}, domain.ErrUnknownTag},
		{"bare plus", []string{"+"}, domain.ErrUnknownTag},
		{"two titles", []string{"Kagaku", "Othello"}, domain.ErrMalformedQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseQuery(tt.tokens, tax)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if !reflect.DeepEqual(q, domain.Query{}) {
				t.Errorf("expected no partial result, got %+v", q)
			}
		})
	}
}

func TestParseQuery_UnknownTagHint(t *testing.T) {
	tax := taxonomy.Default()

	_, err := ParseQuery([]string{"-Japn"}, tax)
	if !errors.Is(err, domain.ErrUnknownTag) {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
	if !strings.Contains(err.Error(), `did you mean "-Japan"?`) {
		t.Errorf("expected a hint for -Japn, got %q", err)
	}

	_, err = ParseQuery([]string{"+zzzzzz"}, tax)
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("expected no hint for +zzzzzz, got %v", err)
	}
}

func TestParseQuery_Empty(t *testing.T) {
	q, err := ParseQuery(nil, taxonomy.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Title != "" || len(q.Include) != 0 || len(q.Exclude) != 0 {
		t.Errorf("expected empty query, got %+v", q)
	}
}

func TestParseQueryLine(t *testing.T) {
	tax := taxonomy.Default()

	q, err := ParseQueryLine(`"Othello Multivision" +"New Zealand" -"Rev 1"`, tax)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Title != "Othello Multivision" {
		t.Errorf("expected multi-word title, got %q", q.Title)
	}
	if !reflect.DeepEqual(q.Include, []string{"New Zealand"}) {
		t.Errorf("unexpected include tags: %v", q.Include)
	}
	if !reflect.DeepEqual(q.Exclude, []string{"Rev 1"}) {
		t.Errorf("unexpected exclude tags: %v", q.Exclude)
	}

	if _, err := ParseQueryLine(`"unterminated`, tax); !errors.Is(err, domain.ErrMalformedQuery) {
		t.Errorf("expected ErrMalformedQuery for an unterminated quote, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Kagaku (Gensokigou Master) (Japan).zip", "kagaku  gensokigou master   japan  zip"},
		{"  HELLO-World ", "hello world"},
		{"()", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
