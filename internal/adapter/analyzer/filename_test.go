package analyzer

import (
	"reflect"
	"testing"

	"romdex/internal/adapter/taxonomy"
)

func TestParseFilename(t *testing.T) {
	tax := taxonomy.Default()

	tests := []struct {
		filename  string
		wantTitle string
		wantTags  []string
	}{
		{
			filename:  "Girl's Garden (Japan).zip",
			wantTitle: "Girl's Garden",
			wantTags:  []string{"Japan"},
		},
		{
			filename:  "Kagaku (Gensokigou Master) (Japan) (SC-3000) (Program).zip",
			wantTitle: "Kagaku (Gensokigou Master)",
			wantTags:  []string{"Japan", "Program", "SC-3000"},
		},
		{
			filename:  "Champion Golf (Japan, Europe) (Rev 1).zip",
			wantTitle: "Champion Golf",
			wantTags:  []string{"Europe", "Japan", "Rev 1"},
		},
		{
			filename:  "Othello (Japan) (Proto) (Alt).zip",
			wantTitle: "Othello",
			wantTags:  []string{"Alt", "Japan", "Proto"},
		},
		{
			filename:  "Hustle Chumy (Japan) (En,Ja).zip",
			wantTitle: "Hustle Chumy",
			wantTags:  []string{"Japan"},
		},
		{
			filename:  "Home BASIC (Japan) (Beta Version, Draft).zip",
			wantTitle: "Home BASIC",
			wantTags:  []string{"Japan"},
		},
		{
			filename:  "[BIOS] Othello Multivision (Japan).zip",
			wantTitle: "[BIOS] Othello Multivision",
			wantTags:  []string{"BIOS", "Japan"},
		},
		{
			filename:  "Plain Title.zip",
			wantTitle: "Plain Title",
			wantTags:  []string{},
		},
		{
			filename:  "Game (First Sub) (Japan) (Second Sub) (Europe).zip",
			wantTitle: "Game (First Sub) (Japan) (Second Sub)",
			wantTags:  []string{"Europe", "Japan"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			title, tags := ParseFilename(tt.filename, tax)
			if title != tt.wantTitle {
				t.Errorf("title = %q, want %q", title, tt.wantTitle)
			}
			if !reflect.DeepEqual(tags, tt.wantTags) {
				t.Errorf("tags = %v, want %v", tags, tt.wantTags)
			}
		})
	}
}

func TestParseFilename_OnlyKnownGroups(t *testing.T) {
	tax := taxonomy.Default()

	title, tags := ParseFilename("Zaxxon (Taiwan) (Japan) (Rev 2).zip", tax)
	if title != "Zaxxon" {
		t.Errorf("expected title to be the slice before the first group, got %q", title)
	}
	want := []string{"Japan", "Rev 2", "Taiwan"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("expected %v, got %v", want, tags)
	}
}

func TestParseFilename_BIOSAlwaysTagged(t *testing.T) {
	tax, err := taxonomy.New([]taxonomy.Category{{Name: "Region", Tags: []string{"Japan"}}}, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{
		"[BIOS] SC-3000 (Japan).zip",
		"Something [BIOS] (Unknown Group).zip",
		"[BIOS].zip",
	} {
		_, tags := ParseFilename(name, tax)
		found := false
		for _, tag := range tags {
			if tag == BIOSTag {
				found = true
			}
		}
		if !found {
			t.Errorf("%q: expected BIOS tag, got %v", name, tags)
		}
	}
}

func TestParseFilename_NoDuplicateTags(t *testing.T) {
	tax := taxonomy.Default()

	_, tags := ParseFilename("[BIOS] Thing (BIOS) (Japan, Japan).zip", tax)
	want := []string{"BIOS", "Japan"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("expected %v, got %v", want, tags)
	}
}

func TestParseFilename_TagsStayInTaxonomy(t *testing.T) {
	tax := taxonomy.Default()

	names := []string{
		"Kagaku (Gensokigou Master) (Japan) (SC-3000) (Program).zip",
		"Bomb Jack (Japan, Europe) (Made in Taiwan, Unl).zip",
		"Weird ((Nested)) (Korea).zip",
		"Open Paren (Japan.zip",
	}
	for _, name := range names {
		_, tags := ParseFilename(name, tax)
		for _, tag := range tags {
			if !tax.Has(tag) && tag != BIOSTag {
				t.Errorf("%q: tag %q is not in the taxonomy", name, tag)
			}
		}
	}
}

func TestBaseTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Title (Japan).zip", "Title"},
		{"Title(Japan).zip", "Title"},
		{"(Japan).zip", ""},
		{"No Groups.zip", "No Groups"},
		{"No Extension", "No Extension"},
	}

	for _, tt := range tests {
		if got := baseTitle(tt.input); got != tt.want {
			t.Errorf("baseTitle(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
