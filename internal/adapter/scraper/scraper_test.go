package scraper

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"romdex/internal/adapter/remote"
)

const listingPage = `<!DOCTYPE html>
<html><body>
<table>
<tr><td><a href="../">Parent directory/</a></td></tr>
<tr><td><a href="Champion%20Golf%20(Japan).zip">Champion Golf (Japan).zip</a></td></tr>
<tr><td><a href="Kagaku%20(Gensokigou%20Master)%20(Japan)%20(SC-3000)%20(Program).ZIP">Kagaku</a></td></tr>
<tr><td><a href="readme.txt">readme.txt</a></td></tr>
<tr><td><a href="Othello%20(Japan)%20(Beta).zip">Othello (Beta)</a></td></tr>
<tr><td><a href="Champion%20Golf%20(Japan).zip">duplicate</a></td></tr>
<tr><td><a name="anchor-without-href">nothing</a></td></tr>
</table>
</body></html>`

func TestFetchListing(t *testing.T) {
	var gotUA, gotReferer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		io.WriteString(w, listingPage)
	}))
	defer srv.Close()

	client := remote.NewClient(remote.Options{Referer: srv.URL + "/"})
	s := NewScraper(client, NewFilter([]string{"*.zip"}, []string{"*(beta)*"}))

	hrefs, err := s.FetchListing(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"Champion%20Golf%20(Japan).zip",
		"Kagaku%20(Gensokigou%20Master)%20(Japan)%20(SC-3000)%20(Program).ZIP",
	}
	if !reflect.DeepEqual(hrefs, want) {
		t.Errorf("expected %v, got %v", want, hrefs)
	}
	if gotUA != remote.DefaultUserAgent {
		t.Errorf("expected User-Agent %q, got %q", remote.DefaultUserAgent, gotUA)
	}
	if gotReferer != srv.URL+"/" {
		t.Errorf("expected Referer header, got %q", gotReferer)
	}
}

func TestFetchListing_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	s := NewScraper(remote.NewClient(remote.Options{}), NewFilter(nil, nil))
	_, err := s.FetchListing(context.Background(), srv.URL)

	var se *remote.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Errorf("expected a 404 StatusError, got %v", err)
	}
}

func TestExtractHrefs(t *testing.T) {
	hrefs, err := ExtractHrefs(strings.NewReader(`<p><a href="a.zip">a</a><span><a href="b/c.zip">c</a></span></p>`))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.zip", "b/c.zip"}
	if !reflect.DeepEqual(hrefs, want) {
		t.Errorf("expected %v, got %v", want, hrefs)
	}
}

func TestFilenameOf(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"Champion%20Golf%20(Japan).zip", "Champion Golf (Japan).zip"},
		{"/files/No-Intro/Sega%20-%20SG-1000/Zaxxon%20(Japan).zip", "Zaxxon (Japan).zip"},
		{"https://example.com/x/%5BBIOS%5D%20Othello.zip?dl=1", "[BIOS] Othello.zip"},
		{"", ""},
	}

	for _, tt := range tests {
		got, err := FilenameOf(tt.href)
		if err != nil {
			t.Errorf("FilenameOf(%q): unexpected error %v", tt.href, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FilenameOf(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestResolveURL(t *testing.T) {
	got, err := ResolveURL("https://example.com/files/Sega%20-%20SG-1000/", "Zaxxon%20(Japan).zip")
	if err != nil {
		t.Fatal(err)
	}
	want := "https://example.com/files/Sega%20-%20SG-1000/Zaxxon%20%28Japan%29.zip"
	alt := "https://example.com/files/Sega%20-%20SG-1000/Zaxxon%20(Japan).zip"
	if got != want && got != alt {
		t.Errorf("unexpected resolved URL %q", got)
	}
}

func TestFilter(t *testing.T) {
	f := NewFilter([]string{"*.zip", "*.7z"}, []string{"*(proto)*"})

	tests := []struct {
		name string
		want bool
	}{
		{"Game (Japan).zip", true},
		{"Game (Japan).ZIP", true},
		{"Game (Japan).7z", true},
		{"Game (Japan) (Proto).zip", false},
		{"Game (Japan).txt", false},
	}

	for _, tt := range tests {
		if got := f.Match(tt.name); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if err := NewFilter([]string{"[unterminated"}, nil).Validate(); err == nil {
		t.Error("expected an invalid pattern to be reported")
	}
}
