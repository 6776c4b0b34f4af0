package services

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"journal-submission-api/models"
)

func depositMetaFixture() DepositMeta {
	return DepositMeta{
		DOI:               "10.5555/asjsr.2025.0001",
		Title:             "Sharding & Friends <at scale>",
		AuthorName:        "Ada Augusta Lovelace",
		AuthorAffiliation: "Analytical Engines Ltd",
		CoAuthors:         models.CoAuthorList{{Name: "Hopper", Affiliation: "Navy"}},
		PublishedAt:       time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC),
		JournalName:       "Journal of Systems Research",
	}
}

func TestBuildDepositXML(t *testing.T) {
	out, err := BuildDepositXML(depositMetaFixture(), time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	doc := string(out)

	for _, want := range []string{
		`version="5.3.1"`,
		"<doi>10.5555/asjsr.2025.0001</doi>",
		// Reserved characters must come out escaped.
		"Sharding &amp; Friends &lt;at scale&gt;",
		"<given_name>Ada Augusta</given_name>",
		"<surname>Lovelace</surname>",
		"<full_title>Journal of Systems Research</full_title>",
		"<month>03</month>",
		"<day>07</day>",
		"<year>2025</year>",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("deposit xml missing %q", want)
		}
	}

	// Single-word co-author names land entirely in the surname slot.
	if !strings.Contains(doc, "<surname>Hopper</surname>") {
		t.Errorf("co-author surname missing")
	}
	if strings.Count(doc, `contributor_role="author"`) != 2 {
		t.Errorf("expected 2 contributors, got: %s", doc)
	}
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		in, given, family string
	}{
		{"Ada Lovelace", "Ada", "Lovelace"},
		{"Ada Augusta Lovelace", "Ada Augusta", "Lovelace"},
		{"Cher", "", "Cher"},
		{"  ", "", ""},
	}
	for _, tc := range cases {
		given, family := splitName(tc.in)
		if given != tc.given || family != tc.family {
			t.Errorf("splitName(%q) = %q/%q, want %q/%q", tc.in, given, family, tc.given, tc.family)
		}
	}
}

func TestCrossrefClientDeposit(t *testing.T) {
	var gotOperation, gotLogin string
	var gotFile []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("bad multipart form: %v", err)
		}
		gotOperation = r.FormValue("operation")
		gotLogin = r.FormValue("login_id")
		file, _, err := r.FormFile("fname")
		if err != nil {
			t.Errorf("missing deposit file: %v", err)
		} else {
			gotFile, _ = io.ReadAll(file)
			file.Close()
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &CrossrefClient{Endpoint: srv.URL, HTTPClient: srv.Client()}
	if err := client.Deposit(depositMetaFixture(), "cr-user", "cr-pass"); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if gotOperation != "doMDUpload" {
		t.Fatalf("expected doMDUpload operation, got %q", gotOperation)
	}
	if gotLogin != "cr-user" {
		t.Fatalf("expected login_id to carry the username, got %q", gotLogin)
	}
	if !strings.Contains(string(gotFile), "<doi_batch") {
		t.Fatalf("uploaded file is not a deposit batch")
	}
}

func TestCrossrefClientDepositRejectedUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := &CrossrefClient{Endpoint: srv.URL, HTTPClient: srv.Client()}
	err := client.Deposit(depositMetaFixture(), "cr-user", "wrong")
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected an upstream status error, got %v", err)
	}
}
