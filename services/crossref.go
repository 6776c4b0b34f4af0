package services

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"journal-submission-api/models"
)

const crossrefDepositURL = "https://doi.crossref.org/servlet/deposit"

// DepositMeta is everything the registrar needs for one journal article.
type DepositMeta struct {
	DOI               string
	Title             string
	AuthorName        string
	AuthorAffiliation string
	CoAuthors         []models.CoAuthor
	PublishedAt       time.Time
	JournalName       string
}

// Crossref batch deposit XML, schema 5.3.1.
type doiBatch struct {
	XMLName        xml.Name `xml:"doi_batch"`
	Xmlns          string   `xml:"xmlns,attr"`
	XmlnsXsi       string   `xml:"xmlns:xsi,attr"`
	Version        string   `xml:"version,attr"`
	SchemaLocation string   `xml:"xsi:schemaLocation,attr"`
	Head           depositHead
	Body           depositBody
}

type depositHead struct {
	XMLName       xml.Name `xml:"head"`
	DoiBatchID    string   `xml:"doi_batch_id"`
	Timestamp     int64    `xml:"timestamp"`
	DepositorName string   `xml:"depositor>depositor_name"`
	EmailAddress  string   `xml:"depositor>email_address"`
	Registrant    string   `xml:"registrant"`
}

type depositBody struct {
	XMLName xml.Name `xml:"body"`
	Journal depositJournal
}

type depositJournal struct {
	XMLName   xml.Name `xml:"journal"`
	FullTitle string   `xml:"journal_metadata>full_title"`
	Article   depositArticle
}

type depositArticle struct {
	XMLName         xml.Name `xml:"journal_article"`
	PublicationType string   `xml:"publication_type,attr"`
	Title           string   `xml:"titles>title"`
	Contributors    depositContributors
	PublicationDate depositDate
	DOI             string `xml:"doi_data>doi"`
	Resource        string `xml:"doi_data>resource"`
}

type depositContributors struct {
	XMLName xml.Name        `xml:"contributors"`
	Persons []depositPerson `xml:"person_name"`
}

type depositPerson struct {
	Sequence        string `xml:"sequence,attr"`
	ContributorRole string `xml:"contributor_role,attr"`
	GivenName       string `xml:"given_name,omitempty"`
	Surname         string `xml:"surname"`
	Affiliation     string `xml:"affiliation,omitempty"`
}

// splitName separates a display name into given/family the way the registrar
// wants it: the last word is the family name.
func splitName(full string) (given, family string) {
	parts := strings.Fields(strings.TrimSpace(full))
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return "", parts[0]
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

func contributor(seq, name, affiliation string) depositPerson {
	given, family := splitName(name)
	return depositPerson{
		Sequence:        seq,
		ContributorRole: "author",
		GivenName:       given,
		Surname:         family,
		Affiliation:     affiliation,
	}
}

// BuildDepositXML renders the batch deposit document for one article.
func BuildDepositXML(meta DepositMeta, now time.Time) ([]byte, error) {
	batchID := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, meta.DOI)

	persons := []depositPerson{contributor("first", meta.AuthorName, meta.AuthorAffiliation)}
	for _, ca := range meta.CoAuthors {
		persons = append(persons, contributor("additional", ca.Name, ca.Affiliation))
	}

	batch := doiBatch{
		Xmlns:          "http://www.crossref.org/schema/5.3.1",
		XmlnsXsi:       "http://www.w3.org/2001/XMLSchema-instance",
		Version:        "5.3.1",
		SchemaLocation: "http://www.crossref.org/schema/5.3.1 https://www.crossref.org/schemas/crossref5.3.1.xsd",
		Head: depositHead{
			DoiBatchID:    fmt.Sprintf("%s_%d", batchID, now.UnixMilli()),
			Timestamp:     now.UnixMilli(),
			DepositorName: meta.JournalName,
			EmailAddress:  "admin@journal.example",
			Registrant:    meta.JournalName,
		},
		Body: depositBody{
			Journal: depositJournal{
				FullTitle: meta.JournalName,
				Article: depositArticle{
					PublicationType: "full_text",
					Title:           meta.Title,
					Contributors:    depositContributors{Persons: persons},
					PublicationDate: depositDate{
						MediaType: "online",
						Month:     fmt.Sprintf("%02d", meta.PublishedAt.Month()),
						Day:       fmt.Sprintf("%02d", meta.PublishedAt.Day()),
						Year:      fmt.Sprintf("%d", meta.PublishedAt.Year()),
					},
					DOI:      meta.DOI,
					Resource: fmt.Sprintf("%s/archive/%s", appBaseURL(), meta.DOI),
				},
			},
		},
	}

	out, err := xml.MarshalIndent(batch, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

type depositDate struct {
	XMLName   xml.Name `xml:"publication_date"`
	MediaType string   `xml:"media_type,attr"`
	Month     string   `xml:"month"`
	Day       string   `xml:"day"`
	Year      string   `xml:"year"`
}

// CrossrefClient uploads deposit batches via the registrar's authenticated
// form endpoint.
type CrossrefClient struct {
	Endpoint   string
	HTTPClient *http.Client
}

func NewCrossrefClient() *CrossrefClient {
	return &CrossrefClient{
		Endpoint:   crossrefDepositURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *CrossrefClient) Deposit(meta DepositMeta, username, password string) error {
	payload, err := BuildDepositXML(meta, time.Now())
	if err != nil {
		return fmt.Errorf("build deposit xml: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	_ = writer.WriteField("operation", "doMDUpload")
	_ = writer.WriteField("login_id", username)
	_ = writer.WriteField("login_passwd", password)
	part, err := writer.CreateFormFile("fname", "deposit.xml")
	if err != nil {
		return err
	}
	if _, err := part.Write(payload); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.Endpoint, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("crossref responded with %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}
