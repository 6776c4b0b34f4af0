package services

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"gorm.io/gorm"

	"journal-submission-api/models"
)

// Relevance weights per matched field.
const (
	rankTitle    = 4.0
	rankKeyword  = 3.0
	rankAbstract = 1.5
	rankFullText = 1.0
)

const snippetRadius = 80

// SearchResult is one ranked match over the published archive.
type SearchResult struct {
	PublicationID uint     `json:"publication_id"`
	SubmissionID  uint     `json:"submission_id"`
	DOI           string   `json:"doi"`
	Title         string   `json:"title"`
	Abstract      string   `json:"abstract"`
	Keywords      []string `json:"keywords"`
	AuthorName    string   `json:"author_name"`
	Headline      string   `json:"headline"`
	Rank          float64  `json:"rank"`
}

type SearchService struct {
	db *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

// Search runs a free-text query over title, abstract, keywords and extracted
// full text of non-retracted publications. Results are ranked and carry a
// highlighted snippet. Errors degrade to empty results at the HTTP layer.
func (s *SearchService) Search(query string, limit, offset int) ([]SearchResult, int, error) {
	terms := tokenize(query)
	if len(terms) == 0 {
		return []SearchResult{}, 0, nil
	}
	if limit <= 0 {
		limit = 20
	}

	// Pre-filter in SQL, rank in Go. Retracted publications never surface.
	db := s.db.Preload("Submission").Preload("Submission.Author").
		Where("retracted = ?", false)
	var likes []string
	var args []interface{}
	for _, term := range terms {
		pat := "%" + term + "%"
		likes = append(likes, "(LOWER(title) LIKE ? OR LOWER(abstract) LIKE ? OR LOWER(keywords) LIKE ? OR LOWER(extracted_text) LIKE ?)")
		args = append(args, pat, pat, pat, pat)
	}
	db = db.Where(
		"publications.submission_id IN (SELECT submission_id FROM submissions WHERE "+
			strings.Join(likes, " OR ")+")", args...)

	var pubs []models.Publication
	if err := db.Find(&pubs).Error; err != nil {
		return nil, 0, err
	}

	results := make([]SearchResult, 0, len(pubs))
	for _, pub := range pubs {
		if pub.Submission == nil {
			continue
		}
		rank := scoreSubmission(pub.Submission, terms)
		if rank == 0 {
			continue
		}
		doi := ""
		if pub.DOI != nil {
			doi = *pub.DOI
		}
		authorName := ""
		if pub.Submission.Author != nil {
			authorName = pub.Submission.Author.FullName
		}
		results = append(results, SearchResult{
			PublicationID: pub.PublicationID,
			SubmissionID:  pub.SubmissionID,
			DOI:           doi,
			Title:         pub.Submission.Title,
			Abstract:      pub.Submission.Abstract,
			Keywords:      pub.Submission.Keywords,
			AuthorName:    authorName,
			Headline:      headline(pub.Submission, terms),
			Rank:          rank,
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Rank > results[j].Rank })

	total := len(results)
	if offset >= total {
		return []SearchResult{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return results[offset:end], total, nil
}

func tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `"'.,;:!?()[]`)
		if len(f) > 1 {
			terms = append(terms, f)
		}
	}
	return terms
}

func scoreSubmission(sub *models.Submission, terms []string) float64 {
	title := strings.ToLower(sub.Title)
	abstract := strings.ToLower(sub.Abstract)
	keywords := strings.ToLower(strings.Join(sub.Keywords, " "))
	fullText := ""
	if sub.ExtractedText != nil {
		fullText = strings.ToLower(*sub.ExtractedText)
	}

	var rank float64
	for _, term := range terms {
		if strings.Contains(title, term) {
			rank += rankTitle
		}
		if strings.Contains(keywords, term) {
			rank += rankKeyword
		}
		if strings.Contains(abstract, term) {
			rank += rankAbstract
		}
		if strings.Contains(fullText, term) {
			rank += rankFullText
		}
	}
	return rank
}

// foldWithOffsets lowercases src rune by rune and records, for every byte of
// the lowered string, the byte offset of the originating rune in src. Offsets
// in the lowered string cannot be applied to src directly: lowering can change
// a rune's encoded length.
func foldWithOffsets(src string) (string, []int) {
	var b strings.Builder
	b.Grow(len(src))
	offsets := make([]int, 0, len(src)+1)
	for i, r := range src {
		lr := unicode.ToLower(r)
		for j := 0; j < utf8.RuneLen(lr); j++ {
			offsets = append(offsets, i)
		}
		b.WriteRune(lr)
	}
	offsets = append(offsets, len(src))
	return b.String(), offsets
}

func snapRuneStart(s string, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// headline builds a short snippet around the first matched term, with the
// match wrapped in <mark> tags. Falls back to the abstract head.
func headline(sub *models.Submission, terms []string) string {
	sources := []string{sub.Abstract}
	if sub.ExtractedText != nil {
		sources = append(sources, *sub.ExtractedText)
	}
	for _, src := range sources {
		lower, offsets := foldWithOffsets(src)
		for _, term := range terms {
			li := strings.Index(lower, term)
			if li < 0 {
				continue
			}
			idx := offsets[li]
			matchEnd := offsets[li+len(term)]
			start := snapRuneStart(src, idx-snippetRadius)
			end := snapRuneStart(src, matchEnd+snippetRadius)
			snippet := src[start:idx] + "<mark>" + src[idx:matchEnd] + "</mark>" + src[matchEnd:end]
			if start > 0 {
				snippet = "…" + snippet
			}
			if end < len(src) {
				snippet += "…"
			}
			return snippet
		}
	}
	if len(sub.Abstract) > 2*snippetRadius {
		return sub.Abstract[:snapRuneStart(sub.Abstract, 2*snippetRadius)] + "…"
	}
	return sub.Abstract
}
