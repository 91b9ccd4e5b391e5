// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package upstream

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/beanslover03/healthcare-chatbot-sub000/internal/cache"
	"github.com/beanslover03/healthcare-chatbot-sub000/internal/httputil"
	"github.com/beanslover03/healthcare-chatbot-sub000/pkg/types"
)

const (
	medlinePlusName     = "medlineplus"
	medlineMaxDocs      = 10
	medlineSummaryChars = 600
	medlineBodyLimit    = 1 << 20
)

// MedlinePlusAdapter queries the NLM MedlinePlus health-topic search.
// The upstream answers in JSON or in a loosely-structured markup format
// depending on mood; the adapter sniffs the payload and parses
// accordingly, falling back to a permissive text-extraction pass when
// structured parsing yields nothing, and to the static fallback table
// when both passes fail.
type MedlinePlusAdapter struct {
	client
}

// NewMedlinePlus builds the health-topic adapter.
func NewMedlinePlus(cfg types.UpstreamConfig, store *cache.Cache, log *logrus.Logger) *MedlinePlusAdapter {
	return &MedlinePlusAdapter{client: newClient(medlinePlusName, types.CategoryHealthTopics, cfg, store, log)}
}

func (a *MedlinePlusAdapter) Name() string             { return medlinePlusName }
func (a *MedlinePlusAdapter) Category() types.Category { return types.CategoryHealthTopics }

func (a *MedlinePlusAdapter) Search(ctx context.Context, term string, opts SearchOptions) ([]types.UpstreamRecord, error) {
	return a.run(ctx, term, opts, a.fetch)
}

func (a *MedlinePlusAdapter) fetch(ctx context.Context, term string) ([]types.UpstreamRecord, error) {
	params := url.Values{
		"db":      {"healthTopics"},
		"term":    {term},
		"rettype": {"brief"},
		"retmax":  {fmt.Sprintf("%d", medlineMaxDocs)},
	}
	reqURL := a.cfg.BaseURL + "?" + params.Encode()

	req, err := httputil.NewRequest(ctx, reqURL, a.cfg.UserAgent, "application/json")
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, a.http, req, 0)
	if err != nil {
		return nil, fmt.Errorf("MedlinePlus API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("MedlinePlus API returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, medlineBodyLimit))
	if err != nil {
		return nil, fmt.Errorf("reading MedlinePlus response: %w", err)
	}

	records := a.parseStructured(body)
	if len(records) == 0 {
		records = a.parsePermissive(body)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("MedlinePlus response yielded no parseable topics")
	}
	return records, nil
}

// parseStructured sniffs the payload and runs the matching parser.
func (a *MedlinePlusAdapter) parseStructured(body []byte) []types.UpstreamRecord {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "{") {
		return a.parseJSON(body)
	}
	return a.parseXML(body)
}

func (a *MedlinePlusAdapter) parseJSON(body []byte) []types.UpstreamRecord {
	var mr medlineJSONResponse
	if err := json.Unmarshal(body, &mr); err != nil {
		return nil
	}
	var records []types.UpstreamRecord
	for _, doc := range mr.Result.Docs {
		title := stripMarkup(doc.Title)
		if title == "" {
			continue
		}
		records = append(records, types.UpstreamRecord{
			Key:         title,
			Title:       title,
			Source:      medlinePlusName,
			Category:    types.CategoryHealthTopics,
			Description: truncate(stripMarkup(doc.Snippet), medlineSummaryChars),
			URL:         doc.URL,
		})
	}
	return records
}

func (a *MedlinePlusAdapter) parseXML(body []byte) []types.UpstreamRecord {
	var sr medlineXMLResult
	if err := xml.Unmarshal(body, &sr); err != nil {
		return nil
	}
	var records []types.UpstreamRecord
	for _, doc := range sr.List.Documents {
		rec := types.UpstreamRecord{
			Source:   medlinePlusName,
			Category: types.CategoryHealthTopics,
			URL:      doc.URL,
		}
		for _, content := range doc.Contents {
			switch content.Name {
			case "title":
				rec.Title = stripMarkup(content.Value)
			case "FullSummary", "snippet":
				if rec.Description == "" {
					rec.Description = truncate(stripMarkup(content.Value), medlineSummaryChars)
				}
			}
		}
		if rec.Title == "" {
			continue
		}
		rec.Key = rec.Title
		records = append(records, rec)
	}
	return records
}

// medlineTitlePattern backs the permissive second pass: pull anything
// that looks like a titled document out of otherwise unparseable markup.
var medlineTitlePattern = regexp.MustCompile(`(?is)<content[^>]*name="title"[^>]*>(.*?)</content>`)

func (a *MedlinePlusAdapter) parsePermissive(body []byte) []types.UpstreamRecord {
	var records []types.UpstreamRecord
	for _, m := range medlineTitlePattern.FindAllStringSubmatch(string(body), medlineMaxDocs) {
		title := stripMarkup(m[1])
		if title == "" {
			continue
		}
		records = append(records, types.UpstreamRecord{
			Key:      title,
			Title:    title,
			Source:   medlinePlusName,
			Category: types.CategoryHealthTopics,
		})
	}
	return records
}

var markupTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripMarkup drops embedded highlighting tags and collapses whitespace.
func stripMarkup(s string) string {
	s = markupTagPattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

// MedlinePlus response structures, both moods.
type medlineJSONResponse struct {
	Result struct {
		Docs []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			URL     string `json:"url"`
		} `json:"docs"`
	} `json:"result"`
}

type medlineXMLResult struct {
	XMLName xml.Name `xml:"nlmSearchResult"`
	List    struct {
		Documents []struct {
			URL      string `xml:"url,attr"`
			Contents []struct {
				Name  string `xml:"name,attr"`
				Value string `xml:",innerxml"`
			} `xml:"content"`
		} `xml:"document"`
	} `xml:"list"`
}
