package spotify

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy tags which extraction technique produced a document.
type Strategy string

const (
	// StrategyNextData reads the __NEXT_DATA__ script tag of the
	// current page generation. Primary source, tried first for every
	// entity type.
	StrategyNextData Strategy = "next_data"

	// StrategyResourceScript reads the resource script tag of the
	// older page generation, whose content is the entity JSON at the
	// document root with no wrapping envelope.
	StrategyResourceScript Strategy = "resource_script"

	// StrategyJSONLD reads the application/ld+json block. Last
	// resort; yields only a reduced field subset.
	StrategyJSONLD Strategy = "json_ld"
)

// ExtractedJSON is a parsed page payload plus the strategy that
// produced it. The strategy determines where the entity subtree lives
// inside Data.
type ExtractedJSON struct {
	Data     map[string]any
	Strategy Strategy
}

// EntityPath returns the dotted traversal from the document root to
// the entity subtree for the strategy that produced this document.
func (x *ExtractedJSON) EntityPath() string {
	if x.Strategy == StrategyNextData {
		return "props.pageProps.state.data.entity"
	}
	return ""
}

// ExtractJSON runs the strategy chain over raw page text and returns
// the first document any strategy produced.
//
// Strategies are tried in a fixed order: next_data, resource_script,
// json_ld. A strategy failure is swallowed while fallbacks remain.
// The site serves at least two page-rendering generations concurrently
// depending on entity type and caching tier, so no single generation
// can be assumed authoritative.
//
// Returns a *ParsingError carrying the last strategy's diagnostic if
// every strategy fails.
func ExtractJSON(pageText string) (*ExtractedJSON, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageText))
	if err != nil {
		return nil, &ParsingError{Strategy: "html", Reason: "parsing page", Err: err}
	}

	strategies := []struct {
		tag Strategy
		run func(*goquery.Document) (map[string]any, *ParsingError)
	}{
		{StrategyNextData, extractNextData},
		{StrategyResourceScript, extractResourceScript},
		{StrategyJSONLD, extractJSONLD},
	}

	var lastErr *ParsingError
	for _, s := range strategies {
		data, perr := s.run(doc)
		if perr == nil {
			return &ExtractedJSON{Data: data, Strategy: s.tag}, nil
		}
		lastErr = perr
	}
	return nil, lastErr
}

func extractNextData(doc *goquery.Document) (map[string]any, *ParsingError) {
	sel := doc.Find(`script#__NEXT_DATA__[type='application/json']`)
	if sel.Length() == 0 {
		return nil, &ParsingError{Strategy: string(StrategyNextData), Reason: "script tag not found"}
	}
	return decodeScript(StrategyNextData, sel.First().Text())
}

func extractResourceScript(doc *goquery.Document) (map[string]any, *ParsingError) {
	sel := doc.Find(`script#resource[type='application/json']`)
	if sel.Length() == 0 {
		return nil, &ParsingError{Strategy: string(StrategyResourceScript), Reason: "script tag not found"}
	}
	return decodeScript(StrategyResourceScript, sel.First().Text())
}

func extractJSONLD(doc *goquery.Document) (map[string]any, *ParsingError) {
	var data map[string]any
	var lastErr *ParsingError

	doc.Find(`script[type='application/ld+json']`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		parsed, perr := decodeScript(StrategyJSONLD, s.Text())
		if perr != nil {
			lastErr = perr
			return true
		}
		data = parsed
		return false
	})

	if data != nil {
		return data, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, &ParsingError{Strategy: string(StrategyJSONLD), Reason: "script tag not found"}
}

func decodeScript(strategy Strategy, text string) (map[string]any, *ParsingError) {
	var data map[string]any
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil, &ParsingError{Strategy: string(strategy), Reason: "malformed JSON", Err: err}
	}
	return data, nil
}

// notFoundBanners are the human-readable texts the web player renders
// on its "entity does not exist" pages. Wording changes are absorbed
// here as one-line additions; the status-code probe in IsNotFoundPage
// backs them up.
var notFoundBanners = []string{
	"Page not found",
	"Couldn't find that page",
	"content is not available",
}

// IsNotFoundPage reports whether page text shows the web player's
// "entity does not exist" state. Evaluated independently of JSON
// extraction because a not-found page still parses as valid HTML and
// often carries valid but empty JSON.
//
// A banner match is authoritative. When no banner matches, the
// __NEXT_DATA__ payload is probed for an HTTP error status code as a
// structural second signal.
func IsNotFoundPage(pageText string) bool {
	for _, banner := range notFoundBanners {
		if strings.Contains(pageText, banner) {
			return true
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageText))
	if err != nil {
		return false
	}
	sel := doc.Find(`script#__NEXT_DATA__[type='application/json']`)
	if sel.Length() == 0 {
		return false
	}
	var data map[string]any
	if json.Unmarshal([]byte(sel.First().Text()), &data) != nil {
		return false
	}
	if code, ok := getInt(data, "props.pageProps.statusCode", "pageProps.statusCode"); ok {
		return code == 404 || code == 410
	}
	return false
}
