package helpers

import "strings"

// HighlightSegment is one run of text in a search result name. Match marks
// the runs that equal the search term, case-insensitively.
type HighlightSegment struct {
	Text  string
	Match bool
}

// HighlightSegments splits text around every occurrence of term so templates
// can wrap the matches in <mark>. A blank term yields the whole text as one
// plain segment.
func HighlightSegments(text, term string) []HighlightSegment {
	term = strings.TrimSpace(term)
	if text == "" {
		return nil
	}
	if term == "" {
		return []HighlightSegment{{Text: text}}
	}

	lowerText := strings.ToLower(text)
	lowerTerm := strings.ToLower(term)

	var segments []HighlightSegment
	cursor := 0
	for {
		index := strings.Index(lowerText[cursor:], lowerTerm)
		if index < 0 {
			break
		}
		if index > 0 {
			segments = append(segments, HighlightSegment{Text: text[cursor : cursor+index]})
		}
		matchEnd := cursor + index + len(lowerTerm)
		segments = append(segments, HighlightSegment{Text: text[cursor+index : matchEnd], Match: true})
		cursor = matchEnd
	}

	if cursor < len(text) {
		segments = append(segments, HighlightSegment{Text: text[cursor:]})
	}
	return segments
}
