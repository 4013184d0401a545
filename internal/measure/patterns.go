package measure

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/joseph-ayodele/scope-mapper/constants"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
)

// recognizer pairs a pattern with the parser for its capture groups.
type recognizer struct {
	pattern constants.PatternType
	re      *regexp.Regexp
	// noDigitAfter rejects matches directly followed by a digit.
	noDigitAfter bool
	parse        func(groups []string) (entity.Reading, error)
}

// recognizers are tried in priority order; the first pattern with a parsed match wins.
var recognizers = []recognizer{
	{
		pattern: constants.PatternFeetInches,
		re:      regexp.MustCompile(`(?i)(\d+)'\s*(\d+)"?`),
		parse: func(g []string) (entity.Reading, error) {
			feet, err := strconv.Atoi(g[0])
			if err != nil {
				return nil, err
			}
			inches, err := strconv.Atoi(g[1])
			if err != nil {
				return nil, err
			}
			return entity.FeetInches{Feet: feet, Inches: inches}, nil
		},
	},
	{
		pattern:      constants.PatternFeetOnly,
		re:           regexp.MustCompile(`(?i)(\d+)'`),
		noDigitAfter: true,
		parse: func(g []string) (entity.Reading, error) {
			feet, err := strconv.Atoi(g[0])
			if err != nil {
				return nil, err
			}
			return entity.FeetOnly{Feet: feet}, nil
		},
	},
	{
		pattern:      constants.PatternInchesOnly,
		re:           regexp.MustCompile(`(?i)(\d+)"`),
		noDigitAfter: true,
		parse: func(g []string) (entity.Reading, error) {
			inches, err := strconv.Atoi(g[0])
			if err != nil {
				return nil, err
			}
			return entity.InchesOnly{Inches: inches}, nil
		},
	},
	{
		pattern: constants.PatternDecimalFeet,
		re:      regexp.MustCompile(`(?i)(\d+\.\d+)'?`),
		parse: func(g []string) (entity.Reading, error) {
			v, err := strconv.ParseFloat(g[0], 64)
			if err != nil {
				return nil, err
			}
			return entity.DecimalFeet{Feet: v}, nil
		},
	},
	{
		pattern: constants.PatternDimensions,
		re:      regexp.MustCompile(`(?i)(\d+\.?\d*)\s*[xX×]\s*(\d+\.?\d*)`),
		parse: func(g []string) (entity.Reading, error) {
			w, err := strconv.ParseFloat(g[0], 64)
			if err != nil {
				return nil, err
			}
			h, err := strconv.ParseFloat(g[1], 64)
			if err != nil {
				return nil, err
			}
			return entity.Dimensions{Width: w, Height: h}, nil
		},
	},
	{
		pattern: constants.PatternAreaSqFt,
		re:      regexp.MustCompile(`(?i)(\d+\.?\d*)\s*sq\.?\s*ft\.?`),
		parse:   areaParser(constants.UnitSqFt),
	},
	{
		pattern: constants.PatternAreaSqIn,
		re:      regexp.MustCompile(`(?i)(\d+\.?\d*)\s*sq\.?\s*in\.?`),
		parse:   areaParser(constants.UnitSqIn),
	},
	{
		pattern: constants.PatternDecimalNumber,
		re:      regexp.MustCompile(`(\d+\.\d+)`),
		parse: func(g []string) (entity.Reading, error) {
			v, err := strconv.ParseFloat(g[0], 64)
			if err != nil {
				return nil, err
			}
			return entity.DecimalNumber{Value: v}, nil
		},
	},
	{
		pattern: constants.PatternWholeNumber,
		re:      regexp.MustCompile(`(\d+)`),
		parse: func(g []string) (entity.Reading, error) {
			v, err := strconv.Atoi(g[0])
			if err != nil {
				return nil, err
			}
			return entity.WholeNumber{Value: v}, nil
		},
	},
}

func areaParser(unit constants.Unit) func([]string) (entity.Reading, error) {
	return func(g []string) (entity.Reading, error) {
		v, err := strconv.ParseFloat(g[0], 64)
		if err != nil {
			return nil, err
		}
		return entity.Area{Value: v, Unit: unit}, nil
	}
}

// Extractor turns OCR items into typed tokens. It holds no mutable state.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract recognizes at most one measurement in item. Items with no parsable
// number come back as "text" tokens with a nil Reading.
func (e *Extractor) Extract(item entity.OCRItem) entity.OCRToken {
	text := item.Text
	if text == "" {
		text = CleanText(item.OriginalText)
	}
	tok := entity.OCRToken{
		Text:         text,
		OriginalText: item.OriginalText,
		PatternType:  constants.PatternText,
		Confidence:   item.Confidence,
		Position:     item.Position,
		BBoxArea:     item.BBoxArea,
	}

	for _, rec := range recognizers {
		raw, reading, ok := e.firstParsed(rec, text)
		if !ok {
			continue
		}
		tok.PatternType = rec.pattern
		tok.RawMatch = raw
		tok.Reading = reading
		return tok
	}
	return tok
}

// ExtractAll runs Extract over items, preserving order.
func (e *Extractor) ExtractAll(items []entity.OCRItem) []entity.OCRToken {
	out := make([]entity.OCRToken, 0, len(items))
	var numeric int
	for _, it := range items {
		tok := e.Extract(it)
		if tok.Reading != nil {
			numeric++
		}
		out = append(out, tok)
	}
	e.logger.Debug("measurement extraction done", "measurements", numeric, "texts", len(out)-numeric)
	return out
}

func (e *Extractor) firstParsed(rec recognizer, text string) (string, entity.Reading, bool) {
	for _, loc := range rec.re.FindAllStringSubmatchIndex(text, -1) {
		if rec.noDigitAfter && digitAt(text, loc[1]) {
			continue
		}
		groups := make([]string, 0, len(loc)/2-1)
		for i := 2; i+1 < len(loc); i += 2 {
			groups = append(groups, text[loc[i]:loc[i+1]])
		}
		reading, err := rec.parse(groups)
		if err != nil {
			e.logger.Warn("measurement parse failed",
				"pattern", rec.pattern,
				"match", text[loc[0]:loc[1]],
				"error", fmt.Errorf("parse %s: %w", rec.pattern, err),
			)
			continue
		}
		return text[loc[0]:loc[1]], reading, true
	}
	return "", nil, false
}

func digitAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsDigit(r)
}
