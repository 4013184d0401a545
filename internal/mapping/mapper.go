package mapping

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/joseph-ayodele/scope-mapper/constants"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
	"github.com/joseph-ayodele/scope-mapper/internal/measure"
	"github.com/joseph-ayodele/scope-mapper/internal/scope"
)

// Mapper links parsed work scopes to OCR measurements grouped by room.
type Mapper struct {
	logger *slog.Logger
	parser *scope.Parser
}

func NewMapper(logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{logger: logger, parser: scope.NewParser(logger)}
}

// ParseWorkScope splits scope text into work scopes.
func (m *Mapper) ParseWorkScope(text string) []entity.WorkScope {
	return m.parser.Parse(text)
}

// ProcessMeasurements converts upstream OCR results into measurement records. Failed
// images and plain text tokens are skipped.
func (m *Mapper) ProcessMeasurements(results map[string]entity.ImageOCRResult) []entity.MeasurementData {
	out := []entity.MeasurementData{}
	if len(results) == 0 {
		m.logger.Warn("empty OCR results")
		return out
	}

	for _, key := range entity.ImageKeys(results) {
		img := results[key]
		if img.Failed() {
			m.logger.Warn("skipping failed image", "image", key, "error", img.ErrorMessage())
			continue
		}
		source := img.FilePath
		if source == "" {
			source = UnknownRoom
		}
		for _, tok := range img.Measurements {
			if tok.PatternType == constants.PatternText {
				continue
			}
			value, unit, ok := measure.ValueAndUnit(tok.Reading)
			if !ok {
				m.logger.Debug("dropping token without a value", "image", key, "pattern", tok.PatternType, "text", tok.OriginalText)
				continue
			}
			out = append(out, entity.MeasurementData{
				RoomIdentifier:  ResolveRoomIdentifier(img.FilePath, tok.OriginalText),
				MeasurementType: measure.MeasurementType(tok.PatternType, tok.OriginalText),
				Value:           value,
				Unit:            unit,
				Confidence:      tok.Confidence,
				SourceImage:     source,
				PatternType:     tok.PatternType,
				OriginalText:    tok.OriginalText,
				Position:        tok.Position,
			})
		}
	}
	m.logger.Info("measurements processed", "images", len(results), "measurements", len(out))
	return out
}

// MapScopeToMeasurements assigns each scope its best room group. Groups may serve more
// than one scope; groups no scope chose and scopes with no candidate are reported.
func (m *Mapper) MapScopeToMeasurements(scopes []entity.WorkScope, measurements []entity.MeasurementData) *entity.MappingResult {
	m.logger.Info("mapping started", "scopes", len(scopes), "measurements", len(measurements))

	res := &entity.MappingResult{
		WorkScopes:            slices.Clone(scopes),
		Measurements:          slices.Clone(measurements),
		Mappings:              []entity.Mapping{},
		UnmatchedMeasurements: []entity.UnmatchedGroup{},
		UnmatchedScopes:       []entity.WorkScope{},
	}
	if res.WorkScopes == nil {
		res.WorkScopes = []entity.WorkScope{}
	}
	if res.Measurements == nil {
		res.Measurements = []entity.MeasurementData{}
	}

	groups := GroupByRoom(measurements)
	matched := make([]bool, len(groups))

	for _, ws := range scopes {
		best, ok := BestMatch(ws.RoomName, ws.RoomType, groups)
		if !ok {
			res.UnmatchedScopes = append(res.UnmatchedScopes, ws)
			m.logger.Debug("scope unmatched", "room", ws.RoomName)
			continue
		}
		g := groups[best.GroupIndex]
		res.Mappings = append(res.Mappings, entity.Mapping{
			WorkScope:       ws,
			Measurements:    slices.Clone(g.Measurements),
			RoomIdentifier:  g.RoomIdentifier,
			MatchConfidence: best.Score,
			MatchMethod:     MatchMethod(ws.RoomName, ws.RoomType, g.RoomIdentifier),
		})
		matched[best.GroupIndex] = true
		m.logger.Debug("scope mapped", "room", ws.RoomName, "group", g.RoomIdentifier, "confidence", best.Score)
	}

	for i, g := range groups {
		if matched[i] {
			continue
		}
		res.UnmatchedMeasurements = append(res.UnmatchedMeasurements, entity.UnmatchedGroup{
			RoomIdentifier:   g.RoomIdentifier,
			Measurements:     slices.Clone(g.Measurements),
			MeasurementCount: len(g.Measurements),
		})
	}

	res.Summary = Summarize(res)
	m.logger.Info("mapping finished",
		"mappings", res.Summary.SuccessfulMappings,
		"unmatched_scopes", res.Summary.UnmatchedScopes,
		"unmatched_groups", res.Summary.UnmatchedMeasurements,
		"quality", res.Summary.QualityScore)
	return res
}

// QuickMapping parses, processes and maps in one call.
func (m *Mapper) QuickMapping(scopeText string, results map[string]entity.ImageOCRResult) *entity.MappingResult {
	return m.MapScopeToMeasurements(m.ParseWorkScope(scopeText), m.ProcessMeasurements(results))
}

// ParseScopeMaps is ParseWorkScope returning the map form of each scope.
func (m *Mapper) ParseScopeMaps(text string) []map[string]any {
	scopes := m.ParseWorkScope(text)
	out := make([]map[string]any, 0, len(scopes))
	for _, ws := range scopes {
		out = append(out, ws.ToMap())
	}
	return out
}

// ScopesFromMaps rebuilds work scopes from their map form.
func ScopesFromMaps(items []map[string]any) ([]entity.WorkScope, error) {
	out := make([]entity.WorkScope, 0, len(items))
	for i, item := range items {
		ws, err := entity.WorkScopeFromMap(item)
		if err != nil {
			return nil, fmt.Errorf("work scope %d: %w", i, err)
		}
		out = append(out, ws)
	}
	return out, nil
}
