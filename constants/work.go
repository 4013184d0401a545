package constants

import "strings"

type WorkType string

const (
	CabinetReplacement WorkType = "cabinet_replacement"
	Flooring           WorkType = "flooring"
	TileWork           WorkType = "tile_work"
	Paint              WorkType = "paint"
	Electrical         WorkType = "electrical"
	Plumbing           WorkType = "plumbing"
	Drywall            WorkType = "drywall"
	TrimWork           WorkType = "trim_work"
	Countertop         WorkType = "countertop"
	FixtureReplacement WorkType = "fixture_replacement"
	Demolition         WorkType = "demolition"
	Insulation         WorkType = "insulation"
	OtherWork          WorkType = "other"
)

var allWorkTypes = []WorkType{
	CabinetReplacement,
	Flooring,
	TileWork,
	Paint,
	Electrical,
	Plumbing,
	Drywall,
	TrimWork,
	Countertop,
	FixtureReplacement,
	Demolition,
	Insulation,
	OtherWork,
}

type WorkRule struct {
	Type     WorkType
	Keywords []string
}

// WorkRules is scanned in full; every type with a keyword hit is reported.
var WorkRules = []WorkRule{
	{CabinetReplacement, []string{"cabinet", "cabinets", "cupboard", "replace cabinet", "new cabinet"}},
	{Flooring, []string{"floor", "flooring", "hardwood", "carpet", "laminate", "vinyl", "tile floor", "wood floor"}},
	{TileWork, []string{"tile", "tiles", "ceramic", "porcelain", "backsplash", "tiling"}},
	{Paint, []string{"paint", "painting", "primer", "color", "wall paint"}},
	{Electrical, []string{"electrical", "electric", "wiring", "outlet", "switch", "light"}},
	{Plumbing, []string{"plumbing", "pipe", "faucet", "sink", "toilet", "water"}},
	{Drywall, []string{"drywall", "sheetrock", "wall", "ceiling"}},
	{TrimWork, []string{"trim", "molding", "baseboard", "crown", "casing"}},
	{Countertop, []string{"countertop", "counter", "granite", "quartz", "marble"}},
	{FixtureReplacement, []string{"fixture", "replace", "new", "install"}},
	{Demolition, []string{"demo", "demolition", "remove", "tear down", "gut"}},
	{Insulation, []string{"insulation", "insulate", "foam", "fiberglass"}},
}

func WorkTypesAsStrings() []string {
	result := make([]string, len(allWorkTypes))
	for i, wt := range allWorkTypes {
		result[i] = string(wt)
	}
	return result
}

// MatchWorkTypes returns every work type hit by text in table order, or {other}.
func MatchWorkTypes(text string) []WorkType {
	lower := strings.ToLower(text)
	var found []WorkType
	for _, rule := range WorkRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				found = append(found, rule.Type)
				break
			}
		}
	}
	if len(found) == 0 {
		return []WorkType{OtherWork}
	}
	return found
}

func ParseWorkType(input string) (WorkType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, wt := range allWorkTypes {
		if normalized == string(wt) {
			return wt, true
		}
	}
	return OtherWork, false
}
