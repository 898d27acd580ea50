package pricing

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"enel-smeta/models"
)

// sectionMarkers maps a folded marker phrase (without trailing colon) to its section.
// Materials has no marker, it is where every quote starts.
var sectionMarkers = map[string]models.Section{
	"расходники":   models.SectionConsumables,
	"consumables":  models.SectionConsumables,
	"техника":      models.SectionEquipment,
	"equipment":    models.SectionEquipment,
	"работа":       models.SectionLabor,
	"работы":       models.SectionLabor,
	"строй работа": models.SectionLabor,
	"labor":        models.SectionLabor,
}

// MatchSectionMarker reports whether a first-column cell is a section header row.
// Only text cells qualify. Matching ignores case, surrounding spaces and one trailing colon.
func MatchSectionMarker(cell interface{}) (models.Section, bool) {
	text, ok := cell.(string)
	if !ok || text == "" {
		return "", false
	}

	// Casers keep state, so one is created per call.
	key := strings.TrimSpace(cases.Lower(language.Russian).String(text))
	key = strings.TrimSuffix(key, ":")

	section, ok := sectionMarkers[key]
	return section, ok
}
