package directory

import "strings"

// SpecialtyMeta carries the display extras the remote doctor list does not
// provide.
type SpecialtyMeta struct {
	Tagline      string `json:"tagline"`
	VisitMinutes int    `json:"visit_minutes"`
}

var defaultMeta = SpecialtyMeta{
	Tagline:      "General consultation",
	VisitMinutes: 30,
}

// specialtyMetadata maps a normalized specialty name to its display metadata.
var specialtyMetadata = map[string]SpecialtyMeta{
	"cardiology":    {Tagline: "Heart and vascular care", VisitMinutes: 30},
	"dermatology":   {Tagline: "Skin, hair and nail care", VisitMinutes: 20},
	"pediatrics":    {Tagline: "Care for infants and children", VisitMinutes: 30},
	"psychiatry":    {Tagline: "Mental health consultations", VisitMinutes: 45},
	"neurology":     {Tagline: "Brain and nervous system care", VisitMinutes: 30},
	"orthopedics":   {Tagline: "Bone and joint care", VisitMinutes: 30},
	"gynecology":    {Tagline: "Women's health consultations", VisitMinutes: 30},
	"ophthalmology": {Tagline: "Eye and vision care", VisitMinutes: 20},
	"dentistry":     {Tagline: "Dental consultations", VisitMinutes: 30},
	"general":       {Tagline: "General medicine", VisitMinutes: 30},
}

// MetaFor returns the display metadata for a specialty. Unknown or empty
// specialties get the generic defaults.
func MetaFor(specialty string) SpecialtyMeta {
	if m, ok := specialtyMetadata[strings.ToLower(strings.TrimSpace(specialty))]; ok {
		return m
	}
	return defaultMeta
}
