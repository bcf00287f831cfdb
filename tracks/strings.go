package tracks

import (
	"path/filepath"
	"strings"
)

//Domains are the hydrodynamic model domains tracks can come from. A file or
//run name normally carries exactly one of them.
var Domains = []string{"FOC", "WLLS", "ECLH", "WestCOMS", "PFOW", "EastSkye"}

//siteNoise is every decoration the model chain sticks onto a site name, in
//removal order. Order matters: longer fragments containing shorter ones go
//after the shorter ones have done their damage, the same way the original
//processing chain applied them.
var siteNoise = []string{
	"MIKE2025",
	"ES",
	"dfs0_",
	"PFOW_SSM_5MinPart_",
	"_surfaceConc",
	"_trackStruct",
	"TrackStruct",
	"trackStruct",
	"pt3D",
	"5minUnComp",
	"_dfsu",
	"WK12ToEndOfMayDecoup_",
	"_5minPart",
	"_Decoupled_",
	"ECLH1993",
	"FOC2019",
	"FOC_",
	"WLLS1993",
	"_ECLH",
	"_PFOW",
	"_",
	"ES2025",
	"2025",
}

// SiteNameFromString strips model-chain decorations from a file or run name,
// leaving the bare site name. Paths are reduced to their base name and the
// extension is dropped before the decorations are removed.
func SiteNameFromString(s string) string {
	s = filepath.Base(s)
	s = strings.TrimSuffix(s, filepath.Ext(s))
	for _, n := range siteNoise {
		s = strings.ReplaceAll(s, n, "")
	}
	return s
}

// ModelDomainFromString returns the model domain named in the string. It is
// an error for a string to name more than one domain; the empty string is
// returned when it names none.
func ModelDomainFromString(s string) (string, error) {
	found := ""
	for _, d := range Domains {
		if strings.Contains(s, d) {
			if found != "" {
				return "", Error{message: ManyDomains + ": " + found + ", " + d, deco: []string{"ModelDomainFromString"}}
			}
			found = d
		}
	}
	return found, nil
}
