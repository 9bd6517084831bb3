package domain

// Site represents one of the four research sites participating in the
// polar plant EC study. Each site cultivates under a single target
// electrical conductivity, so the site is the experimental unit.
type Site struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	TargetEC float64 `json:"target_ec"`
	Color    string  `json:"color"`
}

// The four study sites in canonical order. Tie-breaks and export sheet
// ordering always follow this order.
var sites = []Site{
	{ID: "songdo", Name: "송도고", TargetEC: 1.0, Color: "#1f77b4"},
	{ID: "haneul", Name: "하늘고", TargetEC: 2.0, Color: "#2ca02c"},
	{ID: "ara", Name: "아라고", TargetEC: 4.0, Color: "#ff7f0e"},
	{ID: "dongsan", Name: "동산고", TargetEC: 8.0, Color: "#d62728"},
}

// Sites returns the study sites in canonical order. The returned slice is
// a copy; callers may not mutate the canonical list.
func Sites() []Site {
	out := make([]Site, len(sites))
	copy(out, sites)
	return out
}

// SiteByID looks up a site by its identifier.
func SiteByID(id string) (Site, bool) {
	for _, s := range sites {
		if s.ID == id {
			return s, true
		}
	}
	return Site{}, false
}

// SiteIDs returns the site identifiers in canonical order.
func SiteIDs() []string {
	ids := make([]string, len(sites))
	for i, s := range sites {
		ids[i] = s.ID
	}
	return ids
}

// IsValidSiteID reports whether id names one of the study sites.
func IsValidSiteID(id string) bool {
	_, ok := SiteByID(id)
	return ok
}
