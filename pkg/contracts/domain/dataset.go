package domain

import "time"

// Problem source identifiers used in LoadProblem.Source.
const (
	SourceDirectory   = "directory"
	SourceEnvironment = "environment"
	SourceGrowth      = "growth"
)

// LoadProblem records a non-fatal failure encountered while loading the
// data directory. Problems are surfaced to the user; the affected source
// is simply absent from the dataset.
type LoadProblem struct {
	SiteID  string `json:"site_id,omitempty"`
	Source  string `json:"source"`
	Message string `json:"message"`
}

// SiteDataset holds everything loaded for a single site.
type SiteDataset struct {
	Site        Site                `json:"site"`
	Environment []EnvironmentRecord `json:"environment"`
	Growth      []GrowthRecord      `json:"growth"`
}

// Dataset is the result of one full load of the data directory. It is
// immutable after loading and cached for the session.
type Dataset struct {
	ID       string                  `json:"id"`
	LoadedAt time.Time               `json:"loaded_at"`
	Sites    map[string]*SiteDataset `json:"sites"`
	Problems []LoadProblem           `json:"problems,omitempty"`
}

// SiteData returns the loaded data for a site, or nil when the site's
// sources could not be resolved.
func (d *Dataset) SiteData(siteID string) *SiteDataset {
	if d == nil {
		return nil
	}
	return d.Sites[siteID]
}

// OrderedSites returns the loaded site datasets in canonical site order,
// skipping sites that failed to load.
func (d *Dataset) OrderedSites() []*SiteDataset {
	if d == nil {
		return nil
	}
	var out []*SiteDataset
	for _, s := range Sites() {
		if sd, ok := d.Sites[s.ID]; ok {
			out = append(out, sd)
		}
	}
	return out
}

// TotalSpecimens is the number of growth rows across all loaded sites.
func (d *Dataset) TotalSpecimens() int {
	total := 0
	for _, sd := range d.OrderedSites() {
		total += len(sd.Growth)
	}
	return total
}
