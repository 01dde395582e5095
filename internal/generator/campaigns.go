package generator

import (
	"fmt"
	"strings"

	"metricseed/pkg/models"
)

// MediaSources are the acquisition channels, organic included.
var MediaSources = []string{"Facebook", "Google", "TikTok", "Unity", "ironSource", "organic"}

// Countries covered by campaign reporting.
var Countries = []string{"US", "VN", "BR", "IN", "TH", "ID", "JP", "KR"}

const (
	organicSource   = "organic"
	organicKeepRate = 0.3

	installsMin = 50
	installsMax = 500

	roasMin = 0.5
	roasMax = 1.5
)

// cpiBounds holds the country-specific cost-per-install ranges.
// Countries without an entry, and all organic rows, use the default.
var cpiBounds = map[string][2]float64{
	"US": {2.0, 5.0},
	"VN": {0.3, 0.8},
	"BR": {0.4, 1.0},
	"IN": {0.2, 0.6},
}

var defaultCPIBounds = [2]float64{0.5, 2.0}

// CPIRange returns the cost-per-install bounds for a source/country pair.
func CPIRange(source, country string) (float64, float64) {
	if source != organicSource {
		if b, ok := cpiBounds[country]; ok {
			return b[0], b[1]
		}
	}
	return defaultCPIBounds[0], defaultCPIBounds[1]
}

// Campaigns generates the campaigns table from the cross product of
// the campaign date window, media sources and countries. Organic rows
// survive with probability 0.3; paid rows are always present. Campaign
// ids are unique per (media_source, country, year-month).
func (g *Generator) Campaigns() []models.CampaignDay {
	dates := DateRange(g.today, g.params.CampaignDays)
	var rows []models.CampaignDay

	for _, date := range dates {
		for _, source := range MediaSources {
			for _, country := range Countries {
				if source == organicSource && g.rng.Float64() >= organicKeepRate {
					continue
				}

				lo, hi := CPIRange(source, country)
				cpi := g.uniform(lo, hi)
				installs := g.uniformInt(installsMin, installsMax)
				spend := round(float64(installs)*cpi, 2)
				roas := g.uniform(roasMin, roasMax)

				rows = append(rows, models.CampaignDay{
					Date:         date,
					CampaignID:   campaignID(source, country, date.Format("200601")),
					CampaignName: fmt.Sprintf("%s_%s", source, country),
					MediaSource:  source,
					Country:      country,
					Installs:     installs,
					Spend:        spend,
					RevenueD7:    round(spend*roas, 2),
				})
			}
		}
	}

	return rows
}

func campaignID(source, country, yearMonth string) string {
	return fmt.Sprintf("camp_%s_%s_%s",
		strings.ToLower(source), strings.ToLower(country), yearMonth)
}
