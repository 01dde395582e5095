package generator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignsPaidRowsAlwaysPresent(t *testing.T) {
	p := smallParams()
	p.CampaignDays = 1

	g := New(p, 17)
	rows := g.Campaigns()

	paid, organic := 0, 0
	for _, row := range rows {
		if row.MediaSource == "organic" {
			organic++
		} else {
			paid++
		}
	}

	// 5 paid sources x 8 countries for the single day.
	assert.Equal(t, 40, paid, "every non-organic row must survive")
	assert.LessOrEqual(t, organic, 8)
}

func TestCampaignsOrganicRetentionRate(t *testing.T) {
	p := smallParams()
	p.CampaignDays = 90

	g := New(p, 18)
	rows := g.Campaigns()

	organic := 0
	for _, row := range rows {
		if row.MediaSource == "organic" {
			organic++
		}
	}

	// 90 days x 8 countries possible organic rows, kept at 30%.
	rate := float64(organic) / 720.0
	assert.InDelta(t, 0.30, rate, 0.06)
}

func TestCampaignsSpendAndCPIBounds(t *testing.T) {
	g := New(smallParams(), 19)
	rows := g.Campaigns()
	require.NotEmpty(t, rows)

	for _, row := range rows {
		assert.GreaterOrEqual(t, row.Installs, 50)
		assert.LessOrEqual(t, row.Installs, 500)

		// spend = installs x cpi with 2dp rounding, so the implied
		// CPI must land inside the country range.
		cpi := row.Spend / float64(row.Installs)
		lo, hi := CPIRange(row.MediaSource, row.Country)
		assert.GreaterOrEqual(t, cpi, lo-0.01,
			"%s/%s cpi %v below %v", row.MediaSource, row.Country, cpi, lo)
		assert.LessOrEqual(t, cpi, hi+0.01,
			"%s/%s cpi %v above %v", row.MediaSource, row.Country, cpi, hi)

		// revenue_d7 = spend x ROAS, ROAS in [0.5, 1.5].
		if row.Spend > 0 {
			roas := row.RevenueD7 / row.Spend
			assert.GreaterOrEqual(t, roas, 0.5-0.01)
			assert.LessOrEqual(t, roas, 1.5+0.01)
		}

		assert.Equal(t, round(row.Spend, 2), row.Spend)
		assert.Equal(t, round(row.RevenueD7, 2), row.RevenueD7)
	}
}

func TestCPIRange(t *testing.T) {
	tests := []struct {
		source  string
		country string
		lo, hi  float64
	}{
		{"Facebook", "US", 2.0, 5.0},
		{"Google", "VN", 0.3, 0.8},
		{"TikTok", "BR", 0.4, 1.0},
		{"Unity", "IN", 0.2, 0.6},
		{"ironSource", "JP", 0.5, 2.0},
		{"Facebook", "TH", 0.5, 2.0},
		{"organic", "US", 0.5, 2.0}, // organic always uses the default range
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.source, tt.country), func(t *testing.T) {
			lo, hi := CPIRange(tt.source, tt.country)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestCampaignIDUniquePerSourceCountryMonth(t *testing.T) {
	p := smallParams()
	p.CampaignDays = 40 // spans two months

	g := New(p, 20)
	rows := g.Campaigns()

	byKey := make(map[string]string)
	for _, row := range rows {
		key := fmt.Sprintf("%s|%s|%s", row.MediaSource, row.Country, row.Date.Format("200601"))
		if id, ok := byKey[key]; ok {
			assert.Equal(t, id, row.CampaignID,
				"same (source, country, month) must reuse one campaign id")
		} else {
			byKey[key] = row.CampaignID
		}
	}

	// Distinct keys get distinct ids.
	seen := make(map[string]string)
	for key, id := range byKey {
		if prev, ok := seen[id]; ok {
			t.Errorf("campaign id %s shared by %s and %s", id, prev, key)
		}
		seen[id] = key
	}
}
