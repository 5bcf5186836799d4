package ingest

import "github.com/laneops/freightwatch/internal/domain"

var rateCardColumns = []string{
	"carrier", "orig_port_cd", "dest_port_cd", "svc_cd",
	"minm_wgh_qty", "max_wgh_qty", "minimum_cost", "rate", "tpt_day_cnt",
}

// LoadRateCard reads the rate-card table. Band bounds and the rate stay nil
// when blank so the resolver can disqualify those rows; a blank minimum cost
// reads as zero, which leaves the weight*rate term unclamped.
func LoadRateCard(path string) ([]domain.RateCardEntry, error) {
	t, err := readTable(path, "rate_card")
	if err != nil {
		return nil, err
	}
	if err := requireColumns(t.name, t.cols, rateCardColumns); err != nil {
		return nil, err
	}

	entries := make([]domain.RateCardEntry, 0, len(t.rows))
	for _, row := range t.rows {
		entries = append(entries, domain.RateCardEntry{
			Carrier:      t.field(row, "carrier"),
			OrigPort:     t.field(row, "orig_port_cd"),
			DestPort:     t.field(row, "dest_port_cd"),
			ServiceLevel: t.field(row, "svc_cd"),
			MinWeight:    t.floatField(row, "minm_wgh_qty"),
			MaxWeight:    t.floatField(row, "max_wgh_qty"),
			MinimumCost:  t.floatOrZero(row, "minimum_cost"),
			Rate:         t.floatField(row, "rate"),
			TransitDays:  t.floatOrZero(row, "tpt_day_cnt"),
		})
	}
	return entries, nil
}
