package domain

import (
	"fmt"
	"time"
)

// Order is a single shipment record as produced by ingestion. Fields that may
// be absent in the source data are pointers; the core never mutates an Order
// after it has been loaded.
type Order struct {
	OrderID      string    `json:"order_id"`
	OrderDate    time.Time `json:"order_date"` // zero when the source date was unparseable
	OrigPort     string    `json:"orig_port_cd"`
	DestPort     string    `json:"dest_port_cd"`
	Carrier      string    `json:"carrier"`
	ServiceLevel string    `json:"svc_cd"`
	PlantCode    string    `json:"plant_code"`
	Customer     string    `json:"customer"`
	ProductID    string    `json:"product_id"`
	UnitQuantity float64   `json:"unit_quantity"`
	Weight       *float64  `json:"weight"`
	TransitDays  float64   `json:"tpt"`
	ShipAhead    float64   `json:"ship_ahead_day_count"`
	ShipLate     float64   `json:"ship_late_day_count"`
	Mode         string    `json:"mode_dsc"`
	CarrierType  string    `json:"carrier_type"`

	// Joined from the warehouse tables by plant code; nil when the plant is
	// unknown to either table.
	DailyCapacity *float64 `json:"daily_capacity"`
	WhCostPerUnit *float64 `json:"wh_cost_per_unit"`
}

// IsLate reports whether the shipment arrived after its committed date.
func (o Order) IsLate() bool { return o.ShipLate > 0 }

// IsEarly reports whether the shipment arrived ahead of schedule.
func (o Order) IsEarly() bool { return o.ShipAhead > 0 }

// IsOnTime is the complement of IsLate; early shipments count as on time.
func (o Order) IsOnTime() bool { return !o.IsLate() }

// Lane is the origin/destination pairing used for grouped late-rate stats.
func (o Order) Lane() string {
	return fmt.Sprintf("%s -> %s", o.OrigPort, o.DestPort)
}

// Node is the synthetic warehouse key used by the inventory risk proxy. There
// is no warehouse identifier in the source data, so plant + destination
// stands in for one.
func (o Order) Node() string {
	return fmt.Sprintf("%s @ %s", o.PlantCode, o.DestPort)
}

// RateCardEntry is one tariff row: a carrier/lane/service key plus a closed
// weight band [MinWeight, MaxWeight] and its pricing. Band bounds are nil when
// the card row left them blank, which disqualifies the band from matching.
type RateCardEntry struct {
	Carrier      string   `json:"carrier"`
	OrigPort     string   `json:"orig_port_cd"`
	DestPort     string   `json:"dest_port_cd"`
	ServiceLevel string   `json:"svc_cd"`
	MinWeight    *float64 `json:"minm_wgh_qty"`
	MaxWeight    *float64 `json:"max_wgh_qty"`
	MinimumCost  float64  `json:"minimum_cost"`
	Rate         *float64 `json:"rate"`
	TransitDays  float64  `json:"tpt_day_cnt"`
}

// LaneKey is the join key shared between orders and rate-card rows.
func (e RateCardEntry) LaneKey() string {
	return e.Carrier + "|" + e.OrigPort + "|" + e.DestPort + "|" + e.ServiceLevel
}

// LaneKey mirrors RateCardEntry.LaneKey for the order side of the join.
func (o Order) LaneKey() string {
	return o.Carrier + "|" + o.OrigPort + "|" + o.DestPort + "|" + o.ServiceLevel
}

// BandWidth is MaxWeight-MinWeight, used as the tie-break specificity measure.
// Bands with missing bounds sort last via +Inf handling in the resolver.
func (e RateCardEntry) BandWidth() (float64, bool) {
	if e.MinWeight == nil || e.MaxWeight == nil {
		return 0, false
	}
	return *e.MaxWeight - *e.MinWeight, true
}

// Contains reports whether weight falls inside the closed band interval.
// A nil weight or nil bound never matches.
func (e RateCardEntry) Contains(weight *float64) bool {
	if weight == nil || e.MinWeight == nil || e.MaxWeight == nil {
		return false
	}
	return *weight >= *e.MinWeight && *weight <= *e.MaxWeight
}

// CostEstimatedOrder is an Order with its rate resolution appended. Exactly
// one of these exists per distinct order identifier after resolution.
// FreightCostEst stays nil when no band matched or pricing inputs were null.
type CostEstimatedOrder struct {
	Order
	MatchedBandOK  bool     `json:"matched_band_ok"`
	FreightCostEst *float64 `json:"freight_cost_est"`
	RateTransit    *float64 `json:"rate_tpt_day_cnt"` // transit days from the matched card row
}

// CostOrZero is the aggregate-side view of the estimated cost: consumers that
// sum or average costs treat an unresolved cost as zero.
func (c CostEstimatedOrder) CostOrZero() float64 {
	if c.FreightCostEst == nil {
		return 0
	}
	return *c.FreightCostEst
}

// ScoredOrder is a CostEstimatedOrder plus its risk decomposition.
type ScoredOrder struct {
	CostEstimatedOrder
	LaneLateRate    float64 `json:"lane_late_rate"`
	CarrierLateRate float64 `json:"carrier_late_rate"`
	ModeRisk        float64 `json:"mode_risk"`
	CostScaled      float64 `json:"cost_scaled"`
	LateDaysScaled  float64 `json:"late_days_scaled"`
	RiskScore       float64 `json:"risk_score"`
	RiskBand        Band    `json:"risk_band"`
}

// ExceptionEntry is one row of the prioritized exception queue.
type ExceptionEntry struct {
	OrderID        string    `json:"order_id"`
	OrderDate      time.Time `json:"order_date"`
	Lane           string    `json:"lane"`
	Carrier        string    `json:"carrier"`
	Mode           string    `json:"mode_dsc"`
	ShipLate       float64   `json:"ship_late_day_count"`
	FreightCostEst *float64  `json:"freight_cost_est"`
	RiskScore      float64   `json:"risk_score"`
	RiskBand       Band      `json:"risk_band"`
	PriorityScore  float64   `json:"priority_score"`
}
