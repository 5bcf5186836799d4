// Package report writes the derived tables as flat CSV files plus a JSON run
// manifest. Nullable numerics render as empty cells; all writes are atomic.
package report

import (
	"math"
	"path/filepath"
	"strconv"
	"time"

	"github.com/laneops/freightwatch/internal/domain"
	"github.com/laneops/freightwatch/internal/domain/finance"
	"github.com/laneops/freightwatch/internal/domain/inventory"
	"github.com/laneops/freightwatch/internal/domain/scenario"
	"github.com/laneops/freightwatch/internal/domain/seasonality"
	"github.com/laneops/freightwatch/internal/domain/sla"
)

// Output file names, stable for the dashboard collaborator.
const (
	FileCostEstimatedOrders = "cost_estimated_orders.csv"
	FileRiskShipments       = "risk_shipments.csv"
	FileExceptions          = "exceptions.csv"
	FileMarginAtRisk        = "margin_at_risk.csv"
	FileInventoryRisk       = "inventory_risk.csv"
	FileScenarios           = "scenarios.csv"
	FileSLACompliance       = "sla_compliance.csv"
	FileSeasonality         = "seasonality_monthly.csv"
	FileManifest            = "run_manifest.json"
)

func num(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optNum(v *float64) string {
	if v == nil {
		return ""
	}
	return num(*v)
}

func count(v int) string { return strconv.Itoa(v) }

func date(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format("2006-01-02")
}

func boolCell(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// WriteCostEstimatedOrders writes the resolver output table.
func WriteCostEstimatedOrders(dir string, orders []domain.CostEstimatedOrder) error {
	header := []string{
		"order_id", "order_date", "orig_port_cd", "dest_port_cd", "carrier",
		"svc_cd", "plant_code", "customer", "product_id", "unit_quantity",
		"weight", "tpt", "ship_ahead_day_count", "ship_late_day_count",
		"mode_dsc", "carrier_type", "matched_band_ok", "freight_cost_est",
		"rate_tpt_day_cnt",
	}
	rows := make([][]string, len(orders))
	for i, o := range orders {
		rows[i] = []string{
			o.OrderID, date(o.OrderDate), o.OrigPort, o.DestPort, o.Carrier,
			o.ServiceLevel, o.PlantCode, o.Customer, o.ProductID,
			num(o.UnitQuantity), optNum(o.Weight), num(o.TransitDays),
			num(o.ShipAhead), num(o.ShipLate), o.Mode, o.CarrierType,
			boolCell(o.MatchedBandOK), optNum(o.FreightCostEst),
			optNum(o.RateTransit),
		}
	}
	return WriteCSVAtomic(filepath.Join(dir, FileCostEstimatedOrders), header, rows)
}

// WriteRiskShipments writes the scored-orders table.
func WriteRiskShipments(dir string, scored []domain.ScoredOrder) error {
	header := []string{
		"order_id", "order_date", "lane", "orig_port_cd", "dest_port_cd",
		"carrier", "mode_dsc", "is_on_time", "is_late", "ship_late_day_count",
		"freight_cost_est", "lane_late_rate", "carrier_late_rate",
		"risk_score", "risk_band",
	}
	rows := make([][]string, len(scored))
	for i, so := range scored {
		rows[i] = []string{
			so.OrderID, date(so.OrderDate), so.Lane(), so.OrigPort, so.DestPort,
			so.Carrier, so.Mode, boolCell(so.IsOnTime()), boolCell(so.IsLate()),
			num(so.ShipLate), optNum(so.FreightCostEst),
			num(so.LaneLateRate), num(so.CarrierLateRate),
			num(so.RiskScore), string(so.RiskBand),
		}
	}
	return WriteCSVAtomic(filepath.Join(dir, FileRiskShipments), header, rows)
}

// WriteExceptions writes the capped exception queue.
func WriteExceptions(dir string, queue []domain.ExceptionEntry) error {
	header := []string{
		"order_id", "order_date", "lane", "carrier", "mode_dsc",
		"ship_late_day_count", "freight_cost_est", "risk_score", "risk_band",
		"priority_score",
	}
	rows := make([][]string, len(queue))
	for i, e := range queue {
		rows[i] = []string{
			e.OrderID, date(e.OrderDate), e.Lane, e.Carrier, e.Mode,
			num(e.ShipLate), optNum(e.FreightCostEst),
			num(e.RiskScore), string(e.RiskBand), num(e.PriorityScore),
		}
	}
	return WriteCSVAtomic(filepath.Join(dir, FileExceptions), header, rows)
}

// WriteMarginAtRisk writes the margin-at-risk aggregate table.
func WriteMarginAtRisk(dir string, rows []finance.Row) error {
	header := []string{
		"mode_dsc", "lane", "carrier", "orders", "late_rate",
		"total_freight_cost", "total_order_value_proxy", "total_margin_proxy",
		"total_margin_at_risk", "margin_at_risk_pct",
	}
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{
			r.Mode, r.Lane, r.Carrier, count(r.Orders), num(r.LateRate),
			num(r.TotalFreightCost), num(r.TotalOrderValueProxy),
			num(r.TotalMarginProxy), num(r.TotalMarginAtRisk),
			num(r.MarginAtRiskPct),
		}
	}
	return WriteCSVAtomic(filepath.Join(dir, FileMarginAtRisk), header, records)
}

// WriteInventoryRisk writes the node risk profile table.
func WriteInventoryRisk(dir string, profiles []inventory.Profile) error {
	header := []string{
		"node", "plant_code", "dest_port_cd", "orders", "avg_daily_capacity",
		"avg_wh_cost_per_unit", "avg_unit_qty", "avg_weight", "late_rate",
		"inventory_risk_score", "inventory_risk_band",
	}
	rows := make([][]string, len(profiles))
	for i, p := range profiles {
		rows[i] = []string{
			p.Node, p.PlantCode, p.DestPort, count(p.Orders),
			num(p.AvgDailyCapacity), num(p.AvgWhCostPerUnit),
			num(p.AvgUnitQuantity), num(p.AvgWeight), num(p.LateRate),
			num(p.RiskScore), string(p.RiskBand),
		}
	}
	return WriteCSVAtomic(filepath.Join(dir, FileInventoryRisk), header, rows)
}

// WriteScenarios writes the what-if table.
func WriteScenarios(dir string, rows []scenario.Row) error {
	header := []string{
		"scenario", "fuel_increase", "port_congestion",
		"total_freight_cost_est", "on_time_rate_est",
	}
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{
			r.Scenario, num(r.FuelIncrease), num(r.PortCongestion),
			num(r.TotalFreightCost), num(r.OnTimeRateEstimate),
		}
	}
	return WriteCSVAtomic(filepath.Join(dir, FileScenarios), header, records)
}

// WriteSLACompliance writes the SLA table.
func WriteSLACompliance(dir string, rows []sla.Row) error {
	header := []string{
		"mode_dsc", "carrier", "lane", "orders", "on_time_rate", "late_rate",
		"avg_late_days", "total_freight_cost", "sla_target", "sla_breach_pp",
		"sla_score",
	}
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{
			r.Mode, r.Carrier, r.Lane, count(r.Orders), num(r.OnTimeRate),
			num(r.LateRate), num(r.AvgLateDays), num(r.TotalFreightCost),
			num(r.Target), num(r.BreachPP), num(r.Score),
		}
	}
	return WriteCSVAtomic(filepath.Join(dir, FileSLACompliance), header, records)
}

// WriteSeasonality writes the monthly trend table.
func WriteSeasonality(dir string, rows []seasonality.Row) error {
	header := []string{
		"month", "orders", "on_time_rate", "late_rate", "avg_late_days",
		"total_freight_cost", "avg_freight_cost", "seasonality_index_orders",
	}
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{
			r.Month, count(r.Orders), num(r.OnTimeRate), num(r.LateRate),
			num(r.AvgLateDays), num(r.TotalFreightCost), num(r.AvgFreightCost),
			num(r.SeasonalityIndex),
		}
	}
	return WriteCSVAtomic(filepath.Join(dir, FileSeasonality), header, records)
}
