package application

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laneops/freightwatch/internal/ingest"
	"github.com/laneops/freightwatch/internal/metrics"
	"github.com/laneops/freightwatch/internal/report"
)

const ordersHeader = "order_id,order_date,orig_port_cd,dest_port_cd,carrier,svc_cd,plant_code,customer,product_id,unit_quantity,weight,tpt,ship_ahead_day_count,ship_late_day_count,mode_dsc,carrier_type"
const ratesHeader = "carrier,orig_port_cd,dest_port_cd,svc_cd,minm_wgh_qty,max_wgh_qty,minimum_cost,rate,tpt_day_cnt"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testConfig(t *testing.T, ordersCSV, ratesCSV string) *Config {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Inputs.Orders = writeFile(t, dir, "orders.csv", ordersCSV)
	cfg.Inputs.RateCard = writeFile(t, dir, "rates.csv", ratesCSV)
	cfg.OutputDir = filepath.Join(dir, "analytics")
	return cfg
}

func readTable(t *testing.T, dir, file string) [][]string {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, file))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func cell(t *testing.T, table [][]string, row int, col string) string {
	t.Helper()
	for i, name := range table[0] {
		if name == col {
			require.Greater(t, len(table), row)
			return table[row][i]
		}
	}
	t.Fatalf("column %q not found in %v", col, table[0])
	return ""
}

func TestPipeline_OnTimeOrder_ExcludedFromExceptions(t *testing.T) {
	cfg := testConfig(t,
		ordersHeader+"\n1,2024-01-15,P1,P2,A,X,PL1,C1,PR1,10,50,4,0,0,SEA,asset\n",
		ratesHeader+"\nA,P1,P2,X,0,100,10,0.5,4\n",
	)

	summary, err := NewPipeline(cfg, "test", nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Orders)
	assert.Equal(t, 1, summary.MatchedOrders)
	assert.Equal(t, 0, summary.Exceptions)
	assert.NotEmpty(t, summary.RunID)

	costs := readTable(t, cfg.OutputDir, report.FileCostEstimatedOrders)
	require.Len(t, costs, 2)
	assert.Equal(t, "25", cell(t, costs, 1, "freight_cost_est"), "max(10, 50*0.5)")
	assert.Equal(t, "true", cell(t, costs, 1, "matched_band_ok"))

	exceptions := readTable(t, cfg.OutputDir, report.FileExceptions)
	assert.Len(t, exceptions, 1, "header only: on-time order is not an exception")
}

func TestPipeline_LateOrder_AppearsInExceptions(t *testing.T) {
	cfg := testConfig(t,
		ordersHeader+"\n1,2024-01-15,P1,P2,A,X,PL1,C1,PR1,10,50,4,0,5,SEA,asset\n",
		ratesHeader+"\nA,P1,P2,X,0,100,10,0.5,4\n",
	)

	summary, err := NewPipeline(cfg, "test", nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Exceptions)

	exceptions := readTable(t, cfg.OutputDir, report.FileExceptions)
	require.Len(t, exceptions, 2)

	// Single order: cost_scaled is 0 under the epsilon guard, so the
	// priority collapses to 0.65*risk_score.
	risks := readTable(t, cfg.OutputDir, report.FileRiskShipments)
	riskScore, err := strconv.ParseFloat(cell(t, risks, 1, "risk_score"), 64)
	require.NoError(t, err)
	priority, err := strconv.ParseFloat(cell(t, exceptions, 1, "priority_score"), 64)
	require.NoError(t, err)
	assert.InDelta(t, 0.65*riskScore, priority, 1e-6)
}

func TestPipeline_EmptyOrders_AllTablesWithHeaders(t *testing.T) {
	cfg := testConfig(t, ordersHeader+"\n", ratesHeader+"\n")

	summary, err := NewPipeline(cfg, "test", nil).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Orders)

	for _, file := range []string{
		report.FileCostEstimatedOrders,
		report.FileRiskShipments,
		report.FileExceptions,
		report.FileMarginAtRisk,
		report.FileInventoryRisk,
		report.FileSLACompliance,
		report.FileSeasonality,
	} {
		table := readTable(t, cfg.OutputDir, file)
		assert.Len(t, table, 1, "%s should contain only its header", file)
	}

	// Scenarios always emit the fixed definition set, even off a zero baseline.
	scenarios := readTable(t, cfg.OutputDir, report.FileScenarios)
	assert.Len(t, scenarios, 5)
}

func TestPipeline_MissingColumn_AbortsBeforeOutput(t *testing.T) {
	cfg := testConfig(t, "order_id,carrier\n1,A\n", ratesHeader+"\n")

	_, err := NewPipeline(cfg, "test", nil).Run(context.Background())
	require.Error(t, err)

	var missing *ingest.MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "orders", missing.Table)

	_, statErr := os.Stat(cfg.OutputDir)
	assert.True(t, os.IsNotExist(statErr), "no partial output on structural error")
}

func TestPipeline_WarehouseJoinFeedsInventory(t *testing.T) {
	cfg := testConfig(t,
		ordersHeader+"\n"+
			"1,2024-01-15,P1,P2,A,X,PL1,C1,PR1,10,50,4,0,0,SEA,asset\n"+
			"2,2024-02-15,P1,P3,A,X,PL2,C1,PR1,10,60,4,0,3,SEA,asset\n",
		ratesHeader+"\nA,P1,P2,X,0,100,10,0.5,4\n",
	)
	inputDir := filepath.Dir(cfg.Inputs.Orders)
	cfg.Inputs.WarehouseCapacity = writeFile(t, inputDir, "cap.csv", "plant_code,daily_capacity\nPL1,100\nPL2,400\n")
	cfg.Inputs.WarehouseCost = writeFile(t, inputDir, "whc.csv", "plant_code,wh_cost_per_unit\nPL1,2.5\nPL2,1.0\n")

	_, err := NewPipeline(cfg, "test", nil).Run(context.Background())
	require.NoError(t, err)

	inv := readTable(t, cfg.OutputDir, report.FileInventoryRisk)
	require.Len(t, inv, 3)
	assert.Equal(t, "PL1 @ P2", cell(t, inv, 1, "node"))
	assert.Equal(t, "100", cell(t, inv, 1, "avg_daily_capacity"))
	assert.Equal(t, "PL2 @ P3", cell(t, inv, 2, "node"))
}

func TestPipeline_MetricsRecorded(t *testing.T) {
	cfg := testConfig(t,
		ordersHeader+"\n"+
			"1,2024-01-15,P1,P2,A,X,PL1,C1,PR1,10,50,4,0,5,SEA,asset\n"+
			"2,2024-01-16,P9,P8,B,Y,PL1,C1,PR1,10,70,4,0,0,AIR,asset\n",
		ratesHeader+"\nA,P1,P2,X,0,100,10,0.5,4\n",
	)
	reg := metrics.NewRegistry()

	summary, err := NewPipeline(cfg, "test", reg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Orders)
	assert.Equal(t, 1, summary.Unmatched, "order 2 has no card row")

	families, err := reg.Gatherer().Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["freightwatch_orders_ingested_total"])
	assert.True(t, names["freightwatch_runs_completed_total"])
}

func TestPipeline_DeterministicAcrossRuns(t *testing.T) {
	ordersCSV := ordersHeader + "\n" +
		"3,2024-01-15,P1,P2,A,X,PL1,C1,PR1,10,50,4,0,5,SEA,broker\n" +
		"1,2024-01-16,P1,P2,A,X,PL1,C1,PR1,10,80,4,0,2,SEA,asset\n" +
		"2,2024-01-17,P1,P2,B,X,PL2,C1,PR1,10,,4,0,1,AIR,asset\n"
	ratesCSV := ratesHeader + "\n" +
		"A,P1,P2,X,0,60,10,0.5,4\n" +
		"A,P1,P2,X,0,1000,5,0.4,6\n"

	first := testConfig(t, ordersCSV, ratesCSV)
	_, err := NewPipeline(first, "test", nil).Run(context.Background())
	require.NoError(t, err)

	second := testConfig(t, ordersCSV, ratesCSV)
	_, err = NewPipeline(second, "test", nil).Run(context.Background())
	require.NoError(t, err)

	for _, file := range []string{
		report.FileCostEstimatedOrders,
		report.FileRiskShipments,
		report.FileExceptions,
		report.FileMarginAtRisk,
		report.FileInventoryRisk,
		report.FileSLACompliance,
		report.FileSeasonality,
		report.FileScenarios,
	} {
		assert.Equal(t, readTable(t, first.OutputDir, file), readTable(t, second.OutputDir, file), file)
	}
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
output_dir: /tmp/fw-out
queue:
  capacity: 10
margin:
  seed: 7
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/fw-out", cfg.OutputDir)
	assert.Equal(t, 10, cfg.Queue.Capacity)
	assert.Equal(t, int64(7), cfg.Margin.Seed)
	// Untouched sections keep their defaults.
	assert.InDelta(t, 0.35, cfg.Risk.Weights.LaneLateRate, 1e-9)
}

func TestLoadConfig_BareSectionKeysKeepDefaults(t *testing.T) {
	dir := t.TempDir()
	// Bare keys decode as explicit nulls over the preloaded defaults.
	path := writeFile(t, dir, "config.yaml", `
risk:
margin:
inventory:
sla:
scenarios:
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Risk)
	require.NotNil(t, cfg.Margin)
	require.NotNil(t, cfg.Inventory)
	require.NotNil(t, cfg.SLA)
	assert.Equal(t, int64(42), cfg.Margin.Seed)
	assert.InDelta(t, 0.35, cfg.Risk.Weights.LaneLateRate, 1e-9)
	assert.Len(t, cfg.Scenarios, 4)
}

func TestPipeline_RunsWithNulledConfigSections(t *testing.T) {
	dir := t.TempDir()
	orders := writeFile(t, dir, "orders.csv",
		ordersHeader+"\n1,2024-01-15,P1,P2,A,X,PL1,C1,PR1,10,50,4,0,5,SEA,asset\n")
	rates := writeFile(t, dir, "rates.csv", ratesHeader+"\nA,P1,P2,X,0,100,10,0.5,4\n")
	path := writeFile(t, dir, "config.yaml", `
inputs:
  orders: `+orders+`
  rate_card: `+rates+`
output_dir: `+filepath.Join(dir, "analytics")+`
margin:
sla:
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	summary, err := NewPipeline(cfg, "test", nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Orders)
	assert.Len(t, readTable(t, cfg.OutputDir, report.FileMarginAtRisk), 2)
}

func TestLoadConfig_RejectsBadWeights(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
risk:
  weights:
    lane_late_rate: 0.9
    carrier_late_rate: 0.9
    late_days: 0.0
    cost: 0.0
    mode_risk: 0.0
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights")
}
