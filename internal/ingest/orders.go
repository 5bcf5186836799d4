package ingest

import (
	"strings"

	"github.com/laneops/freightwatch/internal/domain"
)

var orderColumns = []string{
	"order_id", "order_date", "orig_port_cd", "dest_port_cd", "carrier",
	"svc_cd", "plant_code", "customer", "product_id", "unit_quantity",
	"weight", "tpt", "ship_ahead_day_count", "ship_late_day_count",
	"mode_dsc", "carrier_type",
}

// LoadOrders reads the orders table. Missing required columns abort with a
// MissingColumnsError; per-row gaps become nils or zeros. Rows without an
// order identifier are skipped — the identifier is the dedup key downstream
// and a blank one is unusable.
func LoadOrders(path string) ([]domain.Order, error) {
	t, err := readTable(path, "orders")
	if err != nil {
		return nil, err
	}
	if err := requireColumns(t.name, t.cols, orderColumns); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(t.rows))
	for _, row := range t.rows {
		id := t.field(row, "order_id")
		if id == "" {
			continue
		}
		orders = append(orders, domain.Order{
			OrderID:      id,
			OrderDate:    t.dateField(row, "order_date"),
			OrigPort:     t.field(row, "orig_port_cd"),
			DestPort:     t.field(row, "dest_port_cd"),
			Carrier:      t.field(row, "carrier"),
			ServiceLevel: t.field(row, "svc_cd"),
			PlantCode:    t.field(row, "plant_code"),
			Customer:     t.field(row, "customer"),
			ProductID:    t.field(row, "product_id"),
			UnitQuantity: t.floatOrZero(row, "unit_quantity"),
			Weight:       t.floatField(row, "weight"),
			TransitDays:  t.floatOrZero(row, "tpt"),
			ShipAhead:    t.floatOrZero(row, "ship_ahead_day_count"),
			ShipLate:     t.floatOrZero(row, "ship_late_day_count"),
			Mode:         strings.ToUpper(t.field(row, "mode_dsc")),
			CarrierType:  t.field(row, "carrier_type"),
		})
	}
	return orders, nil
}
