package ingest

import "github.com/laneops/freightwatch/internal/domain"

// LoadCapacity reads the warehouse capacity table into a plant -> daily
// capacity map. Later duplicates of a plant overwrite earlier ones.
func LoadCapacity(path string) (map[string]float64, error) {
	return loadPlantTable(path, "warehouse_capacity", "daily_capacity")
}

// LoadWarehouseCost reads the warehouse cost table into a plant -> cost per
// unit map.
func LoadWarehouseCost(path string) (map[string]float64, error) {
	return loadPlantTable(path, "warehouse_cost", "wh_cost_per_unit")
}

func loadPlantTable(path, name, valueCol string) (map[string]float64, error) {
	t, err := readTable(path, name)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(t.name, t.cols, []string{"plant_code", valueCol}); err != nil {
		return nil, err
	}

	values := make(map[string]float64, len(t.rows))
	for _, row := range t.rows {
		plant := t.field(row, "plant_code")
		if plant == "" {
			continue
		}
		if v := t.floatField(row, valueCol); v != nil {
			values[plant] = *v
		}
	}
	return values, nil
}

// JoinWarehouse attaches capacity and warehouse cost to each order by plant
// code (left join: a plant unknown to a table leaves that field nil).
func JoinWarehouse(orders []domain.Order, capacity, cost map[string]float64) {
	for i := range orders {
		if v, ok := capacity[orders[i].PlantCode]; ok {
			c := v
			orders[i].DailyCapacity = &c
		}
		if v, ok := cost[orders[i].PlantCode]; ok {
			c := v
			orders[i].WhCostPerUnit = &c
		}
	}
}
