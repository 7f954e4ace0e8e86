package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/tara-ride/dispatch/internal/pkg/models"
)

// LoadFareTable reads the vehicle fare table from a YAML file. Missing keys fall
// back to the built-in table and FARES_* environment variables override both,
// e.g. FARES_RATES_SEDAN_BASE_FARE=55.
func LoadFareTable(path string) (models.FareTable, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FARES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := models.DefaultFareTable()
	v.SetDefault("currency", defaults.Currency)
	for class, rate := range defaults.Rates {
		v.SetDefault("rates."+string(class)+".base_fare", rate.BaseFare)
		v.SetDefault("rates."+string(class)+".per_km_rate", rate.PerKmRate)
		v.SetDefault("rates."+string(class)+".capacity", rate.Capacity)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return models.FareTable{}, fmt.Errorf("failed to read fare table: %w", err)
			}
		}
	}

	table := models.FareTable{
		Currency: v.GetString("currency"),
		Rates:    make(map[models.VehicleClass]models.FareRate, len(models.VehicleClasses)),
	}
	for _, class := range models.VehicleClasses {
		key := "rates." + string(class)
		table.Rates[class] = models.FareRate{
			BaseFare:  v.GetInt(key + ".base_fare"),
			PerKmRate: v.GetInt(key + ".per_km_rate"),
			Capacity:  v.GetInt(key + ".capacity"),
		}
	}

	if err := ValidateFareTable(table); err != nil {
		return models.FareTable{}, err
	}
	return table, nil
}

// ValidateFareTable checks that every vehicle class has usable rates
func ValidateFareTable(table models.FareTable) error {
	if table.Currency == "" {
		return fmt.Errorf("fare table currency is required")
	}
	for _, class := range models.VehicleClasses {
		rate, ok := table.Rates[class]
		if !ok {
			return fmt.Errorf("fare table is missing vehicle class %q", class)
		}
		if rate.BaseFare < 0 || rate.PerKmRate < 0 {
			return fmt.Errorf("fare table has negative rates for %q", class)
		}
		if rate.Capacity <= 0 {
			return fmt.Errorf("fare table has no capacity for %q", class)
		}
	}
	return nil
}
