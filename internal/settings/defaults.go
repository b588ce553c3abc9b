package settings

import (
	"fmt"
	"strconv"
)

// DefaultSettings defines the default configuration values
var DefaultSettings = []Setting{
	// Display settings
	{Category: "display", Key: "dark_mode", Value: "false", ValueType: "bool", Description: "Render the dashboard in dark mode"},
	{Category: "display", Key: "refresh_rate", Value: "60", ValueType: "int", Description: "Dashboard auto refresh interval in seconds"},

	// Alert settings
	{Category: "alerts", Key: "notifications", Value: "true", ValueType: "bool", Description: "Enable alert notifications"},
	{Category: "alerts", Key: "cooldown_minutes", Value: "30", ValueType: "int", Description: "Minutes between duplicate notifications for the same bus"},

	// System settings
	{Category: "system", Key: "timezone", Value: "UTC", ValueType: "string", Description: "Display timezone for timestamps"},
	{Category: "system", Key: "location_retention_days", Value: "30", ValueType: "int", Description: "Days to keep raw GPS fixes"},
}

// validateSettingValue validates a value against its expected type
func validateSettingValue(valueType, value string) error {
	switch valueType {
	case "int":
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("value must be an integer")
		}
	case "float":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("value must be a number")
		}
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("value must be 'true' or 'false'")
		}
	}
	return nil
}
