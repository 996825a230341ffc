package pricing

import (
	"context"

	"ridecost/internal/modules/zone"
)

// StaticConfig serves one fixed configuration to every organisation. It
// backs the service when no database is configured, and tests.
type StaticConfig struct {
	Zones    []zone.Zone
	Packages []Package
	Settings Settings
}

func (c StaticConfig) LoadZones(context.Context, string) ([]zone.Zone, error) {
	return c.Zones, nil
}

func (c StaticConfig) LoadPackages(context.Context, string) ([]Package, error) {
	return c.Packages, nil
}

func (c StaticConfig) LoadSettings(context.Context, string) (Settings, error) {
	return c.Settings, nil
}
