// Package config handles tool configuration loading and management.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/Kuruyia/sinjoh/internal/logger"
)

// Output formats accepted by OutputConfig.Format.
const (
	FormatSummary = "summary"
	FormatYAML    = "yaml"
	FormatSpew    = "spew"
)

// Config holds all tool settings.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig holds game data file paths. Any path left empty is derived from
// PokeplatinumRepo, a built pokeplatinum checkout.
type DataConfig struct {
	PokeplatinumRepo      string `yaml:"pokeplatinum_repo"`
	AreaData              string `yaml:"area_data"`
	AreaLight             string `yaml:"area_light"`
	AreaMapProps          string `yaml:"area_map_props"`
	MapPropAnimationList  string `yaml:"map_prop_animation_list"`
	MapPropMaterialShapes string `yaml:"map_prop_material_shapes"`
	MapMatrix             string `yaml:"map_matrix"`
	LandData              string `yaml:"land_data"`
}

// Build output locations inside a pokeplatinum checkout.
const (
	repoAreaData              = "build/res/prebuilt/fielddata/areadata/area_data.narc"
	repoAreaLight             = "build/res/prebuilt/data/arealight.narc"
	repoAreaMapProps          = "build/res/prebuilt/fielddata/areadata/area_build_model/area_build.narc"
	repoMapPropAnimationList  = "build/res/prebuilt/arc/bm_anime_list.narc"
	repoMapPropMaterialShapes = "build/res/prebuilt/fielddata/build_model/build_model_matshp.dat"
	repoMapMatrix             = "build/res/field/maps/matrices/map_matrix.narc"
	repoLandData              = "build/res/field/maps/data/land_data.narc"
)

// Resolved returns a copy of d with empty paths filled in from the repo.
func (d DataConfig) Resolved() DataConfig {
	if d.PokeplatinumRepo == "" {
		return d
	}

	fill := func(p *string, rel string) {
		if *p == "" {
			*p = filepath.Join(d.PokeplatinumRepo, filepath.FromSlash(rel))
		}
	}
	fill(&d.AreaData, repoAreaData)
	fill(&d.AreaLight, repoAreaLight)
	fill(&d.AreaMapProps, repoAreaMapProps)
	fill(&d.MapPropAnimationList, repoMapPropAnimationList)
	fill(&d.MapPropMaterialShapes, repoMapPropMaterialShapes)
	fill(&d.MapMatrix, repoMapMatrix)
	fill(&d.LandData, repoLandData)
	return d
}

// Missing returns the yaml keys of paths that are still empty.
func (d DataConfig) Missing() []string {
	var missing []string
	for _, f := range []struct {
		key, path string
	}{
		{"area_data", d.AreaData},
		{"area_light", d.AreaLight},
		{"area_map_props", d.AreaMapProps},
		{"map_prop_animation_list", d.MapPropAnimationList},
		{"map_prop_material_shapes", d.MapPropMaterialShapes},
		{"map_matrix", d.MapMatrix},
		{"land_data", d.LandData},
	} {
		if f.path == "" {
			missing = append(missing, f.key)
		}
	}
	return missing
}

// OutputConfig holds dump settings.
type OutputConfig struct {
	Format string `yaml:"format"` // summary, yaml or spew
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format: FormatSummary,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks the values that cannot be checked by YAML decoding.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatSummary, FormatYAML, FormatSpew:
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging level: %w", err)
	}
	return nil
}
