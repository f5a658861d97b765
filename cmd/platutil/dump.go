package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v3"

	"github.com/Kuruyia/sinjoh/internal/config"
	"github.com/Kuruyia/sinjoh/internal/loader"
	"github.com/Kuruyia/sinjoh/pkg/formats"
)

var spewConfig *spew.ConfigState

func init() {
	spewConfig = spew.NewDefaultConfig()
	spewConfig.DisableCapacities = true
	spewConfig.DisablePointerAddresses = true
}

// kinds maps a dump kind to the records it selects. index is -1 for every
// record.
var kinds = map[string]func(res *loader.Resources, index int) ([]any, error){
	"area_data": func(res *loader.Resources, index int) ([]any, error) {
		return pick(res.AreaData, index)
	},
	"area_light": func(res *loader.Resources, index int) ([]any, error) {
		return pick(res.AreaLights, index)
	},
	"area_map_props": func(res *loader.Resources, index int) ([]any, error) {
		return pick(res.AreaMapProps, index)
	},
	"animation_list": func(res *loader.Resources, index int) ([]any, error) {
		return pick(res.MapPropAnimationLists, index)
	},
	"material_shapes": func(res *loader.Resources, index int) ([]any, error) {
		return pick(res.MapPropMaterialShapes.Entries, index)
	},
	"map_matrix": func(res *loader.Resources, index int) ([]any, error) {
		return pick(res.MapMatrices, index)
	},
	"land_data": func(res *loader.Resources, index int) ([]any, error) {
		return pick(res.LandData, index)
	},
}

func kindList() string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

func selectRecords(res *loader.Resources, kind string, index int) ([]any, error) {
	get, ok := kinds[kind]
	if !ok {
		return nil, fmt.Errorf("unknown kind %q (expected one of: %s)", kind, kindList())
	}
	return get(res, index)
}

func pick[T any](items []T, index int) ([]any, error) {
	if index >= len(items) {
		return nil, fmt.Errorf("index %d out of range (%d records)", index, len(items))
	}
	if index >= 0 {
		return []any{items[index]}, nil
	}

	records := make([]any, len(items))
	for i := range items {
		records[i] = items[i]
	}
	return records, nil
}

func dump(w io.Writer, format string, records []any) error {
	switch format {
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	case config.FormatSpew:
		spewConfig.Fdump(w, records...)
		return nil
	default:
		for i, r := range records {
			fmt.Fprintf(w, "%d: %s\n", i, summarize(r))
		}
		fmt.Fprintf(w, "%d records\n", len(records))
		return nil
	}
}

// summarize renders a record on a single line. Large payloads are reduced
// to their sizes.
func summarize(r any) string {
	switch v := r.(type) {
	case formats.AreaData:
		return fmt.Sprintf("map props %d, textures %d, light %d",
			v.MapPropArchivesID, v.MapTextureArchiveID, v.AreaLightArchiveID)
	case formats.AreaLight:
		ends := make([]string, len(v.Blocks))
		for i, b := range v.Blocks {
			ends[i] = fmt.Sprint(b.EndTime)
		}
		return fmt.Sprintf("%d blocks ending at [%s]", len(v.Blocks), strings.Join(ends, " "))
	case formats.AreaMapProps:
		return fmt.Sprintf("%d map props %v", len(v.MapPropIDs), v.MapPropIDs)
	case *formats.MapPropMaterialShapes:
		if v == nil {
			return "none"
		}
		return fmt.Sprintf("%d pairs from index %d", len(v.IDs), v.IDsIndex)
	case formats.MapMatrix:
		return fmt.Sprintf("%dx%d prefix %q, header ids %t, altitudes %t",
			v.Width, v.Height, v.ModelNamePrefix, v.MapHeaderIDs != nil, v.Altitudes != nil)
	case formats.LandData:
		return fmt.Sprintf("%d tiles, %d props, model %d bytes, bdhc %d plates %d strips",
			len(v.TerrainAttributes), len(v.MapProps), len(v.MapModel), len(v.BDHC.Plates), len(v.BDHC.Strips))
	default:
		return fmt.Sprintf("%+v", r)
	}
}
