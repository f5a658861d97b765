// Package loader reads every Pokémon Platinum map-data resource from disk.
package loader

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Kuruyia/sinjoh/internal/config"
	"github.com/Kuruyia/sinjoh/pkg/formats"
	"github.com/Kuruyia/sinjoh/pkg/narc"
	"github.com/Kuruyia/sinjoh/pkg/record"
)

// Resources holds the decoded contents of every map-data archive.
type Resources struct {
	AreaData              []formats.AreaData
	AreaLights            []formats.AreaLight
	AreaMapProps          []formats.AreaMapProps
	MapPropAnimationLists []formats.MapPropAnimationList
	MapPropMaterialShapes *formats.MapPropMaterialShapesTable
	MapMatrices           []formats.MapMatrix
	LandData              []formats.LandData
}

// Loader reads resources and logs its progress.
type Loader struct {
	log *zap.Logger
}

// New creates a loader. A nil logger discards output.
func New(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log}
}

// Load reads and decodes every resource named by paths. Area lights are
// fixed up after decoding.
func (l *Loader) Load(paths config.DataConfig) (*Resources, error) {
	if missing := paths.Missing(); len(missing) > 0 {
		return nil, errors.Errorf("no path configured for %s", strings.Join(missing, ", "))
	}

	var (
		res Resources
		err error
	)

	if res.AreaData, err = loadArchive[formats.AreaData](l, "area data", paths.AreaData); err != nil {
		return nil, err
	}
	if res.AreaLights, err = loadArchive[formats.AreaLight](l, "area light", paths.AreaLight); err != nil {
		return nil, err
	}
	for i := range res.AreaLights {
		res.AreaLights[i].Fix()
	}
	if res.AreaMapProps, err = loadArchive[formats.AreaMapProps](l, "area map props", paths.AreaMapProps); err != nil {
		return nil, err
	}
	if res.MapPropAnimationLists, err = loadArchive[formats.MapPropAnimationList](l, "map prop animation list", paths.MapPropAnimationList); err != nil {
		return nil, err
	}
	if res.MapPropMaterialShapes, err = l.loadMaterialShapes(paths.MapPropMaterialShapes); err != nil {
		return nil, err
	}
	if res.MapMatrices, err = loadArchive[formats.MapMatrix](l, "map matrix", paths.MapMatrix); err != nil {
		return nil, err
	}
	if res.LandData, err = loadArchive[formats.LandData](l, "land data", paths.LandData); err != nil {
		return nil, err
	}

	return &res, nil
}

// OpenArchive reads the NARC at path.
func OpenArchive(path string) (*narc.Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read the archive")
	}
	a, err := narc.Open(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open the archive %s", path)
	}
	return a, nil
}

func loadArchive[T any, PT record.Unmarshaler[T]](l *Loader, name, path string) ([]T, error) {
	l.log.Info("reading archive", zap.String("archive", name), zap.String("path", path))

	a, err := OpenArchive(path)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	l.log.Debug("opened archive",
		zap.String("archive", name),
		zap.Int("files", a.Len()),
		zap.Uint16("version", a.Version()),
		zap.Bool("named", a.HasNames()))

	items, err := record.DecodeAll[T, PT](a.All())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode the %s archive", name)
	}

	l.log.Info("decoded archive", zap.String("archive", name), zap.Int("records", len(items)))
	return items, nil
}

func (l *Loader) loadMaterialShapes(path string) (*formats.MapPropMaterialShapesTable, error) {
	l.log.Info("reading material shapes", zap.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read the map prop material shapes file")
	}
	table, err := formats.ParseMapPropMaterialShapes(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse the map prop material shapes file")
	}

	l.log.Info("decoded material shapes", zap.Int("props", table.Len()))
	return table, nil
}
