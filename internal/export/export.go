// Package export writes loaded resources to an SQLite database.
package export

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Kuruyia/sinjoh/internal/loader"
	"github.com/Kuruyia/sinjoh/pkg/formats"
	"github.com/Kuruyia/sinjoh/pkg/nds"
)

// Export writes res to a fresh SQLite database at path. An existing file at
// path is removed first.
func Export(ctx context.Context, res *loader.Resources, path string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete the file at the export path")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return errors.Wrap(err, "failed to open the export database")
	}
	defer db.Close()

	if err := Populate(ctx, db, res); err != nil {
		return err
	}

	abs, _ := filepath.Abs(path)
	log.Info("exported SQLite database",
		zap.String("path", abs),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// OpenMemory returns an in-memory SQLite database holding res. The pool is
// limited to one connection since every connection to ":memory:" opens its
// own empty database.
func OpenMemory(ctx context.Context, res *loader.Resources) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file::memory:")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open the in-memory database")
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := Populate(ctx, db, res); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Populate creates the export tables in db and fills them from res. All
// statements run in a single transaction; on error nothing is kept.
func Populate(ctx context.Context, db *sql.DB, res *loader.Resources) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin the export transaction")
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to create the export tables")
		}
	}

	w := newWriter(ctx, tx)
	defer w.close()

	for _, populate := range []func(*writer, *loader.Resources) error{
		writeAreaData,
		writeAreaLights,
		writeAreaMapProps,
		writeLandData,
		writeMapMatrices,
		writeMapPropAnimationLists,
		writeMapPropMaterialShapes,
	} {
		if err := populate(w, res); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit the export transaction")
	}
	return nil
}

// writer caches one prepared statement per insert query.
type writer struct {
	ctx   context.Context
	tx    *sql.Tx
	stmts map[string]*sql.Stmt
}

func newWriter(ctx context.Context, tx *sql.Tx) *writer {
	return &writer{ctx: ctx, tx: tx, stmts: make(map[string]*sql.Stmt)}
}

func (w *writer) insert(table, query string, args ...any) error {
	stmt, ok := w.stmts[query]
	if !ok {
		var err error
		stmt, err = w.tx.PrepareContext(w.ctx, query)
		if err != nil {
			return errors.Wrapf(err, "failed to prepare populating the `%s` table", table)
		}
		w.stmts[query] = stmt
	}
	if _, err := stmt.ExecContext(w.ctx, args...); err != nil {
		return errors.Wrapf(err, "failed to populate the `%s` table", table)
	}
	return nil
}

func (w *writer) close() {
	for _, stmt := range w.stmts {
		stmt.Close()
	}
}

func writeAreaData(w *writer, res *loader.Resources) error {
	for id, a := range res.AreaData {
		err := w.insert("area_data",
			`INSERT INTO area_data (id, area_map_prop_id, map_texture_id, area_light_id, dummy)
			VALUES (?, ?, ?, ?, ?)`,
			id, a.MapPropArchivesID, a.MapTextureArchiveID, a.AreaLightArchiveID, a.Dummy)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeAreaLights(w *writer, res *loader.Resources) error {
	for id, light := range res.AreaLights {
		for _, block := range light.Blocks {
			err := w.insert("area_light",
				`INSERT INTO area_light (id, end_time) VALUES (?, ?)`,
				id, block.EndTime)
			if err != nil {
				return err
			}

			for lightID, l := range block.Lights {
				if !l.Enabled {
					continue
				}
				err := w.insert("area_light_properties",
					`INSERT INTO area_light_properties
					(light_id, area_light_id, area_light_end_time, red, green, blue, dir_x, dir_y, dir_z)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					lightID, id, block.EndTime,
					l.Color.R, l.Color.G, l.Color.B,
					l.Direction.X.Float64(), l.Direction.Y.Float64(), l.Direction.Z.Float64())
				if err != nil {
					return err
				}
			}

			for _, c := range []struct {
				kind  string
				color nds.RGB555
			}{
				{"diffuse", block.DiffuseColor},
				{"ambient", block.AmbientColor},
				{"specular", block.SpecularColor},
				{"emission", block.EmissionColor},
			} {
				err := w.insert("area_light_color",
					`INSERT INTO area_light_color (kind, area_light_id, area_light_end_time, red, green, blue)
					VALUES (?, ?, ?, ?, ?, ?)`,
					c.kind, id, block.EndTime, c.color.R, c.color.G, c.color.B)
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func writeAreaMapProps(w *writer, res *loader.Resources) error {
	for id, props := range res.AreaMapProps {
		for idx, propID := range props.MapPropIDs {
			err := w.insert("area_map_prop",
				`INSERT INTO area_map_prop (id, idx, map_prop_id) VALUES (?, ?, ?)`,
				id, idx, propID)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func writeLandData(w *writer, res *loader.Resources) error {
	for id := range res.LandData {
		if err := writeOneLandData(w, id, &res.LandData[id]); err != nil {
			return errors.Wrapf(err, "land data %d", id)
		}
	}
	return nil
}

func writeOneLandData(w *writer, id int, ld *formats.LandData) error {
	for i, attrs := range ld.TerrainAttributes {
		x, y, err := formats.TileIndexToCoords(i)
		if err != nil {
			return err
		}
		err = w.insert("land_data_terrain_attributes",
			`INSERT INTO land_data_terrain_attributes (land_data_id, x, y, tile_behavior, has_collision)
			VALUES (?, ?, ?, ?, ?)`,
			id, x, y, attrs.TileBehavior, attrs.HasCollision)
		if err != nil {
			return err
		}
	}

	for i, p := range ld.MapProps {
		err := w.insert("land_data_map_prop",
			`INSERT INTO land_data_map_prop
			(idx, land_data_id, map_prop_id, pos_x, pos_y, pos_z, rotation_x, rotation_y, rotation_z, scale_x, scale_y, scale_z, dummy_1, dummy_2)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, id, p.ModelID,
			p.Position.X.Float64(), p.Position.Y.Float64(), p.Position.Z.Float64(),
			p.Rotation.X.Float64(), p.Rotation.Y.Float64(), p.Rotation.Z.Float64(),
			p.Scale.X.Float64(), p.Scale.Y.Float64(), p.Scale.Z.Float64(),
			p.Dummy[0], p.Dummy[1])
		if err != nil {
			return err
		}
	}

	return writeBDHC(w, id, &ld.BDHC)
}

func writeBDHC(w *writer, id int, b *formats.BDHC) error {
	for i, p := range b.Points {
		err := w.insert("bdhc_point",
			`INSERT INTO bdhc_point (idx, land_data_id, pos_x, pos_z) VALUES (?, ?, ?, ?)`,
			i, id, p.X.Float64(), p.Z.Float64())
		if err != nil {
			return err
		}
	}
	for i, n := range b.Normals {
		err := w.insert("bdhc_normal",
			`INSERT INTO bdhc_normal (idx, land_data_id, pos_x, pos_y, pos_z) VALUES (?, ?, ?, ?, ?)`,
			i, id, n.X.Float64(), n.Y.Float64(), n.Z.Float64())
		if err != nil {
			return err
		}
	}
	for i, c := range b.Constants {
		err := w.insert("bdhc_constant",
			`INSERT INTO bdhc_constant (idx, land_data_id, constant) VALUES (?, ?, ?)`,
			i, id, c.Float64())
		if err != nil {
			return err
		}
	}
	for i, p := range b.Plates {
		err := w.insert("bdhc_plate",
			`INSERT INTO bdhc_plate (idx, land_data_id, first_point_idx, second_point_idx, normal_idx, constant_idx)
			VALUES (?, ?, ?, ?, ?, ?)`,
			i, id, p.FirstPoint, p.SecondPoint, p.Normal, p.Constant)
		if err != nil {
			return err
		}
	}
	for i, plate := range b.AccessList {
		err := w.insert("bdhc_access_list",
			`INSERT INTO bdhc_access_list (idx, land_data_id, plate_idx) VALUES (?, ?, ?)`,
			i, id, plate)
		if err != nil {
			return err
		}
	}
	for i, s := range b.Strips {
		err := w.insert("bdhc_strip",
			`INSERT INTO bdhc_strip (idx, land_data_id, scanline, access_list_element_count, access_list_start_index)
			VALUES (?, ?, ?, ?, ?)`,
			i, id, s.Scanline.Float64(), s.AccessListCount, s.AccessListStart)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeMapMatrices(w *writer, res *loader.Resources) error {
	for id := range res.MapMatrices {
		m := &res.MapMatrices[id]
		err := w.insert("map_matrix",
			`INSERT INTO map_matrix (id, height, width, model_name_prefix) VALUES (?, ?, ?, ?)`,
			id, m.Height, m.Width, m.ModelNamePrefix)
		if err != nil {
			return err
		}

		for i := 0; i < m.MapCount(); i++ {
			x, y, err := m.MapIndexToCoords(i)
			if err != nil {
				return errors.Wrapf(err, "map matrix %d", id)
			}
			if m.MapHeaderIDs != nil {
				err := w.insert("map_matrix_header_id",
					`INSERT INTO map_matrix_header_id (map_matrix_id, x, y, map_header_id) VALUES (?, ?, ?, ?)`,
					id, x, y, m.MapHeaderIDs[i])
				if err != nil {
					return err
				}
			}
			if m.Altitudes != nil {
				err := w.insert("map_matrix_altitude",
					`INSERT INTO map_matrix_altitude (map_matrix_id, x, y, altitude) VALUES (?, ?, ?, ?)`,
					id, x, y, m.Altitudes[i])
				if err != nil {
					return err
				}
			}
			err = w.insert("map_matrix_land_data_id",
				`INSERT INTO map_matrix_land_data_id (map_matrix_id, x, y, land_data_id) VALUES (?, ?, ?, ?)`,
				id, x, y, m.LandDataIDs[i])
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func writeMapPropAnimationLists(w *writer, res *loader.Resources) error {
	for id, l := range res.MapPropAnimationLists {
		err := w.insert("map_prop_animation_list",
			`INSERT INTO map_prop_animation_list (id, deferred_loading, deferred_add_to_render_object, is_bicycle_slope)
			VALUES (?, ?, ?, ?)`,
			id, l.DeferredLoading, l.DeferredAddToRenderObject, l.IsBicycleSlope)
		if err != nil {
			return err
		}
		for idx, animID := range l.AnimationIDs {
			err := w.insert("map_prop_animation_list_ids",
				`INSERT INTO map_prop_animation_list_ids (map_prop_animation_list_id, idx, animation_id)
				VALUES (?, ?, ?)`,
				id, idx, animID)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func writeMapPropMaterialShapes(w *writer, res *loader.Resources) error {
	if res.MapPropMaterialShapes == nil {
		return nil
	}
	for id, entry := range res.MapPropMaterialShapes.Entries {
		if entry == nil {
			continue
		}
		err := w.insert("map_prop_material_shape",
			`INSERT INTO map_prop_material_shape (id, material_shape_ids_index) VALUES (?, ?)`,
			id, entry.IDsIndex)
		if err != nil {
			return err
		}
		for idx, pair := range entry.IDs {
			err := w.insert("map_prop_material_shape_ids",
				`INSERT INTO map_prop_material_shape_ids (map_prop_material_shape_id, idx, material_id, shape_id)
				VALUES (?, ?, ?, ?)`,
				id, idx, pair.MaterialID, pair.ShapeID)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
