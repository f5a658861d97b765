package export

// schema creates every table of the export database.
var schema = []string{
	`CREATE TABLE area_data (
		id               INTEGER NOT NULL PRIMARY KEY,
		area_map_prop_id INTEGER NOT NULL,
		map_texture_id   INTEGER NOT NULL,
		area_light_id    INTEGER NOT NULL,
		dummy            INTEGER NOT NULL
	)`,

	`CREATE TABLE area_light (
		id       INTEGER NOT NULL,
		end_time INTEGER NOT NULL,
		PRIMARY KEY (id, end_time)
	)`,
	`CREATE TABLE area_light_properties (
		light_id            INTEGER NOT NULL,
		area_light_id       INTEGER NOT NULL,
		area_light_end_time INTEGER NOT NULL,
		red                 INTEGER NOT NULL,
		green               INTEGER NOT NULL,
		blue                INTEGER NOT NULL,
		dir_x               REAL    NOT NULL,
		dir_y               REAL    NOT NULL,
		dir_z               REAL    NOT NULL,
		PRIMARY KEY (light_id, area_light_id, area_light_end_time),
		FOREIGN KEY (area_light_id, area_light_end_time) REFERENCES area_light(id, end_time)
	)`,
	`CREATE TABLE area_light_color (
		kind                TEXT    NOT NULL CHECK(kind IN ('diffuse', 'ambient', 'specular', 'emission')),
		area_light_id       INTEGER NOT NULL,
		area_light_end_time INTEGER NOT NULL,
		red                 INTEGER NOT NULL,
		green               INTEGER NOT NULL,
		blue                INTEGER NOT NULL,
		PRIMARY KEY (kind, area_light_id, area_light_end_time),
		FOREIGN KEY (area_light_id, area_light_end_time) REFERENCES area_light(id, end_time)
	)`,

	`CREATE TABLE area_map_prop (
		id          INTEGER NOT NULL,
		idx         INTEGER NOT NULL,
		map_prop_id INTEGER NOT NULL,
		PRIMARY KEY (id, idx)
	)`,

	`CREATE TABLE land_data_terrain_attributes (
		land_data_id  INTEGER NOT NULL,
		x             INTEGER NOT NULL,
		y             INTEGER NOT NULL,
		tile_behavior INTEGER NOT NULL,
		has_collision INTEGER NOT NULL,
		PRIMARY KEY (land_data_id, x, y)
	)`,
	`CREATE TABLE land_data_map_prop (
		idx          INTEGER NOT NULL,
		land_data_id INTEGER NOT NULL,
		map_prop_id  INTEGER NOT NULL,
		pos_x        REAL    NOT NULL,
		pos_y        REAL    NOT NULL,
		pos_z        REAL    NOT NULL,
		rotation_x   REAL    NOT NULL,
		rotation_y   REAL    NOT NULL,
		rotation_z   REAL    NOT NULL,
		scale_x      REAL    NOT NULL,
		scale_y      REAL    NOT NULL,
		scale_z      REAL    NOT NULL,
		dummy_1      INTEGER NOT NULL,
		dummy_2      INTEGER NOT NULL,
		PRIMARY KEY (idx, land_data_id)
	)`,
	`CREATE TABLE bdhc_point (
		idx          INTEGER NOT NULL,
		land_data_id INTEGER NOT NULL,
		pos_x        REAL    NOT NULL,
		pos_z        REAL    NOT NULL,
		PRIMARY KEY (idx, land_data_id)
	)`,
	`CREATE TABLE bdhc_normal (
		idx          INTEGER NOT NULL,
		land_data_id INTEGER NOT NULL,
		pos_x        REAL    NOT NULL,
		pos_y        REAL    NOT NULL,
		pos_z        REAL    NOT NULL,
		PRIMARY KEY (idx, land_data_id)
	)`,
	`CREATE TABLE bdhc_constant (
		idx          INTEGER NOT NULL,
		land_data_id INTEGER NOT NULL,
		constant     REAL    NOT NULL,
		PRIMARY KEY (idx, land_data_id)
	)`,
	`CREATE TABLE bdhc_plate (
		idx              INTEGER NOT NULL,
		land_data_id     INTEGER NOT NULL,
		first_point_idx  INTEGER NOT NULL,
		second_point_idx INTEGER NOT NULL,
		normal_idx       INTEGER NOT NULL,
		constant_idx     INTEGER NOT NULL,
		PRIMARY KEY (idx, land_data_id),
		FOREIGN KEY (first_point_idx, land_data_id) REFERENCES bdhc_point(idx, land_data_id),
		FOREIGN KEY (second_point_idx, land_data_id) REFERENCES bdhc_point(idx, land_data_id),
		FOREIGN KEY (normal_idx, land_data_id) REFERENCES bdhc_normal(idx, land_data_id),
		FOREIGN KEY (constant_idx, land_data_id) REFERENCES bdhc_constant(idx, land_data_id)
	)`,
	`CREATE TABLE bdhc_access_list (
		idx          INTEGER NOT NULL,
		land_data_id INTEGER NOT NULL,
		plate_idx    INTEGER NOT NULL,
		PRIMARY KEY (idx, land_data_id),
		FOREIGN KEY (plate_idx, land_data_id) REFERENCES bdhc_plate(idx, land_data_id)
	)`,
	`CREATE TABLE bdhc_strip (
		idx                       INTEGER NOT NULL,
		land_data_id              INTEGER NOT NULL,
		scanline                  REAL    NOT NULL,
		access_list_element_count INTEGER NOT NULL,
		access_list_start_index   INTEGER NOT NULL,
		PRIMARY KEY (idx, land_data_id)
	)`,

	`CREATE TABLE map_matrix (
		id                INTEGER NOT NULL PRIMARY KEY,
		height            INTEGER NOT NULL,
		width             INTEGER NOT NULL,
		model_name_prefix TEXT    NOT NULL
	)`,
	`CREATE TABLE map_matrix_header_id (
		map_matrix_id INTEGER NOT NULL,
		x             INTEGER NOT NULL,
		y             INTEGER NOT NULL,
		map_header_id INTEGER NOT NULL,
		PRIMARY KEY (map_matrix_id, x, y),
		FOREIGN KEY (map_matrix_id) REFERENCES map_matrix(id)
	)`,
	`CREATE TABLE map_matrix_altitude (
		map_matrix_id INTEGER NOT NULL,
		x             INTEGER NOT NULL,
		y             INTEGER NOT NULL,
		altitude      INTEGER NOT NULL,
		PRIMARY KEY (map_matrix_id, x, y),
		FOREIGN KEY (map_matrix_id) REFERENCES map_matrix(id)
	)`,
	`CREATE TABLE map_matrix_land_data_id (
		map_matrix_id INTEGER NOT NULL,
		x             INTEGER NOT NULL,
		y             INTEGER NOT NULL,
		land_data_id  INTEGER NOT NULL,
		PRIMARY KEY (map_matrix_id, x, y),
		FOREIGN KEY (map_matrix_id) REFERENCES map_matrix(id)
	)`,

	`CREATE TABLE map_prop_animation_list (
		id                            INTEGER NOT NULL PRIMARY KEY,
		deferred_loading              INTEGER NOT NULL,
		deferred_add_to_render_object INTEGER NOT NULL,
		is_bicycle_slope              INTEGER NOT NULL
	)`,
	`CREATE TABLE map_prop_animation_list_ids (
		map_prop_animation_list_id INTEGER NOT NULL,
		idx                        INTEGER NOT NULL,
		animation_id               INTEGER NOT NULL,
		PRIMARY KEY (map_prop_animation_list_id, idx),
		FOREIGN KEY (map_prop_animation_list_id) REFERENCES map_prop_animation_list(id)
	)`,

	`CREATE TABLE map_prop_material_shape (
		id                       INTEGER NOT NULL PRIMARY KEY,
		material_shape_ids_index INTEGER NOT NULL
	)`,
	`CREATE TABLE map_prop_material_shape_ids (
		map_prop_material_shape_id INTEGER NOT NULL,
		idx                        INTEGER NOT NULL,
		material_id                INTEGER NOT NULL,
		shape_id                   INTEGER NOT NULL,
		PRIMARY KEY (map_prop_material_shape_id, idx),
		FOREIGN KEY (map_prop_material_shape_id) REFERENCES map_prop_material_shape(id)
	)`,
}
