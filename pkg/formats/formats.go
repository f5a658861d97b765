// Package formats decodes the Pokémon Platinum map data records: area data,
// area lights, area map props, land data (with its BDHC height data), map
// matrices, map prop animation lists and the map prop material/shape table.
//
// Every record has a ParseXxx function and implements
// encoding.BinaryUnmarshaler, so it can be used with record.Decode. Fixed-size
// records also have an XxxFromBytes function taking an array. Decoding is
// all-or-nothing: on error no value is returned.
package formats
