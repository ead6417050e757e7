// Package table implements the normalization pipeline for semi-structured
// spreadsheet exports: sparse grids whose real header row sits at an unknown
// position surrounded by titles, notes and empty filler.
//
// The pipeline is a sequence of pure transforms over two immutable types:
//
// Grid: the raw rectangular cell snapshot produced by a sheet reader.
//
// Table: the normalized form, a promoted header row plus the data rows
// under it.
//
// The transforms, in pipeline order:
//
//	loc, err := table.LocateHeader(grid, table.DefaultSearchRows)
//	t := table.ShrinkToHeader(grid, loc)
//	t = table.FillMissing(t)
//	t = table.AddComputedFields(t, cols)
//
// Every transform returns a new value and never mutates its input, so stages
// can be tested in isolation with literal fixtures and intermediate results
// can be kept around safely.
package table
