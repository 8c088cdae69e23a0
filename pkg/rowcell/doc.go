// Package rowcell adapts columnar batches to row-at-a-time consumers.
//
// # Overview
//
// A ReadContainer holds one mutable Cell per field. It is built once from a
// record descriptor, then reused for every row of every batch:
//
//	c, err := rowcell.NewReadContainerFromArrow(rec.Schema())
//	cols, err := rowcell.AccessorsFor(rec)
//	for row := 0; row < int(rec.NumRows()); row++ {
//	    if err := c.Populate(cols, row); err != nil {
//	        return err
//	    }
//	    consume(c.Values())
//	}
//
// Cells are overwritten in place on each Populate, so consumers that retain a
// value past the current row must copy it. The container only ever hands out
// its own cells: SetDatum copies the supplied cell's value instead of keeping it.
//
// # Cell kinds
//
// Each scalar element type maps onto one of eight kinds. Unsigned 32 and 64 bit
// values are bit-reinterpreted into the Int and Long kinds; every string and
// binary type lands in a Text cell.
//
// # Write mode
//
// A WriteContainer is the other direction: an opaque slot array filled by the
// host engine through SetValue, SetDatum or SetValues.
//
// Neither container supports binary serialization, and neither is safe for
// concurrent use.
package rowcell
