// Package boxgrid implements box-assisted neighbor lookup.
//
// Points are binned on a coarse power-of-two torus over two delay
// coordinates, with box side equal to the search radius. Any point within
// the radius of an anchor, in a norm that includes both projected
// coordinates, lies in the 3×3 block of boxes around the anchor's own box,
// so exact distance checks are restricted to that block.
//
//	g, _ := boxgrid.New(boxgrid.SizeLyapunov)
//	g.Build(emb, eps, emb.Delay(), n)
//	g.Scan(emb, anchor, func(j int) bool {
//	    // exact check of candidate j
//	    return true
//	})
package boxgrid
