package grid

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"

	"github.com/tilekit/tilemap/internal/tile"
)

// Slice copies the w*h window at (x, y) into a new grid. Parts of the window
// outside g become empty tiles, so only a non-positive size fails.
func (g *Grid) Slice(x, y, w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: slice size %dx%d", ErrOutOfRange, w, h)
	}
	tiles := make([]*tile.Tile, 0, w*h)
	for ly := y; ly < y+h; ly++ {
		for lx := x; lx < x+w; lx++ {
			t, err := g.At(lx, ly)
			if err != nil {
				tiles = append(tiles, tile.Default())
				continue
			}
			tiles = append(tiles, t.Clone())
		}
	}
	return New(w, h, tiles)
}

// Insert writes src into g with its top-left corner at (x, y). Cells that
// land outside g are skipped, as are empty source cells when skipEmpty is
// set. Destination tiles are updated in place. Insert returns the number of
// cells written.
func (g *Grid) Insert(x, y int, src *Grid, skipEmpty bool) int {
	written := 0
	for sy := 0; sy < src.height; sy++ {
		for sx := 0; sx < src.width; sx++ {
			dst, err := g.At(x+sx, y+sy)
			if err != nil {
				continue
			}
			s := src.tiles[sy*src.width+sx]
			if skipEmpty && s.TileID() == tile.NoID {
				continue
			}
			dst.Assign(s.Data())
			written++
		}
	}
	return written
}

// TilingLookup samples pattern as if it were repeated infinitely in both
// directions with its top-left corner at (originX, originY).
func TilingLookup(originX, originY, x, y int, pattern *Grid) *tile.Tile {
	px := wrap(x-originX, pattern.width)
	py := wrap(y-originY, pattern.height)
	return pattern.tiles[py*pattern.width+px]
}

func wrap(c, n int) int {
	return (c%n + n) % n
}

type point struct{ x, y int }

// FillAt replaces the connected region of tiles equal to the tile at (x, y)
// with pattern, tiled from (x, y). Equality compares both tile and tileset
// id. It returns the number of tiles written.
func (g *Grid) FillAt(x, y int, pattern *Grid) (int, error) {
	if pattern == nil {
		return 0, fmt.Errorf("%w: nil fill pattern", tile.ErrInvalidTile)
	}
	seed, err := g.At(x, y)
	if err != nil {
		return 0, err
	}
	target := seed.Data()
	visited := mapset.New[int]()
	match := func(cx, cy int) bool {
		if !g.InBounds(cx, cy) {
			return false
		}
		i := cy*g.width + cx
		return !visited.Has(i) && g.tiles[i].Data() == target
	}

	var region []int
	seeds := queue.New[point]()
	seeds.Enqueue(point{x, y})
	for !seeds.Empty() {
		p := seeds.Dequeue()
		if !match(p.x, p.y) {
			continue
		}
		left := p.x
		for match(left-1, p.y) {
			left--
		}
		for cx := left; match(cx, p.y); cx++ {
			i := p.y*g.width + cx
			visited.Put(i)
			region = append(region, i)
			for _, ny := range [2]int{p.y - 1, p.y + 1} {
				// Only the first cell of each run above and below is queued.
				if match(cx, ny) && (cx == left || !match(cx-1, ny)) {
					seeds.Enqueue(point{cx, ny})
				}
			}
		}
	}

	for _, i := range region {
		cx, cy := g.coords(i)
		g.tiles[i].Assign(TilingLookup(x, y, cx, cy, pattern).Data())
	}
	return len(region), nil
}

// Resize changes the grid to w*h. Tiles inside both the old and the new
// bounds keep their identity and coordinates; tiles outside the new bounds
// are dropped and new cells receive the grid's fill data.
func (g *Grid) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: grid size %dx%d", ErrOutOfRange, w, h)
	}
	if w == g.width && h == g.height {
		return nil
	}
	var dropped []*tile.Tile
	next := make([]*tile.Tile, 0, w*h)
	for y := 0; y < max(h, g.height); y++ {
		for x := 0; x < max(w, g.width); x++ {
			old := x < g.width && y < g.height
			keep := x < w && y < h
			switch {
			case old && keep:
				next = append(next, g.tiles[y*g.width+x])
			case old:
				dropped = append(dropped, g.tiles[y*g.width+x])
			case keep:
				next = append(next, tile.FromData(g.fill))
			}
		}
	}
	g.width, g.height, g.tiles = w, h, next
	g.reindex(dropped)
	return nil
}
