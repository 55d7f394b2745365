package grid

import (
	"errors"
	"strings"
	"testing"

	"github.com/tilekit/tilemap/internal/property"
	"github.com/tilekit/tilemap/internal/tile"
)

func filled(t *testing.T, w, h int, d tile.Data) *Grid {
	t.Helper()
	g, err := Filled(w, h, d)
	if err != nil {
		t.Fatalf("Filled(%d, %d): %v", w, h, err)
	}
	return g
}

// numbered returns a w*h grid where tile i holds i:0.
func numbered(t *testing.T, w, h int) *Grid {
	t.Helper()
	tiles := make([]*tile.Tile, w*h)
	for i := range tiles {
		tiles[i] = tile.FromData(tile.Data{TileID: i, TilesetID: 0})
	}
	g, err := New(w, h, tiles)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(2, 2, []*tile.Tile{tile.Default()}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("New with 1 tile for 2x2 = %v, want ErrOutOfRange", err)
	}
	if _, err := New(0, 3, nil); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("New(0, 3) = %v, want ErrOutOfRange", err)
	}
	shared := tile.Default()
	if _, err := New(2, 1, []*tile.Tile{shared, shared}); !errors.Is(err, tile.ErrInvalidTile) {
		t.Errorf("New with a repeated tile = %v, want ErrInvalidTile", err)
	}
	if _, err := New(1, 1, []*tile.Tile{nil}); !errors.Is(err, tile.ErrInvalidTile) {
		t.Errorf("New with nil tile = %v, want ErrInvalidTile", err)
	}
}

func TestIndex(t *testing.T) {
	g := filled(t, 30, 30, tile.Empty)
	cases := []struct{ x, y, want int }{
		{16, 20, 616},
		{5, 26, 785},
		{0, 0, 0},
		{29, 29, 899},
	}
	for _, tc := range cases {
		got, err := g.Index(tc.x, tc.y)
		if err != nil || got != tc.want {
			t.Errorf("Index(%d, %d) = %d, %v, want %d", tc.x, tc.y, got, err, tc.want)
		}
	}
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {30, 0}, {0, 30}, {30, 30}} {
		if _, err := g.Index(p[0], p[1]); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Index(%d, %d) = %v, want ErrOutOfRange", p[0], p[1], err)
		}
	}
}

func TestSlice_Inside(t *testing.T) {
	g := numbered(t, 4, 4)
	s, err := g.Slice(1, 1, 2, 2)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	want := []int{5, 6, 9, 10}
	for i, id := range want {
		if s.Tile(i).TileID() != id {
			t.Errorf("slice tile %d = %d, want %d", i, s.Tile(i).TileID(), id)
		}
		if s.Tile(i) == g.Tile(id) {
			t.Errorf("slice tile %d shares identity with the source", i)
		}
	}
}

func TestSlice_OutOfBoundsYieldsEmpty(t *testing.T) {
	g := numbered(t, 4, 4)
	s, err := g.Slice(-2, 2, 4, 5)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if s.Len() != 20 {
		t.Fatalf("Len() = %d, want 20", s.Len())
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 4; x++ {
			tl, _ := s.At(x, y)
			sx, sy := x-2, y+2
			if g.InBounds(sx, sy) {
				if want := sy*4 + sx; tl.TileID() != want {
					t.Errorf("(%d,%d) = %d, want %d", x, y, tl.TileID(), want)
				}
				continue
			}
			if tl.TileID() != tile.NoID {
				t.Errorf("(%d,%d) = %s, want empty", x, y, tl)
			}
		}
	}

	if _, err := g.Slice(0, 0, 0, 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Slice with zero width = %v, want ErrOutOfRange", err)
	}
}

func TestTilingLookup_Periodic(t *testing.T) {
	pattern := numbered(t, 3, 4)
	for _, k := range []int{-100, -7, -1, 0, 1, 5, 100} {
		for y := -2; y < 6; y++ {
			for x := -2; x < 5; x++ {
				base := TilingLookup(1, 2, x, y, pattern)
				shifted := TilingLookup(1, 2, x+k*pattern.Width(), y+k*pattern.Height(), pattern)
				if base != shifted {
					t.Fatalf("k=%d (%d,%d): %s != %s", k, x, y, base, shifted)
				}
			}
		}
	}
	if got := TilingLookup(1, 2, 1, 2, pattern); got != pattern.Tile(0) {
		t.Errorf("lookup at the origin = %s, want tile 0", got)
	}
	if got := TilingLookup(0, 0, -1, -1, pattern); got.TileID() != 11 {
		t.Errorf("lookup at (-1,-1) = %s, want the bottom-right tile", got)
	}
}

func TestInsert_NegativeOffset(t *testing.T) {
	g := filled(t, 5, 5, tile.Data{TileID: 1, TilesetID: 0})
	before := g.Tiles()
	src := filled(t, 3, 3, tile.Data{TileID: 9, TilesetID: 2})

	n := g.Insert(-1, -2, src, false)
	if n != 2 {
		t.Errorf("Insert wrote %d cells, want 2", n)
	}
	for i, tl := range g.Tiles() {
		if tl != before[i] {
			t.Fatalf("tile %d replaced instead of mutated", i)
		}
		x, y := g.coords(i)
		inside := x < 2 && y < 1
		if inside && tl.TileID() != 9 {
			t.Errorf("(%d,%d) = %s, want 9:2", x, y, tl)
		}
		if !inside && tl.TileID() != 1 {
			t.Errorf("(%d,%d) = %s, want untouched 1:0", x, y, tl)
		}
	}
}

func TestInsert_SkipEmpty(t *testing.T) {
	g := filled(t, 2, 1, tile.Data{TileID: 1, TilesetID: 0})
	src, _ := New(2, 1, []*tile.Tile{tile.Default(), tile.FromData(tile.Data{TileID: 4, TilesetID: 1})})

	g.Insert(0, 0, src, true)
	if g.Tile(0).TileID() != 1 || g.Tile(1).TileID() != 4 {
		t.Errorf("skipEmpty insert = %v", g.Data())
	}
	g.Insert(0, 0, src, false)
	if !g.Tile(0).IsEmpty() {
		t.Errorf("insert without skipEmpty kept %s", g.Tile(0))
	}
}

func TestFillAt_Uniform(t *testing.T) {
	pattern := filled(t, 1, 1, tile.Data{TileID: 7, TilesetID: 3})
	for _, seed := range [][2]int{{0, 0}, {4, 2}, {9, 9}} {
		g := filled(t, 10, 10, tile.Data{TileID: 2, TilesetID: 1})
		n, err := g.FillAt(seed[0], seed[1], pattern)
		if err != nil {
			t.Fatalf("FillAt: %v", err)
		}
		if n != 100 {
			t.Errorf("seed %v filled %d tiles, want 100", seed, n)
		}
		for i, d := range g.Data() {
			if d != (tile.Data{TileID: 7, TilesetID: 3}) {
				t.Fatalf("seed %v: tile %d = %s", seed, i, d)
			}
		}
	}
}

func TestFillAt_IslandsDifferByTileset(t *testing.T) {
	// Two columns of id 5, separated by a wall, plus a third column that has
	// the same tile id but a different tileset id.
	rows := []string{
		"5:0 0:0 5:0 5:1",
		"5:0 0:0 5:0 5:1",
		"5:0 0:0 5:0 5:1",
	}
	g := parseRows(t, rows)
	pattern := filled(t, 1, 1, tile.Data{TileID: 8, TilesetID: 0})

	n, err := g.FillAt(2, 1, pattern)
	if err != nil {
		t.Fatalf("FillAt: %v", err)
	}
	if n != 3 {
		t.Errorf("filled %d tiles, want 3", n)
	}
	for y := 0; y < 3; y++ {
		want := []string{"5:0", "0:0", "8:0", "5:1"}
		for x, w := range want {
			tl, _ := g.At(x, y)
			if tl.String() != w {
				t.Errorf("(%d,%d) = %s, want %s", x, y, tl, w)
			}
		}
	}
}

func TestFillAt_FollowsWindingRegion(t *testing.T) {
	// The region enters the lower rows from the middle of an upper run, which
	// the scan must still reach.
	rows := []string{
		"1:0 1:0 1:0 1:0 1:0",
		"0:0 0:0 0:0 0:0 1:0",
		"1:0 1:0 1:0 1:0 1:0",
		"1:0 0:0 0:0 0:0 0:0",
		"1:0 1:0 1:0 0:0 1:0",
	}
	g := parseRows(t, rows)
	pattern := filled(t, 1, 1, tile.Data{TileID: 2, TilesetID: 0})

	n, err := g.FillAt(2, 2, pattern)
	if err != nil {
		t.Fatalf("FillAt: %v", err)
	}
	if n != 15 {
		t.Errorf("filled %d tiles, want 15", n)
	}
	if tl, _ := g.At(4, 4); tl.TileID() != 1 {
		t.Errorf("isolated corner = %s, want untouched", tl)
	}
}

func TestFillAt_PatternReproducingSeedTerminates(t *testing.T) {
	g := filled(t, 6, 6, tile.Data{TileID: 3, TilesetID: 0})
	pattern, _ := New(2, 1, []*tile.Tile{
		tile.FromData(tile.Data{TileID: 3, TilesetID: 0}),
		tile.FromData(tile.Data{TileID: 4, TilesetID: 0}),
	})

	n, err := g.FillAt(1, 1, pattern)
	if err != nil {
		t.Fatalf("FillAt: %v", err)
	}
	if n != 36 {
		t.Errorf("filled %d tiles, want 36", n)
	}
	// Anchored at (1,1): column 1 takes pattern column 0.
	if tl, _ := g.At(1, 0); tl.TileID() != 3 {
		t.Errorf("(1,0) = %s, want 3:0", tl)
	}
	if tl, _ := g.At(0, 5); tl.TileID() != 4 {
		t.Errorf("(0,5) = %s, want 4:0", tl)
	}
}

func TestFillAt_Errors(t *testing.T) {
	g := filled(t, 2, 2, tile.Empty)
	if _, err := g.FillAt(2, 0, g); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("FillAt outside = %v, want ErrOutOfRange", err)
	}
	if _, err := g.FillAt(0, 0, nil); !errors.Is(err, tile.ErrInvalidTile) {
		t.Errorf("FillAt(nil pattern) = %v, want ErrInvalidTile", err)
	}
}

func TestResize_ShrinkThenGrowKeepsTiles(t *testing.T) {
	g := numbered(t, 5, 4)
	before := g.Tiles()

	steps := [][2]int{{3, 4}, {3, 2}, {5, 2}, {5, 4}, {7, 6}, {5, 4}}
	for _, s := range steps {
		if err := g.Resize(s[0], s[1]); err != nil {
			t.Fatalf("Resize(%d, %d): %v", s[0], s[1], err)
		}
		if g.Len() != s[0]*s[1] {
			t.Fatalf("Len() = %d after Resize(%d, %d)", g.Len(), s[0], s[1])
		}
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			tl, _ := g.At(x, y)
			kept := x < 3 && y < 2
			if kept {
				if tl != before[y*5+x] || tl.TileID() != y*5+x {
					t.Errorf("(%d,%d) = %s, want original tile %d", x, y, tl, y*5+x)
				}
				continue
			}
			if !tl.IsEmpty() {
				t.Errorf("(%d,%d) = %s, want empty grown cell", x, y, tl)
			}
		}
	}
}

func TestResize_UsesFill(t *testing.T) {
	fill := tile.Data{TileID: -1, TilesetID: 0}
	g := filled(t, 1, 1, fill)
	if err := g.Resize(2, 2); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	for i, d := range g.Data() {
		if d != fill {
			t.Errorf("tile %d = %s, want %s", i, d, fill)
		}
	}
	if err := g.Resize(0, 2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Resize(0, 2) = %v, want ErrOutOfRange", err)
	}
}

func TestObserve_ForwardsWithCurrentPosition(t *testing.T) {
	g := numbered(t, 3, 3)
	g.Observe()
	var data []CellData
	var props []CellProperty
	g.DataEvents().Subscribe(func(c CellData) { data = append(data, c) })
	g.PropertyEvents().Subscribe(func(c CellProperty) { props = append(props, c) })

	target := g.Tile(4) // (1,1)
	if err := g.Resize(4, 3); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	target.SetData(40, 1, false)
	target.Properties().Set("k", property.Bool(true))

	if len(data) != 1 || data[0].Index != 5 || data[0].X != 1 || data[0].Y != 1 {
		t.Fatalf("data events = %+v, want index 5 at (1,1)", data)
	}
	if data[0].Change.New != (tile.Data{TileID: 40, TilesetID: 1}) {
		t.Errorf("change = %+v", data[0].Change)
	}
	if len(props) != 1 || props[0].Index != 5 || props[0].Change.Change.Key != "k" {
		t.Errorf("property events = %+v", props)
	}

	grown := g.Tile(3) // (3,0), created by Resize
	grown.SetData(1, 1, false)
	if len(data) != 2 || data[1].Index != 3 {
		t.Errorf("grown tile event = %+v, want index 3", data)
	}
}

func TestObserve_DroppedAndReleasedTilesAreSilent(t *testing.T) {
	g := numbered(t, 3, 1)
	g.Observe()
	count := 0
	g.DataEvents().Subscribe(func(CellData) { count++ })

	dropped := g.Tile(2)
	if err := g.Resize(2, 1); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	dropped.SetData(50, 0, false)
	if count != 0 {
		t.Errorf("dropped tile still forwarded %d events", count)
	}
	if dropped.EmitEvents() {
		t.Error("dropped tile still emits events")
	}

	kept := g.Tile(0)
	g.Release()
	kept.SetData(60, 0, false)
	if count != 0 || g.Observed() {
		t.Errorf("released grid forwarded %d events", count)
	}
}

func parseRows(t *testing.T, rows []string) *Grid {
	t.Helper()
	var tiles []*tile.Tile
	width := 0
	for _, row := range rows {
		fields := strings.Fields(row)
		width = len(fields)
		for _, f := range fields {
			tl, err := tile.Parse(f)
			if err != nil {
				t.Fatalf("Parse(%q): %v", f, err)
			}
			tiles = append(tiles, tl)
		}
	}
	g, err := New(width, len(rows), tiles)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}
