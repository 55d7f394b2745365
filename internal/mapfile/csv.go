package mapfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tilekit/tilemap/internal/tile"
	"github.com/tilekit/tilemap/internal/tilemap"
)

// ReadCSVLayer reads a layer from comma-separated tile ids, one row per
// line. Blank lines and lines starting with '#' are skipped. Every row must
// have the same number of columns. All tiles get tilesetID.
func ReadCSVLayer(r io.Reader, name string, tilesetID int) (width, height int, layer tilemap.LayerOptions, err error) {
	layer.Name = name
	scanner := bufio.NewScanner(r)
	// Rows of wide maps exceed the default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if len(text) == 0 || text[0] == '#' {
			continue
		}
		fields := strings.Split(text, ",")
		if width == 0 {
			width = len(fields)
		} else if len(fields) != width {
			return 0, 0, layer, fmt.Errorf("line %d: %d columns, want %d", line, len(fields), width)
		}
		for _, f := range fields {
			id, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return 0, 0, layer, fmt.Errorf("line %d: %w: %v", line, tile.ErrInvalidTile, err)
			}
			layer.Tiles = append(layer.Tiles, tile.Options{TileID: max(id, tile.NoID), TilesetID: tilesetID})
		}
		height++
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, layer, err
	}
	if height == 0 {
		return 0, 0, layer, fmt.Errorf("%w: no rows", tile.ErrInvalidTile)
	}
	return width, height, layer, nil
}

// ImportCSV reads the CSV file at path with ReadCSVLayer.
func ImportCSV(path, name string, tilesetID int) (int, int, tilemap.LayerOptions, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, tilemap.LayerOptions{}, fmt.Errorf("read layer %s: %w", path, err)
	}
	defer f.Close()
	w, h, layer, err := ReadCSVLayer(f, name, tilesetID)
	if err != nil {
		return 0, 0, layer, fmt.Errorf("parse layer %s: %w", path, err)
	}
	return w, h, layer, nil
}
