package tilemap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/klauspost/compress/zstd"
	"github.com/milk9111/tilemap/common"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// MarshalJSON writes the layer as {"<row>": {"<column>": tile}} keeping the
// insertion order of rows and columns.
func (l *TileLayer) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	firstRow := true
	for rk := range l.order.all() {
		if !firstRow {
			buf.WriteByte(',')
		}
		firstRow = false
		r := l.rows[rk]
		fmt.Fprintf(&buf, "%q:{", rk)
		firstColumn := true
		for ck := range r.order.all() {
			if !firstColumn {
				buf.WriteByte(',')
			}
			firstColumn = false
			tile, err := json.Marshal(r.columns[ck].tile)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&buf, "%q:", ck)
			buf.Write(tile)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the form written by MarshalJSON, preserving key order.
func (l *TileLayer) UnmarshalJSON(data []byte) error {
	*l = *NewTileLayer()
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		rowKey, err := readKey(dec)
		if err != nil {
			return err
		}
		rowIndex, ok := new(big.Int).SetString(rowKey, 10)
		if !ok {
			return fmt.Errorf("tilemap: decode layer: bad row %q", rowKey)
		}
		if err := expectDelim(dec, '{'); err != nil {
			return err
		}
		for dec.More() {
			columnKey, err := readKey(dec)
			if err != nil {
				return err
			}
			columnIndex, ok := new(big.Int).SetString(columnKey, 10)
			if !ok {
				return fmt.Errorf("tilemap: decode layer: bad column %q", columnKey)
			}
			var t Tile
			if err := dec.Decode(&t); err != nil {
				return fmt.Errorf("tilemap: decode tile at %s_%s: %w", rowKey, columnKey, err)
			}
			l.SetTile(common.CellPosition{Row: rowIndex, Column: columnIndex}, t)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return err
		}
	}
	return expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("tilemap: decode layer: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("tilemap: decode layer: expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("tilemap: decode layer: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("tilemap: decode layer: expected key, got %v", tok)
	}
	return key, nil
}

// Encode writes m as indented JSON.
func Encode(w io.Writer, m *TileMap) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("tilemap: encode map: %w", err)
	}
	return nil
}

// Decode reads a map written by Encode.
func Decode(r io.Reader) (*TileMap, error) {
	var m TileMap
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("tilemap: decode map: %w", err)
	}
	if !m.TileSize.Valid() {
		return nil, ErrInvalidTileSize
	}
	if m.TileSets == nil {
		m.TileSets = make(map[TileSetID]TileSet)
	}
	if len(m.Tiles) == 0 {
		m.Tiles = []*TileLayer{NewTileLayer()}
	}
	for i, l := range m.Tiles {
		if l == nil {
			m.Tiles[i] = NewTileLayer()
		}
	}
	return &m, nil
}

// Marshal encodes m to JSON bytes.
func Marshal(m *TileMap) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON or zstd-compressed JSON.
func Unmarshal(data []byte) (*TileMap, error) {
	if IsCompressed(data) {
		return UnmarshalCompressed(data)
	}
	return Decode(bytes.NewReader(data))
}

// MarshalCompressed encodes m to zstd-compressed JSON.
func MarshalCompressed(m *TileMap) ([]byte, error) {
	raw, err := Marshal(m)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("tilemap: create compressor: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(raw, make([]byte, 0, len(raw)/4)), nil
}

// UnmarshalCompressed decodes the output of MarshalCompressed.
func UnmarshalCompressed(data []byte) (*TileMap, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("tilemap: create decompressor: %w", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("tilemap: decompress map: %w", err)
	}
	return Decode(bytes.NewReader(raw))
}

// IsCompressed reports whether data starts with a zstd frame.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}
