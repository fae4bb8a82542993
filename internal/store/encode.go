package store

import (
	"encoding/binary"
	"fmt"
	"math"

	"station-atmos/internal/gas"
)

// floatsPerCell is the encoded width of one mixture: every species amount
// followed by the temperature.
const floatsPerCell = gas.SpeciesCount + 1

// encodeCells packs mixtures as little-endian float64s.
func encodeCells(cells []gas.Mixture) []byte {
	buf := make([]byte, 0, len(cells)*floatsPerCell*8)
	for _, m := range cells {
		for _, a := range m.Amount {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(a))
		}
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(m.Temperature))
	}
	return buf
}

func decodeCells(data []byte, n int) ([]gas.Mixture, error) {
	if len(data) != n*floatsPerCell*8 {
		return nil, fmt.Errorf("store: cell blob is %d bytes, want %d", len(data), n*floatsPerCell*8)
	}
	out := make([]gas.Mixture, n)
	off := 0
	next := func() float64 {
		v := math.Float64frombits(binary.LittleEndian.Uint64(data[off:]))
		off += 8
		return v
	}
	for i := range out {
		for s := 0; s < gas.SpeciesCount; s++ {
			out[i].Amount[s] = next()
		}
		out[i].Temperature = next()
	}
	return out, nil
}

func encodeWalls(walls []bool) []byte {
	buf := make([]byte, len(walls))
	for i, w := range walls {
		if w {
			buf[i] = 1
		}
	}
	return buf
}

func decodeWalls(data []byte, n int) ([]bool, error) {
	if len(data) != n {
		return nil, fmt.Errorf("store: wall blob is %d bytes, want %d", len(data), n)
	}
	out := make([]bool, n)
	for i, b := range data {
		out[i] = b != 0
	}
	return out, nil
}
