package sprite

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

var (
	// ErrNotIndexed is returned when a PNG decodes successfully but does
	// not carry an explicit palette.
	ErrNotIndexed = errors.New("sprite: png is not indexed")

	// ErrEmptyName is returned when sanitizing a sprite name leaves
	// nothing to declare a constant with.
	ErrEmptyName = errors.New("sprite: name sanitizes to an empty identifier")
)

// PaletteSizeError reports a palette whose color count cannot be packed
// at one or two bits per pixel.
type PaletteSizeError int

func (e PaletteSizeError) Error() string {
	return fmt.Sprintf("sprite: palette has %d colors, want 2 or 4", int(e))
}

// Convert decodes an indexed PNG and packs it into a sprite record. Two
// color palettes pack at one bit per pixel, four color palettes at two.
// The sprite keeps the image's own dimensions and the given name, which
// must survive Sanitize.
//
// Decode failures are returned wrapped, so a png.FormatError can still
// be picked out of the chain with errors.As.
func Convert(name string, data []byte) (*Sprite, error) {
	if Sanitize(name) == "" {
		return nil, fmt.Errorf("%q: %w", name, ErrEmptyName)
	}

	m, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("sprite: decode: %w", err)
	}

	pm, ok := m.(*image.Paletted)
	if !ok {
		return nil, ErrNotIndexed
	}

	var flags Flags
	switch len(pm.Palette) {
	case 2:
		flags = Blit1BPP
	case 4:
		flags = Blit2BPP
	default:
		return nil, PaletteSizeError(len(pm.Palette))
	}

	b := pm.Bounds()

	return &Sprite{
		name:   name,
		width:  uint32(b.Dx()),
		height: uint32(b.Dy()),
		flags:  flags,
		data:   encode(pm, paletteIndexes(pm.Palette), flags.layout()),
	}, nil
}

// colorKey packs a color's 8-bit channels into the single value used for
// palette lookups. Alpha never takes part in color matching so the low
// byte stays zero. Channels are taken non-premultiplied to match the
// palette entries stored in the file.
func colorKey(c color.Color) uint32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return uint32(n.R)<<24 | uint32(n.G)<<16 | uint32(n.B)<<8
}

// paletteIndexes maps each palette color key to its position. A color
// appearing twice keeps its last position.
func paletteIndexes(p color.Palette) map[uint32]int {
	indexes := make(map[uint32]int, len(p))
	for i, c := range p {
		indexes[colorKey(c)] = i
	}
	return indexes
}

func encode(m *image.Paletted, indexes map[uint32]int, l layout) []byte {
	b := m.Bounds()

	var out []byte
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			// The mapping is derived from the same image, so a miss
			// here is a bug, not bad input.
			index, ok := indexes[colorKey(m.At(b.Min.X+x, b.Min.Y+y))]
			if !ok {
				panic("sprite: pixel color missing from palette mapping")
			}

			i, shift, mask := l(x, y, b.Dx())
			for len(out) <= i {
				out = append(out, 0)
			}
			out[i] = byte(index)<<shift | out[i]&^mask
		}
	}

	return out
}
