/*
Package sprite converts indexed PNG images into the packed pixel format
drawn by the WASM-4 fantasy console.

A sprite with a two color palette is packed at one bit per pixel and a
sprite with a four color palette at two bits per pixel. Pixels are laid
out in row-major order with the most significant bits of each byte used
first, which is the exact layout the console blit call expects.
*/
package sprite

import (
	"bytes"
	"cmp"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

// Flags is the bit depth of a packed sprite. The numeric values match
// the BLIT_* constants understood by the console.
type Flags uint32

const (
	// Blit1BPP packs each pixel into a single bit.
	Blit1BPP Flags = iota
	// Blit2BPP packs each pixel into two bits.
	Blit2BPP
)

func (f Flags) String() string {
	if f == Blit2BPP {
		return "BLIT_2BPP"
	}
	return "BLIT_1BPP"
}

// BitsPerPixel returns how many bits one pixel occupies when packed.
func (f Flags) BitsPerPixel() int {
	if f == Blit2BPP {
		return 2
	}
	return 1
}

// A layout maps pixel coordinates to the byte index, bit shift and bit
// mask of the pixel's packed location.
type layout func(x, y, stride int) (index int, shift uint, mask byte)

func (f Flags) layout() layout {
	if f == Blit2BPP {
		return layout2BPP
	}
	return layout1BPP
}

func layout1BPP(x, y, stride int) (int, uint, byte) {
	p := y*stride + x
	shift := uint(7 - x&7)
	return p >> 3, shift, 1 << shift
}

func layout2BPP(x, y, stride int) (int, uint, byte) {
	p := y*stride + x
	shift := uint(6 - (x&3)<<1)
	return p >> 2, shift, 3 << shift
}

// A Sprite is one converted image: its packed pixel data plus the
// metadata needed to declare and blit it.
type Sprite struct {
	name   string
	width  uint32
	height uint32
	flags  Flags
	data   []byte
}

// New builds a sprite record from already packed data.
func New(name string, width, height uint32, flags Flags, data []byte) *Sprite {
	return &Sprite{
		name:   name,
		width:  width,
		height: height,
		flags:  flags,
		data:   data,
	}
}

func (s *Sprite) Name() string { return s.name }

func (s *Sprite) Width() uint32 { return s.width }

func (s *Sprite) Height() uint32 { return s.height }

func (s *Sprite) Flags() Flags { return s.flags }

func (s *Sprite) Data() []byte { return s.data }

// Compare orders sprites by name, width, height, flags and finally data,
// which keeps rendered module output stable.
func (s *Sprite) Compare(o *Sprite) int {
	if c := strings.Compare(s.name, o.name); c != 0 {
		return c
	}
	if c := cmp.Compare(s.width, o.width); c != 0 {
		return c
	}
	if c := cmp.Compare(s.height, o.height); c != 0 {
		return c
	}
	if c := cmp.Compare(s.flags, o.flags); c != 0 {
		return c
	}
	return bytes.Compare(s.data, o.data)
}

// Image unpacks the sprite into a paletted image drawn with p. Index i
// of the packed data selects p[i], so p must hold at least as many
// colors as the sprite's bit depth can address.
func (s *Sprite) Image(p color.Palette) *image.Paletted {
	m := image.NewPaletted(image.Rect(0, 0, int(s.width), int(s.height)), p)
	l := s.flags.layout()
	for y := 0; y < int(s.height); y++ {
		for x := 0; x < int(s.width); x++ {
			i, shift, mask := l(x, y, int(s.width))
			m.SetColorIndex(x, y, s.data[i]&mask>>shift)
		}
	}
	return m
}

// DefaultPalette is the palette the console boots with.
var DefaultPalette = color.Palette{
	color.RGBA{0xe0, 0xf8, 0xcf, 0xff},
	color.RGBA{0x86, 0xc0, 0x6c, 0xff},
	color.RGBA{0x30, 0x68, 0x50, 0xff},
	color.RGBA{0x07, 0x18, 0x21, 0xff},
}

// ParsePalette converts a list of "#rrggbb" hex strings into a palette.
// The leading "#" is optional.
func ParsePalette(colors []string) (color.Palette, error) {
	p := make(color.Palette, 0, len(colors))
	for _, s := range colors {
		c, err := parseColor(s)
		if err != nil {
			return nil, err
		}
		p = append(p, c)
	}
	return p, nil
}

func parseColor(s string) (color.Color, error) {
	t := strings.TrimPrefix(strings.TrimSpace(s), "#")
	v, err := strconv.ParseUint(t, 16, 32)
	if err != nil || len(t) != 6 {
		return nil, fmt.Errorf("sprite: invalid palette color %q", s)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8 & 0xff), uint8(v & 0xff), 0xff}, nil
}
