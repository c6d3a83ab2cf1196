package sprite

import (
	"image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/esimov/colorquant"
)

// Jarvis, Judice and Ninke error diffusion kernel.
var ditherer = colorquant.Dither{
	Filter: [][]float32{
		{0.0, 0.0, 0.0, 7.0 / 48.0, 5.0 / 48.0},
		{3.0 / 48.0, 5.0 / 48.0, 7.0 / 48.0, 5.0 / 48.0, 3.0 / 48.0},
		{1.0 / 48.0, 3.0 / 48.0, 5.0 / 48.0, 3.0 / 48.0, 1.0 / 48.0},
	},
}

// Quantize reduces m to an indexed image with a palette of exactly n
// colors chosen by median cut, optionally spreading the error with
// dithering. It prepares arbitrary images for Convert, which only
// accepts indexed input with a two or four color palette.
func Quantize(m image.Image, n int, dither bool) *image.Paletted {
	q := quantize.MedianCutQuantizer{}
	return QuantizeToPalette(m, padPalette(q.Quantize(make(color.Palette, 0, n), m), n), dither)
}

// QuantizeToPalette maps m onto the fixed palette p.
func QuantizeToPalette(m image.Image, p color.Palette, dither bool) *image.Paletted {
	dst := image.NewPaletted(m.Bounds(), p)
	if dither {
		ditherer.Quantize(m, dst, len(p), true, true)
	} else {
		colorquant.NoDither.Quantize(m, dst, len(p), false, true)
	}
	return dst
}

// padPalette extends p to exactly n entries with colors the palette does
// not already contain. Median cut can come up short when the source
// image has fewer distinct colors than asked for, and a padded entry
// must not collide with a real one once alpha is ignored.
func padPalette(p color.Palette, n int) color.Palette {
	used := make(map[uint32]struct{}, len(p))
	for _, c := range p {
		used[colorKey(c)] = struct{}{}
	}
	for v := uint32(0); len(p) < n; v++ {
		c := color.RGBA{uint8(v >> 16), uint8(v >> 8 & 0xff), uint8(v & 0xff), 0xff}
		if _, ok := used[colorKey(c)]; ok {
			continue
		}
		used[colorKey(c)] = struct{}{}
		p = append(p, c)
	}
	return p
}
