package sprite

import (
	"image/color"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlags(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint32(0), uint32(Blit1BPP))
	require.Equal(t, uint32(1), uint32(Blit2BPP))
	require.Equal(t, "BLIT_1BPP", Blit1BPP.String())
	require.Equal(t, "BLIT_2BPP", Blit2BPP.String())
	require.Equal(t, 1, Blit1BPP.BitsPerPixel())
	require.Equal(t, 2, Blit2BPP.BitsPerPixel())
}

func TestSpriteCompare(t *testing.T) {
	t.Parallel()

	sprites := []*Sprite{
		New("b", 8, 8, Blit1BPP, []byte{0x01}),
		New("a", 8, 8, Blit2BPP, []byte{0xff}),
		New("a", 8, 8, Blit1BPP, []byte{0x02}),
		New("a", 8, 8, Blit1BPP, []byte{0x01}),
		New("a", 4, 8, Blit1BPP, []byte{0x01}),
	}

	slices.SortFunc(sprites, (*Sprite).Compare)

	names := make([]string, len(sprites))
	for i, s := range sprites {
		names[i] = s.Name()
	}
	require.Equal(t, []string{"a", "a", "a", "a", "b"}, names)

	require.Equal(t, uint32(4), sprites[0].Width())
	require.Equal(t, []byte{0x01}, sprites[1].Data())
	require.Equal(t, []byte{0x02}, sprites[2].Data())
	require.Equal(t, Blit2BPP, sprites[3].Flags())
}

func TestParsePalette(t *testing.T) {
	t.Parallel()

	p, err := ParsePalette([]string{"#e0f8cf", "86c06c", "#306850", "#071821"})
	require.NoError(t, err)
	require.Equal(t, DefaultPalette, p)

	p, err = ParsePalette([]string{"#FFcc00"})
	require.NoError(t, err)
	require.Equal(t, color.Palette{color.RGBA{0xff, 0xcc, 0x00, 0xff}}, p)

	for _, bad := range []string{"", "#12345", "#1234567", "not-hex"} {
		_, err := ParsePalette([]string{bad})
		require.Error(t, err, "color %q", bad)
	}
}
