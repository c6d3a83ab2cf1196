package sprite

import (
	"fmt"
	"strings"
)

// Format selects how packed data bytes are written in generated source.
type Format int

const (
	// Hex writes bytes as zero padded hexadecimal literals, 0x5a.
	Hex Format = iota
	// Binary writes bytes as zero padded binary literals, 0b01011010.
	Binary
)

// Source renders the sprite as constant declarations:
//
//	const NAME_WIDTH: u32 = 16;
//	const NAME_HEIGHT: u32 = 24;
//	const NAME_FLAGS: u32 = 0; // BLIT_1BPP
//	const NAME: [u8; 48] = [0x00, ...];
//
// NAME is the sanitized sprite name. Every line ends with a newline.
func (s *Sprite) Source(f Format) string {
	name := Sanitize(s.name)

	var b strings.Builder
	fmt.Fprintf(&b, "const %s_WIDTH: u32 = %d;\n", name, s.width)
	fmt.Fprintf(&b, "const %s_HEIGHT: u32 = %d;\n", name, s.height)
	fmt.Fprintf(&b, "const %s_FLAGS: u32 = %d; // %s\n", name, uint32(s.flags), s.flags)
	fmt.Fprintf(&b, "const %s: [u8; %d] = [", name, len(s.data))
	for i, d := range s.data {
		if i > 0 {
			b.WriteString(", ")
		}
		if f == Binary {
			fmt.Fprintf(&b, "0b%08b", d)
		} else {
			fmt.Fprintf(&b, "0x%02x", d)
		}
	}
	b.WriteString("];\n")

	return b.String()
}
