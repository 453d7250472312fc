package asterix

import "github.com/asterix-watch/decoder/internal/bitio"

// readFSPEC reads the Field Specification starting at pos: a sequence
// of octets whose bits 7..1 (MSB-first) are presence bits for
// FRN = 7*(k-1)+1 .. 7*(k-1)+7, and whose bit 0 is the FX continuation
// bit. It stops at the first octet whose FX bit is clear, or when the
// cursor is exhausted before a full octet is available. It never
// returns an error: running out of body mid-FSPEC simply ends the
// bitmap, per spec.
func readFSPEC(c bitio.Cursor, pos int) (frns []int, bitsConsumed int) {
	frn := 1
	used := 0
	for {
		if c.Remaining(pos+used) < 8 {
			break
		}
		octet, _ := c.LoadUnsigned(pos+used, 8)
		for i := 0; i < 7; i++ {
			bit := (octet >> uint(7-i)) & 1
			if bit != 0 {
				frns = append(frns, frn)
			}
			frn++
		}
		fx := octet & 1
		used += 8
		if fx == 0 {
			break
		}
	}
	return frns, used
}
