package asterix

import (
	"github.com/asterix-watch/decoder/internal/bitio"
	"github.com/asterix-watch/decoder/internal/geodesy"
)

// ErrorKind classifies a stream-terminating decode failure for the
// diagnostics sink.
type ErrorKind int

const (
	// ErrKindTruncation: the buffer ended before a required field
	// could be completed.
	ErrKindTruncation ErrorKind = iota
	// ErrKindMalformedHeader: LEN < 3, LEN overflows the remaining
	// buffer, or a present FRN exceeds the category's defined range.
	ErrKindMalformedHeader
)

// DiagnosticEvent describes why stream decoding stopped before
// exhausting the buffer. The core decoder does not log; the caller's
// diagnostics sink, if any, receives at most one event per stream, and
// none when framing stops at the end of the buffer or at the limit.
type DiagnosticEvent struct {
	Kind     ErrorKind
	Category uint8
	BitPos   int
	Err      error
}

// DecodeStream decodes every ASTERIX message in data starting at bit
// 0. It returns every record successfully framed before the first
// truncation or malformed-header condition; both conditions terminate
// framing at the current position rather than attempting recovery,
// per the stream's non-goal of mid-record corruption recovery.
// limit, if non-zero, caps the count of CAT-21/CAT-48 records decoded
// (categories outside {21, 48} are recorded as Unsupported but do not
// count against it). diag, if non-nil, is called at most once with
// the condition that ended framing.
func DecodeStream(data []byte, site *geodesy.Site, limit int, diag func(DiagnosticEvent)) []Record {
	c := bitio.New(data)
	var records []Record
	pos := 0
	decoded := 0

	for c.Remaining(pos) >= 24 {
		if limit > 0 && decoded >= limit {
			break
		}

		cat, _ := c.LoadUnsigned(pos, 8)
		lenRaw, _ := c.LoadUnsigned(pos+8, 16)
		length := int(lenRaw & 0x7FFF)

		if length < 3 {
			if diag != nil {
				diag(DiagnosticEvent{Kind: ErrKindMalformedHeader, Category: uint8(cat), BitPos: pos})
			}
			break
		}

		dataEnd := pos + length*8
		if dataEnd > c.LenBits() {
			if diag != nil {
				diag(DiagnosticEvent{Kind: ErrKindMalformedHeader, Category: uint8(cat), BitPos: pos})
			}
			break
		}

		bodyBits := dataEnd - (pos + 24)
		body, err := c.Subview(pos+24, bodyBits)
		if err != nil {
			if diag != nil {
				diag(DiagnosticEvent{Kind: ErrKindMalformedHeader, Category: uint8(cat), BitPos: pos, Err: err})
			}
			break
		}

		switch cat {
		case 21:
			rec, err := decodeCat21(body)
			if err != nil {
				if diag != nil {
					diag(diagnosticFor(err, uint8(cat), pos))
				}
				return records
			}
			records = append(records, Record{Kind: KindCat21, Category: uint8(cat), Cat21: rec})
			decoded++
		case 48:
			rec, err := decodeCat48(body, site)
			if err != nil {
				if diag != nil {
					diag(diagnosticFor(err, uint8(cat), pos))
				}
				return records
			}
			records = append(records, Record{Kind: KindCat48, Category: uint8(cat), Cat48: rec})
			decoded++
		default:
			records = append(records, Record{Kind: KindUnsupported, Category: uint8(cat)})
		}

		pos = dataEnd
	}

	return records
}

// diagnosticFor classifies a field-decode error into the stream's
// two terminating error kinds.
func diagnosticFor(err error, category uint8, bitPos int) DiagnosticEvent {
	kind := ErrKindTruncation
	if err == ErrFRNOutOfRange {
		kind = ErrKindMalformedHeader
	}
	return DiagnosticEvent{Kind: kind, Category: category, BitPos: bitPos, Err: err}
}
