package asterix

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/asterix-watch/decoder/internal/bitio"
)

// degToRad converts degrees to radians for the CAT-48 geodesic
// projection derivation.
const degToRad = math.Pi / 180.0

// clamp restricts v to [lo, hi], guarding the elevation-angle arcsin
// in the projection derivation against rounding error pushing its
// argument fractionally outside [-1, 1].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func asin(v float64) float64 {
	return math.Asin(v)
}

// ErrTruncated marks a field whose declared width runs past the end
// of the record body; it always aborts the record.
var ErrTruncated = errors.New("asterix: truncated field")

// ErrFRNOutOfRange marks a present FRN beyond the highest one the
// category defines; it always aborts the record.
var ErrFRNOutOfRange = errors.New("asterix: FRN beyond supported range")

// sixBitChar maps one code of the ICAO 6-bit character set shared by
// Aircraft/Target Identification fields in both categories.
func sixBitChar(code uint64) byte {
	switch {
	case code >= 1 && code <= 26:
		return byte('A' + code - 1)
	case code == 32:
		return ' '
	case code >= 48 && code <= 57:
		return byte(code)
	default:
		return ' '
	}
}

// decodeIdentification unpacks 8 six-bit characters (48 bits) using
// the ICAO alphabet and trims trailing spaces.
func decodeIdentification(c bitio.Cursor, pos int) (string, int, error) {
	if c.Remaining(pos) < 48 {
		return "", 0, ErrTruncated
	}
	var b strings.Builder
	for i := 0; i < 8; i++ {
		code, err := c.LoadUnsigned(pos+i*6, 6)
		if err != nil {
			return "", 0, ErrTruncated
		}
		b.WriteByte(sixBitChar(code))
	}
	return strings.TrimRight(b.String(), " "), 48, nil
}

// decodeDataSourceID reads SAC/SIC (16 bits).
func decodeDataSourceID(c bitio.Cursor, pos int) (sac, sic uint8, bits int, err error) {
	if c.Remaining(pos) < 16 {
		return 0, 0, 0, ErrTruncated
	}
	s, _ := c.LoadUnsigned(pos, 8)
	i, _ := c.LoadUnsigned(pos+8, 8)
	return uint8(s), uint8(i), 16, nil
}

// decodeTimeOfDay24 reads a 24-bit unsigned time-of-day field
// (1/128s resolution) and renders both the raw seconds value and an
// "HH:MM:SS.mmm" wall-clock string, big-endian per spec.md §9.
func decodeTimeOfDay24(c bitio.Cursor, pos int) (seconds float64, clock string, bits int, err error) {
	if c.Remaining(pos) < 24 {
		return 0, "", 0, ErrTruncated
	}
	raw, _ := c.LoadUnsigned(pos, 24)
	seconds = float64(raw) / 128.0
	return seconds, formatClock(seconds), 24, nil
}

func formatClock(totalSeconds float64) string {
	wrapped := totalSeconds
	for wrapped >= 86400 {
		wrapped -= 86400
	}
	h := int(wrapped) / 3600 % 24
	m := int(wrapped) / 60 % 60
	s := wrapped - float64(h*3600+m*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", h, m, s)
}

// decodeSlantPolar reads the 32-bit slant-polar measurement.
func decodeSlantPolar(c bitio.Cursor, pos int) (rangeNM, rangeM, thetaDeg float64, bits int, err error) {
	if c.Remaining(pos) < 32 {
		return 0, 0, 0, 0, ErrTruncated
	}
	rawRange, _ := c.LoadUnsigned(pos, 16)
	rawTheta, _ := c.LoadUnsigned(pos+16, 16)
	rangeNM = float64(rawRange) / 256.0
	rangeM = rangeNM * 1852.0
	thetaDeg = float64(rawTheta) * 360.0 / 65536.0
	return rangeNM, rangeM, thetaDeg, 32, nil
}

// decodeMode3AOctal reads a 16-bit field whose low 12 bits are 4
// octal digits and renders them as a 4-character string.
func decodeMode3AOctal(c bitio.Cursor, pos int) (code string, bits int, err error) {
	if c.Remaining(pos) < 16 {
		return "", 0, ErrTruncated
	}
	raw, _ := c.LoadUnsigned(pos, 16)
	v := raw & 0x0FFF
	a := (v >> 9) & 0x7
	b := (v >> 6) & 0x7
	cc := (v >> 3) & 0x7
	d := v & 0x7
	return fmt.Sprintf("%d%d%d%d", a, b, cc, d), 16, nil
}

// decodeFlightLevelCat48 reads I048/090: a 14-bit flight level value
// with validated/garbled flag bits in the top 2 bits of the octet
// pair.
func decodeFlightLevelCat48(c bitio.Cursor, pos int) (fl float64, bits int, err error) {
	if c.Remaining(pos) < 16 {
		return 0, 0, ErrTruncated
	}
	raw, _ := c.LoadUnsigned(pos, 16)
	v := int64(raw & 0x3FFF)
	if raw&0x2000 != 0 {
		v = -(((^v) + 1) & 0x3FFF)
	}
	return float64(v) / 4.0, 16, nil
}

// decodeFlightLevelCat21 reads I021/145: a plain signed 16-bit flight
// level, LSB = 1/4 FL.
func decodeFlightLevelCat21(c bitio.Cursor, pos int) (fl float64, bits int, err error) {
	if c.Remaining(pos) < 16 {
		return 0, 0, ErrTruncated
	}
	raw, _ := c.LoadSigned(pos, 16)
	return float64(raw) / 4.0, 16, nil
}

// decodeAircraftAddress reads a 24-bit ICAO address, rendered as a
// zero-padded 6-hex-digit upper-case string.
func decodeAircraftAddress(c bitio.Cursor, pos int) (addr string, bits int, err error) {
	if c.Remaining(pos) < 24 {
		return "", 0, ErrTruncated
	}
	raw, _ := c.LoadUnsigned(pos, 24)
	return fmt.Sprintf("%06X", raw), 24, nil
}

// decodeTrackNumber reads the low 12 bits of a 16-bit field.
func decodeTrackNumber(c bitio.Cursor, pos int) (tn uint16, bits int, err error) {
	if c.Remaining(pos) < 16 {
		return 0, 0, ErrTruncated
	}
	raw, _ := c.LoadUnsigned(pos, 16)
	return uint16(raw & 0x0FFF), 16, nil
}

// decodeCalcPolarVelocity reads I048/202: ground speed (LSB 0.22 kt)
// and heading (LSB 360/2^16 deg).
func decodeCalcPolarVelocity(c bitio.Cursor, pos int) (gsKts, headingDeg float64, bits int, err error) {
	if c.Remaining(pos) < 32 {
		return 0, 0, 0, ErrTruncated
	}
	rawGS, _ := c.LoadUnsigned(pos, 16)
	rawHdg, _ := c.LoadUnsigned(pos+16, 16)
	gsKts = float64(rawGS) * 0.22
	headingDeg = float64(rawHdg) * 360.0 / 65536.0
	return gsKts, headingDeg, 32, nil
}

// RadarPlotCharacteristics is I048/130's sub-FSPEC-gated set of
// scalars.
type RadarPlotCharacteristics struct {
	SSRPlotRunlengthDeg    *float64
	RepliesSSR             *uint8
	AmplitudeMSSRReply     *uint8
	PrimaryPlotRunlengthDeg *float64
	AmplitudePrimaryPlot   *uint8
	RangePSRSSR            *float64
	AzimuthPSRSSR          *float64
}

// decodeRadarPlotCharacteristics reads the 1-octet gate plus its
// present 8-bit followers.
func decodeRadarPlotCharacteristics(c bitio.Cursor, pos int) (*RadarPlotCharacteristics, int, error) {
	if c.Remaining(pos) < 8 {
		return nil, 0, ErrTruncated
	}
	gate, _ := c.LoadUnsigned(pos, 8)
	used := 8
	rpc := &RadarPlotCharacteristics{}

	readOctet := func() (uint64, error) {
		if c.Remaining(pos+used) < 8 {
			return 0, ErrTruncated
		}
		v, _ := c.LoadUnsigned(pos+used, 8)
		used += 8
		return v, nil
	}

	if gate&0x80 != 0 {
		v, err := readOctet()
		if err != nil {
			return nil, 0, err
		}
		f := float64(v) * 360.0 / 8192.0
		rpc.SSRPlotRunlengthDeg = &f
	}
	if gate&0x40 != 0 {
		v, err := readOctet()
		if err != nil {
			return nil, 0, err
		}
		u := uint8(v)
		rpc.RepliesSSR = &u
	}
	if gate&0x20 != 0 {
		v, err := readOctet()
		if err != nil {
			return nil, 0, err
		}
		u := uint8(v)
		rpc.AmplitudeMSSRReply = &u
	}
	if gate&0x10 != 0 {
		v, err := readOctet()
		if err != nil {
			return nil, 0, err
		}
		f := float64(v) * 360.0 / 8192.0
		rpc.PrimaryPlotRunlengthDeg = &f
	}
	if gate&0x08 != 0 {
		v, err := readOctet()
		if err != nil {
			return nil, 0, err
		}
		u := uint8(v)
		rpc.AmplitudePrimaryPlot = &u
	}
	if gate&0x04 != 0 {
		v, err := readOctet()
		if err != nil {
			return nil, 0, err
		}
		f := float64(v) / 256.0
		rpc.RangePSRSSR = &f
	}
	if gate&0x02 != 0 {
		v, err := readOctet()
		if err != nil {
			return nil, 0, err
		}
		f := float64(v) * 360.0 / 16384.0
		rpc.AzimuthPSRSSR = &f
	}
	return rpc, used, nil
}

// TrackStatus is I048/170's (CAT-48) status octet(s).
type TrackStatus struct {
	ConfirmedTentative string
	SensorType         string
	DOU                bool
	ManoeuvreHorizontal bool
	ClimbDescend       string
	EndOfTrack         *bool
	Ghost              *bool
	SUP                *bool
	TCC                *bool
}

func decodeTrackStatus(c bitio.Cursor, pos int) (*TrackStatus, int, error) {
	if c.Remaining(pos) < 8 {
		return nil, 0, ErrTruncated
	}
	octet1, _ := c.LoadUnsigned(pos, 8)
	sensorTypes := []string{"Combined Track", "PSR Track", "SSR/Mode S Track", "Invalid"}
	climbDesc := []string{"Maintaining", "Climbing", "Descending", "Unknown"}
	ts := &TrackStatus{
		ConfirmedTentative: ternary(octet1&0x80 != 0, "Confirmed", "Tentative"),
		SensorType:         sensorTypes[(octet1>>5)&0x3],
		DOU:                octet1&0x10 != 0,
		ManoeuvreHorizontal: octet1&0x08 != 0,
		ClimbDescend:       climbDesc[(octet1>>1)&0x3],
	}
	used := 8
	if octet1&1 != 0 {
		if c.Remaining(pos+used) < 8 {
			return nil, 0, ErrTruncated
		}
		octet2, _ := c.LoadUnsigned(pos+used, 8)
		eot := octet2&0x80 != 0
		ghost := octet2&0x40 != 0
		sup := octet2&0x20 != 0
		tcc := octet2&0x10 != 0
		ts.EndOfTrack = &eot
		ts.Ghost = &ghost
		ts.SUP = &sup
		ts.TCC = &tcc
		used += 8
	}
	return ts, used, nil
}

func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

// ComAcasFS is I048/230's Com/ACAS capability and flight status.
type ComAcasFS struct {
	CommCapability                        string
	FlightStatus                          string
	SiII                                  string
	ModeSSpecificServiceCapability        bool
	AltitudeReportingCapability           bool
	AircraftIdentificationCapability      bool
	ACASOperational                       bool
	HybridSurveillance                    bool
	TARA                                  string
	ApplicableMOPSDoc                     string
}

var commCapabilityTable = []string{
	"No com",
	"Comm A and B",
	"Comm A,B and Uplink ELM",
	"Comm A,B and Uplink ELM and Downlink",
	"Level 5 Transponder Capability",
	"Not assigned",
	"Not assigned",
	"Not assigned",
}

var flightStatusTable = []string{
	"No alert, no SPI, airborne",
	"No alert, no SPI, on ground",
	"Alert, no SPI, airborne",
	"Alert, no SPI, on ground",
	"Alert, SPI, airborne or ground",
	"No alert, SPI, airborne or ground",
	"Not assigned",
	"Unknown",
}

var mopsTable = []string{
	"RTCA DO-185",
	"RTCA DO-185A",
	"RTCA DO-185B",
	"Reserved For Future Versions",
}

func decodeComAcasFS(c bitio.Cursor, pos int) (*ComAcasFS, int, error) {
	if c.Remaining(pos) < 16 {
		return nil, 0, ErrTruncated
	}
	octet1, _ := c.LoadUnsigned(pos, 8)
	octet2, _ := c.LoadUnsigned(pos+8, 8)

	commIdx := octet1 >> 5
	statIdx := (octet1 >> 2) & 0x7
	siII := octet1&0x02 != 0

	mssc := octet2&0x80 != 0
	arc := octet2&0x40 != 0
	aic := octet2&0x20 != 0
	acasStat := octet2&0x10 != 0
	hybrid := octet2&0x08 != 0
	taRa := octet2&0x04 != 0
	mopsIdx := octet2 & 0x3

	return &ComAcasFS{
		CommCapability:                   commCapabilityTable[commIdx],
		FlightStatus:                     flightStatusTable[statIdx],
		SiII:                             ternary(siII, "II", "SI"),
		ModeSSpecificServiceCapability:   mssc,
		AltitudeReportingCapability:      arc,
		AircraftIdentificationCapability: aic,
		ACASOperational:                  acasStat,
		HybridSurveillance:               hybrid,
		TARA:                             ternary(taRa, "TA and RA", "TA"),
		ApplicableMOPSDoc:                mopsTable[mopsIdx],
	}, 16, nil
}

// skipFixedOctets advances past a fixed-width field whose value the
// decoder does not project, still bounds-checked against truncation.
func skipFixedOctets(c bitio.Cursor, pos int, octets int) (int, error) {
	bits := octets * 8
	if c.Remaining(pos) < bits {
		return 0, ErrTruncated
	}
	return bits, nil
}

// skipFXChained advances past a variable-length field terminated by
// an FX bit at the LSB of each octet, the same continuation protocol
// FSPEC uses.
func skipFXChained(c bitio.Cursor, pos int) (int, error) {
	used := 0
	for {
		if c.Remaining(pos+used) < 8 {
			return 0, ErrTruncated
		}
		octet, _ := c.LoadUnsigned(pos+used, 8)
		used += 8
		if octet&1 == 0 {
			break
		}
	}
	return used, nil
}

// skipREPPrefixed advances past an 8-bit REP count followed by
// REP*octetsPerItem octets.
func skipREPPrefixed(c bitio.Cursor, pos int, octetsPerItem int) (int, error) {
	if c.Remaining(pos) < 8 {
		return 0, ErrTruncated
	}
	rep, _ := c.LoadUnsigned(pos, 8)
	total := 8 + int(rep)*octetsPerItem*8
	if c.Remaining(pos) < total {
		return 0, ErrTruncated
	}
	return total, nil
}
