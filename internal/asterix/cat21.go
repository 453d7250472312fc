package asterix

import (
	"github.com/asterix-watch/decoder/internal/bitio"
)

var atpTable = []string{
	"24-Bit ICAO address",
	"Duplicate address",
	"Surface vehicle address",
	"Anonymous address",
}

var arcTable = []string{"25 ft", "100 ft", "Unknown", "invalid"}

// TargetReportDescriptorCat21 is I021/040: ATP/ARC/RC/RAB plus the
// optional GBS bit carried in the first extension octet.
type TargetReportDescriptorCat21 struct {
	ATPDescription string
	ARCDescription string
	RCDescription  string
	RABDescription string
	GBS            *uint8
}

// decodeTargetReportDescriptorCat21 decodes I021/040's byte0, and when
// extended, reads the GBS bit at bit index 2 (MSB=0) of the first
// extension octet before skipping through any remaining FX-chained
// extension octets. The bit position resolves spec.md's open question
// on GBS placement in favor of the original decoder's convention.
func decodeTargetReportDescriptorCat21(c bitio.Cursor, pos int) (*TargetReportDescriptorCat21, int, error) {
	if c.Remaining(pos) < 8 {
		return nil, 0, ErrTruncated
	}
	val, _ := c.LoadUnsigned(pos, 8)
	atp := (val >> 5) & 0x7
	arc := (val >> 3) & 0x3
	rc := (val >> 2) & 1
	rab := (val >> 1) & 1
	fx := val & 1

	td := &TargetReportDescriptorCat21{
		ATPDescription: atpTable[atp],
		ARCDescription: arcTable[arc],
		RCDescription:  ternary(rc == 0, "Range Check Passed", "Range Check Failed"),
		RABDescription: ternary(rab == 1, "Report from field monitor", "Report from ADS-B transceiver"),
	}
	used := 8
	if fx == 0 {
		return td, used, nil
	}

	if c.Remaining(pos+used) >= 8 {
		bit, err := c.Bit(pos + used + 2)
		if err == nil {
			g := uint8(bit)
			td.GBS = &g
		}
	}

	for {
		if c.Remaining(pos+used) < 8 {
			break
		}
		octet, _ := c.LoadUnsigned(pos+used, 8)
		used += 8
		if octet&1 == 0 {
			break
		}
	}
	return td, used, nil
}

// decodeWGS84HighRes reads I021/130: 2x32-bit signed coordinates, LSB
// = 180 / 2^30 degrees.
func decodeWGS84HighRes(c bitio.Cursor, pos int) (lat, lon float64, bits int, err error) {
	if c.Remaining(pos) < 64 {
		return 0, 0, 0, ErrTruncated
	}
	latRaw, _ := c.LoadSigned(pos, 32)
	lonRaw, _ := c.LoadSigned(pos+32, 32)
	lsb := 180.0 / 1073741824.0
	return float64(latRaw) * lsb, float64(lonRaw) * lsb, 64, nil
}

// decodeAirSpeed reads I021/150: a 2-bit IM selector (0 = IAS in
// knots, 1 = Mach x0.001) followed by a 14-bit raw value.
func decodeAirSpeed(c bitio.Cursor, pos int) (ias, mach *float64, bits int, err error) {
	if c.Remaining(pos) < 16 {
		return nil, nil, 0, ErrTruncated
	}
	im, _ := c.LoadUnsigned(pos, 2)
	raw, _ := c.LoadUnsigned(pos+2, 14)
	switch im {
	case 0:
		v := float64(raw)
		ias = &v
	case 1:
		v := float64(raw) * 0.001
		mach = &v
	}
	return ias, mach, 16, nil
}

// decodeTimeOfReception reads a 24-bit time field identical in layout
// to decodeTimeOfDay24 but kept distinct for CAT-21's own field names.
func decodeTimeOfReception(c bitio.Cursor, pos int) (seconds float64, clock string, bits int, err error) {
	return decodeTimeOfDay24(c, pos)
}

var vfiTable = []string{"Valid", "Invalid", "Reserved", "Reserved"}
var targetStatusRabTable = []string{"Reported by ADS-B", "Reported by RBM", "Reserved", "Reserved"}
var targetStatusGbsTable = []string{"No ground bit", "Ground bit set", "Reserved", "Reserved"}
var nrmTable = []string{"Normal", "Degraded", "Reserved", "Reserved"}

// TargetStatusCat21 is I021/200.
type TargetStatusCat21 struct {
	VFIDescription string
	RABDescription string
	GBSDescription string
	NRMDescription string
}

func decodeTargetStatusCat21(c bitio.Cursor, pos int) (*TargetStatusCat21, int, error) {
	if c.Remaining(pos) < 8 {
		return nil, 0, ErrTruncated
	}
	val, _ := c.LoadUnsigned(pos, 8)
	return &TargetStatusCat21{
		VFIDescription: vfiTable[(val>>6)&0x3],
		RABDescription: targetStatusRabTable[(val>>4)&0x3],
		GBSDescription: targetStatusGbsTable[(val>>2)&0x3],
		NRMDescription: nrmTable[val&0x3],
	}, 8, nil
}

// decodeAirborneGroundVector reads I021/160: ground speed (LSB =
// 2^-14 NM/s, converted here to knots) and track angle.
func decodeAirborneGroundVector(c bitio.Cursor, pos int) (gsKts, trackDeg float64, bits int, err error) {
	if c.Remaining(pos) < 32 {
		return 0, 0, 0, ErrTruncated
	}
	rawGS, _ := c.LoadUnsigned(pos, 16)
	rawTrack, _ := c.LoadUnsigned(pos+16, 16)
	gsKts = float64(rawGS) * pow2(-14) * 3600.0
	trackDeg = float64(rawTrack) * 360.0 / 65536.0
	return gsKts, trackDeg, 32, nil
}

func pow2(exp int) float64 {
	v := 1.0
	if exp < 0 {
		for i := 0; i < -exp; i++ {
			v /= 2
		}
		return v
	}
	for i := 0; i < exp; i++ {
		v *= 2
	}
	return v
}

// decodeMetInfo reads I021/065-style compound Met Information: a
// sub-FSPEC gate octet followed by whichever of wind speed, wind
// direction, temperature and turbulence it marks present. This
// decoder does not project these sub-fields, only accounts for their
// width.
func decodeMetInfo(c bitio.Cursor, pos int) (int, error) {
	if c.Remaining(pos) < 8 {
		return 0, ErrTruncated
	}
	gate, _ := c.LoadUnsigned(pos, 8)
	used := 8
	widths := []struct {
		mask uint64
		bits int
	}{
		{0x80, 16}, // Wind Speed
		{0x40, 16}, // Wind Direction
		{0x20, 16}, // Temperature
		{0x10, 8},  // Turbulence
	}
	for _, w := range widths {
		if gate&w.mask != 0 {
			if c.Remaining(pos+used) < w.bits {
				return 0, ErrTruncated
			}
			used += w.bits
		}
	}
	return used, nil
}

// decodeReservedExpansionFieldCat21 decodes I021/RE as a 1-octet
// sub-FSPEC whose bit 7 marks a following 16-bit barometric pressure
// setting (mhPa = raw*0.1 + 800), bits 6..1 reserved, and bit 0 an FX
// continuation. When FX is set, the further sub-FSPEC octets are
// skipped as an FX chain. No REF length octet is read, and no data
// gated by bits 6..1 or by the further sub-FSPEC octets is skipped,
// so the bits consumed cover only the gate octets and the pressure.
// The original decoder this was distilled from only skipped this
// field outright; this implementation extracts the pressure value it
// carries.
func decodeReservedExpansionFieldCat21(c bitio.Cursor, pos int) (mhPa *float64, bits int, err error) {
	if c.Remaining(pos) < 8 {
		return nil, 0, ErrTruncated
	}
	gate, _ := c.LoadUnsigned(pos, 8)
	used := 8
	if gate&0x80 != 0 {
		if c.Remaining(pos+used) < 16 {
			return nil, 0, ErrTruncated
		}
		raw, _ := c.LoadUnsigned(pos+used, 16)
		v := float64(raw)*0.1 + 800.0
		mhPa = &v
		used += 16
	}
	if gate&1 != 0 {
		rest, err := skipFXChained(c, pos+used)
		if err != nil {
			return nil, 0, err
		}
		used += rest
	}
	return mhPa, used, nil
}

// Cat21 is a decoded CAT-21 ADS-B target report.
type Cat21 struct {
	SAC, SIC                       *uint8
	TargetReportDescriptor         *TargetReportDescriptorCat21
	Latitude, Longitude            *float64
	ICAOAddress                    *string
	TimeOfReceptionPosition        *float64
	UTCTime                        *string
	Mode3ACode                     *string
	FlightLevel                    *float64
	AltitudeFt, AltitudeM          *float64
	IAS, Mach                      *float64
	MagneticHeadingDeg             *float64
	TargetStatus                   *TargetStatusCat21
	GroundSpeedKts, TrackAngleDeg  *float64
	TargetIdentification           *string
	BarometricPressureHPa          *float64
}

const maxFRNCat21 = 49

// decodeCat21 decodes a CAT-21 record body (after CAT/LEN) given a
// cursor scoped to exactly the record's remaining bits.
func decodeCat21(c bitio.Cursor) (*Cat21, error) {
	pos := 0
	frns, used := readFSPEC(c, pos)
	pos += used

	rec := &Cat21{}
	for _, frn := range frns {
		if frn > maxFRNCat21 {
			return nil, ErrFRNOutOfRange
		}
		switch frn {
		case 1:
			sac, sic, bits, err := decodeDataSourceID(c, pos)
			if err != nil {
				return nil, err
			}
			rec.SAC, rec.SIC = &sac, &sic
			pos += bits
		case 2:
			td, bits, err := decodeTargetReportDescriptorCat21(c, pos)
			if err != nil {
				return nil, err
			}
			rec.TargetReportDescriptor = td
			pos += bits
		case 3:
			bits, err := skipFixedOctets(c, pos, 2)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 4:
			bits, err := skipFixedOctets(c, pos, 1)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 5:
			bits, err := skipFixedOctets(c, pos, 3)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 6:
			bits, err := skipFixedOctets(c, pos, 6)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 7:
			lat, lon, bits, err := decodeWGS84HighRes(c, pos)
			if err != nil {
				return nil, err
			}
			rec.Latitude, rec.Longitude = &lat, &lon
			pos += bits
		case 8:
			bits, err := skipFixedOctets(c, pos, 3)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 9:
			ias, mach, bits, err := decodeAirSpeed(c, pos)
			if err != nil {
				return nil, err
			}
			rec.IAS, rec.Mach = ias, mach
			pos += bits
		case 10:
			bits, err := skipFixedOctets(c, pos, 2)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 11:
			addr, bits, err := decodeAircraftAddress(c, pos)
			if err != nil {
				return nil, err
			}
			rec.ICAOAddress = &addr
			pos += bits
		case 12:
			sec, clock, bits, err := decodeTimeOfReception(c, pos)
			if err != nil {
				return nil, err
			}
			rec.TimeOfReceptionPosition, rec.UTCTime = &sec, &clock
			pos += bits
		case 13:
			bits, err := skipFixedOctets(c, pos, 4)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 14:
			bits, err := skipFixedOctets(c, pos, 3)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 15:
			bits, err := skipFixedOctets(c, pos, 4)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 16:
			bits, err := skipFixedOctets(c, pos, 2)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 17:
			bits, err := skipFXChained(c, pos)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 18:
			bits, err := skipFixedOctets(c, pos, 1)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 19:
			code, bits, err := decodeMode3AOctal(c, pos)
			if err != nil {
				return nil, err
			}
			rec.Mode3ACode = &code
			pos += bits
		case 20:
			bits, err := skipFixedOctets(c, pos, 2)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 21:
			fl, bits, err := decodeFlightLevelCat21(c, pos)
			if err != nil {
				return nil, err
			}
			rec.FlightLevel = &fl
			pos += bits
		case 22:
			hdg, bits, err := decodeMagneticHeadingCat21(c, pos)
			if err != nil {
				return nil, err
			}
			rec.MagneticHeadingDeg = &hdg
			pos += bits
		case 23:
			ts, bits, err := decodeTargetStatusCat21(c, pos)
			if err != nil {
				return nil, err
			}
			rec.TargetStatus = ts
			pos += bits
		case 24:
			bits, err := skipFixedOctets(c, pos, 2)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 25:
			bits, err := skipFixedOctets(c, pos, 2)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 26:
			gs, track, bits, err := decodeAirborneGroundVector(c, pos)
			if err != nil {
				return nil, err
			}
			rec.GroundSpeedKts, rec.TrackAngleDeg = &gs, &track
			pos += bits
		case 27:
			bits, err := skipFixedOctets(c, pos, 2)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 28:
			bits, err := skipFixedOctets(c, pos, 3)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 29:
			id, bits, err := decodeIdentification(c, pos)
			if err != nil {
				return nil, err
			}
			rec.TargetIdentification = &id
			pos += bits
		case 30:
			bits, err := skipFixedOctets(c, pos, 1)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 31:
			bits, err := decodeMetInfo(c, pos)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 32:
			bits, err := skipFixedOctets(c, pos, 2)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 33:
			bits, err := skipFixedOctets(c, pos, 2)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 34:
			bits, err := skipREPPrefixed(c, pos, 15)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 35:
			bits, err := skipFixedOctets(c, pos, 1)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 36:
			bits, err := skipFixedOctets(c, pos, 1)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 37:
			bits, err := skipFXChained(c, pos)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 38:
			bits, err := skipFixedOctets(c, pos, 1)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 39:
			bits, err := skipREPPrefixed(c, pos, 8)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 40:
			bits, err := skipFixedOctets(c, pos, 7)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 41:
			bits, err := skipFixedOctets(c, pos, 1)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 42:
			bits, err := skipFXChained(c, pos)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 43, 44, 45, 46, 47:
			bits, err := skipFXChained(c, pos)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 48:
			mhPa, bits, err := decodeReservedExpansionFieldCat21(c, pos)
			if err != nil {
				return nil, err
			}
			rec.BarometricPressureHPa = mhPa
			pos += bits
		case 49:
			bits, err := skipFXChained(c, pos)
			if err != nil {
				return nil, err
			}
			pos += bits
		}
	}

	deriveCat21(rec)
	return rec, nil
}

// decodeMagneticHeadingCat21 reads I021/380's magnetic heading,
// identical in layout to decodeCalcPolarVelocity's heading half but
// kept as its own 16-bit decoder since CAT-21 carries it alone.
func decodeMagneticHeadingCat21(c bitio.Cursor, pos int) (float64, int, error) {
	if c.Remaining(pos) < 16 {
		return 0, 0, ErrTruncated
	}
	raw, _ := c.LoadUnsigned(pos, 16)
	return float64(raw) * 360.0 / 65536.0, 16, nil
}

// deriveCat21 applies the post-decode derivations: altitude from
// flight level plus optional barometric pressure setting (the QNH
// correction, I021/021/150 is independent of I021/040's GBS bit and
// may be read from FRN 48 after FRN 21), and ground-bit altitude
// pinning when flight level is absent but GBS=1. Both derivations
// run after the full FSPEC has been walked, since the pressure
// setting can arrive out of field order relative to flight level.
// Derivations never overwrite a value already decoded from the wire.
func deriveCat21(rec *Cat21) {
	if rec.FlightLevel != nil {
		ft := *rec.FlightLevel * 100.0
		if rec.BarometricPressureHPa != nil {
			ft += (1013.25 - *rec.BarometricPressureHPa) * 30.0
		}
		m := ft * 0.3048
		rec.AltitudeFt, rec.AltitudeM = &ft, &m
		return
	}
	if rec.TargetReportDescriptor != nil && rec.TargetReportDescriptor.GBS != nil && *rec.TargetReportDescriptor.GBS == 1 {
		zero := 0.0
		rec.FlightLevel, rec.AltitudeFt, rec.AltitudeM = &zero, &zero, &zero
	}
}

// Fields projects Cat21 into the stable human-readable name/value bag
// spec.md §6 requires for downstream serialization.
func (r *Cat21) Fields() map[string]any {
	f := map[string]any{}
	if r.SAC != nil {
		f["SAC"] = *r.SAC
	}
	if r.SIC != nil {
		f["SIC"] = *r.SIC
	}
	if td := r.TargetReportDescriptor; td != nil {
		f["ATP Description"] = td.ATPDescription
		f["ARC Description"] = td.ARCDescription
		f["RC Description"] = td.RCDescription
		f["RAB Description"] = td.RABDescription
		if td.GBS != nil {
			f["GBS"] = *td.GBS
		}
	}
	if r.Latitude != nil {
		f["Latitude (deg)"] = *r.Latitude
	}
	if r.Longitude != nil {
		f["Longitude (deg)"] = *r.Longitude
	}
	if r.ICAOAddress != nil {
		f["ICAO Address (hex)"] = *r.ICAOAddress
	}
	if r.TimeOfReceptionPosition != nil {
		f["Time (s since midnight)"] = *r.TimeOfReceptionPosition
	}
	if r.UTCTime != nil {
		f["UTC Time (HH:MM:SS)"] = *r.UTCTime
	}
	if r.Mode3ACode != nil {
		f["Mode-3/A Code"] = *r.Mode3ACode
	}
	if r.FlightLevel != nil {
		f["Flight Level (FL)"] = *r.FlightLevel
	}
	if r.AltitudeFt != nil {
		f["Altitude (ft)"] = *r.AltitudeFt
	}
	if r.AltitudeM != nil {
		f["Altitude (m)"] = *r.AltitudeM
	}
	if r.IAS != nil {
		f["IAS (kt)"] = *r.IAS
	}
	if r.Mach != nil {
		f["Mach"] = *r.Mach
	}
	if r.MagneticHeadingDeg != nil {
		f["Magnetic Heading (deg)"] = *r.MagneticHeadingDeg
	}
	if ts := r.TargetStatus; ts != nil {
		f["Target Status VFI"] = ts.VFIDescription
		f["Target Status RAB"] = ts.RABDescription
		f["Target Status GBS"] = ts.GBSDescription
		f["Target Status NRM"] = ts.NRMDescription
	}
	if r.GroundSpeedKts != nil {
		f["Ground Speed (kts)"] = *r.GroundSpeedKts
	}
	if r.TrackAngleDeg != nil {
		f["Track Angle (deg)"] = *r.TrackAngleDeg
	}
	if r.TargetIdentification != nil {
		f["Target Identification"] = *r.TargetIdentification
	}
	if r.BarometricPressureHPa != nil {
		f["Barometric Pressure Setting"] = *r.BarometricPressureHPa
	}
	return f
}
