package asterix

import "github.com/asterix-watch/decoder/internal/bitio"

// BDS40 is Comm-B register 4,0 (Selected Vertical Intention).
type BDS40 struct {
	StatusMCP       bool
	MCPAltFt        float64
	StatusFMS       bool
	FMSAltFt        float64
	StatusBar       bool
	BarPressureHPa  float64
	StatusMCPMode   bool
	VNAV            bool
	AltHold         bool
	Approach        bool
	StatusTarget    bool
	TargetAltSource string
}

var targetAltSourceTable = []string{"Unknown", "Aircraft Altitude", "MCP/FCU", "FMS"}

// decodeBDS40 decodes the 56 payload bits of a BDS 4,0 register.
func decodeBDS40(c bitio.Cursor, pos int) (BDS40, error) {
	if c.Remaining(pos) < 56 {
		return BDS40{}, ErrTruncated
	}
	statusMCP, _ := c.Bit(pos + 0)
	mcpAlt, _ := c.LoadUnsigned(pos+1, 12)
	statusFMS, _ := c.Bit(pos + 13)
	fmsAlt, _ := c.LoadUnsigned(pos+14, 12)
	statusBar, _ := c.Bit(pos + 26)
	barPress, _ := c.LoadUnsigned(pos+27, 12)
	statusMCPMode, _ := c.Bit(pos + 47)
	vnav, _ := c.Bit(pos + 48)
	altHold, _ := c.Bit(pos + 49)
	approach, _ := c.Bit(pos + 50)
	statusTarget, _ := c.Bit(pos + 53)
	targetAltIdx, _ := c.LoadUnsigned(pos+54, 2)

	return BDS40{
		StatusMCP:       statusMCP == 1,
		MCPAltFt:        float64(mcpAlt) * 16.0,
		StatusFMS:       statusFMS == 1,
		FMSAltFt:        float64(fmsAlt) * 16.0,
		StatusBar:       statusBar == 1,
		BarPressureHPa:  float64(barPress)*0.1 + 800.0,
		StatusMCPMode:   statusMCPMode == 1,
		VNAV:            vnav == 1,
		AltHold:         altHold == 1,
		Approach:        approach == 1,
		StatusTarget:    statusTarget == 1,
		TargetAltSource: targetAltSourceTable[targetAltIdx],
	}, nil
}

// BDS50 is Comm-B register 5,0 (Track and Turn Report).
type BDS50 struct {
	StatusRoll    bool
	RollAngleDeg  float64
	StatusTrack   bool
	TrackAngleDeg float64
	StatusGS      bool
	GroundSpeedKt float64
	StatusTARate  bool
	TARateDegS    float64
	StatusTAS     bool
	TASKt         float64
}

// decodeBDS50 decodes the 56 payload bits of a BDS 5,0 register. Each
// 10-bit sub-field is sign-extended via BitCursor.LoadSigned rather
// than the load-then-subtract idiom the Rust prototype uses.
func decodeBDS50(c bitio.Cursor, pos int) (BDS50, error) {
	if c.Remaining(pos) < 56 {
		return BDS50{}, ErrTruncated
	}
	statusRoll, _ := c.Bit(pos + 0)
	roll, _ := c.LoadSigned(pos+1, 10)
	statusTrack, _ := c.Bit(pos + 11)
	track, _ := c.LoadSigned(pos+12, 11)
	statusGS, _ := c.Bit(pos + 23)
	gs, _ := c.LoadSigned(pos+24, 10)
	statusTARate, _ := c.Bit(pos + 34)
	taRate, _ := c.LoadSigned(pos+35, 10)
	statusTAS, _ := c.Bit(pos + 45)
	tas, _ := c.LoadSigned(pos+46, 10)

	return BDS50{
		StatusRoll:    statusRoll == 1,
		RollAngleDeg:  float64(roll) * 45.0 / 256.0,
		StatusTrack:   statusTrack == 1,
		TrackAngleDeg: float64(track) * 90.0 / 512.0,
		StatusGS:      statusGS == 1,
		GroundSpeedKt: float64(gs) * 2.0,
		StatusTARate:  statusTARate == 1,
		TARateDegS:    float64(taRate) * 8.0 / 256.0,
		StatusTAS:     statusTAS == 1,
		TASKt:         float64(tas) * 2.0,
	}, nil
}

// BDS60 is Comm-B register 6,0 (Heading and Speed Report).
type BDS60 struct {
	StatusMagHeading bool
	MagHeadingDeg    float64
	StatusIAS        bool
	IASKt            float64
	StatusMach       bool
	Mach             float64
	StatusBarRate    bool
	BarRateFtMin     float64
	StatusInertVV    bool
	InertVVFtMin     float64
}

// decodeBDS60 decodes the 56 payload bits of a BDS 6,0 register.
func decodeBDS60(c bitio.Cursor, pos int) (BDS60, error) {
	if c.Remaining(pos) < 56 {
		return BDS60{}, ErrTruncated
	}
	statusMagH, _ := c.Bit(pos + 0)
	magH, _ := c.LoadSigned(pos+1, 11)
	statusIAS, _ := c.Bit(pos + 12)
	ias, _ := c.LoadUnsigned(pos+13, 10)
	statusMach, _ := c.Bit(pos + 23)
	mach, _ := c.LoadUnsigned(pos+24, 10)
	statusBarRate, _ := c.Bit(pos + 34)
	barRate, _ := c.LoadSigned(pos+35, 10)
	statusInertVV, _ := c.Bit(pos + 45)
	inertVV, _ := c.LoadSigned(pos+46, 10)

	return BDS60{
		StatusMagHeading: statusMagH == 1,
		MagHeadingDeg:    float64(magH) * 90.0 / 512.0,
		StatusIAS:        statusIAS == 1,
		IASKt:            float64(ias),
		StatusMach:       statusMach == 1,
		Mach:             float64(mach) * 2.048 / 512.0,
		StatusBarRate:    statusBarRate == 1,
		BarRateFtMin:     float64(barRate) * 32.0,
		StatusInertVV:    statusInertVV == 1,
		InertVVFtMin:     float64(inertVV) * 32.0,
	}, nil
}

// ModeSMBData is I048/250: a REP-prefixed list of 64-bit Comm-B
// blocks, each dispatched to a BDS sub-decoder by its trailing
// 4-bit/4-bit BDS1/BDS2 identifier.
type ModeSMBData struct {
	Repetition uint8
	BDS40      *BDS40
	BDS50      *BDS50
	BDS60      *BDS60
}

// decodeModeSMBData reads the REP count and each 64-bit block,
// keeping only the BDS 4,0 / 5,0 / 6,0 registers this decoder
// recognizes; unrecognized registers are consumed but not projected.
func decodeModeSMBData(c bitio.Cursor, pos int) (*ModeSMBData, int, error) {
	if c.Remaining(pos) < 8 {
		return nil, 0, ErrTruncated
	}
	rep, _ := c.LoadUnsigned(pos, 8)
	used := 8
	total := 8 + int(rep)*64
	if c.Remaining(pos) < total {
		return nil, 0, ErrTruncated
	}

	mb := &ModeSMBData{Repetition: uint8(rep)}
	for i := 0; i < int(rep); i++ {
		blockPos := pos + used
		bds1, _ := c.LoadUnsigned(blockPos+56, 4)
		bds2, _ := c.LoadUnsigned(blockPos+60, 4)
		switch {
		case bds1 == 4 && bds2 == 0:
			v, err := decodeBDS40(c, blockPos)
			if err != nil {
				return nil, 0, err
			}
			mb.BDS40 = &v
		case bds1 == 5 && bds2 == 0:
			v, err := decodeBDS50(c, blockPos)
			if err != nil {
				return nil, 0, err
			}
			mb.BDS50 = &v
		case bds1 == 6 && bds2 == 0:
			v, err := decodeBDS60(c, blockPos)
			if err != nil {
				return nil, 0, err
			}
			mb.BDS60 = &v
		}
		used += 64
	}
	return mb, used, nil
}
