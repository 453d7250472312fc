package asterix

import (
	"github.com/asterix-watch/decoder/internal/bitio"
	"github.com/asterix-watch/decoder/internal/geodesy"
)

// TargetDescriptorCat48 is I048/020: detection type plus up to two
// extension octets of status flags.
type TargetDescriptorCat48 struct {
	TargetType               string
	Simulated                bool
	RDP                      bool
	SPI                      bool
	RAB                      bool
	Test                     *bool
	ExtendedRange            *bool
	XPulse                   *bool
	MilitaryEmergency        *bool
	MilitaryIdentification   *bool
	FoeFri                   *string
	AdsBElementPopulated     *bool
	AdsBValue                *bool
	ScnElementPopulated      *bool
	ScnValue                 *bool
	PaiElementPopulated      *bool
	PaiValue                 *bool
}

var targetTypeTable = []string{
	"No detection",
	"Single PSR detection",
	"Single SSR detection",
	"SSR + PSR detection",
	"Single Mode S All-Call detection",
	"Single Mode S Roll-Call detection",
	"Mode S All-Call + PSR",
	"Mode S Roll-Call + PSR",
}

var foeFriTable = []string{
	"No Mode 4 Interrogation",
	"Friendly Target",
	"Unknown Target",
	"No reply",
}

// decodeTargetDescriptorCat48 decodes I048/020's byte0 plus up to two
// FX-chained extension octets.
func decodeTargetDescriptorCat48(c bitio.Cursor, pos int) (*TargetDescriptorCat48, int, error) {
	if c.Remaining(pos) < 8 {
		return nil, 0, ErrTruncated
	}
	octet1, _ := c.LoadUnsigned(pos, 8)
	td := &TargetDescriptorCat48{
		TargetType: targetTypeTable[(octet1>>5)&0x7],
		Simulated:  octet1&0x10 != 0,
		RDP:        octet1&0x08 != 0,
		SPI:        octet1&0x04 != 0,
		RAB:        octet1&0x02 != 0,
	}
	used := 8
	if octet1&1 == 0 {
		return td, used, nil
	}

	if c.Remaining(pos+used) < 8 {
		return nil, 0, ErrTruncated
	}
	octet2, _ := c.LoadUnsigned(pos+used, 8)
	test := octet2&0x80 != 0
	extRange := octet2&0x40 != 0
	xpulse := octet2&0x20 != 0
	milEmerg := octet2&0x10 != 0
	milID := octet2&0x08 != 0
	foeFri := foeFriTable[(octet2>>1)&0x3]
	td.Test = &test
	td.ExtendedRange = &extRange
	td.XPulse = &xpulse
	td.MilitaryEmergency = &milEmerg
	td.MilitaryIdentification = &milID
	td.FoeFri = &foeFri
	used += 8
	if octet2&1 == 0 {
		return td, used, nil
	}

	if c.Remaining(pos+used) < 8 {
		return nil, 0, ErrTruncated
	}
	octet3, _ := c.LoadUnsigned(pos+used, 8)
	adsbPop := octet3&0x80 != 0
	adsbVal := octet3&0x40 != 0
	scnPop := octet3&0x20 != 0
	scnVal := octet3&0x10 != 0
	paiPop := octet3&0x08 != 0
	paiVal := octet3&0x04 != 0
	td.AdsBElementPopulated = &adsbPop
	td.AdsBValue = &adsbVal
	td.ScnElementPopulated = &scnPop
	td.ScnValue = &scnVal
	td.PaiElementPopulated = &paiPop
	td.PaiValue = &paiVal
	used += 8
	return td, used, nil
}

// Cat48 is a decoded CAT-48 monoradar target report. Every field is
// optional and populated only when its FRN was present in the FSPEC,
// plus the post-decode derivations in deriveCat48.
type Cat48 struct {
	SAC, SIC              *uint8
	TimeOfDaySec          *float64
	TimeString            *string
	TargetDescriptor      *TargetDescriptorCat48
	RangeNM, RangeM       *float64
	ThetaDeg              *float64
	Mode3ACode            *string
	FlightLevel           *float64
	AltitudeFt, AltitudeM *float64
	RadarPlot             *RadarPlotCharacteristics
	AircraftAddress       *string
	TargetIdentification  *string
	ModeSMB               *ModeSMBData
	TrackNumber           *uint16
	GroundSpeedKts        *float64
	HeadingDeg            *float64
	TrackStatus           *TrackStatus
	ComAcasFS             *ComAcasFS
	Latitude, Longitude   *float64
}

const maxFRNCat48 = 21

// decodeCat48 decodes a CAT-48 record body (after CAT/LEN) given a
// cursor scoped to exactly the record's remaining bits, plus an
// optional radar site for the geodesic projection derivation.
func decodeCat48(c bitio.Cursor, site *geodesy.Site) (*Cat48, error) {
	pos := 0
	frns, used := readFSPEC(c, pos)
	pos += used

	rec := &Cat48{}
	for _, frn := range frns {
		if frn > maxFRNCat48 {
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
			sec, clock, bits, err := decodeTimeOfDay24(c, pos)
			if err != nil {
				return nil, err
			}
			rec.TimeOfDaySec, rec.TimeString = &sec, &clock
			pos += bits
		case 3:
			td, bits, err := decodeTargetDescriptorCat48(c, pos)
			if err != nil {
				return nil, err
			}
			rec.TargetDescriptor = td
			pos += bits
		case 4:
			nm, m, theta, bits, err := decodeSlantPolar(c, pos)
			if err != nil {
				return nil, err
			}
			rec.RangeNM, rec.RangeM, rec.ThetaDeg = &nm, &m, &theta
			pos += bits
		case 5:
			code, bits, err := decodeMode3AOctal(c, pos)
			if err != nil {
				return nil, err
			}
			rec.Mode3ACode = &code
			pos += bits
		case 6:
			fl, bits, err := decodeFlightLevelCat48(c, pos)
			if err != nil {
				return nil, err
			}
			ft := fl * 100.0
			m := ft * 0.3048
			rec.FlightLevel, rec.AltitudeFt, rec.AltitudeM = &fl, &ft, &m
			pos += bits
		case 7:
			rpc, bits, err := decodeRadarPlotCharacteristics(c, pos)
			if err != nil {
				return nil, err
			}
			rec.RadarPlot = rpc
			pos += bits
		case 8:
			addr, bits, err := decodeAircraftAddress(c, pos)
			if err != nil {
				return nil, err
			}
			rec.AircraftAddress = &addr
			pos += bits
		case 9:
			id, bits, err := decodeIdentification(c, pos)
			if err != nil {
				return nil, err
			}
			rec.TargetIdentification = &id
			pos += bits
		case 10:
			mb, bits, err := decodeModeSMBData(c, pos)
			if err != nil {
				return nil, err
			}
			rec.ModeSMB = mb
			pos += bits
		case 11:
			tn, bits, err := decodeTrackNumber(c, pos)
			if err != nil {
				return nil, err
			}
			rec.TrackNumber = &tn
			pos += bits
		case 12:
			// I048/080 Calculated Position in Cartesian Coordinates:
			// fixed-width skip, no Cartesian frame defined in this
			// decoder's projection (see SPEC_FULL.md).
			bits, err := skipFixedOctets(c, pos, 4)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 13:
			gs, hdg, bits, err := decodeCalcPolarVelocity(c, pos)
			if err != nil {
				return nil, err
			}
			rec.GroundSpeedKts, rec.HeadingDeg = &gs, &hdg
			pos += bits
		case 14:
			ts, bits, err := decodeTrackStatus(c, pos)
			if err != nil {
				return nil, err
			}
			rec.TrackStatus = ts
			pos += bits
		case 15:
			bits, err := skipFixedOctets(c, pos, 4)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 16:
			bits, err := skipFXChained(c, pos)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 17:
			bits, err := skipFixedOctets(c, pos, 2)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 18:
			bits, err := skipFixedOctets(c, pos, 4)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 19:
			bits, err := skipFixedOctets(c, pos, 2)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 20:
			bits, err := skipFixedOctets(c, pos, 2)
			if err != nil {
				return nil, err
			}
			pos += bits
		case 21:
			cf, bits, err := decodeComAcasFS(c, pos)
			if err != nil {
				return nil, err
			}
			rec.ComAcasFS = cf
			pos += bits
		}
	}

	deriveCat48(rec, site)
	return rec, nil
}

// deriveCat48 applies the post-decode derivations: on-ground altitude
// pinning and the geodesic projection. Derivations never overwrite a
// value already decoded from the wire.
func deriveCat48(rec *Cat48, site *geodesy.Site) {
	if rec.AltitudeM == nil && rec.ComAcasFS != nil && rec.ComAcasFS.FlightStatus != "" {
		if isOnGround(rec.ComAcasFS.FlightStatus) {
			zero := 0.0
			rec.FlightLevel, rec.AltitudeFt, rec.AltitudeM = &zero, &zero, &zero
		}
	}

	if site == nil || rec.RangeM == nil || *rec.RangeM <= 0 || rec.ThetaDeg == nil || rec.AltitudeM == nil {
		return
	}

	arg := clamp((*rec.AltitudeM-site.Height)/(*rec.RangeM), -1, 1)
	elevation := asin(arg)
	thetaRad := *rec.ThetaDeg * degToRad

	g, err := geodesy.Project(*site, *rec.RangeM, thetaRad, elevation)
	if err != nil {
		return
	}
	lat := g.LatRad / degToRad
	lon := g.LonRad / degToRad
	rec.Latitude, rec.Longitude = &lat, &lon
}

// isOnGround reports whether a flight-status description ends with
// "on ground", per spec.md §9's fragile-but-contractual substring
// match. The underlying boolean is driven off the flight-status table
// index (values 1 and 3) rather than re-deriving it from the string,
// per spec.md's explicit direction.
func isOnGround(status string) bool {
	idx := indexOf(flightStatusTable, status)
	return idx == 1 || idx == 3
}

func indexOf(table []string, v string) int {
	for i, s := range table {
		if s == v {
			return i
		}
	}
	return -1
}

// Fields projects Cat48 into the stable human-readable name/value bag
// spec.md §6 requires for downstream serialization. Absent fields are
// omitted.
func (r *Cat48) Fields() map[string]any {
	f := map[string]any{}
	if r.SAC != nil {
		f["SAC"] = *r.SAC
	}
	if r.SIC != nil {
		f["SIC"] = *r.SIC
	}
	if r.TimeOfDaySec != nil {
		f["Time (s since midnight)"] = *r.TimeOfDaySec
	}
	if r.TimeString != nil {
		f["Time String"] = *r.TimeString
	}
	if td := r.TargetDescriptor; td != nil {
		f["Target Type"] = td.TargetType
		f["Simulated"] = td.Simulated
		f["RDP"] = td.RDP
		f["SPI"] = td.SPI
		f["RAB"] = td.RAB
		if td.Test != nil {
			f["Test"] = *td.Test
		}
		if td.ExtendedRange != nil {
			f["Extended Range"] = *td.ExtendedRange
		}
		if td.XPulse != nil {
			f["XPulse"] = *td.XPulse
		}
		if td.MilitaryEmergency != nil {
			f["Military Emergency"] = *td.MilitaryEmergency
		}
		if td.MilitaryIdentification != nil {
			f["Military Identification"] = *td.MilitaryIdentification
		}
		if td.FoeFri != nil {
			f["FOE/FRI"] = *td.FoeFri
		}
		if td.AdsBElementPopulated != nil {
			f["ADS-B Element Populated"] = *td.AdsBElementPopulated
		}
		if td.AdsBValue != nil {
			f["ADS-B Value"] = *td.AdsBValue
		}
		if td.ScnElementPopulated != nil {
			f["SCN Element Populated"] = *td.ScnElementPopulated
		}
		if td.ScnValue != nil {
			f["SCN Value"] = *td.ScnValue
		}
		if td.PaiElementPopulated != nil {
			f["PAI Element Populated"] = *td.PaiElementPopulated
		}
		if td.PaiValue != nil {
			f["PAI Value"] = *td.PaiValue
		}
	}
	if r.RangeNM != nil {
		f["Range (NM)"] = *r.RangeNM
	}
	if r.RangeM != nil {
		f["Range (m)"] = *r.RangeM
	}
	if r.ThetaDeg != nil {
		f["Theta (deg)"] = *r.ThetaDeg
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
	if rpc := r.RadarPlot; rpc != nil {
		if rpc.SSRPlotRunlengthDeg != nil {
			f["SSR Plot Runlength"] = *rpc.SSRPlotRunlengthDeg
		}
		if rpc.RepliesSSR != nil {
			f["Number of Received Replies SSR"] = *rpc.RepliesSSR
		}
		if rpc.AmplitudeMSSRReply != nil {
			f["Amplitude of (M)SSR Reply"] = *rpc.AmplitudeMSSRReply
		}
		if rpc.PrimaryPlotRunlengthDeg != nil {
			f["Primary Plot Runlength (deg)"] = *rpc.PrimaryPlotRunlengthDeg
		}
		if rpc.AmplitudePrimaryPlot != nil {
			f["Amplitude of Primary Plot (dBm)"] = *rpc.AmplitudePrimaryPlot
		}
		if rpc.RangePSRSSR != nil {
			f["Range (PSR-SSR)"] = *rpc.RangePSRSSR
		}
		if rpc.AzimuthPSRSSR != nil {
			f["Azimuth (PSR-SSR)"] = *rpc.AzimuthPSRSSR
		}
	}
	if r.AircraftAddress != nil {
		f["Aircraft Address"] = *r.AircraftAddress
	}
	if r.TargetIdentification != nil {
		f["Target Identification"] = *r.TargetIdentification
	}
	if mb := r.ModeSMB; mb != nil {
		f["Repetition"] = mb.Repetition
		if mb.BDS40 != nil {
			addBDS40Fields(f, mb.BDS40)
		}
		if mb.BDS50 != nil {
			addBDS50Fields(f, mb.BDS50)
		}
		if mb.BDS60 != nil {
			addBDS60Fields(f, mb.BDS60)
		}
	}
	if r.TrackNumber != nil {
		f["Track Number"] = *r.TrackNumber
	}
	if r.GroundSpeedKts != nil {
		f["Ground Speed (kts)"] = *r.GroundSpeedKts
	}
	if r.HeadingDeg != nil {
		f["Magnetic Heading (deg)"] = *r.HeadingDeg
	}
	if ts := r.TrackStatus; ts != nil {
		f["ConfVTent"] = ts.ConfirmedTentative
		f["Type of Sensor"] = ts.SensorType
		f["DOU"] = ts.DOU
		f["Manoeuver detection Horizontal"] = ts.ManoeuvreHorizontal
		f["Climbing/Descending"] = ts.ClimbDescend
		if ts.EndOfTrack != nil {
			f["End of Track"] = *ts.EndOfTrack
		}
		if ts.Ghost != nil {
			f["Ghost"] = *ts.Ghost
		}
		if ts.SUP != nil {
			f["SUP"] = *ts.SUP
		}
		if ts.TCC != nil {
			f["TCC"] = *ts.TCC
		}
	}
	if cf := r.ComAcasFS; cf != nil {
		f["Communications Capability"] = cf.CommCapability
		f["STAT"] = cf.FlightStatus
		f["SI/II"] = cf.SiII
		f["Mode S Specific Service Capability"] = cf.ModeSSpecificServiceCapability
		f["Altitude Reporting Capability"] = cf.AltitudeReportingCapability
		f["Aircraft Identification Capability"] = cf.AircraftIdentificationCapability
		f["ACAS Status"] = ternary(cf.ACASOperational, "Operational", "Failed or Standby")
		f["Hybrid Surveillance"] = cf.HybridSurveillance
		f["TA/RA"] = cf.TARA
		f["Applicable MOPS Doc"] = cf.ApplicableMOPSDoc
	}
	if r.Latitude != nil {
		f["Latitude (deg)"] = *r.Latitude
	}
	if r.Longitude != nil {
		f["Longitude (deg)"] = *r.Longitude
	}
	return f
}

func addBDS40Fields(f map[string]any, b *BDS40) {
	f["Status MCP/FCU"] = b.StatusMCP
	f["MCP/FCU Selected Altitude"] = b.MCPAltFt
	f["Status FMS"] = b.StatusFMS
	f["FMS Selected Altitude"] = b.FMSAltFt
	f["Status Barometric Reference"] = b.StatusBar
	f["Barometric Pressure Setting"] = b.BarPressureHPa
	f["Status MCP/FCU Mode"] = b.StatusMCPMode
	f["VNAV Mode"] = b.VNAV
	f["ALT Hold Mode"] = b.AltHold
	f["Approach Mode"] = b.Approach
	f["Status Target Source"] = b.StatusTarget
	f["Target Alt Source"] = b.TargetAltSource
}

func addBDS50Fields(f map[string]any, b *BDS50) {
	f["Status Roll Angle"] = b.StatusRoll
	f["Roll Angle"] = b.RollAngleDeg
	f["Status Track Angle"] = b.StatusTrack
	f["Track Angle"] = b.TrackAngleDeg
	f["Status Ground Speed"] = b.StatusGS
	f["Ground Speed (kts)"] = b.GroundSpeedKt
	f["Status Track Angle Rate"] = b.StatusTARate
	f["Track Angle Rate"] = b.TARateDegS
	f["Status TAS"] = b.StatusTAS
	f["TAS"] = b.TASKt
}

func addBDS60Fields(f map[string]any, b *BDS60) {
	f["Status Magnetic Heading"] = b.StatusMagHeading
	f["Magnetic Heading (deg) BDS"] = b.MagHeadingDeg
	f["Status IAS"] = b.StatusIAS
	f["IAS (kt)"] = b.IASKt
	f["Status Mach"] = b.StatusMach
	f["Mach"] = b.Mach
	f["Status Barometric Altitude Rate"] = b.StatusBarRate
	f["Barometric Altitude Rate"] = b.BarRateFtMin
	f["Status Inertial Vertical Velocity"] = b.StatusInertVV
	f["Inertial Vertical Velocity"] = b.InertVVFtMin
}
