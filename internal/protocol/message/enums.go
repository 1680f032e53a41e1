package message

import "strconv"

type AddressType uint8

const (
	AddressADSBICAO AddressType = iota
	AddressADSBSelfAssigned
	AddressTISBICAO
	AddressTISBTrackFile
	AddressSurfaceVehicle
	AddressGroundStationBeacon
)

var addressTypeNames = [...]string{
	"adsb_icao",
	"adsb_self_assigned",
	"tisb_icao",
	"tisb_track_file",
	"surface_vehicle",
	"ground_station_beacon",
}

func (a AddressType) Valid() bool { return int(a) < len(addressTypeNames) }

func (a AddressType) String() string { return enumName(addressTypeNames[:], uint8(a)) }

func (a AddressType) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

type TrackType uint8

const (
	TrackInvalid TrackType = iota
	TrackTrueTrackAngle
	TrackMagneticHeading
	TrackTrueHeading
)

var trackTypeNames = [...]string{
	"invalid",
	"true_track_angle",
	"magnetic_heading",
	"true_heading",
}

func (t TrackType) Valid() bool { return int(t) < len(trackTypeNames) }

func (t TrackType) String() string { return enumName(trackTypeNames[:], uint8(t)) }

func (t TrackType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Integrity is the Navigation Integrity Category (NIC).
type Integrity uint8

const (
	IntegrityUnknown Integrity = iota
	IntegrityLessThan20NM
	IntegrityLessThan8NM
	IntegrityLessThan4NM
	IntegrityLessThan2NM
	IntegrityLessThan1NM
	IntegrityLessThan0_6NM
	IntegrityLessThan0_2NM
	IntegrityLessThan0_1NM
	IntegrityHPL75mVPL112m
	IntegrityHPL25mVPL37_5m
	IntegrityHPL7_5mVPL11m
)

var integrityNames = [...]string{
	"unknown",
	"lt_20nm",
	"lt_8nm",
	"lt_4nm",
	"lt_2nm",
	"lt_1nm",
	"lt_0.6nm",
	"lt_0.2nm",
	"lt_0.1nm",
	"hpl_lt_75m_vpl_lt_112m",
	"hpl_lt_25m_vpl_lt_37.5m",
	"hpl_lt_7.5m_vpl_lt_11m",
}

func (i Integrity) Valid() bool { return int(i) < len(integrityNames) }

func (i Integrity) String() string { return enumName(integrityNames[:], uint8(i)) }

func (i Integrity) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// Accuracy is the Navigation Accuracy Category for Position (NACp).
type Accuracy uint8

const (
	AccuracyUnknown Accuracy = iota
	AccuracyLessThan10NM
	AccuracyLessThan4NM
	AccuracyLessThan2NM
	AccuracyLessThan1NM
	AccuracyLessThan0_5NM
	AccuracyLessThan0_3NM
	AccuracyLessThan0_1NM
	AccuracyLessThan0_05NM
	AccuracyHFOM30mVFOM45m
	AccuracyHFOM10mVFOM15m
	AccuracyHFOM3mVFOM4m
)

var accuracyNames = [...]string{
	"unknown",
	"lt_10nm",
	"lt_4nm",
	"lt_2nm",
	"lt_1nm",
	"lt_0.5nm",
	"lt_0.3nm",
	"lt_0.1nm",
	"lt_0.05nm",
	"hfom_lt_30m_vfom_lt_45m",
	"hfom_lt_10m_vfom_lt_15m",
	"hfom_lt_3m_vfom_lt_4m",
}

func (a Accuracy) Valid() bool { return int(a) < len(accuracyNames) }

func (a Accuracy) String() string { return enumName(accuracyNames[:], uint8(a)) }

func (a Accuracy) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

type EmitterCategory uint8

const (
	EmitterNoInfo EmitterCategory = iota
	EmitterLight
	EmitterSmall
	EmitterLarge
	EmitterHighVortexLarge
	EmitterHeavy
	EmitterHighlyManeuverable
	EmitterRotorcraft
	emitterReserved8
	EmitterGlider
	EmitterLighterThanAir
	EmitterParachutist
	EmitterUltralight
	emitterReserved13
	EmitterUAV
	EmitterSpace
	emitterReserved16
	EmitterSurfaceEmergency
	EmitterSurfaceService
	EmitterPointObstacle
	EmitterClusterObstacle
	EmitterLineObstacle
)

var emitterCategoryNames = [...]string{
	"no_info",
	"light",
	"small",
	"large",
	"high_vortex_large",
	"heavy",
	"highly_maneuverable",
	"rotorcraft",
	"reserved_8",
	"glider",
	"lighter_than_air",
	"parachutist",
	"ultralight",
	"reserved_13",
	"uav",
	"space",
	"reserved_16",
	"surface_emergency",
	"surface_service",
	"point_obstacle",
	"cluster_obstacle",
	"line_obstacle",
}

// Valid accepts the reserved codes too; they are assigned wire values.
func (e EmitterCategory) Valid() bool { return int(e) < len(emitterCategoryNames) }

func (e EmitterCategory) String() string { return enumName(emitterCategoryNames[:], uint8(e)) }

func (e EmitterCategory) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

type EmergencyPriorityCode uint8

const (
	EmergencyNone EmergencyPriorityCode = iota
	EmergencyGeneral
	EmergencyMedical
	EmergencyMinimumFuel
	EmergencyNoCommunication
	EmergencyUnlawfulInterference
	EmergencyDownedAircraft
)

var emergencyNames = [...]string{
	"none",
	"general",
	"medical",
	"minimum_fuel",
	"no_communication",
	"unlawful_interference",
	"downed_aircraft",
}

func (e EmergencyPriorityCode) Valid() bool { return int(e) < len(emergencyNames) }

func (e EmergencyPriorityCode) String() string { return enumName(emergencyNames[:], uint8(e)) }

func (e EmergencyPriorityCode) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func enumName(names []string, v uint8) string {
	if int(v) < len(names) {
		return names[v]
	}
	return "unknown(" + strconv.Itoa(int(v)) + ")"
}
