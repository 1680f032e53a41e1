package message

import (
	"time"

	"github.com/danmuck/gdl90/internal/protocol/bits"
	"github.com/danmuck/gdl90/internal/protocol/field"
)

const (
	nameHeartbeat      = "heartbeat"
	nameInitialization = "initialization"

	heartbeatTimestampBits = 17
	heartbeatUplinkBits    = 5
	heartbeatBasicBits     = 10
)

// Heartbeat is the once-per-second device status message.
type Heartbeat struct {
	GPSPositionValid    bool `json:"gps_position_valid" yaml:"gps_position_valid"`
	MaintenanceRequired bool `json:"maintenance_required" yaml:"maintenance_required"`
	Ident               bool `json:"ident" yaml:"ident"`
	AddressTalkback     bool `json:"address_talkback" yaml:"address_talkback"`
	GPSBatteryLow       bool `json:"gps_battery_low" yaml:"gps_battery_low"`
	RATCS               bool `json:"ratcs" yaml:"ratcs"`
	UATInitialized      bool `json:"uat_initialized" yaml:"uat_initialized"`
	CSARequested        bool `json:"csa_requested" yaml:"csa_requested"`
	CSANotAvailable     bool `json:"csa_not_available" yaml:"csa_not_available"`
	UTCOK               bool `json:"utc_ok" yaml:"utc_ok"`

	// Timestamp is seconds since 0000Z. Values past 17 bits saturate.
	Timestamp uint32 `json:"timestamp" yaml:"timestamp"`
	// UplinkCount and BasicLongCount are the messages received in the
	// previous second; they saturate at 31 and 1023.
	UplinkCount    uint8  `json:"uplink_count" yaml:"uplink_count"`
	BasicLongCount uint16 `json:"basic_long_count" yaml:"basic_long_count"`
}

// SecondsSinceMidnight converts t to a heartbeat timestamp in UTC.
func SecondsSinceMidnight(t time.Time) uint32 {
	t = t.UTC()
	return uint32(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// TimeOfDay returns the timestamp as an offset from 0000Z.
func (m Heartbeat) TimeOfDay() time.Duration {
	return time.Duration(m.Timestamp) * time.Second
}

func (Heartbeat) Name() string { return nameHeartbeat }

func (Heartbeat) MessageIDs() []byte { return []byte{IDHeartbeat} }

func (m Heartbeat) MarshalPayload() (*bits.Seq, error) {
	w := newWriter(nameHeartbeat)

	ts, err := field.EncodeUint(m.Timestamp, heartbeatTimestampBits, true)
	if err != nil {
		w.at("timestamp").fail(err)
		return w.result()
	}
	stamp := ts.Uint()

	w.at("status_1")
	w.put(field.EncodeBool(m.GPSPositionValid))
	w.put(field.EncodeBool(m.MaintenanceRequired))
	w.put(field.EncodeBool(m.Ident))
	w.put(field.EncodeBool(m.AddressTalkback))
	w.put(field.EncodeBool(m.GPSBatteryLow))
	w.put(field.EncodeBool(m.RATCS))
	w.put(field.Sentinel(0, 1))
	w.put(field.EncodeBool(m.UATInitialized))

	w.at("status_2")
	w.put(field.EncodeBool(stamp>>16 != 0))
	w.put(field.EncodeBool(m.CSARequested))
	w.put(field.EncodeBool(m.CSANotAvailable))
	w.put(field.Sentinel(0, 4))
	w.put(field.EncodeBool(m.UTCOK))

	w.at("timestamp").add(field.EncodeUintLE(stamp&0xFFFF, 16, false))
	w.at("uplink_count").add(field.EncodeUint(m.UplinkCount, heartbeatUplinkBits, true))
	w.put(field.Sentinel(0, 1))
	w.at("basic_long_count").add(field.EncodeUint(m.BasicLongCount, heartbeatBasicBits, true))
	return w.result()
}

func DecodeHeartbeat(s *bits.Seq) (Heartbeat, error) {
	r := newReader(nameHeartbeat, s)
	var m Heartbeat
	m.GPSPositionValid = r.flag("gps_position_valid")
	m.MaintenanceRequired = r.flag("maintenance_required")
	m.Ident = r.flag("ident")
	m.AddressTalkback = r.flag("address_talkback")
	m.GPSBatteryLow = r.flag("gps_battery_low")
	m.RATCS = r.flag("ratcs")
	r.skip("status_1", 1)
	m.UATInitialized = r.flag("uat_initialized")

	high := r.unsigned("timestamp", 1)
	m.CSARequested = r.flag("csa_requested")
	m.CSANotAvailable = r.flag("csa_not_available")
	r.skip("status_2", 4)
	m.UTCOK = r.flag("utc_ok")

	m.Timestamp = uint32(high<<16 | r.uintLE("timestamp", 16))
	m.UplinkCount = uint8(r.unsigned("uplink_count", heartbeatUplinkBits))
	r.skip("message_counts", 1)
	m.BasicLongCount = uint16(r.unsigned("basic_long_count", heartbeatBasicBits))
	if err := r.done(); err != nil {
		return Heartbeat{}, err
	}
	return m, nil
}

// Initialization configures a GDL90 device from the display.
type Initialization struct {
	AudioTest       bool `json:"audio_test" yaml:"audio_test"`
	AudioInhibit    bool `json:"audio_inhibit" yaml:"audio_inhibit"`
	CDTIOK          bool `json:"cdti_ok" yaml:"cdti_ok"`
	CSAAudioDisable bool `json:"csa_audio_disable" yaml:"csa_audio_disable"`
	CSADisable      bool `json:"csa_disable" yaml:"csa_disable"`
}

func (Initialization) Name() string { return nameInitialization }

func (Initialization) MessageIDs() []byte { return []byte{IDInitialization} }

func (m Initialization) MarshalPayload() (*bits.Seq, error) {
	w := newWriter(nameInitialization)
	w.put(field.Sentinel(0, 1))
	w.put(field.EncodeBool(m.AudioTest))
	w.put(field.Sentinel(0, 4))
	w.put(field.EncodeBool(m.AudioInhibit))
	w.put(field.EncodeBool(m.CDTIOK))

	w.put(field.Sentinel(0, 6))
	w.put(field.EncodeBool(m.CSAAudioDisable))
	w.put(field.EncodeBool(m.CSADisable))
	return w.result()
}

func DecodeInitialization(s *bits.Seq) (Initialization, error) {
	r := newReader(nameInitialization, s)
	var m Initialization
	r.skip("configuration_1", 1)
	m.AudioTest = r.flag("audio_test")
	r.skip("configuration_1", 4)
	m.AudioInhibit = r.flag("audio_inhibit")
	m.CDTIOK = r.flag("cdti_ok")

	r.skip("configuration_2", 6)
	m.CSAAudioDisable = r.flag("csa_audio_disable")
	m.CSADisable = r.flag("csa_disable")
	if err := r.done(); err != nil {
		return Initialization{}, err
	}
	return m, nil
}
