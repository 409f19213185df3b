package netmsg

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// MessageType identifies the semantic meaning of a message. Values
// mirror the connect/connack/info/disconnect/upgrade/command command
// set, carried here as a fixed binary tag rather than a parsed string.
type MessageType uint8

const (
	MsgHeartbeat MessageType = 0x01
	MsgConnect   MessageType = 0x02 // "connect <protocol> <name> <netport>"
	MsgConnAck   MessageType = 0x03 // "connack <slot>"
	MsgInfo      MessageType = 0x04 // "info"
	MsgInfoReply MessageType = 0x05 // "info <server_name>"

	MsgDisconnect MessageType = 0x10 // clc_disconnect
	MsgUpgrade    MessageType = 0x11 // clc_upgrade <byte>
	MsgCommand    MessageType = 0x12 // clc_command <move:vec2> <look:vec2> <action:u8>

	MsgSnapshot MessageType = 0x20 // server -> client world/ship/rail state
	MsgEvent    MessageType = 0x21 // sound/effect broadcast
)

// HeaderSize is the fixed frame header: [Type:1][Flags:1][Seq:4][Ack:4][Len:2].
const HeaderSize = 12

const (
	FlagNone    uint8 = 0x00
	FlagNeedAck uint8 = 0x01
)

// Message is a framed wire message.
type Message struct {
	Type    MessageType
	Flags   uint8
	Seq     uint32
	Ack     uint32
	Payload []byte
}

// Encode writes the message to w with its length prefix.
func (m *Message) Encode(w io.Writer) error {
	payloadLen := len(m.Payload)
	if payloadLen > 65535 {
		return errors.New("payload exceeds maximum size")
	}

	header := make([]byte, HeaderSize)
	header[0] = byte(m.Type)
	header[1] = m.Flags
	binary.BigEndian.PutUint32(header[2:6], m.Seq)
	binary.BigEndian.PutUint32(header[6:10], m.Ack)
	binary.BigEndian.PutUint16(header[10:12], uint16(payloadLen))

	if _, err := w.Write(header); err != nil {
		return err
	}
	if payloadLen > 0 {
		if _, err := w.Write(m.Payload); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads one framed message from r.
func Decode(r io.Reader) (*Message, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, errors.Wrap(err, "netmsg: read header")
	}

	payloadLen := binary.BigEndian.Uint16(header[10:12])
	m := &Message{
		Type:  MessageType(header[0]),
		Flags: header[1],
		Seq:   binary.BigEndian.Uint32(header[2:6]),
		Ack:   binary.BigEndian.Uint32(header[6:10]),
	}
	if payloadLen > 0 {
		m.Payload = make([]byte, payloadLen)
		if _, err := io.ReadFull(r, m.Payload); err != nil {
			return nil, errors.Wrap(err, "netmsg: read payload")
		}
	}
	return m, nil
}

// NewMessage builds a message of the given type with a raw payload.
func NewMessage(t MessageType, payload []byte) *Message {
	return &Message{Type: t, Flags: FlagNone, Payload: payload}
}

// ConnectPayload is the "connect <protocol> <name> <netport>" request.
type ConnectPayload struct {
	Protocol uint32
	Name     string
	NetPort  uint16
}

// EncodeConnect serializes a ConnectPayload: protocol(u32) namelen(u8)
// name(bytes) netport(u16).
func EncodeConnect(p ConnectPayload) []byte {
	nameBytes := []byte(p.Name)
	if len(nameBytes) > 255 {
		nameBytes = nameBytes[:255]
	}
	buf := make([]byte, 4+1+len(nameBytes)+2)
	binary.BigEndian.PutUint32(buf[0:4], p.Protocol)
	buf[4] = byte(len(nameBytes))
	copy(buf[5:5+len(nameBytes)], nameBytes)
	binary.BigEndian.PutUint16(buf[5+len(nameBytes):], p.NetPort)
	return buf
}

// DecodeConnect parses a ConnectPayload encoded by EncodeConnect.
func DecodeConnect(payload []byte) (ConnectPayload, error) {
	if len(payload) < 5 {
		return ConnectPayload{}, errors.New("connect payload too short")
	}
	protocol := binary.BigEndian.Uint32(payload[0:4])
	nameLen := int(payload[4])
	if len(payload) < 5+nameLen+2 {
		return ConnectPayload{}, errors.New("connect payload truncated")
	}
	name := string(payload[5 : 5+nameLen])
	netPort := binary.BigEndian.Uint16(payload[5+nameLen:])
	return ConnectPayload{Protocol: protocol, Name: name, NetPort: netPort}, nil
}

// EncodeConnAck serializes "connack <slot>".
func EncodeConnAck(slot uint8) []byte { return []byte{slot} }

// DecodeConnAck parses a connack payload.
func DecodeConnAck(payload []byte) (uint8, error) {
	if len(payload) < 1 {
		return 0, errors.New("connack payload empty")
	}
	return payload[0], nil
}

// CommandPayload is "clc_command <move:vec2> <look:vec2> <action:u8>".
type CommandPayload struct {
	MoveX, MoveY float32
	LookX, LookY float32
	Action       uint8
}

// EncodeCommand serializes a CommandPayload as five fixed fields.
func EncodeCommand(c CommandPayload) []byte {
	buf := make([]byte, 4*4+1)
	binary.BigEndian.PutUint32(buf[0:4], math.Float32bits(c.MoveX))
	binary.BigEndian.PutUint32(buf[4:8], math.Float32bits(c.MoveY))
	binary.BigEndian.PutUint32(buf[8:12], math.Float32bits(c.LookX))
	binary.BigEndian.PutUint32(buf[12:16], math.Float32bits(c.LookY))
	buf[16] = c.Action
	return buf
}

// DecodeCommand parses a CommandPayload encoded by EncodeCommand.
func DecodeCommand(payload []byte) (CommandPayload, error) {
	if len(payload) < 17 {
		return CommandPayload{}, errors.New("command payload too short")
	}
	return CommandPayload{
		MoveX:  math.Float32frombits(binary.BigEndian.Uint32(payload[0:4])),
		MoveY:  math.Float32frombits(binary.BigEndian.Uint32(payload[4:8])),
		LookX:  math.Float32frombits(binary.BigEndian.Uint32(payload[8:12])),
		LookY:  math.Float32frombits(binary.BigEndian.Uint32(payload[12:16])),
		Action: payload[16],
	}, nil
}

// EncodeSnapshot prefixes a pre-serialized state blob with the
// simulation frame number it was produced at, so the receiver can
// discard anything that arrives out of order.
func EncodeSnapshot(frame uint32, state []byte) []byte {
	buf := make([]byte, 4+len(state))
	binary.BigEndian.PutUint32(buf[0:4], frame)
	copy(buf[4:], state)
	return buf
}

// DecodeSnapshot splits a snapshot payload back into its frame number
// and state blob.
func DecodeSnapshot(payload []byte) (frame uint32, state []byte, err error) {
	if len(payload) < 4 {
		return 0, nil, errors.New("snapshot payload too short")
	}
	return binary.BigEndian.Uint32(payload[0:4]), payload[4:], nil
}

// PlayerRecord is one player's replicated state inside a snapshot:
// marker byte, slot, position, linear velocity, rotation, angular
// velocity, turret rotation, turret angular velocity, damage, and
// fire-time, matching the tank entity fields a client needs to
// reproduce what the server is simulating.
type PlayerRecord struct {
	Slot                  uint8
	PosX, PosY            float32
	VelX, VelY            float32
	Rotation              float32
	AngularVelocity       float32
	TurretRotation        float32
	TurretAngularVelocity float32
	Damage                float32
	FireTime              float32
}

// playerMarker precedes every player record in the block; a zero byte
// in its place terminates the block.
const playerMarker = 0x01

const playerRecordSize = 1 + 1 + 4*10 // marker + slot + 10 float32 fields

// EncodePlayerBlock serializes records as a marker-prefixed run
// terminated by a single zero byte, then appends rest verbatim so a
// snapshot can carry both the player block and whatever
// domain-specific state (trains, ship atmosphere) already follows it.
func EncodePlayerBlock(records []PlayerRecord, rest []byte) []byte {
	buf := make([]byte, 0, len(records)*playerRecordSize+1+len(rest))
	for _, r := range records {
		rec := make([]byte, playerRecordSize)
		rec[0] = playerMarker
		rec[1] = r.Slot
		binary.BigEndian.PutUint32(rec[2:6], math.Float32bits(r.PosX))
		binary.BigEndian.PutUint32(rec[6:10], math.Float32bits(r.PosY))
		binary.BigEndian.PutUint32(rec[10:14], math.Float32bits(r.VelX))
		binary.BigEndian.PutUint32(rec[14:18], math.Float32bits(r.VelY))
		binary.BigEndian.PutUint32(rec[18:22], math.Float32bits(r.Rotation))
		binary.BigEndian.PutUint32(rec[22:26], math.Float32bits(r.AngularVelocity))
		binary.BigEndian.PutUint32(rec[26:30], math.Float32bits(r.TurretRotation))
		binary.BigEndian.PutUint32(rec[30:34], math.Float32bits(r.TurretAngularVelocity))
		binary.BigEndian.PutUint32(rec[34:38], math.Float32bits(r.Damage))
		binary.BigEndian.PutUint32(rec[38:42], math.Float32bits(r.FireTime))
		buf = append(buf, rec...)
	}
	buf = append(buf, 0) // terminator
	buf = append(buf, rest...)
	return buf
}

// DecodePlayerBlock reads a marker-prefixed run of player records from
// the front of data, stopping at the zero-byte terminator, and returns
// whatever bytes follow it unparsed.
func DecodePlayerBlock(data []byte) (records []PlayerRecord, rest []byte, err error) {
	off := 0
	for {
		if off >= len(data) {
			return nil, nil, errors.New("player block missing terminator")
		}
		marker := data[off]
		if marker == 0 {
			return records, data[off+1:], nil
		}
		if marker != playerMarker {
			return nil, nil, errors.Errorf("player block: unexpected marker 0x%02x", marker)
		}
		if off+playerRecordSize > len(data) {
			return nil, nil, errors.New("player block: record truncated")
		}
		rec := data[off : off+playerRecordSize]
		records = append(records, PlayerRecord{
			Slot:                  rec[1],
			PosX:                  math.Float32frombits(binary.BigEndian.Uint32(rec[2:6])),
			PosY:                  math.Float32frombits(binary.BigEndian.Uint32(rec[6:10])),
			VelX:                  math.Float32frombits(binary.BigEndian.Uint32(rec[10:14])),
			VelY:                  math.Float32frombits(binary.BigEndian.Uint32(rec[14:18])),
			Rotation:              math.Float32frombits(binary.BigEndian.Uint32(rec[18:22])),
			AngularVelocity:       math.Float32frombits(binary.BigEndian.Uint32(rec[22:26])),
			TurretRotation:        math.Float32frombits(binary.BigEndian.Uint32(rec[26:30])),
			TurretAngularVelocity: math.Float32frombits(binary.BigEndian.Uint32(rec[30:34])),
			Damage:                math.Float32frombits(binary.BigEndian.Uint32(rec[34:38])),
			FireTime:              math.Float32frombits(binary.BigEndian.Uint32(rec[38:42])),
		})
		off += playerRecordSize
	}
}

// EventPayload carries a sound/effect broadcast, matching the sound
// collaborator's play(asset_index, position, volume, pitch) signature.
type EventPayload struct {
	AssetIndex uint32
	X, Y       float32
	Volume     float32
	Pitch      float32
}

// EncodeEvent serializes an EventPayload.
func EncodeEvent(e EventPayload) []byte {
	buf := make([]byte, 4*5)
	binary.BigEndian.PutUint32(buf[0:4], e.AssetIndex)
	binary.BigEndian.PutUint32(buf[4:8], math.Float32bits(e.X))
	binary.BigEndian.PutUint32(buf[8:12], math.Float32bits(e.Y))
	binary.BigEndian.PutUint32(buf[12:16], math.Float32bits(e.Volume))
	binary.BigEndian.PutUint32(buf[16:20], math.Float32bits(e.Pitch))
	return buf
}

// DecodeEvent parses an EventPayload encoded by EncodeEvent.
func DecodeEvent(payload []byte) (EventPayload, error) {
	if len(payload) < 20 {
		return EventPayload{}, errors.New("event payload too short")
	}
	return EventPayload{
		AssetIndex: binary.BigEndian.Uint32(payload[0:4]),
		X:          math.Float32frombits(binary.BigEndian.Uint32(payload[4:8])),
		Y:          math.Float32frombits(binary.BigEndian.Uint32(payload[8:12])),
		Volume:     math.Float32frombits(binary.BigEndian.Uint32(payload[12:16])),
		Pitch:      math.Float32frombits(binary.BigEndian.Uint32(payload[16:20])),
	}, nil
}
