// Package session implements the connect handshake, per-client
// modifiers, and snapshot/effect replication on top of the netmsg wire
// framing: server-side client bookkeeping and client-side stale-frame
// dropping.
package session

import (
	"log"
	"sync"

	"github.com/lixenwraith/tanks/config"
	"github.com/lixenwraith/tanks/netmsg"
)

// ProtocolVersion is carried in the connect handshake; a mismatch
// aborts the connection.
const ProtocolVersion = 1

// ClientModifiers are per-client multipliers assigned at connect time.
// Nothing currently reads them back; they are carried here as the
// handshake's reserved extension point for future per-client tuning.
type ClientModifiers struct {
	DamageMod float64
	ArmorMod  float64
	RefireMod float64
	SpeedMod  float64
}

// DefaultModifiers returns all multipliers at 1.0 (no effect).
func DefaultModifiers() ClientModifiers {
	return ClientModifiers{DamageMod: 1, ArmorMod: 1, RefireMod: 1, SpeedMod: 1}
}

// Client is the server's per-slot record for a connected player.
type Client struct {
	Slot      uint8
	PeerID    netmsg.PeerID
	Name      string
	ColorR    uint8
	ColorG    uint8
	ColorB    uint8
	Modifiers ClientModifiers
}

// Server tracks connected clients across slots 0..maxClients-1 and
// emits/applies snapshot and event messages.
type Server struct {
	mu         sync.Mutex
	transport  *netmsg.Transport
	clients    map[uint8]*Client
	maxClients int

	// OnCommand, if set, is invoked with the slot and decoded command
	// every time a clc_command message arrives from a known peer.
	OnCommand func(slot uint8, cmd netmsg.CommandPayload)
}

// NewServer builds a Server bound to an already-configured transport.
func NewServer(transport *netmsg.Transport, maxClients int) *Server {
	return &Server{
		transport:  transport,
		clients:    make(map[uint8]*Client),
		maxClients: maxClients,
	}
}

// HandleMessage dispatches an inbound message from a connected peer by
// type, routing clc_command to OnCommand and clc_disconnect to
// HandleDisconnect. Unrecognized types (including the client-only
// connack/snapshot/event types) are ignored.
func (s *Server) HandleMessage(peer netmsg.PeerID, msg *netmsg.Message) {
	switch msg.Type {
	case netmsg.MsgConnect:
		s.HandleConnect(peer, msg)
	case netmsg.MsgDisconnect:
		s.HandleDisconnect(peer)
	case netmsg.MsgCommand:
		cmd, err := netmsg.DecodeCommand(msg.Payload)
		if err != nil {
			log.Printf("session: malformed command from peer %d: %v", peer, err)
			return
		}
		s.mu.Lock()
		slot, ok := s.slotForPeerLocked(peer)
		s.mu.Unlock()
		if !ok {
			return
		}
		if s.OnCommand != nil {
			s.OnCommand(slot, cmd)
		}
	}
}

// SlotForPeer returns the slot assigned to peer, if it is currently
// connected.
func (s *Server) SlotForPeer(peer netmsg.PeerID) (uint8, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slotForPeerLocked(peer)
}

func (s *Server) slotForPeerLocked(peer netmsg.PeerID) (uint8, bool) {
	for slot, c := range s.clients {
		if c.PeerID == peer {
			return slot, true
		}
	}
	return 0, false
}

// HandleConnect processes a "connect <protocol> <name> <netport>"
// message from peer, assigning the first free slot and replying with
// connack. A protocol mismatch or a full server is logged and gets no
// reply; the peer's connection is not closed here.
func (s *Server) HandleConnect(peer netmsg.PeerID, msg *netmsg.Message) {
	req, err := netmsg.DecodeConnect(msg.Payload)
	if err != nil {
		log.Printf("session: malformed connect from peer %d: %v", peer, err)
		return
	}
	if req.Protocol != ProtocolVersion {
		log.Printf("session: peer %d protocol mismatch (%d != %d), rejecting", peer, req.Protocol, ProtocolVersion)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.freeSlotLocked()
	if !ok {
		log.Printf("session: peer %d rejected, server full", peer)
		return
	}

	r, g, b := config.ParseColor("255 0 0")
	s.clients[slot] = &Client{
		Slot:      slot,
		PeerID:    peer,
		Name:      req.Name,
		ColorR:    r,
		ColorG:    g,
		ColorB:    b,
		Modifiers: DefaultModifiers(),
	}

	s.transport.Send(peer, netmsg.NewMessage(netmsg.MsgConnAck, netmsg.EncodeConnAck(slot)))
}

func (s *Server) freeSlotLocked() (uint8, bool) {
	for i := 0; i < s.maxClients; i++ {
		if _, taken := s.clients[uint8(i)]; !taken {
			return uint8(i), true
		}
	}
	return 0, false
}

// SetClientColor normalizes and records colorStr (the "r g b" form of
// ui_color) for the client in slot.
func (s *Server) SetClientColor(slot uint8, colorStr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[slot]
	if !ok {
		return
	}
	c.ColorR, c.ColorG, c.ColorB = config.ParseColor(colorStr)
}

// HandleDisconnect removes the peer's slot, if any.
func (s *Server) HandleDisconnect(peer netmsg.PeerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for slot, c := range s.clients {
		if c.PeerID == peer {
			delete(s.clients, slot)
			return
		}
	}
}

// BroadcastSnapshot sends a pre-serialized state blob, tagged with the
// frame it was produced at, to every connected client.
func (s *Server) BroadcastSnapshot(frame uint32, state []byte) {
	s.transport.Broadcast(netmsg.NewMessage(netmsg.MsgSnapshot, netmsg.EncodeSnapshot(frame, state)))
}

// BroadcastEvent sends a sound/effect message to every connected
// client.
func (s *Server) BroadcastEvent(e netmsg.EventPayload) {
	s.transport.Broadcast(netmsg.NewMessage(netmsg.MsgEvent, netmsg.EncodeEvent(e)))
}

// ClientSession implements the connect handshake from the joining side and
// discards stale snapshot frames.
type ClientSession struct {
	transport  *netmsg.Transport
	serverPeer netmsg.PeerID
	lastFrame  uint32
	haveFrame  bool
	OnSnapshot func(frame uint32, state []byte)
	OnEvent    func(netmsg.EventPayload)
	Slot       uint8
	Connected  bool
}

// NewClientSession builds a session bound to an already-started client
// transport.
func NewClientSession(transport *netmsg.Transport) *ClientSession {
	return &ClientSession{transport: transport}
}

// Connect sends the connect handshake to serverPeer.
func (c *ClientSession) Connect(serverPeer netmsg.PeerID, name string, netPort uint16) {
	c.serverPeer = serverPeer
	c.transport.Send(serverPeer, netmsg.NewMessage(netmsg.MsgConnect, netmsg.EncodeConnect(netmsg.ConnectPayload{
		Protocol: ProtocolVersion,
		Name:     name,
		NetPort:  netPort,
	})))
}

// HandleMessage dispatches an inbound message by type. Snapshot
// messages that arrive with a frame number not strictly newer than the
// last applied one are dropped rather than queued: a late snapshot is
// stale information, and replaying it would move state backward.
func (c *ClientSession) HandleMessage(peer netmsg.PeerID, msg *netmsg.Message) {
	switch msg.Type {
	case netmsg.MsgConnAck:
		slot, err := netmsg.DecodeConnAck(msg.Payload)
		if err != nil {
			log.Printf("session: malformed connack: %v", err)
			return
		}
		c.Slot = slot
		c.Connected = true

	case netmsg.MsgSnapshot:
		frame, state, err := netmsg.DecodeSnapshot(msg.Payload)
		if err != nil {
			log.Printf("session: malformed snapshot: %v", err)
			return
		}
		if c.haveFrame && frame <= c.lastFrame {
			return // stale frame, drop rather than queue
		}
		c.lastFrame = frame
		c.haveFrame = true
		if c.OnSnapshot != nil {
			c.OnSnapshot(frame, state)
		}

	case netmsg.MsgEvent:
		e, err := netmsg.DecodeEvent(msg.Payload)
		if err != nil {
			log.Printf("session: malformed event: %v", err)
			return
		}
		if c.OnEvent != nil {
			c.OnEvent(e)
		}
	}
}

// SendCommand transmits the current usercmd sample to the server.
func (c *ClientSession) SendCommand(cmd netmsg.CommandPayload) {
	c.transport.Send(c.serverPeer, netmsg.NewMessage(netmsg.MsgCommand, netmsg.EncodeCommand(cmd)))
}

// Disconnect notifies the server and marks the session closed.
func (c *ClientSession) Disconnect() {
	c.transport.Send(c.serverPeer, netmsg.NewMessage(netmsg.MsgDisconnect, nil))
	c.Connected = false
}
