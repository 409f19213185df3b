// Package player implements the tank entity: the part of world state a
// usercmd drives and a snapshot replicates.
package player

import (
	"math"

	"github.com/lixenwraith/tanks/netmsg"
	"github.com/lixenwraith/tanks/simworld"
	"github.com/lixenwraith/tanks/usercmd"
	"github.com/lixenwraith/tanks/vmath"
)

// Physical constants governing every tank's hull and turret motion.
const (
	MaxSpeed          = 20.0
	MaxTurnRate       = 2.5 // radians/sec, hull
	MaxTurretTurnRate = 4.0 // radians/sec, turret relative to hull
	RefireTime        = 0.5 // seconds between shots
	MaxDamage         = 100.0
)

// Player is one connected client's tank: hull position/rotation driven
// by the move vector, turret rotation driven independently by the look
// vector, and a cooldown gating ActionWeapon1.
type Player struct {
	simworld.Base

	Slot uint8

	Position vmath.Vec2F
	Velocity vmath.Vec2F
	Rotation float64

	AngularVelocity       float64
	TurretRotation        float64
	TurretAngularVelocity float64

	Damage   float64
	FireTime float64

	cooldown float64
}

// NewPlayer returns a constructor suitable for simworld.Spawn.
func NewPlayer(slot uint8) func() *Player {
	return func() *Player {
		return &Player{Slot: slot}
	}
}

// Think integrates one tick of hull/turret motion and counts down the
// weapon cooldown. It does not move the tank on its own: ApplyCommand
// is what turns a decoded netmsg.CommandPayload into Velocity/AngularVelocity
// ahead of the next Think.
func (p *Player) Think(w *simworld.World, dt float64) {
	p.Position = vmath.V2FAdd(p.Position, vmath.V2FScale(p.Velocity, dt))
	p.Rotation = wrapAngle(p.Rotation + p.AngularVelocity*dt)
	p.TurretRotation = wrapAngle(p.TurretRotation + p.TurretAngularVelocity*dt)

	if p.cooldown > 0 {
		p.cooldown = math.Max(0, p.cooldown-dt)
	}
	if p.FireTime > 0 {
		p.FireTime = math.Max(0, p.FireTime-dt)
	}
}

// ApplyCommand derives this tick's velocity and angular velocities
// from a decoded CommandPayload: Move is a unit-ish hull-relative
// thrust vector scaled to MaxSpeed, Look is a world-space aim point
// the turret turns toward at MaxTurretTurnRate, and
// usercmd.ActionWeapon1 fires if the cooldown has elapsed.
func (p *Player) ApplyCommand(cmd netmsg.CommandPayload, dt float64) {
	move := vmath.Vec2F{X: float64(cmd.MoveX), Y: float64(cmd.MoveY)}
	if mag := vmath.V2FMag(move); mag > 1 {
		move = vmath.V2FScale(move, 1/mag)
	}
	p.Velocity = vmath.V2FScale(move, MaxSpeed)

	if vmath.V2FMagSq(move) > 0 {
		heading := math.Atan2(move.Y, move.X)
		p.AngularVelocity = turnToward(p.Rotation, heading, MaxTurnRate)
	} else {
		p.AngularVelocity = 0
	}

	look := vmath.Vec2F{X: float64(cmd.LookX), Y: float64(cmd.LookY)}
	if vmath.V2FMagSq(look) > 0 {
		aim := math.Atan2(look.Y-p.Position.Y, look.X-p.Position.X)
		p.TurretAngularVelocity = turnToward(p.TurretRotation, aim, MaxTurretTurnRate)
	} else {
		p.TurretAngularVelocity = 0
	}

	if usercmd.Action(cmd.Action) == usercmd.ActionWeapon1 && p.cooldown == 0 {
		p.cooldown = RefireTime
		p.FireTime = RefireTime
	}
}

// ApplyDamage adds amount to Damage, clamped to MaxDamage.
func (p *Player) ApplyDamage(amount float64) {
	p.Damage = math.Min(MaxDamage, p.Damage+amount)
}

// turnToward returns the angular velocity (signed, magnitude capped at
// rate) that turns current toward target along the shorter arc.
func turnToward(current, target, rate float64) float64 {
	diff := wrapAngle(target - current)
	if diff > rate {
		return rate
	}
	if diff < -rate {
		return -rate
	}
	return diff
}

// wrapAngle normalizes a to (-pi, pi].
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Record packs the player's replicated fields into the wire format
// netmsg.EncodePlayerBlock serializes.
func (p *Player) Record() netmsg.PlayerRecord {
	return netmsg.PlayerRecord{
		Slot:                  p.Slot,
		PosX:                  float32(p.Position.X),
		PosY:                  float32(p.Position.Y),
		VelX:                  float32(p.Velocity.X),
		VelY:                  float32(p.Velocity.Y),
		Rotation:              float32(p.Rotation),
		AngularVelocity:       float32(p.AngularVelocity),
		TurretRotation:        float32(p.TurretRotation),
		TurretAngularVelocity: float32(p.TurretAngularVelocity),
		Damage:                float32(p.Damage),
		FireTime:              float32(p.FireTime),
	}
}

// ApplyRecord overwrites the player's replicated fields from a decoded
// wire record, the client-side counterpart of Record.
func (p *Player) ApplyRecord(r netmsg.PlayerRecord) {
	p.Slot = r.Slot
	p.Position = vmath.Vec2F{X: float64(r.PosX), Y: float64(r.PosY)}
	p.Velocity = vmath.Vec2F{X: float64(r.VelX), Y: float64(r.VelY)}
	p.Rotation = float64(r.Rotation)
	p.AngularVelocity = float64(r.AngularVelocity)
	p.TurretRotation = float64(r.TurretRotation)
	p.TurretAngularVelocity = float64(r.TurretAngularVelocity)
	p.Damage = float64(r.Damage)
	p.FireTime = float64(r.FireTime)
}
