package toml

import (
	"testing"
)

// TestDecode_MapPointerValues tests map[string]*Struct decoding, the
// shape a table with dynamic keys (e.g. a per-server roster) decodes
// into rather than fixed struct fields. config.Profile itself has only
// scalar fields and does not use this shape.
func TestDecode_MapPointerValues(t *testing.T) {
	data := map[string]any{
		"servers": map[string]any{
			"primary": map[string]any{
				"addr": "10.0.0.1:7777",
			},
			"backup": map[string]any{
				"addr": "10.0.0.2:7777",
			},
		},
	}

	type ServerEntry struct {
		Addr string `toml:"addr"`
	}
	type Config struct {
		Servers map[string]*ServerEntry `toml:"servers"`
	}

	var cfg Config
	if err := Decode(data, &cfg); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if cfg.Servers == nil {
		t.Fatal("Servers map is nil")
	}
	if len(cfg.Servers) != 2 {
		t.Fatalf("Expected 2 servers, got %d", len(cfg.Servers))
	}
	if cfg.Servers["primary"] == nil || cfg.Servers["primary"].Addr != "10.0.0.1:7777" {
		t.Errorf("primary server mismatch: %+v", cfg.Servers["primary"])
	}
	if cfg.Servers["backup"] == nil || cfg.Servers["backup"].Addr != "10.0.0.2:7777" {
		t.Errorf("backup server mismatch: %+v", cfg.Servers["backup"])
	}
}

// TestUnmarshal_DottedTableToMapPointer tests [parent.child] header
// syntax decoding into a map[string]*Struct, as a multi-region server
// list would use.
func TestUnmarshal_DottedTableToMapPointer(t *testing.T) {
	input := []byte(`
[servers.us-east]
addr = "10.0.0.1:7777"

[servers.eu-west]
addr = "10.0.1.1:7777"
`)

	type ServerEntry struct {
		Addr string `toml:"addr"`
	}
	type Config struct {
		Servers map[string]*ServerEntry `toml:"servers"`
	}

	var cfg Config
	if err := Unmarshal(input, &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if cfg.Servers == nil {
		t.Fatal("Servers map is nil")
	}
	if len(cfg.Servers) != 2 {
		t.Fatalf("Expected 2 servers, got %d", len(cfg.Servers))
	}
	if cfg.Servers["us-east"] == nil {
		t.Fatal("us-east server is nil")
	}
	if cfg.Servers["us-east"].Addr != "10.0.0.1:7777" {
		t.Errorf("us-east.Addr mismatch: %q", cfg.Servers["us-east"].Addr)
	}
}

// TestUnmarshal_InlineTableArray tests arrays of inline tables, the
// shape a per-slot client-modifier roster would take.
func TestUnmarshal_InlineTableArray(t *testing.T) {
	input := []byte(`
[roster]
clients = [
	{ slot = 0, name = "alpha" },
	{ slot = 1, name = "beta", color = "0 255 0" }
]
`)

	type ClientEntry struct {
		Slot  int    `toml:"slot"`
		Name  string `toml:"name"`
		Color string `toml:"color,omitempty"`
	}
	type Roster struct {
		Clients []ClientEntry `toml:"clients"`
	}
	type Config struct {
		Roster Roster `toml:"roster"`
	}

	var cfg Config
	if err := Unmarshal(input, &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if len(cfg.Roster.Clients) != 2 {
		t.Fatalf("Expected 2 clients, got %d", len(cfg.Roster.Clients))
	}
	if cfg.Roster.Clients[0].Name != "alpha" {
		t.Errorf("Clients[0].Name mismatch: %q", cfg.Roster.Clients[0].Name)
	}
	if cfg.Roster.Clients[1].Color != "0 255 0" {
		t.Errorf("Clients[1].Color mismatch: %q", cfg.Roster.Clients[1].Color)
	}
}

func TestUnmarshal_MultilineInlineTable(t *testing.T) {
	input := []byte(`
[server]
limits = {
	max_clients = 8,
	modifiers = { damage_mod = 1.0, armor_mod = 1.0 },
	banned_slots = [
		{ slot = 3 },
		{ slot = 5 }
	]
}
`)

	type BannedSlot struct {
		Slot int `toml:"slot"`
	}
	type Limits struct {
		MaxClients  int            `toml:"max_clients"`
		Modifiers   map[string]any `toml:"modifiers"`
		BannedSlots []BannedSlot   `toml:"banned_slots"`
	}
	type Server struct {
		Limits Limits `toml:"limits"`
	}
	type Config struct {
		Server Server `toml:"server"`
	}

	var cfg Config
	if err := Unmarshal(input, &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if cfg.Server.Limits.MaxClients != 8 {
		t.Errorf("MaxClients = %d", cfg.Server.Limits.MaxClients)
	}
	if cfg.Server.Limits.Modifiers["damage_mod"] != 1.0 {
		t.Errorf("Modifiers.damage_mod = %v", cfg.Server.Limits.Modifiers["damage_mod"])
	}
	if len(cfg.Server.Limits.BannedSlots) != 2 || cfg.Server.Limits.BannedSlots[1].Slot != 5 {
		t.Errorf("BannedSlots = %+v", cfg.Server.Limits.BannedSlots)
	}
}

// TestUnmarshal_DeeplyNestedMultiline exercises a deeply nested inline
// table, the shape a ship layout's connection/compartment overrides
// would take if they were ever externalized to config instead of
// built in scenario.BuildShip.
func TestUnmarshal_DeeplyNestedMultiline(t *testing.T) {
	input := []byte(`
connection = { compartments = [0, 1], width = 2.5, override = { reason = "damaged", applied_by = { slot = 2, name = "alpha" } } }
`)

	type AppliedBy struct {
		Slot int    `toml:"slot"`
		Name string `toml:"name"`
	}
	type Override struct {
		Reason    string    `toml:"reason"`
		AppliedBy AppliedBy `toml:"applied_by"`
	}
	type Connection struct {
		Compartments []int    `toml:"compartments"`
		Width        float64  `toml:"width"`
		Override     Override `toml:"override"`
	}
	type Root struct {
		Connection Connection `toml:"connection"`
	}

	var cfg Root
	if err := Unmarshal(input, &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if cfg.Connection.Width != 2.5 {
		t.Errorf("Width = %f", cfg.Connection.Width)
	}
	if len(cfg.Connection.Compartments) != 2 || cfg.Connection.Compartments[1] != 1 {
		t.Errorf("Compartments = %v", cfg.Connection.Compartments)
	}
	if cfg.Connection.Override.AppliedBy.Name != "alpha" {
		t.Errorf("Override.AppliedBy.Name = %q", cfg.Connection.Override.AppliedBy.Name)
	}
}

// TestUnmarshal_ServerRosterExact mirrors the full shape a server
// operator's config file would take: a profile-like root plus a
// dynamic per-region server map, matching how config.Profile itself
// decodes but with the map[string]*Struct wrinkle Profile's three
// scalar fields never exercise.
func TestUnmarshal_ServerRosterExact(t *testing.T) {
	input := []byte(`
net_master = "oedhead.no-ip.org"

[regions.us-east]
addr = "10.0.0.1:7777"
max_clients = 8
modifiers = [
	{ slot = 0, damage_mod = 1.0 }
]

[regions.eu-west]
addr = "10.0.1.1:7777"
max_clients = 4
modifiers = [
	{ slot = 0, damage_mod = 1.5 },
	{ slot = 1, damage_mod = 0.75 }
]
`)

	type ModifierEntry struct {
		Slot      int     `toml:"slot"`
		DamageMod float64 `toml:"damage_mod"`
	}
	type RegionConfig struct {
		Addr       string          `toml:"addr,omitempty"`
		MaxClients int             `toml:"max_clients,omitempty"`
		Modifiers  []ModifierEntry `toml:"modifiers,omitempty"`
	}
	type RootConfig struct {
		NetMaster string                   `toml:"net_master"`
		Regions   map[string]*RegionConfig `toml:"regions"`
	}

	var cfg RootConfig
	if err := Unmarshal(input, &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if cfg.NetMaster != "oedhead.no-ip.org" {
		t.Errorf("NetMaster mismatch: %q", cfg.NetMaster)
	}

	if cfg.Regions == nil {
		t.Fatal("Regions map is nil")
	}
	if len(cfg.Regions) != 2 {
		t.Errorf("Expected 2 regions, got %d", len(cfg.Regions))
		for k := range cfg.Regions {
			t.Logf("  Found region: %q", k)
		}
	}

	euWest := cfg.Regions["eu-west"]
	if euWest == nil {
		t.Fatal("eu-west region is nil")
	}
	if euWest.MaxClients != 4 {
		t.Errorf("eu-west.MaxClients mismatch: %d", euWest.MaxClients)
	}
	if len(euWest.Modifiers) != 2 {
		t.Errorf("eu-west.Modifiers count mismatch: %d", len(euWest.Modifiers))
	}
	if euWest.Modifiers[1].DamageMod != 0.75 {
		t.Errorf("eu-west.Modifiers[1].DamageMod mismatch: %v", euWest.Modifiers[1].DamageMod)
	}
}

// TestParser_DottedTableStructure verifies parser output for dotted
// tables, independent of struct decoding.
func TestParser_DottedTableStructure(t *testing.T) {
	input := []byte(`
[regions.Alpha]
name = "first"

[regions.Beta]
name = "second"
`)

	p := NewParser(input)
	result, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	regions, ok := result["regions"]
	if !ok {
		t.Fatal("'regions' key missing from parser output")
	}

	regionsMap, ok := regions.(map[string]any)
	if !ok {
		t.Fatalf("'regions' is not map[string]any, got %T", regions)
	}

	if len(regionsMap) != 2 {
		t.Errorf("Expected 2 regions in parser output, got %d", len(regionsMap))
	}

	alpha, ok := regionsMap["Alpha"]
	if !ok {
		t.Error("'Alpha' key missing")
	}
	alphaMap, ok := alpha.(map[string]any)
	if !ok {
		t.Fatalf("'Alpha' is not map[string]any, got %T", alpha)
	}
	if alphaMap["name"] != "first" {
		t.Errorf("Alpha.name mismatch: %v", alphaMap["name"])
	}
}

// TestDecode_MapNilInitialization verifies map initialization during
// decode when the destination map field starts out nil, as every map
// field of a zero-valued struct does.
func TestDecode_MapNilInitialization(t *testing.T) {
	data := map[string]any{
		"servers": map[string]any{
			"primary": map[string]any{"addr": "10.0.0.1:7777"},
		},
	}

	type ServerEntry struct {
		Addr string `toml:"addr"`
	}
	type Config struct {
		Servers map[string]*ServerEntry `toml:"servers"` // nil initially
	}

	var cfg Config
	// cfg.Servers is nil here

	if err := Decode(data, &cfg); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if cfg.Servers == nil {
		t.Fatal("Decode did not initialize nil map")
	}
}

// TestUnmarshal_ExtremeComplexity stress-tests the decoder against a
// config file shaped like a full server deployment descriptor: scalar
// root fields, deep dotted headers, hyphenated keys, map-of-pointer
// regions, array-of-tables waves of matches, and the numeric/string
// edge cases a hand-edited TOML file tends to contain.
func TestUnmarshal_ExtremeComplexity(t *testing.T) {
	input := []byte(`
# Root level mixed types
version = "2.0.0-beta"
debug = true
tick_rate = 144
delta_time = 0.00694

# Deep dotted header (5 levels)
[transport.frame.codec.header.config]
name = "big-endian-fixed"
priority = 1
enabled = true
scale_factor = 1.5e-2
tags = ["length-prefixed", "checksummed", "versioned"]

# Nested inline table inside dotted section
[transport.frame.codec.header.config.limits]
width = 1920
height = 1080
settings = { vsync = true, hdr = false, gamma = 2.2 }

# Hyphenated keys at multiple levels
[world.rail-network.track-geometry]
enabled = true
max-edges = 64
continuity-filter = "tangent"
turn-rate = 1.0e+0

# Map with pointer values using dotted headers
[world.entities.tank-alpha]
health = 100
position.x = 0.0
position.y = -9.81e-1
position.z = 0.0
tags = ["controllable", "damageable"]
inventory = { slots = 20, weight_limit = 150.5 }

[world.entities.tank-boss]
health = 5000
position.x = 100.0
position.y = 0.0
position.z = -50.0
tags = ["hostile", "boss", "damageable"]
ai = { aggression = 0.9, patrol_radius = 25 }

[world.entities."tänk-ünïcödé"]
health = 1
position.x = 1.0
position.y = 1.0
position.z = 1.0
tags = []

# Nested map of maps
[world.ships.hull-01.compartments.bridge]
bounds.min.x = -10
bounds.min.y = 0
bounds.min.z = -10
bounds.max.x = 10
bounds.max.y = 5
bounds.max.z = 10
leak_rate = 0
sealed = true

[world.ships.hull-01.compartments.engine-room]
bounds.min.x = 50
bounds.min.y = 0
bounds.min.z = 50
bounds.max.x = 150
bounds.max.y = 20
bounds.max.z = 150
leak_rate = 25
sealed = false

# Array of tables with nested complexity
[[world.matches]]
id = 1
delay_ms = 0
spawns = [
	{ entity = "tank-grunt", count = 5, position = { x = 10.0, y = 0.0, z = 10.0 } },
	{ entity = "tank-scout", count = 3, position = { x = -10.0, y = 0.0, z = 10.0 } }
]

[[world.matches]]
id = 2
delay_ms = 30000
spawns = [
	{ entity = "tank-boss", count = 1, position = { x = 0.0, y = 0.0, z = 50.0 } }
]

# Deeply nested with mixed inline and standard tables
[physics.collision.layers.tank-projectiles]
mask = 0b1010
priority = 10
callbacks.on_enter = "HandleProjectileHit"
callbacks.on_exit = "CleanupProjectile"

[physics.collision.layers.environment]
mask = 0b1111
priority = 1
callbacks.on_enter = "HandleCollision"
callbacks.on_exit = ""

# Scientific notation stress test
[constants]
planck = 6.62607015e-34
c = 2.998e+8
epsilon_0 = 8.854e-12
very_small = 1e-100
very_large = 1e+100
negative_exp = -5.5e-10

# Empty and edge cases mixed in
[edge.cases]
empty_string = ""
empty_array = []
empty_inline = {}
zero_int = 0
zero_float = 0.0
negative_int = -42
negative_float = -273.15
unicode_value = "戦車テスト 🎮 Τανκ"
hex_val = 0xDEAD
octal_val = 0o755
binary_val = 0b1010
`)

	type Vec3 struct {
		X float64 `toml:"x"`
		Y float64 `toml:"y"`
		Z float64 `toml:"z"`
	}

	type Bounds struct {
		Min Vec3 `toml:"min"`
		Max Vec3 `toml:"max"`
	}

	type LimitsSettings struct {
		Vsync bool    `toml:"vsync"`
		HDR   bool    `toml:"hdr"`
		Gamma float64 `toml:"gamma"`
	}

	type Limits struct {
		Width    int            `toml:"width"`
		Height   int            `toml:"height"`
		Settings LimitsSettings `toml:"settings"`
	}

	type HeaderConfig struct {
		Name        string   `toml:"name"`
		Priority    int      `toml:"priority"`
		Enabled     bool     `toml:"enabled"`
		ScaleFactor float64  `toml:"scale_factor"`
		Tags        []string `toml:"tags"`
		Limits      Limits   `toml:"limits"`
	}

	type Header struct {
		Config HeaderConfig `toml:"config"`
	}

	type Codec struct {
		Header Header `toml:"header"`
	}

	type Frame struct {
		Codec Codec `toml:"codec"`
	}

	type Transport struct {
		Frame Frame `toml:"frame"`
	}

	type TrackGeometry struct {
		Enabled           bool    `toml:"enabled"`
		MaxEdges          int     `toml:"max-edges"`
		ContinuityFilter  string  `toml:"continuity-filter"`
		TurnRate          float64 `toml:"turn-rate"`
	}

	type RailNetwork struct {
		TrackGeometry TrackGeometry `toml:"track-geometry"`
	}

	type EntityConfig struct {
		Health    int            `toml:"health"`
		Position  Vec3           `toml:"position"`
		Tags      []string       `toml:"tags"`
		Inventory map[string]any `toml:"inventory,omitempty"`
		AI        map[string]any `toml:"ai,omitempty"`
	}

	type Compartment struct {
		Bounds   Bounds `toml:"bounds"`
		LeakRate int    `toml:"leak_rate"`
		Sealed   bool   `toml:"sealed"`
	}

	type Hull struct {
		Compartments map[string]*Compartment `toml:"compartments"`
	}

	type SpawnPoint struct {
		Entity   string         `toml:"entity"`
		Count    int            `toml:"count"`
		Position map[string]any `toml:"position"`
	}

	type Match struct {
		ID      int          `toml:"id"`
		DelayMs int          `toml:"delay_ms"`
		Spawns  []SpawnPoint `toml:"spawns"`
	}

	type World struct {
		RailNetwork RailNetwork              `toml:"rail-network"`
		Entities    map[string]*EntityConfig `toml:"entities"`
		Ships       map[string]*Hull         `toml:"ships"`
		Matches     []*Match                 `toml:"matches"`
	}

	type Callbacks struct {
		OnEnter string `toml:"on_enter"`
		OnExit  string `toml:"on_exit"`
	}

	type CollisionLayer struct {
		Mask      int       `toml:"mask"`
		Priority  int       `toml:"priority"`
		Callbacks Callbacks `toml:"callbacks"`
	}

	type Collision struct {
		Layers map[string]*CollisionLayer `toml:"layers"`
	}

	type Physics struct {
		Collision Collision `toml:"collision"`
	}

	type Constants struct {
		Planck      float64 `toml:"planck"`
		C           float64 `toml:"c"`
		Epsilon0    float64 `toml:"epsilon_0"`
		VerySmall   float64 `toml:"very_small"`
		VeryLarge   float64 `toml:"very_large"`
		NegativeExp float64 `toml:"negative_exp"`
	}

	type EdgeCases struct {
		EmptyString   string         `toml:"empty_string"`
		EmptyArray    []any          `toml:"empty_array"`
		EmptyInline   map[string]any `toml:"empty_inline"`
		ZeroInt       int            `toml:"zero_int"`
		ZeroFloat     float64        `toml:"zero_float"`
		NegativeInt   int            `toml:"negative_int"`
		NegativeFloat float64        `toml:"negative_float"`
		UnicodeValue  string         `toml:"unicode_value"`
		HexVal        int            `toml:"hex_val"`
		OctalVal      int            `toml:"octal_val"`
		BinaryVal     int            `toml:"binary_val"`
	}

	type Edge struct {
		Cases EdgeCases `toml:"cases"`
	}

	type Config struct {
		Version   string    `toml:"version"`
		Debug     bool      `toml:"debug"`
		TickRate  int       `toml:"tick_rate"`
		DeltaTime float64   `toml:"delta_time"`
		Transport Transport `toml:"transport"`
		World     World     `toml:"world"`
		Physics   Physics   `toml:"physics"`
		Constants Constants `toml:"constants"`
		Edge      Edge      `toml:"edge"`
	}

	var cfg Config
	if err := Unmarshal(input, &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	// Root level
	if cfg.Version != "2.0.0-beta" {
		t.Errorf("Version = %q", cfg.Version)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
	if cfg.TickRate != 144 {
		t.Errorf("TickRate = %d", cfg.TickRate)
	}

	// 5-level deep dotted header
	hc := cfg.Transport.Frame.Codec.Header.Config
	if hc.Name != "big-endian-fixed" {
		t.Errorf("Header.Config.Name = %q", hc.Name)
	}
	if hc.ScaleFactor != 1.5e-2 {
		t.Errorf("ScaleFactor = %e", hc.ScaleFactor)
	}
	if len(hc.Tags) != 3 || hc.Tags[1] != "checksummed" {
		t.Errorf("Header tags = %v", hc.Tags)
	}
	if hc.Limits.Width != 1920 {
		t.Errorf("Limits.Width = %d", hc.Limits.Width)
	}
	if hc.Limits.Settings.Gamma != 2.2 {
		t.Errorf("Limits.Settings.Gamma = %f", hc.Limits.Settings.Gamma)
	}

	// Hyphenated keys
	tg := cfg.World.RailNetwork.TrackGeometry
	if tg.MaxEdges != 64 {
		t.Errorf("MaxEdges = %d", tg.MaxEdges)
	}
	if tg.ContinuityFilter != "tangent" {
		t.Errorf("ContinuityFilter = %q", tg.ContinuityFilter)
	}

	// Map pointer values with dotted keys inside
	alpha := cfg.World.Entities["tank-alpha"]
	if alpha == nil {
		t.Fatal("tank-alpha entity nil")
	}
	if alpha.Health != 100 {
		t.Errorf("tank-alpha.Health = %d", alpha.Health)
	}
	if alpha.Position.Y != -9.81e-1 {
		t.Errorf("tank-alpha.Position.Y = %e", alpha.Position.Y)
	}
	if len(alpha.Tags) != 2 {
		t.Errorf("tank-alpha.Tags = %v", alpha.Tags)
	}

	boss := cfg.World.Entities["tank-boss"]
	if boss == nil {
		t.Fatal("tank-boss entity nil")
	}
	if boss.Health != 5000 {
		t.Errorf("boss.Health = %d", boss.Health)
	}

	// Unicode key (edge case)
	unicode := cfg.World.Entities["tänk-ünïcödé"]
	if unicode == nil {
		t.Fatal("unicode entity nil")
	}
	if unicode.Health != 1 {
		t.Errorf("unicode.Health = %d", unicode.Health)
	}

	// Deeply nested map of maps
	hull := cfg.World.Ships["hull-01"]
	if hull == nil {
		t.Fatal("hull-01 nil")
	}
	bridge := hull.Compartments["bridge"]
	if bridge == nil {
		t.Fatal("bridge nil")
	}
	if bridge.Bounds.Min.X != -10 {
		t.Errorf("bridge.Bounds.Min.X = %f", bridge.Bounds.Min.X)
	}
	if bridge.Bounds.Max.Y != 5 {
		t.Errorf("bridge.Bounds.Max.Y = %f", bridge.Bounds.Max.Y)
	}
	if !bridge.Sealed {
		t.Error("bridge.Sealed should be true")
	}

	engineRoom := hull.Compartments["engine-room"]
	if engineRoom == nil {
		t.Fatal("engine-room nil")
	}
	if engineRoom.LeakRate != 25 {
		t.Errorf("engineRoom.LeakRate = %d", engineRoom.LeakRate)
	}

	// Array of tables with pointer slice
	if len(cfg.World.Matches) != 2 {
		t.Fatalf("Matches count = %d", len(cfg.World.Matches))
	}
	m1 := cfg.World.Matches[0]
	if m1.ID != 1 || m1.DelayMs != 0 {
		t.Errorf("Match[0] = %+v", m1)
	}
	if len(m1.Spawns) != 2 {
		t.Errorf("Match[0].Spawns count = %d", len(m1.Spawns))
	}
	if m1.Spawns[0].Entity != "tank-grunt" || m1.Spawns[0].Count != 5 {
		t.Errorf("Match[0].Spawns[0] = %+v", m1.Spawns[0])
	}

	m2 := cfg.World.Matches[1]
	if m2.DelayMs != 30000 {
		t.Errorf("Match[1].DelayMs = %d", m2.DelayMs)
	}

	// Collision layers map
	projLayer := cfg.Physics.Collision.Layers["tank-projectiles"]
	if projLayer == nil {
		t.Fatal("tank-projectiles layer nil")
	}
	if projLayer.Mask != 0b1010 {
		t.Errorf("projLayer.Mask = %d", projLayer.Mask)
	}
	if projLayer.Callbacks.OnEnter != "HandleProjectileHit" {
		t.Errorf("projLayer.Callbacks.OnEnter = %q", projLayer.Callbacks.OnEnter)
	}

	// Scientific notation
	if cfg.Constants.Planck != 6.62607015e-34 {
		t.Errorf("Planck = %e", cfg.Constants.Planck)
	}
	if cfg.Constants.C != 2.998e+8 {
		t.Errorf("C = %e", cfg.Constants.C)
	}
	if cfg.Constants.VerySmall != 1e-100 {
		t.Errorf("VerySmall = %e", cfg.Constants.VerySmall)
	}
	if cfg.Constants.NegativeExp != -5.5e-10 {
		t.Errorf("NegativeExp = %e", cfg.Constants.NegativeExp)
	}

	// Edge cases
	if cfg.Edge.Cases.EmptyString != "" {
		t.Errorf("EmptyString = %q", cfg.Edge.Cases.EmptyString)
	}
	if len(cfg.Edge.Cases.EmptyArray) != 0 {
		t.Errorf("EmptyArray = %v", cfg.Edge.Cases.EmptyArray)
	}
	if len(cfg.Edge.Cases.EmptyInline) != 0 {
		t.Errorf("EmptyInline = %v", cfg.Edge.Cases.EmptyInline)
	}
	if cfg.Edge.Cases.NegativeInt != -42 {
		t.Errorf("NegativeInt = %d", cfg.Edge.Cases.NegativeInt)
	}
	if cfg.Edge.Cases.NegativeFloat != -273.15 {
		t.Errorf("NegativeFloat = %f", cfg.Edge.Cases.NegativeFloat)
	}
	if cfg.Edge.Cases.UnicodeValue != "戦車テスト 🎮 Τανκ" {
		t.Errorf("UnicodeValue = %q", cfg.Edge.Cases.UnicodeValue)
	}
	if cfg.Edge.Cases.HexVal != 0xDEAD {
		t.Errorf("HexVal = %d, want %d", cfg.Edge.Cases.HexVal, 0xDEAD)
	}
	if cfg.Edge.Cases.OctalVal != 0o755 {
		t.Errorf("OctalVal = %d, want %d", cfg.Edge.Cases.OctalVal, 0o755)
	}
	if cfg.Edge.Cases.BinaryVal != 0b1010 {
		t.Errorf("BinaryVal = %d, want %d", cfg.Edge.Cases.BinaryVal, 0b1010)
	}
}
