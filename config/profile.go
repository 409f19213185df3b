// Package config persists the player's profile variables across runs,
// on top of the hand-rolled TOML encoder/decoder in toml/.
package config

import (
	"fmt"
	"log"
	"os"
	"os/user"
	"path/filepath"

	"github.com/lixenwraith/tanks/toml"
)

// legibilityFloor is the minimum r+g+b sum (each channel normalized to
// [0,1]) a player color must reach; colors darker than this are scaled
// up uniformly.
const legibilityFloor = 0.75

// Profile holds the three persisted configuration variables.
type Profile struct {
	NetMaster string `toml:"net_master"`
	UIName    string `toml:"ui_name"`
	UIColor   string `toml:"ui_color"`
}

// Default returns a Profile populated with the documented defaults:
// the well-known master hostname, the OS username, and pure red.
func Default() Profile {
	name := "player"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	return Profile{
		NetMaster: "oedhead.no-ip.org",
		UIName:    name,
		UIColor:   "255 0 0",
	}
}

// Dir returns the directory profile.toml lives in, creating it if
// necessary: $XDG_CONFIG_HOME/tanks, falling back to ~/.config/tanks.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	dir := filepath.Join(base, "tanks")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// Load reads profile.toml from Dir. A missing or malformed file is not
// an error: it logs a warning and returns Default().
func Load() Profile {
	dir, err := Dir()
	if err != nil {
		log.Printf("config: could not resolve config directory: %v, using defaults", err)
		return Default()
	}

	path := filepath.Join(dir, "profile.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("config: could not read %s: %v, using defaults", path, err)
		}
		return Default()
	}

	profile := Default()
	if err := toml.Unmarshal(data, &profile); err != nil {
		log.Printf("config: could not parse %s: %v, using defaults", path, err)
		return Default()
	}
	return profile
}

// Save writes profile to profile.toml, overwriting any existing file.
func Save(profile Profile) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	data, err := toml.Marshal(profile)
	if err != nil {
		return fmt.Errorf("config: marshal profile: %w", err)
	}
	path := filepath.Join(dir, "profile.toml")
	return os.WriteFile(path, data, 0644)
}

// SaveUserColor persists color (already normalized by ParseColor)
// back into the on-disk profile, as the client does at shutdown.
func SaveUserColor(r, g, b uint8) error {
	profile := Load()
	profile.UIColor = fmt.Sprintf("%d %d %d", r, g, b)
	return Save(profile)
}

// ParseColor parses a "r g b" ui_color string (each channel 0-255)
// and normalizes it per the legibility rule: if the channels, each
// scaled to [0,1], sum below legibilityFloor, every channel is scaled
// up so the sum equals legibilityFloor exactly (or set to
// legibilityFloor/3 each if the sum was zero).
func ParseColor(s string) (r, g, b uint8) {
	var ri, gi, bi int
	if _, err := fmt.Sscanf(s, "%d %d %d", &ri, &gi, &bi); err != nil {
		ri, gi, bi = 255, 0, 0
	}

	rf, gf, bf := float64(ri)/255, float64(gi)/255, float64(bi)/255
	sum := rf + gf + bf

	switch {
	case sum == 0:
		rf, gf, bf = legibilityFloor/3, legibilityFloor/3, legibilityFloor/3
	case sum < legibilityFloor:
		scale := legibilityFloor / sum
		rf, gf, bf = rf*scale, gf*scale, bf*scale
	}

	clamp := func(f float64) uint8 {
		v := f * 255
		if v > 255 {
			return 255
		}
		if v < 0 {
			return 0
		}
		return uint8(v)
	}
	return clamp(rf), clamp(gf), clamp(bf)
}
