package config

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

// CharDef is a character definition file in the MUGEN style:
// INI sections describing name, size, velocities and palette.
type CharDef struct {
	Info     CharInfo     `ini:"Info"`
	Size     CharSize     `ini:"Size"`
	Velocity CharVelocity `ini:"Velocity"`
	Fireball CharFireball `ini:"Fireball"`
	Colors   CharColors   `ini:"Colors"`
}

// CharInfo is the [Info] section.
type CharInfo struct {
	Name        string `ini:"name"`
	DisplayName string `ini:"displayname"`
	Author      string `ini:"author"`
}

// CharSize is the [Size] section, in cells.
type CharSize struct {
	Width        float64 `ini:"width"`
	Height       float64 `ini:"height"`
	CrouchHeight float64 `ini:"crouch.height"`
}

// CharVelocity is the [Velocity] section, in cells per frame.
type CharVelocity struct {
	WalkFwd  float64 `ini:"walk.fwd"`
	WalkBack float64 `ini:"walk.back"`
	JumpY    float64 `ini:"jump.y"`
	JumpFwd  float64 `ini:"jump.fwd"`
	JumpBack float64 `ini:"jump.back"`
}

// CharFireball is the [Fireball] section.
type CharFireball struct {
	SpeedLight  float64 `ini:"speed.light"`
	SpeedMedium float64 `ini:"speed.medium"`
	SpeedHeavy  float64 `ini:"speed.heavy"`
}

// CharColors is the [Colors] section. Values are color names understood by core.ParseColor.
type CharColors struct {
	Gi   string `ini:"gi"`
	Belt string `ini:"belt"`
	Skin string `ini:"skin"`
	Hair string `ini:"hair"`
}

var loadOptions = ini.LoadOptions{
	SkipUnrecognizableLines: true,
	IgnoreInlineComment:     false,
}

// CharacterIDs lists the characters with a built-in definition, sorted.
func CharacterIDs() []string {
	entries, err := defaultChars.ReadDir("defaults/chars")
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if id, ok := strings.CutSuffix(e.Name(), ".def"); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// LoadCharacter reads the definition of a built-in character.
// Keys in ~/.fighter/chars/<id>.def override the built-in ones.
func LoadCharacter(id string) (CharDef, error) {
	return LoadCharacterWithOverride(id, userPath("chars", id+".def"))
}

// LoadCharacterWithOverride reads a built-in definition and layers the
// override file on top when it exists.
func LoadCharacterWithOverride(id, overridePath string) (CharDef, error) {
	base, err := defaultChars.ReadFile(path.Join("defaults/chars", id+".def"))
	if err != nil {
		return CharDef{}, fmt.Errorf("config: unknown character %q", id)
	}

	sources := []any{base}
	if overridePath != "" {
		if _, statErr := os.Stat(overridePath); statErr == nil {
			sources = append(sources, overridePath)
		}
	}

	file, err := ini.LoadSources(loadOptions, sources[0], sources[1:]...)
	if err != nil {
		return CharDef{}, fmt.Errorf("config: failed to read character %q: %w", id, err)
	}

	var def CharDef
	if err := file.MapTo(&def); err != nil {
		return CharDef{}, fmt.Errorf("config: failed to map character %q: %w", id, err)
	}
	if def.Size.Width <= 0 || def.Size.Height <= 0 {
		return CharDef{}, fmt.Errorf("config: character %q has no size", id)
	}
	if def.Size.CrouchHeight <= 0 {
		def.Size.CrouchHeight = def.Size.Height * 2 / 3
	}
	if def.Info.DisplayName == "" {
		def.Info.DisplayName = strings.ToUpper(def.Info.Name)
	}
	return def, nil
}
