package material

import (
	"fmt"
	"strings"
)

// Profile selects the naming conventions of one content pipeline. The
// generic rules always apply; a profile layers extra rules on top.
type Profile uint8

// Known profiles.
const (
	ProfileGeneric Profile = iota
	ProfileBulletstorm
	ProfileTron
	ProfileBatman2
	ProfileBladeNSoul
	ProfileDishonored
)

var profileNames = map[Profile]string{
	ProfileGeneric:     "generic",
	ProfileBulletstorm: "bulletstorm",
	ProfileTron:        "tron",
	ProfileBatman2:     "batman2",
	ProfileBladeNSoul:  "bladensoul",
	ProfileDishonored:  "dishonored",
}

func (p Profile) String() string {
	if name, ok := profileNames[p]; ok {
		return name
	}
	return fmt.Sprintf("profile(%d)", uint8(p))
}

// ParseProfile converts a profile name. The empty string is generic.
func ParseProfile(s string) (Profile, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return ProfileGeneric, nil
	}
	for p, name := range profileNames {
		if name == s {
			return p, nil
		}
	}
	return ProfileGeneric, fmt.Errorf("unknown profile %q", s)
}

// UnmarshalText lets profiles be written by name in YAML documents.
func (p *Profile) UnmarshalText(text []byte) error {
	v, err := ParseProfile(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p Profile) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Profiles returns all known profiles in declaration order.
func Profiles() []Profile {
	return []Profile{
		ProfileGeneric, ProfileBulletstorm, ProfileTron,
		ProfileBatman2, ProfileBladeNSoul, ProfileDishonored,
	}
}
