// Package ifname converts between the interface type abbreviations shown in
// the CDP neighbor table and the full names IOS expects in configuration.
package ifname

import (
	"errors"
	"fmt"
	"regexp"
)

var ErrUnknownInterfaceType = errors.New("unknown interface type")

// Expansions maps CDP table abbreviations to configuration names.
var Expansions = map[string]string{
	"Fas": "FastEthernet",
	"Gig": "GigabitEthernet",
}

var splitRe = regexp.MustCompile(`^([A-Za-z][A-Za-z-]*)\s*(\d\S*)$`)

func Expand(abbr string) (string, error) {
	full, ok := Expansions[abbr]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownInterfaceType, abbr)
	}
	return full, nil
}

func Abbreviate(full string) (string, error) {
	for abbr, name := range Expansions {
		if name == full {
			return abbr, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownInterfaceType, full)
}

// Split breaks an ifDescr style name such as FastEthernet0/1 into its type and
// number.
func Split(name string) (string, string, error) {
	m := splitRe.FindStringSubmatch(name)
	if m == nil {
		return "", "", fmt.Errorf("can not split interface name %q", name)
	}
	return m[1], m[2], nil
}
