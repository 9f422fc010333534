package models

import "sort"

// Interface is a switch port as the CDP table prints it, e.g. Fas 0/1.
type Interface struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

func (i Interface) String() string {
	return i.Type + " " + i.Number
}

// Neighbors maps a phone device name to the switch interface it was seen on.
type Neighbors map[string]Interface

// Names returns the device names in a stable order.
func (n Neighbors) Names() []string {
	names := make([]string, 0, len(n))
	for name := range n {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CdpEntry is one row of the CISCO-CDP-MIB cache table.
type CdpEntry struct {
	IfIndex    int
	DeviceID   string
	DevicePort string
}

// NeighborTable collects SNMP walk results before they are turned into
// Neighbors. Entries are keyed by "<ifIndex>.<deviceIndex>".
type NeighborTable struct {
	Hostname string
	SysName  string
	IfNames  map[int]string
	Entries  map[string]CdpEntry
}

func (t *NeighborTable) SetIfName(val string, index int) {
	if t.IfNames == nil {
		t.IfNames = map[int]string{}
	}
	t.IfNames[index] = val
}

func (t *NeighborTable) SetDeviceID(val string, ifIndex int, key string) {
	if t.Entries == nil {
		t.Entries = map[string]CdpEntry{}
	}
	updateValue := t.Entries[key]
	updateValue.IfIndex = ifIndex
	updateValue.DeviceID = val
	t.Entries[key] = updateValue
}

func (t *NeighborTable) SetDevicePort(val string, ifIndex int, key string) {
	if t.Entries == nil {
		t.Entries = map[string]CdpEntry{}
	}
	updateValue := t.Entries[key]
	updateValue.IfIndex = ifIndex
	updateValue.DevicePort = val
	t.Entries[key] = updateValue
}
