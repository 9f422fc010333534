package models

import "fmt"

// InterfaceUpdate is the description a phone's switch port should carry.
type InterfaceUpdate struct {
	Switch      string    `json:"switch,omitempty"`
	DeviceName  string    `json:"device_name"`
	Interface   Interface `json:"interface"`
	Description string    `json:"description"`
}

// ConfigLines renders the update as IOS configuration ready to paste.
func (u InterfaceUpdate) ConfigLines() string {
	return fmt.Sprintf("interface %s\n  description phone - %s", u.Interface, u.Description)
}

// UpdateRecord is an audit row for one attempt to apply an InterfaceUpdate.
type UpdateRecord struct {
	Time        int64  `ch:"time" json:"time"`
	Switch      string `ch:"switch" json:"switch"`
	DeviceName  string `ch:"device_name" json:"device_name"`
	Interface   string `ch:"interface" json:"interface"`
	Description string `ch:"description" json:"description"`
	Applied     bool   `ch:"applied" json:"applied"`
	Error       string `ch:"error" json:"error"`
}
