package models

// Device is a switch as stored in the LibreNMS devices table or in a TOML
// inventory file.
type Device struct {
	DeviceID   int32   `db:"device_id" json:"device_id" toml:"device_id"`
	Hostname   *string `db:"hostname" json:"hostname" toml:"hostname" validate:"required"`
	SysName    *string `db:"sysName" json:"sysname" toml:"sysname"`
	Community  *string `db:"community" json:"community" toml:"community"`
	AuthLevel  *string `db:"authlevel" json:"authlevel" toml:"authlevel" validate:"omitempty,oneof=noAuthNoPriv authNoPriv authPriv"`
	AuthName   *string `db:"authname" json:"authname" toml:"authname"`
	AuthPass   *string `db:"authpass" json:"authpass" toml:"authpass"`
	AuthAlgo   *string `db:"authalgo" json:"authalgo" toml:"authalgo"`
	CryptoPass *string `db:"cryptopass" json:"cryptopass" toml:"cryptopass"`
	CryptoAlgo *string `db:"cryptoalgo" json:"cryptoalgo" toml:"cryptoalgo"`
	SnmpVer    *string `db:"snmpver" json:"snmpver" toml:"snmpver" validate:"omitempty,oneof=1 v1 v2c v3"`
	Port       int     `db:"port" json:"port" toml:"port"`
	Transport  *string `db:"transport" json:"transport" toml:"transport"`
	Hardware   *string `db:"hardware" json:"hardware" toml:"hardware"`
	OS         *string `db:"os" json:"os" toml:"os"`
	Status     bool    `db:"status" json:"status" toml:"status"`
}

// Name is the label used in logs, output headers and audit rows.
func (d *Device) Name() string {
	if d.SysName != nil && *d.SysName != "" {
		return *d.SysName
	}
	if d.Hostname != nil {
		return *d.Hostname
	}
	return ""
}
