package snmp

import (
	"strconv"
	"strings"

	"github.com/gosnmp/gosnmp"
	"github.com/logingood/cdp-cucm/models"
	"go.uber.org/zap"
)

// walkOid walks the given oids for an snmp device
func (c *Client) walkOid(oid string, otherOids ...string) ([]gosnmp.SnmpPDU, error) {
	inputOids := []string{oid}
	inputOids = append(inputOids, otherOids...)

	pdus := []gosnmp.SnmpPDU{}
	for _, oid := range inputOids {
		pdu, err := c.client.WalkAll(oid)
		if err != nil {
			c.logger.Error("bad response", zap.Error(err), zap.String("oid", oid))
			return nil, err
		}
		pdus = append(pdus, pdu...)
	}

	return pdus, nil
}

// splitIndex cuts the table oid off a pdu name and returns the row index,
// e.g. ".1.3.6.1.4.1.9.9.23.1.2.1.1.6.10101.3" -> "10101.3".
func splitIndex(name string) (string, string, bool) {
	for oidName, oid := range StrNameToOidMap {
		if strings.HasPrefix(name, oid+".") {
			return oidName, name[len(oid)+1:], true
		}
	}
	return "", "", false
}

func octetString(val gosnmp.SnmpPDU) (string, bool) {
	b, ok := val.Value.([]byte)
	if !ok {
		return "", false
	}
	return string(b), true
}

// setPduNeighborTable stores walk results in the table; rows it can not
// read are dropped.
func setPduNeighborTable(table *models.NeighborTable, pdu []gosnmp.SnmpPDU) {
	for _, val := range pdu {
		name, index, ok := splitIndex(val.Name)
		if !ok {
			continue
		}
		str, ok := octetString(val)
		if !ok {
			continue
		}
		ifIndex, err := strconv.Atoi(strings.SplitN(index, ".", 2)[0])
		if err != nil {
			continue
		}

		switch name {
		case "ifDescr":
			table.SetIfName(str, ifIndex)
		case "cdpCacheDeviceId":
			table.SetDeviceID(str, ifIndex, index)
		case "cdpCacheDevicePort":
			table.SetDevicePort(str, ifIndex, index)
		}
	}
}
