package snmp

import (
	"context"
	"sort"
	"strings"

	"github.com/logingood/cdp-cucm/internal/ifname"
	"github.com/logingood/cdp-cucm/models"
	"go.uber.org/zap"
)

const phonePrefix = "SEP"

var StrNameToOidMap = map[string]string{
	"ifDescr": ".1.3.6.1.2.1.2.2.1.2",

	// CISCO-CDP-MIB cdpCacheTable, indexed by ifIndex.deviceIndex
	"cdpCacheDeviceId":   ".1.3.6.1.4.1.9.9.23.1.2.1.1.6",
	"cdpCacheDevicePort": ".1.3.6.1.4.1.9.9.23.1.2.1.1.7",
}

// GetInterfaceNames connects to the device and reads interface names. This
// closure should be called the first if you use composer/middleware style
// function, it owns the connection for the rest of the chain.
func (c *Client) GetInterfaceNames(decorator DecorateFunc) DecorateFunc {
	return func(table *models.NeighborTable) error {
		err := c.client.Connect()
		if err != nil {
			c.logger.Error("failed to connect", zap.Error(err))
			return err
		}
		defer func() {
			c.logger.Debug("close the conn")
			c.client.Conn.Close()
		}()

		pdu, err := c.walkOid(StrNameToOidMap["ifDescr"])
		if err != nil {
			c.logger.Error("error walk", zap.Error(err))
			return err
		}

		if c.device.Hostname != nil {
			table.Hostname = *c.device.Hostname
		}
		if c.device.SysName != nil {
			table.SysName = *c.device.SysName
		}
		table.IfNames = make(map[int]string)
		setPduNeighborTable(table, pdu)
		c.logger.Debug("got interface names", zap.Int("interfaces", len(table.IfNames)))

		return decorator(table)
	}
}

// SetCdpNeighbours walks the CDP cache table.
func (c *Client) SetCdpNeighbours(decorator DecorateFunc) DecorateFunc {
	return func(table *models.NeighborTable) error {
		pdu, err := c.walkOid(
			StrNameToOidMap["cdpCacheDeviceId"],
			StrNameToOidMap["cdpCacheDevicePort"],
		)
		if err != nil {
			c.logger.Error("cdp cache walk error", zap.Error(err))
			return err
		}

		table.Entries = make(map[string]models.CdpEntry)
		setPduNeighborTable(table, pdu)
		c.logger.Debug("got cdp entries", zap.Int("entries", len(table.Entries)))

		return decorator(table)
	}
}

// Neighbors returns the IP phones in the switch CDP cache, keyed the same way
// as the CLI based discovery.
func (c *Client) Neighbors(ctx context.Context) (models.Neighbors, error) {
	c.client.Context = ctx

	var neighbors models.Neighbors
	poller := Compose(
		func(table *models.NeighborTable) error {
			neighbors = TableNeighbors(table)
			return nil
		},
		c.SetCdpNeighbours,
		c.GetInterfaceNames, // always keep at the bottom
	)
	if err := poller(&models.NeighborTable{}); err != nil {
		return nil, err
	}

	c.logger.Info("found cdp neighbors", zap.Int("neighbors", len(neighbors)))
	return neighbors, nil
}

// TableNeighbors keeps the phone entries whose local interface name can be
// written in CDP table form.
func TableNeighbors(table *models.NeighborTable) models.Neighbors {
	keys := make([]string, 0, len(table.Entries))
	for key := range table.Entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	neighbors := models.Neighbors{}
	for _, key := range keys {
		entry := table.Entries[key]
		if !strings.HasPrefix(entry.DeviceID, phonePrefix) {
			continue
		}
		name, ok := table.IfNames[entry.IfIndex]
		if !ok {
			continue
		}
		fullType, number, err := ifname.Split(name)
		if err != nil {
			continue
		}
		abbr, err := ifname.Abbreviate(fullType)
		if err != nil {
			continue
		}
		neighbors[entry.DeviceID] = models.Interface{Type: abbr, Number: number}
	}
	return neighbors
}
