package sql

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/logingood/cdp-cucm/models"
	"go.uber.org/zap"
)

// ListQuery selects the enabled IOS switches from the LibreNMS devices table.
const ListQuery = `SELECT device_id, hostname, sysName, community, authlevel, authname, authpass, authalgo, cryptopass, cryptoalgo, snmpver, port, transport, hardware, os, status from devices WHERE os = 'ios' AND status = 1 AND disabled = 0;`

type Client struct {
	db     *sqlx.DB
	query  string
	logger *zap.Logger
}

// New returns a LibreNMS inventory. An empty query falls back to ListQuery.
func New(db *sqlx.DB, query string, logger *zap.Logger) *Client {
	if query == "" {
		query = ListQuery
	}
	return &Client{
		db:     db,
		query:  query,
		logger: logger,
	}
}

func (c *Client) ListDevices(ctx context.Context) ([]models.Device, error) {
	var devices []models.Device
	err := c.db.SelectContext(ctx, &devices, c.query)
	if err != nil {
		c.logger.Error("error list devices", zap.Error(err))
	}
	return devices, err
}
