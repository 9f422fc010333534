// Package file reads a static switch inventory from a TOML file:
//
//	[[switch]]
//	hostname = "10.20.0.11"
//	sysname = "access-sw1"
//	snmpver = "v2c"
//	community = "public"
package file

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/logingood/cdp-cucm/models"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

type inventory struct {
	Switches []models.Device `toml:"switch"`
}

type Client struct {
	path   string
	logger *zap.Logger
}

func New(path string, logger *zap.Logger) *Client {
	return &Client{
		path:   path,
		logger: logger,
	}
}

// ListDevices reads the file on every call so a long running sweep picks up
// edits.
func (c *Client) ListDevices(ctx context.Context) ([]models.Device, error) {
	content, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}

	var inv inventory
	if err := toml.Unmarshal(content, &inv); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			c.logger.Error("bad inventory file", zap.String("path", c.path), zap.Int("line", row), zap.Int("column", col))
		}
		return nil, fmt.Errorf("parse inventory: %w", err)
	}

	for i := range inv.Switches {
		if err := validate.StructCtx(ctx, &inv.Switches[i]); err != nil {
			return nil, fmt.Errorf("inventory switch #%d: %w", i+1, err)
		}
	}

	c.logger.Debug("read inventory", zap.String("path", c.path), zap.Int("switches", len(inv.Switches)))
	return inv.Switches, nil
}
