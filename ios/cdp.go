package ios

import (
	"context"
	"fmt"
	"regexp"

	"github.com/logingood/cdp-cucm/models"
	"go.uber.org/zap"
)

// The HTTP server runs "show cdp neighbors | include ^SEP" and returns the CLI
// output as plain text.
const cdpNeighborsPath = "/level/15/exec/-/show/cdp/neighbors/|/include/^SEP/CR"

// Device name, local interface type and local interface number.
var neighborRe = regexp.MustCompile(`(SEP.{12})\s+(\S+)\s+(\S+)`)

// Neighbors returns the IP phones in the switch CDP table.
func (c *Client) Neighbors(ctx context.Context) (models.Neighbors, error) {
	body, err := c.get(ctx, cdpNeighborsPath)
	if err != nil {
		c.logger.Error("error fetch cdp neighbors", zap.Error(err))
		return nil, fmt.Errorf("fetch cdp neighbors: %w", err)
	}

	neighbors := ParseNeighbors(string(body))
	c.logger.Info("found cdp neighbors", zap.Int("neighbors", len(neighbors)))
	return neighbors, nil
}

// ParseNeighbors extracts phone device names and their local interfaces from
// "show cdp neighbors" output.
func ParseNeighbors(text string) models.Neighbors {
	neighbors := models.Neighbors{}
	for _, m := range neighborRe.FindAllStringSubmatch(text, -1) {
		neighbors[m[1]] = models.Interface{Type: m[2], Number: m[3]}
	}
	return neighbors
}
