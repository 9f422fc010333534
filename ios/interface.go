package ios

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/logingood/cdp-cucm/internal/ifname"
	"github.com/logingood/cdp-cucm/models"
	"go.uber.org/zap"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// BuildDescriptionPath returns the config URL path that sets the description
// of an interface. The IOS HTTP server splits command tokens on '/', so slashes
// inside a token are escaped and whitespace becomes a separator.
func BuildDescriptionPath(intType, intNum, description string) (string, error) {
	fullType, err := ifname.Expand(intType)
	if err != nil {
		return "", err
	}
	intNum = escapeSlashes(intNum)
	description = whitespaceRe.ReplaceAllString(escapeSlashes(description), "/")

	return fmt.Sprintf("/level/15/interface/%s%s/-/description/%s", fullType, intNum, description), nil
}

// ConfigureDescription pushes the description to the switch. Only the HTTP
// status is checked; IOS reports command errors inside a 200 page.
func (c *Client) ConfigureDescription(ctx context.Context, iface models.Interface, description string) error {
	path, err := BuildDescriptionPath(iface.Type, iface.Number, description)
	if err != nil {
		return err
	}

	if _, err := c.get(ctx, path); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			c.logger.Warn("interface description rejected", zap.Stringer("interface", iface), zap.Int("status", statusErr.Code))
		} else {
			c.logger.Error("error configure interface", zap.Stringer("interface", iface), zap.Error(err))
		}
		return fmt.Errorf("configure %s: %w", iface, err)
	}

	c.logger.Info("configured interface description", zap.Stringer("interface", iface))
	return nil
}

func escapeSlashes(s string) string {
	return strings.ReplaceAll(s, "/", `\/`)
}
