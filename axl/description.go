package axl

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var ErrDescriptionNotFound = errors.New("description not found in axl response")

// The response is not namespace-parsed; the description column comes back as
// a plain <description> row element.
var descriptionRe = regexp.MustCompile(`<description>(.*?)</description>`)

// LookupError keeps the exchange that failed so it can be shown to the user.
type LookupError struct {
	Device   string
	Request  []byte
	Response []byte
	Err      error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup description of %s: %v", e.Device, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// DescriptionQuery is the SQL run against the CUCM device table.
func DescriptionQuery(device string) string {
	name := strings.ReplaceAll(strings.ToUpper(device), "'", "''")
	return fmt.Sprintf("select description from device where name = '%s'", name)
}

// ExtractDescription returns the literal text of the first description
// element.
func ExtractDescription(body []byte) (string, error) {
	m := descriptionRe.FindSubmatch(body)
	if m == nil {
		return "", ErrDescriptionNotFound
	}
	return string(m[1]), nil
}

func (c *Client) DescriptionByName(ctx context.Context, device string) (string, error) {
	msg, err := c.builder.Build(DescriptionQuery(device))
	if err != nil {
		return "", err
	}

	resp, err := c.post(ctx, msg)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			resp = statusErr.Body
		}
		c.logger.Error("error lookup description", zap.String("device", device), zap.Error(err))
		return "", &LookupError{Device: device, Request: msg, Response: resp, Err: err}
	}

	description, err := ExtractDescription(resp)
	if err != nil {
		c.logger.Error("regex match of description failed", zap.String("device", device))
		return "", &LookupError{Device: device, Request: msg, Response: resp, Err: err}
	}

	c.logger.Debug("got description", zap.String("device", device), zap.String("description", description))
	return description, nil
}

// DescriptionsFromList looks the devices up one at a time and stops at the
// first failure.
func (c *Client) DescriptionsFromList(ctx context.Context, devices []string) (map[string]string, error) {
	descriptions := make(map[string]string, len(devices))
	for _, device := range devices {
		description, err := c.DescriptionByName(ctx, device)
		if err != nil {
			return descriptions, err
		}
		descriptions[device] = description
	}
	return descriptions, nil
}
