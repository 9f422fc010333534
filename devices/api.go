package devices

import (
	"context"

	"github.com/logingood/cdp-cucm/models"
)

// Devices lists the switches a sweep visits.
type Devices interface {
	ListDevices(ctx context.Context) ([]models.Device, error)
}
