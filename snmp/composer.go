package snmp

import (
	"github.com/logingood/cdp-cucm/models"
)

type DecorateFunc func(*models.NeighborTable) error
type Decorator func(DecorateFunc) DecorateFunc

func Compose(d DecorateFunc, decorators ...Decorator) DecorateFunc {
	for _, decorator := range decorators {
		d = decorator(d)
	}

	return d
}
