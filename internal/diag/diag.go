// Package diag turns transport and lookup failures into log fields and
// printable responses for the command line tools.
package diag

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/logingood/cdp-cucm/axl"
	"github.com/logingood/cdp-cucm/ios"
	"go.uber.org/zap"
)

func Fields(err error) []zap.Field {
	fields := []zap.Field{zap.Error(err)}

	var lookupErr *axl.LookupError
	if errors.As(err, &lookupErr) {
		fields = append(fields,
			zap.String("device", lookupErr.Device),
			zap.ByteString("request", lookupErr.Request),
			zap.ByteString("response", lookupErr.Response),
		)
	}

	var axlStatus *axl.StatusError
	if errors.As(err, &axlStatus) {
		fields = append(fields, zap.Int("status", axlStatus.Code), zap.Any("headers", axlStatus.Header))
		if lookupErr == nil {
			fields = append(fields, zap.ByteString("response", axlStatus.Body))
		}
	}

	var iosStatus *ios.StatusError
	if errors.As(err, &iosStatus) {
		fields = append(fields,
			zap.Int("status", iosStatus.Code),
			zap.Any("headers", iosStatus.Header),
			zap.ByteString("response", iosStatus.Body),
		)
	}

	return fields
}

// WriteResponse prints a failed HTTP exchange the way an operator wants to
// read it: status code, headers, then the body.
func WriteResponse(w io.Writer, code int, header http.Header, body []byte) error {
	if _, err := fmt.Fprintln(w, code); err != nil {
		return err
	}
	if err := header.Write(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", body)
	return err
}
