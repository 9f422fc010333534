package axl

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const descriptionResponse = `<?xml version='1.0' encoding='UTF-8'?><soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/"><soapenv:Body><ns:executeSQLQueryResponse xmlns:ns="http://www.cisco.com/AXL/API/8.5"><return><row><description>Alice Smith - x4021</description></row></return></ns:executeSQLQueryResponse></soapenv:Body></soapenv:Envelope>`

const emptyResponse = `<?xml version='1.0' encoding='UTF-8'?><soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/"><soapenv:Body><ns:executeSQLQueryResponse xmlns:ns="http://www.cisco.com/AXL/API/8.5"><return/></ns:executeSQLQueryResponse></soapenv:Body></soapenv:Envelope>`

func TestExtractDescription(t *testing.T) {
	got, err := ExtractDescription([]byte(descriptionResponse))
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith - x4021", got)

	got, err = ExtractDescription([]byte(`<row><description></description></row>`))
	require.NoError(t, err)
	assert.Equal(t, "", got)

	got, err = ExtractDescription([]byte(`<description>Bob &amp; Carol</description><description>second</description>`))
	require.NoError(t, err)
	assert.Equal(t, "Bob &amp; Carol", got)

	_, err = ExtractDescription([]byte(emptyResponse))
	assert.ErrorIs(t, err, ErrDescriptionNotFound)
}

func TestDescriptionQuery(t *testing.T) {
	assert.Equal(t, "select description from device where name = 'SEP001122AABBCC'", DescriptionQuery("sep001122aabbcc"))
	assert.Equal(t, "select description from device where name = 'SEP''X'", DescriptionQuery("sep'x"))
}

func TestBuilders(t *testing.T) {
	for _, kind := range []BodyKind{BodyRaw, BodyXML} {
		b, err := NewBuilder(kind, "8.5")
		require.NoError(t, err)

		out, err := b.Build("select description from device where name = 'A<B'")
		require.NoError(t, err, kind)
		msg := string(out)
		assert.True(t, strings.HasPrefix(msg, `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/"`), kind)
		assert.Contains(t, msg, `xmlns:ns="http://www.cisco.com/AXL/API/8.5"`, kind)
		assert.Contains(t, msg, "<ns:executeSQLQuery", kind)
		assert.Contains(t, msg, "<sql>select description from device where name = &#39;A&lt;B&#39;</sql>", kind)
		assert.Contains(t, msg, "</soapenv:Envelope>", kind)
	}

	_, err := NewBuilder("json", "8.5")
	assert.Error(t, err)
}

func newCUCM(t *testing.T, kind BodyKind, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(Options{Host: srv.URL, Username: "axladmin", Password: "pw", Body: kind}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestDescriptionByName(t *testing.T) {
	for _, kind := range []BodyKind{BodyRaw, BodyXML} {
		c := newCUCM(t, kind, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/axl/", r.URL.Path)
			assert.Equal(t, "text/xml", r.Header.Get("Content-Type"))
			assert.Equal(t, "CUCM:DB ver=8.5", r.Header.Get("SOAPAction"))
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "axladmin", user)
			assert.Equal(t, "pw", pass)

			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(body), "name = &#39;SEP001122334455&#39;")
			_, _ = w.Write([]byte(descriptionResponse))
		})

		got, err := c.DescriptionByName(context.Background(), "sep001122334455")
		require.NoError(t, err, kind)
		assert.Equal(t, "Alice Smith - x4021", got)
	}
}

func TestDescriptionByNameFailures(t *testing.T) {
	c := newCUCM(t, BodyXML, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<fault/>"))
	})
	_, err := c.DescriptionByName(context.Background(), "SEP001122334455")
	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "SEP001122334455", lookupErr.Device)
	assert.Equal(t, "<fault/>", string(lookupErr.Response))
	assert.NotEmpty(t, lookupErr.Request)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)

	c = newCUCM(t, BodyXML, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(emptyResponse))
	})
	_, err = c.DescriptionByName(context.Background(), "SEP001122334455")
	assert.ErrorIs(t, err, ErrDescriptionNotFound)
}

func TestDescriptionsFromList(t *testing.T) {
	var calls atomic.Int32
	c := newCUCM(t, BodyXML, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		switch {
		case strings.Contains(string(body), "SEPAAAAAAAAAAAA"):
			_, _ = w.Write([]byte(`<row><description>Reception</description></row>`))
		case strings.Contains(string(body), "SEPBBBBBBBBBBBB"):
			_, _ = w.Write([]byte(`<row><description>Lab bench</description></row>`))
		default:
			_, _ = w.Write([]byte(emptyResponse))
		}
	})

	got, err := c.DescriptionsFromList(context.Background(), []string{"SEPAAAAAAAAAAAA", "SEPBBBBBBBBBBBB"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"SEPAAAAAAAAAAAA": "Reception", "SEPBBBBBBBBBBBB": "Lab bench"}, got)
	assert.Equal(t, int32(2), calls.Load())

	got, err = c.DescriptionsFromList(context.Background(), []string{"SEPAAAAAAAAAAAA", "SEPCCCCCCCCCCCC", "SEPBBBBBBBBBBBB"})
	assert.ErrorIs(t, err, ErrDescriptionNotFound)
	assert.Equal(t, map[string]string{"SEPAAAAAAAAAAAA": "Reception"}, got)
	assert.Equal(t, int32(4), calls.Load())
}

func TestEndpoint(t *testing.T) {
	assert.Equal(t, "https://10.1.1.5:8443/axl/", endpoint("10.1.1.5", DefaultPort))
	assert.Equal(t, "https://[2001:db8::5]:8443/axl/", endpoint("2001:db8::5", DefaultPort))
	assert.Equal(t, "https://127.0.0.1:4443/axl/", endpoint("https://127.0.0.1:4443", DefaultPort))
}
