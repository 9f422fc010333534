package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/logingood/cdp-cucm/config"
	"github.com/logingood/cdp-cucm/models"
	"github.com/logingood/cdp-cucm/snmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const cdpOutput = `SEP001122334455  Fas 0/3           142            H P M   IP Phone  Port 1
SEP00AABBCCDDEE  Gig 1/0/12        150            H P M   IP Phone  Port 1
`

var phoneRe = regexp.MustCompile(`SEP[0-9A-F]{12}`)

func cleanEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"INVENTORY_FILE", "DB_HOST", "DB_USERNAME", "DB_QUERY", "CLICKHOUSE_ADDR", "METRICS_ADDR", "POLLING_INTERVAL_SECONDS"} {
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { _ = os.Setenv(key, old) })
		}
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("LOG_LEVEL", "error")
}

func newCUCMServer(t *testing.T, descriptions map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		description, ok := descriptions[phoneRe.FindString(string(body))]
		if !ok {
			http.Error(w, "<fault/>", http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, "<return><row><description>%s</description></row></return>", description)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type switchServer struct {
	*httptest.Server

	mu         sync.Mutex
	configured []string
}

func newSwitchServer(t *testing.T, neighbors string) *switchServer {
	t.Helper()
	s := &switchServer{}
	s.Server = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/level/15/exec/"):
			_, _ = w.Write([]byte(neighbors))
		case strings.HasPrefix(r.URL.Path, "/level/15/interface/"):
			s.mu.Lock()
			s.configured = append(s.configured, r.URL.Path)
			s.mu.Unlock()
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func runApp(args ...string) (string, error) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"cdpcucm"}, args...))
	return out.String(), err
}

var descriptions = map[string]string{
	"SEP001122334455": "Alice Smith",
	"SEP00AABBCCDDEE": "Lobby",
}

func TestRunSwitchPrint(t *testing.T) {
	cleanEnv(t)
	sw := newSwitchServer(t, cdpOutput)
	cucm := newCUCMServer(t, descriptions)

	out, err := runApp("--switch", sw.URL, "--password", "x", "--cmserver", cucm.URL, "--cmpass", "y")
	require.NoError(t, err)
	assert.Equal(t, "interface Fas 0/3\n  description phone - Alice Smith\n"+
		"interface Gig 1/0/12\n  description phone - Lobby\n", out)
	assert.Empty(t, sw.configured)
}

func TestRunSwitchApply(t *testing.T) {
	cleanEnv(t)
	sw := newSwitchServer(t, cdpOutput)
	cucm := newCUCMServer(t, descriptions)

	out, err := runApp("--switch", sw.URL, "--password", "x", "--cmserver", cucm.URL, "--cmpass", "y", "--auto", "--axl-body", "raw")
	require.NoError(t, err)
	assert.Equal(t, "configuring Fas 0/3\ntrue\nconfiguring Gig 1/0/12\ntrue\n", out)
	assert.Equal(t, []string{
		`/level/15/interface/FastEthernet0\/3/-/description/Alice/Smith`,
		`/level/15/interface/GigabitEthernet1\/0\/12/-/description/Lobby`,
	}, sw.configured)
}

func TestRunSwitchRequiresSwitch(t *testing.T) {
	cleanEnv(t)

	_, err := runApp("--cmserver", "cucm1", "--cmpass", "y", "--password", "x")
	assert.ErrorContains(t, err, "--switch")
}

func TestRunSwitchDiscovery(t *testing.T) {
	cleanEnv(t)

	_, err := runApp("--switch", "10.0.0.1", "--cmserver", "cucm1", "--cmpass", "y", "--discovery", "lldp")
	assert.ErrorContains(t, err, `unknown discovery "lldp"`)

	_, err = runApp("--switch", "10.0.0.1", "--cmserver", "cucm1", "--cmpass", "y", "--discovery", "snmp", "--snmp-version", "v9")
	assert.ErrorIs(t, err, snmp.ErrBadVersion)
}

func TestSweepWithoutRootFlags(t *testing.T) {
	cleanEnv(t)

	_, err := runApp("sweep", "--cmserver", "cucm1", "--password", "x", "--cmpass", "y")
	assert.ErrorIs(t, err, config.ErrNoInventory)
}

func TestSweep(t *testing.T) {
	cleanEnv(t)
	sw1 := newSwitchServer(t, cdpOutput)
	sw2 := newSwitchServer(t, "SEPDEADBEEF0001  Fas 0/17          133            H P M   IP Phone  Port 1\n")
	cucm := newCUCMServer(t, map[string]string{
		"SEP001122334455": "Alice Smith",
		"SEP00AABBCCDDEE": "Lobby",
		"SEPDEADBEEF0001": "Bob",
	})

	path := filepath.Join(t.TempDir(), "switches.toml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(`
[[switch]]
hostname = %q
sysname = "access-sw1"

[[switch]]
hostname = %q
sysname = "access-sw2"
`, sw1.URL, sw2.URL)), 0o644))
	t.Setenv("INVENTORY_FILE", path)

	out, err := runApp("sweep", "--cmserver", cucm.URL, "--password", "x", "--cmpass", "y")
	require.NoError(t, err)
	assert.Contains(t, out, "! access-sw1\ninterface Fas 0/3\n  description phone - Alice Smith\n"+
		"interface Gig 1/0/12\n  description phone - Lobby\n")
	assert.Contains(t, out, "! access-sw2\ninterface Fas 0/17\n  description phone - Bob\n")
}

func TestSweeperProcessNoHostname(t *testing.T) {
	var out bytes.Buffer
	s := &sweeper{logger: zap.NewNop(), out: &out}

	err := s.process(context.Background(), &models.Device{DeviceID: 7})
	assert.ErrorIs(t, err, errNoHostname)
	assert.Equal(t, 1, s.failed)
	assert.Empty(t, out.String())
}
