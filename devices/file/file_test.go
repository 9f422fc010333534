package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeInventory(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "switches.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestListDevices(t *testing.T) {
	path := writeInventory(t, `
[[switch]]
hostname = "10.20.0.11"
sysname = "access-sw1"
snmpver = "v2c"
community = "public"

[[switch]]
hostname = "10.20.0.12"
snmpver = "v3"
authlevel = "authPriv"
authname = "ops"
authpass = "a"
cryptopass = "c"
port = 1161
`)

	devices, err := New(path, zap.NewNop()).ListDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "access-sw1", devices[0].Name())
	assert.Equal(t, "public", *devices[0].Community)
	assert.Equal(t, "10.20.0.12", devices[1].Name())
	assert.Equal(t, 1161, devices[1].Port)
	assert.Nil(t, devices[1].Community)
}

func TestListDevicesInvalid(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.toml"), zap.NewNop()).ListDevices(context.Background())
	assert.Error(t, err)

	path := writeInventory(t, "[[switch]\nhostname = ")
	_, err = New(path, zap.NewNop()).ListDevices(context.Background())
	assert.Error(t, err)

	path = writeInventory(t, "[[switch]]\nsysname = \"no-host\"\n")
	_, err = New(path, zap.NewNop()).ListDevices(context.Background())
	assert.ErrorContains(t, err, "switch #1")

	path = writeInventory(t, "[[switch]]\nhostname = \"10.0.0.1\"\nsnmpver = \"v9\"\n")
	_, err = New(path, zap.NewNop()).ListDevices(context.Background())
	assert.Error(t, err)
}
