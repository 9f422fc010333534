package snmp

import (
	"errors"
	"fmt"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/logingood/cdp-cucm/models"
	"go.uber.org/zap"
)

var (
	ErrBadAddress  = errors.New("device has no hostname")
	ErrBadVersion  = errors.New("unsupported snmp version")
	ErrBadSecurity = errors.New("bad snmp v3 security settings")
)

type Client struct {
	client *gosnmp.GoSNMP
	logger *zap.Logger
	device *models.Device
}

func New(device *models.Device, logger *zap.Logger) (*Client, error) {
	if device.Hostname == nil || *device.Hostname == "" {
		logger.Error("bad address")
		return nil, ErrBadAddress
	}
	if device.SnmpVer == nil {
		logger.Error("bad version", zap.String("device", device.Name()))
		return nil, ErrBadVersion
	}

	port := uint16(161)
	if device.Port > 0 {
		port = uint16(device.Port)
	}

	g := &gosnmp.GoSNMP{
		Port:                    port,
		Retries:                 3,
		Timeout:                 5 * time.Second,
		Transport:               transport(device.Transport),
		Target:                  *device.Hostname,
		UseUnconnectedUDPSocket: true,
		MaxOids:                 30,
	}

	switch *device.SnmpVer {
	case "1", "v1", "v2c":
		g.Version = gosnmp.Version2c
		if *device.SnmpVer != "v2c" {
			g.Version = gosnmp.Version1
		}
		if device.Community == nil {
			logger.Error("bad community, must have a community", zap.String("device", device.Name()))
			return nil, fmt.Errorf("%w: community missing", ErrBadSecurity)
		}
		g.Community = *device.Community
	case "v3":
		if device.AuthLevel == nil || device.AuthName == nil {
			logger.Error("bad device", zap.String("device", device.Name()))
			return nil, fmt.Errorf("%w: auth level and name required", ErrBadSecurity)
		}
		g.Version = gosnmp.Version3
		g.SecurityModel = gosnmp.UserSecurityModel
		params := &gosnmp.UsmSecurityParameters{UserName: *device.AuthName}

		switch *device.AuthLevel {
		case "noAuthNoPriv":
			g.MsgFlags = gosnmp.NoAuthNoPriv
		case "authNoPriv", "authPriv":
			if device.AuthPass == nil {
				return nil, fmt.Errorf("%w: auth pass required", ErrBadSecurity)
			}
			g.MsgFlags = gosnmp.AuthNoPriv
			params.AuthenticationProtocol = authProtocol(device.AuthAlgo)
			params.AuthenticationPassphrase = *device.AuthPass
			if *device.AuthLevel == "authPriv" {
				if device.CryptoPass == nil {
					return nil, fmt.Errorf("%w: crypto pass required", ErrBadSecurity)
				}
				g.MsgFlags = gosnmp.AuthPriv
				params.PrivacyProtocol = privProtocol(device.CryptoAlgo)
				params.PrivacyPassphrase = *device.CryptoPass
			}
		default:
			return nil, fmt.Errorf("%w: auth level %q", ErrBadSecurity, *device.AuthLevel)
		}
		g.SecurityParameters = params
	default:
		logger.Error("bad protocol", zap.String("version", *device.SnmpVer))
		return nil, fmt.Errorf("%w: %q", ErrBadVersion, *device.SnmpVer)
	}

	return &Client{
		client: g,
		logger: logger.With(zap.String("switch", device.Name())),
		device: device,
	}, nil
}

func transport(t *string) string {
	if t != nil && (*t == "tcp" || *t == "tcp6") {
		return "tcp"
	}
	return "udp"
}

func authProtocol(algo *string) gosnmp.SnmpV3AuthProtocol {
	if algo != nil && *algo == "MD5" {
		return gosnmp.MD5
	}
	return gosnmp.SHA
}

func privProtocol(algo *string) gosnmp.SnmpV3PrivProtocol {
	if algo != nil && *algo == "DES" {
		return gosnmp.DES
	}
	return gosnmp.AES
}
