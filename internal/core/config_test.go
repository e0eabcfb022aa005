package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestReadConfigError(t *testing.T) {
	msg := readConfigError(viper.ConfigFileNotFoundError{}, "/etc/janban")
	if !strings.Contains(msg, "no config file in path /etc/janban") {
		t.Errorf("missing-file error not recognized, got: %s", msg)
	}

	msg = readConfigError(errors.New("yaml: line 3: mapping values"), "/etc/janban")
	if !strings.Contains(msg, "yaml: line 3") {
		t.Errorf("read error not passed through, got: %s", msg)
	}
}

func TestConfig_SessionAddress(t *testing.T) {
	cfg := &Config{Hostname: "127.0.0.1"}
	cfg.SessionServer.Port = 1246

	addr := cfg.SessionAddress()
	expected := "127.0.0.1:1246"
	if addr != expected {
		t.Errorf("SessionAddress() want = %s, got = %s", expected, addr)
	}
}

func TestConfig_DiscoveryAddress(t *testing.T) {
	cfg := &Config{Hostname: "0.0.0.0"}
	cfg.SessionServer.Port = 1246

	addr := cfg.DiscoveryAddress()
	expected := "0.0.0.0:1246"
	if addr != expected {
		t.Errorf("DiscoveryAddress() with no override want = %s, got = %s", expected, addr)
	}

	cfg.Discovery.Port = 1247
	addr = cfg.DiscoveryAddress()
	expected = "0.0.0.0:1247"
	if addr != expected {
		t.Errorf("DiscoveryAddress() with override want = %s, got = %s", expected, addr)
	}
}

func TestConfig_DatabaseURL(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.Name = "testdb"
	cfg.Database.Username = "testuser"
	cfg.Database.Password = "testpassword"

	url := cfg.DatabaseURL()
	expected := "host=localhost port=5432 dbname=testdb user=testuser password=testpassword sslmode="
	if url != expected {
		t.Errorf("DatabaseURL() want = %s, got = %s", expected, url)
	}
}
