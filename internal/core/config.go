package core

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config contains all of the configuration options available to the server.
type Config struct {
	// Hostname or IP address on which the server will listen for connections.
	Hostname string `mapstructure:"hostname"`
	// Maximum number of concurrent connections the table will allow.
	MaxConnections int `mapstructure:"max_connections"`
	// Full path to file to which logs will be written. Blank will write to stdout.
	LogFilePath string `mapstructure:"log_file_path"`
	// Minimum level of a log required to be written. Options: debug, info, warn, error
	LogLevel string `mapstructure:"log_level"`

	SessionServer struct {
		// Port on which the table server will listen for stream connections.
		Port int `mapstructure:"port"`
	} `mapstructure:"session_server"`

	Discovery struct {
		// Port on which discovery broadcasts are answered. Defaults to the
		// session port when unset, matching what clients expect.
		Port int `mapstructure:"port"`
	} `mapstructure:"discovery"`

	Game struct {
		// Each seat's opening total, in hundreds (250 = 25000 points).
		StartingPoints int `mapstructure:"starting_points"`
		// The riichi bet, in hundreds.
		RiichiBet int `mapstructure:"riichi_bet"`
		// The total exchanged at an exhaustive draw, in hundreds.
		DrawPot int `mapstructure:"draw_pot"`
		// Per-honba payment from each payer on a self-draw win, in hundreds.
		TsumoHonba int `mapstructure:"tsumo_honba"`
		// Per-honba payment to each winner on a discard win, in hundreds.
		RonHonba int `mapstructure:"ron_honba"`
	} `mapstructure:"game"`

	Database struct {
		// Engine for the match history store: sqlite, postgres, or blank to
		// disable history recording.
		Engine string `mapstructure:"engine"`
		// Path of the sqlite database file.
		Filename string `mapstructure:"filename"`
		// Hostname of the Postgres database instance.
		Host string `mapstructure:"host"`
		// Port on db_host on which the Postgres instance is accepting connections.
		Port int `mapstructure:"port"`
		// Name of the database in Postgres.
		Name string `mapstructure:"name"`
		// Username and password of a user with full RW privileges to ${db_name}.
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		// Set to verify-full if the Postgres instance supports SSL.
		SSLMode string `mapstructure:"disable"`
	} `mapstructure:"database"`

	Debugging struct {
		// Enable extra info-providing mechanisms for the server.
		PprofEnabled bool `mapstructure:"pprof_enabled"`
		// Port on which a pprof server will be started if debug mode is enabled.
		PprofPort int `mapstructure:"pprof_port"`
		// Log packets to the server log.
		PacketLoggingEnabled bool `mapstructure:"packet_logging_enabled"`
		// Enable database-level query logging.
		DatabaseLoggingEnabled bool `mapstructure:"database_logging_enabled"`
	} `mapstructure:"debugging"`
}

const envVarPrefix = "JANBAN"

// LoadConfig initializes Viper with the contents of the config file under configPath.
func LoadConfig(configPath string) *Config {
	viper.AddConfigPath(configPath)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix(envVarPrefix)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println(readConfigError(err, configPath))
		os.Exit(1)
	}

	// This allows us to set nested yaml config options through environment
	// variables. For example, database.host can be set using: <envVarPrefix>_DATABASE_HOST
	for _, k := range viper.AllKeys() {
		envVar := strings.ReplaceAll(strings.ToUpper(k), ".", "_")
		if err := viper.BindEnv(k, envVarPrefix+"_"+envVar); err != nil {
			fmt.Printf("error binding %s to %s", k, envVarPrefix+"_"+envVar)
			os.Exit(1)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		fmt.Printf("error unmarshaling config object: %v", err)
		os.Exit(1)
	}
	return config
}

// readConfigError describes a viper read failure, distinguishing a missing
// config file from a malformed one.
func readConfigError(err error, configPath string) string {
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Sprintf("error reading config file: no config file in path %s", configPath)
	}
	return fmt.Sprintf("error reading config file: %v", err)
}

// SessionAddress returns the host:port the table server listens on.
func (c *Config) SessionAddress() string {
	return fmt.Sprintf("%s:%v", c.Hostname, c.SessionServer.Port)
}

// DiscoveryAddress returns the host:port discovery datagrams are answered
// on, defaulting to the session port.
func (c *Config) DiscoveryAddress() string {
	port := c.Discovery.Port
	if port == 0 {
		port = c.SessionServer.Port
	}
	return fmt.Sprintf("%s:%v", c.Hostname, port)
}

const databaseURITemplate = "host=%s port=%d dbname=%s user=%s password=%s sslmode=%s"

// DatabaseURL returns a Postgres URL generated from the provided config values.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		databaseURITemplate,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.Username,
		c.Database.Password,
		c.Database.SSLMode,
	)
}
