package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"github.com/wad350/gwm-home-assistant/util"
	"github.com/wad350/gwm-home-assistant/vehicle/gwm"
)

type config struct {
	URI          string
	Interval     time.Duration
	Log          string
	Levels       map[string]string
	IdentityFile string        `yaml:"identityFile" mapstructure:"identityfile"`
	CertsDir     string        `yaml:"certsDir" mapstructure:"certsdir"`
	Mqtt         mqttConfig    `yaml:"mqtt"`
	Vehicle      vehicleConfig `yaml:"vehicle"`
}

type mqttConfig struct {
	Broker    string
	User      string
	Password  string
	Topic     string
	Discovery string // discovery prefix, typically homeassistant
}

// RootTopic returns the configured root topic or the default
func (m mqttConfig) RootTopic() string {
	if m.Topic != "" {
		return m.Topic
	}
	return "gwm"
}

type vehicleConfig struct {
	Email    string
	Password string
	VIN      string `yaml:"vin" mapstructure:"vin"`
	Model    string
	Number   string // license plate
}

// defaultIdentityFile returns the per-user location of the persisted device id
func defaultIdentityFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "gwm", "device_id")
}

func loadConfigFile(cfgFile string) (conf config, err error) {
	if cfgFile == "" {
		return conf, fmt.Errorf("missing config file")
	}

	log.INFO.Println("using config file", cfgFile)

	if err = viper.Unmarshal(&conf); err != nil {
		err = fmt.Errorf("failed parsing config file %s: %w", cfgFile, err)
	}

	if conf.IdentityFile == "" {
		conf.IdentityFile = defaultIdentityFile()
	}

	if conf.Interval == 0 {
		conf.Interval = 30 * time.Second
	}

	return conf, err
}

// newClient creates the vehicle API client from configuration
func newClient(conf config) *gwm.API {
	log := util.NewLogger("gwm")

	identity := gwm.NewIdentity(log, conf.IdentityFile)
	api := gwm.NewAPI(log, identity)

	if conf.CertsDir != "" {
		if !api.SetupCertificates(conf.CertsDir) {
			log.WARN.Println("client certificates not found, continuing without")
		}
	}

	return api
}
