package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thoas/go-funk"
	"github.com/wad350/gwm-home-assistant/core/setup"
	"github.com/wad350/gwm-home-assistant/util"
	"github.com/wad350/gwm-home-assistant/vehicle/gwm"
	"gopkg.in/yaml.v3"
)

// configureCmd walks the user through account validation and vehicle
// selection and writes the resulting config file
var configureCmd = &cobra.Command{
	Use:              "configure",
	Short:            "Create a configuration interactively",
	PersistentPreRun: persistentConfig,
	Run:              runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func surveyAsk(p survey.Prompt, resp interface{}) {
	if err := survey.AskOne(p, resp, survey.WithValidator(survey.Required)); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runConfigure(cmd *cobra.Command, args []string) {
	util.LogLevel(viper.GetString("log"), viper.GetStringMapString("levels"))

	conf := config{
		IdentityFile: defaultIdentityFile(),
	}

	surveyAsk(&survey.Input{Message: "MyGWM account email"}, &conf.Vehicle.Email)
	surveyAsk(&survey.Password{Message: "MyGWM account password"}, &conf.Vehicle.Password)

	client := newClient(conf)

	vehicles, err := setup.Validate(client, conf.Vehicle.Email, conf.Vehicle.Password)
	if err != nil {
		switch {
		case errors.Is(err, setup.ErrInvalidAuth):
			log.FATAL.Fatalf("login rejected, check email and password: %v", err)
		default:
			log.FATAL.Fatalf("cannot reach the vehicle gateway: %v", err)
		}
	}

	labels := funk.Map(vehicles, gwm.Vehicle.Label).([]string)

	var label string
	surveyAsk(&survey.Select{Message: "Select vehicle", Options: labels}, &label)

	chosen := vehicles[funk.IndexOf(labels, label)]

	vehicle, err := setup.ValidateVIN(client, vehicles, chosen.VIN)
	if err != nil {
		log.FATAL.Fatalf("cannot fetch vehicle status: %v", err)
	}

	conf.Vehicle.VIN = vehicle.VIN
	conf.Vehicle.Model = vehicle.Type
	conf.Vehicle.Number = vehicle.VehicleNumber

	var broker string
	surveyAsk(&survey.Input{Message: "MQTT broker (tcp://host:1883, empty to skip)", Default: "-"}, &broker)
	if broker != "-" && broker != "" {
		conf.Mqtt.Broker = broker
		conf.Mqtt.Discovery = "homeassistant"
	}

	target := cfgFile
	if target == "" {
		target = "gwm.yaml"
	}

	b, err := yaml.Marshal(conf)
	if err != nil {
		log.FATAL.Fatal(err)
	}

	// contains the account password
	if err := os.WriteFile(target, b, 0o600); err != nil {
		log.FATAL.Fatal(err)
	}

	fmt.Println("configuration written to", target)
}
