package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wad350/gwm-home-assistant/util"
	"github.com/wad350/gwm-home-assistant/vehicle"
	"github.com/wad350/gwm-home-assistant/vehicle/gwm"
)

// vehicleCmd fetches the vehicle status once and dumps the decoded snapshot
var vehicleCmd = &cobra.Command{
	Use:              "vehicle [vin]",
	Short:            "Query vehicle status once",
	PersistentPreRun: persistentConfig,
	Run:              vehicleRun,
}

func init() {
	rootCmd.AddCommand(vehicleCmd)
}

func vehicleRun(cmd *cobra.Command, args []string) {
	util.LogLevel(viper.GetString("log"), viper.GetStringMapString("levels"))

	conf, err := loadConfigFile(cfgFile)
	if err != nil {
		log.FATAL.Fatal(err)
	}

	client := newClient(conf)

	if err := client.Login(conf.Vehicle.Email, conf.Vehicle.Password); err != nil {
		log.FATAL.Fatal(err)
	}

	vehicles, err := client.Vehicles()
	if err != nil {
		log.FATAL.Fatal(err)
	}

	vin := conf.Vehicle.VIN
	if len(args) == 1 {
		vin = args[0]
	}

	v, err := vehicle.Ensure(vin, vehicles)
	if err != nil {
		log.FATAL.Fatal(err)
	}

	res, err := client.Status(v.VIN)
	if err != nil {
		log.FATAL.Fatal(err)
	}

	status := gwm.Decode(res.Items)

	d := dumper{}
	d.DumpWithHeader(v.Label(), map[string]interface{}{
		"latitude":      res.Latitude,
		"longitude":     res.Longitude,
		"updateTime":    res.UpdateTime,
		"serviceStatus": res.ServiceStatus,
	})
	d.DumpWithHeader("status", status.Values())
}
