package cmd

import (
	"fmt"
	"net/http"
	_ "net/http/pprof" // pprof handler
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wad350/gwm-home-assistant/core"
	"github.com/wad350/gwm-home-assistant/server"
	"github.com/wad350/gwm-home-assistant/util"
	"github.com/wad350/gwm-home-assistant/util/pipe"
	"github.com/wad350/gwm-home-assistant/vehicle/gwm"
)

var ignoreErrors = []string{"warn", "error", "fatal"} // don't add to cache

// runCmd starts the bridge: poll the vehicle and publish over http, websocket
// and mqtt
var runCmd = &cobra.Command{
	Use:              "run",
	Short:            "Run the telemetry bridge",
	Version:          fmt.Sprintf("%s (%s)", server.Version, server.Commit),
	PersistentPreRun: persistentConfig,
	PreRun:           runConfig,
	Run:              runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runConfig(cmd *cobra.Command, args []string) {
	cmd.PersistentFlags().StringP(
		"uri", "u",
		"0.0.0.0:7070",
		"Listen address",
	)
	bind(cmd, "uri")

	cmd.PersistentFlags().DurationP(
		"interval", "i",
		30*time.Second,
		"Update interval",
	)
	bind(cmd, "interval")

	cmd.PersistentFlags().Bool(
		"metrics",
		false,
		"Expose metrics",
	)
	bind(cmd, "metrics")

	cmd.PersistentFlags().Bool(
		"profile",
		false,
		"Expose pprof profiles",
	)
	bind(cmd, "profile")
}

func runRun(cmd *cobra.Command, args []string) {
	util.LogLevel(viper.GetString("log"), viper.GetStringMapString("levels"))
	log.INFO.Printf("gwm %s (%s)", server.Version, server.Commit)

	// load config and re-configure logging after reading config file
	conf, err := loadConfigFile(cfgFile)
	if err != nil {
		log.FATAL.Fatal(err)
	}

	util.LogLevel(viper.GetString("log"), viper.GetStringMapString("levels"))

	uri := viper.GetString("uri")
	log.INFO.Println("listening at", uri)

	if conf.Vehicle.Email == "" || conf.Vehicle.Password == "" {
		log.FATAL.Fatal("missing vehicle credentials - run `gwm configure` first")
	}

	api := newClient(conf)

	coordinator := core.NewCoordinator(
		util.NewLogger("core"),
		api,
		core.VehicleConfig(conf.Vehicle),
		conf.Interval,
	)

	// start broadcasting values
	tee := &util.Tee{}

	// value cache
	cache := util.NewCache()
	go cache.Run(pipe.NewDropper(ignoreErrors...).Pipe(tee.Attach()))

	// setup mqtt publisher
	if conf.Mqtt.Broker != "" {
		publisher, err := server.NewMQTT(conf.Mqtt.Broker, conf.Mqtt.User, conf.Mqtt.Password, conf.Mqtt.RootTopic())
		if err != nil {
			log.FATAL.Fatal(err)
		}

		if conf.Mqtt.Discovery != "" {
			publisher.Discovery(conf.Mqtt.Discovery, conf.Vehicle.VIN, conf.Vehicle.Model)
		}

		go publisher.Run(conf.Vehicle.VIN, tee.Attach())
	}

	// create webserver
	socketHub := server.NewSocketHub()
	provider := gwm.NewProvider(api, conf.Vehicle.VIN, conf.Interval)
	httpd := server.NewHTTPd(uri, socketHub, cache, coordinator, provider)

	// metrics
	if viper.GetBool("metrics") {
		httpd.Router().Handle("/metrics", promhttp.Handler())
	}

	// pprof
	if viper.GetBool("profile") {
		httpd.Router().PathPrefix("/debug/").Handler(http.DefaultServeMux)
	}

	// publish to UI
	go socketHub.Run(tee.Attach(), cache)

	// setup values channel
	valueChan := make(chan util.Param)
	go tee.Run(valueChan)

	// capture log messages for UI
	util.CaptureLogs(valueChan)

	coordinator.Prepare(valueChan)

	stopC := make(chan struct{})
	exitC := make(chan struct{})

	go func() {
		coordinator.Run(stopC, conf.Interval)
		close(exitC)
	}()

	// catch signals
	go func() {
		signalC := make(chan os.Signal, 1)
		signal.Notify(signalC, os.Interrupt, syscall.SIGTERM)

		<-signalC    // wait for signal
		close(stopC) // signal loop to end

		select {
		case <-exitC: // wait for loop to end
		case <-time.NewTimer(conf.Interval).C: // wait max 1 period
		}

		os.Exit(1)
	}()

	if public, err := util.PublicAddr(uri); err == nil {
		log.INFO.Printf("api available at %s/api/state", public)
	}

	log.FATAL.Println(httpd.ListenAndServe())
}
