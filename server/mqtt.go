package server

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/wad350/gwm-home-assistant/util"
)

const (
	mqttConnectTimeout = 10 * time.Second
	mqttPublishTimeout = 2 * time.Second
)

// MQTT republishes decoded values to the automation platform. State topics
// live below <root>/<vin>/, entity definitions are announced via Home
// Assistant MQTT discovery.
type MQTT struct {
	log    *util.Logger
	client mqtt.Client
	root   string
}

// NewMQTT creates the MQTT publisher and connects to the broker. The
// availability topic <root>/status carries online/offline with a last will.
func NewMQTT(broker, user, password, root string) (*MQTT, error) {
	m := &MQTT{
		log:  util.NewLogger("mqtt"),
		root: root,
	}

	options := mqtt.NewClientOptions()
	options.AddBroker(broker)
	options.SetUsername(user)
	options.SetPassword(password)
	options.SetClientID(fmt.Sprintf("%s-%d", root, os.Getpid()))
	options.SetCleanSession(true)
	options.SetAutoReconnect(true)
	options.SetWill(root+"/status", "offline", 1, true)
	options.SetOnConnectHandler(func(c mqtt.Client) {
		m.log.DEBUG.Printf("connected to %s", broker)
		m.publishString(root+"/status", true, "online")
	})

	m.client = mqtt.NewClient(options)

	token := m.client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		return nil, fmt.Errorf("mqtt: connect timeout: %s", broker)
	}
	if token.Error() != nil {
		return nil, fmt.Errorf("mqtt: %w", token.Error())
	}

	return m, nil
}

// Run republishes the value stream below <root>/<vin>/
func (m *MQTT) Run(vin string, in <-chan util.Param) {
	for p := range in {
		m.publish(fmt.Sprintf("%s/%s/%s", m.root, vin, p.Key), true, p.Val)
	}
}

func (m *MQTT) publish(topic string, retained bool, payload interface{}) {
	var s string
	switch val := payload.(type) {
	case string:
		s = val
	default:
		b, err := json.Marshal(val)
		if err != nil {
			m.log.ERROR.Printf("encode %s: %v", topic, err)
			return
		}
		s = string(b)
	}

	m.publishString(topic, retained, s)
}

func (m *MQTT) publishString(topic string, retained bool, payload string) {
	token := m.client.Publish(topic, 0, retained, payload)
	go func() {
		if token.WaitTimeout(mqttPublishTimeout) && token.Error() != nil {
			m.log.ERROR.Printf("publish %s: %v", topic, token.Error())
		}
	}()
}
