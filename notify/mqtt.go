// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	presenceTopicPrefix = "trackside/presence/"
	commandTopicPrefix  = "trackside/commands/"

	publishTimeout = 2 * time.Second
)

// mqttClient is the slice of mqtt.Client the notifier uses.
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload any) mqtt.Token
	Disconnect(quiesce uint)
}

type mqttNotifier struct {
	client mqttClient
}

func newMqttNotifier(broker string) (*mqttNotifier, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("trackside-cloud").
		SetKeepAlive(60 * time.Second).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(10 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			slog.Error("MQTT connection lost", "error", err)
		})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("unable to connect to MQTT broker %s: %w", broker, token.Error())
	}
	return &mqttNotifier{client: client}, nil
}

func (n *mqttNotifier) PresenceChanged(e PresenceEvent) {
	n.publish(presenceTopicPrefix+e.VehicleID, e)
}

func (n *mqttNotifier) CommandResolved(e CommandEvent) {
	n.publish(commandTopicPrefix+e.VehicleID, e)
}

// publish is fire-and-forget at QoS 0: the delivery outcome is awaited off
// the request goroutine, so a slow broker costs the heartbeat path nothing.
// Stale presence is worthless, there is no retry.
func (n *mqttNotifier) publish(topic string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Unable to encode notification", "topic", topic, "error", err)
		return
	}
	token := n.client.Publish(topic, 0, false, body)
	go func() {
		select {
		case <-token.Done():
			if err := token.Error(); err != nil {
				slog.Error("Unable to publish notification", "topic", topic, "error", err)
			}
		case <-time.After(publishTimeout):
			slog.Warn("Notification publish timed out", "topic", topic)
		}
	}()
}

func (n *mqttNotifier) Close() {
	n.client.Disconnect(250)
}
