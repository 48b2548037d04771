package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type fixMessage struct {
	LicensePlate string  `json:"license_plate"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Speed        float64 `json:"speed"`
	Heading      float64 `json:"heading"`
	Timestamp    int64   `json:"timestamp"`
}

// depot used by the default seed data
const (
	depotLat = -23.5505
	depotLon = -46.6333
)

func randomPlate() string {
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	return fmt.Sprintf("%c%c%c-%04d",
		letters[rand.Intn(26)], letters[rand.Intn(26)], letters[rand.Intn(26)],
		rand.Intn(10000))
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <interval_seconds>\n", os.Args[0])
		os.Exit(1)
	}

	intervalSec, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}

	broker := "tcp://localhost:1883"
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		broker = v
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("fleet-mock-publisher")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("mqtt connect: %v", token.Error())
	}
	defer client.Disconnect(250)

	plates := make([]string, 5)
	for i := range plates {
		plates[i] = randomPlate()
	}

	log.Printf("connected to %s, publishing every %ds...", broker, intervalSec)
	log.Printf("plate pool: %v", plates)

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		plate := plates[rand.Intn(len(plates))]

		// drift around the depot so geofence rules actually trigger
		lat := depotLat + (rand.Float64()-0.5)*0.02
		lon := depotLon + (rand.Float64()-0.5)*0.02

		speed := rand.Float64() * 110
		if rand.Float64() < 0.2 {
			speed = 0 // parked
		}

		msg := fixMessage{
			LicensePlate: plate,
			Latitude:     lat,
			Longitude:    lon,
			Speed:        speed,
			Heading:      rand.Float64() * 360,
			Timestamp:    time.Now().Unix(),
		}

		payload, _ := json.Marshal(msg)
		topic := fmt.Sprintf("/fleet/vehicle/%s/location", plate)

		token := client.Publish(topic, 1, false, payload)
		token.Wait()

		log.Printf("published to %s: %s", topic, payload)
	}
}
