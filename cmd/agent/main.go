// The agent reports GPS fixes for one bus to the SLGPS server. On real
// hardware it would read from a GPS receiver; without one it simulates
// movement along a loop so a development fleet has live traffic.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const version = "1.0.0"

type fixReport struct {
	PlateNumber string    `json:"plate_number"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Speed       float64   `json:"speed"`
	Timestamp   time.Time `json:"timestamp"`
}

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "SLGPS server URL")
	plate := flag.String("plate", "", "Plate number of the bus this agent reports for")
	email := flag.String("email", os.Getenv("AGENT_EMAIL"), "Login email")
	password := flag.String("password", os.Getenv("AGENT_PASSWORD"), "Login password")
	interval := flag.Int("interval", 5, "Reporting interval in seconds (0 for single run)")
	baseSpeed := flag.Float64("speed", 45, "Average simulated speed in km/h")
	showVersion := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("slgps-agent v%s\n", version)
		os.Exit(0)
	}
	if *plate == "" {
		log.Fatal("❌ Error: -plate is required")
	}

	log.SetFlags(log.Ltime | log.Ldate)
	log.Printf("🚀 SLGPS Agent v%s starting...", version)
	log.Printf("✓ Bus: %s", *plate)
	log.Printf("✓ Server: %s", *serverURL)

	client := &http.Client{Timeout: 10 * time.Second}

	token, err := login(client, *serverURL, *email, *password)
	if err != nil {
		log.Fatalf("❌ Login failed: %v", err)
	}
	log.Println("✓ Authenticated")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\n⏹️  Shutting down...")
		cancel()
	}()

	sim := newSimulator(*plate, *baseSpeed)

	report := func() {
		fix := sim.next()
		if err := sendFix(client, *serverURL, token, fix); err != nil {
			log.Printf("⚠️  Report failed: %v", err)
			return
		}
		log.Printf("📍 %s at %.5f,%.5f doing %.0f km/h",
			fix.PlateNumber, fix.Latitude, fix.Longitude, fix.Speed)
	}

	report()
	if *interval <= 0 {
		return
	}

	ticker := time.NewTicker(time.Duration(*interval) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report()
		}
	}
}

func login(client *http.Client, serverURL, email, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := client.Post(serverURL+"/api/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Token, nil
}

func sendFix(client *http.Client, serverURL, token string, fix fixReport) error {
	payload, err := json.Marshal(fix)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, serverURL+"/api/location/report", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	return nil
}

// simulator moves a bus around a circular route near Colombo with some
// jitter on speed so the overspeed rule occasionally fires.
type simulator struct {
	plate     string
	baseSpeed float64
	angle     float64
}

func newSimulator(plate string, baseSpeed float64) *simulator {
	return &simulator{
		plate:     plate,
		baseSpeed: baseSpeed,
		angle:     rand.Float64() * 2 * math.Pi,
	}
}

func (s *simulator) next() fixReport {
	s.angle += 0.02
	speed := s.baseSpeed + rand.NormFloat64()*15
	if speed < 0 {
		speed = 0
	}
	return fixReport{
		PlateNumber: s.plate,
		Latitude:    6.9271 + 0.05*math.Sin(s.angle),
		Longitude:   79.8612 + 0.05*math.Cos(s.angle),
		Speed:       speed,
		Timestamp:   time.Now().UTC(),
	}
}
