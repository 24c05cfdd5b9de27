package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/kr/pretty"
)

type tripRequest struct {
	StartLocation  string  `json:"start_location"`
	EndLocation    string  `json:"end_location"`
	FuelEfficiency float64 `json:"fuel_efficiency"`
	VehicleType    string  `json:"vehicle_type,omitempty"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the trip impact service")
	start := flag.String("from", "Paris", "Start location")
	end := flag.String("to", "Lyon", "End location")
	efficiency := flag.Float64("efficiency", 15, "Fuel efficiency in km per litre")
	vehicle := flag.String("vehicle", "car", "Vehicle type")
	flag.Parse()

	fmt.Println("Trip Impact Client")
	fmt.Println("==================")

	body, err := json.Marshal(tripRequest{
		StartLocation:  *start,
		EndLocation:    *end,
		FuelEfficiency: *efficiency,
		VehicleType:    *vehicle,
	})
	if err != nil {
		fmt.Printf("Error encoding request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: 60 * time.Second}

	fmt.Printf("Estimating trip from %s to %s...\n", *start, *end)
	resp, err := client.Post(*baseURL+"/api/trips", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error creating trip: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("Error reading response: %v\n", err)
		os.Exit(1)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		fmt.Printf("Error decoding response (%s): %v\n", resp.Status, err)
		os.Exit(1)
	}

	fmt.Printf("\nStatus: %s\n", resp.Status)
	pretty.Println(result)

	// Show the geocode cache after the lookup
	statsResp, err := client.Get(*baseURL + "/api/cache/stats")
	if err != nil {
		fmt.Printf("Error fetching cache stats: %v\n", err)
		return
	}
	defer statsResp.Body.Close()

	var stats map[string]interface{}
	if err := json.NewDecoder(statsResp.Body).Decode(&stats); err != nil {
		fmt.Printf("Error decoding cache stats: %v\n", err)
		return
	}
	fmt.Printf("\nGeocode cache: %# v\n", pretty.Formatter(stats))
}
