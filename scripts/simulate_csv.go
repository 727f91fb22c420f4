package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"thermalsim/internal/simulation"
)

// Runs one simulation from a floorplan JSON file and dumps the reporting
// series to CSV, handy for eyeballing temperature evolution in a spreadsheet.
func run(floorplanPath, configPath, outPath string) error {
	raw, err := os.ReadFile(floorplanPath)
	if err != nil {
		return fmt.Errorf("read floorplan: %v", err)
	}
	var plan simulation.Floorplan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return fmt.Errorf("parse floorplan: %v", err)
	}

	var cfg simulation.Config
	if configPath != "" {
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("read config: %v", err)
		}
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return fmt.Errorf("parse config: %v", err)
		}
	}

	result := simulation.NewEngine(plan, cfg).Run()

	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"TimeMinutes", "IndoorTemp", "HeatingOn", "HeatingPower", "EnergyWh", "CumulativeEnergyWh"}); err != nil {
		return fmt.Errorf("write CSV header: %v", err)
	}
	for _, p := range result.TimeSeries {
		record := []string{
			strconv.Itoa(p.TimeMinutes),
			fmt.Sprintf("%.2f", p.IndoorTemp),
			strconv.FormatBool(p.HeatingOn),
			fmt.Sprintf("%.1f", p.HeatingPower),
			fmt.Sprintf("%.3f", p.EnergyWh),
			fmt.Sprintf("%.3f", p.CumulativeEnergyWh),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write CSV record: %v", err)
		}
	}

	fmt.Printf("total energy: %.3f kWh\n", result.TotalEnergyKWh)
	for _, ins := range result.Insights {
		fmt.Printf("[%s] %s (save ~%.0f%%)\n", ins.Category, ins.Message, ins.PotentialSavingsPercent)
	}
	return nil
}

func main() {
	var floorplanPath, configPath, outPath string
	flag.StringVar(&floorplanPath, "floorplan", "floorplan.json", "floorplan JSON file")
	flag.StringVar(&configPath, "config", "", "simulation config JSON file (optional)")
	flag.StringVar(&outPath, "out", "simulation.csv", "output CSV file")
	flag.Parse()

	if err := run(floorplanPath, configPath, outPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
