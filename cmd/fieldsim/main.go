package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"strconv"

	"fieldharvest.ai/internal/sim/field"
	"fieldharvest.ai/internal/transport/ws"
)

func main() {
	var (
		addr      = flag.String("addr", ":8080", "listen address")
		width     = flag.Int("width", 5, "field width")
		length    = flag.Int("length", 5, "field length")
		seed      = flag.Int64("seed", 1337, "crop layout seed")
		fuelSpec  = flag.String("fuel", "unlimited", `starting fuel: "unlimited" or a unit count`)
		depotFuel = flag.Int("depot-fuel", 64, "biofuel items stocked in the depot")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[fieldsim] ", log.LstdFlags|log.Lmicroseconds)

	cfg := field.Config{
		Width:  *width,
		Length: *length,
		Seed:   *seed,
	}
	if *fuelSpec == "unlimited" {
		cfg.FuelUnlimited = true
	} else {
		units, err := strconv.Atoi(*fuelSpec)
		if err != nil || units < 0 {
			logger.Fatalf("bad -fuel %q", *fuelSpec)
		}
		cfg.FuelUnits = units
	}
	if *depotFuel > 0 {
		cfg.DepotStock = []field.Stack{{ID: field.ItemBiofuel, Count: *depotFuel}}
	}

	world := field.New(cfg)
	server := ws.NewServer(world, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", server.Handler())

	logger.Printf("serving %dx%d field on %s", *width, *length, *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		logger.Fatalf("listen: %v", err)
	}
}
