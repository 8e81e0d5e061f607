package main

import (
	"flag"
	"fmt"
	"log"

	"cellmesh/engine"
	"cellmesh/utils"
)

func main() {
	// Load configuration - fallback to defaults if file doesn't exist
	config, err := utils.LoadConfig("config.json")
	if err != nil {
		fmt.Println("Using default configuration (config.json not found)")
		config = utils.DefaultConfig()
	}
	if config.PatternDir == "" {
		config.PatternDir = defaultPatternDir()
	}

	config.Bind(flag.CommandLine)
	flag.Parse()
	config.Normalize()

	eng, err := engine.New(config)
	if err != nil {
		log.Fatalf("starting engine: %v", err)
	}

	if config.Headless {
		err = runHeadless(config, eng)
	} else {
		err = runInteractive(config, eng)
	}
	if err != nil {
		log.Fatalf("running simulation: %v", err)
	}
}
