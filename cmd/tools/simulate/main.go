package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/merchkit/bundle-engine/internal/engine"
)

func main() {
	cartPath := flag.String("cart", "", "path to a JSON file holding the cart lines")
	configPath := flag.String("config", "", "path to a JSON file holding the discount configuration")
	flag.Parse()

	if *cartPath == "" || *configPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cartRaw, err := os.ReadFile(*cartPath)
	if err != nil {
		log.Fatalf("read cart: %v", err)
	}
	configRaw, err := os.ReadFile(*configPath)
	if err != nil {
		log.Fatalf("read config: %v", err)
	}

	var lines []engine.CartLine
	if err := json.Unmarshal(cartRaw, &lines); err != nil {
		log.Fatalf("decode cart: %v", err)
	}

	result := engine.Evaluate(lines, configRaw)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))
}
