package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/aeromov/movements-backend/internal/movements/parser"
)

// RunParse parses a raw tower log offline and writes the extracted movements
// as JSON, to stdout or to the optional output path.
func RunParse(args []string) {
	if len(args) < 1 {
		log.Fatal("usage: worker parse <datFile> [out.json]")
	}

	f, err := os.Open(args[0])
	if err != nil {
		log.Fatalf("open %s: %v", args[0], err)
	}
	defer f.Close()

	records, err := parser.Parse(f)
	if err != nil {
		log.Fatalf("parse %s: %v", args[0], err)
	}

	out := os.Stdout
	if len(args) >= 2 {
		out, err = os.Create(args[1])
		if err != nil {
			log.Fatalf("create %s: %v", args[1], err)
		}
		defer out.Close()
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		log.Fatalf("encode records: %v", err)
	}

	log.Printf("parsed %d records from %s", len(records), args[0])
}
