package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker parse <datFile> [out.json] | worker recompute-stats")
	}

	switch os.Args[1] {
	case "parse":
		RunParse(os.Args[2:])
	case "recompute-stats":
		RunRecomputeStats()
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
