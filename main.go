package main

import (
	"log"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("could not start application: %v", err)
	}
}
