package config_test

import (
	"fmt"

	"github.com/ajitpratap0/rowbridge/pkg/config"
)

// ExampleDefault shows the defaults a run starts from.
func ExampleDefault() {
	cfg := config.Default()

	fmt.Printf("Source: %s\n", cfg.Source.Location)
	fmt.Printf("Output: %s\n", cfg.Output.Format)
	fmt.Printf("Check interval: %d\n", cfg.Scan.CheckInterval)

	// Output:
	// Source: -
	// Output: json
	// Check interval: 1024
}

// ExampleConfig_Validate shows how validation reports the offending key.
func ExampleConfig_Validate() {
	cfg := config.Default()
	cfg.Output.Format = "xml"

	fmt.Println(cfg.Validate())

	// Output:
	// config: output.format must be json or text
}
