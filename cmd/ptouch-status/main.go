// Command ptouch-status opens a configured printer and prints its decoded
// status frame, mirroring original_source/examples/read_status.rs.
package main

import (
	"fmt"
	"os"

	"ptouchql/ptouch"
)

func main() {
	model, media, serial, err := envConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := ptouch.NewConfig(model, serial, media)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid config:", err)
		os.Exit(1)
	}

	printer, err := ptouch.Open(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open failed:", err)
		os.Exit(1)
	}
	defer printer.Close()

	status, err := printer.ReadStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, "status request failed:", err)
		os.Exit(1)
	}

	fmt.Printf("%+v\n", status)
}

// envConfig reads PTOUCH_MODEL, PTOUCH_MEDIA, and PTOUCH_SERIAL, the three
// settings every example here needs and none of which the core package
// loads itself — per SPEC_FULL.md §12, env-loading lives only in these
// examples.
func envConfig() (ptouch.Model, ptouch.Media, string, error) {
	modelName := os.Getenv("PTOUCH_MODEL")
	mediaName := os.Getenv("PTOUCH_MEDIA")
	serial := os.Getenv("PTOUCH_SERIAL")

	if modelName == "" || mediaName == "" || serial == "" {
		return 0, 0, "", fmt.Errorf("set PTOUCH_MODEL, PTOUCH_MEDIA, and PTOUCH_SERIAL")
	}

	model, ok := ptouch.ParseModel(modelName)
	if !ok {
		return 0, 0, "", fmt.Errorf("unknown PTOUCH_MODEL %q", modelName)
	}
	media, ok := ptouch.ParseMedia(mediaName)
	if !ok {
		return 0, 0, "", fmt.Errorf("unknown PTOUCH_MEDIA %q", mediaName)
	}

	return model, media, serial, nil
}
