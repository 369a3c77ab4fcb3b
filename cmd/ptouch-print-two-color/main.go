// Command ptouch-print-two-color renders an image file to a black+red
// label on a two-color-capable model, mirroring
// original_source/examples/print_two_color.rs.
package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"ptouchql/internal/dither"
	"ptouchql/ptouch"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: ptouch-print-two-color <image-path>")
		os.Exit(1)
	}

	model, media, serial, err := envConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	img, err := loadImage(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "couldn't load image:", err)
		os.Exit(1)
	}

	cfg, err := ptouch.NewConfig(model, serial, media, ptouch.WithTwoColors(true), ptouch.WithAutoCut(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid config:", err)
		os.Exit(1)
	}

	page, err := dither.RenderTwoColor(img, model.RowWidth()*8)
	if err != nil {
		fmt.Fprintln(os.Stderr, "couldn't render image:", err)
		os.Exit(1)
	}

	printer, err := ptouch.Open(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open failed:", err)
		os.Exit(1)
	}
	defer printer.Close()

	pages := ptouch.NewSliceTwoColorPageSource([]*ptouch.TwoColorMatrix{page})
	if err := printer.PrintTwoColor(pages); err != nil {
		fmt.Fprintln(os.Stderr, "print failed:", err)
		os.Exit(1)
	}
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

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
