package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lv-glb-resizer/internal/gltfhost"
	"lv-glb-resizer/internal/texture"
)

func main() {
	format := flag.String("format", "auto", "Output format: auto, png, tga or webp")
	outDir := flag.String("out", ".", "Directory to write textures to")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] model.glb\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	failed, err := dump(flag.Arg(0), *outDir, *format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if failed > 0 {
		fmt.Printf("\nDone with %d error(s).\n", failed)
		os.Exit(1)
	}
	fmt.Println("\nDone. All textures extracted.")
}

func dump(model, outDir, format string) (int, error) {
	switch format {
	case "auto", texture.FormatPNG, texture.FormatTGA, texture.FormatWebP:
	default:
		return 0, fmt.Errorf("unknown format %q", format)
	}

	doc := gltfhost.New(gltfhost.Options{}).Reset()
	if err := doc.Import(model); err != nil {
		return 0, err
	}
	defer doc.Close()

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return 0, err
	}

	failed := 0
	for _, img := range doc.Images() {
		if img == nil {
			continue
		}
		if err := dumpImage(img, outDir, format); err != nil {
			fmt.Fprintf(os.Stderr, "ERR %s: %v\n", img.Name(), err)
			failed++
		}
	}
	return failed, nil
}

func dumpImage(img *gltfhost.Image, outDir, format string) error {
	data, srcFormat, err := img.Encoded()
	if err != nil {
		return err
	}

	if format != "auto" && format != srcFormat {
		pix, err := img.Pixels()
		if err != nil {
			return err
		}
		data, err = texture.Encode(pix, format, texture.EncodeOptions{})
		if err != nil {
			return err
		}
	} else {
		format = srcFormat
	}

	dst := filepath.Join(outDir, fmt.Sprintf("%d_%s%s", img.Index(), safeName(img.Name()), texture.Ext(format)))
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}

	w, h, _ := img.Size()
	fmt.Printf("OK  %s -> %s  (%dx%d, %d bytes %s)\n", img.Name(), dst, w, h, len(data), strings.ToUpper(format))
	return nil
}

func safeName(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}
