// Command qrgen renders the entrance-code posters: one PNG per seeded
// library, payload equal to the library id.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/AnubhavPadiyar/spotscout-server/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

func main() {
	out := flag.String("out", "qr", "output directory")
	size := flag.Int("size", 512, "image size in pixels")
	flag.Parse()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatalf("create output directory: %v", err)
	}

	for _, lib := range model.DefaultLibraries() {
		path := filepath.Join(*out, lib.ID+".png")
		if err := qrcode.WriteFile(lib.ID, qrcode.Medium, *size, path); err != nil {
			log.Fatalf("render %s: %v", lib.ID, err)
		}
		log.Printf("wrote %s (%s)", path, lib.Name)
	}
}
