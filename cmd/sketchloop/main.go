package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/Ajinqya/sketchloop/internal/app"
)

func main() {
	cfg := app.DefaultConfig()

	sketchID := flag.String("sketch", cfg.Sketch, "ID of the sketch to run")
	audioPath := flag.String("audio", "", "media file to attach (mp3/wav/flac/ogg)")
	list := flag.Bool("list", false, "list available sketches and exit")
	headless := flag.Bool("headless", false, "render without a window and exit")
	frames := flag.Int("frames", cfg.Frames, "frame count for headless mode")
	pixels := flag.Float64("pixels", cfg.PixelScale, "device pixel scale factor")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println(app.GetVersionInfo().FullString())
		return
	}

	cfg.Sketch = *sketchID
	cfg.AudioPath = *audioPath
	cfg.Headless = *headless
	cfg.Frames = *frames
	cfg.PixelScale = *pixels

	application, err := app.NewApplication(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer application.Shutdown()

	if *list {
		for _, d := range application.Registry().List() {
			loop := "infinite"
			if !d.Infinite() {
				loop = d.Duration.String()
			}
			fmt.Printf("%-12s %-16s %3.0f fps  %s\n", d.ID, d.Name, d.FPS, loop)
		}
		return
	}

	if err := application.Run(); err != nil {
		log.Fatal(err)
	}
}
