package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	watermark "github.com/gcslaoli/text-watermark-go"
)

// go run . -in photo.jpg -text "© ACME" -fill diagonal-tile -opacity 0.3
// go run . -in photo.jpg -preset brand.yaml -format webp -quality 0.8 -timestamp
// go run . -in photo.png -direction horizontal -fill single -check
// go run . -inbase64 "data:image/png;base64,..." -outbase64

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	def := watermark.DefaultParams()

	input := flag.String("in", "", "Path to the image to watermark (png/jpg/gif/webp/bmp/tiff)")
	inputBase64 := flag.String("inbase64", "", "Base64 image input (optionally data URL)")
	outDir := flag.String("outdir", "", "Output directory (defaults to the input's directory)")
	outputBase64 := flag.Bool("outbase64", false, "Write the result as a data URL to stdout instead of a file")
	preset := flag.String("preset", "", "YAML preset applied before the flags below")
	check := flag.Bool("check", false, "Report where the watermark landed and any uncovered areas")
	verbose := flag.Bool("v", false, "Verbose logging")

	var raw watermark.RawParams
	flag.StringVar(&raw.Text, "text", "", "Watermark text (empty uses a placeholder)")
	flag.StringVar(&raw.Font, "font", def.Font, "Font family list or path to a TTF/OTF file")
	flag.StringVar(&raw.Opacity, "opacity", "0.5", "Opacity between 0 and 1")
	flag.StringVar(&raw.FontSize, "size", "5", "Font size in percent of the image width")
	flag.StringVar(&raw.Color, "color", "#ffffff", "Text colour (#rgb or #rrggbb)")
	flag.StringVar(&raw.Direction, "direction", string(def.Direction), "horizontal, vertical, diagonal or diagonal-reverse")
	flag.StringVar(&raw.Fill, "fill", string(def.Fill), "single, tile or diagonal-tile")
	flag.StringVar(&raw.Spacing, "spacing", "150", "Tile spacing in percent (tiled modes only)")

	var rawExport watermark.RawExport
	flag.StringVar(&rawExport.Format, "format", "png", "Output format: png, jpeg or webp")
	flag.StringVar(&rawExport.Quality, "quality", "0.92", "Quality between 0 and 1 (jpeg/webp only)")
	flag.StringVar(&rawExport.Name, "name", "", "Output base name (defaults to <name>_watermarked)")
	flag.BoolVar(&rawExport.Timestamp, "timestamp", false, "Append _YYYY-MM-DD_HH-MM to the file name")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	watermark.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *preset != "" {
		p, err := watermark.LoadPreset(*preset)
		if err != nil {
			return err
		}
		raw, rawExport = mergePreset(raw, rawExport, p, explicitFlags())
	}

	session := watermark.NewSession(
		watermark.WithParams(watermark.ParseParams(raw)),
		watermark.WithExportSettings(watermark.ParseExport(rawExport)),
	)

	if *input == "" && *inputBase64 == "" {
		flag.Usage()
		// Same outcome as pressing download before loading an image.
		return fmt.Errorf("export: %w", watermark.ErrNoImage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var pending *watermark.Pending
	if *inputBase64 != "" {
		src, err := watermark.DecodeDataURL(*inputBase64, "")
		if err != nil {
			return fmt.Errorf("decode input: %w", err)
		}
		pending = watermark.Ready(src)
	} else {
		pending = watermark.OpenAsync(*input)
	}

	if err := session.Load(ctx, pending); err != nil {
		return err
	}

	// A name given on the command line wins over the suggested default.
	if rawExport.Name != "" {
		session.Output.BaseName = rawExport.Name
	} else if raw.Text != "" {
		session.Output.BaseName = watermark.SuggestBaseName(session.Output.BaseName, session.Source().Stem(), raw.Text)
	}
	if bad := watermark.InvalidNameChars(session.Output.BaseName); len(bad) > 0 {
		watermark.Logger().Warn("forbidden characters in file name replaced", "chars", string(bad))
	}

	if *check {
		if err := report(session); err != nil {
			return err
		}
	}

	now := time.Now()
	if *outputBase64 {
		url, err := watermark.EncodeDataURL(session.Surface(), session.Output)
		if err != nil {
			return fmt.Errorf("encode base64 output: %w", err)
		}
		fmt.Println(url)
		fmt.Fprintf(os.Stderr, "Processed %s -> base64 [%s]\n", sourceLabel(*input), session.FileName(now))
		return nil
	}

	dir := *outDir
	if dir == "" {
		dir = filepath.Dir(*input)
	}

	path, err := session.ExportFile(dir, now)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	src := session.Source()
	fmt.Printf("Processed %s (%s) -> %s [%dx%d]\n", sourceLabel(*input), src.Format, path, src.Bounds().Dx(), src.Bounds().Dy())
	return nil
}

// mergePreset fills in every field the preset sets unless the same field was
// given explicitly on the command line. Fields the preset leaves out keep the
// flag value, default or not.
func mergePreset(flags watermark.RawParams, flagsExport watermark.RawExport, p watermark.Preset, set map[string]bool) (watermark.RawParams, watermark.RawExport) {
	pick := func(flagName string, dst *string, preset string) {
		if preset != "" && !set[flagName] {
			*dst = preset
		}
	}

	pick("text", &flags.Text, p.Watermark.Text)
	pick("font", &flags.Font, p.Watermark.Font)
	pick("opacity", &flags.Opacity, p.Watermark.Opacity)
	pick("size", &flags.FontSize, p.Watermark.FontSize)
	pick("color", &flags.Color, p.Watermark.Color)
	pick("direction", &flags.Direction, p.Watermark.Direction)
	pick("fill", &flags.Fill, p.Watermark.Fill)
	pick("spacing", &flags.Spacing, p.Watermark.Spacing)

	pick("format", &flagsExport.Format, p.Export.Format)
	pick("quality", &flagsExport.Quality, p.Export.Quality)
	pick("name", &flagsExport.Name, p.Export.Name)
	if p.Export.Timestamp && !set["timestamp"] {
		flagsExport.Timestamp = true
	}
	return flags, flagsExport
}

// explicitFlags names the flags given on the command line.
func explicitFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func report(session *watermark.Session) error {
	src := session.Source()
	ins, err := watermark.Inspect(src.Image, session.Surface())
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	fmt.Printf("Watermark covers %d pixels within %v.\n", ins.Changed, ins.Bounds)

	if !session.Params().Fill.Tiled() {
		return nil
	}

	cell := max(src.Bounds().Dx(), src.Bounds().Dy()) / 8
	gaps, err := watermark.Gaps(src.Image, session.Surface(), max(cell, 1))
	if err != nil {
		return fmt.Errorf("inspect gaps: %w", err)
	}
	if len(gaps) == 0 {
		fmt.Println("Tiling leaves no uncovered areas.")
		return nil
	}
	fmt.Printf("Tiling leaves %d uncovered areas, first at %v.\n", len(gaps), gaps[0])
	return nil
}

func sourceLabel(input string) string {
	if input == "" {
		return "base64"
	}
	return strconv.Quote(input)
}
