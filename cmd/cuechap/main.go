package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/cuechap/internal/config"
	"github.com/handiism/cuechap/internal/convert"
)

func main() {
	// Command line flags
	var (
		mp3Flag     = flag.String("mp3", "", "MP3 file to embed chapters into")
		cueFlag     = flag.String("cue", "", "Cue sheet (defaults to <mp3>.cue)")
		dirFlag     = flag.String("dir", "", "Process all MP3/CUE pairs in a folder")
		configFlag  = flag.String("config", "", "Path to config file")
		keepFlag    = flag.Bool("keep", false, "Keep the cue sheet and backup after success")
		dryRunFlag  = flag.Bool("dry-run", false, "Parse and validate without writing tags")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	if *mp3Flag == "" && *dirFlag == "" && flag.NArg() == 0 {
		fmt.Println("cuechap - Embed cue sheet chapters into MP3 files as ID3v2 tags")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  cuechap -mp3 <file> [-cue <file>] [options]")
		fmt.Println("  cuechap -dir <folder> [options]")
		fmt.Println("  cuechap <file.mp3> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: cuechap-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *keepFlag {
		settings.DeleteCueOnSuccess = false
		settings.DeleteBackupOnSuccess = false
	}

	mp3Path := *mp3Flag
	if mp3Path == "" && flag.NArg() > 0 {
		mp3Path = flag.Arg(0)
	}
	cuePath := *cueFlag
	if cuePath == "" && mp3Path != "" {
		cuePath = mp3Path + ".cue"
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create manager with progress callback
	manager := convert.NewManager(settings, func(event convert.ProgressEvent) {
		if event.Level == convert.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case convert.LevelError:
			prefix = "❌ "
		case convert.LevelWarning:
			prefix = "⚠️  "
		case convert.LevelSuccess:
			prefix = "✅ "
		case convert.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Println(prefix + event.Message)
	})
	manager.SetDryRun(*dryRunFlag)

	fmt.Println("🎧 cuechap")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	var err error
	if *dirFlag != "" {
		err = manager.ConvertFolder(ctx, *dirFlag)
	} else {
		err = manager.ConvertPair(ctx, cuePath, mp3Path)
	}

	converted, total, chapters := manager.GetProgress()
	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	if ctx.Err() != nil {
		fmt.Println("Conversion cancelled.")
		os.Exit(130)
	}

	if *dryRunFlag {
		if err != nil {
			os.Exit(1)
		}
		fmt.Println("✨ Dry run complete, no files were modified.")
		return
	}

	if err != nil || converted < total {
		fmt.Printf("Finished with errors: %d/%d files converted\n", converted, total)
		os.Exit(1)
	}
	fmt.Printf("✨ Done! %d/%d files converted, %d chapters written\n", converted, total, chapters)
}
