package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/ironsheep/jigsaw-tools-mcp/internal/assembly"
	"github.com/ironsheep/jigsaw-tools-mcp/internal/overlay"
	"github.com/ironsheep/jigsaw-tools-mcp/internal/server"
	"github.com/ironsheep/jigsaw-tools-mcp/internal/tile"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// A missing .env is fine; variables may come from the environment.
	_ = godotenv.Load()

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := configFromEnv()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("jigsaw-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "solve":
			if len(os.Args) != 3 {
				fmt.Fprintln(os.Stderr, "Usage: jigsaw-tools-mcp solve <file>")
				os.Exit(2)
			}
			if err := solve(os.Args[2], os.Stdout, cfg.Debug); err != nil {
				log.Fatalf("Solve failed: %v", err)
			}
			return
		}
	}

	if cfg.Debug {
		log.Printf("Jigsaw MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.NewWithConfig(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp() {
	fmt.Println("jigsaw-tools-mcp - MCP server for tile assembly and pattern search")
	fmt.Println()
	fmt.Println("Usage: jigsaw-tools-mcp [options]")
	fmt.Println("       jigsaw-tools-mcp solve <file>")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  solve <file>     Assemble the tiles in <file> and print the corner")
	fmt.Println("                   product and the unmarked pixel count")
	fmt.Println()
	fmt.Println("Environment variables (also read from ./.env):")
	fmt.Println("  JIGSAW_MCP_LOG_LEVEL=debug     Enable debug logging")
	fmt.Println("  JIGSAW_MCP_RENDER_SCALE=<n>    Default pixels per grid pixel in PNGs (default 4)")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

// configFromEnv builds the server configuration from environment variables.
// Unparseable values are logged and ignored.
func configFromEnv() server.Config {
	cfg := server.DefaultConfig()
	cfg.Debug = os.Getenv("JIGSAW_MCP_LOG_LEVEL") == "debug"

	if v := os.Getenv("JIGSAW_MCP_RENDER_SCALE"); v != "" {
		scale, err := strconv.Atoi(v)
		if err != nil || scale < 1 {
			log.Printf("Ignoring JIGSAW_MCP_RENDER_SCALE=%q: want a positive integer", v)
		} else {
			cfg.RenderScale = scale
		}
	}
	return cfg
}

// solve assembles the puzzle at path and writes both answers to w. The
// corner product is written before assembly starts.
func solve(path string, w io.Writer, debug bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open puzzle: %w", err)
	}
	defer f.Close()

	cat, err := tile.ParseCatalog(f)
	if err != nil {
		return err
	}
	if debug {
		log.Printf("Loaded %d tiles of %dx%d from %s", len(cat), cat.TileSize(), cat.TileSize(), path)
	}

	product, productErr := assembly.NewIndex(cat).CornerProduct()
	if productErr != nil {
		log.Printf("Corner product unavailable: %v", productErr)
	} else {
		fmt.Fprintf(w, "Corner product: %s\n", humanize.Comma(int64(product)))
	}

	res, err := assembly.Assemble(cat)
	if err != nil {
		var pe *assembly.PlacementError
		if debug && errors.As(err, &pe) {
			log.Printf("No tile fits at %v; %s candidates left: %v", pe.Pos, pe.Class, pe.Pool)
		}
		return err
	}

	found := overlay.Scan(res.Image, overlay.SeaMonster())
	if debug {
		log.Printf("Assembled %dx%d tiles into a %dx%d image; %d sea monsters",
			res.Side, res.Side, res.Image.Width(), res.Image.Height(), len(found.Occurrences))
	}
	fmt.Fprintf(w, "Unmarked pixels: %s\n", humanize.Comma(int64(found.Unmarked)))
	return productErr
}
