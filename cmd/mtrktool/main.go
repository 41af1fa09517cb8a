// Package main is the entry point for the mtrktool CLI
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/james-see/mtrktool/pkg/api"
	"github.com/james-see/mtrktool/pkg/smf"
	"github.com/james-see/mtrktool/pkg/tui"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile string
	trackIndex int
	asJSON     bool
	serverPort int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mtrktool",
	Short: "Inspect and recompose MIDI track chunks",
	Long: `mtrktool decodes the MTrk track chunks of Standard MIDI Files into
their timed event sequences and recomposes them back into bytes,
preserving running status and raw delta-time encodings.

Examples:
  mtrktool inspect song.mid
  mtrktool inspect song.mid --track 1 --json
  mtrktool recompose song.mid -o rebuilt.mid
  mtrktool verify song.mid
  mtrktool tui
  mtrktool serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <input.mid>",
	Short: "List the decoded events of each track chunk",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var recomposeCmd = &cobra.Command{
	Use:   "recompose <input.mid>",
	Short: "Rewrite a file through the track recomposer",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecompose,
}

var verifyCmd = &cobra.Command{
	Use:   "verify <input.mid>",
	Short: "Check that recomposition reproduces each track byte-for-byte",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	inspectCmd.Flags().IntVarP(&trackIndex, "track", "t", -1, "Only show this track (default: all)")
	inspectCmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")

	recomposeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(recomposeCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	f, err := smf.ReadFile(args[0])
	if err != nil {
		return err
	}

	if asJSON {
		type jsonEvent struct {
			Track        int     `json:"track"`
			Index        int     `json:"index"`
			DeltaTime    uint32  `json:"delta_time"`
			AbsoluteTime uint32  `json:"absolute_time"`
			Position     float64 `json:"position"`
			Type         string  `json:"type"`
			Description  string  `json:"description"`
			Bytes        string  `json:"bytes"`
		}
		var out []jsonEvent
		for i, track := range f.Tracks {
			if trackIndex >= 0 && i != trackIndex {
				continue
			}
			for j, ev := range track.Events() {
				out = append(out, jsonEvent{
					Track:        i,
					Index:        j,
					DeltaTime:    ev.DeltaTime(),
					AbsoluteTime: ev.AbsoluteTime(),
					Position:     ev.Position(),
					Type:         fmt.Sprintf("0x%02X", ev.TypeByte()),
					Description:  ev.Describe(),
					Bytes:        fmt.Sprintf("% X", ev.ComputedData()),
				})
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("%s: %d track(s), %d ticks per beat\n", filepath.Base(args[0]),
		len(f.Tracks), f.Header.Division)
	for i, track := range f.Tracks {
		if trackIndex >= 0 && i != trackIndex {
			continue
		}
		events := track.Events()
		fmt.Printf("\nTrack %d (%d events):\n", i, len(events))
		for j, ev := range events {
			marker := " "
			if ev.RunningStatus != 0 {
				marker = "*"
			}
			fmt.Printf("  %4d  tick %6d  beat %8.3f  %s0x%02X  %s\n",
				j, ev.AbsoluteTime(), ev.Position(), marker, ev.TypeByte(), ev.Describe())
		}
	}
	return nil
}

func runRecompose(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := outputFile
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		output = base + ".recomposed.mid"
	}

	f, err := smf.ReadFile(input)
	if err != nil {
		return err
	}
	if err := f.WriteFile(output); err != nil {
		return err
	}

	fmt.Printf("Recomposed %s -> %s\n", input, output)
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	f, err := smf.ReadFile(args[0])
	if err != nil {
		return err
	}

	clean := true
	for i, track := range f.Tracks {
		out := track.Recompose()
		if bytes.Equal(out, track.RawData) {
			fmt.Printf("Track %d: OK (%d bytes)\n", i, len(out))
			continue
		}
		clean = false
		fmt.Printf("Track %d: recomposition differs (%d bytes in, %d bytes out)\n",
			i, len(track.RawData), len(out))
	}
	if !clean {
		return fmt.Errorf("%s did not round-trip byte-for-byte", args[0])
	}
	fmt.Println("All tracks round-trip byte-for-byte.")
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run()
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort)
}
