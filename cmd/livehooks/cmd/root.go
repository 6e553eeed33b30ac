// Package cmd implements the livehooks CLI commands.
//
// The command structure follows standard Go CLI patterns with a root command
// that dispatches to subcommands (render, watch).
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/go-drift/livehooks/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name        string
	Short       string
	Long        string
	Usage       string
	Run         func(args []string) error
	SubCommands []*Command
}

var rootCmd = &Command{
	Name:  "livehooks",
	Short: "livehooks - run page widget hooks without a browser",
	Long: `livehooks attaches the widgets declared by phx-hook attributes in an
HTML page (charts, the audio recorder, the mobile navigation) and writes
the page as the widgets leave it.

Use "livehooks <command> --help" for more information about a command.`,
	Usage: "livehooks <command> [flags]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

// logger is the CLI logger, configured by the global flags.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix:          "livehooks",
	ReportTimestamp: true,
	Level:           log.InfoLevel,
})

// Execute runs the CLI with the given arguments.
func Execute() error {
	args := os.Args[1:]

	// Handle no arguments
	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	var filteredArgs []string
	verbose := false
	for _, arg := range args {
		switch arg {
		case "-h", "--help", "help":
			if len(filteredArgs) == 0 {
				printHelp(rootCmd)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "--version", "version":
			if len(filteredArgs) == 0 {
				fmt.Printf("livehooks version %s (built %s)\n", Version, BuildTime)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "-v", "--verbose":
			verbose = true
		default:
			filteredArgs = append(filteredArgs, arg)
		}
	}
	args = filteredArgs

	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	errors.SetHandler(&errors.LogHandler{Logger: logger, Verbose: verbose})

	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	// Find and execute the command
	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp(rootCmd)
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	// Check for help flag on subcommand
	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	if err := cmd.Run(cmdArgs); err != nil {
		logger.Error(strings.TrimSpace(err.Error()))
		return err
	}
	return nil
}

func printHelp(cmd *Command) {
	fmt.Println(cmd.Long)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s\n", cmd.Usage)
	fmt.Println()
	fmt.Println("Commands:")
	for _, sub := range cmd.SubCommands {
		fmt.Printf("  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -h, --help           Show help for a command")
	fmt.Println("  -v, --verbose        Log widget lifecycle and bridge events")
	fmt.Println("  --version            Show version information")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  livehooks.yaml or livehooks.toml next to the page, or --config FILE")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  livehooks render dashboard.html -o out.html   Render once")
	fmt.Println("  livehooks watch dashboard.html -o out.html    Re-render on every save")
}

func printCommandHelp(cmd *Command) {
	fmt.Println(cmd.Long)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s\n", cmd.Usage)
}
