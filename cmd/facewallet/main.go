package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/facewallet/facewallet/pkg/config"
	"github.com/facewallet/facewallet/pkg/logging"
)

const version = "0.1.0"

// Command represents a CLI command.
type Command struct {
	Name        string
	Description string
	Usage       string
	Run         func(args []string) error
}

var (
	cfg      *config.Config
	commands map[string]*Command
)

func init() {
	commands = map[string]*Command{
		"register": {
			Name:        "register",
			Description: "Enroll a face and create a wallet identity",
			Usage:       "facewallet register",
			Run:         cmdRegister,
		},
		"login": {
			Name:        "login",
			Description: "Sign in by face scan, with password+OTP fallback",
			Usage:       "facewallet login",
			Run:         cmdLogin,
		},
		"reset-password": {
			Name:        "reset-password",
			Description: "Reset a password via emailed one-time code",
			Usage:       "facewallet reset-password",
			Run:         cmdResetPassword,
		},
		"users": {
			Name:        "users",
			Description: "List registered identities",
			Usage:       "facewallet users",
			Run:         cmdUsers,
		},
		"send": {
			Name:        "send",
			Description: "Transfer between wallets",
			Usage:       "facewallet send <from-email> <to-email> <amount>",
			Run:         cmdSend,
		},
		"history": {
			Name:        "history",
			Description: "Show transactions for an identity",
			Usage:       "facewallet history <email>",
			Run:         cmdHistory,
		},
		"download-models": {
			Name:        "download-models",
			Description: "Download face recognition models",
			Usage:       "facewallet download-models [dir]",
			Run:         cmdDownloadModels,
		},
		"config": {
			Name:        "config",
			Description: "Show current configuration",
			Usage:       "facewallet config",
			Run:         cmdConfig,
		},
		"version": {
			Name:        "version",
			Description: "Show version information",
			Usage:       "facewallet version",
			Run:         cmdVersion,
		},
		"help": {
			Name:        "help",
			Description: "Show help information",
			Usage:       "facewallet help [command]",
			Run:         cmdHelp,
		},
	}
}

func main() {
	configFile := flag.String("config", "", "Path to configuration file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	args := flag.Args()

	var err error
	if *configFile != "" {
		cfg, err = config.Load(*configFile)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	cfg.ExpandPaths()

	logLevel := cfg.Logging.Level
	if *debug {
		logLevel = "debug"
	}
	if err := logging.Init(logLevel, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not initialize file logging: %v\n", err)
	}

	logging.Debugf("FaceWallet v%s starting", version)

	if len(args) < 1 {
		printUsage()
		os.Exit(0)
	}

	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmdName)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.Run(args[1:]); err != nil {
		logging.WithError(err).Errorf("Command '%s' failed", cmdName)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("FaceWallet - Face-gated wallet demo")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Usage: facewallet [options] <command> [arguments]")
	fmt.Println("\nOptions:")
	fmt.Println("  -config <file>   Path to configuration file")
	fmt.Println("  -debug           Enable debug logging")
	fmt.Println("\nCommands:")
	for _, name := range []string{"register", "login", "reset-password", "users", "send", "history", "download-models", "config", "version", "help"} {
		cmd := commands[name]
		fmt.Printf("  %-16s %s\n", cmd.Name, cmd.Description)
	}
	fmt.Println("\nRun 'facewallet help <command>' for more information on a command.")
}

func cmdConfig(args []string) error {
	fmt.Println("Current Configuration:")
	fmt.Println("======================")
	fmt.Println()
	fmt.Println("[Capture]")
	fmt.Printf("  Frame Dir:       %s\n", cfg.Capture.FrameDir)
	fmt.Printf("  Interval:        %dms\n", cfg.Capture.IntervalMS)
	fmt.Printf("  Model Path:      %s\n", cfg.Capture.ModelPath)
	fmt.Println()
	fmt.Println("[Matching]")
	fmt.Printf("  Threshold:       %.2f\n", cfg.Matching.Threshold)
	fmt.Println()
	fmt.Println("[Authentication]")
	fmt.Printf("  Max Failures:    %d\n", cfg.Auth.MaxFailures)
	fmt.Printf("  Retry Limit:     %d\n", cfg.Auth.RetryLimit)
	fmt.Printf("  Settle Delay:    %dms\n", cfg.Auth.SettleDelayMS)
	fmt.Println()
	fmt.Println("[OTP]")
	fmt.Printf("  TTL:             %ds\n", cfg.OTP.TTLSeconds)
	fmt.Printf("  Resend Wait:     %ds\n", cfg.OTP.ResendWaitSeconds)
	fmt.Printf("  Store:           %s\n", cfg.OTP.Store)
	fmt.Println()
	fmt.Println("[Delivery]")
	fmt.Printf("  Channel:         %s\n", cfg.Delivery.Channel)
	fmt.Println()
	fmt.Println("[Storage]")
	fmt.Printf("  Data Dir:        %s\n", cfg.Storage.DataDir)
	fmt.Printf("  Key File:        %s\n", cfg.Storage.KeyFile)
	fmt.Println()
	fmt.Println("[Logging]")
	fmt.Printf("  Level:           %s\n", cfg.Logging.Level)
	fmt.Printf("  File:            %s\n", cfg.Logging.File)
	return nil
}

func cmdVersion(args []string) error {
	fmt.Printf("FaceWallet v%s\n", version)
	fmt.Println("Face-gated wallet demo")
	return nil
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		printUsage()
		return nil
	}

	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	fmt.Printf("Command: %s\n", cmd.Name)
	fmt.Printf("Description: %s\n", cmd.Description)
	fmt.Printf("Usage: %s\n", cmd.Usage)

	switch cmdName {
	case "register":
		fmt.Println("\nRegistration Process:")
		fmt.Println("  1. Frames are sampled until the face scan completes")
		fmt.Println("  2. Profile details are collected")
		fmt.Println("  3. The face template is encrypted and stored locally")
	case "login":
		fmt.Println("\nLogin Process:")
		fmt.Println("  1. Frames are scanned against enrolled identities")
		fmt.Println("  2. After two failed scan cycles, password+OTP takes over")
	case "config":
		fmt.Println("\nConfiguration Locations:")
		fmt.Println("  System: /etc/facewallet/facewallet.yaml")
		fmt.Println("  User:   ~/.config/facewallet/facewallet.yaml")
		fmt.Println("\nUse -config flag to specify a custom config file.")
	}

	return nil
}
