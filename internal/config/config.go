// Package config defines the CLI structure and configuration for Whirlwind.
package config

import (
	"github.com/b4n4n377/Whirlwind/internal/cmd"
)

type Log struct {
	Level string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"WHIRLWIND_LOG_LEVEL"`
	File  string `help:"Log file path (default: none; logs only to console)" env:"WHIRLWIND_LOG_FILE"`
}

// CLI is the root command structure for Kong CLI parsing.
type CLI struct {
	Log `embed:"" prefix:"log."`

	Describe cmd.Describe `cmd:"" help:"Print the controller's HID report and configuration descriptors"`
	Serve    cmd.Serve    `cmd:"" help:"Register the controller as a Linux USB gadget and stream button reports"`
	Monitor  cmd.Monitor  `cmd:"" help:"Attach to the controller from the host side and decode its reports"`
}
