package main

import (
	"errors"
	"os"

	"github.com/leefowlercu/vpnwatch/cmd"
	"github.com/leefowlercu/vpnwatch/internal/cmdutil"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var exitErr cmdutil.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
