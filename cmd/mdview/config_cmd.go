package main

import (
	"errors"
	"fmt"

	"github.com/alnah/go-mdview/internal/yamlutil"
)

// runConfig prints the effective configuration after the config file and
// environment are applied.
func runConfig(args []string, env *Environment) error {
	flags, positional, err := parseConfigFlags(args)
	if err != nil {
		if errors.Is(err, errHelp) {
			printConfigUsage(env.Stdout)
			return nil
		}
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: config takes no arguments", ErrInvalidFlags)
	}

	s, err := loadSettings(*flags, viewerFlags{}, env)
	if err != nil {
		return err
	}
	if s.timeout > 0 {
		s.cfg.Fetch.Timeout = s.timeout.String()
	}

	out, err := yamlutil.Marshal(s.cfg)
	if err != nil {
		return err
	}
	if _, err := env.Stdout.Write(out); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
