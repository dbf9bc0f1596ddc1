package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-mdview/internal/server"
)

// runServe serves viewer pages for the selected attachments until interrupted.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args)
	if err != nil {
		if errors.Is(err, errHelp) {
			printServeUsage(env.Stdout)
			return nil
		}
		return err
	}

	s, err := loadSettings(flags.common, flags.viewer, env)
	if err != nil {
		return err
	}
	if s.attachments, err = resolveAttachments(positional, flags.sources, s.cfg, env.Stdin); err != nil {
		return err
	}

	viewer, err := s.newViewer()
	if err != nil {
		return err
	}

	addr := s.cfg.Server.Addr
	if flags.addr != "" {
		addr = flags.addr
	}
	origins := s.cfg.Server.AllowedOrigins
	if len(flags.allowOrigins) > 0 {
		origins = flags.allowOrigins
	}

	srv := server.New(server.Config{
		Addr:           addr,
		Attachments:    s.attachments,
		View:           s.cfg.InitialView(),
		AllowedOrigins: origins,
		Logger:         s.logger,
	}, viewer)

	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "Serving %d attachment(s) on http://%s (Ctrl+C to stop)\n", len(srv.Names()), addr)
	}
	return srv.Run(ctx)
}
