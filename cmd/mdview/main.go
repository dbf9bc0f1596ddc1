package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-mdview/internal/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// commands lists the subcommand names.
var commands = []string{"render", "serve", "encode", "config", "doctor", "completion", "version", "help"}

func main() {
	verbose := slices.Contains(os.Args[1:], "-v") || slices.Contains(os.Args[1:], "--verbose")

	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches the command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]

	var err error
	switch {
	case cmd == "render":
		err = runRender(ctx, rest, env)
	case cmd == "serve":
		err = runServe(ctx, rest, env)
	case cmd == "encode":
		err = runEncode(rest, env)
	case cmd == "config":
		err = runConfig(rest, env)
	case cmd == "doctor":
		return runDoctorCmd(ctx, rest, env)
	case cmd == "completion":
		err = runCompletion(rest, env)
	case cmd == "version":
		fmt.Fprintf(env.Stdout, "go-mdview %s\n", Version)
		return ExitSuccess
	case cmd == "help" || cmd == "-h" || cmd == "--help":
		return runHelp(rest, env)
	case strings.HasPrefix(cmd, "-") || looksLikeSource(cmd):
		// render is the default command
		err = runRender(ctx, args[1:], env)
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// isCommand reports whether arg names a subcommand.
func isCommand(arg string) bool {
	return slices.Contains(commands, arg)
}

// looksLikeSource reports whether arg is an attachment rather than a
// mistyped command: a URL, stdin, a Markdown file name, or an existing path.
func looksLikeSource(arg string) bool {
	if isCommand(arg) {
		return false
	}
	return arg == stdinArg ||
		fileutil.IsURL(arg) ||
		looksLikeMarkdown(arg) ||
		fileutil.FileExists(arg) ||
		isDir(arg)
}

// looksLikeMarkdown reports whether the path has a Markdown extension.
func looksLikeMarkdown(path string) bool {
	return strings.HasSuffix(path, ".md") || strings.HasSuffix(path, ".markdown")
}
