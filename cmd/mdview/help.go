package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdview <command> [flags] [args]")
	fmt.Fprintln(w, "       mdview [flags] <path-or-url>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render attachments to viewer pages (default)")
	fmt.Fprintln(w, "  serve      Serve viewer pages over HTTP")
	fmt.Fprintln(w, "  encode     Print a file as a data URL")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  doctor     Check configuration and attachments")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdview help <command>' for details on a specific command.")
}

// printAttachmentUsage prints the flags shared by render and serve.
func printAttachmentUsage(w io.Writer) {
	fmt.Fprintln(w, "Attachments:")
	fmt.Fprintln(w, "      --url <url>           Attachment URL, path or data URL (repeatable)")
	fmt.Fprintln(w, "      --name <s>            Attachment name (repeatable; alone, selects from config)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --view <s>            Initial pane: html, source")
	fmt.Fprintln(w, "      --style <s>           Page style name, CSS file, or CSS")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w, "      --highlight-style <s> Code highlight style")
	fmt.Fprintln(w, "      --no-highlight        Disable code highlighting")
	fmt.Fprintln(w, "      --hard-wraps          Render single newlines as line breaks")
	fmt.Fprintln(w, "      --emoji               Replace :shortcode: emoji")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-attachment timeout (0 = none)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdview render [flags] [path-or-url ...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render Markdown attachments into viewer pages with an HTML and a")
	fmt.Fprintln(w, "Source pane. Arguments may be local paths, http(s) URLs, data URLs,")
	fmt.Fprintln(w, "or - for stdin. Without arguments, the configured attachments are used.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file, or directory for several pages")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: html, terminal")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel renders (0 = auto)")
	fmt.Fprintln(w, "      --term-style <s>      Terminal style: auto, dark, light, notty, or JSON file")
	fmt.Fprintln(w, "      --word-wrap <n>       Terminal word wrap (0 = none)")
	fmt.Fprintln(w)
	printAttachmentUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdview serve [flags] [path-or-url ...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve viewer pages over HTTP:")
	fmt.Fprintln(w, "  GET /                first attachment (?view=html|source)")
	fmt.Fprintln(w, "  GET /a/{name}        named attachment")
	fmt.Fprintln(w, "  GET /raw/{name}      Markdown text")
	fmt.Fprintln(w, "  GET /attachments     attachment list (JSON)")
	fmt.Fprintln(w, "  GET /healthz         health check")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address (default 127.0.0.1:8080)")
	fmt.Fprintln(w, "      --allow-origin <url>  CORS origin allowed to read /raw (repeatable)")
	fmt.Fprintln(w)
	printAttachmentUsage(w)
}

// printEncodeUsage prints usage for the encode command.
func printEncodeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdview encode [flags] [path]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print a file (or stdin) as a base64 data URL.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -m, --mime <type>         Media type (default text/markdown)")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: stdout)")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdview config [-c name]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration as YAML, after the config file")
	fmt.Fprintln(w, "and MDVIEW_* environment variables are applied.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "encode":
		printEncodeUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdview version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdview help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
