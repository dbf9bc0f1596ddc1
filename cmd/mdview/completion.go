package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdview/internal/pipeline"
	"github.com/alnah/go-mdview/internal/termrender"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// markdownGlob matches the files render and serve accept as arguments.
const markdownGlob = "*.md,*.markdown"

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long       string   // --output
	Short      string   // -o (empty if none)
	Type       flagType // completion type
	Desc       string   // help text
	Values     []string // for enum flags
	FileGlob   string   // for file flags
	Repeatable bool     // may be given several times
}

// takesValue reports whether the flag consumes the next word.
func (f flagDef) takesValue() bool {
	return f.Type != flagBool
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	FilePattern string // glob for file arguments; empty when none
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   func() []string // enum values
	FileGlob string          // file glob pattern
	IsDir    bool            // directory completion
}

func fixed(values ...string) func() []string {
	return func() []string { return values }
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"view":            {Values: fixed("html", "source")},
	"format":          {Values: fixed(formatHTML, formatTerminal)},
	"mime":            {Values: fixed("text/markdown", "text/plain", "text/x-markdown")},
	"term-style":      {Values: termrender.StyleNames},
	"highlight-style": {Values: pipeline.HighlightStyles},

	// File flags with glob patterns
	"config": {FileGlob: "*.yaml,*.yml"},
	"style":  {FileGlob: "*.css"},

	// Directory flags
	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int":
			fd.Type = flagInt
		case "stringArray", "stringSlice":
			fd.Repeatable = true
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case meta.Values != nil:
				fd.Type = flagEnum
				fd.Values = meta.Values()
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:        "render",
			Desc:        "Render attachments to viewer pages",
			Flags:       extractFlagsFromFlagSet(renderFlagSet(&renderFlags{})),
			FilePattern: markdownGlob,
		},
		{
			Name:        "serve",
			Desc:        "Serve viewer pages over HTTP",
			Flags:       extractFlagsFromFlagSet(serveFlagSet(&serveFlags{})),
			FilePattern: markdownGlob,
		},
		{
			Name:        "encode",
			Desc:        "Print a file as a data URL",
			Flags:       extractFlagsFromFlagSet(encodeFlagSet(&encodeFlags{})),
			FilePattern: "*",
		},
		{
			Name:  "config",
			Desc:  "Print the effective configuration",
			Flags: extractFlagsFromFlagSet(configFlagSet(&commonFlags{})),
		},
		{
			Name:  "doctor",
			Desc:  "Check configuration and attachments",
			Flags: extractFlagsFromFlagSet(doctorFlagSet(&doctorFlags{})),
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name: "help",
			Desc: "Show help for a command",
		},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w, getCommands())
	case ShellZsh:
		return generateZsh(w, getCommands())
	case ShellFish:
		return generateFish(w, getCommands())
	case ShellPowerShell:
		return generatePowerShell(w, getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdview completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(mdview completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(mdview completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    mdview completion fish > ~/.config/fish/completions/mdview.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    mdview completion powershell | Out-String | Invoke-Expression")
}

// flagWords returns every spelling of the command's flags.
func flagWords(cmd commandDef) []string {
	words := make([]string, 0, 2*len(cmd.Flags))
	for _, f := range cmd.Flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// globExtensions returns the extensions of a "*.a,*.b" glob.
func globExtensions(glob string) []string {
	var exts []string
	for _, p := range strings.Split(glob, ",") {
		if ext, ok := strings.CutPrefix(strings.TrimSpace(p), "*."); ok {
			exts = append(exts, ext)
		}
	}
	return exts
}

// ----- bash -----

func bashFileCompletion(glob string) string {
	exts := globExtensions(glob)
	if len(exts) == 0 {
		return `COMPREPLY=( $(compgen -f -- "$cur") )`
	}
	return fmt.Sprintf(`COMPREPLY=( $(compgen -d -- "$cur") $(compgen -f -X '!*.@(%s)' -- "$cur") )`, strings.Join(exts, "|"))
}

func writeBashCommand(b *strings.Builder, cmd commandDef, indent string) {
	fmt.Fprintf(b, "%scase \"$prev\" in\n", indent)
	for _, f := range cmd.Flags {
		if !f.takesValue() {
			continue
		}
		pattern := "--" + f.Long
		if f.Short != "" {
			pattern += "|-" + f.Short
		}
		var action string
		switch f.Type {
		case flagEnum:
			action = fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "$cur") )`, strings.Join(f.Values, " "))
		case flagFile:
			action = bashFileCompletion(f.FileGlob)
		case flagDir:
			action = `COMPREPLY=( $(compgen -d -- "$cur") )`
		default:
			action = "COMPREPLY=()"
		}
		fmt.Fprintf(b, "%s    %s) %s; return 0 ;;\n", indent, pattern, action)
	}
	fmt.Fprintf(b, "%sesac\n", indent)

	fmt.Fprintf(b, "%sif [[ \"$cur\" == -* ]]; then\n", indent)
	fmt.Fprintf(b, "%s    COMPREPLY=( $(compgen -W \"%s\" -- \"$cur\") )\n", indent, strings.Join(flagWords(cmd), " "))
	if cmd.FilePattern != "" {
		fmt.Fprintf(b, "%selse\n", indent)
		fmt.Fprintf(b, "%s    %s\n", indent, bashFileCompletion(cmd.FilePattern))
	}
	fmt.Fprintf(b, "%sfi\n", indent)
}

func generateBash(w io.Writer, commands []commandDef) error {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.Name
	}
	render := commands[0]

	var b strings.Builder
	b.WriteString("# bash completion for mdview\n")
	b.WriteString("_mdview_completions() {\n")
	b.WriteString("    local cur prev cmd i\n")
	b.WriteString("    COMPREPLY=()\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"\"\n")
	b.WriteString("    for ((i=1; i<COMP_CWORD; i++)); do\n")
	fmt.Fprintf(&b, "        case \"${COMP_WORDS[i]}\" in\n            %s) cmd=\"${COMP_WORDS[i]}\"; break ;;\n        esac\n", strings.Join(names, "|"))
	b.WriteString("    done\n\n")

	b.WriteString("    if [[ -z \"$cmd\" && $COMP_CWORD -eq 1 && \"$cur\" != -* ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W \"%s\" -- \"$cur\") )\n", strings.Join(names, " "))
	fmt.Fprintf(&b, "        COMPREPLY+=( $(compgen -f -X '!*.@(%s)' -- \"$cur\") )\n", strings.Join(globExtensions(markdownGlob), "|"))
	b.WriteString("        return 0\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    case \"$cmd\" in\n")
	for _, cmd := range commands {
		switch cmd.Name {
		case "completion":
			b.WriteString("        completion)\n")
			b.WriteString("            COMPREPLY=( $(compgen -W \"bash zsh fish powershell\" -- \"$cur\") )\n")
			b.WriteString("            ;;\n")
		case "help":
			b.WriteString("        help)\n")
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W \"%s\" -- \"$cur\") )\n", strings.Join(names, " "))
			b.WriteString("            ;;\n")
		default:
			if len(cmd.Flags) == 0 {
				continue
			}
			fmt.Fprintf(&b, "        %s)\n", cmd.Name)
			writeBashCommand(&b, cmd, "            ")
			b.WriteString("            ;;\n")
		}
	}
	// Without a command, flags belong to the default render command.
	b.WriteString("        \"\")\n")
	writeBashCommand(&b, render, "            ")
	b.WriteString("            ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -o filenames -F _mdview_completions mdview\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// ----- zsh -----

var zshEscaper = strings.NewReplacer(`'`, `'\''`, `[`, `\[`, `]`, `\]`, `:`, `\:`)

func zshGlob(glob string) string {
	exts := globExtensions(glob)
	if len(exts) == 0 {
		return "_files"
	}
	return fmt.Sprintf(`_files -g "*.(%s)"`, strings.Join(exts, "|"))
}

func zshSpec(f flagDef) string {
	desc := zshEscaper.Replace(f.Desc)

	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagFile:
		action = fmt.Sprintf(":file:%s", zshGlob(f.FileGlob))
	case flagDir:
		action = ":directory:_directories"
	default:
		action = fmt.Sprintf(":%s: ", f.Long)
	}

	repeat := ""
	if f.Repeatable {
		repeat = "*"
	}
	if f.Short == "" {
		return fmt.Sprintf("'%s--%s[%s]%s'", repeat, f.Long, desc, action)
	}
	exclusion := fmt.Sprintf("'(-%s --%s)'", f.Short, f.Long)
	if f.Repeatable {
		exclusion = "'*'"
	}
	return fmt.Sprintf("%s{-%s,--%s}'[%s]%s'", exclusion, f.Short, f.Long, desc, action)
}

func writeZshArguments(b *strings.Builder, cmd commandDef, indent string) {
	fmt.Fprintf(b, "%s_arguments -s", indent)
	for _, f := range cmd.Flags {
		fmt.Fprintf(b, " \\\n%s    %s", indent, zshSpec(f))
	}
	if cmd.FilePattern != "" {
		fmt.Fprintf(b, " \\\n%s    '*:file:%s'", indent, zshGlob(cmd.FilePattern))
	}
	b.WriteString("\n")
}

func generateZsh(w io.Writer, commands []commandDef) error {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.Name
	}

	var b strings.Builder
	b.WriteString("#compdef mdview\n\n")
	b.WriteString("_mdview() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, cmd := range commands {
		fmt.Fprintf(&b, "        '%s:%s'\n", cmd.Name, zshEscaper.Replace(cmd.Desc))
	}
	b.WriteString("    )\n\n")

	b.WriteString("    if (( CURRENT == 2 )) && [[ \"${words[CURRENT]}\" != -* ]]; then\n")
	b.WriteString("        _describe 'command' commands\n")
	fmt.Fprintf(&b, "        %s\n", zshGlob(markdownGlob))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    case \"${words[2]}\" in\n")
	for _, cmd := range commands {
		fmt.Fprintf(&b, "        %s)\n", cmd.Name)
		b.WriteString("            shift words\n")
		b.WriteString("            (( CURRENT-- ))\n")
		switch cmd.Name {
		case "completion":
			b.WriteString("            _values 'shell' bash zsh fish powershell\n")
		case "help":
			fmt.Fprintf(&b, "            _values 'command' %s\n", strings.Join(names, " "))
		case "version":
		default:
			writeZshArguments(&b, cmd, "            ")
		}
		b.WriteString("            ;;\n")
	}
	// Without a command, arguments belong to the default render command.
	b.WriteString("        *)\n")
	writeZshArguments(&b, commands[0], "            ")
	b.WriteString("            ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("_mdview \"$@\"\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// ----- fish -----

var fishEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func generateFish(w io.Writer, commands []commandDef) error {
	var b strings.Builder
	b.WriteString("# fish completion for mdview\n\n")
	b.WriteString("function __fish_mdview_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_mdview_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")

	b.WriteString("complete -c mdview -f\n")
	for _, cmd := range commands {
		fmt.Fprintf(&b, "complete -c mdview -n __fish_mdview_needs_command -a %s -d '%s'\n", cmd.Name, fishEscaper.Replace(cmd.Desc))
	}
	b.WriteString("complete -c mdview -n __fish_mdview_needs_command -F\n")

	for _, cmd := range commands {
		cond := fmt.Sprintf("'__fish_mdview_using_command %s'", cmd.Name)
		b.WriteString("\n")
		switch cmd.Name {
		case "completion":
			fmt.Fprintf(&b, "complete -c mdview -n %s -a 'bash zsh fish powershell'\n", cond)
			continue
		case "help":
			names := make([]string, len(commands))
			for i, c := range commands {
				names[i] = c.Name
			}
			fmt.Fprintf(&b, "complete -c mdview -n %s -a '%s'\n", cond, strings.Join(names, " "))
			continue
		}

		for _, f := range cmd.Flags {
			fmt.Fprintf(&b, "complete -c mdview -n %s", cond)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			fmt.Fprintf(&b, " -l %s", f.Long)
			switch f.Type {
			case flagBool:
			case flagEnum:
				fmt.Fprintf(&b, " -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				b.WriteString(" -r -F")
			case flagDir:
				b.WriteString(" -x -a '(__fish_complete_directories)'")
			default:
				b.WriteString(" -x")
			}
			fmt.Fprintf(&b, " -d '%s'\n", fishEscaper.Replace(f.Desc))
		}
		if cmd.FilePattern != "" {
			fmt.Fprintf(&b, "complete -c mdview -n %s -F\n", cond)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// ----- powershell -----

var psEscaper = strings.NewReplacer(`'`, `''`)

func generatePowerShell(w io.Writer, commands []commandDef) error {
	var b strings.Builder
	b.WriteString("# powershell completion for mdview\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName mdview -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	b.WriteString("    $commands = [ordered]@{\n")
	for _, cmd := range commands {
		fmt.Fprintf(&b, "        '%s' = '%s'\n", cmd.Name, psEscaper.Replace(cmd.Desc))
	}
	b.WriteString("    }\n\n")

	b.WriteString("    $flags = @{\n")
	for _, cmd := range commands {
		if len(cmd.Flags) == 0 {
			continue
		}
		quoted := make([]string, 0, 2*len(cmd.Flags))
		for _, word := range flagWords(cmd) {
			quoted = append(quoted, "'"+word+"'")
		}
		fmt.Fprintf(&b, "        '%s' = @(%s)\n", cmd.Name, strings.Join(quoted, ", "))
	}
	b.WriteString("    }\n\n")

	b.WriteString("    $elements = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n")
	b.WriteString("    $command = if ($elements.Count -gt 1) { $elements[1] } else { '' }\n")
	b.WriteString("    if (-not $commands.Contains($command)) { $command = 'render' }\n\n")

	b.WriteString("    if ($elements.Count -le 1 -or ($elements.Count -eq 2 -and $wordToComplete -ne '' -and $wordToComplete -notlike '-*')) {\n")
	b.WriteString("        $commands.GetEnumerator() | Where-Object { $_.Key -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_.Key, $_.Key, 'ParameterValue', $_.Value)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")

	b.WriteString("    if ($wordToComplete -like '-*' -and $flags.ContainsKey($command)) {\n")
	b.WriteString("        $flags[$command] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}
