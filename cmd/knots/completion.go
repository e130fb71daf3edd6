package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
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

// completionCommand is the first argument that switches knots into
// completion mode instead of treating it as an input path.
const completionCommand = "completion"

var shells = []Shell{ShellBash, ShellZsh, ShellFish, ShellPowerShell}

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

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
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob []string // for file flags
	Repeat   bool     // may be given more than once
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob []string // file glob patterns
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"format": {Values: []string{"auto", "markdown", "tree"}},
	"config": {FileGlob: []string{"*.yaml", "*.yml"}},
	"output": {IsDir: true},
}

// inputGlobs lists the patterns offered for the positional input.
func inputGlobs() []string {
	exts := supportedExtensions()
	globs := make([]string, len(exts))
	for i, ext := range exts {
		globs[i] = "*" + ext
	}
	return globs
}

// completionFlags extracts flag definitions from the convert FlagSet,
// enriched with flagCompletionMeta.
func completionFlags() []flagDef {
	return extractFlagsFromFlagSet(newConvertFlagSet(&convertFlags{}))
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
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
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "stringArray", "stringSlice":
			fd.Repeat = true
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case len(meta.FileGlob) > 0:
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

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var gen func(*strings.Builder, []flagDef)
	switch shell {
	case ShellBash:
		gen = generateBash
	case ShellZsh:
		gen = generateZsh
	case ShellFish:
		gen = generateFish
	case ShellPowerShell:
		gen = generatePowerShell
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}

	var sb strings.Builder
	gen(&sb, completionFlags())
	_, err := io.WriteString(w, sb.String())
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

func shellNames() string {
	names := make([]string, len(shells))
	for i, s := range shells {
		names[i] = string(s)
	}
	return strings.Join(names, " ")
}

func generateBash(sb *strings.Builder, flags []flagDef) {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}

	sb.WriteString("# bash completion for knots\n")
	sb.WriteString("_knots_completions() {\n")
	sb.WriteString("    local cur prev\n")
	sb.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	sb.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")

	fmt.Fprintf(sb, "    if [[ \"${COMP_WORDS[1]}\" == %q ]]; then\n", completionCommand)
	sb.WriteString("        if [[ ${COMP_CWORD} -eq 2 ]]; then\n")
	fmt.Fprintf(sb, "            COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", shellNames())
	sb.WriteString("        fi\n")
	sb.WriteString("        return\n")
	sb.WriteString("    fi\n\n")

	sb.WriteString("    case \"${prev}\" in\n")
	for _, f := range flags {
		if f.Type == flagBool {
			continue
		}
		fmt.Fprintf(sb, "        %s)\n", bashFlagPattern(f))
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(sb, "            COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(f.Values, " "))
		case flagFile:
			sb.WriteString("            COMPREPLY=( $(compgen -d -- \"${cur}\")")
			for _, g := range f.FileGlob {
				fmt.Fprintf(sb, " $(compgen -f -X '!%s' -- \"${cur}\")", g)
			}
			sb.WriteString(" )\n")
		case flagDir:
			sb.WriteString("            COMPREPLY=( $(compgen -d -- \"${cur}\") )\n")
		}
		sb.WriteString("            return\n")
		sb.WriteString("            ;;\n")
	}
	sb.WriteString("    esac\n\n")

	sb.WriteString("    if [[ \"${cur}\" == -* ]]; then\n")
	fmt.Fprintf(sb, "        COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(words, " "))
	sb.WriteString("        return\n")
	sb.WriteString("    fi\n\n")

	sb.WriteString("    COMPREPLY=( $(compgen -d -- \"${cur}\")")
	for _, g := range inputGlobs() {
		fmt.Fprintf(sb, " $(compgen -f -X '!%s' -- \"${cur}\")", g)
	}
	sb.WriteString(" )\n")
	sb.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(sb, "        COMPREPLY+=( $(compgen -W %q -- \"${cur}\") )\n", completionCommand)
	sb.WriteString("    fi\n")
	sb.WriteString("}\n")
	sb.WriteString("complete -o filenames -F _knots_completions knots\n")
}

func bashFlagPattern(f flagDef) string {
	if f.Short != "" {
		return "-" + f.Short + "|--" + f.Long
	}
	return "--" + f.Long
}

func generateZsh(sb *strings.Builder, flags []flagDef) {
	sb.WriteString("#compdef knots\n\n")
	sb.WriteString("_knots() {\n")
	fmt.Fprintf(sb, "    if [[ ${words[2]} == %s ]]; then\n", completionCommand)
	fmt.Fprintf(sb, "        (( CURRENT == 3 )) && _values 'shell' %s\n", shellNames())
	sb.WriteString("        return\n")
	sb.WriteString("    fi\n\n")
	sb.WriteString("    _arguments -s \\\n")
	for _, f := range flags {
		fmt.Fprintf(sb, "        %s \\\n", zshFlagSpec(f))
	}
	sb.WriteString("        '*: :_knots_inputs'\n")
	sb.WriteString("}\n\n")

	sb.WriteString("_knots_inputs() {\n")
	sb.WriteString("    local -a commands\n")
	fmt.Fprintf(sb, "    commands=('%s:Generate shell completion script')\n", completionCommand)
	sb.WriteString("    (( CURRENT == 2 )) && _describe 'command' commands\n")
	fmt.Fprintf(sb, "    _files -g '%s'\n", zshGlob(inputGlobs()))
	sb.WriteString("}\n\n")
	sb.WriteString("compdef _knots knots\n")
}

func zshFlagSpec(f flagDef) string {
	desc := "[" + zshEscape(f.Desc) + "]"

	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		action = ":" + f.Long + ":_files -g '\\''" + zshGlob(f.FileGlob) + "'\\''"
	case flagDir:
		action = ":" + f.Long + ":_files -/"
	default:
		action = ":" + f.Long + ": "
	}

	repeat := ""
	if f.Repeat {
		repeat = "*"
	}
	if f.Short == "" {
		return "'" + repeat + "--" + f.Long + desc + action + "'"
	}
	if f.Repeat {
		return "'*'{-" + f.Short + ",--" + f.Long + "}'" + desc + action + "'"
	}
	return "'(-" + f.Short + " --" + f.Long + ")'{-" + f.Short + ",--" + f.Long + "}'" + desc + action + "'"
}

// zshGlob joins patterns into a single alternation: *.(md|json).
func zshGlob(globs []string) string {
	exts := make([]string, len(globs))
	for i, g := range globs {
		exts[i] = strings.TrimPrefix(g, "*.")
	}
	return "*.(" + strings.Join(exts, "|") + ")"
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

func generateFish(sb *strings.Builder, flags []flagDef) {
	sb.WriteString("# fish completion for knots\n")
	sb.WriteString("function __fish_knots_needs_command\n")
	sb.WriteString("    test (count (commandline -opc)) -eq 1\n")
	sb.WriteString("end\n\n")
	sb.WriteString("function __fish_knots_using_completion\n")
	sb.WriteString("    set -l cmd (commandline -opc)\n")
	fmt.Fprintf(sb, "    test (count $cmd) -ge 2; and test \"$cmd[2]\" = %s\n", completionCommand)
	sb.WriteString("end\n\n")

	fmt.Fprintf(sb, "complete -c knots -n '__fish_knots_needs_command' -a %s -d 'Generate shell completion script'\n", completionCommand)
	fmt.Fprintf(sb, "complete -c knots -n '__fish_knots_using_completion' -f -a '%s'\n", shellNames())

	for _, f := range flags {
		sb.WriteString("complete -c knots -n 'not __fish_knots_using_completion'")
		if f.Short != "" {
			fmt.Fprintf(sb, " -s %s", f.Short)
		}
		fmt.Fprintf(sb, " -l %s", f.Long)
		switch f.Type {
		case flagBool:
		case flagEnum:
			fmt.Fprintf(sb, " -x -a '%s'", strings.Join(f.Values, " "))
		case flagFile:
			sb.WriteString(" -r -F")
		case flagDir:
			sb.WriteString(" -x -a '(__fish_complete_directories)'")
		default:
			sb.WriteString(" -x")
		}
		fmt.Fprintf(sb, " -d '%s'\n", fishEscape(f.Desc))
	}
}

func fishEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s)
}

func generatePowerShell(sb *strings.Builder, flags []flagDef) {
	sb.WriteString("# powershell completion for knots\n")
	sb.WriteString("Register-ArgumentCompleter -Native -CommandName knots -ScriptBlock {\n")
	sb.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	sb.WriteString("    $flags = @(\n")
	for _, f := range flags {
		fmt.Fprintf(sb, "        @{ Name = '--%s'; Desc = '%s' }\n", f.Long, psEscape(f.Desc))
		if f.Short != "" {
			fmt.Fprintf(sb, "        @{ Name = '-%s'; Desc = '%s' }\n", f.Short, psEscape(f.Desc))
		}
	}
	sb.WriteString("    )\n\n")

	sb.WriteString("    $elements = $commandAst.CommandElements\n")
	fmt.Fprintf(sb, "    if ($elements.Count -ge 2 -and $elements[1].Extent.Text -eq '%s') {\n", completionCommand)
	sb.WriteString("        @(")
	for i, s := range shells {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "'%s'", s)
	}
	sb.WriteString(") | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	sb.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	sb.WriteString("        }\n")
	sb.WriteString("        return\n")
	sb.WriteString("    }\n\n")

	sb.WriteString("    if ($wordToComplete -like '-*') {\n")
	sb.WriteString("        $flags | Where-Object { $_.Name -like \"$wordToComplete*\" } | ForEach-Object {\n")
	sb.WriteString("            [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Desc)\n")
	sb.WriteString("        }\n")
	sb.WriteString("        return\n")
	sb.WriteString("    }\n\n")

	sb.WriteString("    if ($elements.Count -le 2) {\n")
	fmt.Fprintf(sb, "        if ('%s' -like \"$wordToComplete*\") {\n", completionCommand)
	fmt.Fprintf(sb, "            [System.Management.Automation.CompletionResult]::new('%s', '%s', 'Command', 'Generate shell completion script')\n", completionCommand, completionCommand)
	sb.WriteString("        }\n")
	sb.WriteString("    }\n")
	sb.WriteString("}\n")
}

func psEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: knots completion <shell>")
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
	fmt.Fprintln(w, "    eval \"$(knots completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(knots completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    knots completion fish > ~/.config/fish/completions/knots.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    knots completion powershell | Out-String | Invoke-Expression")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A file named 'completion' can still be converted as ./completion.")
}
