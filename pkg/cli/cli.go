// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/shayne/yargs"
)

type FlagSpec struct {
	ConsumesValue bool
}

type CommandInfo struct {
	Name        string
	Description string
	Usage       string
	Examples    []string
	Hidden      bool
	Aliases     []string
	// ArgsSchema optionally defines positional args via `pos` tags.
	ArgsSchema any
}

type GroupInfo struct {
	Name        string
	Description string
	Commands    map[string]CommandInfo
	Hidden      bool
}

const (
	CommandFlatten = "flatten"
	CommandParse   = "parse"
	CommandBatch   = "batch"
	CommandTyped   = "typed"

	GroupDef       = "def"
	CommandCheck   = "check"
	CommandConvert = "convert"
)

// Output formats accepted by --format.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Invocation is what a command was asked to do: its own flags, its
// positional arguments, and the argument vector to parse.
type Invocation[F any] struct {
	Flags F
	Args  []string
	Argv  []string
}

type FlattenFlags struct {
	Stop bool
}

type ParseFlags struct {
	Stop   bool
	Format string
}

type BatchFlags struct {
	Stop    bool
	Format  string
	Workers int
}

type TypedFlags struct {
	Stop bool
	As   string
}

type ConvertFlags struct {
	To string
}

type flattenFlagsParsed struct {
	Stop bool `flag:"stop" short:"s" help:"Stop option processing at the first non-option"`
}

type parseFlagsParsed struct {
	Stop   bool   `flag:"stop" short:"s" help:"Stop option processing at the first non-option"`
	Format string `flag:"format" short:"f" default:"table" help:"Output format: table, json or yaml"`
}

type batchFlagsParsed struct {
	Stop    bool   `flag:"stop" short:"s" help:"Stop option processing at the first non-option"`
	Format  string `flag:"format" short:"f" default:"table" help:"Output format: table, json or yaml"`
	Workers int    `flag:"workers" short:"w" default:"0" help:"Concurrent parses (0 = one per CPU)"`
}

type typedFlagsParsed struct {
	Stop bool   `flag:"stop" short:"s" help:"Stop option processing at the first non-option"`
	As   string `flag:"as" help:"Convert to this type instead of the option's own"`
}

type convertFlagsParsed struct {
	To string `flag:"to" default:"toml" help:"Target format: toml, yaml, hcl or json"`
}

type DefArgs struct {
	Def string `pos:"0" help:"Definition file (.toml, .yaml, .hcl, .json)"`
}

type BatchArgs struct {
	Def  string `pos:"0" help:"Definition file"`
	File string `pos:"1" help:"Batch file, one argument list per line"`
}

type TypedArgs struct {
	Def string `pos:"0" help:"Definition file"`
	Key string `pos:"1" help:"Option to convert"`
}

var commandInfos = map[string]CommandInfo{
	CommandFlatten: {Name: CommandFlatten, Description: "Print the normalized token stream for ARGS", Usage: "DEF [--stop] [--] ARGS...", Examples: []string{
		"posixopt flatten tar.toml -- -xzf out.tar.gz",
		"posixopt flatten --stop tar.toml -- -v file -x",
	}, ArgsSchema: DefArgs{}},
	CommandParse: {Name: CommandParse, Description: "Parse ARGS and print the resolved options", Usage: "DEF [--stop] [--format=table|json|yaml] [--] ARGS...", Examples: []string{
		"posixopt parse tar.toml -- -xzf out.tar.gz",
		"posixopt parse --format=json tar.toml -- --file=a.tar -c",
	}, Aliases: []string{"p"}, ArgsSchema: DefArgs{}},
	CommandBatch: {Name: CommandBatch, Description: "Parse every line of FILE concurrently", Usage: "DEF FILE [--workers=N] [--format=table|json|yaml]", Examples: []string{
		"posixopt batch tar.toml cases.txt",
		"posixopt batch --workers=4 tar.toml cases.txt.zst",
	}, ArgsSchema: BatchArgs{}},
	CommandTyped: {Name: CommandTyped, Description: "Parse ARGS and print one option's value converted to its type", Usage: "DEF KEY [--as=TYPE] [--] ARGS...", Examples: []string{
		"posixopt typed tool.yaml level -- -l 9",
		"posixopt typed --as=url tool.yaml endpoint -- --endpoint=https://example.com",
	}, ArgsSchema: TypedArgs{}},
}

var groupInfos = map[string]GroupInfo{
	GroupDef: {
		Name:        GroupDef,
		Description: "Inspect option definition files",
		Commands: map[string]CommandInfo{
			CommandCheck:   {Name: CommandCheck, Description: "Validate a definition and list its options, groups and requirements", Usage: "def check DEF", ArgsSchema: DefArgs{}},
			CommandConvert: {Name: CommandConvert, Description: "Rewrite a definition in another format", Usage: "def convert DEF [--to=toml|yaml|hcl|json]", ArgsSchema: DefArgs{}},
		},
	},
}

var flagSpecs = map[string]map[string]FlagSpec{
	CommandFlatten: flagSpecsFromStruct(flattenFlagsParsed{}),
	CommandParse:   flagSpecsFromStruct(parseFlagsParsed{}),
	CommandBatch:   flagSpecsFromStruct(batchFlagsParsed{}),
	CommandTyped:   flagSpecsFromStruct(typedFlagsParsed{}),
	CommandConvert: flagSpecsFromStruct(convertFlagsParsed{}),
	CommandCheck:   {},
}

func CommandInfos() map[string]CommandInfo {
	return commandInfos
}

func GroupInfos() map[string]GroupInfo {
	return groupInfos
}

func FlagSpecs() map[string]map[string]FlagSpec {
	return flagSpecs
}

func Registry() yargs.Registry {
	subcommands := make(map[string]yargs.CommandSpec, len(commandInfos))
	for name, info := range commandInfos {
		subcommands[name] = yargs.CommandSpec{
			Info:       toSubCommandInfo(name, info),
			ArgsSchema: info.ArgsSchema,
		}
	}
	groups := make(map[string]yargs.GroupSpec, len(groupInfos))
	for name, info := range groupInfos {
		cmds := make(map[string]yargs.CommandSpec, len(info.Commands))
		for cmdName, cmd := range info.Commands {
			cmds[cmdName] = yargs.CommandSpec{
				Info:       toSubCommandInfo(cmdName, cmd),
				ArgsSchema: cmd.ArgsSchema,
			}
		}
		groups[name] = yargs.GroupSpec{
			Info: yargs.GroupInfo{
				Name:        info.Name,
				Description: info.Description,
				Hidden:      info.Hidden,
			},
			Commands: cmds,
		}
	}
	return yargs.Registry{
		Command:     yargs.CommandInfo{Name: "posixopt"},
		SubCommands: subcommands,
		Groups:      groups,
	}
}

func toSubCommandInfo(name string, info CommandInfo) yargs.SubCommandInfo {
	return yargs.SubCommandInfo{
		Name:        name,
		Description: info.Description,
		Usage:       info.Usage,
		Examples:    info.Examples,
		Hidden:      info.Hidden,
		Aliases:     info.Aliases,
	}
}

// HelpConfig returns the help metadata for every command and group.
func HelpConfig() yargs.HelpConfig {
	hc := Registry().HelpConfig()
	hc.Command = yargs.CommandInfo{
		Name:        "posixopt",
		Description: "Parse command lines against option definitions using POSIX conventions.",
		Examples: []string{
			"posixopt def check tar.toml",
			"posixopt flatten tar.toml -- -xzvf out.tar.gz",
			"posixopt parse --format=yaml tar.toml -- -cf out.tar dir",
		},
	}
	return hc
}

func ParseFlatten(args []string) (Invocation[FlattenFlags], error) {
	parsed, argv, err := parseCommand[flattenFlagsParsed](CommandFlatten, args)
	if err != nil {
		return Invocation[FlattenFlags]{}, err
	}
	return Invocation[FlattenFlags]{
		Flags: FlattenFlags{Stop: parsed.Flags.Stop},
		Args:  parsed.Args,
		Argv:  argv,
	}, nil
}

func ParseParse(args []string) (Invocation[ParseFlags], error) {
	parsed, argv, err := parseCommand[parseFlagsParsed](CommandParse, args)
	if err != nil {
		return Invocation[ParseFlags]{}, err
	}
	if err := checkFormat(parsed.Flags.Format); err != nil {
		return Invocation[ParseFlags]{}, err
	}
	return Invocation[ParseFlags]{
		Flags: ParseFlags{Stop: parsed.Flags.Stop, Format: parsed.Flags.Format},
		Args:  parsed.Args,
		Argv:  argv,
	}, nil
}

func ParseBatch(args []string) (Invocation[BatchFlags], error) {
	parsed, argv, err := parseCommand[batchFlagsParsed](CommandBatch, args)
	if err != nil {
		return Invocation[BatchFlags]{}, err
	}
	if err := checkFormat(parsed.Flags.Format); err != nil {
		return Invocation[BatchFlags]{}, err
	}
	if parsed.Flags.Workers < 0 {
		return Invocation[BatchFlags]{}, fmt.Errorf("--workers must not be negative, got %d", parsed.Flags.Workers)
	}
	return Invocation[BatchFlags]{
		Flags: BatchFlags{Stop: parsed.Flags.Stop, Format: parsed.Flags.Format, Workers: parsed.Flags.Workers},
		Args:  append(parsed.Args, argv...),
	}, nil
}

func ParseTyped(args []string) (Invocation[TypedFlags], error) {
	parsed, argv, err := parseCommand[typedFlagsParsed](CommandTyped, args)
	if err != nil {
		return Invocation[TypedFlags]{}, err
	}
	return Invocation[TypedFlags]{
		Flags: TypedFlags{Stop: parsed.Flags.Stop, As: parsed.Flags.As},
		Args:  parsed.Args,
		Argv:  argv,
	}, nil
}

func ParseConvert(args []string) (Invocation[ConvertFlags], error) {
	parsed, argv, err := parseCommand[convertFlagsParsed](CommandConvert, args)
	if err != nil {
		return Invocation[ConvertFlags]{}, err
	}
	switch parsed.Flags.To {
	case "toml", "yaml", "hcl", "json":
	default:
		return Invocation[ConvertFlags]{}, fmt.Errorf("unknown target format %q", parsed.Flags.To)
	}
	return Invocation[ConvertFlags]{
		Flags: ConvertFlags{To: parsed.Flags.To},
		Args:  append(parsed.Args, argv...),
	}, nil
}

func checkFormat(f string) error {
	switch f {
	case FormatTable, FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q", f)
}

type parsedFlags[T any] struct {
	Flags T
	Args  []string
}

// parseCommand strips the command name, parses the command's own flags and
// returns everything from the first token it does not recognize (or after
// "--") as the argument vector to work on.
func parseCommand[T any](name string, args []string) (parsedFlags[T], []string, error) {
	if len(args) > 0 && args[0] == name {
		args = args[1:]
	}
	parseArgs, extraArgs := splitArgsForParsing(args, flagSpecs[name])
	result, err := yargs.ParseFlags[T](parseArgs)
	if err != nil {
		return parsedFlags[T]{}, nil, err
	}
	pos := append([]string{}, result.Args...)
	argv := append([]string{}, result.RemainingArgs...)
	argv = append(argv, extraArgs...)
	return parsedFlags[T]{Flags: result.Flags, Args: pos}, argv, nil
}

// splitArgsForParsing returns the leading args the command's own flag
// parser accepts and the rest, which starts at "--" (dropped) or at the
// first token the flag parser would reject.
func splitArgsForParsing(args []string, specs map[string]FlagSpec) ([]string, []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			if i+1 < len(args) {
				return args[:i], args[i+1:]
			}
			return args[:i], nil
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name, _, hasValue := strings.Cut(arg, "=")
		spec, ok := specs[name]
		if !ok {
			return args[:i], args[i:]
		}
		if spec.ConsumesValue && !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
		}
	}
	return args, nil
}

func flagSpecsFromStruct(v any) map[string]FlagSpec {
	specs := make(map[string]FlagSpec)
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return specs
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get("flag")
		if name == "" {
			name = strings.ToLower(field.Name)
		}
		spec := FlagSpec{ConsumesValue: consumesValue(field.Type)}
		specs["--"+name] = spec
		if short := field.Tag.Get("short"); short != "" {
			specs["-"+short] = spec
		}
	}
	return specs
}

func consumesValue(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() != reflect.Bool
}

func RequireArgsAtLeast(subcmd string, args []string, count int) error {
	if len(args) < count {
		return fmt.Errorf("'%s' requires at least %d argument(s), got %d", subcmd, count, len(args))
	}
	return nil
}
