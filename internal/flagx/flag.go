// Package flagx lets several flag consumers share one argument list: the
// config loader picks out its own flags and hands everything else, in
// order, to the command dispatcher.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// Partition splits args into the allowed flags (with their values) and the
// remaining arguments, preserving relative order in both.
//
// Supported forms for allowed flags:
//
//	-d ledger.db       value as the next argument
//	-d=ledger.db       value joined with '='
//	--d ledger.db      double dash is accepted as an alias of the single-dash name
//
// A value is only taken from the next argument when it does not itself look
// like a flag; negative numbers ("-5") still count as values.
func Partition(args []string, allowed []string) (matched, rest []string) {
	set := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		set[normalize(f)] = struct{}{}
	}

	matched = make([]string, 0, len(args))
	rest = make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			rest = append(rest, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || isNumber(arg) {
			rest = append(rest, arg)
			continue
		}

		name, _, hasValue := strings.Cut(arg, "=")
		if _, ok := set[normalize(name)]; !ok {
			rest = append(rest, arg)
			continue
		}

		matched = append(matched, arg)
		if !hasValue && i+1 < len(args) && (!strings.HasPrefix(args[i+1], "-") || isNumber(args[i+1])) {
			matched = append(matched, args[i+1])
			i++
		}
	}

	return matched, rest
}

// FilterArgs returns only the allowed flags and their values.
func FilterArgs(args []string, allowedFlags []string) []string {
	matched, _ := Partition(args, allowedFlags)
	return matched
}

// JsonConfigFlags extracts the config file path given with -c or -config.
// An empty string means no JSON config was requested.
func JsonConfigFlags(args []string) string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return config
}

func normalize(name string) string {
	return "-" + strings.TrimLeft(name, "-")
}

func isNumber(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	dot := false
	for _, r := range s {
		switch {
		case r == '.' && !dot:
			dot = true
		case r < '0' || r > '9':
			return false
		}
	}
	return true
}
