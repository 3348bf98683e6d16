// Package flagx lets several independent flag sets share one command line.
// Each consumer keeps only the arguments it understands before parsing, so
// unknown flags defined elsewhere never cause a parse error.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs returns the subset of args that belongs to the named flags.
//
// Names are given without dashes ("c", "config"); both "-name" and "--name"
// spellings match. The "-name=value" form is kept as one argument; for the
// "-name value" form the following argument is kept too unless it starts
// with a dash. Boolean flags should therefore use the "=" form.
func FilterArgs(args []string, names []string) []string {
	known := make(map[string]struct{}, len(names))
	for _, n := range names {
		known[n] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		name, hasValue, ok := flagName(args[i])
		if !ok {
			continue
		}
		if _, wanted := known[name]; !wanted {
			continue
		}
		out = append(out, args[i])
		if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// flagName extracts the bare name from "-n", "--n", "-n=v" or "--n=v".
func flagName(arg string) (name string, hasValue bool, ok bool) {
	if !strings.HasPrefix(arg, "-") {
		return "", false, false
	}
	name = strings.TrimLeft(arg, "-")
	if name == "" {
		return "", false, false
	}
	if i := strings.IndexByte(name, '='); i >= 0 {
		return name[:i], true, true
	}
	return name, false, true
}

// ConfigFile returns the value of -c / -config from args, or "" when unset.
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"c", "config"}))

	return path
}
