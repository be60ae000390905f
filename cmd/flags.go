package cmd

import (
	"strings"

	"github.com/spf13/pflag"
)

// splitArgs splits args into the arguments known to flags and the
// extras to forward to the backend. Extras keep their original order.
// Unknown flags, bare positionals and everything after "--" are extras.
// A known flag taking a value consumes the next argument unless its
// value is given with "=".
func splitArgs(flags *pflag.FlagSet, args []string) (known, extras []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			extras = append(extras, args[i+1:]...)
			break
		}

		flag := lookup(flags, arg)
		if flag == nil {
			extras = append(extras, arg)
			continue
		}

		known = append(known, arg)
		if strings.Contains(arg, "=") || flag.NoOptDefVal != "" {
			continue
		}
		if i+1 < len(args) {
			i++
			known = append(known, args[i])
		}
	}
	return known, extras
}

// lookup returns the flag named by arg, or nil if arg does not name a
// flag of flags. Flag names are never abbreviated.
func lookup(flags *pflag.FlagSet, arg string) *pflag.Flag {
	switch {
	case strings.HasPrefix(arg, "--") && len(arg) > 2:
		name := strings.SplitN(arg[2:], "=", 2)[0]
		return flags.Lookup(name)

	case strings.HasPrefix(arg, "-") && len(arg) == 2:
		return flags.ShorthandLookup(arg[1:])
	}
	return nil
}
