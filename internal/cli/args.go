package cli

// legacyFlags maps single-dash long flags, which pflag would read as a
// cluster of shorthands, to their canonical form.
var legacyFlags = map[string]string{
	"-init": "--initialize",
}

// valueFlags take the next argument as their value, which is never
// rewritten.
var valueFlags = map[string]bool{
	"-i": true, "--input": true,
	"-u": true, "--update": true,
	"-d": true, "--delete": true,
	"--db": true,
}

// NormalizeArgs rewrites legacy flag spellings in args. Flag values and
// arguments after a bare "--" are left untouched.
func NormalizeArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out); i++ {
		arg := out[i]
		if arg == "--" {
			break
		}
		if valueFlags[arg] {
			i++
			continue
		}
		if canonical, ok := legacyFlags[arg]; ok {
			out[i] = canonical
		}
	}
	return out
}
