package oscontext

// Factory constructs one context variant.
type Factory func(opts ...Option) Context

// FactoryFor resolves the context factory for a target OS identifier. The
// mapping is total: "android", "ios" and "windows" select their variants
// and every other value, the empty string included, selects Default. An
// unrecognized target is treated as a POSIX-like host rather than an
// error.
func FactoryFor(targetOS string) Factory {
	switch targetOS {
	case "android":
		return func(opts ...Option) Context { return NewAndroid(opts...) }
	case "ios":
		return func(opts ...Option) Context { return NewIOS(opts...) }
	case "windows":
		return func(opts ...Option) Context { return NewWindows(opts...) }
	default:
		return func(opts ...Option) Context { return NewDefault(opts...) }
	}
}

// Targets lists the identifiers with dedicated variants. Anything else
// maps to Default.
func Targets() []string {
	return []string{"android", "ios", "windows"}
}
