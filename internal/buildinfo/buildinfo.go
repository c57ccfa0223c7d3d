package buildinfo

// Set at build time via -ldflags "-X routeplan/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = ""
	BuiltAt = ""
)

func Info() map[string]string {
	return map[string]string{
		"name":    "routeplan",
		"version": Version,
		"commit":  Commit,
		"builtAt": BuiltAt,
	}
}
