package build

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

const appName = "consents"

// FullVersion returns the version string with commit hash appended.
// Format: "Version+Commit" (e.g., "1.0.0+abc123")
func FullVersion() string {
	return Version + "+" + Commit
}

// UserAgent identifies the client on outgoing requests.
func UserAgent() string {
	return appName + "/" + FullVersion()
}

// Summary is the multi-line form printed by the version command.
func Summary() string {
	return appName + " " + FullVersion() + "\nbuilt: " + BuildTime
}
