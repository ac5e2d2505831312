package version

var (
	// These values are injected during build - DO NOT MODIFY
	Version   = "VERSION_PLACEHOLDER"
	CommitSHA = "COMMIT_PLACEHOLDER"
)

func GetVersionInfo() string {
	return "flashgen " + Version
}

func GetDetailedVersionInfo() string {
	return "flashgen\n" +
		"Version:  " + Version + "\n" +
		"Commit:   " + CommitSHA + "\n"
}

// UserAgent is sent with every API request.
func UserAgent() string {
	return "flashgen/" + Version
}
