// Package version carries build metadata injected with
// -ldflags "-X github.com/example/kernel-cmdline/internal/version.Version=...".
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown" // RFC3339 UTC preferred
)

type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String renders the one-line form printed by `kernel-cmdline version`.
func (i Info) String() string {
	return fmt.Sprintf("kernel-cmdline %s (commit %s, built %s, %s %s)", i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform)
}
