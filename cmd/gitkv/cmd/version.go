// Copyright © 2018 One Concern

package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
)

// Build information, set with -ldflags
var (
	Version   string
	BuildDate string
	GitCommit string
	GitState  string
)

// VersionInfo describes the build of this binary
type VersionInfo struct {
	Version   string `json:"version,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	GitCommit string `json:"gitCommit,omitempty"`
	GitState  string `json:"gitState,omitempty"`
}

// NewVersionInfo from the build variables
func NewVersionInfo() VersionInfo {
	ver := VersionInfo{
		Version:   "dev",
		BuildDate: BuildDate,
		GitCommit: GitCommit,
	}
	if Version != "" {
		ver.Version = Version
		ver.GitState = "clean"
	}
	if GitState != "" {
		ver.GitState = GitState
	}
	return ver
}

func (v VersionInfo) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Version: %s\n", v.Version)
	fmt.Fprintf(&buf, "Build date: %s\n", v.BuildDate)
	fmt.Fprintf(&buf, "Commit: %s\n", v.GitCommit)
	fmt.Fprintf(&buf, "Working tree: %s\n", v.GitState)
	return buf.String()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "prints the version of gitkv",
	Long: `Prints the version of gitkv. It includes the following components:
	* Semver (output of git describe --tags)
	* Build Date (date at which the binary was built)
	* Git Commit (the git commit hash this binary was built from)
	* Git State (when dirty there were uncommitted changes during the build)
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), NewVersionInfo().String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
