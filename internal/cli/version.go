package cli

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// buildInfo is stamped by main from ldflags.
type buildInfo struct {
	Version string
	Commit  string
	Date    string
}

var build = buildInfo{Version: "dev", Commit: "none", Date: "unknown"}

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the version, commit and build date.

Binaries installed with "go install" carry no ldflags; their module version and
VCS stamp are used instead.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		info := resolveBuild(build, debug.ReadBuildInfo)
		if versionShort {
			cmd.Println(info.Version)
			return
		}
		writeVersion(cmd.OutOrStdout(), rootCmd.Name(), info)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version number")
}

// SetVersionInfo records the ldflags values of main.
func SetVersionInfo(v, c, d string) {
	build = buildInfo{Version: v, Commit: c, Date: d}
	rootCmd.Version = formatVersion(v)
}

// resolveBuild fills the fields main left at their defaults from the module
// build info.
func resolveBuild(b buildInfo, read func() (*debug.BuildInfo, bool)) buildInfo {
	bi, ok := read()
	if !ok {
		return b
	}
	if b.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		b.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && b.Commit == "none":
			b.Commit = s.Value
			if len(b.Commit) > 12 {
				b.Commit = b.Commit[:12]
			}
		case s.Key == "vcs.time" && b.Date == "unknown":
			b.Date = s.Value
		}
	}
	return b
}

func writeVersion(w io.Writer, name string, b buildInfo) {
	rows := [][2]string{
		{"commit", b.Commit},
		{"built", b.Date},
		{"go", runtime.Version()},
		{"platform", runtime.GOOS + "/" + runtime.GOARCH},
	}
	fmt.Fprintf(w, "%s %s\n", name, formatVersion(b.Version))
	for _, row := range rows {
		fmt.Fprintf(w, "  %-9s%s\n", row[0], row[1])
	}
}

// formatVersion adds the "v" prefix of tagged releases.
func formatVersion(v string) string {
	if v == "" || v == "dev" || strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
