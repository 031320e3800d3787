package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionScripts(t *testing.T) {
	withHome(t, "")

	tests := []struct {
		shell string
		want  string
	}{
		{"bash", "# bash completion for i3-status-info"},
		{"zsh", "#compdef i3-status-info"},
		{"fish", "complete -c i3-status-info"},
		{"powershell", "Register-ArgumentCompleter"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			output, _, err := executeCommand(t, "completion", tt.shell)
			require.NoError(t, err)
			assert.Contains(t, output, tt.want)
		})
	}
}

func TestCompletionUsesDynamicCompletion(t *testing.T) {
	withHome(t, "")

	output, _, err := executeCommand(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, output, "__completeNoDesc", "should call back into the binary")
	assert.Equal(t, strings.Count(output, "{"), strings.Count(output, "}"), "braces should be balanced")
}

func TestCompletionRejectsUnknownShell(t *testing.T) {
	withHome(t, "")

	_, _, err := executeCommand(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestCompletionCommandValidArgs(t *testing.T) {
	assert.ElementsMatch(t, []string{"bash", "zsh", "fish", "powershell"}, completionCmd.ValidArgs)
}

func TestFlagCompletions(t *testing.T) {
	tests := []struct {
		command string
		flag    string
		want    []string
	}{
		{"mem", "unit", []string{"kb", "mb", "gb"}},
		{"disk-io", "unit", []string{"kb", "mb", "gb"}},
		{"cpu", "display", []string{"all", "average"}},
		{"perf-mode", "display", []string{"icons", "text"}},
		{"disk-usage", "display", []string{"used", "remaining", "used-percentage", "remaining-percentage"}},
	}

	for _, tt := range tests {
		t.Run(tt.command+" --"+tt.flag, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tt.command})
			require.NoError(t, err)

			fn, ok := cmd.GetFlagCompletionFunc(tt.flag)
			require.True(t, ok)
			got, directive := fn(cmd, nil, "")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
		})
	}
}

func TestProfileCompletion(t *testing.T) {
	withHome(t, `
printers:
  mk4:
    backend: prusa-link
    url: http://mk4.local
  mini:
    backend: prusa-link
    url: http://mini.local
  voron:
    backend: octoprint
    url: http://voron.local
`)
	resetFlags(rootCmd)

	got, _ := profileCompletion("prusa-link")(prusaLinkCmd, nil, "")
	assert.ElementsMatch(t, []string{"mk4", "mini"}, got)

	got, _ = profileCompletion("octoprint")(octoprintCmd, nil, "")
	assert.Equal(t, []string{"voron"}, got)
}
