package cli

import (
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gomdmath/internal/ui/pretty"
)

// helpTemplate renders command help. The exit code table is shown only for
// the root command.
const helpTemplate = `{{with (or .Long .Short)}}{{ trimLines . }}

{{end}}{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}
{{- end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]
{{- end}}
{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}
{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}
{{- range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ name (pad .Name .NamePadding) }} {{ .Short }}
{{- end}}{{end}}
{{- end}}
{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}
{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}
{{- if not .HasParent}}

{{ heading "Exit Codes:" }}
  {{ name "0" }}  success
  {{ name "1" }}  math dropped under --strict, or placeholders do not match the store
  {{ name "2" }}  usage, configuration or I/O error
{{- end}}
{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

// helpStyles colours the parts of a help page.
type helpStyles struct {
	heading lipgloss.Style
	command lipgloss.Style
	name    lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

func newHelpStyles(colorEnabled bool) helpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return helpStyles{heading: plain, command: plain, name: plain, flag: plain, dim: plain}
	}

	// Shares the dim and warning palette of the report output.
	base := pretty.NewStyles(true)
	return helpStyles{
		heading: base.Warning,
		command: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		name:    base.DiffAdd,
		flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		dim:     base.Dim,
	}
}

// installHelp replaces cobra's help and usage output on cmd and every
// subcommand with the styled template.
func installHelp(cmd *cobra.Command, colorMode string, w io.Writer) {
	styles := newHelpStyles(pretty.IsColorEnabled(colorMode, w))

	tmpl := template.Must(template.New("help").Funcs(template.FuncMap{
		"heading":   styles.heading.Render,
		"command":   styles.command.Render,
		"name":      styles.name.Render,
		"dim":       styles.dim.Render,
		"flags":     func(fs *pflag.FlagSet) string { return styleFlags(fs, styles) },
		"pad":       pad,
		"trimLines": trimLines,
	}).Parse(helpTemplate))

	render := func(c *cobra.Command) error {
		return tmpl.Execute(c.OutOrStdout(), c)
	}

	cmd.SetUsageFunc(render)
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := render(c); err != nil {
			c.PrintErrln(err)
		}
	})
}

// styleFlags colours the flag names of pflag's usage listing and dims
// their value types, keeping the description column as pflag laid it out.
func styleFlags(fs *pflag.FlagSet, styles helpStyles) string {
	lines := strings.Split(strings.TrimSuffix(fs.FlagUsages(), "\n"), "\n")

	for i, line := range lines {
		body := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(body)]

		split := strings.Index(body, "  ")
		if split < 0 {
			continue
		}
		names, rest := body[:split], body[split:]

		var styled []string
		for _, token := range strings.Fields(names) {
			if name, ok := strings.CutSuffix(token, ","); ok && strings.HasPrefix(name, "-") {
				styled = append(styled, styles.flag.Render(name)+",")
			} else if strings.HasPrefix(token, "-") {
				styled = append(styled, styles.flag.Render(token))
			} else {
				styled = append(styled, styles.dim.Render(token))
			}
		}

		lines[i] = indent + strings.Join(styled, " ") + rest
	}

	return strings.Join(lines, "\n")
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// trimLines removes trailing whitespace from every line of s.
func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
