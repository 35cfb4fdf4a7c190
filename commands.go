package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"docbuilder/editor"
	"docbuilder/notify"
	"docbuilder/remote"
	"docbuilder/templates"
)

type styles struct {
	heading  lipgloss.Style
	field    lipgloss.Style
	required lipgloss.Style
	dim      lipgloss.Style
	ok       lipgloss.Style
	warn     lipgloss.Style
	fail     lipgloss.Style
}

func newStyles() styles {
	return styles{
		heading:  lipgloss.NewStyle().Bold(true),
		field:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"}),
		required: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "9", Dark: "9"}),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "8", Dark: "7"}),
		ok:       lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "10", Dark: "10"}),
		warn:     lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "3", Dark: "11"}),
		fail:     lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "9", Dark: "9"}),
	}
}

func (s styles) severity(sev notify.Severity) lipgloss.Style {
	switch sev {
	case notify.Success:
		return s.ok
	case notify.Error:
		return s.fail
	case notify.Warning:
		return s.warn
	default:
		return s.dim
	}
}

// readSource reads the named file, or stdin for "-".
func readSource(cmd *cobra.Command, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan FILE",
		Short: "List the placeholders of a template file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			printFields(cmd.OutOrStdout(), editor.Scan(text), newStyles())
			return nil
		},
	}
}

func printFields(w io.Writer, fields editor.FieldSet, st styles) {
	if len(fields) == 0 {
		fmt.Fprintln(w, st.dim.Render("Aucun champ détecté"))
		return
	}
	fmt.Fprintln(w, st.heading.Render(fmt.Sprintf("%d champ(s) détecté(s)", len(fields))))
	for _, name := range fields {
		line := fmt.Sprintf("  %s  %s  %s",
			st.field.Render(editor.Placeholder(name)),
			editor.Label(name),
			st.dim.Render(string(editor.GuessType(name))))
		if editor.IsRequired(name) {
			line += " " + st.required.Render("*")
		}
		fmt.Fprintln(w, line)
	}
}

func newPreviewCmd() *cobra.Command {
	var sample bool
	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Render a template file as preview HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			if sample {
				t := &templates.Template{Content: text}
				for i, name := range editor.Scan(text) {
					t.Fields = append(t.Fields, templates.NewField(name, i))
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), templates.Preview(t, time.Now()))
				return err
			}
			p := editor.RenderPreview(text, editor.Scan(text))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), p.HTML)
			return err
		},
	}
	cmd.Flags().BoolVar(&sample, "sample", false, "fill placeholders with sample values instead of highlighting them")
	return cmd
}

type pushOptions struct {
	server      string
	title       string
	description string
	category    string
	public      bool
	confirm     bool
}

func newPushCmd() *cobra.Command {
	var opts pushOptions
	cmd := &cobra.Command{
		Use:   "push FILE",
		Short: "Create a template on a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			if opts.title == "" && args[0] != "-" {
				opts.title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			return push(cmd, opts, text)
		},
	}
	cmd.Flags().StringVar(&opts.server, "server", "http://localhost:8080", "editor server base URL")
	cmd.Flags().StringVar(&opts.title, "title", "", "template title (defaults to the file name)")
	cmd.Flags().StringVar(&opts.description, "description", "", "template description")
	cmd.Flags().StringVar(&opts.category, "category", "", "template category")
	cmd.Flags().BoolVar(&opts.public, "public", false, "share the template with every user")
	cmd.Flags().BoolVar(&opts.confirm, "confirm", false, "save even when the content has no placeholder")
	return cmd
}

func push(cmd *cobra.Command, opts pushOptions, content string) error {
	st := newStyles()
	out := cmd.OutOrStdout()
	client, err := remote.New(opts.server, remote.NotifierFunc(func(msg string, sev notify.Severity) {
		fmt.Fprintln(cmd.ErrOrStderr(), st.severity(sev).Render(msg))
	}))
	if err != nil {
		return err
	}

	req := map[string]any{
		"title":       opts.title,
		"description": opts.description,
		"content":     content,
		"category":    opts.category,
		"isPublic":    opts.public,
		"confirmed":   opts.confirm,
	}
	var created templates.Template
	err = client.Do(cmd.Context(), http.MethodPost, "/api/templates", req, &created)
	var status *remote.StatusError
	if errors.As(err, &status) && status.Code == http.StatusConflict {
		fmt.Fprintln(out, st.warn.Render(editor.NoFieldsPrompt))
		fmt.Fprintln(out, st.dim.Render("Relancez avec --confirm pour enregistrer quand même."))
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, st.ok.Render(fmt.Sprintf("Template \"%s\" créé avec succès !", created.Title)))
	fmt.Fprintln(out, st.dim.Render("id "+created.ID))
	names := make(editor.FieldSet, 0, len(created.Fields))
	for _, f := range created.Fields {
		names = append(names, f.Name)
	}
	printFields(out, names, st)
	return nil
}
