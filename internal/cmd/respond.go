package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/strrl/agentsim/internal/render"
	"github.com/strrl/agentsim/internal/simulator"
)

var (
	respondFormat  string
	respondNoDelay bool
)

var respondCmd = &cobra.Command{
	Use:   "respond [message...]",
	Short: "Print one simulated agent response",
	Long: `Classify a message by keyword and print the matching canned response after
the simulated delay for its category. The response can be printed as raw
markdown, as sanitized HTML, or styled for the terminal.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRespond,
}

func init() {
	rootCmd.AddCommand(respondCmd)

	respondCmd.Flags().StringVarP(&respondFormat, "format", "f", "text", "Output format: text, html or terminal")
	respondCmd.Flags().BoolVar(&respondNoDelay, "no-delay", false, "Skip the simulated processing delay")
}

func runRespond(cmd *cobra.Command, args []string) error {
	switch respondFormat {
	case "text", "html", "terminal":
	default:
		return fmt.Errorf("unknown format %q: expected text, html or terminal", respondFormat)
	}

	if respondNoDelay {
		cfg.DisableDelays()
	}

	simCfg := cfg.SimulatorConfig()
	simCfg.Logger = logger
	sim := simulator.New(simCfg)

	resp, err := sim.Respond(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("failed to respond: %w", err)
	}

	out := cmd.OutOrStdout()
	switch respondFormat {
	case "html":
		fmt.Fprintln(out, render.Render(resp.Text))
	case "terminal":
		styled, err := renderTerminal(resp.Text)
		if err != nil {
			return err
		}
		fmt.Fprint(out, styled)
	default:
		fmt.Fprintln(out, resp.Text)
	}

	return nil
}

func renderTerminal(text string) (string, error) {
	style := glamour.WithAutoStyle()
	if cfg.Chat.Style != "" && cfg.Chat.Style != "auto" {
		style = glamour.WithStandardStyle(cfg.Chat.Style)
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(cfg.Chat.WordWrap))
	if err != nil {
		return "", fmt.Errorf("failed to create terminal renderer: %w", err)
	}

	styled, err := r.Render(text)
	if err != nil {
		return "", fmt.Errorf("failed to render response: %w", err)
	}
	return styled, nil
}
