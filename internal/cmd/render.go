package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strrl/agentsim/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render [text...]",
	Short: "Render markdown-flavored text to HTML",
	Long: `Render text to sanitized HTML: fenced and inline code, bold, italic, bare
links and line breaks. Reads standard input when no text is given.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = strings.TrimSuffix(string(data), "\n")
	}

	logger.Debug("rendering text")

	fmt.Fprintln(cmd.OutOrStdout(), render.Render(text))
	return nil
}
