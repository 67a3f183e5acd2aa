package cmd

import (
	"github.com/spf13/cobra"

	"github.com/strrl/agentsim/internal/chat"
	"github.com/strrl/agentsim/internal/simulator"
)

var chatNoDelay bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the simulated agent in the terminal",
	Long: `Open an interactive chat. Each message is answered by the simulator after its
category delay; type /help for commands or /examples for sample prompts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if chatNoDelay {
			cfg.DisableDelays()
		}

		simCfg := cfg.SimulatorConfig()
		simCfg.Logger = logger

		return chat.Run(simulator.New(simCfg), chat.Options{
			WordWrap: cfg.Chat.WordWrap,
			Style:    cfg.Chat.Style,
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().BoolVar(&chatNoDelay, "no-delay", false, "Skip the simulated processing delay")
}
