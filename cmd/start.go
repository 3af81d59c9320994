package cmd

import (
	"github.com/rs/zerolog/log"

	"gitlab.com/lingzhi-platform/contribution_api/cmd/commands"
	"gitlab.com/lingzhi-platform/contribution_api/config"
	"gitlab.com/lingzhi-platform/contribution_api/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the contribution platform api",
	Long:  `Run the database migrations, start the auto operation crons and serve the contribution api`,
	Run: func(cmd *cobra.Command, args []string) {
		log.Debug().Msg("Loading server configuration")
		if viper.ConfigFileUsed() != "" {
			log.Debug().Str("section", "init").Str("path", viper.ConfigFileUsed()).Msg("Configuration file loaded")
		}
		cfg := config.LoadConfig(viper.GetViper())

		log.Debug().Msg("Running migrations")
		commands.Migrate(cfg)

		log.Debug().Str("section", "init").Msg("Starting new server instance")
		srv := server.NewServer(cfg)
		log.Info().Str("section", "init").Msg("Listening for incoming events")
		srv.Listen()
	},
}
