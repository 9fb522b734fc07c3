/*
Copyright © 2021 Edmond Cotterell

*/
package cmd

import (
	"github.com/Daskott/contacts/server"
	"github.com/spf13/cobra"
)

func createServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the contacts API server",
		Long: `The contacts server exposes CRUD routes for contacts under /contacts,
an OpenAPI document at /docs.json and an interactive viewer at /api-docs/.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := serverConfig()
			if err != nil {
				return err
			}

			server.Start(config, isDevEnv)
			return nil
		},
	}
}
