package cmd

import (
	"context"

	"github.com/Daskott/contacts/colors"
	"github.com/Daskott/contacts/server"
	"github.com/Daskott/contacts/store"
	"github.com/spf13/cobra"
)

var resetArg bool

func createSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample contacts into the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd)
		},
	}

	cmd.Flags().BoolVar(&resetArg, "reset", false, "delete every existing contact before seeding")

	return cmd
}

func runSeed(cmd *cobra.Command) error {
	config, err := serverConfig()
	if err != nil {
		return err
	}

	conn, seeder := server.NewStore(config)

	ctx, cancel := context.WithTimeout(context.Background(), config.Store.OperationTimeout*4)
	defer cancel()

	if err := conn.Connect(ctx); err != nil {
		return formattedError("unable to connect to %s store: %v", config.Store.Driver, err)
	}
	defer conn.Close(context.Background())

	if resetArg {
		cmd.Printf("%s removing every existing contact\n", warningLabel)
	}

	result, err := store.Seed(ctx, seeder, resetArg)
	if err != nil {
		return formattedError("seeding failed: %v", err)
	}

	if resetArg {
		cmd.Printf("Removed %d contacts\n", result.Removed)
	}

	for i, id := range result.Inserted {
		input := store.SampleContacts[i]
		cmd.Printf("  %s %s %s\n", colors.Blue(id), input.FirstName, input.LastName)
	}
	cmd.Println(colors.Green("Inserted"), len(result.Inserted), "sample contacts")

	return nil
}
