package cmd

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/tujuhre12/vscroll/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a project config",
	Long: heredoc.Doc(`
		Write the effective list and scroll settings, including any flags
		given, to .vscroll.json in the working directory.
	`),
	Example: heredoc.Doc(`
		# Start from the defaults
		vscroll init

		# Pin a strategy for this project, replacing an existing file
		vscroll init --strategy flash --force
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")

		path, err := config.InitProject(cfg.WorkingDir(), cfg, force)
		if errors.Is(err, config.ErrProjectConfigExists) {
			return fmt.Errorf("%w: use --force to replace %s", err, config.ProjectConfigPath(cfg.WorkingDir()))
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	addListFlags(initCmd)
	initCmd.Flags().Bool("force", false, "Replace an existing project config")
}
