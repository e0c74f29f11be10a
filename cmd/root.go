package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/favi/internal/config"
	"github.com/kiesman99/favi/internal/generate"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "favi",
	Short: "Turn a logo into square favicon PNGs",
	Long: `favi pads a logo to a square transparent canvas and writes one
resized PNG per configured size (icon-<size>.png).

Source path, output directory and sizes come from the config file, which
is looked up as ./.favi.yaml, then $HOME/.favi.yaml, unless --config is given.

Example config:
  source: "CMX METALS - NEW LOGO.png"
  output_dir: output_icons
  sizes: [16, 32, 80, 128, 256]
  fill: "#00000000"
  filter: lanczos
  filename: "icon-{size}.png"

Examples:
  # Generate icons with ./.favi.yaml (or the built-in defaults)
  favi

  # Use another config file
  favi --config branding/favi.yaml

  # Start HTTP server
  favi serve --port 8080`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runGenerate,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.favi.yaml or $HOME/.favi.yaml)")

	config.SetDefaults(viper.GetViper())
}

// initConfig points viper at the config file to read.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".favi")
	}
}

// readConfig loads the config file. Only an explicitly requested file is required to exist.
func readConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", viper.ConfigFileUsed())
	}

	return config.Load(viper.GetViper())
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := readConfig(cmd)
	if err != nil {
		return err
	}

	_, err = generate.NewGenerator(cfg, cmd.OutOrStdout()).Run()
	return err
}
