// Command artist-recommender suggests artists for a mood from the command
// line, using the same recommendation backend as the web application.
//
// Usage:
//
//	artist-recommender happy --language spanish --count 5 --json
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/justestif/go-mood-playlist/internal/recommend"
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "artist-recommender <mood>",
	Short: "Recommend artists matching a mood",
	Long: `Recommend artists matching a mood using the Groq chat API.

The mood is a free-form word such as "happy" or "melancholic". Requires the
GROQ_API_KEY environment variable.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, args[0])
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringP("language", "l", "", "preferred language for the artists")
	rootCmd.Flags().IntP("count", "n", recommend.DefaultCount, "number of artists to request")
	rootCmd.Flags().Bool("json", false, "print the result as a JSON array")
	rootCmd.Flags().String("log-level", "warn", "log level (debug, info, warn, error)")

	// GROQ_LANGUAGE, GROQ_COUNT, GROQ_JSON and GROQ_LOG_LEVEL satisfy the
	// flags when they are not passed explicitly.
	viper.SetEnvPrefix("GROQ")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(rootCmd.Flags())
}

func run(cmd *cobra.Command, mood string) error {
	if level, err := logrus.ParseLevel(viper.GetString("log-level")); err == nil {
		log.SetLevel(level)
	}
	log.SetOutput(cmd.ErrOrStderr())

	cfg, err := recommend.LoadConfig()
	if err != nil {
		if errors.Is(err, recommend.ErrMissingAPIKey) {
			fmt.Fprintln(cmd.OutOrStdout(), "[]")
		}
		return err
	}

	service := recommend.NewService(cfg, recommend.NewClient(cfg), log)
	artists := service.Recommend(cmd.Context(), mood, viper.GetString("language"), viper.GetInt("count"))

	if viper.GetBool("json") {
		enc := json.NewEncoder(cmd.OutOrStdout())
		if artists == nil {
			artists = []string{}
		}
		return enc.Encode(artists)
	}

	for _, artist := range artists {
		fmt.Fprintln(cmd.OutOrStdout(), artist)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
