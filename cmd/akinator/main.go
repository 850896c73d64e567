// akinator - play the Akinator guessing game from a terminal.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robalobadob/akinator-go/internal/akinator"
)

var (
	langFlag      string
	themeFlag     string
	childFlag     bool
	thresholdFlag float64
	verboseFlag   bool
	baseURLFlag   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "akinator",
	Short: "Play Akinator in the terminal",
	Long: `akinator - think of a character, object or animal and let Akinator guess it.

Answers: yes (y), no (n), idk (i), probably (p), probably not (pn),
or their numbers 0-4. Type "back" to undo an answer, "quit" to stop.`,
	SilenceUsage: true,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a new game",
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := akinator.ParseLanguage(langFlag)
		if err != nil {
			return err
		}
		opts := []akinator.Option{
			akinator.WithLanguage(lang),
			akinator.WithTheme(akinator.ParseTheme(themeFlag)),
			akinator.WithChildMode(childFlag),
		}
		if baseURLFlag != "" {
			opts = append(opts, akinator.WithBaseURL(baseURLFlag))
		}
		if verboseFlag {
			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.DebugLevel)
			opts = append(opts, akinator.WithLogger(logger))
		}

		p := newPlayer(akinator.NewSession(opts...), cmd.InOrStdin(), cmd.OutOrStdout(), thresholdFlag)
		return p.run(cmd.Context())
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages",
	RunE: func(cmd *cobra.Command, args []string) error {
		bold := color.New(color.Bold)
		for _, l := range akinator.Languages() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", bold.Sprintf("%-3s", l.Code), l.Name)
		}
		return nil
	},
}

func init() {
	playCmd.Flags().StringVarP(&langFlag, "lang", "l", "en", "Language: subdomain, English name or BCP 47 tag")
	playCmd.Flags().StringVarP(&themeFlag, "theme", "t", "characters", "Theme: characters, objects or animals")
	playCmd.Flags().BoolVar(&childFlag, "child", false, "Child mode")
	playCmd.Flags().Float64Var(&thresholdFlag, "threshold", 80, "Progression at which Akinator makes a guess")
	playCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log upstream requests to stderr")
	playCmd.Flags().StringVar(&baseURLFlag, "base-url", "", "Override the Akinator site URL")
	_ = playCmd.Flags().MarkHidden("base-url")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(languagesCmd)
}
