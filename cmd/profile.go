package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cryptopulse/internal/services/profile"
	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/logger"
)

var (
	profileAnswers     map[string]string
	profileAnswersFile string
	profileScoreMap    string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Score investor questionnaire answers and print the classified profile",
	Example: `  cryptopulse profile --answer risk_perception="Uncertainty but also potential gain" \
    --answer knowledge_level="I'm at an intermediate level"
  cryptopulse profile --answers answers.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		answers := make(map[string]string, len(profileAnswers))
		if profileAnswersFile != "" {
			data, err := os.ReadFile(profileAnswersFile)
			if err != nil {
				return errors.Wrap(err, "read answers file")
			}
			if err := yaml.Unmarshal(data, &answers); err != nil {
				return errors.Wrap(err, "parse answers file")
			}
		}
		for category, answer := range profileAnswers {
			answers[category] = answer
		}
		if len(answers) == 0 {
			return errors.Wrap(errors.ErrInvalidInput, "no answers given")
		}

		scoring, err := loadScoringMap(profileScoreMap)
		if err != nil {
			return err
		}

		p, err := profile.NewService(scoring, logger.NewNop()).Evaluate(answers)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	},
}

func init() {
	profileCmd.Flags().StringToStringVar(&profileAnswers, "answer", nil, "category=answer, repeatable")
	profileCmd.Flags().StringVar(&profileAnswersFile, "answers", "", "YAML file mapping category to answer")
	profileCmd.Flags().StringVar(&profileScoreMap, "score-map", "", "YAML scoring map replacing the built-in one")
}

func loadScoringMap(path string) (profile.ScoringMap, error) {
	if path == "" {
		return profile.DefaultScoringMap()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read score map")
	}
	return profile.LoadScoringMap(data)
}
