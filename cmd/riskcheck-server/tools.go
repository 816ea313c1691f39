package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/riskcheck/riskcheck/internal/config"
	"github.com/riskcheck/riskcheck/internal/domain/assessment"
	"github.com/riskcheck/riskcheck/internal/domain/catalog"
	"github.com/riskcheck/riskcheck/internal/domain/profile"
	"github.com/riskcheck/riskcheck/internal/platform/auth"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed access token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			roles, _ := cmd.Flags().GetStringSlice("roles")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.AuthSigningKey == "" {
				return fmt.Errorf("AUTH_SIGNING_KEY is not set")
			}
			token, err := auth.IssueToken(auth.JWTConfig{
				Issuer:     cfg.AuthIssuer,
				Audience:   cfg.AuthAudience,
				SigningKey: []byte(cfg.AuthSigningKey),
			}, user, roles, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().String("user", "", "Subject (user id) of the token")
	cmd.Flags().StringSlice("roles", []string{auth.RolePatient}, "Roles granted by the token")
	cmd.Flags().Duration("ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// parseAnswers turns "G1=Yes" pairs into answer inputs.
func parseAnswers(pairs []string) ([]assessment.AnswerInput, error) {
	answers := make([]assessment.AnswerInput, 0, len(pairs))
	for _, p := range pairs {
		id, answer, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("invalid answer %q, want QUESTION=ANSWER", p)
		}
		answers = append(answers, assessment.AnswerInput{QuestionID: strings.TrimSpace(id), Answer: strings.TrimSpace(answer)})
	}
	return answers, nil
}

// scoreOffline scores a submission against a question bank without any
// external store. The bank goes through the same validation as
// `catalog import`.
func scoreOffline(ctx context.Context, bank *catalog.Bank, p *profile.Profile, illnessType string, answers []assessment.AnswerInput) (*assessment.Assessment, error) {
	var profiles []*profile.Profile
	if p != nil {
		profiles = append(profiles, p)
	}
	svcs := newServices(
		catalog.NewMemoryRepository(),
		profile.NewMemoryRepository(profiles...),
		assessment.NewMemoryRepository(),
	)
	if _, err := svcs.catalog.Import(ctx, bank); err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	return svcs.assessment.Submit(ctx, assessment.SubmitRequest{
		UserID:      "offline",
		IllnessType: illnessType,
		Answers:     answers,
	})
}

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score answers offline against a question bank and print the assessment",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			illnessType, _ := cmd.Flags().GetString("type")
			pairs, _ := cmd.Flags().GetStringSlice("answer")
			dobFlag, _ := cmd.Flags().GetString("dob")

			bank, err := loadBank(path)
			if err != nil {
				return fmt.Errorf("read question bank: %w", err)
			}
			answers, err := parseAnswers(pairs)
			if err != nil {
				return err
			}

			var p *profile.Profile
			if cmd.Flags().Changed("diabetes") || dobFlag != "" {
				p = &profile.Profile{UserID: "offline"}
				if cmd.Flags().Changed("diabetes") {
					diabetes, _ := cmd.Flags().GetBool("diabetes")
					p.HasDiabetes = &diabetes
				}
				if dobFlag != "" {
					dob, err := time.Parse("2006-01-02", dobFlag)
					if err != nil {
						return fmt.Errorf("--dob must be YYYY-MM-DD: %w", err)
					}
					p.DateOfBirth = &dob
				}
			}

			a, err := scoreOffline(cmd.Context(), bank, p, illnessType, answers)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(a)
		},
	}
	cmd.Flags().String("file", "", "YAML question bank (defaults to the built-in bank)")
	cmd.Flags().String("type", "", "Illness type to score")
	cmd.Flags().StringSlice("answer", nil, "Answer as QUESTION=ANSWER, repeatable")
	cmd.Flags().Bool("diabetes", false, "Profile has diabetes")
	cmd.Flags().String("dob", "", "Profile date of birth, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
