package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lazypower/skilltrack/internal/client"
	"github.com/spf13/cobra"
)

const requestTimeout = 60 * time.Second

// difficultyBonus is added to 100 to form the starting proficiency. The
// server clamps the result to 100.
var difficultyBonus = map[string]float64{
	"easy":      20,
	"moderate":  40,
	"difficult": 60,
}

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List, inspect and add skills",
}

// --- skills list ---

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all skills",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		skills, err := client.New(serverURL).ListSkills(ctx)
		if err != nil {
			return fmt.Errorf("list skills: %w", err)
		}
		if len(skills) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No skills yet. Add one with 'skilltrack skills add'.")
			return nil
		}
		printSkills(cmd.OutOrStdout(), skills)
		return nil
	},
}

func printSkills(w io.Writer, skills []client.Skill) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPROFICIENCY\tDECAY\tREPO\tLAST COMMIT")
	for _, s := range skills {
		last := "-"
		if s.LastCommit != nil {
			last = firstLine(*s.LastCommit, 40)
		}
		repo := s.GitHubRepo
		if repo == "" {
			repo = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s/tick\t%s\t%s\n",
			s.ID, s.Name, bar(s.Proficiency), strconv.FormatFloat(s.DecayRate*100, 'f', -1, 64), repo, last)
	}
	tw.Flush()
}

// bar renders proficiency as a ten-cell gauge plus the rounded percentage.
func bar(p float64) string {
	filled := int(p/10 + 0.5)
	filled = max(0, min(10, filled))
	return fmt.Sprintf("[%s%s] %3.0f%%", strings.Repeat("#", filled), strings.Repeat(".", 10-filled), p)
}

func firstLine(s string, n int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	r := []rune(s)
	if len(r) > n {
		return string(r[:n]) + "..."
	}
	return s
}

// --- skills get ---

var skillsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		s, err := client.New(serverURL).GetSkill(ctx, id)
		if err != nil {
			return fmt.Errorf("get skill %d: %w", id, err)
		}
		printSkills(cmd.OutOrStdout(), []client.Skill{*s})
		return nil
	},
}

// --- skills add ---

var (
	addRepo        string
	addToken       string
	addDecaySpeed  float64
	addDifficulty  string
	addProficiency float64
)

var skillsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a skill",
	Long: `Add a skill to track.

Decay speed runs from 1 (slow) to 10 (fast); each tick removes that many
proficiency points. Difficulty sets the starting proficiency above 100, which
the server caps at 100. --proficiency overrides difficulty.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSkillsAdd,
}

func runSkillsAdd(cmd *cobra.Command, args []string) error {
	draft, err := buildNewSkill(strings.Join(args, " "), addDecaySpeed, addDifficulty, addRepo, addToken)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("proficiency") {
		p := addProficiency
		draft.InitialProficiency = &p
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	id, err := client.New(serverURL).AddSkill(ctx, draft)
	if err != nil {
		return fmt.Errorf("add skill: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added skill %d: %s\n", id, draft.Name)
	return nil
}

// buildNewSkill converts CLI inputs to an add-skill request: decay speed n
// becomes a decay rate of n/100.
func buildNewSkill(name string, decaySpeed float64, difficulty, repo, token string) (client.NewSkill, error) {
	if decaySpeed < 1 || decaySpeed > 10 {
		return client.NewSkill{}, fmt.Errorf("decay speed must be between 1 and 10, got %v", decaySpeed)
	}
	bonus, ok := difficultyBonus[strings.ToLower(difficulty)]
	if !ok {
		return client.NewSkill{}, fmt.Errorf("unknown difficulty %q (want easy, moderate or difficult)", difficulty)
	}
	initial := 100 + bonus
	return client.NewSkill{
		Name:               name,
		DecayRate:          decaySpeed / 100,
		GitHubRepo:         repo,
		GitHubToken:        token,
		InitialProficiency: &initial,
	}, nil
}

// --- sync ---

var syncCmd = &cobra.Command{
	Use:   "sync <id> [owner/repo]",
	Short: "Boost a skill from recent GitHub commits",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		repo := ""
		if len(args) > 1 {
			repo = args[1]
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		msg, err := client.New(serverURL).Sync(ctx, id, repo)
		if err != nil {
			return fmt.Errorf("sync skill %d: %w", id, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid skill id %q", s)
	}
	return id, nil
}

func init() {
	skillsCmd.AddCommand(skillsListCmd)
	skillsCmd.AddCommand(skillsGetCmd)
	skillsCmd.AddCommand(skillsAddCmd)

	skillsAddCmd.Flags().StringVarP(&addRepo, "repo", "r", "", "GitHub repository (owner/name)")
	skillsAddCmd.Flags().StringVar(&addToken, "token", "", "GitHub token used when syncing this skill")
	skillsAddCmd.Flags().Float64VarP(&addDecaySpeed, "decay-speed", "d", 1, "Decay speed from 1 (slow) to 10 (fast)")
	skillsAddCmd.Flags().StringVar(&addDifficulty, "difficulty", "easy", "Task difficulty: easy, moderate or difficult")
	skillsAddCmd.Flags().Float64Var(&addProficiency, "proficiency", 100, "Starting proficiency (overrides --difficulty)")
}
