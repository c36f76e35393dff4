package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/octosourcer/octosourcer/internal/ai"
	"github.com/octosourcer/octosourcer/internal/ai/gemini"
	"github.com/octosourcer/octosourcer/internal/ensemble"
	"github.com/octosourcer/octosourcer/internal/github"
	"github.com/octosourcer/octosourcer/internal/job"
	"github.com/octosourcer/octosourcer/internal/logger"
	"github.com/octosourcer/octosourcer/internal/match"
	"github.com/octosourcer/octosourcer/internal/outreach"
	"github.com/octosourcer/octosourcer/internal/ranking"
	"github.com/octosourcer/octosourcer/internal/secrets"
	"github.com/octosourcer/octosourcer/internal/skills"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	actionReview = "Review top candidates"
	actionReport = "Report candidates by location"
	actionDump   = "Dump candidates to a file"

	actionOutreach  = "Generate outreach message"
	actionBreakdown = "Show score breakdown"
	actionSkip      = "Skip"
	actionQuit      = "Quit"

	defaultMaxCandidates = 30
	defaultUserAgent     = app
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Search GitHub for candidates, rank them against a job requirement",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func init() {
	rankCmd.Flags().String("job", "", "path to the job requirement file (overrides job-file from config)")
	rankCmd.Flags().String("engine", "composite", "scoring engine: composite or ensemble")
	rankCmd.Flags().Bool("auto-approve", false, "skip interactive prompts and act on all top candidates")

	rootCmd.AddCommand(rankCmd)
}

func run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("parsing config", zap.Error(err))
	}
	applyDefaults(config)

	jobFile, _ := cmd.Flags().GetString("job")
	if jobFile == "" {
		jobFile = config.JobFile
	}
	requirement, err := job.Load(jobFile)
	if err != nil {
		l.Fatal("loading job requirement", zap.Error(err))
	}
	l.Info("job requirement loaded",
		zap.String("title", requirement.Title),
		zap.Strings("required_skills", requirement.RequiredSkills),
	)

	token, err := secrets.Load(secrets.Source{Name: "github token", File: config.TokenFile})
	if err != nil {
		l.Fatal("loading github token", zap.Error(err))
	}

	geo, err := match.LoadGeoData(config.Locations.GeoFile)
	if err != nil {
		l.Fatal("loading geo data", zap.Error(err))
	}
	parser := match.NewLocationParser(geo)

	aliases, err := skills.LoadAliases(config.Skills.AliasFile)
	if err != nil {
		l.Fatal("loading skill aliases", zap.Error(err))
	}
	detector := skills.NewDetector(aliases, config.Skills.MaxRepos, config.Skills.MinConfidence)

	client := github.New(ctx, token, l)
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	candidates, err := fetchCandidates(client, config, requirement, l)
	if err != nil {
		l.Fatal("fetching candidates", zap.Error(err))
	}
	if candidates.Len() == 0 {
		l.Info("no candidates found, nothing to rank")
		return nil
	}
	l.Info("candidates fetched", zap.Int("count", candidates.Len()))

	engine, _ := cmd.Flags().GetString("engine")
	switch engine {
	case "ensemble":
		return runEnsemble(config, requirement, candidates, parser, detector, l)
	case "composite":
		return runComposite(ctx, cmd, config, requirement, candidates, detector, l)
	default:
		return fmt.Errorf("unknown scoring engine %q, want composite or ensemble", engine)
	}
}

func applyDefaults(config *Config) {
	if config.MaxCandidates <= 0 {
		config.MaxCandidates = defaultMaxCandidates
	}
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}
	if config.Locations == nil {
		config.Locations = &LocationsConfig{}
	}
	if config.Skills == nil {
		config.Skills = &SkillsConfig{}
	}
	if config.Skills.MaxRepos <= 0 {
		config.Skills.MaxRepos = skills.DefaultMaxRepos
	}
	if config.Skills.MinConfidence <= 0 {
		config.Skills.MinConfidence = skills.DefaultMinConfidence
	}
	if config.Ranking == nil {
		config.Ranking = &RankingConfig{}
	}
	if config.Outreach == nil {
		config.Outreach = &OutreachConfig{}
	}
	if config.Outreach.TopN <= 0 {
		config.Outreach.TopN = 5
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
}

func fetchCandidates(client *github.Client, config *Config, requirement *job.Requirement, l *zap.Logger) (*github.Candidates, error) {
	params := config.Search
	if params == nil {
		// Derive a search from the job requirement when none is configured.
		params = &github.SearchParams{Keywords: requirement.RequiredSkills}
		if len(requirement.LocationPreferences) > 0 {
			params.Location = requirement.LocationPreferences[0]
		}
	}

	l.Info("searching github users", zap.String("query", params.BuildQuery()))

	logins, err := client.SearchUsers(params)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}

	return client.FetchCandidates(logins, config.MaxCandidates)
}

func rankingWeights(config *RankingConfig, l *zap.Logger) ranking.ScoreWeights {
	if config.SkillsWeight == 0 && config.ExperienceWeight == 0 && config.ActivityWeight == 0 && config.DomainWeight == 0 {
		return ranking.DefaultScoreWeights()
	}

	weights, err := ranking.NewScoreWeights(config.SkillsWeight, config.ExperienceWeight, config.ActivityWeight, config.DomainWeight)
	if err != nil {
		l.Fatal("invalid ranking weights", zap.Error(err))
	}

	return weights
}

func geminiAssistants(ctx context.Context, config *AIConfig, l *zap.Logger) (ai.SemanticMatcher, ai.DomainAssessor, ai.OutreachWriter) {
	if !config.Enabled {
		return nil, nil, nil
	}
	if config.Provider != "" && config.Provider != "gemini" {
		l.Fatal("unsupported ai provider", zap.String("provider", config.Provider))
	}

	apiKey, err := secrets.Load(secrets.Source{Name: "gemini api key", File: config.Gemini.APIKeyFile})
	if err != nil {
		l.Fatal("loading gemini api key", zap.Error(err))
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.Gemini.Model, config.Gemini.MaxRetries, l)
	if err != nil {
		l.Fatal("creating gemini client", zap.Error(err))
	}

	al := logger.WithCommonFields(l, "gemini", generator.Model())

	return gemini.NewSemanticMatcher(generator, al, config.Gemini.MaxLogLength),
		gemini.NewDomainAssessor(generator, al, config.Gemini.MaxLogLength),
		gemini.NewOutreachWriter(generator, al, config.Gemini.MaxLogLength)
}

func runEnsemble(config *Config, requirement *job.Requirement, candidates *github.Candidates, parser *match.LocationParser, detector *skills.Detector, l *zap.Logger) error {
	scorer := ensemble.NewScorer(parser, detector, ensemble.DefaultWeights(), l)

	var searchLocation *match.LocationHierarchy
	if len(requirement.LocationPreferences) > 0 {
		loc, err := parser.ParseLocation(requirement.LocationPreferences[0])
		if err != nil {
			l.Fatal("parsing search location", zap.Error(err))
		}
		searchLocation = loc
	}

	scores := scorer.RankCandidates(candidates.Items, requirement.RequiredSkills, searchLocation, config.Ranking.MinScore)

	fmt.Printf("Ensemble scores for %q (%d candidates above %.2f):\n", requirement.Title, len(scores), config.Ranking.MinScore)
	for i, score := range scores {
		detected := make([]string, 0, len(score.DetectedSkills))
		for _, skill := range score.DetectedSkills {
			detected = append(detected, skill.Skill)
		}
		fmt.Printf("%3d. %-24s %.3f (skills %.3f, location %.3f, activity %.3f) %s\n",
			i+1, score.Username, score.TotalScore,
			score.SkillMatchScore, score.LocationMatchScore, score.ActivityScore,
			strings.Join(detected, ", "),
		)
	}

	return nil
}

func runComposite(ctx context.Context, cmd *cobra.Command, config *Config, requirement *job.Requirement, candidates *github.Candidates, detector *skills.Detector, l *zap.Logger) error {
	semantic, assessor, writer := geminiAssistants(ctx, config.AI, l)

	ranker := ranking.NewRanker(
		rankingWeights(config.Ranking, l),
		ranking.NewSkillMatcher(semantic, l),
		ranking.NewDomainScorer(assessor, l),
		detector,
		l,
		config.Ranking.Concurrency,
	)

	ranked, err := ranker.Rank(ctx, requirement, candidates)
	if err != nil {
		return fmt.Errorf("ranking candidates: %w", err)
	}

	fmt.Printf("Ranked candidates for %q:\n", requirement.Title)
	for _, candidate := range ranked {
		fmt.Printf("%3d. %-24s %.1f (skills %.1f, experience %.1f, activity %.1f, domain %.1f)\n",
			candidate.Rank, candidate.Candidate.Username, candidate.TotalScore,
			candidate.SkillScore, candidate.ExperienceScore, candidate.ActivityScore, candidate.DomainScore,
		)
	}

	autoApprove, _ := cmd.Flags().GetBool("auto-approve")
	generator := outreach.New(writer, l, config.Outreach.FallbackMessage)

	topN := config.Outreach.TopN
	if topN > len(ranked) {
		topN = len(ranked)
	}

	if autoApprove {
		if !config.Outreach.Enabled {
			return nil
		}
		printMessages(generator.ForCandidates(ctx, requirement, ranked, topN))
		return nil
	}

	return interactiveLoop(ctx, requirement, candidates, ranked[:topN], generator)
}

func interactiveLoop(ctx context.Context, requirement *job.Requirement, candidates *github.Candidates, top []*ranking.RankedCandidate, generator *outreach.Generator) error {
	prompt := promptui.Select{
		Label: "Action",
		Items: []string{actionReview, actionReport, actionDump, actionQuit},
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) {
				return nil
			}
			return fmt.Errorf("prompt failed: %w", err)
		}

		switch action {
		case actionReview:
			if err := reviewCandidates(ctx, requirement, top, generator); err != nil {
				return err
			}
		case actionReport:
			for location, usernames := range candidates.ReportByLocation() {
				fmt.Printf("%s: %s\n", location, strings.Join(usernames, ", "))
			}
		case actionDump:
			path, err := candidates.DumpToTmpFile()
			if err != nil {
				return fmt.Errorf("dumping candidates: %w", err)
			}
			fmt.Printf("candidates written to %s\n", path)
		case actionQuit:
			return nil
		}
	}
}

func reviewCandidates(ctx context.Context, requirement *job.Requirement, top []*ranking.RankedCandidate, generator *outreach.Generator) error {
	for _, candidate := range top {
		prompt := promptui.Select{
			Label: fmt.Sprintf("%s (rank %d, score %.1f)", candidate.Candidate.Username, candidate.Rank, candidate.TotalScore),
			Items: []string{actionOutreach, actionBreakdown, actionSkip, actionQuit},
		}

		for {
			_, action, err := prompt.Run()
			if err != nil {
				if errors.Is(err, promptui.ErrInterrupt) {
					return nil
				}
				return fmt.Errorf("prompt failed: %w", err)
			}

			switch action {
			case actionOutreach:
				printMessages(generator.ForCandidates(ctx, requirement, []*ranking.RankedCandidate{candidate}, 1))
			case actionBreakdown:
				printBreakdown(candidate)
				continue
			case actionSkip:
			case actionQuit:
				return nil
			}

			break
		}
	}

	return nil
}

func printBreakdown(candidate *ranking.RankedCandidate) {
	b := candidate.Breakdown
	fmt.Printf("  matched skills: %s\n", strings.Join(b.MatchedSkills, ", "))
	fmt.Printf("  missing skills: %s\n", strings.Join(b.MissingSkills, ", "))
	fmt.Printf("  experience:     %s\n", b.ExperienceReasoning)
	fmt.Printf("  activity:       %s\n", b.ActivityReasoning)
	if b.DomainReasoning != "" {
		fmt.Printf("  domain:         %s\n", b.DomainReasoning)
	}
}

func printMessages(messages []outreach.Message) {
	for _, message := range messages {
		fmt.Printf("--- outreach for %s", message.Username)
		if message.Fallback {
			fmt.Print(" (fallback)")
		}
		fmt.Printf(" ---\n%s\n", message.Text)
	}
}
