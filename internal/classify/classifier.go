package classify

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vietddude/orglens/internal/core/cache"
	"github.com/vietddude/orglens/internal/core/domain"
	"github.com/vietddude/orglens/internal/engine"
	"github.com/vietddude/orglens/internal/infra/github"
)

// Columns is the canonical field order for tabular output.
var Columns = []string{
	"repository",
	"url",
	"description",
	"created_date",
	"last_modified",
	"stars",
	"forks",
	"solution_type",
	"solution_marketing",
	"competency",
	"customer_problems",
	"deployment_tools",
	"deployment_level",
	"primary_language",
	"secondary_languages",
	"frameworks",
	"aws_services",
	"cost_range",
	"setup_time",
	"usp",
	"freshness_status",
	"days_since_update",
	"genai_agentic",
	"topics",
	"classified_at",
}

// readmeCap bounds how much of a README is kept for keyword matching.
const readmeCap = 3000

// MetadataSource supplies the secondary documents a classification may need
// beyond the repository record itself.
type MetadataSource interface {
	GetReadme(ctx context.Context, fullName string) (string, error)
	GetTopics(ctx context.Context, fullName string) ([]string, error)
}

// KeywordClassifier derives classification fields from repository metadata
// using keyword matching. READMEs and topic lists are fetched at most once
// per repository and reused across retries.
type KeywordClassifier struct {
	source  MetadataSource
	readmes *cache.Memo[string]
	topics  *cache.Memo[[]string]
	now     func() time.Time
	log     *slog.Logger
}

func NewKeywordClassifier(source MetadataSource, log *slog.Logger) *KeywordClassifier {
	if log == nil {
		log = slog.Default()
	}
	return &KeywordClassifier{
		source:  source,
		readmes: cache.NewMemo[string](),
		topics:  cache.NewMemo[[]string](),
		now:     time.Now,
		log:     log,
	}
}

// Classify builds the full classification record for a repository.
func (c *KeywordClassifier) Classify(ctx context.Context, repo *domain.Repo) (domain.Classification, error) {
	if strings.TrimSpace(repo.FullName) == "" {
		return nil, engine.Permanent(errors.New("repository has no identifier"))
	}

	desc, err := c.description(ctx, repo)
	if err != nil {
		return nil, err
	}
	topics, err := c.topicList(ctx, repo)
	if err != nil {
		return nil, err
	}

	name := strings.ToLower(repo.Name)
	text := strings.ToLower(repo.Name + " " + desc + " " + strings.Join(topics, " "))
	primary := strings.ToLower(repo.Language)

	solutionType := firstMatch(text, solutionTypeRules, defaultSolutionType)
	level := deploymentLevel(text)
	services := detectServices(text)
	days := daysSinceUpdate(repo.UpdatedAt, c.now())

	result := domain.Classification{
		"repository":          repo.FullName,
		"url":                 repo.URL,
		"description":         desc,
		"created_date":        repo.CreatedAt,
		"last_modified":       repo.UpdatedAt,
		"stars":               strconv.Itoa(repo.Stars),
		"forks":               strconv.Itoa(repo.Forks),
		"solution_type":       solutionType,
		"solution_marketing":  firstMatch(name, marketingRules, defaultMarketing),
		"competency":          firstMatch(text, competencyRules, defaultCompetency),
		"customer_problems":   customerProblems[solutionType],
		"deployment_tools":    deploymentTools(name),
		"deployment_level":    level,
		"primary_language":    repo.Language,
		"secondary_languages": secondaryLanguages(primary),
		"frameworks":          frameworks(text),
		"aws_services":        services,
		"cost_range":          costRange(services),
		"setup_time":          setupTime(level),
		"usp":                 uniqueSellingPoint(solutionType),
		"freshness_status":    freshness(days),
		"days_since_update":   strconv.Itoa(days),
		"genai_agentic":       yesNo(matchAny(text, genaiWords)),
		"topics":              strings.Join(topics, ", "),
		"classified_at":       c.now().UTC().Format(time.RFC3339),
	}
	return result, nil
}

// description prefers the repository's own description and falls back to a
// summary of its README.
func (c *KeywordClassifier) description(ctx context.Context, repo *domain.Repo) (string, error) {
	if strings.TrimSpace(repo.Description) != "" {
		return repo.Description, nil
	}
	readme, err := c.readmes.GetOrCompute(repo.FullName, func() (string, error) {
		c.log.Debug("Fetching readme for description fallback", "repo", repo.FullName)
		body, err := c.source.GetReadme(ctx, repo.FullName)
		if errors.Is(err, github.ErrNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return truncate(body, readmeCap), nil
	})
	if err != nil {
		return "", err
	}
	return summarize(readme), nil
}

func (c *KeywordClassifier) topicList(ctx context.Context, repo *domain.Repo) ([]string, error) {
	if len(repo.Topics) > 0 {
		return repo.Topics, nil
	}
	return c.topics.GetOrCompute(repo.FullName, func() ([]string, error) {
		topics, err := c.source.GetTopics(ctx, repo.FullName)
		if errors.Is(err, github.ErrNotFound) {
			return nil, nil
		}
		return topics, err
	})
}

// summarize extracts the first prose lines of a README, skipping headings,
// badges and images.
func summarize(readme string) string {
	var lines []string
	for _, line := range strings.Split(readme, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") || strings.HasPrefix(line, "[!") {
			continue
		}
		lines = append(lines, line)
		if len(lines) == 2 {
			break
		}
	}
	return truncate(strings.Join(lines, " "), 300)
}

// truncate caps s at max bytes without splitting a multi-byte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func detectServices(text string) string {
	var found []string
	for key, name := range serviceNames {
		if servicePatterns[key].MatchString(text) {
			found = append(found, name)
		}
	}
	if len(found) == 0 {
		return "General AWS"
	}
	sort.Strings(found)
	return strings.Join(found, ", ")
}

func costRange(services string) string {
	switch {
	case strings.Contains(services, "SageMaker") || strings.Contains(services, "Bedrock"):
		return "$500-5000/month"
	case strings.Contains(services, "Lambda") || strings.Contains(services, "S3"):
		return "$10-100/month"
	default:
		return "$50-500/month"
	}
}

func setupTime(level string) string {
	if level == "Production-Ready" {
		return "2-4 hours"
	}
	return "1-2 days"
}

func uniqueSellingPoint(solutionType string) string {
	switch solutionType {
	case "Compliance Accelerators":
		return "Automated Compliance"
	case "Innovation Catalysts":
		return "AI-Powered Innovation"
	case "Quick Wins":
		return "Immediate Cost Savings"
	case "Operational Excellence":
		return "Operational Visibility"
	default:
		return "Proven Architecture"
	}
}

func freshness(days int) string {
	switch {
	case days < 90:
		return "Active"
	case days < 365:
		return "Maintained"
	default:
		return "Stale"
	}
}

func daysSinceUpdate(updatedAt string, now time.Time) int {
	t, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return 0
	}
	days := int(now.Sub(t).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
