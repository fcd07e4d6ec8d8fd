package classify

import (
	"fmt"
	"regexp"
	"strings"
)

// labelRule maps a keyword set to a label. Rules are evaluated in order;
// the first match wins.
type labelRule struct {
	label string
	words []string
}

func matchAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func firstMatch(text string, rules []labelRule, fallback string) string {
	for _, r := range rules {
		if matchAny(text, r.words) {
			return r.label
		}
	}
	return fallback
}

var solutionTypeRules = []labelRule{
	{"Innovation Catalysts", []string{"ai", "ml", "machine-learning", "machine learning", "bedrock", "agent", "llm", "genai"}},
	{"Compliance Accelerators", []string{"security", "compliance", "audit", "governance", "policy"}},
	{"Quick Wins", []string{"cost", "optimization", "performance", "tool", "utility"}},
	{"Operational Excellence", []string{"monitoring", "observability", "logging"}},
}

const defaultSolutionType = "Foundation Builders"

var marketingRules = []labelRule{
	{"setup", []string{"setup", "bootstrap", "quickstart", "quick-start", "getting-started", "install", "deployment"}},
	{"landingzone", []string{"landing-zone", "landingzone", "multi-account", "account-factory", "control-tower"}},
	{"starter", []string{"starter", "template", "boilerplate", "scaffold", "blueprint", "reference-architecture"}},
	{"optimise", []string{"optim", "performance", "cost", "efficiency", "tuning", "scaling"}},
	{"compliance", []string{"compliance", "security", "audit", "governance", "policy", "config-rules"}},
	{"improvement", []string{"improve", "enhance", "upgrade", "migration", "moderniz", "refactor"}},
	{"visibility", []string{"monitor", "observ", "dashboard", "metrics", "logging", "visibility", "insight"}},
	{"foundation", []string{"foundation", "infrastructure", "platform", "framework", "core", "base"}},
	{"readiness", []string{"ready", "prepar", "provision", "orchestrat", "automation"}},
	{"enablement", []string{"enable", "tool", "utility", "helper", "support", "assist"}},
	{"innovation", []string{"innovat", "ai", "ml", "machine-learning", "bedrock", "agent", "genai"}},
	{"assessment", []string{"assess", "analyz", "evaluat", "test", "benchmark", "profil"}},
	{"advisor", []string{"advisor", "intelligent", "smart", "recommend", "suggest"}},
	{"guidance", []string{"guidance", "guide", "tutorial", "workshop", "learn", "documentation"}},
}

const defaultMarketing = "enablement"

var competencyRules = []labelRule{
	{"Analytics", []string{"analytics", "data", "etl", "warehouse"}},
	{"Security", []string{"security", "iam", "encryption"}},
	{"DevOps", []string{"devops", "cicd", "pipeline", "deploy"}},
	{"AI/ML", []string{"ai", "ml", "machine learning", "machine-learning"}},
}

const defaultCompetency = "General"

// customerProblems names the pre-deployment problems each solution type
// addresses.
var customerProblems = map[string]string{
	"Compliance Accelerators": "Security Gaps, Compliance Burden, Audit Failures",
	"Innovation Catalysts":    "AI Implementation Complexity, Slow Time-to-Market, Competitive Disadvantage",
	"Quick Wins":              "High AWS Costs, Resource Waste, Manual Processes",
	"Operational Excellence":  "Monitoring Blindness, Manual Operations, System Downtime",
	"Foundation Builders":     "Infrastructure Complexity, Scalability Issues, Technical Debt",
}

var genaiWords = []string{"agent", "llm", "genai", "bedrock", "generative", "neural", "anthropic", "openai"}

// serviceNames maps detection keys to canonical AWS service names. Keys are
// matched on word boundaries so "s3" does not fire inside other words.
var serviceNames = map[string]string{
	"lambda":         "Lambda",
	"s3":             "S3",
	"dynamodb":       "DynamoDB",
	"kinesis":        "Kinesis",
	"redshift":       "Redshift",
	"eks":            "EKS",
	"ecs":            "ECS",
	"rds":            "RDS",
	"bedrock":        "Bedrock",
	"sagemaker":      "SageMaker",
	"cloudformation": "CloudFormation",
	"iam":            "IAM",
}

var servicePatterns = buildServicePatterns()

func buildServicePatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(serviceNames))
	for key := range serviceNames {
		patterns[key] = regexp.MustCompile(fmt.Sprintf(`\b%s\b`, key))
	}
	return patterns
}

func deploymentTools(name string) string {
	switch {
	case strings.Contains(name, "cdk"):
		return "CDK, CloudFormation"
	case strings.Contains(name, "lambda"):
		return "SAM, CloudFormation"
	case strings.Contains(name, "terraform"):
		return "Terraform"
	case strings.Contains(name, "docker"):
		return "Docker, Container"
	default:
		return "CloudFormation, Scripts"
	}
}

func deploymentLevel(name string) string {
	if matchAny(name, []string{"template", "cloudformation", "cdk"}) {
		return "Production-Ready"
	}
	return "Basic Setup"
}

func secondaryLanguages(primary string) string {
	switch {
	case strings.Contains(primary, "python"):
		return "JavaScript, Shell"
	case strings.Contains(primary, "javascript"):
		return "TypeScript, Python"
	case strings.Contains(primary, "java"):
		return "Python, Shell"
	default:
		return "Python, JavaScript"
	}
}

func frameworks(text string) string {
	var found []string
	if strings.Contains(text, "lambda") {
		found = append(found, "AWS Lambda")
	}
	if strings.Contains(text, "cdk") {
		found = append(found, "AWS CDK")
	}
	if strings.Contains(text, "sam") {
		found = append(found, "AWS SAM")
	}
	if strings.Contains(text, "docker") {
		found = append(found, "Docker")
	}
	if len(found) == 0 {
		return "AWS SDK"
	}
	return strings.Join(found, ", ")
}
