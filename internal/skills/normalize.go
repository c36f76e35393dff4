package skills

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// builtinCanonical maps well-known skill variants to their canonical display
// name. It is checked before the loaded alias config.
var builtinCanonical = map[string]string{
	"go":            "Go",
	"golang":        "Go",
	"python":        "Python",
	"python3":       "Python",
	"py":            "Python",
	"js":            "JavaScript",
	"javascript":    "JavaScript",
	"node":          "Node.js",
	"nodejs":        "Node.js",
	"node.js":       "Node.js",
	"ts":            "TypeScript",
	"typescript":    "TypeScript",
	"react":         "React",
	"reactjs":       "React",
	"react.js":      "React",
	"vue":           "Vue.js",
	"vuejs":         "Vue.js",
	"angular":       "Angular",
	"django":        "Django",
	"flask":         "Flask",
	"fastapi":       "FastAPI",
	"rails":         "Ruby on Rails",
	"ruby":          "Ruby",
	"rust":          "Rust",
	"java":          "Java",
	"kotlin":        "Kotlin",
	"swift":         "Swift",
	"c":             "C",
	"c++":           "C++",
	"cpp":           "C++",
	"c#":            "C#",
	"csharp":        "C#",
	"dotnet":        ".NET",
	".net":          ".NET",
	"php":           "PHP",
	"scala":         "Scala",
	"elixir":        "Elixir",
	"haskell":       "Haskell",
	"sql":           "SQL",
	"postgres":      "PostgreSQL",
	"postgresql":    "PostgreSQL",
	"mysql":         "MySQL",
	"sqlite":        "SQLite",
	"mongo":         "MongoDB",
	"mongodb":       "MongoDB",
	"redis":         "Redis",
	"kafka":         "Kafka",
	"rabbitmq":      "RabbitMQ",
	"docker":        "Docker",
	"k8s":           "Kubernetes",
	"kubernetes":    "Kubernetes",
	"terraform":     "Terraform",
	"ansible":       "Ansible",
	"aws":           "AWS",
	"gcp":           "Google Cloud",
	"google cloud":  "Google Cloud",
	"azure":         "Azure",
	"ci/cd":         "CI/CD",
	"cicd":          "CI/CD",
	"graphql":       "GraphQL",
	"grpc":          "gRPC",
	"rest":          "REST",
	"ml":            "Machine Learning",
	"machine learning": "Machine Learning",
	"deep learning": "Deep Learning",
	"pytorch":       "PyTorch",
	"tensorflow":    "TensorFlow",
	"pandas":        "Pandas",
	"numpy":         "NumPy",
	"spark":         "Apache Spark",
	"html":          "HTML",
	"css":           "CSS",
	"sass":          "Sass",
	"tailwind":      "Tailwind CSS",
	"tailwindcss":   "Tailwind CSS",
	"shell":         "Shell",
	"bash":          "Shell",
	"linux":         "Linux",
	"git":           "Git",
}

// NormalizeSkill maps a raw token to its canonical display name: the built-in
// table first, then the loaded alias config, falling back to title-casing the
// raw token.
func (t *AliasTable) NormalizeSkill(token string) string {
	key := strings.ToLower(strings.TrimSpace(token))
	if key == "" {
		return ""
	}

	if canonical, ok := builtinCanonical[key]; ok {
		return canonical
	}

	if t != nil {
		if canonical, ok := t.byVariant[key]; ok {
			return canonical
		}
	}

	return cases.Title(language.Und).String(key)
}

// lookupSkill resolves a token only when it maps to a known skill. Unknown
// tokens are not invented into skills; weak signals match known keywords only.
func (t *AliasTable) lookupSkill(token string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(token))
	if key == "" {
		return "", false
	}

	if canonical, ok := builtinCanonical[key]; ok {
		return canonical, true
	}

	if t != nil {
		if canonical, ok := t.byVariant[key]; ok {
			return canonical, true
		}
	}

	return "", false
}

// knownKeywords returns every variant and canonical spelling the table knows,
// for phrase matching against free text.
func (t *AliasTable) knownKeywords() map[string]string {
	keywords := make(map[string]string, len(builtinCanonical))
	for variant, canonical := range builtinCanonical {
		keywords[variant] = canonical
		keywords[strings.ToLower(canonical)] = canonical
	}
	if t != nil {
		for variant, canonical := range t.byVariant {
			keywords[variant] = canonical
			keywords[strings.ToLower(canonical)] = canonical
		}
	}
	return keywords
}

// tokenizeText lowers the text and collapses every non-alphanumeric run into
// a single space, keeping +, # and . which are significant in skill names.
func tokenizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(' ')
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		keep := unicode.IsLetter(r) || unicode.IsNumber(r) || r == '+' || r == '#' || r == '.'
		if keep {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	if !lastSpace {
		b.WriteByte(' ')
	}
	return b.String()
}

// containsPhrase reports whether the tokenized text contains the phrase on
// word boundaries.
func containsPhrase(tokenized, phrase string) bool {
	phrase = strings.TrimSpace(tokenizeText(phrase))
	if phrase == "" {
		return false
	}
	return strings.Contains(tokenized, " "+phrase+" ")
}
