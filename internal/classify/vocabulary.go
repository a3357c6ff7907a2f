package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vocabulary holds the keyword tables the engine matches against. The
// compiled-in defaults can be replaced wholesale from a YAML file so
// vocabulary tuning does not require a redeploy.
type Vocabulary struct {
	TitleEntry     []string `yaml:"title_entry"`
	TitleMid       []string `yaml:"title_mid"`
	TitleSenior    []string `yaml:"title_senior"`
	TitleExecutive []string `yaml:"title_executive"`

	// Short executive signals ("vp", "cto", "gm") that need word-boundary
	// matching so they don't fire inside ordinary words.
	ExecutiveWordBoundary []string `yaml:"executive_word_boundary"`

	// Phrases that look like seniority indicators but aren't
	// ("senior living", "senior care", ...).
	SeniorBlocklist []string `yaml:"senior_blocklist"`

	// Quick-service/retail brands where "manager" titles are typically not
	// managerial in seniority.
	RetailServiceCompanies []string `yaml:"retail_service_companies"`

	DescEntry     []string `yaml:"description_entry"`
	DescMid       []string `yaml:"description_mid"`
	DescSenior    []string `yaml:"description_senior"`
	DescExecutive []string `yaml:"description_executive"`
}

func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		TitleEntry: []string{
			"intern", "internship", "entry level", "entry-level",
			"junior", "associate", "coordinator", "assistant",
			"trainee", "apprentice", "graduate", "early career",
			"new grad", "jr.", "jr ", "student", "fellowship",
			"residency", "resident",
		},
		TitleMid: []string{
			"specialist", "analyst", "manager", "lead",
			"supervisor", "experienced", "mid-level", "mid level",
			"team lead", "project manager",
		},
		TitleSenior: []string{
			"senior", "sr.", "sr ", "director", "head of", "principal",
			"staff engineer", "staff developer", "architect",
			"senior manager", "engineering manager",
		},
		TitleExecutive: []string{
			"vice president", "chief executive", "chief technology", "chief financial",
			"chief operating", "chief marketing", "chief information",
			"executive director", "svp", "evp", "general manager",
			"founder", "co-founder", "managing director",
		},
		ExecutiveWordBoundary: []string{
			"vp", "cto", "cfo", "ceo", "coo", "cmo", "cio", "president", "partner", "gm",
		},
		SeniorBlocklist: []string{
			"senior living", "senior care", "senior center", "senior community",
			"senior services", "senior citizen", "senior housing", "senior residence",
			"senior home", "senior wellness",
		},
		RetailServiceCompanies: []string{
			"mcdonald", "burger king", "wendy", "taco bell", "kfc",
			"subway", "starbucks", "dunkin", "chipotle", "chick-fil-a",
			"walmart", "target", "costco", "cvs", "walgreens",
			"dollar general", "dollar tree", "family dollar",
			"pizza hut", "domino", "papa john",
		},
		DescEntry: []string{
			"no experience required", "no experience necessary", "no experience needed",
			"no prior experience", "entry level position", "entry-level position",
			"recent graduate", "fresh graduate", "will train", "training provided",
			"learn on the job",
		},
		DescMid: []string{
			"manage a team", "lead a team", "team management",
			"2-3 years", "3-5 years", "proven track record",
		},
		DescSenior: []string{
			"report to the ceo", "report to the cto", "report to the cfo",
			"reports to ceo", "reports to cto", "report directly to",
			"extensive experience", "expert level", "deep expertise",
			"7+ years", "8+ years", "10+ years",
		},
		DescExecutive: []string{
			"board of directors", "c-suite", "executive team",
			"p&l responsibility", "profit and loss", "company strategy",
			"organizational strategy", "15+ years", "20+ years",
		},
	}
}

// LoadVocabulary reads a vocabulary file. Empty lists fall back to the
// defaults so a partial file only overrides what it names.
func LoadVocabulary(path string) (Vocabulary, error) {
	v := DefaultVocabulary()
	b, err := os.ReadFile(path)
	if err != nil {
		return v, fmt.Errorf("read vocabulary: %w", err)
	}
	var in Vocabulary
	if err := yaml.Unmarshal(b, &in); err != nil {
		return v, fmt.Errorf("parse vocabulary: %w", err)
	}
	merge := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	merge(&v.TitleEntry, in.TitleEntry)
	merge(&v.TitleMid, in.TitleMid)
	merge(&v.TitleSenior, in.TitleSenior)
	merge(&v.TitleExecutive, in.TitleExecutive)
	merge(&v.ExecutiveWordBoundary, in.ExecutiveWordBoundary)
	merge(&v.SeniorBlocklist, in.SeniorBlocklist)
	merge(&v.RetailServiceCompanies, in.RetailServiceCompanies)
	merge(&v.DescEntry, in.DescEntry)
	merge(&v.DescMid, in.DescMid)
	merge(&v.DescSenior, in.DescSenior)
	merge(&v.DescExecutive, in.DescExecutive)
	return v, nil
}
