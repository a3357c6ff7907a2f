// Package classify maps a normalized job posting to an experience-level tier
// and audience tags using a weighted multi-signal scorer.
package classify

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

type Level string

const (
	LevelEntry     Level = "ENTRY"
	LevelMid       Level = "MID"
	LevelSenior    Level = "SENIOR"
	LevelExecutive Level = "EXECUTIVE"
)

var levelOrder = []Level{LevelEntry, LevelMid, LevelSenior, LevelExecutive}

// Audience tags used by the downstream platform feeds.
const (
	TagGenZ      = "genz"
	TagMidCareer = "mid_career"
	TagSenior    = "senior"
	TagExecutive = "executive"
)

func AudienceTags(level Level) []string {
	switch level {
	case LevelEntry:
		return []string{TagGenZ}
	case LevelSenior:
		return []string{TagSenior}
	case LevelExecutive:
		return []string{TagExecutive}
	default:
		return []string{TagMidCareer}
	}
}

type YearsRange struct {
	Min int
	Max int
}

// Signals records which heuristics fired; kept for debuggability only.
type Signals struct {
	TitleMatch         string
	YearsRequired      *YearsRange
	SalaryBand         string
	DescriptionSignals []string
}

type Result struct {
	Level      Level
	Tags       []string
	Confidence float64
	Signals    Signals
}

type Input struct {
	Title       string
	Description string
	SalaryMin   int
	SalaryMax   int
	Company     string
}

// Signal weights. Titles are the strongest signal, description phrases the
// weakest.
const (
	weightTitle  = 10
	weightYears  = 8
	weightSalary = 5
	weightDesc   = 3
)

type Engine struct {
	vocab        Vocabulary
	execBoundary []*regexp.Regexp
}

func NewEngine(v Vocabulary) *Engine {
	e := &Engine{vocab: v}
	for _, sig := range v.ExecutiveWordBoundary {
		e.execBoundary = append(e.execBoundary,
			regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(sig)+`\b`))
	}
	return e
}

// Classify scores the four signals into level buckets and picks the winner.
// Ties default to MID. Confidence is winning score over total contributed
// weight, scaled down 10% when only one signal fired, floored at 0.3 when
// nothing fired.
func (e *Engine) Classify(in Input) Result {
	var sig Signals
	scores := map[Level]int{}
	totalWeight := 0

	if level, match := e.titleLevel(in.Title); level != "" {
		scores[level] += weightTitle
		totalWeight += weightTitle
		sig.TitleMatch = match
	}

	if years := ParseYearsRequired(in.Description); years != nil {
		scores[yearsToLevel(*years)] += weightYears
		totalWeight += weightYears
		sig.YearsRequired = years
	}

	if level := salaryToLevel(in.SalaryMin, in.SalaryMax); level != "" {
		scores[level] += weightSalary
		totalWeight += weightSalary
		sig.SalaryBand = salaryBand(in.SalaryMin, in.SalaryMax)
	}

	if level, matches := e.descriptionLevel(in.Description); level != "" {
		scores[level] += weightDesc
		totalWeight += weightDesc
		sig.DescriptionSignals = matches
	}

	winner := LevelMid
	maxScore := 0
	for _, level := range levelOrder {
		if scores[level] > maxScore {
			maxScore = scores[level]
			winner = level
		}
	}

	confidence := 0.3
	if totalWeight > 0 {
		confidence = float64(maxScore) / float64(totalWeight)
		fired := 0
		for _, s := range scores {
			if s > 0 {
				fired++
			}
		}
		if fired == 1 {
			confidence *= 0.9
		}
	}
	confidence = math.Round(confidence*100) / 100

	tags := AudienceTags(winner)

	// Ambiguous calls get dual-tagged instead of forcing a single audience.
	if confidence < 0.5 && totalWeight > 0 {
		type ls struct {
			level Level
			score int
		}
		var ranked []ls
		for _, level := range levelOrder {
			if scores[level] > 0 {
				ranked = append(ranked, ls{level, scores[level]})
			}
		}
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
		if len(ranked) >= 2 && ranked[0].score-ranked[1].score <= 3 {
			tags = unionTags(tags, AudienceTags(ranked[1].level))
		}
	}

	return Result{Level: winner, Tags: tags, Confidence: confidence, Signals: sig}
}

// ClassifyWithCompany layers the retail/service disambiguation on top of
// Classify: at quick-service and retail brands, "manager" titles (but never
// "general manager") with entry-band or absent salary are forced to ENTRY.
func (e *Engine) ClassifyWithCompany(in Input) Result {
	base := e.Classify(in)

	if in.Company == "" || !e.isRetailServiceCompany(in.Company) {
		return base
	}
	title := strings.ToLower(in.Title)
	if !strings.Contains(title, "manager") || strings.Contains(title, "general manager") {
		return base
	}
	if level := salaryToLevel(in.SalaryMin, in.SalaryMax); level != "" && level != LevelEntry {
		return base
	}

	base.Level = LevelEntry
	base.Tags = []string{TagGenZ}
	if base.Confidence < 0.7 {
		base.Confidence = 0.7
	}
	base.Signals.DescriptionSignals = append(base.Signals.DescriptionSignals,
		"retail/service manager context")
	return base
}

// titleLevel runs the ordered keyword lookup: blocklist first, then
// executive (word-boundary, then phrases), senior, entry, mid. First match
// wins.
func (e *Engine) titleLevel(title string) (Level, string) {
	lower := strings.ToLower(title)

	if e.isSeniorBlocklisted(lower) {
		for _, sig := range e.vocab.TitleEntry {
			if strings.Contains(lower, sig) {
				return LevelEntry, sig
			}
		}
		return LevelMid, "senior (care context)"
	}

	for i, re := range e.execBoundary {
		if re.MatchString(lower) {
			return LevelExecutive, e.vocab.ExecutiveWordBoundary[i]
		}
	}
	for _, sig := range e.vocab.TitleExecutive {
		if strings.Contains(lower, sig) {
			return LevelExecutive, sig
		}
	}
	for _, sig := range e.vocab.TitleSenior {
		if strings.Contains(lower, sig) {
			return LevelSenior, sig
		}
	}
	for _, sig := range e.vocab.TitleEntry {
		if strings.Contains(lower, sig) {
			return LevelEntry, sig
		}
	}
	for _, sig := range e.vocab.TitleMid {
		if strings.Contains(lower, sig) {
			return LevelMid, sig
		}
	}
	return "", ""
}

// descriptionLevel scans phrase lists in priority order
// EXECUTIVE > SENIOR > ENTRY > MID; the first level with any hit wins and
// all its matched phrases are recorded.
func (e *Engine) descriptionLevel(description string) (Level, []string) {
	lower := strings.ToLower(description)

	collect := func(sigs []string) []string {
		var matches []string
		for _, sig := range sigs {
			if strings.Contains(lower, sig) {
				matches = append(matches, sig)
			}
		}
		return matches
	}

	if m := collect(e.vocab.DescExecutive); len(m) > 0 {
		return LevelExecutive, m
	}
	if m := collect(e.vocab.DescSenior); len(m) > 0 {
		return LevelSenior, m
	}
	if m := collect(e.vocab.DescEntry); len(m) > 0 {
		return LevelEntry, m
	}
	if m := collect(e.vocab.DescMid); len(m) > 0 {
		return LevelMid, m
	}
	return "", nil
}

func (e *Engine) isSeniorBlocklisted(lowerTitle string) bool {
	for _, phrase := range e.vocab.SeniorBlocklist {
		if strings.Contains(lowerTitle, phrase) {
			return true
		}
	}
	return false
}

func (e *Engine) isRetailServiceCompany(company string) bool {
	lower := strings.ToLower(company)
	for _, name := range e.vocab.RetailServiceCompanies {
		if strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

func yearsToLevel(y YearsRange) Level {
	avg := float64(y.Min+y.Max) / 2
	switch {
	case avg <= 2:
		return LevelEntry
	case avg <= 5:
		return LevelMid
	case avg <= 10:
		return LevelSenior
	default:
		return LevelExecutive
	}
}

// salaryToLevel maps a USD-annual midpoint onto the canonical banding.
func salaryToLevel(min, max int) Level {
	mid := salaryMidpoint(min, max)
	switch {
	case mid == 0:
		return ""
	case mid < 60000:
		return LevelEntry
	case mid < 100000:
		return LevelMid
	case mid < 200000:
		return LevelSenior
	default:
		return LevelExecutive
	}
}

func salaryBand(min, max int) string {
	switch salaryToLevel(min, max) {
	case LevelEntry:
		return "<$60k (entry)"
	case LevelMid:
		return "$60k-$100k (mid)"
	case LevelSenior:
		return "$100k-$200k (senior)"
	case LevelExecutive:
		return ">$200k (executive)"
	default:
		return ""
	}
}

func salaryMidpoint(min, max int) float64 {
	switch {
	case min > 0 && max > 0:
		return float64(min+max) / 2
	case min > 0:
		return float64(min)
	case max > 0:
		return float64(max)
	default:
		return 0
	}
}

func unionTags(a, b []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range append(append([]string{}, a...), b...) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
