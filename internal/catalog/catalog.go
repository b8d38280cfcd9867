package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/backtolife/backtolife-backend/internal/types"
)

// Entry is one awardable self-care action.
type Entry struct {
	Category types.Category `yaml:"category"`
	Action   string         `yaml:"action"`
	Points   int            `yaml:"points"`
}

// BufferRule maps a category's accepted points onto one SRS sub-domain.
// Every PointsPerQuantum accepted points become one 0.25 buffer increment,
// clamped to MaxBuffer for the domain.
type BufferRule struct {
	Domain           types.Domain `yaml:"domain"`
	PointsPerQuantum int          `yaml:"points_per_quantum"`
	MaxBuffer        float64      `yaml:"max_buffer"`
}

// Threshold is the 28-day rolling point total that flags a patient for manual
// clinical re-assessment in a domain.
type Threshold struct {
	Category    types.Category `yaml:"category"`
	Points      int            `yaml:"points"`
	Flag        string         `yaml:"flag"`
	Description string         `yaml:"description"`
}

// QuantumIncrement is the fixed buffer credit produced by one full quantum of
// points.
const QuantumIncrement = 0.25

// EducationMicroLessonAction has a fixed daily cap instead of the usual
// one-full-award-per-action-per-day rule.
const (
	EducationMicroLessonAction   = "Watch micro-lesson"
	educationMicroLessonDailyCap = 5
)

type Catalog struct {
	entries     []Entry
	weeklyCaps  map[types.Category]int
	bufferRules map[types.Category]BufferRule
	thresholds  map[types.Domain]Threshold
}

// Default returns the deploy-time catalog. Values are immutable configuration;
// a YAML file (see Load) may override caps, quanta and thresholds per
// environment.
func Default() *Catalog {
	return &Catalog{
		entries: []Entry{
			{Category: types.CategoryMovement, Action: "Complete prescribed exercises", Points: 3},
			{Category: types.CategoryMovement, Action: "Daily walk", Points: 2},
			{Category: types.CategoryMovement, Action: "Stretching session", Points: 2},
			{Category: types.CategoryLifestyle, Action: "Sleep 7+ hours", Points: 2},
			{Category: types.CategoryLifestyle, Action: "Hydration goal", Points: 1},
			{Category: types.CategoryLifestyle, Action: "Nutrition goal", Points: 2},
			{Category: types.CategoryMindset, Action: "Mindfulness session", Points: 2},
			{Category: types.CategoryMindset, Action: "Gratitude journal", Points: 1},
			{Category: types.CategoryEducation, Action: EducationMicroLessonAction, Points: 5},
			{Category: types.CategoryEducation, Action: "Read recovery article", Points: 2},
			{Category: types.CategoryAdherence, Action: "Morning check-in", Points: 1},
			{Category: types.CategoryAdherence, Action: "Evening check-in", Points: 1},
		},
		weeklyCaps: map[types.Category]int{
			types.CategoryMovement:  40,
			types.CategoryLifestyle: 40,
			types.CategoryMindset:   20,
			types.CategoryEducation: 25,
			types.CategoryAdherence: 15,
		},
		bufferRules: map[types.Category]BufferRule{
			types.CategoryMovement:  {Domain: types.DomainFunction, PointsPerQuantum: 25, MaxBuffer: 2.0},
			types.CategoryLifestyle: {Domain: types.DomainPain, PointsPerQuantum: 30, MaxBuffer: 1.5},
			types.CategoryMindset:   {Domain: types.DomainConfidence, PointsPerQuantum: 20, MaxBuffer: 1.5},
			types.CategoryEducation: {Domain: types.DomainBeliefs, PointsPerQuantum: 15, MaxBuffer: 1.0},
		},
		thresholds: map[types.Domain]Threshold{
			types.DomainFunction: {
				Category:    types.CategoryMovement,
				Points:      100,
				Flag:        "psfs_recheck",
				Description: "Re-measure PSFS; if improved by 2+ points, award 1.0 SRS point",
			},
			types.DomainPain: {
				Category:    types.CategoryLifestyle,
				Points:      80,
				Flag:        "vas_recheck",
				Description: "Re-measure VAS; if improved by 2+ cm, award 1.0 SRS point",
			},
			types.DomainConfidence: {
				Category:    types.CategoryMindset,
				Points:      60,
				Flag:        "confidence_recheck",
				Description: "Re-assess recovery confidence; if improved, award 0.5 SRS points",
			},
			types.DomainBeliefs: {
				Category:    types.CategoryEducation,
				Points:      40,
				Flag:        "beliefs_recheck",
				Description: "Re-screen recovery beliefs; if resolved, award 0.5 SRS points",
			},
		},
	}
}

// Entries returns the full action list (used for UI display and seeding).
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// LookupAction returns the catalog point value for a known (category, action)
// pair. Unknown actions are allowed (clinicians can assign custom tasks); the
// caller then supplies the point value itself.
func (c *Catalog) LookupAction(category types.Category, action string) (int, bool) {
	for _, e := range c.entries {
		if e.Category == category && e.Action == action {
			return e.Points, true
		}
	}
	return 0, false
}

// WeeklyCap returns the rolling 7-day cap for a category.
func (c *Catalog) WeeklyCap(category types.Category) (int, error) {
	cap, ok := c.weeklyCaps[category]
	if !ok {
		return 0, fmt.Errorf("no weekly cap configured for category %q", category)
	}
	return cap, nil
}

func (c *Catalog) WeeklyCaps() map[types.Category]int {
	out := make(map[types.Category]int, len(c.weeklyCaps))
	for k, v := range c.weeklyCaps {
		out[k] = v
	}
	return out
}

// DailyCap is the per-day ceiling for one action. For ordinary actions it
// equals the award value itself, which amounts to one full completion per
// action per day; education's micro-lesson carries a fixed override.
func (c *Catalog) DailyCap(category types.Category, action string, points int) int {
	if category == types.CategoryEducation && action == EducationMicroLessonAction {
		return educationMicroLessonDailyCap
	}
	return points
}

// BufferRule returns the conversion rule for a category. Categories without a
// rule (Adherence) accumulate no SRS credit.
func (c *Catalog) BufferRule(category types.Category) (BufferRule, bool) {
	rule, ok := c.bufferRules[category]
	return rule, ok
}

// Threshold returns the 28-day re-assessment threshold for a domain.
func (c *Catalog) Threshold(domain types.Domain) (Threshold, bool) {
	t, ok := c.thresholds[domain]
	return t, ok
}

func (c *Catalog) Thresholds() map[types.Domain]Threshold {
	out := make(map[types.Domain]Threshold, len(c.thresholds))
	for k, v := range c.thresholds {
		out[k] = v
	}
	return out
}

type overrideFile struct {
	WeeklyCaps  map[string]int        `yaml:"weekly_caps"`
	BufferRules map[string]BufferRule `yaml:"buffer_rules"`
	Thresholds  map[string]Threshold  `yaml:"thresholds"`
}

// Load builds the catalog, applying overrides from the YAML file at path when
// path is non-empty. Unknown category or domain keys in the file are rejected
// rather than ignored.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog override file: %w", err)
	}
	var of overrideFile
	if err := yaml.Unmarshal(raw, &of); err != nil {
		return nil, fmt.Errorf("parse catalog override file: %w", err)
	}
	for rawCat, cap := range of.WeeklyCaps {
		category, err := types.ParseCategory(rawCat)
		if err != nil {
			return nil, fmt.Errorf("catalog override weekly_caps: %w", err)
		}
		if cap <= 0 {
			return nil, fmt.Errorf("catalog override weekly_caps: cap for %q must be positive", category)
		}
		c.weeklyCaps[category] = cap
	}
	for rawCat, rule := range of.BufferRules {
		category, err := types.ParseCategory(rawCat)
		if err != nil {
			return nil, fmt.Errorf("catalog override buffer_rules: %w", err)
		}
		if rule.PointsPerQuantum <= 0 {
			return nil, fmt.Errorf("catalog override buffer_rules: quantum for %q must be positive", category)
		}
		if _, err := types.ParseDomain(string(rule.Domain)); err != nil {
			return nil, fmt.Errorf("catalog override buffer_rules: %w", err)
		}
		c.bufferRules[category] = rule
	}
	for rawDomain, t := range of.Thresholds {
		domain, err := types.ParseDomain(rawDomain)
		if err != nil {
			return nil, fmt.Errorf("catalog override thresholds: %w", err)
		}
		if _, err := types.ParseCategory(string(t.Category)); err != nil {
			return nil, fmt.Errorf("catalog override thresholds: %w", err)
		}
		c.thresholds[domain] = t
	}
	return c, nil
}
