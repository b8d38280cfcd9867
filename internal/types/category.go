package types

import (
  "fmt"
  "strings"
)

// Category is the engagement category a recovery point belongs to. It is a
// closed set; anything else is rejected before persistence.
type Category string

const (
  CategoryMovement  Category = "Movement"
  CategoryLifestyle Category = "Lifestyle"
  CategoryMindset   Category = "Mindset"
  CategoryEducation Category = "Education"
  CategoryAdherence Category = "Adherence"
)

func AllCategories() []Category {
  return []Category{CategoryMovement, CategoryLifestyle, CategoryMindset, CategoryEducation, CategoryAdherence}
}

func ParseCategory(raw string) (Category, error) {
  switch strings.ToLower(strings.TrimSpace(raw)) {
  case "movement":
    return CategoryMovement, nil
  case "lifestyle":
    return CategoryLifestyle, nil
  case "mindset":
    return CategoryMindset, nil
  case "education":
    return CategoryEducation, nil
  case "adherence":
    return CategoryAdherence, nil
  default:
    return "", fmt.Errorf("unknown category %q", raw)
  }
}

// Domain is an SRS sub-domain that buffer credit accumulates toward.
type Domain string

const (
  DomainFunction   Domain = "function"
  DomainPain       Domain = "pain"
  DomainConfidence Domain = "confidence"
  DomainBeliefs    Domain = "beliefs"
)

func AllDomains() []Domain {
  return []Domain{DomainFunction, DomainPain, DomainConfidence, DomainBeliefs}
}

func ParseDomain(raw string) (Domain, error) {
  switch strings.ToLower(strings.TrimSpace(raw)) {
  case "function":
    return DomainFunction, nil
  case "pain":
    return DomainPain, nil
  case "confidence":
    return DomainConfidence, nil
  case "beliefs":
    return DomainBeliefs, nil
  default:
    return "", fmt.Errorf("unknown domain %q", raw)
  }
}
