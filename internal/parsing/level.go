package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

var (
	// yearsExpRe matches "5-7 years", "3 to 5 years", "3+ years" and "5 years of".
	yearsExpRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s*\+?\s*(?:to|[-–])\s*(\d{1,2})\s*\+?\s*years?|\b(\d{1,2})\s*\+\s*years?|\b(\d{1,2})\s+years?\s+(?:of|experience)`)

	seniorLevelRe = regexp.MustCompile(`(?i)\b(senior|sr\.?|lead|principal|staff|architect)\b`)
	entryLevelRe  = regexp.MustCompile(`(?i)\b(junior|jr\.?|entry[- ]level|new grad|recent graduate|graduate program|intern|internship)\b`)
	midLevelRe    = regexp.MustCompile(`(?i)\b(mid[- ]level|mid|intermediate)\b`)
)

// maxPlausibleYears filters phrases like "100 years of history".
const maxPlausibleYears = 40

// requiredYears returns the largest minimum-years requirement stated in text.
// For a range the lower bound is the requirement.
func requiredYears(text string) (int, bool) {
	best, found := 0, false
	for _, m := range yearsExpRe.FindAllStringSubmatch(text, -1) {
		var raw string
		for _, g := range []string{m[1], m[3], m[4]} {
			if g != "" {
				raw = g
				break
			}
		}
		years, err := strconv.Atoi(raw)
		if err != nil || years > maxPlausibleYears {
			continue
		}
		if !found || years > best {
			best, found = years, true
		}
	}
	return best, found
}

func levelFromYears(years int) types.ExperienceLevel {
	switch {
	case years < 2:
		return types.LevelEntry
	case years < 5:
		return types.LevelMid
	default:
		return types.LevelSenior
	}
}

func levelFromKeywords(text string) (types.ExperienceLevel, bool) {
	switch {
	case seniorLevelRe.MatchString(text):
		return types.LevelSenior, true
	case entryLevelRe.MatchString(text):
		return types.LevelEntry, true
	case midLevelRe.MatchString(text):
		return types.LevelMid, true
	}
	return types.LevelUnspecified, false
}

// inferLevel prefers explicit years, then keywords in the title, then keywords anywhere.
func inferLevel(title, text string) types.ExperienceLevel {
	if years, ok := requiredYears(text); ok {
		return levelFromYears(years)
	}
	if level, ok := levelFromKeywords(title); ok {
		return level
	}
	if level, ok := levelFromKeywords(strings.ToLower(text)); ok {
		return level
	}
	return types.LevelUnspecified
}
