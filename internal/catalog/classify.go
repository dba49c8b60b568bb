// Package catalog turns flat bank lists into the vendor/instrument folder
// hierarchy the remote UI browses, and carries the search and selection
// logic over that hierarchy.
package catalog

import (
	"regexp"
	"strings"
)

// libraryRule maps a leading name pattern to a library folder. Rules are
// evaluated strictly in order and the first match wins, so exact vendor
// codes must stay above the looser patterns that share their first letters
// (NICRQ above NI, BBCSO above BBC, and so on). Reordering this table
// changes classification results.
type libraryRule struct {
	prefix  *regexp.Regexp
	library string
	// large libraries get a second-level instrument folder split
	large bool
}

var libraryRules = []libraryRule{
	// Native Instruments. NICRQ (Cremona Quartet) ahead of bare NI.
	{regexp.MustCompile(`^NICRQ\s+`), "Native Instruments", false},
	{regexp.MustCompile(`^NISS\s+`), "Native Instruments", false},
	{regexp.MustCompile(`^NI\s+`), "Native Instruments", false},

	// Spitfire Audio. BBCSO and the symphony ranges are large catalogs.
	{regexp.MustCompile(`^BBCSO\s+`), "Spitfire BBC SO", true},
	{regexp.MustCompile(`^BBC SO\s+`), "Spitfire BBC SO", true},
	{regexp.MustCompile(`^SSO\s+`), "Spitfire Symphony", true},
	{regexp.MustCompile(`^SSS\s+`), "Spitfire Symphonic Strings", true},
	{regexp.MustCompile(`^SSB\s+`), "Spitfire Symphonic Brass", true},
	{regexp.MustCompile(`^SSW\s+`), "Spitfire Symphonic Woodwinds", true},
	{regexp.MustCompile(`^SCS\s+`), "Spitfire Chamber Strings", true},
	{regexp.MustCompile(`^SStS\s+`), "Spitfire Studio Strings", true},
	{regexp.MustCompile(`^LCO\s+`), "Spitfire LCO", false},
	{regexp.MustCompile(`^SA\s+`), "Spitfire Audio", false},
	{regexp.MustCompile(`^SF\s+`), "Spitfire Audio", false},
	{regexp.MustCompile(`^Spitfire\s+`), "Spitfire Audio", false},

	// Orchestral Tools. Berlin series is the large flagship range.
	{regexp.MustCompile(`^BER\s+`), "OT Berlin", true},
	{regexp.MustCompile(`^Berlin\s+`), "OT Berlin", true},
	{regexp.MustCompile(`^MET\s+`), "OT Metropolis Ark", false},
	{regexp.MustCompile(`^TIME\s+`), "OT Time", false},
	{regexp.MustCompile(`^OT\s+`), "Orchestral Tools", false},

	// Cinematic Studio Series. Single-section libraries, each covers one
	// family, so no instrument split.
	{regexp.MustCompile(`^CSS\s+`), "Cinematic Studio Strings", false},
	{regexp.MustCompile(`^CSSS\s+`), "Cinematic Studio Solo Strings", false},
	{regexp.MustCompile(`^CSB\s+`), "Cinematic Studio Brass", false},
	{regexp.MustCompile(`^CSW\s+`), "Cinematic Studio Winds", false},
	{regexp.MustCompile(`^CSP\s+`), "Cinematic Studio Piano", false},

	// Vienna Symphonic Library.
	{regexp.MustCompile(`^Synchron\s+`), "VSL Synchron", true},
	{regexp.MustCompile(`^SYzd\s+`), "VSL Synchronized", true},
	{regexp.MustCompile(`^VSL\s+`), "Vienna Symphonic Library", true},

	// EastWest.
	{regexp.MustCompile(`^HOOPUS\s+`), "EastWest Hollywood Orchestra", true},
	{regexp.MustCompile(`^HO\s+`), "EastWest Hollywood Orchestra", true},
	{regexp.MustCompile(`^EW\s+`), "EastWest", false},

	// 8Dio. Century brass/strings are big enough to split.
	{regexp.MustCompile(`^Century\s+`), "8Dio Century", true},
	{regexp.MustCompile(`^8Dio\s+`), "8Dio", false},
	{regexp.MustCompile(`^8DM\s+`), "8Dio", false},

	// Audio Imperia.
	{regexp.MustCompile(`^Nucleus\s+`), "Audio Imperia Nucleus", true},
	{regexp.MustCompile(`^Jaeger\s+`), "Audio Imperia Jaeger", false},
	{regexp.MustCompile(`^AI\s+`), "Audio Imperia", false},

	// Cinesamples.
	{regexp.MustCompile(`^CineStrings\s+`), "Cinesamples CineStrings", false},
	{regexp.MustCompile(`^CineBrass\s+`), "Cinesamples CineBrass", false},
	{regexp.MustCompile(`^CineWinds\s+`), "Cinesamples CineWinds", false},
	{regexp.MustCompile(`^CinePerc\s+`), "Cinesamples CinePerc", false},
	{regexp.MustCompile(`^Cine\s+`), "Cinesamples", false},

	// Audiobro.
	{regexp.MustCompile(`^LASS\s+`), "Audiobro LA Scoring Strings", false},
	{regexp.MustCompile(`^MSB\s+`), "Audiobro Modern Scoring Brass", false},

	// Strezov Sampling.
	{regexp.MustCompile(`^Afflatus\s+`), "Strezov Afflatus", true},
	{regexp.MustCompile(`^Strezov\s+`), "Strezov Sampling", false},

	// Aaron Venture.
	{regexp.MustCompile(`^Infinite\s+`), "Aaron Venture Infinite", true},

	// Heavyocity.
	{regexp.MustCompile(`^NOVO\s+`), "Heavyocity NOVO", false},
	{regexp.MustCompile(`^Forzo\s+`), "Heavyocity FORZO", false},
	{regexp.MustCompile(`^HY\s+`), "Heavyocity", false},

	// ProjectSAM.
	{regexp.MustCompile(`^SSP\s+`), "ProjectSAM Symphobia", false},
	{regexp.MustCompile(`^Symphobia\s+`), "ProjectSAM Symphobia", false},

	// Performance Samples.
	{regexp.MustCompile(`^Pacific\s+`), "Performance Samples Pacific", true},
	{regexp.MustCompile(`^Oceania\s+`), "Performance Samples Oceania", false},

	// Misc single-product vendors.
	{regexp.MustCompile(`^Genesis\s+`), "Audiobro Genesis", false},
	{regexp.MustCompile(`^Sonokinetic\s+`), "Sonokinetic", false},
	{regexp.MustCompile(`^Embertone\s+`), "Embertone", false},
	{regexp.MustCompile(`^ISW\s+`), "Impact Soundworks", false},
	{regexp.MustCompile(`^Palette\s+`), "Red Room Audio Palette", false},
	{regexp.MustCompile(`^MSS\s+`), "Musical Sampling", false},
}

// genericCodeRe is the fallback when no vendor rule fires: a leading
// all-caps alphanumeric token of 2-8 characters is treated as an unknown
// library code.
var genericCodeRe = regexp.MustCompile(`^([A-Z][A-Z0-9]{1,7})\s+(\S.*)$`)

// catchAllFolder collects banks whose names give no grouping hint at all.
const catchAllFolder = "Other"

// Classify derives the folder path for a bank name. The last element is
// the leaf display label, everything before it is the folder chain. It is
// total and deterministic: every name yields a non-empty path, and the
// same name always yields the same path.
func Classify(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return []string{catchAllFolder, "(unnamed)"}
	}

	for _, rule := range libraryRules {
		loc := rule.prefix.FindStringIndex(name)
		if loc == nil {
			continue
		}
		rest := strings.TrimSpace(name[loc[1]:])
		if rest == "" {
			// Nothing left after the vendor code; keep the raw name as
			// the label so the leaf is never blank.
			rest = name
		}
		if rule.large {
			if instrument, ok := extractInstrument(rest); ok {
				return []string{rule.library, instrument, rest}
			}
		}
		return []string{rule.library, rest}
	}

	if m := genericCodeRe.FindStringSubmatch(name); m != nil {
		return []string{m[1], strings.TrimSpace(m[2])}
	}

	return []string{catchAllFolder, name}
}

// ordinalRe strips a leading section ordinal ("1st", "2", "II") before
// instrument matching so "1st Violins" and "Violins 1" land together.
var ordinalRe = regexp.MustCompile(`^(?:\d+(?:st|nd|rd|th)?|[IVX]{1,4})\s+`)

// instrumentRule matches an instrument token inside the post-prefix
// remainder. Full-word rules run before abbreviation rules; abbreviations
// that collide with ordinary words (a bare "CB") stay case-sensitive while
// the unambiguous ones match any case.
type instrumentRule struct {
	re     *regexp.Regexp
	folder string
}

var instrumentWordRules = []instrumentRule{
	{regexp.MustCompile(`(?i)\bviolins?\b`), "Violins"},
	{regexp.MustCompile(`(?i)\bviolas?\b`), "Violas"},
	{regexp.MustCompile(`(?i)\b(?:cellos?|celli|violoncellos?)\b`), "Cellos"},
	{regexp.MustCompile(`(?i)\b(?:contrabass(?:es)?|double\s+bass(?:es)?|upright\s+bass(?:es)?|bass(?:es)?)\b`), "Basses"},
	{regexp.MustCompile(`(?i)\bhorns?\b`), "Horns"},
	{regexp.MustCompile(`(?i)\btrumpets?\b`), "Trumpets"},
	{regexp.MustCompile(`(?i)\btrombones?\b`), "Trombones"},
	{regexp.MustCompile(`(?i)\b(?:tubas?|cimbasso)\b`), "Tubas"},
	{regexp.MustCompile(`(?i)\b(?:flutes?|piccolo)\b`), "Flutes"},
	{regexp.MustCompile(`(?i)\b(?:oboes?|cor\s+anglais|english\s+horn)\b`), "Oboes"},
	{regexp.MustCompile(`(?i)\bclarinets?\b`), "Clarinets"},
	{regexp.MustCompile(`(?i)\b(?:bassoons?|contrabassoon)\b`), "Bassoons"},
	{regexp.MustCompile(`(?i)\bharps?\b`), "Harp"},
	{regexp.MustCompile(`(?i)\btimpani\b`), "Timpani"},
	{regexp.MustCompile(`(?i)\bpercussion\b`), "Percussion"},
	{regexp.MustCompile(`(?i)\b(?:choir|chorus)\b`), "Choir"},
	{regexp.MustCompile(`(?i)\b(?:piano|celeste|celesta)\b`), "Piano"},
	{regexp.MustCompile(`(?i)\bstrings\b`), "Strings"},
	{regexp.MustCompile(`(?i)\bbrass\b`), "Brass"},
	{regexp.MustCompile(`(?i)\b(?:woodwinds?|winds)\b`), "Woodwinds"},
}

var instrumentAbbrevRules = []instrumentRule{
	{regexp.MustCompile(`(?i)\bvlns?\b`), "Violins"},
	{regexp.MustCompile(`(?i)\bvln\d\b`), "Violins"},
	{regexp.MustCompile(`(?i)\bvlas?\b`), "Violas"},
	{regexp.MustCompile(`(?i)\b(?:vcs?|vcl)\b`), "Cellos"},
	// Bare CB collides with prose ("Century Brass CB a3"), exact case only.
	{regexp.MustCompile(`\bCB\b`), "Basses"},
	{regexp.MustCompile(`(?i)\bkb\b`), "Basses"},
	{regexp.MustCompile(`(?i)\bhns?\b`), "Horns"},
	{regexp.MustCompile(`(?i)\btpts?\b`), "Trumpets"},
	{regexp.MustCompile(`(?i)\btbns?\b`), "Trombones"},
	{regexp.MustCompile(`(?i)\btba\b`), "Tubas"},
	{regexp.MustCompile(`(?i)\bfls?\b`), "Flutes"},
	{regexp.MustCompile(`(?i)\bpicc\b`), "Flutes"},
	{regexp.MustCompile(`(?i)\bobs?\b`), "Oboes"},
	{regexp.MustCompile(`(?i)\bcls?\b`), "Clarinets"},
	{regexp.MustCompile(`(?i)\bbsns?\b`), "Bassoons"},
	{regexp.MustCompile(`(?i)\bhrp\b`), "Harp"},
	{regexp.MustCompile(`(?i)\btimp\b`), "Timpani"},
	{regexp.MustCompile(`(?i)\bperc\b`), "Percussion"},
	{regexp.MustCompile(`(?i)\bpno\b`), "Piano"},
	{regexp.MustCompile(`(?i)\bstr\b`), "Strings"},
	{regexp.MustCompile(`(?i)\bww\b`), "Woodwinds"},
}

// extractInstrument finds the instrument folder inside the post-prefix
// remainder of a large-library bank name. Cascade: strip a leading
// ordinal, try full-word names, then try abbreviations anywhere in the
// remainder. First hit wins; no hit means the caller stays at two levels.
func extractInstrument(rest string) (string, bool) {
	rest = ordinalRe.ReplaceAllString(rest, "")

	for _, rule := range instrumentWordRules {
		if rule.re.MatchString(rest) {
			return rule.folder, true
		}
	}
	for _, rule := range instrumentAbbrevRules {
		if rule.re.MatchString(rest) {
			return rule.folder, true
		}
	}
	return "", false
}
