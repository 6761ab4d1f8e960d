// Package mtlocale resolves, for a given locale, the CLDR cardinal
// plural categories that a fixed set of probe counts reaches and a
// representative integer count that selects each one. It is the core's stand-in for a
// full ICU plural-rules engine: no package in the example corpus exposes
// a public CLDR-category-for-locale-and-integer query, so the per-family
// rule formulas here are hand-written (see DESIGN.md), while locale tag
// parsing itself is delegated to golang.org/x/text/language.
package mtlocale

import (
	"github.com/translatewiki/banana-mt/mterr"
	"golang.org/x/text/language"
)

// Category is a CLDR cardinal plural category.
type Category int

const (
	Zero Category = iota
	One
	Two
	Few
	Many
	Other
)

func (c Category) String() string {
	switch c {
	case Zero:
		return "zero"
	case One:
		return "one"
	case Two:
		return "two"
	case Few:
		return "few"
	case Many:
		return "many"
	default:
		return "other"
	}
}

// canonicalOrder is the fixed order categories are reported in, per the
// core's contract: Zero, One, Two, Few, Many, Other.
var canonicalOrder = []Category{Zero, One, Two, Few, Many, Other}

// candidateValues are the representative integers tried for each
// expected category, in probe order. The lists mirror the reference
// implementation's own probe strategy.
var candidateValues = map[Category][]int{
	Zero:  {0},
	One:   {1, 21, 31, 41},
	Two:   {2, 22, 32},
	Few:   {3, 4, 23, 24},
	Many:  {5, 11, 101},
	Other: {6, 7, 8, 9, 10, 25, 100, 1000},
}

// PluralForm pairs a realized category with a test count that selects it.
type PluralForm struct {
	Category  Category
	TestCount int
}

// GenderCategories are the three GENDER forms, in the fixed order the
// core always uses. GENDER is language-independent, unlike PLURAL.
var GenderCategories = []string{"male", "female", "unknown"}

// cardinalRule computes the CLDR cardinal category for count n in the
// given base language.
type cardinalRule func(n int) Category

// ruleFor returns the cardinal rule for a base language code (already
// lowercased). Unrecognized languages default to the "other only" family,
// matching most analytic languages (Chinese, Japanese, Korean, ...)
// rather than failing: an unparseable locale is an InvalidLocale error,
// but a parseable locale with unknown plural rules is not.
func ruleFor(base string) cardinalRule {
	switch base {
	case "ru", "uk", "be", "sr", "hr", "bs":
		return slavicRule
	case "pl":
		return polishRule
	case "cs", "sk":
		return czechRule
	case "ar":
		return arabicRule
	case "cy":
		return welshRule
	case "lv":
		return latvianRule
	case "ro", "mo":
		return romanianRule
	case "lt":
		return lithuanianRule
	case "ga":
		return irishRule
	case "fr", "hy", "ff", "kab":
		return frenchRule
	case "en", "de", "nl", "sv", "da", "nb", "nn", "no", "it", "el", "fi", "hu",
		"es", "pt", "eu", "gl", "et", "sq", "bg", "ca", "af", "ast", "sw", "ur", "fa":
		return oneOtherRule
	case "ja", "zh", "ko", "vi", "th", "id", "ms", "km", "lo", "my", "yue", "bo":
		return otherOnlyRule
	default:
		return otherOnlyRule
	}
}

func otherOnlyRule(n int) Category { return Other }

func oneOtherRule(n int) Category {
	if n == 1 {
		return One
	}
	return Other
}

func frenchRule(n int) Category {
	if n == 0 || n == 1 {
		return One
	}
	return Other
}

func slavicRule(n int) Category {
	mod10, mod100 := n%10, n%100
	switch {
	case mod10 == 1 && mod100 != 11:
		return One
	case mod10 >= 2 && mod10 <= 4 && !(mod100 >= 12 && mod100 <= 14):
		return Few
	case mod10 == 0 || (mod10 >= 5 && mod10 <= 9) || (mod100 >= 11 && mod100 <= 14):
		return Many
	default:
		return Other
	}
}

func polishRule(n int) Category {
	if n == 1 {
		return One
	}
	mod10, mod100 := n%10, n%100
	if mod10 >= 2 && mod10 <= 4 && !(mod100 >= 12 && mod100 <= 14) {
		return Few
	}
	return Many
}

func czechRule(n int) Category {
	switch {
	case n == 1:
		return One
	case n >= 2 && n <= 4:
		return Few
	default:
		return Other
	}
}

func arabicRule(n int) Category {
	mod100 := n % 100
	switch {
	case n == 0:
		return Zero
	case n == 1:
		return One
	case n == 2:
		return Two
	case mod100 >= 3 && mod100 <= 10:
		return Few
	case mod100 >= 11 && mod100 <= 99:
		return Many
	default:
		return Other
	}
}

func welshRule(n int) Category {
	switch n {
	case 0:
		return Zero
	case 1:
		return One
	case 2:
		return Two
	case 3:
		return Few
	case 6:
		return Many
	default:
		return Other
	}
}

func latvianRule(n int) Category {
	mod10, mod100 := n%10, n%100
	switch {
	case n == 0:
		return Zero
	case mod10 == 1 && mod100 != 11:
		return One
	default:
		return Other
	}
}

func romanianRule(n int) Category {
	mod100 := n % 100
	switch {
	case n == 1:
		return One
	case n == 0 || (mod100 >= 1 && mod100 <= 19):
		return Few
	default:
		return Other
	}
}

func lithuanianRule(n int) Category {
	mod10, mod100 := n%10, n%100
	switch {
	case mod10 == 1 && !(mod100 >= 11 && mod100 <= 19):
		return One
	case mod10 >= 2 && mod10 <= 9 && !(mod100 >= 11 && mod100 <= 19):
		return Few
	default:
		return Other
	}
}

func irishRule(n int) Category {
	switch {
	case n == 1:
		return One
	case n == 2:
		return Two
	case n >= 3 && n <= 6:
		return Few
	case n >= 7 && n <= 10:
		return Many
	default:
		return Other
	}
}

// PluralCategories returns, for locale, each CLDR plural category that one
// of that category's candidateValues falls in, with the first such value
// as its test count, always in canonical order (Zero, One, Two, Few, Many,
// Other). A category that none of its candidate values reaches is not
// reported (Welsh "many", selected only by 6, is one). It fails with an
// mterr.KindInvalidLocale error if locale does not parse.
func PluralCategories(locale string) ([]PluralForm, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, mterr.Wrapf(mterr.KindInvalidLocale, err, "locale %q does not parse", locale)
	}
	base, _ := tag.Base()
	rule := ruleFor(base.String())

	var forms []PluralForm
	for _, expected := range canonicalOrder {
		for _, n := range candidateValues[expected] {
			if rule(n) == expected {
				forms = append(forms, PluralForm{Category: expected, TestCount: n})
				break
			}
		}
	}
	return forms, nil
}
