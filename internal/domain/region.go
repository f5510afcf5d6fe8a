package domain

import (
	"regexp"
	"strings"
)

// Verdict is the region decision for a geocoding result.
type Verdict string

const (
	VerdictUnknown      Verdict = "unknown"
	VerdictInEngland    Verdict = "in_england"
	VerdictNotInEngland Verdict = "not_in_england"
)

var (
	englandRe = regexp.MustCompile(`(?i)\bEngland\b`)

	// ukCountryRe is deliberately unanchored: "UK" anywhere in the country
	// name counts.
	ukCountryRe = regexp.MustCompile(`(?i)United Kingdom|UK`)

	otherNationRe = regexp.MustCompile(`(?i)\bScotland\b|\bWales\b|\bNorthern Ireland\b|\bNI\b`)
)

// regionRule is one step of the classification chain. match reports whether
// the rule decides the address; accept is the decision when it does.
type regionRule struct {
	name   string
	match  func(a *Address) bool
	accept bool
}

// regionRules is evaluated in order; the first matching rule decides.
// The missing-address rule is handled before the chain runs.
var regionRules = []regionRule{
	{
		name:   "formatted_address_england",
		match:  func(a *Address) bool { return englandRe.MatchString(a.FormattedAddress) },
		accept: true,
	},
	{
		name: "country_code_not_gb",
		match: func(a *Address) bool {
			return a.CountryRegionISO2 != "" && strings.ToUpper(a.CountryRegionISO2) != "GB"
		},
		accept: false,
	},
	{
		name: "country_not_uk",
		match: func(a *Address) bool {
			return a.CountryRegion != "" && !ukCountryRe.MatchString(a.CountryRegion)
		},
		accept: false,
	},
	{
		name:   "admin_district_england",
		match:  func(a *Address) bool { return englandRe.MatchString(a.AdminDistrict) },
		accept: true,
	},
	{
		name: "other_uk_nation",
		match: func(a *Address) bool {
			return otherNationRe.MatchString(a.FormattedAddress) ||
				otherNationRe.MatchString(a.AdminDistrict) ||
				otherNationRe.MatchString(a.Subdivision)
		},
		accept: false,
	},
}

const (
	ruleMissingAddress = "missing_address"
	ruleDefaultAccept  = "default_accept"
)

// IsInEngland reports whether res should be accepted as a place in England.
func IsInEngland(res *GeocodeResult) bool {
	v, _ := ExplainRegion(res)
	return v == VerdictInEngland
}

// Classify is IsInEngland as a Verdict. It is VerdictUnknown only when there
// is no address data at all.
func Classify(res *GeocodeResult) Verdict {
	v, _ := ExplainRegion(res)
	return v
}

// ExplainRegion returns the verdict together with the name of the rule that
// decided it.
func ExplainRegion(res *GeocodeResult) (Verdict, string) {
	if res == nil || res.Address == nil {
		return VerdictUnknown, ruleMissingAddress
	}
	for _, r := range regionRules {
		if r.match(res.Address) {
			if r.accept {
				return VerdictInEngland, r.name
			}
			return VerdictNotInEngland, r.name
		}
	}
	return VerdictInEngland, ruleDefaultAccept
}
