package selector

import (
	"fmt"

	"github.com/ZebulonRouseFrantzich/qbdifetch/internal/release"
)

// NoMatchError reports that no asset satisfied any rule.
type NoMatchError struct {
	Tag   string
	Count int
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no matching asset in release %s (%d assets examined)", e.Tag, e.Count)
}

// Select returns the first asset, in list order, matched by the highest
// priority rule that matches anything. tag is only used for error reporting.
func Select(tag string, assets []release.Asset, rules Rules) (release.Asset, error) {
	asset, _, err := SelectWithRule(tag, assets, rules)
	return asset, err
}

// SelectWithRule is Select that also reports which rule chose the asset.
func SelectWithRule(tag string, assets []release.Asset, rules Rules) (release.Asset, Matcher, error) {
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		for _, a := range assets {
			if rule.Match(a.Name) {
				return a, rule, nil
			}
		}
	}
	return release.Asset{}, nil, &NoMatchError{Tag: tag, Count: len(assets)}
}
