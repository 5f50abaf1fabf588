// Package classify maps commodity codes to coarse category labels.
package classify

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrUnknown is returned for a code the classifier has no label for.
var ErrUnknown = errors.New("unknown commodity category")

// Classifier predicts a category label for a commodity code.
type Classifier interface {
	Predict(code string) (string, error)
}

// ChapterTable labels codes by their two digit HS chapter.
type ChapterTable map[string]string

// Predict looks up the chapter of code. Single digit chapters are zero padded,
// as are seven digit codes that lost their leading zero.
func (t ChapterTable) Predict(code string) (string, error) {
	chapter, err := chapterOf(code)
	if err != nil {
		return "", err
	}
	label, ok := t[chapter]
	if !ok {
		return "", fmt.Errorf("%w: chapter %s", ErrUnknown, chapter)
	}
	return label, nil
}

// Chapters returns the labelled chapters in ascending order.
func (t ChapterTable) Chapters() []string {
	return slices.Sorted(maps.Keys(t))
}

func chapterOf(code string) (string, error) {
	switch len(code) {
	case 0:
		return "", fmt.Errorf("%w: empty code", ErrUnknown)
	case 1, 7:
		code = "0" + code
	}
	for _, r := range code[:2] {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q is not a commodity code", ErrUnknown, code)
		}
	}
	return code[:2], nil
}

// DefaultChapters covers the HS sections most trade files are dominated by.
var DefaultChapters = ChapterTable{
	"01": "Live animals",
	"03": "Fish and crustaceans",
	"22": "Beverages",
	"27": "Mineral fuels",
	"30": "Pharmaceutical products",
	"39": "Plastics",
	"44": "Wood",
	"61": "Apparel, knitted",
	"62": "Apparel, not knitted",
	"72": "Iron and steel",
	"84": "Machinery",
	"85": "Electrical equipment",
	"87": "Vehicles",
	"90": "Optical and medical instruments",
	"94": "Furniture",
}
