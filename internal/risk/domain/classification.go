package domain

import (
	"fmt"
	"strings"
)

// Classification grades a risk's probability or impact.
type Classification string

const (
	VeryLow  Classification = "VERY_LOW"
	Low      Classification = "LOW"
	Medium   Classification = "MEDIUM"
	High     Classification = "HIGH"
	VeryHigh Classification = "VERY_HIGH"
)

// Classifications lists every level from lowest to highest.
var Classifications = []Classification{VeryLow, Low, Medium, High, VeryHigh}

// ParseClassification accepts only an exact level name.
func ParseClassification(s string) (Classification, error) {
	for _, c := range Classifications {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("domain: unknown classification %q", s)
}

// Rank orders levels, 0 for unknown values.
func (c Classification) Rank() int {
	for i, known := range Classifications {
		if c == known {
			return i + 1
		}
	}
	return 0
}

func (c Classification) Valid() bool { return c.Rank() > 0 }

// ClassificationList renders the levels as "A, B, C or D" for messages.
func ClassificationList() string {
	names := make([]string, len(Classifications))
	for i, c := range Classifications {
		names[i] = string(c)
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}
