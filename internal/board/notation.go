package board

import (
	"fmt"
	"strings"
)

// ParseMove reads coordinate notation such as "e2e4" or "e7e8q".
// promo is NoKind when no suffix is given.
func ParseMove(s string) (from, to Square, promo Kind, err error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 5 {
		return from, to, NoKind, fmt.Errorf("invalid move %q: expected 4 or 5 characters", s)
	}
	if from, err = ParseSquare(s[0:2]); err != nil {
		return from, to, NoKind, fmt.Errorf("invalid move %q: %w", s, err)
	}
	if to, err = ParseSquare(s[2:4]); err != nil {
		return from, to, NoKind, fmt.Errorf("invalid move %q: %w", s, err)
	}
	if len(s) == 5 {
		if promo, err = ParsePromotion(s[4]); err != nil {
			return from, to, NoKind, fmt.Errorf("invalid move %q: %w", s, err)
		}
	}
	return from, to, promo, nil
}

// FormatMove is the inverse of ParseMove
func FormatMove(from, to Square, promo Kind) string {
	s := from.String() + to.String()
	if promo.IsPromotionTarget() {
		s += strings.ToLower(string(promo.Letter()))
	}
	return s
}
