// Package score pulls the numeric recommendation score out of synthesis text.
package score

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/telemetry"
)

var (
	ErrLabelNotFound = errors.New("score label not found")
	ErrNoDigits      = errors.New("score token has no digits")
)

// Labels the synthesis prompt may produce, matched case-insensitively.
var labels = []string{
	"recommendation score:",
	"추천 점수:",
}

// Parse returns the integer following the first score label. Non-digit
// characters in the first token are dropped, so "**87**" and "87점" both give 87.
// Values are not clamped, but must fit the 32-bit score column.
func Parse(text string) (int, error) {
	lower := strings.ToLower(text)
	idx, labelLen := -1, 0
	for _, label := range labels {
		if i := strings.Index(lower, label); i >= 0 && (idx < 0 || i < idx) {
			idx, labelLen = i, len(label)
		}
	}
	if idx < 0 {
		return 0, ErrLabelNotFound
	}

	fields := strings.Fields(lower[idx+labelLen:])
	if len(fields) == 0 {
		return 0, ErrNoDigits
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, fields[0])
	if digits == "" {
		return 0, ErrNoDigits
	}
	n, err := strconv.ParseInt(digits, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse score %q: %w", digits, err)
	}
	return int(n), nil
}

// Extract is Parse with the failure mapped to 0. The anomaly is logged and counted.
func Extract(text string, logger *zap.Logger) int {
	n, err := Parse(text)
	if err != nil {
		if logger != nil {
			logger.Warn("score extraction failed",
				zap.Error(err),
				zap.String("text", telemetry.TruncateForLog(text, 120)),
			)
		}
		metrics.IncScoreAnomaly()
		return 0
	}
	return n
}
