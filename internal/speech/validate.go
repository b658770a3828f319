package speech

import (
	"fmt"
	"strings"
)

// ValidateText checks that text contains something to speak
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}
	return nil
}
