package cmd

import "strings"

// labelSeparator splits the --label value. A lone comma without the space
// is part of a label name.
const labelSeparator = ", "

// parseLabels splits raw into label names, keeping order and duplicates.
// An empty value yields a single label with an empty name.
func parseLabels(raw string) []string {
	return strings.Split(raw, labelSeparator)
}
