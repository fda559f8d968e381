package auth

import "strings"

// NormalizeRoles maps raw role claim values to session roles by truncating
// each value at its first separator. A value without a separator is kept
// as-is, empty values are dropped, and duplicates after truncation collapse
// to the first occurrence. Order is preserved.
func NormalizeRoles(raw []string, separator string) []string {
	roles := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, value := range raw {
		role := value
		if separator != "" {
			if i := strings.Index(value, separator); i >= 0 {
				role = value[:i]
			}
		}
		if role == "" || seen[role] {
			continue
		}
		seen[role] = true
		roles = append(roles, role)
	}
	return roles
}
