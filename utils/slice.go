package utils

// UniqueStrings removes duplicate values from a slice of strings, keeping first occurrences in order.
func UniqueStrings(slice []string) []string {
	keys := make(map[string]bool, len(slice))
	list := []string{}
	for _, entry := range slice {
		if _, value := keys[entry]; !value {
			keys[entry] = true
			list = append(list, entry)
		}
	}
	return list
}
