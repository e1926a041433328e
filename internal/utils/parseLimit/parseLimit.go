package utils

import "strconv"

func ParseLimit(s string) int {
	limit, err := strconv.Atoi(s)
	if err != nil || limit <= 0 {
		return 0
	}

	return limit
}

func ParsePage(s string) int {
	page, err := strconv.Atoi(s)
	if err != nil || page < 0 {
		return 0
	}

	return page
}
