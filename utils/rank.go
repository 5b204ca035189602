package utils

// AssignRanks maps a descending-sorted score slice to competition ranks:
// the first score gets rank 1, tied scores share a rank, and the next
// distinct score gets its 1-based position (so [100, 100, 90] ranks as
// [1, 1, 3] and rank 2 is skipped).
func AssignRanks(sortedScores []int) []int {
	ranks := make([]int, len(sortedScores))
	for i := range sortedScores {
		if i > 0 && sortedScores[i] == sortedScores[i-1] {
			ranks[i] = ranks[i-1]
		} else {
			ranks[i] = i + 1
		}
	}
	return ranks
}
