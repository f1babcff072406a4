package engine

type LetterStatus string

const (
	StatusCorrect LetterStatus = "correct"
	StatusPresent LetterStatus = "present"
	StatusAbsent  LetterStatus = "absent"
)

type LetterResult struct {
	Letter string       `json:"letter"`
	Status LetterStatus `json:"status"`
}

// Evaluate scores guess against target position by position. Callers
// guarantee equal lengths; extra guess positions are reported absent.
//
// Pass 1 marks exact matches and consumes those target letters. Pass 2
// walks the remaining positions and takes the first unconsumed occurrence
// of the letter in the target, so duplicate letters are never credited more
// often than the target contains them.
func Evaluate(guess, target string) []LetterResult {
	res := make([]LetterResult, len(guess))
	used := make([]bool, len(target))

	for i := 0; i < len(guess); i++ {
		res[i] = LetterResult{Letter: string(guess[i]), Status: StatusAbsent}
		if i < len(target) && guess[i] == target[i] {
			res[i].Status = StatusCorrect
			used[i] = true
		}
	}

	for i := 0; i < len(guess); i++ {
		if res[i].Status == StatusCorrect {
			continue
		}
		for j := 0; j < len(target); j++ {
			if !used[j] && guess[i] == target[j] {
				res[i].Status = StatusPresent
				used[j] = true
				break
			}
		}
	}
	return res
}

// Solved reports whether every letter of an evaluation is correct.
func Solved(res []LetterResult) bool {
	if len(res) == 0 {
		return false
	}
	for _, r := range res {
		if r.Status != StatusCorrect {
			return false
		}
	}
	return true
}
